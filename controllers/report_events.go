package controllers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"alfredoramos.mx/survivor-hub/app"
	"alfredoramos.mx/survivor-hub/models"
	"alfredoramos.mx/survivor-hub/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

const eventKeepAliveInterval = 30 * time.Second

type reportEvent struct {
	Action     string    `json:"action"`
	ReportID   uuid.UUID `json:"report_id"`
	TrackingID string    `json:"tracking_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

func publishReportEvent(action string, report *models.Report, status string) {
	body, err := json.Marshal(&reportEvent{
		Action:     action,
		ReportID:   report.ID,
		TrackingID: report.TrackingID,
		Status:     status,
		OccurredAt: time.Now().In(utils.DefaultLocation()),
	})
	if err != nil {
		slog.Error(fmt.Sprintf("Error encoding report event: %v", err))
		return
	}

	app.ReportEvents().Publish(string(body))
}

// GetReportEvents streams report changes to moderation views as server-sent
// events, so open admin lists refresh on push instead of polling.
func GetReportEvents(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	sub := app.ReportEvents().Subscribe()

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer app.ReportEvents().Unsubscribe(sub)

		keepAlive := time.NewTicker(eventKeepAliveInterval)
		defer keepAlive.Stop()

		for {
			select {
			case event, ok := <-sub:
				if !ok {
					return
				}

				if _, err := fmt.Fprintf(w, "data: %s\n\n", event); err != nil {
					return
				}

				if err := w.Flush(); err != nil {
					return
				}
			case <-keepAlive.C:
				// The comment line keeps proxies from closing an idle stream
				// and surfaces a gone client through the write error.
				if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
					return
				}

				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}
