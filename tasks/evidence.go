package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"alfredoramos.mx/survivor-hub/helpers"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
)

const (
	TaskEvidencePurge string = "evidence:purge"
)

func HandleEvidencePurgeTask(ctx context.Context, t *asynq.Task) error {
	purged, err := helpers.PurgeExpiredEvidence()
	if err != nil {
		sentry.CaptureException(err)
		return fmt.Errorf("Could not purge expired evidence: %w", err)
	}

	if purged > 0 {
		slog.Info(fmt.Sprintf("Purged %d expired evidence files.", purged))
	}

	return nil
}
