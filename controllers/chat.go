package controllers

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"alfredoramos.mx/survivor-hub/utils"
	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

const (
	chatUpstreamTimeout        = 2 * time.Minute
	maxChatMessages     int    = 50
	doneSentinel        string = "[DONE]"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatInput struct {
	Messages []chatMessage `json:"messages"`
	Language string        `json:"language"`
}

type chatUpstreamRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// The system prompt keeps the assistant scoped to supportive guidance and
// pins the answer language. The upstream never sees who is asking; no
// identifiers leave the relay.
const systemPromptBase = "You are a supportive assistant for survivors of online abuse. " +
	"Offer practical safety guidance, explain how to document and report abuse, and point to professional support. " +
	"You are not a therapist or a lawyer; say so when asked for either."

func systemPrompt(language string) string {
	if language == "sw" {
		return systemPromptBase + " Always answer in Swahili."
	}

	return systemPromptBase + " Always answer in English."
}

// RelayEventStream copies an upstream SSE body to the client one event at a
// time. Blank keep-alives and comment lines are dropped, data lines are
// forwarded verbatim and the stream ends at the done sentinel even when the
// upstream keeps the connection open.
func RelayEventStream(w io.Writer, upstream io.Reader) error {
	scanner := bufio.NewScanner(upstream)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()

		if len(strings.TrimSpace(line)) < 1 || strings.HasPrefix(line, ":") {
			continue
		}

		payload, found := strings.CutPrefix(line, "data: ")
		if !found {
			continue
		}

		if strings.TrimSpace(payload) == doneSentinel {
			if _, err := fmt.Fprintf(w, "data: %s\n\n", doneSentinel); err != nil {
				return err
			}

			return nil
		}

		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return err
		}

		if f, ok := w.(interface{ Flush() error }); ok {
			if err := f.Flush(); err != nil {
				return err
			}
		}
	}

	return scanner.Err()
}

// MapUpstreamStatus translates an upstream failure into the status and
// message shown to the client. Provider account problems are the operator's
// fault, not the caller's, so they surface as a bad gateway.
func MapUpstreamStatus(code int) (int, string) {
	switch code {
	case http.StatusTooManyRequests:
		return fiber.StatusTooManyRequests, "The assistant is receiving too many requests. Please, try again in a moment."
	case http.StatusUnauthorized, http.StatusPaymentRequired:
		return fiber.StatusBadGateway, "The assistant is not available right now."
	default:
		return fiber.StatusBadGateway, "The assistant could not process the request."
	}
}

// PostChatCompletion relays a chat conversation to the configured upstream
// and streams the answer back as server-sent events.
func PostChatCompletion(c *fiber.Ctx) error {
	input := &chatInput{}
	if err := c.BodyParser(&input); err != nil {
		slog.Error(fmt.Sprintf("Error parsing input data: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Invalid chat data."},
		})
	}

	if len(input.Messages) < 1 || len(input.Messages) > maxChatMessages {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": utils.AddError(fiber.Map{}, "messages", "Please, provide the conversation messages."),
		})
	}

	if len(input.Language) > 0 && input.Language != "en" && input.Language != "sw" {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": utils.AddError(fiber.Map{}, "language", "The requested language is not supported."),
		})
	}

	messages := []chatMessage{{Role: "system", Content: systemPrompt(input.Language)}}

	for _, m := range input.Messages {
		if m.Role != "user" && m.Role != "assistant" {
			return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
				"error": utils.AddError(fiber.Map{}, "messages", "The conversation roles are invalid."),
			})
		}

		if len(strings.TrimSpace(m.Content)) < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
				"error": utils.AddError(fiber.Map{}, "messages", "The conversation messages are invalid."),
			})
		}

		messages = append(messages, m)
	}

	apiKey := os.Getenv("CHAT_UPSTREAM_API_KEY")
	if len(apiKey) < 1 {
		slog.Error("The chat upstream API key is not configured.")
		return c.Status(fiber.StatusBadGateway).JSON(&fiber.Map{
			"error": []string{"The assistant is not available right now."},
		})
	}

	body, err := json.Marshal(&chatUpstreamRequest{
		Model:    utils.ChatModel(),
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		sentry.CaptureException(err)
		return c.Status(fiber.StatusInternalServerError).JSON(&fiber.Map{
			"error": []string{"Could not process the conversation."},
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), chatUpstreamTimeout)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, utils.ChatUpstreamURL(), bytes.NewReader(body))
	if err != nil {
		cancel()
		sentry.CaptureException(err)
		return c.Status(fiber.StatusInternalServerError).JSON(&fiber.Map{
			"error": []string{"Could not process the conversation."},
		})
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		cancel()
		sentry.CaptureException(err)
		slog.Error(fmt.Sprintf("Error contacting chat upstream: %v", err))
		return c.Status(fiber.StatusBadGateway).JSON(&fiber.Map{
			"error": []string{"The assistant is not available right now."},
		})
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		defer cancel()

		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		slog.Error(fmt.Sprintf("Chat upstream returned HTTP '%d': %s", resp.StatusCode, string(errBody)))

		status, msg := MapUpstreamStatus(resp.StatusCode)

		return c.Status(status).JSON(&fiber.Map{
			"error": []string{msg},
		})
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		defer resp.Body.Close()

		if err := RelayEventStream(w, resp.Body); err != nil {
			slog.Error(fmt.Sprintf("Error relaying chat stream: %v", err))
		}
	}))

	return nil
}
