package controllers

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowReader yields the stream in tiny chunks so events arrive split across
// reads, the way a real upstream delivers them.
type slowReader struct {
	data []byte
	pos  int
	step int
}

func (r *slowReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}

	end := r.pos + r.step
	if end > len(r.data) {
		end = len(r.data)
	}

	n := copy(p, r.data[r.pos:end])
	r.pos += n

	return n, nil
}

func relayToString(t *testing.T, upstream io.Reader) string {
	t.Helper()

	var sb strings.Builder
	require.NoError(t, RelayEventStream(&sb, upstream))

	return sb.String()
}

func TestRelayEventStreamForwardsData(t *testing.T) {
	t.Parallel()

	upstream := "data: {\"delta\":\"Hel\"}\n\ndata: {\"delta\":\"lo\"}\n\ndata: [DONE]\n\n"
	out := relayToString(t, strings.NewReader(upstream))

	assert.Equal(t, upstream, out)
}

func TestRelayEventStreamSkipsCommentsAndBlanks(t *testing.T) {
	t.Parallel()

	upstream := ": keep-alive\n\n\ndata: {\"delta\":\"hi\"}\n\n: another comment\ndata: [DONE]\n\n"
	out := relayToString(t, strings.NewReader(upstream))

	assert.Equal(t, "data: {\"delta\":\"hi\"}\n\ndata: [DONE]\n\n", out)
	assert.NotContains(t, out, "keep-alive")
}

func TestRelayEventStreamStopsAtDoneSentinel(t *testing.T) {
	t.Parallel()

	upstream := "data: {\"delta\":\"hi\"}\n\ndata: [DONE]\n\ndata: {\"delta\":\"never\"}\n\n"
	out := relayToString(t, strings.NewReader(upstream))

	assert.NotContains(t, out, "never")
	assert.True(t, strings.HasSuffix(out, "data: [DONE]\n\n"))
}

func TestRelayEventStreamHandlesChunkedDelivery(t *testing.T) {
	t.Parallel()

	upstream := "data: {\"delta\":\"split across reads\"}\n\ndata: [DONE]\n\n"

	for _, step := range []int{1, 2, 3, 7} {
		out := relayToString(t, &slowReader{data: []byte(upstream), step: step})
		assert.Equal(t, upstream, out, "step=%d", step)
	}
}

func TestRelayEventStreamIgnoresNonDataFields(t *testing.T) {
	t.Parallel()

	upstream := "event: ping\nid: 42\ndata: {\"delta\":\"hi\"}\n\ndata: [DONE]\n\n"
	out := relayToString(t, strings.NewReader(upstream))

	assert.Equal(t, "data: {\"delta\":\"hi\"}\n\ndata: [DONE]\n\n", out)
}

func TestRelayEventStreamEmptyUpstream(t *testing.T) {
	t.Parallel()

	out := relayToString(t, strings.NewReader(""))
	assert.Empty(t, out)
}

func TestRelayEventStreamFromHTTPUpstream(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")

		flusher, ok := w.(http.Flusher)
		require.True(t, ok)

		for _, word := range []string{"stay", "safe"} {
			fmt.Fprintf(w, "data: {\"delta\":%q}\n\n", word)
			flusher.Flush()
		}

		fmt.Fprint(w, ": keep-alive\n\ndata: [DONE]\n\n")
	}))
	defer upstream.Close()

	resp, err := http.Get(upstream.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	var sb strings.Builder
	require.NoError(t, RelayEventStream(&sb, resp.Body))

	out := sb.String()
	assert.Contains(t, out, "data: {\"delta\":\"stay\"}\n\n")
	assert.Contains(t, out, "data: {\"delta\":\"safe\"}\n\n")
	assert.NotContains(t, out, "keep-alive")
	assert.True(t, strings.HasSuffix(out, "data: [DONE]\n\n"))
}

func TestSystemPromptLanguage(t *testing.T) {
	t.Parallel()

	assert.Contains(t, systemPrompt(""), "Always answer in English.")
	assert.Contains(t, systemPrompt("en"), "Always answer in English.")
	assert.Contains(t, systemPrompt("sw"), "Always answer in Swahili.")
}

func TestMapUpstreamStatus(t *testing.T) {
	t.Parallel()

	status, msg := MapUpstreamStatus(http.StatusTooManyRequests)
	assert.Equal(t, fiber.StatusTooManyRequests, status)
	assert.Contains(t, msg, "too many requests")

	status, _ = MapUpstreamStatus(http.StatusUnauthorized)
	assert.Equal(t, fiber.StatusBadGateway, status)

	status, _ = MapUpstreamStatus(http.StatusPaymentRequired)
	assert.Equal(t, fiber.StatusBadGateway, status)

	status, _ = MapUpstreamStatus(http.StatusInternalServerError)
	assert.Equal(t, fiber.StatusBadGateway, status)
}
