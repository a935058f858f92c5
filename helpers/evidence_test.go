package helpers

import (
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"strings"
	"testing"

	"alfredoramos.mx/survivor-hub/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(name string, contentType string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: name,
		Size:     size,
		Header: textproto.MIMEHeader{
			"Content-Type": []string{contentType},
		},
	}
}

func TestIsAllowedEvidenceType(t *testing.T) {
	t.Parallel()

	assert.True(t, IsAllowedEvidenceType(fileHeader("a.png", "image/png", 1)))
	assert.True(t, IsAllowedEvidenceType(fileHeader("a.jpg", "image/jpeg", 1)))
	assert.True(t, IsAllowedEvidenceType(fileHeader("a.webp", "image/webp", 1)))
	assert.True(t, IsAllowedEvidenceType(fileHeader("a.pdf", "application/pdf", 1)))
	assert.True(t, IsAllowedEvidenceType(fileHeader("a.pdf", "Application/PDF", 1)))

	assert.False(t, IsAllowedEvidenceType(fileHeader("a.exe", "application/octet-stream", 1)))
	assert.False(t, IsAllowedEvidenceType(fileHeader("a.html", "text/html", 1)))
	assert.False(t, IsAllowedEvidenceType(fileHeader("a.mp4", "video/mp4", 1)))
	assert.False(t, IsAllowedEvidenceType(fileHeader("a.png", "", 1)))
}

func TestEvidenceStoragePathScopedToReport(t *testing.T) {
	t.Parallel()

	reportID := uuid.New()
	p := EvidenceStoragePath(reportID, "screenshot.PNG")

	dir, name := filepath.Split(p)
	assert.Equal(t, reportID.String(), filepath.Clean(dir))
	assert.True(t, strings.HasSuffix(name, ".png"), "extension should be kept lowercased, got %q", name)

	base := strings.TrimSuffix(name, ".png")
	_, err := uuid.Parse(base)
	require.NoError(t, err, "stored basename should be a random UUID, got %q", base)
}

func TestEvidenceStoragePathHidesOriginalName(t *testing.T) {
	t.Parallel()

	reportID := uuid.New()

	p1 := EvidenceStoragePath(reportID, "my-real-name.jpg")
	p2 := EvidenceStoragePath(reportID, "my-real-name.jpg")

	assert.NotContains(t, p1, "my-real-name")
	assert.NotEqual(t, p1, p2, "same upload name must never map to the same blob")
}

func TestEvidenceStoragePathDropsBogusExtensions(t *testing.T) {
	t.Parallel()

	reportID := uuid.New()

	noExt := EvidenceStoragePath(reportID, "evidence")
	_, err := uuid.Parse(filepath.Base(noExt))
	assert.NoError(t, err)

	longExt := EvidenceStoragePath(reportID, "evidence."+strings.Repeat("x", 32))
	_, err = uuid.Parse(filepath.Base(longExt))
	assert.NoError(t, err, "oversized extensions are dropped entirely")
}

func TestCapEvidenceFilesUnderLimit(t *testing.T) {
	t.Parallel()

	files := []*multipart.FileHeader{
		fileHeader("a.png", "image/png", 1),
		fileHeader("b.png", "image/png", 1),
	}

	kept, dropped := CapEvidenceFiles(files)
	assert.Len(t, kept, 2)
	assert.Empty(t, dropped)
}

func TestCapEvidenceFilesReportsDroppedNames(t *testing.T) {
	t.Parallel()

	files := []*multipart.FileHeader{}
	for i := 0; i < MaxEvidenceFiles+2; i++ {
		files = append(files, fileHeader(string(rune('a'+i))+".png", "image/png", 1))
	}

	kept, dropped := CapEvidenceFiles(files)
	assert.Len(t, kept, MaxEvidenceFiles)
	assert.Equal(t, []string{"f.png", "g.png"}, dropped)

	// The dropped names feed the partial-failure surface of the response.
	result := EvidenceResult{}
	result.Failed = append(result.Failed, dropped...)
	assert.True(t, result.IsPartial())
}

func TestEvidenceResultIsPartial(t *testing.T) {
	t.Parallel()

	assert.False(t, EvidenceResult{}.IsPartial())
	assert.False(t, EvidenceResult{Saved: []models.EvidenceFile{{FileName: "a.png"}}}.IsPartial())
	assert.True(t, EvidenceResult{Failed: []string{"b.exe"}}.IsPartial())
	assert.True(t, EvidenceResult{
		Saved:  []models.EvidenceFile{{FileName: "a.png"}},
		Failed: []string{"b.exe"},
	}.IsPartial())
}
