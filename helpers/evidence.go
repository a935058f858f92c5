package helpers

import (
	"fmt"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"alfredoramos.mx/survivor-hub/app"
	"alfredoramos.mx/survivor-hub/models"
	"alfredoramos.mx/survivor-hub/utils"
	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	mibMultiplier   int64 = 1024 * 1024
	maxEvidenceSize int64 = 10 * mibMultiplier

	MaxEvidenceFiles int = 5
)

// EvidenceResult reports how a batch of uploads went. Evidence is additive:
// a failed file never rolls the report back, but the submitter must hear
// about it.
type EvidenceResult struct {
	Saved  []models.EvidenceFile
	Failed []string
}

func (r EvidenceResult) IsPartial() bool {
	return len(r.Failed) > 0
}

// CapEvidenceFiles enforces the per-report upload limit. Files past the cap
// come back by name so the submitter hears they were not stored.
func CapEvidenceFiles(files []*multipart.FileHeader) ([]*multipart.FileHeader, []string) {
	if len(files) <= MaxEvidenceFiles {
		return files, nil
	}

	dropped := []string{}
	for _, fh := range files[MaxEvidenceFiles:] {
		dropped = append(dropped, fh.Filename)
	}

	return files[:MaxEvidenceFiles], dropped
}

func IsAllowedEvidenceType(fh *multipart.FileHeader) bool {
	mt := fh.Header.Get("Content-Type")

	return strings.HasPrefix(mt, "image/") || strings.EqualFold(mt, "application/pdf")
}

// EvidenceStoragePath builds the on-disk name for an upload: scoped to the
// report's internal ID with a random basename, so the stored object never
// carries the submitter's filename.
func EvidenceStoragePath(reportID uuid.UUID, originalName string) string {
	name := uuid.NewString()

	if ext := filepath.Ext(originalName); len(ext) > 1 && len(ext) <= 10 {
		name += strings.ToLower(ext)
	}

	return filepath.Join(reportID.String(), name)
}

// StoreEvidence writes each file's blob and metadata row as one logical
// unit. If the row insert fails after the blob write, the blob is removed so
// neither half persists silently; the failure is surfaced through the
// result rather than an error because the report itself stays valid.
func StoreEvidence(c *fiber.Ctx, report *models.Report, files []*multipart.FileHeader) EvidenceResult {
	result := EvidenceResult{}

	for _, fh := range files {
		if !IsAllowedEvidenceType(fh) || fh.Size > maxEvidenceSize {
			slog.Warn(fmt.Sprintf("Ignoring invalid evidence file: ['%s', '%s', %d MiB].", fh.Filename, fh.Header.Get("Content-Type"), fh.Size/mibMultiplier))
			result.Failed = append(result.Failed, fh.Filename)
			continue
		}

		storagePath := EvidenceStoragePath(report.ID, fh.Filename)
		fullPath := filepath.Join(utils.EvidencePath(), storagePath)

		if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
			slog.Error(fmt.Sprintf("Error creating evidence directory: %v", err))
			result.Failed = append(result.Failed, fh.Filename)
			continue
		}

		if err := c.SaveFile(fh, fullPath); err != nil {
			sentry.CaptureException(err)
			slog.Error(fmt.Sprintf("Error storing evidence blob: %v", err))
			result.Failed = append(result.Failed, fh.Filename)
			continue
		}

		evidence := &models.EvidenceFile{
			ReportID: report.ID,
			FileURL:  storagePath,
			FileName: fh.Filename,
		}
		if err := app.DB().Create(&evidence).Error; err != nil {
			sentry.CaptureException(err)
			slog.Error(fmt.Sprintf("Error storing evidence metadata: %v", err))

			if err := os.Remove(fullPath); err != nil {
				slog.Error(fmt.Sprintf("Error removing orphaned evidence blob: %v", err))
			}

			result.Failed = append(result.Failed, fh.Filename)
			continue
		}

		result.Saved = append(result.Saved, *evidence)
	}

	return result
}

// PurgeExpiredEvidence removes blobs and metadata rows past the retention
// window. Evidence is ephemeral by contract; reports are not touched.
func PurgeExpiredEvidence() (int, error) {
	cutoff := time.Now().In(utils.DefaultLocation()).Add(-utils.EvidenceRetention())

	expired := []models.EvidenceFile{}
	if err := app.DB().Unscoped().
		Where("created_at < ?", cutoff).
		Find(&expired).Error; err != nil {
		return 0, err
	}

	purged := 0

	for _, f := range expired {
		fullPath := filepath.Join(utils.EvidencePath(), filepath.Clean(f.FileURL))

		if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
			slog.Error(fmt.Sprintf("Error removing evidence blob '%s': %v", f.FileURL, err))
			continue
		}

		if err := app.DB().Unscoped().Delete(&f).Error; err != nil {
			slog.Error(fmt.Sprintf("Error removing evidence metadata '%s': %v", f.ID, err))
			continue
		}

		purged++
	}

	return purged, nil
}
