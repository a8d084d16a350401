package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	apperrors "github.com/Kamar-Folarin/download-tracker/internal/errors"
	"github.com/Kamar-Folarin/download-tracker/internal/models"
)

// ArchiveRelease writes the release's raw JSON, indented, to its info file,
// replacing any earlier copy.
func (s *CSVStore) ArchiveRelease(release *models.Release) error {
	path, err := s.InfoPath(release.TagName)
	if err != nil {
		return err
	}

	raw := []byte(release.Raw)
	if len(raw) == 0 {
		raw, err = json.Marshal(release)
		if err != nil {
			return apperrors.NewDecodeError(fmt.Sprintf("failed to encode release %s", release.TagName), err)
		}
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return apperrors.NewDecodeError(fmt.Sprintf("release %s is not valid JSON", release.TagName), err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperrors.NewIOError(fmt.Sprintf("failed to create directory for %s", path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return apperrors.NewIOError(fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}
