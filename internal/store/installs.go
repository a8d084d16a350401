package store

import (
	"encoding/csv"
	"fmt"

	"github.com/gocarina/gocsv"

	apperrors "github.com/Kamar-Folarin/download-tracker/internal/errors"
	"github.com/Kamar-Folarin/download-tracker/internal/models"
)

// AppendInstallSnapshot appends snapshot to homebrew/installs.csv, writing
// the fixed header first when the file is new. Rows are never deduplicated.
func (s *CSVStore) AppendInstallSnapshot(snapshot *models.InstallSnapshot) error {
	path := s.InstallsPath()
	exists, err := fileExists(path)
	if err != nil {
		return err
	}

	rows := []*models.InstallSnapshot{snapshot}

	if !exists {
		return writeCSV(path, flagCreate, func(w *csv.Writer) error {
			if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(w)); err != nil {
				return apperrors.NewIOError(fmt.Sprintf("failed to write %s", path), err)
			}
			return nil
		})
	}

	header, err := readHeader(path)
	if err != nil {
		return err
	}
	if !header.Equal(models.InstallSnapshotColumns) {
		return apperrors.NewSchemaError(fmt.Sprintf("%s: unexpected header %v", path, header), nil)
	}

	return writeCSV(path, flagAppend, func(w *csv.Writer) error {
		if err := gocsv.MarshalCSVWithoutHeaders(rows, gocsv.NewSafeCSVWriter(w)); err != nil {
			return apperrors.NewIOError(fmt.Sprintf("failed to append to %s", path), err)
		}
		return nil
	})
}
