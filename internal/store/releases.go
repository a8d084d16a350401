package store

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"

	apperrors "github.com/Kamar-Folarin/download-tracker/internal/errors"
	"github.com/Kamar-Folarin/download-tracker/internal/models"
)

// ReadReleaseRecords loads the releases metadata table. A missing file
// yields no records.
func (s *CSVStore) ReadReleaseRecords() ([]*models.ReleaseRecord, error) {
	path := s.ReleasesPath()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewIOError(fmt.Sprintf("failed to read %s", path), err)
	}

	header, err := newCSVReader(bytes.NewReader(data)).Read()
	if err != nil {
		return nil, apperrors.NewSchemaError(fmt.Sprintf("found csv file with no usable header: %s", path), err)
	}
	if !models.Columns(header).Equal(models.ReleaseRecordColumns) {
		return nil, apperrors.NewSchemaError(fmt.Sprintf("%s: unexpected header %v", path, header), nil)
	}

	var records []*models.ReleaseRecord
	if err := gocsv.UnmarshalBytes(data, &records); err != nil {
		return nil, apperrors.NewSchemaError(fmt.Sprintf("failed to parse %s", path), err)
	}

	seen := make(map[int64]struct{}, len(records))
	for _, record := range records {
		if _, ok := seen[record.ID]; ok {
			return nil, apperrors.NewSchemaError(fmt.Sprintf("%s: duplicate release id %d", path, record.ID), nil)
		}
		seen[record.ID] = struct{}{}
	}

	return records, nil
}

// MergeReleaseRecords adds the records whose id is not yet stored and
// rewrites the table sorted by id. Stored rows are never updated, even when
// the fresh record for the same id differs. It returns the number of rows added.
func (s *CSVStore) MergeReleaseRecords(records []*models.ReleaseRecord) (int, error) {
	stored, err := s.ReadReleaseRecords()
	if err != nil {
		return 0, err
	}

	known := make(map[int64]struct{}, len(stored)+len(records))
	merged := make([]*models.ReleaseRecord, 0, len(stored)+len(records))
	for _, record := range stored {
		known[record.ID] = struct{}{}
		merged = append(merged, record)
	}

	added := 0
	for _, record := range records {
		if _, ok := known[record.ID]; ok {
			continue
		}
		known[record.ID] = struct{}{}
		merged = append(merged, record)
		added++
	}

	if len(merged) == 0 {
		return 0, nil
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].ID < merged[j].ID
	})

	path := s.ReleasesPath()
	err = writeCSV(path, flagTruncate, func(w *csv.Writer) error {
		if err := gocsv.MarshalCSV(merged, gocsv.NewSafeCSVWriter(w)); err != nil {
			return apperrors.NewIOError(fmt.Sprintf("failed to write %s", path), err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"path":  path,
		"added": added,
		"total": len(merged),
	}).Info("Updated releases metadata table")

	return added, nil
}
