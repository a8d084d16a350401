package store

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	apperrors "github.com/Kamar-Folarin/download-tracker/internal/errors"
	"github.com/Kamar-Folarin/download-tracker/internal/models"
)

// UpsertState is the action taken on a release's downloads file
type UpsertState int

const (
	// StateSkipped: the release has no assets; no file is touched
	StateSkipped UpsertState = iota
	// StateNoFile: the file is created with the snapshot's asset order
	StateNoFile
	// StateAppendOnly: the stored header already covers every asset
	StateAppendOnly
	// StateNeedsMigration: new assets extend the header and the file is rewritten
	StateNeedsMigration
)

func (s UpsertState) String() string {
	switch s {
	case StateSkipped:
		return "skipped"
	case StateNoFile:
		return "new_file"
	case StateAppendOnly:
		return "append"
	case StateNeedsMigration:
		return "migrate"
	default:
		return fmt.Sprintf("UpsertState(%d)", int(s))
	}
}

// UpsertPlan describes how one observation is reconciled with a stored header
type UpsertPlan struct {
	State UpsertState
	// Assets is the effective asset column order, timestamp column excluded
	Assets models.Columns
	// Added lists assets that are new to the stored header, in snapshot order
	Added models.Columns
}

// UpsertResult reports what UpsertReleaseDownloads did
type UpsertResult struct {
	UpsertPlan
	Path string
	Row  []string
}

// PlanUpsert decides how a snapshot's asset names are merged into a stored
// header. stored is nil when no file exists yet. Stored names keep their
// position; new names go after them in snapshot order.
func PlanUpsert(stored models.Columns, snapshot models.Columns) UpsertPlan {
	switch {
	case len(snapshot) == 0:
		return UpsertPlan{State: StateSkipped}
	case stored == nil:
		return UpsertPlan{State: StateNoFile, Assets: snapshot, Added: snapshot}
	}

	added := stored.Missing(snapshot)
	if len(added) == 0 {
		return UpsertPlan{State: StateAppendOnly, Assets: stored}
	}
	return UpsertPlan{State: StateNeedsMigration, Assets: stored.Extend(added), Added: added}
}

// BuildRow renders one observation row for the given asset order. Assets
// absent from counts get an empty cell; a zero count is written as 0.
func BuildRow(timestamp string, assets models.Columns, counts map[string]int64) []string {
	row := make([]string, 0, len(assets)+1)
	row = append(row, timestamp)
	for _, name := range assets {
		count, ok := counts[name]
		if !ok {
			row = append(row, "")
			continue
		}
		row = append(row, strconv.FormatInt(count, 10))
	}
	return row
}

// ReadDownloadColumns returns the asset columns of an existing downloads
// file, or nil when the file does not exist.
func ReadDownloadColumns(path string) (models.Columns, error) {
	exists, err := fileExists(path)
	if err != nil || !exists {
		return nil, err
	}

	header, err := readHeader(path)
	if err != nil {
		return nil, err
	}
	if err := validateDownloadHeader(path, header); err != nil {
		return nil, err
	}
	return header[1:], nil
}

func validateDownloadHeader(path string, header models.Columns) error {
	if len(header) == 0 || header[0] != models.TimestampHeader {
		return apperrors.NewSchemaError(fmt.Sprintf("%s: first column must be %q", path, models.TimestampHeader), nil)
	}
	if len(models.UniqueColumns(header)) != len(header) {
		return apperrors.NewSchemaError(fmt.Sprintf("%s: header has duplicate columns", path), nil)
	}
	return nil
}

// UpsertReleaseDownloads appends one observation row for release to its
// downloads file, creating the file or widening its header as needed.
func (s *CSVStore) UpsertReleaseDownloads(release *models.Release, timestamp string) (*UpsertResult, error) {
	snapshot := release.AssetNames()
	if len(snapshot) == 0 {
		return &UpsertResult{UpsertPlan: UpsertPlan{State: StateSkipped}}, nil
	}

	path, err := s.DownloadsPath(release.TagName)
	if err != nil {
		return nil, err
	}

	stored, err := ReadDownloadColumns(path)
	if err != nil {
		return nil, err
	}

	plan := PlanUpsert(stored, snapshot)
	row := BuildRow(timestamp, plan.Assets, release.DownloadCounts())
	header := append(models.Columns{models.TimestampHeader}, plan.Assets...)

	switch plan.State {
	case StateNoFile:
		err = writeCSV(path, flagCreate, func(w *csv.Writer) error {
			return w.WriteAll([][]string{header, row})
		})
	case StateAppendOnly:
		err = writeCSV(path, flagAppend, func(w *csv.Writer) error {
			return w.Write(row)
		})
	case StateNeedsMigration:
		s.logger.WithFields(logrus.Fields{
			"tag":    release.TagName,
			"added":  plan.Added,
			"path":   path,
			"before": len(stored),
			"after":  len(plan.Assets),
		}).Info("Release added assets, converting CSV file")
		err = s.migrateDownloads(path, header, row)
	}
	if err != nil {
		return nil, err
	}

	return &UpsertResult{UpsertPlan: plan, Path: path, Row: row}, nil
}

// migrateDownloads rewrites path under the widened header. Stored rows keep
// their order and values; the cells of new columns are left empty.
func (s *CSVStore) migrateDownloads(path string, header models.Columns, row []string) error {
	records, err := readRecords(path)
	if err != nil {
		return err
	}
	if err := validateDownloadHeader(path, records[0]); err != nil {
		return err
	}

	out := make([][]string, 0, len(records)+1)
	out = append(out, header)
	for _, record := range records[1:] {
		padded := make([]string, len(header))
		copy(padded, record)
		out = append(out, padded)
	}
	out = append(out, row)

	return writeCSV(path, flagTruncate, func(w *csv.Writer) error {
		return w.WriteAll(out)
	})
}
