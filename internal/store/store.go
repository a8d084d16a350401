package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	apperrors "github.com/Kamar-Folarin/download-tracker/internal/errors"
	"github.com/Kamar-Folarin/download-tracker/internal/models"
)

// Store defines the persistence operations of one collection run
type Store interface {
	// UpsertReleaseDownloads appends one observation row to the release's downloads file
	UpsertReleaseDownloads(release *models.Release, timestamp string) (*UpsertResult, error)

	// ArchiveRelease overwrites the raw snapshot kept for the release's tag
	ArchiveRelease(release *models.Release) error

	// MergeReleaseRecords adds unseen releases to the metadata table
	MergeReleaseRecords(records []*models.ReleaseRecord) (int, error)

	// AppendInstallSnapshot appends one row to the Homebrew installs file
	AppendInstallSnapshot(snapshot *models.InstallSnapshot) error
}

// CSVStore keeps every table as a CSV file below a root directory:
//
//	github_release/downloads/<tag>.csv
//	github_release/info/<tag>.json
//	github_release/releases.csv
//	homebrew/installs.csv
//
// It assumes a single writer; nothing is locked.
type CSVStore struct {
	root   string
	logger *logrus.Logger
}

var _ Store = (*CSVStore)(nil)

func NewCSVStore(root string, logger *logrus.Logger) *CSVStore {
	return &CSVStore{
		root:   root,
		logger: logger,
	}
}

// DownloadsPath returns the per-release observation file for tag
func (s *CSVStore) DownloadsPath(tag string) (string, error) {
	if err := validateTag(tag); err != nil {
		return "", err
	}
	return filepath.Join(s.root, "github_release", "downloads", tag+".csv"), nil
}

// InfoPath returns the raw snapshot file for tag
func (s *CSVStore) InfoPath(tag string) (string, error) {
	if err := validateTag(tag); err != nil {
		return "", err
	}
	return filepath.Join(s.root, "github_release", "info", tag+".json"), nil
}

// ReleasesPath returns the releases metadata table
func (s *CSVStore) ReleasesPath() string {
	return filepath.Join(s.root, "github_release", "releases.csv")
}

// InstallsPath returns the Homebrew installs file
func (s *CSVStore) InstallsPath() string {
	return filepath.Join(s.root, "homebrew", "installs.csv")
}

// validateTag rejects tags that cannot be used as a single file name
func validateTag(tag string) error {
	if tag == "" || tag == "." || tag == ".." || strings.ContainsAny(tag, "/\\\x00") {
		return apperrors.NewValidationError(fmt.Sprintf("release tag %q cannot be used as a file name", tag), nil)
	}
	return nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, apperrors.NewIOError(fmt.Sprintf("failed to stat %s", path), err)
}

// newCSVReader returns a reader that requires every record to have the
// same number of fields as the header.
func newCSVReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 0
	return reader
}

// newCSVWriter writes CRLF line endings, matching the files produced by
// earlier collector runs.
func newCSVWriter(w io.Writer) *csv.Writer {
	writer := csv.NewWriter(w)
	writer.UseCRLF = true
	return writer
}

// readHeader returns the header row of an existing CSV file
func readHeader(path string) (header models.Columns, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewIOError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	record, err := newCSVReader(f).Read()
	if errors.Is(err, io.EOF) {
		return nil, apperrors.NewSchemaError(fmt.Sprintf("found csv file with no header: %s", path), nil)
	}
	if err != nil {
		return nil, apperrors.NewSchemaError(fmt.Sprintf("failed to parse header of %s", path), err)
	}
	return models.Columns(record), nil
}

// readRecords returns every record of an existing CSV file, header first
func readRecords(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewIOError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	records, err := newCSVReader(f).ReadAll()
	if err != nil {
		return nil, apperrors.NewSchemaError(fmt.Sprintf("failed to parse %s", path), err)
	}
	if len(records) == 0 {
		return nil, apperrors.NewSchemaError(fmt.Sprintf("found csv file with no header: %s", path), nil)
	}
	return records, nil
}

// writeCSV opens path with flag, creating parent directories, and hands a
// CSV writer to fn. The file is closed on every path; a failed close is
// reported when fn succeeded.
func writeCSV(path string, flag int, fn func(w *csv.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperrors.NewIOError(fmt.Sprintf("failed to create directory for %s", path), err)
	}

	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return apperrors.NewIOError(fmt.Sprintf("failed to open %s for writing", path), err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = apperrors.NewIOError(fmt.Sprintf("failed to close %s", path), cerr)
		}
	}()

	writer := newCSVWriter(f)
	if err := fn(writer); err != nil {
		return err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewIOError(fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}

const (
	flagCreate   = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	flagAppend   = os.O_WRONLY | os.O_APPEND
	flagTruncate = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
)
