package models

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the UTC layout written to every CSV file. It carries no
// zone designator and no "T" separator so spreadsheet imports read it as a
// plain date/time.
const TimestampLayout = "2006-01-02 15:04:05"

// TimestampHeader is the first column of every time-series CSV file
const TimestampHeader = "Date (UTC)"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05Z0700",
}

// FormatTimestamp renders t in UTC using TimestampLayout
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// NormalizeTimestamp converts an ISO-8601 timestamp carrying an offset into
// the same instant rendered with TimestampLayout in UTC. An empty value stays
// empty (drafts have no publish time).
func NormalizeTimestamp(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return FormatTimestamp(t), nil
		}
	}
	return "", fmt.Errorf("unrecognized timestamp %q", value)
}
