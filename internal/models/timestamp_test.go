package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimestamp(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	ts := time.Date(2024, 3, 1, 8, 30, 15, 999, loc)

	assert.Equal(t, "2024-02-29 23:30:15", FormatTimestamp(ts))
}

func TestNormalizeTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "utc designator", input: "2024-01-01T10:00:00Z", want: "2024-01-01 10:00:00"},
		{name: "negative offset", input: "2024-01-01T10:00:00-05:00", want: "2024-01-01 15:00:00"},
		{name: "positive offset crossing midnight", input: "2024-01-01T01:00:00+02:00", want: "2023-12-31 23:00:00"},
		{name: "fractional seconds", input: "2024-01-01T10:00:00.123Z", want: "2024-01-01 10:00:00"},
		{name: "compact offset", input: "2024-01-01T10:00:00-0500", want: "2024-01-01 15:00:00"},
		{name: "space separator", input: "2024-01-01 10:00:00+01:00", want: "2024-01-01 09:00:00"},
		{name: "empty", input: "", want: ""},
		{name: "garbage", input: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeTimestamp(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
