package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kamar-Folarin/download-tracker/internal/models"
)

func TestCSVStore_ArchiveRelease(t *testing.T) {
	s := setupTestStore(t)

	r := &models.Release{
		ID:      7,
		TagName: "v1.0",
		Raw:     json.RawMessage(`{"id":7,"tag_name":"v1.0","html_url":"https://example.com"}`),
	}
	require.NoError(t, s.ArchiveRelease(r))

	path, err := s.InfoPath("v1.0")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"id\": 7,\n  \"tag_name\": \"v1.0\",\n  \"html_url\": \"https://example.com\"\n}", readFile(t, path))

	t.Run("overwrites previous copy", func(t *testing.T) {
		r.Raw = json.RawMessage(`{"id":7}`)
		require.NoError(t, s.ArchiveRelease(r))
		assert.Equal(t, "{\n  \"id\": 7\n}", readFile(t, path))
	})

	t.Run("falls back to the decoded fields", func(t *testing.T) {
		decoded := &models.Release{ID: 8, TagName: "v2.0"}
		require.NoError(t, s.ArchiveRelease(decoded))

		path, err := s.InfoPath("v2.0")
		require.NoError(t, err)
		assert.Contains(t, readFile(t, path), `"tag_name": "v2.0"`)
	})
}
