package models

import (
	"encoding/json"
	"fmt"
)

// Release is a published release as returned by the GitHub releases API
type Release struct {
	ID          int64   `json:"id"`
	TagName     string  `json:"tag_name"`
	Name        string  `json:"name"`
	Draft       bool    `json:"draft"`
	Prerelease  bool    `json:"prerelease"`
	CreatedAt   string  `json:"created_at"`
	PublishedAt string  `json:"published_at"`
	Assets      []Asset `json:"assets"`

	// Raw holds the release object exactly as received, every field included
	Raw json.RawMessage `json:"-"`
}

// Asset is one downloadable file attached to a release
type Asset struct {
	Name          string `json:"name"`
	DownloadCount int64  `json:"download_count"`
}

// AssetNames returns the asset names in snapshot order
func (r *Release) AssetNames() Columns {
	names := make([]string, 0, len(r.Assets))
	for _, asset := range r.Assets {
		names = append(names, asset.Name)
	}
	return UniqueColumns(names)
}

// DownloadCounts maps asset name to its download count. A count of zero is
// present in the map; an asset missing from the snapshot is not.
func (r *Release) DownloadCounts() map[string]int64 {
	counts := make(map[string]int64, len(r.Assets))
	for _, asset := range r.Assets {
		counts[asset.Name] = asset.DownloadCount
	}
	return counts
}

// Record builds the immutable metadata row for this release
func (r *Release) Record() (*ReleaseRecord, error) {
	createdAt, err := NormalizeTimestamp(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("release %d created_at: %w", r.ID, err)
	}
	publishedAt, err := NormalizeTimestamp(r.PublishedAt)
	if err != nil {
		return nil, fmt.Errorf("release %d published_at: %w", r.ID, err)
	}

	return &ReleaseRecord{
		ID:          r.ID,
		TagName:     r.TagName,
		Name:        r.Name,
		Draft:       r.Draft,
		Prerelease:  r.Prerelease,
		CreatedAt:   createdAt,
		PublishedAt: publishedAt,
	}, nil
}

// ReleaseRecord is one row of the releases metadata table
type ReleaseRecord struct {
	ID          int64  `csv:"id"`
	TagName     string `csv:"tag_name"`
	Name        string `csv:"name"`
	Draft       bool   `csv:"draft"`
	Prerelease  bool   `csv:"prerelease"`
	CreatedAt   string `csv:"created_at"`
	PublishedAt string `csv:"published_at"`
}

// ReleaseRecordColumns is the fixed header of the releases metadata table
var ReleaseRecordColumns = Columns{"id", "tag_name", "name", "draft", "prerelease", "created_at", "published_at"}
