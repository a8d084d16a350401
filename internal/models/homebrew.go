package models

import "fmt"

// AnalyticsWindow is the analytics period recorded by the install appender
const AnalyticsWindow = "30d"

// Formula is the subset of the Homebrew formula API response that is tracked
type Formula struct {
	Name          string           `json:"name"`
	GeneratedDate string           `json:"generated_date"`
	Versions      FormulaVersions  `json:"versions"`
	Analytics     FormulaAnalytics `json:"analytics"`
}

type FormulaVersions struct {
	Stable string `json:"stable"`
}

// FormulaAnalytics holds install counts keyed by window ("30d") then formula name
type FormulaAnalytics struct {
	Install          map[string]map[string]int64 `json:"install"`
	InstallOnRequest map[string]map[string]int64 `json:"install_on_request"`
}

// InstallSnapshot is one row of homebrew/installs.csv
type InstallSnapshot struct {
	Timestamp            string `csv:"Date (UTC)"`
	GeneratedDate        string `csv:"generated_date"`
	StableVersion        string `csv:"versions.stable"`
	Installs30d          int64  `csv:"install.30d"`
	InstallsOnRequest30d int64  `csv:"install_on_request.30d"`
}

// InstallSnapshotColumns is the fixed header of homebrew/installs.csv
var InstallSnapshotColumns = Columns{TimestampHeader, "generated_date", "versions.stable", "install.30d", "install_on_request.30d"}

// InstallSnapshot extracts the 30 day install counts for the named formula
func (f *Formula) InstallSnapshot(name, timestamp string) (*InstallSnapshot, error) {
	installs, err := lookupCount(f.Analytics.Install, "install", name)
	if err != nil {
		return nil, err
	}
	onRequest, err := lookupCount(f.Analytics.InstallOnRequest, "install_on_request", name)
	if err != nil {
		return nil, err
	}

	return &InstallSnapshot{
		Timestamp:            timestamp,
		GeneratedDate:        f.GeneratedDate,
		StableVersion:        f.Versions.Stable,
		Installs30d:          installs,
		InstallsOnRequest30d: onRequest,
	}, nil
}

func lookupCount(windows map[string]map[string]int64, field, name string) (int64, error) {
	window, ok := windows[AnalyticsWindow]
	if !ok {
		return 0, fmt.Errorf("analytics.%s has no %q window", field, AnalyticsWindow)
	}
	count, ok := window[name]
	if !ok {
		return 0, fmt.Errorf("analytics.%s.%s has no entry for %q", field, AnalyticsWindow, name)
	}
	return count, nil
}
