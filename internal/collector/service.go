package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "github.com/Kamar-Folarin/download-tracker/internal/errors"
	"github.com/Kamar-Folarin/download-tracker/internal/models"
	"github.com/Kamar-Folarin/download-tracker/internal/store"
)

// ReleaseSource lists the releases of the tracked repository
type ReleaseSource interface {
	ListReleases(ctx context.Context) ([]models.Release, error)
}

// InstallSource reads the current install analytics of the tracked formula
type InstallSource interface {
	GetInstallSnapshot(ctx context.Context, timestamp string) (*models.InstallSnapshot, error)
}

// Service runs one collection pass over both upstream sources
type Service struct {
	releases ReleaseSource
	installs InstallSource
	store    store.Store
	logger   *logrus.Logger
	failFast bool
}

// Option allows configuring the Service
type Option func(*Service)

// WithFailFast stops Run after a failed release collection, skipping the
// Homebrew collection.
func WithFailFast(failFast bool) Option {
	return func(s *Service) {
		s.failFast = failFast
	}
}

func NewService(releases ReleaseSource, installs InstallSource, st store.Store, logger *logrus.Logger, opts ...Option) *Service {
	s := &Service{
		releases: releases,
		installs: installs,
		store:    st,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run collects both sources, stamping every row with now. Unless fail-fast
// is set, a release failure does not prevent the Homebrew collection and
// both errors are returned joined.
func (s *Service) Run(ctx context.Context, now time.Time) error {
	timestamp := models.FormatTimestamp(now)
	s.logger.WithField("timestamp", timestamp).Info("Starting collection run")

	s.logger.Info("Querying GitHub release stats")
	releasesErr := s.CollectReleases(ctx, timestamp)
	if releasesErr != nil {
		s.logger.WithError(releasesErr).Error("GitHub release collection failed")
		if s.failFast {
			return releasesErr
		}
	}

	s.logger.Info("Querying Homebrew install stats")
	installsErr := s.CollectInstalls(ctx, timestamp)
	if installsErr != nil {
		s.logger.WithError(installsErr).Error("Homebrew install collection failed")
	}

	return errors.Join(releasesErr, installsErr)
}

// CollectReleases records one download observation per release, archives
// each release's raw snapshot and merges new releases into the metadata table.
func (s *Service) CollectReleases(ctx context.Context, timestamp string) error {
	releases, err := s.releases.ListReleases(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch releases: %w", err)
	}

	records := make([]*models.ReleaseRecord, 0, len(releases))
	observed := 0
	for i := range releases {
		release := &releases[i]
		logger := s.logger.WithFields(logrus.Fields{
			"tag": release.TagName,
			"id":  release.ID,
		})

		record, err := release.Record()
		if err != nil {
			return apperrors.NewDecodeError(fmt.Sprintf("release %s has invalid metadata", release.TagName), err)
		}
		records = append(records, record)

		result, err := s.store.UpsertReleaseDownloads(release, timestamp)
		if err != nil {
			return fmt.Errorf("failed to record downloads for %s: %w", release.TagName, err)
		}
		if result.State == store.StateSkipped {
			logger.Debug("Release has no assets, skipping")
			continue
		}

		if observed == 0 {
			logger.WithField("row", result.Row).Info("Recorded latest release downloads")
		}
		logger.WithFields(logrus.Fields{
			"assets": len(result.Assets),
			"state":  result.State.String(),
		}).Debug("Recorded release downloads")
		observed++

		if err := s.store.ArchiveRelease(release); err != nil {
			return fmt.Errorf("failed to archive release %s: %w", release.TagName, err)
		}
	}

	added, err := s.store.MergeReleaseRecords(records)
	if err != nil {
		return fmt.Errorf("failed to update releases table: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"releases":     len(releases),
		"observed":     observed,
		"new_releases": added,
	}).Info("GitHub release stats recorded")

	return nil
}

// CollectInstalls appends the current Homebrew install counts
func (s *Service) CollectInstalls(ctx context.Context, timestamp string) error {
	snapshot, err := s.installs.GetInstallSnapshot(ctx, timestamp)
	if err != nil {
		return fmt.Errorf("failed to fetch install analytics: %w", err)
	}

	if err := s.store.AppendInstallSnapshot(snapshot); err != nil {
		return fmt.Errorf("failed to record install analytics: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"installs":            snapshot.Installs30d,
		"installs_on_request": snapshot.InstallsOnRequest30d,
		"version":             snapshot.StableVersion,
	}).Info("Homebrew install stats recorded")

	return nil
}
