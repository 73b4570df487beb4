package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"waste-collection-service/internal/domain"
	"waste-collection-service/internal/platform/obs"
	"waste-collection-service/internal/ports"
)

// Counts reported by a sensor sync run.
type SyncResult struct {
	Received int
	Created  int
	Updated  int
	Skipped  int
}

// SensorSync applies sensor readings to bins and keeps a history of the readings.
type SensorSync struct {
	Bins     ports.BinRepository
	Readings ports.SensorReadingRepository
	// Defaults to time.Now.
	Now func() time.Time
}

func (s *SensorSync) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Pull readings from feed and apply them.
func (s *SensorSync) Sync(ctx context.Context, feed ports.SensorFeed) (SyncResult, error) {
	readings, err := feed.Fetch(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("sensor sync: fetch: %w", err)
	}
	return s.Apply(ctx, readings)
}

// Apply upserts one bin per reading keyed by bin ID.
// Readings without a bin ID are skipped; a new bin gets the default composition.
func (s *SensorSync) Apply(ctx context.Context, readings []domain.SensorReading) (res SyncResult, err error) {
	defer obs.Time(ctx, "sensor_sync")(&err)

	res.Received = len(readings)
	now := s.now()

	for i := range readings {
		r := readings[i]
		r.BinID = strings.TrimSpace(r.BinID)
		if r.BinID == "" {
			res.Skipped++
			continue
		}
		if r.RecordedAt.IsZero() {
			r.RecordedAt = now
		}

		existing, err := s.Bins.GetByBinID(ctx, r.BinID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			existing = nil
		case err != nil:
			return res, fmt.Errorf("sensor sync: get bin %q: %w", r.BinID, err)
		}

		bin := r.Apply(existing, now)
		created, err := s.Bins.UpsertByBinID(ctx, bin)
		if err != nil {
			return res, fmt.Errorf("sensor sync: upsert bin %q: %w", r.BinID, err)
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}

		if s.Readings != nil {
			if err := s.Readings.Create(ctx, &r); err != nil {
				return res, fmt.Errorf("sensor sync: record reading for %q: %w", r.BinID, err)
			}
		}
	}

	return res, nil
}
