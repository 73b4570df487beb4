package services

import (
	"context"
	"errors"
	"testing"
	"time"
	"waste-collection-service/internal/domain"
)

func ptr(v float64) *float64 { return &v }

func TestSensorSyncApply(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	bins := newMemBins(&domain.Bin{
		BinID: "BIN001", FillLevel: 10, Lat: 4.05, Lon: 9.76,
		OrganicPct: 50, PlasticPct: 30, MetalPct: 20,
	})
	readings := &memReadings{}
	sync := &SensorSync{Bins: bins, Readings: readings, Now: func() time.Time { return now }}

	res, err := sync.Apply(context.Background(), []domain.SensorReading{
		{BinID: "BIN001", FillLevel: 72.5},
		{BinID: "BIN050", FillLevel: 33, Lat: ptr(4.1), Lon: ptr(9.8)},
		{BinID: "  ", FillLevel: 90},
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	want := SyncResult{Received: 3, Created: 1, Updated: 1, Skipped: 1}
	if res != want {
		t.Fatalf("result = %+v, want %+v", res, want)
	}

	updated, _ := bins.GetByBinID(context.Background(), "BIN001")
	if updated.FillLevel != 72.5 || updated.Lat != 4.05 || updated.OrganicPct != 50 {
		t.Fatalf("existing bin not updated in place: %+v", updated)
	}
	if !updated.LastUpdated.Equal(now) {
		t.Fatalf("last updated = %v, want %v", updated.LastUpdated, now)
	}

	created, _ := bins.GetByBinID(context.Background(), "BIN050")
	if created.OrganicPct != domain.DefaultOrganicPct ||
		created.PlasticPct != domain.DefaultPlasticPct ||
		created.MetalPct != domain.DefaultMetalPct {
		t.Fatalf("new bin composition = %v/%v/%v", created.OrganicPct, created.PlasticPct, created.MetalPct)
	}
	if created.Lat != 4.1 || created.Lon != 9.8 {
		t.Fatalf("new bin location = (%v,%v)", created.Lat, created.Lon)
	}

	if len(readings.rows) != 2 {
		t.Fatalf("recorded readings = %d, want 2", len(readings.rows))
	}
	if !readings.rows[0].RecordedAt.Equal(now) {
		t.Fatalf("recorded_at = %v, want %v", readings.rows[0].RecordedAt, now)
	}
}

func TestSensorSyncFetchesFromFeed(t *testing.T) {
	bins := newMemBins()
	sync := &SensorSync{Bins: bins}

	res, err := sync.Sync(context.Background(), staticFeed{readings: []domain.SensorReading{
		{BinID: "BIN001", FillLevel: 5},
		{BinID: "BIN001", FillLevel: 6},
	}})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if res.Created != 1 || res.Updated != 1 {
		t.Fatalf("result = %+v, want one create and one update", res)
	}

	b, _ := bins.GetByBinID(context.Background(), "BIN001")
	if b.FillLevel != 6 {
		t.Fatalf("fill = %v, want last reading 6", b.FillLevel)
	}
}

func TestSensorSyncErrors(t *testing.T) {
	sync := &SensorSync{Bins: newMemBins()}
	if _, err := sync.Sync(context.Background(), staticFeed{err: errBoom}); !errors.Is(err, errBoom) {
		t.Fatalf("feed error not propagated: %v", err)
	}

	bins := newMemBins()
	bins.err = errBoom
	sync = &SensorSync{Bins: bins}
	if _, err := sync.Apply(context.Background(), []domain.SensorReading{{BinID: "BIN001"}}); !errors.Is(err, errBoom) {
		t.Fatalf("repository error not propagated: %v", err)
	}
}
