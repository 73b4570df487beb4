package updater

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
	"waste-collection-service/internal/platform/obs"
	"waste-collection-service/internal/ports"
	"waste-collection-service/internal/services"

	"github.com/robfig/cron/v3"
)

// Fill levels that trigger an alert line after a run.
const (
	WarnFillLevel = 80.0
	InfoFillLevel = 60.0
)

// Stats are logged every StatsEvery runs.
const StatsEvery = 10

// Cumulative counters across runs.
type Stats struct {
	Total   int
	OK      int
	Failed  int
	Started time.Time
}

func (s Stats) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.OK) / float64(s.Total) * 100
}

// Updater polls the sensor feed and applies the readings on a cron schedule.
type Updater struct {
	Sync *services.SensorSync
	Feed ports.SensorFeed
	Bins ports.BinRepository
	// Defaults to time.Now.
	Now func() time.Time

	mu    sync.Mutex
	stats Stats
	cron  *cron.Cron
}

func (u *Updater) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now()
}

// RunOnce performs a single sync and logs what it changed.
func (u *Updater) RunOnce(ctx context.Context) (services.SyncResult, error) {
	u.mu.Lock()
	if u.stats.Started.IsZero() {
		u.stats.Started = u.now()
	}
	u.stats.Total++
	run := u.stats.Total
	u.mu.Unlock()

	ctx = obs.WithRequestID(ctx, fmt.Sprintf("run-%d", run))
	res, err := u.Sync.Sync(ctx, u.Feed)

	u.mu.Lock()
	if err != nil {
		u.stats.Failed++
	} else {
		u.stats.OK++
	}
	stats := u.stats
	u.mu.Unlock()

	if err != nil {
		log.Printf("sensor update failed: run=%d err=%v", run, err)
	} else {
		log.Printf("sensor update: run=%d fetched=%d created=%d updated=%d skipped=%d",
			run, res.Received, res.Created, res.Updated, res.Skipped)
		u.alert(ctx)
	}

	if run%StatsEvery == 0 {
		log.Printf("updater stats: total=%d ok=%d failed=%d success_rate=%.1f%% uptime=%s",
			stats.Total, stats.OK, stats.Failed, stats.SuccessRate(), u.now().Sub(stats.Started).Round(time.Second))
	}

	return res, err
}

// alert logs one line per bin above the warn or info level.
func (u *Updater) alert(ctx context.Context) {
	if u.Bins == nil {
		return
	}
	bins, err := u.Bins.List(ctx)
	if err != nil {
		log.Printf("sensor update: list bins for alerts: err=%v", err)
		return
	}

	for _, b := range bins {
		if !b.HasValidFill() {
			continue
		}
		switch {
		case b.FillLevel > WarnFillLevel:
			log.Printf("WARNING bin=%s fill_level=%.1f needs collection", b.BinID, b.FillLevel)
		case b.FillLevel > InfoFillLevel:
			log.Printf("INFO bin=%s fill_level=%.1f filling up", b.BinID, b.FillLevel)
		}
	}
}

func (u *Updater) Stats() Stats {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.stats
}

// Start schedules RunOnce on a cron schedule. Overlapping runs are skipped.
func (u *Updater) Start(ctx context.Context, schedule string) error {
	if u.Sync == nil || u.Feed == nil {
		return errors.New("start updater: sync and feed are required")
	}

	logger := cron.PrintfLogger(log.Default())
	c := cron.New(cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)))
	if _, err := c.AddFunc(schedule, func() { _, _ = u.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("start updater: schedule %q: %w", schedule, err)
	}

	u.mu.Lock()
	u.cron = c
	u.mu.Unlock()

	c.Start()
	log.Printf("Sensor updater started schedule=%q", schedule)
	return nil
}

// Stop the scheduler and wait for a running sync to finish.
func (u *Updater) Stop() {
	u.mu.Lock()
	c := u.cron
	u.mu.Unlock()
	if c == nil {
		return
	}
	<-c.Stop().Done()
	log.Println("Sensor updater stopped")
}
