package updater

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
	"waste-collection-service/internal/adapters/repositories"
	"waste-collection-service/internal/adapters/sensorfeed"
	"waste-collection-service/internal/platform/db"
	"waste-collection-service/internal/services"
)

func newTestUpdater(t *testing.T, handler http.HandlerFunc) *Updater {
	t.Helper()

	conn, err := db.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := repositories.InitSchema(conn, db.SQLite); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	feed, err := sensorfeed.NewClient(srv.URL, sensorfeed.WithRetry(1, 0))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	bins := repositories.NewSQLBinRepository(conn, db.SQLite)
	return &Updater{
		Sync: &services.SensorSync{Bins: bins, Readings: repositories.NewSQLSensorReadingRepository(conn, db.SQLite)},
		Feed: feed,
		Bins: bins,
	}
}

func TestRunOnceAppliesReadingsAndCountsRuns(t *testing.T) {
	var calls int32
	u := newTestUpdater(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 2 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"results": [
			{"bin_id": "BIN001", "fill_level": 85, "latitude": 4.05, "longitude": 9.77},
			{"bin_id": "BIN002", "fill_level": 65}
		]}`))
	})
	ctx := context.Background()

	res, err := u.RunOnce(ctx)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if res.Received != 2 || res.Created != 2 {
		t.Fatalf("first run result = %+v", res)
	}

	if _, err := u.RunOnce(ctx); err == nil {
		t.Fatal("second run should fail on a 500")
	}

	res, err = u.RunOnce(ctx)
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if res.Updated != 2 || res.Created != 0 {
		t.Fatalf("third run result = %+v", res)
	}

	st := u.Stats()
	if st.Total != 3 || st.OK != 2 || st.Failed != 1 {
		t.Fatalf("stats = %+v", st)
	}
	if st.Started.IsZero() {
		t.Fatal("start time not recorded")
	}

	b, err := u.Bins.GetByBinID(ctx, "BIN001")
	if err != nil {
		t.Fatalf("get bin: %v", err)
	}
	if b.FillLevel != 85 || b.Lat != 4.05 {
		t.Fatalf("bin = %+v", b)
	}
}

func TestStatsSuccessRate(t *testing.T) {
	tests := []struct {
		stats Stats
		want  float64
	}{
		{Stats{}, 0},
		{Stats{Total: 4, OK: 3, Failed: 1}, 75},
		{Stats{Total: 10, OK: 10}, 100},
	}
	for _, tt := range tests {
		if got := tt.stats.SuccessRate(); got != tt.want {
			t.Errorf("SuccessRate(%+v) = %v, want %v", tt.stats, got, tt.want)
		}
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	u := newTestUpdater(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": []}`))
	})

	if err := u.Start(context.Background(), "every so often"); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
	if err := (&Updater{}).Start(context.Background(), "@every 1s"); err == nil {
		t.Fatal("expected error without sync and feed")
	}

	// Stop on an updater that never started is a no-op.
	u.Stop()
}

func TestStartAndStop(t *testing.T) {
	var calls int32
	u := newTestUpdater(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"results": []}`))
	})

	if err := u.Start(context.Background(), "@every 1s"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for atomic.LoadInt32(&calls) == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	u.Stop()

	if atomic.LoadInt32(&calls) == 0 {
		t.Fatal("scheduled run never happened")
	}
}
