package repositories

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"path/filepath"
	"testing"
	"time"
	"waste-collection-service/internal/domain"
	"waste-collection-service/internal/platform/db"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := InitSchema(conn, db.SQLite); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return conn
}

func TestInitSchemaIsIdempotent(t *testing.T) {
	conn := newTestDB(t)
	if err := InitSchema(conn, db.SQLite); err != nil {
		t.Fatalf("second init: %v", err)
	}
	if err := InitSchema(conn, db.Dialect("oracle")); err == nil {
		t.Fatalf("expected error for unknown dialect")
	}
}

func TestOpenCreatesDirectoryAndSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.db")

	conn, dialect, err := Open("sqlite", path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer conn.Close()

	if dialect != db.SQLite {
		t.Fatalf("dialect = %q", dialect)
	}
	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM bins`).Scan(&n); err != nil {
		t.Fatalf("bins table missing: %v", err)
	}

	if _, _, err := Open("mysql", "x"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestBinRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLBinRepository(newTestDB(t), db.SQLite)

	updated := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	b := &domain.Bin{
		BinID: "BIN001", FillLevel: 75, Lat: 4.05, Lon: 9.76,
		OrganicPct: 40, PlasticPct: 35, MetalPct: 25, LastUpdated: updated,
	}
	if err := repo.Create(ctx, b); err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.ID == 0 {
		t.Fatalf("create should assign an id")
	}

	got, err := repo.GetByBinID(ctx, "BIN001")
	if err != nil {
		t.Fatalf("get by bin id: %v", err)
	}
	if got.ID != b.ID || got.FillLevel != 75 || !got.LastUpdated.Equal(updated) {
		t.Fatalf("unexpected bin: %+v", got)
	}

	dup := &domain.Bin{BinID: "BIN001"}
	if err := repo.Create(ctx, dup); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate create: expected ErrConflict, got %v", err)
	}

	got.FillLevel = 20
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	again, err := repo.Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again.FillLevel != 20 {
		t.Fatalf("fill = %v, want 20", again.FillLevel)
	}

	if err := repo.Delete(ctx, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, b.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("get after delete: expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, b.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
	if err := repo.Update(ctx, &domain.Bin{ID: 999, BinID: "X"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("update missing: expected ErrNotFound, got %v", err)
	}
}

func TestBinRepositoryListAndUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLBinRepository(newTestDB(t), db.SQLite)

	for _, id := range []string{"BIN001", "BIN002", "BIN003"} {
		if err := repo.Create(ctx, &domain.Bin{BinID: id, FillLevel: 50}); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	subset, err := repo.ListByBinIDs(ctx, []string{"BIN003", "BIN001", "NOPE"})
	if err != nil {
		t.Fatalf("list by ids: %v", err)
	}
	if len(subset) != 2 {
		t.Fatalf("got %d bins, want 2", len(subset))
	}

	empty, err := repo.ListByBinIDs(ctx, nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty id list = (%v, %v), want no bins", empty, err)
	}

	created, err := repo.UpsertByBinID(ctx, &domain.Bin{BinID: "BIN004", FillLevel: 10})
	if err != nil || !created {
		t.Fatalf("upsert new = (%v, %v), want created", created, err)
	}

	created, err = repo.UpsertByBinID(ctx, &domain.Bin{BinID: "BIN002", FillLevel: 99})
	if err != nil || created {
		t.Fatalf("upsert existing = (%v, %v), want update", created, err)
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("got %d bins, want 4", len(all))
	}
	if all[1].BinID != "BIN002" || all[1].FillLevel != 99 {
		t.Fatalf("upsert did not update BIN002: %+v", all[1])
	}
}

func TestTruckAndDumpingSpotRepositories(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	trucks := NewSQLTruckRepository(conn, db.SQLite)
	spots := NewSQLDumpingSpotRepository(conn, db.SQLite)

	truck := domain.NewTruck("TRUCK01", "Driver 1", domain.Point{Lat: 4.05, Lon: 9.77})
	if err := trucks.Create(ctx, truck); err != nil {
		t.Fatalf("create truck: %v", err)
	}
	got, err := trucks.GetByTruckID(ctx, "TRUCK01")
	if err != nil {
		t.Fatalf("get truck: %v", err)
	}
	if got.Status != domain.TruckIdle || got.Origin() != truck.Origin() {
		t.Fatalf("unexpected truck: %+v", got)
	}
	if _, err := trucks.GetByTruckID(ctx, "TRUCK99"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	spot := &domain.DumpingSpot{SpotID: "DS01", Lat: 4.04, Lon: 9.75, TotalCapacity: 1000, OrganicContent: 100}
	if err := spots.Create(ctx, spot); err != nil {
		t.Fatalf("create spot: %v", err)
	}
	list, err := spots.List(ctx)
	if err != nil {
		t.Fatalf("list spots: %v", err)
	}
	if len(list) != 1 || list[0].CurrentFillLevel() != 10 {
		t.Fatalf("unexpected spots: %+v", list)
	}
}

func TestSensorReadingRepositoryListRecent(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLSensorReadingRepository(newTestDB(t), db.SQLite)

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	lat := 4.05
	for i := 0; i < 3; i++ {
		r := &domain.SensorReading{
			SensorID:   "S1",
			BinID:      "BIN001",
			FillLevel:  float64(10 * i),
			RecordedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if i == 2 {
			r.Lat = &lat
		}
		if err := repo.Create(ctx, r); err != nil {
			t.Fatalf("create reading %d: %v", i, err)
		}
	}

	recent, err := repo.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d readings, want 2", len(recent))
	}
	if recent[0].FillLevel != 20 || recent[0].Lat == nil || *recent[0].Lat != lat {
		t.Fatalf("newest reading should come first with its optional fields: %+v", recent[0])
	}
	if recent[1].Lat != nil {
		t.Fatalf("missing optional values should stay nil")
	}
}

func TestCameraImagesCascadeOnDelete(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	cameras := NewSQLCameraRepository(conn, db.SQLite)
	images := NewSQLCameraImageRepository(conn, db.SQLite)

	cam := &domain.Camera{CameraID: "CAM01", Name: "Gate", Active: true}
	if err := cameras.Create(ctx, cam); err != nil {
		t.Fatalf("create camera: %v", err)
	}

	img := &domain.CameraImage{CameraID: cam.ID, Path: "a.jpg", Width: 10, Height: 5, SizeBytes: 123}
	if err := images.Create(ctx, img); err != nil {
		t.Fatalf("create image: %v", err)
	}
	if img.AnalysisType != domain.AnalysisGeneral {
		t.Fatalf("analysis type default = %q, want GENERAL", img.AnalysisType)
	}

	list, err := images.ListByCamera(ctx, cam.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("list images = (%v, %v), want one", list, err)
	}

	if err := cameras.Delete(ctx, cam.ID); err != nil {
		t.Fatalf("delete camera: %v", err)
	}
	if _, err := images.Get(ctx, img.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("image should be removed with its camera, got %v", err)
	}
}

func TestUserAndRoleRepositories(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	users := NewSQLUserRepository(conn, db.SQLite)
	roles := NewSQLRoleRepository(conn, db.SQLite)

	u := &domain.User{Username: "alice", PasswordHash: "hash", Role: domain.RoleDriver, IsActive: true}
	if err := users.Create(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := users.Create(ctx, &domain.User{Username: "alice", PasswordHash: "x", Role: domain.RoleViewer}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate user: expected ErrConflict, got %v", err)
	}

	if err := users.SetActive(ctx, "alice", false); err != nil {
		t.Fatalf("set active: %v", err)
	}
	if err := users.SetPassword(ctx, "alice", "new-hash"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	got, err := users.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.IsActive || got.PasswordHash != "new-hash" || got.Role != domain.RoleDriver {
		t.Fatalf("unexpected user: %+v", got)
	}
	if err := users.SetActive(ctx, "bob", true); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("set active unknown: expected ErrNotFound, got %v", err)
	}

	admin := &domain.Role{Name: domain.RoleAdmin, Permissions: map[string]bool{domain.PermManageUsers: true}}
	if err := roles.Upsert(ctx, admin); err != nil {
		t.Fatalf("upsert role: %v", err)
	}
	admin.Description = "changed"
	admin.Permissions[domain.PermManageUsers] = false
	if err := roles.Upsert(ctx, admin); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	r, err := roles.GetByName(ctx, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("get role: %v", err)
	}
	if r.Description != "changed" || r.Can(domain.PermManageUsers) {
		t.Fatalf("role not updated: %+v", r)
	}

	all, err := roles.List(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("list roles = (%v, %v), want one", all, err)
	}
}

func TestSeedDemo(t *testing.T) {
	ctx := context.Background()
	conn := newTestDB(t)
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	res, err := SeedDemo(ctx, conn, db.SQLite, SeedOptions{
		Rand:              rand.New(rand.NewSource(7)),
		Now:               now,
		AdminPasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if res.Bins != 40 || res.DumpingSpots != 5 || res.Trucks != 4 || res.Roles != 5 || !res.AdminCreated {
		t.Fatalf("unexpected seed result: %+v", res)
	}

	bins, err := NewSQLBinRepository(conn, db.SQLite).List(ctx)
	if err != nil {
		t.Fatalf("list bins: %v", err)
	}

	support := 0
	for _, b := range bins {
		if _, _, ok := b.SupportIssue(now); ok {
			support++
		}
		if b.BinID == "BIN038" && !b.LastUpdated.Equal(now.Add(-48*time.Hour)) {
			t.Fatalf("silent bin should carry an old timestamp, got %v", b.LastUpdated)
		}
	}
	if support != 5 {
		t.Fatalf("support bins = %d, want 5", support)
	}

	// Seeding again replaces demo data and keeps the existing admin.
	res, err = SeedDemo(ctx, conn, db.SQLite, SeedOptions{Rand: rand.New(rand.NewSource(7)), Now: now, AdminPasswordHash: "hash"})
	if err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if res.AdminCreated {
		t.Fatalf("admin should not be created twice")
	}
	bins, _ = NewSQLBinRepository(conn, db.SQLite).List(ctx)
	if len(bins) != 40 {
		t.Fatalf("bins after reseed = %d, want 40", len(bins))
	}
}
