package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
	"waste-collection-service/internal/domain"
	"waste-collection-service/internal/platform/db"
)

// Centre of the demo deployment (Douala 5) and the scatter radius.
var (
	SeedCenter   = domain.Point{Lat: 4.0511, Lon: 9.7679}
	SeedRadiusKm = 5.0
)

// Fill-level bands for regular demo bins: count, min, max.
var seedBinBands = []struct {
	count    int
	min, max float64
}{
	{5, 0, 49},
	{10, 50, 79},
	{10, 80, 99},
	{10, 100, 100},
}

// Fill levels of the bins that exercise the technical-support view.
// The third one is healthy but silent.
var seedSupportFills = []float64{
	domain.FillNegative,
	domain.FillOverfilled,
	60,
	domain.FillSensorError,
	domain.FillUnreachable,
}

type SeedOptions struct {
	Rand *rand.Rand
	Now  time.Time
	// Bcrypt hash for the admin account; the admin is skipped when empty.
	AdminPasswordHash string
}

// Counts of rows written by SeedDemo.
type SeedResult struct {
	Bins         int
	DumpingSpots int
	Trucks       int
	Roles        int
	AdminCreated bool
}

// randomLocation scatters a point uniformly in angle and distance around center.
func randomLocation(rng *rand.Rand, center domain.Point, radiusKm float64) domain.Point {
	radiusDeg := radiusKm / 111.32
	angle := rng.Float64() * 2 * math.Pi
	dist := rng.Float64() * radiusDeg
	return domain.Point{
		Lat: center.Lat + dist*math.Cos(angle),
		Lon: center.Lon + dist*math.Sin(angle),
	}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// randomComposition returns organic/plastic/metal percentages summing to 100.
func randomComposition(rng *rand.Rand) (organic, plastic, metal float64) {
	organic = uniform(rng, 30, 40)
	plastic = uniform(rng, 30, 40)
	metal = 100 - organic - plastic
	return organic, plastic, metal
}

// SeedDemo replaces bins, dumping spots and trucks with demo data,
// installs the default roles and creates the admin account if missing.
func SeedDemo(ctx context.Context, conn *sql.DB, dialect db.Dialect, opts SeedOptions) (SeedResult, error) {
	if conn == nil {
		return SeedResult{}, errors.New("seed demo: DB is nil")
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(42))
	}
	now := nowIfZero(opts.Now)

	var res SeedResult

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("seed demo: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"bins", "dumping_spots", "trucks"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return res, fmt.Errorf("seed demo: clear %s: %w", table, err)
		}
	}

	binStmt, err := tx.PrepareContext(ctx, dialect.Rebind(`
	INSERT INTO bins (bin_id, fill_level, lat, lon, organic_pct, plastic_pct, metal_pct, last_updated)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`))
	if err != nil {
		return res, fmt.Errorf("seed demo: prepare bin insert: %w", err)
	}
	defer binStmt.Close()

	insertBin := func(fill float64, updated time.Time) error {
		res.Bins++
		p := randomLocation(rng, SeedCenter, SeedRadiusKm)
		organic, plastic, metal := randomComposition(rng)
		binID := fmt.Sprintf("BIN%03d", res.Bins)
		if _, err := binStmt.ExecContext(ctx, binID, fill, p.Lat, p.Lon, organic, plastic, metal, updated); err != nil {
			return fmt.Errorf("seed demo: insert bin %s: %w", binID, err)
		}
		return nil
	}

	for _, band := range seedBinBands {
		for i := 0; i < band.count; i++ {
			if err := insertBin(uniform(rng, band.min, band.max), now); err != nil {
				return res, err
			}
		}
	}
	for i, fill := range seedSupportFills {
		updated := now
		if i == 2 {
			updated = now.Add(-48 * time.Hour)
		}
		if err := insertBin(fill, updated); err != nil {
			return res, err
		}
	}

	spotStmt, err := tx.PrepareContext(ctx, dialect.Rebind(`
	INSERT INTO dumping_spots (spot_id, lat, lon, total_capacity, organic_content, plastic_content, metal_content)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`))
	if err != nil {
		return res, fmt.Errorf("seed demo: prepare dumping spot insert: %w", err)
	}
	defer spotStmt.Close()

	for i := 0; i < 5; i++ {
		p := randomLocation(rng, SeedCenter, SeedRadiusKm)
		capacity := uniform(rng, 1000, 5000)
		content := uniform(rng, 0, 50) / 100 * capacity

		organicRatio := rng.Float64()
		plasticRatio := uniform(rng, 0, 1-organicRatio)
		metalRatio := 1 - organicRatio - plasticRatio

		spotID := fmt.Sprintf("DS%02d", i+1)
		_, err := spotStmt.ExecContext(ctx, spotID, p.Lat, p.Lon, capacity,
			content*organicRatio, content*plasticRatio, content*metalRatio)
		if err != nil {
			return res, fmt.Errorf("seed demo: insert dumping spot %s: %w", spotID, err)
		}
		res.DumpingSpots++
	}

	truckStmt, err := tx.PrepareContext(ctx, dialect.Rebind(`
	INSERT INTO trucks (truck_id, driver_name, lat, lon, fuel_level, status, last_updated)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`))
	if err != nil {
		return res, fmt.Errorf("seed demo: prepare truck insert: %w", err)
	}
	defer truckStmt.Close()

	statuses := []domain.TruckStatus{domain.TruckActive, domain.TruckIdle, domain.TruckMaintenance}
	for i := 0; i < 4; i++ {
		p := randomLocation(rng, SeedCenter, SeedRadiusKm)
		fuel := math.Round(uniform(rng, 10, 100)*100) / 100
		status := statuses[rng.Intn(len(statuses))]

		truckID := fmt.Sprintf("TRUCK%02d", i+1)
		_, err := truckStmt.ExecContext(ctx, truckID, fmt.Sprintf("Driver %d", i+1), p.Lat, p.Lon, fuel, string(status), now)
		if err != nil {
			return res, fmt.Errorf("seed demo: insert truck %s: %w", truckID, err)
		}
		res.Trucks++
	}

	if err := tx.Commit(); err != nil {
		return res, fmt.Errorf("seed demo: commit tx: %w", err)
	}

	roles := NewSQLRoleRepository(conn, dialect)
	for _, r := range domain.DefaultRoles() {
		if err := roles.Upsert(ctx, &r); err != nil {
			return res, fmt.Errorf("seed demo: %w", err)
		}
		res.Roles++
	}

	if opts.AdminPasswordHash == "" {
		return res, nil
	}

	users := NewSQLUserRepository(conn, dialect)
	admin := &domain.User{
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: opts.AdminPasswordHash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
		IsStaff:      true,
		CreatedAt:    now,
	}
	switch err := users.Create(ctx, admin); {
	case err == nil:
		res.AdminCreated = true
	case errors.Is(err, domain.ErrConflict):
	default:
		return res, fmt.Errorf("seed demo: %w", err)
	}

	return res, nil
}
