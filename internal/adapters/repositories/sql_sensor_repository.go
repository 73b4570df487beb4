package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"waste-collection-service/internal/domain"
	"waste-collection-service/internal/platform/db"
)

// SQL-backed implementation of the SensorReadingRepository port.
type SQLSensorReadingRepository struct{ store }

func NewSQLSensorReadingRepository(conn *sql.DB, dialect db.Dialect) *SQLSensorReadingRepository {
	return &SQLSensorReadingRepository{store{DB: conn, Dialect: dialect}}
}

const readingColumns = `id, sensor_id, bin_id, fill_level, lat, lon, organic_pct, plastic_pct, metal_pct, recorded_at`

func scanReading(row rowScanner) (*domain.SensorReading, error) {
	var (
		r                             domain.SensorReading
		lat, lon, org, plastic, metal sql.NullFloat64
	)
	err := row.Scan(&r.ID, &r.SensorID, &r.BinID, &r.FillLevel, &lat, &lon, &org, &plastic, &metal, timestamp{&r.RecordedAt})
	if err != nil {
		return nil, err
	}

	r.Lat = floatPtr(lat)
	r.Lon = floatPtr(lon)
	r.OrganicPct = floatPtr(org)
	r.PlasticPct = floatPtr(plastic)
	r.MetalPct = floatPtr(metal)
	return &r, nil
}

func (s *SQLSensorReadingRepository) Get(ctx context.Context, id int64) (*domain.SensorReading, error) {
	if err := s.check("get sensor reading"); err != nil {
		return nil, err
	}

	r, err := scanReading(s.DB.QueryRowContext(ctx, s.q(`SELECT `+readingColumns+` FROM sensor_readings WHERE id = ?`), id))
	if err != nil {
		return nil, mapNoRows(fmt.Sprintf("get sensor reading id=%d", id), err)
	}
	return r, nil
}

func (s *SQLSensorReadingRepository) ListRecent(ctx context.Context, limit int) ([]*domain.SensorReading, error) {
	if err := s.check("list sensor readings"); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []*domain.SensorReading{}, nil
	}

	rows, err := s.DB.QueryContext(ctx, s.q(`
	SELECT `+readingColumns+`
	FROM sensor_readings
	ORDER BY recorded_at DESC, id DESC
	LIMIT ?;
	`), limit)
	if err != nil {
		return nil, fmt.Errorf("list sensor readings: query sensor_readings table: %w", err)
	}
	defer rows.Close()

	readings := make([]*domain.SensorReading, 0, limit)
	for rows.Next() {
		r, err := scanReading(rows)
		if err != nil {
			return nil, fmt.Errorf("list sensor readings: scan row: %w", err)
		}
		readings = append(readings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sensor readings: row iteration: %w", err)
	}

	return readings, nil
}

func (s *SQLSensorReadingRepository) Create(ctx context.Context, r *domain.SensorReading) error {
	if err := s.check("create sensor reading"); err != nil {
		return err
	}
	if r == nil {
		return errors.New("create sensor reading: reading is nil")
	}

	r.RecordedAt = nowIfZero(r.RecordedAt)
	err := s.DB.QueryRowContext(ctx, s.q(`
	INSERT INTO sensor_readings (sensor_id, bin_id, fill_level, lat, lon, organic_pct, plastic_pct, metal_pct, recorded_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	RETURNING id;
	`),
		r.SensorID, r.BinID, r.FillLevel,
		nullFloat(r.Lat), nullFloat(r.Lon),
		nullFloat(r.OrganicPct), nullFloat(r.PlasticPct), nullFloat(r.MetalPct),
		r.RecordedAt,
	).Scan(&r.ID)
	if err != nil {
		return mapWriteErr(fmt.Sprintf("create sensor reading bin_id=%q", r.BinID), err)
	}
	return nil
}

func (s *SQLSensorReadingRepository) Update(ctx context.Context, r *domain.SensorReading) error {
	if err := s.check("update sensor reading"); err != nil {
		return err
	}
	if r == nil {
		return errors.New("update sensor reading: reading is nil")
	}

	op := fmt.Sprintf("update sensor reading id=%d", r.ID)
	r.RecordedAt = nowIfZero(r.RecordedAt)
	res, err := s.DB.ExecContext(ctx, s.q(`
	UPDATE sensor_readings
	SET sensor_id = ?, bin_id = ?, fill_level = ?, lat = ?, lon = ?,
		organic_pct = ?, plastic_pct = ?, metal_pct = ?, recorded_at = ?
	WHERE id = ?;
	`),
		r.SensorID, r.BinID, r.FillLevel,
		nullFloat(r.Lat), nullFloat(r.Lon),
		nullFloat(r.OrganicPct), nullFloat(r.PlasticPct), nullFloat(r.MetalPct),
		r.RecordedAt, r.ID,
	)
	if err != nil {
		return mapWriteErr(op, err)
	}
	return expectOne(op, res)
}

func (s *SQLSensorReadingRepository) Delete(ctx context.Context, id int64) error {
	if err := s.check("delete sensor reading"); err != nil {
		return err
	}

	op := fmt.Sprintf("delete sensor reading id=%d", id)
	res, err := s.DB.ExecContext(ctx, s.q(`DELETE FROM sensor_readings WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return expectOne(op, res)
}
