package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"waste-collection-service/internal/domain"
	"waste-collection-service/internal/platform/db"
)

// SQL-backed implementation of the TruckRepository port.
type SQLTruckRepository struct{ store }

func NewSQLTruckRepository(conn *sql.DB, dialect db.Dialect) *SQLTruckRepository {
	return &SQLTruckRepository{store{DB: conn, Dialect: dialect}}
}

const truckColumns = `id, truck_id, driver_name, lat, lon, fuel_level, status, last_updated`

func scanTruck(row rowScanner) (*domain.Truck, error) {
	var t domain.Truck
	var status string
	err := row.Scan(&t.ID, &t.TruckID, &t.DriverName, &t.Lat, &t.Lon, &t.FuelLevel, &status, timestamp{&t.LastUpdated})
	if err != nil {
		return nil, err
	}
	t.Status = domain.TruckStatus(status)
	return &t, nil
}

func (s *SQLTruckRepository) Get(ctx context.Context, id int64) (*domain.Truck, error) {
	if err := s.check("get truck"); err != nil {
		return nil, err
	}

	t, err := scanTruck(s.DB.QueryRowContext(ctx, s.q(`SELECT `+truckColumns+` FROM trucks WHERE id = ?`), id))
	if err != nil {
		return nil, mapNoRows(fmt.Sprintf("get truck id=%d", id), err)
	}
	return t, nil
}

func (s *SQLTruckRepository) GetByTruckID(ctx context.Context, truckID string) (*domain.Truck, error) {
	if err := s.check("get truck"); err != nil {
		return nil, err
	}

	t, err := scanTruck(s.DB.QueryRowContext(ctx, s.q(`SELECT `+truckColumns+` FROM trucks WHERE truck_id = ?`), truckID))
	if err != nil {
		return nil, mapNoRows(fmt.Sprintf("get truck truck_id=%q", truckID), err)
	}
	return t, nil
}

func (s *SQLTruckRepository) List(ctx context.Context) ([]*domain.Truck, error) {
	if err := s.check("list trucks"); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+truckColumns+` FROM trucks ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("list trucks: query trucks table: %w", err)
	}
	defer rows.Close()

	trucks := make([]*domain.Truck, 0, 16)
	for rows.Next() {
		t, err := scanTruck(rows)
		if err != nil {
			return nil, fmt.Errorf("list trucks: scan row: %w", err)
		}
		trucks = append(trucks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trucks: row iteration: %w", err)
	}

	return trucks, nil
}

func (s *SQLTruckRepository) Create(ctx context.Context, t *domain.Truck) error {
	if err := s.check("create truck"); err != nil {
		return err
	}
	if t == nil {
		return errors.New("create truck: truck is nil")
	}
	if t.Status == "" {
		t.Status = domain.TruckIdle
	}

	t.LastUpdated = nowIfZero(t.LastUpdated)
	err := s.DB.QueryRowContext(ctx, s.q(`
	INSERT INTO trucks (truck_id, driver_name, lat, lon, fuel_level, status, last_updated)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	RETURNING id;
	`), t.TruckID, t.DriverName, t.Lat, t.Lon, t.FuelLevel, string(t.Status), t.LastUpdated).Scan(&t.ID)
	if err != nil {
		return mapWriteErr(fmt.Sprintf("create truck truck_id=%q", t.TruckID), err)
	}
	return nil
}

func (s *SQLTruckRepository) Update(ctx context.Context, t *domain.Truck) error {
	if err := s.check("update truck"); err != nil {
		return err
	}
	if t == nil {
		return errors.New("update truck: truck is nil")
	}

	op := fmt.Sprintf("update truck id=%d", t.ID)
	t.LastUpdated = nowIfZero(t.LastUpdated)
	res, err := s.DB.ExecContext(ctx, s.q(`
	UPDATE trucks
	SET truck_id = ?, driver_name = ?, lat = ?, lon = ?, fuel_level = ?, status = ?, last_updated = ?
	WHERE id = ?;
	`), t.TruckID, t.DriverName, t.Lat, t.Lon, t.FuelLevel, string(t.Status), t.LastUpdated, t.ID)
	if err != nil {
		return mapWriteErr(op, err)
	}
	return expectOne(op, res)
}

func (s *SQLTruckRepository) Delete(ctx context.Context, id int64) error {
	if err := s.check("delete truck"); err != nil {
		return err
	}

	op := fmt.Sprintf("delete truck id=%d", id)
	res, err := s.DB.ExecContext(ctx, s.q(`DELETE FROM trucks WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return expectOne(op, res)
}
