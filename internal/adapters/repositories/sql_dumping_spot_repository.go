package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"waste-collection-service/internal/domain"
	"waste-collection-service/internal/platform/db"
	"waste-collection-service/internal/platform/obs"
)

// SQL-backed implementation of the DumpingSpotRepository port.
type SQLDumpingSpotRepository struct{ store }

func NewSQLDumpingSpotRepository(conn *sql.DB, dialect db.Dialect) *SQLDumpingSpotRepository {
	return &SQLDumpingSpotRepository{store{DB: conn, Dialect: dialect}}
}

const spotColumns = `id, spot_id, lat, lon, total_capacity, organic_content, plastic_content, metal_content`

func scanSpot(row rowScanner) (*domain.DumpingSpot, error) {
	var d domain.DumpingSpot
	err := row.Scan(&d.ID, &d.SpotID, &d.Lat, &d.Lon, &d.TotalCapacity, &d.OrganicContent, &d.PlasticContent, &d.MetalContent)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *SQLDumpingSpotRepository) Get(ctx context.Context, id int64) (*domain.DumpingSpot, error) {
	if err := s.check("get dumping spot"); err != nil {
		return nil, err
	}

	d, err := scanSpot(s.DB.QueryRowContext(ctx, s.q(`SELECT `+spotColumns+` FROM dumping_spots WHERE id = ?`), id))
	if err != nil {
		return nil, mapNoRows(fmt.Sprintf("get dumping spot id=%d", id), err)
	}
	return d, nil
}

func (s *SQLDumpingSpotRepository) List(ctx context.Context) (_ []*domain.DumpingSpot, err error) {
	defer obs.Time(ctx, "dumping_spots.List")(&err)

	if err := s.check("list dumping spots"); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+spotColumns+` FROM dumping_spots ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("list dumping spots: query dumping_spots table: %w", err)
	}
	defer rows.Close()

	spots := make([]*domain.DumpingSpot, 0, 16)
	for rows.Next() {
		d, err := scanSpot(rows)
		if err != nil {
			return nil, fmt.Errorf("list dumping spots: scan row: %w", err)
		}
		spots = append(spots, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list dumping spots: row iteration: %w", err)
	}

	return spots, nil
}

func (s *SQLDumpingSpotRepository) Create(ctx context.Context, d *domain.DumpingSpot) error {
	if err := s.check("create dumping spot"); err != nil {
		return err
	}
	if d == nil {
		return errors.New("create dumping spot: spot is nil")
	}

	err := s.DB.QueryRowContext(ctx, s.q(`
	INSERT INTO dumping_spots (spot_id, lat, lon, total_capacity, organic_content, plastic_content, metal_content)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	RETURNING id;
	`), d.SpotID, d.Lat, d.Lon, d.TotalCapacity, d.OrganicContent, d.PlasticContent, d.MetalContent).Scan(&d.ID)
	if err != nil {
		return mapWriteErr(fmt.Sprintf("create dumping spot spot_id=%q", d.SpotID), err)
	}
	return nil
}

func (s *SQLDumpingSpotRepository) Update(ctx context.Context, d *domain.DumpingSpot) error {
	if err := s.check("update dumping spot"); err != nil {
		return err
	}
	if d == nil {
		return errors.New("update dumping spot: spot is nil")
	}

	op := fmt.Sprintf("update dumping spot id=%d", d.ID)
	res, err := s.DB.ExecContext(ctx, s.q(`
	UPDATE dumping_spots
	SET spot_id = ?, lat = ?, lon = ?, total_capacity = ?,
		organic_content = ?, plastic_content = ?, metal_content = ?
	WHERE id = ?;
	`), d.SpotID, d.Lat, d.Lon, d.TotalCapacity, d.OrganicContent, d.PlasticContent, d.MetalContent, d.ID)
	if err != nil {
		return mapWriteErr(op, err)
	}
	return expectOne(op, res)
}

func (s *SQLDumpingSpotRepository) Delete(ctx context.Context, id int64) error {
	if err := s.check("delete dumping spot"); err != nil {
		return err
	}

	op := fmt.Sprintf("delete dumping spot id=%d", id)
	res, err := s.DB.ExecContext(ctx, s.q(`DELETE FROM dumping_spots WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return expectOne(op, res)
}
