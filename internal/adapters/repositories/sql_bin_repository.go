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

// SQL-backed implementation of the BinRepository port.
type SQLBinRepository struct{ store }

func NewSQLBinRepository(conn *sql.DB, dialect db.Dialect) *SQLBinRepository {
	return &SQLBinRepository{store{DB: conn, Dialect: dialect}}
}

const binColumns = `id, bin_id, fill_level, lat, lon, organic_pct, plastic_pct, metal_pct, last_updated`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBin(row rowScanner) (*domain.Bin, error) {
	var b domain.Bin
	err := row.Scan(
		&b.ID, &b.BinID, &b.FillLevel, &b.Lat, &b.Lon,
		&b.OrganicPct, &b.PlasticPct, &b.MetalPct, timestamp{&b.LastUpdated},
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *SQLBinRepository) Get(ctx context.Context, id int64) (*domain.Bin, error) {
	if err := s.check("get bin"); err != nil {
		return nil, err
	}

	row := s.DB.QueryRowContext(ctx, s.q(`SELECT `+binColumns+` FROM bins WHERE id = ?`), id)
	b, err := scanBin(row)
	if err != nil {
		return nil, mapNoRows(fmt.Sprintf("get bin id=%d", id), err)
	}
	return b, nil
}

func (s *SQLBinRepository) GetByBinID(ctx context.Context, binID string) (*domain.Bin, error) {
	if err := s.check("get bin"); err != nil {
		return nil, err
	}

	row := s.DB.QueryRowContext(ctx, s.q(`SELECT `+binColumns+` FROM bins WHERE bin_id = ?`), binID)
	b, err := scanBin(row)
	if err != nil {
		return nil, mapNoRows(fmt.Sprintf("get bin bin_id=%q", binID), err)
	}
	return b, nil
}

// Return all bins stored in the database.
func (s *SQLBinRepository) List(ctx context.Context) (_ []*domain.Bin, err error) {
	defer obs.Time(ctx, "bins.List")(&err)

	if err := s.check("list bins"); err != nil {
		return nil, err
	}

	return s.list(ctx, "list bins", `SELECT `+binColumns+` FROM bins ORDER BY id;`)
}

func (s *SQLBinRepository) ListByBinIDs(ctx context.Context, binIDs []string) ([]*domain.Bin, error) {
	if err := s.check("list bins by id"); err != nil {
		return nil, err
	}
	if len(binIDs) == 0 {
		return []*domain.Bin{}, nil
	}

	args := make([]any, len(binIDs))
	for i, id := range binIDs {
		args[i] = id
	}

	query := `SELECT ` + binColumns + ` FROM bins WHERE bin_id IN (` + placeholders(len(binIDs)) + `) ORDER BY id;`
	return s.list(ctx, "list bins by id", query, args...)
}

func (s *SQLBinRepository) list(ctx context.Context, op, query string, args ...any) ([]*domain.Bin, error) {
	rows, err := s.DB.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query bins table: %w", op, err)
	}
	defer rows.Close()

	bins := make([]*domain.Bin, 0, 64)
	for rows.Next() {
		b, err := scanBin(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}
		bins = append(bins, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: row iteration: %w", op, err)
	}

	return bins, nil
}

func (s *SQLBinRepository) Create(ctx context.Context, b *domain.Bin) error {
	if err := s.check("create bin"); err != nil {
		return err
	}
	if b == nil {
		return errors.New("create bin: bin is nil")
	}

	b.LastUpdated = nowIfZero(b.LastUpdated)
	err := s.DB.QueryRowContext(ctx, s.q(`
	INSERT INTO bins (bin_id, fill_level, lat, lon, organic_pct, plastic_pct, metal_pct, last_updated)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	RETURNING id;
	`), b.BinID, b.FillLevel, b.Lat, b.Lon, b.OrganicPct, b.PlasticPct, b.MetalPct, b.LastUpdated).Scan(&b.ID)
	if err != nil {
		return mapWriteErr(fmt.Sprintf("create bin bin_id=%q", b.BinID), err)
	}
	return nil
}

func (s *SQLBinRepository) Update(ctx context.Context, b *domain.Bin) error {
	if err := s.check("update bin"); err != nil {
		return err
	}
	if b == nil {
		return errors.New("update bin: bin is nil")
	}

	return s.update(ctx, s.DB, b)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLBinRepository) update(ctx context.Context, ex execer, b *domain.Bin) error {
	op := fmt.Sprintf("update bin id=%d", b.ID)

	b.LastUpdated = nowIfZero(b.LastUpdated)
	res, err := ex.ExecContext(ctx, s.q(`
	UPDATE bins
	SET bin_id = ?, fill_level = ?, lat = ?, lon = ?,
		organic_pct = ?, plastic_pct = ?, metal_pct = ?, last_updated = ?
	WHERE id = ?;
	`), b.BinID, b.FillLevel, b.Lat, b.Lon, b.OrganicPct, b.PlasticPct, b.MetalPct, b.LastUpdated, b.ID)
	if err != nil {
		return mapWriteErr(op, err)
	}
	return expectOne(op, res)
}

func (s *SQLBinRepository) Delete(ctx context.Context, id int64) error {
	if err := s.check("delete bin"); err != nil {
		return err
	}

	op := fmt.Sprintf("delete bin id=%d", id)
	res, err := s.DB.ExecContext(ctx, s.q(`DELETE FROM bins WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return expectOne(op, res)
}

// Insert or update the bin keyed by BinID inside a single transaction.
func (s *SQLBinRepository) UpsertByBinID(ctx context.Context, b *domain.Bin) (created bool, err error) {
	if err := s.check("upsert bin"); err != nil {
		return false, err
	}
	if b == nil || b.BinID == "" {
		return false, errors.New("upsert bin: bin id must not be empty")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("upsert bin: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	err = tx.QueryRowContext(ctx, s.q(`SELECT id FROM bins WHERE bin_id = ?`), b.BinID).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		b.LastUpdated = nowIfZero(b.LastUpdated)
		err = tx.QueryRowContext(ctx, s.q(`
		INSERT INTO bins (bin_id, fill_level, lat, lon, organic_pct, plastic_pct, metal_pct, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id;
		`), b.BinID, b.FillLevel, b.Lat, b.Lon, b.OrganicPct, b.PlasticPct, b.MetalPct, b.LastUpdated).Scan(&b.ID)
		if err != nil {
			return false, mapWriteErr(fmt.Sprintf("upsert bin: insert bin_id=%q", b.BinID), err)
		}
		created = true
	case err != nil:
		return false, fmt.Errorf("upsert bin: lookup bin_id=%q: %w", b.BinID, err)
	default:
		b.ID = id
		if err := s.update(ctx, tx, b); err != nil {
			return false, fmt.Errorf("upsert bin: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("upsert bin: commit tx: %w", err)
	}
	return created, nil
}
