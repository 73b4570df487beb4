package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"waste-collection-service/internal/domain"
	"waste-collection-service/internal/platform/db"
)

// Layouts SQLite drivers use when a time.Time is stored as text.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// timestamp scans a column that may come back as time.Time or as text.
type timestamp struct{ t *time.Time }

func (s timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s.t = time.Time{}
		return nil
	case time.Time:
		*s.t = v.UTC()
		return nil
	case int64:
		*s.t = time.Unix(v, 0).UTC()
		return nil
	case []byte:
		return s.parse(string(v))
	case string:
		return s.parse(v)
	}
	return fmt.Errorf("scan timestamp: unsupported type %T", src)
}

func (s timestamp) parse(v string) error {
	v = strings.TrimSpace(v)
	// Go's time.String form may carry a monotonic clock suffix.
	if i := strings.Index(v, " m="); i >= 0 {
		v = v[:i]
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			*s.t = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("scan timestamp: unrecognized format %q", v)
}

// A sql.DB paired with the dialect its queries must be rebound to.
type store struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func (s store) q(query string) string { return s.Dialect.Rebind(query) }

func (s store) check(op string) error {
	if s.DB == nil {
		return fmt.Errorf("%s: DB is nil", op)
	}
	return nil
}

// mapWriteErr translates driver errors into domain sentinels.
func mapWriteErr(op string, err error) error {
	if db.IsUniqueViolation(err) {
		return fmt.Errorf("%s: %w", op, domain.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func mapNoRows(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// expectOne reports domain.ErrNotFound when an update or delete touched no row.
func expectOne(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

// placeholders returns "?, ?, ..." with n entries.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func nowIfZero(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
