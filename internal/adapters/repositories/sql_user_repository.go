package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"waste-collection-service/internal/domain"
	"waste-collection-service/internal/platform/db"
)

// SQL-backed implementation of the UserRepository port.
type SQLUserRepository struct{ store }

func NewSQLUserRepository(conn *sql.DB, dialect db.Dialect) *SQLUserRepository {
	return &SQLUserRepository{store{DB: conn, Dialect: dialect}}
}

const userColumns = `id, username, email, password_hash, role, is_active, is_staff, created_at`

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var role string
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &u.IsActive, &u.IsStaff, timestamp{&u.CreatedAt})
	if err != nil {
		return nil, err
	}
	u.Role = domain.RoleName(role)
	return &u, nil
}

func (s *SQLUserRepository) Get(ctx context.Context, id int64) (*domain.User, error) {
	if err := s.check("get user"); err != nil {
		return nil, err
	}

	u, err := scanUser(s.DB.QueryRowContext(ctx, s.q(`SELECT `+userColumns+` FROM users WHERE id = ?`), id))
	if err != nil {
		return nil, mapNoRows(fmt.Sprintf("get user id=%d", id), err)
	}
	return u, nil
}

func (s *SQLUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if err := s.check("get user"); err != nil {
		return nil, err
	}

	u, err := scanUser(s.DB.QueryRowContext(ctx, s.q(`SELECT `+userColumns+` FROM users WHERE username = ?`), username))
	if err != nil {
		return nil, mapNoRows(fmt.Sprintf("get user username=%q", username), err)
	}
	return u, nil
}

func (s *SQLUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	if err := s.check("list users"); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("list users: query users table: %w", err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0, 16)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("list users: scan row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: row iteration: %w", err)
	}

	return users, nil
}

func (s *SQLUserRepository) Create(ctx context.Context, u *domain.User) error {
	if err := s.check("create user"); err != nil {
		return err
	}
	if u == nil {
		return errors.New("create user: user is nil")
	}

	u.CreatedAt = nowIfZero(u.CreatedAt)
	err := s.DB.QueryRowContext(ctx, s.q(`
	INSERT INTO users (username, email, password_hash, role, is_active, is_staff, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	RETURNING id;
	`), u.Username, u.Email, u.PasswordHash, string(u.Role), u.IsActive, u.IsStaff, u.CreatedAt).Scan(&u.ID)
	if err != nil {
		return mapWriteErr(fmt.Sprintf("create user username=%q", u.Username), err)
	}
	return nil
}

func (s *SQLUserRepository) Update(ctx context.Context, u *domain.User) error {
	if err := s.check("update user"); err != nil {
		return err
	}
	if u == nil {
		return errors.New("update user: user is nil")
	}

	op := fmt.Sprintf("update user id=%d", u.ID)
	res, err := s.DB.ExecContext(ctx, s.q(`
	UPDATE users
	SET username = ?, email = ?, password_hash = ?, role = ?, is_active = ?, is_staff = ?
	WHERE id = ?;
	`), u.Username, u.Email, u.PasswordHash, string(u.Role), u.IsActive, u.IsStaff, u.ID)
	if err != nil {
		return mapWriteErr(op, err)
	}
	return expectOne(op, res)
}

func (s *SQLUserRepository) Delete(ctx context.Context, id int64) error {
	if err := s.check("delete user"); err != nil {
		return err
	}

	op := fmt.Sprintf("delete user id=%d", id)
	res, err := s.DB.ExecContext(ctx, s.q(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return expectOne(op, res)
}

func (s *SQLUserRepository) SetActive(ctx context.Context, username string, active bool) error {
	if err := s.check("set user active"); err != nil {
		return err
	}

	op := fmt.Sprintf("set user active username=%q", username)
	res, err := s.DB.ExecContext(ctx, s.q(`UPDATE users SET is_active = ? WHERE username = ?`), active, username)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return expectOne(op, res)
}

func (s *SQLUserRepository) SetPassword(ctx context.Context, username, passwordHash string) error {
	if err := s.check("set user password"); err != nil {
		return err
	}

	op := fmt.Sprintf("set user password username=%q", username)
	res, err := s.DB.ExecContext(ctx, s.q(`UPDATE users SET password_hash = ? WHERE username = ?`), passwordHash, username)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return expectOne(op, res)
}

// SQL-backed implementation of the RoleRepository port.
// Permissions are stored as a JSON object.
type SQLRoleRepository struct{ store }

func NewSQLRoleRepository(conn *sql.DB, dialect db.Dialect) *SQLRoleRepository {
	return &SQLRoleRepository{store{DB: conn, Dialect: dialect}}
}

const roleColumns = `id, name, description, permissions, created_at, updated_at`

func scanRole(row rowScanner) (*domain.Role, error) {
	var r domain.Role
	var name, perms string
	err := row.Scan(&r.ID, &name, &r.Description, &perms, timestamp{&r.CreatedAt}, timestamp{&r.UpdatedAt})
	if err != nil {
		return nil, err
	}

	r.Name = domain.RoleName(name)
	r.Permissions = map[string]bool{}
	if err := json.Unmarshal([]byte(perms), &r.Permissions); err != nil {
		return nil, fmt.Errorf("decode permissions for role %q: %w", name, err)
	}
	return &r, nil
}

func (s *SQLRoleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	if err := s.check("list roles"); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+roleColumns+` FROM roles ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("list roles: query roles table: %w", err)
	}
	defer rows.Close()

	roles := make([]*domain.Role, 0, 8)
	for rows.Next() {
		r, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("list roles: scan row: %w", err)
		}
		roles = append(roles, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list roles: row iteration: %w", err)
	}

	return roles, nil
}

func (s *SQLRoleRepository) GetByName(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	if err := s.check("get role"); err != nil {
		return nil, err
	}

	r, err := scanRole(s.DB.QueryRowContext(ctx, s.q(`SELECT `+roleColumns+` FROM roles WHERE name = ?`), string(name)))
	if err != nil {
		return nil, mapNoRows(fmt.Sprintf("get role name=%q", name), err)
	}
	return r, nil
}

func (s *SQLRoleRepository) Upsert(ctx context.Context, r *domain.Role) error {
	if err := s.check("upsert role"); err != nil {
		return err
	}
	if r == nil || r.Name == "" {
		return errors.New("upsert role: role name must not be empty")
	}

	perms, err := json.Marshal(r.Permissions)
	if err != nil {
		return fmt.Errorf("upsert role %q: encode permissions: %w", r.Name, err)
	}

	now := time.Now().UTC()
	err = s.DB.QueryRowContext(ctx, s.q(`
	INSERT INTO roles (name, description, permissions, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (name) DO UPDATE
	SET description = EXCLUDED.description,
		permissions = EXCLUDED.permissions,
		updated_at = EXCLUDED.updated_at
	RETURNING id;
	`), string(r.Name), r.Description, string(perms), now, now).Scan(&r.ID)
	if err != nil {
		return fmt.Errorf("upsert role %q: %w", r.Name, err)
	}

	r.UpdatedAt = now
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	return nil
}
