package repo

import (
	"context"
	"database/sql"
	"errors"

	domain "github.com/rma010101/ecommerce-fullstack/internal/entity"
	"github.com/rma010101/ecommerce-fullstack/internal/usecase"
)

type MySQLUserRepo struct{ db *sql.DB }

func NewMySQLUserRepo(db *sql.DB) *MySQLUserRepo { return &MySQLUserRepo{db: db} }

var _ usecase.UserStore = (*MySQLUserRepo)(nil)

func (r *MySQLUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, username, email, password_hash, first_name, last_name, role, created_at, updated_at
FROM users WHERE username = ?`, username)

	var u domain.User
	var role string
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.FirstName, &u.LastName, &role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	return &u, nil
}

func (r *MySQLUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM users WHERE username = ?`, username).Scan(&n)
	return n > 0, err
}

func (r *MySQLUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM users WHERE email = ?`, email).Scan(&n)
	return n > 0, err
}

func (r *MySQLUserRepo) Insert(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, username, email, password_hash, first_name, last_name, role, created_at, updated_at)
VALUES (?,?,?,?,?,?,?,?,?)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName,
		string(u.Role), u.CreatedAt, u.UpdatedAt)
	return err
}
