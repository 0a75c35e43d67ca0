package postgres

import (
	"context"
	"database/sql"
	"strings"

	"medical-office/internal/domain/identity"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) Create(ctx context.Context, u identity.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, username, email, password_hash, full_name, role, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		u.ID,
		u.Username,
		strings.ToLower(u.Email),
		u.PasswordHash,
		u.FullName,
		string(u.Role),
		u.CreatedAt,
	)
	return err
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (identity.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, full_name, role, created_at
		FROM users
		WHERE email = $1
	`, strings.ToLower(strings.TrimSpace(email)))

	var u identity.User
	var role string
	if err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.FullName,
		&role,
		&u.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return identity.User{}, ErrNotFound
		}
		return identity.User{}, err
	}
	u.Role = identity.Role(role)

	return u, nil
}

func (r *UsersRepo) CountDoctors(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM users WHERE role IN ('admin', 'doctor')
	`).Scan(&n)
	return n, err
}
