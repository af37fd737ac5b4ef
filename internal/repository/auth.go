package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/galleryhub/galleryhub/internal/models"
	"github.com/galleryhub/galleryhub/internal/service"
)

// PostgresAccountRepository implements account persistence using a
// PostgreSQL database.
type PostgresAccountRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAccountRepository creates a new PostgresAccountRepository
// with the given database connection. db must be a valid *sql.DB
// connected to a PostgreSQL instance.
func NewPostgresAccountRepository(db *sql.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{DB: db}
}

// CreateAccount inserts a new account row.
func (r *PostgresAccountRepository) CreateAccount(ctx context.Context, acc models.Account) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO users (id, name, email, password_hash, profile_picture) VALUES ($1, $2, $3, $4, $5)`,
		acc.ID, acc.Name, acc.Email, acc.PasswordHash, acc.ProfilePicture,
	)
	return err
}

// AccountByEmail returns the account with the given email, or
// service.ErrNotFound when no row matches.
func (r *PostgresAccountRepository) AccountByEmail(ctx context.Context, email string) (models.Account, error) {
	return r.scanAccount(r.DB.QueryRowContext(
		ctx,
		`SELECT id, name, email, password_hash, profile_picture FROM users WHERE email = $1`,
		email,
	))
}

// AccountByID returns the account with the given ID, or
// service.ErrNotFound when no row matches.
func (r *PostgresAccountRepository) AccountByID(ctx context.Context, id string) (models.Account, error) {
	return r.scanAccount(r.DB.QueryRowContext(
		ctx,
		`SELECT id, name, email, password_hash, profile_picture FROM users WHERE id = $1`,
		id,
	))
}

// UpdateAccount replaces the mutable columns for acc.ID.
func (r *PostgresAccountRepository) UpdateAccount(ctx context.Context, acc models.Account) error {
	res, err := r.DB.ExecContext(
		ctx,
		`UPDATE users SET name = $2, email = $3, password_hash = $4, profile_picture = $5 WHERE id = $1`,
		acc.ID, acc.Name, acc.Email, acc.PasswordHash, acc.ProfilePicture,
	)
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return service.ErrNotFound
	}
	return nil
}

func (r *PostgresAccountRepository) scanAccount(row *sql.Row) (models.Account, error) {
	var acc models.Account
	err := row.Scan(&acc.ID, &acc.Name, &acc.Email, &acc.PasswordHash, &acc.ProfilePicture)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, service.ErrNotFound
	}
	if err != nil {
		return models.Account{}, err
	}
	return acc, nil
}
