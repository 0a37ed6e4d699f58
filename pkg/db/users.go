package db

import (
	"context"
	"errors"
	"fmt"

	"social-lens-go/pkg/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const userColumns = `id, email, api_key, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.APIKey,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

// GetUserByAPIKey resolves the account an API key belongs to. Every
// authenticated request goes through this lookup.
func (db *DB) GetUserByAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM users
		 WHERE api_key = $1`,
		apiKey,
	)
	return scanUser(row)
}

// CreateUser registers an account under an email address. Emails are unique;
// re-registering one reports a conflict rather than minting a second key.
func (db *DB) CreateUser(ctx context.Context, email, apiKey string) (*models.User, error) {
	row := db.Pool.QueryRow(ctx,
		`INSERT INTO users (email, api_key)
		 VALUES ($1, $2)
		 RETURNING `+userColumns,
		email, apiKey,
	)

	user, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("email already registered")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}
