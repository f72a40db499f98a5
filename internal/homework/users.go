package homework

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// SeedUsers ensures every statically configured user exists, keyed by
// username. Safe to run on every start: existing rows are left alone.
func (r *Repository) SeedUsers(ctx context.Context, users []User) error {
	for _, u := range users {
		id := u.ID
		if id == "" {
			uid, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("generate id: %w", err)
			}
			id = uid.String()
		}
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO users (id, username, name, role, class)
			VALUES ($1,$2,$3,$4,$5)
			ON CONFLICT (username) DO NOTHING
		`, id, u.Username, u.Name, u.Role, u.Class)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
	}
	return nil
}

// GetUserByUsername resolves a seeded user record.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, name, role, class FROM users WHERE username = $1
	`, username)
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.Name, &u.Role, &u.Class); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

// ListUsers returns all seeded users ordered by display name.
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, username, name, role, class FROM users ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Name, &u.Role, &u.Class); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
