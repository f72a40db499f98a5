package homework

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateAssignment inserts a new assignment and returns it with its id
// and creation timestamp filled in. Field validation happens in the
// service layer; this only touches the store.
func (r *Repository) CreateAssignment(ctx context.Context, a Assignment) (Assignment, error) {
	if a.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return Assignment{}, fmt.Errorf("generate id: %w", err)
		}
		a.ID = id.String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO assignments (id, subject, title, description, due_at_utc, created_by, created_at_utc, is_published)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, a.ID, a.Subject, a.Title, a.Description, a.DueAt.UTC(), a.CreatedBy, a.CreatedAt, a.Published)
	if err != nil {
		return Assignment{}, fmt.Errorf("insert assignment: %w", err)
	}
	return a, nil
}

// ListAssignments returns every assignment, published or not, ordered by
// due timestamp ascending. Ties fall back to creation time and then id,
// so equal deadlines keep insertion order.
func (r *Repository) ListAssignments(ctx context.Context) ([]Assignment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, subject, title, description, due_at_utc, created_by, created_at_utc, is_published
		FROM assignments
		ORDER BY due_at_utc ASC, created_at_utc ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Assignment
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.ID, &a.Subject, &a.Title, &a.Description, &a.DueAt, &a.CreatedBy, &a.CreatedAt, &a.Published); err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

// GetAssignment returns a single assignment by id.
func (r *Repository) GetAssignment(ctx context.Context, id string) (Assignment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, subject, title, description, due_at_utc, created_by, created_at_utc, is_published
		FROM assignments WHERE id = $1
	`, id)
	var a Assignment
	if err := row.Scan(&a.ID, &a.Subject, &a.Title, &a.Description, &a.DueAt, &a.CreatedBy, &a.CreatedAt, &a.Published); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Assignment{}, ErrNotFound
		}
		return Assignment{}, err
	}
	return a, nil
}

// TogglePublished flips the publication flag and returns the updated
// assignment.
func (r *Repository) TogglePublished(ctx context.Context, id string) (Assignment, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE assignments SET is_published = NOT is_published
		WHERE id = $1
		RETURNING id, subject, title, description, due_at_utc, created_by, created_at_utc, is_published
	`, id)
	var a Assignment
	if err := row.Scan(&a.ID, &a.Subject, &a.Title, &a.Description, &a.DueAt, &a.CreatedBy, &a.CreatedAt, &a.Published); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Assignment{}, ErrNotFound
		}
		return Assignment{}, err
	}
	return a, nil
}

// DeleteAssignment removes the assignment and all completions that
// reference it in one transaction. Either both deletes apply or neither.
func (r *Repository) DeleteAssignment(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM completions WHERE assignment_id = $1`, id); err != nil {
		return fmt.Errorf("delete completions: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}
