package homework

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// foreign_key_violation, raised when the referenced assignment or user
// row is gone.
const pgFKViolation = "23503"

// SetCompletion upserts the completion row for (userID, assignmentID).
// The insert and update are a single statement so concurrent toggles on
// the same pair race on the UNIQUE(user_id, assignment_id) constraint
// instead of creating duplicates. Toggling against a deleted assignment
// (or unknown user) returns ErrNotFound: the admin may remove an
// assignment while a student still has it on screen.
func (r *Repository) SetCompletion(ctx context.Context, userID, assignmentID string, status Status) (Completion, error) {
	if !status.IsWritable() {
		return Completion{}, NewValidationError(fmt.Sprintf("status %q cannot be stored", status))
	}

	id, err := uuid.NewV7()
	if err != nil {
		return Completion{}, fmt.Errorf("generate id: %w", err)
	}
	now := time.Now().UTC()

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO completions (id, user_id, assignment_id, status, completed_at_utc)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (user_id, assignment_id) DO UPDATE SET
			status = EXCLUDED.status,
			completed_at_utc = EXCLUDED.completed_at_utc
		RETURNING id, user_id, assignment_id, status, completed_at_utc
	`, id.String(), userID, assignmentID, status, now)

	var c Completion
	if err := row.Scan(&c.ID, &c.UserID, &c.AssignmentID, &c.Status, &c.CompletedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgFKViolation {
			return Completion{}, ErrNotFound
		}
		return Completion{}, fmt.Errorf("upsert completion: %w", err)
	}
	return c, nil
}

// CountCompletions returns the number of completion rows referencing an
// assignment. The cascade checks rely on it reaching zero after a
// delete.
func (r *Repository) CountCompletions(ctx context.Context, assignmentID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM completions WHERE assignment_id = $1`, assignmentID).Scan(&n)
	return n, err
}
