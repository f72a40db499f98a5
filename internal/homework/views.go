package homework

import (
	"context"
	"time"
)

// Derived states a student list can be filtered on. These are computed
// from status plus the deadline, never stored.
const (
	StateOpen      = "open"
	StateCompleted = "completed"
	StateOverdue   = "overdue"
)

// DeriveState classifies one row against the given clock. Overdue wins
// over open; a completed assignment is never overdue.
func DeriveState(status Status, dueAt, now time.Time) string {
	if status == StatusCompleted {
		return StateCompleted
	}
	if dueAt.Before(now) {
		return StateOverdue
	}
	return StateOpen
}

// StudentView returns published assignments joined with this user's
// completion status, defaulting to pending when the user never touched
// the assignment. subjectFilter is a substring match on subject;
// stateFilter is one of the State constants or empty for all. The state
// filter is applied in Go because overdue depends on the request clock.
func (r *Repository) StudentView(ctx context.Context, userID, subjectFilter, stateFilter string, now time.Time) ([]StudentItem, error) {
	query := `
		SELECT a.id, a.subject, a.title, a.description, a.due_at_utc, a.created_by, a.created_at_utc, a.is_published,
		       COALESCE(c.status, 'pending') AS status, c.completed_at_utc
		FROM assignments a
		LEFT JOIN completions c ON c.assignment_id = a.id AND c.user_id = $1
		WHERE a.is_published
	`
	args := []any{userID}
	if subjectFilter != "" {
		query += ` AND a.subject ILIKE '%' || $2 || '%'`
		args = append(args, subjectFilter)
	}
	query += ` ORDER BY a.due_at_utc ASC, a.created_at_utc ASC, a.id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []StudentItem
	for rows.Next() {
		var it StudentItem
		if err := rows.Scan(&it.ID, &it.Subject, &it.Title, &it.Description, &it.DueAt, &it.CreatedBy, &it.CreatedAt, &it.Published,
			&it.Status, &it.CompletedAt); err != nil {
			return nil, err
		}
		state := DeriveState(it.Status, it.DueAt, now)
		it.Overdue = state == StateOverdue
		if stateFilter != "" && state != stateFilter {
			continue
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// AdminRoster returns one row per (published assignment, user) pair with
// that user's completion status, default pending. Every user appears for
// every published assignment whether or not they interacted with it.
// classFilter, when set, restricts the user side to one class label.
func (r *Repository) AdminRoster(ctx context.Context, classFilter string) ([]RosterRow, error) {
	query := `
		SELECT a.id, a.subject, a.title, a.due_at_utc, u.id, u.username, u.name, u.class,
		       COALESCE(c.status, 'pending') AS status
		FROM assignments a
		CROSS JOIN users u
		LEFT JOIN completions c ON c.assignment_id = a.id AND c.user_id = u.id
		WHERE a.is_published
	`
	var args []any
	if classFilter != "" {
		query += ` AND u.class = $1`
		args = append(args, classFilter)
	}
	query += ` ORDER BY a.due_at_utc ASC, a.created_at_utc ASC, a.id ASC, u.name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roster []RosterRow
	for rows.Next() {
		var row RosterRow
		if err := rows.Scan(&row.AssignmentID, &row.Subject, &row.Title, &row.DueAt, &row.UserID, &row.Username, &row.UserName, &row.Class, &row.Status); err != nil {
			return nil, err
		}
		roster = append(roster, row)
	}
	return roster, rows.Err()
}
