package homework

import "time"

// Role of a seeded user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleStudent
}

// Status of a completion row. Pending is the read-only default for
// assignments a student has never touched; it is never written.
type Status string

const (
	StatusPending     Status = "pending"
	StatusCompleted   Status = "completed"
	StatusUncompleted Status = "uncompleted"
)

// IsWritable reports whether the status may be stored by a toggle.
func (s Status) IsWritable() bool {
	return s == StatusCompleted || s == StatusUncompleted
}

// User is an identity record seeded at startup and never mutated after.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Class    string `json:"class"`
}

// Assignment is one unit of homework.
type Assignment struct {
	ID          string    `json:"id"`
	Subject     string    `json:"subject"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	DueAt       time.Time `json:"due_at_utc"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at_utc"`
	Published   bool      `json:"is_published"`
}

// Completion links one user to one assignment. At most one row exists
// per (user, assignment) pair.
type Completion struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	AssignmentID string     `json:"assignment_id"`
	Status       Status     `json:"status"`
	CompletedAt  *time.Time `json:"completed_at_utc,omitempty"`
}

// StudentItem is one row of a student's homework list: a published
// assignment joined with that student's completion state.
type StudentItem struct {
	Assignment
	Status      Status     `json:"status"`
	CompletedAt *time.Time `json:"completed_at_utc,omitempty"`
	Overdue     bool       `json:"overdue"`
}

// RosterRow is one (published assignment, user) pair in the admin roster.
type RosterRow struct {
	AssignmentID string    `json:"assignment_id"`
	Subject      string    `json:"subject"`
	Title        string    `json:"title"`
	DueAt        time.Time `json:"due_at_utc"`
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	UserName     string    `json:"name"`
	Class        string    `json:"class"`
	Status       Status    `json:"status"`
}
