package homework

import (
	"context"
	"strings"
	"time"
)

// Store is the persistence surface the service needs. *Repository
// implements it; tests substitute a mock.
type Store interface {
	CreateAssignment(ctx context.Context, a Assignment) (Assignment, error)
	ListAssignments(ctx context.Context) ([]Assignment, error)
	TogglePublished(ctx context.Context, id string) (Assignment, error)
	DeleteAssignment(ctx context.Context, id string) error
	SetCompletion(ctx context.Context, userID, assignmentID string, status Status) (Completion, error)
	StudentView(ctx context.Context, userID, subjectFilter, stateFilter string, now time.Time) ([]StudentItem, error)
	AdminRoster(ctx context.Context, classFilter string) ([]RosterRow, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
}

// Service validates input and coordinates repository calls. Mutations
// return the updated entity; callers decide whether to re-read a view.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateAssignment validates required fields and persists a new
// assignment. Subject and title must be non-empty; nothing is written
// when validation fails.
func (s *Service) CreateAssignment(ctx context.Context, subject, title, description string, dueAt time.Time, createdBy string, published bool) (Assignment, error) {
	if strings.TrimSpace(subject) == "" {
		return Assignment{}, NewValidationError("subject is required")
	}
	if strings.TrimSpace(title) == "" {
		return Assignment{}, NewValidationError("title is required")
	}
	a, err := s.store.CreateAssignment(ctx, Assignment{
		Subject:     strings.TrimSpace(subject),
		Title:       strings.TrimSpace(title),
		Description: description,
		DueAt:       dueAt.UTC(),
		CreatedBy:   createdBy,
		Published:   published,
	})
	if err != nil {
		return Assignment{}, err
	}
	assignmentsCreated.Inc()
	return a, nil
}

// ListAssignments returns the admin list, unpublished included.
func (s *Service) ListAssignments(ctx context.Context) ([]Assignment, error) {
	return s.store.ListAssignments(ctx)
}

// TogglePublished flips the publication flag.
func (s *Service) TogglePublished(ctx context.Context, id string) (Assignment, error) {
	return s.store.TogglePublished(ctx, id)
}

// DeleteAssignment removes an assignment and its completions.
func (s *Service) DeleteAssignment(ctx context.Context, id string) error {
	if err := s.store.DeleteAssignment(ctx, id); err != nil {
		return err
	}
	assignmentsDeleted.Inc()
	return nil
}

// SetCompletion records a student's toggle. Only completed and
// uncompleted may be written; pending means "no row" and is never stored.
func (s *Service) SetCompletion(ctx context.Context, userID, assignmentID string, status Status) (Completion, error) {
	if !status.IsWritable() {
		return Completion{}, NewValidationError("status must be completed or uncompleted")
	}
	c, err := s.store.SetCompletion(ctx, userID, assignmentID, status)
	if err != nil {
		return Completion{}, err
	}
	completionToggles.WithLabelValues(string(status)).Inc()
	return c, nil
}

// StudentView returns the filtered homework list for one student.
func (s *Service) StudentView(ctx context.Context, userID, subjectFilter, stateFilter string) ([]StudentItem, error) {
	switch stateFilter {
	case "", StateOpen, StateCompleted, StateOverdue:
	default:
		return nil, NewValidationError("unknown status filter")
	}
	return s.store.StudentView(ctx, userID, subjectFilter, stateFilter, time.Now().UTC())
}

// AdminRoster returns progress rows for every user and published
// assignment, optionally restricted to one class.
func (s *Service) AdminRoster(ctx context.Context, classFilter string) ([]RosterRow, error) {
	return s.store.AdminRoster(ctx, classFilter)
}

// UserByUsername resolves a seeded user.
func (s *Service) UserByUsername(ctx context.Context, username string) (User, error) {
	return s.store.GetUserByUsername(ctx, username)
}

// ListUsers returns the seeded accounts.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.store.ListUsers(ctx)
}
