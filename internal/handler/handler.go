package handler

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"homework/internal/auth"
	"homework/internal/config"
	"homework/internal/homework"
	"homework/internal/logging"
	"homework/internal/timeutil"
)

// PlannerService is the application surface the handlers call.
// *homework.Service implements it; tests substitute a mock.
type PlannerService interface {
	CreateAssignment(ctx context.Context, subject, title, description string, dueAt time.Time, createdBy string, published bool) (homework.Assignment, error)
	ListAssignments(ctx context.Context) ([]homework.Assignment, error)
	TogglePublished(ctx context.Context, id string) (homework.Assignment, error)
	DeleteAssignment(ctx context.Context, id string) error
	SetCompletion(ctx context.Context, userID, assignmentID string, status homework.Status) (homework.Completion, error)
	StudentView(ctx context.Context, userID, subjectFilter, stateFilter string) ([]homework.StudentItem, error)
	AdminRoster(ctx context.Context, classFilter string) ([]homework.RosterRow, error)
	UserByUsername(ctx context.Context, username string) (homework.User, error)
	ListUsers(ctx context.Context) ([]homework.User, error)
}

// SessionStore is the part of the redis session store login and logout
// need.
type SessionStore interface {
	Save(ctx context.Context, sessionID, username string, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
}

// Handler exposes the planner operations over HTTP.
type Handler struct {
	svc      PlannerService
	sessions SessionStore
	cfg      config.App
	creds    map[string]config.SeedUser
	loc      *time.Location
	log      *logging.Logger
}

// New creates a handler. The credential set is indexed by username once
// at startup; it is never mutated afterwards.
func New(svc PlannerService, sessions SessionStore, cfg config.App, log *logging.Logger) *Handler {
	creds := make(map[string]config.SeedUser, len(cfg.SeedUsers))
	for _, u := range cfg.SeedUsers {
		creds[u.Username] = u
	}
	return &Handler{
		svc:      svc,
		sessions: sessions,
		cfg:      cfg,
		creds:    creds,
		loc:      timeutil.LoadDisplayLocation(cfg.DisplayTimezone),
		log:      log,
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks credentials against the seeded set and issues a session
// token backed by a redis record.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cred, ok := h.creds[req.Username]
	if !ok || !auth.CheckPassword(cred.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	user, err := h.svc.UserByUsername(c.Request.Context(), req.Username)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	token, err := auth.Issue(user.ID, user.Username, string(user.Role), h.cfg.JWTIssuer, h.cfg.JWTSigningKey, h.cfg.SessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	if err := h.sessions.Save(c.Request.Context(), token.SessionID, user.Username, time.Until(token.ExpiresAt)); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token.Value,
		"expires_at": token.ExpiresAt.Unix(),
		"user":       user,
	})
}

// Logout revokes the current session record.
func (h *Handler) Logout(c *gin.Context) {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return
	}
	if err := h.sessions.Delete(c.Request.Context(), claims.SessionID); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

type createAssignmentRequest struct {
	Subject     string    `json:"subject"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueAt       time.Time `json:"due_at" binding:"required"`
	Published   bool      `json:"published"`
}

type assignmentResponse struct {
	homework.Assignment
	DueLocal string `json:"due_local"`
}

// CreateAssignment stores a new assignment created by the logged-in
// admin.
func (h *Handler) CreateAssignment(c *gin.Context) {
	var req createAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	claims, _ := auth.ClaimsFrom(c)

	a, err := h.svc.CreateAssignment(c.Request.Context(), req.Subject, req.Title, req.Description, req.DueAt, claims.Username, req.Published)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.assignmentJSON(a))
}

// ListAssignments returns every assignment for the admin screen,
// unpublished drafts included.
func (h *Handler) ListAssignments(c *gin.Context) {
	list, err := h.svc.ListAssignments(c.Request.Context())
	if err != nil {
		h.respondErr(c, err)
		return
	}
	out := make([]assignmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, h.assignmentJSON(a))
	}
	c.JSON(http.StatusOK, gin.H{"assignments": out})
}

// TogglePublish flips an assignment's publication flag.
func (h *Handler) TogglePublish(c *gin.Context) {
	a, err := h.svc.TogglePublished(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, h.assignmentJSON(a))
}

// DeleteAssignment removes an assignment and its completions.
func (h *Handler) DeleteAssignment(c *gin.Context) {
	if err := h.svc.DeleteAssignment(c.Request.Context(), c.Param("id")); err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type setCompletionRequest struct {
	Status homework.Status `json:"status" binding:"required"`
}

// SetCompletion records the logged-in student's toggle for one
// assignment.
func (h *Handler) SetCompletion(c *gin.Context) {
	var req setCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	claims, _ := auth.ClaimsFrom(c)

	completion, err := h.svc.SetCompletion(c.Request.Context(), claims.Subject, c.Param("assignmentID"), req.Status)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, completion)
}

type studentItemResponse struct {
	homework.StudentItem
	DueLocal string `json:"due_local"`
}

// StudentView returns the homework list for one student. Students may
// only read their own; admins may read anyone's.
func (h *Handler) StudentView(c *gin.Context) {
	claims, _ := auth.ClaimsFrom(c)
	userID := c.Param("userID")
	if claims.Role != string(homework.RoleAdmin) && claims.Subject != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	items, err := h.svc.StudentView(c.Request.Context(), userID, c.Query("subject"), c.Query("status"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	out := make([]studentItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, studentItemResponse{StudentItem: it, DueLocal: timeutil.FormatLocal(it.DueAt, h.loc)})
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

type rosterRowResponse struct {
	homework.RosterRow
	DueLocal string `json:"due_local"`
}

// AdminRoster returns progress for every user against every published
// assignment, optionally filtered by class.
func (h *Handler) AdminRoster(c *gin.Context) {
	roster, err := h.svc.AdminRoster(c.Request.Context(), c.Query("class"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	out := make([]rosterRowResponse, 0, len(roster))
	for _, row := range roster {
		out = append(out, rosterRowResponse{RosterRow: row, DueLocal: timeutil.FormatLocal(row.DueAt, h.loc)})
	}
	c.JSON(http.StatusOK, gin.H{"roster": out})
}

// ListUsers returns the seeded accounts for the admin roster screen.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) assignmentJSON(a homework.Assignment) assignmentResponse {
	return assignmentResponse{Assignment: a, DueLocal: timeutil.FormatLocal(a.DueAt, h.loc)}
}

// respondErr maps domain errors onto HTTP statuses: validation 400,
// missing rows 404, unreachable store 503, everything else 500 logged.
func (h *Handler) respondErr(c *gin.Context, err error) {
	switch {
	case homework.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, homework.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case storeUnavailable(err):
		h.log.Error("storage unavailable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage unavailable"})
	default:
		h.log.Error("request failed", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// storeUnavailable recognizes an unreachable store. pgx surfaces a dead
// backend as a dial error or a pgconn connect error rather than
// driver.ErrBadConn.
func storeUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
