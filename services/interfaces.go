package services

import (
	"context"
	"time"

	"sevasetu-backend/models"
)

// WorkflowServiceInterface is the status workflow engine contract
type WorkflowServiceInterface interface {
	Transition(ctx context.Context, kind models.TaskKind, id string, to models.TaskStatus, actorID string, actorRole models.UserRole) (*models.TransitionResult, error)
	Delete(ctx context.Context, kind models.TaskKind, id string, actorID string, actorRole models.UserRole) error
	Decline(ctx context.Context, kind models.TaskKind, id string, volunteerID string) error
}

// MatcherServiceInterface is the volunteer matcher contract
type MatcherServiceInterface interface {
	FindByLocation(ctx context.Context, loc string) ([]*models.User, error)
	FindAvailable(ctx context.Context, loc string) ([]*models.User, error)
	WorkloadOf(ctx context.Context, volunteerID string) (int, error)
	SelectBest(ctx context.Context, loc string, excluding map[string]bool) (*models.User, error)
}

// TaskServiceInterface covers task creation, reads and aggregates
type TaskServiceInterface interface {
	Create(ctx context.Context, kind models.TaskKind, req *models.CreateTaskRequest, creatorID string) (*models.CreateTaskResponse, error)
	Get(ctx context.Context, kind models.TaskKind, id string) (*models.Task, error)
	ListByLocation(ctx context.Context, kind models.TaskKind, city string, status models.TaskStatus, limit, offset int) ([]*models.Task, error)
	LocationStats(ctx context.Context, city string) (*models.LocationStats, error)
}

// UserServiceInterface covers registration, login and volunteer approval
type UserServiceInterface interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	Review(ctx context.Context, volunteerID string, status models.ApprovalStatus, adminID string) (*models.User, error)
	BulkApprove(ctx context.Context, ids []string, adminID string) (*models.BulkApproveResult, error)
	ListVolunteers(ctx context.Context, status models.ApprovalStatus) ([]*models.User, error)
}

// AuditServiceInterface is the append-only audit log contract. Record
// methods never return an error: audit is best-effort relative to the
// primary write and failures are logged at the point of origin.
type AuditServiceInterface interface {
	RecordTransition(ctx context.Context, itemID string, kind models.AuditItemKind, action string, from, to models.TaskStatus, actorID string, detail map[string]string)
	RecordUserAction(ctx context.Context, userID, action string, detail map[string]string)
	QueryByItem(ctx context.Context, itemID string, kind models.AuditItemKind) ([]*models.AuditLogEntry, error)
	QueryByUser(ctx context.Context, actorID string, limit int) ([]*models.AuditLogEntry, error)
	QueryByTimeRange(ctx context.Context, start, end time.Time, limit int) ([]*models.AuditLogEntry, error)
}
