package repository

import (
	"context"
	"time"

	"sevasetu-backend/models"
)

// TaskRepositoryInterface defines the contract for task persistence
type TaskRepositoryInterface interface {
	CreateTask(ctx context.Context, task *models.Task) (*models.Task, error)
	GetTask(ctx context.Context, kind models.TaskKind, id string) (*models.Task, error)
	ListByLocation(ctx context.Context, kind models.TaskKind, filter models.TaskFilter) ([]*models.Task, error)
	ListAssignedTo(ctx context.Context, volunteerID string) ([]*models.Task, error)
	// TransitionStatus applies updates only while the task's status still
	// equals expected; returns dal.ErrConditionFailed on a lost race.
	TransitionStatus(ctx context.Context, kind models.TaskKind, id string, expected models.TaskStatus, updates map[string]interface{}) error
	// AddDeclinedBy is an atomic set add; repeat adds are no-ops.
	AddDeclinedBy(ctx context.Context, kind models.TaskKind, id, volunteerID string) error
	DeleteTask(ctx context.Context, kind models.TaskKind, id string) error
}

// UserRepositoryInterface defines the contract for user persistence
type UserRepositoryInterface interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindApprovedVolunteersByLocation(ctx context.Context, loc string) ([]*models.User, error)
	ListVolunteers(ctx context.Context, status models.ApprovalStatus) ([]*models.User, error)
	// UpdateApproval succeeds at most once per user: the write is
	// conditional on approvalStatus still being pending.
	UpdateApproval(ctx context.Context, id string, status models.ApprovalStatus) error
}

// AuditRepositoryInterface defines the contract for the append-only audit log
type AuditRepositoryInterface interface {
	Append(ctx context.Context, entry *models.AuditLogEntry) error
	QueryByItem(ctx context.Context, itemID string, kind models.AuditItemKind) ([]*models.AuditLogEntry, error)
	QueryByUser(ctx context.Context, actorID string, limit int) ([]*models.AuditLogEntry, error)
	QueryByTimeRange(ctx context.Context, start, end time.Time, limit int) ([]*models.AuditLogEntry, error)
}
