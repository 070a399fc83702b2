package services

import (
	"sevasetu-backend/models"
	"sevasetu-backend/notification"
	"sevasetu-backend/repository"
	"sevasetu-backend/utils/logger"
)

// Service is the container wiring every domain service with its
// collaborators. All handles are injected here, at the composition root;
// no service reaches for a shared global.
type Service struct {
	Audit    AuditServiceInterface
	Matcher  MatcherServiceInterface
	Workflow WorkflowServiceInterface
	Task     TaskServiceInterface
	User     UserServiceInterface
}

// NewService creates the service container with all dependencies injected
func NewService(repos *repository.Repository, notifier notification.Notifier, log logger.Logger, cfg *models.Config) *Service {
	audit := NewAuditService(repos.Audit, log)
	matcher := NewMatcherService(repos.User, repos.Task, log)

	return &Service{
		Audit:    audit,
		Matcher:  matcher,
		Workflow: NewWorkflowService(repos.Task, repos.User, matcher, audit, notifier, log),
		Task:     NewTaskService(repos.Task, repos.User, matcher, audit, notifier, log),
		User:     NewUserService(repos.User, audit, log),
	}
}
