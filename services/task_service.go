package services

import (
	"context"

	"sevasetu-backend/location"
	"sevasetu-backend/models"
	"sevasetu-backend/notification"
	"sevasetu-backend/repository"
	"sevasetu-backend/utils/logger"
)

// TaskService handles task creation with notification fan-out, reads and
// per-location aggregates.
type TaskService struct {
	taskRepo repository.TaskRepositoryInterface
	userRepo repository.UserRepositoryInterface
	matcher  MatcherServiceInterface
	audit    AuditServiceInterface
	notifier notification.Notifier
	logger   logger.Logger
}

// NewTaskService creates a new task service
func NewTaskService(
	taskRepo repository.TaskRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	matcher MatcherServiceInterface,
	audit AuditServiceInterface,
	notifier notification.Notifier,
	log logger.Logger,
) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		matcher:  matcher,
		audit:    audit,
		notifier: notifier,
		logger:   log,
	}
}

// Create validates and persists a new task, then fans out a created event
// to every approved volunteer in the exact city. Creation succeeds whether
// or not anyone is there to hear about it: a task with zero notified
// volunteers stays pending and waits to be discovered through listing.
func (s *TaskService) Create(ctx context.Context, kind models.TaskKind, req *models.CreateTaskRequest, creatorID string) (*models.CreateTaskResponse, error) {
	loc, err := location.Validate(req.City)
	if err != nil {
		return nil, err
	}

	if req.Details != nil && !req.Details.Matches(req.Initiative) {
		return nil, models.NewAppError(models.ErrValidation,
			"details do not match initiative %s", req.Initiative)
	}

	task := &models.Task{
		Kind:                   kind,
		Initiative:             req.Initiative,
		City:                   req.City,
		Location:               loc,
		Address:                req.Address,
		ContactName:            req.ContactName,
		ContactPhone:           req.ContactPhone,
		Description:            req.Description,
		EstimatedBeneficiaries: req.EstimatedBeneficiaries,
		Details:                req.Details,
		CreatedBy:              creatorID,
	}

	task, err = s.taskRepo.CreateTask(ctx, task)
	if err != nil {
		return nil, classifyStoreError(err, "create task")
	}

	s.audit.RecordTransition(ctx, task.ID, auditKindFor(kind), models.AuditActionCreated, "", models.TaskStatusPending, creatorID, map[string]string{
		"location":   task.Location,
		"initiative": string(task.Initiative),
	})

	// Creation notifies exact-location volunteers only; the nearby
	// fallback is reserved for active matching.
	volunteers, err := s.matcher.FindByLocation(ctx, loc)
	if err != nil {
		// The task is persisted; a matching failure only degrades fan-out.
		s.logger.Errorf("Fan-out lookup failed for %s %s: %v", kind, task.ID, err)
		volunteers = nil
	}

	volunteerIDs := make([]string, 0, len(volunteers))
	for _, v := range volunteers {
		volunteerIDs = append(volunteerIDs, v.ID)
	}
	if len(volunteerIDs) > 0 {
		s.notifier.TaskCreated(ctx, task, volunteerIDs)
	}

	return &models.CreateTaskResponse{Task: task, VolunteersNotified: len(volunteerIDs)}, nil
}

func (s *TaskService) Get(ctx context.Context, kind models.TaskKind, id string) (*models.Task, error) {
	task, err := s.taskRepo.GetTask(ctx, kind, id)
	if err != nil {
		return nil, classifyStoreError(err, "load task")
	}
	return task, nil
}

func (s *TaskService) ListByLocation(ctx context.Context, kind models.TaskKind, city string, status models.TaskStatus, limit, offset int) ([]*models.Task, error) {
	loc, err := location.Validate(city)
	if err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.ListByLocation(ctx, kind, models.TaskFilter{
		Location: loc,
		Status:   status,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, classifyStoreError(err, "list tasks")
	}
	return tasks, nil
}

// statsTaskLimit bounds how many tasks per kind one stats call reads. A
// city with more history than this reports counts over its newest
// statsTaskLimit tasks, not the full table.
const statsTaskLimit = 500

// LocationStats aggregates totals, completions and the active volunteer
// count for one city, bounded by statsTaskLimit per kind.
func (s *TaskService) LocationStats(ctx context.Context, city string) (*models.LocationStats, error) {
	loc, err := location.Validate(city)
	if err != nil {
		return nil, err
	}

	stats := &models.LocationStats{City: loc}
	for _, kind := range []models.TaskKind{models.TaskKindDonation, models.TaskKindRequest} {
		tasks, err := s.taskRepo.ListByLocation(ctx, kind, models.TaskFilter{Location: loc, Limit: statsTaskLimit})
		if err != nil {
			return nil, classifyStoreError(err, "aggregate location stats")
		}
		for _, t := range tasks {
			if kind == models.TaskKindDonation {
				stats.TotalDonations++
			} else {
				stats.TotalRequests++
			}
			if t.Status == models.TaskStatusDelivered {
				stats.Completed++
			}
		}
	}

	volunteers, err := s.userRepo.FindApprovedVolunteersByLocation(ctx, loc)
	if err != nil {
		return nil, classifyStoreError(err, "count active volunteers")
	}
	stats.ActiveVolunteers = len(volunteers)

	return stats, nil
}
