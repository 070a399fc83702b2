package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"sevasetu-backend/dal"
	"sevasetu-backend/location"
	"sevasetu-backend/models"
	"sevasetu-backend/notification"
	"sevasetu-backend/repository"
	"sevasetu-backend/utils/logger"
)

// transitions is the complete legal edge set. Every pair not listed here,
// including re-entering pending, fails with IllegalTransition.
var transitions = map[models.TaskStatus]models.TaskStatus{
	models.TaskStatusPending:  models.TaskStatusAccepted,
	models.TaskStatusAccepted: models.TaskStatusPicked,
	models.TaskStatusPicked:   models.TaskStatusDelivered,
}

// allowedNext renders the legal next states for an error message.
func allowedNext(from models.TaskStatus) string {
	next, ok := transitions[from]
	if !ok {
		return "none (terminal)"
	}
	return string(next)
}

// WorkflowService is the status workflow engine: it validates and applies
// state transitions, stamps stage timestamps, writes the audit trail and
// triggers notification fan-out.
type WorkflowService struct {
	taskRepo repository.TaskRepositoryInterface
	userRepo repository.UserRepositoryInterface
	matcher  MatcherServiceInterface
	audit    AuditServiceInterface
	notifier notification.Notifier
	logger   logger.Logger
}

// NewWorkflowService creates a new workflow service
func NewWorkflowService(
	taskRepo repository.TaskRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	matcher MatcherServiceInterface,
	audit AuditServiceInterface,
	notifier notification.Notifier,
	log logger.Logger,
) *WorkflowService {
	return &WorkflowService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		matcher:  matcher,
		audit:    audit,
		notifier: notifier,
		logger:   log,
	}
}

// Transition moves a task to the target status. The write is a single
// conditional update keyed on the status read in step 1, so two concurrent
// calls can never both win: the loser observes IllegalTransition.
func (s *WorkflowService) Transition(ctx context.Context, kind models.TaskKind, id string, to models.TaskStatus, actorID string, actorRole models.UserRole) (*models.TransitionResult, error) {
	task, err := s.taskRepo.GetTask(ctx, kind, id)
	if err != nil {
		return nil, classifyStoreError(err, "load task")
	}

	from := task.Status
	if transitions[from] != to {
		return nil, models.NewAppError(models.ErrIllegalTransition,
			"cannot move %s %s from %s to %s, allowed next status: %s", kind, id, from, to, allowedNext(from))
	}

	if err := s.authorize(ctx, task, to, actorID, actorRole); err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{"status": string(to)}
	switch to {
	case models.TaskStatusAccepted:
		updates["assignedTo"] = actorID
		updates["acceptedAt"] = now
	case models.TaskStatusPicked:
		updates["pickedAt"] = now
	case models.TaskStatusDelivered:
		updates["deliveredAt"] = now
	}

	err = s.taskRepo.TransitionStatus(ctx, kind, id, from, updates)
	if errors.Is(err, dal.ErrConditionFailed) {
		// Lost the race: someone committed between our read and write.
		// Re-read so the caller sees the post-commit state.
		current, rerr := s.taskRepo.GetTask(ctx, kind, id)
		currentStatus := "unknown"
		if rerr == nil {
			currentStatus = string(current.Status)
		}
		return nil, models.NewAppError(models.ErrIllegalTransition,
			"%s %s is no longer %s (now %s), allowed next status: %s", kind, id, from, currentStatus, allowedNext(models.TaskStatus(currentStatus)))
	}
	if err != nil {
		return nil, classifyStoreError(err, "apply transition")
	}

	// Mutation is durable from here. Audit and notification are side
	// effects of an already-committed operation and never fail the caller.
	task.Status = to
	switch to {
	case models.TaskStatusAccepted:
		task.AssignedTo = actorID
		task.AcceptedAt = &now
	case models.TaskStatusPicked:
		task.PickedAt = &now
	case models.TaskStatusDelivered:
		task.DeliveredAt = &now
	}

	s.audit.RecordTransition(ctx, id, auditKindFor(kind), string(to), from, to, actorID, nil)
	s.notifier.TaskTransitioned(ctx, task, actorID)

	s.logger.Infof("%s %s: %s -> %s by %s", kind, id, from, to, actorID)
	return &models.TransitionResult{PreviousStatus: from, NewStatus: to}, nil
}

// authorize enforces step 3 of the transition contract: accepting requires
// an approved volunteer eligible for the task's location; later stages
// require the assigned volunteer or an admin override.
func (s *WorkflowService) authorize(ctx context.Context, task *models.Task, to models.TaskStatus, actorID string, actorRole models.UserRole) error {
	if actorRole == models.UserRoleAdmin {
		return nil
	}

	if to == models.TaskStatusAccepted {
		for _, declined := range task.DeclinedBy {
			if declined == actorID {
				return models.NewAppError(models.ErrForbidden,
					"volunteer %s declined this task and may not accept it", actorID)
			}
		}
		actor, err := s.userRepo.GetUser(ctx, actorID)
		if err != nil {
			return classifyStoreError(err, "load acting user")
		}
		if !actor.IsApprovedVolunteer() {
			return models.NewAppError(models.ErrForbidden, "only approved volunteers may accept tasks")
		}
		if !volunteerEligibleFor(actor.Location, task.Location) {
			return models.NewAppError(models.ErrForbidden,
				"volunteer in %s may not act on tasks in %s", actor.Location, task.Location)
		}
		return nil
	}

	if task.AssignedTo == "" || task.AssignedTo != actorID {
		return models.NewAppError(models.ErrForbidden, "only the assigned volunteer may mark a task %s", to)
	}
	return nil
}

// volunteerEligibleFor allows the same candidate cities the matcher walks,
// so a volunteer surfaced by fallback search can actually accept what they
// were shown.
func volunteerEligibleFor(volunteerLoc, taskLoc string) bool {
	for _, city := range location.MatchOrder(taskLoc) {
		if city == volunteerLoc {
			return true
		}
	}
	return false
}

// Delete removes a task. Only pending tasks can be deleted, and only by
// their creator or an admin. Deletion is logged as a user action, not a
// transition.
func (s *WorkflowService) Delete(ctx context.Context, kind models.TaskKind, id string, actorID string, actorRole models.UserRole) error {
	task, err := s.taskRepo.GetTask(ctx, kind, id)
	if err != nil {
		return classifyStoreError(err, "load task")
	}

	if task.Status != models.TaskStatusPending {
		return models.NewAppError(models.ErrValidation,
			"only pending tasks can be deleted, %s %s is %s", kind, id, task.Status)
	}
	if actorRole != models.UserRoleAdmin && task.CreatedBy != actorID {
		return models.NewAppError(models.ErrForbidden, "only the creator or an admin may delete a task")
	}

	if err := s.taskRepo.DeleteTask(ctx, kind, id); err != nil {
		return classifyStoreError(err, "delete task")
	}

	s.audit.RecordUserAction(ctx, actorID, models.AuditActionDeleted, map[string]string{
		"itemId":   id,
		"itemKind": string(kind),
	})
	s.logger.Infof("%s %s deleted by %s", kind, id, actorID)
	return nil
}

// Decline records that a volunteer passed on a pending task. The task stays
// pending for everyone else; the volunteer can no longer accept it and is
// skipped when the task is re-matched. Declining twice is a no-op.
func (s *WorkflowService) Decline(ctx context.Context, kind models.TaskKind, id string, volunteerID string) error {
	task, err := s.taskRepo.GetTask(ctx, kind, id)
	if err != nil {
		return classifyStoreError(err, "load task")
	}

	if task.Status != models.TaskStatusPending {
		return models.NewAppError(models.ErrValidation,
			"%s %s is already %s and can no longer be declined", kind, id, task.Status)
	}

	for _, declined := range task.DeclinedBy {
		if declined == volunteerID {
			return nil
		}
	}

	if err := s.taskRepo.AddDeclinedBy(ctx, kind, id, volunteerID); err != nil {
		return classifyStoreError(err, "record decline")
	}

	s.audit.RecordUserAction(ctx, volunteerID, models.AuditActionDeclined, map[string]string{
		"itemId":   id,
		"itemKind": string(kind),
	})

	s.rematch(ctx, task, append(task.DeclinedBy, volunteerID))
	return nil
}

// rematch nudges the least-loaded remaining candidate after a decline, so
// the task does not sit unnoticed until someone browses the listing. Pure
// side effect of an already-recorded decline; failures are logged only.
func (s *WorkflowService) rematch(ctx context.Context, task *models.Task, declinedBy []string) {
	excluding := make(map[string]bool, len(declinedBy))
	for _, id := range declinedBy {
		excluding[id] = true
	}

	best, err := s.matcher.SelectBest(ctx, task.Location, excluding)
	if err != nil {
		s.logger.Errorf("Re-match after decline failed for %s %s: %v", task.Kind, task.ID, err)
		return
	}
	if best == nil {
		return
	}
	s.notifier.TaskCreated(ctx, task, []string{best.ID})
}

// auditKindFor maps a task kind to its audit item kind.
func auditKindFor(kind models.TaskKind) models.AuditItemKind {
	if kind == models.TaskKindDonation {
		return models.AuditItemDonation
	}
	return models.AuditItemRequest
}

// classifyStoreError folds store and transport failures into the error
// taxonomy: deadline hits become Timeout, existing AppErrors pass through,
// anything else is Internal.
func classifyStoreError(err error, op string) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "context deadline exceeded") {
		return models.WrapError(models.ErrTimeout, err, "timed out trying to %s", op)
	}
	return models.WrapError(models.ErrInternal, err, "failed to %s", op)
}
