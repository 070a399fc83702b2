package repository

import (
	"context"
	"time"

	"sevasetu-backend/dal"
	"sevasetu-backend/models"
	"sevasetu-backend/utils"
	"sevasetu-backend/utils/logger"
)

type TaskRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *TaskRepository {
	return &TaskRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

// tableFor maps a task kind to its table; donations and requests share a
// document shape but live in separate tables.
func (r *TaskRepository) tableFor(kind models.TaskKind) string {
	if kind == models.TaskKindDonation {
		return r.config.DynamoDBTablePrefix + "_donations"
	}
	return r.config.DynamoDBTablePrefix + "_requests"
}

func (r *TaskRepository) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	task.ID = utils.GenerateUUID()
	task.Status = models.TaskStatusPending
	task.CreatedAt = time.Now()
	if task.EstimatedBeneficiaries < 1 {
		task.EstimatedBeneficiaries = 1
	}

	if err := r.db.PutItem(ctx, r.tableFor(task.Kind), task); err != nil {
		r.logger.Errorf("Failed to create %s: %v", task.Kind, err)
		return nil, err
	}

	r.logger.Infof("%s created: %s in %s", task.Kind, task.ID, task.Location)
	return task, nil
}

func (r *TaskRepository) GetTask(ctx context.Context, kind models.TaskKind, id string) (*models.Task, error) {
	task := &models.Task{}
	found, err := r.db.GetItem(ctx, r.tableFor(kind), "id", id, task)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, models.NewAppError(models.ErrNotFound, "%s %s not found", kind, id)
	}
	return task, nil
}

func (r *TaskRepository) ListByLocation(ctx context.Context, kind models.TaskKind, filter models.TaskFilter) ([]*models.Task, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	cfg := models.QueryConfig{
		TableName: r.tableFor(kind),
		IndexName: "location-index",
		KeyName:   "location",
		KeyValue:  filter.Location,
		// Fetch through the offset window; DynamoDB has no native offset.
		Limit:      int32(limit + filter.Offset),
		Descending: true,
	}
	if filter.Status != "" {
		cfg.FilterName = "status"
		cfg.FilterValue = string(filter.Status)
	}

	var tasks []*models.Task
	if err := r.db.QueryByIndex(ctx, cfg, &tasks); err != nil {
		r.logger.Errorf("Failed to list %ss in %s: %v", kind, filter.Location, err)
		return nil, err
	}

	if filter.Offset >= len(tasks) {
		return []*models.Task{}, nil
	}
	tasks = tasks[filter.Offset:]
	if len(tasks) > limit {
		tasks = tasks[:limit]
	}
	return tasks, nil
}

// ListAssignedTo returns the volunteer's tasks of both kinds, any status.
// Workload counting filters to in-flight statuses at the service layer.
func (r *TaskRepository) ListAssignedTo(ctx context.Context, volunteerID string) ([]*models.Task, error) {
	var all []*models.Task
	for _, kind := range []models.TaskKind{models.TaskKindDonation, models.TaskKindRequest} {
		cfg := models.QueryConfig{
			TableName: r.tableFor(kind),
			IndexName: "assignedTo-index",
			KeyName:   "assignedTo",
			KeyValue:  volunteerID,
			Limit:     100,
		}
		var tasks []*models.Task
		if err := r.db.QueryByIndex(ctx, cfg, &tasks); err != nil {
			r.logger.Errorf("Failed to query %ss assigned to %s: %v", kind, volunteerID, err)
			return nil, err
		}
		all = append(all, tasks...)
	}
	return all, nil
}

func (r *TaskRepository) TransitionStatus(ctx context.Context, kind models.TaskKind, id string, expected models.TaskStatus, updates map[string]interface{}) error {
	return r.db.ConditionalUpdateItem(ctx, r.tableFor(kind), "id", id, updates, "status", string(expected))
}

// AddDeclinedBy records a decline as an atomic set add, so concurrent
// declines on the same task cannot drop each other.
func (r *TaskRepository) AddDeclinedBy(ctx context.Context, kind models.TaskKind, id, volunteerID string) error {
	return r.db.AddToSet(ctx, r.tableFor(kind), "id", id, "declinedBy", []string{volunteerID})
}

func (r *TaskRepository) DeleteTask(ctx context.Context, kind models.TaskKind, id string) error {
	return r.db.DeleteItem(ctx, r.tableFor(kind), "id", id)
}
