package repository

import (
	"context"
	"time"

	"sevasetu-backend/dal"
	"sevasetu-backend/models"
	"sevasetu-backend/utils"
	"sevasetu-backend/utils/logger"
)

type UserRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *UserRepository) table() string {
	return r.config.DynamoDBTablePrefix + "_users"
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	existing, err := r.GetUserByEmail(ctx, user.Email)
	if err == nil && existing != nil {
		return nil, models.NewAppError(models.ErrValidation, "user with email %s already exists", user.Email)
	}

	now := time.Now()
	user.ID = utils.GenerateUUID()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Role == models.UserRoleVolunteer {
		user.ApprovalStatus = models.ApprovalStatusPending
	}

	if err := r.db.PutItem(ctx, r.table(), user); err != nil {
		r.logger.Errorf("Failed to create user: %v", err)
		return nil, err
	}

	r.logger.Infof("User created: %s (%s)", user.ID, user.Role)
	return user, nil
}

func (r *UserRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	user := &models.User{}
	found, err := r.db.GetItem(ctx, r.table(), "id", id, user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, models.NewAppError(models.ErrNotFound, "user %s not found", id)
	}
	return user, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var users []*models.User
	cfg := models.QueryConfig{
		TableName: r.table(),
		IndexName: "email-index",
		KeyName:   "email",
		KeyValue:  email,
		Limit:     1,
	}
	if err := r.db.QueryByIndex(ctx, cfg, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, models.NewAppError(models.ErrNotFound, "user with email %s not found", email)
	}
	return users[0], nil
}

// FindApprovedVolunteersByLocation queries the location index filtered to
// approved accounts. Only volunteers carry approvalStatus, so the filter
// also excludes donors and requesters who happen to share the city.
func (r *UserRepository) FindApprovedVolunteersByLocation(ctx context.Context, loc string) ([]*models.User, error) {
	var users []*models.User
	cfg := models.QueryConfig{
		TableName:   r.table(),
		IndexName:   "location-index",
		KeyName:     "location",
		KeyValue:    loc,
		FilterName:  "approvalStatus",
		FilterValue: string(models.ApprovalStatusApproved),
		Limit:       100,
	}
	if err := r.db.QueryByIndex(ctx, cfg, &users); err != nil {
		r.logger.Errorf("Failed to find volunteers in %s: %v", loc, err)
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) ListVolunteers(ctx context.Context, status models.ApprovalStatus) ([]*models.User, error) {
	var users []*models.User
	cfg := models.QueryConfig{
		TableName: r.table(),
		IndexName: "role-index",
		KeyName:   "role",
		KeyValue:  string(models.UserRoleVolunteer),
		Limit:     100,
	}
	if status != "" {
		cfg.FilterName = "approvalStatus"
		cfg.FilterValue = string(status)
	}
	if err := r.db.QueryByIndex(ctx, cfg, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) UpdateApproval(ctx context.Context, id string, status models.ApprovalStatus) error {
	updates := map[string]interface{}{
		"approvalStatus": string(status),
		"updatedAt":      time.Now(),
	}
	// Conditional on pending: approval and rejection are one-shot actions.
	err := r.db.ConditionalUpdateItem(ctx, r.table(), "id", id, updates, "approvalStatus", string(models.ApprovalStatusPending))
	if err == dal.ErrConditionFailed {
		return models.NewAppError(models.ErrValidation, "volunteer %s has already been reviewed", id)
	}
	return err
}
