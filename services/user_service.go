package services

import (
	"context"

	"sevasetu-backend/location"
	"sevasetu-backend/models"
	"sevasetu-backend/repository"
	"sevasetu-backend/utils"
	"sevasetu-backend/utils/logger"
)

type UserService struct {
	repo   repository.UserRepositoryInterface
	audit  AuditServiceInterface
	logger logger.Logger
}

// NewUserService creates a new user service
func NewUserService(repo repository.UserRepositoryInterface, audit AuditServiceInterface, log logger.Logger) *UserService {
	return &UserService{
		repo:   repo,
		audit:  audit,
		logger: log,
	}
}

// Register creates an account. Volunteers must name a serviced city and
// start in pending approval; donors and requesters are usable immediately.
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	user := &models.User{
		Email:     req.Email,
		Name:      req.Name,
		Phone:     req.Phone,
		Role:      req.Role,
		PushToken: req.PushToken,
	}

	if req.Role == models.UserRoleVolunteer {
		loc, err := location.Validate(req.City)
		if err != nil {
			return nil, err
		}
		user.City = req.City
		user.Location = loc
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, models.WrapError(models.ErrInternal, err, "failed to hash password")
	}
	user.PasswordHash = hash

	user, err = s.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, classifyStoreError(err, "create user")
	}

	s.audit.RecordUserAction(ctx, user.ID, models.AuditActionRegistered, map[string]string{
		"role":     string(user.Role),
		"location": user.Location,
	})
	return user, nil
}

// Authenticate verifies credentials and returns the account. The error is
// the same for an unknown email and a wrong password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if models.IsKind(err, models.ErrNotFound) {
			return nil, models.NewAppError(models.ErrForbidden, "invalid email or password")
		}
		return nil, classifyStoreError(err, "load user")
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, models.NewAppError(models.ErrForbidden, "invalid email or password")
	}
	return user, nil
}

// Review applies the one-shot admin approval or rejection of a volunteer.
// The underlying write is conditional on the account still being pending.
func (s *UserService) Review(ctx context.Context, volunteerID string, status models.ApprovalStatus, adminID string) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, volunteerID)
	if err != nil {
		return nil, classifyStoreError(err, "load volunteer")
	}
	if user.Role != models.UserRoleVolunteer {
		return nil, models.NewAppError(models.ErrValidation, "user %s is not a volunteer", volunteerID)
	}

	if err := s.repo.UpdateApproval(ctx, volunteerID, status); err != nil {
		return nil, classifyStoreError(err, "update approval")
	}
	user.ApprovalStatus = status

	action := models.AuditActionApproved
	if status == models.ApprovalStatusRejected {
		action = models.AuditActionRejected
	}
	s.audit.RecordUserAction(ctx, adminID, action, map[string]string{
		"volunteerId": volunteerID,
		"location":    user.Location,
	})
	s.logger.Infof("Volunteer %s %s by %s", volunteerID, status, adminID)
	return user, nil
}

// BulkApprove approves each listed volunteer independently. There is no
// cross-item atomicity: a failure partway leaves earlier approvals in
// place, and the result reports the count actually applied.
func (s *UserService) BulkApprove(ctx context.Context, ids []string, adminID string) (*models.BulkApproveResult, error) {
	result := &models.BulkApproveResult{Requested: len(ids)}
	for _, id := range ids {
		if _, err := s.Review(ctx, id, models.ApprovalStatusApproved, adminID); err != nil {
			s.logger.Warnf("Bulk approve: volunteer %s skipped: %v", id, err)
			result.Failed = append(result.Failed, id)
			continue
		}
		result.Applied++
	}
	return result, nil
}

func (s *UserService) ListVolunteers(ctx context.Context, status models.ApprovalStatus) ([]*models.User, error) {
	users, err := s.repo.ListVolunteers(ctx, status)
	if err != nil {
		return nil, classifyStoreError(err, "list volunteers")
	}
	return users, nil
}
