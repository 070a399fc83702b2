package services

import (
	"context"
	"time"

	"sevasetu-backend/models"

	"github.com/stretchr/testify/mock"
)

// MockLogger implements the logger interface for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Debugf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Info(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Infof(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Warnf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Error(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Errorf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Fatal(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Fatalf(format string, args ...interface{}) {
	m.Called(format, args)
}

// newQuietLogger returns a MockLogger that accepts any log call
func newQuietLogger() *MockLogger {
	l := &MockLogger{}
	l.On("Debug", mock.Anything).Return().Maybe()
	l.On("Debugf", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	l.On("Info", mock.Anything).Return().Maybe()
	l.On("Infof", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	l.On("Warn", mock.Anything).Return().Maybe()
	l.On("Warnf", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	l.On("Error", mock.Anything).Return().Maybe()
	l.On("Errorf", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	return l
}

// MockTaskRepository implements TaskRepositoryInterface for testing
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	args := m.Called(ctx, task)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskRepository) GetTask(ctx context.Context, kind models.TaskKind, id string) (*models.Task, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskRepository) ListByLocation(ctx context.Context, kind models.TaskKind, filter models.TaskFilter) ([]*models.Task, error) {
	args := m.Called(ctx, kind, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Task), args.Error(1)
}

func (m *MockTaskRepository) ListAssignedTo(ctx context.Context, volunteerID string) ([]*models.Task, error) {
	args := m.Called(ctx, volunteerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Task), args.Error(1)
}

func (m *MockTaskRepository) TransitionStatus(ctx context.Context, kind models.TaskKind, id string, expected models.TaskStatus, updates map[string]interface{}) error {
	args := m.Called(ctx, kind, id, expected, updates)
	return args.Error(0)
}

func (m *MockTaskRepository) AddDeclinedBy(ctx context.Context, kind models.TaskKind, id, volunteerID string) error {
	args := m.Called(ctx, kind, id, volunteerID)
	return args.Error(0)
}

func (m *MockTaskRepository) DeleteTask(ctx context.Context, kind models.TaskKind, id string) error {
	args := m.Called(ctx, kind, id)
	return args.Error(0)
}

// MockUserRepository implements UserRepositoryInterface for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindApprovedVolunteersByLocation(ctx context.Context, loc string) ([]*models.User, error) {
	args := m.Called(ctx, loc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) ListVolunteers(ctx context.Context, status models.ApprovalStatus) ([]*models.User, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateApproval(ctx context.Context, id string, status models.ApprovalStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockAuditService implements AuditServiceInterface for testing
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) RecordTransition(ctx context.Context, itemID string, kind models.AuditItemKind, action string, from, to models.TaskStatus, actorID string, detail map[string]string) {
	m.Called(ctx, itemID, kind, action, from, to, actorID, detail)
}

func (m *MockAuditService) RecordUserAction(ctx context.Context, userID, action string, detail map[string]string) {
	m.Called(ctx, userID, action, detail)
}

func (m *MockAuditService) QueryByItem(ctx context.Context, itemID string, kind models.AuditItemKind) ([]*models.AuditLogEntry, error) {
	args := m.Called(ctx, itemID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLogEntry), args.Error(1)
}

func (m *MockAuditService) QueryByUser(ctx context.Context, actorID string, limit int) ([]*models.AuditLogEntry, error) {
	args := m.Called(ctx, actorID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLogEntry), args.Error(1)
}

func (m *MockAuditService) QueryByTimeRange(ctx context.Context, start, end time.Time, limit int) ([]*models.AuditLogEntry, error) {
	args := m.Called(ctx, start, end, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLogEntry), args.Error(1)
}

// newQuietAudit returns a MockAuditService that accepts any record call
func newQuietAudit() *MockAuditService {
	a := &MockAuditService{}
	a.On("RecordTransition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return().Maybe()
	a.On("RecordUserAction", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return().Maybe()
	return a
}

// MockNotifier implements notification.Notifier for testing
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) TaskCreated(ctx context.Context, task *models.Task, volunteerIDs []string) {
	m.Called(ctx, task, volunteerIDs)
}

func (m *MockNotifier) TaskTransitioned(ctx context.Context, task *models.Task, actorID string) {
	m.Called(ctx, task, actorID)
}

func (m *MockNotifier) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockMatcherService implements MatcherServiceInterface for testing
type MockMatcherService struct {
	mock.Mock
}

func (m *MockMatcherService) FindByLocation(ctx context.Context, loc string) ([]*models.User, error) {
	args := m.Called(ctx, loc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockMatcherService) FindAvailable(ctx context.Context, loc string) ([]*models.User, error) {
	args := m.Called(ctx, loc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockMatcherService) WorkloadOf(ctx context.Context, volunteerID string) (int, error) {
	args := m.Called(ctx, volunteerID)
	return args.Int(0), args.Error(1)
}

func (m *MockMatcherService) SelectBest(ctx context.Context, loc string, excluding map[string]bool) (*models.User, error) {
	args := m.Called(ctx, loc, excluding)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
