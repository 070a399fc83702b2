package services

import (
	"context"
	"time"

	"sevasetu-backend/models"
	"sevasetu-backend/repository"
	"sevasetu-backend/utils/logger"
)

type AuditService struct {
	repo   repository.AuditRepositoryInterface
	logger logger.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(repo repository.AuditRepositoryInterface, log logger.Logger) *AuditService {
	return &AuditService{
		repo:   repo,
		logger: log,
	}
}

// RecordTransition appends a transition entry. A failed append is logged
// and swallowed: the state mutation it describes is already durable and
// must not be rolled back by a logging problem.
func (s *AuditService) RecordTransition(ctx context.Context, itemID string, kind models.AuditItemKind, action string, from, to models.TaskStatus, actorID string, detail map[string]string) {
	entry := &models.AuditLogEntry{
		ItemID:     itemID,
		ItemKind:   kind,
		Action:     action,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    actorID,
		Timestamp:  models.NewAuditTime(time.Now()),
		Detail:     detail,
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		s.logger.Errorf("Audit append failed for %s %s (%s -> %s): %v", kind, itemID, from, to, err)
	}
}

// RecordUserAction appends a non-transition entry (registration, approval,
// deletion, decline). Same best-effort contract as RecordTransition.
func (s *AuditService) RecordUserAction(ctx context.Context, userID, action string, detail map[string]string) {
	entry := &models.AuditLogEntry{
		ItemID:    userID,
		ItemKind:  models.AuditItemUser,
		Action:    action,
		ActorID:   userID,
		Timestamp: models.NewAuditTime(time.Now()),
		Detail:    detail,
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		s.logger.Errorf("Audit append failed for user action %s by %s: %v", action, userID, err)
	}
}

func (s *AuditService) QueryByItem(ctx context.Context, itemID string, kind models.AuditItemKind) ([]*models.AuditLogEntry, error) {
	entries, err := s.repo.QueryByItem(ctx, itemID, kind)
	if err != nil {
		return nil, classifyStoreError(err, "query audit log by item")
	}
	return entries, nil
}

func (s *AuditService) QueryByUser(ctx context.Context, actorID string, limit int) ([]*models.AuditLogEntry, error) {
	entries, err := s.repo.QueryByUser(ctx, actorID, limit)
	if err != nil {
		return nil, classifyStoreError(err, "query audit log by user")
	}
	return entries, nil
}

func (s *AuditService) QueryByTimeRange(ctx context.Context, start, end time.Time, limit int) ([]*models.AuditLogEntry, error) {
	entries, err := s.repo.QueryByTimeRange(ctx, start, end, limit)
	if err != nil {
		return nil, classifyStoreError(err, "query audit log by time range")
	}
	return entries, nil
}
