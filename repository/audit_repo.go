package repository

import (
	"context"
	"time"

	"sevasetu-backend/dal"
	"sevasetu-backend/models"
	"sevasetu-backend/utils"
	"sevasetu-backend/utils/logger"
)

// auditScope is the constant partition key of the scope-timestamp index,
// giving time-ordered access across all entries.
const auditScope = "audit"

// storedAuditEntry adds the fixed scope attribute to the persisted shape.
type storedAuditEntry struct {
	models.AuditLogEntry
	Scope string `dynamodbav:"scope"`
}

type AuditRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *AuditRepository {
	return &AuditRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *AuditRepository) table() string {
	return r.config.DynamoDBTablePrefix + "_audit"
}

// Append writes an entry. The log is append-only: there is no update or
// delete path, and identical logical events produce duplicate entries.
func (r *AuditRepository) Append(ctx context.Context, entry *models.AuditLogEntry) error {
	entry.ID = utils.GenerateUUID()
	if entry.Timestamp.Time().IsZero() {
		entry.Timestamp = models.NewAuditTime(time.Now())
	}
	return r.db.PutItem(ctx, r.table(), &storedAuditEntry{AuditLogEntry: *entry, Scope: auditScope})
}

// QueryByItem returns an item's entries ascending by time.
func (r *AuditRepository) QueryByItem(ctx context.Context, itemID string, kind models.AuditItemKind) ([]*models.AuditLogEntry, error) {
	var entries []*models.AuditLogEntry
	cfg := models.QueryConfig{
		TableName:   r.table(),
		IndexName:   "itemId-timestamp-index",
		KeyName:     "itemId",
		KeyValue:    itemID,
		FilterName:  "itemKind",
		FilterValue: string(kind),
		Limit:       100,
	}
	if err := r.db.QueryByIndex(ctx, cfg, &entries); err != nil {
		r.logger.Errorf("Failed to query audit log for %s %s: %v", kind, itemID, err)
		return nil, err
	}
	return entries, nil
}

// QueryByUser returns the actor's entries descending by time.
func (r *AuditRepository) QueryByUser(ctx context.Context, actorID string, limit int) ([]*models.AuditLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []*models.AuditLogEntry
	cfg := models.QueryConfig{
		TableName:  r.table(),
		IndexName:  "actorId-timestamp-index",
		KeyName:    "actorId",
		KeyValue:   actorID,
		Limit:      int32(limit),
		Descending: true,
	}
	if err := r.db.QueryByIndex(ctx, cfg, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// QueryByTimeRange returns entries within [start, end] descending by time.
// The window is a range-key condition on the scope index, so the limit
// counts matching entries regardless of how much history surrounds them.
func (r *AuditRepository) QueryByTimeRange(ctx context.Context, start, end time.Time, limit int) ([]*models.AuditLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []*models.AuditLogEntry
	cfg := models.QueryConfig{
		TableName:    r.table(),
		IndexName:    "scope-timestamp-index",
		KeyName:      "scope",
		KeyValue:     auditScope,
		RangeKeyName: "timestamp",
		RangeStart:   models.NewAuditTime(start).SortKey(),
		RangeEnd:     models.NewAuditTime(end).SortKey(),
		Limit:        int32(limit),
		Descending:   true,
	}
	if err := r.db.QueryByIndex(ctx, cfg, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
