package models

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// AuditItemKind identifies what an audit entry is about
type AuditItemKind string

const (
	AuditItemDonation AuditItemKind = "donation"
	AuditItemRequest  AuditItemKind = "request"
	AuditItemUser     AuditItemKind = "user"
)

// Audit action names. Transitions use the target status as the action;
// everything else is a user action.
const (
	AuditActionCreated    = "created"
	AuditActionAccepted   = "accepted"
	AuditActionPicked     = "picked"
	AuditActionDelivered  = "delivered"
	AuditActionDeleted    = "deleted"
	AuditActionDeclined   = "declined"
	AuditActionRegistered = "registered"
	AuditActionApproved   = "approved"
	AuditActionRejected   = "rejected"
)

// auditTimeLayout is fixed-width UTC with the fractional seconds padded to
// nine digits. time.Time's default RFC3339Nano form drops trailing zeros,
// which makes a whole-second value sort after a fractional one from the
// same second; this layout keeps the string sort of the timestamp range
// key chronological.
const auditTimeLayout = "2006-01-02T15:04:05.000000000Z"

// AuditTime is a time.Time that marshals to the fixed-width sort-key form
// in DynamoDB and to ordinary RFC3339 in JSON.
type AuditTime time.Time

// NewAuditTime wraps t for use in an entry.
func NewAuditTime(t time.Time) AuditTime {
	return AuditTime(t)
}

// Time returns the underlying time.
func (t AuditTime) Time() time.Time {
	return time.Time(t)
}

// SortKey renders the fixed-width range-key form.
func (t AuditTime) SortKey() string {
	return time.Time(t).UTC().Format(auditTimeLayout)
}

func (t AuditTime) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberS{Value: t.SortKey()}, nil
}

func (t *AuditTime) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	s, ok := av.(*types.AttributeValueMemberS)
	if !ok {
		return fmt.Errorf("audit timestamp must be a string attribute, got %T", av)
	}
	parsed, err := time.Parse(auditTimeLayout, s.Value)
	if err != nil {
		return err
	}
	*t = AuditTime(parsed)
	return nil
}

func (t AuditTime) MarshalJSON() ([]byte, error) {
	return time.Time(t).MarshalJSON()
}

func (t *AuditTime) UnmarshalJSON(data []byte) error {
	var parsed time.Time
	if err := parsed.UnmarshalJSON(data); err != nil {
		return err
	}
	*t = AuditTime(parsed)
	return nil
}

// AuditLogEntry is an immutable record of a status transition or user
// action. Entries are append-only: never updated, never deleted. They are
// the sole history of an item.
type AuditLogEntry struct {
	ID         string            `json:"id" dynamodbav:"id"`
	ItemID     string            `json:"itemId" dynamodbav:"itemId"`
	ItemKind   AuditItemKind     `json:"itemKind" dynamodbav:"itemKind"`
	Action     string            `json:"action" dynamodbav:"action"`
	FromStatus TaskStatus        `json:"fromStatus,omitempty" dynamodbav:"fromStatus,omitempty"`
	ToStatus   TaskStatus        `json:"toStatus,omitempty" dynamodbav:"toStatus,omitempty"`
	ActorID    string            `json:"actorId" dynamodbav:"actorId"`
	Timestamp  AuditTime         `json:"timestamp" dynamodbav:"timestamp"`
	Detail     map[string]string `json:"detail,omitempty" dynamodbav:"detail,omitempty"`
}
