package models

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DBClient interface to avoid a circular dependency between worker and dal
type DBClient interface {
	CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) error
	DescribeTable(ctx context.Context, tableName string) (*dynamodb.DescribeTableOutput, error)
}

// WorkerConfig holds configuration for the table provisioning worker
type WorkerConfig struct {
	CronSchedule string `json:"cron_schedule"`

	LockTimeout time.Duration `json:"lock_timeout"`

	MaxRetries int           `json:"max_retries"`
	RetryDelay time.Duration `json:"retry_delay"`

	Environment    string   `json:"environment"`
	RequiredTables []string `json:"required_tables"`

	LockFilePath string `json:"lock_file_path"`

	RunOnce bool `json:"run_once"`
}

// LockInfo represents the on-disk provisioning lock
type LockInfo struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	AcquiredAt  time.Time `json:"acquired_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Environment string    `json:"environment"`
}
