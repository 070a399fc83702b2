package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sevasetu-backend/infrastructure"
	"sevasetu-backend/models"
	"sevasetu-backend/utils/logger"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Provisioner ensures the DynamoDB tables and their indexes exist before
// the API starts serving traffic.
type Provisioner struct {
	db     models.DBClient
	config *models.Config
	logger logger.Logger
}

func NewProvisioner(db models.DBClient, cfg *models.Config, log logger.Logger) *Provisioner {
	return &Provisioner{
		db:     db,
		config: cfg,
		logger: log,
	}
}

// EnsureTables checks each required table and creates any that are missing.
// Creation waits for the table to become ACTIVE so callers can rely on the
// indexes being queryable once this returns.
func (p *Provisioner) EnsureTables(ctx context.Context, tables []string) error {
	for _, base := range tables {
		tableName := p.config.DynamoDBTablePrefix + "_" + base

		exists, err := p.tableExists(ctx, tableName)
		if err != nil {
			return fmt.Errorf("failed to check table %s: %w", tableName, err)
		}
		if exists {
			p.logger.Debugf("Table %s already exists", tableName)
			continue
		}

		p.logger.Infof("Creating table %s", tableName)
		if err := p.createTable(ctx, tableName); err != nil {
			return fmt.Errorf("failed to create table %s: %w", tableName, err)
		}
	}
	return nil
}

// Validate verifies every required table is ACTIVE. Used by periodic health
// checks after the initial setup has completed.
func (p *Provisioner) Validate(ctx context.Context, tables []string) error {
	for _, base := range tables {
		tableName := p.config.DynamoDBTablePrefix + "_" + base

		out, err := p.db.DescribeTable(ctx, tableName)
		if err != nil {
			return fmt.Errorf("table %s is not reachable: %w", tableName, err)
		}
		if out.Table.TableStatus != types.TableStatusActive {
			return fmt.Errorf("table %s is in state %s", tableName, out.Table.TableStatus)
		}
	}
	return nil
}

func (p *Provisioner) tableExists(ctx context.Context, tableName string) (bool, error) {
	_, err := p.db.DescribeTable(ctx, tableName)
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (p *Provisioner) createTable(ctx context.Context, tableName string) error {
	input, err := infrastructure.GetTables(tableName)
	if err != nil {
		return err
	}

	if err := p.db.CreateTable(ctx, input); err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			// Another instance won the race; just wait for it.
			p.logger.Warnf("Table %s is already being created elsewhere", tableName)
		} else {
			return err
		}
	}

	return p.waitForActive(ctx, tableName)
}

func (p *Provisioner) waitForActive(ctx context.Context, tableName string) error {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		out, err := p.db.DescribeTable(ctx, tableName)
		if err == nil && out.Table.TableStatus == types.TableStatusActive {
			p.logger.Infof("Table %s is active", tableName)
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("timed out waiting for table %s to become active: %w", tableName, ctx.Err())
		case <-ticker.C:
		}
	}
}
