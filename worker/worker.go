package worker

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"sevasetu-backend/models"
	"sevasetu-backend/utils/logger"

	"github.com/google/uuid"
	"github.com/robfig/cron"
)

// Worker provisions DynamoDB tables in the background. In RunOnce mode it
// performs a single setup pass with retries and stops; otherwise it keeps a
// cron schedule that re-validates the tables.
type Worker struct {
	config       *models.Config
	logger       logger.Logger
	workerConfig *models.WorkerConfig
	lockManager  *LockManager
	provisioner  *Provisioner
	cronJob      *cron.Cron
	ownerID      string

	mu        sync.Mutex
	isRunning bool
	stopOnce  sync.Once
	stopChan  chan struct{}
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewWorker(db models.DBClient, cfg *models.Config, log logger.Logger) (*Worker, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if log == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "localhost"
	}
	ownerID := fmt.Sprintf("worker-%s-%s", hostname, uuid.New().String()[:8])

	workerConfig := &models.WorkerConfig{
		CronSchedule:   cronScheduleForEnvironment(cfg.AppEnv),
		LockTimeout:    30 * time.Minute,
		MaxRetries:     5,
		RetryDelay:     2 * time.Second,
		Environment:    cfg.AppEnv,
		RequiredTables: cfg.Tables,
		LockFilePath:   fmt.Sprintf("/tmp/sevasetu-provision-%s.lock", cfg.AppEnv),
		RunOnce:        true,
	}

	if err := validateWorkerConfig(workerConfig); err != nil {
		return nil, fmt.Errorf("invalid worker configuration: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Worker{
		config:       cfg,
		logger:       log,
		workerConfig: workerConfig,
		lockManager:  NewLockManager(workerConfig.LockFilePath, workerConfig.LockTimeout, workerConfig.Environment),
		provisioner:  NewProvisioner(db, cfg, log),
		cronJob:      cron.New(),
		ownerID:      ownerID,
		stopChan:     make(chan struct{}),
		ctx:          ctx,
		cancel:       cancel,
	}, nil
}

func validateWorkerConfig(config *models.WorkerConfig) error {
	if config.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if config.LockTimeout <= 0 {
		return fmt.Errorf("lock timeout must be positive")
	}
	if config.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if config.RetryDelay <= 0 {
		return fmt.Errorf("retry delay must be positive")
	}
	if len(config.RequiredTables) == 0 {
		return fmt.Errorf("at least one required table must be specified")
	}
	if config.LockFilePath == "" {
		return fmt.Errorf("lock file path is required")
	}
	return nil
}

func cronScheduleForEnvironment(env string) string {
	switch env {
	case "development":
		return "0 */5 * * * *"
	case "production":
		return "0 */15 * * * *"
	default:
		return "0 */10 * * * *"
	}
}

// Start begins provisioning. It returns immediately; setup runs in the
// background.
func (w *Worker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return fmt.Errorf("worker is already running")
	}

	select {
	case <-w.ctx.Done():
		return fmt.Errorf("worker context is cancelled, cannot start")
	default:
	}

	w.logger.Infof("Starting provisioning worker %s (runOnce=%v)", w.ownerID, w.workerConfig.RunOnce)
	w.isRunning = true

	if w.workerConfig.RunOnce {
		go w.runOnceSetup()
		return nil
	}

	if err := w.cronJob.AddFunc(w.workerConfig.CronSchedule, w.executeSetupJob); err != nil {
		w.isRunning = false
		return fmt.Errorf("failed to add cron job: %w", err)
	}
	w.cronJob.Start()

	go w.executeSetupJob()
	return nil
}

// WaitUntilDone blocks until the worker has stopped, used in RunOnce mode to
// gate server startup on the tables existing.
func (w *Worker) WaitUntilDone(ctx context.Context) error {
	select {
	case <-w.stopChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) runOnceSetup() {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Errorf("Provisioning panicked: %v", r)
		}
		w.Stop()
	}()

	ctx, cancel := context.WithTimeout(w.ctx, 15*time.Minute)
	defer cancel()

	if err := w.setupWithRetries(ctx); err != nil {
		w.logger.Errorf("Table provisioning failed: %v", err)
		return
	}
	w.logger.Info("Table provisioning completed")
}

func (w *Worker) executeSetupJob() {
	ctx, cancel := context.WithTimeout(w.ctx, 15*time.Minute)
	defer cancel()

	select {
	case <-w.ctx.Done():
		return
	default:
	}

	if err := w.runLocked(ctx, func() error {
		return w.provisioner.EnsureTables(ctx, w.workerConfig.RequiredTables)
	}); err != nil {
		w.logger.Errorf("Scheduled provisioning run failed: %v", err)
		return
	}

	if err := w.provisioner.Validate(ctx, w.workerConfig.RequiredTables); err != nil {
		w.logger.Warnf("Table validation failed: %v", err)
	}
}

func (w *Worker) setupWithRetries(ctx context.Context) error {
	var lastErr error
	delay := w.workerConfig.RetryDelay

	for attempt := 0; attempt <= w.workerConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			w.logger.Warnf("Retrying provisioning (attempt %d/%d) in %v: %v",
				attempt, w.workerConfig.MaxRetries, delay, lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if delay > 5*time.Minute {
				delay = 5 * time.Minute
			}
		}

		lastErr = w.runLocked(ctx, func() error {
			return w.provisioner.EnsureTables(ctx, w.workerConfig.RequiredTables)
		})
		if lastErr == nil {
			return nil
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (w *Worker) runLocked(ctx context.Context, fn func() error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	lockInfo, err := w.lockManager.AcquireLock(w.ownerID)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer func() {
		if err := w.lockManager.ReleaseLock(lockInfo); err != nil {
			w.logger.Errorf("Failed to release lock: %v", err)
		}
	}()

	return fn()
}

// Stop shuts the worker down. Safe to call more than once.
func (w *Worker) Stop() error {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		defer w.mu.Unlock()

		w.logger.Info("Stopping provisioning worker")

		if w.cancel != nil {
			w.cancel()
		}
		if w.cronJob != nil {
			w.cronJob.Stop()
		}
		w.isRunning = false
		close(w.stopChan)
	})
	return nil
}
