package controller

import (
	"context"
	"net/http"
	"sync"

	"sevasetu-backend/dal"
	"sevasetu-backend/middelware"
	"sevasetu-backend/models"
	"sevasetu-backend/notification"
	"sevasetu-backend/repository"
	"sevasetu-backend/services"
	"sevasetu-backend/utils/logger"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	Task  *TaskController
	User  *UserController
	Audit *AuditController

	jwtManager *JWTManagerRef
	notifier   notification.Notifier

	mu     sync.Mutex
	server *http.Server
}

// JWTManagerRef is a thin alias so route registration can reach the
// middleware without re-importing it everywhere.
type JWTManagerRef = middelware.JWTManager

// NewController builds the full dependency graph: DAL client, repositories,
// notifier, services and handlers. This is the composition root; nothing
// below it grabs shared state.
func NewController(ctx context.Context, cfg *models.Config, log logger.Logger) (*Controller, error) {
	dbclient, err := dal.NewDynamoDBClient(cfg, log)
	if err != nil {
		return nil, err
	}

	repos := repository.NewRepository(dbclient, cfg, log)
	notifier := notification.NewKafkaNotifier(cfg, log)
	svc := services.NewService(repos, notifier, log, cfg)
	jwtManager := middelware.NewJWTManager(cfg, log)

	return &Controller{
		Task:       NewTaskController(ctx, svc.Task, svc.Workflow, log),
		User:       NewUserController(ctx, svc.User, jwtManager, log),
		Audit:      NewAuditController(ctx, svc.Audit, log),
		jwtManager: jwtManager,
		notifier:   notifier,
	}, nil
}

// RegisterRoutes wires the HTTP surface and starts the server (blocking).
func (c *Controller) RegisterRoutes(ctx context.Context, config *models.Config, r *gin.Engine, log logger.Logger) error {
	logging := middelware.NewLoggingMiddleware(log)
	cors := middelware.NewCORSMiddleware(config)

	r.Use(logging.Recovery())
	r.Use(logging.RequestLogger())
	r.Use(cors.CORS())
	r.Use(middelware.RequestTimeout(config.RequestTimeout))

	v1 := r.Group(config.BasePath)

	// Health check endpoint (no auth required)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"version": config.AppVersion,
			"service": config.AppName,
		})
	})

	auth := v1.Group("/auth")
	auth.POST("/register", c.User.Register)
	auth.POST("/login", c.User.Login)

	requireAuth := c.jwtManager.AuthMiddleware()
	requireAdmin := c.jwtManager.RequireAdmin()

	for _, kind := range []models.TaskKind{models.TaskKindDonation, models.TaskKindRequest} {
		group := v1.Group("/" + string(kind) + "s")
		kind := kind

		group.POST("", requireAuth, c.Task.Create(kind))
		group.GET("/location/:city", c.Task.ListByLocation(kind))
		group.GET("/:id", c.Task.Get(kind))
		group.PATCH("/:id/status", requireAuth, c.Task.Transition(kind))
		group.POST("/:id/decline", requireAuth, c.Task.Decline(kind))
		group.DELETE("/:id", requireAuth, c.Task.Delete(kind))
	}

	v1.GET("/location/:city/stats", c.Task.LocationStats)

	v1.GET("/audit/item/:kind/:id", c.Audit.ByItem)
	v1.GET("/audit/user/:id", requireAuth, requireAdmin, c.Audit.ByUser)
	v1.GET("/audit/range", requireAuth, requireAdmin, c.Audit.ByTimeRange)

	volunteers := v1.Group("/volunteers", requireAuth, requireAdmin)
	volunteers.GET("", c.User.ListVolunteers)
	volunteers.PATCH("/:id/approval", c.User.Review)
	volunteers.POST("/bulk-approve", c.User.BulkApprove)

	srv := &http.Server{
		Addr:    config.AppHost + ":" + config.AppPort,
		Handler: r,
	}
	c.mu.Lock()
	c.server = srv
	c.mu.Unlock()

	log.Infof("Starting server on %s:%s", config.AppHost, config.AppPort)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the listener and drains in-flight requests, bounded by
// ctx. Safe to call before the server has started.
func (c *Controller) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	srv := c.server
	c.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Close releases long-lived collaborators, currently just the notifier.
func (c *Controller) Close() {
	if c.notifier != nil {
		c.notifier.Close()
	}
}

// statusForKind maps the error taxonomy to HTTP codes
func statusForKind(kind models.ErrorKind) int {
	switch kind {
	case models.ErrInvalidLocation, models.ErrValidation:
		return http.StatusBadRequest
	case models.ErrForbidden:
		return http.StatusForbidden
	case models.ErrNotFound:
		return http.StatusNotFound
	case models.ErrIllegalTransition:
		return http.StatusConflict
	case models.ErrTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the envelope for a failed operation. Client-caused
// kinds carry their message through; server-caused kinds stay opaque.
func respondError(c *gin.Context, err error) {
	kind := models.KindOf(err)
	code := statusForKind(kind)
	c.JSON(code, models.APIResponse{
		Status:  "error",
		Code:    code,
		Message: models.ClientMessage(err),
		Error: &models.APIError{
			Type: string(kind),
		},
	})
}
