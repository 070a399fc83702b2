package controller

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"sevasetu-backend/middelware"
	"sevasetu-backend/models"
	"sevasetu-backend/services"
	"sevasetu-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type TaskController struct {
	ctx       context.Context
	tasks     services.TaskServiceInterface
	workflow  services.WorkflowServiceInterface
	logger    logger.Logger
	validator *validator.Validate
}

func NewTaskController(ctx context.Context, tasks services.TaskServiceInterface, workflow services.WorkflowServiceInterface, log logger.Logger) *TaskController {
	return &TaskController{
		ctx:       ctx,
		tasks:     tasks,
		workflow:  workflow,
		logger:    log,
		validator: validator.New(),
	}
}

func (h *TaskController) formatValidationErrors(err error) string {
	var errorMessages []string

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			switch fieldError.Tag() {
			case "required":
				errorMessages = append(errorMessages, fieldError.Field()+" is required")
			case "min":
				errorMessages = append(errorMessages, fieldError.Field()+" must be at least "+fieldError.Param()+" characters/items")
			case "max":
				errorMessages = append(errorMessages, fieldError.Field()+" must be at most "+fieldError.Param()+" characters/items")
			case "oneof":
				errorMessages = append(errorMessages, fieldError.Field()+" must be one of: "+strings.ReplaceAll(fieldError.Param(), " ", ", "))
			default:
				errorMessages = append(errorMessages, fieldError.Field()+" is invalid")
			}
		}
	}

	return strings.Join(errorMessages, "; ")
}

// Create handles POST /donations and POST /requests
func (h *TaskController) Create(kind models.TaskKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Error("Failed to bind JSON:", err)
			c.JSON(http.StatusBadRequest, models.APIResponse{
				Status:  "error",
				Code:    http.StatusBadRequest,
				Message: "Invalid request",
				Error: &models.APIError{
					Type:    "ValidationError",
					Details: err.Error(),
				},
			})
			return
		}

		if err := h.validator.Struct(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.APIResponse{
				Status:  "error",
				Code:    http.StatusBadRequest,
				Message: "Validation failed",
				Error: &models.APIError{
					Type:    "ValidationError",
					Details: h.formatValidationErrors(err),
				},
			})
			return
		}

		claims := middelware.ClaimsFrom(c)
		if claims == nil {
			respondError(c, models.NewAppError(models.ErrForbidden, "authentication required"))
			return
		}

		resp, err := h.tasks.Create(c.Request.Context(), kind, &req, claims.UserID)
		if err != nil {
			h.logger.Errorf("Failed to create %s: %v", kind, err)
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, models.APIResponse{
			Status:  "success",
			Code:    http.StatusCreated,
			Message: string(kind) + " created successfully",
			Data:    resp,
		})
	}
}

// ListByLocation handles GET /{kind}/location/:city
func (h *TaskController) ListByLocation(kind models.TaskKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 20
		offset := 0
		if param := c.Query("limit"); param != "" {
			if n, err := strconv.Atoi(param); err == nil && n > 0 {
				limit = n
			}
		}
		if param := c.Query("offset"); param != "" {
			if n, err := strconv.Atoi(param); err == nil && n >= 0 {
				offset = n
			}
		}

		status := models.TaskStatus(c.Query("status"))

		tasks, err := h.tasks.ListByLocation(c.Request.Context(), kind, c.Param("city"), status, limit, offset)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.APIResponse{
			Status: "success",
			Code:   http.StatusOK,
			Data: gin.H{
				"items":  tasks,
				"count":  len(tasks),
				"limit":  limit,
				"offset": offset,
			},
		})
	}
}

// Get handles GET /{kind}/:id
func (h *TaskController) Get(kind models.TaskKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		task, err := h.tasks.Get(c.Request.Context(), kind, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.APIResponse{
			Status: "success",
			Code:   http.StatusOK,
			Data:   task,
		})
	}
}

// Transition handles PATCH /{kind}/:id/status
func (h *TaskController) Transition(kind models.TaskKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.TransitionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, models.NewAppError(models.ErrValidation, "invalid request body"))
			return
		}
		if err := h.validator.Struct(&req); err != nil {
			respondError(c, models.NewAppError(models.ErrValidation, "%s", h.formatValidationErrors(err)))
			return
		}

		claims := middelware.ClaimsFrom(c)
		if claims == nil {
			respondError(c, models.NewAppError(models.ErrForbidden, "authentication required"))
			return
		}

		result, err := h.workflow.Transition(c.Request.Context(), kind, c.Param("id"), req.Status, claims.UserID, claims.Role)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.APIResponse{
			Status:  "success",
			Code:    http.StatusOK,
			Message: "Status updated",
			Data:    result,
		})
	}
}

// Decline handles POST /{kind}/:id/decline
func (h *TaskController) Decline(kind models.TaskKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middelware.ClaimsFrom(c)
		if claims == nil || claims.Role != models.UserRoleVolunteer {
			respondError(c, models.NewAppError(models.ErrForbidden, "only volunteers may decline tasks"))
			return
		}

		if err := h.workflow.Decline(c.Request.Context(), kind, c.Param("id"), claims.UserID); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.APIResponse{
			Status:  "success",
			Code:    http.StatusOK,
			Message: "Task declined",
		})
	}
}

// Delete handles DELETE /{kind}/:id
func (h *TaskController) Delete(kind models.TaskKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middelware.ClaimsFrom(c)
		if claims == nil {
			respondError(c, models.NewAppError(models.ErrForbidden, "authentication required"))
			return
		}

		if err := h.workflow.Delete(c.Request.Context(), kind, c.Param("id"), claims.UserID, claims.Role); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.APIResponse{
			Status:  "success",
			Code:    http.StatusOK,
			Message: "Deleted",
		})
	}
}

// LocationStats handles GET /location/:city/stats
func (h *TaskController) LocationStats(c *gin.Context) {
	stats, err := h.tasks.LocationStats(c.Request.Context(), c.Param("city"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.APIResponse{
		Status: "success",
		Code:   http.StatusOK,
		Data:   stats,
	})
}
