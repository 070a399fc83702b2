package controller

import (
	"context"
	"net/http"
	"strings"

	"sevasetu-backend/middelware"
	"sevasetu-backend/models"
	"sevasetu-backend/services"
	"sevasetu-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type UserController struct {
	ctx        context.Context
	users      services.UserServiceInterface
	jwtManager *middelware.JWTManager
	logger     logger.Logger
	validator  *validator.Validate
}

func NewUserController(ctx context.Context, users services.UserServiceInterface, jwtManager *middelware.JWTManager, log logger.Logger) *UserController {
	return &UserController{
		ctx:        ctx,
		users:      users,
		jwtManager: jwtManager,
		logger:     log,
		validator:  validator.New(),
	}
}

// Register handles POST /auth/register
func (h *UserController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
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
		respondError(c, models.NewAppError(models.ErrValidation, "%s", formatFieldErrors(err)))
		return
	}

	user, err := h.users.Register(c.Request.Context(), &req)
	if err != nil {
		h.logger.Errorf("Registration failed for %s: %v", req.Email, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.APIResponse{
		Status:  "success",
		Code:    http.StatusCreated,
		Message: "Registered successfully",
		Data:    user,
	})
}

// Login handles POST /auth/login
func (h *UserController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, models.NewAppError(models.ErrValidation, "invalid request body"))
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		respondError(c, models.NewAppError(models.ErrValidation, "%s", formatFieldErrors(err)))
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.jwtManager.GenerateToken(user)
	if err != nil {
		respondError(c, models.WrapError(models.ErrInternal, err, "failed to issue token"))
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status: "success",
		Code:   http.StatusOK,
		Data:   models.LoginResponse{Token: token, User: user},
	})
}

// ListVolunteers handles GET /volunteers?status=
func (h *UserController) ListVolunteers(c *gin.Context) {
	status := models.ApprovalStatus(c.Query("status"))
	users, err := h.users.ListVolunteers(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.APIResponse{
		Status: "success",
		Code:   http.StatusOK,
		Data: gin.H{
			"items": users,
			"count": len(users),
		},
	})
}

// Review handles PATCH /volunteers/:id/approval
func (h *UserController) Review(c *gin.Context) {
	var req models.ApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, models.NewAppError(models.ErrValidation, "invalid request body"))
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		respondError(c, models.NewAppError(models.ErrValidation, "%s", formatFieldErrors(err)))
		return
	}

	claims := middelware.ClaimsFrom(c)
	user, err := h.users.Review(c.Request.Context(), c.Param("id"), req.Status, claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: "Volunteer " + string(req.Status),
		Data:    user,
	})
}

// BulkApprove handles POST /volunteers/bulk-approve
func (h *UserController) BulkApprove(c *gin.Context) {
	var req models.BulkApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, models.NewAppError(models.ErrValidation, "invalid request body"))
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		respondError(c, models.NewAppError(models.ErrValidation, "%s", formatFieldErrors(err)))
		return
	}

	claims := middelware.ClaimsFrom(c)
	result, err := h.users.BulkApprove(c.Request.Context(), req.IDs, claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status: "success",
		Code:   http.StatusOK,
		Data:   result,
	})
}

// formatFieldErrors renders validator errors for user-facing messages
func formatFieldErrors(err error) string {
	var msgs []string
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			switch fieldError.Tag() {
			case "required":
				msgs = append(msgs, fieldError.Field()+" is required")
			case "email":
				msgs = append(msgs, fieldError.Field()+" must be a valid email address")
			case "min":
				msgs = append(msgs, fieldError.Field()+" must be at least "+fieldError.Param()+" characters/items")
			case "oneof":
				msgs = append(msgs, fieldError.Field()+" must be one of: "+strings.ReplaceAll(fieldError.Param(), " ", ", "))
			default:
				msgs = append(msgs, fieldError.Field()+" is invalid")
			}
		}
	}
	return strings.Join(msgs, "; ")
}
