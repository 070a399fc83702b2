package controller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"sevasetu-backend/models"
	"sevasetu-backend/services"
	"sevasetu-backend/utils/logger"

	"github.com/gin-gonic/gin"
)

type AuditController struct {
	ctx    context.Context
	audit  services.AuditServiceInterface
	logger logger.Logger
}

func NewAuditController(ctx context.Context, audit services.AuditServiceInterface, log logger.Logger) *AuditController {
	return &AuditController{
		ctx:    ctx,
		audit:  audit,
		logger: log,
	}
}

// ByItem handles GET /audit/item/:kind/:id, ascending transition history
func (h *AuditController) ByItem(c *gin.Context) {
	kind := models.AuditItemKind(c.Param("kind"))
	switch kind {
	case models.AuditItemDonation, models.AuditItemRequest, models.AuditItemUser:
	default:
		respondError(c, models.NewAppError(models.ErrValidation, "unknown item kind %q", c.Param("kind")))
		return
	}

	entries, err := h.audit.QueryByItem(c.Request.Context(), c.Param("id"), kind)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status: "success",
		Code:   http.StatusOK,
		Data: gin.H{
			"items": entries,
			"count": len(entries),
		},
	})
}

// ByUser handles GET /audit/user/:id?limit=, descending by time
func (h *AuditController) ByUser(c *gin.Context) {
	limit := 50
	if param := c.Query("limit"); param != "" {
		if n, err := strconv.Atoi(param); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := h.audit.QueryByUser(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status: "success",
		Code:   http.StatusOK,
		Data: gin.H{
			"items": entries,
			"count": len(entries),
		},
	})
}

// ByTimeRange handles GET /audit/range?start=&end=&limit= using RFC3339
// timestamps; descending by time.
func (h *AuditController) ByTimeRange(c *gin.Context) {
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		respondError(c, models.NewAppError(models.ErrValidation, "start must be an RFC3339 timestamp"))
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		respondError(c, models.NewAppError(models.ErrValidation, "end must be an RFC3339 timestamp"))
		return
	}
	limit := 50
	if param := c.Query("limit"); param != "" {
		if n, perr := strconv.Atoi(param); perr == nil && n > 0 {
			limit = n
		}
	}

	entries, err := h.audit.QueryByTimeRange(c.Request.Context(), start, end, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Status: "success",
		Code:   http.StatusOK,
		Data: gin.H{
			"items": entries,
			"count": len(entries),
		},
	})
}
