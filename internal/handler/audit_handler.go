package handler

import (
	"net/http"

	"taxclarity/internal/middleware"
	"taxclarity/internal/service"
	"taxclarity/pkg/pagination"
	"taxclarity/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
	auth         gin.HandlerFunc
}

func NewAuditHandler(auditService service.AuditService, auth gin.HandlerFunc) *AuditHandler {
	return &AuditHandler{auditService: auditService, auth: auth}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/audit-logs")
	group.Use(h.auth)
	{
		group.GET("", h.GetAuditLogs)
	}
}

// GetAuditLogs pages through the caller's own activity history
// @Summary      Get audit logs
// @Description  Profile saves, checklist regenerations, completions and device changes made by the caller
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Param        action query     string  false  "Only entries with this action, e.g. TOGGLE_ACTION_ITEM"
// @Success      200    {object}  response.Response{data=object}
// @Router       /api/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	p := pagination.Parse(c)

	logs, total, err := h.auditService.ListForUser(c.Request.Context(), middleware.UserID(c), c.Query("action"), p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, p.Envelope("logs", logs, total)))
}
