package handler

import (
	"net/http"

	"taxclarity/internal/middleware"
	"taxclarity/internal/service"
	"taxclarity/pkg/response"

	"github.com/gin-gonic/gin"
)

type ActionItemHandler struct {
	checklistService service.ChecklistService
	auth             gin.HandlerFunc
}

func NewActionItemHandler(checklistService service.ChecklistService, auth gin.HandlerFunc) *ActionItemHandler {
	return &ActionItemHandler{checklistService: checklistService, auth: auth}
}

func (h *ActionItemHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/action-items")
	group.Use(h.auth)
	{
		group.GET("", h.ListActionItems)
		group.PATCH("/:id", h.SetCompleted)
	}
}

// ListActionItems returns the caller's checklist, high priority first
// @Summary      List action items
// @Tags         action-items
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.ChecklistResponse}
// @Router       /api/action-items [get]
func (h *ActionItemHandler) ListActionItems(c *gin.Context) {
	res, err := h.checklistService.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// SetCompleted marks an action item done or reopens it
// @Summary      Toggle action item completion
// @Tags         action-items
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Action item ID"
// @Param        request  body      service.SetCompletedRequest   true  "Completion state"
// @Success      200      {object}  response.Response{data=model.UserActionItem}
// @Failure      404      {object}  response.Response
// @Router       /api/action-items/{id} [patch]
func (h *ActionItemHandler) SetCompleted(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req service.SetCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalidPayload(err))
		return
	}

	item, err := h.checklistService.SetCompleted(c.Request.Context(), middleware.UserID(c), id, *req.Completed)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}
