package handler

import (
	"net/http"

	"taxclarity/internal/service"
	"taxclarity/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReminderHandler struct {
	reminderService service.ReminderService
	guard           gin.HandlerFunc
}

func NewReminderHandler(reminderService service.ReminderService, guard gin.HandlerFunc) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService, guard: guard}
}

func (h *ReminderHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/internal/reminders/run", h.guard, h.RunReminders)
}

// RunReminders triggers one reminder batch; meant for an external scheduler
// @Summary      Run reminder batch
// @Tags         internal
// @Produce      json
// @Param        X-Cron-Secret  header    string  true  "Shared cron secret"
// @Success      200            {object}  response.Response{data=service.ReminderSummary}
// @Failure      500            {object}  response.Response
// @Router       /internal/reminders/run [post]
func (h *ReminderHandler) RunReminders(c *gin.Context) {
	summary, err := h.reminderService.Run(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}
