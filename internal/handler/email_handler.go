package handler

import (
	"net/http"

	"taxclarity/internal/apperr"
	"taxclarity/internal/service"
	"taxclarity/pkg/response"

	"github.com/gin-gonic/gin"
)

type EmailHandler struct {
	emailService service.EmailService
	auth         gin.HandlerFunc
	limiter      gin.HandlerFunc
}

func NewEmailHandler(emailService service.EmailService, auth, limiter gin.HandlerFunc) *EmailHandler {
	return &EmailHandler{emailService: emailService, auth: auth, limiter: limiter}
}

func (h *EmailHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/api/emails", h.auth, h.limiter, h.SendEmail)
}

// SendEmail renders a template and sends it through the email provider
// @Summary      Send email
// @Description  Templates: welcome, reminder, deadline_alert, custom
// @Tags         email
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      service.EmailRequest  true  "Email"
// @Success      200      {object}  response.Response{data=service.EmailResult}
// @Failure      400      {object}  response.Response
// @Failure      502      {object}  response.Response{data=service.EmailResult}
// @Router       /api/emails [post]
func (h *EmailHandler) SendEmail(c *gin.Context) {
	var req service.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalidPayload(err))
		return
	}

	res, err := h.emailService.Send(c.Request.Context(), req)
	if err != nil {
		status, body := response.FromError(err)
		if apperr.Is(err, apperr.CodeProvider) {
			body.Data = res
		}
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}
