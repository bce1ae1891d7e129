package handler

import (
	"net/http"

	"taxclarity/internal/middleware"
	"taxclarity/internal/service"
	"taxclarity/pkg/response"

	"github.com/gin-gonic/gin"
)

type TaxCheckHandler struct {
	taxCheckService service.TaxCheckService
	auth            gin.HandlerFunc
	limiter         gin.HandlerFunc
}

func NewTaxCheckHandler(taxCheckService service.TaxCheckService, auth, limiter gin.HandlerFunc) *TaxCheckHandler {
	return &TaxCheckHandler{taxCheckService: taxCheckService, auth: auth, limiter: limiter}
}

func (h *TaxCheckHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/tax-check")
	group.Use(h.auth)
	{
		group.POST("", h.limiter, h.Check)
		group.GET("/current", h.Current)
	}
}

// Check saves the questionnaire, matches a rule and regenerates the checklist
// @Summary      Run tax check
// @Description  Saves the caller's profile, selects the applicable tax rule and replaces their action items
// @Tags         tax-check
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      service.ProfileInput  true  "Questionnaire answers"
// @Success      200      {object}  response.Response{data=service.TaxCheckResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      503      {object}  response.Response
// @Router       /api/tax-check [post]
func (h *TaxCheckHandler) Check(c *gin.Context) {
	var req service.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalidPayload(err))
		return
	}

	res, err := h.taxCheckService.Check(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// Current returns the rule for the stored profile with the current checklist
// @Summary      Current tax result
// @Tags         tax-check
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.TaxCheckResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/tax-check/current [get]
func (h *TaxCheckHandler) Current(c *gin.Context) {
	res, err := h.taxCheckService.Current(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}
