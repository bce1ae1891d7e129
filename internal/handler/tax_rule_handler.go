package handler

import (
	"net/http"

	"taxclarity/internal/service"
	"taxclarity/pkg/response"

	"github.com/gin-gonic/gin"
)

type TaxRuleHandler struct {
	taxRuleService service.TaxRuleService
}

func NewTaxRuleHandler(taxRuleService service.TaxRuleService) *TaxRuleHandler {
	return &TaxRuleHandler{taxRuleService: taxRuleService}
}

// RegisterRoutes mounts the public reference-data endpoints.
func (h *TaxRuleHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/tax-rules", h.GetTaxRules)
	router.GET("/api/reference", h.GetReference)
}

// GetTaxRules returns active rules with their templates
// @Summary      List tax rules
// @Tags         reference
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.TaxRule}
// @Router       /api/tax-rules [get]
func (h *TaxRuleHandler) GetTaxRules(c *gin.Context) {
	rules, err := h.taxRuleService.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rules))
}

// GetReference returns the questionnaire options
// @Summary      Questionnaire options
// @Tags         reference
// @Produce      json
// @Success      200  {object}  response.Response{data=service.ReferenceData}
// @Router       /api/reference [get]
func (h *TaxRuleHandler) GetReference(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.taxRuleService.Reference()))
}
