package handler

import (
	"net/http"

	"taxclarity/internal/middleware"
	"taxclarity/internal/service"
	"taxclarity/pkg/response"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService service.ProfileService
	auth           gin.HandlerFunc
}

func NewProfileHandler(profileService service.ProfileService, auth gin.HandlerFunc) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, auth: auth}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/profile")
	group.Use(h.auth)
	{
		group.GET("", h.GetProfile)
		group.PUT("", h.SaveProfile)
	}
}

// GetProfile returns the caller's tax profile
// @Summary      Get tax profile
// @Tags         profile
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.TaxProfile}
// @Failure      404  {object}  response.Response
// @Router       /api/profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	p, err := h.profileService.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, p))
}

// SaveProfile upserts the caller's tax profile without regenerating the checklist
// @Summary      Save tax profile
// @Tags         profile
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      service.ProfileInput  true  "Profile"
// @Success      200      {object}  response.Response{data=model.TaxProfile}
// @Failure      400      {object}  response.Response
// @Router       /api/profile [put]
func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	var req service.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalidPayload(err))
		return
	}
	p, err := h.profileService.Save(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, p))
}
