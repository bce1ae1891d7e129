package handler

import (
	"net/http"

	"taxclarity/internal/middleware"
	"taxclarity/internal/service"
	"taxclarity/pkg/pagination"
	"taxclarity/pkg/response"

	"github.com/gin-gonic/gin"
)

type DeviceHandler struct {
	deviceService service.DeviceService
	auth          gin.HandlerFunc
}

func NewDeviceHandler(deviceService service.DeviceService, auth gin.HandlerFunc) *DeviceHandler {
	return &DeviceHandler{deviceService: deviceService, auth: auth}
}

func (h *DeviceHandler) RegisterRoutes(router *gin.RouterGroup) {
	devices := router.Group("/api/devices")
	devices.Use(h.auth)
	{
		devices.POST("", h.RegisterDevice)
		devices.DELETE("/:id", h.DeactivateDevice)
	}
	router.GET("/api/notifications", h.auth, h.GetNotifications)
}

// RegisterDevice stores a push subscription for the caller
// @Summary      Register device
// @Tags         notifications
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      service.RegisterDeviceRequest  true  "Device"
// @Success      201      {object}  response.Response{data=model.NotificationDevice}
// @Router       /api/devices [post]
func (h *DeviceHandler) RegisterDevice(c *gin.Context) {
	var req service.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalidPayload(err))
		return
	}
	d, err := h.deviceService.Register(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, d))
}

// DeactivateDevice stops reminders to one of the caller's devices
// @Summary      Deactivate device
// @Tags         notifications
// @Security     BearerAuth
// @Param        id   path  string  true  "Device ID"
// @Success      200  {object}  response.Response
// @Router       /api/devices/{id} [delete]
func (h *DeviceHandler) DeactivateDevice(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.deviceService.Deactivate(c.Request.Context(), middleware.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"id": id}))
}

// GetNotifications pages through the caller's delivered notifications
// @Summary      Notification history
// @Tags         notifications
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Router       /api/notifications [get]
func (h *DeviceHandler) GetNotifications(c *gin.Context) {
	p := pagination.Parse(c)
	entries, total, err := h.deviceService.History(c.Request.Context(), middleware.UserID(c), p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, p.Envelope("notifications", entries, total)))
}
