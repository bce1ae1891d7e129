package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"taxclarity/internal/apperr"
	"taxclarity/internal/logger"
	"taxclarity/internal/model"
	"taxclarity/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type RegisterDeviceRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
	Platform string `json:"platform" binding:"required,oneof=ios android"`
}

// --- Interface ---

type DeviceService interface {
	Register(ctx context.Context, userID uuid.UUID, req RegisterDeviceRequest) (model.NotificationDevice, error)
	Deactivate(ctx context.Context, userID, deviceID uuid.UUID) error
	History(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.NotificationHistory, int64, error)
}

type deviceService struct {
	txManager     repository.TransactionManager
	devices       repository.DeviceRepository
	notifications repository.NotificationRepository
	audit         repository.AuditRepository
	log           *logger.Logger
}

func NewDeviceService(
	txManager repository.TransactionManager,
	devices repository.DeviceRepository,
	notifications repository.NotificationRepository,
	audit repository.AuditRepository,
	log *logger.Logger,
) DeviceService {
	return &deviceService{
		txManager:     txManager,
		devices:       devices,
		notifications: notifications,
		audit:         audit,
		log:           log.With("service", "DeviceService"),
	}
}

// --- Implementation ---

func (s *deviceService) Register(ctx context.Context, userID uuid.UUID, req RegisterDeviceRequest) (model.NotificationDevice, error) {
	if userID == uuid.Nil {
		return model.NotificationDevice{}, apperr.Unauthenticated("missing user identity")
	}
	playerID := strings.TrimSpace(req.PlayerID)
	if playerID == "" {
		return model.NotificationDevice{}, apperr.Validation("player_id is required")
	}
	if req.Platform != model.PlatformIOS && req.Platform != model.PlatformAndroid {
		return model.NotificationDevice{}, apperr.Validation(fmt.Sprintf("invalid platform %q", req.Platform))
	}

	device := model.NotificationDevice{
		UserID:   userID,
		PlayerID: playerID,
		Platform: req.Platform,
		Active:   true,
	}
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.devices.Upsert(txCtx, &device); err != nil {
			return fmt.Errorf("upsert device: %w", err)
		}
		details, _ := json.Marshal(map[string]interface{}{"platform": device.Platform})
		uid := userID
		return s.audit.Log(txCtx, &model.AuditLog{
			UserID:     &uid,
			Action:     model.ActionRegisterDevice,
			EntityID:   device.ID.String(),
			EntityName: device.Platform,
			Details:    string(details),
		})
	})
	if err != nil {
		return model.NotificationDevice{}, apperr.Storage("register device", err)
	}

	s.log.Info("device registered", "user_id", userID, "platform", device.Platform)
	return device, nil
}

func (s *deviceService) Deactivate(ctx context.Context, userID, deviceID uuid.UUID) error {
	if userID == uuid.Nil {
		return apperr.Unauthenticated("missing user identity")
	}
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		found, err := s.devices.Deactivate(txCtx, deviceID, userID)
		if err != nil {
			return apperr.Storage("deactivate device", err)
		}
		if !found {
			return apperr.NotFound("device not found")
		}
		uid := userID
		if err := s.audit.Log(txCtx, &model.AuditLog{
			UserID:   &uid,
			Action:   model.ActionDeactivateDevice,
			EntityID: deviceID.String(),
			Details:  "{}",
		}); err != nil {
			return apperr.Storage("write audit log", err)
		}
		return nil
	})
}

func (s *deviceService) History(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.NotificationHistory, int64, error) {
	if userID == uuid.Nil {
		return nil, 0, apperr.Unauthenticated("missing user identity")
	}
	entries, total, err := s.notifications.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, apperr.Storage("fetch notification history", err)
	}
	return entries, total, nil
}
