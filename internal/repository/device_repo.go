package repository

import (
	"context"

	"taxclarity/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DeviceRepository interface {
	Upsert(ctx context.Context, device *model.NotificationDevice) error
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]model.NotificationDevice, error)
	Deactivate(ctx context.Context, id, userID uuid.UUID) (bool, error)
}

type deviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) DeviceRepository {
	return &deviceRepository{db: db}
}

// Upsert registers a device keyed by player id. Re-registering moves it to the
// calling user and reactivates it.
func (r *deviceRepository) Upsert(ctx context.Context, device *model.NotificationDevice) error {
	db := GetDB(ctx, r.db)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "platform", "active", "updated_at"}),
	}).Create(device).Error
	if err != nil {
		return err
	}
	var stored model.NotificationDevice
	if err := db.First(&stored, "player_id = ?", device.PlayerID).Error; err != nil {
		return err
	}
	*device = stored
	return nil
}

func (r *deviceRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]model.NotificationDevice, error) {
	var devices []model.NotificationDevice
	if err := GetDB(ctx, r.db).
		Where("user_id = ? AND active = ?", userID, true).
		Order("created_at ASC").
		Find(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}

func (r *deviceRepository) Deactivate(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	res := GetDB(ctx, r.db).
		Model(&model.NotificationDevice{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("active", false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
