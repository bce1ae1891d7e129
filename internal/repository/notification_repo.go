package repository

import (
	"context"

	"taxclarity/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Record(ctx context.Context, entry *model.NotificationHistory) error
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.NotificationHistory, int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Record(ctx context.Context, entry *model.NotificationHistory) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.NotificationHistory, int64, error) {
	var entries []model.NotificationHistory
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.NotificationHistory{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Where("user_id = ?", userID).Order("created_at desc").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
