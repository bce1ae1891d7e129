package repository

import (
	"context"
	"time"

	"taxclarity/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const priorityOrder = "CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 WHEN 'low' THEN 2 ELSE 3 END"

type ActionItemRepository interface {
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
	CreateBatch(ctx context.Context, items []model.UserActionItem) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.UserActionItem, error)
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*model.UserActionItem, error)
	SetCompleted(ctx context.Context, id, userID uuid.UUID, completed bool, completedAt *time.Time) (bool, error)
	ListIncompleteDueOn(ctx context.Context, dates []model.Date) ([]model.UserActionItem, error)
}

type actionItemRepository struct {
	db *gorm.DB
}

func NewActionItemRepository(db *gorm.DB) ActionItemRepository {
	return &actionItemRepository{db: db}
}

// DeleteByUser removes every item the user owns, whatever rule produced it.
func (r *actionItemRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("user_id = ?", userID).Delete(&model.UserActionItem{}).Error
}

func (r *actionItemRepository) CreateBatch(ctx context.Context, items []model.UserActionItem) error {
	if len(items) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&items).Error
}

// ListByUser returns the user's items ordered by priority (high first) then due date.
func (r *actionItemRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.UserActionItem, error) {
	var items []model.UserActionItem
	if err := GetDB(ctx, r.db).
		Where("user_id = ?", userID).
		Order(priorityOrder).
		Order("due_date ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *actionItemRepository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*model.UserActionItem, error) {
	var item model.UserActionItem
	if err := GetDB(ctx, r.db).First(&item, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// SetCompleted updates completion state and reports whether a row owned by userID matched.
func (r *actionItemRepository) SetCompleted(ctx context.Context, id, userID uuid.UUID, completed bool, completedAt *time.Time) (bool, error) {
	res := GetDB(ctx, r.db).
		Model(&model.UserActionItem{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"completed":    completed,
			"completed_at": completedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListIncompleteDueOn returns incomplete items of all users due on any of the given dates.
func (r *actionItemRepository) ListIncompleteDueOn(ctx context.Context, dates []model.Date) ([]model.UserActionItem, error) {
	var items []model.UserActionItem
	if len(dates) == 0 {
		return items, nil
	}
	if err := GetDB(ctx, r.db).
		Where("completed = ? AND due_date IN ?", false, dates).
		Order("user_id ASC, due_date ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
