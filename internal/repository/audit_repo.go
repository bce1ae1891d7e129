package repository

import (
	"context"

	"taxclarity/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditFilter selects one user's trail. Action is optional.
type AuditFilter struct {
	UserID uuid.UUID
	Action string
	Offset int
	Limit  int
}

type AuditRepository interface {
	Log(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, filter AuditFilter) ([]model.AuditLog, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Log(ctx context.Context, entry *model.AuditLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

// List returns the newest entries first along with the unpaged total.
func (r *auditRepository) List(ctx context.Context, filter AuditFilter) ([]model.AuditLog, int64, error) {
	query := GetDB(ctx, r.db).Model(&model.AuditLog{}).Where("user_id = ?", filter.UserID)
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []model.AuditLog
	if err := query.
		Order("created_at desc").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
