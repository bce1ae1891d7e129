package repository

import (
	"context"

	"taxclarity/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TaxProfileRepository interface {
	Upsert(ctx context.Context, profile *model.TaxProfile) error
	FindByUser(ctx context.Context, userID uuid.UUID) (*model.TaxProfile, error)
}

type taxProfileRepository struct {
	db *gorm.DB
}

func NewTaxProfileRepository(db *gorm.DB) TaxProfileRepository {
	return &taxProfileRepository{db: db}
}

// Upsert writes the profile keyed by user id; an existing row is overwritten in place.
func (r *taxProfileRepository) Upsert(ctx context.Context, profile *model.TaxProfile) error {
	db := GetDB(ctx, r.db)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"work_type", "income_range_min", "income_range_max", "location", "updated_at"}),
	}).Create(profile).Error
	if err != nil {
		return err
	}
	// On conflict the generated id was discarded; reload the stored row.
	var stored model.TaxProfile
	if err := db.First(&stored, "user_id = ?", profile.UserID).Error; err != nil {
		return err
	}
	*profile = stored
	return nil
}

func (r *taxProfileRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*model.TaxProfile, error) {
	var profile model.TaxProfile
	if err := GetDB(ctx, r.db).First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}
