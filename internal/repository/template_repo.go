package repository

import (
	"context"

	"taxclarity/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActionItemTemplateRepository interface {
	ListByRule(ctx context.Context, ruleID uuid.UUID) ([]model.ActionItemTemplate, error)
	ReplaceForRule(ctx context.Context, ruleID uuid.UUID, templates []model.ActionItemTemplate) error
}

type actionItemTemplateRepository struct {
	db *gorm.DB
}

func NewActionItemTemplateRepository(db *gorm.DB) ActionItemTemplateRepository {
	return &actionItemTemplateRepository{db: db}
}

func (r *actionItemTemplateRepository) ListByRule(ctx context.Context, ruleID uuid.UUID) ([]model.ActionItemTemplate, error) {
	var templates []model.ActionItemTemplate
	if err := GetDB(ctx, r.db).
		Where("tax_rule_id = ?", ruleID).
		Order("sort_order ASC").
		Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// ReplaceForRule swaps a rule's templates. Used by the reference-data seeder.
func (r *actionItemTemplateRepository) ReplaceForRule(ctx context.Context, ruleID uuid.UUID, templates []model.ActionItemTemplate) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("tax_rule_id = ?", ruleID).Delete(&model.ActionItemTemplate{}).Error; err != nil {
		return err
	}
	if len(templates) == 0 {
		return nil
	}
	for i := range templates {
		templates[i].TaxRuleID = ruleID
	}
	return db.Create(&templates).Error
}
