package repository

import (
	"context"

	"taxclarity/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TaxRuleRepository interface {
	ListActive(ctx context.Context) ([]model.TaxRule, error)
	ListActiveWithTemplates(ctx context.Context) ([]model.TaxRule, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.TaxRule, error)
	FindByCode(ctx context.Context, code string) (*model.TaxRule, error)
	Upsert(ctx context.Context, rule *model.TaxRule) error
}

type taxRuleRepository struct {
	db *gorm.DB
}

func NewTaxRuleRepository(db *gorm.DB) TaxRuleRepository {
	return &taxRuleRepository{db: db}
}

// ListActive returns active rules in storage order; callers apply their own ordering.
func (r *taxRuleRepository) ListActive(ctx context.Context) ([]model.TaxRule, error) {
	var rules []model.TaxRule
	if err := GetDB(ctx, r.db).Where("active = ?", true).Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *taxRuleRepository) ListActiveWithTemplates(ctx context.Context) ([]model.TaxRule, error) {
	var rules []model.TaxRule
	err := GetDB(ctx, r.db).
		Preload("Templates", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Where("active = ?", true).
		Order("income_min ASC, income_max ASC, rule_code ASC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *taxRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.TaxRule, error) {
	var rule model.TaxRule
	if err := GetDB(ctx, r.db).First(&rule, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *taxRuleRepository) FindByCode(ctx context.Context, code string) (*model.TaxRule, error) {
	var rule model.TaxRule
	if err := GetDB(ctx, r.db).First(&rule, "rule_code = ?", code).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

// Upsert inserts or updates a rule keyed by rule code. Templates are not touched.
func (r *taxRuleRepository) Upsert(ctx context.Context, rule *model.TaxRule) error {
	return GetDB(ctx, r.db).
		Omit("Templates").
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "rule_code"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"applies_to", "income_min", "income_max", "tax_rate", "exemption_status",
				"title", "explanation", "obligations", "active", "updated_at",
			}),
		}).
		Create(rule).Error
}
