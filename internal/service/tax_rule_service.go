package service

import (
	"context"

	"taxclarity/internal/apperr"
	"taxclarity/internal/model"
	"taxclarity/internal/repository"
)

// --- DTOs ---

type ReferenceData struct {
	WorkTypes    []string            `json:"work_types"`
	IncomeRanges []model.IncomeRange `json:"income_ranges"`
	States       []string            `json:"states"`
}

// --- Interface ---

// TaxRuleService exposes the read-only rule catalogue and questionnaire options.
type TaxRuleService interface {
	ListActive(ctx context.Context) ([]model.TaxRule, error)
	Reference() ReferenceData
}

type taxRuleService struct {
	rules repository.TaxRuleRepository
}

func NewTaxRuleService(rules repository.TaxRuleRepository) TaxRuleService {
	return &taxRuleService{rules: rules}
}

// --- Implementation ---

func (s *taxRuleService) ListActive(ctx context.Context) ([]model.TaxRule, error) {
	rules, err := s.rules.ListActiveWithTemplates(ctx)
	if err != nil {
		return nil, apperr.Storage("fetch tax rules", err)
	}
	if rules == nil {
		rules = []model.TaxRule{}
	}
	return rules, nil
}

func (s *taxRuleService) Reference() ReferenceData {
	return ReferenceData{
		WorkTypes:    model.WorkTypes,
		IncomeRanges: model.IncomeRanges,
		States:       model.States,
	}
}
