package service

import (
	"context"
	"sort"

	"taxclarity/internal/apperr"
	"taxclarity/internal/logger"
	"taxclarity/internal/model"
	"taxclarity/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultRuleTitle       = "Standard Tax Applies"
	defaultRuleExplanation = "Based on your profile, standard tax rules apply. Please consult with a tax professional for specific guidance."
)

var defaultObligations = []string{
	"Register with your State Internal Revenue Service",
	"Keep records of your income and expenses",
	"File annual tax returns",
}

// RuleMatcher selects the single tax rule that applies to a profile.
type RuleMatcher interface {
	Match(ctx context.Context, profile model.TaxProfile) (model.TaxRule, error)
}

type ruleMatcher struct {
	rules repository.TaxRuleRepository
	log   *logger.Logger
}

func NewRuleMatcher(rules repository.TaxRuleRepository, log *logger.Logger) RuleMatcher {
	return &ruleMatcher{rules: rules, log: log.With("service", "RuleMatcher")}
}

// Match loads the active rules and picks one for the profile, falling back to
// DefaultRule when nothing covers it.
func (m *ruleMatcher) Match(ctx context.Context, profile model.TaxProfile) (model.TaxRule, error) {
	rules, err := m.rules.ListActive(ctx)
	if err != nil {
		return model.TaxRule{}, apperr.Storage("fetch tax rules", err)
	}

	if rule, ok := MatchRule(rules, profile); ok {
		m.log.Debug("rule matched", "user_id", profile.UserID, "rule_code", rule.RuleCode)
		return rule, nil
	}

	m.log.Info("no rule matched, using default",
		"user_id", profile.UserID,
		"work_type", profile.WorkType,
		"income_max", profile.IncomeRangeMax,
		"active_rules", len(rules),
	)
	return DefaultRule(profile), nil
}

// MatchRule returns the winning candidate among rules. A rule is a candidate when
// it is active, lists the profile's work type, and its bracket contains the
// profile's income max. Location does not take part. Candidates are ordered by
// income min, income max, rule code, then id, and the first wins, so the result
// does not depend on the order rules are passed in.
func MatchRule(rules []model.TaxRule, profile model.TaxProfile) (model.TaxRule, bool) {
	candidates := make([]model.TaxRule, 0, len(rules))
	for _, r := range rules {
		if !r.Active {
			continue
		}
		if !r.AppliesTo.Contains(profile.WorkType) {
			continue
		}
		if !r.Covers(profile.IncomeRangeMax) {
			continue
		}
		candidates = append(candidates, r)
	}
	if len(candidates) == 0 {
		return model.TaxRule{}, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.IncomeMin != b.IncomeMin {
			return a.IncomeMin < b.IncomeMin
		}
		if a.IncomeMax != b.IncomeMax {
			return a.IncomeMax < b.IncomeMax
		}
		if a.RuleCode != b.RuleCode {
			return a.RuleCode < b.RuleCode
		}
		return a.ID.String() < b.ID.String()
	})
	return candidates[0], true
}

// DefaultRule synthesizes the in-memory fallback rule for a profile. It has the
// nil id, so no templates are ever linked to it.
func DefaultRule(profile model.TaxProfile) model.TaxRule {
	return model.TaxRule{
		ID:              uuid.Nil,
		RuleCode:        model.DefaultRuleCode,
		AppliesTo:       model.StringList{profile.WorkType},
		IncomeMin:       profile.IncomeRangeMin,
		IncomeMax:       profile.IncomeRangeMax,
		TaxRate:         decimal.Zero,
		ExemptionStatus: model.ExemptionTaxable,
		Title:           defaultRuleTitle,
		Explanation:     defaultRuleExplanation,
		Obligations:     append(model.StringList{}, defaultObligations...),
		Active:          true,
		IsDefault:       true,
	}
}
