// Package seed loads the reference tax rules and their checklist templates.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"taxclarity/internal/logger"
	"taxclarity/internal/model"
	"taxclarity/internal/repository"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

type ruleFile struct {
	Rules []ruleSpec `yaml:"rules"`
}

type ruleSpec struct {
	Code        string         `yaml:"code"`
	AppliesTo   []string       `yaml:"applies_to"`
	IncomeMin   int64          `yaml:"income_min"`
	IncomeMax   int64          `yaml:"income_max"`
	TaxRate     string         `yaml:"tax_rate"`
	Exemption   string         `yaml:"exemption"`
	Title       string         `yaml:"title"`
	Explanation string         `yaml:"explanation"`
	Obligations []string       `yaml:"obligations"`
	Templates   []templateSpec `yaml:"templates"`
}

type templateSpec struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Priority    string `yaml:"priority"`
	DueInDays   int    `yaml:"due_in_days"`
}

// Result counts what a seed run wrote.
type Result struct {
	Rules     int
	Templates int
}

// Default parses the embedded rule set.
func Default() ([]model.TaxRule, error) {
	return Parse(defaultRules)
}

// Parse decodes and validates a rule document. Rules come back active, with
// templates in document order.
func Parse(data []byte) ([]model.TaxRule, error) {
	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	if len(f.Rules) == 0 {
		return nil, errors.New("rule document has no rules")
	}

	seen := make(map[string]bool, len(f.Rules))
	rules := make([]model.TaxRule, 0, len(f.Rules))
	for _, spec := range f.Rules {
		rule, err := spec.toModel()
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", spec.Code, err)
		}
		if seen[rule.RuleCode] {
			return nil, fmt.Errorf("duplicate rule code %q", rule.RuleCode)
		}
		seen[rule.RuleCode] = true
		rules = append(rules, rule)
	}
	return rules, nil
}

func (s ruleSpec) toModel() (model.TaxRule, error) {
	if s.Code == "" {
		return model.TaxRule{}, errors.New("missing code")
	}
	if s.Code == model.DefaultRuleCode {
		return model.TaxRule{}, fmt.Errorf("code %s is reserved", model.DefaultRuleCode)
	}
	if len(s.AppliesTo) == 0 {
		return model.TaxRule{}, errors.New("applies_to is empty")
	}
	for _, wt := range s.AppliesTo {
		if !model.IsWorkType(wt) {
			return model.TaxRule{}, fmt.Errorf("unknown work type %q", wt)
		}
	}
	if s.IncomeMin < 0 || s.IncomeMin > s.IncomeMax {
		return model.TaxRule{}, fmt.Errorf("invalid bracket %d-%d", s.IncomeMin, s.IncomeMax)
	}
	if s.Exemption != model.ExemptionExempt && s.Exemption != model.ExemptionTaxable {
		return model.TaxRule{}, fmt.Errorf("unknown exemption status %q", s.Exemption)
	}
	rate, err := decimal.NewFromString(s.TaxRate)
	if err != nil {
		return model.TaxRule{}, fmt.Errorf("tax_rate: %w", err)
	}
	if s.Exemption == model.ExemptionExempt && !rate.IsZero() {
		return model.TaxRule{}, fmt.Errorf("exempt rule with non-zero rate %s", rate)
	}

	templates := make([]model.ActionItemTemplate, 0, len(s.Templates))
	for i, t := range s.Templates {
		if t.Title == "" {
			return model.TaxRule{}, fmt.Errorf("template %d: missing title", i)
		}
		if !model.IsPriority(t.Priority) {
			return model.TaxRule{}, fmt.Errorf("template %q: unknown priority %q", t.Title, t.Priority)
		}
		if t.DueInDays < 0 {
			return model.TaxRule{}, fmt.Errorf("template %q: negative due_in_days", t.Title)
		}
		templates = append(templates, model.ActionItemTemplate{
			Title:       t.Title,
			Description: t.Description,
			Priority:    t.Priority,
			DueInDays:   t.DueInDays,
			SortOrder:   i,
		})
	}

	return model.TaxRule{
		RuleCode:        s.Code,
		AppliesTo:       model.StringList(s.AppliesTo),
		IncomeMin:       s.IncomeMin,
		IncomeMax:       s.IncomeMax,
		TaxRate:         rate,
		ExemptionStatus: s.Exemption,
		Title:           s.Title,
		Explanation:     s.Explanation,
		Obligations:     model.StringList(s.Obligations),
		Active:          true,
		Templates:       templates,
	}, nil
}

type Seeder struct {
	txManager repository.TransactionManager
	rules     repository.TaxRuleRepository
	templates repository.ActionItemTemplateRepository
	log       *logger.Logger
}

func NewSeeder(
	txManager repository.TransactionManager,
	rules repository.TaxRuleRepository,
	templates repository.ActionItemTemplateRepository,
	log *logger.Logger,
) *Seeder {
	return &Seeder{txManager: txManager, rules: rules, templates: templates, log: log.With("component", "seed")}
}

// Apply upserts every rule by code and replaces its templates, all in one
// transaction. Rules missing from the document are left untouched.
func (s *Seeder) Apply(ctx context.Context, rules []model.TaxRule) (Result, error) {
	var res Result
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		for _, r := range rules {
			templates := r.Templates
			rule := r
			rule.Templates = nil
			if err := s.rules.Upsert(txCtx, &rule); err != nil {
				return fmt.Errorf("upsert rule %s: %w", r.RuleCode, err)
			}
			// On conflict the in-memory ID is not the stored one.
			stored, err := s.rules.FindByCode(txCtx, r.RuleCode)
			if err != nil {
				return fmt.Errorf("reload rule %s: %w", r.RuleCode, err)
			}

			fresh := make([]model.ActionItemTemplate, len(templates))
			copy(fresh, templates)
			if err := s.templates.ReplaceForRule(txCtx, stored.ID, fresh); err != nil {
				return fmt.Errorf("replace templates for %s: %w", r.RuleCode, err)
			}
			res.Rules++
			res.Templates += len(fresh)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	s.log.Info("reference data seeded", "rules", res.Rules, "templates", res.Templates)
	return res, nil
}

// ApplyDefault seeds the embedded rule set.
func (s *Seeder) ApplyDefault(ctx context.Context) (Result, error) {
	rules, err := Default()
	if err != nil {
		return Result{}, err
	}
	return s.Apply(ctx, rules)
}
