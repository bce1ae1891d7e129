package seed

import (
	"context"
	"path/filepath"
	"sort"
	"testing"

	"taxclarity/internal/database"
	"taxclarity/internal/logger"
	"taxclarity/internal/model"
	"taxclarity/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_CoversEveryIncomeForEveryWorkType(t *testing.T) {
	rules, err := Default()
	require.NoError(t, err)

	for _, wt := range model.WorkTypes {
		var brackets []model.TaxRule
		for _, r := range rules {
			for _, a := range r.AppliesTo {
				if a == wt {
					brackets = append(brackets, r)
				}
			}
		}
		require.NotEmpty(t, brackets, wt)
		sort.Slice(brackets, func(i, j int) bool { return brackets[i].IncomeMin < brackets[j].IncomeMin })

		assert.Equal(t, int64(0), brackets[0].IncomeMin, wt)
		for i := 1; i < len(brackets); i++ {
			assert.Equal(t, brackets[i-1].IncomeMax+1, brackets[i].IncomeMin,
				"%s: gap or overlap between %s and %s", wt, brackets[i-1].RuleCode, brackets[i].RuleCode)
		}
		last := model.IncomeRanges[len(model.IncomeRanges)-1]
		assert.GreaterOrEqual(t, brackets[len(brackets)-1].IncomeMax, last.Max, wt)
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"empty":         "rules: []",
		"reserved code": "rules:\n  - {code: DEFAULT, applies_to: [freelancer], income_min: 0, income_max: 1, tax_rate: '0', exemption: exempt}",
		"bad work type": "rules:\n  - {code: X, applies_to: [pilot], income_min: 0, income_max: 1, tax_rate: '0', exemption: exempt}",
		"inverted":      "rules:\n  - {code: X, applies_to: [freelancer], income_min: 5, income_max: 1, tax_rate: '0', exemption: exempt}",
		"exempt rate":   "rules:\n  - {code: X, applies_to: [freelancer], income_min: 0, income_max: 1, tax_rate: '7.5', exemption: exempt}",
		"bad priority":  "rules:\n  - {code: X, applies_to: [freelancer], income_min: 0, income_max: 1, tax_rate: '0', exemption: exempt, templates: [{title: T, priority: urgent, due_in_days: 1}]}",
		"duplicate": "rules:\n" +
			"  - {code: X, applies_to: [freelancer], income_min: 0, income_max: 1, tax_rate: '0', exemption: exempt}\n" +
			"  - {code: X, applies_to: [freelancer], income_min: 2, income_max: 3, tax_rate: '0', exemption: exempt}",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestSeeder_ApplyIsIdempotent(t *testing.T) {
	db, err := database.NewConnection("sqlite", filepath.Join(t.TempDir(), "seed.db"), logger.Nop())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	rulesRepo := repository.NewTaxRuleRepository(db)
	s := NewSeeder(repository.NewTransactionManager(db), rulesRepo, repository.NewActionItemTemplateRepository(db), logger.Nop())
	ctx := context.Background()

	first, err := s.ApplyDefault(ctx)
	require.NoError(t, err)
	second, err := s.ApplyDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var ruleCount, templateCount int64
	require.NoError(t, db.Model(&model.TaxRule{}).Count(&ruleCount).Error)
	require.NoError(t, db.Model(&model.ActionItemTemplate{}).Count(&templateCount).Error)
	assert.Equal(t, int64(first.Rules), ruleCount)
	assert.Equal(t, int64(first.Templates), templateCount)

	stored, err := rulesRepo.ListActiveWithTemplates(ctx)
	require.NoError(t, err)
	for _, r := range stored {
		for i, tpl := range r.Templates {
			assert.Equal(t, i, tpl.SortOrder, r.RuleCode)
		}
	}
}
