package service

import (
	"path/filepath"
	"testing"
	"time"

	"taxclarity/internal/database"
	"taxclarity/internal/logger"
	"taxclarity/internal/model"
	"taxclarity/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var lagos = mustLoadLocation("Africa/Lagos")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// fixedClock pins "now" to 10:00 Lagos time on the given date.
func fixedClock(y int, m time.Month, d int) Clock {
	now := time.Date(y, m, d, 10, 0, 0, 0, lagos)
	return NewClock(lagos, func() time.Time { return now })
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewConnection("sqlite", filepath.Join(t.TempDir(), "test.db"), logger.Nop())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// seedSalaryRule stores the 800k–3M salary earner rule with its two templates.
func seedSalaryRule(t *testing.T, db *gorm.DB) model.TaxRule {
	t.Helper()
	rule := model.TaxRule{
		RuleCode:        "PAYE_15",
		AppliesTo:       model.StringList{model.WorkTypeSalaryEarner},
		IncomeMin:       800000,
		IncomeMax:       3000000,
		TaxRate:         decimal.NewFromInt(15),
		ExemptionStatus: model.ExemptionTaxable,
		Title:           "15% band",
		Active:          true,
		Templates: []model.ActionItemTemplate{
			{Title: "Register with SIRS", Priority: model.PriorityHigh, DueInDays: 30, SortOrder: 1},
			{Title: "File first return", Priority: model.PriorityMedium, DueInDays: 90, SortOrder: 2},
		},
	}
	require.NoError(t, db.Create(&rule).Error)
	return rule
}

type testRepos struct {
	tx        repository.TransactionManager
	rules     repository.TaxRuleRepository
	templates repository.ActionItemTemplateRepository
	profiles  repository.TaxProfileRepository
	items     repository.ActionItemRepository
	devices   repository.DeviceRepository
	notes     repository.NotificationRepository
	audit     repository.AuditRepository
}

func newTestRepos(db *gorm.DB) testRepos {
	return testRepos{
		tx:        repository.NewTransactionManager(db),
		rules:     repository.NewTaxRuleRepository(db),
		templates: repository.NewActionItemTemplateRepository(db),
		profiles:  repository.NewTaxProfileRepository(db),
		items:     repository.NewActionItemRepository(db),
		devices:   repository.NewDeviceRepository(db),
		notes:     repository.NewNotificationRepository(db),
		audit:     repository.NewAuditRepository(db),
	}
}

func int64p(v int64) *int64 { return &v }

func countRows(t *testing.T, db *gorm.DB, m interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Where(query, args...).Count(&n).Error)
	return n
}
