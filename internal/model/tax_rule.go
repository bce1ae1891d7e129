package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExemptionStatus enum constants
const (
	ExemptionExempt  = "exempt"
	ExemptionTaxable = "taxable"
)

// Priority enum constants
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// DefaultRuleCode identifies the in-memory fallback rule.
const DefaultRuleCode = "DEFAULT"

// TaxRule is reference data: who a rule applies to (work types, income bracket)
// and what it means for them (rate, exemption, obligations).
type TaxRule struct {
	ID              uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	RuleCode        string               `gorm:"type:varchar(50);uniqueIndex;not null" json:"rule_code"`
	AppliesTo       StringList           `gorm:"not null" json:"applies_to"`
	IncomeMin       int64                `gorm:"not null;index" json:"income_min"`
	IncomeMax       int64                `gorm:"not null" json:"income_max"`
	TaxRate         decimal.Decimal      `gorm:"type:decimal(5,2);not null;default:0" json:"tax_rate"` // percentage, e.g. 15 = 15%
	ExemptionStatus string               `gorm:"type:varchar(10);not null" json:"exemption_status"`
	Title           string               `gorm:"type:varchar(255);not null" json:"title"`
	Explanation     string               `gorm:"type:text" json:"explanation"`
	Obligations     StringList           `json:"obligations"`
	Active          bool                 `gorm:"not null;default:true;index" json:"active"`
	IsDefault       bool                 `gorm:"-" json:"is_default"` // synthetic fallback, never persisted
	Templates       []ActionItemTemplate `gorm:"foreignKey:TaxRuleID;constraint:OnDelete:CASCADE" json:"templates,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

func (r *TaxRule) BeforeCreate(_ *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

// Covers reports whether income falls within the rule's bracket (inclusive).
func (r TaxRule) Covers(income int64) bool {
	return income >= r.IncomeMin && income <= r.IncomeMax
}

// ActionItemTemplate is the blueprint for one checklist item of a rule.
type ActionItemTemplate struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TaxRuleID   uuid.UUID `gorm:"type:uuid;not null;index" json:"tax_rule_id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Priority    string    `gorm:"type:varchar(10);not null" json:"priority"`
	DueInDays   int       `gorm:"not null" json:"due_in_days"`
	SortOrder   int       `gorm:"not null;default:0" json:"sort_order"`
}

func (t *ActionItemTemplate) BeforeCreate(_ *gorm.DB) error {
	ensureID(&t.ID)
	return nil
}
