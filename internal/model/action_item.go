package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserActionItem is a dated checklist task generated from a template.
// CompletedAt is set iff Completed is true.
type UserActionItem struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	TaxRuleID   uuid.UUID  `gorm:"type:uuid;not null" json:"tax_rule_id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Priority    string     `gorm:"type:varchar(10);not null" json:"priority"`
	DueDate     Date       `gorm:"not null;index" json:"due_date"`
	Completed   bool       `gorm:"not null;default:false;index" json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (i *UserActionItem) BeforeCreate(_ *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

// PriorityRank orders priorities high → medium → low; unknown values sort last.
func PriorityRank(p string) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}
