package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionSaveTaxProfile    = "SAVE_TAX_PROFILE"
	ActionGenerateChecklist = "GENERATE_CHECKLIST"
	ActionToggleActionItem  = "TOGGLE_ACTION_ITEM"
	ActionRegisterDevice    = "REGISTER_DEVICE"
	ActionDeactivateDevice  = "DEACTIVATE_DEVICE"
)

// IsAuditAction reports whether action is one of the recorded action names.
func IsAuditAction(action string) bool {
	switch action {
	case ActionSaveTaxProfile, ActionGenerateChecklist, ActionToggleActionItem, ActionRegisterDevice, ActionDeactivateDevice:
		return true
	}
	return false
}

// AuditLog tracks Who, What, and When for user-initiated state changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable for batch jobs
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:text" json:"details"` // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(_ *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
