package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Platform enum constants
const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
)

// Notification delivery status
const (
	NotificationSent = "sent"
)

// NotificationDevice is a push-capable device registered by a user.
type NotificationDevice struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	PlayerID  string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"player_id"` // push provider subscription id
	Platform  string    `gorm:"type:varchar(10);not null" json:"platform"`
	Active    bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *NotificationDevice) BeforeCreate(_ *gorm.DB) error {
	ensureID(&d.ID)
	return nil
}

// NotificationHistory records each dispatched notification.
type NotificationHistory struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	ActionItemID *uuid.UUID     `gorm:"type:uuid;index" json:"action_item_id"`
	Title        string         `gorm:"type:varchar(255);not null" json:"title"`
	Body         string         `gorm:"type:text" json:"body"`
	Status       string         `gorm:"type:varchar(20);not null" json:"status"`
	Data         datatypes.JSON `json:"data"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
}

func (h *NotificationHistory) BeforeCreate(_ *gorm.DB) error {
	ensureID(&h.ID)
	return nil
}

// TableName keeps the singular table name used by the mobile client.
func (NotificationHistory) TableName() string {
	return "notification_history"
}
