package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventChecklistReplaced = "checklist.replaced"
	EventActionItemUpdated = "action_item.updated"
)

// ChecklistEvent tells a user's connected clients that their checklist changed.
type ChecklistEvent struct {
	Type         string     `json:"type"`
	UserID       uuid.UUID  `json:"user_id"`
	RuleID       *uuid.UUID `json:"rule_id,omitempty"`
	ActionItemID *uuid.UUID `json:"action_item_id,omitempty"`
	ItemCount    int        `json:"item_count,omitempty"`
	OccurredAt   time.Time  `json:"occurred_at"`
}

// Bus carries checklist events from services to the realtime hub.
type Bus interface {
	Publish(ctx context.Context, ev ChecklistEvent) error
	StartForwarder(ctx context.Context, onEvent func(ev ChecklistEvent)) error
	Close() error
}
