package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"taxclarity/internal/apperr"
	"taxclarity/internal/events"
	"taxclarity/internal/logger"
	"taxclarity/internal/model"
	"taxclarity/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type ChecklistResponse struct {
	Items     []model.UserActionItem `json:"items"`
	Total     int                    `json:"total"`
	Completed int                    `json:"completed"`
}

type SetCompletedRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// --- Interface ---

type ChecklistService interface {
	Generate(ctx context.Context, userID uuid.UUID, rule model.TaxRule) ([]model.UserActionItem, error)
	List(ctx context.Context, userID uuid.UUID) (ChecklistResponse, error)
	SetCompleted(ctx context.Context, userID, itemID uuid.UUID, completed bool) (model.UserActionItem, error)
}

type checklistService struct {
	txManager repository.TransactionManager
	templates repository.ActionItemTemplateRepository
	items     repository.ActionItemRepository
	audit     repository.AuditRepository
	bus       events.Bus
	clock     Clock
	log       *logger.Logger
}

// NewChecklistService wires the generator. txManager, audit and bus may be nil:
// without a transaction manager the delete and insert run as separate writes and
// a failed insert is reported as a partial failure.
func NewChecklistService(
	txManager repository.TransactionManager,
	templates repository.ActionItemTemplateRepository,
	items repository.ActionItemRepository,
	audit repository.AuditRepository,
	bus events.Bus,
	clock Clock,
	log *logger.Logger,
) ChecklistService {
	return &checklistService{
		txManager: txManager,
		templates: templates,
		items:     items,
		audit:     audit,
		bus:       bus,
		clock:     clock,
		log:       log.With("service", "ChecklistService"),
	}
}

// --- Implementation ---

// Generate replaces the user's checklist with items built from the rule's templates.
// A rule without templates (including the synthetic default) leaves the existing
// checklist untouched and yields an empty result.
func (s *checklistService) Generate(ctx context.Context, userID uuid.UUID, rule model.TaxRule) ([]model.UserActionItem, error) {
	if userID == uuid.Nil {
		return nil, apperr.Unauthenticated("missing user identity")
	}
	if rule.IsDefault || rule.ID == uuid.Nil {
		return []model.UserActionItem{}, nil
	}

	templates, err := s.templates.ListByRule(ctx, rule.ID)
	if err != nil {
		return nil, apperr.Storage("fetch action item templates", err)
	}
	if len(templates) == 0 {
		s.log.Info("rule has no templates, keeping existing checklist", "user_id", userID, "rule_code", rule.RuleCode)
		return []model.UserActionItem{}, nil
	}

	items := BuildActionItems(userID, rule.ID, templates, s.clock.Today())

	if s.txManager != nil {
		err = s.txManager.RunInTxLocked(ctx, "checklist:"+userID.String(), func(txCtx context.Context) error {
			if err := s.items.DeleteByUser(txCtx, userID); err != nil {
				return fmt.Errorf("delete action items: %w", err)
			}
			if err := s.items.CreateBatch(txCtx, items); err != nil {
				return fmt.Errorf("insert action items: %w", err)
			}
			return s.writeAudit(txCtx, userID, rule, len(items))
		})
		if err != nil {
			return nil, apperr.Storage("replace checklist", err)
		}
	} else {
		if err := s.items.DeleteByUser(ctx, userID); err != nil {
			return nil, apperr.Storage("delete action items", err)
		}
		if err := s.items.CreateBatch(ctx, items); err != nil {
			s.log.Error("checklist insert failed after delete", "user_id", userID, "rule_code", rule.RuleCode, "error", err)
			return nil, apperr.PartialFailure(err)
		}
		if err := s.writeAudit(ctx, userID, rule, len(items)); err != nil {
			s.log.Warn("failed to write audit log", "user_id", userID, "error", err)
		}
	}

	ruleID := rule.ID
	s.publish(ctx, events.ChecklistEvent{
		Type:      events.EventChecklistReplaced,
		UserID:    userID,
		RuleID:    &ruleID,
		ItemCount: len(items),
	})

	s.log.Info("checklist generated", "user_id", userID, "rule_code", rule.RuleCode, "items", len(items))
	return items, nil
}

// BuildActionItems materializes templates into items due today + due-in-days,
// preserving the templates' order.
func BuildActionItems(userID, ruleID uuid.UUID, templates []model.ActionItemTemplate, today model.Date) []model.UserActionItem {
	items := make([]model.UserActionItem, 0, len(templates))
	for _, t := range templates {
		items = append(items, model.UserActionItem{
			UserID:      userID,
			TaxRuleID:   ruleID,
			Title:       t.Title,
			Description: t.Description,
			Priority:    t.Priority,
			DueDate:     today.AddDays(t.DueInDays),
			Completed:   false,
			CompletedAt: nil,
		})
	}
	return items
}

func (s *checklistService) List(ctx context.Context, userID uuid.UUID) (ChecklistResponse, error) {
	if userID == uuid.Nil {
		return ChecklistResponse{}, apperr.Unauthenticated("missing user identity")
	}
	items, err := s.items.ListByUser(ctx, userID)
	if err != nil {
		return ChecklistResponse{}, apperr.Storage("fetch action items", err)
	}

	res := ChecklistResponse{Items: items, Total: len(items)}
	if res.Items == nil {
		res.Items = []model.UserActionItem{}
	}
	for _, it := range items {
		if it.Completed {
			res.Completed++
		}
	}
	return res, nil
}

// SetCompleted toggles completion on one of the user's items. completed_at is
// stamped when completing and cleared when reopening.
func (s *checklistService) SetCompleted(ctx context.Context, userID, itemID uuid.UUID, completed bool) (model.UserActionItem, error) {
	if userID == uuid.Nil {
		return model.UserActionItem{}, apperr.Unauthenticated("missing user identity")
	}

	var completedAt *time.Time
	if completed {
		now := s.clock.Now().UTC()
		completedAt = &now
	}

	var item *model.UserActionItem
	update := func(ctx context.Context) error {
		found, err := s.items.SetCompleted(ctx, itemID, userID, completed, completedAt)
		if err != nil {
			return apperr.Storage("update action item", err)
		}
		if !found {
			return apperr.NotFound("action item not found")
		}
		item, err = s.items.FindByIDForUser(ctx, itemID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("action item not found")
			}
			return apperr.Storage("reload action item", err)
		}
		if s.audit == nil {
			return nil
		}
		details, _ := json.Marshal(map[string]interface{}{"completed": completed})
		uid := userID
		if err := s.audit.Log(ctx, &model.AuditLog{
			UserID:     &uid,
			Action:     model.ActionToggleActionItem,
			EntityID:   itemID.String(),
			EntityName: item.Title,
			Details:    string(details),
		}); err != nil {
			return apperr.Storage("write audit log", err)
		}
		return nil
	}

	var err error
	if s.txManager != nil {
		err = s.txManager.RunInTx(ctx, update)
	} else {
		err = update(ctx)
	}
	if err != nil {
		return model.UserActionItem{}, err
	}

	id := itemID
	s.publish(ctx, events.ChecklistEvent{
		Type:         events.EventActionItemUpdated,
		UserID:       userID,
		ActionItemID: &id,
	})
	return *item, nil
}

func (s *checklistService) writeAudit(ctx context.Context, userID uuid.UUID, rule model.TaxRule, count int) error {
	if s.audit == nil {
		return nil
	}
	details, _ := json.Marshal(map[string]interface{}{
		"rule_code":  rule.RuleCode,
		"item_count": count,
	})
	uid := userID
	if err := s.audit.Log(ctx, &model.AuditLog{
		UserID:     &uid,
		Action:     model.ActionGenerateChecklist,
		EntityID:   rule.ID.String(),
		EntityName: rule.RuleCode,
		Details:    string(details),
	}); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

// publish is fire-and-forget: the write has already committed.
func (s *checklistService) publish(ctx context.Context, ev events.ChecklistEvent) {
	if s.bus == nil {
		return
	}
	ev.OccurredAt = s.clock.Now().UTC()
	if err := s.bus.Publish(ctx, ev); err != nil {
		s.log.Warn("failed to publish checklist event", "user_id", ev.UserID, "type", ev.Type, "error", err)
	}
}
