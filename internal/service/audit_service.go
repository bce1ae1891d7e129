package service

import (
	"context"
	"time"

	"taxclarity/internal/apperr"
	"taxclarity/internal/model"
	"taxclarity/internal/repository"

	"github.com/google/uuid"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

// AuditService exposes a user's own activity trail.
type AuditService interface {
	ListForUser(ctx context.Context, userID uuid.UUID, action string, page, limit int) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	audit repository.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(audit repository.AuditRepository) AuditService {
	return &auditService{audit: audit}
}

// ListForUser pages through the caller's entries, optionally narrowed to one action.
func (s *auditService) ListForUser(ctx context.Context, userID uuid.UUID, action string, page, limit int) ([]AuditLogResponse, int64, error) {
	if userID == uuid.Nil {
		return nil, 0, apperr.Unauthenticated("missing user identity")
	}
	if action != "" && !model.IsAuditAction(action) {
		return nil, 0, apperr.Validation("unknown action: " + action)
	}
	logs, total, err := s.audit.List(ctx, repository.AuditFilter{
		UserID: userID,
		Action: action,
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		return nil, 0, apperr.Storage("fetch audit logs", err)
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		res = append(res, AuditLogResponse{
			ID:         l.ID.String(),
			Action:     l.Action,
			EntityID:   l.EntityID,
			EntityName: l.EntityName,
			Details:    l.Details,
			CreatedAt:  l.CreatedAt.Format(time.RFC3339),
		})
	}
	return res, total, nil
}
