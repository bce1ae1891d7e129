package service

import (
	"context"

	"taxclarity/internal/apperr"
	"taxclarity/internal/lock"
	"taxclarity/internal/logger"
	"taxclarity/internal/model"

	"github.com/google/uuid"
)

// --- DTOs ---

type TaxCheckResponse struct {
	Profile     model.TaxProfile       `json:"profile"`
	Rule        model.TaxRule          `json:"rule"`
	ActionItems []model.UserActionItem `json:"action_items"`
}

// --- Interface ---

// TaxCheckService is the questionnaire entry point: save the profile, match a
// rule, and regenerate the checklist.
type TaxCheckService interface {
	Check(ctx context.Context, userID uuid.UUID, in ProfileInput) (TaxCheckResponse, error)
	Current(ctx context.Context, userID uuid.UUID) (TaxCheckResponse, error)
}

type taxCheckService struct {
	profiles  ProfileService
	matcher   RuleMatcher
	checklist ChecklistService
	locker    lock.Locker
	log       *logger.Logger
}

// NewTaxCheckService wires the pipeline. locker may be nil, in which case
// concurrent submissions for one user are not serialized.
func NewTaxCheckService(profiles ProfileService, matcher RuleMatcher, checklist ChecklistService, locker lock.Locker, log *logger.Logger) TaxCheckService {
	return &taxCheckService{
		profiles:  profiles,
		matcher:   matcher,
		checklist: checklist,
		locker:    locker,
		log:       log.With("service", "TaxCheckService"),
	}
}

// --- Implementation ---

func (s *taxCheckService) Check(ctx context.Context, userID uuid.UUID, in ProfileInput) (TaxCheckResponse, error) {
	if userID == uuid.Nil {
		return TaxCheckResponse{}, apperr.Unauthenticated("missing user identity")
	}
	if err := in.Validate(); err != nil {
		return TaxCheckResponse{}, err
	}

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, "tax-check:"+userID.String())
		if err != nil {
			return TaxCheckResponse{}, apperr.Storage("acquire user lock", err)
		}
		defer unlock()
	}

	profile, err := s.profiles.Save(ctx, userID, in)
	if err != nil {
		return TaxCheckResponse{}, err
	}

	rule, err := s.matcher.Match(ctx, profile)
	if err != nil {
		return TaxCheckResponse{}, err
	}

	items, err := s.checklist.Generate(ctx, userID, rule)
	if err != nil {
		return TaxCheckResponse{}, err
	}

	s.log.Info("tax check completed",
		"user_id", userID,
		"rule_code", rule.RuleCode,
		"default_rule", rule.IsDefault,
		"items", len(items),
	)
	return TaxCheckResponse{Profile: profile, Rule: rule, ActionItems: items}, nil
}

// Current re-matches the stored profile and returns it with the existing checklist.
func (s *taxCheckService) Current(ctx context.Context, userID uuid.UUID) (TaxCheckResponse, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return TaxCheckResponse{}, err
	}
	rule, err := s.matcher.Match(ctx, profile)
	if err != nil {
		return TaxCheckResponse{}, err
	}
	list, err := s.checklist.List(ctx, userID)
	if err != nil {
		return TaxCheckResponse{}, err
	}
	return TaxCheckResponse{Profile: profile, Rule: rule, ActionItems: list.Items}, nil
}
