package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"taxclarity/internal/apperr"
	"taxclarity/internal/logger"
	"taxclarity/internal/model"
	"taxclarity/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

// ProfileInput is the questionnaire submission.
type ProfileInput struct {
	WorkType  string `json:"work_type" binding:"required,oneof=salary_earner freelancer small_business"`
	IncomeMin *int64 `json:"income_min" binding:"required,min=0"`
	IncomeMax *int64 `json:"income_max" binding:"required,min=0"`
	Location  string `json:"location" binding:"required"`
}

// Validate re-checks the input independently of gin binding so non-HTTP callers
// get the same rules.
func (in ProfileInput) Validate() error {
	var missing []string
	if strings.TrimSpace(in.WorkType) == "" {
		missing = append(missing, "work_type")
	}
	if in.IncomeMin == nil {
		missing = append(missing, "income_min")
	}
	if in.IncomeMax == nil {
		missing = append(missing, "income_max")
	}
	if strings.TrimSpace(in.Location) == "" {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return apperr.Validation("missing required fields: " + strings.Join(missing, ", "))
	}

	if !model.IsWorkType(in.WorkType) {
		return apperr.Validation(fmt.Sprintf("invalid work_type %q", in.WorkType))
	}
	if *in.IncomeMin < 0 || *in.IncomeMax < 0 {
		return apperr.Validation("income bounds must not be negative")
	}
	if *in.IncomeMin > *in.IncomeMax {
		return apperr.Validation("income_min must not exceed income_max")
	}
	if !model.IsState(strings.TrimSpace(in.Location)) {
		return apperr.Validation(fmt.Sprintf("unknown location %q", in.Location))
	}
	return nil
}

func (in ProfileInput) toModel(userID uuid.UUID) model.TaxProfile {
	return model.TaxProfile{
		UserID:         userID,
		WorkType:       in.WorkType,
		IncomeRangeMin: *in.IncomeMin,
		IncomeRangeMax: *in.IncomeMax,
		Location:       strings.TrimSpace(in.Location),
	}
}

// --- Interface ---

type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (model.TaxProfile, error)
	Save(ctx context.Context, userID uuid.UUID, in ProfileInput) (model.TaxProfile, error)
}

type profileService struct {
	txManager repository.TransactionManager
	profiles  repository.TaxProfileRepository
	audit     repository.AuditRepository
	log       *logger.Logger
}

func NewProfileService(txManager repository.TransactionManager, profiles repository.TaxProfileRepository, audit repository.AuditRepository, log *logger.Logger) ProfileService {
	return &profileService{
		txManager: txManager,
		profiles:  profiles,
		audit:     audit,
		log:       log.With("service", "ProfileService"),
	}
}

// --- Implementation ---

func (s *profileService) Get(ctx context.Context, userID uuid.UUID) (model.TaxProfile, error) {
	if userID == uuid.Nil {
		return model.TaxProfile{}, apperr.Unauthenticated("missing user identity")
	}
	p, err := s.profiles.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.TaxProfile{}, apperr.NotFound("tax profile not found")
		}
		return model.TaxProfile{}, apperr.Storage("fetch tax profile", err)
	}
	return *p, nil
}

// Save validates and upserts the user's single profile row.
func (s *profileService) Save(ctx context.Context, userID uuid.UUID, in ProfileInput) (model.TaxProfile, error) {
	if userID == uuid.Nil {
		return model.TaxProfile{}, apperr.Unauthenticated("missing user identity")
	}
	if err := in.Validate(); err != nil {
		return model.TaxProfile{}, err
	}

	profile := in.toModel(userID)
	save := func(ctx context.Context) error {
		if err := s.profiles.Upsert(ctx, &profile); err != nil {
			return fmt.Errorf("upsert tax profile: %w", err)
		}
		if s.audit == nil {
			return nil
		}
		details, _ := json.Marshal(map[string]interface{}{
			"work_type":  profile.WorkType,
			"income_min": profile.IncomeRangeMin,
			"income_max": profile.IncomeRangeMax,
			"location":   profile.Location,
		})
		uid := userID
		if err := s.audit.Log(ctx, &model.AuditLog{
			UserID:     &uid,
			Action:     model.ActionSaveTaxProfile,
			EntityID:   profile.ID.String(),
			EntityName: profile.WorkType,
			Details:    string(details),
		}); err != nil {
			return fmt.Errorf("write audit log: %w", err)
		}
		return nil
	}

	var err error
	if s.txManager != nil {
		err = s.txManager.RunInTx(ctx, save)
	} else {
		err = save(ctx)
	}
	if err != nil {
		return model.TaxProfile{}, apperr.Storage("save tax profile", err)
	}

	s.log.Info("tax profile saved", "user_id", userID, "work_type", profile.WorkType, "location", profile.Location)
	return profile, nil
}
