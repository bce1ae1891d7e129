package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkType enum constants
const (
	WorkTypeSalaryEarner  = "salary_earner"
	WorkTypeFreelancer    = "freelancer"
	WorkTypeSmallBusiness = "small_business"
)

// TaxProfile holds the questionnaire answers. One row per user, overwritten in place.
type TaxProfile struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	WorkType       string    `gorm:"type:varchar(20);not null" json:"work_type"`
	IncomeRangeMin int64     `gorm:"not null" json:"income_range_min"`
	IncomeRangeMax int64     `gorm:"not null" json:"income_range_max"`
	Location       string    `gorm:"type:varchar(50);not null" json:"location"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (p *TaxProfile) BeforeCreate(_ *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
