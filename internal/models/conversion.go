package models

import (
	"time"

	"github.com/google/uuid"
)

// ConversionRecord is the append-only audit log of plan-to-task conversion
// attempts. Successful records double as the dedup guard: a plan whose
// fingerprint already has a success row is never converted again.
type ConversionRecord struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PlanID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"plan_id"`
	TaskID      *uuid.UUID `gorm:"type:uuid" json:"task_id"`
	Fingerprint string     `gorm:"size:100;index" json:"fingerprint"`
	ConvertedAt time.Time  `gorm:"not null" json:"converted_at"`
	Success     bool       `gorm:"default:false" json:"success"`
	Error       string     `gorm:"type:text" json:"error,omitempty"`
}

// PlanFingerprint identifies a plan revision for conversion dedup: the plan
// id plus its last update instant, so an edited plan becomes eligible again.
func PlanFingerprint(planID uuid.UUID, updatedAt time.Time) string {
	return planID.String() + "@" + updatedAt.UTC().Format(time.RFC3339Nano)
}
