package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PlanType string

const (
	PlanTypeMeeting       PlanType = "meeting"
	PlanTypeSiteVisit     PlanType = "site_visit"
	PlanTypeReport        PlanType = "report"
	PlanTypeTraining      PlanType = "training"
	PlanTypeClientMeeting PlanType = "client_meeting"
	PlanTypeOther         PlanType = "other"
)

type PlanStatus string

const (
	PlanStatusPending    PlanStatus = "pending"
	PlanStatusInProgress PlanStatus = "in_progress"
	PlanStatusCompleted  PlanStatus = "completed"
	// PlanStatusOverdue is derived, never written by user input. It is
	// recomputed from the schedule on every read.
	PlanStatusOverdue PlanStatus = "overdue"
)

type PlanPriority string

const (
	PlanPriorityHigh   PlanPriority = "high"
	PlanPriorityMedium PlanPriority = "medium"
	PlanPriorityLow    PlanPriority = "low"
)

// Plan is a scheduled personal intention that may later be converted into an
// actionable Task by the sync service.
type Plan struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Type         PlanType       `gorm:"size:30;default:'other'" json:"type"`
	Status       PlanStatus     `gorm:"size:20;default:'pending'" json:"status"`
	Priority     PlanPriority   `gorm:"size:10;default:'medium'" json:"priority"`
	StartDate    time.Time      `gorm:"index" json:"start_date"`
	EndDate      time.Time      `json:"end_date"`
	StartTime    string         `gorm:"size:5" json:"start_time"`
	EndTime      string         `gorm:"size:5" json:"end_time"`
	Location     string         `gorm:"size:255" json:"location"`
	Participants datatypes.JSON `json:"participants"`
	Notes        string         `gorm:"type:text" json:"notes"`
	Creator      string         `gorm:"size:255" json:"creator"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// StartsAt combines StartDate with the optional HH:MM StartTime.
func (p *Plan) StartsAt() time.Time {
	return CombineDateTime(p.StartDate, p.StartTime, 0, 0)
}

// EndsAt combines EndDate with the optional HH:MM EndTime. A plan with no
// end time runs to the end of its end date.
func (p *Plan) EndsAt() time.Time {
	return CombineDateTime(p.EndDate, p.EndTime, 23, 59)
}

// CombineDateTime anchors an HH:MM string onto a date. Malformed or empty
// time strings fall back to the given default hour and minute.
func CombineDateTime(date time.Time, hhmm string, defHour, defMin int) time.Time {
	hour, min := defHour, defMin
	if parts := strings.SplitN(hhmm, ":", 2); len(parts) == 2 {
		h, errH := strconv.Atoi(parts[0])
		m, errM := strconv.Atoi(parts[1])
		if errH == nil && errM == nil && h >= 0 && h <= 23 && m >= 0 && m <= 59 {
			hour, min = h, m
		}
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, min, 0, 0, date.Location())
}
