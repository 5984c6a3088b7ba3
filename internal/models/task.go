package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TaskType string

const (
	TaskTypeMeeting   TaskType = "meeting"
	TaskTypeSiteVisit TaskType = "site_visit"
	TaskTypeReport    TaskType = "report"
	TaskTypeTraining  TaskType = "training"
	TaskTypeOther     TaskType = "other"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusOnHold     TaskStatus = "on-hold"
	TaskStatusCompleted  TaskStatus = "completed"
)

type TaskPriority string

const (
	TaskPriorityUrgent TaskPriority = "urgent"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityNormal TaskPriority = "normal"
	TaskPriorityLow    TaskPriority = "low"
)

// PriorityWeight ranks priorities for sorting. Unrecognized values rank as
// normal.
func PriorityWeight(p TaskPriority) int {
	switch p {
	case TaskPriorityUrgent:
		return 4
	case TaskPriorityHigh:
		return 3
	case TaskPriorityLow:
		return 1
	default:
		return 2
	}
}

// Task is an actionable, assignable unit of work. AssignedTo and UserID are
// independent: a task may be created by one user and executed by another,
// and visibility rules consider both.
type Task struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title            string         `gorm:"size:255;not null" json:"title"`
	Description      string         `gorm:"type:text" json:"description"`
	Type             TaskType       `gorm:"size:30;default:'other'" json:"type"`
	Status           TaskStatus     `gorm:"size:20;default:'todo'" json:"status"`
	Priority         TaskPriority   `gorm:"size:10;default:'normal'" json:"priority"`
	Date             time.Time      `gorm:"index" json:"date"`
	Time             string         `gorm:"size:5" json:"time"`
	Progress         int            `gorm:"default:0" json:"progress"`
	AssignedTo       uuid.UUID      `gorm:"type:uuid;index" json:"assigned_to"`
	UserID           uuid.UUID      `gorm:"type:uuid;index" json:"user_id"`
	UserName         string         `gorm:"size:255" json:"user_name"`
	TeamID           *uuid.UUID     `gorm:"type:uuid;index" json:"team_id"`
	Location         string         `gorm:"size:255" json:"location"`
	IsShared         bool           `gorm:"default:false" json:"is_shared"`
	IsSharedWithTeam bool           `gorm:"default:false" json:"is_shared_with_team"`
	IsNew            bool           `gorm:"default:false" json:"is_new"`
	ExtraAssignees   datatypes.JSON `json:"extra_assignees"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// LatestTouch is the task's most recent modification instant, falling back
// to the creation time when the task was never updated.
func (t *Task) LatestTouch() time.Time {
	if t.UpdatedAt.IsZero() {
		return t.CreatedAt
	}
	return t.UpdatedAt
}

// ExtraAssigneeIDs decodes the serialized extra-executor list. Malformed
// payloads decode as empty rather than failing the caller.
func (t *Task) ExtraAssigneeIDs() []uuid.UUID {
	if len(t.ExtraAssignees) == 0 {
		return nil
	}
	var raw []string
	if err := json.Unmarshal(t.ExtraAssignees, &raw); err != nil {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		if id, err := uuid.Parse(s); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// HasExtraAssignee reports whether the user appears in ExtraAssignees.
func (t *Task) HasExtraAssignee(userID uuid.UUID) bool {
	for _, id := range t.ExtraAssigneeIDs() {
		if id == userID {
			return true
		}
	}
	return false
}
