package dto

import (
	"time"

	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/models"
)

type CreateTaskRequest struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Type             string   `json:"type"`
	Status           string   `json:"status"`
	Priority         string   `json:"priority"`
	Date             string   `json:"date"` // YYYY-MM-DD
	Time             string   `json:"time"` // HH:MM
	Progress         *int     `json:"progress"`
	AssignedTo       string   `json:"assigned_to"`
	TeamID           string   `json:"team_id"`
	Location         string   `json:"location"`
	IsShared         bool     `json:"is_shared"`
	IsSharedWithTeam bool     `json:"is_shared_with_team"`
	ExtraAssignees   []string `json:"extra_assignees"`
}

// UpdateTaskRequest uses pointer fields so a partial update only touches the
// fields the caller sent.
type UpdateTaskRequest struct {
	Title            *string   `json:"title"`
	Description      *string   `json:"description"`
	Type             *string   `json:"type"`
	Status           *string   `json:"status"`
	Priority         *string   `json:"priority"`
	Date             *string   `json:"date"`
	Time             *string   `json:"time"`
	Progress         *int      `json:"progress"`
	AssignedTo       *string   `json:"assigned_to"`
	Location         *string   `json:"location"`
	IsShared         *bool     `json:"is_shared"`
	IsSharedWithTeam *bool     `json:"is_shared_with_team"`
	ExtraAssignees   *[]string `json:"extra_assignees"`
}

// TaskFilterRequest carries the business filters applied after visibility
// filtering and sorting.
type TaskFilterRequest struct {
	Status      string
	From        *time.Time
	To          *time.Time
	MinProgress *int
}

type TaskListResponse struct {
	Success bool          `json:"success"`
	Data    []models.Task `json:"data"`
	Total   int           `json:"total"`
}

type TaskResponse struct {
	Success bool         `json:"success"`
	Data    *models.Task `json:"data"`
}

type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
