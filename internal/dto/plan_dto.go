package dto

import "github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/models"

type CreatePlanRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Type         string   `json:"type"`
	Priority     string   `json:"priority"`
	StartDate    string   `json:"start_date"` // YYYY-MM-DD
	EndDate      string   `json:"end_date"`
	StartTime    string   `json:"start_time"` // HH:MM
	EndTime      string   `json:"end_time"`
	Location     string   `json:"location"`
	Participants []string `json:"participants"`
	Notes        string   `json:"notes"`
}

type UpdatePlanRequest struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Type         *string   `json:"type"`
	Status       *string   `json:"status"`
	Priority     *string   `json:"priority"`
	StartDate    *string   `json:"start_date"`
	EndDate      *string   `json:"end_date"`
	StartTime    *string   `json:"start_time"`
	EndTime      *string   `json:"end_time"`
	Location     *string   `json:"location"`
	Participants *[]string `json:"participants"`
	Notes        *string   `json:"notes"`
}

type PlanListResponse struct {
	Success bool          `json:"success"`
	Data    []models.Plan `json:"data"`
	Total   int           `json:"total"`
}

type PlanResponse struct {
	Success bool         `json:"success"`
	Data    *models.Plan `json:"data"`
}

type SyncReportResponse struct {
	Success bool   `json:"success"`
	Scanned int    `json:"scanned"`
	Skipped int    `json:"skipped"`
	Done    int    `json:"converted"`
	Failed  int    `json:"failed"`
	Message string `json:"message,omitempty"`
}
