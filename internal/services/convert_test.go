package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestPlanToTask(t *testing.T) {
	actingUser := uuid.New()
	owner := uuid.New()
	today := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	t.Run("client meeting falls back to other category", func(t *testing.T) {
		plan := models.Plan{
			ID:        uuid.New(),
			UserID:    owner,
			Title:     "Quarterly review with client",
			Type:      models.PlanTypeClientMeeting,
			Status:    models.PlanStatusPending,
			Priority:  models.PlanPriorityHigh,
			StartDate: today,
			StartTime: "09:00",
		}

		task := PlanToTask(plan, actingUser)

		assert.Equal(t, models.TaskTypeOther, task.Type)
		assert.Equal(t, models.TaskStatusTodo, task.Status)
		assert.Equal(t, models.TaskPriorityHigh, task.Priority)
		assert.Equal(t, today, task.Date)
		assert.Equal(t, "09:00", task.Time)
		assert.Equal(t, 0, task.Progress)
		assert.True(t, task.IsNew)
		assert.Equal(t, actingUser, task.AssignedTo)
		assert.Equal(t, owner, task.UserID)
	})

	t.Run("direct type mappings", func(t *testing.T) {
		tests := []struct {
			planType models.PlanType
			want     models.TaskType
		}{
			{models.PlanTypeMeeting, models.TaskTypeMeeting},
			{models.PlanTypeSiteVisit, models.TaskTypeSiteVisit},
			{models.PlanTypeReport, models.TaskTypeReport},
			{models.PlanTypeTraining, models.TaskTypeTraining},
			{models.PlanTypeOther, models.TaskTypeOther},
			{models.PlanType("unknown"), models.TaskTypeOther},
		}
		for _, tt := range tests {
			task := PlanToTask(models.Plan{Type: tt.planType}, actingUser)
			assert.Equal(t, tt.want, task.Type, "plan type %s", tt.planType)
		}
	})

	t.Run("status mappings", func(t *testing.T) {
		tests := []struct {
			planStatus models.PlanStatus
			want       models.TaskStatus
		}{
			{models.PlanStatusPending, models.TaskStatusTodo},
			{models.PlanStatusInProgress, models.TaskStatusInProgress},
			{models.PlanStatusCompleted, models.TaskStatusCompleted},
			{models.PlanStatusOverdue, models.TaskStatusTodo},
			{models.PlanStatus("bogus"), models.TaskStatusTodo},
		}
		for _, tt := range tests {
			task := PlanToTask(models.Plan{Status: tt.planStatus}, actingUser)
			assert.Equal(t, tt.want, task.Status, "plan status %s", tt.planStatus)
		}
	})

	t.Run("medium priority maps to normal", func(t *testing.T) {
		task := PlanToTask(models.Plan{Priority: models.PlanPriorityMedium}, actingUser)
		assert.Equal(t, models.TaskPriorityNormal, task.Priority)

		task = PlanToTask(models.Plan{Priority: models.PlanPriority("")}, actingUser)
		assert.Equal(t, models.TaskPriorityNormal, task.Priority)

		task = PlanToTask(models.Plan{Priority: models.PlanPriorityLow}, actingUser)
		assert.Equal(t, models.TaskPriorityLow, task.Priority)
	})
}

func TestTaskToPlan(t *testing.T) {
	owner := uuid.New()
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	task := models.Task{
		Title:    "Site inspection",
		Type:     models.TaskTypeSiteVisit,
		Status:   models.TaskStatusInProgress,
		Priority: models.TaskPriorityUrgent,
		Date:     date,
		Time:     "14:30",
	}

	plan := TaskToPlan(task, owner)

	assert.Equal(t, owner, plan.UserID)
	assert.Equal(t, models.PlanTypeSiteVisit, plan.Type)
	assert.Equal(t, models.PlanStatusInProgress, plan.Status)
	assert.Equal(t, models.PlanPriorityHigh, plan.Priority)
	assert.Equal(t, date, plan.StartDate)
	assert.Equal(t, "14:30", plan.StartTime)
}
