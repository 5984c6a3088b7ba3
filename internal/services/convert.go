package services

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/models"
)

// taskTypeByPlanType is the exhaustive plan→task category mapping. Plan types
// without a business category of their own convert as "other"; the fallback
// is logged so silent drift into the catch-all bucket stays visible.
var taskTypeByPlanType = map[models.PlanType]models.TaskType{
	models.PlanTypeMeeting:   models.TaskTypeMeeting,
	models.PlanTypeSiteVisit: models.TaskTypeSiteVisit,
	models.PlanTypeReport:    models.TaskTypeReport,
	models.PlanTypeTraining:  models.TaskTypeTraining,
}

var taskStatusByPlanStatus = map[models.PlanStatus]models.TaskStatus{
	models.PlanStatusPending:    models.TaskStatusTodo,
	models.PlanStatusInProgress: models.TaskStatusInProgress,
	models.PlanStatusCompleted:  models.TaskStatusCompleted,
	models.PlanStatusOverdue:    models.TaskStatusTodo,
}

var taskPriorityByPlanPriority = map[models.PlanPriority]models.TaskPriority{
	models.PlanPriorityHigh:   models.TaskPriorityHigh,
	models.PlanPriorityMedium: models.TaskPriorityNormal,
	models.PlanPriorityLow:    models.TaskPriorityLow,
}

var planPriorityByTaskPriority = map[models.TaskPriority]models.PlanPriority{
	models.TaskPriorityUrgent: models.PlanPriorityHigh,
	models.TaskPriorityHigh:   models.PlanPriorityHigh,
	models.TaskPriorityNormal: models.PlanPriorityMedium,
	models.TaskPriorityLow:    models.PlanPriorityLow,
}

// PlanToTask maps a plan onto a task draft assigned to the acting user. It
// is total: every branch has a defined default and no error is possible.
// The caller owns persistence and id assignment.
func PlanToTask(plan models.Plan, actingUserID uuid.UUID) models.Task {
	taskType, ok := taskTypeByPlanType[plan.Type]
	if !ok {
		taskType = models.TaskTypeOther
		slog.Warn("plan type has no task category, converting as other",
			"plan_id", plan.ID, "plan_type", string(plan.Type))
	}

	status, ok := taskStatusByPlanStatus[plan.Status]
	if !ok {
		status = models.TaskStatusTodo
	}

	priority, ok := taskPriorityByPlanPriority[plan.Priority]
	if !ok {
		priority = models.TaskPriorityNormal
	}

	return models.Task{
		Title:       plan.Title,
		Description: plan.Description,
		Type:        taskType,
		Status:      status,
		Priority:    priority,
		Date:        plan.StartDate,
		Time:        plan.StartTime,
		Progress:    0,
		AssignedTo:  actingUserID,
		UserID:      plan.UserID,
		Location:    plan.Location,
		IsNew:       true,
	}
}

// TaskToPlan is the inverse mapping, used when a user promotes a task back
// into a scheduled personal plan.
func TaskToPlan(task models.Task, ownerID uuid.UUID) models.Plan {
	planType := models.PlanTypeOther
	for pt, tt := range taskTypeByPlanType {
		if tt == task.Type {
			planType = pt
			break
		}
	}

	planStatus := models.PlanStatusPending
	switch task.Status {
	case models.TaskStatusInProgress:
		planStatus = models.PlanStatusInProgress
	case models.TaskStatusCompleted:
		planStatus = models.PlanStatusCompleted
	}

	priority, ok := planPriorityByTaskPriority[task.Priority]
	if !ok {
		priority = models.PlanPriorityMedium
	}

	return models.Plan{
		UserID:      ownerID,
		Title:       task.Title,
		Description: task.Description,
		Type:        planType,
		Status:      planStatus,
		Priority:    priority,
		StartDate:   task.Date,
		EndDate:     task.Date,
		StartTime:   task.Time,
		Location:    task.Location,
	}
}
