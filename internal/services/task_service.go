package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/dto"
	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/events"
	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotAuthenticated = errors.New("authentication required")
	ErrNotAuthorized    = errors.New("you are not allowed to modify this task")
	ErrTaskNotFound     = errors.New("task not found")
)

// TaskService owns task CRUD, the visibility-filtered read path and the
// mutation authorization checks.
type TaskService struct {
	db       *gorm.DB
	bus      *events.Bus
	adminIDs map[uuid.UUID]bool
}

func NewTaskService(db *gorm.DB, bus *events.Bus, adminIDs []string) *TaskService {
	ids := make(map[uuid.UUID]bool, len(adminIDs))
	for _, s := range adminIDs {
		if id, err := uuid.Parse(s); err == nil {
			ids[id] = true
		}
	}
	return &TaskService{db: db, bus: bus, adminIDs: ids}
}

func (s *TaskService) rawTasks() ([]models.Task, error) {
	var tasks []models.Task
	if err := s.db.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// loadDirectory reads the current user and team rosters. Rebuilt on every
// filter pass so roster changes take effect immediately.
func (s *TaskService) loadDirectory() (*Directory, error) {
	var users []models.User
	if err := s.db.Find(&users).Error; err != nil {
		return nil, err
	}
	var teams []models.Team
	if err := s.db.Find(&teams).Error; err != nil {
		return nil, err
	}
	return NewDirectory(users, teams), nil
}

// ListVisibleTasks loads the raw collection, applies the visibility filter
// for the actor and sorts the result. A nil actor gets the empty set.
func (s *TaskService) ListVisibleTasks(actor *models.User) ([]models.Task, error) {
	if actor == nil {
		return []models.Task{}, nil
	}
	tasks, err := s.rawTasks()
	if err != nil {
		return nil, err
	}
	dir, err := s.loadDirectory()
	if err != nil {
		return nil, err
	}
	return SortTasks(VisibleTasks(tasks, actor, dir, s.adminIDs)), nil
}

// FilterTasks applies the business criteria on top of the visibility-filtered
// sorted collection. Recomputed on every call, never cached.
func (s *TaskService) FilterTasks(actor *models.User, criteria dto.TaskFilterRequest) ([]models.Task, error) {
	visible, err := s.ListVisibleTasks(actor)
	if err != nil {
		return nil, err
	}
	return ApplyCriteria(visible, criteria), nil
}

// ApplyCriteria narrows a task list by status, date range and minimum
// progress. Pure; used by both the service and the snapshot provider.
func ApplyCriteria(tasks []models.Task, criteria dto.TaskFilterRequest) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if criteria.Status != "" && t.Status != models.TaskStatus(criteria.Status) {
			continue
		}
		if criteria.From != nil && t.Date.Before(*criteria.From) {
			continue
		}
		if criteria.To != nil && t.Date.After(*criteria.To) {
			continue
		}
		if criteria.MinProgress != nil && t.Progress < *criteria.MinProgress {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (s *TaskService) GetTask(actor *models.User, taskID uuid.UUID) (*models.Task, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}
	var task models.Task
	if err := s.db.First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	dir, err := s.loadDirectory()
	if err != nil {
		return nil, err
	}
	if !taskVisibleTo(task, actor, dir, s.adminIDs) {
		return nil, ErrNotAuthorized
	}
	return &task, nil
}

func (s *TaskService) CreateTask(actor *models.User, req dto.CreateTaskRequest) (*models.Task, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	assignedTo := actor.ID
	if req.AssignedTo != "" {
		if id, parseErr := uuid.Parse(req.AssignedTo); parseErr == nil {
			assignedTo = id
		}
	}

	teamID := actor.TeamID
	if req.TeamID != "" {
		if id, parseErr := uuid.Parse(req.TeamID); parseErr == nil {
			teamID = &id
		}
	}

	task := models.Task{
		ID:               uuid.New(),
		Title:            req.Title,
		Description:      req.Description,
		Type:             normalizeTaskType(req.Type),
		Status:           normalizeTaskStatus(req.Status),
		Priority:         normalizeTaskPriority(req.Priority),
		Date:             date,
		Time:             req.Time,
		AssignedTo:       assignedTo,
		UserID:           actor.ID,
		UserName:         actor.Name,
		TeamID:           teamID,
		Location:         req.Location,
		IsShared:         req.IsShared,
		IsSharedWithTeam: req.IsSharedWithTeam,
	}
	if req.Progress != nil {
		task.Progress = *req.Progress
	}
	task.Progress = progressForStatus(task.Status, task.Progress, req.Progress != nil)
	if len(req.ExtraAssignees) > 0 {
		if b, marshalErr := json.Marshal(req.ExtraAssignees); marshalErr == nil {
			task.ExtraAssignees = datatypes.JSON(b)
		}
	}

	if err := s.db.Create(&task).Error; err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.bus.PublishUpdated(events.TasksUpdated{Source: "task_create", TaskTitle: task.Title})
	return &task, nil
}

func (s *TaskService) UpdateTask(actor *models.User, taskID uuid.UUID, req dto.UpdateTaskRequest) (*models.Task, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}
	var task models.Task
	if err := s.db.First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	dir, err := s.loadDirectory()
	if err != nil {
		return nil, err
	}
	if !s.CanModifyTask(actor, task, dir) {
		return nil, ErrNotAuthorized
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Type != nil {
		task.Type = normalizeTaskType(*req.Type)
	}
	explicitProgress := req.Progress != nil
	if req.Progress != nil {
		task.Progress = *req.Progress
	}
	if req.Status != nil {
		task.Status = normalizeTaskStatus(*req.Status)
		task.Progress = progressForStatus(task.Status, task.Progress, explicitProgress)
	}
	if req.Priority != nil {
		task.Priority = normalizeTaskPriority(*req.Priority)
	}
	if req.Date != nil {
		d, parseErr := parseDate(*req.Date)
		if parseErr != nil {
			return nil, parseErr
		}
		task.Date = d
	}
	if req.Time != nil {
		task.Time = *req.Time
	}
	if req.AssignedTo != nil {
		if id, parseErr := uuid.Parse(*req.AssignedTo); parseErr == nil {
			task.AssignedTo = id
		}
	}
	if req.Location != nil {
		task.Location = *req.Location
	}
	if req.IsShared != nil {
		task.IsShared = *req.IsShared
	}
	if req.IsSharedWithTeam != nil {
		task.IsSharedWithTeam = *req.IsSharedWithTeam
	}
	if req.ExtraAssignees != nil {
		if b, marshalErr := json.Marshal(*req.ExtraAssignees); marshalErr == nil {
			task.ExtraAssignees = datatypes.JSON(b)
		}
	}
	task.IsNew = false

	if err := s.db.Save(&task).Error; err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	s.bus.PublishUpdated(events.TasksUpdated{Source: "task_update", TaskTitle: task.Title})
	return &task, nil
}

func (s *TaskService) DeleteTask(actor *models.User, taskID uuid.UUID) error {
	if actor == nil {
		return ErrNotAuthenticated
	}
	var task models.Task
	if err := s.db.First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	dir, err := s.loadDirectory()
	if err != nil {
		return err
	}
	if !s.CanModifyTask(actor, task, dir) {
		return ErrNotAuthorized
	}

	if err := s.db.Delete(&task).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	s.bus.PublishUpdated(events.TasksUpdated{Source: "task_delete", TaskTitle: task.Title})
	return nil
}

// CanModifyTask is the mutation counterpart of the visibility rules: owners,
// admins, managing team leaders and same-department directors may modify.
// The employee sharing clauses grant read access only.
func (s *TaskService) CanModifyTask(actor *models.User, task models.Task, dir *Directory) bool {
	if actor == nil {
		return false
	}
	if task.AssignedTo == actor.ID || task.UserID == actor.ID {
		return true
	}
	if s.adminIDs[actor.ID] || actor.Role == models.RoleAdmin {
		return true
	}
	if actor.IsDirector() {
		return directorCanSee(task, actor, dir)
	}
	if actor.IsTeamLeader() {
		return teamLeaderCanSee(task, actor, dir)
	}
	return false
}

// progressForStatus applies the auto rules: completed pins progress at 100,
// todo resets to 0 unless the caller set a value explicitly.
func progressForStatus(status models.TaskStatus, progress int, explicit bool) int {
	switch status {
	case models.TaskStatusCompleted:
		return 100
	case models.TaskStatusTodo:
		if !explicit {
			return 0
		}
	}
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}

func normalizeTaskType(s string) models.TaskType {
	switch t := models.TaskType(s); t {
	case models.TaskTypeMeeting, models.TaskTypeSiteVisit, models.TaskTypeReport,
		models.TaskTypeTraining:
		return t
	default:
		return models.TaskTypeOther
	}
}

func normalizeTaskStatus(s string) models.TaskStatus {
	switch st := models.TaskStatus(s); st {
	case models.TaskStatusInProgress, models.TaskStatusOnHold, models.TaskStatusCompleted:
		return st
	default:
		return models.TaskStatusTodo
	}
}

func normalizeTaskPriority(s string) models.TaskPriority {
	switch p := models.TaskPriority(s); p {
	case models.TaskPriorityUrgent, models.TaskPriorityHigh, models.TaskPriorityLow:
		return p
	default:
		return models.TaskPriorityNormal
	}
}
