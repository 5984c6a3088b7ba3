package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/authctx"
	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/dto"
	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/services"
	"gorm.io/gorm"
)

type TaskHandler struct {
	taskService *services.TaskService
	provider    *services.TaskProvider
	db          *gorm.DB
}

func NewTaskHandler(taskService *services.TaskService, provider *services.TaskProvider, db *gorm.DB) *TaskHandler {
	return &TaskHandler{taskService: taskService, provider: provider, db: db}
}

// List serves the caller's visibility-filtered, sorted view from the
// provider snapshot.
func (h *TaskHandler) List(c *fiber.Ctx) error {
	user, err := authctx.CurrentUser(c, h.db)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	tasks, err := h.provider.Tasks(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch tasks",
		})
	}

	return c.JSON(dto.TaskListResponse{Success: true, Data: tasks, Total: len(tasks)})
}

// Filter applies the business filters on top of the caller's view.
func (h *TaskHandler) Filter(c *fiber.Ctx) error {
	user, err := authctx.CurrentUser(c, h.db)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	criteria := dto.TaskFilterRequest{Status: c.Query("status")}
	if from := c.Query("from"); from != "" {
		if d, parseErr := time.Parse("2006-01-02", from); parseErr == nil {
			criteria.From = &d
		}
	}
	if to := c.Query("to"); to != "" {
		if d, parseErr := time.Parse("2006-01-02", to); parseErr == nil {
			criteria.To = &d
		}
	}
	if min := c.Query("min_progress"); min != "" {
		if v, parseErr := strconv.Atoi(min); parseErr == nil {
			criteria.MinProgress = &v
		}
	}

	tasks, err := h.provider.FilterTasks(user, criteria)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to filter tasks",
		})
	}

	return c.JSON(dto.TaskListResponse{Success: true, Data: tasks, Total: len(tasks)})
}

func (h *TaskHandler) Get(c *fiber.Ctx) error {
	user, err := authctx.CurrentUser(c, h.db)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid task ID",
		})
	}

	task, err := h.taskService.GetTask(user, taskID)
	if err != nil {
		return taskErrorResponse(c, err, "Failed to fetch task")
	}

	return c.JSON(dto.TaskResponse{Success: true, Data: task})
}

func (h *TaskHandler) Create(c *fiber.Ctx) error {
	user, err := authctx.CurrentUser(c, h.db)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	task, err := h.taskService.CreateTask(user, req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDate) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return taskErrorResponse(c, err, "Failed to create task")
	}

	return c.Status(fiber.StatusCreated).JSON(dto.TaskResponse{Success: true, Data: task})
}

func (h *TaskHandler) Update(c *fiber.Ctx) error {
	user, err := authctx.CurrentUser(c, h.db)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid task ID",
		})
	}

	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	task, err := h.taskService.UpdateTask(user, taskID, req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDate) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return taskErrorResponse(c, err, "Failed to update task")
	}

	return c.JSON(dto.TaskResponse{Success: true, Data: task})
}

func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	user, err := authctx.CurrentUser(c, h.db)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid task ID",
		})
	}

	if err := h.taskService.DeleteTask(user, taskID); err != nil {
		return taskErrorResponse(c, err, "Failed to delete task")
	}

	return c.JSON(dto.DeleteResponse{Success: true})
}

// taskErrorResponse maps service sentinel errors to HTTP codes. Authorization
// failures are surfaced, never swallowed.
func taskErrorResponse(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrNotAuthorized):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrNotAuthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: fallback,
		})
	}
}
