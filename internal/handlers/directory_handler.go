package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/dto"
	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/models"
	"gorm.io/gorm"
)

// DirectoryHandler serves the user and team rosters that UI clients need to
// render assignee pickers and team panels.
type DirectoryHandler struct {
	db *gorm.DB
}

func NewDirectoryHandler(db *gorm.DB) *DirectoryHandler {
	return &DirectoryHandler{db: db}
}

func (h *DirectoryHandler) ListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := h.db.Order("name ASC").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch users",
		})
	}

	resp := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, dto.UserResponse{
			ID:             u.ID,
			Email:          u.Email,
			Name:           u.Name,
			Role:           u.Role,
			TeamID:         u.TeamID,
			DepartmentType: u.DepartmentType,
			Location:       u.Location,
		})
	}

	return c.JSON(fiber.Map{"success": true, "data": resp, "total": len(resp)})
}

func (h *DirectoryHandler) ListTeams(c *fiber.Ctx) error {
	var teams []models.Team
	if err := h.db.Order("name ASC").Find(&teams).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch teams",
		})
	}

	return c.JSON(fiber.Map{"success": true, "data": teams, "total": len(teams)})
}
