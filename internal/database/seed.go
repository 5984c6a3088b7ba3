package database

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// SeedDemo populates an empty database with a small org for local
// development: one director, one team with a leader and an employee.
func SeedDemo() error {
	var count int64
	if err := DB.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	teamID := uuid.New()
	leaderID := uuid.New()

	users := []models.User{
		{
			ID:             uuid.New(),
			Email:          "director@example.com",
			Password:       string(hash),
			Name:           "Retail Director",
			Role:           models.RoleRetailDirector,
			DepartmentType: "retail",
			Location:       "hanoi",
		},
		{
			ID:             leaderID,
			Email:          "leader@example.com",
			Password:       string(hash),
			Name:           "Team Leader",
			Role:           models.RoleTeamLeader,
			TeamID:         &teamID,
			DepartmentType: "retail",
			Location:       "hanoi",
		},
		{
			ID:             uuid.New(),
			Email:          "employee@example.com",
			Password:       string(hash),
			Name:           "Sales Employee",
			Role:           models.RoleEmployee,
			TeamID:         &teamID,
			DepartmentType: "retail",
			Location:       "hanoi",
		},
	}

	team := models.Team{
		ID:             teamID,
		Name:           "Sales Team 1",
		LeaderID:       leaderID,
		Location:       "hanoi",
		DepartmentType: "retail",
	}

	if err := DB.Create(&team).Error; err != nil {
		return err
	}
	if err := DB.Create(&users).Error; err != nil {
		return err
	}

	slog.Info("seeded demo data", "users", len(users), "teams", 1)
	return nil
}
