package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/events"
	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.Plan{},
		&models.Task{},
		&models.ConversionRecord{},
	))
	return db
}

func newTestBus() *events.Bus {
	return events.NewBus()
}

func testUser(role, department string, teamID *uuid.UUID) *models.User {
	return &models.User{
		ID:             uuid.New(),
		Email:          uuid.NewString() + "@example.com",
		Password:       "x",
		Name:           "Test " + role,
		Role:           role,
		TeamID:         teamID,
		DepartmentType: department,
	}
}

func dateAt(daysFromNow int) time.Time {
	return time.Now().AddDate(0, 0, daysFromNow).Truncate(24 * time.Hour)
}
