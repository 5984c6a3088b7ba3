package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Team struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	LeaderID       uuid.UUID      `gorm:"type:uuid;index" json:"leader_id"`
	Location       string         `gorm:"size:255" json:"location"`
	DepartmentType string         `gorm:"size:50" json:"department_type"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
