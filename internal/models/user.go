package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role values carried in the users table and in JWT claims.
const (
	RoleRetailDirector  = "retail_director"
	RoleProjectDirector = "project_director"
	RoleTeamLeader      = "team_leader"
	RoleEmployee        = "employee"
	RoleAdmin           = "admin"
)

type User struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email          string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password       string         `gorm:"not null" json:"-"`
	Name           string         `gorm:"size:255" json:"name"`
	Role           string         `gorm:"size:30;default:'employee'" json:"role"`
	TeamID         *uuid.UUID     `gorm:"type:uuid;index" json:"team_id"`
	DepartmentType string         `gorm:"size:50" json:"department_type"`
	Location       string         `gorm:"size:255" json:"location"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsDirector reports whether the user holds any director-level role.
func (u *User) IsDirector() bool {
	return strings.HasSuffix(u.Role, "_director")
}

func (u *User) IsTeamLeader() bool {
	return u.Role == RoleTeamLeader
}
