package models

import (
	"strings"
	"time"

	"github.com/angelmondragon/vtps-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an operator of the tracking platform.
type User struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Username        string         `gorm:"type:varchar(150);not null;uniqueIndex"`
	Email           string         `gorm:"type:varchar(254);not null"`
	PasswordHash    string         `gorm:"column:password_hash;not null"`
	FirstName       string         `gorm:"type:varchar(150);not null"`
	LastName        string         `gorm:"type:varchar(150);not null"`
	Role            enums.UserRole `gorm:"type:varchar(20);not null"`
	Phone           string         `gorm:"type:varchar(20);not null"`
	IsActive        bool           `gorm:"column:is_active;not null"`
	IsSuperuser     bool           `gorm:"column:is_superuser;not null"`
	IsActiveSession bool           `gorm:"column:is_active_session;not null"`
	LastActivity    time.Time      `gorm:"not null"`
	LastLoginAt     *time.Time
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

// BeforeSave refreshes last_activity on every write of the row.
func (u *User) BeforeSave(tx *gorm.DB) error {
	tx.Statement.SetColumn("LastActivity", time.Now().UTC())
	return nil
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// AuthToken is the single live bearer credential of a user.
type AuthToken struct {
	Key       string    `gorm:"type:varchar(64);primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
