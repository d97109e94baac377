package models

import (
	"strings"
	"time"

	"github.com/angelmondragon/vtps-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VulnerablePerson is an at-risk individual being tracked.
type VulnerablePerson struct {
	ID                   uuid.UUID          `gorm:"type:uuid;primaryKey"`
	FirstName            string             `gorm:"type:varchar(100);not null"`
	LastName             string             `gorm:"type:varchar(100);not null"`
	Age                  int                `gorm:"not null"`
	Phone                string             `gorm:"type:varchar(17);not null"`
	Email                string             `gorm:"type:varchar(254);not null"`
	Address              string             `gorm:"type:text;not null"`
	CurrentLocation      string             `gorm:"type:varchar(255);not null"`
	RiskLevel            enums.RiskLevel    `gorm:"type:varchar(10);not null;index"`
	CurrentStatus        enums.PersonStatus `gorm:"type:varchar(10);not null;index"`
	MedicalConditions    string             `gorm:"type:text;not null"`
	Medications          string             `gorm:"type:text;not null"`
	Allergies            string             `gorm:"type:text;not null"`
	GPSDeviceID          *string            `gorm:"column:gps_device_id;type:varchar(100);uniqueIndex"`
	IsBeingMonitored     bool               `gorm:"not null"`
	LastKnownLocation    string             `gorm:"type:varchar(255);not null"`
	LastContactTime      *time.Time
	AssignedSupervisorID *uuid.UUID         `gorm:"type:uuid;index"`
	AssignedSupervisor   *User              `gorm:"foreignKey:AssignedSupervisorID;constraint:OnDelete:SET NULL"`
	CreatedByID          *uuid.UUID         `gorm:"type:uuid"`
	CreatedBy            *User              `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL"`
	CreatedAt            time.Time          `gorm:"autoCreateTime;index"`
	UpdatedAt            time.Time          `gorm:"autoUpdateTime"`

	EmergencyContacts []EmergencyContact `gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE"`
	LocationLogs      []LocationLog      `gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE"`
	Alerts            []Alert            `gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE"`
	SafeZones         []SafeZone         `gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE"`
	CheckInSchedules  []CheckInSchedule  `gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE"`
	CheckInLogs       []CheckInLog       `gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE"`
	NotificationLogs  []NotificationLog  `gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE"`
}

func (VulnerablePerson) TableName() string {
	return "vulnerable_people"
}

func (p *VulnerablePerson) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// FullName joins first and last name.
func (p *VulnerablePerson) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// EmergencyContact is someone to reach when a person needs help.
type EmergencyContact struct {
	ID           uuid.UUID          `gorm:"type:uuid;primaryKey"`
	PersonID     uuid.UUID          `gorm:"type:uuid;not null;index"`
	Name         string             `gorm:"type:varchar(200);not null"`
	Relationship enums.Relationship `gorm:"type:varchar(20);not null"`
	Phone        string             `gorm:"type:varchar(17);not null"`
	Email        string             `gorm:"type:varchar(254);not null"`
	IsPrimary    bool               `gorm:"not null"`
	CreatedAt    time.Time          `gorm:"autoCreateTime"`
}

func (c *EmergencyContact) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
