package domain

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionScheduled SessionStatus = "SCHEDULED"
	SessionConfirmed SessionStatus = "CONFIRMED"
	SessionCompleted SessionStatus = "COMPLETED"
	SessionCancelled SessionStatus = "CANCELLED"
)

type Session struct {
	Model
	Title         string        `gorm:"column:title;not null" json:"title"`
	Status        SessionStatus `gorm:"column:status;not null;index" json:"status"`
	StartTime     time.Time     `gorm:"column:start_time;not null" json:"startTime"`
	EndTime       time.Time     `gorm:"column:end_time;not null" json:"endTime"`
	Location      string        `gorm:"column:location" json:"location,omitempty"`
	RequirementID *uuid.UUID    `gorm:"type:uuid;column:requirement_id;index" json:"requirementId,omitempty"`
	TrainerID     *uuid.UUID    `gorm:"type:uuid;column:trainer_id;index" json:"trainerId,omitempty"`

	Requirement *Requirement `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Trainer     *Trainer     `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}

func (Session) TableName() string { return "sessions" }
