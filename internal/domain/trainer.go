package domain

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Trainer struct {
	Model
	Name       string                      `gorm:"column:name" json:"name"`
	Email      string                      `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Phone      string                      `gorm:"column:phone" json:"phone,omitempty"`
	Skills     datatypes.JSONSlice[string] `gorm:"column:skills" json:"skills"`
	Domain     datatypes.JSONSlice[string] `gorm:"column:domain" json:"domain"`
	Bio        string                      `gorm:"column:bio" json:"bio,omitempty"`
	HourlyRate float64                     `gorm:"column:hourly_rate;not null;default:0" json:"hourlyRate"`
	Location   string                      `gorm:"column:location" json:"location,omitempty"`
	Rating     float64                     `gorm:"column:rating;not null;default:0;index" json:"rating"`
	UserID     *uuid.UUID                  `gorm:"type:uuid;column:user_id;uniqueIndex" json:"userId,omitempty"`
}

func (Trainer) TableName() string { return "trainers" }

// DisplayName falls back to the email when no name was recorded.
func (t *Trainer) DisplayName() string {
	if t == nil {
		return "Unknown"
	}
	if t.Name != "" {
		return t.Name
	}
	if t.Email != "" {
		return t.Email
	}
	return "Unknown"
}
