package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	NotificationEmail    = "email"
	NotificationSMS      = "sms"
	NotificationWhatsApp = "whatsapp"
)

const (
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

type NotificationJob struct {
	Model
	Type        string         `gorm:"column:type;not null;index" json:"type"`
	Recipient   string         `gorm:"column:recipient;not null" json:"recipient"`
	Message     string         `gorm:"column:message;not null" json:"message"`
	Status      string         `gorm:"column:status;not null;index" json:"status"`
	Attempts    int            `gorm:"column:attempts;not null;default:0" json:"attempts"`
	Error       string         `gorm:"column:error" json:"error,omitempty"`
	Result      datatypes.JSON `gorm:"column:result" json:"result,omitempty"`
	HeartbeatAt *time.Time     `gorm:"column:heartbeat_at;index" json:"heartbeatAt,omitempty"`
	CompletedAt *time.Time     `gorm:"column:completed_at" json:"completedAt,omitempty"`
}

func (NotificationJob) TableName() string { return "notification_jobs" }
