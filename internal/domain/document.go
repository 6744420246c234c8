package domain

import "github.com/google/uuid"

type Document struct {
	Model
	Title         string     `gorm:"column:title;not null" json:"title"`
	Type          string     `gorm:"column:type;not null;index" json:"type"`
	FileURL       string     `gorm:"column:file_url;not null" json:"fileUrl"`
	CollegeID     *uuid.UUID `gorm:"type:uuid;column:college_id;index" json:"collegeId,omitempty"`
	RequirementID *uuid.UUID `gorm:"type:uuid;column:requirement_id;index" json:"requirementId,omitempty"`
	UploadedByID  *uuid.UUID `gorm:"type:uuid;column:uploaded_by_id;index" json:"uploadedById,omitempty"`

	College     *College     `gorm:"constraint:OnDelete:CASCADE" json:"college,omitempty"`
	Requirement *Requirement `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UploadedBy  *User        `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}

func (Document) TableName() string { return "documents" }

type Contact struct {
	Model
	Name    string `gorm:"column:name;not null" json:"name"`
	Email   string `gorm:"column:email;not null" json:"email"`
	Phone   string `gorm:"column:phone" json:"phone,omitempty"`
	Message string `gorm:"column:message" json:"message,omitempty"`
}

func (Contact) TableName() string { return "contacts" }
