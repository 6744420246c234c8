package domain

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type RequirementStatus string

const (
	RequirementDraft      RequirementStatus = "DRAFT"
	RequirementOpen       RequirementStatus = "OPEN"
	RequirementInProgress RequirementStatus = "IN_PROGRESS"
	RequirementClosed     RequirementStatus = "CLOSED"
)

func (s RequirementStatus) Valid() bool {
	switch s {
	case RequirementDraft, RequirementOpen, RequirementInProgress, RequirementClosed:
		return true
	}
	return false
}

type Requirement struct {
	Model
	Title       string                      `gorm:"column:title;not null" json:"title"`
	Description string                      `gorm:"column:description" json:"description,omitempty"`
	Tags        datatypes.JSONSlice[string] `gorm:"column:tags" json:"tags"`
	Status      RequirementStatus           `gorm:"column:status;not null;index" json:"status"`
	VendorID    uuid.UUID                   `gorm:"type:uuid;column:vendor_id;not null;index" json:"vendorId"`

	Vendor *Vendor `gorm:"constraint:OnDelete:CASCADE" json:"vendor,omitempty"`
}

func (Requirement) TableName() string { return "requirements" }

// Category is the first tag, or "Other" for untagged requirements.
// Category is the trimmed first tag, or "Other" when there is none.
func (r *Requirement) Category() string {
	if len(r.Tags) == 0 {
		return "Other"
	}
	if c := strings.TrimSpace(r.Tags[0]); c != "" {
		return c
	}
	return "Other"
}
