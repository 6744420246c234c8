package domain

import "github.com/google/uuid"

type Vendor struct {
	Model
	Name        string `gorm:"column:name;not null" json:"name"`
	Description string `gorm:"column:description" json:"description,omitempty"`
	Website     string `gorm:"column:website" json:"website,omitempty"`
}

func (Vendor) TableName() string { return "vendors" }

type College struct {
	Model
	Name     string    `gorm:"column:name;not null" json:"name"`
	Location string    `gorm:"column:location" json:"location,omitempty"`
	VendorID uuid.UUID `gorm:"type:uuid;column:vendor_id;not null;index" json:"vendorId"`

	Vendor *Vendor `gorm:"constraint:OnDelete:CASCADE" json:"vendor,omitempty"`
}

func (College) TableName() string { return "colleges" }
