package domain

import "github.com/google/uuid"

type Role string

const (
	RoleSuperAdmin  Role = "SUPER_ADMIN"
	RoleVendorAdmin Role = "VENDOR_ADMIN"
	RoleVendorUser  Role = "VENDOR_USER"
	RoleTrainer     Role = "TRAINER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleVendorAdmin, RoleVendorUser, RoleTrainer:
		return true
	}
	return false
}

type User struct {
	Model
	Email    string     `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Password string     `gorm:"column:password;not null" json:"-"`
	Name     string     `gorm:"column:name" json:"name"`
	Role     Role       `gorm:"column:role;not null;index" json:"role"`
	VendorID *uuid.UUID `gorm:"type:uuid;column:vendor_id;index" json:"vendorId,omitempty"`

	Vendor  *Vendor  `gorm:"constraint:OnDelete:SET NULL" json:"vendor,omitempty"`
	Trainer *Trainer `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"trainer,omitempty"`
}

func (User) TableName() string { return "users" }
