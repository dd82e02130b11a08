package models

import (
	"time"
)

// Organization is the tenant boundary for role-based authorization.
type Organization struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;type:varchar(150)" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Membership places a user in an organization with a set of roles. The roles
// on the membership decide which permissions apply inside that organization.
type Membership struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"index:user_org,unique" json:"user_id"`
	OrganizationID uint      `gorm:"index:user_org,unique" json:"organization_id"`
	Roles          []Role    `gorm:"many2many:membership_roles;" json:"roles"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}
