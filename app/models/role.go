package models

import (
	"time"
)

// Permission access levels. A stored permission carries exactly one; a
// permission requirement may accept several, with "*" matching any.
const (
	ACCESS_OWN = "own"
	ACCESS_ANY = "any"
)

// Role is a named bundle of permissions.
type Role struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"uniqueIndex;type:varchar(50)" json:"name"`
	Description string       `gorm:"type:varchar(255)" json:"description"`
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions"`
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

// Permission is an (action, entity, access) authorization unit, unique on
// the triple.
type Permission struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Action      string    `gorm:"index:action_entity_access,unique;type:varchar(50)" json:"action"`
	Entity      string    `gorm:"index:action_entity_access,unique;type:varchar(50)" json:"entity"`
	Access      string    `gorm:"index:action_entity_access,unique;type:varchar(50)" json:"access"`
	Description string    `gorm:"type:varchar(255)" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}
