package models

import (
	"time"
)

// User is the profile side of an account: display name, avatar, notes and
// organization memberships. It is 1:1 with Account but modeled separately so
// authorization data stays off the authentication identity.
type User struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	AccountID   uint         `gorm:"uniqueIndex" json:"account_id"`
	Name        string       `gorm:"type:varchar(150)" json:"name"`
	ImageURL    string       `gorm:"type:varchar(255);default:null" json:"image_url"`
	Memberships []Membership `json:"-"`
	Notes       []Note       `gorm:"foreignKey:OwnerID" json:"-"`
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}
