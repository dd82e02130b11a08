package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// VERIFICATION_TYPE_2FA marks the two-factor challenge record that gates
// session issuance after OAuth login.
const VERIFICATION_TYPE_2FA = "2fa"

// Verification stores a one-time-password secret bound to a target (account
// id, email, ...) and a type. Unique on (target, type); the optional expiry
// bounds challenge-style records.
type Verification struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Type      string     `gorm:"index:target_type,unique;type:varchar(50)" json:"type"`
	Target    string     `gorm:"index:target_type,unique;type:varchar(191)" json:"target"`
	Secret    string     `gorm:"type:varchar(100)" json:"-"`
	Algorithm string     `gorm:"type:varchar(20)" json:"algorithm"`
	Digits    int        `json:"digits"`
	Period    int        `json:"period"`
	CharSet   string     `gorm:"type:varchar(100)" json:"char_set"`
	ExpiresAt *time.Time `gorm:"type:timestamp;default:null" json:"expires_at,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// ActiveVerification returns the unexpired verification for (target, type),
// or nil when none exists.
func ActiveVerification(db *gorm.DB, target, vtype string) (*Verification, error) {
	var v Verification
	err := db.Where("target = ? AND type = ?", target, vtype).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &v, nil
}
