package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Connection links an account to one external OAuth identity. The
// (provider, provider_account_id) pair is globally unique; concurrent
// callback races rely on that constraint to pick a single winner.
type Connection struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	AccountID         uint      `gorm:"index" json:"account_id"`
	Provider          string    `gorm:"index:provider_uid,unique;type:varchar(50)" json:"provider"`
	ProviderAccountID string    `gorm:"index:provider_uid,unique;type:varchar(191)" json:"provider_account_id"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ConnectionByProvider returns nil without error when no connection matches.
func ConnectionByProvider(db *gorm.DB, provider, providerAccountID string) (*Connection, error) {
	var conn Connection
	err := db.Where("provider = ? AND provider_account_id = ?", provider, providerAccountID).
		First(&conn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &conn, nil
}

// CreateConnection inserts the link. A duplicate-key error means a
// concurrent request already created it; the caller re-reads instead of
// failing.
func CreateConnection(db *gorm.DB, accountID uint, provider, providerAccountID string) (*Connection, error) {
	conn := &Connection{
		AccountID:         accountID,
		Provider:          provider,
		ProviderAccountID: providerAccountID,
	}
	err := db.Create(conn).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ConnectionByProvider(db, provider, providerAccountID)
	}
	if err != nil {
		return nil, err
	}

	return conn, nil
}

// ConnectionsByAccount lists the account's provider links.
func ConnectionsByAccount(db *gorm.DB, accountID uint) ([]Connection, error) {
	var conns []Connection
	err := db.Where("account_id = ?", accountID).Order("provider").Find(&conns).Error

	return conns, err
}
