package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionTTL is the fixed lifetime of a login session.
const SessionTTL = 30 * 24 * time.Hour

// Session is one login instance. It carries the set of accounts allowed to
// use it (account switching) plus a pointer to the currently active one.
// Expiry is logical: rows past ExpiresAt are never resolved even if a
// cleanup job has not removed them yet.
type Session struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	ExpiresAt       time.Time `gorm:"index;not null" json:"expires_at"`
	ActiveAccountID *uint     `json:"active_account_id"`
	Accounts        []Account `gorm:"many2many:session_accounts;" json:"-"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// IsExpired reports whether the session is past its expiration at the given
// instant.
func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// PermitsAccount reports whether the claimed account id is both a member of
// the session's account set and the recorded active account. A stale or
// forged claim fails both ways.
func (s *Session) PermitsAccount(accountID uint) bool {
	if s.ActiveAccountID == nil || *s.ActiveAccountID != accountID {
		return false
	}
	for _, a := range s.Accounts {
		if a.ID == accountID {
			return true
		}
	}

	return false
}

// CreateSession persists a new session for the account and associates the
// account into the session's account set.
func CreateSession(db *gorm.DB, accountID uint) (*Session, error) {
	sess := &Session{
		ID:              uuid.NewString(),
		ExpiresAt:       time.Now().Add(SessionTTL),
		ActiveAccountID: &accountID,
	}
	if err := db.Create(sess).Error; err != nil {
		return nil, err
	}
	if err := db.Model(sess).Association("Accounts").Append(&Account{ID: accountID}); err != nil {
		return nil, err
	}

	return sess, nil
}

// ResolveSession returns the session with its account set loaded, or nil when
// the id is unknown or the session has expired.
func ResolveSession(db *gorm.DB, id string) (*Session, error) {
	if id == "" {
		return nil, nil
	}

	var sess Session
	err := db.Preload("Accounts").
		Where("id = ? AND expires_at > ?", id, time.Now()).
		First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &sess, nil
}

// DeleteSession removes the backing row. Callers treat failures as
// non-fatal; clearing the cookie is the binding contract.
func DeleteSession(db *gorm.DB, id string) error {
	return db.Delete(&Session{}, "id = ?", id).Error
}
