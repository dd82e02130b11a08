package models

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	ROLE_USER  = "user"
	ROLE_ADMIN = "admin"
)

// Account is the authentication identity: credentials, provider connections
// and the sessions it can activate. Profile data lives on User.
type Account struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Email       string       `gorm:"uniqueIndex;type:varchar(200)" json:"email" validate:"required,email,min=5,max=200"`
	Username    string       `gorm:"uniqueIndex;type:varchar(100)" json:"username" validate:"required,min=3,max=100"`
	Password    *Password    `json:"-"`
	Connections []Connection `json:"-"`
	Sessions    []Session    `gorm:"many2many:session_accounts;" json:"-"`
	User        *User        `json:"-"`
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// Password holds the bcrypt hash for accounts that can log in locally.
// OAuth-only accounts have no row here.
type Password struct {
	AccountID uint   `gorm:"primaryKey" json:"-"`
	Hash      string `gorm:"type:text" json:"-"`
}

func (a *Account) Validate() error {
	v := validator.New()

	return v.Struct(a)
}

// NewAccount builds an unsaved account with normalized identifiers.
// Email and username are lowercased before storage.
func NewAccount(email, username string) (*Account, error) {
	a := &Account{
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Username: strings.ToLower(strings.TrimSpace(username)),
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}

	return a, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// VerifyPassword resolves the stored hash by username or numeric id and
// compares it against the plaintext. Accounts without a password (OAuth-only)
// never verify.
func VerifyPassword(db *gorm.DB, identity string, password string) (uint, bool) {
	var account Account
	err := db.Preload("Password").
		Where("username = ? OR id = ?", strings.ToLower(identity), identity).
		First(&account).Error
	if err != nil {
		return 0, false
	}
	if account.Password == nil {
		return 0, false
	}
	if !CheckPasswordHash(password, account.Password.Hash) {
		return 0, false
	}

	return account.ID, true
}

// ResetPassword overwrites the stored hash for the given username.
func ResetPassword(db *gorm.DB, username string, newPassword string) error {
	var account Account
	if err := db.Where("username = ?", strings.ToLower(username)).First(&account).Error; err != nil {
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	// upsert so OAuth-only accounts gain a password row
	pw := Password{AccountID: account.ID, Hash: hash}

	return db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&pw).Error
}

// AccountByEmail returns nil without error when no account matches.
func AccountByEmail(db *gorm.DB, email string) (*Account, error) {
	var account Account
	err := db.Where("email = ?", strings.ToLower(email)).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &account, nil
}
