package models

import (
	"fmt"

	"gorm.io/gorm"
)

// Signup creates an account with a local password, its user profile and the
// default "user" role membership in one transaction. Partial application is
// not possible; the store commits all writes or none.
func Signup(db *gorm.DB, email, username, name, password string) (*Account, error) {
	account, err := NewAccount(email, username)
	if err != nil {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return err
		}
		if err := tx.Create(&Password{AccountID: account.ID, Hash: hash}).Error; err != nil {
			return err
		}

		return createProfile(tx, account, name)
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// SignupWithConnection creates an account bound to an external provider
// identity instead of a password.
func SignupWithConnection(db *gorm.DB, email, username, name, provider, providerAccountID string) (*Account, error) {
	account, err := NewAccount(email, username)
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return err
		}
		conn := Connection{
			AccountID:         account.ID,
			Provider:          provider,
			ProviderAccountID: providerAccountID,
		}
		if err := tx.Create(&conn).Error; err != nil {
			return err
		}

		return createProfile(tx, account, name)
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

func createProfile(tx *gorm.DB, account *Account, name string) error {
	user := User{AccountID: account.ID, Name: name}
	if err := tx.Create(&user).Error; err != nil {
		return err
	}

	var role Role
	if err := tx.Where("name = ?", ROLE_USER).First(&role).Error; err != nil {
		return fmt.Errorf("default role missing: %w", err)
	}

	var org Organization
	if err := tx.Where("name = ?", DefaultOrganization).First(&org).Error; err != nil {
		return fmt.Errorf("default organization missing: %w", err)
	}

	membership := Membership{UserID: user.ID, OrganizationID: org.ID}
	if err := tx.Create(&membership).Error; err != nil {
		return err
	}

	return tx.Model(&membership).Association("Roles").Append(&role)
}
