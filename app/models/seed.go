package models

import (
	"fmt"

	"gorm.io/gorm"
)

// DefaultOrganization is the tenant new signups join.
const DefaultOrganization = "default"

var seedActions = []string{"create", "read", "update", "delete"}
var seedEntities = []string{"note", "user"}

// SeedAuthData makes sure the baseline organization, permissions and roles
// exist. Idempotent; runs at startup after migration.
func SeedAuthData(db *gorm.DB) error {
	org := Organization{Name: DefaultOrganization}
	if err := db.Where(Organization{Name: DefaultOrganization}).FirstOrCreate(&org).Error; err != nil {
		return err
	}

	byAccess := map[string][]Permission{}
	for _, action := range seedActions {
		for _, entity := range seedEntities {
			for _, access := range []string{ACCESS_OWN, ACCESS_ANY} {
				perm := Permission{Action: action, Entity: entity, Access: access}
				err := db.Where(Permission{Action: action, Entity: entity, Access: access}).
					Attrs(Permission{Description: fmt.Sprintf("%s %s (%s)", action, entity, access)}).
					FirstOrCreate(&perm).Error
				if err != nil {
					return err
				}
				byAccess[access] = append(byAccess[access], perm)
			}
		}
	}

	roles := []struct {
		name   string
		desc   string
		access string
	}{
		{ROLE_USER, "regular member, own records only", ACCESS_OWN},
		{ROLE_ADMIN, "administrator, all records", ACCESS_ANY},
	}

	for _, r := range roles {
		role := Role{Name: r.name}
		err := db.Where(Role{Name: r.name}).
			Attrs(Role{Description: r.desc}).
			FirstOrCreate(&role).Error
		if err != nil {
			return err
		}
		perms := byAccess[r.access]
		if err := db.Model(&role).Association("Permissions").Replace(&perms); err != nil {
			return err
		}
	}

	return nil
}
