package rbac

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/notestackapp/notestack/app/models"
	"github.com/notestackapp/notestack/internal/pkg/session"
)

// PermissionRequirement is the parsed form of "action:entity[:access,...]".
// An empty Access list (or "*") accepts any stored access level.
type PermissionRequirement struct {
	Action string
	Entity string
	Access []string
}

func (p PermissionRequirement) String() string {
	if len(p.Access) == 0 {
		return p.Action + ":" + p.Entity
	}
	return p.Action + ":" + p.Entity + ":" + strings.Join(p.Access, ",")
}

// ParsePermission splits a permission string into its requirement. The
// access segment is optional and may carry several comma-separated values;
// "*" is treated the same as omitting it.
func ParsePermission(perm string) (PermissionRequirement, error) {
	parts := strings.Split(perm, ":")
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" || parts[1] == "" {
		return PermissionRequirement{}, fmt.Errorf("invalid permission %q", perm)
	}

	req := PermissionRequirement{Action: parts[0], Entity: parts[1]}
	if len(parts) == 3 {
		for _, a := range strings.Split(parts[2], ",") {
			a = strings.TrimSpace(a)
			if a == "" || a == "*" {
				continue
			}
			req.Access = append(req.Access, a)
		}
	}

	return req, nil
}

// Matches reports whether a stored permission satisfies the requirement.
func (p PermissionRequirement) Matches(perm models.Permission) bool {
	if perm.Action != p.Action || perm.Entity != p.Entity {
		return false
	}
	if len(p.Access) == 0 {
		return true
	}
	for _, a := range p.Access {
		if a == perm.Access {
			return true
		}
	}
	return false
}

// HasPermission answers whether the account holds, through any
// membership -> role -> permission path in the organization scope, a
// permission matching the requirement. orgID 0 means any organization.
func HasPermission(db *gorm.DB, accountID uint, orgID uint, req PermissionRequirement) (bool, error) {
	perms, err := accountPermissions(db, accountID, orgID)
	if err != nil {
		return false, err
	}
	for _, p := range perms {
		if req.Matches(p) {
			return true, nil
		}
	}
	return false, nil
}

// HasRole matches on the role name directly, regardless of permissions.
func HasRole(db *gorm.DB, accountID uint, orgID uint, roleName string) (bool, error) {
	q := db.Table("roles").
		Joins("JOIN membership_roles ON membership_roles.role_id = roles.id").
		Joins("JOIN memberships ON memberships.id = membership_roles.membership_id").
		Joins("JOIN users ON users.id = memberships.user_id").
		Where("users.account_id = ? AND roles.name = ?", accountID, roleName)
	if orgID != 0 {
		q = q.Where("memberships.organization_id = ?", orgID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func accountPermissions(db *gorm.DB, accountID uint, orgID uint) ([]models.Permission, error) {
	q := db.Table("permissions").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN membership_roles ON membership_roles.role_id = role_permissions.role_id").
		Joins("JOIN memberships ON memberships.id = membership_roles.membership_id").
		Joins("JOIN users ON users.id = memberships.user_id").
		Where("users.account_id = ?", accountID)
	if orgID != 0 {
		q = q.Where("memberships.organization_id = ?", orgID)
	}

	var perms []models.Permission
	err := q.Distinct("permissions.*").Find(&perms).Error
	return perms, err
}

// RequirePermission resolves the caller and checks the permission string.
// Unauthenticated callers get the login redirect (handled by the session
// layer); authenticated callers without the permission get a structured 403
// carrying the unmet requirement.
func RequirePermission(c *fiber.Ctx, db *gorm.DB, perm string) (uint, error) {
	req, err := ParsePermission(perm)
	if err != nil {
		return 0, err
	}

	accountID, redirect := session.RequireAccountID(c, db)
	if accountID == 0 {
		return 0, redirect
	}

	ok, err := HasPermission(db, accountID, 0, req)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, forbidden(c, "permission", req.String())
	}

	return accountID, nil
}

// RequireRole is RequirePermission for a role name.
func RequireRole(c *fiber.Ctx, db *gorm.DB, roleName string) (uint, error) {
	accountID, redirect := session.RequireAccountID(c, db)
	if accountID == 0 {
		return 0, redirect
	}

	ok, err := HasRole(db, accountID, 0, roleName)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, forbidden(c, "role", roleName)
	}

	return accountID, nil
}

func forbidden(c *fiber.Ctx, kind, requirement string) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"error":    "unauthorized",
		"message":  fmt.Sprintf("missing required %s", kind),
		"required": fiber.Map{kind: requirement},
	})
}
