package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/notestackapp/notestack/app/models"
	"github.com/notestackapp/notestack/internal/pkg/database"
	"github.com/notestackapp/notestack/internal/pkg/rbac"
)

// Note CRUD. Ordinary data-access glue; its job here is to drive the
// permission evaluator with own/any scoped checks.

// HandleNoteList returns the notes the caller may read: all of them with
// any-access, otherwise just their own.
func HandleNoteList(c *fiber.Ctx) error {
	db := database.GetDB()

	accountID, err := rbac.RequirePermission(c, db, "read:note:own,any")
	if accountID == 0 {
		return err
	}

	readAny, err := rbac.HasPermission(db, accountID, 0, rbac.PermissionRequirement{
		Action: "read", Entity: "note", Access: []string{models.ACCESS_ANY},
	})
	if err != nil {
		return err
	}

	q := db.Order("updated_at DESC")
	if !readAny {
		user, err := callerUser(db, accountID)
		if err != nil {
			return err
		}
		q = q.Where("owner_id = ?", user.ID)
	}

	var notes []models.Note
	if err := q.Find(&notes).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"notes": notes})
}

// HandleNoteCreate creates a note owned by the caller.
func HandleNoteCreate(c *fiber.Ctx) error {
	db := database.GetDB()

	accountID, err := rbac.RequirePermission(c, db, "create:note:own")
	if accountID == 0 {
		return err
	}

	user, err := callerUser(db, accountID)
	if err != nil {
		return err
	}

	note := models.Note{
		OwnerID: user.ID,
		Title:   c.FormValue("title"),
		Content: c.FormValue("content"),
	}
	if err := db.Create(&note).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(note)
}

// HandleNoteUpdate updates a note; own-access suffices for the caller's
// notes, anyone else's takes any-access.
func HandleNoteUpdate(c *fiber.Ctx) error {
	db := database.GetDB()

	note, err := requireNoteAccess(c, db, "update")
	if note == nil {
		return err
	}

	note.Title = c.FormValue("title", note.Title)
	note.Content = c.FormValue("content", note.Content)
	if err := db.Save(note).Error; err != nil {
		return err
	}

	return c.JSON(note)
}

// HandleNoteDelete removes a note under the same ownership rule as update.
func HandleNoteDelete(c *fiber.Ctx) error {
	db := database.GetDB()

	note, err := requireNoteAccess(c, db, "delete")
	if note == nil {
		return err
	}

	if err := db.Delete(note).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// requireNoteAccess enforces action:note:own for owned notes and
// action:note:any otherwise, then loads the note. The permission check runs
// before the load so callers without note access cannot probe which ids
// exist. A nil note means the response has been written.
func requireNoteAccess(c *fiber.Ctx, db *gorm.DB, action string) (*models.Note, error) {
	accountID, err := rbac.RequirePermission(c, db, action+":note:own,any")
	if accountID == 0 {
		return nil, err
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid note id"})
	}

	var note models.Note
	if err := db.First(&note, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "note not found"})
		}
		return nil, err
	}

	user, err := callerUser(db, accountID)
	if err != nil {
		return nil, err
	}

	if note.OwnerID != user.ID {
		if id, err := rbac.RequirePermission(c, db, action+":note:any"); id == 0 {
			return nil, err
		}
	}

	return &note, nil
}

func callerUser(db *gorm.DB, accountID uint) (*models.User, error) {
	var user models.User
	if err := db.Where("account_id = ?", accountID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
