package class

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/vidyasetu/school-api/model"
	"github.com/vidyasetu/school-api/utils/middleware"
	"github.com/vidyasetu/school-api/utils/response"
	"github.com/vidyasetu/school-api/utils/validation"
	"gorm.io/gorm"
)

// ClassHandler manages a school's concrete classes, each instantiated from
// a curriculum template for one session and section.
type ClassHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewClassHandler creates a new class handler
func NewClassHandler(db *gorm.DB, v *validation.Validator) *ClassHandler {
	return &ClassHandler{db: db, validator: v}
}

// CreateClassRequest is the request body for POST /school-admin/classes
type CreateClassRequest struct {
	ClassListID uint   `json:"class_list_id" validate:"required"`
	Session     string `json:"session" validate:"required"`
	Section     string `json:"section" validate:"required"`
}

// UpdateClassRequest is the request body for PATCH /school-admin/classes/:id
type UpdateClassRequest struct {
	ClassListID *uint   `json:"class_list_id"`
	Session     *string `json:"session"`
	Section     *string `json:"section"`
}

// Create handles POST /school-admin/classes. Sections are normalized to
// uppercase so "a" and "A" cannot coexist for the same template and session.
func (h *ClassHandler) Create(c *fiber.Ctx) error {
	tenant, _ := middleware.GetTenant(c)
	if tenant == nil {
		return response.Unauthorized(c, "")
	}

	var req CreateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	session := strings.TrimSpace(req.Session)
	section := strings.ToUpper(strings.TrimSpace(req.Section))
	if session == "" || section == "" {
		return response.BadRequest(c, "Session and section are required")
	}

	var classList model.ClassList
	if err := h.db.First(&classList, req.ClassListID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Class template not found")
		}
		return response.InternalServerError(c, err)
	}

	var existing model.Class
	err := h.db.Where("school_id = ? AND session = ? AND class_list_id = ? AND section = ?",
		tenant.SchoolID, session, classList.ID, section).First(&existing).Error
	if err == nil {
		return response.Conflict(c, fmt.Sprintf("%s section %s already exists for session %s", classList.Name, section, session))
	} else if err != gorm.ErrRecordNotFound {
		return response.InternalServerError(c, err)
	}

	class := model.Class{
		SchoolID:    tenant.SchoolID,
		ClassListID: classList.ID,
		Session:     session,
		Section:     section,
	}

	if err := h.db.Create(&class).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return response.Conflict(c, fmt.Sprintf("%s section %s already exists for session %s", classList.Name, section, session))
		}
		return response.InternalServerError(c, err)
	}

	class.ClassList = classList
	return response.Created(c, class)
}

// List handles GET /school-admin/classes
func (h *ClassHandler) List(c *fiber.Ctx) error {
	tenant, _ := middleware.GetTenant(c)
	if tenant == nil {
		return response.Unauthorized(c, "")
	}

	query := h.db.Model(&model.Class{}).Where("school_id = ?", tenant.SchoolID)
	if session := strings.TrimSpace(c.Query("session")); session != "" {
		query = query.Where("session = ?", session)
	}
	if classListID := c.QueryInt("class_list_id", 0); classListID > 0 {
		query = query.Where("class_list_id = ?", classListID)
	}

	var classes []model.Class
	if err := query.Preload("ClassList").Order("session DESC, class_list_id ASC, section ASC").Find(&classes).Error; err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Success(c, classes)
}

// Get handles GET /school-admin/classes/:id, returning the class with its
// active enrollment count.
func (h *ClassHandler) Get(c *fiber.Ctx) error {
	tenant, _ := middleware.GetTenant(c)
	if tenant == nil {
		return response.Unauthorized(c, "")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid class id")
	}

	var class model.Class
	err = h.db.Preload("ClassList").Where("id = ? AND school_id = ?", id, tenant.SchoolID).First(&class).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Class not found")
		}
		return response.InternalServerError(c, err)
	}

	var activeCount int64
	if err := h.db.Model(&model.Enrollment{}).Where("class_id = ? AND is_active = ?", class.ID, true).Count(&activeCount).Error; err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Success(c, fiber.Map{
		"class":              class,
		"active_enrollments": activeCount,
	})
}

// Update handles PATCH /school-admin/classes/:id
func (h *ClassHandler) Update(c *fiber.Ctx) error {
	tenant, _ := middleware.GetTenant(c)
	if tenant == nil {
		return response.Unauthorized(c, "")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid class id")
	}

	var req UpdateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	var class model.Class
	if err := h.db.Where("id = ? AND school_id = ?", id, tenant.SchoolID).First(&class).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Class not found")
		}
		return response.InternalServerError(c, err)
	}

	if req.ClassListID != nil {
		var classList model.ClassList
		if err := h.db.First(&classList, *req.ClassListID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return response.NotFound(c, "Class template not found")
			}
			return response.InternalServerError(c, err)
		}
		class.ClassListID = classList.ID
	}
	if req.Session != nil {
		session := strings.TrimSpace(*req.Session)
		if session == "" {
			return response.BadRequest(c, "Session cannot be empty")
		}
		class.Session = session
	}
	if req.Section != nil {
		section := strings.ToUpper(strings.TrimSpace(*req.Section))
		if section == "" {
			return response.BadRequest(c, "Section cannot be empty")
		}
		class.Section = section
	}

	var other model.Class
	err = h.db.Where("school_id = ? AND session = ? AND class_list_id = ? AND section = ? AND id <> ?",
		tenant.SchoolID, class.Session, class.ClassListID, class.Section, class.ID).First(&other).Error
	if err == nil {
		return response.Conflict(c, fmt.Sprintf("Another class already uses session %s, section %s", class.Session, class.Section))
	} else if err != gorm.ErrRecordNotFound {
		return response.InternalServerError(c, err)
	}

	if err := h.db.Save(&class).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return response.Conflict(c, fmt.Sprintf("Another class already uses session %s, section %s", class.Session, class.Section))
		}
		return response.InternalServerError(c, err)
	}

	if err := h.db.Preload("ClassList").First(&class, class.ID).Error; err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Success(c, class)
}

// Delete handles DELETE /school-admin/classes/:id. A class with active
// enrollments cannot be removed; inactive enrollment history for the class
// is deleted along with it.
func (h *ClassHandler) Delete(c *fiber.Ctx) error {
	tenant, _ := middleware.GetTenant(c)
	if tenant == nil {
		return response.Unauthorized(c, "")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid class id")
	}

	var class model.Class
	if err := h.db.Where("id = ? AND school_id = ?", id, tenant.SchoolID).First(&class).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Class not found")
		}
		return response.InternalServerError(c, err)
	}

	var activeCount int64
	if err := h.db.Model(&model.Enrollment{}).Where("class_id = ? AND is_active = ?", class.ID, true).Count(&activeCount).Error; err != nil {
		return response.InternalServerError(c, err)
	}
	if activeCount > 0 {
		return response.Conflict(c, fmt.Sprintf("Cannot delete class with %d active enrollments", activeCount))
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("class_id = ?", class.ID).Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&class).Error
	})
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.SuccessWithMessage(c, "Class deleted", nil)
}
