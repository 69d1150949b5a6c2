package curriculum

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vidyasetu/school-api/model"
	"github.com/vidyasetu/school-api/utils/response"
	"gorm.io/gorm"
)

// CurriculumHandler serves the seeded, read-only curriculum reference data:
// class templates, their subjects and chapters. The data is global; any
// authenticated school admin sees the same rows.
type CurriculumHandler struct {
	db *gorm.DB
}

// NewCurriculumHandler creates a new curriculum handler
func NewCurriculumHandler(db *gorm.DB) *CurriculumHandler {
	return &CurriculumHandler{db: db}
}

// ListClassLists handles GET /school-admin/class-lists
func (h *CurriculumHandler) ListClassLists(c *fiber.Ctx) error {
	var classLists []model.ClassList
	if err := h.db.Order("class_number ASC, stream ASC").Find(&classLists).Error; err != nil {
		return response.InternalServerError(c, err)
	}
	return response.Success(c, classLists)
}

// GetClassList handles GET /school-admin/class-lists/:id
func (h *CurriculumHandler) GetClassList(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid class template id")
	}

	var classList model.ClassList
	if err := h.db.First(&classList, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Class template not found")
		}
		return response.InternalServerError(c, err)
	}

	return response.Success(c, classList)
}

// ListSubjects handles GET /school-admin/class-lists/:id/subjects, returning
// the template's subjects with their chapters.
func (h *CurriculumHandler) ListSubjects(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid class template id")
	}

	var classList model.ClassList
	if err := h.db.First(&classList, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Class template not found")
		}
		return response.InternalServerError(c, err)
	}

	var links []model.SubjectClass
	err = h.db.Preload("Subject").
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Order("chapters.number ASC")
		}).
		Where("class_list_id = ?", classList.ID).
		Find(&links).Error
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Success(c, fiber.Map{
		"class_list": classList,
		"subjects":   links,
	})
}
