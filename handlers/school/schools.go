package school

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/vidyasetu/school-api/model"
	"github.com/vidyasetu/school-api/utils/auth"
	"github.com/vidyasetu/school-api/utils/response"
	"github.com/vidyasetu/school-api/utils/validation"
	"gorm.io/gorm"
)

// SchoolHandler is the super-admin surface for managing tenants.
type SchoolHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewSchoolHandler creates a new school handler
func NewSchoolHandler(db *gorm.DB, v *validation.Validator) *SchoolHandler {
	return &SchoolHandler{db: db, validator: v}
}

// CreateSchoolRequest is the request body for POST /super-admin/schools
type CreateSchoolRequest struct {
	Code     string `json:"code" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Email    string `json:"email"`
	City     string `json:"city"`
	Address  string `json:"address"`
	PinCode  string `json:"pin_code"`
	Password string `json:"password"`
}

// UpdateSchoolRequest is the request body for PATCH /super-admin/schools/:id.
// Pointer fields distinguish "not sent" from "set to empty".
type UpdateSchoolRequest struct {
	Code     *string `json:"code"`
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	City     *string `json:"city"`
	Address  *string `json:"address"`
	PinCode  *string `json:"pin_code"`
	Password *string `json:"password"`
}

// Create handles POST /super-admin/schools
func (h *SchoolHandler) Create(c *fiber.Ctx) error {
	var req CreateSchoolRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	code := validation.SanitizeString(req.Code)
	if ok, msg := validation.ValidateSchoolCode(code); !ok {
		return response.BadRequest(c, msg)
	}
	code = strings.ToUpper(code)

	phone := validation.NormalizePhone(req.Phone)
	if ok, msg := validation.ValidatePhone(phone); !ok {
		return response.BadRequest(c, msg)
	}

	if req.Email != "" && !validation.ValidateEmail(req.Email) {
		return response.BadRequest(c, "Invalid email address")
	}
	if req.PinCode != "" && !validation.ValidatePinCode(req.PinCode) {
		return response.BadRequest(c, "Invalid pin code")
	}

	var existing model.School
	if err := h.db.Where("code = ?", code).First(&existing).Error; err == nil {
		return response.Conflict(c, fmt.Sprintf("A school with code %s already exists", code))
	} else if err != gorm.ErrRecordNotFound {
		return response.InternalServerError(c, err)
	}

	// A same-name school in the same city is almost always a double submit.
	name := validation.SanitizeString(req.Name)
	city := validation.SanitizeString(req.City)
	if city != "" {
		var dup model.School
		err := h.db.Where("LOWER(name) = LOWER(?) AND LOWER(city) = LOWER(?)", name, city).First(&dup).Error
		if err == nil {
			return response.Conflict(c, fmt.Sprintf("A school named %s already exists in %s", dup.Name, dup.City))
		} else if err != gorm.ErrRecordNotFound {
			return response.InternalServerError(c, err)
		}
	}

	school := model.School{
		Code:    code,
		Name:    name,
		Phone:   phone,
		Email:   validation.SanitizeString(req.Email),
		City:    city,
		Address: validation.SanitizeString(req.Address),
		PinCode: validation.SanitizeString(req.PinCode),
	}

	if req.Password != "" {
		if ok, msg := validation.ValidatePassword(req.Password); !ok {
			return response.BadRequest(c, msg)
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return response.InternalServerError(c, err)
		}
		school.PasswordHash = hash
	}

	if err := h.db.Create(&school).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return response.Conflict(c, fmt.Sprintf("A school with code %s already exists", code))
		}
		return response.InternalServerError(c, err)
	}

	return response.Created(c, school)
}

// List handles GET /super-admin/schools
func (h *SchoolHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := h.db.Model(&model.School{})
	if search := validation.SanitizeString(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ? OR LOWER(city) LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, err)
	}

	var schools []model.School
	if err := query.Order("name ASC").Offset((page - 1) * limit).Limit(limit).Find(&schools).Error; err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Paginated(c, schools, response.CalculatePagination(page, limit, total))
}

// Get handles GET /super-admin/schools/:id
func (h *SchoolHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid school id")
	}

	var school model.School
	if err := h.db.First(&school, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "School not found")
		}
		return response.InternalServerError(c, err)
	}

	var studentCount, teacherCount, classCount int64
	h.db.Model(&model.Student{}).Where("school_id = ?", school.ID).Count(&studentCount)
	h.db.Model(&model.Teacher{}).Where("school_id = ?", school.ID).Count(&teacherCount)
	h.db.Model(&model.Class{}).Where("school_id = ?", school.ID).Count(&classCount)

	return response.Success(c, fiber.Map{
		"school": school,
		"counts": fiber.Map{
			"students": studentCount,
			"teachers": teacherCount,
			"classes":  classCount,
		},
	})
}

// Update handles PATCH /super-admin/schools/:id
func (h *SchoolHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid school id")
	}

	var req UpdateSchoolRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	var school model.School
	if err := h.db.First(&school, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "School not found")
		}
		return response.InternalServerError(c, err)
	}

	if req.Code != nil {
		code := validation.SanitizeString(*req.Code)
		if ok, msg := validation.ValidateSchoolCode(code); !ok {
			return response.BadRequest(c, msg)
		}
		code = strings.ToUpper(code)
		if code != school.Code {
			var other model.School
			err := h.db.Where("code = ? AND id <> ?", code, school.ID).First(&other).Error
			if err == nil {
				return response.Conflict(c, fmt.Sprintf("A school with code %s already exists", code))
			} else if err != gorm.ErrRecordNotFound {
				return response.InternalServerError(c, err)
			}
			school.Code = code
		}
	}
	if req.Name != nil {
		name := validation.SanitizeString(*req.Name)
		if name == "" {
			return response.BadRequest(c, "School name cannot be empty")
		}
		school.Name = name
	}
	if req.Phone != nil {
		phone := validation.NormalizePhone(*req.Phone)
		if ok, msg := validation.ValidatePhone(phone); !ok {
			return response.BadRequest(c, msg)
		}
		school.Phone = phone
	}
	if req.Email != nil {
		if *req.Email != "" && !validation.ValidateEmail(*req.Email) {
			return response.BadRequest(c, "Invalid email address")
		}
		school.Email = validation.SanitizeString(*req.Email)
	}
	if req.City != nil {
		school.City = validation.SanitizeString(*req.City)
	}
	if req.Address != nil {
		school.Address = validation.SanitizeString(*req.Address)
	}
	if req.PinCode != nil {
		if *req.PinCode != "" && !validation.ValidatePinCode(*req.PinCode) {
			return response.BadRequest(c, "Invalid pin code")
		}
		school.PinCode = validation.SanitizeString(*req.PinCode)
	}
	if req.Password != nil && *req.Password != "" {
		if ok, msg := validation.ValidatePassword(*req.Password); !ok {
			return response.BadRequest(c, msg)
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return response.InternalServerError(c, err)
		}
		school.PasswordHash = hash
	}

	if (req.Name != nil || req.City != nil) && school.City != "" {
		var dup model.School
		err := h.db.Where("LOWER(name) = LOWER(?) AND LOWER(city) = LOWER(?) AND id <> ?",
			school.Name, school.City, school.ID).First(&dup).Error
		if err == nil {
			return response.Conflict(c, fmt.Sprintf("A school named %s already exists in %s", dup.Name, dup.City))
		} else if err != gorm.ErrRecordNotFound {
			return response.InternalServerError(c, err)
		}
	}

	if err := h.db.Save(&school).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return response.Conflict(c, fmt.Sprintf("A school with code %s already exists", school.Code))
		}
		return response.InternalServerError(c, err)
	}

	return response.Success(c, school)
}

// Delete handles DELETE /super-admin/schools/:id. A tenant with any
// students, teachers or classes cannot be removed; the caller has to clear
// it out first.
func (h *SchoolHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid school id")
	}

	var school model.School
	if err := h.db.First(&school, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "School not found")
		}
		return response.InternalServerError(c, err)
	}

	var studentCount, teacherCount, classCount int64
	if err := h.db.Model(&model.Student{}).Where("school_id = ?", school.ID).Count(&studentCount).Error; err != nil {
		return response.InternalServerError(c, err)
	}
	if err := h.db.Model(&model.Teacher{}).Where("school_id = ?", school.ID).Count(&teacherCount).Error; err != nil {
		return response.InternalServerError(c, err)
	}
	if err := h.db.Model(&model.Class{}).Where("school_id = ?", school.ID).Count(&classCount).Error; err != nil {
		return response.InternalServerError(c, err)
	}

	if studentCount+teacherCount+classCount > 0 {
		return response.Conflict(c, fmt.Sprintf(
			"Cannot delete school with existing data: %d students, %d teachers, %d classes",
			studentCount, teacherCount, classCount))
	}

	if err := h.db.Delete(&school).Error; err != nil {
		return response.InternalServerError(c, err)
	}

	return response.SuccessWithMessage(c, "School deleted", nil)
}
