package teacher

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vidyasetu/school-api/model"
	"github.com/vidyasetu/school-api/utils/middleware"
	"github.com/vidyasetu/school-api/utils/response"
	"github.com/vidyasetu/school-api/utils/validation"
	"gorm.io/gorm"
)

// TeacherHandler manages a school's staff profiles.
type TeacherHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewTeacherHandler creates a new teacher handler
func NewTeacherHandler(db *gorm.DB, v *validation.Validator) *TeacherHandler {
	return &TeacherHandler{db: db, validator: v}
}

// CreateTeacherRequest is the request body for POST /school-admin/teachers
type CreateTeacherRequest struct {
	Name           string `json:"name" validate:"required"`
	Phone          string `json:"phone" validate:"required"`
	Email          string `json:"email"`
	Specialization string `json:"specialization"`
}

// UpdateTeacherRequest is the request body for PATCH /school-admin/teachers/:id
type UpdateTeacherRequest struct {
	Name           *string `json:"name"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"`
	Specialization *string `json:"specialization"`
}

// Create handles POST /school-admin/teachers
func (h *TeacherHandler) Create(c *fiber.Ctx) error {
	tenant, _ := middleware.GetTenant(c)
	if tenant == nil {
		return response.Unauthorized(c, "")
	}

	var req CreateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	phone := validation.NormalizePhone(req.Phone)
	if ok, msg := validation.ValidatePhone(phone); !ok {
		return response.BadRequest(c, msg)
	}
	if req.Email != "" && !validation.ValidateEmail(req.Email) {
		return response.BadRequest(c, "Invalid email address")
	}

	teacher := model.Teacher{
		SchoolID:       tenant.SchoolID,
		Name:           validation.SanitizeString(req.Name),
		Phone:          phone,
		Email:          validation.SanitizeString(req.Email),
		Specialization: validation.SanitizeString(req.Specialization),
	}

	if err := h.db.Create(&teacher).Error; err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Created(c, teacher)
}

// List handles GET /school-admin/teachers
func (h *TeacherHandler) List(c *fiber.Ctx) error {
	tenant, _ := middleware.GetTenant(c)
	if tenant == nil {
		return response.Unauthorized(c, "")
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := h.db.Model(&model.Teacher{}).Where("school_id = ?", tenant.SchoolID)
	if search := validation.SanitizeString(c.Query("search")); search != "" {
		like := "%" + search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(specialization) LIKE LOWER(?)", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, err)
	}

	var teachers []model.Teacher
	if err := query.Order("name ASC").Offset((page - 1) * limit).Limit(limit).Find(&teachers).Error; err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Paginated(c, teachers, response.CalculatePagination(page, limit, total))
}

// Get handles GET /school-admin/teachers/:id
func (h *TeacherHandler) Get(c *fiber.Ctx) error {
	tenant, _ := middleware.GetTenant(c)
	if tenant == nil {
		return response.Unauthorized(c, "")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid teacher id")
	}

	var teacher model.Teacher
	if err := h.db.Where("id = ? AND school_id = ?", id, tenant.SchoolID).First(&teacher).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Teacher not found")
		}
		return response.InternalServerError(c, err)
	}

	return response.Success(c, teacher)
}

// Update handles PATCH /school-admin/teachers/:id
func (h *TeacherHandler) Update(c *fiber.Ctx) error {
	tenant, _ := middleware.GetTenant(c)
	if tenant == nil {
		return response.Unauthorized(c, "")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid teacher id")
	}

	var req UpdateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	var teacher model.Teacher
	if err := h.db.Where("id = ? AND school_id = ?", id, tenant.SchoolID).First(&teacher).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Teacher not found")
		}
		return response.InternalServerError(c, err)
	}

	if req.Name != nil {
		name := validation.SanitizeString(*req.Name)
		if name == "" {
			return response.BadRequest(c, "Teacher name cannot be empty")
		}
		teacher.Name = name
	}
	if req.Phone != nil {
		phone := validation.NormalizePhone(*req.Phone)
		if ok, msg := validation.ValidatePhone(phone); !ok {
			return response.BadRequest(c, msg)
		}
		teacher.Phone = phone
	}
	if req.Email != nil {
		if *req.Email != "" && !validation.ValidateEmail(*req.Email) {
			return response.BadRequest(c, "Invalid email address")
		}
		teacher.Email = validation.SanitizeString(*req.Email)
	}
	if req.Specialization != nil {
		teacher.Specialization = validation.SanitizeString(*req.Specialization)
	}

	if err := h.db.Save(&teacher).Error; err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Success(c, teacher)
}

// Delete handles DELETE /school-admin/teachers/:id
func (h *TeacherHandler) Delete(c *fiber.Ctx) error {
	tenant, _ := middleware.GetTenant(c)
	if tenant == nil {
		return response.Unauthorized(c, "")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid teacher id")
	}

	var teacher model.Teacher
	if err := h.db.Where("id = ? AND school_id = ?", id, tenant.SchoolID).First(&teacher).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Teacher not found")
		}
		return response.InternalServerError(c, err)
	}

	if err := h.db.Delete(&teacher).Error; err != nil {
		return response.InternalServerError(c, err)
	}

	return response.SuccessWithMessage(c, "Teacher deleted", nil)
}
