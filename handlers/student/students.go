package student

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/vidyasetu/school-api/model"
	"github.com/vidyasetu/school-api/services"
	"github.com/vidyasetu/school-api/utils/middleware"
	"github.com/vidyasetu/school-api/utils/response"
	"github.com/vidyasetu/school-api/utils/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StudentHandler manages per-school student profiles, including the first
// and third steps of the registration workflow.
type StudentHandler struct {
	db           *gorm.DB
	registration *services.RegistrationService
	enrollments  *services.EnrollmentService
	validator    *validation.Validator
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(db *gorm.DB, v *validation.Validator) *StudentHandler {
	return &StudentHandler{
		db:           db,
		registration: services.NewRegistrationService(db),
		enrollments:  services.NewEnrollmentService(db),
		validator:    v,
	}
}

func parseDate(s string) (*datatypes.Date, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	d := datatypes.Date(t)
	return &d, nil
}

// CheckPhoneRequest is the request body for POST /school-admin/students/check-phone
type CheckPhoneRequest struct {
	Phone string `json:"phone" validate:"required"`
}

// CheckPhone handles POST /school-admin/students/check-phone. Step 1 of
// registration: a read-only classification telling the admin which step to
// resume at for this phone number. Calling it twice with no state change in
// between returns the same classification.
func (h *StudentHandler) CheckPhone(c *fiber.Ctx) error {
	tenant, _ := middleware.GetTenant(c)
	if tenant == nil {
		return response.Unauthorized(c, "")
	}

	var req CheckPhoneRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Phone == "" {
		return response.BadRequest(c, "Phone is required")
	}

	result, err := h.registration.CheckPhone(tenant.SchoolID, req.Phone)
	if err != nil {
		if err == services.ErrInvalidPhone {
			return response.BadRequest(c, "Invalid phone number")
		}
		return response.InternalServerError(c, err)
	}

	return response.Success(c, result)
}

// CreateStudentRequest is the request body for POST /school-admin/students
type CreateStudentRequest struct {
	UserID       uint   `json:"user_id" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Gender       string `json:"gender"`
	DateOfBirth  string `json:"date_of_birth"`
	GuardianName string `json:"guardian_name"`
	Address      string `json:"address"`
	Status       string `json:"status"`
}

// Create handles POST /school-admin/students (registration step 3).
func (h *StudentHandler) Create(c *fiber.Ctx) error {
	tenant, _ := middleware.GetTenant(c)
	if tenant == nil {
		return response.Unauthorized(c, "")
	}

	var req CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return response.BadRequest(c, "Invalid date_of_birth, expected YYYY-MM-DD")
	}

	student, err := h.registration.CreateStudent(tenant.SchoolID, services.CreateStudentInput{
		UserID:       req.UserID,
		Name:         req.Name,
		Gender:       req.Gender,
		DateOfBirth:  dob,
		GuardianName: req.GuardianName,
		Address:      req.Address,
		Status:       model.StudentStatus(req.Status),
	})
	if err != nil {
		switch err {
		case services.ErrUserNotFound:
			return response.NotFound(c, "User not found")
		case services.ErrStudentExists:
			return response.Conflict(c, "A student already exists for this user in this school")
		case services.ErrInvalidStatus:
			return response.BadRequest(c, "Invalid student status")
		default:
			return response.InternalServerError(c, err)
		}
	}

	return response.Created(c, student)
}

// List handles GET /school-admin/students
func (h *StudentHandler) List(c *fiber.Ctx) error {
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

	query := h.db.Model(&model.Student{}).Where("school_id = ?", tenant.SchoolID)

	if status := c.Query("status"); status != "" {
		if !model.ValidStudentStatus(model.StudentStatus(status)) {
			return response.BadRequest(c, "Invalid student status")
		}
		query = query.Where("status = ?", status)
	}
	if search := validation.SanitizeString(c.Query("search")); search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, err)
	}

	var students []model.Student
	if err := query.Order("name ASC").Offset((page - 1) * limit).Limit(limit).Find(&students).Error; err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Paginated(c, students, response.CalculatePagination(page, limit, total))
}

// Get handles GET /school-admin/students/:id
func (h *StudentHandler) Get(c *fiber.Ctx) error {
	tenant, _ := middleware.GetTenant(c)
	if tenant == nil {
		return response.Unauthorized(c, "")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid student id")
	}

	var student model.Student
	err = h.db.Preload("Enrollments").Preload("Enrollments.Class").Preload("Enrollments.Class.ClassList").
		Where("id = ? AND school_id = ?", id, tenant.SchoolID).
		First(&student).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Student not found")
		}
		return response.InternalServerError(c, err)
	}

	return response.Success(c, student)
}

// UpdateStudentRequest is the request body for PATCH /school-admin/students/:id
type UpdateStudentRequest struct {
	Name         *string `json:"name"`
	Gender       *string `json:"gender"`
	DateOfBirth  *string `json:"date_of_birth"`
	GuardianName *string `json:"guardian_name"`
	Address      *string `json:"address"`
	Status       *string `json:"status"`
}

// Update handles PATCH /school-admin/students/:id. Status moves freely
// between the known values; there is no enforced transition order.
func (h *StudentHandler) Update(c *fiber.Ctx) error {
	tenant, _ := middleware.GetTenant(c)
	if tenant == nil {
		return response.Unauthorized(c, "")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid student id")
	}

	var req UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	var student model.Student
	if err := h.db.Where("id = ? AND school_id = ?", id, tenant.SchoolID).First(&student).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Student not found")
		}
		return response.InternalServerError(c, err)
	}

	if req.Name != nil {
		name := validation.SanitizeString(*req.Name)
		if name == "" {
			return response.BadRequest(c, "Student name cannot be empty")
		}
		student.Name = name
	}
	if req.Gender != nil {
		student.Gender = *req.Gender
	}
	if req.DateOfBirth != nil {
		dob, err := parseDate(*req.DateOfBirth)
		if err != nil {
			return response.BadRequest(c, "Invalid date_of_birth, expected YYYY-MM-DD")
		}
		student.DateOfBirth = dob
	}
	if req.GuardianName != nil {
		student.GuardianName = validation.SanitizeString(*req.GuardianName)
	}
	if req.Address != nil {
		student.Address = validation.SanitizeString(*req.Address)
	}
	if req.Status != nil {
		status := model.StudentStatus(*req.Status)
		if !model.ValidStudentStatus(status) {
			return response.BadRequest(c, "Invalid student status")
		}
		student.Status = status
	}

	if err := h.db.Save(&student).Error; err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Success(c, student)
}

// Delete handles DELETE /school-admin/students/:id. The default is a soft
// delete: the student goes inactive and every enrollment is deactivated in
// the same transaction. ?hard=true removes the row and its enrollment
// history for good.
func (h *StudentHandler) Delete(c *fiber.Ctx) error {
	tenant, _ := middleware.GetTenant(c)
	if tenant == nil {
		return response.Unauthorized(c, "")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid student id")
	}

	if c.QueryBool("hard", false) {
		var student model.Student
		if err := h.db.Where("id = ? AND school_id = ?", id, tenant.SchoolID).First(&student).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return response.NotFound(c, "Student not found")
			}
			return response.InternalServerError(c, err)
		}
		err := h.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("student_id = ?", student.ID).Delete(&model.Enrollment{}).Error; err != nil {
				return err
			}
			return tx.Delete(&student).Error
		})
		if err != nil {
			return response.InternalServerError(c, err)
		}
		return response.SuccessWithMessage(c, "Student permanently deleted", nil)
	}

	student, err := h.enrollments.SoftDeleteStudent(tenant.SchoolID, uint(id))
	if err != nil {
		if err == services.ErrStudentNotFound {
			return response.NotFound(c, "Student not found")
		}
		return response.InternalServerError(c, err)
	}

	return response.SuccessWithMessage(c, "Student deactivated", student)
}
