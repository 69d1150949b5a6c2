package enrollment

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/vidyasetu/school-api/services"
	"github.com/vidyasetu/school-api/utils/middleware"
	"github.com/vidyasetu/school-api/utils/response"
	"github.com/vidyasetu/school-api/utils/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EnrollmentHandler is the HTTP surface over the enrollment service,
// including registration step 4.
type EnrollmentHandler struct {
	enrollments *services.EnrollmentService
	validator   *validation.Validator
}

// NewEnrollmentHandler creates a new enrollment handler
func NewEnrollmentHandler(db *gorm.DB, v *validation.Validator) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollments: services.NewEnrollmentService(db),
		validator:   v,
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

// CreateEnrollmentRequest is the request body for POST /school-admin/enrollments
type CreateEnrollmentRequest struct {
	StudentID      uint   `json:"student_id" validate:"required"`
	ClassID        uint   `json:"class_id" validate:"required"`
	EnrollmentDate string `json:"enrollment_date"`
}

// Create handles POST /school-admin/enrollments (registration step 4).
// Re-enrolling a student who previously left the class reactivates the old
// row, reported via the response message.
func (h *EnrollmentHandler) Create(c *fiber.Ctx) error {
	tenant, _ := middleware.GetTenant(c)
	if tenant == nil {
		return response.Unauthorized(c, "")
	}

	var req CreateEnrollmentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	date, err := parseDate(req.EnrollmentDate)
	if err != nil {
		return response.BadRequest(c, "Invalid enrollment_date, expected YYYY-MM-DD")
	}

	enrollment, reactivated, err := h.enrollments.Enroll(tenant.SchoolID, req.StudentID, req.ClassID, date)
	if err != nil {
		switch err {
		case services.ErrStudentNotFound:
			return response.NotFound(c, "Student not found")
		case services.ErrClassNotFound:
			return response.NotFound(c, "Class not found")
		case services.ErrStudentNotActive:
			return response.Conflict(c, "Student is not active")
		case services.ErrAlreadyEnrolled:
			return response.Conflict(c, "Student is already enrolled in this class")
		default:
			return response.InternalServerError(c, err)
		}
	}

	if reactivated {
		return response.SuccessWithMessage(c, "Previous enrollment reactivated", enrollment)
	}
	return response.Created(c, enrollment)
}

// List handles GET /school-admin/enrollments
func (h *EnrollmentHandler) List(c *fiber.Ctx) error {
	tenant, _ := middleware.GetTenant(c)
	if tenant == nil {
		return response.Unauthorized(c, "")
	}

	filter := services.EnrollmentFilter{
		StudentID: uint(c.QueryInt("student_id", 0)),
		ClassID:   uint(c.QueryInt("class_id", 0)),
		Session:   c.Query("session"),
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 20),
	}
	if raw := c.Query("is_active"); raw != "" {
		active := c.QueryBool("is_active")
		filter.IsActive = &active
	}

	enrollments, total, err := h.enrollments.List(tenant.SchoolID, filter)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Paginated(c, enrollments, response.CalculatePagination(filter.Page, filter.Limit, total))
}

// Get handles GET /school-admin/enrollments/:id
func (h *EnrollmentHandler) Get(c *fiber.Ctx) error {
	tenant, _ := middleware.GetTenant(c)
	if tenant == nil {
		return response.Unauthorized(c, "")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid enrollment id")
	}

	enrollment, err := h.enrollments.Get(tenant.SchoolID, uint(id))
	if err != nil {
		if err == services.ErrEnrollmentNotFound {
			return response.NotFound(c, "Enrollment not found")
		}
		return response.InternalServerError(c, err)
	}

	return response.Success(c, enrollment)
}

// UpdateEnrollmentRequest is the request body for PATCH /school-admin/enrollments/:id
type UpdateEnrollmentRequest struct {
	ClassID        *uint   `json:"class_id"`
	IsActive       *bool   `json:"is_active"`
	EnrollmentDate *string `json:"enrollment_date"`
}

// Update handles PATCH /school-admin/enrollments/:id. A new class_id is a
// transfer; any enrollment the student holds in the old class is left as-is.
func (h *EnrollmentHandler) Update(c *fiber.Ctx) error {
	tenant, _ := middleware.GetTenant(c)
	if tenant == nil {
		return response.Unauthorized(c, "")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid enrollment id")
	}

	var req UpdateEnrollmentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := services.UpdateInput{
		ClassID:  req.ClassID,
		IsActive: req.IsActive,
	}
	if req.EnrollmentDate != nil {
		date, err := parseDate(*req.EnrollmentDate)
		if err != nil || date == nil {
			return response.BadRequest(c, "Invalid enrollment_date, expected YYYY-MM-DD")
		}
		input.EnrollmentDate = date
	}

	enrollment, err := h.enrollments.Update(tenant.SchoolID, uint(id), input)
	if err != nil {
		switch err {
		case services.ErrEnrollmentNotFound:
			return response.NotFound(c, "Enrollment not found")
		case services.ErrClassNotFound:
			return response.NotFound(c, "Class not found")
		case services.ErrAlreadyEnrolled:
			return response.Conflict(c, "Student already has an enrollment in the target class")
		default:
			return response.InternalServerError(c, err)
		}
	}

	return response.Success(c, enrollment)
}

// Delete handles DELETE /school-admin/enrollments/:id. This is a hard
// delete of the single row; deactivation is PATCH with is_active=false.
func (h *EnrollmentHandler) Delete(c *fiber.Ctx) error {
	tenant, _ := middleware.GetTenant(c)
	if tenant == nil {
		return response.Unauthorized(c, "")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid enrollment id")
	}

	if err := h.enrollments.Delete(tenant.SchoolID, uint(id)); err != nil {
		if err == services.ErrEnrollmentNotFound {
			return response.NotFound(c, "Enrollment not found")
		}
		return response.InternalServerError(c, err)
	}

	return response.SuccessWithMessage(c, "Enrollment deleted", nil)
}
