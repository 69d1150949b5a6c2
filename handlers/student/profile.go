package student

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vidyasetu/school-api/model"
	"github.com/vidyasetu/school-api/services"
	"github.com/vidyasetu/school-api/utils/middleware"
	"github.com/vidyasetu/school-api/utils/response"
	"gorm.io/gorm"
)

// Me handles GET /student/me: the profile behind the student token, with the
// current class and its curriculum. Clients that pin a school send the code
// in X-School-Code; a mismatch against the token's school is rejected.
func (h *StudentHandler) Me(c *fiber.Ctx) error {
	sc, _ := middleware.GetStudent(c)
	if sc == nil {
		return response.Unauthorized(c, "")
	}

	if !middleware.MatchSchoolCode(&sc.TenantContext, c.Get("X-School-Code")) {
		return response.Unauthorized(c, "School code does not match this account")
	}

	var student model.Student
	err := h.db.Preload("School").
		Where("id = ? AND school_id = ?", sc.StudentID, sc.SchoolID).
		First(&student).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Student not found")
		}
		return response.InternalServerError(c, err)
	}

	// The token pins a specific enrollment; fall back to the latest active
	// one if that row has since been removed.
	var enrollment *model.Enrollment
	if sc.EnrollmentID != 0 {
		enrollment, err = h.enrollments.Get(sc.SchoolID, sc.EnrollmentID)
		if err != nil && err != services.ErrEnrollmentNotFound {
			return response.InternalServerError(c, err)
		}
	}
	if enrollment == nil {
		enrollment, err = h.enrollments.LatestActiveEnrollment(student.ID)
		if err != nil && err != services.ErrEnrollmentNotFound {
			return response.InternalServerError(c, err)
		}
	}

	payload := fiber.Map{
		"student": student,
		"school": fiber.Map{
			"id":   student.School.ID,
			"code": student.School.Code,
			"name": student.School.Name,
		},
	}

	if enrollment != nil {
		var links []model.SubjectClass
		err = h.db.Preload("Subject").
			Preload("Chapters", func(db *gorm.DB) *gorm.DB {
				return db.Order("chapters.number ASC")
			}).
			Where("class_list_id = ?", enrollment.Class.ClassListID).
			Find(&links).Error
		if err != nil {
			return response.InternalServerError(c, err)
		}

		payload["enrollment"] = enrollment
		payload["subjects"] = links
	}

	return response.Success(c, payload)
}
