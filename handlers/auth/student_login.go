package auth

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/vidyasetu/school-api/model"
	"github.com/vidyasetu/school-api/services"
	authutil "github.com/vidyasetu/school-api/utils/auth"
	"github.com/vidyasetu/school-api/utils/response"
	"github.com/vidyasetu/school-api/utils/validation"
	"gorm.io/gorm"
)

// StudentLoginRequest is the request body for POST /student/login
type StudentLoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// StudentProfile is one entry of the student login response. A profile
// carries a token only when the student is active and enrolled in a class;
// otherwise InfoMessage explains why no token was issued.
type StudentProfile struct {
	StudentID   uint   `json:"student_id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	SchoolID    uint   `json:"school_id"`
	SchoolCode  string `json:"school_code"`
	SchoolName  string `json:"school_name"`
	ClassName   string `json:"class_name,omitempty"`
	Section     string `json:"section,omitempty"`
	Session     string `json:"session,omitempty"`
	Token       string `json:"token,omitempty"`
	InfoMessage string `json:"info_message,omitempty"`
}

// StudentLogin handles POST /student/login. One phone number may back
// student profiles in several schools, so the response is a list: every
// active, enrolled profile gets its own scoped token, while inactive or
// unenrolled profiles come back with an explanation instead.
func (h *AuthHandler) StudentLogin(c *fiber.Ctx) error {
	var req StudentLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Phone == "" || req.Password == "" {
		return response.BadRequest(c, "Phone and password are required")
	}

	phone := validation.NormalizePhone(req.Phone)

	var user model.User
	if err := h.db.Where("phone = ?", phone).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			h.recordFailure(c)
			return response.Unauthorized(c, "Invalid phone or password")
		}
		return response.InternalServerError(c, err)
	}

	if err := authutil.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		h.recordFailure(c)
		return response.Unauthorized(c, "Invalid phone or password")
	}

	var students []model.Student
	if err := h.db.Preload("School").Where("user_id = ?", user.ID).Find(&students).Error; err != nil {
		return response.InternalServerError(c, err)
	}

	if len(students) == 0 {
		return response.NotFound(c, "No student profiles found for this account")
	}

	h.recordSuccess(c)

	enrollments := services.NewEnrollmentService(h.db)

	profiles := make([]StudentProfile, 0, len(students))
	issued := 0

	for _, student := range students {
		profile := StudentProfile{
			StudentID:  student.ID,
			Name:       student.Name,
			Status:     string(student.Status),
			SchoolID:   student.SchoolID,
			SchoolCode: student.School.Code,
			SchoolName: student.School.Name,
		}

		if student.Status != model.StudentStatusActive {
			profile.InfoMessage = fmt.Sprintf("Your account at %s is %s. Please contact the school.", student.School.Name, student.Status)
			profiles = append(profiles, profile)
			continue
		}

		enrollment, err := enrollments.LatestActiveEnrollment(student.ID)
		if err != nil {
			if err == services.ErrEnrollmentNotFound {
				profile.InfoMessage = fmt.Sprintf("You are not enrolled in any class at %s yet.", student.School.Name)
				profiles = append(profiles, profile)
				continue
			}
			return response.InternalServerError(c, err)
		}

		token, err := h.jwtManager.GenerateStudentToken(student.SchoolID, user.ID, student.ID, enrollment.ID)
		if err != nil {
			return response.InternalServerError(c, err)
		}

		profile.Token = token
		profile.ClassName = enrollment.Class.ClassList.Name
		profile.Section = enrollment.Class.Section
		profile.Session = enrollment.Class.Session
		profiles = append(profiles, profile)
		issued++
	}

	if issued == 0 {
		return response.ErrorWithData(c, fiber.StatusUnauthorized, "No active enrolled student profile found", fiber.Map{"profiles": profiles})
	}

	return response.Success(c, fiber.Map{"profiles": profiles})
}
