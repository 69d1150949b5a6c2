package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/vidyasetu/school-api/model"
	authutil "github.com/vidyasetu/school-api/utils/auth"
	"github.com/vidyasetu/school-api/utils/middleware"
	"github.com/vidyasetu/school-api/utils/response"
	"github.com/vidyasetu/school-api/utils/validation"
	"gorm.io/gorm"
)

// AuthHandler handles the three login flows: platform super admin, school
// admin (by school code) and student (by phone).
type AuthHandler struct {
	db                   *gorm.DB
	jwtManager           *authutil.JWTManager
	bruteForceProtection *middleware.BruteForceProtection
	superAdminEmail      string
	superAdminHash       string
}

// NewAuthHandler creates a new auth handler. The super-admin credential is
// hashed once here so the plaintext from the environment is not kept around.
func NewAuthHandler(db *gorm.DB, jwtManager *authutil.JWTManager, bfp *middleware.BruteForceProtection, superAdminEmail, superAdminPassword string) (*AuthHandler, error) {
	h := &AuthHandler{
		db:                   db,
		jwtManager:           jwtManager,
		bruteForceProtection: bfp,
		superAdminEmail:      superAdminEmail,
	}

	if superAdminPassword != "" {
		hash, err := authutil.HashPassword(superAdminPassword)
		if err != nil {
			return nil, err
		}
		h.superAdminHash = hash
	}

	return h, nil
}

func (h *AuthHandler) recordFailure(c *fiber.Ctx) {
	if h.bruteForceProtection != nil {
		h.bruteForceProtection.RecordFailedAttempt(c)
	}
}

func (h *AuthHandler) recordSuccess(c *fiber.Ctx) {
	if h.bruteForceProtection != nil {
		h.bruteForceProtection.RecordSuccessfulAttempt(c)
	}
}

// SuperAdminLoginRequest is the request body for POST /super-admin/login
type SuperAdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SuperAdminLogin handles POST /super-admin/login
func (h *AuthHandler) SuperAdminLogin(c *fiber.Ctx) error {
	var req SuperAdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return response.BadRequest(c, "Email and password are required")
	}

	if h.superAdminHash == "" || !strings.EqualFold(req.Email, h.superAdminEmail) {
		h.recordFailure(c)
		return response.Unauthorized(c, "Invalid email or password")
	}

	if err := authutil.VerifyPassword(h.superAdminHash, req.Password); err != nil {
		h.recordFailure(c)
		return response.Unauthorized(c, "Invalid email or password")
	}

	h.recordSuccess(c)

	token, err := h.jwtManager.GenerateSuperAdminToken()
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Success(c, fiber.Map{"token": token})
}

// SchoolAdminLoginRequest is the request body for POST /school-admin/login
type SchoolAdminLoginRequest struct {
	SchoolCode string `json:"school_code"`
	Password   string `json:"password"`
}

// SchoolAdminLogin handles POST /school-admin/login. The school code match
// is case-insensitive; codes are stored uppercase.
func (h *AuthHandler) SchoolAdminLogin(c *fiber.Ctx) error {
	var req SchoolAdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.SchoolCode == "" || req.Password == "" {
		return response.BadRequest(c, "School code and password are required")
	}

	code := strings.ToUpper(validation.SanitizeString(req.SchoolCode))

	var school model.School
	if err := h.db.Where("code = ?", code).First(&school).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			h.recordFailure(c)
			return response.Unauthorized(c, "Invalid school code or password")
		}
		return response.InternalServerError(c, err)
	}

	if school.PasswordHash == "" {
		h.recordFailure(c)
		return response.Unauthorized(c, "Admin login is not enabled for this school")
	}

	if err := authutil.VerifyPassword(school.PasswordHash, req.Password); err != nil {
		h.recordFailure(c)
		return response.Unauthorized(c, "Invalid school code or password")
	}

	h.recordSuccess(c)

	token, err := h.jwtManager.GenerateSchoolAdminToken(school.ID)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Success(c, fiber.Map{
		"token": token,
		"school": fiber.Map{
			"id":   school.ID,
			"code": school.Code,
			"name": school.Name,
		},
	})
}
