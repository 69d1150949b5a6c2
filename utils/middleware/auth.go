package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/vidyasetu/school-api/model"
	"github.com/vidyasetu/school-api/utils/auth"
	"github.com/vidyasetu/school-api/utils/response"
	"gorm.io/gorm"
)

// TenantContext is the tenant identity resolved from a school-admin (or
// student) token. Handlers read it instead of raw claims.
type TenantContext struct {
	SchoolID   uint
	SchoolCode string
	SchoolName string
}

// StudentContext carries the student-specific identifiers on top of the
// tenant identity.
type StudentContext struct {
	TenantContext
	UserID       uint
	StudentID    uint
	EnrollmentID uint
}

// AuthMiddleware resolves bearer tokens into typed contexts. Tokens are
// stateless; a deleted school's tokens fail at the existence lookup here,
// not at deletion time.
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	db         *gorm.DB
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *auth.JWTManager, db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		db:         db,
	}
}

// authenticate extracts and validates the bearer token. The checks run in a
// fixed order: presence, signature/expiry, then the caller checks role.
func (m *AuthMiddleware) authenticate(c *fiber.Ctx) (*auth.Claims, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, response.Unauthorized(c, "Missing authorization token")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, response.Unauthorized(c, "Invalid authorization format")
	}

	claims, err := m.jwtManager.ValidateToken(parts[1])
	if err != nil {
		if err == auth.ErrExpiredToken {
			return nil, response.Unauthorized(c, "Token has expired")
		}
		return nil, response.Unauthorized(c, "Invalid token")
	}

	return claims, nil
}

// resolveSchool verifies the token's school still exists and builds the
// tenant context.
func (m *AuthMiddleware) resolveSchool(c *fiber.Ctx, claims *auth.Claims) (*TenantContext, error) {
	if claims.SchoolID == 0 {
		return nil, response.Unauthorized(c, "Malformed token: missing school")
	}

	var school model.School
	if err := m.db.First(&school, claims.SchoolID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, response.Unauthorized(c, "School no longer exists")
		}
		return nil, response.InternalServerError(c, err)
	}

	return &TenantContext{
		SchoolID:   school.ID,
		SchoolCode: school.Code,
		SchoolName: school.Name,
	}, nil
}

// RequireSuperAdmin admits only platform-admin tokens.
func (m *AuthMiddleware) RequireSuperAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := m.authenticate(c)
		if claims == nil {
			return err
		}

		if claims.Role != auth.RoleSuperAdmin {
			return response.Unauthorized(c, "Insufficient permissions")
		}

		return c.Next()
	}
}

// RequireSchoolAdmin admits school-admin tokens whose school still exists
// and stores the tenant context for downstream handlers.
func (m *AuthMiddleware) RequireSchoolAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := m.authenticate(c)
		if claims == nil {
			return err
		}

		if claims.Role != auth.RoleSchoolAdmin {
			return response.Unauthorized(c, "Insufficient permissions")
		}

		tenant, err := m.resolveSchool(c, claims)
		if tenant == nil {
			return err
		}

		c.Locals("tenant", tenant)
		return c.Next()
	}
}

// RequireStudent admits student tokens, resolving the same tenant context
// plus the student identifiers.
func (m *AuthMiddleware) RequireStudent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := m.authenticate(c)
		if claims == nil {
			return err
		}

		if claims.Role != auth.RoleStudent {
			return response.Unauthorized(c, "Insufficient permissions")
		}

		tenant, err := m.resolveSchool(c, claims)
		if tenant == nil {
			return err
		}

		sc := &StudentContext{
			TenantContext: *tenant,
			UserID:        claims.UserID,
			StudentID:     claims.StudentID,
			EnrollmentID:  claims.EnrollmentID,
		}
		c.Locals("tenant", tenant)
		c.Locals("student", sc)
		return c.Next()
	}
}

// GetTenant extracts the tenant context from request locals
func GetTenant(c *fiber.Ctx) (*TenantContext, bool) {
	tenant := c.Locals("tenant")
	if tenant == nil {
		return nil, false
	}
	t, ok := tenant.(*TenantContext)
	return t, ok
}

// GetStudent extracts the student context from request locals
func GetStudent(c *fiber.Ctx) (*StudentContext, bool) {
	student := c.Locals("student")
	if student == nil {
		return nil, false
	}
	s, ok := student.(*StudentContext)
	return s, ok
}

// MatchSchoolCode compares a client-supplied school code against the
// authenticated tenant's code, case-insensitively. An absent client code
// defaults to the authenticated tenant and matches.
func MatchSchoolCode(tenant *TenantContext, clientCode string) bool {
	if clientCode == "" {
		return true
	}
	return strings.EqualFold(clientCode, tenant.SchoolCode)
}
