package user

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vidyasetu/school-api/services"
	"github.com/vidyasetu/school-api/utils/response"
	"github.com/vidyasetu/school-api/utils/validation"
	"gorm.io/gorm"
)

// UserHandler exposes registration step 2: creating the shared login
// identity for a phone number.
type UserHandler struct {
	registration *services.RegistrationService
	validator    *validation.Validator
}

// NewUserHandler creates a new user handler
func NewUserHandler(db *gorm.DB, v *validation.Validator) *UserHandler {
	return &UserHandler{
		registration: services.NewRegistrationService(db),
		validator:    v,
	}
}

// CreateUserRequest is the request body for POST /school-admin/users
type CreateUserRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Create handles POST /school-admin/users. Users are global, not tenant
// rows; the school admin creating one is just the first school to see this
// phone number.
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	user, err := h.registration.CreateUser(req.Phone, req.Password)
	if err != nil {
		switch err {
		case services.ErrInvalidPhone:
			return response.BadRequest(c, "Invalid phone number")
		case services.ErrInvalidPassword:
			return response.BadRequest(c, "Password must be at least 6 characters")
		case services.ErrPhoneTaken:
			return response.Conflict(c, "A user with this phone number already exists")
		default:
			return response.InternalServerError(c, err)
		}
	}

	return response.Created(c, fiber.Map{
		"id":    user.ID,
		"phone": user.Phone,
	})
}
