package services

import (
	"errors"
	"time"

	"github.com/vidyasetu/school-api/model"
	"github.com/vidyasetu/school-api/utils/auth"
	"github.com/vidyasetu/school-api/utils/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrPhoneTaken      = errors.New("a user with this phone number already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrStudentExists   = errors.New("a student already exists for this user in this school")
	ErrInvalidPhone    = errors.New("invalid phone number")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidStatus   = errors.New("invalid student status")
)

// CheckPhoneStatus classifies where a phone number stands in the
// registration workflow. The admin UI branches on this to resume a
// partially completed registration at the right step.
type CheckPhoneStatus string

const (
	CheckStatusNeedsUser       CheckPhoneStatus = "needs-user-creation"
	CheckStatusNeedsStudent    CheckPhoneStatus = "needs-student-creation"
	CheckStatusNeedsEnrollment CheckPhoneStatus = "needs-enrollment"
	CheckStatusAlreadyEnrolled CheckPhoneStatus = "already-enrolled"
)

// CheckPhoneResult is the outcome of registration step 1.
type CheckPhoneResult struct {
	Status            CheckPhoneStatus   `json:"status"`
	Phone             string             `json:"phone"`
	UserID            uint               `json:"user_id,omitempty"`
	Student           *model.Student     `json:"student,omitempty"`
	ActiveEnrollments []model.Enrollment `json:"active_enrollments,omitempty"`
}

// RegistrationService drives the four-step student onboarding saga:
// check phone, create user, create student, create enrollment. Each step is
// committed independently; a step's precondition check doubles as the
// resumption logic when an earlier run stopped partway.
type RegistrationService struct {
	db *gorm.DB
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(db *gorm.DB) *RegistrationService {
	return &RegistrationService{db: db}
}

// ClassifyPhoneCheck derives the workflow status from what already exists.
func ClassifyPhoneCheck(userExists bool, student *model.Student, activeEnrollments []model.Enrollment) CheckPhoneStatus {
	if !userExists {
		return CheckStatusNeedsUser
	}
	if student == nil {
		return CheckStatusNeedsStudent
	}
	if len(activeEnrollments) > 0 {
		return CheckStatusAlreadyEnrolled
	}
	return CheckStatusNeedsEnrollment
}

// CheckPhone is step 1: a read-only, idempotent classification of a phone
// number relative to the calling school.
func (s *RegistrationService) CheckPhone(schoolID uint, rawPhone string) (*CheckPhoneResult, error) {
	phone := validation.NormalizePhone(rawPhone)
	if ok, _ := validation.ValidatePhone(phone); !ok {
		return nil, ErrInvalidPhone
	}

	result := &CheckPhoneResult{Phone: phone}

	var user model.User
	if err := s.db.Where("phone = ?", phone).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			result.Status = ClassifyPhoneCheck(false, nil, nil)
			return result, nil
		}
		return nil, err
	}
	result.UserID = user.ID

	var student model.Student
	if err := s.db.Where("user_id = ? AND school_id = ?", user.ID, schoolID).First(&student).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			result.Status = ClassifyPhoneCheck(true, nil, nil)
			return result, nil
		}
		return nil, err
	}
	result.Student = &student

	var active []model.Enrollment
	if err := s.db.Preload("Class").Preload("Class.ClassList").
		Where("student_id = ? AND is_active = ?", student.ID, true).
		Find(&active).Error; err != nil {
		return nil, err
	}

	result.ActiveEnrollments = active
	result.Status = ClassifyPhoneCheck(true, &student, active)
	return result, nil
}

// CreateUser is step 2: provision the login identity for a phone number.
// The unique index on phone is the backstop when two requests race past the
// pre-check; both paths report the same conflict.
func (s *RegistrationService) CreateUser(rawPhone, password string) (*model.User, error) {
	phone := validation.NormalizePhone(rawPhone)
	if ok, _ := validation.ValidatePhone(phone); !ok {
		return nil, ErrInvalidPhone
	}
	if ok, _ := validation.ValidatePassword(password); !ok {
		return nil, ErrInvalidPassword
	}

	var existing model.User
	if err := s.db.Where("phone = ?", phone).First(&existing).Error; err == nil {
		return nil, ErrPhoneTaken
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := model.User{Phone: phone, PasswordHash: hash}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPhoneTaken
		}
		return nil, err
	}

	return &user, nil
}

// CreateStudentInput carries the step 3 fields.
type CreateStudentInput struct {
	UserID       uint
	Name         string
	Gender       string
	DateOfBirth  *datatypes.Date
	GuardianName string
	Address      string
	Status       model.StudentStatus
}

// CreateStudent is step 3: provision the per-school profile for an existing
// user. At most one profile may exist per (user, school).
func (s *RegistrationService) CreateStudent(schoolID uint, input CreateStudentInput) (*model.Student, error) {
	var user model.User
	if err := s.db.First(&user, input.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var existing model.Student
	if err := s.db.Where("user_id = ? AND school_id = ?", input.UserID, schoolID).First(&existing).Error; err == nil {
		return nil, ErrStudentExists
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = model.StudentStatusActive
	}
	if !model.ValidStudentStatus(status) {
		return nil, ErrInvalidStatus
	}

	student := model.Student{
		SchoolID:       schoolID,
		UserID:         input.UserID,
		Name:           validation.SanitizeString(input.Name),
		Gender:         input.Gender,
		DateOfBirth:    input.DateOfBirth,
		GuardianName:   validation.SanitizeString(input.GuardianName),
		Address:        validation.SanitizeString(input.Address),
		Status:         status,
		EnrollmentDate: datatypes.Date(time.Now()),
	}

	if err := s.db.Create(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrStudentExists
		}
		return nil, err
	}

	return &student, nil
}
