package services

import (
	"errors"
	"time"

	"github.com/vidyasetu/school-api/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrClassNotFound      = errors.New("class not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrStudentNotActive   = errors.New("student is not active")
	ErrAlreadyEnrolled    = errors.New("student is already enrolled in this class")
)

// EnrollmentService owns the enrollment relation between students and
// classes: create-or-reactivate, transfer, listing and the student
// soft-delete cascade. Every query is scoped to the caller's school, either
// directly or through a join on the class, so cross-tenant rows are
// unreachable by construction.
type EnrollmentService struct {
	db *gorm.DB
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(db *gorm.DB) *EnrollmentService {
	return &EnrollmentService{db: db}
}

// EnrollmentFilter narrows List results. Session is resolved through the
// joined class.
type EnrollmentFilter struct {
	StudentID uint
	ClassID   uint
	IsActive  *bool
	Session   string
	Page      int
	Limit     int
}

// Enroll is registration step 4: create an active enrollment, or reactivate
// the student's previous enrollment in the same class. A (student, class)
// pair never gets a second row. Returns whether an existing row was
// reactivated.
func (s *EnrollmentService) Enroll(schoolID, studentID, classID uint, date *datatypes.Date) (*model.Enrollment, bool, error) {
	var student model.Student
	if err := s.db.Where("id = ? AND school_id = ?", studentID, schoolID).First(&student).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, false, ErrStudentNotFound
		}
		return nil, false, err
	}

	var class model.Class
	if err := s.db.Where("id = ? AND school_id = ?", classID, schoolID).First(&class).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, false, ErrClassNotFound
		}
		return nil, false, err
	}

	if student.Status != model.StudentStatusActive {
		return nil, false, ErrStudentNotActive
	}

	var existing model.Enrollment
	err := s.db.Where("student_id = ? AND class_id = ?", studentID, classID).First(&existing).Error
	if err == nil {
		if existing.IsActive {
			return nil, false, ErrAlreadyEnrolled
		}
		// The student left this class earlier; flip the historical row
		// back to active instead of inserting a duplicate.
		if err := s.db.Model(&existing).Update("is_active", true).Error; err != nil {
			return nil, false, err
		}
		existing.IsActive = true
		return &existing, true, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}

	enrollmentDate := datatypes.Date(time.Now())
	if date != nil {
		enrollmentDate = *date
	}

	enrollment := model.Enrollment{
		StudentID:      studentID,
		ClassID:        classID,
		EnrollmentDate: enrollmentDate,
		IsActive:       true,
	}
	if err := s.db.Create(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, ErrAlreadyEnrolled
		}
		return nil, false, err
	}

	return &enrollment, false, nil
}

// Get fetches one enrollment within the caller's school.
func (s *EnrollmentService) Get(schoolID, id uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := s.db.Preload("Student").Preload("Class").Preload("Class.ClassList").
		Joins("JOIN classes ON classes.id = enrollments.class_id").
		Where("enrollments.id = ? AND classes.school_id = ?", id, schoolID).
		First(&enrollment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrEnrollmentNotFound
		}
		return nil, err
	}
	return &enrollment, nil
}

// List returns enrollments for the caller's school with filters and
// pagination.
func (s *EnrollmentService) List(schoolID uint, filter EnrollmentFilter) ([]model.Enrollment, int64, error) {
	query := s.db.Model(&model.Enrollment{}).
		Joins("JOIN classes ON classes.id = enrollments.class_id").
		Where("classes.school_id = ?", schoolID)

	if filter.StudentID != 0 {
		query = query.Where("enrollments.student_id = ?", filter.StudentID)
	}
	if filter.ClassID != 0 {
		query = query.Where("enrollments.class_id = ?", filter.ClassID)
	}
	if filter.IsActive != nil {
		query = query.Where("enrollments.is_active = ?", *filter.IsActive)
	}
	if filter.Session != "" {
		query = query.Where("classes.session = ?", filter.Session)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	var enrollments []model.Enrollment
	err := query.Preload("Student").Preload("Class").Preload("Class.ClassList").
		Order("enrollments.created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&enrollments).Error
	if err != nil {
		return nil, 0, err
	}

	return enrollments, total, nil
}

// UpdateInput carries the mutable enrollment fields. A new class ID moves
// the row (a transfer); it does not touch any enrollment the student holds
// in the old class.
type UpdateInput struct {
	ClassID        *uint
	IsActive       *bool
	EnrollmentDate *datatypes.Date
}

// Update moves and/or toggles one enrollment. Transfers re-check the
// (student, destination class) uniqueness against rows other than this one.
func (s *EnrollmentService) Update(schoolID, id uint, input UpdateInput) (*model.Enrollment, error) {
	enrollment, err := s.Get(schoolID, id)
	if err != nil {
		return nil, err
	}

	if input.ClassID != nil && *input.ClassID != enrollment.ClassID {
		var class model.Class
		if err := s.db.Where("id = ? AND school_id = ?", *input.ClassID, schoolID).First(&class).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, ErrClassNotFound
			}
			return nil, err
		}

		// A historical (inactive) row at the destination also blocks the
		// move; reactivation must go through Enroll against that row.
		var other model.Enrollment
		err := s.db.Where("student_id = ? AND class_id = ? AND id != ?",
			enrollment.StudentID, *input.ClassID, enrollment.ID).First(&other).Error
		if err == nil {
			return nil, ErrAlreadyEnrolled
		}
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}

		enrollment.ClassID = *input.ClassID
	}

	if input.IsActive != nil {
		enrollment.IsActive = *input.IsActive
	}
	if input.EnrollmentDate != nil {
		enrollment.EnrollmentDate = *input.EnrollmentDate
	}

	// Get preloads Class; saving with associations would let GORM's
	// belongs-to callback write the old Class.ID back over the new
	// foreign key, silently undoing the transfer.
	if err := s.db.Omit(clause.Associations).Save(enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}

	return s.Get(schoolID, enrollment.ID)
}

// Delete hard-deletes one enrollment. Unlike class deletion there is no
// active/inactive guard.
func (s *EnrollmentService) Delete(schoolID, id uint) error {
	enrollment, err := s.Get(schoolID, id)
	if err != nil {
		return err
	}
	return s.db.Delete(&model.Enrollment{}, enrollment.ID).Error
}

// SoftDeleteStudent sets the student's status to inactive and deactivates
// every enrollment the student holds, across all classes. Both writes run
// in one transaction so no partial state is observable.
func (s *EnrollmentService) SoftDeleteStudent(schoolID, studentID uint) (*model.Student, error) {
	var student model.Student
	if err := s.db.Where("id = ? AND school_id = ?", studentID, schoolID).First(&student).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&student).Update("status", model.StudentStatusInactive).Error; err != nil {
			return err
		}
		return tx.Model(&model.Enrollment{}).
			Where("student_id = ?", student.ID).
			Update("is_active", false).Error
	})
	if err != nil {
		return nil, err
	}

	student.Status = model.StudentStatusInactive
	return &student, nil
}

// LatestActiveEnrollment returns the most recently dated active enrollment
// for a student, used as the "current class" for login and display.
func (s *EnrollmentService) LatestActiveEnrollment(studentID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := s.db.Preload("Class").Preload("Class.ClassList").
		Where("student_id = ? AND is_active = ?", studentID, true).
		Order("enrollment_date DESC, id DESC").
		First(&enrollment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrEnrollmentNotFound
		}
		return nil, err
	}
	return &enrollment, nil
}
