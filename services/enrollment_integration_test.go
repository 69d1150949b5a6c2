package services

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/vidyasetu/school-api/database"
	"github.com/vidyasetu/school-api/model"
	"gorm.io/gorm"
)

// testDB connects to the real database. These tests exercise the unique
// indexes and transactional cascades, which sqlite or mocks would not prove.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=true to run")
	}

	_ = godotenv.Load("../.env")

	store, err := database.StartGORM()
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		t.Fatal("Failed to get GORM DB instance")
	}

	t.Cleanup(func() { store.Close() })
	return db
}

type fixture struct {
	school  model.School
	user    model.User
	student model.Student
	classA  model.Class
	classB  model.Class
}

func setupFixture(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()

	nano := time.Now().UnixNano()

	f := &fixture{}
	f.school = model.School{
		Code:  fmt.Sprintf("T%d", nano%1_000_000_000),
		Name:  "Integration Test School",
		Phone: "9876543210",
	}
	if err := db.Create(&f.school).Error; err != nil {
		t.Fatalf("create school: %v", err)
	}

	classList := model.ClassList{
		ClassNumber: 9,
		Code:        fmt.Sprintf("T9-%d", nano%1_000_000),
		Name:        "Class 9 (test)",
	}
	if err := db.Create(&classList).Error; err != nil {
		t.Fatalf("create class list: %v", err)
	}

	f.classA = model.Class{SchoolID: f.school.ID, ClassListID: classList.ID, Session: "2025-26", Section: "A"}
	f.classB = model.Class{SchoolID: f.school.ID, ClassListID: classList.ID, Session: "2025-26", Section: "B"}
	if err := db.Create(&f.classA).Error; err != nil {
		t.Fatalf("create class A: %v", err)
	}
	if err := db.Create(&f.classB).Error; err != nil {
		t.Fatalf("create class B: %v", err)
	}

	f.user = model.User{Phone: fmt.Sprintf("9%09d", nano%1_000_000_000), PasswordHash: "x"}
	if err := db.Create(&f.user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	f.student = model.Student{
		SchoolID: f.school.ID,
		UserID:   f.user.ID,
		Name:     "Test Student",
		Status:   model.StudentStatusActive,
	}
	if err := db.Create(&f.student).Error; err != nil {
		t.Fatalf("create student: %v", err)
	}

	t.Cleanup(func() {
		db.Where("student_id = ?", f.student.ID).Delete(&model.Enrollment{})
		db.Delete(&f.student)
		db.Delete(&f.user)
		db.Delete(&f.classA)
		db.Delete(&f.classB)
		db.Delete(&classList)
		db.Delete(&f.school)
	})

	return f
}

func TestEnrollCreateDuplicateAndReactivate(t *testing.T) {
	db := testDB(t)
	f := setupFixture(t, db)
	svc := NewEnrollmentService(db)

	enrollment, reactivated, err := svc.Enroll(f.school.ID, f.student.ID, f.classA.ID, nil)
	if err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}
	if reactivated {
		t.Error("first enrollment reported as reactivated")
	}
	if !enrollment.IsActive {
		t.Error("new enrollment is not active")
	}

	if _, _, err := svc.Enroll(f.school.ID, f.student.ID, f.classA.ID, nil); err != ErrAlreadyEnrolled {
		t.Errorf("duplicate Enroll: err = %v, want ErrAlreadyEnrolled", err)
	}

	inactive := false
	if _, err := svc.Update(f.school.ID, enrollment.ID, UpdateInput{IsActive: &inactive}); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	again, reactivated, err := svc.Enroll(f.school.ID, f.student.ID, f.classA.ID, nil)
	if err != nil {
		t.Fatalf("re-Enroll failed: %v", err)
	}
	if !reactivated {
		t.Error("re-enrollment did not report reactivation")
	}
	if again.ID != enrollment.ID {
		t.Errorf("reactivation created a new row: got id %d, want %d", again.ID, enrollment.ID)
	}

	var count int64
	db.Model(&model.Enrollment{}).
		Where("student_id = ? AND class_id = ?", f.student.ID, f.classA.ID).
		Count(&count)
	if count != 1 {
		t.Errorf("enrollment rows for (student, class) = %d, want 1", count)
	}
}

func TestTransferMovesEnrollmentToNewClass(t *testing.T) {
	db := testDB(t)
	f := setupFixture(t, db)
	svc := NewEnrollmentService(db)

	enrollment, _, err := svc.Enroll(f.school.ID, f.student.ID, f.classA.ID, nil)
	if err != nil {
		t.Fatalf("Enroll into A failed: %v", err)
	}

	moved, err := svc.Update(f.school.ID, enrollment.ID, UpdateInput{ClassID: &f.classB.ID})
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if moved.ClassID != f.classB.ID {
		t.Errorf("returned ClassID = %d, want %d", moved.ClassID, f.classB.ID)
	}

	// The row itself must point at the new class, not just the response.
	var row model.Enrollment
	if err := db.First(&row, enrollment.ID).Error; err != nil {
		t.Fatalf("reload enrollment: %v", err)
	}
	if row.ClassID != f.classB.ID {
		t.Errorf("stored ClassID = %d, want %d (transfer was undone on save)", row.ClassID, f.classB.ID)
	}
	if !row.IsActive {
		t.Error("transferred enrollment is no longer active")
	}
}

func TestTransferDoesNotTouchOtherEnrollments(t *testing.T) {
	db := testDB(t)
	f := setupFixture(t, db)
	svc := NewEnrollmentService(db)

	inA, _, err := svc.Enroll(f.school.ID, f.student.ID, f.classA.ID, nil)
	if err != nil {
		t.Fatalf("Enroll into A failed: %v", err)
	}
	inB, _, err := svc.Enroll(f.school.ID, f.student.ID, f.classB.ID, nil)
	if err != nil {
		t.Fatalf("Enroll into B failed: %v", err)
	}

	// Transferring A's row onto class B must fail: B already holds a row.
	if _, err := svc.Update(f.school.ID, inA.ID, UpdateInput{ClassID: &f.classB.ID}); err != ErrAlreadyEnrolled {
		t.Errorf("transfer onto occupied class: err = %v, want ErrAlreadyEnrolled", err)
	}

	// The B enrollment is untouched and still active.
	got, err := svc.Get(f.school.ID, inB.ID)
	if err != nil {
		t.Fatalf("Get B failed: %v", err)
	}
	if !got.IsActive {
		t.Error("enrollment in B was deactivated by a failed transfer")
	}
}

func TestSoftDeleteStudentCascades(t *testing.T) {
	db := testDB(t)
	f := setupFixture(t, db)
	svc := NewEnrollmentService(db)

	if _, _, err := svc.Enroll(f.school.ID, f.student.ID, f.classA.ID, nil); err != nil {
		t.Fatalf("Enroll into A failed: %v", err)
	}
	if _, _, err := svc.Enroll(f.school.ID, f.student.ID, f.classB.ID, nil); err != nil {
		t.Fatalf("Enroll into B failed: %v", err)
	}

	student, err := svc.SoftDeleteStudent(f.school.ID, f.student.ID)
	if err != nil {
		t.Fatalf("SoftDeleteStudent failed: %v", err)
	}
	if student.Status != model.StudentStatusInactive {
		t.Errorf("student status = %q, want inactive", student.Status)
	}

	var activeCount int64
	db.Model(&model.Enrollment{}).
		Where("student_id = ? AND is_active = ?", f.student.ID, true).
		Count(&activeCount)
	if activeCount != 0 {
		t.Errorf("active enrollments after soft delete = %d, want 0", activeCount)
	}
}

func TestEnrollScopedToSchool(t *testing.T) {
	db := testDB(t)
	f := setupFixture(t, db)
	svc := NewEnrollmentService(db)

	other := model.School{Code: f.school.Code + "X", Name: "Other School", Phone: "9876500000"}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("create other school: %v", err)
	}
	t.Cleanup(func() { db.Delete(&other) })

	// Another tenant cannot see this student or class.
	if _, _, err := svc.Enroll(other.ID, f.student.ID, f.classA.ID, nil); err != ErrStudentNotFound {
		t.Errorf("cross-tenant Enroll: err = %v, want ErrStudentNotFound", err)
	}
}
