package enrollment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/vidyasetu/school-api/database"
	"github.com/vidyasetu/school-api/model"
	"github.com/vidyasetu/school-api/utils/middleware"
	"github.com/vidyasetu/school-api/utils/validation"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=true to run")
	}

	_ = godotenv.Load("../../.env")

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

// testApp mounts the handler behind a stub that injects the tenant context,
// standing in for the auth middleware.
func testApp(db *gorm.DB, school *model.School) *fiber.App {
	handler := NewEnrollmentHandler(db, validation.NewValidator())

	app := fiber.New()
	app.Post("/school-admin/enrollments", func(c *fiber.Ctx) error {
		c.Locals("tenant", &middleware.TenantContext{
			SchoolID:   school.ID,
			SchoolCode: school.Code,
			SchoolName: school.Name,
		})
		return c.Next()
	}, handler.Create)
	return app
}

func TestCreateRejectsInactiveStudentWithConflict(t *testing.T) {
	db := testDB(t)

	nano := time.Now().UnixNano()

	school := model.School{Code: fmt.Sprintf("E%d", nano%1_000_000_000), Name: "Handler Test School", Phone: "9876543210"}
	if err := db.Create(&school).Error; err != nil {
		t.Fatalf("create school: %v", err)
	}

	classList := model.ClassList{ClassNumber: 9, Code: fmt.Sprintf("E9-%d", nano%1_000_000), Name: "Class 9 (test)"}
	if err := db.Create(&classList).Error; err != nil {
		t.Fatalf("create class list: %v", err)
	}

	class := model.Class{SchoolID: school.ID, ClassListID: classList.ID, Session: "2025-26", Section: "A"}
	if err := db.Create(&class).Error; err != nil {
		t.Fatalf("create class: %v", err)
	}

	user := model.User{Phone: fmt.Sprintf("8%09d", nano%1_000_000_000), PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	student := model.Student{
		SchoolID: school.ID,
		UserID:   user.ID,
		Name:     "Suspended Student",
		Status:   model.StudentStatusSuspended,
	}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("create student: %v", err)
	}

	t.Cleanup(func() {
		db.Where("student_id = ?", student.ID).Delete(&model.Enrollment{})
		db.Delete(&student)
		db.Delete(&user)
		db.Delete(&class)
		db.Delete(&classList)
		db.Delete(&school)
	})

	app := testApp(db, &school)

	body, _ := json.Marshal(map[string]interface{}{
		"student_id": student.ID,
		"class_id":   class.ID,
	})
	req := httptest.NewRequest("POST", "/school-admin/enrollments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	// A state-precondition violation is a conflict, not a validation error.
	if resp.StatusCode != fiber.StatusConflict {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusConflict)
	}

	var count int64
	db.Model(&model.Enrollment{}).Where("student_id = ?", student.ID).Count(&count)
	if count != 0 {
		t.Errorf("enrollment rows created = %d, want 0", count)
	}
}
