package class

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

func testApp(db *gorm.DB, school *model.School) *fiber.App {
	handler := NewClassHandler(db, validation.NewValidator())

	app := fiber.New()
	app.Patch("/school-admin/classes/:id", func(c *fiber.Ctx) error {
		c.Locals("tenant", &middleware.TenantContext{
			SchoolID:   school.ID,
			SchoolCode: school.Code,
			SchoolName: school.Name,
		})
		return c.Next()
	}, handler.Update)
	return app
}

func TestUpdateResponseIncludesTemplate(t *testing.T) {
	db := testDB(t)

	nano := time.Now().UnixNano()

	school := model.School{Code: fmt.Sprintf("C%d", nano%1_000_000_000), Name: "Class Handler Test School", Phone: "9876543210"}
	if err := db.Create(&school).Error; err != nil {
		t.Fatalf("create school: %v", err)
	}

	classList := model.ClassList{ClassNumber: 9, Code: fmt.Sprintf("C9-%d", nano%1_000_000), Name: "Class 9 (test)"}
	if err := db.Create(&classList).Error; err != nil {
		t.Fatalf("create class list: %v", err)
	}

	class := model.Class{SchoolID: school.ID, ClassListID: classList.ID, Session: "2025-26", Section: "A"}
	if err := db.Create(&class).Error; err != nil {
		t.Fatalf("create class: %v", err)
	}

	t.Cleanup(func() {
		db.Delete(&class)
		db.Delete(&classList)
		db.Delete(&school)
	})

	app := testApp(db, &school)

	body, _ := json.Marshal(map[string]interface{}{"section": "b"})
	req := httptest.NewRequest("PATCH", fmt.Sprintf("/school-admin/classes/%d", class.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			ID        uint   `json:"id"`
			Section   string `json:"section"`
			ClassList struct {
				ID   uint   `json:"id"`
				Code string `json:"code"`
				Name string `json:"name"`
			} `json:"class_list"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if envelope.Data.Section != "B" {
		t.Errorf("section = %q, want %q", envelope.Data.Section, "B")
	}

	// The PATCH response carries the same populated template as Create/Get.
	if envelope.Data.ClassList.ID != classList.ID {
		t.Errorf("class_list.id = %d, want %d", envelope.Data.ClassList.ID, classList.ID)
	}
	if envelope.Data.ClassList.Code != classList.Code {
		t.Errorf("class_list.code = %q, want %q", envelope.Data.ClassList.Code, classList.Code)
	}
}
