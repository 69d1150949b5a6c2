package router

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/vidyasetu/school-api/config"
	"github.com/vidyasetu/school-api/database"
	"github.com/vidyasetu/school-api/handlers"
	auth_handlers "github.com/vidyasetu/school-api/handlers/auth"
	class_handlers "github.com/vidyasetu/school-api/handlers/class"
	curriculum_handlers "github.com/vidyasetu/school-api/handlers/curriculum"
	enrollment_handlers "github.com/vidyasetu/school-api/handlers/enrollment"
	school_handlers "github.com/vidyasetu/school-api/handlers/school"
	student_handlers "github.com/vidyasetu/school-api/handlers/student"
	teacher_handlers "github.com/vidyasetu/school-api/handlers/teacher"
	user_handlers "github.com/vidyasetu/school-api/handlers/user"
	"github.com/vidyasetu/school-api/utils/auth"
	"github.com/vidyasetu/school-api/utils/cache"
	"github.com/vidyasetu/school-api/utils/middleware"
	"github.com/vidyasetu/school-api/utils/validation"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, store database.Storage, env *config.EnvironmentVariable) {
	if env.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := env.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "school-api"
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret: env.JWT_SECRET,
		Expiry: 24 * time.Hour,
		Issuer: jwtIssuer,
	})

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Redis backs the login brute-force counters. When it is unreachable
	// the API still serves logins, just without lockouts.
	redisURL := env.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}
	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	}
	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)
	validator := validation.NewValidator()

	authHandler, err := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection, env.SUPER_ADMIN_EMAIL, env.SUPER_ADMIN_PASSWORD)
	if err != nil {
		log.Fatalf("Failed to initialize auth handler: %v", err)
	}

	healthHandler := handlers.NewHealthHandler(store)
	schoolHandler := school_handlers.NewSchoolHandler(db, validator)
	userHandler := user_handlers.NewUserHandler(db, validator)
	studentHandler := student_handlers.NewStudentHandler(db, validator)
	classHandler := class_handlers.NewClassHandler(db, validator)
	enrollmentHandler := enrollment_handlers.NewEnrollmentHandler(db, validator)
	teacherHandler := teacher_handlers.NewTeacherHandler(db, validator)
	curriculumHandler := curriculum_handlers.NewCurriculumHandler(db)

	allowedOrigins := env.ALLOWED_ORIGINS
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}
	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,
		RateLimitWindow:   1 * time.Minute,
	})

	// Health check endpoint (public)
	app.Get("/health", healthHandler.Check)

	// Login endpoints (public, rate limited per IP when Redis is up)
	login := func(handler fiber.Handler) []fiber.Handler {
		if bruteForceProtection != nil {
			return []fiber.Handler{bruteForceProtection.CheckLocked(), handler}
		}
		return []fiber.Handler{handler}
	}
	app.Post("/student/login", login(authHandler.StudentLogin)...)
	app.Post("/school-admin/login", login(authHandler.SchoolAdminLogin)...)
	app.Post("/super-admin/login", login(authHandler.SuperAdminLogin)...)

	// Student-facing surface: the profile behind the token
	app.Get("/student/me", authMiddleware.RequireStudent(), studentHandler.Me)

	// Super admin: tenant management
	superAdmin := app.Group("/super-admin", authMiddleware.RequireSuperAdmin())
	superAdmin.Post("/schools", schoolHandler.Create)
	superAdmin.Get("/schools", schoolHandler.List)
	superAdmin.Get("/schools/:id", schoolHandler.Get)
	superAdmin.Patch("/schools/:id", schoolHandler.Update)
	superAdmin.Delete("/schools/:id", schoolHandler.Delete)

	// School admin: everything inside one tenant
	schoolAdmin := app.Group("/school-admin", authMiddleware.RequireSchoolAdmin())

	// Registration workflow, steps 1-4 in order:
	// check-phone -> users -> students -> enrollments
	schoolAdmin.Post("/students/check-phone", studentHandler.CheckPhone)
	schoolAdmin.Post("/users", userHandler.Create)
	schoolAdmin.Post("/students", studentHandler.Create)
	schoolAdmin.Post("/enrollments", enrollmentHandler.Create)

	schoolAdmin.Get("/students", studentHandler.List)
	schoolAdmin.Get("/students/:id", studentHandler.Get)
	schoolAdmin.Patch("/students/:id", studentHandler.Update)
	schoolAdmin.Delete("/students/:id", studentHandler.Delete)

	schoolAdmin.Get("/enrollments", enrollmentHandler.List)
	schoolAdmin.Get("/enrollments/:id", enrollmentHandler.Get)
	schoolAdmin.Patch("/enrollments/:id", enrollmentHandler.Update)
	schoolAdmin.Delete("/enrollments/:id", enrollmentHandler.Delete)

	schoolAdmin.Post("/classes", classHandler.Create)
	schoolAdmin.Get("/classes", classHandler.List)
	schoolAdmin.Get("/classes/:id", classHandler.Get)
	schoolAdmin.Patch("/classes/:id", classHandler.Update)
	schoolAdmin.Delete("/classes/:id", classHandler.Delete)

	schoolAdmin.Post("/teachers", teacherHandler.Create)
	schoolAdmin.Get("/teachers", teacherHandler.List)
	schoolAdmin.Get("/teachers/:id", teacherHandler.Get)
	schoolAdmin.Patch("/teachers/:id", teacherHandler.Update)
	schoolAdmin.Delete("/teachers/:id", teacherHandler.Delete)

	// Curriculum reference data (read-only)
	schoolAdmin.Get("/class-lists", curriculumHandler.ListClassLists)
	schoolAdmin.Get("/class-lists/:id", curriculumHandler.GetClassList)
	schoolAdmin.Get("/class-lists/:id/subjects", curriculumHandler.ListSubjects)
}
