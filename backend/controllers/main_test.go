package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/HakiMohamed/QCMMedicalStudent/backend/config"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/middleware"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/models"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// registerRoutes mirrors routes.SetupRoutes without importing the routes
// package, which would create an import cycle from this test package.
func registerRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	authController := NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.RoleMiddleware(models.RoleAdmin, models.RoleSuperAdmin)

	app.Get("/api/auth/profile", authMiddleware, authController.GetProfile)
	app.Put("/api/auth/profile", authMiddleware, authController.UpdateProfile)

	catalogController := NewCatalogController(db, cfg)
	app.Get("/api/semesters", authMiddleware, catalogController.ListSemesters)
	app.Get("/api/questions/session/:sessionId", authMiddleware, catalogController.GetSessionQuestions)

	accessController := NewAccessController(db, cfg)
	app.Get("/api/access/semester/:semesterId", authMiddleware, accessController.CheckSemesterAccess)

	unlockController := NewUnlockRequestController(db, cfg)
	app.Post("/api/unlock-requests", authMiddleware, unlockController.Create)
	app.Get("/api/unlock-requests/my-requests", authMiddleware, unlockController.GetMyRequests)
	app.Put("/api/unlock-requests/:id/process", authMiddleware, adminMiddleware, unlockController.Process)

	progressController := NewProgressController(db, cfg)
	app.Post("/api/progress/submit", authMiddleware, progressController.SubmitAnswers)
	app.Get("/api/progress/my-progress", authMiddleware, progressController.GetMyProgress)

	paymentController := NewPaymentMethodController(db, cfg)
	app.Get("/api/payment-methods", authMiddleware, paymentController.ListActive)

	admin := app.Group("/api/admin", authMiddleware, adminMiddleware)
	questionsController := NewQuestionsController(db, cfg)
	admin.Post("/questions", questionsController.Create)
	admin.Get("/questions/:id", questionsController.Get)
	contentController := NewContentController(db, cfg)
	admin.Post("/semesters", contentController.CreateSemester)
	dashboardController := NewDashboardController(db, cfg)
	admin.Get("/dashboard/stats", dashboardController.GetStats)
}

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, *config.Config) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, utils.Migrate(db))
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		TrialAccessDays: 7,
		PaidAccessYears: 1,
	}

	app := fiber.New()
	registerRoutes(app, db, cfg)
	return app, db, cfg
}

func seedUserWithRole(t *testing.T, db *gorm.DB, cfg *config.Config, email string, role models.UserRole) (*models.User, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("motdepasse"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)

	token, err := utils.GenerateJWTToken(user, cfg)
	require.NoError(t, err)
	return user, token
}

func seedSemesterTree(t *testing.T, db *gorm.DB, code string) (*models.Semester, *models.Session) {
	t.Helper()
	year := &models.AcademicYear{Code: "Y-" + code, Name: "Année " + code, IsActive: true}
	require.NoError(t, db.Create(year).Error)
	semester := &models.Semester{Code: "S-" + code, Name: "Semestre " + code, AcademicYearID: year.ID, IsActive: true}
	require.NoError(t, db.Create(semester).Error)
	module := &models.Module{Code: "M-" + code, Name: "Module " + code, SemesterID: semester.ID, IsActive: true}
	require.NoError(t, db.Create(module).Error)
	part := &models.Part{Code: "P-" + code, Name: "Partie " + code, ModuleID: module.ID, IsActive: true}
	require.NoError(t, db.Create(part).Error)
	chapter := &models.Chapter{Code: "C-" + code, Name: "Chapitre " + code, PartID: part.ID, IsActive: true}
	require.NoError(t, db.Create(chapter).Error)
	session := &models.Session{Type: models.SessionNormal, Year: 2025, ChapterID: chapter.ID, IsActive: true}
	require.NoError(t, db.Create(session).Error)
	return semester, session
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}
