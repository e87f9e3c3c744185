package routes

import (
	"github.com/HakiMohamed/QCMMedicalStudent/backend/config"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/controllers"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/middleware"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.RoleMiddleware(models.RoleAdmin, models.RoleSuperAdmin)

	// Profile routes
	app.Get("/api/auth/profile", authMiddleware, authController.GetProfile)
	app.Put("/api/auth/profile", authMiddleware, authController.UpdateProfile)

	// Catalog routes (read side, shared by students and admins)
	catalogController := controllers.NewCatalogController(db, cfg)
	app.Get("/api/academic-years", authMiddleware, catalogController.ListAcademicYears)
	app.Get("/api/semesters", authMiddleware, catalogController.ListSemesters)
	app.Get("/api/modules", authMiddleware, catalogController.ListModules)
	app.Get("/api/parts", authMiddleware, catalogController.ListParts)
	app.Get("/api/chapters", authMiddleware, catalogController.ListChapters)
	app.Get("/api/sessions", authMiddleware, catalogController.ListSessions)
	app.Get("/api/questions/session/:sessionId", authMiddleware, catalogController.GetSessionQuestions)

	// Access routes
	accessController := controllers.NewAccessController(db, cfg)
	access := app.Group("/api/access", authMiddleware)
	access.Get("/my-accesses", accessController.GetMyAccesses)
	access.Get("/semesters", accessController.GetSemestersWithAccessStatus)
	access.Get("/semester/:semesterId", accessController.CheckSemesterAccess)

	// Unlock request routes
	unlockController := controllers.NewUnlockRequestController(db, cfg)
	unlock := app.Group("/api/unlock-requests", authMiddleware)
	unlock.Post("/", unlockController.Create)
	unlock.Get("/my-requests", unlockController.GetMyRequests)
	unlock.Get("/", adminMiddleware, unlockController.GetAll)
	unlock.Put("/:id/process", adminMiddleware, unlockController.Process)

	// Progress routes
	progressController := controllers.NewProgressController(db, cfg)
	progress := app.Group("/api/progress", authMiddleware)
	progress.Post("/submit", progressController.SubmitAnswers)
	progress.Get("/my-progress", progressController.GetMyProgress)
	progress.Get("/session/:sessionId/results", progressController.GetSessionResults)
	progress.Post("/check-answer", progressController.CheckAnswer)

	// Payment methods, student-facing active list
	paymentController := controllers.NewPaymentMethodController(db, cfg)
	app.Get("/api/payment-methods", authMiddleware, paymentController.ListActive)

	// Everything below requires an admin account
	admin := app.Group("/api/admin", authMiddleware, adminMiddleware)

	adminPayments := admin.Group("/payment-methods")
	adminPayments.Get("/", paymentController.ListAll)
	adminPayments.Post("/", paymentController.Create)
	adminPayments.Put("/:id", paymentController.Update)
	adminPayments.Delete("/:id", paymentController.Delete)

	contentController := controllers.NewContentController(db, cfg)
	admin.Post("/academic-years", contentController.CreateAcademicYear)
	admin.Put("/academic-years/:id", contentController.UpdateAcademicYear)
	admin.Post("/semesters", contentController.CreateSemester)
	admin.Put("/semesters/:id", contentController.UpdateSemester)
	admin.Post("/modules", contentController.CreateModule)
	admin.Put("/modules/:id", contentController.UpdateModule)
	admin.Delete("/modules/:id", contentController.DeleteModule)
	admin.Post("/parts", contentController.CreatePart)
	admin.Put("/parts/:id", contentController.UpdatePart)
	admin.Delete("/parts/:id", contentController.DeletePart)
	admin.Post("/chapters", contentController.CreateChapter)
	admin.Put("/chapters/:id", contentController.UpdateChapter)
	admin.Delete("/chapters/:id", contentController.DeleteChapter)
	admin.Post("/sessions", contentController.CreateSession)
	admin.Put("/sessions/:id", contentController.UpdateSession)
	admin.Delete("/sessions/:id", contentController.DeleteSession)

	questionsController := controllers.NewQuestionsController(db, cfg)
	adminQuestions := admin.Group("/questions")
	adminQuestions.Get("/", questionsController.List)
	adminQuestions.Get("/:id", questionsController.Get)
	adminQuestions.Post("/", questionsController.Create)
	adminQuestions.Put("/:id", questionsController.Update)
	adminQuestions.Delete("/:id", questionsController.Delete)

	usersController := controllers.NewUsersController(db, cfg)
	adminUsers := admin.Group("/users")
	adminUsers.Get("/", usersController.List)
	adminUsers.Get("/:id", usersController.Get)
	adminUsers.Post("/", usersController.Create)
	adminUsers.Put("/:id", usersController.Update)
	adminUsers.Delete("/:id", usersController.Delete)

	dashboardController := controllers.NewDashboardController(db, cfg)
	admin.Get("/dashboard/stats", dashboardController.GetStats)
}
