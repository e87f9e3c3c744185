package controllers

import (
	"github.com/HakiMohamed/QCMMedicalStudent/backend/config"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/models"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DashboardController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewDashboardController(db *gorm.DB, cfg *config.Config) *DashboardController {
	return &DashboardController{DB: db, Cfg: cfg}
}

// GetStats returns entity counts for the admin dashboard overview.
func (ctrl *DashboardController) GetStats(c *fiber.Ctx) error {
	stats := fiber.Map{}

	counts := []struct {
		key   string
		model interface{}
		scope func(*gorm.DB) *gorm.DB
	}{
		{"users", &models.User{}, nil},
		{"academicYears", &models.AcademicYear{}, nil},
		{"semesters", &models.Semester{}, nil},
		{"modules", &models.Module{}, nil},
		{"parts", &models.Part{}, nil},
		{"chapters", &models.Chapter{}, nil},
		{"sessions", &models.Session{}, nil},
		{"questions", &models.Question{}, nil},
		{"unlockRequests", &models.UnlockRequest{}, nil},
		{"pendingUnlockRequests", &models.UnlockRequest{}, func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", models.RequestPending)
		}},
	}

	for _, entry := range counts {
		query := ctrl.DB.Model(entry.model)
		if entry.scope != nil {
			query = entry.scope(query)
		}
		var n int64
		if err := query.Count(&n).Error; err != nil {
			return utils.HandleError(c, err)
		}
		stats[entry.key] = n
	}

	return c.JSON(stats)
}
