package utils

import (
	"fmt"

	"github.com/HakiMohamed/QCMMedicalStudent/backend/config"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.AcademicYear{},
		&models.Semester{},
		&models.Module{},
		&models.Part{},
		&models.Chapter{},
		&models.Session{},
		&models.Question{},
		&models.Choice{},
		&models.CorrectAnswer{},
		&models.UserAnswer{},
		&models.UserProgress{},
		&models.SemesterAccess{},
		&models.UnlockRequest{},
		&models.PaymentMethod{},
	)
}
