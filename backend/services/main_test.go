package services

import (
	"fmt"
	"testing"

	"github.com/HakiMohamed/QCMMedicalStudent/backend/config"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/models"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Named memory database: shared across the pool's connections, isolated
	// between tests.
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
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret",
		TrialAccessDays: 7,
		PaidAccessYears: 1,
	}
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     "User",
		Role:         models.RoleStudent,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// seedCatalog builds one path down the hierarchy and returns the leaves needed
// by most tests.
func seedCatalog(t *testing.T, db *gorm.DB, code string) (*models.Semester, *models.Chapter, *models.Session) {
	t.Helper()

	year := &models.AcademicYear{Code: "Y-" + code, Name: "Année " + code, IsActive: true}
	require.NoError(t, db.Create(year).Error)

	semester := &models.Semester{
		Code:           "S-" + code,
		Name:           "Semestre " + code,
		AcademicYearID: year.ID,
		IsActive:       true,
	}
	require.NoError(t, db.Create(semester).Error)

	module := &models.Module{Code: "M-" + code, Name: "Module " + code, SemesterID: semester.ID, IsActive: true}
	require.NoError(t, db.Create(module).Error)

	part := &models.Part{Code: "P-" + code, Name: "Partie " + code, ModuleID: module.ID, IsActive: true}
	require.NoError(t, db.Create(part).Error)

	chapter := &models.Chapter{Code: "C-" + code, Name: "Chapitre " + code, PartID: part.ID, IsActive: true}
	require.NoError(t, db.Create(chapter).Error)

	session := &models.Session{Type: models.SessionNormal, Year: 2025, ChapterID: chapter.ID, IsActive: true}
	require.NoError(t, db.Create(session).Error)

	return semester, chapter, session
}

// seedQuestion creates a question with the given choice labels; labels listed
// in correct become the answer key. Returns the question with choices loaded.
func seedQuestion(t *testing.T, db *gorm.DB, session *models.Session, qType models.QuestionType, labels []string, correct []string) *models.Question {
	t.Helper()

	question := &models.Question{
		SessionID: session.ID,
		Text:      "Question de test",
		Type:      qType,
		IsActive:  true,
	}
	require.NoError(t, db.Create(question).Error)

	correctSet := make(map[string]bool, len(correct))
	for _, l := range correct {
		correctSet[l] = true
	}

	for i, label := range labels {
		choice := models.Choice{QuestionID: question.ID, Label: label, Text: "Choix " + label, Order: i}
		require.NoError(t, db.Create(&choice).Error)
		question.Choices = append(question.Choices, choice)
		if correctSet[label] {
			require.NoError(t, db.Create(&models.CorrectAnswer{QuestionID: question.ID, ChoiceID: choice.ID}).Error)
		}
	}
	return question
}

// choiceByLabel panics on a missing label so tests fail loudly on bad seeds.
func choiceByLabel(question *models.Question, label string) models.Choice {
	for _, c := range question.Choices {
		if c.Label == label {
			return c
		}
	}
	panic("unknown choice label " + label)
}
