package controllers

import (
	"net/http"
	"testing"

	"github.com/HakiMohamed/QCMMedicalStudent/backend/models"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitAnswersEndpoint(t *testing.T) {
	app, db, cfg := newTestApp(t)
	_, token := seedUserWithRole(t, db, cfg, "etudiant@example.com", models.RoleStudent)
	_, session := seedSemesterTree(t, db, "G1")

	question := models.Question{
		SessionID: session.ID,
		Text:      "Question",
		Type:      models.QuestionSingleChoice,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&question).Error)
	good := models.Choice{QuestionID: question.ID, Label: "A", Text: "Oui"}
	require.NoError(t, db.Create(&good).Error)
	require.NoError(t, db.Create(&models.Choice{QuestionID: question.ID, Label: "B", Text: "Non", Order: 1}).Error)
	require.NoError(t, db.Create(&models.CorrectAnswer{QuestionID: question.ID, ChoiceID: good.ID}).Error)

	resp := doRequest(t, app, http.MethodPost, "/api/progress/submit", token, fiber.Map{
		"answers": []fiber.Map{
			{"questionId": question.ID, "choiceId": good.ID},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var results []struct {
		IsCorrect bool `json:"isCorrect"`
	}
	decodeBody(t, resp, &results)
	require.Len(t, results, 1)
	assert.True(t, results[0].IsCorrect)

	// The chapter rollup is visible on the progress listing.
	resp = doRequest(t, app, http.MethodGet, "/api/progress/my-progress", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var progress []models.UserProgress
	decodeBody(t, resp, &progress)
	require.Len(t, progress, 1)
	assert.Equal(t, 1, progress[0].CorrectAnswers)
	assert.Equal(t, "Excellent", progress[0].Level)
}

func TestSubmitAnswersEndpoint_EmptyBatch(t *testing.T) {
	app, db, cfg := newTestApp(t)
	_, token := seedUserWithRole(t, db, cfg, "etudiant@example.com", models.RoleStudent)

	resp := doRequest(t, app, http.MethodPost, "/api/progress/submit", token, fiber.Map{
		"answers": []fiber.Map{},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()
}
