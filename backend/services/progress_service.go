package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/HakiMohamed/QCMMedicalStudent/backend/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressService records answer submissions, computes correctness against the
// answer keys and maintains the per-chapter progress rollup.
type ProgressService struct {
	DB *gorm.DB
}

func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{DB: db}
}

type AnswerSubmission struct {
	QuestionID uuid.UUID `json:"questionId"`
	ChoiceID   uuid.UUID `json:"choiceId"`
}

type AnswerResult struct {
	QuestionID uuid.UUID `json:"questionId"`
	ChoiceID   uuid.UUID `json:"choiceId"`
	IsCorrect  bool      `json:"isCorrect"`
}

// LevelForScore maps a score percentage to its qualitative level.
// Thresholds are evaluated top-down, first match wins.
func LevelForScore(score float64) string {
	switch {
	case score >= 90:
		return "Excellent"
	case score >= 75:
		return "Très bien"
	case score >= 60:
		return "Bien"
	case score >= 50:
		return "Moyen"
	case score >= 40:
		return "Insuffisant"
	default:
		return "Débutant"
	}
}

// sameChoiceSet reports whether the two id sets are exactly equal.
// Partial selections and supersets are both wrong: no partial credit.
func sameChoiceSet(userChoices, correctChoices []uuid.UUID) bool {
	if len(userChoices) != len(correctChoices) {
		return false
	}
	set := make(map[uuid.UUID]bool, len(correctChoices))
	for _, id := range correctChoices {
		set[id] = true
	}
	for _, id := range userChoices {
		if !set[id] {
			return false
		}
	}
	return true
}

// SubmitAnswers upserts one UserAnswer per (question, choice) pair with its
// correctness, then recomputes the rollup of every chapter touched by the batch.
func (s *ProgressService) SubmitAnswers(userID uuid.UUID, answers []AnswerSubmission) ([]AnswerResult, error) {
	results := make([]AnswerResult, 0, len(answers))
	chapters := make(map[uuid.UUID]bool)

	for _, answer := range answers {
		var question models.Question
		err := s.DB.Preload("CorrectAnswers").Preload("Session").
			First(&question, "id = ?", answer.QuestionID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fiber.NewError(fiber.StatusNotFound,
					fmt.Sprintf("Question %s non trouvée", answer.QuestionID))
			}
			return nil, err
		}

		isCorrect := false
		for _, ca := range question.CorrectAnswers {
			if ca.ChoiceID == answer.ChoiceID {
				isCorrect = true
				break
			}
		}

		userAnswer := models.UserAnswer{
			UserID:     userID,
			QuestionID: answer.QuestionID,
			ChoiceID:   answer.ChoiceID,
			IsCorrect:  isCorrect,
		}
		err = s.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "question_id"}, {Name: "choice_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_correct", "updated_at"}),
		}).Create(&userAnswer).Error
		if err != nil {
			return nil, err
		}

		if question.Session != nil {
			chapters[question.Session.ChapterID] = true
		}

		results = append(results, AnswerResult{
			QuestionID: answer.QuestionID,
			ChoiceID:   answer.ChoiceID,
			IsCorrect:  isCorrect,
		})
	}

	for chapterID := range chapters {
		if err := s.RecomputeChapterProgress(userID, chapterID); err != nil {
			return nil, err
		}
	}

	return results, nil
}

// RecomputeChapterProgress rebuilds the cached rollup from the UserAnswer rows.
// A multiple-choice question counts as correct only when the selected set equals
// the correct set exactly.
func (s *ProgressService) RecomputeChapterProgress(userID, chapterID uuid.UUID) error {
	var totalQuestions int64
	err := s.DB.Model(&models.Question{}).
		Joins("JOIN sessions ON sessions.id = questions.session_id").
		Where("sessions.chapter_id = ? AND questions.is_active = ?", chapterID, true).
		Count(&totalQuestions).Error
	if err != nil {
		return err
	}

	var userAnswers []models.UserAnswer
	err = s.DB.
		Joins("JOIN questions ON questions.id = user_answers.question_id AND questions.is_active = ? AND questions.deleted_at IS NULL", true).
		Joins("JOIN sessions ON sessions.id = questions.session_id").
		Where("user_answers.user_id = ? AND sessions.chapter_id = ?", userID, chapterID).
		Preload("Question.CorrectAnswers").
		Find(&userAnswers).Error
	if err != nil {
		return err
	}

	userChoices := make(map[uuid.UUID][]uuid.UUID)
	correctChoices := make(map[uuid.UUID][]uuid.UUID)
	for _, ua := range userAnswers {
		userChoices[ua.QuestionID] = append(userChoices[ua.QuestionID], ua.ChoiceID)
		if _, ok := correctChoices[ua.QuestionID]; !ok && ua.Question != nil {
			ids := make([]uuid.UUID, 0, len(ua.Question.CorrectAnswers))
			for _, ca := range ua.Question.CorrectAnswers {
				ids = append(ids, ca.ChoiceID)
			}
			correctChoices[ua.QuestionID] = ids
		}
	}

	answeredQuestions := len(userChoices)
	correctAnswers := 0
	for questionID, choices := range userChoices {
		if sameChoiceSet(choices, correctChoices[questionID]) {
			correctAnswers++
		}
	}
	wrongAnswers := answeredQuestions - correctAnswers

	score := 0.0
	if answeredQuestions > 0 {
		score = float64(correctAnswers) / float64(answeredQuestions) * 100
	}
	percentage := 0.0
	if totalQuestions > 0 {
		percentage = float64(answeredQuestions) / float64(totalQuestions) * 100
	}

	now := time.Now()
	var progress models.UserProgress
	err = s.DB.Where("user_id = ? AND chapter_id = ?", userID, chapterID).First(&progress).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		progress = models.UserProgress{UserID: userID, ChapterID: chapterID}
	}

	progress.TotalQuestions = int(totalQuestions)
	progress.AnsweredQuestions = answeredQuestions
	progress.CorrectAnswers = correctAnswers
	progress.WrongAnswers = wrongAnswers
	progress.Score = score
	progress.Percentage = percentage
	progress.Level = LevelForScore(score)
	progress.LastAccessedAt = now
	// "Ever completed" marker: stamped once at first full coverage, never
	// re-stamped and never cleared if coverage later regresses.
	if percentage == 100 && progress.CompletedAt == nil {
		progress.CompletedAt = &now
	}

	return s.DB.Save(&progress).Error
}

func (s *ProgressService) GetUserProgress(userID uuid.UUID) ([]models.UserProgress, error) {
	var progress []models.UserProgress
	err := s.DB.
		Preload("Chapter.Part.Module.Semester.AcademicYear").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&progress).Error
	return progress, err
}

type QuestionResult struct {
	ID             uuid.UUID           `json:"id"`
	Text           string              `json:"text"`
	Type           models.QuestionType `json:"type"`
	Explanation    *string             `json:"explanation"`
	Choices        []models.Choice     `json:"choices"`
	CorrectAnswers []uuid.UUID         `json:"correctAnswers"`
	UserAnswers    []uuid.UUID         `json:"userAnswers"`
	IsCorrect      bool                `json:"isCorrect"`
}

type SessionStatistics struct {
	TotalQuestions int     `json:"totalQuestions"`
	CorrectAnswers int     `json:"correctAnswers"`
	WrongAnswers   int     `json:"wrongAnswers"`
	Score          float64 `json:"score"`
	Level          string  `json:"level"`
}

type SessionResults struct {
	Questions  []QuestionResult  `json:"questions"`
	Statistics SessionStatistics `json:"statistics"`
}

// GetSessionResults grades every active question of the session for the user,
// with the same exact-set rule and level thresholds as the chapter rollup.
func (s *ProgressService) GetSessionResults(userID, sessionID uuid.UUID) (*SessionResults, error) {
	var session models.Session
	if err := s.DB.First(&session, "id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Session non trouvée")
		}
		return nil, err
	}

	var questions []models.Question
	err := s.DB.
		Preload("Choices", func(db *gorm.DB) *gorm.DB { return db.Order(`choices."order" ASC`) }).
		Preload("CorrectAnswers").
		Where("session_id = ? AND is_active = ?", sessionID, true).
		Order("created_at DESC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}

	questionIDs := make([]uuid.UUID, 0, len(questions))
	for _, q := range questions {
		questionIDs = append(questionIDs, q.ID)
	}

	var userAnswers []models.UserAnswer
	if len(questionIDs) > 0 {
		err = s.DB.Where("user_id = ? AND question_id IN ?", userID, questionIDs).
			Find(&userAnswers).Error
		if err != nil {
			return nil, err
		}
	}
	answersByQuestion := make(map[uuid.UUID][]uuid.UUID)
	for _, ua := range userAnswers {
		answersByQuestion[ua.QuestionID] = append(answersByQuestion[ua.QuestionID], ua.ChoiceID)
	}

	results := make([]QuestionResult, 0, len(questions))
	correctCount := 0
	for _, q := range questions {
		correctIDs := make([]uuid.UUID, 0, len(q.CorrectAnswers))
		for _, ca := range q.CorrectAnswers {
			correctIDs = append(correctIDs, ca.ChoiceID)
		}
		userIDs := answersByQuestion[q.ID]

		isCorrect := sameChoiceSet(userIDs, correctIDs)
		if isCorrect {
			correctCount++
		}

		if userIDs == nil {
			userIDs = []uuid.UUID{}
		}
		results = append(results, QuestionResult{
			ID:             q.ID,
			Text:           q.Text,
			Type:           q.Type,
			Explanation:    q.Explanation,
			Choices:        q.Choices,
			CorrectAnswers: correctIDs,
			UserAnswers:    userIDs,
			IsCorrect:      isCorrect,
		})
	}

	totalQuestions := len(results)
	score := 0.0
	if totalQuestions > 0 {
		score = float64(correctCount) / float64(totalQuestions) * 100
	}

	return &SessionResults{
		Questions: results,
		Statistics: SessionStatistics{
			TotalQuestions: totalQuestions,
			CorrectAnswers: correctCount,
			WrongAnswers:   totalQuestions - correctCount,
			Score:          math.Round(score*100) / 100,
			Level:          LevelForScore(score),
		},
	}, nil
}

type CheckAnswerResult struct {
	QuestionID     uuid.UUID       `json:"questionId"`
	IsCorrect      bool            `json:"isCorrect"`
	CorrectAnswers []uuid.UUID     `json:"correctAnswers"`
	Explanation    *string         `json:"explanation"`
	Choices        []models.Choice `json:"choices"`
}

// CheckAnswer is the stateless variant of the exact-set comparison used for an
// immediate UI check. It persists nothing and never touches the progress rollup.
func (s *ProgressService) CheckAnswer(questionID uuid.UUID, choiceIDs []uuid.UUID) (*CheckAnswerResult, error) {
	var question models.Question
	err := s.DB.
		Preload("Choices", func(db *gorm.DB) *gorm.DB { return db.Order(`choices."order" ASC`) }).
		Preload("CorrectAnswers").
		First(&question, "id = ?", questionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Question non trouvée")
		}
		return nil, err
	}

	correctIDs := make([]uuid.UUID, 0, len(question.CorrectAnswers))
	for _, ca := range question.CorrectAnswers {
		correctIDs = append(correctIDs, ca.ChoiceID)
	}

	return &CheckAnswerResult{
		QuestionID:     questionID,
		IsCorrect:      sameChoiceSet(choiceIDs, correctIDs),
		CorrectAnswers: correctIDs,
		Explanation:    question.Explanation,
		Choices:        question.Choices,
	}, nil
}
