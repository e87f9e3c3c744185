package controllers

import (
	"errors"
	"fmt"

	"github.com/HakiMohamed/QCMMedicalStudent/backend/config"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/models"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuestionsController is the admin question bank: full CRUD with answer keys,
// unlike the student-facing read path that strips correct answers.
type QuestionsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewQuestionsController(db *gorm.DB, cfg *config.Config) *QuestionsController {
	return &QuestionsController{DB: db, Cfg: cfg}
}

type ChoiceInput struct {
	Label     string `json:"label" validate:"required"`
	Text      string `json:"text" validate:"required"`
	Order     int    `json:"order"`
	IsCorrect bool   `json:"isCorrect"`
}

type CreateQuestionInput struct {
	SessionID   uuid.UUID           `json:"sessionId" validate:"required"`
	Text        string              `json:"text" validate:"required"`
	Type        models.QuestionType `json:"type" validate:"required,oneof=SINGLE_CHOICE MULTIPLE_CHOICE TRUE_FALSE"`
	Explanation *string             `json:"explanation"`
	Order       int                 `json:"order"`
	Choices     []ChoiceInput       `json:"choices" validate:"required,min=2,dive"`
}

type UpdateQuestionInput struct {
	Text        *string              `json:"text"`
	Type        *models.QuestionType `json:"type" validate:"omitempty,oneof=SINGLE_CHOICE MULTIPLE_CHOICE TRUE_FALSE"`
	Explanation *string              `json:"explanation"`
	Order       *int                 `json:"order"`
	IsActive    *bool                `json:"isActive"`
	Choices     []ChoiceInput        `json:"choices" validate:"omitempty,min=2,dive"`
}

// validateChoiceSet checks label uniqueness and the correct-answer count the
// question type allows. Returns a user-facing message, empty when valid.
func validateChoiceSet(qType models.QuestionType, choices []ChoiceInput) string {
	labels := make(map[string]bool, len(choices))
	correct := 0
	for _, ch := range choices {
		if labels[ch.Label] {
			return fmt.Sprintf("Le libellé %q est utilisé plusieurs fois", ch.Label)
		}
		labels[ch.Label] = true
		if ch.IsCorrect {
			correct++
		}
	}
	switch qType {
	case models.QuestionSingleChoice, models.QuestionTrueFalse:
		if correct != 1 {
			return "Ce type de question doit avoir exactement une bonne réponse"
		}
	case models.QuestionMultipleChoice:
		if correct < 1 {
			return "Une question à choix multiples doit avoir au moins une bonne réponse"
		}
	}
	return ""
}

func (ctrl *QuestionsController) List(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)

	query := ctrl.DB.Model(&models.Question{})
	if sessionID := c.Query("sessionId"); sessionID != "" {
		id, err := uuid.Parse(sessionID)
		if err != nil {
			return utils.BadRequest(c, "Identifiant de session invalide")
		}
		query = query.Where("session_id = ?", id)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.HandleError(c, err)
	}

	var questions []models.Question
	err := query.
		Preload("Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order(`choices."order" ASC`)
		}).
		Preload("CorrectAnswers").
		Order(`"order" ASC, created_at DESC`).
		Offset(p.Offset).Limit(p.Limit).
		Find(&questions).Error
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.Paginate(c, questions, total, p.Page, p.Limit)
}

func (ctrl *QuestionsController) Get(c *fiber.Ctx) error {
	var question models.Question
	err := ctrl.DB.
		Preload("Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order(`choices."order" ASC`)
		}).
		Preload("CorrectAnswers").
		First(&question, "id = ?", c.Params("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Question non trouvée"})
		}
		return utils.HandleError(c, err)
	}
	return c.JSON(question)
}

func (ctrl *QuestionsController) Create(c *fiber.Ctx) error {
	var input CreateQuestionInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Corps de requête invalide")
	}
	if details := utils.ValidateStruct(input); details != nil {
		return utils.ValidationError(c, details)
	}
	if msg := validateChoiceSet(input.Type, input.Choices); msg != "" {
		return utils.BadRequest(c, msg)
	}

	var session models.Session
	if err := ctrl.DB.First(&session, "id = ?", input.SessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session non trouvée"})
		}
		return utils.HandleError(c, err)
	}

	question := models.Question{
		SessionID:   input.SessionID,
		Text:        input.Text,
		Type:        input.Type,
		Explanation: input.Explanation,
		Order:       input.Order,
		IsActive:    true,
	}

	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&question).Error; err != nil {
			return err
		}
		return createChoices(tx, &question, input.Choices)
	})
	if err != nil {
		return utils.HandleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(question)
}

func (ctrl *QuestionsController) Update(c *fiber.Ctx) error {
	var question models.Question
	if err := ctrl.DB.First(&question, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Question non trouvée"})
		}
		return utils.HandleError(c, err)
	}

	var input UpdateQuestionInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Corps de requête invalide")
	}
	if details := utils.ValidateStruct(input); details != nil {
		return utils.ValidationError(c, details)
	}

	if input.Text != nil {
		question.Text = *input.Text
	}
	if input.Type != nil {
		question.Type = *input.Type
	}
	if input.Explanation != nil {
		question.Explanation = input.Explanation
	}
	if input.Order != nil {
		question.Order = *input.Order
	}
	if input.IsActive != nil {
		question.IsActive = *input.IsActive
	}

	if input.Choices != nil {
		if msg := validateChoiceSet(question.Type, input.Choices); msg != "" {
			return utils.BadRequest(c, msg)
		}
	}

	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&question).Error; err != nil {
			return err
		}
		if input.Choices == nil {
			return nil
		}
		// Full replacement: the answer key and choice set change together.
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.CorrectAnswer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.Choice{}).Error; err != nil {
			return err
		}
		question.Choices = nil
		question.CorrectAnswers = nil
		return createChoices(tx, &question, input.Choices)
	})
	if err != nil {
		return utils.HandleError(c, err)
	}

	return c.JSON(question)
}

func (ctrl *QuestionsController) Delete(c *fiber.Ctx) error {
	var question models.Question
	if err := ctrl.DB.First(&question, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Question non trouvée"})
		}
		return utils.HandleError(c, err)
	}
	if err := ctrl.DB.Delete(&question).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Question supprimée avec succès"})
}

func createChoices(tx *gorm.DB, question *models.Question, inputs []ChoiceInput) error {
	for _, in := range inputs {
		choice := models.Choice{
			QuestionID: question.ID,
			Label:      in.Label,
			Text:       in.Text,
			Order:      in.Order,
		}
		if err := tx.Create(&choice).Error; err != nil {
			return err
		}
		question.Choices = append(question.Choices, choice)
		if in.IsCorrect {
			answer := models.CorrectAnswer{QuestionID: question.ID, ChoiceID: choice.ID}
			if err := tx.Create(&answer).Error; err != nil {
				return err
			}
			question.CorrectAnswers = append(question.CorrectAnswers, answer)
		}
	}
	return nil
}
