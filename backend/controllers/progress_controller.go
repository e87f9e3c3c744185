package controllers

import (
	"github.com/HakiMohamed/QCMMedicalStudent/backend/config"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/middleware"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/services"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProgressController struct {
	Cfg     *config.Config
	Service *services.ProgressService
}

func NewProgressController(db *gorm.DB, cfg *config.Config) *ProgressController {
	return &ProgressController{Cfg: cfg, Service: services.NewProgressService(db)}
}

type SubmitAnswersInput struct {
	Answers []services.AnswerSubmission `json:"answers" validate:"required,min=1,dive"`
}

func (ctrl *ProgressController) SubmitAnswers(c *fiber.Ctx) error {
	var input SubmitAnswersInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Corps de requête invalide")
	}
	if details := utils.ValidateStruct(input); details != nil {
		return utils.ValidationError(c, details)
	}

	results, err := ctrl.Service.SubmitAnswers(middleware.UserID(c), input.Answers)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(results)
}

func (ctrl *ProgressController) GetMyProgress(c *fiber.Ctx) error {
	progress, err := ctrl.Service.GetUserProgress(middleware.UserID(c))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(progress)
}

func (ctrl *ProgressController) GetSessionResults(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return utils.BadRequest(c, "Identifiant de session invalide")
	}

	results, err := ctrl.Service.GetSessionResults(middleware.UserID(c), sessionID)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(results)
}

type CheckAnswerInput struct {
	QuestionID uuid.UUID   `json:"questionId" validate:"required"`
	ChoiceIDs  []uuid.UUID `json:"choiceIds" validate:"required,min=1"`
}

func (ctrl *ProgressController) CheckAnswer(c *fiber.Ctx) error {
	var input CheckAnswerInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Corps de requête invalide")
	}
	if details := utils.ValidateStruct(input); details != nil {
		return utils.ValidationError(c, details)
	}

	result, err := ctrl.Service.CheckAnswer(input.QuestionID, input.ChoiceIDs)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(result)
}
