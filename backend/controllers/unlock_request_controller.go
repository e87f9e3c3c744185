package controllers

import (
	"github.com/HakiMohamed/QCMMedicalStudent/backend/config"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/middleware"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/models"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/services"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UnlockRequestController struct {
	Cfg     *config.Config
	Service *services.UnlockService
}

func NewUnlockRequestController(db *gorm.DB, cfg *config.Config) *UnlockRequestController {
	return &UnlockRequestController{Cfg: cfg, Service: services.NewUnlockService(db, cfg)}
}

type CreateUnlockRequestInput struct {
	SemesterID   uuid.UUID `json:"semesterId" validate:"required"`
	PaymentProof string    `json:"paymentProof" validate:"required"`
}

func (ctrl *UnlockRequestController) Create(c *fiber.Ctx) error {
	var input CreateUnlockRequestInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Corps de requête invalide")
	}
	if details := utils.ValidateStruct(input); details != nil {
		return utils.ValidationError(c, details)
	}

	request, err := ctrl.Service.Create(middleware.UserID(c), input.SemesterID, input.PaymentProof)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(request)
}

func (ctrl *UnlockRequestController) GetMyRequests(c *fiber.Ctx) error {
	requests, err := ctrl.Service.ListForUser(middleware.UserID(c))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(requests)
}

func (ctrl *UnlockRequestController) GetAll(c *fiber.Ctx) error {
	status := models.RequestStatus(c.Query("status"))
	requests, err := ctrl.Service.ListAll(status)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(requests)
}

type ProcessUnlockRequestInput struct {
	Status     models.RequestStatus `json:"status" validate:"required,oneof=APPROVED REJECTED"`
	AdminNotes *string              `json:"adminNotes"`
}

func (ctrl *UnlockRequestController) Process(c *fiber.Ctx) error {
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Identifiant de demande invalide")
	}

	var input ProcessUnlockRequestInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Corps de requête invalide")
	}
	if details := utils.ValidateStruct(input); details != nil {
		return utils.ValidationError(c, details)
	}

	request, err := ctrl.Service.Process(requestID, middleware.UserID(c), input.Status, input.AdminNotes)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(request)
}
