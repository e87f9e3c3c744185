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

type AccessController struct {
	Cfg     *config.Config
	Service *services.AccessService
}

func NewAccessController(db *gorm.DB, cfg *config.Config) *AccessController {
	return &AccessController{Cfg: cfg, Service: services.NewAccessService(db)}
}

func (ctrl *AccessController) GetMyAccesses(c *fiber.Ctx) error {
	accesses, err := ctrl.Service.GetUserAllAccesses(middleware.UserID(c))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(accesses)
}

func (ctrl *AccessController) GetSemestersWithAccessStatus(c *fiber.Ctx) error {
	semesters, err := ctrl.Service.GetSemestersWithAccessStatus(middleware.UserID(c))
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(semesters)
}

func (ctrl *AccessController) CheckSemesterAccess(c *fiber.Ctx) error {
	semesterID, err := uuid.Parse(c.Params("semesterId"))
	if err != nil {
		return utils.BadRequest(c, "Identifiant de semestre invalide")
	}

	userID := middleware.UserID(c)
	hasAccess, err := ctrl.Service.CheckSemesterAccess(userID, semesterID)
	if err != nil {
		return utils.HandleError(c, err)
	}
	access, err := ctrl.Service.GetUserSemesterAccess(userID, semesterID)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return c.JSON(fiber.Map{
		"hasAccess": hasAccess,
		"access":    access,
	})
}
