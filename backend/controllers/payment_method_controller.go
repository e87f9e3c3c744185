package controllers

import (
	"errors"

	"github.com/HakiMohamed/QCMMedicalStudent/backend/config"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/models"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PaymentMethodController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewPaymentMethodController(db *gorm.DB, cfg *config.Config) *PaymentMethodController {
	return &PaymentMethodController{DB: db, Cfg: cfg}
}

// ListActive is the student-facing payment page: active methods only, in
// display order.
func (ctrl *PaymentMethodController) ListActive(c *fiber.Ctx) error {
	var methods []models.PaymentMethod
	err := ctrl.DB.
		Where("is_active = ?", true).
		Order(`"order" ASC, created_at ASC`).
		Find(&methods).Error
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(methods)
}

func (ctrl *PaymentMethodController) ListAll(c *fiber.Ctx) error {
	var methods []models.PaymentMethod
	err := ctrl.DB.Order(`"order" ASC, created_at ASC`).Find(&methods).Error
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(methods)
}

type PaymentMethodInput struct {
	Name   string  `json:"name" validate:"required"`
	RIB    string  `json:"rib" validate:"required"`
	Logo   *string `json:"logo"`
	QRCode *string `json:"qrCode"`
	Order  *int    `json:"order"`
}

func (ctrl *PaymentMethodController) Create(c *fiber.Ctx) error {
	var input PaymentMethodInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Corps de requête invalide")
	}
	if details := utils.ValidateStruct(input); details != nil {
		return utils.ValidationError(c, details)
	}

	var count int64
	if err := ctrl.DB.Model(&models.PaymentMethod{}).Where("name = ?", input.Name).Count(&count).Error; err != nil {
		return utils.HandleError(c, err)
	}
	if count > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Un moyen de paiement avec ce nom existe déjà"})
	}

	method := models.PaymentMethod{
		Name:     input.Name,
		RIB:      input.RIB,
		Logo:     input.Logo,
		QRCode:   input.QRCode,
		IsActive: true,
	}
	if input.Order != nil {
		method.Order = *input.Order
	} else {
		// Default to the end of the list.
		var maxOrder int
		row := ctrl.DB.Model(&models.PaymentMethod{}).Select(`COALESCE(MAX("order"), 0)`).Row()
		if err := row.Scan(&maxOrder); err != nil {
			return utils.HandleError(c, err)
		}
		method.Order = maxOrder + 1
	}

	if err := ctrl.DB.Create(&method).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(method)
}

type UpdatePaymentMethodInput struct {
	Name     *string `json:"name"`
	RIB      *string `json:"rib"`
	Logo     *string `json:"logo"`
	QRCode   *string `json:"qrCode"`
	Order    *int    `json:"order"`
	IsActive *bool   `json:"isActive"`
}

func (ctrl *PaymentMethodController) Update(c *fiber.Ctx) error {
	var method models.PaymentMethod
	if err := ctrl.DB.First(&method, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Moyen de paiement non trouvé"})
		}
		return utils.HandleError(c, err)
	}

	var input UpdatePaymentMethodInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Corps de requête invalide")
	}

	if input.Name != nil && *input.Name != method.Name {
		var count int64
		if err := ctrl.DB.Model(&models.PaymentMethod{}).Where("name = ? AND id <> ?", *input.Name, method.ID).Count(&count).Error; err != nil {
			return utils.HandleError(c, err)
		}
		if count > 0 {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Un moyen de paiement avec ce nom existe déjà"})
		}
		method.Name = *input.Name
	}
	if input.RIB != nil {
		method.RIB = *input.RIB
	}
	if input.Logo != nil {
		method.Logo = input.Logo
	}
	if input.QRCode != nil {
		method.QRCode = input.QRCode
	}
	if input.Order != nil {
		method.Order = *input.Order
	}
	if input.IsActive != nil {
		method.IsActive = *input.IsActive
	}

	if err := ctrl.DB.Save(&method).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(method)
}

func (ctrl *PaymentMethodController) Delete(c *fiber.Ctx) error {
	var method models.PaymentMethod
	if err := ctrl.DB.First(&method, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Moyen de paiement non trouvé"})
		}
		return utils.HandleError(c, err)
	}
	if err := ctrl.DB.Delete(&method).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Moyen de paiement supprimé avec succès"})
}
