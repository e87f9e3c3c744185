package controllers

import (
	"errors"

	"github.com/HakiMohamed/QCMMedicalStudent/backend/config"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/models"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContentController is the admin write side of the content hierarchy.
// Deletes are soft: entities are deactivated or tombstoned, never removed.
type ContentController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewContentController(db *gorm.DB, cfg *config.Config) *ContentController {
	return &ContentController{DB: db, Cfg: cfg}
}

func (ctrl *ContentController) conflictIfCodeExists(c *fiber.Ctx, model interface{}, code string) error {
	var count int64
	if err := ctrl.DB.Model(model).Where("code = ?", code).Count(&count).Error; err != nil {
		return utils.HandleError(c, err)
	}
	if count > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Un élément avec ce code existe déjà",
		})
	}
	return nil
}

// --- Academic years ---

type AcademicYearInput struct {
	Code  string `json:"code" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Order int    `json:"order"`
}

func (ctrl *ContentController) CreateAcademicYear(c *fiber.Ctx) error {
	var input AcademicYearInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Corps de requête invalide")
	}
	if details := utils.ValidateStruct(input); details != nil {
		return utils.ValidationError(c, details)
	}
	if resp := ctrl.conflictIfCodeExists(c, &models.AcademicYear{}, input.Code); resp != nil {
		return resp
	}

	year := models.AcademicYear{
		Code:     input.Code,
		Name:     input.Name,
		Order:    input.Order,
		IsActive: true,
	}
	if err := ctrl.DB.Create(&year).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(year)
}

type UpdateAcademicYearInput struct {
	Name     *string `json:"name"`
	Order    *int    `json:"order"`
	IsActive *bool   `json:"isActive"`
}

func (ctrl *ContentController) UpdateAcademicYear(c *fiber.Ctx) error {
	var year models.AcademicYear
	if err := ctrl.DB.First(&year, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Année académique non trouvée"})
		}
		return utils.HandleError(c, err)
	}

	var input UpdateAcademicYearInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Corps de requête invalide")
	}

	if input.Name != nil {
		year.Name = *input.Name
	}
	if input.Order != nil {
		year.Order = *input.Order
	}
	if input.IsActive != nil {
		year.IsActive = *input.IsActive
	}

	if err := ctrl.DB.Save(&year).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(year)
}

// --- Semesters ---

type SemesterInput struct {
	Code           string    `json:"code" validate:"required"`
	Name           string    `json:"name" validate:"required"`
	Order          int       `json:"order"`
	AcademicYearID uuid.UUID `json:"academicYearId" validate:"required"`
	ImageURL       *string   `json:"imageUrl"`
}

func (ctrl *ContentController) CreateSemester(c *fiber.Ctx) error {
	var input SemesterInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Corps de requête invalide")
	}
	if details := utils.ValidateStruct(input); details != nil {
		return utils.ValidationError(c, details)
	}
	if resp := ctrl.conflictIfCodeExists(c, &models.Semester{}, input.Code); resp != nil {
		return resp
	}

	var year models.AcademicYear
	if err := ctrl.DB.First(&year, "id = ?", input.AcademicYearID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Année académique non trouvée"})
		}
		return utils.HandleError(c, err)
	}

	semester := models.Semester{
		Code:           input.Code,
		Name:           input.Name,
		Order:          input.Order,
		AcademicYearID: input.AcademicYearID,
		ImageURL:       input.ImageURL,
		IsActive:       true,
	}
	if err := ctrl.DB.Create(&semester).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(semester)
}

type UpdateCatalogEntryInput struct {
	Name     *string `json:"name"`
	Order    *int    `json:"order"`
	IsActive *bool   `json:"isActive"`
	ImageURL *string `json:"imageUrl"`
}

func (ctrl *ContentController) UpdateSemester(c *fiber.Ctx) error {
	var semester models.Semester
	if err := ctrl.DB.First(&semester, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Semestre non trouvé"})
		}
		return utils.HandleError(c, err)
	}

	var input UpdateCatalogEntryInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Corps de requête invalide")
	}

	if input.Name != nil {
		semester.Name = *input.Name
	}
	if input.Order != nil {
		semester.Order = *input.Order
	}
	if input.IsActive != nil {
		semester.IsActive = *input.IsActive
	}
	if input.ImageURL != nil {
		semester.ImageURL = input.ImageURL
	}

	if err := ctrl.DB.Save(&semester).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(semester)
}

// --- Modules ---

type ModuleInput struct {
	Code       string    `json:"code" validate:"required"`
	Name       string    `json:"name" validate:"required"`
	Order      int       `json:"order"`
	SemesterID uuid.UUID `json:"semesterId" validate:"required"`
	ImageURL   *string   `json:"imageUrl"`
}

func (ctrl *ContentController) CreateModule(c *fiber.Ctx) error {
	var input ModuleInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Corps de requête invalide")
	}
	if details := utils.ValidateStruct(input); details != nil {
		return utils.ValidationError(c, details)
	}
	if resp := ctrl.conflictIfCodeExists(c, &models.Module{}, input.Code); resp != nil {
		return resp
	}

	var semester models.Semester
	if err := ctrl.DB.First(&semester, "id = ?", input.SemesterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Semestre non trouvé"})
		}
		return utils.HandleError(c, err)
	}

	module := models.Module{
		Code:       input.Code,
		Name:       input.Name,
		Order:      input.Order,
		SemesterID: input.SemesterID,
		ImageURL:   input.ImageURL,
		IsActive:   true,
	}
	if err := ctrl.DB.Create(&module).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(module)
}

func (ctrl *ContentController) UpdateModule(c *fiber.Ctx) error {
	var module models.Module
	if err := ctrl.DB.First(&module, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Module non trouvé"})
		}
		return utils.HandleError(c, err)
	}

	var input UpdateCatalogEntryInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Corps de requête invalide")
	}

	if input.Name != nil {
		module.Name = *input.Name
	}
	if input.Order != nil {
		module.Order = *input.Order
	}
	if input.IsActive != nil {
		module.IsActive = *input.IsActive
	}
	if input.ImageURL != nil {
		module.ImageURL = input.ImageURL
	}

	if err := ctrl.DB.Save(&module).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(module)
}

func (ctrl *ContentController) DeleteModule(c *fiber.Ctx) error {
	var module models.Module
	if err := ctrl.DB.First(&module, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Module non trouvé"})
		}
		return utils.HandleError(c, err)
	}
	if err := ctrl.DB.Delete(&module).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Module supprimé avec succès"})
}

// --- Parts ---

type PartInput struct {
	Code     string    `json:"code" validate:"required"`
	Name     string    `json:"name" validate:"required"`
	Order    int       `json:"order"`
	ModuleID uuid.UUID `json:"moduleId" validate:"required"`
}

func (ctrl *ContentController) CreatePart(c *fiber.Ctx) error {
	var input PartInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Corps de requête invalide")
	}
	if details := utils.ValidateStruct(input); details != nil {
		return utils.ValidationError(c, details)
	}
	if resp := ctrl.conflictIfCodeExists(c, &models.Part{}, input.Code); resp != nil {
		return resp
	}

	var module models.Module
	if err := ctrl.DB.First(&module, "id = ?", input.ModuleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Module non trouvé"})
		}
		return utils.HandleError(c, err)
	}

	part := models.Part{
		Code:     input.Code,
		Name:     input.Name,
		Order:    input.Order,
		ModuleID: input.ModuleID,
		IsActive: true,
	}
	if err := ctrl.DB.Create(&part).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(part)
}

func (ctrl *ContentController) UpdatePart(c *fiber.Ctx) error {
	var part models.Part
	if err := ctrl.DB.First(&part, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Partie non trouvée"})
		}
		return utils.HandleError(c, err)
	}

	var input UpdateCatalogEntryInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Corps de requête invalide")
	}

	if input.Name != nil {
		part.Name = *input.Name
	}
	if input.Order != nil {
		part.Order = *input.Order
	}
	if input.IsActive != nil {
		part.IsActive = *input.IsActive
	}

	if err := ctrl.DB.Save(&part).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(part)
}

func (ctrl *ContentController) DeletePart(c *fiber.Ctx) error {
	var part models.Part
	if err := ctrl.DB.First(&part, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Partie non trouvée"})
		}
		return utils.HandleError(c, err)
	}
	if err := ctrl.DB.Delete(&part).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Partie supprimée avec succès"})
}

// --- Chapters ---

type ChapterInput struct {
	Code   string    `json:"code" validate:"required"`
	Name   string    `json:"name" validate:"required"`
	Order  int       `json:"order"`
	PartID uuid.UUID `json:"partId" validate:"required"`
}

func (ctrl *ContentController) CreateChapter(c *fiber.Ctx) error {
	var input ChapterInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Corps de requête invalide")
	}
	if details := utils.ValidateStruct(input); details != nil {
		return utils.ValidationError(c, details)
	}
	if resp := ctrl.conflictIfCodeExists(c, &models.Chapter{}, input.Code); resp != nil {
		return resp
	}

	var part models.Part
	if err := ctrl.DB.First(&part, "id = ?", input.PartID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Partie non trouvée"})
		}
		return utils.HandleError(c, err)
	}

	chapter := models.Chapter{
		Code:     input.Code,
		Name:     input.Name,
		Order:    input.Order,
		PartID:   input.PartID,
		IsActive: true,
	}
	if err := ctrl.DB.Create(&chapter).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(chapter)
}

func (ctrl *ContentController) UpdateChapter(c *fiber.Ctx) error {
	var chapter models.Chapter
	if err := ctrl.DB.First(&chapter, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Chapitre non trouvé"})
		}
		return utils.HandleError(c, err)
	}

	var input UpdateCatalogEntryInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Corps de requête invalide")
	}

	if input.Name != nil {
		chapter.Name = *input.Name
	}
	if input.Order != nil {
		chapter.Order = *input.Order
	}
	if input.IsActive != nil {
		chapter.IsActive = *input.IsActive
	}

	if err := ctrl.DB.Save(&chapter).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(chapter)
}

func (ctrl *ContentController) DeleteChapter(c *fiber.Ctx) error {
	var chapter models.Chapter
	if err := ctrl.DB.First(&chapter, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Chapitre non trouvé"})
		}
		return utils.HandleError(c, err)
	}
	if err := ctrl.DB.Delete(&chapter).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Chapitre supprimé avec succès"})
}

// --- Sessions ---

type SessionInput struct {
	Type      models.SessionType `json:"type" validate:"required,oneof=NORMAL RATTRAPAGE"`
	Year      int                `json:"year" validate:"required"`
	ChapterID uuid.UUID          `json:"chapterId" validate:"required"`
	ImageURL  *string            `json:"imageUrl"`
}

func (ctrl *ContentController) CreateSession(c *fiber.Ctx) error {
	var input SessionInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Corps de requête invalide")
	}
	if details := utils.ValidateStruct(input); details != nil {
		return utils.ValidationError(c, details)
	}

	var chapter models.Chapter
	if err := ctrl.DB.First(&chapter, "id = ?", input.ChapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Chapitre non trouvé"})
		}
		return utils.HandleError(c, err)
	}

	var count int64
	err := ctrl.DB.Model(&models.Session{}).
		Where("type = ? AND year = ? AND chapter_id = ?", input.Type, input.Year, input.ChapterID).
		Count(&count).Error
	if err != nil {
		return utils.HandleError(c, err)
	}
	if count > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Une session avec ces paramètres existe déjà",
		})
	}

	session := models.Session{
		Type:      input.Type,
		Year:      input.Year,
		ChapterID: input.ChapterID,
		ImageURL:  input.ImageURL,
		IsActive:  true,
	}
	if err := ctrl.DB.Create(&session).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

type UpdateSessionInput struct {
	Type     *models.SessionType `json:"type" validate:"omitempty,oneof=NORMAL RATTRAPAGE"`
	Year     *int                `json:"year"`
	IsActive *bool               `json:"isActive"`
	ImageURL *string             `json:"imageUrl"`
}

func (ctrl *ContentController) UpdateSession(c *fiber.Ctx) error {
	var session models.Session
	if err := ctrl.DB.First(&session, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session non trouvée"})
		}
		return utils.HandleError(c, err)
	}

	var input UpdateSessionInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Corps de requête invalide")
	}
	if details := utils.ValidateStruct(input); details != nil {
		return utils.ValidationError(c, details)
	}

	// Changing the type or year must not collide with another session of the
	// same chapter.
	if input.Type != nil || input.Year != nil {
		newType := session.Type
		if input.Type != nil {
			newType = *input.Type
		}
		newYear := session.Year
		if input.Year != nil {
			newYear = *input.Year
		}

		var count int64
		err := ctrl.DB.Model(&models.Session{}).
			Where("type = ? AND year = ? AND chapter_id = ? AND id <> ?", newType, newYear, session.ChapterID, session.ID).
			Count(&count).Error
		if err != nil {
			return utils.HandleError(c, err)
		}
		if count > 0 {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Une session avec ces paramètres existe déjà",
			})
		}

		session.Type = newType
		session.Year = newYear
	}
	if input.IsActive != nil {
		session.IsActive = *input.IsActive
	}
	if input.ImageURL != nil {
		session.ImageURL = input.ImageURL
	}

	if err := ctrl.DB.Save(&session).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(session)
}

func (ctrl *ContentController) DeleteSession(c *fiber.Ctx) error {
	var session models.Session
	if err := ctrl.DB.First(&session, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session non trouvée"})
		}
		return utils.HandleError(c, err)
	}

	session.IsActive = false
	if err := ctrl.DB.Save(&session).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Session désactivée avec succès"})
}
