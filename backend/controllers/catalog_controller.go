package controllers

import (
	"errors"

	"github.com/HakiMohamed/QCMMedicalStudent/backend/config"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/models"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CatalogController serves the read side of the content hierarchy:
// academic years, semesters, modules, parts, chapters and sessions.
type CatalogController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCatalogController(db *gorm.DB, cfg *config.Config) *CatalogController {
	return &CatalogController{DB: db, Cfg: cfg}
}

func (ctrl *CatalogController) ListAcademicYears(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)
	query := ctrl.DB.Model(&models.AcademicYear{}).Where("is_active = ?", true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.HandleError(c, err)
	}

	var years []models.AcademicYear
	err := query.Order(`"order" ASC, created_at DESC`).
		Offset(p.Offset).Limit(p.Limit).
		Find(&years).Error
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.Paginate(c, years, total, p.Page, p.Limit)
}

func (ctrl *CatalogController) ListSemesters(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)
	query := ctrl.DB.Model(&models.Semester{}).Where("is_active = ?", true)
	if academicYearID := c.Query("academicYearId"); academicYearID != "" {
		query = query.Where("academic_year_id = ?", academicYearID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.HandleError(c, err)
	}

	var semesters []models.Semester
	err := query.Preload("AcademicYear").
		Order(`"order" ASC, created_at DESC`).
		Offset(p.Offset).Limit(p.Limit).
		Find(&semesters).Error
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.Paginate(c, semesters, total, p.Page, p.Limit)
}

func (ctrl *CatalogController) ListModules(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)
	query := ctrl.DB.Model(&models.Module{}).Where("is_active = ?", true)
	if semesterID := c.Query("semesterId"); semesterID != "" {
		query = query.Where("semester_id = ?", semesterID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.HandleError(c, err)
	}

	var modules []models.Module
	err := query.Preload("Semester.AcademicYear").
		Order(`"order" ASC, created_at DESC`).
		Offset(p.Offset).Limit(p.Limit).
		Find(&modules).Error
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.Paginate(c, modules, total, p.Page, p.Limit)
}

func (ctrl *CatalogController) ListParts(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)
	query := ctrl.DB.Model(&models.Part{}).Where("is_active = ?", true)
	if moduleID := c.Query("moduleId"); moduleID != "" {
		query = query.Where("module_id = ?", moduleID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.HandleError(c, err)
	}

	var parts []models.Part
	err := query.Preload("Module").
		Order(`"order" ASC, created_at DESC`).
		Offset(p.Offset).Limit(p.Limit).
		Find(&parts).Error
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.Paginate(c, parts, total, p.Page, p.Limit)
}

func (ctrl *CatalogController) ListChapters(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)
	query := ctrl.DB.Model(&models.Chapter{}).Where("is_active = ?", true)
	if partID := c.Query("partId"); partID != "" {
		query = query.Where("part_id = ?", partID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.HandleError(c, err)
	}

	var chapters []models.Chapter
	err := query.Preload("Part.Module").
		Order(`"order" ASC, created_at DESC`).
		Offset(p.Offset).Limit(p.Limit).
		Find(&chapters).Error
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.Paginate(c, chapters, total, p.Page, p.Limit)
}

func (ctrl *CatalogController) ListSessions(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)
	query := ctrl.DB.Model(&models.Session{}).Where("is_active = ?", true)
	if chapterID := c.Query("chapterId"); chapterID != "" {
		query = query.Where("chapter_id = ?", chapterID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.HandleError(c, err)
	}

	var sessions []models.Session
	err := query.Preload("Chapter.Part.Module.Semester.AcademicYear").
		Order("year DESC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&sessions).Error
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.Paginate(c, sessions, total, p.Page, p.Limit)
}

// GetSessionQuestions is the student view of a session's questions:
// choices only, never the answer key.
func (ctrl *CatalogController) GetSessionQuestions(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")

	var session models.Session
	if err := ctrl.DB.First(&session, "id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Session non trouvée",
			})
		}
		return utils.HandleError(c, err)
	}

	var questions []models.Question
	err := ctrl.DB.
		Preload("Choices", func(db *gorm.DB) *gorm.DB { return db.Order(`choices."order" ASC`) }).
		Where("session_id = ? AND is_active = ?", sessionID, true).
		Order("created_at DESC").
		Find(&questions).Error
	if err != nil {
		return utils.HandleError(c, err)
	}

	result := make([]fiber.Map, 0, len(questions))
	for _, q := range questions {
		result = append(result, fiber.Map{
			"id":          q.ID,
			"text":        q.Text,
			"type":        q.Type,
			"explanation": q.Explanation,
			"choices":     q.Choices,
		})
	}

	return c.JSON(result)
}
