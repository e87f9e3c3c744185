package controllers

import (
	"errors"
	"time"

	"github.com/HakiMohamed/QCMMedicalStudent/backend/config"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/middleware"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/models"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/utils"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAuthController(db *gorm.DB, cfg *config.Config) *AuthController {
	return &AuthController{DB: db, Cfg: cfg}
}

type RegisterInput struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	FirstName    string `json:"firstName" validate:"required"`
	LastName     string `json:"lastName" validate:"required"`
	AcademicYear string `json:"academicYear"`
	SemesterCode string `json:"semesterCode"`
}

func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Corps de requête invalide")
	}
	if details := utils.ValidateStruct(input); details != nil {
		return utils.ValidationError(c, details)
	}

	var existing models.User
	err := ac.DB.Where("email = ?", input.Email).First(&existing).Error
	if err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Un utilisateur avec cet email existe déjà",
		})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.HandleError(c, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.HandleError(c, err)
	}

	trialExpiry := time.Now().AddDate(0, 0, ac.Cfg.TrialAccessDays)
	user := models.User{
		Email:            input.Email,
		PasswordHash:     string(hashedPassword),
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		Role:             models.RoleStudent,
		AccessType:       models.AccessTrial,
		AccessExpiryDate: &trialExpiry,
		IsActive:         true,
	}

	// Optional affiliation: a known academic year + semester code also grants
	// a trial access to that semester.
	var trialSemester *models.Semester
	if input.AcademicYear != "" && input.SemesterCode != "" {
		var year models.AcademicYear
		err := ac.DB.Where("name = ? AND is_active = ?", input.AcademicYear, true).First(&year).Error
		if err == nil {
			user.AcademicYearID = &year.ID
			var semester models.Semester
			err = ac.DB.Where("code = ?", input.SemesterCode).First(&semester).Error
			if err == nil && semester.AcademicYearID == year.ID {
				trialSemester = &semester
			}
		}
	}

	if err := ac.DB.Create(&user).Error; err != nil {
		return utils.HandleError(c, err)
	}

	if trialSemester != nil {
		access := models.SemesterAccess{
			UserID:     user.ID,
			SemesterID: trialSemester.ID,
			AccessType: models.AccessTrial,
			StartDate:  time.Now(),
			ExpiryDate: &trialExpiry,
			IsActive:   true,
		}
		if err := ac.DB.Create(&access).Error; err != nil {
			return utils.HandleError(c, err)
		}
	}

	token, err := utils.GenerateJWTToken(&user, ac.Cfg)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":        user.ID,
			"email":     user.Email,
			"firstName": user.FirstName,
			"lastName":  user.LastName,
			"role":      user.Role,
		},
	})
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Corps de requête invalide")
	}
	if details := utils.ValidateStruct(input); details != nil {
		return utils.ValidationError(c, details)
	}

	var user models.User
	if err := ac.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Unauthorized(c, "Email ou mot de passe incorrect")
		}
		return utils.HandleError(c, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return utils.Unauthorized(c, "Email ou mot de passe incorrect")
	}

	token, err := utils.GenerateJWTToken(&user, ac.Cfg)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":        user.ID,
			"email":     user.Email,
			"firstName": user.FirstName,
			"lastName":  user.LastName,
			"role":      user.Role,
		},
	})
}

func (ac *AuthController) GetProfile(c *fiber.Ctx) error {
	var user models.User
	err := ac.DB.Preload("AcademicYear").First(&user, "id = ?", middleware.UserID(c)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Utilisateur non trouvé",
			})
		}
		return utils.HandleError(c, err)
	}

	return c.JSON(user)
}

type UpdateProfileInput struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  *string `json:"password" validate:"omitempty,min=8"`
	ImageURL  *string `json:"imageUrl"`
}

func (ac *AuthController) UpdateProfile(c *fiber.Ctx) error {
	var input UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Corps de requête invalide")
	}
	if details := utils.ValidateStruct(input); details != nil {
		return utils.ValidationError(c, details)
	}

	var user models.User
	if err := ac.DB.First(&user, "id = ?", middleware.UserID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Utilisateur non trouvé",
			})
		}
		return utils.HandleError(c, err)
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.ImageURL != nil {
		user.ImageURL = input.ImageURL
	}
	if input.Email != nil && *input.Email != user.Email {
		var existing models.User
		err := ac.DB.Where("email = ?", *input.Email).First(&existing).Error
		if err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Cet email est déjà utilisé",
			})
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.HandleError(c, err)
		}
		user.Email = *input.Email
	}
	if input.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return utils.HandleError(c, err)
		}
		user.PasswordHash = string(hashedPassword)
	}

	if err := ac.DB.Save(&user).Error; err != nil {
		return utils.HandleError(c, err)
	}

	return c.JSON(user)
}
