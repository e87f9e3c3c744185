package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/HakiMohamed/QCMMedicalStudent/backend/config"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/models"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UsersController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewUsersController(db *gorm.DB, cfg *config.Config) *UsersController {
	return &UsersController{DB: db, Cfg: cfg}
}

func (ctrl *UsersController) List(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)

	query := ctrl.DB.Model(&models.User{})
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"email LIKE ? OR first_name LIKE ? OR last_name LIKE ? OR student_id LIKE ?",
			like, like, like, like,
		)
	}
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.HandleError(c, err)
	}

	var users []models.User
	err := query.
		Preload("AcademicYear").
		Order("created_at DESC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&users).Error
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.Paginate(c, users, total, p.Page, p.Limit)
}

func (ctrl *UsersController) Get(c *fiber.Ctx) error {
	var user models.User
	err := ctrl.DB.Preload("AcademicYear").First(&user, "id = ?", c.Params("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Utilisateur non trouvé"})
		}
		return utils.HandleError(c, err)
	}
	return c.JSON(user)
}

type CreateUserInput struct {
	Email          string          `json:"email" validate:"required,email"`
	Password       string          `json:"password" validate:"required,min=8"`
	FirstName      string          `json:"firstName" validate:"required"`
	LastName       string          `json:"lastName" validate:"required"`
	Role           models.UserRole `json:"role" validate:"omitempty,oneof=STUDENT ADMIN SUPER_ADMIN"`
	AcademicYearID *uuid.UUID      `json:"academicYearId"`
}

func (ctrl *UsersController) Create(c *fiber.Ctx) error {
	var input CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Corps de requête invalide")
	}
	if details := utils.ValidateStruct(input); details != nil {
		return utils.ValidationError(c, details)
	}

	var count int64
	if err := ctrl.DB.Model(&models.User{}).Where("email = ?", input.Email).Count(&count).Error; err != nil {
		return utils.HandleError(c, err)
	}
	if count > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Un compte existe déjà avec cet email"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.HandleError(c, err)
	}

	role := input.Role
	if role == "" {
		role = models.RoleStudent
	}

	user := models.User{
		Email:          input.Email,
		PasswordHash:   string(hash),
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Role:           role,
		AcademicYearID: input.AcademicYearID,
		AccessType:     models.AccessTrial,
		IsActive:       true,
	}

	if role == models.RoleStudent {
		studentID, err := ctrl.nextStudentID()
		if err != nil {
			return utils.HandleError(c, err)
		}
		user.StudentID = &studentID
	}

	if err := ctrl.DB.Create(&user).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// nextStudentID issues sequential identifiers of the form STU-26-0042,
// scoped to the current year so the counter resets each January.
func (ctrl *UsersController) nextStudentID() (string, error) {
	prefix := fmt.Sprintf("STU-%s-", time.Now().Format("06"))
	var count int64
	err := ctrl.DB.Model(&models.User{}).Unscoped().
		Where("student_id LIKE ?", prefix+"%").
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

type AdminUpdateUserInput struct {
	Email          *string          `json:"email" validate:"omitempty,email"`
	Password       *string          `json:"password" validate:"omitempty,min=8"`
	FirstName      *string          `json:"firstName"`
	LastName       *string          `json:"lastName"`
	Role           *models.UserRole `json:"role" validate:"omitempty,oneof=STUDENT ADMIN SUPER_ADMIN"`
	AcademicYearID *uuid.UUID       `json:"academicYearId"`
	IsActive       *bool            `json:"isActive"`
}

func (ctrl *UsersController) Update(c *fiber.Ctx) error {
	var user models.User
	if err := ctrl.DB.First(&user, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Utilisateur non trouvé"})
		}
		return utils.HandleError(c, err)
	}

	var input AdminUpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Corps de requête invalide")
	}
	if details := utils.ValidateStruct(input); details != nil {
		return utils.ValidationError(c, details)
	}

	if input.Email != nil && *input.Email != user.Email {
		var count int64
		if err := ctrl.DB.Model(&models.User{}).Where("email = ? AND id <> ?", *input.Email, user.ID).Count(&count).Error; err != nil {
			return utils.HandleError(c, err)
		}
		if count > 0 {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Un compte existe déjà avec cet email"})
		}
		user.Email = *input.Email
	}
	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return utils.HandleError(c, err)
		}
		user.PasswordHash = string(hash)
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.AcademicYearID != nil {
		user.AcademicYearID = input.AcademicYearID
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := ctrl.DB.Save(&user).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(user)
}

func (ctrl *UsersController) Delete(c *fiber.Ctx) error {
	var user models.User
	if err := ctrl.DB.First(&user, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Utilisateur non trouvé"})
		}
		return utils.HandleError(c, err)
	}
	if err := ctrl.DB.Delete(&user).Error; err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Utilisateur supprimé avec succès"})
}
