package services

import (
	"errors"
	"time"

	"github.com/HakiMohamed/QCMMedicalStudent/backend/config"
	"github.com/HakiMohamed/QCMMedicalStudent/backend/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UnlockService moves paywall-bypass requests through PENDING -> APPROVED/REJECTED.
// Terminal states are immutable.
type UnlockService struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewUnlockService(db *gorm.DB, cfg *config.Config) *UnlockService {
	return &UnlockService{DB: db, Cfg: cfg}
}

func (s *UnlockService) Create(userID, semesterID uuid.UUID, paymentProof string) (*models.UnlockRequest, error) {
	var semester models.Semester
	if err := s.DB.First(&semester, "id = ?", semesterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Semestre non trouvé")
		}
		return nil, err
	}

	// At most one PENDING request per (user, semester).
	var pendingCount int64
	err := s.DB.Model(&models.UnlockRequest{}).
		Where("user_id = ? AND semester_id = ? AND status = ?", userID, semesterID, models.RequestPending).
		Count(&pendingCount).Error
	if err != nil {
		return nil, err
	}
	if pendingCount > 0 {
		return nil, fiber.NewError(fiber.StatusConflict, "Une demande de déverrouillage est déjà en attente pour ce semestre")
	}

	var existing models.SemesterAccess
	err = s.DB.Where("user_id = ? AND semester_id = ?", userID, semesterID).First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil && existing.IsActive {
		if existing.ExpiryDate == nil || existing.ExpiryDate.After(time.Now()) {
			return nil, fiber.NewError(fiber.StatusConflict, "Vous avez déjà accès à ce semestre")
		}
	}

	request := models.UnlockRequest{
		UserID:       userID,
		SemesterID:   semesterID,
		PaymentProof: paymentProof,
		Status:       models.RequestPending,
	}
	if err := s.DB.Create(&request).Error; err != nil {
		return nil, err
	}

	err = s.DB.Preload("User").Preload("Semester.AcademicYear").
		First(&request, "id = ?", request.ID).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (s *UnlockService) ListForUser(userID uuid.UUID) ([]models.UnlockRequest, error) {
	var requests []models.UnlockRequest
	err := s.DB.Preload("Semester.AcademicYear").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (s *UnlockService) ListAll(status models.RequestStatus) ([]models.UnlockRequest, error) {
	query := s.DB.Preload("User").Preload("Semester.AcademicYear").Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []models.UnlockRequest
	err := query.Find(&requests).Error
	return requests, err
}

// Process adjudicates a PENDING request. Approval upserts a one-year PAID
// entitlement as an unconditional overwrite: a later approval resets the
// grant's dates instead of extending them.
func (s *UnlockService) Process(requestID, adminID uuid.UUID, status models.RequestStatus, adminNotes *string) (*models.UnlockRequest, error) {
	if status != models.RequestApproved && status != models.RequestRejected {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Statut invalide")
	}

	var request models.UnlockRequest
	if err := s.DB.First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Demande non trouvée")
		}
		return nil, err
	}

	if request.Status != models.RequestPending {
		return nil, fiber.NewError(fiber.StatusConflict, "Cette demande a déjà été traitée")
	}

	now := time.Now()
	request.Status = status
	request.AdminNotes = adminNotes
	request.ProcessedAt = &now
	request.ProcessedBy = &adminID
	if err := s.DB.Save(&request).Error; err != nil {
		return nil, err
	}

	if status == models.RequestApproved {
		if err := s.grantPaidAccess(request.UserID, request.SemesterID, now); err != nil {
			return nil, err
		}
	}

	return &request, nil
}

func (s *UnlockService) grantPaidAccess(userID, semesterID uuid.UUID, now time.Time) error {
	years := 1
	if s.Cfg != nil && s.Cfg.PaidAccessYears > 0 {
		years = s.Cfg.PaidAccessYears
	}
	expiryDate := now.AddDate(years, 0, 0)

	var access models.SemesterAccess
	err := s.DB.Where("user_id = ? AND semester_id = ?", userID, semesterID).First(&access).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		access = models.SemesterAccess{
			UserID:     userID,
			SemesterID: semesterID,
			AccessType: models.AccessPaid,
			StartDate:  now,
			ExpiryDate: &expiryDate,
			IsActive:   true,
		}
		return s.DB.Create(&access).Error
	}

	access.AccessType = models.AccessPaid
	access.StartDate = now
	access.ExpiryDate = &expiryDate
	access.IsActive = true
	return s.DB.Save(&access).Error
}
