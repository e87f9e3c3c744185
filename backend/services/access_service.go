package services

import (
	"errors"
	"time"

	"github.com/HakiMohamed/QCMMedicalStudent/backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccessService struct {
	DB *gorm.DB
}

func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{DB: db}
}

// AccessStatus is a SemesterAccess row plus its validity, computed fresh on
// every read so a quietly passed expiry date can never grant stale access.
// The outer IsActive/IsExpired shadow the stored flag and are never persisted.
type AccessStatus struct {
	models.SemesterAccess
	IsActive  bool `json:"isActive"`
	IsExpired bool `json:"isExpired"`
}

type SemesterSummary struct {
	ID           uuid.UUID            `json:"id"`
	Code         string               `json:"code"`
	Name         string               `json:"name"`
	AcademicYear *models.AcademicYear `json:"academicYear"`
	HasAccess    bool                 `json:"hasAccess"`
	IsActive     bool                 `json:"isActive"`
	IsExpired    bool                 `json:"isExpired"`
	AccessType   *models.AccessType   `json:"accessType"`
	ExpiryDate   *time.Time           `json:"expiryDate"`
}

func accessValidity(access *models.SemesterAccess, now time.Time) (isActive, isExpired bool) {
	isExpired = access.ExpiryDate != nil && access.ExpiryDate.Before(now)
	isActive = access.IsActive && !isExpired
	return isActive, isExpired
}

// GetUserSemesterAccess returns the user's grant for a semester, or nil when
// none exists. Absence of a grant is a normal outcome, not an error.
func (s *AccessService) GetUserSemesterAccess(userID, semesterID uuid.UUID) (*AccessStatus, error) {
	var access models.SemesterAccess
	err := s.DB.Preload("Semester.AcademicYear").
		Where("user_id = ? AND semester_id = ?", userID, semesterID).
		First(&access).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	isActive, isExpired := accessValidity(&access, time.Now())
	return &AccessStatus{
		SemesterAccess: access,
		IsActive:       isActive,
		IsExpired:      isExpired,
	}, nil
}

func (s *AccessService) GetUserAllAccesses(userID uuid.UUID) ([]AccessStatus, error) {
	var accesses []models.SemesterAccess
	err := s.DB.Preload("Semester.AcademicYear").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&accesses).Error
	if err != nil {
		return nil, err
	}

	now := time.Now()
	statuses := make([]AccessStatus, 0, len(accesses))
	for _, access := range accesses {
		isActive, isExpired := accessValidity(&access, now)
		statuses = append(statuses, AccessStatus{
			SemesterAccess: access,
			IsActive:       isActive,
			IsExpired:      isExpired,
		})
	}
	return statuses, nil
}

// CheckSemesterAccess answers "can this user see semester X's content".
func (s *AccessService) CheckSemesterAccess(userID, semesterID uuid.UUID) (bool, error) {
	access, err := s.GetUserSemesterAccess(userID, semesterID)
	if err != nil {
		return false, err
	}
	if access == nil {
		return false, nil
	}
	return access.IsActive, nil
}

// GetSemestersWithAccessStatus lists every active semester annotated with the
// user's access. A semester with no grant row is hasAccess=false, isActive=false.
func (s *AccessService) GetSemestersWithAccessStatus(userID uuid.UUID) ([]SemesterSummary, error) {
	var semesters []models.Semester
	err := s.DB.Preload("AcademicYear").
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&semesters).Error
	if err != nil {
		return nil, err
	}

	var accesses []models.SemesterAccess
	if err := s.DB.Where("user_id = ?", userID).Find(&accesses).Error; err != nil {
		return nil, err
	}
	bySemester := make(map[uuid.UUID]*models.SemesterAccess, len(accesses))
	for i := range accesses {
		bySemester[accesses[i].SemesterID] = &accesses[i]
	}

	now := time.Now()
	summaries := make([]SemesterSummary, 0, len(semesters))
	for _, semester := range semesters {
		summary := SemesterSummary{
			ID:           semester.ID,
			Code:         semester.Code,
			Name:         semester.Name,
			AcademicYear: semester.AcademicYear,
		}

		if access, ok := bySemester[semester.ID]; ok {
			isActive, isExpired := accessValidity(access, now)
			accessType := access.AccessType
			summary.HasAccess = true
			summary.IsActive = isActive
			summary.IsExpired = isExpired
			summary.AccessType = &accessType
			summary.ExpiryDate = access.ExpiryDate
		}

		summaries = append(summaries, summary)
	}
	return summaries, nil
}
