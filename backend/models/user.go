package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent    UserRole = "STUDENT"
	RoleAdmin      UserRole = "ADMIN"
	RoleSuperAdmin UserRole = "SUPER_ADMIN"
)

type AccessType string

const (
	AccessTrial AccessType = "TRIAL"
	AccessPaid  AccessType = "PAID"
)

type User struct {
	Base
	Email            string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash     string         `gorm:"not null" json:"-"`
	FirstName        string         `json:"firstName"`
	LastName         string         `json:"lastName"`
	Role             UserRole       `gorm:"default:STUDENT" json:"role"`
	StudentID        *string        `gorm:"uniqueIndex" json:"studentId"`
	ImageURL         *string        `json:"imageUrl"`
	AcademicYearID   *uuid.UUID     `gorm:"type:uuid" json:"academicYearId"`
	AcademicYear     *AcademicYear  `json:"academicYear,omitempty"`
	AccessType       AccessType     `gorm:"default:TRIAL" json:"accessType"`
	AccessExpiryDate *time.Time     `json:"accessExpiryDate"`
	IsActive         bool           `gorm:"default:true" json:"isActive"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
