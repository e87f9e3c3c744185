package models

import (
	"time"

	"github.com/google/uuid"
)

// SemesterAccess grants a user entitlement to one semester's content.
// The stored IsActive flag is not enough on its own: validity also requires
// the expiry date (when set) to be in the future, computed fresh on every read.
type SemesterAccess struct {
	Base
	UserID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_semester_accesses_user_semester" json:"userId"`
	SemesterID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_semester_accesses_user_semester" json:"semesterId"`
	Semester   *Semester  `json:"semester,omitempty"`
	AccessType AccessType `gorm:"not null" json:"accessType"`
	StartDate  time.Time  `gorm:"not null" json:"startDate"`
	ExpiryDate *time.Time `json:"expiryDate"`
	IsActive   bool       `gorm:"default:true" json:"isActive"`
}

type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

// UnlockRequest is a user's bid to convert a paywalled semester into a PAID
// entitlement. PENDING is the only mutable state; APPROVED and REJECTED are terminal.
type UnlockRequest struct {
	Base
	UserID       uuid.UUID     `gorm:"type:uuid;not null;index" json:"userId"`
	User         *User         `json:"user,omitempty"`
	SemesterID   uuid.UUID     `gorm:"type:uuid;not null;index" json:"semesterId"`
	Semester     *Semester     `json:"semester,omitempty"`
	PaymentProof string        `gorm:"not null" json:"paymentProof"`
	Status       RequestStatus `gorm:"default:PENDING" json:"status"`
	AdminNotes   *string       `json:"adminNotes"`
	ProcessedBy  *uuid.UUID    `gorm:"type:uuid" json:"processedBy"`
	ProcessedAt  *time.Time    `json:"processedAt"`
}
