package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Catalog hierarchy: AcademicYear -> Semester -> Module -> Part -> Chapter -> Session.

type AcademicYear struct {
	Base
	Code      string     `gorm:"uniqueIndex;not null" json:"code"`
	Name      string     `gorm:"not null" json:"name"`
	Order     int        `gorm:"default:0" json:"order"`
	IsActive  bool       `gorm:"default:true" json:"isActive"`
	Semesters []Semester `json:"semesters,omitempty"`
}

type Semester struct {
	Base
	Code           string        `gorm:"uniqueIndex;not null" json:"code"`
	Name           string        `gorm:"not null" json:"name"`
	Order          int           `gorm:"default:0" json:"order"`
	IsActive       bool          `gorm:"default:true" json:"isActive"`
	ImageURL       *string       `json:"imageUrl"`
	AcademicYearID uuid.UUID     `gorm:"type:uuid;not null" json:"academicYearId"`
	AcademicYear   *AcademicYear `json:"academicYear,omitempty"`
	Modules        []Module      `json:"modules,omitempty"`
}

type Module struct {
	Base
	Code       string         `gorm:"uniqueIndex;not null" json:"code"`
	Name       string         `gorm:"not null" json:"name"`
	Order      int            `gorm:"default:0" json:"order"`
	IsActive   bool           `gorm:"default:true" json:"isActive"`
	ImageURL   *string        `json:"imageUrl"`
	SemesterID uuid.UUID      `gorm:"type:uuid;not null" json:"semesterId"`
	Semester   *Semester      `json:"semester,omitempty"`
	Parts      []Part         `json:"parts,omitempty"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

type Part struct {
	Base
	Code      string         `gorm:"uniqueIndex;not null" json:"code"`
	Name      string         `gorm:"not null" json:"name"`
	Order     int            `gorm:"default:0" json:"order"`
	IsActive  bool           `gorm:"default:true" json:"isActive"`
	ModuleID  uuid.UUID      `gorm:"type:uuid;not null" json:"moduleId"`
	Module    *Module        `json:"module,omitempty"`
	Chapters  []Chapter      `json:"chapters,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type Chapter struct {
	Base
	Code      string         `gorm:"uniqueIndex;not null" json:"code"`
	Name      string         `gorm:"not null" json:"name"`
	Order     int            `gorm:"default:0" json:"order"`
	IsActive  bool           `gorm:"default:true" json:"isActive"`
	PartID    uuid.UUID      `gorm:"type:uuid;not null" json:"partId"`
	Part      *Part          `json:"part,omitempty"`
	Sessions  []Session      `json:"sessions,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type SessionType string

const (
	SessionNormal     SessionType = "NORMAL"
	SessionRattrapage SessionType = "RATTRAPAGE"
)

// Session is the exam sitting of a chapter for a given year.
// No two sessions share the same (type, year, chapter).
type Session struct {
	Base
	Type      SessionType `gorm:"not null;uniqueIndex:idx_sessions_type_year_chapter" json:"type"`
	Year      int         `gorm:"not null;uniqueIndex:idx_sessions_type_year_chapter" json:"year"`
	ChapterID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_sessions_type_year_chapter" json:"chapterId"`
	Chapter   *Chapter    `json:"chapter,omitempty"`
	ImageURL  *string     `json:"imageUrl"`
	IsActive  bool        `gorm:"default:true" json:"isActive"`
	Questions []Question  `json:"questions,omitempty"`
}
