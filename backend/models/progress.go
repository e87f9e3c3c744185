package models

import (
	"time"

	"github.com/google/uuid"
)

// UserProgress is the per-chapter rollup derived from UserAnswer rows.
// It is cached state: always recomputable from the answers and the question bank.
type UserProgress struct {
	Base
	UserID            uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_progress_user_chapter" json:"userId"`
	ChapterID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_progress_user_chapter" json:"chapterId"`
	Chapter           *Chapter   `json:"chapter,omitempty"`
	TotalQuestions    int        `gorm:"default:0" json:"totalQuestions"`
	AnsweredQuestions int        `gorm:"default:0" json:"answeredQuestions"`
	CorrectAnswers    int        `gorm:"default:0" json:"correctAnswers"`
	WrongAnswers      int        `gorm:"default:0" json:"wrongAnswers"`
	Score             float64    `gorm:"default:0" json:"score"`
	Percentage        float64    `gorm:"default:0" json:"percentage"`
	Level             string     `json:"level"`
	LastAccessedAt    time.Time  `json:"lastAccessedAt"`
	CompletedAt       *time.Time `json:"completedAt"`
}
