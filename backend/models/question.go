package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionSingleChoice   QuestionType = "SINGLE_CHOICE"
	QuestionMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionTrueFalse      QuestionType = "TRUE_FALSE"
)

type Question struct {
	Base
	SessionID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"sessionId"`
	Session        *Session        `json:"session,omitempty"`
	Text           string          `gorm:"not null" json:"text"`
	Type           QuestionType    `gorm:"not null" json:"type"`
	Explanation    *string         `json:"explanation"`
	Order          int             `gorm:"default:0" json:"order"`
	IsActive       bool            `gorm:"default:true" json:"isActive"`
	Choices        []Choice        `json:"choices,omitempty"`
	CorrectAnswers []CorrectAnswer `json:"correctAnswers,omitempty"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}

// Choice label (A, B, C...) is unique within its question, not globally.
type Choice struct {
	Base
	QuestionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_choices_question_label" json:"questionId"`
	Label      string    `gorm:"not null;uniqueIndex:idx_choices_question_label" json:"label"`
	Text       string    `gorm:"not null" json:"text"`
	Order      int       `gorm:"default:0" json:"order"`
}

// CorrectAnswer marks a choice as part of the answer key of its question.
// SINGLE_CHOICE and TRUE_FALSE questions carry exactly one row, MULTIPLE_CHOICE one or more.
type CorrectAnswer struct {
	Base
	QuestionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_correct_answers_question_choice" json:"questionId"`
	ChoiceID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_correct_answers_question_choice" json:"choiceId"`
	Choice     *Choice   `json:"choice,omitempty"`
}

// UserAnswer records one selected choice, with correctness denormalized at write time.
// Re-submitting the same (user, question, choice) triplet overwrites instead of duplicating.
type UserAnswer struct {
	Base
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_answers_user_question_choice" json:"userId"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_answers_user_question_choice" json:"questionId"`
	ChoiceID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_answers_user_question_choice" json:"choiceId"`
	Question   *Question `json:"question,omitempty"`
	IsCorrect  bool      `json:"isCorrect"`
}
