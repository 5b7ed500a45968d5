package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CourseID   uuid.UUID `json:"course" gorm:"type:uuid;not null;index"`
	StudentID  uuid.UUID `json:"student" gorm:"type:uuid;not null;index"`
	ReviewText *string   `json:"review_text"`
	Grade      int       `json:"grade" gorm:"not null;default:5"`
	Course     Course    `json:"-" gorm:"foreignKey:CourseID"`
	Student    Student   `json:"-" gorm:"foreignKey:StudentID"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Review) TableName() string {
	return "reviews"
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (r Review) String() string {
	return fmt.Sprintf("Review for %s by %s", r.Course.Title, r.Student.FirstName)
}
