package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Student struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	FirstName     string    `json:"first_name" gorm:"not null"`
	LastName      string    `json:"last_name" gorm:"not null"`
	DateOfReceipt time.Time `json:"date_of_receipt" gorm:"type:date;not null"`
	UserID        uint      `json:"user" gorm:"not null;index"`
	User          User      `json:"-" gorm:"foreignKey:UserID"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Student) TableName() string {
	return "students"
}

func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (s Student) String() string {
	return s.FirstName
}
