package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourseToStudent связывает студента с курсом, пара уникальна
type CourseToStudent struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CourseID  uuid.UUID `json:"course" gorm:"type:uuid;not null;uniqueIndex:idx_course_student"`
	StudentID uuid.UUID `json:"student" gorm:"type:uuid;not null;uniqueIndex:idx_course_student"`
	Course    Course    `json:"-" gorm:"foreignKey:CourseID"`
	Student   Student   `json:"-" gorm:"foreignKey:StudentID"`
	CreatedAt time.Time `json:"created_at"`
}

func (CourseToStudent) TableName() string {
	return "course_to_students"
}

func (cts *CourseToStudent) BeforeCreate(tx *gorm.DB) error {
	if cts.ID == uuid.Nil {
		cts.ID = uuid.New()
	}
	return nil
}

func (cts CourseToStudent) String() string {
	return fmt.Sprintf("%s to %s", cts.Course.Title, cts.Student.FirstName)
}
