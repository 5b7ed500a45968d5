package handlers

import (
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"courses-backend/auth"
	"courses-backend/models"
)

// Предельные длины полей форм
const (
	maxNameLength   = 30
	maxReviewLength = 100
)

// isOwnerOrStaff решает, может ли пользователь менять чужой объект
func isOwnerOrStaff(claims *auth.JWTClaims, ownerID uint) bool {
	if claims == nil {
		return false
	}
	return claims.IsStaff || claims.UserID == ownerID
}

// validateNames проверяет имя и фамилию по правилам формы студента.
// Возвращает текст ошибки или пустую строку.
func validateNames(firstName, lastName string) string {
	if firstName == "" || lastName == "" {
		return "Имя и фамилия обязательны для заполнения!"
	}
	if utf8.RuneCountInString(firstName) > maxNameLength || utf8.RuneCountInString(lastName) > maxNameLength {
		return "Имя и фамилия не могут быть длиннее 30 символов!"
	}
	return ""
}

// parseReceiptDate разбирает дату поступления из формы
func parseReceiptDate(value string) (time.Time, error) {
	return time.Parse(models.DateLayout, value)
}

// receiptDateInFuture сравнивает дату поступления с сегодняшним днем
func receiptDateInFuture(receipt time.Time) bool {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return receipt.After(today)
}

// findStudentProfile ищет профиль студента, принадлежащий пользователю
func findStudentProfile(db *gorm.DB, userID uint) (*models.Student, error) {
	var student models.Student
	if err := db.Where("user_id = ?", userID).First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

// studentInCourse проверяет, записан ли студент на курс
func studentInCourse(db *gorm.DB, student *models.Student, course *models.Course) bool {
	var count int64
	db.Model(&models.CourseToStudent{}).
		Where("course_id = ? AND student_id = ?", course.ID, student.ID).
		Count(&count)
	return count > 0
}
