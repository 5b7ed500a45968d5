package models

import "github.com/google/uuid"

// DateLayout задает формат дат во всех формах и ответах API
const DateLayout = "2006-01-02"

// Ответы API: владелец отдается как username (только для чтения),
// даты строками YYYY-MM-DD.

type CoursePayload struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	User        string    `json:"user"`
}

func NewCoursePayload(course Course) CoursePayload {
	return CoursePayload{
		ID:          course.ID,
		Title:       course.Title,
		Description: course.Description,
		User:        course.User.Username,
	}
}

func NewCoursePayloads(courses []Course) []CoursePayload {
	payloads := make([]CoursePayload, 0, len(courses))
	for _, course := range courses {
		payloads = append(payloads, NewCoursePayload(course))
	}
	return payloads
}

type StudentPayload struct {
	ID            uuid.UUID `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	DateOfReceipt string    `json:"date_of_receipt"`
	User          string    `json:"user"`
}

func NewStudentPayload(student Student) StudentPayload {
	return StudentPayload{
		ID:            student.ID,
		FirstName:     student.FirstName,
		LastName:      student.LastName,
		DateOfReceipt: student.DateOfReceipt.Format(DateLayout),
		User:          student.User.Username,
	}
}

func NewStudentPayloads(students []Student) []StudentPayload {
	payloads := make([]StudentPayload, 0, len(students))
	for _, student := range students {
		payloads = append(payloads, NewStudentPayload(student))
	}
	return payloads
}

// ReviewPayload отдает владельцем username хозяина студента:
// у самого отзыва пользователя нет.
type ReviewPayload struct {
	ID         uuid.UUID `json:"id"`
	Course     uuid.UUID `json:"course"`
	Student    uuid.UUID `json:"student"`
	ReviewText *string   `json:"review_text"`
	Grade      int       `json:"grade"`
	User       string    `json:"user"`
}

func NewReviewPayload(review Review) ReviewPayload {
	return ReviewPayload{
		ID:         review.ID,
		Course:     review.CourseID,
		Student:    review.StudentID,
		ReviewText: review.ReviewText,
		Grade:      review.Grade,
		User:       review.Student.User.Username,
	}
}

func NewReviewPayloads(reviews []Review) []ReviewPayload {
	payloads := make([]ReviewPayload, 0, len(reviews))
	for _, review := range reviews {
		payloads = append(payloads, NewReviewPayload(review))
	}
	return payloads
}

// Тела запросов API. Владелец назначается сервером, поэтому
// полей user здесь нет.

type CourseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type StudentRequest struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	DateOfReceipt string `json:"date_of_receipt"`
}

type ReviewRequest struct {
	Course     uuid.UUID `json:"course"`
	ReviewText *string   `json:"review_text"`
	Grade      int       `json:"grade"`
}

type EnrollmentRequest struct {
	Course  uuid.UUID `json:"course"`
	Student uuid.UUID `json:"student"`
}

type EnrollmentPayload struct {
	ID      uuid.UUID `json:"id"`
	Course  uuid.UUID `json:"course"`
	Student uuid.UUID `json:"student"`
}

func NewEnrollmentPayload(enrollment CourseToStudent) EnrollmentPayload {
	return EnrollmentPayload{
		ID:      enrollment.ID,
		Course:  enrollment.CourseID,
		Student: enrollment.StudentID,
	}
}

func NewEnrollmentPayloads(enrollments []CourseToStudent) []EnrollmentPayload {
	payloads := make([]EnrollmentPayload, 0, len(enrollments))
	for _, enrollment := range enrollments {
		payloads = append(payloads, NewEnrollmentPayload(enrollment))
	}
	return payloads
}
