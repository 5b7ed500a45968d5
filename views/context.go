package views

import (
	"github.com/flosch/pongo2/v6"

	"courses-backend/models"
)

// Контексты шаблонов. Ключи в snake_case, как их видят страницы,
// даты уже отформатированы строками.

func CourseContext(course models.Course) pongo2.Context {
	return pongo2.Context{
		"id":          course.ID.String(),
		"title":       course.Title,
		"description": course.Description,
		"display":     course.String(),
		"user": pongo2.Context{
			"username": course.User.Username,
		},
	}
}

func CourseListContext(courses []models.Course) []pongo2.Context {
	items := make([]pongo2.Context, 0, len(courses))
	for _, course := range courses {
		items = append(items, CourseContext(course))
	}
	return items
}

func StudentContext(student models.Student) pongo2.Context {
	return pongo2.Context{
		"id":              student.ID.String(),
		"first_name":      student.FirstName,
		"last_name":       student.LastName,
		"date_of_receipt": student.DateOfReceipt.Format(models.DateLayout),
		"display":         student.String(),
		"user": pongo2.Context{
			"username": student.User.Username,
		},
	}
}

func StudentListContext(students []models.Student) []pongo2.Context {
	items := make([]pongo2.Context, 0, len(students))
	for _, student := range students {
		items = append(items, StudentContext(student))
	}
	return items
}

func ReviewContext(review models.Review) pongo2.Context {
	reviewText := ""
	if review.ReviewText != nil {
		reviewText = *review.ReviewText
	}
	return pongo2.Context{
		"id":          review.ID.String(),
		"review_text": reviewText,
		"grade":       review.Grade,
		"display":     review.String(),
		"course":      CourseContext(review.Course),
		"student":     StudentContext(review.Student),
	}
}

func ReviewListContext(reviews []models.Review) []pongo2.Context {
	items := make([]pongo2.Context, 0, len(reviews))
	for _, review := range reviews {
		items = append(items, ReviewContext(review))
	}
	return items
}

func EnrollmentContext(enrollment models.CourseToStudent) pongo2.Context {
	return pongo2.Context{
		"id":      enrollment.ID.String(),
		"display": enrollment.String(),
		"course":  CourseContext(enrollment.Course),
		"student": StudentContext(enrollment.Student),
	}
}

func EnrollmentListContext(enrollments []models.CourseToStudent) []pongo2.Context {
	items := make([]pongo2.Context, 0, len(enrollments))
	for _, enrollment := range enrollments {
		items = append(items, EnrollmentContext(enrollment))
	}
	return items
}
