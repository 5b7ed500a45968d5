package handlers

import (
	"log"
	"net/http"

	"github.com/flosch/pongo2/v6"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"courses-backend/middleware"
	"courses-backend/models"
	"courses-backend/views"
)

// EnrollmentPages обрабатывает страницы записей студентов на курсы
type EnrollmentPages struct {
	db       *gorm.DB
	renderer *views.Renderer
}

func NewEnrollmentPages(db *gorm.DB, renderer *views.Renderer) *EnrollmentPages {
	return &EnrollmentPages{db: db, renderer: renderer}
}

// List рендерит список всех записей на курсы
func (p *EnrollmentPages) List(w http.ResponseWriter, r *http.Request) {
	var enrollments []models.CourseToStudent
	err := p.db.Preload("Course.User").Preload("Student.User").
		Order("course_id").
		Find(&enrollments).Error
	if err != nil {
		log.Printf("❌ Error fetching enrollments: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.renderer.HTML(w, r, "coursestostudents.html", pongo2.Context{
		"coursestostudents": views.EnrollmentListContext(enrollments),
	})
}

// Detail рендерит страницу одной записи на курс
func (p *EnrollmentPages) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.NotFound(w, r)
		return
	}

	var enrollment models.CourseToStudent
	err = p.db.Preload("Course.User").Preload("Student.User").
		First(&enrollment, "id = ?", id).Error
	if err != nil {
		http.NotFound(w, r)
		return
	}

	p.renderer.HTML(w, r, "coursetostudent.html", pongo2.Context{
		"coursetostudent": views.EnrollmentContext(enrollment),
	})
}

// Enroll записывает студента текущего пользователя на курс
func (p *EnrollmentPages) Enroll(w http.ResponseWriter, r *http.Request) {
	course, ok := p.loadCourse(w, r)
	if !ok {
		return
	}

	claims := middleware.GetUserClaims(r.Context())

	student, err := findStudentProfile(p.db, claims.UserID)
	if err != nil {
		p.renderer.HTML(w, r, "create_student.html", pongo2.Context{
			"error": "Вы должны быть зарегистрированы как студент, чтобы поступить на курс",
		})
		return
	}

	if studentInCourse(p.db, student, course) {
		p.renderer.HTML(w, r, "courses.html", pongo2.Context{
			"error": "Вы уже поступили на этот курс",
		})
		return
	}

	enrollment := models.CourseToStudent{
		CourseID:  course.ID,
		StudentID: student.ID,
	}
	if err := p.db.Create(&enrollment).Error; err != nil {
		log.Printf("❌ Error creating enrollment: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	log.Printf("➕ Student %s %s enrolled in course %s", student.FirstName, student.LastName, course.Title)
	http.Redirect(w, r, "/courses/", http.StatusFound)
}

// Unenroll снимает студента текущего пользователя с курса
func (p *EnrollmentPages) Unenroll(w http.ResponseWriter, r *http.Request) {
	course, ok := p.loadCourse(w, r)
	if !ok {
		return
	}

	claims := middleware.GetUserClaims(r.Context())

	student, err := findStudentProfile(p.db, claims.UserID)
	if err != nil {
		p.renderer.HTML(w, r, "courses.html", pongo2.Context{
			"error": "Вы уже покинули этот курс",
		})
		return
	}

	var enrollment models.CourseToStudent
	err = p.db.Where("course_id = ? AND student_id = ?", course.ID, student.ID).
		First(&enrollment).Error
	if err != nil {
		p.renderer.HTML(w, r, "courses.html", pongo2.Context{
			"error": "Вы уже покинули этот курс",
		})
		return
	}

	if err := p.db.Delete(&enrollment).Error; err != nil {
		log.Printf("❌ Error deleting enrollment: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	log.Printf("🗑️ Student %s %s left course %s", student.FirstName, student.LastName, course.Title)
	http.Redirect(w, r, "/courses/", http.StatusFound)
}

// loadCourse достает курс по course_id из пути, 404 если его нет
func (p *EnrollmentPages) loadCourse(w http.ResponseWriter, r *http.Request) (*models.Course, bool) {
	id, err := uuid.Parse(mux.Vars(r)["course_id"])
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}

	var course models.Course
	if err := p.db.Preload("User").First(&course, "id = ?", id).Error; err != nil {
		http.NotFound(w, r)
		return nil, false
	}

	return &course, true
}
