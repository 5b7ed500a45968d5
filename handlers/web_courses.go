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

// CoursePages обрабатывает страницы курсов
type CoursePages struct {
	db       *gorm.DB
	renderer *views.Renderer
}

func NewCoursePages(db *gorm.DB, renderer *views.Renderer) *CoursePages {
	return &CoursePages{db: db, renderer: renderer}
}

// List рендерит список всех курсов
func (p *CoursePages) List(w http.ResponseWriter, r *http.Request) {
	var courses []models.Course
	if err := p.db.Preload("User").Order("title").Find(&courses).Error; err != nil {
		log.Printf("❌ Error fetching courses: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.renderer.HTML(w, r, "courses.html", pongo2.Context{
		"courses": views.CourseListContext(courses),
	})
}

// Detail рендерит страницу курса. Пользователь без профиля студента
// сначала отправляется создавать студента.
func (p *CoursePages) Detail(w http.ResponseWriter, r *http.Request) {
	course, ok := p.loadCourse(w, r)
	if !ok {
		return
	}

	claims := middleware.GetUserClaims(r.Context())

	student, err := findStudentProfile(p.db, claims.UserID)
	if err != nil {
		http.Redirect(w, r, "/create_student/", http.StatusFound)
		return
	}

	p.renderer.HTML(w, r, "course.html", pongo2.Context{
		"course": views.CourseContext(*course),
		"sitc":   studentInCourse(p.db, student, course),
	})
}

// Students рендерит студентов, записанных на курс
func (p *CoursePages) Students(w http.ResponseWriter, r *http.Request) {
	course, ok := p.loadCourse(w, r)
	if !ok {
		return
	}

	var students []models.Student
	err := p.db.Preload("User").
		Joins("JOIN course_to_students ON course_to_students.student_id = students.id").
		Where("course_to_students.course_id = ?", course.ID).
		Order("last_name").
		Find(&students).Error
	if err != nil {
		log.Printf("❌ Error fetching course students: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.renderer.HTML(w, r, "course_students.html", pongo2.Context{
		"course":   views.CourseContext(*course),
		"students": views.StudentListContext(students),
	})
}

// Reviews рендерит отзывы на курс
func (p *CoursePages) Reviews(w http.ResponseWriter, r *http.Request) {
	course, ok := p.loadCourse(w, r)
	if !ok {
		return
	}

	var reviews []models.Review
	err := p.db.Preload("Course.User").Preload("Student.User").
		Where("course_id = ?", course.ID).
		Order("grade").
		Find(&reviews).Error
	if err != nil {
		log.Printf("❌ Error fetching course reviews: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.renderer.HTML(w, r, "course_reviews.html", pongo2.Context{
		"course":  views.CourseContext(*course),
		"reviews": views.ReviewListContext(reviews),
	})
}

// Create создает курс от имени текущего пользователя
func (p *CoursePages) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		p.renderer.HTML(w, r, "create_course.html", nil)
		return
	}

	claims := middleware.GetUserClaims(r.Context())

	course := models.Course{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		UserID:      claims.UserID,
	}

	if err := p.db.Create(&course).Error; err != nil {
		log.Printf("❌ Error creating course: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	log.Printf("➕ Course created: %s (user %s)", course.Title, claims.Username)
	http.Redirect(w, r, "/courses/", http.StatusFound)
}

// Edit редактирует курс. Менять можно только свой курс, персонал
// может менять любой.
func (p *CoursePages) Edit(w http.ResponseWriter, r *http.Request) {
	course, ok := p.loadCourse(w, r)
	if !ok {
		return
	}

	if r.Method == http.MethodPost {
		claims := middleware.GetUserClaims(r.Context())
		if !isOwnerOrStaff(claims, course.UserID) {
			p.renderer.HTML(w, r, "edit_course.html", pongo2.Context{
				"error": "Вы можете редактировать только свой курс!",
			})
			return
		}

		course.Title = r.FormValue("title")
		course.Description = r.FormValue("description")

		if err := p.db.Save(course).Error; err != nil {
			log.Printf("❌ Error updating course: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		log.Printf("🔄 Course updated: %s", course.Title)
		http.Redirect(w, r, "/courses/", http.StatusFound)
		return
	}

	p.renderer.HTML(w, r, "edit_course.html", pongo2.Context{
		"course": views.CourseContext(*course),
	})
}

// Delete удаляет курс вместе с записями студентов и отзывами
func (p *CoursePages) Delete(w http.ResponseWriter, r *http.Request) {
	course, ok := p.loadCourse(w, r)
	if !ok {
		return
	}

	claims := middleware.GetUserClaims(r.Context())
	if !isOwnerOrStaff(claims, course.UserID) {
		p.renderer.HTML(w, r, "delete_course.html", pongo2.Context{
			"error": "Вы можете удалять только свой курс!",
		})
		return
	}

	// Сначала зависимые записи, у базы нет каскада
	p.db.Where("course_id = ?", course.ID).Delete(&models.Review{})
	p.db.Where("course_id = ?", course.ID).Delete(&models.CourseToStudent{})

	if err := p.db.Delete(course).Error; err != nil {
		log.Printf("❌ Error deleting course: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	log.Printf("🗑️ Course deleted: %s", course.Title)
	http.Redirect(w, r, "/courses/", http.StatusFound)
}

// loadCourse достает курс по id из пути, 404 если его нет
func (p *CoursePages) loadCourse(w http.ResponseWriter, r *http.Request) (*models.Course, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
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
