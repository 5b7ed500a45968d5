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

// StudentPages обрабатывает страницы студентов
type StudentPages struct {
	db       *gorm.DB
	renderer *views.Renderer
}

func NewStudentPages(db *gorm.DB, renderer *views.Renderer) *StudentPages {
	return &StudentPages{db: db, renderer: renderer}
}

// List рендерит список всех студентов
func (p *StudentPages) List(w http.ResponseWriter, r *http.Request) {
	var students []models.Student
	if err := p.db.Preload("User").Order("last_name").Find(&students).Error; err != nil {
		log.Printf("❌ Error fetching students: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.renderer.HTML(w, r, "students.html", pongo2.Context{
		"students": views.StudentListContext(students),
	})
}

// Detail рендерит страницу одного студента
func (p *StudentPages) Detail(w http.ResponseWriter, r *http.Request) {
	student, ok := p.loadStudent(w, r)
	if !ok {
		return
	}

	p.renderer.HTML(w, r, "student.html", pongo2.Context{
		"student": views.StudentContext(*student),
	})
}

// Courses рендерит курсы, на которые записан студент
func (p *StudentPages) Courses(w http.ResponseWriter, r *http.Request) {
	student, ok := p.loadStudent(w, r)
	if !ok {
		return
	}

	var courses []models.Course
	err := p.db.Preload("User").
		Joins("JOIN course_to_students ON course_to_students.course_id = courses.id").
		Where("course_to_students.student_id = ?", student.ID).
		Order("title").
		Find(&courses).Error
	if err != nil {
		log.Printf("❌ Error fetching student courses: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.renderer.HTML(w, r, "student_courses.html", pongo2.Context{
		"student": views.StudentContext(*student),
		"courses": views.CourseListContext(courses),
	})
}

// Create создает профиль студента, один на пользователя
func (p *StudentPages) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		p.renderer.HTML(w, r, "create_student.html", nil)
		return
	}

	claims := middleware.GetUserClaims(r.Context())

	// У пользователя может быть только один студент
	if _, err := findStudentProfile(p.db, claims.UserID); err == nil {
		p.renderer.HTML(w, r, "create_student.html", pongo2.Context{
			"error": "Вы уже создали студента!",
		})
		return
	}

	firstName := r.FormValue("first_name")
	lastName := r.FormValue("last_name")

	if msg := validateNames(firstName, lastName); msg != "" {
		p.renderer.HTML(w, r, "create_student.html", pongo2.Context{"error": msg})
		return
	}

	receipt, err := parseReceiptDate(r.FormValue("date_of_receipt"))
	if err != nil {
		p.renderer.HTML(w, r, "create_student.html", pongo2.Context{
			"error": "Неверный формат даты!",
		})
		return
	}

	if receiptDateInFuture(receipt) {
		p.renderer.HTML(w, r, "create_student.html", pongo2.Context{
			"error": "Дата поступления не может быть в будущем!",
		})
		return
	}

	student := models.Student{
		FirstName:     firstName,
		LastName:      lastName,
		DateOfReceipt: receipt,
		UserID:        claims.UserID,
	}

	if err := p.db.Create(&student).Error; err != nil {
		log.Printf("❌ Error creating student: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	log.Printf("➕ Student created: %s %s (user %s)", student.FirstName, student.LastName, claims.Username)
	http.Redirect(w, r, "/students/", http.StatusFound)
}

// Edit редактирует студента. Менять можно только своего студента,
// персонал может менять любого.
func (p *StudentPages) Edit(w http.ResponseWriter, r *http.Request) {
	student, ok := p.loadStudent(w, r)
	if !ok {
		return
	}

	claims := middleware.GetUserClaims(r.Context())

	if r.Method == http.MethodPost {
		if !isOwnerOrStaff(claims, student.UserID) {
			p.renderer.HTML(w, r, "edit_student.html", pongo2.Context{
				"error": "Вы можете редактировать только своего студента!",
			})
			return
		}

		// Новые имена попадают в форму повторного показа даже при
		// ошибке в дате
		student.FirstName = r.FormValue("first_name")
		student.LastName = r.FormValue("last_name")

		if msg := validateNames(student.FirstName, student.LastName); msg != "" {
			p.renderer.HTML(w, r, "edit_student.html", pongo2.Context{
				"error":   msg,
				"student": views.StudentContext(*student),
			})
			return
		}

		receipt, err := parseReceiptDate(r.FormValue("date_of_receipt"))
		if err != nil {
			p.renderer.HTML(w, r, "edit_student.html", pongo2.Context{
				"error":   "Неверный формат даты!",
				"student": views.StudentContext(*student),
			})
			return
		}

		if receiptDateInFuture(receipt) {
			p.renderer.HTML(w, r, "edit_student.html", pongo2.Context{
				"error":   "Дата поступления не может быть в будущем!",
				"student": views.StudentContext(*student),
			})
			return
		}

		student.DateOfReceipt = receipt
		if err := p.db.Save(student).Error; err != nil {
			log.Printf("❌ Error updating student: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		log.Printf("🔄 Student updated: %s %s", student.FirstName, student.LastName)
		http.Redirect(w, r, "/students/", http.StatusFound)
		return
	}

	if isOwnerOrStaff(claims, student.UserID) {
		p.renderer.HTML(w, r, "edit_student.html", pongo2.Context{
			"student": views.StudentContext(*student),
		})
		return
	}

	p.renderer.HTML(w, r, "edit_student.html", pongo2.Context{
		"error": "Вы можете редактировать только своего студента!",
	})
}

// Delete удаляет студента вместе с его записями на курсы и отзывами
func (p *StudentPages) Delete(w http.ResponseWriter, r *http.Request) {
	student, ok := p.loadStudent(w, r)
	if !ok {
		return
	}

	claims := middleware.GetUserClaims(r.Context())
	if !isOwnerOrStaff(claims, student.UserID) {
		p.renderer.HTML(w, r, "delete_student.html", pongo2.Context{
			"error": "Вы можете удалять только своего студента!",
		})
		return
	}

	// Сначала зависимые записи, у базы нет каскада
	p.db.Where("student_id = ?", student.ID).Delete(&models.Review{})
	p.db.Where("student_id = ?", student.ID).Delete(&models.CourseToStudent{})

	if err := p.db.Delete(student).Error; err != nil {
		log.Printf("❌ Error deleting student: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	log.Printf("🗑️ Student deleted: %s %s", student.FirstName, student.LastName)
	http.Redirect(w, r, "/students/", http.StatusFound)
}

// loadStudent достает студента по id из пути, 404 если его нет
func (p *StudentPages) loadStudent(w http.ResponseWriter, r *http.Request) (*models.Student, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}

	var student models.Student
	if err := p.db.Preload("User").First(&student, "id = ?", id).Error; err != nil {
		http.NotFound(w, r)
		return nil, false
	}

	return &student, true
}
