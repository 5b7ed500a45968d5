package handlers

import (
	"log"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/flosch/pongo2/v6"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"courses-backend/middleware"
	"courses-backend/models"
	"courses-backend/views"
)

// ReviewPages обрабатывает страницы отзывов
type ReviewPages struct {
	db       *gorm.DB
	renderer *views.Renderer
}

func NewReviewPages(db *gorm.DB, renderer *views.Renderer) *ReviewPages {
	return &ReviewPages{db: db, renderer: renderer}
}

// List рендерит список всех отзывов
func (p *ReviewPages) List(w http.ResponseWriter, r *http.Request) {
	var reviews []models.Review
	err := p.db.Preload("Course.User").Preload("Student.User").
		Order("grade").
		Find(&reviews).Error
	if err != nil {
		log.Printf("❌ Error fetching reviews: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.renderer.HTML(w, r, "reviews.html", pongo2.Context{
		"reviews": views.ReviewListContext(reviews),
	})
}

// Detail рендерит страницу одного отзыва
func (p *ReviewPages) Detail(w http.ResponseWriter, r *http.Request) {
	review, ok := p.loadReview(w, r)
	if !ok {
		return
	}

	p.renderer.HTML(w, r, "review.html", pongo2.Context{
		"review": views.ReviewContext(*review),
	})
}

// Create создает отзыв на курс от имени студента текущего пользователя
func (p *ReviewPages) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserClaims(r.Context())
	if claims == nil {
		http.Redirect(w, r, "/login/", http.StatusFound)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["course_id"])
	if err != nil {
		http.NotFound(w, r)
		return
	}

	var course models.Course
	if err := p.db.Preload("User").First(&course, "id = ?", id).Error; err != nil {
		http.NotFound(w, r)
		return
	}

	student, err := findStudentProfile(p.db, claims.UserID)
	if err != nil {
		p.renderer.HTML(w, r, "create_review.html", pongo2.Context{
			"course": views.CourseContext(course),
			"error":  "Вы должны быть зарегистрированы как студент, чтобы оставить отзыв",
		})
		return
	}

	if r.Method != http.MethodPost {
		p.renderer.HTML(w, r, "create_review.html", pongo2.Context{
			"course": views.CourseContext(course),
		})
		return
	}

	grade, text, ok := parseReviewForm(r)
	if !ok {
		p.renderer.HTML(w, r, "create_review.html", pongo2.Context{
			"course": views.CourseContext(course),
			"error":  "Ошибка валидации",
		})
		return
	}

	review := models.Review{
		CourseID:  course.ID,
		StudentID: student.ID,
		Grade:     grade,
	}
	if text != "" {
		review.ReviewText = &text
	}

	if err := p.db.Create(&review).Error; err != nil {
		log.Printf("❌ Error creating review: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	log.Printf("➕ Review created for course %s (grade %d)", course.Title, grade)
	http.Redirect(w, r, "/", http.StatusFound)
}

// Edit редактирует отзыв. Менять можно только свой отзыв, персонал
// может менять любой.
func (p *ReviewPages) Edit(w http.ResponseWriter, r *http.Request) {
	review, ok := p.loadReview(w, r)
	if !ok {
		return
	}

	if r.Method == http.MethodPost {
		claims := middleware.GetUserClaims(r.Context())
		if !isOwnerOrStaff(claims, review.Student.UserID) {
			p.renderer.HTML(w, r, "edit_review.html", pongo2.Context{
				"error": "Вы можете редактировать только свой отзыв!",
			})
			return
		}

		grade, text, valid := parseReviewForm(r)
		if !valid {
			p.renderer.HTML(w, r, "edit_review.html", pongo2.Context{
				"error":  "Ошибка валидации",
				"review": views.ReviewContext(*review),
			})
			return
		}

		review.Grade = grade
		if text != "" {
			review.ReviewText = &text
		} else {
			review.ReviewText = nil
		}

		if err := p.db.Save(review).Error; err != nil {
			log.Printf("❌ Error updating review: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		log.Printf("🔄 Review updated for course %s", review.Course.Title)
		http.Redirect(w, r, "/courses/", http.StatusFound)
		return
	}

	p.renderer.HTML(w, r, "edit_review.html", pongo2.Context{
		"review": views.ReviewContext(*review),
	})
}

// Delete удаляет отзыв
func (p *ReviewPages) Delete(w http.ResponseWriter, r *http.Request) {
	review, ok := p.loadReview(w, r)
	if !ok {
		return
	}

	claims := middleware.GetUserClaims(r.Context())
	if !isOwnerOrStaff(claims, review.Student.UserID) {
		p.renderer.HTML(w, r, "reviews.html", pongo2.Context{
			"error": "Вы можете удалять только свои отзывы!",
		})
		return
	}

	if err := p.db.Delete(review).Error; err != nil {
		log.Printf("❌ Error deleting review: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	log.Printf("🗑️ Review deleted for course %s", review.Course.Title)
	http.Redirect(w, r, "/courses/", http.StatusFound)
}

// parseReviewForm читает оценку и текст отзыва из формы.
// Оценка от 1 до 5, текст не длиннее 100 символов.
func parseReviewForm(r *http.Request) (int, string, bool) {
	grade, err := strconv.Atoi(r.FormValue("grade"))
	if err != nil || grade < 1 || grade > 5 {
		return 0, "", false
	}

	text := r.FormValue("review_text")
	if utf8.RuneCountInString(text) > maxReviewLength {
		return 0, "", false
	}

	return grade, text, true
}

// loadReview достает отзыв по id из пути, 404 если его нет
func (p *ReviewPages) loadReview(w http.ResponseWriter, r *http.Request) (*models.Review, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}

	var review models.Review
	err = p.db.Preload("Course.User").Preload("Student.User").
		First(&review, "id = ?", id).Error
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}

	return &review, true
}
