package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"courses-backend/middleware"
	"courses-backend/models"
)

// Поля, по которым разрешена сортировка отзывов
var reviewSortFields = map[string]bool{
	"id":         true,
	"grade":      true,
	"created_at": true,
}

type ReviewHandler struct {
	db *gorm.DB
}

func NewReviewHandler(db *gorm.DB) *ReviewHandler {
	return &ReviewHandler{db: db}
}

func (h *ReviewHandler) GetReviews(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims := middleware.GetUserClaims(r.Context())
	if claims == nil {
		http.Error(w, `{"error": "Not authenticated"}`, http.StatusUnauthorized)
		return
	}

	// Параметры пагинации
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 5
	}

	offset := (page - 1) * limit

	// Параметры сортировки
	sortBy := r.URL.Query().Get("sortBy")

	// Создаем запрос с GORM
	query := h.db.Model(&models.Review{})

	// Применяем фильтрацию
	if courseFilter := r.URL.Query().Get("course"); courseFilter != "" {
		courseID, err := uuid.Parse(courseFilter)
		if err != nil {
			http.Error(w, `{"error": "Invalid course filter"}`, http.StatusBadRequest)
			return
		}
		query = query.Where("course_id = ?", courseID)
	}

	if gradeFilter := r.URL.Query().Get("grade"); gradeFilter != "" {
		grade, err := strconv.Atoi(gradeFilter)
		if err != nil {
			http.Error(w, `{"error": "Invalid grade filter"}`, http.StatusBadRequest)
			return
		}
		query = query.Where("grade = ?", grade)
	}

	// Получаем общее количество
	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		log.Printf("❌ Error counting reviews: %v", err)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	// Применяем сортировку
	if sortBy != "" {
		field := strings.TrimPrefix(sortBy, "-")
		if !reviewSortFields[field] {
			http.Error(w, `{"error": "Invalid sort field"}`, http.StatusBadRequest)
			return
		}
		if strings.HasPrefix(sortBy, "-") {
			query = query.Order(field + " DESC")
		} else {
			query = query.Order(field + " ASC")
		}
	} else {
		query = query.Order("grade ASC")
	}

	// Применяем пагинацию
	var reviews []models.Review
	if err := query.Preload("Student.User").Offset(offset).Limit(limit).Find(&reviews).Error; err != nil {
		log.Printf("❌ Error fetching reviews: %v", err)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	totalPages := (int(totalItems) + limit - 1) / limit
	remainingCount := int(totalItems) - (page * limit)
	if remainingCount < 0 {
		remainingCount = 0
	}

	response := models.PaginatedResponse{
		Meta: models.Meta{
			TotalItems:     int(totalItems),
			TotalPages:     totalPages,
			CurrentPage:    page,
			PerPage:        limit,
			RemainingCount: remainingCount,
		},
		Items: models.NewReviewPayloads(reviews),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}

func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims := middleware.GetUserClaims(r.Context())
	if claims == nil {
		http.Error(w, `{"error": "Not authenticated"}`, http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		log.Printf("❌ Error parsing review id: %v", err)
		http.Error(w, `{"error": "Invalid review ID"}`, http.StatusBadRequest)
		return
	}

	var review models.Review
	result := h.db.Preload("Student.User").First(&review, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			http.Error(w, `{"error": "Review not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("❌ Error fetching review: %v", result.Error)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(models.NewReviewPayload(review))
}

func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims := middleware.GetUserClaims(r.Context())
	if claims == nil {
		http.Error(w, `{"error": "Not authenticated"}`, http.StatusUnauthorized)
		return
	}

	var req models.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Error decoding request body: %v", err)
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	if msg := validateReviewRequest(&req); msg != "" {
		log.Printf("❌ Validation failed: %s", msg)
		http.Error(w, `{"error": "`+msg+`"}`, http.StatusBadRequest)
		return
	}

	// Курс должен существовать
	var course models.Course
	if err := h.db.First(&course, "id = ?", req.Course).Error; err != nil {
		log.Printf("❌ Course with ID %s not found", req.Course)
		http.Error(w, `{"error": "Course not found"}`, http.StatusNotFound)
		return
	}

	// Отзыв оставляет студент текущего пользователя
	student, err := findStudentProfile(h.db, claims.UserID)
	if err != nil {
		log.Printf("❌ User %s has no student profile", claims.Username)
		http.Error(w, `{"error": "Student profile required to leave a review"}`, http.StatusForbidden)
		return
	}

	review := models.Review{
		CourseID:   course.ID,
		StudentID:  student.ID,
		Grade:      req.Grade,
		ReviewText: req.ReviewText,
	}

	result := h.db.Create(&review)
	if result.Error != nil {
		log.Printf("❌ Database error creating review: %v", result.Error)
		http.Error(w, `{"error": "Failed to create review in database"}`, http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Review created successfully with ID: %s", review.ID)

	h.db.Preload("Student.User").First(&review, "id = ?", review.ID)

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(models.NewReviewPayload(review)); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}

func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims := middleware.GetUserClaims(r.Context())
	if claims == nil {
		http.Error(w, `{"error": "Not authenticated"}`, http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		log.Printf("❌ Error parsing review id: %v", err)
		http.Error(w, `{"error": "Invalid review ID"}`, http.StatusBadRequest)
		return
	}

	var req models.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Error decoding request body: %v", err)
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	if msg := validateReviewRequest(&req); msg != "" {
		log.Printf("❌ Validation failed: %s", msg)
		http.Error(w, `{"error": "`+msg+`"}`, http.StatusBadRequest)
		return
	}

	// Курс должен существовать
	var course models.Course
	if err := h.db.First(&course, "id = ?", req.Course).Error; err != nil {
		log.Printf("❌ Course with ID %s not found", req.Course)
		http.Error(w, `{"error": "Course not found"}`, http.StatusNotFound)
		return
	}

	// Проверяем существование отзыва
	var existingReview models.Review
	result := h.db.Preload("Student").First(&existingReview, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			log.Printf("❌ Review with ID %s not found", id)
			http.Error(w, `{"error": "Review not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("❌ Error checking review existence: %v", result.Error)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	// Редактировать можно только свой отзыв
	if !isOwnerOrStaff(claims, existingReview.Student.UserID) {
		log.Printf("❌ User %s tried to edit another user's review (ID: %s)", claims.Username, id)
		http.Error(w, `{"error": "Can only edit your own reviews"}`, http.StatusForbidden)
		return
	}

	log.Printf("🔄 Updating review with ID: %s (by user %s)", id, claims.Username)

	// review_text может обнуляться, поэтому обновляем через map
	result = h.db.Model(&existingReview).Updates(map[string]interface{}{
		"course_id":   course.ID,
		"grade":       req.Grade,
		"review_text": req.ReviewText,
	})
	if result.Error != nil {
		log.Printf("❌ Error updating review in database: %v", result.Error)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Review updated successfully. Rows affected: %d", result.RowsAffected)

	// Получаем обновленный отзыв
	var updatedReview models.Review
	h.db.Preload("Student.User").First(&updatedReview, "id = ?", id)

	if err := json.NewEncoder(w).Encode(models.NewReviewPayload(updatedReview)); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}

func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims := middleware.GetUserClaims(r.Context())
	if claims == nil {
		http.Error(w, `{"error": "Not authenticated"}`, http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		log.Printf("❌ Error parsing review id: %v", err)
		http.Error(w, `{"error": "Invalid review ID"}`, http.StatusBadRequest)
		return
	}

	// Проверяем существование отзыва
	var review models.Review
	result := h.db.Preload("Student").First(&review, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			log.Printf("❌ Review with ID %s not found", id)
			http.Error(w, `{"error": "Review not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("❌ Error checking review existence: %v", result.Error)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	// Удалять можно только свой отзыв
	if !isOwnerOrStaff(claims, review.Student.UserID) {
		log.Printf("❌ User %s tried to delete another user's review (ID: %s)", claims.Username, id)
		http.Error(w, `{"error": "Can only delete your own reviews"}`, http.StatusForbidden)
		return
	}

	log.Printf("🗑️ Deleting review with ID: %s (by user %s)", id, claims.Username)

	result = h.db.Delete(&review)
	if result.Error != nil {
		log.Printf("❌ Error deleting review: %v", result.Error)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Review deleted successfully. Rows affected: %d", result.RowsAffected)
	w.WriteHeader(http.StatusNoContent)
}

// validateReviewRequest возвращает текст ошибки или пустую строку
func validateReviewRequest(req *models.ReviewRequest) string {
	if req.Course == uuid.Nil {
		return "Course is required"
	}
	if req.Grade < 1 || req.Grade > 5 {
		return "Grade must be between 1 and 5"
	}
	if req.ReviewText != nil && utf8.RuneCountInString(*req.ReviewText) > maxReviewLength {
		return "Review text must be at most 100 characters"
	}
	return ""
}
