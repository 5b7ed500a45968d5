package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"courses-backend/middleware"
	"courses-backend/models"
)

// Поля, по которым разрешена сортировка курсов
var courseSortFields = map[string]bool{
	"id":         true,
	"title":      true,
	"created_at": true,
}

type CourseHandler struct {
	db *gorm.DB
}

func NewCourseHandler(db *gorm.DB) *CourseHandler {
	return &CourseHandler{db: db}
}

func (h *CourseHandler) GetCourses(w http.ResponseWriter, r *http.Request) {
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

	// Параметры фильтрации
	titleFilter := r.URL.Query().Get("title")
	descriptionFilter := r.URL.Query().Get("description")

	// Создаем запрос с GORM
	query := h.db.Model(&models.Course{})

	// Применяем фильтрацию
	if titleFilter != "" {
		cleanTitle := strings.Trim(titleFilter, "*")
		query = query.Where("title ILIKE ?", "%"+cleanTitle+"%")
	}

	if descriptionFilter != "" {
		cleanDescription := strings.Trim(descriptionFilter, "*")
		query = query.Where("description ILIKE ?", "%"+cleanDescription+"%")
	}

	// Получаем общее количество
	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		log.Printf("❌ Error counting courses: %v", err)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	// Применяем сортировку
	if sortBy != "" {
		field := strings.TrimPrefix(sortBy, "-")
		if !courseSortFields[field] {
			http.Error(w, `{"error": "Invalid sort field"}`, http.StatusBadRequest)
			return
		}
		if strings.HasPrefix(sortBy, "-") {
			query = query.Order(field + " DESC")
		} else {
			query = query.Order(field + " ASC")
		}
	} else {
		query = query.Order("title ASC")
	}

	// Применяем пагинацию
	var courses []models.Course
	if err := query.Preload("User").Offset(offset).Limit(limit).Find(&courses).Error; err != nil {
		log.Printf("❌ Error fetching courses: %v", err)
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
		Items: models.NewCoursePayloads(courses),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}

func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims := middleware.GetUserClaims(r.Context())
	if claims == nil {
		http.Error(w, `{"error": "Not authenticated"}`, http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		log.Printf("❌ Error parsing course id: %v", err)
		http.Error(w, `{"error": "Invalid course ID"}`, http.StatusBadRequest)
		return
	}

	var course models.Course
	result := h.db.Preload("User").First(&course, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			http.Error(w, `{"error": "Course not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("❌ Error fetching course: %v", result.Error)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(models.NewCoursePayload(course))
}

func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims := middleware.GetUserClaims(r.Context())
	if claims == nil {
		http.Error(w, `{"error": "Not authenticated"}`, http.StatusUnauthorized)
		return
	}

	var req models.CourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Error decoding request body: %v", err)
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	// Валидация
	if req.Title == "" || req.Description == "" {
		log.Printf("❌ Validation failed: Title or Description is empty")
		http.Error(w, `{"error": "Title and description are required"}`, http.StatusBadRequest)
		return
	}

	course := models.Course{
		Title:       req.Title,
		Description: req.Description,
		UserID:      claims.UserID,
	}

	result := h.db.Create(&course)
	if result.Error != nil {
		log.Printf("❌ Database error creating course: %v", result.Error)
		http.Error(w, `{"error": "Failed to create course in database"}`, http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Course created successfully with ID: %s", course.ID)

	h.db.Preload("User").First(&course, "id = ?", course.ID)

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(models.NewCoursePayload(course)); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}

func (h *CourseHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims := middleware.GetUserClaims(r.Context())
	if claims == nil {
		http.Error(w, `{"error": "Not authenticated"}`, http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		log.Printf("❌ Error parsing course id: %v", err)
		http.Error(w, `{"error": "Invalid course ID"}`, http.StatusBadRequest)
		return
	}

	var req models.CourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Error decoding request body: %v", err)
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	// Валидация
	if req.Title == "" || req.Description == "" {
		log.Printf("❌ Validation failed: Title or Description is empty")
		http.Error(w, `{"error": "Title and description are required"}`, http.StatusBadRequest)
		return
	}

	// Проверяем существование курса
	var existingCourse models.Course
	result := h.db.First(&existingCourse, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			log.Printf("❌ Course with ID %s not found", id)
			http.Error(w, `{"error": "Course not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("❌ Error checking course existence: %v", result.Error)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	// Редактировать можно только свой курс
	if !isOwnerOrStaff(claims, existingCourse.UserID) {
		log.Printf("❌ User %s tried to edit another user's course (ID: %s)", claims.Username, id)
		http.Error(w, `{"error": "Can only edit your own course"}`, http.StatusForbidden)
		return
	}

	log.Printf("🔄 Updating course with ID: %s (by user %s)", id, claims.Username)

	updateData := models.Course{
		Title:       req.Title,
		Description: req.Description,
	}

	result = h.db.Model(&existingCourse).Updates(updateData)
	if result.Error != nil {
		log.Printf("❌ Error updating course in database: %v", result.Error)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Course updated successfully. Rows affected: %d", result.RowsAffected)

	// Получаем обновленный курс
	var updatedCourse models.Course
	h.db.Preload("User").First(&updatedCourse, "id = ?", id)

	if err := json.NewEncoder(w).Encode(models.NewCoursePayload(updatedCourse)); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}

func (h *CourseHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims := middleware.GetUserClaims(r.Context())
	if claims == nil {
		http.Error(w, `{"error": "Not authenticated"}`, http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		log.Printf("❌ Error parsing course id: %v", err)
		http.Error(w, `{"error": "Invalid course ID"}`, http.StatusBadRequest)
		return
	}

	// Проверяем существование курса
	var course models.Course
	result := h.db.First(&course, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			log.Printf("❌ Course with ID %s not found", id)
			http.Error(w, `{"error": "Course not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("❌ Error checking course existence: %v", result.Error)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	// Удалять можно только свой курс
	if !isOwnerOrStaff(claims, course.UserID) {
		log.Printf("❌ User %s tried to delete another user's course (ID: %s)", claims.Username, id)
		http.Error(w, `{"error": "Can only delete your own course"}`, http.StatusForbidden)
		return
	}

	log.Printf("🗑️ Deleting course with ID: %s (by user %s)", id, claims.Username)

	// Сначала зависимые записи, у базы нет каскада
	h.db.Where("course_id = ?", course.ID).Delete(&models.Review{})
	h.db.Where("course_id = ?", course.ID).Delete(&models.CourseToStudent{})

	result = h.db.Delete(&course)
	if result.Error != nil {
		log.Printf("❌ Error deleting course: %v", result.Error)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Course deleted successfully. Rows affected: %d", result.RowsAffected)
	w.WriteHeader(http.StatusNoContent)
}
