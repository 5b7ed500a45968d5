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

// Поля, по которым разрешена сортировка записей на курсы
var enrollmentSortFields = map[string]bool{
	"id":         true,
	"course_id":  true,
	"student_id": true,
	"created_at": true,
}

type EnrollmentHandler struct {
	db *gorm.DB
}

func NewEnrollmentHandler(db *gorm.DB) *EnrollmentHandler {
	return &EnrollmentHandler{db: db}
}

func (h *EnrollmentHandler) GetEnrollments(w http.ResponseWriter, r *http.Request) {
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
	query := h.db.Model(&models.CourseToStudent{})

	// Применяем фильтрацию
	if courseFilter := r.URL.Query().Get("course"); courseFilter != "" {
		courseID, err := uuid.Parse(courseFilter)
		if err != nil {
			http.Error(w, `{"error": "Invalid course filter"}`, http.StatusBadRequest)
			return
		}
		query = query.Where("course_id = ?", courseID)
	}

	if studentFilter := r.URL.Query().Get("student"); studentFilter != "" {
		studentID, err := uuid.Parse(studentFilter)
		if err != nil {
			http.Error(w, `{"error": "Invalid student filter"}`, http.StatusBadRequest)
			return
		}
		query = query.Where("student_id = ?", studentID)
	}

	// Получаем общее количество
	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		log.Printf("❌ Error counting enrollments: %v", err)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	// Применяем сортировку
	if sortBy != "" {
		field := strings.TrimPrefix(sortBy, "-")
		if !enrollmentSortFields[field] {
			http.Error(w, `{"error": "Invalid sort field"}`, http.StatusBadRequest)
			return
		}
		if strings.HasPrefix(sortBy, "-") {
			query = query.Order(field + " DESC")
		} else {
			query = query.Order(field + " ASC")
		}
	} else {
		query = query.Order("course_id ASC")
	}

	// Применяем пагинацию
	var enrollments []models.CourseToStudent
	if err := query.Offset(offset).Limit(limit).Find(&enrollments).Error; err != nil {
		log.Printf("❌ Error fetching enrollments: %v", err)
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
		Items: models.NewEnrollmentPayloads(enrollments),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}

func (h *EnrollmentHandler) GetEnrollment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims := middleware.GetUserClaims(r.Context())
	if claims == nil {
		http.Error(w, `{"error": "Not authenticated"}`, http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		log.Printf("❌ Error parsing enrollment id: %v", err)
		http.Error(w, `{"error": "Invalid enrollment ID"}`, http.StatusBadRequest)
		return
	}

	var enrollment models.CourseToStudent
	result := h.db.First(&enrollment, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			http.Error(w, `{"error": "Enrollment not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("❌ Error fetching enrollment: %v", result.Error)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(models.NewEnrollmentPayload(enrollment))
}

func (h *EnrollmentHandler) CreateEnrollment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims := middleware.GetUserClaims(r.Context())
	if claims == nil {
		http.Error(w, `{"error": "Not authenticated"}`, http.StatusUnauthorized)
		return
	}

	var req models.EnrollmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Error decoding request body: %v", err)
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	// Валидация
	if req.Course == uuid.Nil || req.Student == uuid.Nil {
		log.Printf("❌ Validation failed: Course or Student is empty")
		http.Error(w, `{"error": "Course and student are required"}`, http.StatusBadRequest)
		return
	}

	course, student, ok := h.loadPair(w, req.Course, req.Student)
	if !ok {
		return
	}

	// Записывать можно только своего студента
	if !isOwnerOrStaff(claims, student.UserID) {
		log.Printf("❌ User %s tried to enroll another user's student (ID: %s)", claims.Username, student.ID)
		http.Error(w, `{"error": "Can only enroll your own student profile"}`, http.StatusForbidden)
		return
	}

	// Пара курс-студент уникальна
	var count int64
	h.db.Model(&models.CourseToStudent{}).
		Where("course_id = ? AND student_id = ?", course.ID, student.ID).
		Count(&count)
	if count > 0 {
		log.Printf("❌ Student %s is already enrolled in course %s", student.ID, course.ID)
		http.Error(w, `{"error": "Student is already enrolled in this course"}`, http.StatusConflict)
		return
	}

	enrollment := models.CourseToStudent{
		CourseID:  course.ID,
		StudentID: student.ID,
	}

	result := h.db.Create(&enrollment)
	if result.Error != nil {
		log.Printf("❌ Database error creating enrollment: %v", result.Error)
		http.Error(w, `{"error": "Failed to create enrollment in database"}`, http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Enrollment created successfully with ID: %s", enrollment.ID)

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(models.NewEnrollmentPayload(enrollment)); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}

func (h *EnrollmentHandler) UpdateEnrollment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims := middleware.GetUserClaims(r.Context())
	if claims == nil {
		http.Error(w, `{"error": "Not authenticated"}`, http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		log.Printf("❌ Error parsing enrollment id: %v", err)
		http.Error(w, `{"error": "Invalid enrollment ID"}`, http.StatusBadRequest)
		return
	}

	var req models.EnrollmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Error decoding request body: %v", err)
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	// Валидация
	if req.Course == uuid.Nil || req.Student == uuid.Nil {
		log.Printf("❌ Validation failed: Course or Student is empty")
		http.Error(w, `{"error": "Course and student are required"}`, http.StatusBadRequest)
		return
	}

	// Проверяем существование записи
	var existingEnrollment models.CourseToStudent
	result := h.db.Preload("Student").First(&existingEnrollment, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			log.Printf("❌ Enrollment with ID %s not found", id)
			http.Error(w, `{"error": "Enrollment not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("❌ Error checking enrollment existence: %v", result.Error)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	// Менять можно только запись своего студента
	if !isOwnerOrStaff(claims, existingEnrollment.Student.UserID) {
		log.Printf("❌ User %s tried to edit another user's enrollment (ID: %s)", claims.Username, id)
		http.Error(w, `{"error": "Can only edit your own enrollments"}`, http.StatusForbidden)
		return
	}

	course, student, ok := h.loadPair(w, req.Course, req.Student)
	if !ok {
		return
	}

	// И новая пара должна указывать на своего студента
	if !isOwnerOrStaff(claims, student.UserID) {
		log.Printf("❌ User %s tried to enroll another user's student (ID: %s)", claims.Username, student.ID)
		http.Error(w, `{"error": "Can only enroll your own student profile"}`, http.StatusForbidden)
		return
	}

	// Пара курс-студент уникальна
	var count int64
	h.db.Model(&models.CourseToStudent{}).
		Where("course_id = ? AND student_id = ? AND id <> ?", course.ID, student.ID, existingEnrollment.ID).
		Count(&count)
	if count > 0 {
		log.Printf("❌ Student %s is already enrolled in course %s", student.ID, course.ID)
		http.Error(w, `{"error": "Student is already enrolled in this course"}`, http.StatusConflict)
		return
	}

	log.Printf("🔄 Updating enrollment with ID: %s (by user %s)", id, claims.Username)

	result = h.db.Model(&existingEnrollment).Updates(map[string]interface{}{
		"course_id":  course.ID,
		"student_id": student.ID,
	})
	if result.Error != nil {
		log.Printf("❌ Error updating enrollment in database: %v", result.Error)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Enrollment updated successfully. Rows affected: %d", result.RowsAffected)

	// Получаем обновленную запись
	var updatedEnrollment models.CourseToStudent
	h.db.First(&updatedEnrollment, "id = ?", id)

	if err := json.NewEncoder(w).Encode(models.NewEnrollmentPayload(updatedEnrollment)); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}

func (h *EnrollmentHandler) DeleteEnrollment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims := middleware.GetUserClaims(r.Context())
	if claims == nil {
		http.Error(w, `{"error": "Not authenticated"}`, http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		log.Printf("❌ Error parsing enrollment id: %v", err)
		http.Error(w, `{"error": "Invalid enrollment ID"}`, http.StatusBadRequest)
		return
	}

	// Проверяем существование записи
	var enrollment models.CourseToStudent
	result := h.db.Preload("Student").First(&enrollment, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			log.Printf("❌ Enrollment with ID %s not found", id)
			http.Error(w, `{"error": "Enrollment not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("❌ Error checking enrollment existence: %v", result.Error)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	// Удалять можно только запись своего студента
	if !isOwnerOrStaff(claims, enrollment.Student.UserID) {
		log.Printf("❌ User %s tried to delete another user's enrollment (ID: %s)", claims.Username, id)
		http.Error(w, `{"error": "Can only remove your own enrollments"}`, http.StatusForbidden)
		return
	}

	log.Printf("🗑️ Deleting enrollment with ID: %s (by user %s)", id, claims.Username)

	result = h.db.Delete(&enrollment)
	if result.Error != nil {
		log.Printf("❌ Error deleting enrollment: %v", result.Error)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Enrollment deleted successfully. Rows affected: %d", result.RowsAffected)
	w.WriteHeader(http.StatusNoContent)
}

// loadPair достает курс и студента для записи, 404 если кого-то нет
func (h *EnrollmentHandler) loadPair(w http.ResponseWriter, courseID, studentID uuid.UUID) (*models.Course, *models.Student, bool) {
	var course models.Course
	if err := h.db.First(&course, "id = ?", courseID).Error; err != nil {
		log.Printf("❌ Course with ID %s not found", courseID)
		http.Error(w, `{"error": "Course not found"}`, http.StatusNotFound)
		return nil, nil, false
	}

	var student models.Student
	if err := h.db.First(&student, "id = ?", studentID).Error; err != nil {
		log.Printf("❌ Student with ID %s not found", studentID)
		http.Error(w, `{"error": "Student not found"}`, http.StatusNotFound)
		return nil, nil, false
	}

	return &course, &student, true
}
