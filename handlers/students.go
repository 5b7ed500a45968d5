package handlers

import (
	"encoding/json"
	"io"
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

// Поля, по которым разрешена сортировка студентов
var studentSortFields = map[string]bool{
	"id":              true,
	"first_name":      true,
	"last_name":       true,
	"date_of_receipt": true,
	"created_at":      true,
}

type StudentHandler struct {
	db *gorm.DB
}

func NewStudentHandler(db *gorm.DB) *StudentHandler {
	return &StudentHandler{db: db}
}

func (h *StudentHandler) GetStudents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// Получаем информацию о текущем пользователе
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
	firstNameFilter := r.URL.Query().Get("first_name")
	lastNameFilter := r.URL.Query().Get("last_name")

	// Создаем запрос с GORM
	query := h.db.Model(&models.Student{})

	// Применяем фильтрацию
	if firstNameFilter != "" {
		cleanFirstName := strings.Trim(firstNameFilter, "*")
		query = query.Where("first_name ILIKE ?", "%"+cleanFirstName+"%")
	}

	if lastNameFilter != "" {
		cleanLastName := strings.Trim(lastNameFilter, "*")
		query = query.Where("last_name ILIKE ?", "%"+cleanLastName+"%")
	}

	// Получаем общее количество
	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		log.Printf("❌ Error counting students: %v", err)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	// Применяем сортировку
	if sortBy != "" {
		field := strings.TrimPrefix(sortBy, "-")
		if !studentSortFields[field] {
			http.Error(w, `{"error": "Invalid sort field"}`, http.StatusBadRequest)
			return
		}
		if strings.HasPrefix(sortBy, "-") {
			query = query.Order(field + " DESC")
		} else {
			query = query.Order(field + " ASC")
		}
	} else {
		query = query.Order("last_name ASC")
	}

	// Применяем пагинацию
	var students []models.Student
	if err := query.Preload("User").Offset(offset).Limit(limit).Find(&students).Error; err != nil {
		log.Printf("❌ Error fetching students: %v", err)
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
		Items: models.NewStudentPayloads(students),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}

func (h *StudentHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims := middleware.GetUserClaims(r.Context())
	if claims == nil {
		http.Error(w, `{"error": "Not authenticated"}`, http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		log.Printf("❌ Error parsing student id: %v", err)
		http.Error(w, `{"error": "Invalid student ID"}`, http.StatusBadRequest)
		return
	}

	var student models.Student
	result := h.db.Preload("User").First(&student, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			http.Error(w, `{"error": "Student not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("❌ Error fetching student: %v", result.Error)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(models.NewStudentPayload(student))
}

func (h *StudentHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims := middleware.GetUserClaims(r.Context())
	if claims == nil {
		http.Error(w, `{"error": "Not authenticated"}`, http.StatusUnauthorized)
		return
	}

	log.Printf("📨 POST /api/v1/students - Content-Type: %s, Content-Length: %d",
		r.Header.Get("Content-Type"), r.ContentLength)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("❌ Error reading request body: %v", err)
		http.Error(w, `{"error": "Cannot read request body"}`, http.StatusBadRequest)
		return
	}

	log.Printf("📝 Request body: %s", string(body))

	var req models.StudentRequest
	if err := json.Unmarshal(body, &req); err != nil {
		log.Printf("❌ Error decoding JSON: %v", err)
		http.Error(w, `{"error": "Invalid JSON format"}`, http.StatusBadRequest)
		return
	}

	// Валидация
	if req.FirstName == "" || req.LastName == "" {
		log.Printf("❌ Validation failed: FirstName or LastName is empty")
		http.Error(w, `{"error": "First name and last name are required"}`, http.StatusBadRequest)
		return
	}

	receipt, err := parseReceiptDate(req.DateOfReceipt)
	if err != nil {
		log.Printf("❌ Validation failed: invalid date_of_receipt %q", req.DateOfReceipt)
		http.Error(w, `{"error": "Invalid date format, expected YYYY-MM-DD"}`, http.StatusBadRequest)
		return
	}

	// У пользователя может быть только один студент
	if _, err := findStudentProfile(h.db, claims.UserID); err == nil {
		log.Printf("❌ User %s already has a student profile", claims.Username)
		http.Error(w, `{"error": "Student profile already exists"}`, http.StatusConflict)
		return
	}

	student := models.Student{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		DateOfReceipt: receipt,
		UserID:        claims.UserID,
	}

	result := h.db.Create(&student)
	if result.Error != nil {
		log.Printf("❌ Database error creating student: %v", result.Error)
		http.Error(w, `{"error": "Failed to create student in database"}`, http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Student created successfully with ID: %s", student.ID)

	h.db.Preload("User").First(&student, "id = ?", student.ID)

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(models.NewStudentPayload(student)); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}

func (h *StudentHandler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims := middleware.GetUserClaims(r.Context())
	if claims == nil {
		http.Error(w, `{"error": "Not authenticated"}`, http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		log.Printf("❌ Error parsing student id: %v", err)
		http.Error(w, `{"error": "Invalid student ID"}`, http.StatusBadRequest)
		return
	}

	var req models.StudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Error decoding request body: %v", err)
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	// Валидация
	if req.FirstName == "" || req.LastName == "" {
		log.Printf("❌ Validation failed: FirstName or LastName is empty")
		http.Error(w, `{"error": "First name and last name are required"}`, http.StatusBadRequest)
		return
	}

	receipt, err := parseReceiptDate(req.DateOfReceipt)
	if err != nil {
		log.Printf("❌ Validation failed: invalid date_of_receipt %q", req.DateOfReceipt)
		http.Error(w, `{"error": "Invalid date format, expected YYYY-MM-DD"}`, http.StatusBadRequest)
		return
	}

	// Проверяем существование студента
	var existingStudent models.Student
	result := h.db.First(&existingStudent, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			log.Printf("❌ Student with ID %s not found", id)
			http.Error(w, `{"error": "Student not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("❌ Error checking student existence: %v", result.Error)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	// Редактировать можно только своего студента
	if !isOwnerOrStaff(claims, existingStudent.UserID) {
		log.Printf("❌ User %s tried to edit another user's student (ID: %s)", claims.Username, id)
		http.Error(w, `{"error": "Can only edit your own student profile"}`, http.StatusForbidden)
		return
	}

	log.Printf("🔄 Updating student with ID: %s (by user %s)", id, claims.Username)

	updateData := models.Student{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		DateOfReceipt: receipt,
	}

	result = h.db.Model(&existingStudent).Updates(updateData)
	if result.Error != nil {
		log.Printf("❌ Error updating student in database: %v", result.Error)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Student updated successfully. Rows affected: %d", result.RowsAffected)

	// Получаем обновленного студента
	var updatedStudent models.Student
	h.db.Preload("User").First(&updatedStudent, "id = ?", id)

	if err := json.NewEncoder(w).Encode(models.NewStudentPayload(updatedStudent)); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}

func (h *StudentHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims := middleware.GetUserClaims(r.Context())
	if claims == nil {
		http.Error(w, `{"error": "Not authenticated"}`, http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		log.Printf("❌ Error parsing student id: %v", err)
		http.Error(w, `{"error": "Invalid student ID"}`, http.StatusBadRequest)
		return
	}

	// Проверяем существование студента
	var student models.Student
	result := h.db.First(&student, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			log.Printf("❌ Student with ID %s not found", id)
			http.Error(w, `{"error": "Student not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("❌ Error checking student existence: %v", result.Error)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	// Удалять можно только своего студента
	if !isOwnerOrStaff(claims, student.UserID) {
		log.Printf("❌ User %s tried to delete another user's student (ID: %s)", claims.Username, id)
		http.Error(w, `{"error": "Can only delete your own student profile"}`, http.StatusForbidden)
		return
	}

	log.Printf("🗑️ Deleting student with ID: %s (by user %s)", id, claims.Username)

	// Сначала зависимые записи, у базы нет каскада
	h.db.Where("student_id = ?", student.ID).Delete(&models.Review{})
	h.db.Where("student_id = ?", student.ID).Delete(&models.CourseToStudent{})

	result = h.db.Delete(&student)
	if result.Error != nil {
		log.Printf("❌ Error deleting student: %v", result.Error)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Student deleted successfully. Rows affected: %d", result.RowsAffected)
	w.WriteHeader(http.StatusNoContent)
}
