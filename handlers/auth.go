package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"gorm.io/gorm"

	"courses-backend/auth"
	"courses-backend/middleware"
	"courses-backend/models"
)

type AuthHandler struct {
	db         *gorm.DB
	jwtService *auth.JWTService
}

func NewAuthHandler(db *gorm.DB, jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{
		db:         db,
		jwtService: jwtService,
	}
}

// Login обрабатывает вход пользователя
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var loginReq models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		log.Printf("❌ Error decoding login request: %v", err)
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	// Ищем пользователя
	var user models.User
	result := h.db.Where("username = ?", loginReq.Username).First(&user)
	if result.Error != nil {
		log.Printf("❌ User not found: %s", loginReq.Username)
		http.Error(w, `{"error": "Invalid username or password"}`, http.StatusUnauthorized)
		return
	}

	// Проверяем пароль
	if !auth.CheckPassword(loginReq.Password, user.Password) {
		log.Printf("❌ Invalid password for user: %s", loginReq.Username)
		http.Error(w, `{"error": "Invalid username or password"}`, http.StatusUnauthorized)
		return
	}

	// Генерируем токен
	token, err := h.jwtService.GenerateToken(&user)
	if err != nil {
		log.Printf("❌ Error generating token for user %s: %v", user.Username, err)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	response := models.LoginResponse{
		Token: token,
		User:  user,
	}

	log.Printf("✅ User logged in successfully: %s", user.Username)
	json.NewEncoder(w).Encode(response)
}

// Register регистрирует нового пользователя
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var registerReq models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&registerReq); err != nil {
		log.Printf("❌ Error decoding register request: %v", err)
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	// Валидация
	if registerReq.Username == "" || registerReq.Password == "" {
		http.Error(w, `{"error": "Username and password are required"}`, http.StatusBadRequest)
		return
	}

	// Проверяем, существует ли пользователь
	var existingUser models.User
	if err := h.db.Where("username = ?", registerReq.Username).First(&existingUser).Error; err == nil {
		log.Printf("❌ User already exists: %s", registerReq.Username)
		http.Error(w, `{"error": "User with this username already exists"}`, http.StatusConflict)
		return
	}

	// Хэшируем пароль
	hashedPassword, err := auth.HashPassword(registerReq.Password)
	if err != nil {
		log.Printf("❌ Error hashing password: %v", err)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	// Создаем пользователя
	user := models.User{
		Username: registerReq.Username,
		Password: hashedPassword,
	}

	if err := h.db.Create(&user).Error; err != nil {
		log.Printf("❌ Error creating user: %v", err)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	// Генерируем токен
	token, err := h.jwtService.GenerateToken(&user)
	if err != nil {
		log.Printf("❌ Error generating token: %v", err)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	response := models.LoginResponse{
		Token: token,
		User:  user,
	}

	log.Printf("✅ User registered successfully: %s", user.Username)
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

// GetCurrentUser возвращает текущего пользователя
func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// Извлекаем claims из контекста (через middleware)
	claims := middleware.GetUserClaims(r.Context())
	if claims == nil {
		http.Error(w, `{"error": "Not authenticated"}`, http.StatusUnauthorized)
		return
	}

	// Получаем полную информацию о пользователе
	var user models.User
	if err := h.db.First(&user, claims.UserID).Error; err != nil {
		log.Printf("❌ Error fetching user: %v", err)
		http.Error(w, `{"error": "User not found"}`, http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(user)
}
