package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/flosch/pongo2/v6"
	"gorm.io/gorm"

	"courses-backend/auth"
	"courses-backend/middleware"
	"courses-backend/models"
	"courses-backend/views"
)

// AuthPages обрабатывает страницы регистрации, входа и выхода
type AuthPages struct {
	db         *gorm.DB
	jwtService *auth.JWTService
	renderer   *views.Renderer
}

func NewAuthPages(db *gorm.DB, jwtService *auth.JWTService, renderer *views.Renderer) *AuthPages {
	return &AuthPages{
		db:         db,
		jwtService: jwtService,
		renderer:   renderer,
	}
}

// Register показывает форму регистрации и создает пользователя
func (p *AuthPages) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		p.renderer.HTML(w, r, "register.html", nil)
		return
	}

	username := r.FormValue("username")
	password1 := r.FormValue("password1")
	password2 := r.FormValue("password2")

	if username == "" || password1 == "" || password2 == "" {
		p.renderer.HTML(w, r, "register.html", pongo2.Context{
			"error": "Имя пользователя и пароль обязательны для заполнения!",
		})
		return
	}

	if password1 != password2 {
		p.renderer.HTML(w, r, "register.html", pongo2.Context{
			"error": "Пароли не совпадают!",
		})
		return
	}

	// Проверяем, существует ли пользователь
	var existingUser models.User
	if err := p.db.Where("username = ?", username).First(&existingUser).Error; err == nil {
		p.renderer.HTML(w, r, "register.html", pongo2.Context{
			"error": "Пользователь с таким именем уже существует!",
		})
		return
	}

	hashedPassword, err := auth.HashPassword(password1)
	if err != nil {
		log.Printf("❌ Error hashing password: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	user := models.User{
		Username: username,
		Password: hashedPassword,
	}

	if err := p.db.Create(&user).Error; err != nil {
		log.Printf("❌ Error creating user: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ User registered successfully: %s", user.Username)
	p.startSession(w, &user)
	http.Redirect(w, r, "/", http.StatusFound)
}

// Login показывает форму входа и открывает сессию
func (p *AuthPages) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		p.renderer.HTML(w, r, "login.html", nil)
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	if username == "" || password == "" {
		p.renderer.HTML(w, r, "login.html", pongo2.Context{
			"error": "Имя пользователя и пароль обязательны для заполнения!",
		})
		return
	}

	// Ищем пользователя
	var user models.User
	if err := p.db.Where("username = ?", username).First(&user).Error; err != nil {
		p.renderer.HTML(w, r, "login.html", pongo2.Context{
			"error": "Пользователь не найден!",
		})
		return
	}

	// Проверяем пароль
	if !auth.CheckPassword(password, user.Password) {
		p.renderer.HTML(w, r, "login.html", pongo2.Context{
			"error": "Введен неверный пароль!",
		})
		return
	}

	log.Printf("✅ User logged in successfully: %s", user.Username)
	p.startSession(w, &user)
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout закрывает сессию и возвращает на главную
func (p *AuthPages) Logout(w http.ResponseWriter, r *http.Request) {
	if claims := middleware.GetUserClaims(r.Context()); claims != nil {
		clearSessionCookie(w)
		log.Printf("✅ User logged out: %s", claims.Username)
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// startSession выписывает токен и кладет его в сессионную куку
func (p *AuthPages) startSession(w http.ResponseWriter, user *models.User) {
	token, err := p.jwtService.GenerateToken(user)
	if err != nil {
		log.Printf("❌ Error generating session token for %s: %v", user.Username, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(p.jwtService.TokenTTL()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
