package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"courses-backend/auth"
	"courses-backend/config"
	"courses-backend/database"
	"courses-backend/handlers"
	"courses-backend/middleware"
	"courses-backend/views"
)

// SetupRouter собирает весь роутер: JSON API под /api и веб-страницы
// на путях с завершающим слэшем.
func SetupRouter(db *gorm.DB, reportDB *sqlx.DB, cfg *config.Config) (*mux.Router, error) {
	renderer, err := views.NewRenderer()
	if err != nil {
		return nil, err
	}

	// Инициализация сервисов
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	sessionMiddleware := middleware.NewSessionMiddleware(jwtService)
	reporter := database.NewReporter(reportDB)

	// Инициализация обработчиков API
	authHandler := handlers.NewAuthHandler(db, jwtService)
	courseHandler := handlers.NewCourseHandler(db)
	studentHandler := handlers.NewStudentHandler(db)
	reviewHandler := handlers.NewReviewHandler(db)
	enrollmentHandler := handlers.NewEnrollmentHandler(db)
	statsHandler := handlers.NewStatsHandler(reporter)

	// Инициализация обработчиков веб-страниц
	sitePages := handlers.NewSitePages(renderer)
	authPages := handlers.NewAuthPages(db, jwtService, renderer)
	studentPages := handlers.NewStudentPages(db, renderer)
	coursePages := handlers.NewCoursePages(db, renderer)
	reviewPages := handlers.NewReviewPages(db, renderer)
	enrollmentPages := handlers.NewEnrollmentPages(db, renderer)

	r := mux.NewRouter()
	r.StrictSlash(true)

	// Публичные маршруты API (без аутентификации)
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")

	// Защищенные маршруты API
	protectedAPI := r.PathPrefix("/api").Subrouter()
	protectedAPI.Use(authMiddleware.APIAuth)

	// Аутентификация
	protectedAPI.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")

	// Курсы
	protectedAPI.HandleFunc("/v1/courses/", courseHandler.GetCourses).Methods("GET")
	protectedAPI.HandleFunc("/v1/courses/", courseHandler.CreateCourse).Methods("POST")
	protectedAPI.HandleFunc("/v1/courses/{id}/", courseHandler.GetCourse).Methods("GET")
	protectedAPI.HandleFunc("/v1/courses/{id}/", courseHandler.UpdateCourse).Methods("PUT", "PATCH")
	protectedAPI.HandleFunc("/v1/courses/{id}/", courseHandler.DeleteCourse).Methods("DELETE")

	// Студенты
	protectedAPI.HandleFunc("/v1/students/", studentHandler.GetStudents).Methods("GET")
	protectedAPI.HandleFunc("/v1/students/", studentHandler.CreateStudent).Methods("POST")
	protectedAPI.HandleFunc("/v1/students/{id}/", studentHandler.GetStudent).Methods("GET")
	protectedAPI.HandleFunc("/v1/students/{id}/", studentHandler.UpdateStudent).Methods("PUT", "PATCH")
	protectedAPI.HandleFunc("/v1/students/{id}/", studentHandler.DeleteStudent).Methods("DELETE")

	// Записи студентов на курсы
	protectedAPI.HandleFunc("/v1/coursestostudents/", enrollmentHandler.GetEnrollments).Methods("GET")
	protectedAPI.HandleFunc("/v1/coursestostudents/", enrollmentHandler.CreateEnrollment).Methods("POST")
	protectedAPI.HandleFunc("/v1/coursestostudents/{id}/", enrollmentHandler.GetEnrollment).Methods("GET")
	protectedAPI.HandleFunc("/v1/coursestostudents/{id}/", enrollmentHandler.UpdateEnrollment).Methods("PUT", "PATCH")
	protectedAPI.HandleFunc("/v1/coursestostudents/{id}/", enrollmentHandler.DeleteEnrollment).Methods("DELETE")

	// Отзывы
	protectedAPI.HandleFunc("/v1/reviews/", reviewHandler.GetReviews).Methods("GET")
	protectedAPI.HandleFunc("/v1/reviews/", reviewHandler.CreateReview).Methods("POST")
	protectedAPI.HandleFunc("/v1/reviews/{id}/", reviewHandler.GetReview).Methods("GET")
	protectedAPI.HandleFunc("/v1/reviews/{id}/", reviewHandler.UpdateReview).Methods("PUT", "PATCH")
	protectedAPI.HandleFunc("/v1/reviews/{id}/", reviewHandler.DeleteReview).Methods("DELETE")

	// Статистика - только для персонала
	protectedAPI.HandleFunc("/v1/stats/", statsHandler.GetStats).Methods("GET")

	// Служебные маршруты
	r.HandleFunc("/health", healthHandler).Methods("GET")

	// Веб-страницы. Сессия поднимается из куки, методы страницы
	// разбирают сами.
	web := r.NewRoute().Subrouter()
	web.Use(sessionMiddleware.Session)
	if cfg.CSRFKey != "" {
		// Куки без Secure: сервис живет за обычным http.
		web.Use(csrf.Protect([]byte(cfg.CSRFKey),
			csrf.Secure(false),
			csrf.Path("/"),
		))
	}

	web.HandleFunc("/", sitePages.Main)
	web.HandleFunc("/register/", authPages.Register)
	web.HandleFunc("/login/", authPages.Login)
	web.HandleFunc("/logout/", authPages.Logout)

	web.HandleFunc("/students/", studentPages.List)
	web.HandleFunc("/student/{id}/", studentPages.Detail)
	web.HandleFunc("/student/{id}/courses/", studentPages.Courses)
	web.HandleFunc("/create_student/", sessionMiddleware.LoginRequired(studentPages.Create))
	web.HandleFunc("/edit_student/{id}/", studentPages.Edit)
	web.HandleFunc("/delete_student/{id}/", studentPages.Delete)

	web.HandleFunc("/courses/", coursePages.List)
	web.HandleFunc("/course/{id}/", sessionMiddleware.LoginRequired(coursePages.Detail))
	web.HandleFunc("/course/{id}/students/", coursePages.Students)
	web.HandleFunc("/course/{id}/reviews/", coursePages.Reviews)
	web.HandleFunc("/create_course/", sessionMiddleware.LoginRequired(coursePages.Create))
	web.HandleFunc("/edit_course/{id}/", coursePages.Edit)
	web.HandleFunc("/delete_course/{id}/", coursePages.Delete)

	web.HandleFunc("/reviews/", reviewPages.List)
	web.HandleFunc("/review/{id}/", reviewPages.Detail)
	web.HandleFunc("/create_review/{course_id}/", reviewPages.Create)
	web.HandleFunc("/edit_review/{id}/", reviewPages.Edit)
	web.HandleFunc("/delete_review/{id}/", reviewPages.Delete)

	web.HandleFunc("/coursestostudents/", enrollmentPages.List)
	web.HandleFunc("/coursetostudent/{id}/", enrollmentPages.Detail)
	web.HandleFunc("/enroll_course/{course_id}/", sessionMiddleware.LoginRequired(enrollmentPages.Enroll))
	web.HandleFunc("/unenroll_course/{course_id}/", sessionMiddleware.LoginRequired(enrollmentPages.Unenroll))

	return r, nil
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	response := map[string]interface{}{
		"status":    "ok",
		"service":   "courses-backend",
		"orm":       "GORM",
		"auth":      "JWT",
		"timestamp": time.Now().Format(time.RFC3339),
	}

	json.NewEncoder(w).Encode(response)
}
