package main

import (
	"log"
	"net/http"
	"time"

	"courses-backend/config"
	"courses-backend/database"
	"courses-backend/middleware"
	"courses-backend/routes"
)

func main() {
	log.Println("🚀 Starting Courses Backend Server...")

	// Загрузка конфигурации
	cfg := config.Load()
	log.Printf("📋 Configuration loaded: Server Port %s", cfg.ServerPort)

	// Инициализация подключения к базе данных
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatal("❌ Error initializing database:", err)
	}

	// Получаем низкоуровневое соединение для закрытия
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("❌ Error getting SQL DB:", err)
	}
	defer sqlDB.Close()

	// Миграции и начальные данные
	if err := database.Migrate(db); err != nil {
		log.Fatal("❌ Error running migrations:", err)
	}

	// Отдельное подключение для отчетных запросов
	reportDB, err := database.OpenReportDB(cfg)
	if err != nil {
		log.Fatal("❌ Error opening report database:", err)
	}
	defer reportDB.Close()

	// Создание роутера
	router, err := routes.SetupRouter(db, reportDB, cfg)
	if err != nil {
		log.Fatal("❌ Error setting up router:", err)
	}

	// Добавление middleware CORS для всех маршрутов
	router.Use(middleware.CORS)
	router.Use(loggingMiddleware)

	serverAddr := ":" + cfg.ServerPort
	log.Printf("✅ Server successfully started on %s", serverAddr)
	log.Printf("🌐 Available at: http://localhost%s", serverAddr)
	log.Printf("🔐 JWT Expiry: %d hours", cfg.JWTExpiry)

	log.Fatal(http.ListenAndServe(serverAddr, router))
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Создаем обертку для response writer для захвата статуса
		rw := &responseWriter{w, http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Printf("📨 %s %s - %d (%v)", r.Method, r.URL.Path, rw.statusCode, duration)
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
