package database

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // драйвер PostgreSQL
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"courses-backend/config"
)

// InitDB открывает основное подключение GORM к PostgreSQL
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	// Проверяем подключение
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting sql db: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("error pinging database: %v", err)
	}

	log.Println("Successfully connected to PostgreSQL!")
	return db, nil
}

// OpenReportDB открывает отдельное подключение для сырых отчетных
// запросов
func OpenReportDB(cfg *config.Config) (*sqlx.DB, error) {
	psqlInfo := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	// Сначала используем стандартный database/sql
	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	// Затем оборачиваем в sqlx
	dbx := sqlx.NewDb(db, "postgres")

	// Проверяем подключение
	if err := dbx.Ping(); err != nil {
		return nil, fmt.Errorf("error pinging database: %v", err)
	}

	return dbx, nil
}
