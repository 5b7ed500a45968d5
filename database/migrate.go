package database

import (
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"courses-backend/models"
)

// Migrate создает недостающие таблицы и наполняет пустую базу
// начальными данными. Существующие данные не трогает.
func Migrate(db *gorm.DB) error {
	log.Println("🔄 Starting database migration...")

	// Создаем таблицы с использованием GORM AutoMigrate
	// В правильном порядке: сначала независимые таблицы, потом зависимые
	tables := []interface{}{
		&models.User{},
		&models.Student{},
		&models.Course{},
		&models.CourseToStudent{},
		&models.Review{},
	}

	for _, table := range tables {
		if err := db.AutoMigrate(table); err != nil {
			log.Printf("❌ Error migrating table %T: %v", table, err)
			return err
		}
		log.Printf("✅ Created/Updated table for: %T", table)
	}

	// Создаем индексы вручную (если нужно)
	createIndexes(db)

	// Заполняем начальными данными
	if err := seedInitialData(db); err != nil {
		log.Printf("⚠️ Error seeding initial data: %v", err)
	}

	log.Println("✅ Database migration completed successfully!")
	return nil
}

// Reset пересоздает схему с нуля: роняем зависимые таблицы раньше
// базовых, потом обычная миграция
func Reset(db *gorm.DB) error {
	log.Println("🗑️ Dropping existing tables...")
	dropOrder := []string{
		"reviews",
		"course_to_students",
		"courses",
		"students",
		"users",
	}

	for _, table := range dropOrder {
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)).Error; err != nil {
			log.Printf("⚠️ Warning: Could not drop table %s: %v", table, err)
		}
	}

	return Migrate(db)
}

func createIndexes(db *gorm.DB) {
	log.Println("📊 Creating indexes...")

	// Индексы под сортировки списков
	db.Exec("CREATE INDEX IF NOT EXISTS idx_courses_title ON courses(title)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_students_last_name ON students(last_name)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_reviews_grade ON reviews(grade)")

	log.Println("✅ Indexes created successfully!")
}

func seedInitialData(db *gorm.DB) error {
	log.Println("🌱 Seeding initial data...")

	// Проверяем, есть ли уже данные
	var userCount int64
	db.Model(&models.User{}).Count(&userCount)

	if userCount > 0 {
		log.Println("✅ Database already has data, skipping seed")
		return nil
	}

	// Хешируем пароль для админа
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// Создаем администратора
	admin := models.User{
		Username: "admin",
		Password: string(hashedPassword),
		IsStaff:  true,
	}

	if err := db.Create(&admin).Error; err != nil {
		log.Printf("❌ Error creating admin user: %v", err)
		return err
	}

	log.Printf("✅ Created admin user: %s (password: admin123)", admin.Username)

	// Создаем демо-пользователя со студентом
	demoPassword, _ := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.DefaultCost)
	demoUser := models.User{
		Username: "demo",
		Password: string(demoPassword),
	}

	if err := db.Create(&demoUser).Error; err != nil {
		log.Printf("❌ Error creating demo user: %v", err)
	}

	student := models.Student{
		FirstName:     "Иван",
		LastName:      "Иванов",
		DateOfReceipt: time.Date(2023, time.September, 1, 0, 0, 0, 0, time.UTC),
		UserID:        demoUser.ID,
	}

	if err := db.Create(&student).Error; err != nil {
		log.Printf("❌ Error creating student: %v", err)
	}

	// Создаем курсы
	courses := []models.Course{
		{Title: "Введение в Go", Description: "Основы языка и стандартной библиотеки", UserID: admin.ID},
		{Title: "Базы данных", Description: "Реляционные базы и SQL", UserID: admin.ID},
	}

	for i := range courses {
		if err := db.Create(&courses[i]).Error; err != nil {
			log.Printf("❌ Error creating course: %v", err)
			return err
		}
	}

	// Записываем студента на первый курс и оставляем отзыв
	enrollment := models.CourseToStudent{
		CourseID:  courses[0].ID,
		StudentID: student.ID,
	}

	if err := db.Create(&enrollment).Error; err != nil {
		log.Printf("❌ Error creating enrollment: %v", err)
	}

	reviewText := "Отличный курс!"
	review := models.Review{
		CourseID:   courses[0].ID,
		StudentID:  student.ID,
		ReviewText: &reviewText,
		Grade:      5,
	}

	if err := db.Create(&review).Error; err != nil {
		log.Printf("❌ Error creating review: %v", err)
	}

	log.Println("✅ Initial data seeded successfully!")
	return nil
}
