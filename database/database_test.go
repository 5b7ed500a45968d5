package database

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"courses-backend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	// База живет в памяти одного соединения
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return db
}

func TestMigrateSeedsInitialData(t *testing.T) {
	db := newTestDB(t)

	if err := Migrate(db); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var userCount int64
	db.Model(&models.User{}).Count(&userCount)
	if userCount != 2 {
		t.Fatalf("expected 2 seeded users, got %d", userCount)
	}

	var admin models.User
	if err := db.Where("username = ?", "admin").First(&admin).Error; err != nil {
		t.Fatalf("expected admin user: %v", err)
	}
	if !admin.IsStaff {
		t.Fatal("expected admin to be staff")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("admin123")); err != nil {
		t.Fatal("expected admin password to be 'admin123'")
	}

	var student models.Student
	if err := db.First(&student).Error; err != nil {
		t.Fatalf("expected seeded student: %v", err)
	}
	if student.FirstName != "Иван" || student.LastName != "Иванов" {
		t.Fatalf("unexpected seeded student %s %s", student.FirstName, student.LastName)
	}

	var courseCount, enrollmentCount int64
	db.Model(&models.Course{}).Count(&courseCount)
	db.Model(&models.CourseToStudent{}).Count(&enrollmentCount)
	if courseCount != 2 {
		t.Fatalf("expected 2 seeded courses, got %d", courseCount)
	}
	if enrollmentCount != 1 {
		t.Fatalf("expected 1 seeded enrollment, got %d", enrollmentCount)
	}

	var review models.Review
	if err := db.First(&review).Error; err != nil {
		t.Fatalf("expected seeded review: %v", err)
	}
	if review.Grade != 5 {
		t.Fatalf("expected seeded grade 5, got %d", review.Grade)
	}
	if review.ReviewText == nil || *review.ReviewText != "Отличный курс!" {
		t.Fatalf("unexpected seeded review text %v", review.ReviewText)
	}
}

func TestMigrateSkipsSeedOnExistingData(t *testing.T) {
	db := newTestDB(t)

	if err := Migrate(db); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var userCount int64
	db.Model(&models.User{}).Count(&userCount)
	if userCount != 2 {
		t.Fatalf("expected seed to run once, got %d users", userCount)
	}
}

func TestResetRecreatesSchema(t *testing.T) {
	db := newTestDB(t)

	if err := Migrate(db); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	extra := models.User{Username: "extra", Password: "x"}
	if err := db.Create(&extra).Error; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := Reset(db); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var count int64
	db.Model(&models.User{}).Where("username = ?", "extra").Count(&count)
	if count != 0 {
		t.Fatal("expected extra user to be dropped by reset")
	}

	db.Model(&models.User{}).Count(&count)
	if count != 2 {
		t.Fatalf("expected fresh seed after reset, got %d users", count)
	}
}

func newTestReporter(t *testing.T, db *gorm.DB) *Reporter {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	return NewReporter(sqlx.NewDb(sqlDB, "sqlite3"))
}

func TestReporterTotals(t *testing.T) {
	db := newTestDB(t)
	if err := Migrate(db); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	totals, err := newTestReporter(t, db).Totals()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &Totals{Users: 2, Students: 1, Courses: 2, Enrollments: 1, Reviews: 1}
	if diff := cmp.Diff(want, totals); diff != "" {
		t.Fatalf("totals mismatch (-want +got):\n%s", diff)
	}
}

func TestReporterCourseActivity(t *testing.T) {
	db := newTestDB(t)
	if err := Migrate(db); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	activity, err := newTestReporter(t, db).CourseActivity()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	average := 5.0
	want := []CourseActivity{
		{Title: "Базы данных", Students: 0, Reviews: 0, AverageGrade: nil},
		{Title: "Введение в Go", Students: 1, Reviews: 1, AverageGrade: &average},
	}
	if diff := cmp.Diff(want, activity); diff != "" {
		t.Fatalf("activity mismatch (-want +got):\n%s", diff)
	}
}

func TestReporterStudentRoster(t *testing.T) {
	db := newTestDB(t)
	if err := Migrate(db); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	roster, err := newTestReporter(t, db).StudentRoster()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []StudentRoster{
		{FirstName: "Иван", LastName: "Иванов", Username: "demo", Courses: 1},
	}
	if diff := cmp.Diff(want, roster); diff != "" {
		t.Fatalf("roster mismatch (-want +got):\n%s", diff)
	}
}
