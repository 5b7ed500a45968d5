package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"courses-backend/auth"
	"courses-backend/config"
	"courses-backend/middleware"
	"courses-backend/models"
	"courses-backend/routes"
)

const (
	testJWTSecret = "test-secret"
	testPassword  = "secret123"
)

// Один хэш на все тесты: bcrypt дорогой
var passwordHash string

type testServer struct {
	db     *gorm.DB
	jwt    *auth.JWTService
	router http.Handler
}

func newTestServer(t *testing.T) *testServer {
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

	err = db.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.Course{},
		&models.CourseToStudent{},
		&models.Review{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := &config.Config{
		JWTSecret: testJWTSecret,
		JWTExpiry: 1,
	}

	router, err := routes.SetupRouter(db, sqlx.NewDb(sqlDB, "sqlite3"), cfg)
	if err != nil {
		t.Fatalf("failed to set up router: %v", err)
	}

	return &testServer{
		db:     db,
		jwt:    auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry),
		router: router,
	}
}

func testPasswordHash(t *testing.T) string {
	t.Helper()
	if passwordHash == "" {
		hash, err := auth.HashPassword(testPassword)
		if err != nil {
			t.Fatalf("failed to hash password: %v", err)
		}
		passwordHash = hash
	}
	return passwordHash
}

func (ts *testServer) createUser(t *testing.T, username string, staff bool) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Password: testPasswordHash(t),
		IsStaff:  staff,
	}
	if err := ts.db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func (ts *testServer) createStudent(t *testing.T, user *models.User, firstName, lastName string) *models.Student {
	t.Helper()

	student := &models.Student{
		FirstName:     firstName,
		LastName:      lastName,
		DateOfReceipt: time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC),
		UserID:        user.ID,
	}
	if err := ts.db.Create(student).Error; err != nil {
		t.Fatalf("failed to create student: %v", err)
	}
	return student
}

func (ts *testServer) createCourse(t *testing.T, user *models.User, title string) *models.Course {
	t.Helper()

	course := &models.Course{
		Title:       title,
		Description: "Описание курса",
		UserID:      user.ID,
	}
	if err := ts.db.Create(course).Error; err != nil {
		t.Fatalf("failed to create course: %v", err)
	}
	return course
}

func (ts *testServer) enroll(t *testing.T, course *models.Course, student *models.Student) *models.CourseToStudent {
	t.Helper()

	enrollment := &models.CourseToStudent{
		CourseID:  course.ID,
		StudentID: student.ID,
	}
	if err := ts.db.Create(enrollment).Error; err != nil {
		t.Fatalf("failed to create enrollment: %v", err)
	}
	return enrollment
}

func (ts *testServer) createReview(t *testing.T, course *models.Course, student *models.Student, grade int, text string) *models.Review {
	t.Helper()

	review := &models.Review{
		CourseID:  course.ID,
		StudentID: student.ID,
		Grade:     grade,
	}
	if text != "" {
		review.ReviewText = &text
	}
	if err := ts.db.Create(review).Error; err != nil {
		t.Fatalf("failed to create review: %v", err)
	}
	return review
}

func (ts *testServer) token(t *testing.T, user *models.User) string {
	t.Helper()

	token, err := ts.jwt.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

// apiRequest выполняет JSON запрос к API. При user == nil запрос
// уходит без заголовка Authorization.
func (ts *testServer) apiRequest(t *testing.T, user *models.User, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req.Header.Set("Authorization", "Bearer "+ts.token(t, user))
	}

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) getPage(t *testing.T, user *models.User, path string) *httptest.ResponseRecorder {
	t.Helper()
	return ts.webRequest(t, user, http.MethodGet, path, nil)
}

func (ts *testServer) postForm(t *testing.T, user *models.User, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	return ts.webRequest(t, user, http.MethodPost, path, form)
}

// webRequest выполняет запрос к веб-странице. Сессия поднимается
// из куки, как в браузере.
func (ts *testServer) webRequest(t *testing.T, user *models.User, method, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if form != nil {
		reader = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, reader)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if user != nil {
		req.AddCookie(&http.Cookie{
			Name:  middleware.SessionCookieName,
			Value: ts.token(t, user),
		})
	}

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			return cookie
		}
	}
	return nil
}

func futureDate() string {
	return time.Now().AddDate(0, 0, 2).Format(models.DateLayout)
}

func wantStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d (body: %s)", want, rec.Code, rec.Body.String())
	}
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func wantAPIError(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	wantStatus(t, rec, status)

	var payload struct {
		Error string `json:"error"`
	}
	decodeJSON(t, rec, &payload)
	if payload.Error != message {
		t.Errorf("expected error %q, got %q", message, payload.Error)
	}
}

func wantBodyContains(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	if !strings.Contains(rec.Body.String(), want) {
		t.Errorf("expected body to contain %q", want)
	}
}

func wantRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != location {
		t.Errorf("expected redirect to %q, got %q", location, got)
	}
}
