package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"

	"courses-backend/models"
)

func TestWebRegister(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.getPage(t, nil, "/register/")
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Регистрация")

	rec = ts.postForm(t, nil, "/register/", url.Values{
		"username":  {"dave"},
		"password1": {testPassword},
		"password2": {testPassword},
	})
	wantRedirect(t, rec, "/")

	cookie := sessionCookie(rec)
	if cookie == nil || cookie.Value == "" {
		t.Error("expected session cookie after registration")
	}

	var count int64
	ts.db.Model(&models.User{}).Where("username = ?", "dave").Count(&count)
	if count != 1 {
		t.Errorf("expected user in database, got %d", count)
	}

	rec = ts.postForm(t, nil, "/register/", url.Values{
		"username":  {"dave"},
		"password1": {testPassword},
		"password2": {testPassword},
	})
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Пользователь с таким именем уже существует!")

	rec = ts.postForm(t, nil, "/register/", url.Values{
		"username":  {"eve"},
		"password1": {testPassword},
		"password2": {"другой пароль"},
	})
	wantBodyContains(t, rec, "Пароли не совпадают!")

	rec = ts.postForm(t, nil, "/register/", url.Values{
		"username":  {"eve"},
		"password1": {testPassword},
	})
	wantBodyContains(t, rec, "Имя пользователя и пароль обязательны для заполнения!")
}

func TestWebLogin(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "alice", false)

	rec := ts.getPage(t, nil, "/login/")
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Вход")

	rec = ts.postForm(t, nil, "/login/", url.Values{
		"username": {"alice"},
		"password": {testPassword},
	})
	wantRedirect(t, rec, "/")

	cookie := sessionCookie(rec)
	if cookie == nil || cookie.Value == "" {
		t.Error("expected session cookie after login")
	}

	rec = ts.postForm(t, nil, "/login/", url.Values{
		"username": {"nobody"},
		"password": {testPassword},
	})
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Пользователь не найден!")

	rec = ts.postForm(t, nil, "/login/", url.Values{
		"username": {"alice"},
		"password": {"неверный"},
	})
	wantBodyContains(t, rec, "Введен неверный пароль!")

	rec = ts.postForm(t, nil, "/login/", url.Values{
		"username": {"alice"},
	})
	wantBodyContains(t, rec, "Имя пользователя и пароль обязательны для заполнения!")
}

func TestWebLogout(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice", false)

	rec := ts.getPage(t, alice, "/logout/")
	wantRedirect(t, rec, "/")

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatal("expected session cookie to be cleared")
	}
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Errorf("expected expired empty cookie, got value %q with MaxAge %d", cookie.Value, cookie.MaxAge)
	}
}

func TestWebMainPage(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice", false)

	rec := ts.getPage(t, nil, "/")
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Добро пожаловать!")
	wantBodyContains(t, rec, "Войти")

	rec = ts.getPage(t, alice, "/")
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Привет, alice!")
}

func TestWebStudentPages(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice", false)
	bob := ts.createUser(t, "bob", false)

	course := ts.createCourse(t, alice, "Введение в Go")
	student := ts.createStudent(t, bob, "Иван", "Иванов")
	ts.enroll(t, course, student)

	rec := ts.getPage(t, nil, "/students/")
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Иван Иванов")

	rec = ts.getPage(t, nil, "/student/"+student.ID.String()+"/")
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Иван Иванов")

	rec = ts.getPage(t, nil, "/student/"+student.ID.String()+"/courses/")
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Введение в Go")

	rec = ts.getPage(t, nil, "/student/"+uuid.NewString()+"/")
	wantStatus(t, rec, http.StatusNotFound)
}

func TestWebCreateStudent(t *testing.T) {
	ts := newTestServer(t)
	bob := ts.createUser(t, "bob", false)
	carol := ts.createUser(t, "carol", false)

	rec := ts.getPage(t, nil, "/create_student/")
	wantRedirect(t, rec, "/login/?next=/create_student/")

	rec = ts.getPage(t, bob, "/create_student/")
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Создание студента")

	rec = ts.postForm(t, bob, "/create_student/", url.Values{
		"first_name":      {"Иван"},
		"last_name":       {"Иванов"},
		"date_of_receipt": {"2023-09-01"},
	})
	wantRedirect(t, rec, "/students/")

	var count int64
	ts.db.Model(&models.Student{}).Where("user_id = ?", bob.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected student in database, got %d", count)
	}

	rec = ts.postForm(t, bob, "/create_student/", url.Values{
		"first_name":      {"Петр"},
		"last_name":       {"Петров"},
		"date_of_receipt": {"2023-09-01"},
	})
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Вы уже создали студента!")

	rec = ts.postForm(t, carol, "/create_student/", url.Values{
		"first_name": {"Анна"},
	})
	wantBodyContains(t, rec, "Имя и фамилия обязательны для заполнения!")

	rec = ts.postForm(t, carol, "/create_student/", url.Values{
		"first_name":      {strings.Repeat("а", 31)},
		"last_name":       {"Сидорова"},
		"date_of_receipt": {"2023-09-01"},
	})
	wantBodyContains(t, rec, "Имя и фамилия не могут быть длиннее 30 символов!")

	rec = ts.postForm(t, carol, "/create_student/", url.Values{
		"first_name":      {"Анна"},
		"last_name":       {"Сидорова"},
		"date_of_receipt": {"01.09.2023"},
	})
	wantBodyContains(t, rec, "Неверный формат даты!")

	rec = ts.postForm(t, carol, "/create_student/", url.Values{
		"first_name":      {"Анна"},
		"last_name":       {"Сидорова"},
		"date_of_receipt": {futureDate()},
	})
	wantBodyContains(t, rec, "Дата поступления не может быть в будущем!")
}

func TestWebEditStudent(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice", false)
	bob := ts.createUser(t, "bob", false)
	admin := ts.createUser(t, "admin", true)

	student := ts.createStudent(t, bob, "Иван", "Иванов")
	path := "/edit_student/" + student.ID.String() + "/"

	rec := ts.getPage(t, bob, path)
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, `value="Иван"`)

	rec = ts.getPage(t, alice, path)
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Вы можете редактировать только своего студента!")

	rec = ts.postForm(t, alice, path, url.Values{
		"first_name":      {"Петр"},
		"last_name":       {"Петров"},
		"date_of_receipt": {"2022-01-15"},
	})
	wantBodyContains(t, rec, "Вы можете редактировать только своего студента!")

	var unchanged models.Student
	if err := ts.db.First(&unchanged, "id = ?", student.ID).Error; err != nil {
		t.Fatalf("reloading student: %v", err)
	}
	if unchanged.FirstName != "Иван" {
		t.Errorf("expected student untouched by foreign edit, got %q", unchanged.FirstName)
	}

	rec = ts.postForm(t, bob, path, url.Values{
		"first_name":      {"Петр"},
		"last_name":       {"Петров"},
		"date_of_receipt": {"2022-01-15"},
	})
	wantRedirect(t, rec, "/students/")

	var updated models.Student
	if err := ts.db.First(&updated, "id = ?", student.ID).Error; err != nil {
		t.Fatalf("reloading student: %v", err)
	}
	if updated.FirstName != "Петр" || updated.LastName != "Петров" {
		t.Errorf("expected updated names, got %s %s", updated.FirstName, updated.LastName)
	}

	// При ошибке в дате форма показывает уже введенные имена
	rec = ts.postForm(t, bob, path, url.Values{
		"first_name":      {"Семен"},
		"last_name":       {"Петров"},
		"date_of_receipt": {futureDate()},
	})
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Дата поступления не может быть в будущем!")
	wantBodyContains(t, rec, `value="Семен"`)

	var kept models.Student
	if err := ts.db.First(&kept, "id = ?", student.ID).Error; err != nil {
		t.Fatalf("reloading student: %v", err)
	}
	if kept.FirstName != "Петр" {
		t.Errorf("expected rejected edit to leave database intact, got %q", kept.FirstName)
	}

	// Персонал правит любого студента
	rec = ts.postForm(t, admin, path, url.Values{
		"first_name":      {"Иван"},
		"last_name":       {"Иванов"},
		"date_of_receipt": {"2023-09-01"},
	})
	wantRedirect(t, rec, "/students/")
}

func TestWebDeleteStudent(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice", false)
	bob := ts.createUser(t, "bob", false)

	course := ts.createCourse(t, alice, "Введение в Go")
	student := ts.createStudent(t, bob, "Иван", "Иванов")
	ts.enroll(t, course, student)
	ts.createReview(t, course, student, 5, "Отличный курс!")

	path := "/delete_student/" + student.ID.String() + "/"

	rec := ts.getPage(t, alice, path)
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Вы можете удалять только своего студента!")

	var count int64
	ts.db.Model(&models.Student{}).Where("id = ?", student.ID).Count(&count)
	if count != 1 {
		t.Fatal("expected student to survive foreign delete")
	}

	rec = ts.getPage(t, bob, path)
	wantRedirect(t, rec, "/students/")

	ts.db.Model(&models.Student{}).Where("id = ?", student.ID).Count(&count)
	if count != 0 {
		t.Error("expected student deleted")
	}

	var reviews, enrollments int64
	ts.db.Model(&models.Review{}).Where("student_id = ?", student.ID).Count(&reviews)
	ts.db.Model(&models.CourseToStudent{}).Where("student_id = ?", student.ID).Count(&enrollments)
	if reviews != 0 || enrollments != 0 {
		t.Errorf("expected dependent rows deleted, got %d reviews and %d enrollments", reviews, enrollments)
	}
}

func TestWebCourseDetail(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice", false)
	bob := ts.createUser(t, "bob", false)

	course := ts.createCourse(t, alice, "Введение в Go")
	path := "/course/" + course.ID.String() + "/"

	rec := ts.getPage(t, nil, "/courses/")
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Введение в Go")

	rec = ts.getPage(t, nil, path)
	wantRedirect(t, rec, "/login/?next="+path)

	// Без профиля студента страница курса недоступна
	rec = ts.getPage(t, bob, path)
	wantRedirect(t, rec, "/create_student/")

	student := ts.createStudent(t, bob, "Иван", "Иванов")

	rec = ts.getPage(t, bob, path)
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Поступить на курс")

	ts.enroll(t, course, student)

	rec = ts.getPage(t, bob, path)
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Покинуть курс")

	rec = ts.getPage(t, bob, "/course/"+uuid.NewString()+"/")
	wantStatus(t, rec, http.StatusNotFound)
}

func TestWebCreateCourse(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice", false)

	rec := ts.getPage(t, nil, "/create_course/")
	wantRedirect(t, rec, "/login/?next=/create_course/")

	rec = ts.getPage(t, alice, "/create_course/")
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Создание курса")

	rec = ts.postForm(t, alice, "/create_course/", url.Values{
		"title":       {"Алгоритмы"},
		"description": {"Сложность и структуры данных"},
	})
	wantRedirect(t, rec, "/courses/")

	var course models.Course
	if err := ts.db.First(&course, "title = ?", "Алгоритмы").Error; err != nil {
		t.Fatalf("expected course in database: %v", err)
	}
	if course.UserID != alice.ID {
		t.Errorf("expected course owned by alice, got user %d", course.UserID)
	}
}

func TestWebEditCourse(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice", false)
	bob := ts.createUser(t, "bob", false)

	course := ts.createCourse(t, alice, "Введение в Go")
	path := "/edit_course/" + course.ID.String() + "/"

	// Форма открывается всем, запрет срабатывает на сохранении
	rec := ts.getPage(t, bob, path)
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, `value="Введение в Go"`)

	rec = ts.postForm(t, bob, path, url.Values{
		"title":       {"Чужой курс"},
		"description": {"Не выйдет"},
	})
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Вы можете редактировать только свой курс!")

	rec = ts.postForm(t, alice, path, url.Values{
		"title":       {"Go для всех"},
		"description": {"Обновленное описание"},
	})
	wantRedirect(t, rec, "/courses/")

	var updated models.Course
	if err := ts.db.First(&updated, "id = ?", course.ID).Error; err != nil {
		t.Fatalf("reloading course: %v", err)
	}
	if updated.Title != "Go для всех" {
		t.Errorf("expected updated title, got %q", updated.Title)
	}
}

func TestWebDeleteCourse(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice", false)
	bob := ts.createUser(t, "bob", false)

	course := ts.createCourse(t, alice, "Введение в Go")
	student := ts.createStudent(t, bob, "Иван", "Иванов")
	ts.enroll(t, course, student)
	ts.createReview(t, course, student, 5, "Отличный курс!")

	path := "/delete_course/" + course.ID.String() + "/"

	rec := ts.getPage(t, bob, path)
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Вы можете удалять только свой курс!")

	rec = ts.getPage(t, alice, path)
	wantRedirect(t, rec, "/courses/")

	var courses, reviews, enrollments int64
	ts.db.Model(&models.Course{}).Where("id = ?", course.ID).Count(&courses)
	ts.db.Model(&models.Review{}).Where("course_id = ?", course.ID).Count(&reviews)
	ts.db.Model(&models.CourseToStudent{}).Where("course_id = ?", course.ID).Count(&enrollments)
	if courses != 0 || reviews != 0 || enrollments != 0 {
		t.Errorf("expected course with dependents deleted, got %d/%d/%d", courses, reviews, enrollments)
	}
}

func TestWebCourseStudentsAndReviews(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice", false)
	bob := ts.createUser(t, "bob", false)

	course := ts.createCourse(t, alice, "Введение в Go")
	student := ts.createStudent(t, bob, "Иван", "Иванов")
	ts.enroll(t, course, student)
	ts.createReview(t, course, student, 5, "Отличный курс!")

	rec := ts.getPage(t, nil, "/course/"+course.ID.String()+"/students/")
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Студенты курса Введение в Go")
	wantBodyContains(t, rec, "Иван Иванов")

	rec = ts.getPage(t, nil, "/course/"+course.ID.String()+"/reviews/")
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Отличный курс!")
}

func TestWebReviewPages(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice", false)
	bob := ts.createUser(t, "bob", false)

	course := ts.createCourse(t, alice, "Введение в Go")
	student := ts.createStudent(t, bob, "Иван", "Иванов")
	review := ts.createReview(t, course, student, 5, "Отличный курс!")

	rec := ts.getPage(t, nil, "/reviews/")
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "оценка 5")

	rec = ts.getPage(t, nil, "/review/"+review.ID.String()+"/")
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Оценка: 5")
	wantBodyContains(t, rec, "Отличный курс!")

	rec = ts.getPage(t, nil, "/review/"+uuid.NewString()+"/")
	wantStatus(t, rec, http.StatusNotFound)
}

func TestWebCreateReview(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice", false)
	bob := ts.createUser(t, "bob", false)

	course := ts.createCourse(t, alice, "Введение в Go")
	student := ts.createStudent(t, bob, "Иван", "Иванов")

	path := "/create_review/" + course.ID.String() + "/"

	rec := ts.getPage(t, nil, path)
	wantRedirect(t, rec, "/login/")

	// У alice есть курс, но нет профиля студента
	rec = ts.getPage(t, alice, path)
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Вы должны быть зарегистрированы как студент, чтобы оставить отзыв")

	rec = ts.getPage(t, bob, path)
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Отзыв о курсе Введение в Go")

	rec = ts.postForm(t, bob, path, url.Values{
		"grade":       {"6"},
		"review_text": {"Слишком хорошо"},
	})
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Ошибка валидации")

	rec = ts.postForm(t, bob, path, url.Values{
		"grade":       {"4"},
		"review_text": {strings.Repeat("ф", 101)},
	})
	wantBodyContains(t, rec, "Ошибка валидации")

	rec = ts.postForm(t, bob, path, url.Values{
		"grade":       {"5"},
		"review_text": {"Отличный курс!"},
	})
	wantRedirect(t, rec, "/")

	var review models.Review
	if err := ts.db.First(&review, "student_id = ? AND grade = ?", student.ID, 5).Error; err != nil {
		t.Fatalf("expected review in database: %v", err)
	}
	if review.ReviewText == nil || *review.ReviewText != "Отличный курс!" {
		t.Errorf("expected review text saved, got %v", review.ReviewText)
	}

	// Пустой текст сохраняется как NULL
	rec = ts.postForm(t, bob, path, url.Values{
		"grade": {"3"},
	})
	wantRedirect(t, rec, "/")

	var second models.Review
	if err := ts.db.First(&second, "student_id = ? AND grade = ?", student.ID, 3).Error; err != nil {
		t.Fatalf("expected second review in database: %v", err)
	}
	if second.ReviewText != nil {
		t.Errorf("expected empty review text stored as NULL, got %q", *second.ReviewText)
	}

	rec = ts.getPage(t, bob, "/create_review/"+uuid.NewString()+"/")
	wantStatus(t, rec, http.StatusNotFound)
}

func TestWebEditReview(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice", false)
	bob := ts.createUser(t, "bob", false)

	course := ts.createCourse(t, alice, "Введение в Go")
	student := ts.createStudent(t, bob, "Иван", "Иванов")
	review := ts.createReview(t, course, student, 5, "Отличный курс!")

	path := "/edit_review/" + review.ID.String() + "/"

	rec := ts.getPage(t, bob, path)
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Отличный курс!")

	rec = ts.postForm(t, alice, path, url.Values{
		"grade": {"1"},
	})
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Вы можете редактировать только свой отзыв!")

	rec = ts.postForm(t, bob, path, url.Values{
		"grade": {"0"},
	})
	wantBodyContains(t, rec, "Ошибка валидации")

	rec = ts.postForm(t, bob, path, url.Values{
		"grade": {"2"},
	})
	wantRedirect(t, rec, "/courses/")

	var updated models.Review
	if err := ts.db.First(&updated, "id = ?", review.ID).Error; err != nil {
		t.Fatalf("reloading review: %v", err)
	}
	if updated.Grade != 2 {
		t.Errorf("expected grade 2, got %d", updated.Grade)
	}
	if updated.ReviewText != nil {
		t.Errorf("expected review text cleared, got %q", *updated.ReviewText)
	}
}

func TestWebDeleteReview(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice", false)
	bob := ts.createUser(t, "bob", false)
	carol := ts.createUser(t, "carol", false)
	admin := ts.createUser(t, "admin", true)

	course := ts.createCourse(t, alice, "Введение в Go")
	ivan := ts.createStudent(t, bob, "Иван", "Иванов")
	anna := ts.createStudent(t, carol, "Анна", "Сидорова")
	bobReview := ts.createReview(t, course, ivan, 5, "Отличный курс!")
	carolReview := ts.createReview(t, course, anna, 3, "Нормально")

	rec := ts.getPage(t, alice, "/delete_review/"+bobReview.ID.String()+"/")
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Вы можете удалять только свои отзывы!")

	var count int64
	ts.db.Model(&models.Review{}).Where("id = ?", bobReview.ID).Count(&count)
	if count != 1 {
		t.Fatal("expected review to survive foreign delete")
	}

	rec = ts.getPage(t, bob, "/delete_review/"+bobReview.ID.String()+"/")
	wantRedirect(t, rec, "/courses/")

	ts.db.Model(&models.Review{}).Where("id = ?", bobReview.ID).Count(&count)
	if count != 0 {
		t.Error("expected review deleted")
	}

	// Персонал удаляет любой отзыв
	rec = ts.getPage(t, admin, "/delete_review/"+carolReview.ID.String()+"/")
	wantRedirect(t, rec, "/courses/")
}

func TestWebEnrollAndUnenroll(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice", false)
	bob := ts.createUser(t, "bob", false)

	course := ts.createCourse(t, alice, "Введение в Go")
	student := ts.createStudent(t, bob, "Иван", "Иванов")

	enrollPath := "/enroll_course/" + course.ID.String() + "/"
	unenrollPath := "/unenroll_course/" + course.ID.String() + "/"

	rec := ts.getPage(t, nil, enrollPath)
	wantRedirect(t, rec, "/login/?next="+enrollPath)

	// У alice нет профиля студента
	rec = ts.getPage(t, alice, enrollPath)
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Вы должны быть зарегистрированы как студент, чтобы поступить на курс")

	rec = ts.getPage(t, bob, enrollPath)
	wantRedirect(t, rec, "/courses/")

	var count int64
	ts.db.Model(&models.CourseToStudent{}).
		Where("course_id = ? AND student_id = ?", course.ID, student.ID).
		Count(&count)
	if count != 1 {
		t.Errorf("expected enrollment in database, got %d", count)
	}

	rec = ts.getPage(t, bob, enrollPath)
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Вы уже поступили на этот курс")

	rec = ts.getPage(t, bob, unenrollPath)
	wantRedirect(t, rec, "/courses/")

	ts.db.Model(&models.CourseToStudent{}).
		Where("course_id = ? AND student_id = ?", course.ID, student.ID).
		Count(&count)
	if count != 0 {
		t.Errorf("expected enrollment removed, got %d", count)
	}

	rec = ts.getPage(t, bob, unenrollPath)
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Вы уже покинули этот курс")

	rec = ts.getPage(t, alice, unenrollPath)
	wantBodyContains(t, rec, "Вы уже покинули этот курс")
}

func TestWebEnrollmentPages(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice", false)
	bob := ts.createUser(t, "bob", false)

	course := ts.createCourse(t, alice, "Введение в Go")
	student := ts.createStudent(t, bob, "Иван", "Иванов")
	enrollment := ts.enroll(t, course, student)

	rec := ts.getPage(t, nil, "/coursestostudents/")
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Введение в Go")

	rec = ts.getPage(t, nil, "/coursetostudent/"+enrollment.ID.String()+"/")
	wantStatus(t, rec, http.StatusOK)
	wantBodyContains(t, rec, "Введение в Go")

	rec = ts.getPage(t, nil, "/coursetostudent/"+uuid.NewString()+"/")
	wantStatus(t, rec, http.StatusNotFound)
}
