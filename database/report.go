package database

import "github.com/jmoiron/sqlx"

// Totals хранит сводные счетчики по всем таблицам
type Totals struct {
	Users       int `db:"users" json:"users"`
	Students    int `db:"students" json:"students"`
	Courses     int `db:"courses" json:"courses"`
	Enrollments int `db:"enrollments" json:"enrollments"`
	Reviews     int `db:"reviews" json:"reviews"`
}

// CourseActivity описывает агрегированную строку отчета по курсу
type CourseActivity struct {
	Title        string   `db:"title" json:"title"`
	Students     int      `db:"students" json:"students"`
	Reviews      int      `db:"reviews" json:"reviews"`
	AverageGrade *float64 `db:"average_grade" json:"average_grade"`
}

// StudentRoster описывает строку отчета по студенту
type StudentRoster struct {
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Username  string `db:"username" json:"username"`
	Courses   int    `db:"courses" json:"courses"`
}

// Reporter выполняет сырые агрегатные запросы через sqlx
type Reporter struct {
	db *sqlx.DB
}

func NewReporter(db *sqlx.DB) *Reporter {
	return &Reporter{db: db}
}

// Totals считает записи по каждой таблице
func (r *Reporter) Totals() (*Totals, error) {
	totals := &Totals{}

	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM users WHERE deleted_at IS NULL", &totals.Users},
		{"SELECT COUNT(*) FROM students", &totals.Students},
		{"SELECT COUNT(*) FROM courses", &totals.Courses},
		{"SELECT COUNT(*) FROM course_to_students", &totals.Enrollments},
		{"SELECT COUNT(*) FROM reviews", &totals.Reviews},
	}

	for _, c := range counts {
		if err := r.db.Get(c.dest, c.query); err != nil {
			return nil, err
		}
	}

	return totals, nil
}

// CourseActivity собирает по каждому курсу число студентов, число
// отзывов и среднюю оценку. Средняя по курсу без отзывов равна NULL.
func (r *Reporter) CourseActivity() ([]CourseActivity, error) {
	query := `
        SELECT
            c.title AS title,
            COUNT(DISTINCT cts.id) AS students,
            COUNT(DISTINCT rv.id) AS reviews,
            AVG(rv.grade) AS average_grade
        FROM courses c
        LEFT JOIN course_to_students cts ON cts.course_id = c.id
        LEFT JOIN reviews rv ON rv.course_id = c.id
        GROUP BY c.id, c.title
        ORDER BY c.title`

	activity := []CourseActivity{}
	if err := r.db.Select(&activity, query); err != nil {
		return nil, err
	}

	return activity, nil
}

// StudentRoster перечисляет студентов с владельцем и числом курсов
func (r *Reporter) StudentRoster() ([]StudentRoster, error) {
	query := `
        SELECT
            s.first_name AS first_name,
            s.last_name AS last_name,
            u.username AS username,
            COUNT(cts.id) AS courses
        FROM students s
        JOIN users u ON u.id = s.user_id
        LEFT JOIN course_to_students cts ON cts.student_id = s.id
        GROUP BY s.id, s.first_name, s.last_name, u.username
        ORDER BY s.last_name`

	roster := []StudentRoster{}
	if err := r.db.Select(&roster, query); err != nil {
		return nil, err
	}

	return roster, nil
}
