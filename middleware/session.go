package middleware

import (
	"net/http"

	"courses-backend/auth"
)

// SessionCookieName хранит имя куки с токеном сессии браузера
const SessionCookieName = "session_token"

type SessionMiddleware struct {
	jwtService *auth.JWTService
}

func NewSessionMiddleware(jwtService *auth.JWTService) *SessionMiddleware {
	return &SessionMiddleware{
		jwtService: jwtService,
	}
}

// Session читает сессионную куку и кладет claims в контекст.
// Отсутствие или протухание куки не ошибка: страница рендерится
// для анонимного посетителя.
func (sm *SessionMiddleware) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err == nil && cookie.Value != "" {
			if claims, err := sm.jwtService.ValidateToken(cookie.Value); err == nil {
				r = r.WithContext(SetUserClaims(r.Context(), claims))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// LoginRequired пускает только авторизованных, анонима отправляет
// на страницу входа с параметром next для возврата обратно
func (sm *SessionMiddleware) LoginRequired(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if claims := GetUserClaims(r.Context()); claims == nil {
			http.Redirect(w, r, "/login/?next="+r.URL.Path, http.StatusFound)
			return
		}
		next(w, r)
	}
}
