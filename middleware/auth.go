package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"courses-backend/auth"
)

type AuthMiddleware struct {
	jwtService *auth.JWTService
}

func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// APIAuth проверяет JWT токен: сначала заголовок Authorization,
// затем сессионную куку браузера
func (am *AuthMiddleware) APIAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""

		authHeader := r.Header.Get("Authorization")
		if authHeader != "" {
			// Проверяем формат заголовка
			bearerToken := strings.Split(authHeader, " ")
			if len(bearerToken) != 2 || bearerToken[0] != "Bearer" {
				log.Printf("❌ Invalid authorization format for %s %s", r.Method, r.URL.Path)
				http.Error(w, `{"error": "Invalid authorization format"}`, http.StatusUnauthorized)
				return
			}
			token = bearerToken[1]
		} else if cookie, err := r.Cookie(SessionCookieName); err == nil {
			token = cookie.Value
		}

		if token == "" {
			log.Printf("❌ No credentials for %s %s", r.Method, r.URL.Path)
			http.Error(w, `{"error": "Authorization required"}`, http.StatusUnauthorized)
			return
		}

		// Валидируем токен
		claims, err := am.jwtService.ValidateToken(token)
		if err != nil {
			log.Printf("❌ Invalid token for %s %s: %v", r.Method, r.URL.Path, err)
			http.Error(w, `{"error": "Invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		// Добавляем claims в контекст запроса
		ctx := r.Context()
		ctx = SetUserClaims(ctx, claims)
		r = r.WithContext(ctx)

		next.ServeHTTP(w, r)
	})
}

// Вспомогательные функции для работы с контекстом
type contextKey string

const (
	userClaimsKey contextKey = "userClaims"
)

// SetUserClaims добавляет claims пользователя в контекст
func SetUserClaims(ctx context.Context, claims *auth.JWTClaims) context.Context {
	return context.WithValue(ctx, userClaimsKey, claims)
}

// GetUserClaims извлекает claims пользователя из контекста
func GetUserClaims(ctx context.Context) *auth.JWTClaims {
	if claims, ok := ctx.Value(userClaimsKey).(*auth.JWTClaims); ok {
		return claims
	}
	return nil
}
