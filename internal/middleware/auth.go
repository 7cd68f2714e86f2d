package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionCookie — имя cookie сессии, как в DSpace.
const SessionCookie = "JSESSIONID"

// SessionTTL — срок жизни сессии.
const SessionTTL = 24 * time.Hour

type ctxKey struct{}

// Claims — содержимое JWT сессии.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"user_id"`
}

// revoked хранит ID сессий, закрытых через logout, до истечения их срока.
var revoked = cache.New(SessionTTL, time.Hour)

// BuildToken подписывает JWT для пользователя.
func BuildToken(userID int64, secret string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
		UserID: userID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken проверяет подпись и срок действия токена.
func ParseToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if _, gone := revoked.Get(claims.ID); gone {
		return nil, errors.New("session closed")
	}
	return claims, nil
}

// SetLoginCookie выдаёт JSESSIONID с подписанным токеном.
func SetLoginCookie(w http.ResponseWriter, userID int64, secret string) error {
	token, err := BuildToken(userID, secret)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Now().Add(SessionTTL),
	})
	return nil
}

// ClearLoginCookie закрывает текущую сессию запроса и удаляет cookie.
func ClearLoginCookie(w http.ResponseWriter, r *http.Request, secret string) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if claims, err := ParseToken(c.Value, secret); err == nil {
			ttl := SessionTTL
			if claims.ExpiresAt != nil {
				ttl = time.Until(claims.ExpiresAt.Time)
			}
			revoked.Set(claims.ID, struct{}{}, ttl)
		}
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
}

// WithAuth кладёт user_id в контекст, если запрос несёт валидную сессию.
// Анонимные запросы пропускаются дальше без user_id.
func WithAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(SessionCookie)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := ParseToken(c.Value, secret)
			if err != nil {
				sugar.Debugw("Auth: rejected session", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKey{}, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth отвечает 401 на запросы без сессии.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUserIDFromContext(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserIDFromContext возвращает user_id из контекста запроса.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxKey{}).(int64)
	return id, ok
}
