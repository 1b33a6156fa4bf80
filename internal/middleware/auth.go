package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"

	"moodjournal/internal/models"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserIDFromContext returns the authenticated user id set by RequireAuth.
func UserIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(userIDKey).(int)
	return id, ok
}

// WithUserID stores an authenticated user id on ctx.
func WithUserID(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

func jsonError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// UserLookup loads a user by id.
type UserLookup interface {
	ByID(ctx context.Context, id int) (*models.User, error)
}

type AuthMiddleware struct {
	jwtSecret []byte
	users     UserLookup
}

func NewAuthMiddleware(secret []byte, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: secret, users: users}
}

func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			jsonError(w, http.StatusUnauthorized, "access token required")
			return
		}
		tokenStr := strings.TrimPrefix(authz, "Bearer ")
		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return m.jwtSecret, nil
		}, jwt.WithExpirationRequired())
		if err != nil || !token.Valid {
			jsonError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			jsonError(w, http.StatusUnauthorized, "invalid claims")
			return
		}
		sub, ok := claims["sub"].(float64)
		if !ok || sub <= 0 {
			jsonError(w, http.StatusUnauthorized, "invalid subject")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), int(sub))))
	})
}

// RequireAdmin must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserIDFromContext(r.Context())
		if !ok {
			jsonError(w, http.StatusUnauthorized, "access token required")
			return
		}
		user, err := m.users.ByID(r.Context(), id)
		if err != nil {
			slog.Warn("admin check failed", "user_id", id, "error", err)
			jsonError(w, http.StatusForbidden, "admin access required")
			return
		}
		if !user.IsAdmin {
			jsonError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
