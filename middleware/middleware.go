package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gurkanusta/WorkNest/logging"
	"github.com/gurkanusta/WorkNest/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type contextKey string

const userContextKey contextKey = "authUser"

// AuthenticatedUser is the caller identity resolved from the bearer token.
// Handlers read it once from the request context and pass it explicitly
// into service calls.
type AuthenticatedUser struct {
	ID    primitive.ObjectID
	Email string
}

// JWTAuth validates the bearer credential and stores the resolved identity
// in the request context.
func JWTAuth(jwtService *services.JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logging.Logger.Warnf("Event ID: JWT_AUTH_MISSING_HEADER, Description: Authorization header missing for request to %s %s", r.Method, r.URL.Path)
				http.Error(w, "Authorization header missing", http.StatusUnauthorized)
				return
			}

			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := jwtService.ValidateToken(tokenStr)
			if err != nil {
				logging.Logger.Warnf("Event ID: JWT_AUTH_INVALID_TOKEN, Description: Invalid token provided for request to %s %s: %v", r.Method, r.URL.Path, err)
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			userID, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				logging.Logger.Warnf("Event ID: JWT_AUTH_BAD_SUBJECT, Description: Token subject is not a valid user id for request to %s %s", r.Method, r.URL.Path)
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			user := AuthenticatedUser{ID: userID, Email: claims.Email}
			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func UserFromContext(ctx context.Context) (AuthenticatedUser, bool) {
	user, ok := ctx.Value(userContextKey).(AuthenticatedUser)
	return user, ok
}

// Recovery converts any panic into a generic server error. The panic value
// is logged; raw internal detail is never returned to the caller.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logging.Logger.Errorf("Event ID: PANIC_RECOVERED, Description: Panic while handling %s %s: %v", r.Method, r.URL.Path, rec)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error": "an unexpected error occurred"}`))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
