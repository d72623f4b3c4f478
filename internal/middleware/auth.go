package middleware

import (
	"context"
	"net/http"

	"shoppit/internal/models"

	"github.com/gorilla/sessions"
)

type contextKey string

const userContextKey contextKey = "current_user"

// UserLookup resolves a session user id to a full user record
type UserLookup interface {
	GetByID(id int) (*models.User, error)
}

// SessionAuth attaches the authenticated user, if any, to the request
// context. Login itself is handled by the identity service; this backend
// only reads the user_id it stored in the session.
type SessionAuth struct {
	store sessions.Store
	users UserLookup
}

// NewSessionAuth creates session-backed authentication middleware
func NewSessionAuth(store sessions.Store, users UserLookup) *SessionAuth {
	return &SessionAuth{store: store, users: users}
}

// LoadUser resolves the session's user and stores it in the context.
// Requests without a valid session pass through anonymously.
func (a *SessionAuth) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := a.store.Get(r, "session")
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		userID, ok := session.Values["user_id"].(int)
		if !ok || userID == 0 {
			next.ServeHTTP(w, r)
			return
		}

		user, err := a.users.GetByID(userID)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser rejects anonymous requests with 401
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"auth_required","message":"Authentication required."}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the authenticated user or nil
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}

// ContextWithUser returns a context carrying the given user. Used by tests
// and by internal calls made outside the middleware chain.
func ContextWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
