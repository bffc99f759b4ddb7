package httpx

import (
	"context"
	"net/http"

	"github.com/ariefcatur/go-storefront.git/internal/auth"
	"github.com/ariefcatur/go-storefront.git/internal/users"
)

const msgNotAuthorized = "Not Authorized Login Again"

type ctxKey int

const ctxKeyUserID ctxKey = iota

// Auth guards routes with the JWT carried in the legacy `token` header (the
// frontends do not use Authorization bearer tokens).
type Auth struct {
	Secret string
	Users  *users.Repo
}

// RequireUser resolves the shopper from the token, rejects blocked accounts,
// and stashes the user id in the request context.
func (a *Auth) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := auth.ParseToken(a.Secret, r.Header.Get("token"))
		if err != nil || claims.UserID == "" {
			fail(w, msgNotAuthorized)
			return
		}
		u, err := a.Users.ByID(r.Context(), claims.UserID)
		if err != nil {
			fail(w, msgNotAuthorized)
			return
		}
		if u.IsBlocked {
			fail(w, "Your account has been blocked by admin")
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyUserID, u.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := auth.ParseToken(a.Secret, r.Header.Get("token"))
		if err != nil || claims.Role != auth.RoleAdmin {
			fail(w, msgNotAuthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserID returns the authenticated shopper's id set by RequireUser.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyUserID).(string)
	return id
}
