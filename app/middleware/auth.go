package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"blog/app/models"
)

type identityKey struct{}

// IdentityResolver turns a request into the identity it acts as.
type IdentityResolver interface {
	Resolve(r *http.Request) models.Identity
}

// AdminGate is the part of the authorization gate the route guards need.
type AdminGate interface {
	RequireAdmin(id models.Identity) error
}

// WithIdentity returns a context carrying id.
func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored by Identify, or Anonymous.
func IdentityFrom(ctx context.Context) models.Identity {
	if id, ok := ctx.Value(identityKey{}).(models.Identity); ok {
		return id
	}
	return models.Anonymous
}

// Identify resolves the session once per request and stores the identity in the context.
func Identify(resolver IdentityResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := resolver.Resolve(r)
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireAuth sends anonymous browsers to the login page and answers 401 on the API.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IdentityFrom(r.Context()).IsAnonymous() {
			Unauthenticated(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin answers 403 unless the identity is the admin. Chain it after RequireAuth.
func RequireAdmin(gate AdminGate) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := gate.RequireAdmin(IdentityFrom(r.Context()))
			switch {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, models.ErrUnauthenticated):
				Unauthenticated(w, r)
			default:
				Forbidden(w, r)
			}
		})
	}
}

// Unauthenticated redirects to /login, or writes a JSON 401 for API requests.
func Unauthenticated(w http.ResponseWriter, r *http.Request) {
	if IsAPI(r) {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Forbidden writes a 403 page or JSON body.
func Forbidden(w http.ResponseWriter, r *http.Request) {
	if IsAPI(r) {
		writeJSONError(w, http.StatusForbidden, "forbidden")
		return
	}
	http.Error(w, "Forbidden", http.StatusForbidden)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
