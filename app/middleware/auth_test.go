package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"blog/app/models"

	"github.com/stretchr/testify/assert"
)

type fixedResolver models.Identity

func (f fixedResolver) Resolve(*http.Request) models.Identity { return models.Identity(f) }

type adminIs uint

func (a adminIs) RequireAdmin(id models.Identity) error {
	if id.IsAnonymous() {
		return models.ErrUnauthenticated
	}
	if id.UserID != uint(a) {
		return models.ErrForbidden
	}
	return nil
}

func ok(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

func serve(id models.Identity, path string, mws ...Middleware) *httptest.ResponseRecorder {
	h := Chain(http.HandlerFunc(ok), append([]Middleware{Identify(fixedResolver(id))}, mws...)...)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
	return w
}

func TestIdentifyStoresIdentity(t *testing.T) {
	var seen models.Identity
	h := Identify(fixedResolver(models.Identity{UserID: 4, Name: "Dee"}))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = IdentityFrom(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, uint(4), seen.UserID)

	assert.True(t, IdentityFrom(httptest.NewRequest("GET", "/", nil).Context()).IsAnonymous())
}

func TestRouteGuards(t *testing.T) {
	gate := adminIs(1)
	guard := []Middleware{RequireAuth, RequireAdmin(gate)}

	tests := []struct {
		name     string
		id       models.Identity
		path     string
		wantCode int
		wantLoc  string
	}{
		{"anonymous page", models.Anonymous, "/new-post", http.StatusSeeOther, "/login"},
		{"anonymous api", models.Anonymous, "/api/posts/1", http.StatusUnauthorized, ""},
		{"non-admin", models.Identity{UserID: 2}, "/new-post", http.StatusForbidden, ""},
		{"admin", models.Identity{UserID: 1}, "/new-post", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(tt.id, tt.path, guard...)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantLoc, w.Header().Get("Location"))
		})
	}
}

func TestRequireAdminAloneRedirectsAnonymous(t *testing.T) {
	w := serve(models.Anonymous, "/delete/1", RequireAdmin(adminIs(1)))
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestUnauthenticatedAPIBody(t *testing.T) {
	w := serve(models.Anonymous, "/api/posts/1", RequireAuth)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"authentication required"}`, w.Body.String())
}
