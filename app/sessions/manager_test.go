package sessions

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blog/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	tok, err := NewTokens(testSecret, time.Hour)
	require.NoError(t, err)
	return NewManager(tok, newBadgerRevoker(t), true, zap.NewNop())
}

// requestWith replays the cookies set on w.
func requestWith(w *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestManagerLoginResolveLogout(t *testing.T) {
	m := newTestManager(t)

	assert.True(t, m.Resolve(httptest.NewRequest(http.MethodGet, "/", nil)).IsAnonymous())

	w := httptest.NewRecorder()
	id, err := m.Login(w, &models.User{ID: 3, Name: "Cleo"})
	require.NoError(t, err)
	assert.Equal(t, uint(3), id.UserID)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	loggedIn := requestWith(w)
	resolved := m.Resolve(loggedIn)
	assert.Equal(t, uint(3), resolved.UserID)
	assert.Equal(t, "Cleo", resolved.Name)
	assert.Equal(t, id.SessionID, resolved.SessionID)

	out := httptest.NewRecorder()
	require.NoError(t, m.Logout(out, loggedIn))
	cleared := out.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, "", cleared[0].Value)
	assert.True(t, cleared[0].MaxAge < 0)

	// The old cookie stays unusable even if the browser replays it.
	assert.True(t, m.Resolve(loggedIn).IsAnonymous())
}

func TestManagerLogoutWhileAnonymous(t *testing.T) {
	m := newTestManager(t)
	w := httptest.NewRecorder()
	require.NoError(t, m.Logout(w, httptest.NewRequest(http.MethodGet, "/logout", nil)))
	require.Len(t, w.Result().Cookies(), 1)
}

func TestManagerResolveTamperedCookie(t *testing.T) {
	m := newTestManager(t)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "tampered"})
	assert.True(t, m.Resolve(r).IsAnonymous())
}
