package routes

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"blog/app/controllers"
	"blog/app/database"
	"blog/app/repositories"
	"blog/app/security"
	"blog/app/services"
	"blog/app/sessions"
	"blog/app/views"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testSecret = "routes-test-secret-routes-test-secret"

type testApp struct {
	db     *gorm.DB
	router http.Handler
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	log := zap.NewNop()

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "blog.db"), log)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	kv, err := sessions.OpenBadger("", true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	tokens, err := sessions.NewTokens(testSecret, time.Hour)
	require.NoError(t, err)
	manager := sessions.NewManager(tokens, sessions.NewBadgerRevoker(kv), false, log)

	hasher, err := security.NewHasher(security.SchemePBKDF2, 1000)
	require.NoError(t, err)

	users := repositories.NewUserRepository(db)
	postRepo := repositories.NewPostRepository(db)
	commentRepo := repositories.NewCommentRepository(db)

	gate := services.NewGate(1)
	accounts := services.NewAccountService(users, hasher)
	posts := services.NewPostService(postRepo, gate)
	comments := services.NewCommentService(commentRepo, postRepo, gate)

	renderer, err := views.NewRenderer()
	require.NoError(t, err)
	base := controllers.NewBase(renderer, views.NewFlasher(testSecret, false), gate, log)

	router := SetupRoutes(Dependencies{
		Log:      log,
		Sessions: manager,
		Gate:     gate,
		Posts:    controllers.NewPostController(base, posts),
		Comments: controllers.NewCommentController(base, comments, posts),
		Auth:     controllers.NewAuthController(base, accounts, manager),
		Pages:    controllers.NewPageController(base),
	})
	return &testApp{db: db, router: router}
}

// browser replays cookies between requests like a real client.
type browser struct {
	t       *testing.T
	app     *testApp
	cookies map[string]*http.Cookie
}

func (a *testApp) browser(t *testing.T) *browser {
	return &browser{t: t, app: a, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range b.cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}

	w := httptest.NewRecorder()
	b.app.router.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(http.MethodGet, path, nil)
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	return b.do(http.MethodPost, path, form)
}

func (b *browser) register(email, password, name string) *httptest.ResponseRecorder {
	return b.post("/register", url.Values{"email": {email}, "password": {password}, "name": {name}})
}

func (b *browser) login(email, password string) *httptest.ResponseRecorder {
	return b.post("/login", url.Values{"email": {email}, "password": {password}})
}

func postForm(title string) url.Values {
	return url.Values{
		"title":    {title},
		"subtitle": {"Subtitle for " + title},
		"body":     {"<p>Body of " + title + "</p>"},
		"img_url":  {"https://example.com/" + strings.ReplaceAll(title, " ", "-") + ".jpg"},
	}
}
