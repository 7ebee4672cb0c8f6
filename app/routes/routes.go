// Package routes wires controllers and middleware onto the router.
package routes

import (
	"net/http"

	"blog/app/controllers"
	"blog/app/metrics"
	"blog/app/middleware"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Dependencies are the collaborators the router dispatches to.
type Dependencies struct {
	Log      *zap.Logger
	Sessions middleware.IdentityResolver
	Gate     middleware.AdminGate
	Posts    *controllers.PostController
	Comments *controllers.CommentController
	Auth     *controllers.AuthController
	Pages    *controllers.PageController
}

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(d Dependencies) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware, outermost first. Instrument wraps Recoverer so
	// recovered panics are counted as 500s.
	router.Use(mux.MiddlewareFunc(middleware.RequestLogger(d.Log)))
	router.Use(middleware.Instrument)
	router.Use(mux.MiddlewareFunc(middleware.Recoverer(d.Log)))
	router.Use(mux.MiddlewareFunc(middleware.Identify(d.Sessions)))
	router.Use(middleware.ContentTypeJSON)

	// Authentication always runs before authorization.
	authenticated := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h, middleware.RequireAuth)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h, middleware.RequireAuth, middleware.RequireAdmin(d.Gate))
	}

	router.HandleFunc("/", d.Posts.Index).Methods(http.MethodGet)
	router.HandleFunc("/about", d.Pages.About).Methods(http.MethodGet)
	router.HandleFunc("/contact", d.Pages.Contact).Methods(http.MethodGet)

	router.Handle("/post/{id:[0-9]+}", authenticated(d.Posts.Show)).Methods(http.MethodGet)
	router.Handle("/post/{id:[0-9]+}", authenticated(d.Comments.Create)).Methods(http.MethodPost)

	router.Handle("/new-post", admin(d.Posts.New)).Methods(http.MethodGet)
	router.Handle("/new-post", admin(d.Posts.Create)).Methods(http.MethodPost)
	router.Handle("/edit-post/{id:[0-9]+}", admin(d.Posts.Edit)).Methods(http.MethodGet)
	router.Handle("/edit-post/{id:[0-9]+}", admin(d.Posts.Update)).Methods(http.MethodPost)
	router.Handle("/delete/{id:[0-9]+}", admin(d.Posts.Delete)).Methods(http.MethodGet)

	router.HandleFunc("/register", d.Auth.RegisterForm).Methods(http.MethodGet)
	router.HandleFunc("/register", d.Auth.Register).Methods(http.MethodPost)
	router.HandleFunc("/login", d.Auth.LoginForm).Methods(http.MethodGet)
	router.HandleFunc("/login", d.Auth.Login).Methods(http.MethodPost)
	router.HandleFunc("/logout", d.Auth.Logout).Methods(http.MethodGet)

	// API routes
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/posts", d.Posts.APIIndex).Methods(http.MethodGet)
	api.Handle("/posts/{id:[0-9]+}", authenticated(d.Posts.APIShow)).Methods(http.MethodGet)
	api.Handle("/posts/{id:[0-9]+}/comments", authenticated(d.Comments.APIIndex)).Methods(http.MethodGet)

	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	router.NotFoundHandler = middleware.Chain(http.HandlerFunc(d.Pages.NotFound), middleware.Identify(d.Sessions))
	return router
}
