package controllers

import (
	"errors"
	"net/http"

	"blog/app/metrics"
	"blog/app/models"
	"blog/app/services"
	"blog/app/sessions"

	"go.uber.org/zap"
)

const (
	msgAlreadyRegistered  = "You've already signed up with that email, log in instead!"
	msgInvalidCredentials = "Invalid email or password, please try again."
)

// AuthController handles registration, login and logout
type AuthController struct {
	Base
	accounts *services.AccountService
	sessions *sessions.Manager
}

// NewAuthController creates a new AuthController
func NewAuthController(base Base, accounts *services.AccountService, sessions *sessions.Manager) *AuthController {
	return &AuthController{Base: base, accounts: accounts, sessions: sessions}
}

// RegisterForm displays the registration form
func (ac *AuthController) RegisterForm(w http.ResponseWriter, r *http.Request) {
	ac.renderPage(w, r, http.StatusOK, "register", ac.page(w, r, "Register"))
}

// Register creates the account, logs it in and goes home.
func (ac *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	in := models.RegisterInput{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		Name:     r.PostFormValue("name"),
	}

	user, err := ac.accounts.Register(r.Context(), in)
	if errors.Is(err, models.ErrDuplicateEmail) {
		metrics.RecordAuth(metrics.EventRegister, "duplicate_email")
		ac.addFlash(w, r, msgAlreadyRegistered)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if fields, ok := validationFields(err); ok {
		metrics.RecordAuth(metrics.EventRegister, "invalid")
		p := ac.page(w, r, "Register")
		p.Form = map[string]string{"email": in.Email, "name": in.Name}
		p.Errors = fields
		ac.renderPage(w, r, http.StatusBadRequest, "register", p)
		return
	}
	if err != nil {
		metrics.RecordAuth(metrics.EventRegister, "error")
		ac.fail(w, r, err)
		return
	}

	if _, err := ac.sessions.Login(w, user); err != nil {
		ac.fail(w, r, err)
		return
	}
	metrics.RecordAuth(metrics.EventRegister, "success")
	ac.log.Info("user registered", zap.Uint("user_id", user.ID))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// LoginForm displays the login form
func (ac *AuthController) LoginForm(w http.ResponseWriter, r *http.Request) {
	ac.renderPage(w, r, http.StatusOK, "login", ac.page(w, r, "Log In"))
}

// Login authenticates and starts a session. Failures flash one uniform message.
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	user, err := ac.accounts.Authenticate(r.Context(), models.LoginInput{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	})
	if errors.Is(err, models.ErrInvalidCredentials) {
		metrics.RecordAuth(metrics.EventLogin, "invalid_credentials")
		ac.addFlash(w, r, msgInvalidCredentials)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err != nil {
		metrics.RecordAuth(metrics.EventLogin, "error")
		ac.fail(w, r, err)
		return
	}

	if _, err := ac.sessions.Login(w, user); err != nil {
		ac.fail(w, r, err)
		return
	}
	metrics.RecordAuth(metrics.EventLogin, "success")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout ends the session and goes home
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if err := ac.sessions.Logout(w, r); err != nil {
		// The cookie is already cleared; the token just stays valid until it expires.
		ac.log.Warn("revoke session", zap.Error(err))
		metrics.RecordAuth(metrics.EventLogout, "error")
	} else {
		metrics.RecordAuth(metrics.EventLogout, "success")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
