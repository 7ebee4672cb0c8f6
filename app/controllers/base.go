package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"blog/app/middleware"
	"blog/app/models"
	"blog/app/views"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// AdminChecker reports whether an identity is the admin. Used only to decide
// which links a page shows; enforcement happens in the services.
type AdminChecker interface {
	IsAdmin(id models.Identity) bool
}

// Base holds what every controller needs to answer a request.
type Base struct {
	render *views.Renderer
	flash  *views.Flasher
	gate   AdminChecker
	log    *zap.Logger
}

func NewBase(render *views.Renderer, flash *views.Flasher, gate AdminChecker, log *zap.Logger) Base {
	return Base{render: render, flash: flash, gate: gate, log: log}
}

// page builds the rendering context for the current identity and pops pending flashes.
func (b *Base) page(w http.ResponseWriter, r *http.Request, title string) *views.Page {
	id := middleware.IdentityFrom(r.Context())
	flashes, err := b.flash.Pop(w, r)
	if err != nil {
		b.log.Warn("pop flashes", zap.Error(err))
	}
	return &views.Page{
		Title:   title,
		User:    id,
		IsAdmin: b.gate.IsAdmin(id),
		Flashes: flashes,
	}
}

func (b *Base) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, p *views.Page) {
	if err := b.render.Render(w, status, name, p); err != nil {
		b.log.Error("render failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (b *Base) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		b.log.Warn("encode json", zap.Error(err))
	}
}

// sendError answers JSON on the API and an error page elsewhere
func (b *Base) sendError(w http.ResponseWriter, r *http.Request, message string, status int) {
	if middleware.IsAPI(r) {
		b.sendJSON(w, status, map[string]string{"error": message})
		return
	}
	p := b.page(w, r, http.StatusText(status))
	p.Status = status
	p.Message = message
	b.renderPage(w, r, status, "error", p)
}

// fail maps service errors onto responses. Unexpected errors are logged and hidden.
func (b *Base) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		b.sendError(w, r, "Not found", http.StatusNotFound)
	case errors.Is(err, models.ErrForbidden):
		b.sendError(w, r, "Forbidden", http.StatusForbidden)
	case errors.Is(err, models.ErrUnauthenticated):
		middleware.Unauthenticated(w, r)
	default:
		b.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		b.sendError(w, r, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (b *Base) addFlash(w http.ResponseWriter, r *http.Request, msg string) {
	if err := b.flash.Add(w, r, msg); err != nil {
		b.log.Warn("store flash", zap.Error(err))
	}
}

// idParam parses the {id} route variable. Non-numeric ids are reported as not found.
func idParam(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		return 0, models.ErrNotFound
	}
	return uint(id), nil
}

func validationFields(err error) (map[string]string, bool) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields, true
	}
	return nil, false
}
