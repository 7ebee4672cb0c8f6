package controllers

import "net/http"

// PageController serves the static pages
type PageController struct {
	Base
}

func NewPageController(base Base) *PageController {
	return &PageController{Base: base}
}

func (pc *PageController) About(w http.ResponseWriter, r *http.Request) {
	pc.renderPage(w, r, http.StatusOK, "about", pc.page(w, r, "About"))
}

func (pc *PageController) Contact(w http.ResponseWriter, r *http.Request) {
	pc.renderPage(w, r, http.StatusOK, "contact", pc.page(w, r, "Contact"))
}

// NotFound answers unknown routes.
func (pc *PageController) NotFound(w http.ResponseWriter, r *http.Request) {
	pc.sendError(w, r, "Not found", http.StatusNotFound)
}
