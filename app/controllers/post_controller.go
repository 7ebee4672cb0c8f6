package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"blog/app/middleware"
	"blog/app/models"
	"blog/app/services"
)

// PostController handles HTTP requests for blog posts
type PostController struct {
	Base
	postService *services.PostService
}

// NewPostController creates a new PostController
func NewPostController(base Base, postService *services.PostService) *PostController {
	return &PostController{Base: base, postService: postService}
}

// Index handles listing all posts
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ListPosts(r.Context())
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	p := pc.page(w, r, "")
	p.Posts = posts
	pc.renderPage(w, r, http.StatusOK, "index", p)
}

// Show handles displaying a single post with its comments
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	post, err := pc.postService.GetPost(r.Context(), id)
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	p := pc.page(w, r, post.Title)
	p.Post = post
	pc.renderPage(w, r, http.StatusOK, "post", p)
}

// New displays the form for creating a new post
func (pc *PostController) New(w http.ResponseWriter, r *http.Request) {
	pc.renderForm(w, r, http.StatusOK, "New Post", "/new-post", nil, nil, "")
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	in, form := readPostForm(r)
	actor := middleware.IdentityFrom(r.Context())

	if _, err := pc.postService.CreatePost(r.Context(), actor, in); err != nil {
		pc.formError(w, r, "New Post", "/new-post", form, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Edit displays the form pre-filled from the existing post
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	post, err := pc.postService.GetPost(r.Context(), id)
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	in := models.InputFrom(post)
	form := map[string]string{"title": in.Title, "subtitle": in.Subtitle, "body": in.Body, "img_url": in.ImgURL}
	pc.renderForm(w, r, http.StatusOK, "Edit Post", editPath(id), form, nil, "")
}

// Update overwrites an existing post from the edit form
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	in, form := readPostForm(r)
	actor := middleware.IdentityFrom(r.Context())

	if _, err := pc.postService.EditPost(r.Context(), actor, id, in); err != nil {
		pc.formError(w, r, "Edit Post", editPath(id), form, err)
		return
	}
	http.Redirect(w, r, postPath(id), http.StatusSeeOther)
}

// Delete removes a post and its comments
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	if err := pc.postService.DeletePost(r.Context(), middleware.IdentityFrom(r.Context()), id); err != nil {
		pc.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// APIIndex lists posts as JSON
func (pc *PostController) APIIndex(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ListPosts(r.Context())
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
}

// APIShow returns one post with its comments as JSON
func (pc *PostController) APIShow(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	post, err := pc.postService.GetPost(r.Context(), id)
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusOK, post)
}

func (pc *PostController) renderForm(w http.ResponseWriter, r *http.Request, status int, heading, action string, form, errs map[string]string, msg string) {
	p := pc.page(w, r, heading)
	p.Heading = heading
	p.Action = action
	p.Form = form
	p.Errors = errs
	p.Message = msg
	pc.renderPage(w, r, status, "make-post", p)
}

// formError re-renders the post form for input problems and defers everything else to fail.
func (pc *PostController) formError(w http.ResponseWriter, r *http.Request, heading, action string, form map[string]string, err error) {
	if fields, ok := validationFields(err); ok {
		pc.renderForm(w, r, http.StatusBadRequest, heading, action, form, fields, "Please correct the highlighted fields.")
		return
	}
	if errors.Is(err, models.ErrDuplicateTitle) {
		pc.renderForm(w, r, http.StatusConflict, heading, action, form, nil, "A post with this title already exists.")
		return
	}
	pc.fail(w, r, err)
}

func readPostForm(r *http.Request) (models.PostInput, map[string]string) {
	in := models.PostInput{
		Title:    r.PostFormValue("title"),
		Subtitle: r.PostFormValue("subtitle"),
		Body:     r.PostFormValue("body"),
		ImgURL:   r.PostFormValue("img_url"),
	}
	form := map[string]string{"title": in.Title, "subtitle": in.Subtitle, "body": in.Body, "img_url": in.ImgURL}
	return in, form
}

func postPath(id uint) string { return "/post/" + strconv.FormatUint(uint64(id), 10) }
func editPath(id uint) string { return "/edit-post/" + strconv.FormatUint(uint64(id), 10) }
