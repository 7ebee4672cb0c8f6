package controllers

import (
	"net/http"

	"blog/app/middleware"
	"blog/app/services"
)

// CommentController handles HTTP requests for comments
type CommentController struct {
	Base
	commentService *services.CommentService
	postService    *services.PostService
}

// NewCommentController creates a new CommentController
func NewCommentController(base Base, commentService *services.CommentService, postService *services.PostService) *CommentController {
	return &CommentController{Base: base, commentService: commentService, postService: postService}
}

// Create adds a comment to the post and redirects back to it. An empty comment
// re-renders the post with the error.
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	postID, err := idParam(r)
	if err != nil {
		cc.fail(w, r, err)
		return
	}
	text := r.PostFormValue("comment")
	actor := middleware.IdentityFrom(r.Context())

	_, err = cc.commentService.AddComment(r.Context(), actor, postID, text)
	if fields, ok := validationFields(err); ok {
		post, perr := cc.postService.GetPost(r.Context(), postID)
		if perr != nil {
			cc.fail(w, r, perr)
			return
		}
		p := cc.page(w, r, post.Title)
		p.Post = post
		p.Form = map[string]string{"comment": text}
		p.Errors = fields
		cc.renderPage(w, r, http.StatusBadRequest, "post", p)
		return
	}
	if err != nil {
		cc.fail(w, r, err)
		return
	}
	http.Redirect(w, r, postPath(postID), http.StatusSeeOther)
}

// APIIndex lists a post's comments as JSON
func (cc *CommentController) APIIndex(w http.ResponseWriter, r *http.Request) {
	postID, err := idParam(r)
	if err != nil {
		cc.fail(w, r, err)
		return
	}
	comments, err := cc.commentService.ListPostComments(r.Context(), postID)
	if err != nil {
		cc.fail(w, r, err)
		return
	}
	cc.sendJSON(w, http.StatusOK, map[string]interface{}{"comments": comments})
}
