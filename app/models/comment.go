package models

// CommentInput is the body of a new comment.
type CommentInput struct {
	Text string `validate:"required,max=10000"`
}
