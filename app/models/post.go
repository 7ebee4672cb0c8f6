package models

import "strings"

// DateLayout is how post dates are shown on pages.
const DateLayout = "January 02, 2006"

// PostInput carries the editable fields of a post.
type PostInput struct {
	Title    string `validate:"required,max=250"`
	Subtitle string `validate:"required,max=250"`
	Body     string `validate:"required"`
	ImgURL   string `validate:"required,url,max=250"`
}

// Normalize trims surrounding whitespace from the single-line fields.
func (in *PostInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Subtitle = strings.TrimSpace(in.Subtitle)
	in.ImgURL = strings.TrimSpace(in.ImgURL)
}

// Apply overwrites the editable fields of p. ID and Date are left alone.
func (p *Post) Apply(in PostInput) {
	p.Title = in.Title
	p.Subtitle = in.Subtitle
	p.Body = in.Body
	p.ImgURL = in.ImgURL
}

// InputFrom returns the editable fields of p, used to pre-fill the edit form.
func InputFrom(p *Post) PostInput {
	return PostInput{
		Title:    p.Title,
		Subtitle: p.Subtitle,
		Body:     p.Body,
		ImgURL:   p.ImgURL,
	}
}

// DisplayDate formats the post date for pages.
func (p *Post) DisplayDate() string {
	return p.Date.Format(DateLayout)
}
