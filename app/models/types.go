package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// User is a registered account. Password holds the encoded hash, never the plaintext.
type User struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Email    string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password string    `gorm:"size:250;not null" json:"-"`
	Name     string    `gorm:"size:100;not null" json:"name"`
	Posts    []Post    `gorm:"foreignKey:AuthorID" json:"-"`
	Comments []Comment `gorm:"foreignKey:AuthorID" json:"-"`
}

// Post represents a blog post with comments.
type Post struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	AuthorID uint      `gorm:"not null;index" json:"author_id"`
	Author   User      `gorm:"foreignKey:AuthorID" json:"author"`
	Title    string    `gorm:"size:250;uniqueIndex;not null" json:"title"`
	Subtitle string    `gorm:"size:250;not null" json:"subtitle"`
	Date     time.Time `gorm:"not null" json:"date"`
	Body     string    `gorm:"type:text;not null" json:"body"`
	ImgURL   string    `gorm:"column:img_url;size:250;not null" json:"img_url"`
	Comments []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

// Comment represents a comment on a blog post.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string    { return "users" }
func (Post) TableName() string    { return "posts" }
func (Comment) TableName() string { return "comments" }
