package services

import (
	"context"
	"testing"
	"time"

	"blog/app/models"
	"blog/app/repositories/mock"
	"blog/app/security"

	"github.com/stretchr/testify/require"
)

var (
	admin  = models.Identity{UserID: 1, Name: "Admin"}
	reader = models.Identity{UserID: 2, Name: "Reader"}
	fixed  = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
)

type fixture struct {
	store    *mock.Store
	accounts *AccountService
	posts    *PostService
	comments *CommentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := mock.NewStore()
	hasher, err := security.NewHasher(security.SchemePBKDF2, 1000)
	require.NoError(t, err)
	gate := NewGate(1)
	return &fixture{
		store:    store,
		accounts: NewAccountService(store.Users(), hasher),
		posts:    NewPostService(store.Posts(), gate).WithClock(func() time.Time { return fixed }),
		comments: NewCommentService(store.Comments(), store.Posts(), gate),
	}
}

// seedUsers registers the admin (id 1) and a reader (id 2).
func (f *fixture) seedUsers(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	_, err := f.accounts.Register(ctx, models.RegisterInput{Email: "admin@example.com", Password: "adminpw", Name: "Admin"})
	require.NoError(t, err)
	_, err = f.accounts.Register(ctx, models.RegisterInput{Email: "reader@example.com", Password: "readerpw", Name: "Reader"})
	require.NoError(t, err)
}

func validPost(title string) models.PostInput {
	return models.PostInput{
		Title:    title,
		Subtitle: "A subtitle",
		Body:     "<p>Body</p>",
		ImgURL:   "https://example.com/cover.jpg",
	}
}
