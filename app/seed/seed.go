// Package seed fills an empty blog with an admin account and demo posts.
package seed

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"blog/app/models"
	"blog/app/services"

	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"
)

// maxTitleAttempts bounds retries when a generated title collides.
const maxTitleAttempts = 5

var ErrNoAdmin = errors.New("seed: no users yet, an admin email and password are required")

type Options struct {
	Posts         int
	AdminEmail    string
	AdminPassword string
	AdminName     string
	// Seed makes the generated content reproducible. Zero picks a random seed.
	Seed int64
}

type Result struct {
	Admin        *models.User
	AdminCreated bool
	Posts        []*models.Post
}

type Seeder struct {
	accounts *services.AccountService
	posts    *services.PostService
	gate     *services.Gate
	log      *zap.Logger
}

func New(accounts *services.AccountService, posts *services.PostService, gate *services.Gate, log *zap.Logger) *Seeder {
	return &Seeder{accounts: accounts, posts: posts, gate: gate, log: log}
}

// Run registers the admin when the user table is empty, then writes opts.Posts
// generated posts authored by the admin.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	res := &Result{}

	count, err := s.accounts.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	actor := models.Identity{UserID: s.gate.AdminID, Name: opts.AdminName}
	if count == 0 {
		if opts.AdminEmail == "" || opts.AdminPassword == "" {
			return nil, ErrNoAdmin
		}
		name := opts.AdminName
		if name == "" {
			name = "Admin"
		}
		admin, err := s.accounts.Register(ctx, models.RegisterInput{
			Email:    opts.AdminEmail,
			Password: opts.AdminPassword,
			Name:     name,
		})
		if err != nil {
			return nil, fmt.Errorf("seed admin: %w", err)
		}
		if admin.ID != s.gate.AdminID {
			s.log.Warn("seeded user is not the configured admin",
				zap.Uint("user_id", admin.ID),
				zap.Uint("admin_id", s.gate.AdminID),
			)
		}
		res.Admin = admin
		res.AdminCreated = true
		actor = models.IdentityOf(admin)
	}

	faker := gofakeit.New(opts.Seed)
	for i := 0; i < opts.Posts; i++ {
		post, err := s.createPost(ctx, faker, actor)
		if err != nil {
			return res, err
		}
		res.Posts = append(res.Posts, post)
	}

	s.log.Info("seed complete",
		zap.Bool("admin_created", res.AdminCreated),
		zap.Int("posts", len(res.Posts)),
	)
	return res, nil
}

func (s *Seeder) createPost(ctx context.Context, faker *gofakeit.Faker, actor models.Identity) (*models.Post, error) {
	var lastErr error
	for attempt := 0; attempt < maxTitleAttempts; attempt++ {
		post, err := s.posts.CreatePost(ctx, actor, fakePost(faker))
		if errors.Is(err, models.ErrDuplicateTitle) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("seed post: %w", err)
		}
		return post, nil
	}
	return nil, fmt.Errorf("seed post after %d attempts: %w", maxTitleAttempts, lastErr)
}

func fakePost(f *gofakeit.Faker) models.PostInput {
	var body strings.Builder
	for i := 0; i < 3; i++ {
		body.WriteString("<p>")
		body.WriteString(html.EscapeString(f.Paragraph(1, 4, 12, " ")))
		body.WriteString("</p>\n")
	}
	return models.PostInput{
		Title:    strings.TrimSuffix(f.Sentence(5), "."),
		Subtitle: f.Sentence(8),
		Body:     body.String(),
		ImgURL:   f.ImageURL(1200, 600),
	}
}
