package repositories

import (
	"path/filepath"
	"testing"
	"time"

	"blog/app/database"
	"blog/app/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func newUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Password: "pbkdf2:sha256:1$s$00", Name: email}
	require.NoError(t, NewUserRepository(db).Create(t.Context(), u))
	return u
}

func newPost(t *testing.T, db *gorm.DB, author *models.User, title string) *models.Post {
	t.Helper()
	p := &models.Post{
		AuthorID: author.ID,
		Title:    title,
		Subtitle: "subtitle",
		Body:     "body",
		ImgURL:   "https://example.com/img.png",
		Date:     time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, NewPostRepository(db).Create(t.Context(), p))
	return p
}
