package repositories

import (
	"regexp"
	"testing"

	"blog/app/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	comments := NewCommentRepository(db)
	ctx := t.Context()
	admin := newUser(t, db, "admin@example.com")
	reader := newUser(t, db, "reader@example.com")

	t.Run("create and get post", func(t *testing.T) {
		post := newPost(t, db, admin, "First")
		got, err := repo.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "First", got.Title)
		assert.Equal(t, admin.Email, got.Author.Email)
		assert.Empty(t, got.Comments)
	})

	t.Run("duplicate title leaves list unchanged", func(t *testing.T) {
		before, err := repo.List(ctx)
		require.NoError(t, err)

		dup := &models.Post{AuthorID: admin.ID, Title: "First", Subtitle: "s", Body: "b", ImgURL: "https://x.io"}
		assert.ErrorIs(t, repo.Create(ctx, dup), models.ErrDuplicateTitle)

		after, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})

	t.Run("list is in insertion order", func(t *testing.T) {
		newPost(t, db, admin, "Second")
		newPost(t, db, admin, "Third")

		posts, err := repo.List(ctx)
		require.NoError(t, err)
		var titles []string
		for _, p := range posts {
			titles = append(titles, p.Title)
			assert.Equal(t, admin.ID, p.Author.ID)
		}
		assert.Equal(t, []string{"First", "Second", "Third"}, titles)
	})

	t.Run("update keeps date and restamps author", func(t *testing.T) {
		post := newPost(t, db, reader, "Editable")
		post.Title = "Edited"
		post.Body = "new body"
		post.AuthorID = admin.ID
		require.NoError(t, repo.Update(ctx, post))

		got, err := repo.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Edited", got.Title)
		assert.Equal(t, "new body", got.Body)
		assert.Equal(t, admin.ID, got.AuthorID)
		assert.True(t, post.Date.Equal(got.Date))
	})

	t.Run("update to a taken title fails", func(t *testing.T) {
		post := newPost(t, db, admin, "Unique")
		post.Title = "First"
		assert.ErrorIs(t, repo.Update(ctx, post), models.ErrDuplicateTitle)
	})

	t.Run("update missing post", func(t *testing.T) {
		err := repo.Update(ctx, &models.Post{ID: 999, Title: "x"})
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("get loads comments in order with authors", func(t *testing.T) {
		post := newPost(t, db, admin, "Discussed")
		for _, text := range []string{"one", "two"} {
			require.NoError(t, comments.Create(ctx, &models.Comment{AuthorID: reader.ID, PostID: post.ID, Text: text}))
		}

		got, err := repo.GetByID(ctx, post.ID)
		require.NoError(t, err)
		require.Len(t, got.Comments, 2)
		assert.Equal(t, "one", got.Comments[0].Text)
		assert.Equal(t, "two", got.Comments[1].Text)
		assert.Equal(t, reader.Email, got.Comments[0].Author.Email)
	})

	t.Run("delete removes post and its comments", func(t *testing.T) {
		post := newPost(t, db, admin, "Doomed")
		other := newPost(t, db, admin, "Survivor")
		for i := 0; i < 3; i++ {
			require.NoError(t, comments.Create(ctx, &models.Comment{AuthorID: reader.ID, PostID: post.ID, Text: "bye"}))
		}
		require.NoError(t, comments.Create(ctx, &models.Comment{AuthorID: reader.ID, PostID: other.ID, Text: "stay"}))

		require.NoError(t, repo.Delete(ctx, post.ID))

		_, err := repo.GetByID(ctx, post.ID)
		assert.ErrorIs(t, err, models.ErrNotFound)

		var left int64
		require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&left).Error)
		assert.Zero(t, left)

		kept, err := comments.ListByPost(ctx, other.ID)
		require.NoError(t, err)
		assert.Len(t, kept, 1)
	})

	t.Run("delete missing post", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, 999), models.ErrNotFound)
	})
}

func TestPostRepository_PostgresDeleteIsTransactional(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "comments" WHERE post_id = $1`)).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "posts" WHERE "posts"."id" = $1`)).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(t.Context(), 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_PostgresDeleteMissingRollsBack(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "comments"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "posts"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.Delete(t.Context(), 5), models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
