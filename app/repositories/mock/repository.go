// Package mock provides in-memory repositories for service and controller tests.
package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"blog/app/models"
	"blog/app/repositories"
)

// Store holds users, posts and comments in memory and enforces the same
// uniqueness and cascade rules as the database.
type Store struct {
	mutex    sync.RWMutex
	users    map[uint]models.User
	posts    map[uint]models.Post
	comments map[uint]models.Comment
	nextUser uint
	nextPost uint
	nextComm uint

	// Calls counts repository calls by method name.
	Calls map[string]int
}

func NewStore() *Store {
	s := &Store{}
	s.Clear()
	return s
}

func (s *Store) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.users = make(map[uint]models.User)
	s.posts = make(map[uint]models.Post)
	s.comments = make(map[uint]models.Comment)
	s.nextUser, s.nextPost, s.nextComm = 1, 1, 1
	s.Calls = make(map[string]int)
}

// CallCount returns how many times a repository method was invoked.
func (s *Store) CallCount(method string) int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.Calls[method]
}

func (s *Store) Users() *UserRepository       { return &UserRepository{s} }
func (s *Store) Posts() *PostRepository       { return &PostRepository{s} }
func (s *Store) Comments() *CommentRepository { return &CommentRepository{s} }

// UserRepository implementation
type UserRepository struct{ s *Store }

var _ repositories.UserRepository = (*UserRepository)(nil)

func (m *UserRepository) Create(_ context.Context, user *models.User) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()
	m.s.Calls["Users.Create"]++

	for _, u := range m.s.users {
		if u.Email == user.Email {
			return models.ErrDuplicateEmail
		}
	}
	user.ID = m.s.nextUser
	m.s.nextUser++
	m.s.users[user.ID] = *user
	return nil
}

func (m *UserRepository) GetByID(_ context.Context, id uint) (*models.User, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	u, ok := m.s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &u, nil
}

func (m *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	for _, u := range m.s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *UserRepository) Count(_ context.Context) (int64, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()
	return int64(len(m.s.users)), nil
}

// PostRepository implementation
type PostRepository struct{ s *Store }

var _ repositories.PostRepository = (*PostRepository)(nil)

func (m *PostRepository) Create(_ context.Context, post *models.Post) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()
	m.s.Calls["Posts.Create"]++

	if m.s.titleTaken(post.Title, 0) {
		return models.ErrDuplicateTitle
	}
	post.ID = m.s.nextPost
	m.s.nextPost++
	stored := *post
	stored.Author, stored.Comments = models.User{}, nil
	m.s.posts[post.ID] = stored
	return nil
}

func (m *PostRepository) GetByID(_ context.Context, id uint) (*models.Post, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	p, ok := m.s.posts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	p.Author = m.s.users[p.AuthorID]
	for _, c := range m.s.commentsOf(id) {
		p.Comments = append(p.Comments, *c)
	}
	return &p, nil
}

func (m *PostRepository) List(_ context.Context) ([]*models.Post, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()

	posts := make([]*models.Post, 0, len(m.s.posts))
	for _, p := range m.s.posts {
		p := p
		p.Author = m.s.users[p.AuthorID]
		posts = append(posts, &p)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	return posts, nil
}

func (m *PostRepository) Update(_ context.Context, post *models.Post) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()
	m.s.Calls["Posts.Update"]++

	existing, ok := m.s.posts[post.ID]
	if !ok {
		return models.ErrNotFound
	}
	if m.s.titleTaken(post.Title, post.ID) {
		return models.ErrDuplicateTitle
	}
	existing.Title = post.Title
	existing.Subtitle = post.Subtitle
	existing.Body = post.Body
	existing.ImgURL = post.ImgURL
	existing.AuthorID = post.AuthorID
	m.s.posts[post.ID] = existing
	return nil
}

func (m *PostRepository) Delete(_ context.Context, id uint) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()
	m.s.Calls["Posts.Delete"]++

	if _, ok := m.s.posts[id]; !ok {
		return models.ErrNotFound
	}
	for cid, c := range m.s.comments {
		if c.PostID == id {
			delete(m.s.comments, cid)
		}
	}
	delete(m.s.posts, id)
	return nil
}

// CommentRepository implementation
type CommentRepository struct{ s *Store }

var _ repositories.CommentRepository = (*CommentRepository)(nil)

func (m *CommentRepository) Create(_ context.Context, comment *models.Comment) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()
	m.s.Calls["Comments.Create"]++

	if _, ok := m.s.posts[comment.PostID]; !ok {
		return models.ErrNotFound
	}
	comment.ID = m.s.nextComm
	m.s.nextComm++
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	stored := *comment
	stored.Author = models.User{}
	m.s.comments[comment.ID] = stored
	return nil
}

func (m *CommentRepository) ListByPost(_ context.Context, postID uint) ([]*models.Comment, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()
	return m.s.commentsOf(postID), nil
}

func (s *Store) commentsOf(postID uint) []*models.Comment {
	var comments []*models.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			c := c
			c.Author = s.users[c.AuthorID]
			comments = append(comments, &c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments
}

func (s *Store) titleTaken(title string, except uint) bool {
	for id, p := range s.posts {
		if id != except && p.Title == title {
			return true
		}
	}
	return false
}
