package handlers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/TaINaS20/tarefa-node-api/internal/db"
	"github.com/TaINaS20/tarefa-node-api/internal/models"
)

// fakeStore is an in-memory stand-in for db.Store with the same domain
// error semantics: db.ErrNotFound for missing rows, db.ErrUniqueViolation
// for duplicate emails, db.ErrForeignKeyViolation for broken or still
// referenced owner references.
type fakeStore struct {
	mu         sync.Mutex
	users      map[int64]models.User
	posts      map[int64]models.Post
	nextUserID int64
	nextPostID int64
	clock      time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[int64]models.User),
		posts: make(map[int64]models.Post),
		clock: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

// tick returns a strictly increasing timestamp so creation order is
// observable in ordering tests.
func (f *fakeStore) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeStore) CreateUser(_ context.Context, input models.NewUser) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == input.Email {
			return nil, db.ErrUniqueViolation
		}
	}
	f.nextUserID++
	now := f.tick()
	user := models.User{
		ID:           f.nextUserID,
		PublicID:     input.PublicID,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		Photo:        input.Photo,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.users[user.ID] = user
	return &user, nil
}

func (f *fakeStore) ListUsers(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &user, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) UpdateUser(_ context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	if patch.IsEmpty() {
		return &user, nil
	}
	if patch.Email != nil {
		for otherID, u := range f.users {
			if otherID != id && u.Email == *patch.Email {
				return nil, db.ErrUniqueViolation
			}
		}
		user.Email = *patch.Email
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.PasswordHash != nil {
		user.PasswordHash = *patch.PasswordHash
	}
	if patch.Photo != nil {
		user.Photo = patch.Photo
	}
	user.UpdatedAt = f.tick()
	f.users[id] = user
	return &user, nil
}

func (f *fakeStore) DeleteUser(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return db.ErrNotFound
	}
	for _, p := range f.posts {
		if p.UserID == id {
			return db.ErrForeignKeyViolation
		}
	}
	delete(f.users, id)
	return nil
}

func (f *fakeStore) ListUserPosts(_ context.Context, userID int64) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	posts := make([]models.Post, 0)
	for _, p := range f.posts {
		if p.UserID == userID {
			posts = append(posts, p)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return posts, nil
}

func (f *fakeStore) withOwner(post models.Post) models.PostWithOwner {
	owner := f.users[post.UserID]
	return models.PostWithOwner{Post: post, User: owner.Owner()}
}

func (f *fakeStore) CreatePost(_ context.Context, input models.NewPost) (*models.PostWithOwner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[input.UserID]; !ok {
		return nil, db.ErrForeignKeyViolation
	}
	f.nextPostID++
	now := f.tick()
	post := models.Post{
		ID:        f.nextPostID,
		Title:     input.Title,
		Content:   input.Content,
		UserID:    input.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.posts[post.ID] = post
	joined := f.withOwner(post)
	return &joined, nil
}

func (f *fakeStore) ListPosts(_ context.Context) ([]models.PostWithOwner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	posts := make([]models.PostWithOwner, 0, len(f.posts))
	for _, p := range f.posts {
		posts = append(posts, f.withOwner(p))
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return posts, nil
}

func (f *fakeStore) GetPostByID(_ context.Context, id int64) (*models.PostWithOwner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	joined := f.withOwner(post)
	return &joined, nil
}

func (f *fakeStore) UpdatePost(_ context.Context, id int64, patch models.PostPatch) (*models.PostWithOwner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	if !patch.IsEmpty() {
		if patch.Title != nil {
			post.Title = *patch.Title
		}
		if patch.Content != nil {
			post.Content = *patch.Content
		}
		post.UpdatedAt = f.tick()
		f.posts[id] = post
	}
	joined := f.withOwner(post)
	return &joined, nil
}

func (f *fakeStore) DeletePost(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return db.ErrNotFound
	}
	delete(f.posts, id)
	return nil
}
