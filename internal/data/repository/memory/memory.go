// Package memory holds map-backed repositories with the same ordering and
// constraint behaviour as the postgres ones. Tests use them in place of a
// database.
package memory

import (
	"context"
	"sort"
	"sync"

	"movie-catalog/internal/data/entity"
	"movie-catalog/internal/data/repository"

	"github.com/google/uuid"
)

var (
	_ repository.MovieRepository = (*MovieRepo)(nil)
	_ repository.UserRepository  = (*UserRepo)(nil)
)

type MovieRepo struct {
	mu     sync.Mutex
	movies map[uuid.UUID]entity.Movie

	// CreateErr, when set, is returned by every Create call.
	CreateErr error
}

func NewMovieRepo() *MovieRepo {
	return &MovieRepo{movies: make(map[uuid.UUID]entity.Movie)}
}

func (f *MovieRepo) Create(_ context.Context, movie *entity.Movie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return f.CreateErr
	}
	if movie.Rating < entity.MinRating || movie.Rating > entity.MaxRating {
		return repository.ErrRatingOutOfRange
	}
	f.movies[movie.ID] = *movie
	return nil
}

func (f *MovieRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.movies[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (f *MovieRepo) FindByTitle(_ context.Context, title string) (*entity.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.movies {
		if m.Title == title {
			return &m, nil
		}
	}
	return nil, nil
}

func (f *MovieRepo) Update(_ context.Context, movie *entity.Movie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.movies[movie.ID]; !ok {
		return repository.ErrNotFound
	}
	if movie.Rating < entity.MinRating || movie.Rating > entity.MaxRating {
		return repository.ErrRatingOutOfRange
	}
	f.movies[movie.ID] = *movie
	return nil
}

func (f *MovieRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.movies[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.movies, id)
	return nil
}

func (f *MovieRepo) filtered(filter repository.MovieFilter) []*entity.Movie {
	var out []*entity.Movie
	for _, m := range f.movies {
		if filter.Genre != nil && m.Genre != *filter.Genre {
			continue
		}
		if filter.MinRating != nil && m.Rating < *filter.MinRating {
			continue
		}
		m := m
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (f *MovieRepo) FindAll(_ context.Context, filter repository.MovieFilter, limit, offset int) ([]*entity.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.filtered(filter)
	if offset >= len(all) {
		return []*entity.Movie{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *MovieRepo) CountAll(_ context.Context, filter repository.MovieFilter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.filtered(filter))), nil
}

type UserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]entity.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[uuid.UUID]entity.User)}
}

func (f *UserRepo) Create(_ context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == user.Username {
			return repository.ErrUsernameTaken
		}
	}
	f.users[user.ID] = *user
	return nil
}

func (f *UserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *UserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (f *UserRepo) EmailTaken(_ context.Context, email string, excludeID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *UserRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]*entity.User, 0, len(f.users))
	for _, u := range f.users {
		u := u
		all = append(all, &u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return []*entity.User{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *UserRepo) CountAll(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

func (f *UserRepo) Update(_ context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, u := range f.users {
		if id != user.ID && u.Username == user.Username {
			return repository.ErrUsernameTaken
		}
	}
	f.users[user.ID] = *user
	return nil
}

func (f *UserRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

// New returns a Repository backed by fresh in-memory stores, plus the stores
// themselves for inspection.
func New() (*repository.Repository, *UserRepo, *MovieRepo) {
	users, movies := NewUserRepo(), NewMovieRepo()
	return &repository.Repository{User: users, Movie: movies}, users, movies
}

// Len reports how many movies are stored.
func (f *MovieRepo) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.movies)
}

// All returns a copy of every stored movie.
func (f *MovieRepo) All() []entity.Movie {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Movie, 0, len(f.movies))
	for _, m := range f.movies {
		out = append(out, m)
	}
	return out
}

// Len reports how many users are stored.
func (f *UserRepo) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}
