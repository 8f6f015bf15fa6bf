package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"movie-catalog/internal/data/entity"
	"movie-catalog/internal/data/repository"
	"movie-catalog/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	adminUsername = "admin"
	adminEmail    = "admin@example.com"
	adminPassword = "admin123"
)

type seedMovie struct {
	title       string
	genre       string
	releaseDate string
	rating      float64 // 0-10 scale
	director    string
	description string
}

var seedMovies = []seedMovie{
	{"The Shawshank Redemption", "Drama", "1994-09-23", 9.3, "Frank Darabont", "Hope can set you free."},
	{"The Godfather", "Crime", "1972-03-24", 9.2, "Francis Ford Coppola", "An offer you can't refuse."},
	{"The Dark Knight", "Action", "2008-07-18", 9.0, "Christopher Nolan", "Why so serious?"},
	{"Pulp Fiction", "Crime", "1994-10-14", 8.9, "Quentin Tarantino", "Chronologically out of order."},
	{"Forrest Gump", "Drama", "1994-07-06", 8.8, "Robert Zemeckis", "Life is like a box of chocolates."},
	{"Inception", "Sci-Fi", "2010-07-16", 8.8, "Christopher Nolan", "A dream within a dream."},
	{"Fight Club", "Drama", "1999-10-15", 8.8, "David Fincher", "The first rule..."},
	{"The Matrix", "Sci-Fi", "1999-03-31", 8.7, "The Wachowskis", "Red pill or blue pill."},
	{"Goodfellas", "Crime", "1990-09-19", 8.7, "Martin Scorsese", "As far back as I can remember..."},
	{"Se7en", "Thriller", "1995-09-22", 8.6, "David Fincher", "Seven deadly sins."},
	{"Interstellar", "Sci-Fi", "2014-11-07", 8.6, "Christopher Nolan", "Love transcends dimensions."},
	{"The Silence of the Lambs", "Thriller", "1991-02-14", 8.6, "Jonathan Demme", "Hello, Clarice."},
	{"The Green Mile", "Drama", "1999-12-10", 8.6, "Frank Darabont", "Miracles on death row."},
	{"Gladiator", "Action", "2000-05-05", 8.5, "Ridley Scott", "Are you not entertained?"},
	{"City of God", "Crime", "2002-08-30", 8.6, "Fernando Meirelles", "The rise of crime in Rio."},
}

type SeedResult struct {
	AdminCreated bool
	Created      int
	Updated      int
}

// SeedService loads the demo admin account and movie catalog. Running it
// again updates the movies in place and leaves an existing admin alone.
type SeedService interface {
	Seed(ctx context.Context) (*SeedResult, error)
}

type seedService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewSeedService(repo *repository.Repository, log *zap.Logger) SeedService {
	return &seedService{
		repo: repo,
		log:  log.With(zap.String("service", "seed")),
	}
}

func (s *seedService) Seed(ctx context.Context) (*SeedResult, error) {
	result := &SeedResult{}

	created, err := s.ensureAdmin(ctx)
	if err != nil {
		return nil, err
	}
	result.AdminCreated = created

	for _, m := range seedMovies {
		wasCreated, err := s.upsertMovie(ctx, m)
		if err != nil {
			return nil, err
		}
		if wasCreated {
			result.Created++
		} else {
			result.Updated++
		}
	}

	s.log.Info("Seed done",
		zap.Bool("admin_created", result.AdminCreated),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
	)
	return result, nil
}

func (s *seedService) ensureAdmin(ctx context.Context) (bool, error) {
	existing, err := s.repo.User.FindByUsername(ctx, adminUsername)
	if err != nil {
		return false, fmt.Errorf("find admin: %w", err)
	}
	if existing != nil {
		s.log.Info("Superuser already exists", zap.String("username", adminUsername))
		return false, nil
	}

	hash, err := utils.HashPassword(adminPassword)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	now := time.Now()
	admin := &entity.User{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Username:     adminUsername,
		Email:        adminEmail,
		PasswordHash: hash,
		Role:         entity.RoleSuperuser,
		IsActive:     true,
	}
	if err := s.repo.User.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}

	s.log.Info("Superuser created", zap.String("username", adminUsername))
	return true, nil
}

func (s *seedService) upsertMovie(ctx context.Context, m seedMovie) (bool, error) {
	releaseDate, err := time.Parse(dateLayout, m.releaseDate)
	if err != nil {
		return false, fmt.Errorf("seed movie %q: %w", m.title, err)
	}

	existing, err := s.repo.Movie.FindByTitle(ctx, m.title)
	if err != nil {
		return false, fmt.Errorf("find seed movie %q: %w", m.title, err)
	}

	now := time.Now()
	movie := existing
	if movie == nil {
		movie = &entity.Movie{Base: entity.Base{ID: uuid.New(), CreatedAt: now}}
	}

	description, director := m.description, m.director
	movie.Title = m.title
	movie.Genre = m.genre
	movie.ReleaseDate = releaseDate
	movie.Rating = NormalizeTenPointRating(m.rating)
	movie.Description = &description
	movie.Director = &director
	movie.UpdatedAt = now

	if existing == nil {
		if err := s.repo.Movie.Create(ctx, movie); err != nil {
			return false, fmt.Errorf("create seed movie %q: %w", m.title, err)
		}
		return true, nil
	}

	if err := s.repo.Movie.Update(ctx, movie); err != nil {
		return false, fmt.Errorf("update seed movie %q: %w", m.title, err)
	}
	return false, nil
}

// NormalizeTenPointRating converts a 0-10 rating to the catalog's 0-5 scale.
func NormalizeTenPointRating(rating float64) float64 {
	return math.Max(entity.MinRating, math.Min(entity.MaxRating, rating/2))
}
