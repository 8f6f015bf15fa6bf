package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movie-catalog/internal/data/entity"
	"movie-catalog/internal/data/repository"
	"movie-catalog/internal/dto/request"
	"movie-catalog/internal/dto/response"
	"movie-catalog/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type MovieService interface {
	GetMovies(ctx context.Context, req request.PaginatedRequest, filter repository.MovieFilter) (*response.PaginatedResponse[response.MovieResponse], error)
	GetMovieByID(ctx context.Context, movieID string) (*response.MovieResponse, error)
	CreateMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieResponse, error)
	ReplaceMovie(ctx context.Context, movieID string, req *request.MovieRequest) (*response.MovieResponse, error)
	UpdateMovie(ctx context.Context, movieID string, req *request.MovieUpdateRequest) (*response.MovieResponse, error)
	DeleteMovie(ctx context.Context, movieID string) error
}

type movieService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewMovieService(
	repo *repository.Repository,
	log *zap.Logger,
) MovieService {
	return &movieService{
		repo: repo,
		log:  log.With(zap.String("service", "movie")),
	}
}

func (s *movieService) GetMovies(ctx context.Context, req request.PaginatedRequest, filter repository.MovieFilter) (*response.PaginatedResponse[response.MovieResponse], error) {
	movies, err := s.repo.Movie.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get movies",
			zap.Error(err),
			zap.Int("page", req.Page),
			zap.Stringp("genre", filter.Genre),
		)
		return nil, fmt.Errorf("get movies: %w", err)
	}

	total, err := s.repo.Movie.CountAll(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count movies", zap.Error(err))
		return nil, fmt.Errorf("count movies: %w", err)
	}

	return response.NewPaginatedResponse(response.MoviesToResponse(movies), req.Page, req.Limit(), total), nil
}

func (s *movieService) GetMovieByID(ctx context.Context, movieID string) (*response.MovieResponse, error) {
	movie, err := s.findMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) CreateMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieResponse, error) {
	if errs := req.Validate(); len(errs) > 0 {
		s.log.Debug("Create movie validation failed", zap.Any("errors", errs))
		return nil, newValidationError(errs)
	}

	now := time.Now()
	movie := &entity.Movie{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if err := applyMovieRequest(movie, req); err != nil {
		return nil, err
	}

	if err := s.repo.Movie.Create(ctx, movie); err != nil {
		return nil, s.storeError("create", movie, err)
	}

	s.log.Info("Movie created",
		zap.String("movie_id", movie.ID.String()),
		zap.String("title", movie.Title),
	)

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

// ReplaceMovie is the full update: every required field must be present.
func (s *movieService) ReplaceMovie(ctx context.Context, movieID string, req *request.MovieRequest) (*response.MovieResponse, error) {
	movie, err := s.findMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}

	if errs := req.Validate(); len(errs) > 0 {
		s.log.Debug("Replace movie validation failed", zap.Any("errors", errs))
		return nil, newValidationError(errs)
	}

	if err := applyMovieRequest(movie, req); err != nil {
		return nil, err
	}

	return s.save(ctx, movie)
}

// UpdateMovie is the partial update: only supplied fields change.
func (s *movieService) UpdateMovie(ctx context.Context, movieID string, req *request.MovieUpdateRequest) (*response.MovieResponse, error) {
	movie, err := s.findMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}

	if errs := req.Validate(); len(errs) > 0 {
		s.log.Debug("Update movie validation failed", zap.Any("errors", errs))
		return nil, newValidationError(errs)
	}

	if req.Title.Value != nil {
		movie.Title = *req.Title.Value
	}
	if req.ReleaseDate.Value != nil {
		releaseDate, err := parseReleaseDate(*req.ReleaseDate.Value)
		if err != nil {
			return nil, err
		}
		movie.ReleaseDate = releaseDate
	}
	if req.Genre.Value != nil {
		movie.Genre = *req.Genre.Value
	}
	if req.Rating.Value != nil {
		movie.Rating = req.Rating.Value.Float()
	}
	applyNullable(&movie.Description, req.Description)
	applyNullable(&movie.Director, req.Director)
	applyCast(&movie.Cast, req.Cast)

	return s.save(ctx, movie)
}

func (s *movieService) DeleteMovie(ctx context.Context, movieID string) error {
	id, ok := utils.ParseUUID(movieID)
	if !ok {
		return ErrNotFound
	}

	if err := s.repo.Movie.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete movie: %w", err)
	}

	s.log.Info("Movie deleted", zap.String("movie_id", movieID))
	return nil
}

func (s *movieService) findMovie(ctx context.Context, movieID string) (*entity.Movie, error) {
	id, ok := utils.ParseUUID(movieID)
	if !ok {
		return nil, ErrNotFound
	}

	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	if movie == nil {
		return nil, ErrNotFound
	}

	return movie, nil
}

func (s *movieService) save(ctx context.Context, movie *entity.Movie) (*response.MovieResponse, error) {
	movie.UpdatedAt = time.Now()

	if err := s.repo.Movie.Update(ctx, movie); err != nil {
		return nil, s.storeError("update", movie, err)
	}

	s.log.Info("Movie updated", zap.String("movie_id", movie.ID.String()))

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) storeError(op string, movie *entity.Movie, err error) error {
	switch {
	case errors.Is(err, repository.ErrRatingOutOfRange):
		return fieldError("rating", fmt.Sprintf("Ensure this value is between %.1f and %.1f.", entity.MinRating, entity.MaxRating))
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	default:
		return fmt.Errorf("%s movie %s: %w", op, movie.ID, err)
	}
}

func applyMovieRequest(movie *entity.Movie, req *request.MovieRequest) error {
	releaseDate, err := parseReleaseDate(req.ReleaseDate)
	if err != nil {
		return err
	}

	movie.Title = req.Title
	movie.ReleaseDate = releaseDate
	movie.Genre = req.Genre
	movie.Rating = req.Rating.Float()
	applyNullable(&movie.Description, req.Description)
	applyNullable(&movie.Director, req.Director)
	applyCast(&movie.Cast, req.Cast)
	return nil
}

func parseReleaseDate(value string) (time.Time, error) {
	releaseDate, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fieldError("release_date", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
	}
	return releaseDate, nil
}

func applyNullable(dst **string, src request.Optional[string]) {
	if src.Set {
		*dst = src.Value
	}
}

func applyCast(dst *entity.Cast, src request.Optional[entity.Cast]) {
	if !src.Set {
		return
	}
	if src.Value == nil {
		*dst = nil
		return
	}
	*dst = *src.Value
}
