package adaptor

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"movie-catalog/internal/data/repository"
	"movie-catalog/internal/dto/request"
	"movie-catalog/internal/usecase"
	"movie-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type MovieHandler struct {
	service usecase.MovieService
	log     *zap.Logger
}

func NewMovieHandler(service usecase.MovieService, log *zap.Logger) *MovieHandler {
	return &MovieHandler{
		service: service,
		log:     log.With(zap.String("handler", "movie")),
	}
}

// GetMovies handles GET /api/movies
func (h *MovieHandler) GetMovies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	rawPage, _ := lastValue(query, "page")
	page := request.NewPaginatedRequest(utils.ParseInt(rawPage, 1))

	movies, err := h.service.GetMovies(r.Context(), page, h.parseFilter(query))
	if err != nil {
		handleServiceError(w, h.log, err, "get movies")
		return
	}

	utils.ResponseSuccess(w, movies.WithLinks(requestURL(r)))
}

// parseFilter applies genre whenever the key is present and ignores a
// rating that is not a number. A repeated key uses its last value.
func (h *MovieHandler) parseFilter(query map[string][]string) repository.MovieFilter {
	var filter repository.MovieFilter

	if genre, ok := lastValue(query, "genre"); ok {
		filter.Genre = &genre
	}

	if raw, ok := lastValue(query, "rating"); ok {
		rating, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(rating) {
			h.log.Debug("Ignoring rating filter", zap.String("rating", raw))
		} else {
			filter.MinRating = &rating
		}
	}

	return filter
}

func lastValue(query map[string][]string, key string) (string, bool) {
	values := query[key]
	if len(values) == 0 {
		return "", false
	}
	return values[len(values)-1], true
}

// GetMovieByID handles GET /api/movies/{id}
func (h *MovieHandler) GetMovieByID(w http.ResponseWriter, r *http.Request) {
	movie, err := h.service.GetMovieByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get movie by ID")
		return
	}

	utils.ResponseSuccess(w, movie)
}

// CreateMovie handles POST /api/movies
func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req request.MovieRequest
	if err := decodeJSON(r, &req); err != nil {
		respondDecodeError(w, err)
		return
	}

	movie, err := h.service.CreateMovie(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create movie")
		return
	}

	utils.ResponseCreated(w, movie)
}

// ReplaceMovie handles PUT /api/movies/{id}
func (h *MovieHandler) ReplaceMovie(w http.ResponseWriter, r *http.Request) {
	var req request.MovieRequest
	if err := decodeJSON(r, &req); err != nil {
		respondDecodeError(w, err)
		return
	}

	movie, err := h.service.ReplaceMovie(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "replace movie")
		return
	}

	utils.ResponseSuccess(w, movie)
}

// UpdateMovie handles PATCH /api/movies/{id}
func (h *MovieHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	var req request.MovieUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondDecodeError(w, err)
		return
	}

	movie, err := h.service.UpdateMovie(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update movie")
		return
	}

	utils.ResponseSuccess(w, movie)
}

// DeleteMovie handles DELETE /api/movies/{id}
func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteMovie(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete movie")
		return
	}

	logActor(h.log, r, "Movie deleted", zap.String("movie_id", chi.URLParam(r, "id")))
	utils.ResponseNoContent(w)
}
