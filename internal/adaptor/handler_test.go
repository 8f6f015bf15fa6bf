package adaptor

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"movie-catalog/internal/data/repository/memory"
	"movie-catalog/internal/dto/request"
	"movie-catalog/internal/usecase"
	"movie-catalog/pkg/token"
	"movie-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseFilter(t *testing.T) {
	h := NewMovieHandler(nil, zap.NewNop())

	tests := []struct {
		name      string
		query     string
		genre     *string
		minRating *float64
	}{
		{name: "empty"},
		{name: "genre", query: "genre=Drama", genre: ptr("Drama")},
		{name: "empty genre still filters", query: "genre=", genre: ptr("")},
		{name: "rating", query: "rating=4.3", minRating: ptr(4.3)},
		{name: "rating with spaces", query: "rating=%204%20", minRating: ptr(4.0)},
		{name: "non numeric rating ignored", query: "rating=high"},
		{name: "nan rating ignored", query: "rating=NaN"},
		{name: "both", query: "genre=Horror&rating=3", genre: ptr("Horror"), minRating: ptr(3.0)},
		{name: "repeated genre uses last", query: "genre=Drama&genre=Horror", genre: ptr("Horror")},
		{name: "repeated rating uses last", query: "rating=1&rating=4", minRating: ptr(4.0)},
		{name: "last rating not numeric", query: "rating=4&rating=high"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			filter := h.parseFilter(query)
			assert.Equal(t, tt.genre, filter.Genre)
			assert.Equal(t, tt.minRating, filter.MinRating)
		})
	}
}

func TestRequestURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://api.local/api/movies/?genre=Drama", nil)
	assert.Equal(t, "http://api.local/api/movies/?genre=Drama", requestURL(req).String())

	req.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://api.local/api/movies/?genre=Drama", requestURL(req).String())

	req = httptest.NewRequest(http.MethodGet, "http://api.local/api/movies", nil)
	req.TLS = &tls.ConnectionState{}
	assert.Equal(t, "https://api.local/api/movies", requestURL(req).String())
}

func TestDecodeJSON(t *testing.T) {
	var body struct {
		Title string `json:"title"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.NoError(t, decodeJSON(req, &body))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Heat"}`))
	require.NoError(t, decodeJSON(req, &body))
	assert.Equal(t, "Heat", body.Title)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":`))
	err := decodeJSON(req, &body)
	require.Error(t, err)
	var verr *usecase.ValidationError
	assert.False(t, errors.As(err, &verr))
}

func TestDecodeJSON_TypeErrorsAreFieldKeyed(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
		msg   string
	}{
		{name: "rating text", body: `{"rating":"abc"}`, field: "rating", msg: "A valid number is required."},
		{name: "rating bool", body: `{"rating":true}`, field: "rating", msg: "A valid number is required."},
		{name: "title number", body: `{"title":5}`, field: "title", msg: "Not a valid string."},
		{name: "genre object", body: `{"genre":{"name":"Drama"}}`, field: "genre", msg: "Not a valid string."},
		{name: "cast text", body: `{"cast":"Sigourney Weaver"}`, field: "cast", msg: `Expected a list of items but got type "string".`},
		{name: "director number", body: `{"director":7}`, field: "director", msg: "Not a valid string."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body request.MovieRequest
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			err := decodeJSON(req, &body)
			var verr *usecase.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, map[string]string{tt.field: tt.msg}, verr.Fields)
		})
	}
}

func TestRespondDecodeError(t *testing.T) {
	rr := httptest.NewRecorder()
	respondDecodeError(rr, &usecase.ValidationError{Fields: map[string]string{"rating": "A valid number is required."}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"rating":"A valid number is required."}`, rr.Body.String())

	rr = httptest.NewRecorder()
	respondDecodeError(rr, errors.New("unexpected EOF"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"detail":"Invalid request body"}`, rr.Body.String())
}

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		body string
	}{
		{
			name: "validation",
			err:  &usecase.ValidationError{Fields: map[string]string{"title": "This field is required."}},
			code: http.StatusBadRequest,
			body: `{"title":"This field is required."}`,
		},
		{
			name: "not found",
			err:  usecase.ErrNotFound,
			code: http.StatusNotFound,
			body: `{"detail":"Not found."}`,
		},
		{
			name: "missing credentials",
			err:  usecase.ErrMissingCredentials,
			code: http.StatusBadRequest,
			body: `{"error":"Username and password are required"}`,
		},
		{
			name: "invalid credentials",
			err:  usecase.ErrInvalidCredentials,
			code: http.StatusUnauthorized,
			body: `{"error":"Invalid credentials"}`,
		},
		{
			name: "invalid token",
			err:  usecase.ErrInvalidToken,
			code: http.StatusUnauthorized,
			body: `{"detail":"Given token not valid for any token type","code":"token_not_valid"}`,
		},
		{
			name: "wrapped not found",
			err:  errors.Join(errors.New("lookup"), usecase.ErrNotFound),
			code: http.StatusNotFound,
			body: `{"detail":"Not found."}`,
		},
		{
			name: "unexpected",
			err:  errors.New("connection reset"),
			code: http.StatusInternalServerError,
			body: `{"detail":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handleServiceError(rr, zap.NewNop(), tt.err, "test")

			assert.Equal(t, tt.code, rr.Code)
			assert.JSONEq(t, tt.body, rr.Body.String())
		})
	}
}

func TestLogActor(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodDelete, "/movies/1", nil)
	req = req.WithContext(utils.SetUserContext(req.Context(), userID, "member"))

	logActor(zap.New(core), req, "Movie deleted", zap.String("movie_id", "1"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Movie deleted", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "1", fields["movie_id"])
	assert.Equal(t, userID.String(), fields["actor_id"])
	assert.Equal(t, "member", fields["actor_role"])

	logActor(zap.New(core), httptest.NewRequest(http.MethodDelete, "/movies/1", nil), "anonymous")
	assert.NotContains(t, logs.All()[1].ContextMap(), "actor_id")
}

func newMovieRouter(t *testing.T) (http.Handler, *memory.MovieRepo) {
	t.Helper()

	repo, _, movies := memory.New()
	service := usecase.NewService(repo, token.New("test-secret", time.Minute, time.Hour), zap.NewNop())
	h := NewHandler(service, zap.NewNop())

	r := chi.NewRouter()
	r.Get("/movies", h.Movie.GetMovies)
	r.Post("/movies", h.Movie.CreateMovie)
	r.Get("/movies/{id}", h.Movie.GetMovieByID)
	r.Patch("/movies/{id}", h.Movie.UpdateMovie)
	r.Delete("/movies/{id}", h.Movie.DeleteMovie)
	return r, movies
}

func TestMovieHandler_CreateAndFetch(t *testing.T) {
	router, movies := newMovieRouter(t)

	body := `{"title":"  Heat ","release_date":"1995-12-15","genre":"Crime","rating":4.1,"director":null}`
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/movies", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"title":"Heat"`)
	assert.Contains(t, rr.Body.String(), `"director":null`)

	require.Equal(t, 1, movies.Len())
	id := movies.All()[0].ID.String()

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/movies/"+id, nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"release_date":"1995-12-15"`)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/movies/"+id, strings.NewReader(`{"title":""}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), `"title"`)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/movies/"+id, nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())
	assert.Zero(t, movies.Len())
}

func TestMovieHandler_CreateValidation(t *testing.T) {
	router, movies := newMovieRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/movies", nil))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	for _, field := range []string{"title", "release_date", "genre", "rating"} {
		assert.Contains(t, rr.Body.String(), `"`+field+`"`)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/movies", strings.NewReader(`[1,2]`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"detail":"Invalid request body"}`, rr.Body.String())
	assert.Zero(t, movies.Len())
}

func TestMovieHandler_CreateWrongTypes(t *testing.T) {
	router, movies := newMovieRouter(t)

	body := `{"title":"Alien","release_date":"1979-05-25","genre":"Horror","rating":"abc"}`
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/movies", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"rating":"A valid number is required."}`, rr.Body.String())
	assert.Zero(t, movies.Len())

	body = `{"title":"Alien","release_date":"1979-05-25","genre":"Horror","rating":"4.3"}`
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/movies", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"rating":4.3`)
}

func TestMovieHandler_PatchNullRequiredField(t *testing.T) {
	router, movies := newMovieRouter(t)

	body := `{"title":"Heat","release_date":"1995-12-15","genre":"Crime","rating":4.1}`
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/movies", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rr.Code)
	id := movies.All()[0].ID.String()

	for _, field := range []string{"title", "release_date", "genre", "rating"} {
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/movies/"+id, strings.NewReader(`{"`+field+`":null}`)))
		assert.Equal(t, http.StatusBadRequest, rr.Code, field)
		assert.JSONEq(t, `{"`+field+`":"This field may not be null."}`, rr.Body.String())
	}

	assert.Equal(t, "Heat", movies.All()[0].Title)
	assert.Equal(t, 4.1, movies.All()[0].Rating)
}

func TestMovieHandler_StoreFailure(t *testing.T) {
	router, movies := newMovieRouter(t)
	movies.CreateErr = context.DeadlineExceeded

	body := `{"title":"Heat","release_date":"1995-12-15","genre":"Crime","rating":4.1}`
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/movies", strings.NewReader(body)))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestMovieHandler_ListEmpty(t *testing.T) {
	router, _ := newMovieRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/movies?page=0", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"count":0,"next":null,"previous":null,"results":[]}`, rr.Body.String())
}

func ptr[T any](v T) *T { return &v }
