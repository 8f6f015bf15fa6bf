package repository

import (
	"context"
	"testing"
	"time"

	"movie-catalog/internal/data/entity"
	"movie-catalog/pkg/database"
	"movie-catalog/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func setupPostgres(t *testing.T) *Repository {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	tc.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "password", "POSTGRES_DB": "testdb", "POSTGRES_USER": "postgres"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	config := utils.DatabaseConfig{
		Host:     host,
		Port:     port.Port(),
		Name:     "testdb",
		User:     "postgres",
		Password: "password",
		MaxConns: 4,
	}

	var db database.PgxIface
	for i := 0; i < 10; i++ {
		db, err = database.InitDB(ctx, config)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, database.Migrate(ctx, db))
	// Running twice must be harmless.
	require.NoError(t, database.Migrate(ctx, db))

	return NewRepository(db, zap.NewNop())
}

func newMovie(title, genre string, rating float64) *entity.Movie {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &entity.Movie{
		Base:        entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Title:       title,
		ReleaseDate: time.Date(2010, 7, 16, 0, 0, 0, 0, time.UTC),
		Genre:       genre,
		Rating:      rating,
	}
}

func newUser(username, email string) *entity.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &entity.User{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Username:     username,
		Email:        email,
		PasswordHash: "hash",
		Role:         entity.RoleMember,
		IsActive:     true,
	}
}

func TestMovieRepository_Postgres(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	director := "Christopher Nolan"
	inception := newMovie("Inception", "Sci-Fi", 4.4)
	inception.Director = &director
	inception.Cast = entity.Cast{"Leonardo DiCaprio", map[string]any{"name": "Tom Hardy", "role": "Eames"}}

	require.NoError(t, repo.Movie.Create(ctx, inception))
	require.NoError(t, repo.Movie.Create(ctx, newMovie("alien", "Sci-Fi", 4.2)))
	require.NoError(t, repo.Movie.Create(ctx, newMovie("Amelie", "Romance", 4.0)))
	require.NoError(t, repo.Movie.Create(ctx, newMovie("Zodiac", "Crime", 3.9)))

	t.Run("FindByID", func(t *testing.T) {
		got, err := repo.Movie.FindByID(ctx, inception.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Inception", got.Title)
		assert.Equal(t, &director, got.Director)
		assert.Nil(t, got.Description)
		require.Len(t, got.Cast, 2)
		assert.Equal(t, "Leonardo DiCaprio", got.Cast[0])
		assert.Equal(t, map[string]any{"name": "Tom Hardy", "role": "Eames"}, got.Cast[1])
		assert.Equal(t, 2010, got.ReleaseDate.Year())
	})

	t.Run("FindByIDMissing", func(t *testing.T) {
		got, err := repo.Movie.FindByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("OrderedByTitleByteOrder", func(t *testing.T) {
		movies, err := repo.Movie.FindAll(ctx, MovieFilter{}, 10, 0)
		require.NoError(t, err)
		titles := make([]string, 0, len(movies))
		for _, m := range movies {
			titles = append(titles, m.Title)
		}
		assert.Equal(t, []string{"Amelie", "Inception", "Zodiac", "alien"}, titles)
	})

	t.Run("Filters", func(t *testing.T) {
		genre := "Sci-Fi"
		minRating := 4.3
		filter := MovieFilter{Genre: &genre, MinRating: &minRating}

		movies, err := repo.Movie.FindAll(ctx, filter, 10, 0)
		require.NoError(t, err)
		require.Len(t, movies, 1)
		assert.Equal(t, "Inception", movies[0].Title)

		count, err := repo.Movie.CountAll(ctx, filter)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})

	t.Run("OffsetPastEnd", func(t *testing.T) {
		movies, err := repo.Movie.FindAll(ctx, MovieFilter{}, 10, 40)
		require.NoError(t, err)
		assert.Empty(t, movies)
	})

	t.Run("RatingCheckConstraint", func(t *testing.T) {
		err := repo.Movie.Create(ctx, newMovie("Too Good", "Drama", 5.5))
		assert.ErrorIs(t, err, ErrRatingOutOfRange)
	})

	t.Run("UpdateAndDelete", func(t *testing.T) {
		inception.Rating = 4.8
		inception.Cast = nil
		require.NoError(t, repo.Movie.Update(ctx, inception))

		got, err := repo.Movie.FindByTitle(ctx, "Inception")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 4.8, got.Rating)
		assert.Nil(t, got.Cast)

		require.NoError(t, repo.Movie.Delete(ctx, inception.ID))
		assert.ErrorIs(t, repo.Movie.Delete(ctx, inception.ID), ErrNotFound)
		assert.ErrorIs(t, repo.Movie.Update(ctx, inception), ErrNotFound)
	})
}

func TestUserRepository_Postgres(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()

	alice := newUser("alice", "alice@example.com")
	require.NoError(t, repo.User.Create(ctx, alice))

	t.Run("DuplicateUsername", func(t *testing.T) {
		err := repo.User.Create(ctx, newUser("alice", "other@example.com"))
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("Lookups", func(t *testing.T) {
		byName, err := repo.User.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, byName)
		assert.Equal(t, alice.ID, byName.ID)
		assert.Equal(t, entity.RoleMember, byName.Role)

		taken, err := repo.User.EmailTaken(ctx, "alice@example.com", uuid.Nil)
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = repo.User.EmailTaken(ctx, "alice@example.com", alice.ID)
		require.NoError(t, err)
		assert.False(t, taken)

		missing, err := repo.User.FindByUsername(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("ListAndCount", func(t *testing.T) {
		require.NoError(t, repo.User.Create(ctx, newUser("bob", "bob@example.com")))

		users, err := repo.User.FindAll(ctx, 10, 0)
		require.NoError(t, err)
		assert.Len(t, users, 2)

		count, err := repo.User.CountAll(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)
	})

	t.Run("UpdateAndDelete", func(t *testing.T) {
		alice.FirstName = "Alice"
		require.NoError(t, repo.User.Update(ctx, alice))

		got, err := repo.User.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", got.FirstName)

		require.NoError(t, repo.User.Delete(ctx, alice.ID))
		assert.ErrorIs(t, repo.User.Delete(ctx, alice.ID), ErrNotFound)
	})
}
