package repository

import (
	"errors"

	"movie-catalog/pkg/database"

	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned by Update and Delete when no row matched the id.
	ErrNotFound = errors.New("record not found")
	// ErrUsernameTaken is returned when the users_username_key constraint fires.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrRatingOutOfRange is returned when the store's rating check rejects a row.
	ErrRatingOutOfRange = errors.New("rating out of range")
)

type Repository struct {
	User  UserRepository
	Movie MovieRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:  NewUserRepository(db, log),
		Movie: NewMovieRepository(db, log),
	}
}

// translateConstraint maps store constraint violations onto the sentinels
// above; other errors come back unchanged.
func translateConstraint(err error) error {
	switch database.ConstraintName(err) {
	case "users_username_key":
		return ErrUsernameTaken
	case "movies_rating_between_0_and_5":
		return ErrRatingOutOfRange
	default:
		return err
	}
}
