package usecase

import (
	"movie-catalog/internal/data/repository"

	"go.uber.org/zap"
)

type Service struct {
	Auth  AuthService
	User  UserService
	Movie MovieService
	Seed  SeedService
}

func NewService(repo *repository.Repository, tokens TokenIssuer, log *zap.Logger) *Service {
	return &Service{
		Auth:  NewAuthService(repo.User, tokens, log),
		User:  NewUserService(repo.User, log),
		Movie: NewMovieService(repo, log),
		Seed:  NewSeedService(repo, log),
	}
}
