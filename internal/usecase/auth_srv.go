package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"movie-catalog/internal/data/entity"
	"movie-catalog/internal/data/repository"
	"movie-catalog/internal/dto/request"
	"movie-catalog/internal/dto/response"
	"movie-catalog/pkg/token"
	"movie-catalog/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -destination=token_mock.go -package=usecase movie-catalog/internal/usecase TokenIssuer

// TokenIssuer is the part of token.Manager the auth service depends on.
type TokenIssuer interface {
	IssuePair(userID uuid.UUID, role string) (*token.Pair, error)
	IssueAccess(userID uuid.UUID, role string) (string, error)
	ParseAccess(tokenString string) (*token.Claims, error)
	ParseRefresh(tokenString string) (*token.Claims, error)
}

type AuthService interface {
	Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error)
	Refresh(ctx context.Context, req *request.RefreshRequest) (*response.RefreshResponse, error)
	Authenticate(ctx context.Context, accessToken string) (*entity.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
	log      *zap.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokens TokenIssuer,
	log *zap.Logger,
) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		log:      log.With(zap.String("service", "auth")),
	}
}

// dummyHash is compared against when the username is unknown so the
// response time does not reveal which usernames exist.
var dummyHash = sync.OnceValue(func() string {
	hash, _ := utils.HashPassword("movie-catalog-timing-guard")
	return hash
})

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("username", req.Username))
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user == nil {
		utils.CheckPasswordHash(req.Password, dummyHash())
		s.log.Info("Login failed: unknown user", zap.String("username", req.Username))
		return nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) || !user.IsActive {
		s.log.Info("Login failed", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(user.ID, string(user.Role))
	if err != nil {
		s.log.Error("Failed to issue tokens", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))

	return &response.LoginResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
		User:    response.UserToResponse(user),
	}, nil
}

// Refresh trades a refresh token for a new access token. The account must
// still exist and be active.
func (s *authService) Refresh(ctx context.Context, req *request.RefreshRequest) (*response.RefreshResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	claims, err := s.tokens.ParseRefresh(req.Refresh)
	if err != nil {
		s.log.Debug("Refresh token rejected", zap.Error(err))
		return nil, ErrInvalidToken
	}

	user, err := s.activeUser(ctx, claims.UserUUID())
	if err != nil {
		return nil, err
	}

	access, err := s.tokens.IssueAccess(user.ID, string(user.Role))
	if err != nil {
		s.log.Error("Failed to issue access token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	return &response.RefreshResponse{Access: access}, nil
}

func (s *authService) Authenticate(ctx context.Context, accessToken string) (*entity.User, error) {
	claims, err := s.tokens.ParseAccess(accessToken)
	if err != nil {
		if !errors.Is(err, token.ErrInvalidToken) && !errors.Is(err, token.ErrWrongType) {
			s.log.Warn("Unexpected token error", zap.Error(err))
		}
		return nil, ErrInvalidToken
	}

	return s.activeUser(ctx, claims.UserUUID())
}

func (s *authService) activeUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to load token user", zap.Error(err), zap.String("user_id", id.String()))
		return nil, fmt.Errorf("load token user: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidToken
	}
	return user, nil
}
