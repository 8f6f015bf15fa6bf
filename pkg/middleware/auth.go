package middleware

import (
	"context"
	"errors"
	"net/http"

	"movie-catalog/internal/data/entity"
	"movie-catalog/internal/usecase"
	"movie-catalog/pkg/token"
	"movie-catalog/pkg/utils"

	"go.uber.org/zap"
)

const (
	msgNoCredentials = "Authentication credentials were not provided."
	msgTokenInvalid  = "Given token not valid for any token type"
	codeTokenInvalid = "token_not_valid"
)

//go:generate mockgen -destination=auth_mock.go -package=middleware movie-catalog/pkg/middleware Authenticator

// Authenticator resolves a bearer access token to an active user.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*entity.User, error)
}

// Authenticate rejects requests without a valid bearer access token and
// stores the caller's id and role in the request context.
func Authenticate(auth Authenticator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accessToken, err := token.GetTokenFromRequest(r)
			if errors.Is(err, token.ErrMissingHeader) {
				utils.ResponseUnauthorized(w, msgNoCredentials, "")
				return
			}
			if err != nil {
				utils.ResponseUnauthorized(w, msgTokenInvalid, codeTokenInvalid)
				return
			}

			user, err := auth.Authenticate(r.Context(), accessToken)
			if err != nil {
				if errors.Is(err, usecase.ErrInvalidToken) {
					logger.Debug("Rejected bearer token", zap.String("path", r.URL.Path))
					utils.ResponseUnauthorized(w, msgTokenInvalid, codeTokenInvalid)
					return
				}
				logger.Error("Failed to authenticate request", zap.Error(err))
				utils.ResponseInternalError(w)
				return
			}

			ctx := utils.SetUserContext(r.Context(), user.ID, string(user.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
