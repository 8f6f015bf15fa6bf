package adaptor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"movie-catalog/internal/usecase"
	"movie-catalog/pkg/utils"

	"go.uber.org/zap"
)

const (
	msgInvalidBody        = "Invalid request body"
	msgInvalidNumber      = "A valid number is required."
	msgInvalidString      = "Not a valid string."
	msgInvalidBool        = "Must be a valid boolean."
	msgInvalidValue       = "Invalid value."
	msgMissingCredentials = "Username and password are required"
	msgInvalidCredentials = "Invalid credentials"
	msgTokenInvalid       = "Given token not valid for any token type"
	codeTokenInvalid      = "token_not_valid"
)

type Handler struct {
	Auth  *AuthHandler
	User  *UserHandler
	Movie *MovieHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:  NewAuthHandler(service.Auth, log),
		User:  NewUserHandler(service.User, log),
		Movie: NewMovieHandler(service.Movie, log),
	}
}

// decodeJSON reads the body into dst. An empty body decodes as {} so that
// missing fields surface as validation errors. A value of the wrong JSON
// type is reported against its field.
func decodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if field, _, _ := strings.Cut(typeErr.Field, "."); field != "" {
			return &usecase.ValidationError{Fields: map[string]string{field: typeMessage(typeErr)}}
		}
	}
	return err
}

func typeMessage(err *json.UnmarshalTypeError) string {
	switch err.Type.Kind() {
	case reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return msgInvalidNumber
	case reflect.String:
		return msgInvalidString
	case reflect.Slice, reflect.Array:
		return fmt.Sprintf("Expected a list of items but got type %q.", err.Value)
	case reflect.Bool:
		return msgInvalidBool
	default:
		return msgInvalidValue
	}
}

// respondDecodeError answers a body that could not be decoded.
func respondDecodeError(w http.ResponseWriter, err error) {
	var verr *usecase.ValidationError
	if errors.As(err, &verr) {
		utils.ResponseValidation(w, verr.Fields)
		return
	}
	utils.ResponseBadRequest(w, msgInvalidBody)
}

// handleServiceError maps usecase errors onto HTTP responses.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, op string) {
	var verr *usecase.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.ResponseValidation(w, verr.Fields)
	case errors.Is(err, usecase.ErrNotFound):
		utils.ResponseNotFound(w)
	case errors.Is(err, usecase.ErrMissingCredentials):
		utils.ResponseJSON(w, http.StatusBadRequest, utils.ErrorResponse{Error: msgMissingCredentials})
	case errors.Is(err, usecase.ErrInvalidCredentials):
		utils.ResponseJSON(w, http.StatusUnauthorized, utils.ErrorResponse{Error: msgInvalidCredentials})
	case errors.Is(err, usecase.ErrInvalidToken):
		utils.ResponseUnauthorized(w, msgTokenInvalid, codeTokenInvalid)
	default:
		log.Error("Request failed", zap.String("op", op), zap.Error(err))
		utils.ResponseInternalError(w)
	}
}

// logActor records msg along with the authenticated caller.
func logActor(log *zap.Logger, r *http.Request, msg string, fields ...zap.Field) {
	if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
		fields = append(fields, zap.String("actor_id", userID.String()))
	}
	if role, ok := utils.GetRoleFromContext(r.Context()); ok {
		fields = append(fields, zap.String("actor_role", role))
	}
	log.Info(msg, fields...)
}

// requestURL rebuilds the absolute URL the client called, used for
// pagination links.
func requestURL(r *http.Request) *url.URL {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	return &url.URL{
		Scheme:   scheme,
		Host:     r.Host,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
	}
}
