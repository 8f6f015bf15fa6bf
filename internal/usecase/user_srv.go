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

const (
	msgEmailTaken    = "This email is already registered."
	msgUsernameTaken = "A user with that username already exists."
	msgPasswordBytes = "Ensure this field has no more than 72 bytes."

	// bcrypt ignores input past this many bytes.
	maxPasswordBytes = 72
)

type UserService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error)
	GetProfile(ctx context.Context, userID string) (*response.UserResponse, error)
	GetAllUsers(ctx context.Context, req request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	ReplaceUser(ctx context.Context, userID string, req *request.UserUpdateRequest) (*response.UserResponse, error)
	UpdateUser(ctx context.Context, userID string, req *request.UserPatchRequest) (*response.UserResponse, error)
	DeleteUser(ctx context.Context, userID string) error
}

type userService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log.With(zap.String("service", "user")),
	}
}

func (us *userService) Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error) {
	errs := utils.ValidateStruct(req)
	if errs == nil {
		errs = make(map[string]string)
	}
	if _, ok := errs["password"]; !ok && len(req.Password) > maxPasswordBytes {
		errs["password"] = msgPasswordBytes
	}

	if err := us.checkUnique(ctx, errs, req.Username, req.Email, uuid.Nil); err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		us.log.Debug("Register validation failed", zap.Any("errors", errs))
		return nil, newValidationError(errs)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		us.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         entity.RoleMember,
		IsActive:     true,
	}

	if err := us.userRepo.Create(ctx, user); err != nil {
		return nil, us.storeError("create", user, err)
	}

	us.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) GetProfile(ctx context.Context, userID string) (*response.UserResponse, error) {
	user, err := us.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

// GetAllUsers lists users newest first.
func (us *userService) GetAllUsers(ctx context.Context, req request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	users, err := us.userRepo.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		us.log.Error("Failed to get users", zap.Error(err), zap.Int("page", req.Page))
		return nil, fmt.Errorf("get users: %w", err)
	}

	total, err := us.userRepo.CountAll(ctx)
	if err != nil {
		us.log.Error("Failed to count users", zap.Error(err))
		return nil, fmt.Errorf("count users: %w", err)
	}

	return response.NewPaginatedResponse(response.UsersToResponse(users), req.Page, req.Limit(), total), nil
}

// ReplaceUser is the full update. A supplied password is validated and then
// dropped; passwords are never changed through this path.
func (us *userService) ReplaceUser(ctx context.Context, userID string, req *request.UserUpdateRequest) (*response.UserResponse, error) {
	user, err := us.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	errs := utils.ValidateStruct(req)
	if errs == nil {
		errs = make(map[string]string)
	}
	if err := us.checkUnique(ctx, errs, req.Username, req.Email, user.ID); err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	user.Username = req.Username
	user.Email = req.Email
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}

	return us.save(ctx, user)
}

func (us *userService) UpdateUser(ctx context.Context, userID string, req *request.UserPatchRequest) (*response.UserResponse, error) {
	user, err := us.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	errs := utils.ValidateStruct(req)
	if errs == nil {
		errs = make(map[string]string)
	}

	var username, email string
	if req.Username != nil {
		username = *req.Username
	}
	if req.Email != nil {
		email = *req.Email
	}
	if err := us.checkUnique(ctx, errs, username, email, user.ID); err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}

	return us.save(ctx, user)
}

func (us *userService) DeleteUser(ctx context.Context, userID string) error {
	id, ok := utils.ParseUUID(userID)
	if !ok {
		return ErrNotFound
	}

	if err := us.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	us.log.Info("User deleted", zap.String("user_id", userID))
	return nil
}

func (us *userService) findUser(ctx context.Context, userID string) (*entity.User, error) {
	id, ok := utils.ParseUUID(userID)
	if !ok {
		return nil, ErrNotFound
	}

	user, err := us.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	return user, nil
}

// checkUnique adds username and email conflicts to errs. Empty values and
// fields that already failed validation are skipped.
func (us *userService) checkUnique(ctx context.Context, errs map[string]string, username, email string, self uuid.UUID) error {
	if _, failed := errs["username"]; !failed && username != "" {
		existing, err := us.userRepo.FindByUsername(ctx, username)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if existing != nil && existing.ID != self {
			errs["username"] = msgUsernameTaken
		}
	}

	if _, failed := errs["email"]; !failed && email != "" {
		taken, err := us.userRepo.EmailTaken(ctx, email, self)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if taken {
			errs["email"] = msgEmailTaken
		}
	}

	return nil
}

func (us *userService) save(ctx context.Context, user *entity.User) (*response.UserResponse, error) {
	user.UpdatedAt = time.Now()

	if err := us.userRepo.Update(ctx, user); err != nil {
		return nil, us.storeError("update", user, err)
	}

	us.log.Info("User updated", zap.String("user_id", user.ID.String()))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) storeError(op string, user *entity.User, err error) error {
	switch {
	case errors.Is(err, repository.ErrUsernameTaken):
		return fieldError("username", msgUsernameTaken)
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	default:
		return fmt.Errorf("%s user %s: %w", op, user.Username, err)
	}
}
