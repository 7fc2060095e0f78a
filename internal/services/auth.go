// Package services contains the request-independent business logic. This
// file implements AuthService: sign-up, sign-in and current-user lookup.
package services

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rohits-web03/chatterbox/internal/apperror"
	"github.com/rohits-web03/chatterbox/internal/auth"
	"github.com/rohits-web03/chatterbox/internal/logging"
	"github.com/rohits-web03/chatterbox/internal/models"
	"github.com/rohits-web03/chatterbox/internal/repositories"
)

// PasswordHasher hashes passwords with a random salt and checks candidates.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, hash string) (bool, error)
}

// TokenIssuer mints a signed bearer token for a user id.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type SignUpInput struct {
	Username   string `validate:"required"`
	Email      string `validate:"required"`
	Password   string `validate:"required"`
	PictureURL string
}

// SignInInput identifies the user by Username or Email. When both are set
// Username wins and Email is never looked up.
type SignInInput struct {
	Username string `validate:"required_without=Email"`
	Email    string `validate:"required_without=Username"`
	Password string `validate:"required"`
}

// AuthResult is returned by a successful sign-up or sign-in.
type AuthResult struct {
	User  *models.User
	Token string
}

const (
	msgFieldsRequired     = "All fields are required"
	msgPasswordTooLong    = "Password is too long"
	msgUsernameTaken      = "Username already exists"
	msgEmailTaken         = "Email already exists"
	msgUserExists         = "User already exists"
	msgUserNotFound       = "User not found"
	msgInvalidCredentials = "Invalid credentials"
	msgInternal           = "Internal server error"
)

type AuthService struct {
	users    repositories.UserStore
	hasher   PasswordHasher
	tokens   TokenIssuer
	validate *validator.Validate
	logger   logging.Logger
}

func NewAuthService(users repositories.UserStore, hasher PasswordHasher, tokens TokenIssuer, logger logging.Logger) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// SignUp registers a new user and issues its first token. A validation
// failure ends the request; nothing is looked up or written.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*AuthResult, error) {
	if err := s.validate.StructCtx(ctx, in); err != nil {
		return nil, apperror.NewValidationError(msgFieldsRequired, err)
	}

	if err := s.ensureAbsent(ctx, s.users.FindByUsername, in.Username, msgUsernameTaken); err != nil {
		return nil, err
	}
	if err := s.ensureAbsent(ctx, s.users.FindByEmail, in.Email, msgEmailTaken); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperror.NewValidationError(msgPasswordTooLong, err)
		}
		return nil, apperror.NewInternalError(msgInternal, err)
	}

	pictureURL := in.PictureURL
	if pictureURL == "" {
		pictureURL = models.DefaultPictureURL
	}
	user := &models.User{
		Username:   in.Username,
		Email:      in.Email,
		Password:   hash,
		PictureURL: pictureURL,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Lost a race against a concurrent sign-up; the unique index decided.
		if errors.Is(err, repositories.ErrUserExists) {
			return nil, apperror.NewConflictError(msgUserExists, err)
		}
		return nil, apperror.NewInternalError(msgInternal, err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperror.NewInternalError(msgInternal, err)
	}

	s.logger.Info(ctx, "user signed up", "user_id", user.ID)
	return &AuthResult{User: user, Token: token}, nil
}

// SignIn checks the password of the user named by Username, or by Email when
// Username is empty. It never modifies the user.
func (s *AuthService) SignIn(ctx context.Context, in SignInInput) (*AuthResult, error) {
	if err := s.validate.StructCtx(ctx, in); err != nil {
		return nil, apperror.NewValidationError(msgFieldsRequired, err)
	}

	var (
		user *models.User
		err  error
	)
	if in.Username != "" {
		user, err = s.users.FindByUsername(ctx, in.Username)
	} else {
		user, err = s.users.FindByEmail(ctx, in.Email)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperror.NewNotFoundError(msgUserNotFound, err)
		}
		return nil, apperror.NewInternalError(msgInternal, err)
	}

	ok, err := s.hasher.Verify(ctx, in.Password, user.Password)
	if err != nil {
		return nil, apperror.NewInternalError(msgInternal, err)
	}
	if !ok {
		return nil, apperror.NewInvalidCredentialsError(msgInvalidCredentials, nil)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperror.NewInternalError(msgInternal, err)
	}

	s.logger.Info(ctx, "user signed in", "user_id", user.ID)
	return &AuthResult{User: user, Token: token}, nil
}

// CurrentUser loads the user a verified token belongs to.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperror.NewNotFoundError(msgUserNotFound, err)
		}
		return nil, apperror.NewInternalError(msgInternal, err)
	}
	return user, nil
}

func (s *AuthService) ensureAbsent(
	ctx context.Context,
	find func(context.Context, string) (*models.User, error),
	value, conflictMsg string,
) error {
	_, err := find(ctx, value)
	switch {
	case err == nil:
		return apperror.NewConflictError(conflictMsg, nil)
	case errors.Is(err, repositories.ErrUserNotFound):
		return nil
	default:
		return apperror.NewInternalError(msgInternal, err)
	}
}
