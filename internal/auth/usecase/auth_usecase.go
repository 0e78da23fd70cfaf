package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"cardvault/internal/auth/config"
	"cardvault/internal/auth/domain/model"
	"cardvault/internal/auth/domain/repository"
	apperrors "cardvault/internal/shared/errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrMissingFields      = errors.New("email, password and confirmPassword are required")
	ErrMissingCredentials = errors.New("email and password are required")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrTokenInvalid       = errors.New("token is invalid")
)

const minPasswordLength = 6

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AuthUsecaseInterface defines the contract for authentication use cases.
type AuthUsecaseInterface interface {
	Signup(ctx context.Context, req SignupRequest) (*model.User, string, error)
	Login(ctx context.Context, req LoginRequest) (*model.User, string, error)
	ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error)
}

// SignupRequest represents the signup request
type SignupRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthUsecase implements the authentication logic.
type AuthUsecase struct {
	repo     repository.AuthRepository
	tokenSvc repository.TokenService
	config   *config.Config
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	repo repository.AuthRepository,
	tokenSvc repository.TokenService,
	cfg *config.Config,
) *AuthUsecase {
	return &AuthUsecase{
		repo:     repo,
		tokenSvc: tokenSvc,
		config:   cfg,
	}
}

// validateEmail validates email format
func (uc *AuthUsecase) validateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmailFormat
	}
	return nil
}

// Signup creates a new user and issues a session token.
func (uc *AuthUsecase) Signup(ctx context.Context, req SignupRequest) (*model.User, string, error) {
	if req.Email == "" || req.Password == "" || req.ConfirmPassword == "" {
		return nil, "", ErrMissingFields
	}

	// Validate the normalized address, not the raw input; padding whitespace is
	// a client artifact, not a format violation.
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := uc.validateEmail(email); err != nil {
		return nil, "", err
	}
	if req.Password != req.ConfirmPassword {
		return nil, "", ErrPasswordMismatch
	}
	if len(req.Password) < minPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	// The unique index on email is the real guard against duplicates; this
	// lookup just gives the common case a clean conflict signal.
	existing, err := uc.repo.GetUserByEmail(ctx, email)
	if err != nil && err != ErrUserNotFound {
		return nil, "", apperrors.NewInfrastructureError("failed to check existing user").
			WithCause(err).WithComponent("auth_usecase")
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperrors.NewInternalError("failed to hash password").
			WithCause(err).WithComponent("auth_usecase")
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := uc.repo.CreateUser(ctx, user); err != nil {
		if err == ErrEmailTaken {
			return nil, "", ErrEmailTaken
		}
		return nil, "", apperrors.NewInfrastructureError("failed to create user").
			WithCause(err).WithComponent("auth_usecase")
	}

	token, err := uc.tokenSvc.GenerateToken(ctx, user.ID, user.Email)
	if err != nil {
		return nil, "", apperrors.NewInternalError("failed to generate token").
			WithCause(err).WithComponent("auth_usecase")
	}

	user.PasswordHash = ""
	return user, token, nil
}

// Login authenticates a user. Unknown email and wrong password collapse into the
// same ErrInvalidCredentials so the caller cannot tell which field was wrong.
func (uc *AuthUsecase) Login(ctx context.Context, req LoginRequest) (*model.User, string, error) {
	if req.Email == "" || req.Password == "" {
		return nil, "", ErrMissingCredentials
	}

	user, err := uc.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if err == ErrUserNotFound {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", apperrors.NewInfrastructureError("failed to get user").
			WithCause(err).WithComponent("auth_usecase")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := uc.tokenSvc.GenerateToken(ctx, user.ID, user.Email)
	if err != nil {
		return nil, "", apperrors.NewInternalError("failed to generate token").
			WithCause(err).WithComponent("auth_usecase")
	}

	user.PasswordHash = ""
	return user, token, nil
}

// ValidateToken validates a JWT string
func (uc *AuthUsecase) ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error) {
	claims, err := uc.tokenSvc.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Ensure AuthUsecase implements AuthUsecaseInterface
var _ AuthUsecaseInterface = (*AuthUsecase)(nil)
