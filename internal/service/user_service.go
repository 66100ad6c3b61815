package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"mailflow/internal/models"
	"mailflow/internal/repository"
)

// UserService handles account registration, login and profile management
type UserService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, jwtSecret string, tokenTTL time.Duration) *UserService {
	return &UserService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// RegisterRequest carries the fields for creating an account
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	Country  string `json:"country,omitempty"`
}

// LoginRequest carries the login credentials
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileRequest carries the mutable profile fields
type ProfileRequest struct {
	Username  string  `json:"username"`
	Phone     *string `json:"phone"`
	Country   *string `json:"country"`
	AvatarURL *string `json:"avatar_url"`
}

// TokenResponse is returned on successful login
type TokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Register creates a new account with a bcrypt-hashed password
func (s *UserService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if len(req.Password) < 8 {
		return nil, &ValidationError{Message: "password must be at least 8 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hash),
	}
	if req.Phone != "" {
		user.Phone = &req.Phone
	}
	if req.Country != "" {
		user.Country = &req.Country
	}

	if err := user.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Resource: "user", Message: "an account with this email already exists"}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and issues a signed bearer token
func (s *UserService) Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &PermissionError{Message: "invalid email or password"}
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, &PermissionError{Message: "invalid email or password"}
	}

	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(user.ID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &TokenResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// VerifyToken parses a bearer token and loads the account it names
func (s *UserService) VerifyToken(ctx context.Context, tokenString string) (*models.User, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, &PermissionError{Message: "invalid or expired token"}
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil, &PermissionError{Message: "invalid token claims"}
	}

	userID, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return nil, &PermissionError{Message: "invalid token subject"}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &PermissionError{Message: "account no longer exists"}
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return user, nil
}

// GetProfile returns the caller's own account
func (s *UserService) GetProfile(ctx context.Context, userID int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "user", ID: userID}
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateProfile updates the caller's own profile fields. Email and role
// flags are not editable through this path.
func (s *UserService) UpdateProfile(ctx context.Context, userID int, req *ProfileRequest) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Username = req.Username
	user.Phone = req.Phone
	user.Country = req.Country
	user.AvatarURL = req.AvatarURL

	if err := user.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}
