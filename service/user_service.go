package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"emysore/models"
	"emysore/repository"
	"emysore/utils"
)

// UserService handles registration, authentication and user lookups
type UserService struct {
	userRepo  *repository.UserRepository
	jwtSecret string
	tokenTTL  int
}

// NewUserService creates a new user service
func NewUserService(userRepo *repository.UserRepository, jwtSecret string, tokenTTLHours int) *UserService {
	return &UserService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTLHours,
	}
}

// Register creates a new citizen account
func (s *UserService) Register(req *models.RegisterRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || email == "" || req.Password == "" {
		return nil, models.ErrMissingRequiredFields
	}

	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, models.ErrEmailTaken
	} else if !errors.Is(err, models.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        sql.NullString{String: email, Valid: true},
		PasswordHash: hash,
		Role:         models.RoleCitizen,
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		user.Phone = sql.NullString{String: phone, Valid: true}
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a signed token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *UserService) Login(req *models.LoginRequest) (*models.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return nil, models.ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.UserID, string(user.Role), s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.LoginResponse{
		Token: token,
		User:  models.UserToResponse(user),
	}, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(userID int64) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}
