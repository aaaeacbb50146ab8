// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lookmate/lookmate-backend/internal/config"
	"github.com/lookmate/lookmate-backend/internal/models"
	"github.com/lookmate/lookmate-backend/internal/utils"
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,max=72"`
	DisplayName string `json:"displayName" validate:"required,max=50"`
}

type AuthResponse struct {
	Token string          `json:"token"`
	User  models.AuthUser `json:"user"`
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:  db,
		cfg: cfg,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(req *RegisterRequest) (*models.User, error) {
	req.Email = normalizeEmail(req.Email)
	req.DisplayName = strings.TrimSpace(req.DisplayName)

	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationFailed(err)
	}

	// Check if user already exists
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	user := &models.User{
		Email:       req.Email,
		DisplayName: req.DisplayName,
	}

	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)

	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationFailed(err)
	}

	// Find user by email
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Legacy accounts created by email only have no password
	if user.PasswordHash == "" || user.CheckPassword(req.Password) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.IssueToken(&user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: user.ToAuthUser()}, nil
}

// IssueToken signs an access token carrying {id, email, displayName}.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	token, err := utils.GenerateJWT(user.ID.String(), user.Email, user.DisplayName, s.cfg.JWT.ExpiresIn)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return token, nil
}

// Me returns the identity for a token subject, failing if the account is gone.
func (s *AuthService) Me(userID uuid.UUID) (*models.AuthUser, error) {
	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	me := user.ToAuthUser()
	return &me, nil
}
