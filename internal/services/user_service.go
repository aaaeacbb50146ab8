// internal/services/user_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lookmate/lookmate-backend/internal/models"
	"github.com/lookmate/lookmate-backend/internal/utils"
)

type UserService struct {
	db *gorm.DB
}

type UpdateUserProfileRequest struct {
	DisplayName *string `json:"displayName,omitempty" validate:"omitempty,min=1,max=50"`
	Height      *int    `json:"height,omitempty" validate:"omitempty,min=50,max=250"`
	BodyType    *string `json:"bodyType,omitempty" validate:"omitempty,body_type"`
	Gender      *string `json:"gender,omitempty" validate:"omitempty,gender"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		db: db,
	}
}

func (s *UserService) GetUserByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

// GetOrCreateByEmail resolves the account for legacy email-identified
// requests, creating a passwordless account on first sight.
func (s *UserService) GetOrCreateByEmail(email, displayName string) (*models.User, error) {
	email = normalizeEmail(email)
	if err := utils.ValidateVar(email, "required,email"); err != nil {
		return nil, validationFailed(err)
	}
	if displayName = strings.TrimSpace(displayName); displayName == "" {
		displayName = strings.SplitN(email, "@", 2)[0]
	}

	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	user = models.User{Email: email, DisplayName: displayName}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent request for the same email
			if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
				return nil, fmt.Errorf("database error: %w", err)
			}
			return &user, nil
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

func (s *UserService) UpdateProfile(userID uuid.UUID, req *UpdateUserProfileRequest) (*models.User, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationFailed(err)
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.DisplayName != nil {
		updates["display_name"] = strings.TrimSpace(*req.DisplayName)
	}
	if req.Height != nil {
		updates["height"] = *req.Height
	}
	if req.BodyType != nil {
		updates["body_type"] = *req.BodyType
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = *req.AvatarURL
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	return s.GetUserByID(userID)
}
