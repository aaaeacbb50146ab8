// internal/services/ai_service.go
package services

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lookmate/lookmate-backend/internal/utils"
)

// The AI endpoints are placeholders. Each returns its input image unchanged
// and says so in meta.note; the response shapes are what clients rely on.
const stubModelVersion = "stub-v1.0"

type AIService struct {
	storageService *StorageService
	now            func() time.Time
}

type AvatarRequest struct {
	Height   *float64 `form:"height" validate:"omitempty,gt=0,lt=300"`
	BodyType string   `form:"bodyType" validate:"omitempty,body_type"`
	Gender   string   `form:"gender" validate:"omitempty,gender"`
}

type AIMeta struct {
	ModelVersion  string   `json:"modelVersion,omitempty"`
	Height        *float64 `json:"height,omitempty"`
	BodyType      string   `json:"bodyType,omitempty"`
	Gender        string   `json:"gender,omitempty"`
	OriginalSize  int64    `json:"originalSize,omitempty"`
	AvatarURL     string   `json:"avatarUrl,omitempty"`
	ClothingCount int      `json:"clothingCount,omitempty"`
	Pose          string   `json:"pose,omitempty"`
	ProcessedAt   string   `json:"processedAt,omitempty"`
	Note          string   `json:"note"`
}

type AvatarResponse struct {
	AvatarURL string `json:"avatarUrl"`
	Meta      AIMeta `json:"meta"`
}

type RemoveBackgroundResponse struct {
	ImageURL string `json:"imageUrl"`
	Meta     AIMeta `json:"meta"`
}

type TryOnRequest struct {
	AvatarImageURL    string   `json:"avatarImageUrl" validate:"required"`
	ClothingImageURLs []string `json:"clothingImageUrls" validate:"required,min=1,dive,required"`
	Pose              string   `json:"pose"`
}

type TryOnResponse struct {
	TryOnImageURL string `json:"tryOnImageUrl"`
	Meta          AIMeta `json:"meta"`
}

func NewAIService(storageService *StorageService) *AIService {
	return &AIService{
		storageService: storageService,
		now:            time.Now,
	}
}

func (s *AIService) GenerateAvatar(ctx context.Context, userID uuid.UUID, face io.Reader, filename string, req *AvatarRequest) (*AvatarResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationFailed(err)
	}

	upload, err := s.storageService.UploadImage(ctx, face, filename, s.storageService.GetDefaultUploadOptions("avatars"))
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":   userID,
		"file":      upload.Key,
		"size":      upload.Size,
		"body_type": req.BodyType,
		"gender":    req.Gender,
	}).Info("Avatar generation request")

	return &AvatarResponse{
		AvatarURL: upload.URL,
		Meta: AIMeta{
			ModelVersion: stubModelVersion,
			Height:       req.Height,
			BodyType:     req.BodyType,
			Gender:       req.Gender,
			Note:         "STUB: Using uploaded face image. Integrate AI model for real avatar generation.",
		},
	}, nil
}

func (s *AIService) RemoveBackground(ctx context.Context, userID uuid.UUID, cloth io.Reader, filename string) (*RemoveBackgroundResponse, error) {
	upload, err := s.storageService.UploadImage(ctx, cloth, filename, s.storageService.GetDefaultUploadOptions("clothes"))
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":   userID,
		"file":      upload.Key,
		"size":      upload.Size,
		"mime_type": upload.MimeType,
	}).Info("Background removal request")

	return &RemoveBackgroundResponse{
		ImageURL: upload.URL,
		Meta: AIMeta{
			OriginalSize: upload.Size,
			ProcessedAt:  s.now().UTC().Format(time.RFC3339),
			Note:         "STUB: Using original image. Integrate background removal API/model for actual processing.",
		},
	}, nil
}

func (s *AIService) TryOn(userID uuid.UUID, req *TryOnRequest) (*TryOnResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationFailed(err)
	}
	pose := req.Pose
	if pose == "" {
		pose = "default"
	}

	logrus.WithFields(logrus.Fields{
		"user_id":        userID,
		"clothing_count": len(req.ClothingImageURLs),
		"pose":           pose,
	}).Info("Virtual try-on request")

	return &TryOnResponse{
		TryOnImageURL: req.AvatarImageURL,
		Meta: AIMeta{
			ModelVersion:  stubModelVersion,
			AvatarURL:     req.AvatarImageURL,
			ClothingCount: len(req.ClothingImageURLs),
			Pose:          pose,
			ProcessedAt:   s.now().UTC().Format(time.RFC3339),
			Note:          "STUB: Returning original avatar. Integrate virtual try-on AI model for actual garment transfer.",
		},
	}, nil
}
