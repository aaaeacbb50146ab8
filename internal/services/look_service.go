// internal/services/look_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/lookmate/lookmate-backend/internal/database"
	"github.com/lookmate/lookmate-backend/internal/models"
	"github.com/lookmate/lookmate-backend/internal/utils"
)

type LookService struct {
	db             *gorm.DB
	closetService  *ClosetService
	storageService *StorageService
}

type CreateLookRequest struct {
	Name        string                `json:"name" validate:"max=100"`
	ItemIDs     []uuid.UUID           `json:"itemIds"`
	Layers      []models.FittingLayer `json:"layers" validate:"max=50"`
	SnapshotURL *string               `json:"snapshotUrl"`
	Tags        []string              `json:"tags" validate:"max=30,dive,max=30"`
}

func NewLookService(db *gorm.DB, closetService *ClosetService, storageService *StorageService) *LookService {
	return &LookService{
		db:             db,
		closetService:  closetService,
		storageService: storageService,
	}
}

func (s *LookService) ListLooks(userID uuid.UUID) ([]models.Look, error) {
	looks := []models.Look{}
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&looks).Error; err != nil {
		return nil, fmt.Errorf("failed to list looks: %w", err)
	}
	return looks, nil
}

// CreateLook saves a composition. The referenced closet items are copied
// into the look so later edits or deletes in the closet leave it intact.
func (s *LookService) CreateLook(ctx context.Context, userID uuid.UUID, req *CreateLookRequest) (*models.Look, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationFailed(err)
	}

	items, err := s.closetService.ItemsByIDs(s.db, userID, req.referencedIDs())
	if err != nil {
		return nil, err
	}

	look := req.NewLook(userID, items)
	look.SnapshotURL = s.storeSnapshot(ctx, userID, req.SnapshotURL)

	if err := s.db.Create(look).Error; err != nil {
		return nil, fmt.Errorf("failed to create look: %w", err)
	}
	return look, nil
}

// referencedIDs is ItemIDs, or the layer clothing ids when none are given.
func (req *CreateLookRequest) referencedIDs() []uuid.UUID {
	if len(req.ItemIDs) > 0 {
		return req.ItemIDs
	}
	return dedupeLayers(req.Layers).ClothingIDs()
}

// NewLook builds an unsaved look. Referenced items found in closet are copied
// into the look; closet may hold unrelated items as well.
func (req *CreateLookRequest) NewLook(userID uuid.UUID, closet []models.ClothingItem) *models.Look {
	owned := make([]models.ClothingItem, 0, len(closet))
	for _, item := range closet {
		if item.UserID == userID {
			owned = append(owned, item)
		}
	}

	return &models.Look{
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		Items:       models.SnapshotItems(owned, req.referencedIDs()),
		Layers:      dedupeLayers(req.Layers),
		SnapshotURL: req.SnapshotURL,
		Tags:        models.StringList(req.Tags).Normalize(),
	}
}

// storeSnapshot moves an inline data URL snapshot into object storage.
// Storage failures keep the inline value; the look is saved either way.
func (s *LookService) storeSnapshot(ctx context.Context, userID uuid.UUID, snapshot *string) *string {
	if snapshot == nil || *snapshot == "" {
		return nil
	}
	if s.storageService == nil || !strings.HasPrefix(*snapshot, "data:image/") {
		return snapshot
	}

	result, err := s.storageService.UploadDataURL(ctx, *snapshot, s.storageService.GetDefaultUploadOptions("snapshots"))
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Failed to store look snapshot, keeping inline copy")
		return snapshot
	}
	return &result.URL
}

// dedupeLayers keeps the first layer for each clothing id, in order.
func dedupeLayers(layers []models.FittingLayer) models.FittingLayers {
	out := make(models.FittingLayers, 0, len(layers))
	seen := make(map[uuid.UUID]struct{}, len(layers))
	for _, layer := range layers {
		if _, ok := seen[layer.ClothingID]; ok {
			continue
		}
		seen[layer.ClothingID] = struct{}{}
		out = append(out, layer)
	}
	return out
}

func (s *LookService) getOwnedLook(db *gorm.DB, id, userID uuid.UUID) (*models.Look, error) {
	var look models.Look
	if err := db.Where("id = ?", id).First(&look).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLookNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if look.UserID != userID {
		return nil, ErrForbidden
	}
	return &look, nil
}

func (s *LookService) GetLook(id, userID uuid.UUID) (*models.Look, error) {
	return s.getOwnedLook(s.db, id, userID)
}

// DeleteLook removes a look along with its publication and the reactions to it.
func (s *LookService) DeleteLook(id, userID uuid.UUID) error {
	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		look, err := s.getOwnedLook(tx, id, userID)
		if err != nil {
			return err
		}

		var publicLook models.PublicLook
		err = tx.Where("look_id = ?", look.ID).First(&publicLook).Error
		switch {
		case err == nil:
			if err := deletePublicLook(tx, &publicLook); err != nil {
				return err
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("database error: %w", err)
		}

		if err := tx.Delete(look).Error; err != nil {
			return fmt.Errorf("failed to delete look: %w", err)
		}
		return nil
	})
}
