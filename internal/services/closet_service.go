// internal/services/closet_service.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lookmate/lookmate-backend/internal/models"
	"github.com/lookmate/lookmate-backend/internal/utils"
)

type ClosetService struct {
	db *gorm.DB
}

type CreateClothingItemRequest struct {
	ImageURL         string   `json:"imageUrl" validate:"required"`
	OriginalImageURL string   `json:"originalImageUrl"`
	Category         string   `json:"category" validate:"required,category"`
	Color            string   `json:"color" validate:"max=50"`
	Brand            string   `json:"brand" validate:"max=100"`
	Size             string   `json:"size" validate:"max=20"`
	Season           string   `json:"season" validate:"season"`
	Memo             string   `json:"memo" validate:"max=1000"`
	IsFavorite       bool     `json:"isFavorite"`
	ShoppingURL      string   `json:"shoppingUrl" validate:"omitempty,url"`
	Price            *float64 `json:"price" validate:"omitempty,gte=0"`
	IsPurchased      bool     `json:"isPurchased"`
	Tags             []string `json:"tags" validate:"max=30,dive,max=30"`
}

type UpdateClothingItemRequest struct {
	ImageURL    *string       `json:"imageUrl,omitempty" validate:"omitempty,min=1"`
	Category    *string       `json:"category,omitempty" validate:"omitempty,category"`
	Color       *string       `json:"color,omitempty" validate:"omitempty,max=50"`
	Brand       *string       `json:"brand,omitempty" validate:"omitempty,max=100"`
	Size        *string       `json:"size,omitempty" validate:"omitempty,max=20"`
	Season      *string       `json:"season,omitempty" validate:"omitempty,season"`
	Memo        *string       `json:"memo,omitempty" validate:"omitempty,max=1000"`
	IsFavorite  *bool         `json:"isFavorite,omitempty"`
	ShoppingURL *string       `json:"shoppingUrl,omitempty"`
	Price       OptionalFloat `json:"price"`
	IsPurchased *bool         `json:"isPurchased,omitempty"`
	Tags        []string      `json:"tags,omitempty" validate:"omitempty,max=30,dive,max=30"`
}

func NewClosetService(db *gorm.DB) *ClosetService {
	return &ClosetService{
		db: db,
	}
}

// ListItems returns the user's closet, newest first.
func (s *ClosetService) ListItems(userID uuid.UUID) ([]models.ClothingItem, error) {
	items := []models.ClothingItem{}
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list closet: %w", err)
	}
	return items, nil
}

func (s *ClosetService) CreateItem(userID uuid.UUID, req *CreateClothingItemRequest) (*models.ClothingItem, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationFailed(err)
	}

	item := req.NewItem(userID)
	if err := s.db.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create clothing item: %w", err)
	}

	return item, nil
}

// NewItem builds an unsaved item owned by userID. Favorite and purchased
// default to false and price to null when the request leaves them out.
func (req *CreateClothingItemRequest) NewItem(userID uuid.UUID) *models.ClothingItem {
	item := &models.ClothingItem{
		UserID:           userID,
		ImageURL:         req.ImageURL,
		OriginalImageURL: req.OriginalImageURL,
		Category:         models.Category(req.Category),
		Color:            req.Color,
		Brand:            req.Brand,
		Size:             req.Size,
		Season:           models.Season(req.Season),
		Memo:             req.Memo,
		IsFavorite:       req.IsFavorite,
		ShoppingURL:      req.ShoppingURL,
		Price:            req.Price,
		IsPurchased:      req.IsPurchased,
		Tags:             models.StringList(req.Tags).Normalize(),
	}
	if item.OriginalImageURL == "" {
		item.OriginalImageURL = item.ImageURL
	}
	return item
}

// getOwnedItem loads an item and verifies that userID owns it.
func (s *ClosetService) getOwnedItem(db *gorm.DB, id, userID uuid.UUID) (*models.ClothingItem, error) {
	var item models.ClothingItem
	if err := db.Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if item.UserID != userID {
		return nil, ErrForbidden
	}
	return &item, nil
}

func (s *ClosetService) GetItem(id, userID uuid.UUID) (*models.ClothingItem, error) {
	return s.getOwnedItem(s.db, id, userID)
}

func (s *ClosetService) UpdateItem(id, userID uuid.UUID, req *UpdateClothingItemRequest) (*models.ClothingItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item, err := s.getOwnedItem(s.db, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Apply(item) {
		if err := s.db.Save(item).Error; err != nil {
			return nil, fmt.Errorf("failed to update clothing item: %w", err)
		}
	}

	return s.getOwnedItem(s.db, id, userID)
}

func (req *UpdateClothingItemRequest) Validate() error {
	if err := utils.ValidateStruct(req); err != nil {
		return validationFailed(err)
	}
	if req.Price.Value != nil && *req.Price.Value < 0 {
		return validationFailed(errors.New("price must be zero or greater"))
	}
	return nil
}

// Apply merges the patch into item and reports whether any field was present.
func (req *UpdateClothingItemRequest) Apply(item *models.ClothingItem) bool {
	changed := false
	setString := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
			changed = true
		}
	}
	setBool := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
			changed = true
		}
	}

	setString(&item.ImageURL, req.ImageURL)
	setString(&item.Color, req.Color)
	setString(&item.Brand, req.Brand)
	setString(&item.Size, req.Size)
	setString(&item.Memo, req.Memo)
	setString(&item.ShoppingURL, req.ShoppingURL)
	setBool(&item.IsFavorite, req.IsFavorite)
	setBool(&item.IsPurchased, req.IsPurchased)
	if req.Category != nil {
		item.Category = models.Category(*req.Category)
		changed = true
	}
	if req.Season != nil {
		item.Season = models.Season(*req.Season)
		changed = true
	}
	if req.Price.Set {
		item.Price = req.Price.Value
		changed = true
	}
	if req.Tags != nil {
		item.Tags = models.StringList(req.Tags).Normalize()
		changed = true
	}
	return changed
}

// MarshalJSON leaves price out unless it was set, so an encoded patch keeps
// its meaning on the other side.
func (req UpdateClothingItemRequest) MarshalJSON() ([]byte, error) {
	type plain UpdateClothingItemRequest
	out := struct {
		plain
		Price *OptionalFloat `json:"price,omitempty"`
	}{plain: plain(req)}
	if req.Price.Set {
		price := req.Price
		out.Price = &price
	}
	return json.Marshal(out)
}

// DeleteItem removes a closet item. Looks that captured it keep their snapshot.
func (s *ClosetService) DeleteItem(id, userID uuid.UUID) error {
	item, err := s.getOwnedItem(s.db, id, userID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(item).Error; err != nil {
		return fmt.Errorf("failed to delete clothing item: %w", err)
	}
	return nil
}

// ItemsByIDs returns the user's items among ids, ignoring ids owned by others.
func (s *ClosetService) ItemsByIDs(db *gorm.DB, userID uuid.UUID, ids []uuid.UUID) ([]models.ClothingItem, error) {
	items := []models.ClothingItem{}
	if len(ids) == 0 {
		return items, nil
	}
	if err := db.Where("user_id = ? AND id IN ?", userID, ids).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load clothing items: %w", err)
	}
	return items, nil
}
