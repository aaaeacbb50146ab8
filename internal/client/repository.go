// internal/client/repository.go
package client

import (
	"context"

	"github.com/google/uuid"

	"github.com/lookmate/lookmate-backend/internal/models"
	"github.com/lookmate/lookmate-backend/internal/services"
)

// Mode is chosen once per process from the configured backend URL.
type Mode string

const (
	ModeLocal   Mode = "local"
	ModeBackend Mode = "backend"
)

// FeedQuery selects a page of the public feed.
type FeedQuery struct {
	Sort  string
	Limit int
}

// Authenticator signs users in and out.
type Authenticator interface {
	Register(ctx context.Context, req *services.RegisterRequest) (*models.AuthUser, error)
	Login(ctx context.Context, req *services.LoginRequest) (*models.AuthUser, error)
	Logout(ctx context.Context) error
	// Current restores a previous session. It returns nil without error when
	// there is none.
	Current(ctx context.Context) (*models.AuthUser, error)
}

// Repository is CRUD over a user's closet, looks and the public feed.
type Repository interface {
	ListItems(ctx context.Context, user *models.AuthUser) ([]models.ClothingItem, error)
	CreateItem(ctx context.Context, user *models.AuthUser, req *services.CreateClothingItemRequest) (*models.ClothingItem, error)
	UpdateItem(ctx context.Context, user *models.AuthUser, id uuid.UUID, patch *services.UpdateClothingItemRequest) (*models.ClothingItem, error)
	DeleteItem(ctx context.Context, user *models.AuthUser, id uuid.UUID) error

	ListLooks(ctx context.Context, user *models.AuthUser) ([]models.Look, error)
	CreateLook(ctx context.Context, user *models.AuthUser, req *services.CreateLookRequest) (*models.Look, error)
	DeleteLook(ctx context.Context, user *models.AuthUser, id uuid.UUID) error

	// ListPublicLooks works without a user; viewer may be nil.
	ListPublicLooks(ctx context.Context, viewer *models.AuthUser, query FeedQuery) ([]models.PublicLook, error)
	Publish(ctx context.Context, user *models.AuthUser, lookID uuid.UUID) (*models.PublicLook, error)
	Unpublish(ctx context.Context, user *models.AuthUser, publicID string) error
	ToggleReaction(ctx context.Context, user *models.AuthUser, publicID string, kind models.ReactionKind) (*models.ReactionState, error)
}
