// internal/client/remote.go
package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/lookmate/lookmate-backend/internal/models"
	"github.com/lookmate/lookmate-backend/internal/services"
)

// RemoteAuth authenticates against the backend and keeps the token on the
// API client. When storage is set the token also survives restarts.
type RemoteAuth struct {
	api     *APIClient
	storage Storage
}

func NewRemoteAuth(api *APIClient, storage Storage) *RemoteAuth {
	return &RemoteAuth{api: api, storage: storage}
}

func (a *RemoteAuth) saveToken(token string) {
	a.api.SetToken(token)
	if a.storage == nil {
		return
	}
	if token == "" {
		_ = a.storage.Delete(sharedKey(collectionToken))
		return
	}
	_ = a.storage.Set(sharedKey(collectionToken), []byte(token))
}

// Register creates the account and logs in with the same credentials.
func (a *RemoteAuth) Register(ctx context.Context, req *services.RegisterRequest) (*models.AuthUser, error) {
	if err := a.api.Post(ctx, "/api/auth/register", req, nil); err != nil {
		return nil, err
	}
	return a.Login(ctx, &services.LoginRequest{Email: req.Email, Password: req.Password})
}

func (a *RemoteAuth) Login(ctx context.Context, req *services.LoginRequest) (*models.AuthUser, error) {
	var resp services.AuthResponse
	if err := a.api.Post(ctx, "/api/auth/login", req, &resp); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == 401 {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("login response carried no token")
	}
	a.saveToken(resp.Token)

	user, err := a.Current(ctx)
	if err != nil {
		a.saveToken("")
		return nil, err
	}
	if user == nil {
		a.saveToken("")
		return nil, ErrSessionExpired
	}
	return user, nil
}

// Logout tells the backend and drops the token even when the call fails.
func (a *RemoteAuth) Logout(ctx context.Context) error {
	err := a.api.Post(ctx, "/api/auth/logout", struct{}{}, nil)
	a.saveToken("")
	return err
}

func (a *RemoteAuth) Current(ctx context.Context) (*models.AuthUser, error) {
	if a.api.Token() == "" && a.storage != nil {
		if token, ok, err := a.storage.Get(sharedKey(collectionToken)); err == nil && ok {
			a.api.SetToken(string(token))
		}
	}
	if a.api.Token() == "" {
		return nil, nil
	}
	var user models.AuthUser
	if err := a.api.Get(ctx, "/api/auth/me", &user); err != nil {
		if errors.Is(err, ErrSessionExpired) {
			a.saveToken("")
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// RemoteRepository maps repository calls onto the data API.
type RemoteRepository struct {
	api *APIClient
}

func NewRemoteRepository(api *APIClient) *RemoteRepository {
	return &RemoteRepository{api: api}
}

func (r *RemoteRepository) ListItems(ctx context.Context, _ *models.AuthUser) ([]models.ClothingItem, error) {
	var resp struct {
		Items []models.ClothingItem `json:"items"`
	}
	if err := r.api.Get(ctx, "/api/data/closet", &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Items), nil
}

func (r *RemoteRepository) CreateItem(ctx context.Context, _ *models.AuthUser, req *services.CreateClothingItemRequest) (*models.ClothingItem, error) {
	var resp struct {
		Item models.ClothingItem `json:"item"`
	}
	body := struct {
		Item *services.CreateClothingItemRequest `json:"item"`
	}{Item: req}
	if err := r.api.Post(ctx, "/api/data/closet", body, &resp); err != nil {
		return nil, err
	}
	return &resp.Item, nil
}

func (r *RemoteRepository) UpdateItem(ctx context.Context, _ *models.AuthUser, id uuid.UUID, patch *services.UpdateClothingItemRequest) (*models.ClothingItem, error) {
	var resp struct {
		Item models.ClothingItem `json:"item"`
	}
	body := struct {
		Patch *services.UpdateClothingItemRequest `json:"patch"`
	}{Patch: patch}
	if err := r.api.Put(ctx, "/api/data/closet/"+id.String(), body, &resp); err != nil {
		return nil, err
	}
	return &resp.Item, nil
}

func (r *RemoteRepository) DeleteItem(ctx context.Context, _ *models.AuthUser, id uuid.UUID) error {
	return r.api.Delete(ctx, "/api/data/closet/"+id.String(), nil)
}

func (r *RemoteRepository) ListLooks(ctx context.Context, _ *models.AuthUser) ([]models.Look, error) {
	var resp struct {
		Looks []models.Look `json:"looks"`
	}
	if err := r.api.Get(ctx, "/api/data/looks", &resp); err != nil {
		return nil, err
	}
	if resp.Looks == nil {
		resp.Looks = []models.Look{}
	}
	return resp.Looks, nil
}

func (r *RemoteRepository) CreateLook(ctx context.Context, _ *models.AuthUser, req *services.CreateLookRequest) (*models.Look, error) {
	var resp struct {
		Look models.Look `json:"look"`
	}
	body := struct {
		Look *services.CreateLookRequest `json:"look"`
	}{Look: req}
	if err := r.api.Post(ctx, "/api/data/looks", body, &resp); err != nil {
		return nil, err
	}
	return &resp.Look, nil
}

func (r *RemoteRepository) DeleteLook(ctx context.Context, _ *models.AuthUser, id uuid.UUID) error {
	return r.api.Delete(ctx, "/api/data/looks/"+id.String(), nil)
}

func (r *RemoteRepository) ListPublicLooks(ctx context.Context, _ *models.AuthUser, query FeedQuery) ([]models.PublicLook, error) {
	params := url.Values{}
	if query.Sort != "" {
		params.Set("sort", query.Sort)
	}
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}
	path := "/api/data/public-looks"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var resp struct {
		PublicLooks []models.PublicLook `json:"publicLooks"`
	}
	if err := r.api.Get(ctx, path, &resp); err != nil {
		return nil, err
	}
	if resp.PublicLooks == nil {
		resp.PublicLooks = []models.PublicLook{}
	}
	return resp.PublicLooks, nil
}

func (r *RemoteRepository) Publish(ctx context.Context, _ *models.AuthUser, lookID uuid.UUID) (*models.PublicLook, error) {
	var resp struct {
		PublicLook models.PublicLook `json:"publicLook"`
	}
	if err := r.api.Post(ctx, "/api/data/public-looks", services.PublishRequest{LookID: lookID}, &resp); err != nil {
		return nil, err
	}
	return &resp.PublicLook, nil
}

func (r *RemoteRepository) Unpublish(ctx context.Context, _ *models.AuthUser, publicID string) error {
	return r.api.Delete(ctx, "/api/data/public-looks/"+url.PathEscape(publicID), nil)
}

func (r *RemoteRepository) ToggleReaction(ctx context.Context, _ *models.AuthUser, publicID string, kind models.ReactionKind) (*models.ReactionState, error) {
	path := "/api/data/public-looks/" + url.PathEscape(publicID) + "/" + string(kind)

	var resp struct {
		Liked          *bool `json:"liked"`
		LikesCount     int64 `json:"likesCount"`
		Bookmarked     *bool `json:"bookmarked"`
		BookmarksCount int64 `json:"bookmarksCount"`
	}
	if err := r.api.Post(ctx, path, struct{}{}, &resp); err != nil {
		return nil, err
	}

	switch kind {
	case models.ReactionLike:
		return &models.ReactionState{Active: resp.Liked != nil && *resp.Liked, Count: resp.LikesCount}, nil
	default:
		return &models.ReactionState{Active: resp.Bookmarked != nil && *resp.Bookmarked, Count: resp.BookmarksCount}, nil
	}
}

func nonNil(items []models.ClothingItem) []models.ClothingItem {
	if items == nil {
		return []models.ClothingItem{}
	}
	return items
}
