// internal/client/local.go
package client

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lookmate/lookmate-backend/internal/models"
	"github.com/lookmate/lookmate-backend/internal/services"
	"github.com/lookmate/lookmate-backend/internal/utils"
)

const (
	collectionCloset      = "closet"
	collectionLooks       = "looks"
	collectionPublicLooks = "public-looks"
	collectionUsers       = "users"
	collectionSession     = "session"
	collectionToken       = "token"

	localMinPassword = 6
)

type localAccount struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// LocalAuth keeps accounts and the current session in Storage. Passwords are
// stored as bcrypt hashes.
type LocalAuth struct {
	storage Storage
	mu      sync.Mutex
	now     func() time.Time
}

func NewLocalAuth(storage Storage) *LocalAuth {
	return &LocalAuth{storage: storage, now: time.Now}
}

func (a *LocalAuth) accounts() ([]localAccount, error) {
	accounts := []localAccount{}
	if _, err := loadJSON(a.storage, sharedKey(collectionUsers), &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// Register creates the account and starts a session for it.
func (a *LocalAuth) Register(_ context.Context, req *services.RegisterRequest) (*models.AuthUser, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(req.Password) < localMinPassword {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, localMinPassword)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	accounts, err := a.accounts()
	if err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	for _, acc := range accounts {
		if acc.Email == email {
			return nil, ErrConflict
		}
	}

	user := models.User{Email: email, DisplayName: strings.TrimSpace(req.DisplayName)}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	acc := localAccount{
		ID:           uuid.New(),
		Email:        user.Email,
		DisplayName:  user.DisplayName,
		PasswordHash: user.PasswordHash,
		CreatedAt:    a.now(),
	}
	if err := saveJSON(a.storage, sharedKey(collectionUsers), append(accounts, acc)); err != nil {
		return nil, err
	}

	return a.startSession(acc)
}

func (a *LocalAuth) Login(_ context.Context, req *services.LoginRequest) (*models.AuthUser, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	accounts, err := a.accounts()
	if err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	for _, acc := range accounts {
		if acc.Email != email {
			continue
		}
		user := models.User{PasswordHash: acc.PasswordHash}
		if user.CheckPassword(req.Password) != nil {
			return nil, ErrInvalidCredentials
		}
		return a.startSession(acc)
	}
	return nil, ErrInvalidCredentials
}

func (a *LocalAuth) startSession(acc localAccount) (*models.AuthUser, error) {
	user := &models.AuthUser{ID: acc.ID.String(), Email: acc.Email, DisplayName: acc.DisplayName}
	if err := saveJSON(a.storage, sharedKey(collectionSession), user); err != nil {
		return nil, err
	}
	return user, nil
}

func (a *LocalAuth) Logout(context.Context) error {
	return a.storage.Delete(sharedKey(collectionSession))
}

// Current returns the stored session if its account still exists.
func (a *LocalAuth) Current(context.Context) (*models.AuthUser, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var user models.AuthUser
	ok, err := loadJSON(a.storage, sharedKey(collectionSession), &user)
	if err != nil || !ok {
		return nil, err
	}

	accounts, err := a.accounts()
	if err != nil {
		return nil, err
	}
	for _, acc := range accounts {
		if acc.ID.String() == user.ID {
			return &user, nil
		}
	}
	// Stale session
	return nil, a.storage.Delete(sharedKey(collectionSession))
}

type reactionKey struct {
	userID   string
	publicID string
	kind     models.ReactionKind
}

// LocalRepository stores each user's closet and looks under their own key
// and the public feed under a shared key. Reactions live only in memory and
// are lost when the process exits.
type LocalRepository struct {
	storage Storage
	mu      sync.Mutex
	now     func() time.Time

	reactions map[reactionKey]bool
	deltas    map[string]map[models.ReactionKind]int64
}

func NewLocalRepository(storage Storage) *LocalRepository {
	return &LocalRepository{
		storage:   storage,
		now:       time.Now,
		reactions: make(map[reactionKey]bool),
		deltas:    make(map[string]map[models.ReactionKind]int64),
	}
}

func ownerID(user *models.AuthUser) (uuid.UUID, error) {
	if user == nil {
		return uuid.Nil, ErrNotAuthenticated
	}
	id, err := uuid.Parse(user.ID)
	if err != nil {
		return uuid.Nil, ErrNotAuthenticated
	}
	return id, nil
}

// loadItems reads the stored closet. Callers hold r.mu.
func (r *LocalRepository) loadItems(userID string) ([]models.ClothingItem, error) {
	items := []models.ClothingItem{}
	if _, err := loadJSON(r.storage, userKey(userID, collectionCloset), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *LocalRepository) loadLooks(userID string) ([]models.Look, error) {
	looks := []models.Look{}
	if _, err := loadJSON(r.storage, userKey(userID, collectionLooks), &looks); err != nil {
		return nil, err
	}
	return looks, nil
}

func (r *LocalRepository) loadPublicLooks() ([]models.PublicLook, error) {
	looks := []models.PublicLook{}
	if _, err := loadJSON(r.storage, sharedKey(collectionPublicLooks), &looks); err != nil {
		return nil, err
	}
	return looks, nil
}

// SaveItems replaces the stored closet. Backend mode uses it to mirror state.
func (r *LocalRepository) SaveItems(user *models.AuthUser, items []models.ClothingItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return saveJSON(r.storage, userKey(user.ID, collectionCloset), items)
}

// SaveLooks replaces the stored looks.
func (r *LocalRepository) SaveLooks(user *models.AuthUser, looks []models.Look) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return saveJSON(r.storage, userKey(user.ID, collectionLooks), looks)
}

func (r *LocalRepository) ListItems(_ context.Context, user *models.AuthUser) ([]models.ClothingItem, error) {
	if _, err := ownerID(user); err != nil {
		return []models.ClothingItem{}, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadItems(user.ID)
}

func (r *LocalRepository) CreateItem(_ context.Context, user *models.AuthUser, req *services.CreateClothingItemRequest) (*models.ClothingItem, error) {
	uid, err := ownerID(user)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.loadItems(user.ID)
	if err != nil {
		return nil, err
	}

	item := req.NewItem(uid)
	item.ID = uuid.New()
	item.CreatedAt = r.now()
	item.UpdatedAt = item.CreatedAt

	if err := saveJSON(r.storage, userKey(user.ID, collectionCloset), append([]models.ClothingItem{*item}, items...)); err != nil {
		return nil, err
	}
	return item, nil
}

func (r *LocalRepository) UpdateItem(_ context.Context, user *models.AuthUser, id uuid.UUID, patch *services.UpdateClothingItemRequest) (*models.ClothingItem, error) {
	uid, err := ownerID(user)
	if err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.loadItems(user.ID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID != id {
			continue
		}
		if items[i].UserID != uid {
			return nil, ErrForbidden
		}
		if patch.Apply(&items[i]) {
			items[i].UpdatedAt = r.now()
		}
		if err := saveJSON(r.storage, userKey(user.ID, collectionCloset), items); err != nil {
			return nil, err
		}
		updated := items[i]
		return &updated, nil
	}
	return nil, ErrNotFound
}

func (r *LocalRepository) DeleteItem(_ context.Context, user *models.AuthUser, id uuid.UUID) error {
	uid, err := ownerID(user)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.loadItems(user.ID)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID != id {
			continue
		}
		if items[i].UserID != uid {
			return ErrForbidden
		}
		items = append(items[:i], items[i+1:]...)
		return saveJSON(r.storage, userKey(user.ID, collectionCloset), items)
	}
	return ErrNotFound
}

func (r *LocalRepository) ListLooks(_ context.Context, user *models.AuthUser) ([]models.Look, error) {
	if _, err := ownerID(user); err != nil {
		return []models.Look{}, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLooks(user.ID)
}

// CreateLook copies the referenced closet items into the new look.
func (r *LocalRepository) CreateLook(_ context.Context, user *models.AuthUser, req *services.CreateLookRequest) (*models.Look, error) {
	uid, err := ownerID(user)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.loadItems(user.ID)
	if err != nil {
		return nil, err
	}
	looks, err := r.loadLooks(user.ID)
	if err != nil {
		return nil, err
	}

	look := req.NewLook(uid, items)
	look.ID = uuid.New()
	look.CreatedAt = r.now()
	look.UpdatedAt = look.CreatedAt

	if err := saveJSON(r.storage, userKey(user.ID, collectionLooks), append([]models.Look{*look}, looks...)); err != nil {
		return nil, err
	}
	return look, nil
}

// DeleteLook also takes the look off the public feed.
func (r *LocalRepository) DeleteLook(_ context.Context, user *models.AuthUser, id uuid.UUID) error {
	uid, err := ownerID(user)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	looks, err := r.loadLooks(user.ID)
	if err != nil {
		return err
	}
	idx := -1
	for i := range looks {
		if looks[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	if looks[idx].UserID != uid {
		return ErrForbidden
	}

	public, err := r.loadPublicLooks()
	if err != nil {
		return err
	}
	kept := public[:0]
	for _, pl := range public {
		if pl.LookID != id {
			kept = append(kept, pl)
		}
	}
	if err := saveJSON(r.storage, sharedKey(collectionPublicLooks), kept); err != nil {
		return err
	}

	looks = append(looks[:idx], looks[idx+1:]...)
	return saveJSON(r.storage, userKey(user.ID, collectionLooks), looks)
}

func (r *LocalRepository) ListPublicLooks(_ context.Context, viewer *models.AuthUser, query FeedQuery) ([]models.PublicLook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	looks, err := r.loadPublicLooks()
	if err != nil {
		return nil, err
	}

	for i := range looks {
		looks[i].LikesCount = r.countLocked(looks[i], models.ReactionLike)
		looks[i].BookmarksCount = r.countLocked(looks[i], models.ReactionBookmark)
		if viewer != nil {
			liked := r.reactions[reactionKey{viewer.ID, looks[i].PublicID, models.ReactionLike}]
			bookmarked := r.reactions[reactionKey{viewer.ID, looks[i].PublicID, models.ReactionBookmark}]
			looks[i].Liked = &liked
			looks[i].Bookmarked = &bookmarked
		}
	}

	sort.SliceStable(looks, func(i, j int) bool {
		if query.Sort == services.FeedSortLikes && looks[i].LikesCount != looks[j].LikesCount {
			return looks[i].LikesCount > looks[j].LikesCount
		}
		return looks[i].CreatedAt.After(looks[j].CreatedAt)
	})

	limit := query.Limit
	if limit <= 0 {
		limit = utils.DefaultFeedLimit
	}
	if limit > utils.MaxFeedLimit {
		limit = utils.MaxFeedLimit
	}
	if len(looks) > limit {
		looks = looks[:limit]
	}
	return looks, nil
}

// Publish is idempotent per look: a second call returns the existing entry.
func (r *LocalRepository) Publish(_ context.Context, user *models.AuthUser, lookID uuid.UUID) (*models.PublicLook, error) {
	uid, err := ownerID(user)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	looks, err := r.loadLooks(user.ID)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range looks {
		if looks[i].ID == lookID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrNotFound
	}
	if looks[idx].UserID != uid {
		return nil, ErrForbidden
	}

	public, err := r.loadPublicLooks()
	if err != nil {
		return nil, err
	}
	for _, pl := range public {
		if pl.LookID == lookID {
			existing := pl
			return &existing, nil
		}
	}

	now := r.now()
	publicID, err := utils.GeneratePublicID(now)
	if err != nil {
		return nil, err
	}
	pl := models.NewPublicLook(&looks[idx], uid, user.DisplayName, user.Email, publicID)
	pl.ID = uuid.New()
	pl.CreatedAt = now
	pl.UpdatedAt = now

	if err := saveJSON(r.storage, sharedKey(collectionPublicLooks), append([]models.PublicLook{*pl}, public...)); err != nil {
		return nil, err
	}

	looks[idx].IsPublic = true
	looks[idx].PublicID = &publicID
	if err := saveJSON(r.storage, userKey(user.ID, collectionLooks), looks); err != nil {
		return nil, err
	}
	return pl, nil
}

func (r *LocalRepository) Unpublish(_ context.Context, user *models.AuthUser, publicID string) error {
	uid, err := ownerID(user)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	public, err := r.loadPublicLooks()
	if err != nil {
		return err
	}
	idx := -1
	for i := range public {
		if public[i].PublicID == publicID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	target := public[idx]
	if target.OwnerID != uid {
		return ErrForbidden
	}

	public = append(public[:idx], public[idx+1:]...)
	if err := saveJSON(r.storage, sharedKey(collectionPublicLooks), public); err != nil {
		return err
	}

	looks, err := r.loadLooks(user.ID)
	if err != nil {
		return err
	}
	for i := range looks {
		if looks[i].ID == target.LookID {
			looks[i].IsPublic = false
			looks[i].PublicID = nil
		}
	}
	return saveJSON(r.storage, userKey(user.ID, collectionLooks), looks)
}

// ToggleReaction flips the reaction in memory only.
func (r *LocalRepository) ToggleReaction(_ context.Context, user *models.AuthUser, publicID string, kind models.ReactionKind) (*models.ReactionState, error) {
	if _, err := ownerID(user); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	public, err := r.loadPublicLooks()
	if err != nil {
		return nil, err
	}
	for _, pl := range public {
		if pl.PublicID != publicID {
			continue
		}

		key := reactionKey{user.ID, publicID, kind}
		active := !r.reactions[key]
		r.reactions[key] = active

		if r.deltas[publicID] == nil {
			r.deltas[publicID] = make(map[models.ReactionKind]int64)
		}
		if active {
			r.deltas[publicID][kind]++
		} else {
			r.deltas[publicID][kind]--
		}
		return &models.ReactionState{Active: active, Count: r.countLocked(pl, kind)}, nil
	}
	return nil, ErrNotFound
}

func (r *LocalRepository) countLocked(pl models.PublicLook, kind models.ReactionKind) int64 {
	base := pl.LikesCount
	if kind == models.ReactionBookmark {
		base = pl.BookmarksCount
	}
	count := base + r.deltas[pl.PublicID][kind]
	if count < 0 {
		return 0
	}
	return count
}
