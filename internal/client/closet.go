// internal/client/closet.go
package client

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/lookmate/lookmate-backend/internal/models"
	"github.com/lookmate/lookmate-backend/internal/services"
)

// Closet is the in-memory closet of the signed-in user. Writes go to the
// repository first; state and the local mirror change only after success.
type Closet struct {
	session  *Session
	repo     Repository
	mirror   *LocalRepository
	notifier Notifier
	locks    *keyedMutex

	mu    sync.RWMutex
	items []models.ClothingItem
}

func NewCloset(session *Session, repo Repository, mirror *LocalRepository, notifier Notifier) *Closet {
	return &Closet{
		session:  session,
		repo:     repo,
		mirror:   mirror,
		notifier: notifier,
		locks:    newKeyedMutex(),
		items:    []models.ClothingItem{},
	}
}

// Items returns a copy of the closet, newest first.
func (c *Closet) Items() []models.ClothingItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.ClothingItem{}, c.items...)
}

func (c *Closet) Item(id uuid.UUID) (models.ClothingItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if item.ID == id {
			return item, true
		}
	}
	return models.ClothingItem{}, false
}

// Hydrate loads the closet. In backend mode a failed read falls back to the
// mirror and warns instead of failing.
func (c *Closet) Hydrate(ctx context.Context) error {
	user := c.session.User()
	if user == nil {
		c.reset()
		return nil
	}

	items, err := c.repo.ListItems(ctx, user)
	if err != nil {
		if c.mirror == nil {
			c.notifier.Error("Could not load your closet", err)
			return err
		}
		items, err = c.mirror.ListItems(ctx, user)
		if err != nil {
			c.notifier.Error("Could not load your closet", err)
			return err
		}
		c.notifier.Warn("Could not reach the server. Showing your last saved closet.", err)
	} else {
		c.writeMirror(user, items)
	}

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	return nil
}

func (c *Closet) Add(ctx context.Context, req *services.CreateClothingItemRequest) (*models.ClothingItem, error) {
	user, err := c.session.Require()
	if err != nil {
		return nil, err
	}

	item, err := c.repo.CreateItem(ctx, user, req)
	if err != nil {
		c.notifier.Error("Could not add the item", err)
		return nil, err
	}

	c.mu.Lock()
	c.items = append([]models.ClothingItem{*item}, c.items...)
	snapshot := append([]models.ClothingItem{}, c.items...)
	c.mu.Unlock()

	c.writeMirror(user, snapshot)
	return item, nil
}

// Update applies patch to one item. Concurrent updates of the same item run
// one after another.
func (c *Closet) Update(ctx context.Context, id uuid.UUID, patch *services.UpdateClothingItemRequest) (*models.ClothingItem, error) {
	user, err := c.session.Require()
	if err != nil {
		return nil, err
	}

	unlock := c.locks.Lock(id.String())
	defer unlock()
	return c.update(ctx, user, id, patch)
}

// ToggleFavorite flips the favorite flag based on the latest known state.
func (c *Closet) ToggleFavorite(ctx context.Context, id uuid.UUID) (*models.ClothingItem, error) {
	user, err := c.session.Require()
	if err != nil {
		return nil, err
	}

	unlock := c.locks.Lock(id.String())
	defer unlock()

	item, ok := c.Item(id)
	if !ok {
		return nil, ErrNotFound
	}
	favorite := !item.IsFavorite
	return c.update(ctx, user, id, &services.UpdateClothingItemRequest{IsFavorite: &favorite})
}

func (c *Closet) update(ctx context.Context, user *models.AuthUser, id uuid.UUID, patch *services.UpdateClothingItemRequest) (*models.ClothingItem, error) {
	item, err := c.repo.UpdateItem(ctx, user, id, patch)
	if err != nil {
		c.notifier.Error("Could not update the item", err)
		return nil, err
	}

	c.mu.Lock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i] = *item
			break
		}
	}
	snapshot := append([]models.ClothingItem{}, c.items...)
	c.mu.Unlock()

	c.writeMirror(user, snapshot)
	return item, nil
}

func (c *Closet) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := c.session.Require()
	if err != nil {
		return err
	}

	unlock := c.locks.Lock(id.String())
	defer unlock()

	if err := c.repo.DeleteItem(ctx, user, id); err != nil {
		c.notifier.Error("Could not delete the item", err)
		return err
	}

	c.mu.Lock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	snapshot := append([]models.ClothingItem{}, c.items...)
	c.mu.Unlock()

	c.writeMirror(user, snapshot)
	return nil
}

func (c *Closet) writeMirror(user *models.AuthUser, items []models.ClothingItem) {
	if c.mirror == nil {
		return
	}
	if err := c.mirror.SaveItems(user, items); err != nil {
		c.notifier.Warn("Could not save an offline copy of your closet", err)
	}
}

func (c *Closet) reset() {
	c.mu.Lock()
	c.items = []models.ClothingItem{}
	c.mu.Unlock()
}
