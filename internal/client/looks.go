// internal/client/looks.go
package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/lookmate/lookmate-backend/internal/fitting"
	"github.com/lookmate/lookmate-backend/internal/models"
	"github.com/lookmate/lookmate-backend/internal/services"
	"github.com/lookmate/lookmate-backend/internal/snapshot"
)

// Looks owns the saved looks and the composition being edited.
type Looks struct {
	session  *Session
	repo     Repository
	mirror   *LocalRepository
	notifier Notifier
	locks    *keyedMutex

	closet   *Closet
	feed     *Feed
	composer *fitting.Composer
	renderer *snapshot.Renderer

	mu        sync.RWMutex
	looks     []models.Look
	avatarURL string
}

func NewLooks(session *Session, repo Repository, mirror *LocalRepository, notifier Notifier, closet *Closet, feed *Feed, renderer *snapshot.Renderer) *Looks {
	return &Looks{
		session:  session,
		repo:     repo,
		mirror:   mirror,
		notifier: notifier,
		locks:    newKeyedMutex(),
		closet:   closet,
		feed:     feed,
		composer: fitting.NewComposer(),
		renderer: renderer,
		looks:    []models.Look{},
	}
}

// Composer is the active composition.
func (l *Looks) Composer() *fitting.Composer {
	return l.composer
}

// SetAvatar sets the image drawn under every layer of the next snapshot.
func (l *Looks) SetAvatar(url string) {
	l.mu.Lock()
	l.avatarURL = url
	l.mu.Unlock()
}

func (l *Looks) Looks() []models.Look {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]models.Look{}, l.looks...)
}

func (l *Looks) Look(id uuid.UUID) (models.Look, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, look := range l.looks {
		if look.ID == id {
			return look, true
		}
	}
	return models.Look{}, false
}

func (l *Looks) Hydrate(ctx context.Context) error {
	user := l.session.User()
	if user == nil {
		l.reset()
		return nil
	}

	looks, err := l.repo.ListLooks(ctx, user)
	if err != nil {
		if l.mirror == nil {
			l.notifier.Error("Could not load your looks", err)
			return err
		}
		looks, err = l.mirror.ListLooks(ctx, user)
		if err != nil {
			l.notifier.Error("Could not load your looks", err)
			return err
		}
		l.notifier.Warn("Could not reach the server. Showing your last saved looks.", err)
	} else {
		l.writeMirror(user, looks)
	}

	l.mu.Lock()
	l.looks = looks
	l.mu.Unlock()
	return nil
}

// Save persists the active composition. The snapshot is rendered once; when
// that fails the look is saved without one and the user is warned.
func (l *Looks) Save(ctx context.Context, name string, tags []string) (*models.Look, error) {
	user, err := l.session.Require()
	if err != nil {
		return nil, err
	}
	active := l.composer.Active()
	if active == nil || len(active.Layers) == 0 {
		return nil, fmt.Errorf("%w: nothing to save", ErrInvalidInput)
	}
	if name == "" {
		name = active.Name
	}

	l.mu.RLock()
	avatarURL := l.avatarURL
	l.mu.RUnlock()

	comp := snapshot.NewComposition(avatarURL, active.Layers, l.closet.Items())
	snapshotURL, renderErr := l.renderer.RenderBestEffort(ctx, comp)

	look, err := l.repo.CreateLook(ctx, user, &services.CreateLookRequest{
		Name:        name,
		Layers:      active.Layers,
		SnapshotURL: snapshotURL,
		Tags:        tags,
	})
	if err != nil {
		l.notifier.Error("Could not save the look", err)
		return nil, err
	}
	if renderErr != nil {
		l.notifier.Warn("The preview image could not be created. The look was saved without it.", renderErr)
	}

	l.mu.Lock()
	l.looks = append([]models.Look{*look}, l.looks...)
	looks := append([]models.Look{}, l.looks...)
	l.mu.Unlock()

	l.writeMirror(user, looks)
	return look, nil
}

// Load replaces the active composition with a saved look's layers.
func (l *Looks) Load(id uuid.UUID) error {
	look, ok := l.Look(id)
	if !ok {
		return ErrNotFound
	}
	l.composer.LoadFromLook(&look)
	return nil
}

// Delete removes the look and, when it was published, its feed entry.
func (l *Looks) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := l.session.Require()
	if err != nil {
		return err
	}

	unlock := l.locks.Lock(id.String())
	defer unlock()

	if err := l.repo.DeleteLook(ctx, user, id); err != nil {
		l.notifier.Error("Could not delete the look", err)
		return err
	}

	l.mu.Lock()
	for i := range l.looks {
		if l.looks[i].ID == id {
			l.looks = append(l.looks[:i], l.looks[i+1:]...)
			break
		}
	}
	looks := append([]models.Look{}, l.looks...)
	l.mu.Unlock()

	l.feed.forgetLook(id)
	l.writeMirror(user, looks)
	return nil
}

func (l *Looks) Publish(ctx context.Context, id uuid.UUID) (*models.PublicLook, error) {
	user, err := l.session.Require()
	if err != nil {
		return nil, err
	}

	unlock := l.locks.Lock(id.String())
	defer unlock()

	publicLook, err := l.repo.Publish(ctx, user, id)
	if err != nil {
		l.notifier.Error("Could not publish the look", err)
		return nil, err
	}

	publicID := publicLook.PublicID
	looks := l.markPublic(id, &publicID)
	l.feed.upsert(*publicLook)
	l.writeMirror(user, looks)
	return publicLook, nil
}

func (l *Looks) Unpublish(ctx context.Context, publicID string) error {
	user, err := l.session.Require()
	if err != nil {
		return err
	}

	lookID := uuid.Nil
	l.mu.RLock()
	for _, look := range l.looks {
		if look.PublicID != nil && *look.PublicID == publicID {
			lookID = look.ID
			break
		}
	}
	l.mu.RUnlock()

	if lookID != uuid.Nil {
		unlock := l.locks.Lock(lookID.String())
		defer unlock()
	}

	if err := l.repo.Unpublish(ctx, user, publicID); err != nil {
		l.notifier.Error("Could not unpublish the look", err)
		return err
	}

	looks := l.markPublic(lookID, nil)
	l.feed.remove(publicID)
	l.writeMirror(user, looks)
	return nil
}

func (l *Looks) markPublic(id uuid.UUID, publicID *string) []models.Look {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.looks {
		if l.looks[i].ID == id {
			l.looks[i].IsPublic = publicID != nil
			l.looks[i].PublicID = publicID
			break
		}
	}
	return append([]models.Look{}, l.looks...)
}

func (l *Looks) writeMirror(user *models.AuthUser, looks []models.Look) {
	if l.mirror == nil {
		return
	}
	if err := l.mirror.SaveLooks(user, looks); err != nil {
		l.notifier.Warn("Could not save an offline copy of your looks", err)
	}
}

func (l *Looks) reset() {
	l.mu.Lock()
	l.looks = []models.Look{}
	l.mu.Unlock()
	l.composer.Clear()
}
