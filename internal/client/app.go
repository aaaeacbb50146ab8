// internal/client/app.go
package client

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/lookmate/lookmate-backend/internal/models"
	"github.com/lookmate/lookmate-backend/internal/services"
	"github.com/lookmate/lookmate-backend/internal/snapshot"
)

// Config selects the persistence mode: an empty APIBaseURL runs fully local.
type Config struct {
	APIBaseURL  string
	Storage     Storage
	HTTPClient  *http.Client
	Notifier    Notifier
	ImageLoader snapshot.ImageLoader
}

// App wires the session, closet, looks and feed contexts over one repository.
type App struct {
	Mode    Mode
	Session *Session
	Closet  *Closet
	Looks   *Looks
	Feed    *Feed

	api     *APIClient
	hydrate singleflight.Group
}

func NewApp(cfg Config) *App {
	if cfg.Storage == nil {
		cfg.Storage = NewMemoryStorage()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = NewLogNotifier()
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	baseURL := strings.TrimRight(cfg.APIBaseURL, "/")
	if cfg.ImageLoader == nil {
		loader := snapshot.NewURLLoader(baseURL)
		loader.Client = cfg.HTTPClient
		cfg.ImageLoader = loader
	}

	app := &App{Mode: ModeLocal}

	local := NewLocalRepository(cfg.Storage)
	var (
		auth   Authenticator
		repo   Repository
		mirror *LocalRepository
	)
	if baseURL != "" {
		app.Mode = ModeBackend
		app.api = NewAPIClient(baseURL, cfg.HTTPClient)
		remote := NewRemoteAuth(app.api, cfg.Storage)
		app.api.OnUnauthorized(func() {
			remote.saveToken("")
			app.Session.expire()
		})
		auth = remote
		repo = NewRemoteRepository(app.api)
		mirror = local
	} else {
		auth = NewLocalAuth(cfg.Storage)
		repo = local
	}

	app.Session = NewSession(auth, cfg.Notifier)
	app.Closet = NewCloset(app.Session, repo, mirror, cfg.Notifier)
	app.Feed = NewFeed(app.Session, repo, cfg.Notifier, app.Mode)
	app.Looks = NewLooks(app.Session, repo, mirror, cfg.Notifier, app.Closet, app.Feed, snapshot.NewRenderer(cfg.ImageLoader))

	app.Session.OnChange(func(user *models.AuthUser) {
		if user == nil {
			app.Closet.reset()
			app.Looks.reset()
			app.Feed.reset()
		}
	})
	return app
}

// Login signs in and loads the user's data.
func (a *App) Login(ctx context.Context, email, password string) (*models.AuthUser, error) {
	user, err := a.Session.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return user, a.Hydrate(ctx)
}

func (a *App) Register(ctx context.Context, req *services.RegisterRequest) (*models.AuthUser, error) {
	user, err := a.Session.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	return user, a.Hydrate(ctx)
}

func (a *App) Logout(ctx context.Context) error {
	return a.Session.Logout(ctx)
}

// Restore resumes a stored session and hydrates it. It returns nil when
// nobody is signed in.
func (a *App) Restore(ctx context.Context) (*models.AuthUser, error) {
	user, err := a.Session.Restore(ctx)
	if err != nil || user == nil {
		return nil, err
	}
	return user, a.Hydrate(ctx)
}

// Hydrate loads the closet, looks and feed. Concurrent calls for the same
// user share one load.
func (a *App) Hydrate(ctx context.Context) error {
	key := "anonymous"
	if user := a.Session.User(); user != nil {
		key = user.ID
	}
	_, err, _ := a.hydrate.Do(key, func() (interface{}, error) {
		if err := a.Closet.Hydrate(ctx); err != nil {
			return nil, err
		}
		if err := a.Looks.Hydrate(ctx); err != nil {
			return nil, err
		}
		return nil, a.Feed.Refresh(ctx, a.Feed.currentQuery())
	})
	return err
}
