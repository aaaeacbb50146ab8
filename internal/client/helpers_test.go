package client

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lookmate/lookmate-backend/internal/models"
	"github.com/lookmate/lookmate-backend/internal/services"
)

type recordingNotifier struct {
	mu     sync.Mutex
	infos  []string
	warns  []string
	errors []string
}

func (n *recordingNotifier) Info(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.infos = append(n.infos, msg)
}

func (n *recordingNotifier) Warn(msg string, _ error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.warns = append(n.warns, msg)
}

func (n *recordingNotifier) Error(msg string, _ error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func (n *recordingNotifier) counts() (infos, warns, errs int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.infos), len(n.warns), len(n.errors)
}

type stubLoader struct {
	err error
}

func (l stubLoader) Load(context.Context, string) (image.Image, error) {
	if l.err != nil {
		return nil, l.err
	}
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	return img, nil
}

var errBlocked = errors.New("image blocked")

// fakeBackend is a minimal in-memory stand-in for the data API.
type fakeBackend struct {
	server *httptest.Server

	mu          sync.Mutex
	token       string
	revoked     bool
	items       []models.ClothingItem
	publicLooks []models.PublicLook
	failList    bool
	failWrites  bool
	failToggles bool

	// toggleEntered and toggleRelease, when set, pause like toggles
	toggleEntered chan struct{}
	toggleRelease chan struct{}
}

func newFakeBackend(t *testing.T) *fakeBackend {
	b := &fakeBackend{token: "token-1", items: []models.ClothingItem{}, publicLooks: []models.PublicLook{}}
	b.server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.server.Close)
	return b
}

func (b *fakeBackend) set(fn func(b *fakeBackend)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *fakeBackend) authorized(r *http.Request) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.revoked && r.Header.Get("Authorization") == "Bearer "+b.token
}

func (b *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == "/api/auth/login":
		writeJSON(w, http.StatusOK, map[string]string{"token": b.token})
		return
	case path == "/api/auth/logout":
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
		return
	case path == "/api/data/public-looks" && r.Method == http.MethodGet:
		b.mu.Lock()
		looks := append([]models.PublicLook{}, b.publicLooks...)
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]interface{}{"publicLooks": looks})
		return
	}

	if !b.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token", "code": "UNAUTHORIZED"})
		return
	}

	switch {
	case path == "/api/auth/me":
		writeJSON(w, http.StatusOK, models.AuthUser{ID: uuid.NewSHA1(uuid.NameSpaceOID, []byte("mina")).String(), Email: "mina@example.com", DisplayName: "Mina"})

	case path == "/api/data/closet" && r.Method == http.MethodGet:
		b.mu.Lock()
		fail := b.failList
		items := append([]models.ClothingItem{}, b.items...)
		b.mu.Unlock()
		if fail {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "boom", "code": "INTERNAL_ERROR"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})

	case path == "/api/data/closet" && r.Method == http.MethodPost:
		b.mu.Lock()
		fail := b.failWrites
		b.mu.Unlock()
		if fail {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "boom", "code": "INTERNAL_ERROR"})
			return
		}
		var body struct {
			Item struct {
				Category string `json:"category"`
				ImageURL string `json:"imageUrl"`
				Color    string `json:"color"`
			} `json:"item"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		item := models.ClothingItem{
			Category: models.Category(body.Item.Category),
			ImageURL: body.Item.ImageURL,
			Color:    body.Item.Color,
		}
		item.ID = uuid.New()
		item.CreatedAt = time.Now()
		b.mu.Lock()
		b.items = append([]models.ClothingItem{item}, b.items...)
		b.mu.Unlock()
		writeJSON(w, http.StatusCreated, map[string]interface{}{"item": item})

	case path == "/api/data/looks" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]interface{}{"looks": []models.Look{}})

	case path == "/api/data/looks" && r.Method == http.MethodPost:
		b.mu.Lock()
		fail := b.failWrites
		b.mu.Unlock()
		if fail {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "boom", "code": "INTERNAL_ERROR"})
			return
		}
		var body struct {
			Look services.CreateLookRequest `json:"look"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		look := models.Look{
			Name:        body.Look.Name,
			Layers:      models.FittingLayers(body.Look.Layers).Clone(),
			SnapshotURL: body.Look.SnapshotURL,
			Tags:        models.StringList(body.Look.Tags),
		}
		look.ID = uuid.New()
		look.CreatedAt = time.Now()
		writeJSON(w, http.StatusCreated, map[string]interface{}{"look": look})

	case strings.HasSuffix(path, "/like") && r.Method == http.MethodPost:
		b.mu.Lock()
		fail, entered, release := b.failToggles, b.toggleEntered, b.toggleRelease
		b.mu.Unlock()
		if entered != nil {
			entered <- struct{}{}
			<-release
		}
		if fail {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "boom", "code": "INTERNAL_ERROR"})
			return
		}
		publicID := strings.TrimSuffix(strings.TrimPrefix(path, "/api/data/public-looks/"), "/like")
		b.mu.Lock()
		defer b.mu.Unlock()
		for i := range b.publicLooks {
			if b.publicLooks[i].PublicID == publicID {
				b.publicLooks[i].LikesCount++
				writeJSON(w, http.StatusOK, map[string]interface{}{"liked": true, "likesCount": b.publicLooks[i].LikesCount})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Public look not found", "code": "PUBLIC_LOOK_NOT_FOUND"})

	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found", "code": "NOT_FOUND"})
	}
}
