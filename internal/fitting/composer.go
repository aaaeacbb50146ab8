// internal/fitting/composer.go
package fitting

import (
	"sync"

	"github.com/google/uuid"

	"github.com/lookmate/lookmate-backend/internal/models"
)

// ActiveLook is the composition being edited in the fitting room. It is
// never persisted directly; saving copies it into a Look.
type ActiveLook struct {
	Name   string
	Layers models.FittingLayers
}

// LayerPatch carries the transform fields to change. Nil fields are left as is.
type LayerPatch struct {
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Scale    *float64 `json:"scale,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`
	Visible  *bool    `json:"visible,omitempty"`
}

func (p LayerPatch) apply(layer *models.FittingLayer) {
	if p.X != nil {
		layer.X = *p.X
	}
	if p.Y != nil {
		layer.Y = *p.Y
	}
	if p.Scale != nil {
		layer.Scale = *p.Scale
	}
	if p.Rotation != nil {
		layer.Rotation = *p.Rotation
	}
	if p.Visible != nil {
		layer.Visible = *p.Visible
	}
}

// Composer owns the single active composition of a session. Layers keep
// first-insertion order and hold at most one entry per clothing id.
type Composer struct {
	mu     sync.RWMutex
	active *ActiveLook
}

func NewComposer() *Composer {
	return &Composer{}
}

// StartWith begins a composition with the item, or appends it to the one in
// progress. Adding an item that already has a layer is a no-op.
func (c *Composer) StartWith(clothingID uuid.UUID) {
	c.AddItem(clothingID)
}

// AddItem appends an identity-transform layer for the item unless present.
func (c *Composer) AddItem(clothingID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil {
		c.active = &ActiveLook{Layers: models.FittingLayers{}}
	}
	if c.indexOf(clothingID) >= 0 {
		return
	}
	c.active.Layers = append(c.active.Layers, models.NewFittingLayer(clothingID))
}

// UpdateLayer merges patch into the item's layer. It reports whether a layer
// was changed; an empty composition or unknown item changes nothing.
func (c *Composer) UpdateLayer(clothingID uuid.UUID, patch LayerPatch) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil {
		return false
	}
	i := c.indexOf(clothingID)
	if i < 0 {
		return false
	}
	patch.apply(&c.active.Layers[i])
	return true
}

// RemoveItem drops the item's layer if there is one.
func (c *Composer) RemoveItem(clothingID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil {
		return
	}
	i := c.indexOf(clothingID)
	if i < 0 {
		return
	}
	c.active.Layers = append(c.active.Layers[:i], c.active.Layers[i+1:]...)
}

// Clear discards the active composition.
func (c *Composer) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = nil
}

// LoadFromLook replaces any work in progress with a copy of the look's layers.
func (c *Composer) LoadFromLook(look *models.Look) {
	c.mu.Lock()
	defer c.mu.Unlock()

	layers := models.FittingLayers{}
	seen := make(map[uuid.UUID]struct{}, len(look.Layers))
	for _, layer := range look.Layers {
		if _, dup := seen[layer.ClothingID]; dup {
			continue
		}
		seen[layer.ClothingID] = struct{}{}
		layers = append(layers, layer)
	}
	c.active = &ActiveLook{Name: look.Name, Layers: layers}
}

// SetName sets the working name, starting an empty composition if needed.
func (c *Composer) SetName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil {
		c.active = &ActiveLook{Layers: models.FittingLayers{}}
	}
	c.active.Name = name
}

// Active returns a copy of the composition, or nil when none is in progress.
func (c *Composer) Active() *ActiveLook {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.active == nil {
		return nil
	}
	return &ActiveLook{Name: c.active.Name, Layers: c.active.Layers.Clone()}
}

// Layers returns a copy of the current layers in draw order.
func (c *Composer) Layers() models.FittingLayers {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.active == nil {
		return models.FittingLayers{}
	}
	return c.active.Layers.Clone()
}

func (c *Composer) indexOf(clothingID uuid.UUID) int {
	for i, layer := range c.active.Layers {
		if layer.ClothingID == clothingID {
			return i
		}
	}
	return -1
}
