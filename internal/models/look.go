// internal/models/look.go
package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// FittingLayer places one clothing item on the avatar. ClothingID is a weak
// reference: the item may be gone from the closet by the time a look is viewed.
type FittingLayer struct {
	ClothingID uuid.UUID `json:"clothingId"`
	X          float64   `json:"x"`
	Y          float64   `json:"y"`
	Scale      float64   `json:"scale"`
	Rotation   float64   `json:"rotation"`
	Visible    bool      `json:"visible"`
}

// NewFittingLayer returns a layer at the identity transform.
func NewFittingLayer(clothingID uuid.UUID) FittingLayer {
	return FittingLayer{ClothingID: clothingID, Scale: 1, Visible: true}
}

// FittingLayers is an ordered layer list; later entries draw on top.
type FittingLayers []FittingLayer

func (l FittingLayers) Clone() FittingLayers {
	if l == nil {
		return FittingLayers{}
	}
	return append(FittingLayers{}, l...)
}

// ClothingIDs returns the referenced item ids in layer order.
func (l FittingLayers) ClothingIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(l))
	for _, layer := range l {
		ids = append(ids, layer.ClothingID)
	}
	return ids
}

func (l FittingLayers) Value() (driver.Value, error) {
	b, err := json.Marshal(l.Clone())
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *FittingLayers) Scan(value interface{}) error {
	*l = FittingLayers{}
	return scanJSON(value, (*[]FittingLayer)(l))
}

func (FittingLayers) GormDataType() string { return "json" }

func (FittingLayers) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return jsonDBDataType(db)
}

// ItemSnapshots are point-in-time copies of closet items taken when a look is saved.
type ItemSnapshots []ClothingItem

func (s ItemSnapshots) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]ClothingItem(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *ItemSnapshots) Scan(value interface{}) error {
	*s = ItemSnapshots{}
	return scanJSON(value, (*[]ClothingItem)(s))
}

func (ItemSnapshots) GormDataType() string { return "json" }

func (ItemSnapshots) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return jsonDBDataType(db)
}

// SnapshotItems copies the items referenced by ids, in ids order, skipping
// ids that have no matching item.
func SnapshotItems(items []ClothingItem, ids []uuid.UUID) ItemSnapshots {
	byID := make(map[uuid.UUID]ClothingItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	out := make(ItemSnapshots, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if item, ok := byID[id]; ok {
			out = append(out, item.Clone())
		}
	}
	return out
}

type Look struct {
	BaseModel
	UserID      uuid.UUID     `json:"userId" gorm:"type:uuid;not null;index"`
	Name        string        `json:"name" gorm:"size:100"`
	Items       ItemSnapshots `json:"items"`
	Layers      FittingLayers `json:"layers"`
	SnapshotURL *string       `json:"snapshotUrl"`
	IsPublic    bool          `json:"isPublic" gorm:"not null;default:false"`
	PublicID    *string       `json:"publicId"`
	Tags        StringList    `json:"tags"`
}
