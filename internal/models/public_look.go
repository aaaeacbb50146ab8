// internal/models/public_look.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// PublicItem is the slice of a clothing item exposed on the public feed.
type PublicItem struct {
	ID       uuid.UUID  `json:"id"`
	ImageURL string     `json:"imageUrl"`
	Category Category   `json:"category"`
	Color    string     `json:"color"`
	Tags     StringList `json:"tags"`
}

type PublicItemSnapshots []PublicItem

func NewPublicItemSnapshots(items []ClothingItem) PublicItemSnapshots {
	out := make(PublicItemSnapshots, 0, len(items))
	for _, item := range items {
		out = append(out, PublicItem{
			ID:       item.ID,
			ImageURL: item.ImageURL,
			Category: item.Category,
			Color:    item.Color,
			Tags:     append(StringList{}, item.Tags...),
		})
	}
	return out
}

func (s PublicItemSnapshots) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]PublicItem(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *PublicItemSnapshots) Scan(value interface{}) error {
	*s = PublicItemSnapshots{}
	return scanJSON(value, (*[]PublicItem)(s))
}

func (PublicItemSnapshots) GormDataType() string { return "json" }

func (PublicItemSnapshots) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return jsonDBDataType(db)
}

// PublicLook is the feed projection of a look. Rows are hard-deleted so the
// look id can be published again after an unpublish.
type PublicLook struct {
	ID             uuid.UUID           `json:"id" gorm:"type:uuid;primaryKey"`
	PublicID       string              `json:"publicId" gorm:"uniqueIndex;size:64;not null"`
	LookID         uuid.UUID           `json:"lookId" gorm:"type:uuid;uniqueIndex;not null"`
	Name           string              `json:"name" gorm:"size:100"`
	OwnerID        uuid.UUID           `json:"ownerId" gorm:"type:uuid;not null;index"`
	OwnerName      string              `json:"ownerName"`
	OwnerEmail     string              `json:"ownerEmail"`
	SnapshotURL    *string             `json:"snapshotUrl"`
	Items          PublicItemSnapshots `json:"items"`
	LikesCount     int64               `json:"likesCount" gorm:"not null;default:0;index"`
	BookmarksCount int64               `json:"bookmarksCount" gorm:"not null;default:0"`
	Tags           StringList          `json:"tags"`
	CreatedAt      time.Time           `json:"createdAt" gorm:"index"`
	UpdatedAt      time.Time           `json:"updatedAt"`

	// Viewer state, filled only for authenticated feed reads
	Liked      *bool `json:"liked,omitempty" gorm:"-"`
	Bookmarked *bool `json:"bookmarked,omitempty" gorm:"-"`
}

// NewPublicLook projects a look onto the feed. Items are reduced to their
// public fields; counters start at zero.
func NewPublicLook(look *Look, ownerID uuid.UUID, ownerName, ownerEmail, publicID string) *PublicLook {
	return &PublicLook{
		PublicID:    publicID,
		LookID:      look.ID,
		Name:        look.Name,
		OwnerID:     ownerID,
		OwnerName:   ownerName,
		OwnerEmail:  ownerEmail,
		SnapshotURL: look.SnapshotURL,
		Items:       NewPublicItemSnapshots(look.Items),
		Tags:        append(StringList{}, look.Tags...),
	}
}

func (p *PublicLook) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type UserLike struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_user_like"`
	PublicLookID uuid.UUID `json:"publicLookId" gorm:"type:uuid;not null;index;uniqueIndex:idx_user_like"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (l *UserLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

type UserBookmark struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_user_bookmark"`
	PublicLookID uuid.UUID `json:"publicLookId" gorm:"type:uuid;not null;index;uniqueIndex:idx_user_bookmark"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (b *UserBookmark) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// ReactionKind selects one of the two independent reaction dimensions.
type ReactionKind string

const (
	ReactionLike     ReactionKind = "like"
	ReactionBookmark ReactionKind = "bookmark"
)

// ReactionState is the result of a toggle: whether the viewer now holds the
// reaction and the counter after the change.
type ReactionState struct {
	Active bool  `json:"active"`
	Count  int64 `json:"count"`
}
