// internal/models/clothing.go
package models

import (
	"github.com/google/uuid"
)

type ClothingItem struct {
	BaseModel
	UserID           uuid.UUID  `json:"userId" gorm:"type:uuid;not null;index"`
	ImageURL         string     `json:"imageUrl" gorm:"not null"`
	OriginalImageURL string     `json:"originalImageUrl,omitempty"`
	Category         Category   `json:"category" gorm:"type:varchar(20);not null;index"`
	Color            string     `json:"color" gorm:"size:50"`
	Brand            string     `json:"brand,omitempty" gorm:"size:100"`
	Size             string     `json:"size,omitempty" gorm:"size:20"`
	Season           Season     `json:"season,omitempty" gorm:"type:varchar(20)"`
	Memo             string     `json:"memo,omitempty"`
	IsFavorite       bool       `json:"isFavorite" gorm:"not null;default:false"`
	ShoppingURL      string     `json:"shoppingUrl,omitempty"`
	Price            *float64   `json:"price"`
	IsPurchased      bool       `json:"isPurchased" gorm:"not null;default:false"`
	Tags             StringList `json:"tags"`
}

// Clone returns a deep copy safe to embed in a look snapshot.
func (c ClothingItem) Clone() ClothingItem {
	out := c
	if c.Price != nil {
		p := *c.Price
		out.Price = &p
	}
	if c.Tags != nil {
		out.Tags = append(StringList{}, c.Tags...)
	}
	return out
}

// MatchesSeason reports whether the item can be worn in season. Items without
// a season match every season, and an empty season matches every item.
func (c ClothingItem) MatchesSeason(season Season) bool {
	return season == "" || c.Season == "" || c.Season == season
}
