// internal/models/product.go
package models

type Product struct {
	BaseModel
	Name             string     `json:"name" gorm:"size:255;not null"`
	Brand            string     `json:"brand" gorm:"size:100;index"`
	ThumbnailURL     string     `json:"thumbnailUrl"`
	ProductURL       string     `json:"productUrl"`
	Price            float64    `json:"price" gorm:"not null;index"`
	Currency         string     `json:"currency" gorm:"size:3;default:'KRW'"`
	Category         Category   `json:"category" gorm:"type:varchar(20);not null;index"`
	Colors           StringList `json:"colors"`
	Rating           float64    `json:"rating" gorm:"default:0"`
	ReviewCount      int64      `json:"reviewCount" gorm:"default:0"`
	SalesVolumeScore float64    `json:"salesVolumeScore" gorm:"default:0"`
	Tags             StringList `json:"tags"`

	SimilarityScore float64 `json:"similarityScore" gorm:"-"`
}

// ToClothingItem maps a catalog product onto a closet item draft that the
// user can still edit before saving.
func (p Product) ToClothingItem() ClothingItem {
	price := p.Price
	item := ClothingItem{
		ImageURL:         p.ThumbnailURL,
		OriginalImageURL: p.ThumbnailURL,
		Category:         p.Category,
		Brand:            p.Brand,
		Memo:             p.Name,
		ShoppingURL:      p.ProductURL,
		Price:            &price,
		Tags:             append(StringList{}, p.Tags...),
	}
	if len(p.Colors) > 0 {
		item.Color = p.Colors[0]
	}
	if p.Price <= 0 {
		item.Price = nil
	}
	return item
}
