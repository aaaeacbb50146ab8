// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// jsonDBDataType picks the column type for JSON-encoded values per dialect.
func jsonDBDataType(db *gorm.DB) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "jsonb"
	default:
		return "text"
	}
}

// scanJSON decodes a JSON column value regardless of whether the driver
// hands back bytes or a string.
func scanJSON(value interface{}, dest interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported JSON column value")
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dest)
}

// JSONB holds free-form metadata
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	b, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	return scanJSON(value, j)
}

func (JSONB) GormDataType() string { return "json" }

func (JSONB) GormDBDataType(db *gorm.DB, field *schema.Field) string { return jsonDBDataType(db) }

// StringList is an unordered tag set stored as a JSON array.
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *StringList) Scan(value interface{}) error {
	*s = StringList{}
	return scanJSON(value, (*[]string)(s))
}

func (StringList) GormDataType() string { return "json" }

func (StringList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return jsonDBDataType(db)
}

// Contains reports whether tag is part of the set.
func (s StringList) Contains(tag string) bool {
	for _, t := range s {
		if t == tag {
			return true
		}
	}
	return false
}

// Normalize trims, drops empties and removes duplicates while keeping first occurrence order.
func (s StringList) Normalize() StringList {
	out := make(StringList, 0, len(s))
	seen := make(map[string]struct{}, len(s))
	for _, t := range s {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Enums
type Category string

const (
	CategoryTop       Category = "top"
	CategoryBottom    Category = "bottom"
	CategoryOuter     Category = "outer"
	CategoryOnepiece  Category = "onepiece"
	CategoryShoes     Category = "shoes"
	CategoryAccessory Category = "accessory"
)

var Categories = []Category{
	CategoryTop, CategoryBottom, CategoryOuter, CategoryOnepiece, CategoryShoes, CategoryAccessory,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonFall   Season = "fall"
	SeasonWinter Season = "winter"
)

func (s Season) Valid() bool {
	switch s {
	case SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter:
		return true
	}
	return false
}

type BodyType string

const (
	BodyTypeSlim     BodyType = "slim"
	BodyTypeNormal   BodyType = "normal"
	BodyTypeAthletic BodyType = "athletic"
	BodyTypeChubby   BodyType = "chubby"
)

func (b BodyType) Valid() bool {
	switch b {
	case BodyTypeSlim, BodyTypeNormal, BodyTypeAthletic, BodyTypeChubby:
		return true
	}
	return false
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderUnisex Gender = "unisex"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderUnisex:
		return true
	}
	return false
}
