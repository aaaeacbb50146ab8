// Package recommend picks a "today's look" outfit from a closet with simple
// category rules. It does no I/O and is deterministic for a given random source.
package recommend

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/lookmate/lookmate-backend/internal/models"
)

// ErrNoRecommendation means the filtered closet has neither a onepiece nor a
// top and bottom pair. An empty closet reports the same error.
var ErrNoRecommendation = errors.New("no recommendation possible")

const (
	outerChance     = 0.5
	accessoryChance = 1.0 / 3.0
)

// Recommender builds outfit suggestions from a closet. It is safe for concurrent use.
type Recommender struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Recommender drawing from rng. A nil rng is seeded from the clock.
func New(rng *rand.Rand) *Recommender {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Recommender{rng: rng}
}

// Generate assembles an outfit from items wearable in season ("" for any).
func (r *Recommender) Generate(items []models.ClothingItem, season models.Season) ([]models.ClothingItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	groups := make(map[models.Category][]models.ClothingItem)
	for _, item := range items {
		if item.MatchesSeason(season) {
			groups[item.Category] = append(groups[item.Category], item)
		}
	}

	var outfit []models.ClothingItem
	switch {
	case len(groups[models.CategoryOnepiece]) > 0:
		outfit = append(outfit, r.pick(groups[models.CategoryOnepiece]))
	case len(groups[models.CategoryTop]) > 0 && len(groups[models.CategoryBottom]) > 0:
		outfit = append(outfit, r.pick(groups[models.CategoryTop]), r.pick(groups[models.CategoryBottom]))
	default:
		return nil, ErrNoRecommendation
	}

	if outers := groups[models.CategoryOuter]; len(outers) > 0 && r.rng.Float64() < outerChance {
		outfit = append(outfit, r.pick(outers))
	}
	if shoes := groups[models.CategoryShoes]; len(shoes) > 0 {
		outfit = append(outfit, r.pick(shoes))
	}
	if accessories := groups[models.CategoryAccessory]; len(accessories) > 0 && r.rng.Float64() < accessoryChance {
		outfit = append(outfit, r.pick(accessories))
	}

	return outfit, nil
}

func (r *Recommender) pick(items []models.ClothingItem) models.ClothingItem {
	return items[r.rng.Intn(len(items))].Clone()
}
