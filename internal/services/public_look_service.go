// internal/services/public_look_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lookmate/lookmate-backend/internal/database"
	"github.com/lookmate/lookmate-backend/internal/models"
	"github.com/lookmate/lookmate-backend/internal/utils"
)

const (
	FeedSortLikes  = "likes"
	FeedSortLatest = "latest"
)

// ReactionRecorder observes successful reaction toggles.
type ReactionRecorder interface {
	RecordReaction(kind models.ReactionKind, active bool)
}

type PublicLookService struct {
	db       *gorm.DB
	recorder ReactionRecorder
	now      func() time.Time
}

type PublishRequest struct {
	LookID uuid.UUID `json:"lookId" validate:"required"`
}

func NewPublicLookService(db *gorm.DB, recorder ReactionRecorder) *PublicLookService {
	return &PublicLookService{
		db:       db,
		recorder: recorder,
		now:      time.Now,
	}
}

// reactionTable describes the join table and counter column of one reaction kind.
type reactionTable struct {
	model  func() interface{}
	row    func(userID, publicLookID uuid.UUID) interface{}
	column string
}

var reactionTables = map[models.ReactionKind]reactionTable{
	models.ReactionLike: {
		model: func() interface{} { return &models.UserLike{} },
		row: func(userID, publicLookID uuid.UUID) interface{} {
			return &models.UserLike{UserID: userID, PublicLookID: publicLookID}
		},
		column: "likes_count",
	},
	models.ReactionBookmark: {
		model: func() interface{} { return &models.UserBookmark{} },
		row: func(userID, publicLookID uuid.UUID) interface{} {
			return &models.UserBookmark{UserID: userID, PublicLookID: publicLookID}
		},
		column: "bookmarks_count",
	},
}

// ListPublicLooks returns one feed page. viewerID may be nil for anonymous reads.
func (s *PublicLookService) ListPublicLooks(params utils.PaginationParams, viewerID *uuid.UUID) ([]models.PublicLook, int64, error) {
	var total int64
	if err := s.db.Model(&models.PublicLook{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count public looks: %w", err)
	}

	query := s.db.Model(&models.PublicLook{})
	switch params.Sort {
	case FeedSortLikes:
		query = query.Order("likes_count DESC").Order("created_at DESC")
	default:
		query = query.Order("created_at DESC")
	}

	looks := []models.PublicLook{}
	if err := utils.ApplyPagination(query, params).Find(&looks).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list public looks: %w", err)
	}

	if viewerID != nil {
		if err := s.fillViewerState(looks, *viewerID); err != nil {
			return nil, 0, err
		}
	}
	return looks, total, nil
}

func (s *PublicLookService) GetPublicLook(publicID string, viewerID *uuid.UUID) (*models.PublicLook, error) {
	publicLook, err := findPublicLook(s.db, publicID)
	if err != nil {
		return nil, err
	}
	if viewerID != nil {
		looks := []models.PublicLook{*publicLook}
		if err := s.fillViewerState(looks, *viewerID); err != nil {
			return nil, err
		}
		publicLook = &looks[0]
	}
	return publicLook, nil
}

func (s *PublicLookService) fillViewerState(looks []models.PublicLook, viewerID uuid.UUID) error {
	if len(looks) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(looks))
	for _, l := range looks {
		ids = append(ids, l.ID)
	}

	var liked, bookmarked []uuid.UUID
	if err := s.db.Model(&models.UserLike{}).
		Where("user_id = ? AND public_look_id IN ?", viewerID, ids).
		Pluck("public_look_id", &liked).Error; err != nil {
		return fmt.Errorf("failed to load likes: %w", err)
	}
	if err := s.db.Model(&models.UserBookmark{}).
		Where("user_id = ? AND public_look_id IN ?", viewerID, ids).
		Pluck("public_look_id", &bookmarked).Error; err != nil {
		return fmt.Errorf("failed to load bookmarks: %w", err)
	}

	likedSet := toSet(liked)
	bookmarkedSet := toSet(bookmarked)
	for i := range looks {
		_, l := likedSet[looks[i].ID]
		_, b := bookmarkedSet[looks[i].ID]
		looks[i].Liked = &l
		looks[i].Bookmarked = &b
	}
	return nil
}

func toSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func findPublicLook(db *gorm.DB, publicID string) (*models.PublicLook, error) {
	var publicLook models.PublicLook
	if err := db.Where("public_id = ?", publicID).First(&publicLook).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPublicLookNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &publicLook, nil
}

// Publish creates the feed entry for a look. Publishing an already public
// look returns the existing entry with created=false.
func (s *PublicLookService) Publish(userID uuid.UUID, req *PublishRequest) (publicLook *models.PublicLook, created bool, err error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, false, validationFailed(err)
	}

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var look models.Look
		if err := tx.Where("id = ?", req.LookID).First(&look).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLookNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}
		if look.UserID != userID {
			return ErrForbidden
		}

		var existing models.PublicLook
		err := tx.Where("look_id = ?", look.ID).First(&existing).Error
		if err == nil {
			publicLook = &existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("database error: %w", err)
		}

		var owner models.User
		if err := tx.Where("id = ?", userID).First(&owner).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		publicID, err := utils.GeneratePublicID(s.now())
		if err != nil {
			return fmt.Errorf("failed to generate public id: %w", err)
		}

		publicLook = models.NewPublicLook(&look, owner.ID, owner.DisplayName, owner.Email, publicID)
		if err := tx.Create(publicLook).Error; err != nil {
			return fmt.Errorf("failed to create public look: %w", err)
		}

		if err := tx.Model(&look).Updates(map[string]interface{}{
			"is_public": true,
			"public_id": publicID,
		}).Error; err != nil {
			return fmt.Errorf("failed to mark look public: %w", err)
		}

		created = true
		return nil
	})
	if err != nil {
		// A concurrent publish of the same look won the unique index on look_id
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing models.PublicLook
			if findErr := s.db.Where("look_id = ?", req.LookID).First(&existing).Error; findErr == nil {
				return &existing, false, nil
			}
		}
		return nil, false, err
	}
	return publicLook, created, nil
}

// Unpublish removes a feed entry and resets the originating look.
func (s *PublicLookService) Unpublish(userID uuid.UUID, publicID string) error {
	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		publicLook, err := findPublicLook(tx, publicID)
		if err != nil {
			return err
		}
		if publicLook.OwnerID != userID {
			return ErrForbidden
		}
		return deletePublicLook(tx, publicLook)
	})
}

// deletePublicLook hard-deletes a feed entry with its reactions and clears
// the public flag of its look. Callers provide the transaction.
func deletePublicLook(tx *gorm.DB, publicLook *models.PublicLook) error {
	if err := tx.Where("public_look_id = ?", publicLook.ID).Delete(&models.UserLike{}).Error; err != nil {
		return fmt.Errorf("failed to delete likes: %w", err)
	}
	if err := tx.Where("public_look_id = ?", publicLook.ID).Delete(&models.UserBookmark{}).Error; err != nil {
		return fmt.Errorf("failed to delete bookmarks: %w", err)
	}
	if err := tx.Delete(publicLook).Error; err != nil {
		return fmt.Errorf("failed to delete public look: %w", err)
	}
	if err := tx.Model(&models.Look{}).Where("id = ?", publicLook.LookID).Updates(map[string]interface{}{
		"is_public": false,
		"public_id": nil,
	}).Error; err != nil {
		return fmt.Errorf("failed to reset look: %w", err)
	}
	return nil
}

// ToggleReaction flips the viewer's like or bookmark on a public look. The
// join row and the counter change in one transaction, and the counter is
// only decremented when a row was actually removed.
func (s *PublicLookService) ToggleReaction(userID uuid.UUID, publicID string, kind models.ReactionKind) (*models.ReactionState, error) {
	table, ok := reactionTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown reaction kind %q", kind)
	}

	state, err := s.toggle(userID, publicID, table)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// A concurrent toggle inserted the row first; retry against the new state
		state, err = s.toggle(userID, publicID, table)
	}
	if err != nil {
		return nil, err
	}

	if s.recorder != nil {
		s.recorder.RecordReaction(kind, state.Active)
	}
	return state, nil
}

func (s *PublicLookService) toggle(userID uuid.UUID, publicID string, table reactionTable) (*models.ReactionState, error) {
	state := &models.ReactionState{}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		publicLook, err := findPublicLook(tx, publicID)
		if err != nil {
			return err
		}

		removed := tx.Where("user_id = ? AND public_look_id = ?", userID, publicLook.ID).Delete(table.model())
		if removed.Error != nil {
			return fmt.Errorf("failed to remove reaction: %w", removed.Error)
		}

		counter := tx.Model(&models.PublicLook{}).Where("id = ?", publicLook.ID)
		if removed.RowsAffected > 0 {
			expr := gorm.Expr(fmt.Sprintf("CASE WHEN %[1]s > 0 THEN %[1]s - 1 ELSE 0 END", table.column))
			if err := counter.UpdateColumn(table.column, expr).Error; err != nil {
				return fmt.Errorf("failed to decrement %s: %w", table.column, err)
			}
		} else {
			if err := tx.Create(table.row(userID, publicLook.ID)).Error; err != nil {
				return err
			}
			if err := counter.UpdateColumn(table.column, gorm.Expr(table.column+" + 1")).Error; err != nil {
				return fmt.Errorf("failed to increment %s: %w", table.column, err)
			}
			state.Active = true
		}

		var count int64
		if err := tx.Model(&models.PublicLook{}).Where("id = ?", publicLook.ID).
			Select(table.column).Scan(&count).Error; err != nil {
			return fmt.Errorf("failed to read %s: %w", table.column, err)
		}
		state.Count = count
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}
