// internal/handlers/public_look.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/lookmate/lookmate-backend/internal/models"
	"github.com/lookmate/lookmate-backend/internal/services"
	"github.com/lookmate/lookmate-backend/internal/utils"
)

type PublicLookHandler struct {
	publicLookService *services.PublicLookService
}

func NewPublicLookHandler(publicLookService *services.PublicLookService) *PublicLookHandler {
	return &PublicLookHandler{
		publicLookService: publicLookService,
	}
}

// GET /api/data/public-looks?limit&sort&page
func (h *PublicLookHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c, services.FeedSortLatest, services.FeedSortLatest, services.FeedSortLikes)

	looks, total, err := h.publicLookService.ListPublicLooks(params, viewerID(c))
	if err != nil {
		handleServiceError(c, err, "public_look")
		return
	}

	utils.SetPaginationHeaders(c, params, total)
	utils.SuccessResponse(c, gin.H{"publicLooks": looks})
}

// GET /api/data/public-looks/:publicId
func (h *PublicLookHandler) Get(c *gin.Context) {
	publicLook, err := h.publicLookService.GetPublicLook(c.Param("publicId"), viewerID(c))
	if err != nil {
		handleServiceError(c, err, "public_look")
		return
	}

	utils.SuccessResponse(c, gin.H{"publicLook": publicLook})
}

// POST /api/data/public-looks
func (h *PublicLookHandler) Publish(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.PublishRequest
	if !bindJSON(c, &req) {
		return
	}

	publicLook, created, err := h.publicLookService.Publish(userID, &req)
	if err != nil {
		handleServiceError(c, err, "look")
		return
	}

	if created {
		utils.CreatedResponse(c, gin.H{"publicLook": publicLook})
		return
	}
	utils.SuccessResponse(c, gin.H{"publicLook": publicLook})
}

// DELETE /api/data/public-looks/:publicId
func (h *PublicLookHandler) Unpublish(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.publicLookService.Unpublish(userID, c.Param("publicId")); err != nil {
		handleServiceError(c, err, "public_look")
		return
	}

	utils.OKResponse(c)
}

// POST /api/data/public-looks/:publicId/like
func (h *PublicLookHandler) Like(c *gin.Context) {
	state, ok := h.toggle(c, models.ReactionLike)
	if !ok {
		return
	}
	utils.SuccessResponse(c, gin.H{"liked": state.Active, "likesCount": state.Count})
}

// POST /api/data/public-looks/:publicId/bookmark
func (h *PublicLookHandler) Bookmark(c *gin.Context) {
	state, ok := h.toggle(c, models.ReactionBookmark)
	if !ok {
		return
	}
	utils.SuccessResponse(c, gin.H{"bookmarked": state.Active, "bookmarksCount": state.Count})
}

func (h *PublicLookHandler) toggle(c *gin.Context, kind models.ReactionKind) (*models.ReactionState, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return nil, false
	}

	state, err := h.publicLookService.ToggleReaction(userID, c.Param("publicId"), kind)
	if err != nil {
		handleServiceError(c, err, "public_look")
		return nil, false
	}
	return state, true
}
