// internal/handlers/closet.go
package handlers

import (
	"math/rand"

	"github.com/gin-gonic/gin"

	"github.com/lookmate/lookmate-backend/internal/i18n"
	"github.com/lookmate/lookmate-backend/internal/models"
	"github.com/lookmate/lookmate-backend/internal/recommend"
	"github.com/lookmate/lookmate-backend/internal/services"
	"github.com/lookmate/lookmate-backend/internal/utils"
)

type ClosetHandler struct {
	closetService *services.ClosetService
	recommender   *recommend.Recommender
}

func NewClosetHandler(closetService *services.ClosetService, rng *rand.Rand) *ClosetHandler {
	return &ClosetHandler{
		closetService: closetService,
		recommender:   recommend.New(rng),
	}
}

// GET /api/data/closet
func (h *ClosetHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	items, err := h.closetService.ListItems(userID)
	if err != nil {
		handleServiceError(c, err, "closet")
		return
	}

	utils.SuccessResponse(c, gin.H{"items": items})
}

// POST /api/data/closet
func (h *ClosetHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var body struct {
		Item *services.CreateClothingItemRequest `json:"item"`
	}
	if !bindJSON(c, &body) {
		return
	}
	if body.Item == nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "item"), nil)
		return
	}

	item, err := h.closetService.CreateItem(userID, body.Item)
	if err != nil {
		handleServiceError(c, err, "closet")
		return
	}

	utils.CreatedResponse(c, gin.H{"item": item})
}

// PUT /api/data/closet/:id
func (h *ClosetHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "closet")
	if !ok {
		return
	}

	var body struct {
		Patch *services.UpdateClothingItemRequest `json:"patch"`
	}
	if !bindJSON(c, &body) {
		return
	}
	if body.Patch == nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "patch"), nil)
		return
	}

	item, err := h.closetService.UpdateItem(id, userID, body.Patch)
	if err != nil {
		handleServiceError(c, err, "closet")
		return
	}

	utils.SuccessResponse(c, gin.H{"item": item})
}

// DELETE /api/data/closet/:id
func (h *ClosetHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "closet")
	if !ok {
		return
	}

	if err := h.closetService.DeleteItem(id, userID); err != nil {
		handleServiceError(c, err, "closet")
		return
	}

	utils.OKResponse(c)
}

// GET /api/data/recommendation?season=
func (h *ClosetHandler) Recommend(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	season := c.Query("season")
	if err := utils.ValidateVar(season, "season"); err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "season"), nil)
		return
	}

	items, err := h.closetService.ListItems(userID)
	if err != nil {
		handleServiceError(c, err, "closet")
		return
	}

	outfit, err := h.recommender.Generate(items, models.Season(season))
	if err != nil {
		handleServiceError(c, err, "closet")
		return
	}

	utils.SuccessResponse(c, gin.H{"items": outfit})
}
