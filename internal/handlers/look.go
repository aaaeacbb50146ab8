// internal/handlers/look.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/lookmate/lookmate-backend/internal/i18n"
	"github.com/lookmate/lookmate-backend/internal/services"
	"github.com/lookmate/lookmate-backend/internal/utils"
)

type LookHandler struct {
	lookService *services.LookService
}

func NewLookHandler(lookService *services.LookService) *LookHandler {
	return &LookHandler{
		lookService: lookService,
	}
}

// GET /api/data/looks
func (h *LookHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	looks, err := h.lookService.ListLooks(userID)
	if err != nil {
		handleServiceError(c, err, "look")
		return
	}

	utils.SuccessResponse(c, gin.H{"looks": looks})
}

// POST /api/data/looks
func (h *LookHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var body struct {
		Look *services.CreateLookRequest `json:"look"`
	}
	if !bindJSON(c, &body) {
		return
	}
	if body.Look == nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "look"), nil)
		return
	}

	look, err := h.lookService.CreateLook(c.Request.Context(), userID, body.Look)
	if err != nil {
		handleServiceError(c, err, "look")
		return
	}

	utils.CreatedResponse(c, gin.H{"look": look})
}

// GET /api/data/looks/:id
func (h *LookHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "look")
	if !ok {
		return
	}

	look, err := h.lookService.GetLook(id, userID)
	if err != nil {
		handleServiceError(c, err, "look")
		return
	}

	utils.SuccessResponse(c, gin.H{"look": look})
}

// DELETE /api/data/looks/:id
func (h *LookHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id", "look")
	if !ok {
		return
	}

	if err := h.lookService.DeleteLook(id, userID); err != nil {
		handleServiceError(c, err, "look")
		return
	}

	utils.OKResponse(c)
}
