// internal/handlers/ai.go
package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lookmate/lookmate-backend/internal/i18n"
	"github.com/lookmate/lookmate-backend/internal/services"
	"github.com/lookmate/lookmate-backend/internal/utils"
)

// UploadRecorder counts upload outcomes per endpoint.
type UploadRecorder interface {
	RecordUpload(endpoint, outcome string)
}

type AIHandler struct {
	aiService *services.AIService
	recorder  UploadRecorder
}

func NewAIHandler(aiService *services.AIService, recorder UploadRecorder) *AIHandler {
	return &AIHandler{
		aiService: aiService,
		recorder:  recorder,
	}
}

// POST /api/ai/avatar (multipart: faceImage, height, bodyType, gender)
func (h *AIHandler) GenerateAvatar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.AvatarRequest
	if err := c.ShouldBind(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.uploadFailed(c, "avatar", err)
			return
		}
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	file, header, ok := h.formFile(c, "avatar", "faceImage")
	if !ok {
		return
	}
	defer file.Close()

	response, err := h.aiService.GenerateAvatar(c.Request.Context(), userID, file, header, &req)
	if err != nil {
		h.uploadFailed(c, "avatar", err)
		return
	}

	h.record("avatar", "ok")
	utils.SuccessResponse(c, response)
}

// POST /api/ai/remove-background (multipart: clothImage)
func (h *AIHandler) RemoveBackground(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	file, header, ok := h.formFile(c, "remove-background", "clothImage")
	if !ok {
		return
	}
	defer file.Close()

	response, err := h.aiService.RemoveBackground(c.Request.Context(), userID, file, header)
	if err != nil {
		h.uploadFailed(c, "remove-background", err)
		return
	}

	h.record("remove-background", "ok")
	utils.SuccessResponse(c, response)
}

// POST /api/ai/try-on
func (h *AIHandler) TryOn(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.TryOnRequest
	if !bindJSON(c, &req) {
		return
	}

	response, err := h.aiService.TryOn(userID, &req)
	if err != nil {
		handleServiceError(c, err, "upload")
		return
	}

	utils.SuccessResponse(c, response)
}

// formFile opens the named multipart field. It answers 413 when the body
// limit was hit while parsing and 400 when the field is absent.
func (h *AIHandler) formFile(c *gin.Context, endpoint, field string) (multipart.File, string, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.uploadFailed(c, endpoint, err)
			return nil, "", false
		}
		h.record(endpoint, "missing")
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUploadMissing), nil)
		return nil, "", false
	}

	file, err := header.Open()
	if err != nil {
		h.uploadFailed(c, endpoint, err)
		return nil, "", false
	}
	return file, header.Filename, true
}

func (h *AIHandler) uploadFailed(c *gin.Context, endpoint string, err error) {
	outcome := "error"
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.Is(err, services.ErrFileTooLarge), errors.As(err, &maxBytesErr):
		outcome = "too_large"
	case errors.Is(err, services.ErrInvalidFileType):
		outcome = "invalid_type"
	}
	h.record(endpoint, outcome)
	handleServiceError(c, err, "upload")
}

func (h *AIHandler) record(endpoint, outcome string) {
	if h.recorder != nil {
		h.recorder.RecordUpload(endpoint, outcome)
	}
}
