// internal/handlers/common.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lookmate/lookmate-backend/internal/i18n"
	"github.com/lookmate/lookmate-backend/internal/recommend"
	"github.com/lookmate/lookmate-backend/internal/services"
	"github.com/lookmate/lookmate-backend/internal/utils"
)

// currentUserID reads the authenticated user id, answering 401 when absent.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}
	return userID, true
}

// viewerID returns the optional authenticated user for public reads.
func viewerID(c *gin.Context) *uuid.UUID {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		return nil
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil
	}
	return &userID
}

// pathUUID parses a uuid route param; malformed ids are reported as not found.
func pathUUID(c *gin.Context, name, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.NotFoundResponse(c, resource)
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON decodes the body into req, answering 400 on malformed input.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}
	return true
}

// handleServiceError maps service errors onto status codes. resource is the
// i18n prefix used for 403/404 messages ("closet", "look", ...).
func handleServiceError(c *gin.Context, err error, resource string) {
	lang := utils.GetLangFromContext(c)

	var validationErr *services.ValidationError
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.As(err, &validationErr):
		if details := utils.GetValidationErrors(validationErr.Err); len(details) > 0 {
			utils.ValidationErrorResponse(c, details)
			return
		}
		utils.BadRequestResponse(c, validationErr.Err.Error(), nil)
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c, i18n.T(lang, resource+".forbidden"))
	case errors.Is(err, services.ErrItemNotFound):
		utils.NotFoundResponse(c, "closet")
	case errors.Is(err, services.ErrLookNotFound):
		utils.NotFoundResponse(c, "look")
	case errors.Is(err, services.ErrPublicLookNotFound):
		utils.NotFoundResponse(c, "public_look")
	case errors.Is(err, services.ErrProductNotFound):
		utils.NotFoundResponse(c, "product")
	case errors.Is(err, services.ErrUserNotFound):
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyUserNotFound))
	case errors.Is(err, services.ErrEmailTaken):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyAuthUserExists))
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidCredentials))
	case errors.Is(err, recommend.ErrNoRecommendation):
		utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", i18n.T(lang, i18n.KeyRecommendationNone), nil)
	case errors.Is(err, services.ErrFileTooLarge), errors.As(err, &maxBytesErr):
		utils.PayloadTooLargeResponse(c, uploadTooLargeMessage(c))
	case errors.Is(err, services.ErrInvalidFileType):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUploadInvalidType), nil)
	case errors.Is(err, services.ErrURLForbidden):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyProductURLForbidden), nil)
	case errors.Is(err, services.ErrPreviewFailed):
		logrus.WithError(err).Warn("Product preview failed")
		utils.ErrorResponse(c, http.StatusBadGateway, "PREVIEW_FAILED", i18n.T(lang, i18n.KeyProductPreviewFail), nil)
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"path":    c.Request.URL.Path,
			"user_id": c.GetString("user_id"),
		}).Error("Request failed")
		utils.InternalErrorResponse(c, "")
	}
}

func uploadTooLargeMessage(c *gin.Context) string {
	lang := utils.GetLangFromContext(c)
	maxMB := c.GetInt64("upload_max_mb")
	if maxMB == 0 {
		maxMB = 5
	}
	return i18n.T(lang, i18n.KeyUploadTooLarge, maxMB)
}
