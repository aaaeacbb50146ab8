// internal/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lookmate/lookmate-backend/internal/i18n"
)

// APIError is the body of every non-2xx response. Success bodies are
// written as-is without an envelope.
type APIError struct {
	Message string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// OKResponse writes {"success": true} for operations with nothing to return.
func OKResponse(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func ErrorResponse(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.AbortWithStatusJSON(statusCode, APIError{Message: message, Code: code, Details: details})
}

// localized returns message, or the translation of key when message is empty.
func localized(c *gin.Context, message, key string, args ...interface{}) string {
	if message != "" {
		return message
	}
	return i18n.T(GetLangFromContext(c), key, args...)
}

func BadRequestResponse(c *gin.Context, message string, details interface{}) {
	ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", localized(c, message, i18n.KeyValidationInvalid, "request"), details)
}

func ValidationErrorResponse(c *gin.Context, errors []ValidationError) {
	ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", localized(c, "", i18n.KeyValidationInvalid, "input"), errors)
}

func UnauthorizedResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", localized(c, message, i18n.KeyAuthRequired), nil)
}

func ForbiddenResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", localized(c, message, i18n.KeyErrorForbidden), nil)
}

// NotFoundResponse looks up "<resource>.not_found", e.g. "look.not_found".
func NotFoundResponse(c *gin.Context, resource string) {
	ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", localized(c, "", resource+".not_found"), nil)
}

func ConflictResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusConflict, "CONFLICT", message, nil)
}

func PayloadTooLargeResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", message, nil)
}

func InternalErrorResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", localized(c, message, i18n.KeyErrorInternal), nil)
}

func GetLangFromContext(c *gin.Context) string {
	if lang := c.GetString("lang"); lang != "" {
		return lang
	}
	return "en"
}

// GetUserIDFromContext returns the authenticated user id set by the auth
// middleware, if any.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	id := c.GetString("user_id")
	return id, id != ""
}

func GetEmailFromContext(c *gin.Context) string {
	return c.GetString("email")
}
