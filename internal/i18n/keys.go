// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"

	// Users
	KeyUserNotFound = "user.not_found"

	// Closet
	KeyClosetNotFound  = "closet.not_found"
	KeyClosetForbidden = "closet.forbidden"

	// Looks
	KeyLookNotFound  = "look.not_found"
	KeyLookForbidden = "look.forbidden"

	// Public feed
	KeyPublicLookNotFound  = "public_look.not_found"
	KeyPublicLookForbidden = "public_look.forbidden"

	// Recommendation
	KeyRecommendationNone = "recommendation.none"

	// Products
	KeyProductNotFound     = "product.not_found"
	KeyProductPreviewFail  = "product.preview_failed"
	KeyProductURLForbidden = "product.url_forbidden"

	// Uploads
	KeyUploadMissing     = "upload.missing"
	KeyUploadTooLarge    = "upload.too_large"
	KeyUploadInvalidType = "upload.invalid_type"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// Errors
	KeyErrorInternal     = "error.internal"
	KeyErrorRateLimit    = "error.rate_limit"
	KeyErrorUnauthorized = "error.unauthorized"
	KeyErrorForbidden    = "error.forbidden"
)
