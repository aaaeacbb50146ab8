// internal/utils/validator.go
package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lookmate/lookmate-backend/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	})
	validate.RegisterValidation("season", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || models.Season(s).Valid()
	})
	validate.RegisterValidation("body_type", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || models.BodyType(s).Valid()
	})
	validate.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || models.Gender(s).Valid()
	})
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ValidateVar checks a single value against a tag, e.g. ValidateVar(s, "season").
func ValidateVar(v interface{}, tag string) error {
	return validate.Var(v, tag)
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   lowerFirst(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "category":
		return "Category must be one of top, bottom, outer, onepiece, shoes, accessory"
	case "season":
		return "Season must be one of spring, summer, fall, winter"
	case "body_type":
		return "Body type must be one of slim, normal, athletic, chubby"
	case "gender":
		return "Gender must be one of male, female, unisex"
	case "url":
		return e.Field() + " must be a valid URL"
	default:
		return e.Field() + " is invalid"
	}
}
