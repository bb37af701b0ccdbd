package helper

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ValidatorErrorsToMap flattens validator.v10 errors into the field→messages
// shape used by JsonValidationError.
func ValidatorErrorsToMap(err error) map[string][]string {
	out := map[string][]string{}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		out["_"] = []string{err.Error()}
		return out
	}
	for _, fe := range ve {
		field := fe.Field()
		var msg string
		switch fe.Tag() {
		case "required":
			msg = field + " is required."
		case "email":
			msg = "Invalid email format."
		case "min":
			msg = field + " must be at least " + fe.Param() + " characters."
		case "max":
			msg = field + " must be at most " + fe.Param() + " characters."
		case "oneof":
			msg = field + " must be one of: " + fe.Param() + "."
		case "gte":
			msg = field + " must be >= " + fe.Param() + "."
		default:
			msg = "Invalid value."
		}
		out[field] = append(out[field], msg)
	}
	return out
}

// HandleValidationError is the uniform 422 reply for DTO validation failures.
func HandleValidationError(c *fiber.Ctx, err error) error {
	return JsonValidationError(c, ValidatorErrorsToMap(err))
}
