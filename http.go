package social

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// ErrorResponse is the wire shape of every error this API returns: a stable
// machine-readable code, human-readable messages, and a field -> message map
// that is empty when the error is not field-specific.
type ErrorResponse struct {
	Code     string            `json:"code"`
	Messages []string          `json:"messages"`
	Fields   map[string]string `json:"fields"`
}

// WriteError serializes any error into the response envelope. Rich errors
// carry their own status and text code; anything else degrades to a generic
// 500 with no internal detail leaked.
func WriteError(c *fiber.Ctx, logger Logger, err error) error {
	if logger == nil {
		logger = defLogger{}
	}

	var rich *errors.Error
	if !errors.As(err, &rich) {
		logger.Error("unhandled internal error", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:     "INTERNAL_ERROR",
			Messages: []string{"An unexpected server error occurred"},
			Fields:   map[string]string{},
		})
	}

	status := rich.Code
	if status < http.StatusBadRequest {
		status = statusForCategory(rich.Category)
	}

	if status >= http.StatusInternalServerError {
		logger.Error("internal error",
			"error", rich.Message,
			"category", rich.Category,
			"text_code", rich.TextCode,
		)
		return c.Status(status).JSON(ErrorResponse{
			Code:     "INTERNAL_ERROR",
			Messages: []string{"An unexpected server error occurred"},
			Fields:   map[string]string{},
		})
	}

	code := rich.TextCode
	if code == "" {
		code = codeForCategory(rich.Category)
	}

	fields := map[string]string{}
	if field, ok := rich.Metadata["field"].(string); ok && field != "" {
		fields[field] = rich.Message
	}

	return c.Status(status).JSON(ErrorResponse{
		Code:     code,
		Messages: []string{rich.Message},
		Fields:   fields,
	})
}

// WriteValidationError serializes an ozzo validation result as a 400 with
// the per-field message map populated.
func WriteValidationError(c *fiber.Ctx, err error) error {
	fields := FormatValidationErrorToMap(err)

	messages := make([]string, 0, len(fields))
	for field, msg := range fields {
		messages = append(messages, field+": "+msg)
	}
	if len(messages) == 0 {
		messages = append(messages, err.Error())
	}

	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Code:     "VALIDATION_ERROR",
		Messages: messages,
		Fields:   fields,
	})
}

// FormatValidationErrorToMap flattens ozzo's validation.Errors into a
// field -> message map.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}

	verrs, ok := err.(validation.Errors)
	if !ok {
		return out
	}

	for field, ferr := range verrs {
		if ferr != nil {
			out[field] = ferr.Error()
		}
	}

	return out
}

func statusForCategory(category errors.Category) int {
	switch category {
	case errors.CategoryValidation, errors.CategoryBadInput:
		return http.StatusBadRequest
	case errors.CategoryAuth:
		return http.StatusUnauthorized
	case errors.CategoryAuthz:
		return http.StatusForbidden
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func codeForCategory(category errors.Category) string {
	switch category {
	case errors.CategoryValidation, errors.CategoryBadInput:
		return "VALIDATION_ERROR"
	case errors.CategoryAuth:
		return TextCodeNotAuthenticated
	case errors.CategoryAuthz:
		return TextCodeForbidden
	case errors.CategoryNotFound:
		return "NOT_FOUND"
	case errors.CategoryConflict:
		return "CONFLICT"
	default:
		return "INTERNAL_ERROR"
	}
}
