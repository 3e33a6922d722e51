// Package response contains the unified JSON envelope returned by every
// handler: {success, message, errors, data, pagination}.
package response

import (
	"fmt"

	"github.com/go-playground/validator"

	"github.com/devhire/job-board/internal/models"
)

// Response is the standard body of every API reply.
type Response struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message,omitempty"`
	Errors     []FieldError       `json:"errors,omitempty"`
	Data       any                `json:"data,omitempty"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
	Token      string             `json:"token,omitempty"`
	User       any                `json:"user,omitempty"`
}

// FieldError describes a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// OK returns a bare success envelope with a message.
func OK(msg string) Response {
	return Response{
		Success: true,
		Message: msg,
	}
}

// OKWithData returns a success envelope wrapping the payload.
func OKWithData(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// OKPage returns a success envelope with a page of data and its metadata.
func OKPage(data any, p models.Pagination) Response {
	return Response{
		Success:    true,
		Data:       data,
		Pagination: &p,
	}
}

// OKAuth returns a success envelope carrying a bearer token and the user.
func OKAuth(msg, token string, user any) Response {
	return Response{
		Success: true,
		Message: msg,
		Token:   token,
		User:    user,
	}
}

// Error returns a failure envelope with a message.
func Error(msg string) Response {
	return Response{
		Success: false,
		Message: msg,
	}
}

// ValidationError turns validator violations into the field-level errors
// array. All violations are reported, not just the first.
func ValidationError(errs validator.ValidationErrors) Response {
	fieldErrs := make([]FieldError, 0, len(errs))

	for _, err := range errs {
		var msg string
		switch err.ActualTag() {
		case "required":
			msg = fmt.Sprintf("field %s is a required field", err.Field())
		case "max":
			msg = fmt.Sprintf("field %s cannot exceed %s characters", err.Field(), err.Param())
		case "min":
			msg = fmt.Sprintf("field %s must be at least %s characters", err.Field(), err.Param())
		case "email":
			msg = fmt.Sprintf("field %s must be a valid email", err.Field())
		case "oneof":
			msg = fmt.Sprintf("field %s must be one of: %s", err.Field(), err.Param())
		default:
			msg = fmt.Sprintf("field %s is not valid", err.Field())
		}
		fieldErrs = append(fieldErrs, FieldError{Field: err.Field(), Message: msg})
	}
	return Fields(fieldErrs)
}

// Fields builds a validation-error envelope from ready field errors.
func Fields(fieldErrs []FieldError) Response {
	return Response{
		Success: false,
		Message: "validation error",
		Errors:  fieldErrs,
	}
}
