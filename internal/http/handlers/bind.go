package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BindJSON decodes the request body into out and writes a 400 with a
// readable message when decoding or validation fails.
func BindJSON(ctx *gin.Context, out interface{}) bool {
	err := ctx.ShouldBindJSON(out)

	if err != nil {
		RespondBadRequest(ctx, bindErrorMessage(err))
		return false
	}

	return true
}

func bindErrorMessage(err error) string {
	var validatorErrors validator.ValidationErrors

	if errors.As(err, &validatorErrors) {
		parts := make([]string, 0, len(validatorErrors))

		for _, fieldError := range validatorErrors {
			parts = append(parts, fmt.Sprintf("%s %s", fieldError.Field(), validationMessage(fieldError.Tag(), fieldError.Param())))
		}
		return "Validation failed: " + strings.Join(parts, "; ")
	}

	var syntaxError *json.SyntaxError

	if errors.As(err, &syntaxError) {
		return "Invalid JSON syntax"
	}

	var typeError *json.UnmarshalTypeError

	if errors.As(err, &typeError) {
		field := typeError.Field
		if field == "" {
			field = "body"
		}
		return fmt.Sprintf("Field %s must be of type %s", field, typeError.Type.String())
	}

	return "Invalid request body"
}

func validationMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "alpha":
		return "must contain only letters"
	case "min":
		return "must be at least " + param + " characters"
	case "max":
		return "must be at most " + param + " characters"
	case "gt":
		return "must be greater than " + param
	case "oneof":
		return "must be one of: " + param
	default:
		if param != "" {
			return "failed rule " + rule + "=" + param
		}
		return "failed rule " + rule
	}
}
