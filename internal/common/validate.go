package common

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	validator "github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared request validator instance.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// DecodeAndValidate decodes the request body into dst and runs struct validation.
// Malformed JSON maps to BAD_REQUEST, failed validation rules to VALIDATION.
func DecodeAndValidate(r *http.Request, dst any) error {
	defer func() { _ = r.Body.Close() }()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &AppError{Code: CodeBadRequest, Message: "invalid request body", HTTPStatus: http.StatusBadRequest, Err: err}
	}
	if err := Validator().Struct(dst); err != nil {
		var fields []map[string]string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, map[string]string{
					"field": strings.ToLower(fe.Field()),
					"rule":  fe.Tag(),
				})
			}
		}
		return Validation("request validation failed", map[string]any{"fields": fields})
	}
	return nil
}
