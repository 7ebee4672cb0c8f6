package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrDuplicateTitle     = errors.New("a post with this title already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("forbidden")
)

// ValidationError reports which input fields failed validation.
type ValidationError struct {
	Fields map[string]string
	Err    error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid input"
	}
	parts := make([]string, 0, len(e.Fields))
	for field, rule := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s (%s)", field, rule))
	}
	sort.Strings(parts)
	return "invalid input: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate runs the struct validation rules on v and converts failures into a
// *ValidationError keyed by the form field name.
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[formName(fe.Field())] = fe.Tag()
	}
	return &ValidationError{Fields: fields, Err: err}
}

func formName(field string) string {
	switch field {
	case "ImgURL":
		return "img_url"
	default:
		return strings.ToLower(field)
	}
}
