// Package validation checks request payloads before they reach the stores.
// Validators only report problems; normalization is explicit and happens
// in Normalize methods so that persistence never sees raw input.
package validation

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"medmind-server/models"
)

// FieldError is one problem with one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is the outcome of validating one payload.
type Result struct {
	Valid  bool
	Errors []FieldError
}

// Message joins every field message into one string.
func (r Result) Message() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, fe := range r.Errors {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, ", ")
}

// Err returns nil for a valid result and an *Error otherwise.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &Error{Message: r.Message(), Fields: r.Errors}
}

// Error is a client input error; it always maps to 400.
type Error struct {
	Message string
	Fields  []FieldError
}

func (e *Error) Error() string { return e.Message }

// Missing reports absent required fields with a single summary message.
func Missing(message string, fields ...string) *Error {
	out := make([]FieldError, 0, len(fields))
	for _, f := range fields {
		out = append(out, FieldError{Field: f, Message: fmt.Sprintf("%s is required", label(f))})
	}
	return &Error{Message: message, Fields: out}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("emotion", func(fl validator.FieldLevel) bool {
			return models.Emotion(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
			return models.Gender(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("symptom", func(fl validator.FieldLevel) bool {
			_, ok := models.LookupSymptom(fl.Field().String())
			return ok
		})
		_ = v.RegisterValidation("language", func(fl validator.FieldLevel) bool {
			_, ok := models.LookupLanguage(fl.Field().String())
			return ok
		})
		validate = v
	})
	return validate
}

var labels = map[string]string{
	"fullName":  "Full name",
	"email":     "Email",
	"password":  "Password",
	"age":       "Age",
	"gender":    "Gender",
	"rating":    "Rating",
	"easeOfUse": "Ease of use",
	"message":   "Message",
	"name":      "Name",
	"emotions":  "Emotions",
	"category":  "Category",
	"language":  "Language",
	"asked":     "Asked questions",
	"answers":   "Answers",
}

func label(field string) string {
	if l, ok := labels[field]; ok {
		return l
	}
	return field
}

// check runs the struct tags and converts validator errors to FieldErrors.
func check(in interface{}) []FieldError {
	err := instance().Struct(in)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fieldPath(fe), Message: describe(fe)})
	}
	return out
}

// fieldPath drops the struct name from the namespace: "emotions[1]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	name := fe.Field()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	l := label(name)

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", l)
	case "email":
		return "Please enter a valid email address"
	case "min":
		if fe.Kind() == reflect.Int {
			return fmt.Sprintf("%s must be at least %s", l, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", l, fe.Param())
	case "max":
		switch fe.Kind() {
		case reflect.Slice:
			return fmt.Sprintf("%s may contain at most %s entries", l, fe.Param())
		case reflect.Int:
			return fmt.Sprintf("%s must be at most %s", l, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", l, fe.Param())
	case "emotion":
		return fmt.Sprintf("Invalid emotion %q, allowed values: %s", fe.Value(), joinValues(models.Emotions))
	case "gender":
		return fmt.Sprintf("Invalid gender %q, allowed values: %s", fe.Value(), joinValues(models.Genders))
	case "symptom":
		return fmt.Sprintf("Unknown symptom category %q", fe.Value())
	case "language":
		names := make([]string, len(models.Languages))
		for i, lang := range models.Languages {
			names[i] = lang.Name
		}
		return fmt.Sprintf("Unsupported language %q, supported: %s", fe.Value(), joinValues(names))
	default:
		return fmt.Sprintf("%s is invalid", l)
	}
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

func result(errs []FieldError) Result {
	return Result{Valid: len(errs) == 0, Errors: errs}
}
