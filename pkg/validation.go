package pkg

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// ValidationError holds per-field messages for malformed form input.
type ValidationError struct {
	Fields map[string]string `json:"errors"`
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a message for field, keeping the first one.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// report fields by their form/json names
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Validate runs struct tag validation and converts failures into a *ValidationError.
func Validate(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	vErr := &ValidationError{Fields: map[string]string{}}
	for _, fe := range fieldErrs {
		vErr.Add(fe.Field(), fieldMessage(fe))
	}
	return vErr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("ensure this value has at least %s characters", fe.Param())
		}
		return fmt.Sprintf("ensure this value is greater than or equal to %s", fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("ensure this value has at most %s characters", fe.Param())
		}
		return fmt.Sprintf("ensure this value is less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("select a valid choice, one of: %s", fe.Param())
	case "eqfield":
		return "the two fields didn't match"
	default:
		return fmt.Sprintf("invalid value (%s)", fe.Tag())
	}
}

// WriteValidationError writes the field errors as a 400 response.
func WriteValidationError(w http.ResponseWriter, vErr *ValidationError) {
	WriteJSON(w, vErr, http.StatusBadRequest)
}

// WriteValidationFailure writes a *ValidationError as 400 and anything else as a 500.
func WriteValidationFailure(w http.ResponseWriter, err error) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		WriteValidationError(w, vErr)
		return
	}
	log.Errorf("validate request: %s", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
