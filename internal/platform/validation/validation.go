// Package validation wraps go-playground/validator with JSON field names and the
// console's Spanish messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
}

type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Messages maps "field" or "field.tag" to the message shown for that failure. The
// more specific key wins.
type Messages map[string]string

// Struct validates s and returns one issue per failing field, in struct order.
func Struct(s any, messages Messages) ([]Issue, error) {
	err := validate.Struct(s)
	if err == nil {
		return nil, nil
	}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return nil, fmt.Errorf("invalid validation error: %w", err)
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}

	seen := map[string]struct{}{}
	issues := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		field := fieldPath(fe)
		if _, ok := seen[field]; ok {
			continue
		}
		seen[field] = struct{}{}
		issues = append(issues, Issue{Field: field, Message: message(fe, field, messages)})
	}
	return issues, nil
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError, field string, messages Messages) string {
	if msg, ok := messages[field+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := messages[field]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("field '%s' is required", field)
	case "email":
		return fmt.Sprintf("field '%s' must be a valid email address", field)
	case "min":
		return fmt.Sprintf("field '%s' must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("field '%s' must be at most %s characters long", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("field '%s' must match %s", field, fe.Param())
	default:
		return fmt.Sprintf("field '%s' validation failed on tag '%s'", field, fe.Tag())
	}
}

// ErrInvalid matches every *Error.
var ErrInvalid = errors.New("invalid input")

// Error lists the fields rejected before any backend call.
type Error struct {
	Issues []Issue
}

func (e *Error) Error() string {
	if len(e.Issues) == 1 {
		return e.Issues[0].Message
	}
	return fmt.Sprintf("%d invalid fields", len(e.Issues))
}

func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

// Check validates s and folds any issues, plus extra, into an *Error.
func Check(s any, messages Messages, extra ...Issue) error {
	issues, err := Struct(s, messages)
	if err != nil {
		return err
	}
	issues = append(issues, extra...)
	if len(issues) > 0 {
		return &Error{Issues: issues}
	}
	return nil
}
