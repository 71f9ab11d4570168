package pushindexer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

//////
// Const, vars, and types.
//////

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// iso8601Layouts are the date-time forms the engine's default date format
// (`strict_date_optional_time`) accepts. The zone is optional.
var iso8601Layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02T15Z07:00",
	"2006-01-02T15",
	"2006-01-02",
}

//////
// Validation process.
//////

// getValidator returns the shared validator. Field names in errors follow the
// JSON tags so they match the payload paths.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")

			if tag == "-" || tag == "" {
				return fld.Name
			}

			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}

			return tag
		})

		if err := v.RegisterValidation("iso8601", isISO8601); err != nil {
			panic(err)
		}

		validate = v
	})

	return validate
}

// isISO8601 accepts empty values, which are left for the engine to judge,
// and any of iso8601Layouts.
func isISO8601(fl validator.FieldLevel) bool {
	value := fl.Field().String()

	if value == "" {
		return true
	}

	for _, layout := range iso8601Layouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}

	return false
}

// process validates `v` against its `validate` struct tags.
func process(v any) error {
	if err := getValidator().Struct(v); err != nil {
		return describeValidationError(err)
	}

	return nil
}

// describeValidationError flattens validator errors into a single message
// listing every offending field, e.g.:
// `detail.commits[0].message is required; detail.ref is required`.
func describeValidationError(err error) error {
	var vErrs validator.ValidationErrors

	if !errors.As(err, &vErrs) {
		return err
	}

	msgs := make([]string, 0, len(vErrs))

	for _, fe := range vErrs {
		msgs = append(msgs, fmt.Sprintf("%s %s", fieldPath(fe.Namespace()), describeTag(fe)))
	}

	return errors.New(strings.Join(msgs, "; "))
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}

	return namespace
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "datetime", "iso8601":
		return fmt.Sprintf("must be an ISO-8601 timestamp, got %q", fe.Value())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	default:
		return fmt.Sprintf("failed on %q", fe.Tag())
	}
}
