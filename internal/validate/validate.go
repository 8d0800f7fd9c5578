// Package validate decodes JSON request bodies and checks them against the
// rules declared in `validate` struct tags.
package validate

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/groszeck/taxena-netlify/internal/apperr"
)

// Checker is implemented by inputs with rules spanning more than one field.
// It runs after the tag rules and returns one message per violation.
type Checker interface {
	CheckFields() []string
}

var (
	instance     = newValidator()
	fileNameExpr = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,255}$`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return field.Name
		}
		return name
	})
	must(v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	}))
	must(v.RegisterValidation("filename", func(fl validator.FieldLevel) bool {
		return fileNameExpr.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("b64", func(fl validator.FieldLevel) bool {
		_, err := base64.StdEncoding.DecodeString(fl.Field().String())
		return err == nil
	}))
	must(v.RegisterValidation("jsonobject", func(fl validator.FieldLevel) bool {
		raw, ok := fl.Field().Interface().(json.RawMessage)
		if !ok {
			return false
		}
		var obj map[string]any
		return json.Unmarshal(raw, &obj) == nil && obj != nil
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Struct checks the tag rules on s, then its Checker rules. Every violation
// is collected into a single InvalidRequest error.
func Struct(s any) error {
	var messages []string
	if err := instance.Struct(s); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return apperr.Internalf(err)
		}
		for _, fe := range fieldErrs {
			messages = append(messages, describe(fe))
		}
	}
	if checker, ok := s.(Checker); ok {
		messages = append(messages, checker.CheckFields()...)
	}
	if len(messages) > 0 {
		return apperr.New(apperr.InvalidRequest, strings.Join(messages, "; "))
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	textual := fe.Kind() == reflect.String || fe.Kind() == reflect.Slice
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	} else if fe.Kind() == reflect.Slice {
		unit = " items"
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "uuid", "uuid4":
		return field + " must be a valid UUID"
	case "min":
		if textual {
			return fmt.Sprintf("%s must be at least %s%s", field, fe.Param(), unit)
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if textual {
			return fmt.Sprintf("%s must be at most %s%s", field, fe.Param(), unit)
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(strings.Fields(fe.Param()), ", "))
	case "isodate":
		return field + " must be a valid ISO 8601 date"
	case "filename":
		return field + " may only contain letters, digits, '.', '_' and '-'"
	case "b64":
		return field + " must be base64 encoded"
	case "jsonobject":
		return field + " must be a JSON object"
	default:
		return field + " is invalid"
	}
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDate accepts RFC 3339 timestamps and plain calendar dates.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

// EndNotBefore is the shared end >= start rule. Either bound may be unset.
func EndNotBefore(startField, start, endField, end string) []string {
	if start == "" || end == "" {
		return nil
	}
	s, err := ParseDate(start)
	if err != nil {
		return nil
	}
	e, err := ParseDate(end)
	if err != nil {
		return nil
	}
	if e.Before(s) {
		return []string{fmt.Sprintf("%s must be on or after %s", endField, startField)}
	}
	return nil
}

// Decode reads a JSON body of at most limit bytes into dst. An absent body
// decodes as an empty object so required-field rules report what is missing.
// Unknown fields are ignored.
func Decode(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	if r.Body == nil {
		return nil
	}
	body := http.MaxBytesReader(w, r.Body, limit)
	decoder := json.NewDecoder(body)
	if err := decoder.Decode(dst); err != nil {
		return decodeError(err)
	}
	if decoder.More() {
		return apperr.Invalid("request body must contain a single JSON object")
	}
	return nil
}

func decodeError(err error) error {
	var maxErr *http.MaxBytesError
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.Is(err, io.EOF):
		return nil
	case errors.As(err, &maxErr):
		return apperr.TooLarge("request body too large")
	case errors.As(err, &typeErr):
		if typeErr.Field == "" {
			return apperr.Invalid("request body must be a JSON object")
		}
		return apperr.Invalid("%s must be a %s", typeErr.Field, jsonType(typeErr.Type))
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return apperr.Invalid("invalid JSON body")
	default:
		return apperr.Invalid("invalid JSON body")
	}
}

func jsonType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "list"
	default:
		return "object"
	}
}
