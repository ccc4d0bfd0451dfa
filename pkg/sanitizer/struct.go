package sanitizer

import (
	"errors"
	"reflect"
	"strings"
)

// ErrInvalidTarget is returned by SanitizeStruct when the target is not a
// non-nil pointer to a struct.
var ErrInvalidTarget = errors.New("sanitizer: target must be a non-nil struct pointer")

// SanitizeStruct applies the `san` tag's sanitizers, in order, to every
// string field of the struct v points to. Nested structs are walked
// recursively. Unknown sanitizer names are ignored.
//
//	type EchoRequest struct {
//	    Message string `json:"message" san:"trim,xss"`
//	}
//
// Supported sanitizers: trim, lower, upper, email (trim + lower), name
// (trim + collapse inner whitespace), xss / html (strip unsafe HTML via
// SanitizeHTML).
func SanitizeStruct(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrInvalidTarget
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return ErrInvalidTarget
	}
	sanitizeStructValue(rv)
	return nil
}

func sanitizeStructValue(rv reflect.Value) {
	rt := rv.Type()
	for i := range rt.NumField() {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		fv := rv.Field(i)

		switch fv.Kind() {
		case reflect.Struct:
			sanitizeStructValue(fv)
			continue
		case reflect.Pointer:
			if !fv.IsNil() && fv.Elem().Kind() == reflect.Struct {
				sanitizeStructValue(fv.Elem())
			}
			continue
		case reflect.String:
		default:
			continue
		}

		tag := sf.Tag.Get("san")
		if tag == "" || tag == "-" {
			continue
		}
		if !fv.CanSet() {
			continue
		}
		s := fv.String()
		for _, op := range strings.Split(tag, ",") {
			s = applySanitizer(strings.TrimSpace(op), s)
		}
		fv.SetString(s)
	}
}

func applySanitizer(op, s string) string {
	switch op {
	case "trim":
		return strings.TrimSpace(s)
	case "lower":
		return strings.ToLower(s)
	case "upper":
		return strings.ToUpper(s)
	case "email":
		return strings.ToLower(strings.TrimSpace(s))
	case "name":
		return strings.Join(strings.Fields(s), " ")
	case "xss", "html":
		return SanitizeHTML(s)
	default:
		return s
	}
}
