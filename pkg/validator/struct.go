package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ErrInvalidTarget is returned by ValidateStruct when the target is not a
// struct or a non-nil pointer to one.
var ErrInvalidTarget = errors.New("validator: target must be a struct or non-nil struct pointer")

// ValidateStruct validates v against its `validate` struct tags and returns
// a ValidationErrors error listing every failure, or nil when everything
// passes. Rules are separated by ";", each either a bare name or
// "name:param":
//
//	type CreateContact struct {
//	    Name  string `form:"name"  validate:"required;min:2;max:100"`
//	    Email string `form:"email" validate:"required;email"`
//	}
//
// Supported rules: required, min, max, len, email. For strings min/max/len
// bound the rune length, for slices and maps the element count, and for
// numeric fields the value itself. The reported field name comes from the
// json or form tag when present, the lowercased Go field name otherwise.
func ValidateStruct(v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ErrInvalidTarget
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return ErrInvalidTarget
	}

	var errs ValidationErrors
	rt := rv.Type()
	for i := range rt.NumField() {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get("validate")
		if tag == "" || tag == "-" {
			continue
		}
		field := fieldName(sf)
		fv := rv.Field(i)

		for _, spec := range strings.Split(tag, ";") {
			spec = strings.TrimSpace(spec)
			if spec == "" {
				continue
			}
			name, param, _ := strings.Cut(spec, ":")
			rule, err := buildRule(field, fv, name, param)
			if err != nil {
				return err
			}
			if !rule.Check {
				errs = append(errs, rule.Error)
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func fieldName(sf reflect.StructField) string {
	for _, tag := range []string{"json", "form", "query"} {
		if v := sf.Tag.Get(tag); v != "" && v != "-" {
			name, _, _ := strings.Cut(v, ",")
			if name != "" {
				return name
			}
		}
	}
	return strings.ToLower(sf.Name)
}

func buildRule(field string, fv reflect.Value, name, param string) (Rule, error) {
	switch name {
	case "required":
		return requiredRule(field, fv), nil
	case "email":
		if fv.Kind() != reflect.String {
			return Rule{}, fmt.Errorf("validator: email rule requires a string field, got %s", fv.Kind())
		}
		return EmailString(field, fv.String()), nil
	case "min", "max", "len":
		n, err := strconv.Atoi(param)
		if err != nil {
			return Rule{}, fmt.Errorf("validator: invalid %s parameter %q for field %s", name, param, field)
		}
		return boundRule(field, fv, name, n)
	default:
		return Rule{}, fmt.Errorf("validator: unknown rule %q for field %s", name, field)
	}
}

func requiredRule(field string, fv reflect.Value) Rule {
	switch fv.Kind() {
	case reflect.String:
		return RequiredString(field, fv.String())
	case reflect.Slice, reflect.Map, reflect.Array:
		return Rule{Check: fv.Len() > 0, Error: requiredError(field)}
	case reflect.Pointer, reflect.Interface:
		return Rule{Check: !fv.IsNil(), Error: requiredError(field)}
	default:
		return Rule{Check: !fv.IsZero(), Error: requiredError(field)}
	}
}

func boundRule(field string, fv reflect.Value, name string, n int) (Rule, error) {
	switch fv.Kind() {
	case reflect.String:
		switch name {
		case "min":
			return MinLenString(field, fv.String(), n), nil
		case "max":
			return MaxLenString(field, fv.String(), n), nil
		default:
			return LenString(field, fv.String(), n), nil
		}
	case reflect.Slice, reflect.Map, reflect.Array:
		switch name {
		case "min":
			return MinLenSlice(field, make([]struct{}, fv.Len()), n), nil
		case "max":
			return MaxLenSlice(field, make([]struct{}, fv.Len()), n), nil
		default:
			return LenSlice(field, make([]struct{}, fv.Len()), n), nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch name {
		case "min":
			return MinNum(field, int(fv.Int()), n), nil
		case "max":
			return MaxNum(field, int(fv.Int()), n), nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		switch name {
		case "min":
			return MinNum(field, int(fv.Uint()), n), nil
		case "max":
			return MaxNum(field, int(fv.Uint()), n), nil
		}
	case reflect.Float32, reflect.Float64:
		switch name {
		case "min":
			return MinNum(field, fv.Float(), float64(n)), nil
		case "max":
			return MaxNum(field, fv.Float(), float64(n)), nil
		}
	}
	return Rule{}, fmt.Errorf("validator: rule %q does not apply to field %s (%s)", name, field, fv.Kind())
}
