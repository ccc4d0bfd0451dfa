package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// number covers the numeric kinds accepted by the *Num rules.
type number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func requiredError(field string) ValidationError {
	return ValidationError{
		Field:             field,
		Message:           "field is required",
		TranslationKey:    "validation.required",
		TranslationValues: map[string]any{"field": field},
	}
}

// RequiredString fails when value is empty or whitespace-only.
func RequiredString(field, value string) Rule {
	return Rule{
		Check: strings.TrimSpace(value) != "",
		Error: requiredError(field),
	}
}

// RequiredSlice fails when the slice has no elements.
func RequiredSlice[T any](field string, value []T) Rule {
	return Rule{Check: len(value) > 0, Error: requiredError(field)}
}

// RequiredMap fails when the map has no entries.
func RequiredMap[K comparable, V any](field string, value map[K]V) Rule {
	return Rule{Check: len(value) > 0, Error: requiredError(field)}
}

// RequiredNum fails when value is zero.
func RequiredNum[T number](field string, value T) Rule {
	return Rule{Check: value != 0, Error: requiredError(field)}
}

// MinLenString fails when value is shorter than min runes.
func MinLenString(field, value string, min int) Rule {
	return Rule{
		Check: utf8.RuneCountInString(value) >= min,
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("must be at least %d characters long", min),
			TranslationKey:    "validation.min_length",
			TranslationValues: map[string]any{"field": field, "min": min},
		},
	}
}

// MaxLenString fails when value is longer than max runes.
func MaxLenString(field, value string, max int) Rule {
	return Rule{
		Check: utf8.RuneCountInString(value) <= max,
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("must not exceed %d characters", max),
			TranslationKey:    "validation.max_length",
			TranslationValues: map[string]any{"field": field, "max": max},
		},
	}
}

// LenString fails when value is not exactly length runes.
func LenString(field, value string, length int) Rule {
	return Rule{
		Check: utf8.RuneCountInString(value) == length,
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("must be exactly %d characters long", length),
			TranslationKey:    "validation.exact_length",
			TranslationValues: map[string]any{"field": field, "length": length},
		},
	}
}

// MinLenSlice fails when the slice has fewer than min elements.
func MinLenSlice[T any](field string, value []T, min int) Rule {
	return Rule{
		Check: len(value) >= min,
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("must contain at least %d items", min),
			TranslationKey:    "validation.min_items",
			TranslationValues: map[string]any{"field": field, "min": min},
		},
	}
}

// MaxLenSlice fails when the slice has more than max elements.
func MaxLenSlice[T any](field string, value []T, max int) Rule {
	return Rule{
		Check: len(value) <= max,
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("must not contain more than %d items", max),
			TranslationKey:    "validation.max_items",
			TranslationValues: map[string]any{"field": field, "max": max},
		},
	}
}

// LenSlice fails when the slice does not have exactly count elements.
func LenSlice[T any](field string, value []T, count int) Rule {
	return Rule{
		Check: len(value) == count,
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("must contain exactly %d items", count),
			TranslationKey:    "validation.exact_items",
			TranslationValues: map[string]any{"field": field, "count": count},
		},
	}
}

// MinNum fails when value is less than min.
func MinNum[T number](field string, value, min T) Rule {
	return Rule{
		Check: value >= min,
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("must be at least %v", min),
			TranslationKey:    "validation.min",
			TranslationValues: map[string]any{"field": field, "min": min},
		},
	}
}

// MaxNum fails when value is greater than max.
func MaxNum[T number](field string, value, max T) Rule {
	return Rule{
		Check: value <= max,
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("must not exceed %v", max),
			TranslationKey:    "validation.max",
			TranslationValues: map[string]any{"field": field, "max": max},
		},
	}
}

// EmailString fails when value is not a plausible email address. An empty
// value passes; combine with RequiredString to make the field mandatory.
func EmailString(field, value string) Rule {
	return Rule{
		Check: value == "" || emailRe.MatchString(value),
		Error: ValidationError{
			Field:             field,
			Message:           "must be a valid email address",
			TranslationKey:    "validation.email",
			TranslationValues: map[string]any{"field": field},
		},
	}
}
