package slug

import (
	"crypto/rand"
	mathrand "math/rand/v2"
	"strings"
	"unicode/utf8"
)

const (
	defaultSuffixLength = 6

	suffixCharsLower = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffixCharsMixed = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

type config struct {
	separator    string
	lowercase    bool
	maxLength    int
	minLength    int
	suffixLength int
	stripChars   string
	replacements map[string]string
	reserved     []string
}

// Option configures slug generation.
type Option func(*config)

// Separator sets the string placed between words. Defaults to "-".
func Separator(s string) Option {
	return func(c *config) { c.separator = s }
}

// Lowercase controls whether the slug is lowercased. Defaults to true.
func Lowercase(enabled bool) Option {
	return func(c *config) { c.lowercase = enabled }
}

// MaxLength truncates the slug to at most n runes. Zero means unlimited.
func MaxLength(n int) Option {
	return func(c *config) { c.maxLength = n }
}

// MinLength pads a slug shorter than n runes with a random suffix. The pad
// is applied once; MaxLength still wins when both are set.
func MinLength(n int) Option {
	return func(c *config) { c.minLength = n }
}

// WithSuffix appends a random alphanumeric suffix of n characters, useful
// for collision resistance. Zero disables the suffix.
func WithSuffix(n int) Option {
	return func(c *config) { c.suffixLength = n }
}

// StripChars removes the given characters outright before slugging, instead
// of treating them as word boundaries.
func StripChars(chars string) Option {
	return func(c *config) { c.stripChars = chars }
}

// CustomReplace substitutes substrings before any other processing, e.g.
// {"&": "and"}.
func CustomReplace(m map[string]string) Option {
	return func(c *config) { c.replacements = m }
}

// ReservedSlugs lists slugs that must never be produced verbatim; a match
// (case-insensitive) gets a random suffix appended.
func ReservedSlugs(names ...string) Option {
	return func(c *config) { c.reserved = names }
}

// diacritics folds accented and ligature characters to their closest ASCII
// letter. Unmapped non-alphanumeric runes act as word boundaries instead.
var diacritics = map[rune]rune{
	'à': 'a', 'á': 'a', 'â': 'a', 'ã': 'a', 'ä': 'a', 'å': 'a', 'ą': 'a', 'æ': 'a',
	'À': 'A', 'Á': 'A', 'Â': 'A', 'Ã': 'A', 'Ä': 'A', 'Å': 'A', 'Ą': 'A', 'Æ': 'A',
	'è': 'e', 'é': 'e', 'ê': 'e', 'ë': 'e', 'ę': 'e',
	'È': 'E', 'É': 'E', 'Ê': 'E', 'Ë': 'E', 'Ę': 'E',
	'ì': 'i', 'í': 'i', 'î': 'i', 'ï': 'i',
	'Ì': 'I', 'Í': 'I', 'Î': 'I', 'Ï': 'I',
	'ò': 'o', 'ó': 'o', 'ô': 'o', 'õ': 'o', 'ö': 'o', 'ø': 'o', 'œ': 'o',
	'Ò': 'O', 'Ó': 'O', 'Ô': 'O', 'Õ': 'O', 'Ö': 'O', 'Ø': 'O', 'Œ': 'O',
	'ù': 'u', 'ú': 'u', 'û': 'u', 'ü': 'u',
	'Ù': 'U', 'Ú': 'U', 'Û': 'U', 'Ü': 'U',
	'ý': 'y', 'ÿ': 'y', 'Ý': 'Y',
	'ñ': 'n', 'Ñ': 'N', 'ń': 'n', 'Ń': 'N',
	'ç': 'c', 'Ç': 'C', 'ć': 'c', 'Ć': 'C',
	'ś': 's', 'Ś': 'S', 'ß': 's',
	'ż': 'z', 'Ż': 'Z', 'ź': 'z', 'Ź': 'Z',
	'ł': 'l', 'Ł': 'L',
}

// Make converts input into a URL-safe slug.
func Make(input string, opts ...Option) string {
	cfg := config{separator: "-", lowercase: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := input
	for from, to := range cfg.replacements {
		s = strings.ReplaceAll(s, from, to)
	}
	if cfg.stripChars != "" {
		s = strings.Map(func(r rune) rune {
			if strings.ContainsRune(cfg.stripChars, r) {
				return -1
			}
			return r
		}, s)
	}

	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		if folded, ok := diacritics[r]; ok {
			r = folded
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			cur.WriteRune(r)
		default:
			flush()
		}
	}
	flush()

	base := strings.Join(words, cfg.separator)
	if cfg.lowercase {
		base = strings.ToLower(base)
	}

	result := base
	switch {
	case cfg.suffixLength > 0:
		// An explicit suffix is kept whole; the base gives way under MaxLength.
		suffix := randomSuffix(cfg.suffixLength, cfg.lowercase)
		if cfg.maxLength > 0 {
			avail := cfg.maxLength - len(suffix) - len(cfg.separator)
			if avail <= 0 {
				result = truncate(suffix, cfg.maxLength)
			} else {
				result = joinSuffix(truncateClean(base, avail, cfg.separator), cfg.separator, suffix)
			}
		} else {
			result = joinSuffix(base, cfg.separator, suffix)
		}
	case isReserved(base, cfg.reserved):
		result = joinSuffix(base, cfg.separator, randomSuffix(defaultSuffixLength, cfg.lowercase))
		if cfg.maxLength > 0 {
			result = truncateClean(result, cfg.maxLength, cfg.separator)
		}
	default:
		if cfg.maxLength > 0 {
			result = truncateClean(result, cfg.maxLength, cfg.separator)
		}
	}

	if cfg.minLength > 0 && utf8.RuneCountInString(result) < cfg.minLength {
		pad := randomSuffix(defaultSuffixLength, cfg.lowercase)
		padded := joinSuffix(result, cfg.separator, pad)
		if cfg.maxLength > 0 && utf8.RuneCountInString(padded) > cfg.maxLength {
			sepLen := 0
			if result != "" {
				sepLen = utf8.RuneCountInString(cfg.separator)
			}
			avail := cfg.maxLength - utf8.RuneCountInString(result) - sepLen
			if avail > 0 {
				padded = joinSuffix(result, cfg.separator, pad[:avail])
			} else {
				padded = result
			}
		}
		result = padded
	}

	return result
}

func isReserved(s string, reserved []string) bool {
	for _, r := range reserved {
		if strings.EqualFold(s, r) {
			return true
		}
	}
	return false
}

func joinSuffix(base, sep, suffix string) string {
	switch {
	case suffix == "":
		return base
	case base == "":
		return suffix
	default:
		return base + sep + suffix
	}
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// truncateClean cuts s to at most n runes, then strips any separator left
// dangling at the cut point.
func truncateClean(s string, n int, sep string) string {
	s = truncate(s, n)
	if sep == "" {
		return s
	}
	for strings.HasSuffix(s, sep) {
		s = strings.TrimSuffix(s, sep)
	}
	return s
}

// randomSuffix produces n random characters, alphanumeric lowercase (or
// mixed case when the slug is not lowercased). It falls back to a
// math/rand source in the unlikely event the system entropy read fails.
func randomSuffix(n int, lowercase bool) string {
	if n <= 0 {
		return ""
	}
	charset := suffixCharsMixed
	if lowercase {
		charset = suffixCharsLower
	}

	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		for i := range b {
			b[i] = charset[mathrand.IntN(len(charset))]
		}
		return string(b)
	}
	for i := range b {
		b[i] = charset[int(b[i])%len(charset)]
	}
	return string(b)
}
