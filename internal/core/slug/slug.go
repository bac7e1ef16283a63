// Package slug derives URL-safe identifiers from display names and assigns
// them within a uniqueness scope.
package slug

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/habitline/habitline/server/internal/model"
)

const (
	// MaxLen matches the width of the slug columns.
	MaxLen = 100
	// DefaultMaxAttempts bounds the suffix search.
	DefaultMaxAttempts = 10000
)

var (
	disallowed = regexp.MustCompile(`[^a-z0-9_\s-]`)
	separators = regexp.MustCompile(`[-\s]+`)
)

var cyrillic = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "e", 'ж': "zh",
	'з': "z", 'и': "i", 'й': "i", 'к': "k", 'л': "l", 'м': "m", 'н': "n", 'о': "o",
	'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u", 'ф': "f", 'х': "kh", 'ц': "ts",
	'ч': "ch", 'ш': "sh", 'щ': "shch", 'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "iu",
	'я': "ia", 'і': "i", 'ї': "i", 'є': "ie", 'ґ': "g",
}

// Make lowercases s, transliterates Cyrillic, strips accents, drops anything
// that is not a letter, digit, underscore, space or hyphen, and joins words
// with single hyphens. The result may be empty.
func Make(s string) string {
	s = strings.ToLower(s)

	var b strings.Builder
	for _, r := range s {
		if lat, ok := cyrillic[r]; ok {
			b.WriteString(lat)
			continue
		}
		b.WriteRune(r)
	}

	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, b.String())
	if err != nil {
		folded = b.String()
	}

	out := disallowed.ReplaceAllString(folded, "")
	out = separators.ReplaceAllString(out, "-")
	return strings.Trim(out, "-_")
}

// Exists reports whether candidate is already taken by another entity in the
// scope being assigned. Implementations exclude the entity being saved.
type Exists func(ctx context.Context, candidate string) (bool, error)

// Assigner picks the first free slug among base, base-1, base-2, ...
type Assigner struct {
	maxAttempts int
}

// NewAssigner returns an Assigner giving up after maxAttempts candidates.
// Non-positive values select DefaultMaxAttempts.
func NewAssigner(maxAttempts int) *Assigner {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Assigner{maxAttempts: maxAttempts}
}

// Assign derives a slug for text in the namespace named by kind. When current
// was already derived from the same base it is returned untouched, so
// re-saving an unchanged entity never moves its identifier.
func (a *Assigner) Assign(ctx context.Context, kind model.SlugKind, text, current string, exists Exists) (string, error) {
	base := Make(text)
	if base == "" {
		base = string(kind)
	}
	base = truncate(base, MaxLen)

	if current != "" && DerivedFrom(current, base) {
		return current, nil
	}

	for n := 0; n < a.maxAttempts; n++ {
		candidate := Candidate(base, n)
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check %s slug %q: %w", kind, candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%s slug %q after %d attempts: %w", kind, base, a.maxAttempts, model.ErrIdentifierExhausted)
}

// Candidate returns the n-th candidate for base: base itself for n == 0 and
// base-n otherwise, truncated so the suffix always fits.
func Candidate(base string, n int) string {
	if n == 0 {
		return truncate(base, MaxLen)
	}
	suffix := "-" + strconv.Itoa(n)
	return truncate(base, MaxLen-len(suffix)) + suffix
}

// DerivedFrom reports whether s is base or base-N for some positive N.
func DerivedFrom(s, base string) bool {
	if s == base {
		return true
	}
	i := strings.LastIndexByte(s, '-')
	if i <= 0 {
		return false
	}
	n, err := strconv.Atoi(s[i+1:])
	if err != nil || n <= 0 {
		return false
	}
	return Candidate(base, n) == s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimRight(s[:n], "-_")
}
