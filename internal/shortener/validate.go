package shortener

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxSlugLength is the exclusive upper bound on slug length.
const DefaultMaxSlugLength = 191

const (
	MsgURLScheme      = "Link must start with http:// or https:// and contain no spaces or quotes"
	MsgSlugEmpty      = "Slug must not be empty"
	MsgSlugWhitespace = "Slug must not contain whitespace"
	MsgSlugCharset    = "Slug may only contain letters, digits and hyphens"
)

var (
	urlPattern  = regexp.MustCompile(`^(http|https)://[^ "]+$`)
	slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9]+$`)
)

// Validator performs the syntactic checks on a slug and a destination URL.
// Every rule is evaluated so callers can show all problems at once.
type Validator struct {
	MaxSlugLength int
	// Strict additionally restricts slugs to ASCII letters, digits and '-'.
	Strict bool
}

// NewValidator returns a Validator, falling back to DefaultMaxSlugLength for
// bounds that would reject every slug.
func NewValidator(maxSlugLength int, strict bool) Validator {
	if maxSlugLength < 2 {
		maxSlugLength = DefaultMaxSlugLength
	}

	return Validator{MaxSlugLength: maxSlugLength, Strict: strict}
}

func (v Validator) ValidateURL(candidate string) []Violation {
	if urlPattern.MatchString(candidate) {
		return nil
	}

	return []Violation{{Field: FieldURL, Message: MsgURLScheme}}
}

func (v Validator) ValidateSlug(candidate string) []Violation {
	var violations []Violation

	if candidate == "" {
		violations = append(violations, Violation{Field: FieldSlug, Message: MsgSlugEmpty})
	}

	if utf8.RuneCountInString(candidate) >= v.MaxSlugLength {
		violations = append(violations, Violation{
			Field:   FieldSlug,
			Message: fmt.Sprintf("Slug must be shorter than %d characters", v.MaxSlugLength),
		})
	}

	hasSpace := strings.IndexFunc(candidate, unicode.IsSpace) >= 0
	if hasSpace {
		violations = append(violations, Violation{Field: FieldSlug, Message: MsgSlugWhitespace})
	}

	// Whitespace already explains a charset failure; report it once.
	if v.Strict && candidate != "" && !hasSpace && !slugPattern.MatchString(candidate) {
		violations = append(violations, Violation{Field: FieldSlug, Message: MsgSlugCharset})
	}

	return violations
}

// Validate checks both inputs and returns a *ValidationError listing every
// violation, or nil.
func (v Validator) Validate(slug, url string) error {
	violations := append(v.ValidateSlug(slug), v.ValidateURL(url)...)
	if len(violations) == 0 {
		return nil
	}

	return &ValidationError{Violations: violations}
}
