package shortener

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when no short link exists for a slug.
	ErrNotFound = errors.New("short link not found")

	// ErrDuplicateSlug is returned by a Repository when the slug is already taken.
	ErrDuplicateSlug = errors.New("slug is already used")

	// ErrInvalidInput matches any *ValidationError via errors.Is.
	ErrInvalidInput = errors.New("invalid input")
)

// Field names the input a Violation refers to.
type Field string

const (
	FieldSlug Field = "slug"
	FieldURL  Field = "url"
)

// Violation is a single broken validation rule.
type Violation struct {
	Field   Field
	Message string
}

// ValidationError carries every rule a create request broke.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, string(v.Field)+": "+v.Message)
	}

	return "invalid input: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Messages returns the violation messages reported for one field, in rule order.
func (e *ValidationError) Messages(field Field) []string {
	var msgs []string

	for _, v := range e.Violations {
		if v.Field == field {
			msgs = append(msgs, v.Message)
		}
	}

	return msgs
}
