package shortener_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/serroba/stubby/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_ValidateURL(t *testing.T) {
	v := shortener.NewValidator(shortener.DefaultMaxSlugLength, true)

	valid := []string{
		"https://example.com",
		"http://example.com/path?q=1#frag",
		"https://x.test",
	}
	for _, u := range valid {
		t.Run("accepts "+u, func(t *testing.T) {
			assert.Empty(t, v.ValidateURL(u))
		})
	}

	invalid := []string{
		"",
		"not-a-url",
		"ftp://example.com",
		"https://",
		"https://exa mple.com",
		`https://example.com/"quoted"`,
		"HTTPS://example.com",
		" https://example.com",
	}
	for _, u := range invalid {
		t.Run("rejects "+u, func(t *testing.T) {
			violations := v.ValidateURL(u)

			require.Len(t, violations, 1)
			assert.Equal(t, shortener.FieldURL, violations[0].Field)
			assert.Equal(t, shortener.MsgURLScheme, violations[0].Message)
		})
	}
}

func TestValidator_ValidateSlug(t *testing.T) {
	t.Run("accepts a simple slug", func(t *testing.T) {
		v := shortener.NewValidator(10, true)

		assert.Empty(t, v.ValidateSlug("my-link-1"))
	})

	t.Run("reports empty slug", func(t *testing.T) {
		v := shortener.NewValidator(10, true)

		violations := v.ValidateSlug("")

		require.Len(t, violations, 1)
		assert.Equal(t, shortener.MsgSlugEmpty, violations[0].Message)
	})

	t.Run("length must be strictly below the maximum", func(t *testing.T) {
		v := shortener.NewValidator(5, true)

		assert.Empty(t, v.ValidateSlug("abcd"))
		assert.NotEmpty(t, v.ValidateSlug("abcde"))
		assert.NotEmpty(t, v.ValidateSlug("abcdef"))
	})

	t.Run("length counts characters not bytes", func(t *testing.T) {
		v := shortener.NewValidator(5, false)

		assert.Empty(t, v.ValidateSlug("äöüß"))
	})

	t.Run("reports whitespace once in strict mode", func(t *testing.T) {
		v := shortener.NewValidator(shortener.DefaultMaxSlugLength, true)

		violations := v.ValidateSlug(" bad slug")

		require.Len(t, violations, 1)
		assert.Equal(t, shortener.MsgSlugWhitespace, violations[0].Message)
	})

	t.Run("detects tabs and newlines", func(t *testing.T) {
		v := shortener.NewValidator(shortener.DefaultMaxSlugLength, false)

		assert.NotEmpty(t, v.ValidateSlug("a\tb"))
		assert.NotEmpty(t, v.ValidateSlug("ab\n"))
	})

	t.Run("reports every broken rule", func(t *testing.T) {
		v := shortener.NewValidator(4, true)

		violations := v.ValidateSlug("a b c d")

		require.Len(t, violations, 2)
		assert.Contains(t, violations[0].Message, "shorter than 4")
		assert.Equal(t, shortener.MsgSlugWhitespace, violations[1].Message)
	})

	t.Run("strict mode rejects punctuation", func(t *testing.T) {
		v := shortener.NewValidator(shortener.DefaultMaxSlugLength, true)

		violations := v.ValidateSlug("a_b")

		require.Len(t, violations, 1)
		assert.Equal(t, shortener.MsgSlugCharset, violations[0].Message)
	})

	t.Run("lenient mode accepts punctuation", func(t *testing.T) {
		v := shortener.NewValidator(shortener.DefaultMaxSlugLength, false)

		assert.Empty(t, v.ValidateSlug("a_b.c"))
	})

	t.Run("any slug with whitespace or too long is rejected", func(t *testing.T) {
		v := shortener.NewValidator(8, false)

		for _, s := range []string{"a b", " ", "x y", strings.Repeat("z", 8), strings.Repeat("z", 50)} {
			assert.NotEmpty(t, v.ValidateSlug(s), "slug %q", s)
		}
	})
}

func TestNewValidator(t *testing.T) {
	t.Run("falls back to default bound", func(t *testing.T) {
		v := shortener.NewValidator(0, true)

		assert.Equal(t, shortener.DefaultMaxSlugLength, v.MaxSlugLength)
	})
}

func TestValidator_Validate(t *testing.T) {
	v := shortener.NewValidator(shortener.DefaultMaxSlugLength, true)

	t.Run("returns nil for valid input", func(t *testing.T) {
		assert.NoError(t, v.Validate("abc", "https://x.test"))
	})

	t.Run("lists slug and url violations together", func(t *testing.T) {
		err := v.Validate(" bad slug", "not-a-url")

		var verr *shortener.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.ErrorIs(t, err, shortener.ErrInvalidInput)
		assert.Equal(t, []string{shortener.MsgSlugWhitespace}, verr.Messages(shortener.FieldSlug))
		assert.Equal(t, []string{shortener.MsgURLScheme}, verr.Messages(shortener.FieldURL))
		assert.Contains(t, err.Error(), "slug: "+shortener.MsgSlugWhitespace)
	})

	t.Run("is not a duplicate error", func(t *testing.T) {
		err := v.Validate("", "")

		assert.False(t, errors.Is(err, shortener.ErrDuplicateSlug))
	})
}
