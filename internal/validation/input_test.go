package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		name    string
		slug    string
		wantErr bool
	}{
		{name: "valid slug", slug: "politica-y-cafe"},
		{name: "with underscore and caps", slug: "Hola_Mundo2"},
		{name: "empty", slug: "", wantErr: true},
		{name: "path traversal", slug: "../tokens", wantErr: true},
		{name: "slash", slug: "a/b", wantErr: true},
		{name: "space", slug: "hola mundo", wantErr: true},
		{name: "accent", slug: "café", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSlug(tt.slug)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "hola", want: "hola"},
		{in: "<b>hola</b>", want: "hola"},
		{in: `<script>alert("x")</script>`, want: `alert("x")`},
		{in: "a < b > c", want: "a  c"},
		{in: "1 < 2", want: "1  2"},
		{in: "<img src=x onerror=alert(1)>", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, StripHTML(tt.in))
		})
	}
}

func TestCleanText(t *testing.T) {
	t.Run("2000 characters accepted", func(t *testing.T) {
		raw := strings.Repeat("á", 2000)
		got, err := CleanText("content", raw, 2000)
		require.NoError(t, err)
		assert.Equal(t, raw, got)
	})

	t.Run("2001 characters rejected", func(t *testing.T) {
		_, err := CleanText("content", strings.Repeat("a", 2001), 2000)
		require.ErrorIs(t, err, ErrInvalid)
		assert.Equal(t, "content is too long (max 2000 characters)", Message(err))
	})

	t.Run("trimmed and stripped", func(t *testing.T) {
		got, err := CleanText("author", "  <i>Ana</i>  ", 50)
		require.NoError(t, err)
		assert.Equal(t, "Ana", got)
	})

	t.Run("empty after stripping", func(t *testing.T) {
		_, err := CleanText("author", "<b></b>", 50)
		require.ErrorIs(t, err, ErrInvalid)
		assert.Equal(t, "author is required", Message(err))
	})
}
