package feed

import (
	"encoding/base64"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/phrazzld/scry-feed/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_RoundTrip(t *testing.T) {
	t.Parallel()

	cursors := []Cursor{
		{},
		{Page: 1, Last: "Light travels at about 300,000 km per second."},
		{Page: 42, Last: "Ünïcödé «quotes» and \"escapes\" \\ survive"},
	}

	for _, c := range cursors {
		token := c.Encode()
		assert.NotContains(t, token, "=", "token must be unpadded")

		decoded, err := DecodeCursor(token)
		require.NoError(t, err)
		assert.Equal(t, c, decoded)
	}
}

func TestNextPage_SaturatesAtLimit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, nextPage(0))
	assert.Equal(t, MaxPage, nextPage(MaxPage-1))
	assert.Equal(t, MaxPage, nextPage(MaxPage))

	decoded, err := DecodeCursor(Cursor{Page: nextPage(MaxPage)}.Encode())
	require.NoError(t, err)
	assert.Equal(t, MaxPage, decoded.Page)
}

func TestCursor_EmptyTokenIsFirstPage(t *testing.T) {
	t.Parallel()

	c, err := DecodeCursor("")
	require.NoError(t, err)
	assert.Equal(t, Cursor{}, c)
}

func TestCursor_TruncatesLast(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("é", maxLastRunes+40)
	decoded, err := DecodeCursor(Cursor{Page: 3, Last: long}.Encode())
	require.NoError(t, err)

	assert.Equal(t, 3, decoded.Page)
	assert.Equal(t, maxLastRunes, utf8.RuneCountInString(decoded.Last))
	assert.True(t, strings.HasPrefix(long, decoded.Last))
}

func TestDecodeCursor_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "!!!not-a-cursor!!!"},
		{"not json", "bm90IGpzb24"},
		{"negative page", Cursor{Page: -1}.Encode()},
		{"wrong shape", "WzEsMiwzXQ"},
		{"oversized", strings.Repeat("A", maxCursorLength+1)},
		{"page past limit", Cursor{Page: MaxPage + 1}.Encode()},
		{"max int page", base64.RawURLEncoding.EncodeToString([]byte(`{"p":9223372036854775807}`))},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeCursor(tc.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrBadRequest)
			assert.ErrorIs(t, err, domain.ErrInvalidCursor)
		})
	}
}
