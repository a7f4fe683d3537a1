package feed

import (
	"encoding/base64"
	"encoding/json"

	"github.com/phrazzld/scry-feed/internal/domain"
)

const (
	// maxCursorLength rejects oversized tokens before decoding.
	maxCursorLength = 1024

	// maxLastRunes bounds the snippet text carried in a cursor.
	maxLastRunes = 160

	// MaxPage is the highest page a cursor can address. The page after it is
	// MaxPage again, so a returned cursor always decodes.
	MaxPage = 1 << 30
)

// Cursor is the decoded form of a continuation token.
type Cursor struct {
	// Page is the zero-based page the token continues from.
	Page int `json:"p"`

	// Last is the last snippet served on the previous page, truncated.
	Last string `json:"l,omitempty"`
}

// Encode returns the opaque token for c.
func (c Cursor) Encode() string {
	c.Last = truncateRunes(c.Last, maxLastRunes)
	data, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeCursor parses a token produced by Encode. The empty token is the
// first page. Malformed tokens are reported as bad requests.
func DecodeCursor(token string) (Cursor, error) {
	if token == "" {
		return Cursor{}, nil
	}
	if len(token) > maxCursorLength {
		return Cursor{}, invalidCursor()
	}

	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, invalidCursor()
	}

	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return Cursor{}, invalidCursor()
	}
	if c.Page < 0 || c.Page > MaxPage {
		return Cursor{}, invalidCursor()
	}
	return c, nil
}

func nextPage(page int) int {
	if page >= MaxPage {
		return MaxPage
	}
	return page + 1
}

func invalidCursor() error {
	return domain.NewValidationError("cursor", "is invalid", domain.ErrInvalidCursor)
}

func truncateRunes(s string, n int) string {
	runes := 0
	for i := range s {
		if runes == n {
			return s[:i]
		}
		runes++
	}
	return s
}
