package fallback_test

import (
	"strings"
	"testing"

	"github.com/phrazzld/scry-feed/internal/domain"
	"github.com/phrazzld/scry-feed/internal/fallback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallback_Snippets(t *testing.T) {
	t.Parallel()

	lib := fallback.New()

	t.Run("count and topic reference", func(t *testing.T) {
		t.Parallel()

		for _, count := range []int{1, 5, 10, 30} {
			snippets, options := lib.Fallback("Photography tips", count, false)

			require.Len(t, snippets, count)
			assert.Nil(t, options)
			seen := make(map[string]bool, count)
			for _, s := range snippets {
				assert.Contains(t, s, "Photography tips")
				fp := domain.Fingerprint(s)
				assert.False(t, seen[fp], "duplicate fallback snippet %q", s)
				seen[fp] = true
			}
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()

		a, aOpts := lib.Generate("AI Ethics", 5, true, "page-3")
		b, bOpts := lib.Generate("AI Ethics", 5, true, "page-3")

		assert.Equal(t, a, b)
		assert.Equal(t, aOpts, bOpts)
	})

	t.Run("different salts never collide", func(t *testing.T) {
		t.Parallel()

		seen := make(map[string]string)
		for page := 0; page < 50; page++ {
			salt := "page-" + strings.Repeat("x", page)
			snippets, _ := lib.Generate("Photography tips", 10, false, salt)
			for _, s := range snippets {
				fp := domain.Fingerprint(s)
				prev, dup := seen[fp]
				require.False(t, dup, "snippet %q repeated (salts %q and %q)", s, prev, salt)
				seen[fp] = salt
			}
		}
	})

	t.Run("case variants share ids", func(t *testing.T) {
		t.Parallel()

		lower, _ := lib.Fallback("photography tips", 3, false)
		upper, _ := lib.Fallback("Photography Tips", 3, false)

		for i := range lower {
			assert.Equal(t, domain.Fingerprint(lower[i]), domain.Fingerprint(upper[i]))
		}
	})

	t.Run("non-positive count", func(t *testing.T) {
		t.Parallel()

		snippets, _ := lib.Fallback("Go", 0, false)
		assert.Empty(t, snippets)
	})

	t.Run("topic with format verbs is kept verbatim", func(t *testing.T) {
		t.Parallel()

		snippets, _ := lib.Fallback("100% %s tricks", 2, false)
		for _, s := range snippets {
			assert.Contains(t, s, "100% %s tricks")
		}
	})
}

func TestFallback_Options(t *testing.T) {
	t.Parallel()

	lib := fallback.New()

	tests := []struct {
		topic    string
		category string
	}{
		{"Quantum mechanics", "physics"},
		{"Physics of music", "physics"},
		{"Marine biology", "science"},
		{"Computer science", "science"},
		{"AI Ethics", "ai"},
		{"Intro to machine learning", "ai"},
		{"Artificial   Intelligence history", "ai"},
		{"Brain teasers", "generic"},
		{"Said and done", "generic"},
		{"Photography tips", "generic"},
		{"", "generic"},
	}

	for _, tc := range tests {
		t.Run(tc.topic, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.category, lib.Category(tc.topic))

			_, options := lib.Fallback(tc.topic, 1, true)
			require.Len(t, options, domain.MaxOptions)
			for _, opt := range options {
				assert.NotEmpty(t, opt.Title)
				assert.NotContains(t, opt.Description, "{topic}")
			}
		})
	}
}

func TestFallback_RuleOrder(t *testing.T) {
	t.Parallel()

	// Physics is listed before science, so a topic matching both is physics.
	assert.Equal(t, "physics", fallback.New().Category("Physics as a science"))
}
