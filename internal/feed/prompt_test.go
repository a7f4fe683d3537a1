package feed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptBuilder_Default(t *testing.T) {
	t.Parallel()

	builder, err := NewPromptBuilder("")
	require.NoError(t, err)

	t.Run("first page without options", func(t *testing.T) {
		prompt, err := builder.Build(PromptData{Topic: "Photography tips", Count: 5, MaxOptions: 4})
		require.NoError(t, err)

		assert.Contains(t, prompt, `"Photography tips"`)
		assert.Contains(t, prompt, "exactly 5 distinct facts")
		assert.Contains(t, prompt, `{"cards":[{"text":"..."}]}`)
		assert.NotContains(t, prompt, "options")
		assert.NotContains(t, prompt, "already seen")
	})

	t.Run("continuation with options", func(t *testing.T) {
		prompt, err := builder.Build(PromptData{
			Topic:          "Quantum physics",
			Count:          3,
			Page:           2,
			Previous:       "Electrons tunnel through barriers.",
			IncludeOptions: true,
			MaxOptions:     4,
		})
		require.NoError(t, err)

		assert.Contains(t, prompt, "Electrons tunnel through barriers.")
		assert.Contains(t, prompt, "page 2")
		assert.Contains(t, prompt, "up to 4 follow-on sub-topics")
		assert.Contains(t, prompt, `"options":[{"title":"...","description":"..."}]`)
	})
}

func TestPromptBuilder_FileOverride(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "prompt.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("Give {{.Count}} facts on {{.Topic}}."), 0o600))

	builder, err := NewPromptBuilder(path)
	require.NoError(t, err)

	prompt, err := builder.Build(PromptData{Topic: "Volcanoes", Count: 2})
	require.NoError(t, err)
	assert.Equal(t, "Give 2 facts on Volcanoes.", prompt)
}

func TestPromptBuilder_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewPromptBuilder(filepath.Join(t.TempDir(), "missing.tmpl"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("{{.Topic"), 0o600))
	_, err = NewPromptBuilder(path)
	assert.Error(t, err)

	path = filepath.Join(t.TempDir(), "unknown.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("{{.Nope}}"), 0o600))
	builder, err := NewPromptBuilder(path)
	require.NoError(t, err)
	_, err = builder.Build(PromptData{Topic: "x", Count: 1})
	assert.Error(t, err)
}
