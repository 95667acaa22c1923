package registry_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozfortress/slurwatch/internal/registry"
)

func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadWordList(t *testing.T) {
	t.Run("bare list", func(t *testing.T) {
		path := writeTempYAML(t, "- alpha\n- Beta\n- alpha\n")

		wl, err := registry.LoadWordList(path, registry.LexiconKeys)
		require.NoError(t, err)

		// Duplicates collapse, matching is case-insensitive
		assert.Equal(t, 2, wl.Len())
		assert.True(t, wl.ContainsAny("contains ALPHA here"))
		assert.True(t, wl.MatchesWord("a beta word"))
	})

	t.Run("keyed mapping", func(t *testing.T) {
		path := writeTempYAML(t, "words:\n  - alpha\nterms:\n  - gamma\nignored:\n  - delta\n")

		wl, err := registry.LoadWordList(path, registry.LexiconKeys)
		require.NoError(t, err)

		assert.Equal(t, 2, wl.Len())
		assert.True(t, wl.ContainsAny("alpha"))
		assert.True(t, wl.ContainsAny("gamma"))
		assert.False(t, wl.ContainsAny("delta"))
	})

	t.Run("keys differ per list kind", func(t *testing.T) {
		path := writeTempYAML(t, "allow:\n  - harmless\n")

		lexicon, err := registry.LoadWordList(path, registry.LexiconKeys)
		require.NoError(t, err)
		assert.Equal(t, 0, lexicon.Len())

		allowlist, err := registry.LoadWordList(path, registry.AllowlistKeys)
		require.NoError(t, err)
		assert.Equal(t, 1, allowlist.Len())
	})

	t.Run("missing file yields empty list", func(t *testing.T) {
		wl, err := registry.LoadWordList(filepath.Join(t.TempDir(), "nope.yaml"), registry.LexiconKeys)
		require.NoError(t, err)
		assert.Equal(t, 0, wl.Len())
		assert.False(t, wl.ContainsAny("anything"))
	})

	t.Run("empty path yields empty list", func(t *testing.T) {
		wl, err := registry.LoadWordList("", registry.AllowlistKeys)
		require.NoError(t, err)
		assert.Equal(t, 0, wl.Len())
	})

	t.Run("invalid YAML is an error", func(t *testing.T) {
		path := writeTempYAML(t, "words: [unclosed\n")
		_, err := registry.LoadWordList(path, registry.LexiconKeys)
		require.Error(t, err)
	})
}

func TestWordListMatching(t *testing.T) {
	path := writeTempYAML(t, "- cat\n")

	wl, err := registry.LoadWordList(path, registry.LexiconKeys)
	require.NoError(t, err)

	// Substring match is broader than word match
	assert.True(t, wl.ContainsAny("concatenate"))
	assert.False(t, wl.MatchesWord("concatenate"))
	assert.True(t, wl.MatchesWord("the cat sat"))
	assert.False(t, wl.ContainsAny(""))
	assert.False(t, wl.MatchesWord(""))
}
