package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTranslations(t *testing.T) {
	t.Run("should load built-in messages without locales dir", func(t *testing.T) {
		trans, err := NewTranslations("en", "")

		require.NoError(t, err)
		assert.Equal(t, "Nothing to release since commit abc123",
			trans.GetMessage("nothing_to_release", 0, map[string]interface{}{"since": "abc123"}))
	})

	t.Run("should fail with empty language", func(t *testing.T) {
		trans, err := NewTranslations("", "")

		assert.Error(t, err)
		assert.Nil(t, trans)
	})

	t.Run("should override messages from locale files", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "active.en.toml"), []byte(`
[pr_opened]
other = "PR {{.pr_number}} is ready"
`), 0644))

		trans, err := NewTranslations("en", dir)

		require.NoError(t, err)
		assert.Equal(t, "PR 7 is ready", trans.GetMessage("pr_opened", 0, map[string]interface{}{"pr_number": 7}))
	})

	t.Run("should fail on malformed locale file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "active.fr.toml"), []byte("[broken"), 0644))

		_, err := NewTranslations("en", dir)

		assert.Error(t, err)
	})
}

func TestTranslations_GetMessage(t *testing.T) {
	trans, err := NewTranslations("en", "")
	require.NoError(t, err)

	t.Run("plural forms", func(t *testing.T) {
		assert.Equal(t, "Closed 1 stale release PR", trans.GetMessage("stale_closed", 1, map[string]interface{}{"Count": 1}))
		assert.Equal(t, "Closed 2 stale release PRs", trans.GetMessage("stale_closed", 2, map[string]interface{}{"Count": 2}))
	})

	t.Run("missing message", func(t *testing.T) {
		assert.Equal(t, "Translation missing: nope", trans.GetMessage("nope", 0, nil))
	})

	t.Run("spanish", func(t *testing.T) {
		require.NoError(t, trans.SetLanguage("es"))
		assert.Equal(t, "PR de release #3 abierto para 1.2.0",
			trans.GetMessage("pr_opened", 0, map[string]interface{}{"pr_number": 3, "version": "1.2.0"}))
	})

	t.Run("unsupported language", func(t *testing.T) {
		assert.Error(t, trans.SetLanguage("ja"))
	})
}
