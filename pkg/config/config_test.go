package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codetongue/codetongue/pkg/config"
)

func TestLoad(t *testing.T) {
	t.Run("test_defaults", func(t *testing.T) {
		s, err := config.Load("")
		require.NoError(t, err, "loading without a config file should succeed")
		assert.True(t, s.MultiLineMerge, "merging should default on")
		assert.True(t, s.IndentSensitiveMerge, "indent sensitivity should default on")
		assert.Equal(t, "en", s.PreferredLanguage, "preferred language should default to en")
	})

	t.Run("test_config_file_overrides", func(t *testing.T) {
		dir := t.TempDir()
		cfgFile := filepath.Join(dir, "codetongue.yaml")
		content := "multi_line_merge: false\npreferred_language: de\n"
		require.NoError(t, os.WriteFile(cfgFile, []byte(content), 0o644))

		s, err := config.Load(cfgFile)
		require.NoError(t, err, "loading the config file should succeed")
		assert.False(t, s.MultiLineMerge, "file should override merging")
		assert.Equal(t, "de", s.PreferredLanguage, "file should override the language")
		assert.True(t, s.IndentSensitiveMerge, "unset keys should keep their defaults")
	})

	t.Run("test_malformed_config_file_fails", func(t *testing.T) {
		dir := t.TempDir()
		cfgFile := filepath.Join(dir, "codetongue.yaml")
		require.NoError(t, os.WriteFile(cfgFile, []byte(":\n  - broken"), 0o644))

		_, err := config.Load(cfgFile)
		require.Error(t, err, "malformed config should be reported")
	})

	t.Run("test_merge_options_mapping", func(t *testing.T) {
		s := config.Settings{MultiLineMerge: true, IndentSensitiveMerge: false}
		opts := s.MergeOptions()
		assert.True(t, opts.MultiLine, "multi-line flag should map through")
		assert.False(t, opts.IndentSensitive, "indent flag should map through")
	})
}
