// Package config holds the process-wide extraction settings: whether
// adjacent line comments merge, whether indentation breaks a merge, and the
// user's preferred translation language. Settings are read by every query
// and replaced only by explicit configuration updates; there is no
// per-document override.
package config

import (
	"strings"

	"github.com/codetongue/codetongue/pkg/comment"
	"github.com/spf13/viper"
	"gitlab.com/tozd/go/errors"
)

type Settings struct {
	// MultiLineMerge merges consecutive same-scope line comments into one
	// translation unit, preserving paragraph context for the translator.
	MultiLineMerge bool `mapstructure:"multi_line_merge"`

	// IndentSensitiveMerge stops a merge at lines whose comment starts at
	// a different column.
	IndentSensitiveMerge bool `mapstructure:"indent_sensitive_merge"`

	// PreferredLanguage is the translation target language code.
	PreferredLanguage string `mapstructure:"preferred_language"`
}

var Default = Settings{
	MultiLineMerge:       true,
	IndentSensitiveMerge: true,
	PreferredLanguage:    "en",
}

// MergeOptions maps the settings onto the comment merger's options.
func (s Settings) MergeOptions() comment.MergeOptions {
	return comment.MergeOptions{
		MultiLine:       s.MultiLineMerge,
		IndentSensitive: s.IndentSensitiveMerge,
	}
}

// Load reads settings from an optional config file plus CODETONGUE_*
// environment variables, falling back to defaults. A missing config file is
// not an error; a malformed one is.
func Load(cfgFile string) (Settings, error) {
	v := viper.New()

	v.SetDefault("multi_line_merge", Default.MultiLineMerge)
	v.SetDefault("indent_sensitive_merge", Default.IndentSensitiveMerge)
	v.SetDefault("preferred_language", Default.PreferredLanguage)

	v.SetEnvPrefix("CODETONGUE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, errors.Errorf("reading config file %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName("codetongue")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/codetongue")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Settings{}, errors.Errorf("reading config: %w", err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, errors.Errorf("unmarshaling settings: %w", err)
	}
	return s, nil
}
