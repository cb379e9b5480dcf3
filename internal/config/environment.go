// Package config resolves tool settings from built-in defaults, an optional
// YAML config file, and FEEDKEEP_* environment variables, in that order.
// Command-line flags override all of it.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// FeedPath is the Atom document to operate on.
	FeedPath string `yaml:"feed"`
	// RejectPath receives pruned entries; empty means derive it from
	// FeedPath (feed.xml -> feed.rej.xml).
	RejectPath string `yaml:"reject"`
	// Default author lists applied by add when no author flags are given.
	AuthorNames  []string `yaml:"author_names"`
	AuthorEmails []string `yaml:"author_emails"`
	// NoGenerator suppresses the generator block by default.
	NoGenerator bool `yaml:"no_generator"`
}

func GetConfig() Config {
	config := Config{
		FeedPath: "feed.xml",
	}

	if path := configFilePath(); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			// A broken config file is ignored rather than fatal; flags and
			// env vars still work.
			_ = yaml.Unmarshal(data, &config)
		}
	}

	// Override with environment variables if present
	if feedPath := os.Getenv("FEEDKEEP_FEED"); feedPath != "" {
		config.FeedPath = feedPath
	}
	if rejectPath := os.Getenv("FEEDKEEP_REJECT"); rejectPath != "" {
		config.RejectPath = rejectPath
	}

	return config
}

func configFilePath() string {
	if path := os.Getenv("FEEDKEEP_CONFIG"); path != "" {
		return path
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "feedkeep", "config.yml")
}
