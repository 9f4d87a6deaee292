package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/gedtree/gedtree/pkg/gtr"
)

// config holds the optional configuration file values. Flags always
// override the file; the file overrides the built-in defaults.
type config struct {
	Render renderConfig `toml:"render"`
	Serve  serveConfig  `toml:"serve"`
}

type renderConfig struct {
	Format                   string `toml:"format"`
	Siblings                 bool   `toml:"siblings"`
	AncestorSiblings         bool   `toml:"ancestor_siblings"`
	MaxAncestorGenerations   int    `toml:"max_ancestor_generations"`
	MaxDescendantGenerations int    `toml:"max_descendant_generations"`
	DynamicLimits            bool   `toml:"dynamic_limits"`
}

type serveConfig struct {
	Addr      string `toml:"addr"`
	RedisAddr string `toml:"redis_addr"`
	MongoURI  string `toml:"mongo_uri"`
	CacheTTL  string `toml:"cache_ttl"`
}

// defaultConfig returns the built-in defaults used when no config file
// exists.
func defaultConfig() config {
	return config{
		Render: renderConfig{
			Format:                   "gtr",
			Siblings:                 true,
			AncestorSiblings:         true,
			MaxAncestorGenerations:   gtr.Unlimited,
			MaxDescendantGenerations: gtr.Unlimited,
		},
		Serve: serveConfig{
			Addr: ":8080",
		},
	}
}

// loadConfig reads the config file at path on top of the defaults. A
// missing or unreadable file yields the defaults; a malformed file is
// ignored the same way so a broken config never blocks the CLI.
func loadConfig(path string) config {
	cfg := defaultConfig()
	if path == "" {
		return cfg
	}
	if _, err := os.Stat(path); err != nil {
		return cfg
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return defaultConfig()
	}
	return cfg
}

// configPath returns the config file path using the XDG convention
// (~/.config/gedtree/config.toml).
func configPath() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// cacheDir returns the cache directory using the XDG convention
// (~/.cache/gedtree/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
