// # internal/config/config.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"hawk/internal/errors"
)

type Config struct {
	// SearchPath is the ordered list of directories includes are resolved
	// against. Overridden by the HAWK_AWKPATH environment list.
	SearchPath []string `toml:"search_path"`

	WatchPaths []string `toml:"watch_paths"`
	Exclude    Exclude  `toml:"exclude"`
	Watch      Watch    `toml:"watch"`
	Diags      Diags    `toml:"diagnostics"`
	History    History  `toml:"history"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// ReparsesPerSecond caps how fast watcher events may trigger reparses.
	ReparsesPerSecond float64 `toml:"reparses_per_second"`
}

type Diags struct {
	Max int `toml:"max"`

	// Gawk selects extended mode; a gawk shebang still forces it per file.
	Gawk bool `toml:"gawk"`

	MissingSemicolon bool `toml:"missing_semicolon"`
	Compatibility    bool `toml:"compatibility"`
	CheckArity       bool `toml:"check_arity"`
}

type History struct {
	Path string `toml:"path"`
}

func Default() *Config {
	cfg := &Config{}
	cfg.Diags.Compatibility = true
	cfg.Diags.CheckArity = true
	cfg.applyDefaults()
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.AddContext(
			errors.Wrap(err, errors.CodeNotFound, "read config"), errors.CtxPath, path)
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "parse config")
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if env := os.Getenv("HAWK_AWKPATH"); env != "" {
		c.SearchPath = splitPathList(env)
	}
	if len(c.SearchPath) == 0 {
		c.SearchPath = []string{"."}
	}
	if len(c.WatchPaths) == 0 {
		c.WatchPaths = []string{"."}
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = 500 * time.Millisecond
	}
	if c.Watch.ReparsesPerSecond == 0 {
		c.Watch.ReparsesPerSecond = 20
	}
	if c.Diags.Max == 0 {
		c.Diags.Max = 100
	}
	if c.History.Path == "" {
		c.History.Path = ".hawk/history.db"
	}
}

func splitPathList(env string) []string {
	var out []string
	for _, p := range strings.Split(env, string(os.PathListSeparator)) {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, filepath.Clean(p))
		}
	}
	return out
}
