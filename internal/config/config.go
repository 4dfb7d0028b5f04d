// Package config loads the optional skepa.toml project manifest that
// supplies defaults a CLI invocation may override with flags or the
// SKEPA_MAX_CALL_DEPTH environment variable.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
	"golang.org/x/mod/semver"
)

// CompilerVersion is the skepa toolchain's own semantic version, used to
// validate a manifest's skepa-version field.
const CompilerVersion = "v0.4.0"

// DefaultMaxCallDepth is used when neither skepa.toml nor
// SKEPA_MAX_CALL_DEPTH supplies a value.
const DefaultMaxCallDepth = 4096

// Config holds resolved build/run defaults.
type Config struct {
	MaxCallDepth int
	Trace        bool
	LogLevel     string
}

// manifest mirrors the on-disk skepa.toml shape.
type manifest struct {
	SkepaVersion string `toml:"skepa-version"`
	MaxCallDepth int    `toml:"max-call-depth"`
	Trace        bool   `toml:"trace"`
	LogLevel     string `toml:"loglevel"`
}

// Default returns the built-in defaults with no manifest or environment
// overrides applied.
func Default() Config {
	return Config{MaxCallDepth: DefaultMaxCallDepth, Trace: false, LogLevel: "verbose"}
}

// Load resolves a Config starting from an entry source file: it looks for
// skepa.toml alongside the file (and in each parent directory up to the
// filesystem root), applies it over the built-in defaults, and finally
// applies the SKEPA_MAX_CALL_DEPTH environment variable, which always wins
// over the manifest per spec.md §6.1.
func Load(entryPath string) (Config, error) {
	cfg := Default()

	if path, ok := findManifest(filepath.Dir(entryPath)); ok {
		m, err := loadManifest(path)
		if err != nil {
			return cfg, err
		}

		if m.SkepaVersion != "" {
			if !semver.IsValid(m.SkepaVersion) {
				return cfg, fmt.Errorf("%s: invalid skepa-version %q", path, m.SkepaVersion)
			}
			if semver.Compare(m.SkepaVersion, CompilerVersion) > 0 {
				return cfg, fmt.Errorf("%s: manifest requires skepa-version %s, this toolchain is %s", path, m.SkepaVersion, CompilerVersion)
			}
		}

		if m.MaxCallDepth > 0 {
			cfg.MaxCallDepth = m.MaxCallDepth
		}
		cfg.Trace = m.Trace
		if m.LogLevel != "" {
			cfg.LogLevel = m.LogLevel
		}
	}

	if envDepth, ok := os.LookupEnv("SKEPA_MAX_CALL_DEPTH"); ok {
		n, err := parsePositiveInt(envDepth)
		if err != nil {
			return cfg, fmt.Errorf("SKEPA_MAX_CALL_DEPTH: %w", err)
		}
		cfg.MaxCallDepth = n
	}

	return cfg, nil
}

// findManifest searches dir and its ancestors for a skepa.toml file.
func findManifest(dir string) (string, bool) {
	for {
		candidate := filepath.Join(dir, "skepa.toml")
		if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func loadManifest(path string) (*manifest, error) {
	tree, err := toml.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}

	m := &manifest{}
	if err := tree.Unmarshal(m); err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", path, err)
	}
	return m, nil
}

func parsePositiveInt(s string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0, fmt.Errorf("must be an integer, got %q", s)
	}
	if n < 1 {
		return 0, fmt.Errorf("must be >= 1, got %d", n)
	}
	return n, nil
}
