package testsupport

import (
	"path/filepath"
	"testing"

	"stockpile/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithIdentifierPrefix overrides the identifier prefix on the test config.
func WithIdentifierPrefix(prefix string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Identifier.Prefix = prefix
	}
}

// WithScannerLiterals overrides the misc and done literals on the test config.
func WithScannerLiterals(misc, done string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Scanner.MiscLiteral = misc
		cfg.Scanner.DoneLiteral = done
	}
}
