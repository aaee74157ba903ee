package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeIdentifier()
	c.normalizeScanner()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	for name, field := range map[string]*string{
		"paths.data_dir": &c.Paths.DataDir,
		"paths.log_dir":  &c.Paths.LogDir,
	} {
		expanded, err := expandPath(*field)
		if err != nil {
			return fmt.Errorf("normalize %s: %w", name, err)
		}
		*field = expanded
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	return nil
}

func (c *Config) normalizeIdentifier() {
	c.Identifier.Prefix = strings.TrimSpace(c.Identifier.Prefix)
	if c.Identifier.PadWidth <= 0 {
		c.Identifier.PadWidth = defaultIdentifierPad
	}
}

func (c *Config) normalizeScanner() {
	c.Scanner.BinPrefixes = trimAll(c.Scanner.BinPrefixes)
	c.Scanner.StoragePrefixes = trimAll(c.Scanner.StoragePrefixes)
	c.Scanner.MiscLiteral = strings.TrimSpace(c.Scanner.MiscLiteral)
	c.Scanner.DoneLiteral = strings.TrimSpace(c.Scanner.DoneLiteral)
	if c.Scanner.MiscLiteral == "" {
		c.Scanner.MiscLiteral = defaultMiscLiteral
	}
	if c.Scanner.DoneLiteral == "" {
		c.Scanner.DoneLiteral = defaultDoneLiteral
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.RequestTimeout <= 0 {
		c.Workflow.RequestTimeout = defaultRequestTimeout
	}
	if c.Workflow.AllocationRetries <= 0 {
		c.Workflow.AllocationRetries = defaultAllocationRetries
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func trimAll(values []string) []string {
	out := values[:0]
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
