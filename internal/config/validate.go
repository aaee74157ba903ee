package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateIdentifier(); err != nil {
		return err
	}
	if err := c.validateScanner(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateIdentifier() error {
	if c.Identifier.Prefix == "" {
		return errors.New("identifier.prefix must be set")
	}
	for _, r := range c.Identifier.Prefix {
		if unicode.IsDigit(r) {
			return fmt.Errorf("identifier.prefix %q must not contain digits", c.Identifier.Prefix)
		}
	}
	if c.Identifier.PadWidth > 12 {
		return errors.New("identifier.pad_width must be 12 or less")
	}
	return nil
}

func (c *Config) validateScanner() error {
	if len(c.Scanner.BinPrefixes) == 0 && len(c.Scanner.StoragePrefixes) == 0 {
		return errors.New("scanner must define at least one bin or storage prefix")
	}
	// A location prefix that shadows the identifier prefix would make the
	// classifier ambiguous; identifiers are matched first, so forbid overlap.
	for _, prefix := range append(append([]string{}, c.Scanner.BinPrefixes...), c.Scanner.StoragePrefixes...) {
		if strings.HasPrefix(c.Identifier.Prefix, prefix) {
			return fmt.Errorf("scanner prefix %q shadows identifier prefix %q", prefix, c.Identifier.Prefix)
		}
	}
	if c.Scanner.MiscLiteral == c.Scanner.DoneLiteral {
		return errors.New("scanner.misc_literal and scanner.done_literal must differ")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
