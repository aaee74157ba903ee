package classify

import (
	"strings"
	"unicode"

	"stockpile/internal/config"
)

// Kind is the classification of one scanned token.
type Kind int

const (
	// KindIdentifier is a stock identifier (prefix + digits).
	KindIdentifier Kind = iota
	// KindLocation is a recognized storage location token.
	KindLocation
	// KindSubLocation is any token that matches nothing else. Malformed
	// scans land here on purpose and surface later as validation problems
	// rather than classifier failures.
	KindSubLocation
	// KindFinalize is the reserved token closing out the pending entry.
	KindFinalize
)

// String implements fmt.Stringer for log output.
func (k Kind) String() string {
	switch k {
	case KindIdentifier:
		return "identifier"
	case KindLocation:
		return "location"
	case KindSubLocation:
		return "sub-location"
	case KindFinalize:
		return "finalize"
	default:
		return "unknown"
	}
}

// Rules holds the token patterns a Classifier recognizes.
type Rules struct {
	IdentifierPrefix string
	BinPrefixes      []string
	StoragePrefixes  []string
	MiscLiteral      string
	DoneLiteral      string
}

// RulesFromConfig builds classification rules from application config.
func RulesFromConfig(cfg *config.Config) Rules {
	return Rules{
		IdentifierPrefix: cfg.Identifier.Prefix,
		BinPrefixes:      append([]string{}, cfg.Scanner.BinPrefixes...),
		StoragePrefixes:  append([]string{}, cfg.Scanner.StoragePrefixes...),
		MiscLiteral:      cfg.Scanner.MiscLiteral,
		DoneLiteral:      cfg.Scanner.DoneLiteral,
	}
}

// Classifier assigns a Kind to raw scanned tokens. It is pure: no store
// access, no state, and every token classifies to exactly one Kind.
type Classifier struct {
	rules Rules
}

// New constructs a Classifier from the provided rules.
func New(rules Rules) *Classifier {
	return &Classifier{rules: rules}
}

// Classify assigns the token exactly one Kind. Matching is case-sensitive:
// barcode labels are printed in a known case and a lowercase token is more
// likely a typed sub-location than a mis-scanned label.
func (c *Classifier) Classify(token string) Kind {
	token = strings.TrimSpace(token)

	if c.isIdentifier(token) {
		return KindIdentifier
	}
	if token == c.rules.DoneLiteral && token != "" {
		return KindFinalize
	}
	if c.isLocation(token) {
		return KindLocation
	}
	return KindSubLocation
}

func (c *Classifier) isIdentifier(token string) bool {
	prefix := c.rules.IdentifierPrefix
	if prefix == "" || !strings.HasPrefix(token, prefix) {
		return false
	}
	digits := token[len(prefix):]
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func (c *Classifier) isLocation(token string) bool {
	if token == "" {
		return false
	}
	if token == c.rules.MiscLiteral {
		return true
	}
	for _, prefix := range c.rules.BinPrefixes {
		// Bin style: prefix, digits, then any free suffix (M5, M12-E).
		rest, ok := strings.CutPrefix(token, prefix)
		if ok && startsWithDigit(rest) {
			return true
		}
	}
	for _, prefix := range c.rules.StoragePrefixes {
		// Storage style: prefix, optional dash, digits, free suffix
		// (TS3, TS-12A).
		rest, ok := strings.CutPrefix(token, prefix)
		if !ok {
			continue
		}
		rest = strings.TrimPrefix(rest, "-")
		if startsWithDigit(rest) {
			return true
		}
	}
	return false
}

func startsWithDigit(s string) bool {
	if s == "" {
		return false
	}
	return s[0] >= '0' && s[0] <= '9'
}
