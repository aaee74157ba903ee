package classify_test

import (
	"testing"

	"stockpile/internal/classify"
	"stockpile/internal/config"
)

func defaultClassifier() *classify.Classifier {
	cfg := config.Default()
	return classify.New(classify.RulesFromConfig(&cfg))
}

func TestClassifyKinds(t *testing.T) {
	c := defaultClassifier()

	cases := []struct {
		token string
		want  classify.Kind
	}{
		{"JA000042", classify.KindIdentifier},
		{"JA1", classify.KindIdentifier},
		{"JA", classify.KindSubLocation},      // prefix without digits
		{"JA12X", classify.KindSubLocation},   // trailing non-digit
		{"ja000042", classify.KindSubLocation}, // case-sensitive
		{"M5", classify.KindLocation},
		{"M12-E", classify.KindLocation},
		{"M", classify.KindSubLocation},
		{"MX", classify.KindSubLocation},
		{"TS3", classify.KindLocation},
		{"TS-12A", classify.KindLocation},
		{"TS-", classify.KindSubLocation},
		{"MISC", classify.KindLocation},
		{"DONE", classify.KindFinalize},
		{"Drawer 3", classify.KindSubLocation},
		{"  JA000042  ", classify.KindIdentifier},
		{"shelf-top", classify.KindSubLocation},
	}

	for _, tc := range cases {
		if got := c.Classify(tc.token); got != tc.want {
			t.Errorf("Classify(%q) = %v, want %v", tc.token, got, tc.want)
		}
	}
}

func TestClassifyIsTotal(t *testing.T) {
	c := defaultClassifier()

	inputs := []string{"", " ", "!!!", "JAJA", "M-5", "TSX", "DONE ", "misc", "0", "日本語"}
	for _, token := range inputs {
		kind := c.Classify(token)
		switch kind {
		case classify.KindIdentifier, classify.KindLocation, classify.KindSubLocation, classify.KindFinalize:
		default:
			t.Fatalf("Classify(%q) returned unknown kind %v", token, kind)
		}
	}
}

func TestClassifyCustomRules(t *testing.T) {
	c := classify.New(classify.Rules{
		IdentifierPrefix: "ST",
		BinPrefixes:      []string{"BIN"},
		StoragePrefixes:  []string{"RK"},
		MiscLiteral:      "FLOOR",
		DoneLiteral:      "NEXT",
	})

	if got := c.Classify("ST77"); got != classify.KindIdentifier {
		t.Fatalf("ST77 = %v", got)
	}
	if got := c.Classify("BIN4"); got != classify.KindLocation {
		t.Fatalf("BIN4 = %v", got)
	}
	if got := c.Classify("RK-9"); got != classify.KindLocation {
		t.Fatalf("RK-9 = %v", got)
	}
	if got := c.Classify("FLOOR"); got != classify.KindLocation {
		t.Fatalf("FLOOR = %v", got)
	}
	if got := c.Classify("NEXT"); got != classify.KindFinalize {
		t.Fatalf("NEXT = %v", got)
	}
	if got := c.Classify("DONE"); got != classify.KindSubLocation {
		t.Fatalf("DONE with custom rules = %v", got)
	}
}
