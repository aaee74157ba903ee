package inventory

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Record is one row describing a quantity of stock at one point in its life.
// Several records may share a JAID: shortening deactivates the original and
// creates a remainder under a fresh identifier, so at most one record per
// identifier is active at any time.
type Record struct {
	ID          int64
	JAID        string
	Active      bool
	Location    string
	SubLocation string
	ItemType    string
	Material    string
	Length      decimal.NullDecimal
	Width       decimal.NullDecimal
	Thickness   decimal.NullDecimal
	CutLoss     decimal.NullDecimal
	Notes       string
	Vendor      string
	VendorPart  string
	// ParentJAID references the identifier this record was cut from, empty
	// for original stock.
	ParentJAID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Move is one executed relocation recorded in the audit log.
type Move struct {
	ID              int64
	JAID            string
	FromLocation    string
	FromSubLocation string
	ToLocation      string
	ToSubLocation   string
	BatchID         string
	MovedAt         time.Time
}

// HealthSummary describes aggregated record counts.
type HealthSummary struct {
	Total    int
	Active   int
	Inactive int
	Moves    int
}

// DatabaseHealth captures diagnostic information about the inventory database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	TableExists      bool
	IntegrityCheck   bool
	TotalRecords     int
	Error            string
}

// HasSubLocation reports whether the record carries a finer-grained placement.
func (r Record) HasSubLocation() bool {
	return strings.TrimSpace(r.SubLocation) != ""
}

// Dimensions renders the record's dimensions for display, empty when unset.
func (r Record) Dimensions() string {
	parts := make([]string, 0, 3)
	for _, d := range []decimal.NullDecimal{r.Length, r.Width, r.Thickness} {
		if d.Valid {
			parts = append(parts, d.Decimal.String())
		}
	}
	return strings.Join(parts, " x ")
}
