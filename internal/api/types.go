package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// StockItem describes a stock record in a transport-friendly format. Decimal
// dimensions travel as strings so callers never lose precision to float
// rounding.
type StockItem struct {
	ID          int64  `json:"id"`
	JAID        string `json:"jaId"`
	Active      bool   `json:"active"`
	Location    string `json:"location"`
	SubLocation string `json:"subLocation,omitempty"`
	ItemType    string `json:"itemType,omitempty"`
	Material    string `json:"material,omitempty"`
	Length      string `json:"length,omitempty"`
	Width       string `json:"width,omitempty"`
	Thickness   string `json:"thickness,omitempty"`
	CutLoss     string `json:"cutLoss,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Vendor      string `json:"vendor,omitempty"`
	VendorPart  string `json:"vendorPart,omitempty"`
	ParentJAID  string `json:"parentJaId,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// MoveRecord is one audit-log entry for an executed relocation.
type MoveRecord struct {
	ID              int64  `json:"id"`
	JAID            string `json:"jaId"`
	FromLocation    string `json:"fromLocation"`
	FromSubLocation string `json:"fromSubLocation,omitempty"`
	ToLocation      string `json:"toLocation"`
	ToSubLocation   string `json:"toSubLocation,omitempty"`
	BatchID         string `json:"batchId,omitempty"`
	MovedAt         string `json:"movedAt,omitempty"`
}

// ItemCreateRequest is the intake payload for new stock. JAID is optional:
// empty means allocate the next identifier.
type ItemCreateRequest struct {
	JAID        string `json:"jaId,omitempty"`
	Location    string `json:"location"`
	SubLocation string `json:"subLocation,omitempty"`
	ItemType    string `json:"itemType,omitempty"`
	Material    string `json:"material,omitempty"`
	Length      string `json:"length,omitempty"`
	Width       string `json:"width,omitempty"`
	Thickness   string `json:"thickness,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Vendor      string `json:"vendor,omitempty"`
	VendorPart  string `json:"vendorPart,omitempty"`
}

// MoveRequest is one requested relocation. An empty NewSubLocation means the
// destination has no finer placement and any previous sub-location is cleared.
type MoveRequest struct {
	JAID           string `json:"jaId"`
	NewLocation    string `json:"newLocation"`
	NewSubLocation string `json:"newSubLocation,omitempty"`
}

// BatchMoveRequest carries a full relocation queue.
type BatchMoveRequest struct {
	Entries []MoveRequest `json:"entries"`
}

// ValidationProblem names one queue entry that cannot be executed and why.
type ValidationProblem struct {
	JAID   string `json:"jaId"`
	Reason string `json:"reason"`
}

// BatchValidationResponse reports the advisory validation outcome.
type BatchValidationResponse struct {
	Ready    bool                `json:"ready"`
	Valid    []MoveRequest       `json:"valid,omitempty"`
	Problems []ValidationProblem `json:"problems,omitempty"`
}

// MoveFailure is one entry that failed during execution.
type MoveFailure struct {
	JAID  string `json:"jaId"`
	Error string `json:"error"`
}

// BatchMoveResponse partitions an executed batch.
type BatchMoveResponse struct {
	BatchID   string        `json:"batchId"`
	Succeeded []StockItem   `json:"succeeded,omitempty"`
	Failed    []MoveFailure `json:"failed,omitempty"`
}

// ShortenRequest asks for a piece to be cut down. Lengths are decimal strings.
type ShortenRequest struct {
	NewLength string `json:"newLength"`
	CutLoss   string `json:"cutLoss,omitempty"`
}

// ShortenResponse returns both sides of a completed shortening.
type ShortenResponse struct {
	Original  StockItem `json:"original"`
	Remainder StockItem `json:"remainder"`
}

// InventoryStats summarizes record counts.
type InventoryStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
	Moves    int `json:"moves"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running        bool           `json:"running"`
	PID            int            `json:"pid"`
	DatabasePath   string         `json:"databasePath"`
	LockFilePath   string         `json:"lockFilePath"`
	NextIdentifier string         `json:"nextIdentifier,omitempty"`
	Inventory      InventoryStats `json:"inventory"`
}

// ItemListResponse wraps a collection of stock items.
type ItemListResponse struct {
	Items []StockItem `json:"items"`
}

// ItemResponse wraps a single stock item.
type ItemResponse struct {
	Item StockItem `json:"item"`
}

// HistoryResponse wraps a lineage chain, oldest first.
type HistoryResponse struct {
	Records []StockItem `json:"records"`
}

// MoveListResponse wraps audit-log entries for one identifier.
type MoveListResponse struct {
	Moves []MoveRecord `json:"moves"`
}
