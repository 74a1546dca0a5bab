package models

// Transaction is a single statement line item after parsing.
//
// Date keeps the source's native format (M/D or MM/DD/YYYY); year inference
// happens lazily when grouping, not at parse time. Amount is signed: negative
// for expenses/debits, positive for credits and card payments. Category is
// always set ("Other" when nothing matched) and may be rewritten any number
// of times after creation (manual edit, bulk refresh, or accepted hint).
type Transaction struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
}

// Format identifies a supported statement input format.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)
