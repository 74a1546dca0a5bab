// Package parser turns extracted statement text into transaction records.
// Each input format is an ordered list of strategies tried in sequence, with
// looser fallbacks only engaged when the stricter ones find nothing.
package parser

import (
	"strings"

	"github.com/google/uuid"

	"github.com/budgetglass/budgetglass/internal/dedupe"
	"github.com/budgetglass/budgetglass/internal/models"
)

// LineStrategy parses a single reconstructed statement line into at most one
// transaction. Strategies are independently testable and tried in order.
type LineStrategy interface {
	Name() string
	TryParse(line string) (models.Transaction, bool)
}

// Parser maps statement text to transaction records. Id generation is
// injected so tests get stable ids and callers can swap the generator.
type Parser struct {
	newID func() string
}

// Option configures a Parser.
type Option func(*Parser)

// WithIDGenerator overrides the transaction id source.
func WithIDGenerator(gen func() string) Option {
	return func(p *Parser) { p.newID = gen }
}

// New returns a Parser. The default id generator is uuid.NewString; the
// session-stable uniqueness the records need, without the same-millisecond
// collisions a timestamp would have.
func New(opts ...Option) *Parser {
	p := &Parser{newID: uuid.NewString}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseCSV parses CSV statement rows (as produced by extractor.SplitCSV)
// into transactions. Rows that yield no date, no description, or a zero
// amount are skipped silently; malformed rows are an expected part of the
// input, not errors. CSV amounts keep their parsed sign.
func (p *Parser) ParseCSV(rows [][]string) []models.Transaction {
	var txns []models.Transaction
	seen := newBatchSeen()

	for _, fields := range rows {
		txn, ok := sniffRow(fields)
		if !ok {
			continue
		}
		if seen.duplicate(txn) {
			continue
		}
		txn.ID = p.newID()
		txns = append(txns, txn)
	}
	return txns
}

// ParsePDF parses reconstructed PDF page text into transactions. The
// line-scoped strategy runs first; if the whole document yields nothing, the
// loose whole-text fallback re-scans it for statements whose layout defeats
// line reconstruction. All amounts are forced negative: the supported PDF
// family is purchase statements, where every listed amount is an expense.
func (p *Parser) ParsePDF(pages []string) []models.Transaction {
	var txns []models.Transaction
	seen := newBatchSeen()
	line := &pdfLineStrategy{}

	for _, page := range pages {
		for _, raw := range strings.Split(page, "\n") {
			txn, ok := line.TryParse(raw)
			if !ok {
				continue
			}
			if seen.duplicate(txn) {
				continue
			}
			txn.ID = p.newID()
			txns = append(txns, txn)
		}
	}

	if len(txns) == 0 {
		txns = p.parsePDFLoose(strings.Join(pages, "\n"), seen)
	}
	return txns
}

// batchSeen suppresses same-batch duplicates at parse time: a candidate
// matching an already-accepted (date, description-prefix) pair is dropped
// before entering the output, first seen wins. This is a narrower, same-pass
// sibling of the cross-batch deduplicator.
type batchSeen struct {
	keys map[string]bool
}

func newBatchSeen() *batchSeen {
	return &batchSeen{keys: make(map[string]bool)}
}

func (b *batchSeen) duplicate(txn models.Transaction) bool {
	key := txn.Date + "|" + dedupe.DescriptionPrefix(txn.Description)
	if b.keys[key] {
		return true
	}
	b.keys[key] = true
	return false
}
