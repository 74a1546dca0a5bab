// Package pipeline runs one statement file through extraction, parsing and
// categorization. The API server and the CLI share it; failures are isolated
// per file so one corrupt statement never aborts a batch.
package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/budgetglass/budgetglass/internal/categorize"
	"github.com/budgetglass/budgetglass/internal/extractor"
	"github.com/budgetglass/budgetglass/internal/models"
	"github.com/budgetglass/budgetglass/internal/parser"
)

// ErrUnsupported is returned for files that are neither CSV nor PDF. They
// are rejected before any parsing attempt.
var ErrUnsupported = errors.New("unsupported file type")

// Pipeline wires the extraction and parsing stages to the categorization
// engine.
type Pipeline struct {
	parser *parser.Parser
	engine *categorize.Engine
}

// New builds a Pipeline.
func New(p *parser.Parser, e *categorize.Engine) *Pipeline {
	return &Pipeline{parser: p, engine: e}
}

// ProcessFile converts one uploaded file into categorized transactions.
// Zero transactions with a nil error is a valid outcome (empty statement or
// unrecognized layout) and is distinct from an extraction error.
func (pl *Pipeline) ProcessFile(name string, data []byte) ([]models.Transaction, error) {
	switch format(name) {
	case models.FormatCSV:
		return pl.processCSV(data), nil
	case models.FormatPDF:
		return pl.processPDF(name, data)
	default:
		return nil, fmt.Errorf("%w: %q (upload a .csv or .pdf statement)", ErrUnsupported, filepath.Ext(name))
	}
}

func format(name string) models.Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return models.FormatCSV
	case ".pdf":
		return models.FormatPDF
	default:
		return ""
	}
}

func (pl *Pipeline) processCSV(data []byte) []models.Transaction {
	rows := extractor.SplitCSV(string(data))
	txns := pl.parser.ParseCSV(rows)
	pl.engine.Refresh(txns)
	return txns
}

// processPDF writes the upload to a temp file because the extraction library
// reads from a path, then extracts and parses it.
func (pl *Pipeline) processPDF(name string, data []byte) ([]models.Transaction, error) {
	tmp, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	pages, err := extractor.ExtractPDF(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", name, err)
	}

	txns := pl.parser.ParsePDF(pages)
	pl.engine.Refresh(txns)
	return txns, nil
}
