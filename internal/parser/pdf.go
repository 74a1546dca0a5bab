package parser

import (
	"regexp"
	"strings"

	"github.com/budgetglass/budgetglass/internal/models"
)

// The supported PDF family prints purchases one per line:
//
//	"3/12 AMAZON.COM*AB1C2 45.00"
//	"3/14 SQ *BLUE SPARROW COFFEE DENVER CO 6.50"
//
// Leading short date (M/D), free-text description, trailing decimal amount.
var pdfLinePattern = regexp.MustCompile(
	`^(\d{1,2}/\d{1,2})\s+(.+?)\s+(-?\$?[\d,]+\.\d{2})\s*$`,
)

// Loose whole-text variant for statements whose layout defeats line
// reconstruction: not anchored to line boundaries, same capture groups.
var pdfLoosePattern = regexp.MustCompile(
	`(\d{1,2}/\d{1,2})\s+([^\n]+?)\s+(-?\$?[\d,]+\.\d{2})`,
)

// Foreign-currency conversion annotations appended to descriptions; noise,
// not merchant text.
var pdfNoisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*foreign currency.*$`),
	regexp.MustCompile(`(?i)\s*exchg?\.? rate.*$`),
	regexp.MustCompile(`(?i)\s*[\d,]+\.\d{2}\s+(?:eur|gbp|cad|mxn|jpy|aud|chf)\s*(?:x\s*[\d.]+)?.*$`),
}

// Section headers and column labels that match the transaction pattern's
// shape but are not transactions. Compared against the whole lowercased
// description.
var pdfHeaderKeywords = map[string]bool{
	"purchase":             true,
	"purchases":            true,
	"payment":              true,
	"payments":             true,
	"date":                 true,
	"description":          true,
	"amount":               true,
	"transaction":          true,
	"transactions":         true,
	"balance":              true,
	"total":                true,
	"fees charged":         true,
	"interest charged":     true,
	"payments and credits": true,
}

type pdfLineStrategy struct{}

func (s *pdfLineStrategy) Name() string { return "pdf-line" }

func (s *pdfLineStrategy) TryParse(line string) (models.Transaction, bool) {
	m := pdfLinePattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return models.Transaction{}, false
	}
	return buildPDFTransaction(m[1], m[2], m[3])
}

// parsePDFLoose re-scans the combined document text with the unanchored
// pattern, applying the same rejection rules and batch suppression.
func (p *Parser) parsePDFLoose(text string, seen *batchSeen) []models.Transaction {
	var txns []models.Transaction
	for _, m := range pdfLoosePattern.FindAllStringSubmatch(text, -1) {
		txn, ok := buildPDFTransaction(m[1], m[2], m[3])
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

func buildPDFTransaction(date, desc, amountStr string) (models.Transaction, bool) {
	desc = stripPDFNoise(desc)
	if len(desc) < 3 {
		return models.Transaction{}, false
	}
	if pdfHeaderKeywords[strings.ToLower(desc)] {
		return models.Transaction{}, false
	}

	amount, err := parseAmount(amountStr)
	if err != nil || amount == 0 {
		return models.Transaction{}, false
	}
	// Purchase statements list expenses; force the sign regardless of how
	// the source printed it.
	if amount > 0 {
		amount = -amount
	}

	return models.Transaction{
		Date:        date,
		Description: desc,
		Amount:      amount,
	}, true
}

func stripPDFNoise(desc string) string {
	for _, pat := range pdfNoisePatterns {
		desc = pat.ReplaceAllString(desc, "")
	}
	return strings.TrimSpace(desc)
}
