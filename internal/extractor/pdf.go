package extractor

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// ErrUnreadable is returned when no readable text can be pulled out of a PDF.
// Callers surface it to the user with the CSV-fallback suggestion; it is
// deliberately distinct from "parsed fine but found zero transactions".
var ErrUnreadable = errors.New("no readable text could be extracted from PDF")

// ExtractPDF reads a PDF statement and returns the text of each page, with
// lines reconstructed in reading order. It tries multiple extraction methods
// because card statements vary wildly in how their text layer is encoded.
// If the structured library fails it falls back to raw content-stream
// scraping. Unreadable files produce an explicit error, never garbage pages.
func ExtractPDF(filePath string) ([]string, error) {
	pages, libErr := extractWithLibrary(filePath)
	if libErr == nil && isReadableText(pages) {
		return pages, nil
	}

	rawPages, rawErr := extractRaw(filePath)
	if rawErr == nil && isReadableText(rawPages) {
		return rawPages, nil
	}

	if libErr != nil {
		return nil, fmt.Errorf("%w: %v (the file may be image-based/scanned or use undecodable fonts; try a CSV export instead)", ErrUnreadable, libErr)
	}
	return nil, fmt.Errorf("%w: the file may be image-based/scanned or use undecodable fonts; try a CSV export instead", ErrUnreadable)
}

// extractWithLibrary runs the ledongthuc/pdf methods in order of layout
// fidelity, accepting the first readable result.
func extractWithLibrary(filePath string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, r, openErr := pdf.Open(filePath)
	if openErr != nil {
		return nil, openErr
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	pages = extractByRow(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	pages = extractByContent(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	pages = extractByPlainText(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	if text := extractByReaderPlainText(r); isReadableText([]string{text}) {
		return []string{text}, nil
	}

	return pages, nil
}

// extractByRow uses the library's row API, which preserves layout best when
// the PDF has a well-formed text structure.
func extractByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// extractByContent reconstructs reading order from raw text fragments.
// Fragments within a small vertical tolerance are clustered into one line,
// ordered left to right; lines are ordered top to bottom (PDF Y grows upward,
// hence the descending sort).
func extractByContent(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		var frags []textFrag
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			frags = append(frags, textFrag{x: t.X, y: t.Y, s: t.S})
		}

		var lines []string
		for _, row := range clusterRows(frags) {
			sort.Slice(row.frags, func(a, b int) bool {
				return row.frags[a].x < row.frags[b].x
			})

			var parts []string
			var prevX float64
			for j, item := range row.frags {
				if j > 0 && item.x-prevX > 15 {
					// Large horizontal gap, treat as a column separator
					parts = append(parts, "  ")
				} else if j > 0 {
					parts = append(parts, " ")
				}
				parts = append(parts, item.s)
				prevX = item.x
			}
			if line := strings.TrimSpace(strings.Join(parts, "")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// textFrag is one positioned text fragment from a PDF content stream.
type textFrag struct {
	x, y float64
	s    string
}

type fragRow struct {
	y     float64
	frags []textFrag
}

// clusterRows groups fragments into rows by vertical position. Rows are kept
// in a slice and scanned in creation order, so a fragment within tolerance of
// two rows always joins the earlier one and repeated runs over the same
// fragments produce identical rows. Returned rows are ordered top to bottom
// (descending Y).
func clusterRows(frags []textFrag) []fragRow {
	const yTolerance = 2.0

	var rows []fragRow
	for _, fr := range frags {
		placed := false
		for i := range rows {
			if math.Abs(rows[i].y-fr.y) <= yTolerance {
				rows[i].frags = append(rows[i].frags, fr)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, fragRow{y: fr.y, frags: []textFrag{fr}})
		}
	}

	sort.Slice(rows, func(a, b int) bool { return rows[a].y > rows[b].y })
	return rows
}

// extractByPlainText tries per-page plain text with the page's font maps.
func extractByPlainText(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		fonts := make(map[string]*pdf.Font)
		for _, name := range page.Fonts() {
			f := page.Font(name)
			fonts[name] = &f
		}
		text, err := page.GetPlainText(fonts)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}
	return pages
}

// extractByReaderPlainText is the whole-document extraction path.
func extractByReaderPlainText(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// textQuality returns the ratio of plain readable characters to total
// characters, 0.0-1.0. Strict ASCII plus common statement punctuation;
// unicode.IsLetter is too broad and passes garbage from identity-encoded
// fonts.
func textQuality(pages []string) float64 {
	total := 0
	readable := 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
				r == '.' || r == ',' || r == '-' || r == '/' || r == ':' ||
				r == ';' || r == '(' || r == ')' || r == '\'' || r == '"' ||
				r == '$' || r == '%' || r == '&' || r == '@' || r == '#' ||
				r == '!' || r == '?' || r == '+' || r == '=' || r == '*' {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

// statementWords appear in virtually every card or bank statement. Extracted
// text containing none of them is almost certainly decode garbage.
var statementWords = []string{
	"account", "balance", "date", "payment", "statement", "purchase",
	"total", "amount", "credit", "debit", "transaction", "fees",
	"interest", "minimum", "due", "period", "page", "activity",
}

func containsStatementWords(pages []string) bool {
	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range statementWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

// isReadableText requires enough text, a high readable-character ratio, and
// at least one recognizable statement word.
func isReadableText(pages []string) bool {
	if totalTextLen(pages) <= 50 {
		return false
	}
	if textQuality(pages) <= 0.6 {
		return false
	}
	return containsStatementWords(pages)
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}
