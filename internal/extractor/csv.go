package extractor

import "strings"

// SplitCSV turns raw CSV statement text into per-row field slices. The first
// line is treated as a header and dropped without being validated against any
// expected schema: bank exports disagree on column names, so the parser
// sniffs field meaning per row instead.
//
// Field splitting is quote-aware: a double quote toggles an in-quotes mode
// that suppresses comma splitting, so descriptions like "SMITH, JOHN DDS"
// survive intact. The splitter is intentionally looser than encoding/csv,
// which rejects the ragged rows and stray quotes real exports contain.
func SplitCSV(text string) [][]string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 {
		return nil
	}

	var rows [][]string
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, splitQuoted(line))
	}
	return rows
}

func splitQuoted(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))
	return fields
}
