// Package dedupe detects near-duplicate transactions introduced by
// overlapping statement uploads.
package dedupe

import (
	"fmt"
	"strings"

	"github.com/budgetglass/budgetglass/internal/models"
)

// DescriptionPrefix returns the first 20 alphanumeric characters of a
// description, lowercased. Punctuation, spacing and store-number noise vary
// between exports of the same transaction; the alphanumeric prefix survives.
func DescriptionPrefix(description string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(description) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() >= 20 {
				break
			}
		}
	}
	return b.String()
}

// Index groups transactions by (date, amount rounded to cents) and treats
// two entries in a group as duplicates when one description prefix is a
// prefix of the other. Descriptions shorter than 20 alphanumerics would
// otherwise never collide with their punctuated re-exports ("STARBUCKS STORE
// 123" vs "Starbucks Store #123 NY"). The match is approximate: two
// legitimately identical same-day purchases collide too, so removal is an
// explicit user action, never automatic.
type Index struct {
	prefixes map[string][]string
}

// NewIndex returns an empty duplicate index.
func NewIndex() *Index {
	return &Index{prefixes: make(map[string][]string)}
}

func groupKey(t models.Transaction) string {
	return fmt.Sprintf("%s|%.2f", t.Date, t.Amount)
}

// Seen reports whether an equivalent transaction was already added, and
// records this one if not. Empty prefixes (descriptions with no alphanumeric
// characters) only match each other exactly; the empty string is a prefix of
// everything and would otherwise collide with the whole group.
func (ix *Index) Seen(t models.Transaction) bool {
	group := groupKey(t)
	prefix := DescriptionPrefix(t.Description)
	for _, existing := range ix.prefixes[group] {
		if prefix == "" || existing == "" {
			if prefix == existing {
				return true
			}
			continue
		}
		if strings.HasPrefix(existing, prefix) || strings.HasPrefix(prefix, existing) {
			return true
		}
	}
	ix.prefixes[group] = append(ix.prefixes[group], prefix)
	return false
}

// Count reports how many transactions in the list are duplicates of an
// earlier entry.
func Count(txns []models.Transaction) int {
	ix := NewIndex()
	dups := 0
	for _, t := range txns {
		if ix.Seen(t) {
			dups++
		}
	}
	return dups
}

// Remove drops every transaction that duplicates an earlier entry, keeping
// the first occurrence in list order. It returns the filtered list and the
// number removed.
func Remove(txns []models.Transaction) ([]models.Transaction, int) {
	ix := NewIndex()
	kept := make([]models.Transaction, 0, len(txns))
	removed := 0
	for _, t := range txns {
		if ix.Seen(t) {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	return kept, removed
}
