package dedupe

import (
	"testing"

	"github.com/budgetglass/budgetglass/internal/models"
)

func TestDescriptionPrefix(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"STARBUCKS STORE 123", "starbucksstore123"},
		{"Starbucks Store #123 NY", "starbucksstore123ny"},
		{"A very long merchant name that keeps going", "averylongmerchantnam"},
		{"***", ""},
	}
	for _, tt := range tests {
		if got := DescriptionPrefix(tt.desc); got != tt.want {
			t.Errorf("DescriptionPrefix(%q) = %q, want %q", tt.desc, got, tt.want)
		}
	}
}

func TestCountMatchesReexportedDuplicates(t *testing.T) {
	// Same purchase from two overlapping statements: case and punctuation
	// differ and one export appends the state code.
	txns := []models.Transaction{
		{ID: "1", Date: "3/12", Description: "STARBUCKS STORE 123", Amount: -5.75},
		{ID: "2", Date: "3/12", Description: "Starbucks Store #123 NY", Amount: -5.75},
	}
	if got := Count(txns); got != 1 {
		t.Errorf("got %d duplicates, want 1", got)
	}
}

func TestCountRespectsDateAndAmount(t *testing.T) {
	tests := []struct {
		name string
		txns []models.Transaction
		want int
	}{
		{
			name: "different dates never collide",
			txns: []models.Transaction{
				{Date: "3/12", Description: "STARBUCKS STORE 123", Amount: -5.75},
				{Date: "3/13", Description: "STARBUCKS STORE 123", Amount: -5.75},
			},
			want: 0,
		},
		{
			name: "different amounts never collide",
			txns: []models.Transaction{
				{Date: "3/12", Description: "STARBUCKS STORE 123", Amount: -5.75},
				{Date: "3/12", Description: "STARBUCKS STORE 123", Amount: -7.25},
			},
			want: 0,
		},
		{
			name: "sub-cent difference rounds into a collision",
			txns: []models.Transaction{
				{Date: "3/12", Description: "STARBUCKS STORE 123", Amount: -5.751},
				{Date: "3/12", Description: "STARBUCKS STORE 123", Amount: -5.749},
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Count(tt.txns); got != tt.want {
				t.Errorf("got %d duplicates, want %d", got, tt.want)
			}
		})
	}
}

func TestCountEmptyPrefixOnlyMatchesEmpty(t *testing.T) {
	// A description with no alphanumerics has an empty prefix; it must not
	// absorb every real transaction in its (date, amount) group.
	txns := []models.Transaction{
		{ID: "1", Date: "3/12", Description: "STARBUCKS STORE 123", Amount: -5.75},
		{ID: "2", Date: "3/12", Description: "***", Amount: -5.75},
		{ID: "3", Date: "3/12", Description: "SAFEWAY 0071", Amount: -5.75},
		{ID: "4", Date: "3/12", Description: "!!!", Amount: -5.75},
	}

	// Only the two all-punctuation entries collide with each other.
	if got := Count(txns); got != 1 {
		t.Errorf("got %d duplicates, want 1", got)
	}
}

func TestRemoveKeepsFirstOccurrence(t *testing.T) {
	txns := []models.Transaction{
		{ID: "1", Date: "3/12", Description: "STARBUCKS STORE 123", Amount: -5.75},
		{ID: "2", Date: "3/12", Description: "Starbucks Store #123 NY", Amount: -5.75},
		{ID: "3", Date: "3/14", Description: "SAFEWAY 0071", Amount: -42.10},
	}

	kept, removed := Remove(txns)
	if removed != 1 {
		t.Fatalf("removed %d, want 1", removed)
	}
	if len(kept) != 2 || kept[0].ID != "1" || kept[1].ID != "3" {
		t.Errorf("unexpected kept set: %+v", kept)
	}
}
