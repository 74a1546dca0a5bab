package writer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/budgetglass/budgetglass/internal/models"
)

func TestWrite(t *testing.T) {
	txns := []models.Transaction{
		{ID: "a", Date: "01/15/2026", Description: "STARBUCKS STORE 123", Amount: -5.75, Category: "Coffee & Bakery"},
		{ID: "b", Date: "01/16/2026", Description: "SAFEWAY, DOWNTOWN", Amount: -32.40, Category: "Groceries"},
	}

	var buf bytes.Buffer
	w := &CSVWriter{}
	if err := w.Write(&buf, txns); err != nil {
		t.Fatalf("Write: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines:\n%s", len(lines), buf.String())
	}
	if lines[0] != "Date,Description,Category,Amount" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "01/15/2026,STARBUCKS STORE 123,Coffee & Bakery,-5.75" {
		t.Errorf("row 1 = %q", lines[1])
	}
	// Description with an embedded comma must come out quoted.
	if lines[2] != `01/16/2026,"SAFEWAY, DOWNTOWN",Groceries,-32.40` {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{}
	if err := w.Write(&buf, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := strings.TrimRight(buf.String(), "\n"); got != "Date,Description,Category,Amount" {
		t.Errorf("expected header only, got %q", got)
	}
}

func TestWriteToFile(t *testing.T) {
	path := t.TempDir() + "/out.csv"
	w := &CSVWriter{}
	err := w.WriteToFile(path, []models.Transaction{
		{ID: "a", Date: "3/12", Description: "AMAZON.COM*AB1C2", Amount: -45.00, Category: "Shopping"},
	})
	if err != nil {
		t.Fatalf("WriteToFile: %v", err)
	}
}
