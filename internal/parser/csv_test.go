package parser

import (
	"fmt"
	"testing"

	"github.com/budgetglass/budgetglass/internal/extractor"
)

func newTestParser() *Parser {
	n := 0
	return New(WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("txn-%d", n)
	}))
}

func TestParseCSVSingleExpense(t *testing.T) {
	rows := extractor.SplitCSV("Date,Description,Amount\n01/15/2026,STARBUCKS STORE 123,-5.75\n")

	txns := newTestParser().ParseCSV(rows)

	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}
	got := txns[0]
	if got.Date != "01/15/2026" {
		t.Errorf("date = %q, want 01/15/2026", got.Date)
	}
	if got.Description != "STARBUCKS STORE 123" {
		t.Errorf("description = %q, want STARBUCKS STORE 123", got.Description)
	}
	if got.Amount != -5.75 {
		t.Errorf("amount = %v, want -5.75", got.Amount)
	}
	if got.ID == "" {
		t.Error("expected a transaction id")
	}
}

func TestParseCSVColumnOrderIndependent(t *testing.T) {
	// Same row with columns shuffled; field sniffing should not care.
	layouts := []string{
		"Date,Description,Amount\n01/15/2026,SAFEWAY 0071,-32.40\n",
		"Amount,Date,Description\n-32.40,01/15/2026,SAFEWAY 0071\n",
		"Description,Amount,Date\nSAFEWAY 0071,-32.40,01/15/2026\n",
	}

	for _, layout := range layouts {
		txns := newTestParser().ParseCSV(extractor.SplitCSV(layout))
		if len(txns) != 1 {
			t.Errorf("layout %q: expected 1 transaction, got %d", layout, len(txns))
			continue
		}
		got := txns[0]
		if got.Date != "01/15/2026" || got.Description != "SAFEWAY 0071" || got.Amount != -32.40 {
			t.Errorf("layout %q: got %+v", layout, got)
		}
	}
}

func TestParseCSVParenthesizedAmount(t *testing.T) {
	rows := extractor.SplitCSV("Date,Description,Amount\n01/20/2026,WHOLE FOODS MARKET,(64.18)\n")

	txns := newTestParser().ParseCSV(rows)
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}
	if txns[0].Amount != -64.18 {
		t.Errorf("amount = %v, want -64.18", txns[0].Amount)
	}
}

func TestParseCSVSkipsMalformedRows(t *testing.T) {
	input := "Date,Description,Amount\n" +
		"01/15/2026,STARBUCKS STORE 123,-5.75\n" +
		"not a date,SOMEWHERE,-1.00\n" + // no date field
		"01/16/2026,,-2.00\n" + // no description
		"01/17/2026,ZERO CHARGE,0.00\n" + // zero amount
		"01/18/2026,TRADER JOE'S #553,-41.12\n"

	txns := newTestParser().ParseCSV(extractor.SplitCSV(input))

	if len(txns) != 2 {
		t.Fatalf("expected 2 transactions, got %d: %+v", len(txns), txns)
	}
	if txns[0].Description != "STARBUCKS STORE 123" || txns[1].Description != "TRADER JOE'S #553" {
		t.Errorf("unexpected survivors: %+v", txns)
	}
}

func TestParseCSVSeparateDebitCreditColumns(t *testing.T) {
	// Exports with split Debit/Credit leave one of the two empty.
	input := "Date,Description,Debit,Credit\n" +
		"01/15/2026,ACME PAYROLL,,2500.00\n" +
		"01/16/2026,RENT PAYMENT,-1800.00,\n"

	txns := newTestParser().ParseCSV(extractor.SplitCSV(input))
	if len(txns) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txns))
	}
	if txns[0].Amount != 2500.00 {
		t.Errorf("credit amount = %v, want 2500.00", txns[0].Amount)
	}
	if txns[1].Amount != -1800.00 {
		t.Errorf("debit amount = %v, want -1800.00", txns[1].Amount)
	}
}

func TestParseCSVSuppressesSameBatchDuplicates(t *testing.T) {
	input := "Date,Description,Amount\n" +
		"01/15/2026,NETFLIX.COM SUBSCRIPTION,-15.99\n" +
		"01/15/2026,NETFLIX.COM SUBSCRIPTION,-15.99\n"

	txns := newTestParser().ParseCSV(extractor.SplitCSV(input))
	if len(txns) != 1 {
		t.Errorf("expected second row suppressed, got %d transactions", len(txns))
	}
}

func TestParseCSVEmptyInput(t *testing.T) {
	if txns := newTestParser().ParseCSV(nil); len(txns) != 0 {
		t.Errorf("expected no transactions, got %d", len(txns))
	}
}
