package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/budgetglass/budgetglass/internal/categorize"
	"github.com/budgetglass/budgetglass/internal/extractor"
	"github.com/budgetglass/budgetglass/internal/models"
	"github.com/budgetglass/budgetglass/internal/parser"
	"github.com/budgetglass/budgetglass/internal/writer"
)

const version = "1.0.0"

func main() {
	rulesFlag := flag.String("rules", "", "Category rules YAML file (built-in rules if omitted)")
	outputFlag := flag.String("output", "", "Output CSV file path (defaults to input filename with .out.csv extension)")
	summaryFlag := flag.Bool("summary", true, "Print per-category totals after conversion")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `BudgetGlass Statement Ingester

Converts card and bank statement exports (CSV or PDF) into categorized
transaction CSVs for analysis.

Usage:
  ingest [flags] <statement.csv|statement.pdf> [more files ...]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Convert and categorize a CSV export
  ingest statement.csv

  # Convert a PDF statement with custom rules
  ingest --rules=rules.yaml statement.pdf

  # Convert multiple files
  ingest jan.csv feb.csv mar.pdf
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("budgetglass ingest v%s\n", version)
		os.Exit(0)
	}

	if *helpFlag || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	rules, err := categorize.LoadRules(*rulesFlag)
	if err != nil {
		fatalf("Could not load category rules: %v\n", err)
	}
	engine := categorize.NewEngine(categorize.NewMemoryStore(), rules)
	p := parser.New()

	for _, inputPath := range flag.Args() {
		if err := processFile(inputPath, p, engine, rules, *outputFlag, *summaryFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inputPath, err)
			os.Exit(1)
		}
	}
}

func processFile(inputPath string, p *parser.Parser, engine *categorize.Engine, rules *categorize.RuleSet, outputPath string, printSummary bool) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	fmt.Printf("Processing: %s\n", inputPath)

	var txns []models.Transaction
	switch strings.ToLower(filepath.Ext(inputPath)) {
	case ".csv", ".txt":
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return err
		}
		txns = p.ParseCSV(extractor.SplitCSV(string(data)))
	case ".pdf":
		pages, err := extractor.ExtractPDF(inputPath)
		if err != nil {
			return fmt.Errorf("PDF extraction failed: %w", err)
		}
		fmt.Printf("  Extracted text from %d page(s)\n", len(pages))
		txns = p.ParsePDF(pages)
	default:
		return fmt.Errorf("expected .csv or .pdf file, got %q", filepath.Ext(inputPath))
	}

	engine.Refresh(txns)
	fmt.Printf("  Found %d transaction(s)\n", len(txns))

	if len(txns) == 0 {
		fmt.Println("  Warning: No transactions found. The statement layout may not match expected patterns.")
		return nil
	}

	outPath := outputPath
	if outPath == "" {
		base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
		outPath = base + ".out.csv"
	}

	w := &writer.CSVWriter{}
	if err := w.WriteToFile(outPath, txns); err != nil {
		return fmt.Errorf("CSV write failed: %w", err)
	}
	fmt.Printf("  Output: %s\n", outPath)

	if printSummary {
		printCategorySummary(txns, rules)
	}

	fmt.Println("  Done.")
	return nil
}

// printCategorySummary prints per-category spending totals in rule order,
// skipping transfer categories and income.
func printCategorySummary(txns []models.Transaction, rules *categorize.RuleSet) {
	totals := make(map[string]float64)
	counts := make(map[string]int)
	for _, t := range txns {
		if t.Amount >= 0 {
			continue
		}
		if cat, ok := rules.Lookup(t.Category); ok && cat.ExcludeFromSpending {
			continue
		}
		totals[t.Category] += -t.Amount
		counts[t.Category]++
	}

	fmt.Println("  Spending by category:")
	for _, name := range rules.Names() {
		if counts[name] == 0 {
			continue
		}
		fmt.Printf("    %-18s %8.2f  (%d)\n", name, totals[name], counts[name])
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
