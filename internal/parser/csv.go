package parser

import (
	"github.com/budgetglass/budgetglass/internal/models"
)

// sniffRow classifies each field of a CSV row independently: the first
// date-like field becomes the date, a currency-like field becomes the amount
// (parentheses or minus mean expense), and the longest remaining field
// becomes the description. Column order is never assumed: exports disagree
// on it, and some put Debit and Credit in separate columns.
func sniffRow(fields []string) (models.Transaction, bool) {
	if len(fields) < 3 {
		return models.Transaction{}, false
	}

	var date, description string
	var amount float64

	for _, field := range fields {
		if field == "" {
			continue
		}
		if date == "" && isDateField(field) {
			date = field
			continue
		}
		if num, ok := parseAmountField(field); ok {
			if num != 0 {
				amount = num
			}
			continue
		}
		if len(field) > 2 && description == "" {
			description = field
		} else if len(field) > len(description) {
			description = field
		}
	}

	if date == "" || description == "" || amount == 0 {
		return models.Transaction{}, false
	}

	return models.Transaction{
		Date:        date,
		Description: description,
		Amount:      amount,
	}, true
}
