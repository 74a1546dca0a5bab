package store

import (
	"fmt"

	"github.com/budgetglass/budgetglass/internal/models"
)

// SaveTransactions replaces the persisted transaction list with the given
// one, preserving list order. The ledger owns ordering in memory (undo and
// duplicate removal rearrange freely), so a full replace inside one sqlite
// transaction is simpler and safer than mirroring each mutation.
func (db *DB) SaveTransactions(txns []models.Transaction) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin save transactions: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO transactions (id, position, date, description, amount, category)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range txns {
		if _, err := stmt.Exec(t.ID, i, t.Date, t.Description, t.Amount, t.Category); err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save transactions: %w", err)
	}
	return nil
}

// LoadTransactions returns the persisted transaction list in stored order.
func (db *DB) LoadTransactions() ([]models.Transaction, error) {
	rows, err := db.Query(`
		SELECT id, date, description, amount, category
		FROM transactions
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.Date, &t.Description, &t.Amount, &t.Category); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}
