package store

import (
	"fmt"
	"log/slog"
)

// Learned is the sqlite-backed learned-category store. It satisfies the
// categorization engine's Store interface; read failures are logged and
// reported as absence so a disk hiccup degrades to "not learned yet" rather
// than breaking categorization.
type Learned struct {
	db  *DB
	log *slog.Logger
}

// NewLearned returns a learned-category store over the given database.
func NewLearned(db *DB, log *slog.Logger) *Learned {
	return &Learned{db: db, log: log}
}

func (l *Learned) Get(key string) (string, bool) {
	var category string
	err := l.db.QueryRow(
		`SELECT category FROM learned_categories WHERE key = ?`, key,
	).Scan(&category)
	if err != nil {
		return "", false
	}
	return category, true
}

func (l *Learned) Set(key, category string) error {
	_, err := l.db.Exec(`
		INSERT INTO learned_categories (key, category, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET category = excluded.category, updated_at = CURRENT_TIMESTAMP
	`, key, category)
	if err != nil {
		return fmt.Errorf("set learned category: %w", err)
	}
	return nil
}

func (l *Learned) All() map[string]string {
	rows, err := l.db.Query(`SELECT key, category FROM learned_categories`)
	if err != nil {
		l.log.Error("query learned categories", "error", err)
		return map[string]string{}
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var key, category string
		if err := rows.Scan(&key, &category); err != nil {
			l.log.Error("scan learned category", "error", err)
			continue
		}
		out[key] = category
	}
	return out
}

func (l *Learned) Count() int {
	var n int
	if err := l.db.QueryRow(`SELECT COUNT(*) FROM learned_categories`).Scan(&n); err != nil {
		return 0
	}
	return n
}

func (l *Learned) Clear() error {
	if _, err := l.db.Exec(`DELETE FROM learned_categories`); err != nil {
		return fmt.Errorf("clear learned categories: %w", err)
	}
	return nil
}
