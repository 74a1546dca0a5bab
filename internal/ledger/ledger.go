// Package ledger owns the transaction list: upload batches with a
// one-generation undo, manual recategorization with exact-match propagation,
// bulk refresh, duplicate handling, and the aggregation downstream consumers
// read.
package ledger

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/budgetglass/budgetglass/internal/categorize"
	"github.com/budgetglass/budgetglass/internal/dedupe"
	"github.com/budgetglass/budgetglass/internal/models"
)

// ErrNotFound is returned when a transaction id does not exist.
var ErrNotFound = errors.New("transaction not found")

// Persister is the write-through storage behind the ledger. A nil Persister
// keeps the ledger memory-only (tests, the CLI).
type Persister interface {
	SaveTransactions([]models.Transaction) error
	LoadTransactions() ([]models.Transaction, error)
}

// Ledger is safe for concurrent use; every operation holds the mutex for its
// whole read-modify-write, so no two mutations interleave mid-update.
type Ledger struct {
	mu      sync.Mutex
	txns    []models.Transaction
	undo    []models.Transaction
	canUndo bool

	engine *categorize.Engine
	db     Persister
	log    *slog.Logger
}

// New builds a Ledger over the given engine and optional persister.
func New(engine *categorize.Engine, db Persister, log *slog.Logger) *Ledger {
	return &Ledger{engine: engine, db: db, log: log}
}

// Load restores the persisted transaction list. Call once at startup.
func (l *Ledger) Load() error {
	if l.db == nil {
		return nil
	}
	txns, err := l.db.LoadTransactions()
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.txns = txns
	l.mu.Unlock()
	return nil
}

// All returns a copy of the transaction list in order.
func (l *Ledger) All() []models.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.Transaction, len(l.txns))
	copy(out, l.txns)
	return out
}

// Count returns the number of transactions.
func (l *Ledger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.txns)
}

// AddBatch appends one upload's transactions and retains the pre-upload list
// as the undo snapshot. Exactly one generation is kept: a second upload
// discards the ability to undo the first.
func (l *Ledger) AddBatch(batch []models.Transaction) {
	if len(batch) == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	snapshot := make([]models.Transaction, len(l.txns))
	copy(snapshot, l.txns)
	l.undo = snapshot
	l.canUndo = true

	l.txns = append(l.txns, batch...)
	l.persistLocked()
}

// Undo restores the list to its state before the last upload. Returns false
// when there is nothing to undo; a successful undo consumes the snapshot.
func (l *Ledger) Undo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.canUndo {
		return false
	}
	l.txns = l.undo
	l.undo = nil
	l.canUndo = false
	l.persistLocked()
	return true
}

// SetCategory applies a manual category correction. The correction is taken
// to apply to the literal merchant string system-wide: every transaction
// whose exact lowercased description matches is updated too (never fuzzy),
// and the mapping is learned so future uploads resolve it.
func (l *Ledger) SetCategory(id, category string) error {
	if !l.engine.Rules().Valid(category) {
		return errors.New("unknown category: " + category)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i := range l.txns {
		if l.txns[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}

	target := strings.ToLower(strings.TrimSpace(l.txns[idx].Description))
	for i := range l.txns {
		if strings.ToLower(strings.TrimSpace(l.txns[i].Description)) == target {
			l.txns[i].Category = category
		}
	}

	if err := l.engine.Learn(l.txns[idx].Description, category); err != nil {
		l.log.Error("learn category mapping", "error", err)
	}
	l.persistLocked()
	return nil
}

// Refresh re-runs categorization over every transaction, in place.
func (l *Ledger) Refresh() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.engine.Refresh(l.txns)
	l.persistLocked()
}

// Delete removes one transaction by id.
func (l *Ledger) Delete(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.txns {
		if l.txns[i].ID == id {
			l.txns = append(l.txns[:i], l.txns[i+1:]...)
			l.persistLocked()
			return nil
		}
	}
	return ErrNotFound
}

// Clear removes every transaction. The undo snapshot survives, so an
// accidental clear straight after an upload is still recoverable.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.txns = nil
	l.persistLocked()
}

// DuplicateCount reports how many current transactions duplicate an earlier
// entry.
func (l *Ledger) DuplicateCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return dedupe.Count(l.txns)
}

// RemoveDuplicates drops duplicates, keeping first occurrences, and returns
// how many were removed. One-shot and explicit: the duplicate key is
// approximate, so the user confirms rather than the ledger deciding.
func (l *Ledger) RemoveDuplicates() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept, removed := dedupe.Remove(l.txns)
	if removed > 0 {
		l.txns = kept
		l.persistLocked()
	}
	return removed
}

// persistLocked writes the current list through to storage. Persistence
// failures are logged, not propagated: the in-memory list stays
// authoritative and the next successful write catches storage up.
func (l *Ledger) persistLocked() {
	if l.db == nil {
		return
	}
	if err := l.db.SaveTransactions(l.txns); err != nil {
		l.log.Error("persist transactions", "error", err)
	}
}
