// Package categorize assigns category labels to transaction descriptions
// through a layered resolution chain: user-learned mappings first (exact,
// then core-name, then fuzzy), static keyword rules after, "Other" last.
package categorize

import (
	"sort"
	"strings"

	"github.com/budgetglass/budgetglass/internal/merchant"
	"github.com/budgetglass/budgetglass/internal/models"
)

// Store is the learned-category map: normalized description key to category
// label. Injected rather than global so tests isolate with in-memory fakes
// and the server backs it with sqlite. Keys are unique, last write wins, and
// nothing expires except an explicit Clear.
type Store interface {
	Get(key string) (string, bool)
	Set(key, category string) error
	All() map[string]string
	Count() int
	Clear() error
}

// MemoryStore is the in-memory Store, used standalone by the CLI and as the
// test fake. Not safe for concurrent use; the owning Engine's callers
// serialize access.
type MemoryStore struct {
	m map[string]string
}

// NewMemoryStore returns an empty in-memory learned map.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	cat, ok := s.m[key]
	return cat, ok
}

func (s *MemoryStore) Set(key, category string) error {
	s.m[key] = category
	return nil
}

func (s *MemoryStore) All() map[string]string {
	out := make(map[string]string, len(s.m))
	for k, v := range s.m {
		out[k] = v
	}
	return out
}

func (s *MemoryStore) Count() int { return len(s.m) }

func (s *MemoryStore) Clear() error {
	s.m = make(map[string]string)
	return nil
}

// Engine resolves descriptions to categories and records user corrections.
type Engine struct {
	store Store
	rules *RuleSet
}

// NewEngine builds an Engine over the given learned store and rule set.
func NewEngine(store Store, rules *RuleSet) *Engine {
	return &Engine{store: store, rules: rules}
}

// Rules exposes the engine's category table for downstream consumers.
func (e *Engine) Rules() *RuleSet { return e.rules }

// Store exposes the learned map for inspection endpoints.
func (e *Engine) Store() Store { return e.store }

// Categorize resolves a description to exactly one category label. The chain
// is deterministic and total: exact learned match, learned match on the
// normalized core name, fuzzy learned match, keyword rules in declared
// order, then "Other". Empty and whitespace-only input is "Other".
func (e *Engine) Categorize(description string) string {
	key := strings.ToLower(strings.TrimSpace(description))
	if key == "" {
		return DefaultCategory
	}

	if cat, ok := e.store.Get(key); ok {
		return cat
	}

	core := merchant.CoreName(description)
	if core != key {
		if cat, ok := e.store.Get(core); ok {
			return cat
		}
	}

	if cat, ok := e.fuzzyLearned(core); ok {
		return cat
	}

	if cat, ok := e.keywordMatch(key); ok {
		return cat
	}

	return DefaultCategory
}

// fuzzyLearned scans the learned map for a key whose core name and the
// current core name contain one another, both being at least 5 characters.
// There is no similarity threshold beyond the length floor, so short generic
// merchant names can propagate a category further than intended. Keys are
// scanned in sorted order: when several learned keys match, the same one wins
// on every call, keeping resolution stable across calls and refreshes.
func (e *Engine) fuzzyLearned(core string) (string, bool) {
	if len(core) < 5 {
		return "", false
	}
	learned := e.store.All()
	keys := make([]string, 0, len(learned))
	for key := range learned {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		keyCore := merchant.CoreName(key)
		if len(keyCore) < 5 {
			continue
		}
		if strings.Contains(core, keyCore) || strings.Contains(keyCore, core) {
			return learned[key], true
		}
	}
	return "", false
}

func (e *Engine) keywordMatch(lowered string) (string, bool) {
	for _, c := range e.rules.Categories {
		for _, kw := range c.Keywords {
			if strings.Contains(lowered, kw) {
				return c.Name, true
			}
		}
	}
	return "", false
}

// Learn records a user-confirmed (description, category) mapping, storing
// both the exact lowercased description and its core name (when at least 3
// characters and distinct). Idempotent; persists immediately through the
// store; never touches unrelated keys.
func (e *Engine) Learn(description, category string) error {
	key := strings.ToLower(strings.TrimSpace(description))
	if key == "" {
		return nil
	}
	if err := e.store.Set(key, category); err != nil {
		return err
	}
	core := merchant.CoreName(description)
	if len(core) >= 3 && core != key {
		if err := e.store.Set(core, category); err != nil {
			return err
		}
	}
	return nil
}

// Refresh re-runs the full resolution chain over every transaction in place,
// overwriting categories. Used after the learned map has grown to improve
// old data retroactively. Descriptions, amounts and ids are never altered,
// and running it twice changes nothing the first run didn't.
func (e *Engine) Refresh(txns []models.Transaction) {
	for i := range txns {
		txns[i].Category = e.Categorize(txns[i].Description)
	}
}
