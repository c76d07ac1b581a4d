// Package tracker owns the transaction and category collections. Every
// change goes through a Tracker, which mirrors the affected collection to
// its store before returning.
package tracker

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/tally-dev/tally/internal/id"
	"github.com/tally-dev/tally/internal/insights"
	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/store"
)

// Tracker is the in-memory state of one tally home.
//
// Mutators never report unknown IDs: updating or deleting a missing record
// is a silent no-op. The only errors returned come from the store or from
// encoding; when persisting fails the in-memory state is left as it was.
type Tracker struct {
	store store.Store
	ids   id.Generator
	log   logrus.FieldLogger

	mu           sync.RWMutex
	transactions []model.Transaction // newest first
	categories   []model.Category
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(g id.Generator) Option {
	return func(t *Tracker) { t.ids = g }
}

// WithLogger sets the logger used for mutation records.
func WithLogger(l logrus.FieldLogger) Option {
	return func(t *Tracker) { t.log = l }
}

// Open builds a Tracker hydrated from st. A missing transactions key means
// no transactions; a missing categories key means DefaultCategories.
func Open(st store.Store, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		store: st,
		ids:   id.UUID{},
		log:   discardLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if err := t.Reload(); err != nil {
		return nil, err
	}
	return t, nil
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Reload replaces the in-memory collections with what the store holds.
func (t *Tracker) Reload() error {
	txs, err := load(t.store, store.KeyTransactions, func() []model.Transaction { return nil })
	if err != nil {
		return err
	}
	cats, err := load(t.store, store.KeyCategories, DefaultCategories)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.transactions = txs
	t.categories = cats
	t.mu.Unlock()

	t.log.WithFields(logrus.Fields{
		"transactions": len(txs),
		"categories":   len(cats),
	}).Debug("hydrated from store")
	return nil
}

func load[T any](st store.Store, key string, fallback func() []T) ([]T, error) {
	data, ok, err := st.Get(key)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", key, err)
	}
	if !ok {
		return fallback(), nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", key, err)
	}
	return items, nil
}

func save[T any](st store.Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := st.Set(key, data); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

// Transactions returns a copy of all transactions, newest first.
func (t *Tracker) Transactions() []model.Transaction {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.transactions)
}

// Categories returns a copy of all categories in creation order.
func (t *Tracker) Categories() []model.Category {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.categories)
}

// Transaction returns the transaction with the given ID.
func (t *Tracker) Transaction(txID string) (model.Transaction, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	i := slices.IndexFunc(t.transactions, func(x model.Transaction) bool { return x.ID == txID })
	if i < 0 {
		return model.Transaction{}, false
	}
	return t.transactions[i], true
}

// Category returns the category with the given ID.
func (t *Tracker) Category(catID string) (model.Category, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	i := slices.IndexFunc(t.categories, func(c model.Category) bool { return c.ID == catID })
	if i < 0 {
		return model.Category{}, false
	}
	return t.categories[i], true
}

// CategoryByName returns the first category with the given name.
func (t *Tracker) CategoryByName(name string) (model.Category, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	i := slices.IndexFunc(t.categories, func(c model.Category) bool { return c.Name == name })
	if i < 0 {
		return model.Category{}, false
	}
	return t.categories[i], true
}

// AddTransaction assigns a new ID, puts the transaction first and persists.
// The payload is stored as given.
func (t *Tracker) AddTransaction(n model.NewTransaction) (model.Transaction, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tx := n.WithID(t.ids.NewID())
	next := make([]model.Transaction, 0, len(t.transactions)+1)
	next = append(next, tx)
	next = append(next, t.transactions...)

	if err := save(t.store, store.KeyTransactions, next); err != nil {
		return model.Transaction{}, err
	}
	t.transactions = next

	t.log.WithFields(logrus.Fields{
		"id":       tx.ID,
		"type":     tx.Type,
		"amount":   tx.Amount.String(),
		"category": tx.Category,
	}).Debug("transaction added")
	return tx, nil
}

// UpdateTransaction merges patch into the transaction with the given ID.
// Unknown IDs are ignored.
func (t *Tracker) UpdateTransaction(txID string, patch model.TransactionPatch) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := slices.IndexFunc(t.transactions, func(x model.Transaction) bool { return x.ID == txID })
	if i < 0 {
		t.log.WithField("id", txID).Debug("update of unknown transaction ignored")
		return nil
	}

	next := slices.Clone(t.transactions)
	next[i] = patch.Apply(next[i])
	if err := save(t.store, store.KeyTransactions, next); err != nil {
		return err
	}
	t.transactions = next

	t.log.WithField("id", txID).Debug("transaction updated")
	return nil
}

// DeleteTransaction removes the transaction with the given ID. Unknown IDs
// are ignored, so deleting twice is harmless.
func (t *Tracker) DeleteTransaction(txID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !slices.ContainsFunc(t.transactions, func(x model.Transaction) bool { return x.ID == txID }) {
		t.log.WithField("id", txID).Debug("delete of unknown transaction ignored")
		return nil
	}

	next := slices.DeleteFunc(slices.Clone(t.transactions), func(x model.Transaction) bool { return x.ID == txID })
	if err := save(t.store, store.KeyTransactions, next); err != nil {
		return err
	}
	t.transactions = next

	t.log.WithField("id", txID).Debug("transaction deleted")
	return nil
}

// AddCategory assigns a new ID, appends the category and persists.
func (t *Tracker) AddCategory(n model.NewCategory) (model.Category, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c := n.WithID(t.ids.NewID())
	next := append(slices.Clone(t.categories), c)
	if err := save(t.store, store.KeyCategories, next); err != nil {
		return model.Category{}, err
	}
	t.categories = next

	t.log.WithFields(logrus.Fields{"id": c.ID, "name": c.Name}).Debug("category added")
	return c, nil
}

// UpdateCategory merges patch into the category with the given ID. Renaming
// a category does not rename it on transactions. Unknown IDs are ignored.
func (t *Tracker) UpdateCategory(catID string, patch model.CategoryPatch) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := slices.IndexFunc(t.categories, func(c model.Category) bool { return c.ID == catID })
	if i < 0 {
		t.log.WithField("id", catID).Debug("update of unknown category ignored")
		return nil
	}

	next := slices.Clone(t.categories)
	next[i] = patch.Apply(next[i])
	if err := save(t.store, store.KeyCategories, next); err != nil {
		return err
	}
	t.categories = next

	t.log.WithField("id", catID).Debug("category updated")
	return nil
}

// DeleteCategory removes the category with the given ID. Transactions that
// name it keep their category string. Unknown IDs are ignored.
func (t *Tracker) DeleteCategory(catID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !slices.ContainsFunc(t.categories, func(c model.Category) bool { return c.ID == catID }) {
		t.log.WithField("id", catID).Debug("delete of unknown category ignored")
		return nil
	}

	next := slices.DeleteFunc(slices.Clone(t.categories), func(c model.Category) bool { return c.ID == catID })
	if err := save(t.store, store.KeyCategories, next); err != nil {
		return err
	}
	t.categories = next

	t.log.WithField("id", catID).Debug("category deleted")
	return nil
}

// Clear removes both collections from st without reading them, so it works
// on blobs a Tracker could not load. The next Open sees no transactions and
// the default categories.
func Clear(st store.Store) error {
	if err := st.Delete(store.KeyTransactions); err != nil {
		return fmt.Errorf("clearing transactions: %w", err)
	}
	if err := st.Delete(store.KeyCategories); err != nil {
		return fmt.Errorf("clearing categories: %w", err)
	}
	return nil
}

// Reset clears the store and reloads, leaving no transactions and the
// default categories.
func (t *Tracker) Reset() error {
	if err := Clear(t.store); err != nil {
		return err
	}
	t.log.Info("all data cleared")
	return t.Reload()
}

// TotalIncome sums income amounts, recomputed on every call.
func (t *Tracker) TotalIncome() decimal.Decimal {
	return insights.TotalIncome(t.Transactions())
}

// TotalExpenses sums expense amounts, recomputed on every call.
func (t *Tracker) TotalExpenses() decimal.Decimal {
	return insights.TotalExpenses(t.Transactions())
}

// Balance is TotalIncome minus TotalExpenses, recomputed on every call.
func (t *Tracker) Balance() decimal.Decimal {
	return insights.Balance(t.Transactions())
}

// Usage describes how much is stored.
type Usage struct {
	Transactions int
	Categories   int
	Bytes        int // size of both collections serialized together
}

// Usage reports record counts and the serialized data size.
func (t *Tracker) Usage() (Usage, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	data, err := json.Marshal(struct {
		Transactions []model.Transaction `json:"transactions"`
		Categories   []model.Category    `json:"categories"`
	}{t.transactions, t.categories})
	if err != nil {
		return Usage{}, fmt.Errorf("measuring data: %w", err)
	}
	return Usage{
		Transactions: len(t.transactions),
		Categories:   len(t.categories),
		Bytes:        len(data),
	}, nil
}
