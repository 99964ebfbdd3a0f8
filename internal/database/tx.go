package database

import (
	"context"
	"slices"
	"sync"

	"gorm.io/gorm"
)

// Changes is the pending-change set of a single transaction. The three slices are disjoint.
type Changes struct {
	Added   []any
	Updated []any
	Deleted []any
}

func (c Changes) clone() Changes {
	return Changes{
		Added:   slices.Clone(c.Added),
		Updated: slices.Clone(c.Updated),
		Deleted: slices.Clone(c.Deleted),
	}
}

// Empty reports whether nothing was recorded.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Updated) == 0 && len(c.Deleted) == 0
}

// CommitListener observes transaction boundaries.
//
// BeforeCommit runs after the unit of work succeeded and before the commit is issued; it
// receives a copy of the pending changes and returns whatever it needs later. AfterCommit
// receives that value only if the commit succeeded. On rollback or commit failure the
// captured value is dropped.
type CommitListener interface {
	BeforeCommit(ctx context.Context, pending Changes) Changes
	AfterCommit(ctx context.Context, captured Changes)
}

// TxManager runs units of work in relational transactions and notifies listeners
// around the commit.
type TxManager struct {
	db *gorm.DB

	mu        sync.RWMutex
	listeners []CommitListener
}

// NewTxManager wraps db.
func NewTxManager(db *gorm.DB, listeners ...CommitListener) *TxManager {
	return &TxManager{db: db, listeners: listeners}
}

// Register adds a listener for subsequent transactions.
func (m *TxManager) Register(l CommitListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// DB returns a handle bound to ctx for reads outside a transaction.
func (m *TxManager) DB(ctx context.Context) *gorm.DB {
	return m.db.WithContext(ctx)
}

// Run executes fn inside a transaction. fn's error, or a failing commit, rolls the
// transaction back and no AfterCommit hook runs. Listeners are skipped when fn recorded
// no changes.
func (m *TxManager) Run(ctx context.Context, fn func(tx *Tx) error) error {
	gtx := m.db.WithContext(ctx).Begin()
	if gtx.Error != nil {
		return Classify(gtx.Error)
	}

	tx := &Tx{db: gtx}
	defer func() {
		if r := recover(); r != nil {
			gtx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		gtx.Rollback()
		return err
	}

	if tx.pending.Empty() {
		return Classify(gtx.Commit().Error)
	}

	m.mu.RLock()
	listeners := slices.Clone(m.listeners)
	m.mu.RUnlock()

	captured := make([]Changes, len(listeners))
	for i, l := range listeners {
		captured[i] = l.BeforeCommit(ctx, tx.pending.clone())
	}

	if err := gtx.Commit().Error; err != nil {
		return Classify(err)
	}

	for i, l := range listeners {
		l.AfterCommit(ctx, captured[i])
	}
	return nil
}

// Tx is a unit of work. Mutations made through Add, Save and Delete are recorded in the
// pending-change set; anything done directly on DB() is not.
type Tx struct {
	db      *gorm.DB
	pending Changes
}

// DB returns the transaction handle.
func (t *Tx) DB() *gorm.DB { return t.db }

// Add inserts value.
func (t *Tx) Add(value any) error {
	if err := t.db.Create(value).Error; err != nil {
		return Classify(err)
	}
	t.pending.Added = append(t.pending.Added, value)
	return nil
}

// Save updates value. An entity added earlier in the same transaction stays in Added.
func (t *Tx) Save(value any) error {
	if err := t.db.Save(value).Error; err != nil {
		return Classify(err)
	}
	if !slices.Contains(t.pending.Added, value) && !slices.Contains(t.pending.Updated, value) {
		t.pending.Updated = append(t.pending.Updated, value)
	}
	return nil
}

// Delete removes value. Deleting an entity added in the same transaction cancels the add.
func (t *Tx) Delete(value any) error {
	if err := t.db.Delete(value).Error; err != nil {
		return Classify(err)
	}
	if i := slices.Index(t.pending.Added, value); i >= 0 {
		t.pending.Added = slices.Delete(t.pending.Added, i, i+1)
		return nil
	}
	if i := slices.Index(t.pending.Updated, value); i >= 0 {
		t.pending.Updated = slices.Delete(t.pending.Updated, i, i+1)
	}
	t.pending.Deleted = append(t.pending.Deleted, value)
	return nil
}
