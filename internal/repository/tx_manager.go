package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type txKey struct{}

// TransactionManager runs work in a transaction carried on the context.
// Repositories pick it up through GetDB.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
	// RunInTxLocked is RunInTx holding a transaction-scoped lock on key, so
	// concurrent callers with the same key commit one after another.
	RunInTxLocked(ctx context.Context, key string, fn func(txCtx context.Context) error) error
}

type transactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) TransactionManager {
	return &transactionManager{db: db}
}

func (t *transactionManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	// Nested calls join the outer transaction.
	if InTx(ctx) {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func (t *transactionManager) RunInTxLocked(ctx context.Context, key string, fn func(txCtx context.Context) error) error {
	return t.RunInTx(ctx, func(txCtx context.Context) error {
		if err := advisoryLock(GetDB(txCtx, t.db), key); err != nil {
			return fmt.Errorf("lock %s: %w", key, err)
		}
		return fn(txCtx)
	})
}

// advisoryLock takes a Postgres transaction-level advisory lock. SQLite
// already serializes writers, so it is a no-op there.
func advisoryLock(db *gorm.DB, key string) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	return db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}

// InTx reports whether ctx carries an open transaction.
func InTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*gorm.DB)
	return ok
}

// GetDB returns the context's transaction if present, otherwise rootDB.
func GetDB(ctx context.Context, rootDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return rootDB.WithContext(ctx)
}
