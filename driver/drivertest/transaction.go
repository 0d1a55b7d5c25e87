// Package drivertest provides an in-process stand-in for driver.TransactionManager.
package drivertest

import (
	"context"
	"sync/atomic"

	"github.com/jackc/pgx/v5"
)

// TransactionManager runs callbacks with a nil transaction and counts calls.
// Repositories used with it must not touch the tx.
type TransactionManager struct {
	Err error

	calls atomic.Int64
}

func (tm *TransactionManager) ExecuteTransaction(_ context.Context, fn func(tx pgx.Tx) error) error {
	tm.calls.Add(1)
	if tm.Err != nil {
		return tm.Err
	}
	return fn(nil)
}

func (tm *TransactionManager) ExecuteSerializableTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return tm.ExecuteTransaction(ctx, fn)
}

// Calls reports how many transactions were started.
func (tm *TransactionManager) Calls() int64 {
	return tm.calls.Load()
}
