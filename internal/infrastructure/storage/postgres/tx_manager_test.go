package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTx records how the transaction ended. Methods not overridden panic
// through the nil embedded interface.
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	t.rolledBack = true
	return nil
}

type fakePool struct {
	Querier
	tx *fakeTx
}

func (p *fakePool) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	p.tx = &fakeTx{}
	return p.tx, nil
}

func TestTxManager_CommitsOnSuccess(t *testing.T) {
	pool := &fakePool{}
	m := &TxManager{pool: pool}

	err := m.RunInTransaction(context.Background(), func(ctx context.Context) error {
		assert.NotNil(t, m.GetTx(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, pool.tx.committed)
	assert.False(t, pool.tx.rolledBack)
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	pool := &fakePool{}
	m := &TxManager{pool: pool}
	boom := errors.New("boom")

	err := m.RunInTransaction(context.Background(), func(context.Context) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.True(t, pool.tx.rolledBack)
	assert.False(t, pool.tx.committed)
}

func TestTxManager_RollsBackOnPanic(t *testing.T) {
	pool := &fakePool{}
	m := &TxManager{pool: pool}

	assert.PanicsWithValue(t, "boom", func() {
		_ = m.RunInTransaction(context.Background(), func(context.Context) error {
			panic("boom")
		})
	})

	assert.True(t, pool.tx.rolledBack)
	assert.False(t, pool.tx.committed)
}

func TestTxManager_NestedCallsJoinOuterTransaction(t *testing.T) {
	pool := &fakePool{}
	m := &TxManager{pool: pool}

	err := m.RunInTransaction(context.Background(), func(ctx context.Context) error {
		outer := pool.tx
		return m.RunInTransaction(ctx, func(inner context.Context) error {
			assert.Same(t, outer, pool.tx)
			assert.Equal(t, m.GetTx(ctx), m.GetTx(inner))
			return nil
		})
	})

	require.NoError(t, err)
	assert.True(t, pool.tx.committed)
}
