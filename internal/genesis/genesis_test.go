package genesis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evmindexer/indexer/internal/chain"
)

func TestTransactionsMainnetOrderedAndHashed(t *testing.T) {
	eth, err := chain.Get(1)
	require.NoError(t, err)

	txs, err := Transactions(eth)
	require.NoError(t, err)
	require.NotEmpty(t, txs)

	for i, tx := range txs {
		assert.Equal(t, uint64(0), tx.Height)
		assert.Equal(t, "0x0000000000000000000000000000000000000000", tx.From)
		assert.Contains(t, tx.Hash, "ETHEREUM_GENESIS_")
		assert.True(t, tx.Value.Sign() >= 0)
		assert.Equal(t, "success", string(tx.Status))
		_ = i
	}
}

func TestTransactionsUnknownChainIsEmpty(t *testing.T) {
	txs, err := Transactions(chain.Chain{ID: 999999, Name: "unknown"})
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestAllocationsDecodesBalances(t *testing.T) {
	table, err := Allocations(56)
	require.NoError(t, err)
	assert.NotEmpty(t, table)
	for _, alloc := range table {
		assert.NotEmpty(t, alloc.Balance)
	}
}
