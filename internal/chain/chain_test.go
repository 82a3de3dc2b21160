package chain

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUnknownChainIsError(t *testing.T) {
	_, err := Get(999999)
	require.Error(t, err)
}

func TestEthereumRewardAroundTheMerge(t *testing.T) {
	eth, err := Get(1)
	require.NoError(t, err)

	fees := new(big.Int).Mul(big.NewInt(5), big.NewInt(10_000_000_000_000_000)) // 0.05 ETH
	base, fee, uncleReward := eth.Reward(15_537_392, fees, 1)

	assert.Equal(t, etherWei(2), base)
	assert.Equal(t, fees, fee)
	assert.Equal(t, big.NewInt(62_500_000_000_000_000), uncleReward)

	postMergeBase, _, _ := eth.Reward(15_537_393, fees, 0)
	assert.Equal(t, big.NewInt(0), postMergeBase)
}

func TestEthereumRewardHardforkBoundaries(t *testing.T) {
	eth, _ := Get(1)

	base, _, _ := eth.Reward(1, big.NewInt(0), 0)
	assert.Equal(t, etherWei(5), base)

	base, _, _ = eth.Reward(byzantiumBlock, big.NewInt(0), 0)
	assert.Equal(t, etherWei(3), base)

	base, _, _ = eth.Reward(constantinopleBlock, big.NewInt(0), 0)
	assert.Equal(t, etherWei(2), base)

	base, _, _ = eth.Reward(mergeBlock, big.NewInt(0), 0)
	assert.Equal(t, big.NewInt(0), base)
}

func TestUncleRewardClampsToZeroRatherThanUnderflow(t *testing.T) {
	base := etherWei(2)
	// uncleParentNumber + 8 < uncleHeight: would underflow a naive u256 subtraction.
	r := UncleReward(base, 100, 50)
	assert.Equal(t, big.NewInt(0), r)
}

func TestUncleRewardStandardFormula(t *testing.T) {
	base := etherWei(2)
	// uncleHeight=100, parent=99 -> depth = 99+8-100 = 7
	r := UncleReward(base, 100, 99)
	want := new(big.Int).Div(new(big.Int).Mul(base, big.NewInt(7)), big.NewInt(8))
	assert.Equal(t, want, r)
}

func TestResolveAlias(t *testing.T) {
	assert.Equal(t, uint64(1), ResolveAlias("mainnet"))
	assert.Equal(t, uint64(0), ResolveAlias("polygon"))
}
