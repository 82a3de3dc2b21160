// Package chain is the static chain registry.
// Reward arithmetic and capability hints are grounded on
// original_source/src/chains/mod.rs; chain-specific reward-arithmetic tables
// beyond Ethereum/BSC/Polygon are a data resource the original spec marks
// out of scope, so only these three are wired.
package chain

import (
	"fmt"
	"math/big"
)

// RewardRule computes (base, fee, uncle) reward components for a block.
// feesPaid is the sum of gas_used * effective_gas_price across the block's
// reconciled transactions; uncleCount is the number of uncles included.
type RewardRule func(height uint64, feesPaid *big.Int, uncleCount int) (base, fee, uncleReward *big.Int)

// Chain is a read-only registry entry, keyed by numeric chain id.
type Chain struct {
	ID                     uint64
	Name                   string
	GenesisHash            string
	GenesisTimestamp       uint64
	SupportsBlockReceipts  bool // capability hint; may be overridden by probing
	SupportsTraceBlock     bool
	Reward                 RewardRule
}

var weiPerEther = big.NewInt(1_000_000_000_000_000_000)

func etherWei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), weiPerEther)
}

// Ethereum hardfork heights and base rewards, from original_source/src/chains/mod.rs.
const (
	byzantiumBlock      = 4_370_000
	constantinopleBlock = 7_280_000
	mergeBlock          = 15_537_393
)

func ethereumReward(height uint64, feesPaid *big.Int, uncleCount int) (*big.Int, *big.Int, *big.Int) {
	base := etherWei(5)
	switch {
	case height >= mergeBlock:
		base = big.NewInt(0)
	case height >= constantinopleBlock:
		base = etherWei(2)
	case height >= byzantiumBlock:
		base = etherWei(3)
	}

	uncleReward := big.NewInt(0)
	if uncleCount > 0 {
		// base_uncle_reward is a fixed 1/16 ETH per uncle (0xde0b6b3a764000 wei).
		perUncle := new(big.Int).Div(weiPerEther, big.NewInt(16))
		uncleReward = new(big.Int).Mul(perUncle, big.NewInt(int64(uncleCount)))
	}

	fee := new(big.Int)
	if feesPaid != nil {
		fee.Set(feesPaid)
	}

	return base, fee, uncleReward
}

// UncleReward implements the ((uncle_parent - uncle_height + 8) * base / 8)
// formula, clamped to zero rather than underflowing when the uncle's
// parent height exceeds uncleHeight+8.
func UncleReward(base *big.Int, uncleHeight, uncleParentNumber uint64) *big.Int {
	depth := int64(uncleParentNumber) + 8 - int64(uncleHeight)
	if depth <= 0 {
		return big.NewInt(0)
	}
	r := new(big.Int).Mul(base, big.NewInt(depth))
	return r.Div(r, big.NewInt(8))
}

func zeroRewardPlusFees(_ uint64, feesPaid *big.Int, _ int) (*big.Int, *big.Int, *big.Int) {
	fee := new(big.Int)
	if feesPaid != nil {
		fee.Set(feesPaid)
	}
	return big.NewInt(0), fee, big.NewInt(0)
}

// Registry is the static chain table, keyed by chain id.
var registry = map[uint64]Chain{
	1: {
		ID:                    1,
		Name:                  "ethereum",
		GenesisHash:           "0xd4e56740f876aef8c010b86a40d5f56745a118d0906a34e69aec8c0db1cb8fa3",
		GenesisTimestamp:      1438269973,
		SupportsBlockReceipts: true,
		SupportsTraceBlock:    true,
		Reward:                ethereumReward,
	},
	56: {
		ID:                    56,
		Name:                  "bsc",
		GenesisHash:           "0x0d21840abff46b96c84b2ac9e10e4f5cdaeb5693cb665db62a2f3b02d2d57b5b",
		GenesisTimestamp:      1598687048,
		SupportsBlockReceipts: true,
		SupportsTraceBlock:    true,
		Reward:                zeroRewardPlusFees,
	},
	137: {
		ID:                    137,
		Name:                  "polygon",
		GenesisHash:           "0xa9c28ce2141b56c474f1dc504bee9b01eb1bd7d1a507580d5519d4437a97de1b",
		GenesisTimestamp:      1590824836,
		SupportsBlockReceipts: true,
		SupportsTraceBlock:    true,
		Reward:                zeroRewardPlusFees,
	},
}

// Get looks up a chain by id. An unknown chain id is a fatal configuration
// error — callers at startup should treat a non-nil error as cause to
// abort rather than retry.
func Get(id uint64) (Chain, error) {
	c, ok := registry[id]
	if !ok {
		return Chain{}, fmt.Errorf("unknown chain id %d", id)
	}
	return c, nil
}

// ResolveAlias maps the "mainnet" CLI alias to chain id 1.
func ResolveAlias(name string) uint64 {
	if name == "mainnet" {
		return 1
	}
	return 0
}
