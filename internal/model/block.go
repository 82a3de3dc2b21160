// Package model holds the columnar row shapes persisted by the indexer.
// Field names follow the domain-model convention in
// compliance/internal/domain/models.go.
package model

import "math/big"

// FinalityStatus classifies how settled a block is relative to the chain tip.
type FinalityStatus string

const (
	FinalityUnfinalised FinalityStatus = "unfinalised"
	FinalitySecure      FinalityStatus = "secure"
	FinalityFinalised   FinalityStatus = "finalised"
)

// Block is a canonical or uncle block row. Blocks are immutable once fetched.
type Block struct {
	Chain           uint64
	Number          uint64
	Hash            string
	ParentHash      string
	Miner           string
	Timestamp       uint64
	Size            uint64
	GasLimit        uint64
	GasUsed         uint64
	BaseFeePerGas   *big.Int // nil when the chain predates EIP-1559
	Difficulty      *big.Int
	TotalDifficulty *big.Int
	ExtraData       string
	Nonce           string
	LogsBloom       string
	StateRoot       string
	TransactionRoot string
	ReceiptsRoot    string
	UnclesHash      string
	TransactionCount int
	IsUncle         bool
	Finality        FinalityStatus
}
