package model

import "math/big"

// DexTrade is a decoded swap, attributed to a DEX protocol by the enclosing
// transaction's recipient. V2 amounts are unsigned "out"
// values; V3 amounts are signed deltas; Curve exchanges populate BoughtID/
// SoldID/TokensBought/TokensSold instead of Token0Amount/Token1Amount.
type DexTrade struct {
	Chain           uint64
	TransactionHash string
	LogIndex        uint64
	Pool            string
	Factory         string
	Protocol        string // "Uniswap", "SushiSwap", "Curve", ... or "" for Curve-shaped trades
	DexName         string // display name, e.g. "Uniswap V3", or "Unknown DEX"
	Maker           string
	Receiver        string
	Token0Amount    *big.Int // V2: unsigned out-amount; V3: signed delta
	Token1Amount    *big.Int

	// Curve-specific fields; zero value unused for V2/V3 trades.
	BoughtID     *big.Int
	SoldID       *big.Int
	TokensBought *big.Int
	TokensSold   *big.Int

	Timestamp uint64
}
