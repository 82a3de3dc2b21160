package model

import "math/big"

// Withdrawal is a validator withdrawal row (post-Shanghai).
type Withdrawal struct {
	Chain          uint64
	BlockNumber    uint64
	Timestamp      uint64
	WithdrawalIndex uint64
	ValidatorIndex  uint64
	Address         string
	Amount          *big.Int
}
