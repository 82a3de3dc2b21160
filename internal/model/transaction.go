package model

import "math/big"

// TransactionType mirrors EIP-2718 envelope types the indexer understands.
type TransactionType string

const (
	TransactionLegacy     TransactionType = "legacy"
	TransactionAccessList TransactionType = "access-list"
	TransactionEIP1559    TransactionType = "eip-1559"
)

// TransactionStatus is the post-receipt execution outcome.
type TransactionStatus string

const (
	StatusUnknown TransactionStatus = "unknown"
	StatusFailure TransactionStatus = "failure"
	StatusSuccess TransactionStatus = "success"
)

// AccessTuple is one entry of an EIP-2930 access list.
type AccessTuple struct {
	Address     string
	StorageKeys []string
}

// Transaction is a fully reconciled, receipt-enriched transaction row.
type Transaction struct {
	Chain     uint64
	BlockHash string
	Height    uint64
	Index     uint64
	Hash      string
	From      string
	To        string // zero address for contract creation
	Value     *big.Int
	Input     []byte
	Gas       uint64
	GasPrice  *big.Int
	Nonce     uint64
	AccessList []AccessTuple
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
	Type                 TransactionType
	MethodSelector       string // first 4 bytes of Input, hex-encoded, "" if Input is empty

	// Populated during receipt reconciliation.
	CumulativeGasUsed       uint64
	EffectiveGasPrice       *big.Int
	GasUsed                 uint64
	BaseFeePerGas           *big.Int
	Burned                  *big.Int // base_fee_per_gas * gas_used, zero if no base fee
	EffectiveTransactionFee *big.Int // gas_used * effective_gas_price
	ContractCreated         string
	Status                  TransactionStatus
	Timestamp               uint64 // copied from the owning block
}
