package model

import "math/big"

// TraceActionType is the parity-style localized trace action kind.
type TraceActionType string

const (
	TraceCall    TraceActionType = "call"
	TraceCreate  TraceActionType = "create"
	TraceSuicide TraceActionType = "suicide"
	TraceReward  TraceActionType = "reward"
)

// Trace is one parity-style localized trace entry.
type Trace struct {
	Chain           uint64
	ActionType      TraceActionType
	CallType        string // "call", "delegatecall", "staticcall", ... when ActionType == TraceCall
	From            string
	To              string
	Address         string // for suicide: the self-destructed contract
	RefundAddress   string // for suicide: the refund recipient
	Author          string // for reward: the block/uncle author
	Gas             uint64
	GasUsed         uint64
	Input           []byte
	Output          []byte
	Init            []byte
	Code            []byte
	Value           *big.Int
	SubtraceCount   int
	TraceAddress    []int
	TransactionHash string
	TransactionPosition int
	BlockNumber     uint64
	Error           string
}
