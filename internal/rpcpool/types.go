package rpcpool

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// RawBlock mirrors the eth_getBlockByNumber / eth_getUncleByBlockNumberAndIndex
// JSON shape. Defined locally (rather than reused from go-ethereum's
// internal ethclient types) because the assembler needs the "from" address
// embedded in each transaction object, which upstream nodes attach but
// go-ethereum's own core/types.Transaction does not decode.
type RawBlock struct {
	Number           hexutil.Uint64  `json:"number"`
	Hash             common.Hash     `json:"hash"`
	ParentHash       common.Hash     `json:"parentHash"`
	Miner            common.Address  `json:"miner"`
	Timestamp        hexutil.Uint64  `json:"timestamp"`
	Size             hexutil.Uint64  `json:"size"`
	GasLimit         hexutil.Uint64  `json:"gasLimit"`
	GasUsed          hexutil.Uint64  `json:"gasUsed"`
	BaseFeePerGas    *hexutil.Big    `json:"baseFeePerGas"`
	Difficulty       *hexutil.Big    `json:"difficulty"`
	TotalDifficulty  *hexutil.Big    `json:"totalDifficulty"`
	ExtraData        hexutil.Bytes   `json:"extraData"`
	Nonce            hexutil.Bytes   `json:"nonce"`
	LogsBloom        hexutil.Bytes   `json:"logsBloom"`
	StateRoot        common.Hash     `json:"stateRoot"`
	TransactionsRoot common.Hash     `json:"transactionsRoot"`
	ReceiptsRoot     common.Hash     `json:"receiptsRoot"`
	UnclesHash       common.Hash     `json:"sha3Uncles"`
	Uncles           []common.Hash   `json:"uncles"`
	Withdrawals      []RawWithdrawal `json:"withdrawals"`
	Transactions     []RawTransaction `json:"transactions"`
}

// RawTransaction mirrors a full transaction object as embedded in
// eth_getBlockByNumber(..., true).
type RawTransaction struct {
	Hash             common.Hash    `json:"hash"`
	From             common.Address `json:"from"`
	To               *common.Address `json:"to"`
	Value            *hexutil.Big   `json:"value"`
	Gas              hexutil.Uint64 `json:"gas"`
	GasPrice         *hexutil.Big   `json:"gasPrice"`
	Input            hexutil.Bytes  `json:"input"`
	Nonce            hexutil.Uint64 `json:"nonce"`
	Type                 *hexutil.Uint64  `json:"type"`
	TransactionIndex     *hexutil.Uint64  `json:"transactionIndex"`
	AccessList           []RawAccessTuple `json:"accessList"`
	MaxFeePerGas         *hexutil.Big     `json:"maxFeePerGas"`
	MaxPriorityFeePerGas *hexutil.Big     `json:"maxPriorityFeePerGas"`
}

// RawAccessTuple mirrors an EIP-2930 access list entry.
type RawAccessTuple struct {
	Address     common.Address `json:"address"`
	StorageKeys []common.Hash  `json:"storageKeys"`
}

// RawWithdrawal mirrors an EIP-4895 withdrawal object.
type RawWithdrawal struct {
	Index          hexutil.Uint64 `json:"index"`
	ValidatorIndex hexutil.Uint64 `json:"validatorIndex"`
	Address        common.Address `json:"address"`
	Amount         hexutil.Uint64 `json:"amount"` // gwei
}

// RawReceipt mirrors an eth_getTransactionReceipt / eth_getBlockReceipts entry.
type RawReceipt struct {
	TransactionHash   common.Hash     `json:"transactionHash"`
	TransactionIndex  hexutil.Uint64  `json:"transactionIndex"`
	BlockNumber       hexutil.Uint64  `json:"blockNumber"`
	Status            *hexutil.Uint64 `json:"status"`
	GasUsed           hexutil.Uint64  `json:"gasUsed"`
	CumulativeGasUsed hexutil.Uint64  `json:"cumulativeGasUsed"`
	EffectiveGasPrice *hexutil.Big    `json:"effectiveGasPrice"`
	ContractAddress   *common.Address `json:"contractAddress"`
	Logs              []RawLog        `json:"logs"`
}

// RawLog mirrors a single entry of a receipt's logs array.
type RawLog struct {
	Address     common.Address `json:"address"`
	Topics      []common.Hash  `json:"topics"`
	Data        hexutil.Bytes  `json:"data"`
	LogIndex    hexutil.Uint64 `json:"logIndex"`
	BlockNumber hexutil.Uint64 `json:"blockNumber"`
	TxHash      common.Hash    `json:"transactionHash"`
	Removed     bool           `json:"removed"`
}

// RawTrace mirrors one parity-style localized trace entry returned by
// trace_block.
type RawTrace struct {
	Action       RawTraceAction  `json:"action"`
	Result       *RawTraceResult `json:"result"`
	Subtraces    int             `json:"subtraces"`
	TraceAddress []int           `json:"traceAddress"`
	TxHash       *common.Hash    `json:"transactionHash"`
	TxPosition   *int            `json:"transactionPosition"`
	Type         string          `json:"type"`
	Error        string          `json:"error"`
	BlockNumber  hexutil.Uint64  `json:"blockNumber"`
}

// RawTraceAction covers call, create, suicide (selfdestruct) and reward
// action shapes; unused fields are left at their zero value per action type.
type RawTraceAction struct {
	CallType      string          `json:"callType"`
	From          *common.Address `json:"from"`
	To            *common.Address `json:"to"`
	Gas           *hexutil.Big    `json:"gas"`
	Input         hexutil.Bytes   `json:"input"`
	Value         *hexutil.Big    `json:"value"`
	Init          hexutil.Bytes   `json:"init"`
	Address       *common.Address `json:"address"`
	RefundAddress *common.Address `json:"refundAddress"`
	Balance       *hexutil.Big    `json:"balance"`
	Author        *common.Address `json:"author"`
	RewardType    string          `json:"rewardType"`
}

// RawTraceResult is the non-error outcome of a call/create trace.
type RawTraceResult struct {
	GasUsed *hexutil.Big    `json:"gasUsed"`
	Output  hexutil.Bytes   `json:"output"`
	Address *common.Address `json:"address"`
	Code    hexutil.Bytes   `json:"code"`
}
