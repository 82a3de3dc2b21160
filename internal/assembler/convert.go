package assembler

import (
	"fmt"
	"math/big"

	"github.com/evmindexer/indexer/internal/model"
	"github.com/evmindexer/indexer/internal/rpcpool"
)

func bigOrZero(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return v
}

func convertBlock(chainID uint64, raw *rpcpool.RawBlock, isUncle bool) model.Block {
	var baseFee *big.Int
	if raw.BaseFeePerGas != nil {
		baseFee = raw.BaseFeePerGas.ToInt()
	}
	difficulty := big.NewInt(0)
	if raw.Difficulty != nil {
		difficulty = raw.Difficulty.ToInt()
	}
	totalDifficulty := big.NewInt(0)
	if raw.TotalDifficulty != nil {
		totalDifficulty = raw.TotalDifficulty.ToInt()
	}

	return model.Block{
		Chain:            chainID,
		Number:           uint64(raw.Number),
		Hash:             raw.Hash.Hex(),
		ParentHash:       raw.ParentHash.Hex(),
		Miner:            raw.Miner.Hex(),
		Timestamp:        uint64(raw.Timestamp),
		Size:             uint64(raw.Size),
		GasLimit:         uint64(raw.GasLimit),
		GasUsed:          uint64(raw.GasUsed),
		BaseFeePerGas:    baseFee,
		Difficulty:       difficulty,
		TotalDifficulty:  totalDifficulty,
		ExtraData:        raw.ExtraData.String(),
		Nonce:            raw.Nonce.String(),
		LogsBloom:        raw.LogsBloom.String(),
		StateRoot:        raw.StateRoot.Hex(),
		TransactionRoot:  raw.TransactionsRoot.Hex(),
		ReceiptsRoot:     raw.ReceiptsRoot.Hex(),
		UnclesHash:       raw.UnclesHash.Hex(),
		TransactionCount: len(raw.Transactions),
		IsUncle:          isUncle,
		// Finality is assigned unfinalised at acquisition time; promotion to
		// secure/finalised happens out of band as later blocks confirm depth,
		// not during this single-block fetch.
		Finality: model.FinalityUnfinalised,
	}
}

func convertLog(chainID uint64, timestamp uint64, raw rpcpool.RawLog) model.Log {
	log := model.Log{
		Chain:           chainID,
		Address:         raw.Address.Hex(),
		BlockNumber:     uint64(raw.BlockNumber),
		TransactionHash: raw.TxHash.Hex(),
		LogIndex:        uint64(raw.LogIndex),
		Data:            []byte(raw.Data),
		Timestamp:       timestamp,
	}
	if len(raw.Topics) > 0 {
		log.Topic0 = raw.Topics[0].Hex()
	}
	if len(raw.Topics) > 1 {
		log.Topic1 = raw.Topics[1].Hex()
	}
	if len(raw.Topics) > 2 {
		log.Topic2 = raw.Topics[2].Hex()
	}
	if len(raw.Topics) > 3 {
		log.Topic3 = raw.Topics[3].Hex()
	}
	return log
}

func convertTrace(chainID uint64, raw rpcpool.RawTrace) model.Trace {
	t := model.Trace{
		Chain:         chainID,
		ActionType:    model.TraceActionType(raw.Type),
		CallType:      raw.Action.CallType,
		Value:         bigOrZero(nil),
		SubtraceCount: raw.Subtraces,
		TraceAddress:  raw.TraceAddress,
		BlockNumber:   uint64(raw.BlockNumber),
		Error:         raw.Error,
	}
	if raw.Action.From != nil {
		t.From = raw.Action.From.Hex()
	}
	if raw.Action.To != nil {
		t.To = raw.Action.To.Hex()
	}
	if raw.Action.Address != nil {
		t.Address = raw.Action.Address.Hex()
	}
	if raw.Action.RefundAddress != nil {
		t.RefundAddress = raw.Action.RefundAddress.Hex()
	}
	if raw.Action.Author != nil {
		t.Author = raw.Action.Author.Hex()
	}
	if raw.Action.Value != nil {
		t.Value = raw.Action.Value.ToInt()
	}
	if raw.Action.Gas != nil {
		t.Gas = raw.Action.Gas.ToInt().Uint64()
	}
	t.Input = []byte(raw.Action.Input)
	t.Init = []byte(raw.Action.Init)
	if raw.Result != nil {
		if raw.Result.GasUsed != nil {
			t.GasUsed = raw.Result.GasUsed.ToInt().Uint64()
		}
		t.Output = []byte(raw.Result.Output)
		t.Code = []byte(raw.Result.Code)
	}
	if raw.TxHash != nil {
		t.TransactionHash = raw.TxHash.Hex()
	}
	if raw.TxPosition != nil {
		t.TransactionPosition = *raw.TxPosition
	}
	return t
}

func convertWithdrawal(chainID uint64, blockTimestamp uint64, raw rpcpool.RawWithdrawal) model.Withdrawal {
	// Amount arrives in gwei per EIP-4895; stored as wei for unit
	// consistency with every other balance field.
	amountWei := new(big.Int).Mul(big.NewInt(int64(raw.Amount)), big.NewInt(1_000_000_000))
	return model.Withdrawal{
		Chain:           chainID,
		BlockNumber:     0, // filled in by the caller once the owning block's number is known
		Timestamp:       blockTimestamp,
		WithdrawalIndex: uint64(raw.Index),
		ValidatorIndex:  uint64(raw.ValidatorIndex),
		Address:         raw.Address.Hex(),
		Amount:          amountWei,
	}
}

// methodSelector extracts the first 4 bytes of a transaction's input as a
// hex string, "" when input is empty (grounded on
// original_source/src/utils/format.rs byte4_from_input).
func methodSelector(input []byte) string {
	if len(input) == 0 {
		return ""
	}
	n := len(input)
	if n > 4 {
		n = 4
	}
	return fmt.Sprintf("0x%x", input[:n])
}

func transactionType(raw rpcpool.RawTransaction) model.TransactionType {
	if raw.Type == nil {
		return model.TransactionLegacy
	}
	switch uint64(*raw.Type) {
	case 0:
		return model.TransactionLegacy
	case 1:
		return model.TransactionAccessList
	default:
		return model.TransactionEIP1559
	}
}

func convertAccessList(raw []rpcpool.RawAccessTuple) []model.AccessTuple {
	if len(raw) == 0 {
		return nil
	}
	out := make([]model.AccessTuple, 0, len(raw))
	for _, tuple := range raw {
		keys := make([]string, len(tuple.StorageKeys))
		for i, k := range tuple.StorageKeys {
			keys[i] = k.Hex()
		}
		out = append(out, model.AccessTuple{Address: tuple.Address.Hex(), StorageKeys: keys})
	}
	return out
}

// finaliseTransaction augments a raw transaction with its receipt fields
// and derives burned fee / effective fee / status.
func finaliseTransaction(chainID uint64, block *rpcpool.RawBlock, raw rpcpool.RawTransaction, receipt rpcpool.RawReceipt) model.Transaction {
	to := ""
	if raw.To != nil {
		to = raw.To.Hex()
	}

	status := model.StatusUnknown
	if receipt.Status != nil {
		if uint64(*receipt.Status) == 1 {
			status = model.StatusSuccess
		} else {
			status = model.StatusFailure
		}
	}

	contractCreated := ""
	if receipt.ContractAddress != nil {
		contractCreated = receipt.ContractAddress.Hex()
	}

	var baseFee *big.Int
	burned := big.NewInt(0)
	if block.BaseFeePerGas != nil {
		baseFee = block.BaseFeePerGas.ToInt()
		burned = new(big.Int).Mul(baseFee, big.NewInt(int64(uint64(receipt.GasUsed))))
	}

	var effectiveGasPrice *big.Int
	effectiveFee := big.NewInt(0)
	if receipt.EffectiveGasPrice != nil {
		effectiveGasPrice = receipt.EffectiveGasPrice.ToInt()
		effectiveFee = new(big.Int).Mul(effectiveGasPrice, big.NewInt(int64(uint64(receipt.GasUsed))))
	}

	var gasPrice, maxFee, maxPriority, value *big.Int
	if raw.GasPrice != nil {
		gasPrice = raw.GasPrice.ToInt()
	}
	if raw.MaxFeePerGas != nil {
		maxFee = raw.MaxFeePerGas.ToInt()
	}
	if raw.MaxPriorityFeePerGas != nil {
		maxPriority = raw.MaxPriorityFeePerGas.ToInt()
	}
	if raw.Value != nil {
		value = raw.Value.ToInt()
	}

	return model.Transaction{
		Chain:                   chainID,
		BlockHash:               block.Hash.Hex(),
		Height:                  uint64(block.Number),
		Index:                   uint64(receipt.TransactionIndex),
		Hash:                    raw.Hash.Hex(),
		From:                    raw.From.Hex(),
		To:                      to,
		Value:                   bigOrZero(value),
		Input:                   []byte(raw.Input),
		Gas:                     uint64(raw.Gas),
		GasPrice:                gasPrice,
		Nonce:                   uint64(raw.Nonce),
		AccessList:              convertAccessList(raw.AccessList),
		MaxFeePerGas:            maxFee,
		MaxPriorityFeePerGas:    maxPriority,
		Type:                    transactionType(raw),
		MethodSelector:          methodSelector(raw.Input),
		CumulativeGasUsed:       uint64(receipt.CumulativeGasUsed),
		EffectiveGasPrice:       effectiveGasPrice,
		GasUsed:                 uint64(receipt.GasUsed),
		BaseFeePerGas:           baseFee,
		Burned:                  burned,
		EffectiveTransactionFee: effectiveFee,
		ContractCreated:         contractCreated,
		Status:                  status,
		Timestamp:               uint64(block.Timestamp),
	}
}
