package store

import (
	"encoding/json"
	"math/big"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/evmindexer/indexer/internal/model"
)

// Column counts drive insertChunked's per-task chunking and
// must track the argument lists below one-for-one. Full-width integers
// (*big.Int) are stored as decimal strings, following
// original_source/src/utils/format.rs's format_number convention, since
// ClickHouse client libraries handle UInt256 inconsistently across drivers.

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

const blockColumns = 22

func appendBlock(b driver.Batch, blk model.Block) error {
	baseFee := "0"
	if blk.BaseFeePerGas != nil {
		baseFee = blk.BaseFeePerGas.String()
	}
	return b.Append(
		blk.Chain,           // 1
		blk.Number,          // 2
		blk.Hash,            // 3
		blk.ParentHash,      // 4
		blk.Miner,           // 5
		blk.Timestamp,       // 6
		blk.Size,            // 7
		blk.GasLimit,        // 8
		blk.GasUsed,         // 9
		baseFee,             // 10
		bigString(blk.Difficulty),      // 11
		bigString(blk.TotalDifficulty), // 12
		blk.ExtraData,        // 13
		blk.Nonce,            // 14
		blk.LogsBloom,        // 15
		blk.StateRoot,        // 16
		blk.TransactionRoot,  // 17
		blk.ReceiptsRoot,     // 18
		blk.UnclesHash,       // 19
		blk.TransactionCount, // 20
		blk.IsUncle,          // 21
		string(blk.Finality), // 22
	)
}

const contractColumns = 7

func appendContract(b driver.Batch, c model.Contract) error {
	return b.Append(
		c.Chain,             // 1
		c.Address,           // 2
		c.Creator,           // 3
		c.OriginTransaction, // 4
		c.OriginBlock,       // 5
		c.Protocol,          // 6
		c.DexName,           // 7
	)
}

const logColumns = 11

func appendLog(b driver.Batch, l model.Log) error {
	return b.Append(
		l.Chain,           // 1
		l.Address,         // 2
		l.BlockNumber,     // 3
		l.TransactionHash, // 4
		l.LogIndex,        // 5
		l.Topic0,          // 6
		l.Topic1,          // 7
		l.Topic2,          // 8
		l.Topic3,          // 9
		l.Data,            // 10
		l.Timestamp,       // 11
	)
}

const traceColumns = 21

func appendTrace(b driver.Batch, t model.Trace) error {
	traceAddress := make([]uint64, len(t.TraceAddress))
	for i, v := range t.TraceAddress {
		traceAddress[i] = uint64(v)
	}
	return b.Append(
		t.Chain,                    // 1
		string(t.ActionType),       // 2
		t.CallType,                 // 3
		t.From,                     // 4
		t.To,                       // 5
		t.Address,                  // 6
		t.RefundAddress,            // 7
		t.Author,                   // 8
		t.Gas,                      // 9
		t.GasUsed,                  // 10
		t.Input,                    // 11
		t.Output,                   // 12
		t.Init,                     // 13
		t.Code,                     // 14
		bigString(t.Value),         // 15
		t.SubtraceCount,            // 16
		traceAddress,               // 17
		t.TransactionHash,          // 18
		uint64(t.TransactionPosition), // 19
		t.BlockNumber,              // 20
		t.Error,                    // 21
	)
}

const transactionColumns = 26

func appendTransaction(b driver.Batch, tx model.Transaction) error {
	gasPrice := "0"
	if tx.GasPrice != nil {
		gasPrice = tx.GasPrice.String()
	}
	maxFee := "0"
	if tx.MaxFeePerGas != nil {
		maxFee = tx.MaxFeePerGas.String()
	}
	maxPriority := "0"
	if tx.MaxPriorityFeePerGas != nil {
		maxPriority = tx.MaxPriorityFeePerGas.String()
	}
	baseFee := "0"
	if tx.BaseFeePerGas != nil {
		baseFee = tx.BaseFeePerGas.String()
	}
	effectiveGasPrice := "0"
	if tx.EffectiveGasPrice != nil {
		effectiveGasPrice = tx.EffectiveGasPrice.String()
	}
	accessList, _ := json.Marshal(tx.AccessList)

	return b.Append(
		tx.Chain,                   // 1
		tx.BlockHash,               // 2
		tx.Height,                  // 3
		tx.Index,                   // 4
		tx.Hash,                    // 5
		tx.From,                    // 6
		tx.To,                      // 7
		bigString(tx.Value),        // 8
		tx.Input,                   // 9
		tx.Gas,                     // 10
		gasPrice,                   // 11
		tx.Nonce,                   // 12
		string(accessList),         // 13
		maxFee,                     // 14
		maxPriority,                // 15
		string(tx.Type),            // 16
		tx.MethodSelector,          // 17
		tx.CumulativeGasUsed,       // 18
		effectiveGasPrice,          // 19
		tx.GasUsed,                 // 20
		baseFee,                    // 21
		bigString(tx.Burned),       // 22
		bigString(tx.EffectiveTransactionFee), // 23
		tx.ContractCreated,         // 24
		string(tx.Status),          // 25
		tx.Timestamp,               // 26
	)
}

const withdrawalColumns = 7

func appendWithdrawal(b driver.Batch, w model.Withdrawal) error {
	return b.Append(
		w.Chain,           // 1
		w.BlockNumber,     // 2
		w.Timestamp,       // 3
		w.WithdrawalIndex, // 4
		w.ValidatorIndex,  // 5
		w.Address,         // 6
		bigString(w.Amount), // 7
	)
}

const erc20Columns = 8

func appendERC20(b driver.Batch, t model.ERC20Transfer) error {
	return b.Append(
		t.Chain,           // 1
		t.TransactionHash, // 2
		t.LogIndex,        // 3
		t.Token,           // 4
		t.From,            // 5
		t.To,              // 6
		bigString(t.Amount), // 7
		t.Timestamp,       // 8
	)
}

const erc721Columns = 8

func appendERC721(b driver.Batch, t model.ERC721Transfer) error {
	return b.Append(
		t.Chain,           // 1
		t.TransactionHash, // 2
		t.LogIndex,        // 3
		t.Token,           // 4
		t.From,            // 5
		t.To,              // 6
		bigString(t.ID),   // 7
		t.Timestamp,       // 8
	)
}

const erc1155Columns = 10

func appendERC1155(b driver.Batch, t model.ERC1155Transfer) error {
	ids := make([]string, len(t.IDs))
	for i, id := range t.IDs {
		ids[i] = bigString(id)
	}
	amounts := make([]string, len(t.Amounts))
	for i, amt := range t.Amounts {
		amounts[i] = bigString(amt)
	}
	return b.Append(
		t.Chain,           // 1
		t.TransactionHash, // 2
		t.LogIndex,        // 3
		t.Token,           // 4
		t.Operator,        // 5
		t.From,            // 6
		t.To,              // 7
		ids,               // 8
		amounts,           // 9
		t.Timestamp,       // 10
	)
}

const dexTradeColumns = 16

func appendDexTrade(b driver.Batch, t model.DexTrade) error {
	return b.Append(
		t.Chain,                    // 1
		t.TransactionHash,          // 2
		t.LogIndex,                 // 3
		t.Pool,                     // 4
		t.Factory,                  // 5
		t.Protocol,                 // 6
		t.DexName,                  // 7
		t.Maker,                    // 8
		t.Receiver,                 // 9
		bigString(t.Token0Amount),  // 10
		bigString(t.Token1Amount),  // 11
		bigString(t.BoughtID),      // 12
		bigString(t.SoldID),        // 13
		bigString(t.TokensBought),  // 14
		bigString(t.TokensSold),    // 15
		t.Timestamp,                // 16
	)
}
