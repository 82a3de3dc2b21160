package model

// Batch is the unit of commit: one or more blocks plus every row derived
// from them. The persistence layer (internal/store)
// either commits a Batch in full or aborts it entirely; a block height must
// never enter the indexed set without every dependent row already durable.
type Batch struct {
	Blocks           []Block
	Transactions     []Transaction
	Logs             []Log
	Traces           []Trace
	Contracts        []Contract
	Withdrawals      []Withdrawal
	ERC20Transfers   []ERC20Transfer
	ERC721Transfers  []ERC721Transfer
	ERC1155Transfers []ERC1155Transfer
	DexTrades        []DexTrade
}

// Merge appends another Batch's rows into this one. Used by the driver to
// fold per-block assembler results into one chunk-wide batch.
func (b *Batch) Merge(other Batch) {
	b.Blocks = append(b.Blocks, other.Blocks...)
	b.Transactions = append(b.Transactions, other.Transactions...)
	b.Logs = append(b.Logs, other.Logs...)
	b.Traces = append(b.Traces, other.Traces...)
	b.Contracts = append(b.Contracts, other.Contracts...)
	b.Withdrawals = append(b.Withdrawals, other.Withdrawals...)
	b.ERC20Transfers = append(b.ERC20Transfers, other.ERC20Transfers...)
	b.ERC721Transfers = append(b.ERC721Transfers, other.ERC721Transfers...)
	b.ERC1155Transfers = append(b.ERC1155Transfers, other.ERC1155Transfers...)
	b.DexTrades = append(b.DexTrades, other.DexTrades...)
}

// Heights returns the canonical (non-uncle) block numbers carried by this
// batch, in the order blocks were appended.
func (b *Batch) Heights() []uint64 {
	heights := make([]uint64, 0, len(b.Blocks))
	for _, blk := range b.Blocks {
		if !blk.IsUncle {
			heights = append(heights, blk.Number)
		}
	}
	return heights
}
