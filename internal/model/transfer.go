package model

import "math/big"

// ERC20Transfer is emitted for a Transfer(address,address,uint256) log whose
// topic shape carries exactly two indexed addresses.
type ERC20Transfer struct {
	Chain           uint64
	TransactionHash string
	LogIndex        uint64
	Token           string // the log's emitting address
	From            string
	To              string
	Amount          *big.Int
	Timestamp       uint64
}

// ERC721Transfer is emitted when the same topic additionally carries a third
// indexed word (the token id).
type ERC721Transfer struct {
	Chain           uint64
	TransactionHash string
	LogIndex        uint64
	Token           string
	From            string
	To              string
	ID              *big.Int
	Timestamp       uint64
}

// ERC1155Transfer covers both TransferSingle and TransferBatch; for a single
// transfer IDs/Amounts each hold exactly one element.
type ERC1155Transfer struct {
	Chain           uint64
	TransactionHash string
	LogIndex        uint64
	Token           string
	Operator        string
	From            string
	To              string
	IDs             []*big.Int
	Amounts         []*big.Int
	Timestamp       uint64
}
