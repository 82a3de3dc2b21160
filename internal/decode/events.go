// Package decode is the topic-signature dispatch table, grounded on original_source/src/utils/events.rs and
// src/utils/parsers/{erc20,erc721,erc1155,swap_v2,swap_v3}.rs.
package decode

// Topic signatures, keccak256 of the canonical event signature string.
const (
	TransferSignature       = "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"
	UniswapV2SwapSignature  = "0xd78ad95fa46c994b6551d0da85fc275fe613ce37657fb8d5e3d130840159d822"
	UniswapV3SwapSignature  = "0xc42079f94a6350d7e6235f29174924f928cc2ac818eb64fed8004e115fbcca67"
	ERC1155SingleSignature  = "0xc3d58168c5ae7397731d063d5bbf3d657854427343f4c083240f7aacaa2d0f62"
	ERC1155BatchSignature   = "0x4a39dc06d4c0dbc64b70af90fd698a233a518aa5d07e595d983b8c0526c8f7fb"
	CurveTokenExchangeSignature = "0x8b3e96f2b889fa771c53c981b40daf005f63f637f1869f707052d15a3dd97140"
)
