package decode

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/evmindexer/indexer/internal/dex"
	"github.com/evmindexer/indexer/internal/model"
)

// Result is the decoded output of a single log. At most one of Transfer20,
// Transfer721, Transfer1155, Trade is non-nil, satisfying the topic dispatch
// exclusivity invariant.
type Result struct {
	Transfer20   *model.ERC20Transfer
	Transfer721  *model.ERC721Transfer
	Transfer1155 *model.ERC1155Transfer
	Trade        *model.DexTrade
}

// topicAddress extracts the right-most 20 bytes of a 32-byte topic word.
func topicAddress(topic string) string {
	b := hexToBytes(topic)
	if len(b) < 20 {
		return common.Address{}.Hex()
	}
	return common.BytesToAddress(b[len(b)-20:]).Hex()
}

func hexToBytes(s string) []byte {
	s = strings.TrimPrefix(s, "0x")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b := make([]byte, len(s)/2)
	for i := 0; i < len(b); i++ {
		hi := hexNibble(s[i*2])
		lo := hexNibble(s[i*2+1])
		b[i] = hi<<4 | lo
	}
	return b
}

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}

// word reads the 32-byte big-endian word at the given index (0-based) out
// of an ABI-encoded data blob, as an unsigned integer. Full-width; no
// narrowing.
func word(data []byte, index int) *big.Int {
	start := index * 32
	if start+32 > len(data) {
		return new(big.Int)
	}
	return new(big.Int).SetBytes(data[start : start+32])
}

// signedWord reads the 32-byte word as two's-complement signed: V3 swap
// amounts are signed 256-bit values encoded this way.
func signedWord(data []byte, index int) *big.Int {
	u := word(data, index)
	// If the high bit of the 256-bit word is set, the value is negative:
	// subtract 2^256.
	if u.Bit(255) == 1 {
		mod := new(big.Int).Lsh(big.NewInt(1), 256)
		return new(big.Int).Sub(u, mod)
	}
	return u
}

// wordArray decodes a length-prefixed dynamic ABI array of uint256 starting
// at the tail offset given at the head word index `headIndex`.
func wordArray(data []byte, headIndex int) []*big.Int {
	offset := word(data, headIndex)
	off := int(offset.Int64())
	if off < 0 || off+32 > len(data) {
		return nil
	}
	length := new(big.Int).SetBytes(data[off : off+32]).Int64()
	out := make([]*big.Int, 0, length)
	base := off + 32
	for i := int64(0); i < length; i++ {
		start := base + int(i)*32
		if start+32 > len(data) {
			break
		}
		out = append(out, new(big.Int).SetBytes(data[start:start+32]))
	}
	return out
}

// Dispatch decodes a single log given the enclosing transaction's recipient
// (for DEX attribution) and chain id. A log matching no
// known topic signature returns a zero Result — it is persisted unmodified
// as a raw log by the caller and emits no transfer/trade record.
func Dispatch(log model.Log, chain uint64, txTo string, registry *dex.Registry) Result {
	switch log.Topic0 {
	case TransferSignature:
		return decodeTransfer(log)
	case ERC1155SingleSignature:
		return decodeERC1155Single(log)
	case ERC1155BatchSignature:
		return decodeERC1155Batch(log)
	case UniswapV2SwapSignature:
		return decodeSwapV2(log, chain, txTo, registry)
	case UniswapV3SwapSignature:
		return decodeSwapV3(log, chain, txTo, registry)
	case CurveTokenExchangeSignature:
		return decodeCurveExchange(log, chain, txTo, registry)
	default:
		return Result{}
	}
}

// decodeTransfer handles the shared ERC-20/ERC-721 Transfer topic: a fourth
// topic (the token id) present means ERC-721, else ERC-20.
func decodeTransfer(log model.Log) Result {
	if log.Topic1 == "" || log.Topic2 == "" {
		return Result{}
	}
	from := topicAddress(log.Topic1)
	to := topicAddress(log.Topic2)

	if log.Topic3 != "" {
		id := new(big.Int).SetBytes(hexToBytes(log.Topic3))
		return Result{Transfer721: &model.ERC721Transfer{
			Chain:           chainOf(log),
			TransactionHash: log.TransactionHash,
			LogIndex:        log.LogIndex,
			Token:           log.Address,
			From:            from,
			To:              to,
			ID:              id,
			Timestamp:       log.Timestamp,
		}}
	}

	amount := word(log.Data, 0)
	return Result{Transfer20: &model.ERC20Transfer{
		Chain:           chainOf(log),
		TransactionHash: log.TransactionHash,
		LogIndex:        log.LogIndex,
		Token:           log.Address,
		From:            from,
		To:              to,
		Amount:          amount,
		Timestamp:       log.Timestamp,
	}}
}

func decodeERC1155Single(log model.Log) Result {
	if log.Topic1 == "" || log.Topic2 == "" || log.Topic3 == "" {
		return Result{}
	}
	id := word(log.Data, 0)
	amount := word(log.Data, 1)
	return Result{Transfer1155: &model.ERC1155Transfer{
		Chain:           chainOf(log),
		TransactionHash: log.TransactionHash,
		LogIndex:        log.LogIndex,
		Token:           log.Address,
		Operator:        topicAddress(log.Topic1),
		From:            topicAddress(log.Topic2),
		To:              topicAddress(log.Topic3),
		IDs:             []*big.Int{id},
		Amounts:         []*big.Int{amount},
		Timestamp:       log.Timestamp,
	}}
}

func decodeERC1155Batch(log model.Log) Result {
	if log.Topic1 == "" || log.Topic2 == "" || log.Topic3 == "" {
		return Result{}
	}
	ids := wordArray(log.Data, 0)
	amounts := wordArray(log.Data, 1)
	return Result{Transfer1155: &model.ERC1155Transfer{
		Chain:           chainOf(log),
		TransactionHash: log.TransactionHash,
		LogIndex:        log.LogIndex,
		Token:           log.Address,
		Operator:        topicAddress(log.Topic1),
		From:            topicAddress(log.Topic2),
		To:              topicAddress(log.Topic3),
		IDs:             ids,
		Amounts:         amounts,
		Timestamp:       log.Timestamp,
	}}
}

// attribute looks up txTo in the router registry, falling back to
// dex.UnknownDex on a miss. The record is still emitted either way.
func attribute(chain uint64, txTo string, registry *dex.Registry) (protocol, name string) {
	if registry == nil {
		return "", dex.UnknownDex
	}
	info, ok := registry.RouterInfo(chain, txTo)
	if !ok {
		return "", dex.UnknownDex
	}
	return info.Name, info.DisplayName()
}

func decodeSwapV2(log model.Log, chain uint64, txTo string, registry *dex.Registry) Result {
	if log.Topic1 == "" || log.Topic2 == "" {
		return Result{}
	}
	protocol, name := attribute(chain, txTo, registry)
	return Result{Trade: &model.DexTrade{
		Chain:           chainOf(log),
		TransactionHash: log.TransactionHash,
		LogIndex:        log.LogIndex,
		Pool:            log.Address,
		Protocol:        protocol,
		DexName:         name,
		Maker:           topicAddress(log.Topic1),
		Receiver:        topicAddress(log.Topic2),
		// amount0In, amount1In, amount0Out, amount1Out; V2 trades persist the
		// unsigned "out" values.
		Token0Amount: word(log.Data, 2),
		Token1Amount: word(log.Data, 3),
		Timestamp:    log.Timestamp,
	}}
}

func decodeSwapV3(log model.Log, chain uint64, txTo string, registry *dex.Registry) Result {
	if log.Topic1 == "" || log.Topic2 == "" {
		return Result{}
	}
	protocol, name := attribute(chain, txTo, registry)
	return Result{Trade: &model.DexTrade{
		Chain:           chainOf(log),
		TransactionHash: log.TransactionHash,
		LogIndex:        log.LogIndex,
		Pool:            log.Address,
		Protocol:        protocol,
		DexName:         name,
		Maker:           topicAddress(log.Topic1),
		Receiver:        topicAddress(log.Topic2),
		// amount0, amount1 are signed deltas.
		Token0Amount: signedWord(log.Data, 0),
		Token1Amount: signedWord(log.Data, 1),
		Timestamp:    log.Timestamp,
	}}
}

// decodeCurveExchange handles Curve's TokenExchange(address,int128,uint256,
// int128,uint256): buyer indexed, then sold_id, tokens_sold, bought_id,
// tokens_bought. Pool provenance is attributed by the enclosing tx's `to`
// against the router registry, not a factory lookup, preserving the
// original's imprecision rather than guessing intent.
func decodeCurveExchange(log model.Log, chain uint64, txTo string, registry *dex.Registry) Result {
	if log.Topic1 == "" {
		return Result{}
	}
	protocol, name := attribute(chain, txTo, registry)
	return Result{Trade: &model.DexTrade{
		Chain:           chainOf(log),
		TransactionHash: log.TransactionHash,
		LogIndex:        log.LogIndex,
		Pool:            log.Address,
		Protocol:        protocol,
		DexName:         name,
		Maker:           topicAddress(log.Topic1),
		SoldID:          signedWord(log.Data, 0),
		TokensSold:      word(log.Data, 1),
		BoughtID:        signedWord(log.Data, 2),
		TokensBought:    word(log.Data, 3),
		Timestamp:       log.Timestamp,
	}}
}

func chainOf(log model.Log) uint64 {
	return log.Chain
}
