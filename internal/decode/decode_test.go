package decode

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evmindexer/indexer/internal/dex"
	"github.com/evmindexer/indexer/internal/model"
)

const usdc = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"

func padAddress(addr string) string {
	b := hexToBytes(addr)
	word := make([]byte, 32)
	copy(word[32-len(b):], b)
	return "0x" + hexString(word)
}

func hexString(b []byte) string {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexDigits[c>>4]
		out[i*2+1] = hexDigits[c&0xf]
	}
	return string(out)
}

func uint256Data(values ...*big.Int) []byte {
	out := make([]byte, 0, 32*len(values))
	for _, v := range values {
		word := make([]byte, 32)
		v.FillBytes(word)
		out = append(out, word...)
	}
	return out
}

// TestERC20TransferDecode: a Transfer log with exactly two indexed
// addresses decodes as an ERC-20 transfer and emits no ERC-721 row.
func TestERC20TransferDecode(t *testing.T) {
	log := model.Log{
		Chain:           1,
		Address:         usdc,
		TransactionHash: "0xabc",
		LogIndex:        3,
		Topic0:          TransferSignature,
		Topic1:          padAddress("0x1111111111111111111111111111111111111111"),
		Topic2:          padAddress("0x2222222222222222222222222222222222222222"),
		Data:            uint256Data(big.NewInt(1_000_000)),
	}

	result := Dispatch(log, 1, "0x0000000000000000000000000000000000dead", dex.NewRegistry())

	require.NotNil(t, result.Transfer20)
	assert.Nil(t, result.Transfer721)
	assert.Equal(t, big.NewInt(1_000_000), result.Transfer20.Amount)
	assert.Equal(t, usdc, result.Transfer20.Token)
}

// TestERC721TransferDecode: the same Transfer topic with a third indexed
// word (the token id) decodes as ERC-721 and emits no ERC-20 row.
func TestERC721TransferDecode(t *testing.T) {
	log := model.Log{
		Chain:           1,
		Address:         "0xBC4CA0EdA7647A8aB7C2061c2E118A18a936f13D",
		TransactionHash: "0xdef",
		LogIndex:        1,
		Topic0:          TransferSignature,
		Topic1:          padAddress("0x1111111111111111111111111111111111111111"),
		Topic2:          padAddress("0x2222222222222222222222222222222222222222"),
		Topic3:          "0x000000000000000000000000000000000000000000000000000000000000002a",
	}

	result := Dispatch(log, 1, "", dex.NewRegistry())

	require.NotNil(t, result.Transfer721)
	assert.Nil(t, result.Transfer20)
	assert.Equal(t, big.NewInt(42), result.Transfer721.ID)
}

// TestTopicDispatchExclusivity asserts that at most one decoded shape is
// ever populated for a single log.
func TestTopicDispatchExclusivity(t *testing.T) {
	cases := []model.Log{
		{Topic0: TransferSignature, Topic1: padAddress("0x01"), Topic2: padAddress("0x02"), Data: uint256Data(big.NewInt(1))},
		{Topic0: ERC1155SingleSignature, Topic1: padAddress("0x01"), Topic2: padAddress("0x02"), Topic3: padAddress("0x03"), Data: uint256Data(big.NewInt(1), big.NewInt(2))},
		{Topic0: UniswapV2SwapSignature, Topic1: padAddress("0x01"), Topic2: padAddress("0x02"), Data: uint256Data(big.NewInt(0), big.NewInt(0), big.NewInt(5), big.NewInt(0))},
	}
	for _, log := range cases {
		r := Dispatch(log, 1, "", dex.NewRegistry())
		count := 0
		for _, set := range []bool{r.Transfer20 != nil, r.Transfer721 != nil, r.Transfer1155 != nil, r.Trade != nil} {
			if set {
				count++
			}
		}
		assert.Equal(t, 1, count)
	}
}

func TestUnknownTopicEmitsNothing(t *testing.T) {
	log := model.Log{Topic0: "0xnope"}
	result := Dispatch(log, 1, "", dex.NewRegistry())
	assert.Equal(t, Result{}, result)
}

// TestSwapV2UnsignedAmounts: V2 swap amounts round-trip as unsigned 256-bit
// integers even when the raw bytes carry a set high bit.
func TestSwapV2UnsignedAmounts(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 255) // high bit set
	log := model.Log{
		Chain:   1,
		Address: "0xPool",
		Topic0:  UniswapV2SwapSignature,
		Topic1:  padAddress("0x01"),
		Topic2:  padAddress("0x02"),
		Data:    uint256Data(big.NewInt(0), big.NewInt(0), huge, big.NewInt(0)),
	}
	result := Dispatch(log, 1, "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D", dex.NewRegistry())
	require.NotNil(t, result.Trade)
	assert.Equal(t, huge, result.Trade.Token0Amount)
	assert.Equal(t, "Uniswap V2", result.Trade.DexName)
}

// TestSwapV3SignedAmounts: V3 swap amounts decode as two's-complement signed
// values, so a set high bit yields a negative number.
func TestSwapV3SignedAmounts(t *testing.T) {
	negOne := allOnesWord()
	log := model.Log{
		Chain:   1,
		Address: "0xPool",
		Topic0:  UniswapV3SwapSignature,
		Topic1:  padAddress("0x01"),
		Topic2:  padAddress("0x02"),
		Data:    append(negOne, uint256Data(big.NewInt(42))...),
	}
	result := Dispatch(log, 1, "unrouted", dex.NewRegistry())
	require.NotNil(t, result.Trade)
	assert.Equal(t, big.NewInt(-1), result.Trade.Token0Amount)
	assert.Equal(t, big.NewInt(42), result.Trade.Token1Amount)
	assert.Equal(t, dex.UnknownDex, result.Trade.DexName)
}

func allOnesWord() []byte {
	w := make([]byte, 32)
	for i := range w {
		w[i] = 0xff
	}
	return w
}

func TestCurveExchangeDecode(t *testing.T) {
	log := model.Log{
		Chain:  1,
		Topic0: CurveTokenExchangeSignature,
		Topic1: padAddress("0x01"),
		Data:   uint256Data(big.NewInt(0), big.NewInt(1000), big.NewInt(1), big.NewInt(995)),
	}
	result := Dispatch(log, 1, "0x99a58482BD7f6B857d7E1f08Cd40A4c2a0b3053f", dex.NewRegistry())
	require.NotNil(t, result.Trade)
	assert.Equal(t, big.NewInt(0), result.Trade.SoldID)
	assert.Equal(t, big.NewInt(1000), result.Trade.TokensSold)
	assert.Equal(t, big.NewInt(1), result.Trade.BoughtID)
	assert.Equal(t, big.NewInt(995), result.Trade.TokensBought)
	assert.Equal(t, "Curve V1", result.Trade.DexName)
}
