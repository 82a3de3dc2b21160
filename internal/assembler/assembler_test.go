package assembler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/evmindexer/indexer/internal/chain"
	"github.com/evmindexer/indexer/internal/decode"
	"github.com/evmindexer/indexer/internal/dex"
	"github.com/evmindexer/indexer/internal/rpcpool"
)

type rpcReq struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type rpcResp struct {
	ID     json.RawMessage `json:"id"`
	Result interface{}     `json:"result,omitempty"`
	Error  *rpcErr         `json:"error,omitempty"`
}

type rpcErr struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

const minerAddr = "0x1111111111111111111111111111111111111111"
const fromAddr = "0x2222222222222222222222222222222222222222"
const toAddr = "0x3333333333333333333333333333333333333333"
const usdcAddr = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
const txHash = "0xaaaa000000000000000000000000000000000000000000000000000000000000"

func topicWord(addr string) string {
	b := make([]byte, 32)
	copy(b[12:], mustHexDecode(addr))
	return "0x" + hexEncode(b)
}

func mustHexDecode(s string) []byte {
	s = s[2:]
	out := make([]byte, len(s)/2)
	for i := range out {
		hi := fromHexChar(s[i*2])
		lo := fromHexChar(s[i*2+1])
		out[i] = hi<<4 | lo
	}
	return out
}

func fromHexChar(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

func hexEncode(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = digits[c>>4]
		out[i*2+1] = digits[c&0xf]
	}
	return string(out)
}

// newBlockchainStub serves eth_chainId, eth_blockNumber, eth_getBlockReceipts
// (capability probe), eth_getBlockByNumber (one tx, no base fee), and
// eth_getTransactionReceipt with one ERC-20 Transfer log.
func newBlockchainStub(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcReq
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		resp := rpcResp{ID: req.ID}

		switch req.Method {
		case "eth_chainId":
			resp.Result = "0x1"
		case "eth_blockNumber":
			resp.Result = "0x64"
		case "eth_getBlockReceipts":
			resp.Error = &rpcErr{Code: -32601, Message: "method not found"}
		case "eth_getBlockByNumber":
			resp.Result = map[string]interface{}{
				"number":           "0x64",
				"hash":             "0x" + hexEncode(padHash("block")),
				"parentHash":       "0x" + hexEncode(padHash("parent")),
				"miner":            minerAddr,
				"timestamp":        "0x5f5e100",
				"size":             "0x100",
				"gasLimit":         "0x1c9c380",
				"gasUsed":          "0x5208",
				"difficulty":       "0x0",
				"totalDifficulty":  "0x0",
				"extraData":        "0x",
				"nonce":            "0x0000000000000000",
				"logsBloom":        "0x" + hexEncode(make([]byte, 256)),
				"stateRoot":        "0x" + hexEncode(padHash("state")),
				"transactionsRoot": "0x" + hexEncode(padHash("txroot")),
				"receiptsRoot":     "0x" + hexEncode(padHash("receiptroot")),
				"sha3Uncles":       "0x" + hexEncode(padHash("uncles")),
				"uncles":           []string{},
				"transactions": []map[string]interface{}{
					{
						"hash":     txHash,
						"from":     fromAddr,
						"to":       toAddr,
						"value":    "0x0",
						"gas":      "0x5208",
						"gasPrice": "0x3b9aca00",
						"input":    "0x",
						"nonce":    "0x1",
					},
				},
			}
		case "eth_getTransactionReceipt":
			resp.Result = map[string]interface{}{
				"transactionHash":   txHash,
				"transactionIndex":  "0x0",
				"blockNumber":       "0x64",
				"status":            "0x1",
				"gasUsed":           "0x5208",
				"cumulativeGasUsed": "0x5208",
				"effectiveGasPrice": "0x3b9aca00",
				"logs": []map[string]interface{}{
					{
						"address":     usdcAddr,
						"topics":      []string{decode.TransferSignature, topicWord(fromAddr), topicWord(toAddr)},
						"data":        "0x00000000000000000000000000000000000000000000000000000000000f4240",
						"logIndex":    "0x0",
						"blockNumber": "0x64",
						"transactionHash": txHash,
					},
				},
			}
		}

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func padHash(seed string) []byte {
	b := make([]byte, 32)
	copy(b, []byte(seed))
	return b
}

// TestAssembleDecodesERC20Transfer end to end: a fetched block with one
// transaction carrying one Transfer log decodes to exactly one ERC-20
// transfer row and zero ERC-721 rows, with receipts fetched per-transaction
// since the stub rejects eth_getBlockReceipts.
func TestAssembleDecodesERC20Transfer(t *testing.T) {
	server := newBlockchainStub(t)
	defer server.Close()

	pool, err := rpcpool.New(context.Background(), []string{server.URL}, "", 1, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, pool.SupportsBlockReceipts)

	eth, err := chain.Get(1)
	require.NoError(t, err)

	a := New(pool, dex.NewRegistry(), zap.NewNop())
	batch, err := a.Assemble(context.Background(), Options{Chain: eth}, 100)
	require.NoError(t, err)
	require.NotNil(t, batch)

	require.Len(t, batch.Blocks, 1)
	assert.False(t, batch.Blocks[0].IsUncle)
	require.Len(t, batch.Transactions, 1)
	assert.Equal(t, "success", string(batch.Transactions[0].Status))

	require.Len(t, batch.ERC20Transfers, 1)
	assert.Equal(t, int64(1_000_000), batch.ERC20Transfers[0].Amount.Int64())
	assert.Empty(t, batch.ERC721Transfers)

	// A reward trace is synthesised since no native "reward" trace is fetched.
	foundReward := false
	for _, tr := range batch.Traces {
		if tr.ActionType == "reward" {
			foundReward = true
		}
	}
	assert.True(t, foundReward)
}

func TestFactoryAttributionNamesKnownFactory(t *testing.T) {
	protocol, dexName := factoryAttribution(1, "0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f", dex.NewRegistry())
	assert.Equal(t, "Uniswap", protocol)
	assert.Equal(t, "Uniswap V2", dexName)
}

func TestFactoryAttributionEmptyOnMiss(t *testing.T) {
	protocol, dexName := factoryAttribution(1, fromAddr, dex.NewRegistry())
	assert.Equal(t, "", protocol)
	assert.Equal(t, "", dexName)
}

func TestFactoryAttributionEmptyWithoutRegistry(t *testing.T) {
	protocol, dexName := factoryAttribution(1, "0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f", nil)
	assert.Equal(t, "", protocol)
	assert.Equal(t, "", dexName)
}

func TestAssembleGivesUpWhenBlockNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcReq
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		resp := rpcResp{ID: req.ID}
		switch req.Method {
		case "eth_chainId":
			resp.Result = "0x1"
		case "eth_blockNumber":
			resp.Result = "0x1"
		case "eth_getBlockReceipts":
			resp.Error = &rpcErr{Code: -32601, Message: "method not found"}
		case "eth_getBlockByNumber":
			resp.Result = nil
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	pool, err := rpcpool.New(context.Background(), []string{server.URL}, "", 1, zap.NewNop())
	require.NoError(t, err)

	eth, err := chain.Get(1)
	require.NoError(t, err)

	a := New(pool, dex.NewRegistry(), zap.NewNop())
	batch, err := a.Assemble(context.Background(), Options{Chain: eth}, 999)
	require.NoError(t, err)
	assert.Nil(t, batch)
}
