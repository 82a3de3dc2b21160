package rpcpool

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type jsonrpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type jsonrpcResponse struct {
	ID     json.RawMessage `json:"id"`
	Result interface{}     `json:"result,omitempty"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// newStubServer returns an httptest server backing a minimal JSON-RPC node:
// eth_chainId, eth_blockNumber, and eth_getBlockReceipts all answer
// deterministically; any other method is handled by the extra callback.
func newStubServer(t *testing.T, chainID uint64, receiptsSupported bool, extra func(method string, params []json.RawMessage) (interface{}, error)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req jsonrpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		resp := jsonrpcResponse{ID: req.ID}
		switch req.Method {
		case "eth_chainId":
			resp.Result = hexUint(chainID)
		case "eth_blockNumber":
			resp.Result = hexUint(100)
		case "eth_getBlockReceipts":
			if receiptsSupported {
				resp.Result = []interface{}{}
			} else {
				resp.Error = &struct {
					Code    int    `json:"code"`
					Message string `json:"message"`
				}{Code: -32601, Message: "method not found"}
			}
		default:
			if extra != nil {
				result, err := extra(req.Method, req.Params)
				if err != nil {
					resp.Error = &struct {
						Code    int    `json:"code"`
						Message string `json:"message"`
					}{Code: -32000, Message: err.Error()}
				} else {
					resp.Result = result
				}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func hexUint(v uint64) string {
	const hexDigits = "0123456789abcdef"
	if v == 0 {
		return "0x0"
	}
	var b []byte
	for v > 0 {
		b = append([]byte{hexDigits[v%16]}, b...)
		v /= 16
	}
	return "0x" + string(b)
}

func TestNewDiscardsMismatchedChainAndProbesCapability(t *testing.T) {
	good := newStubServer(t, 1, true, nil)
	defer good.Close()
	mismatched := newStubServer(t, 999, true, nil)
	defer mismatched.Close()

	pool, err := New(context.Background(), []string{good.URL, mismatched.URL}, "", 1, zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, pool.endpoints, 1)
	assert.True(t, pool.SupportsBlockReceipts)
}

func TestNewFailsWhenNoEndpointMatchesChainID(t *testing.T) {
	mismatched := newStubServer(t, 999, true, nil)
	defer mismatched.Close()

	_, err := New(context.Background(), []string{mismatched.URL}, "", 1, zap.NewNop())
	require.Error(t, err)
}

func TestCapabilityProbeFalseWhenReceiptsUnsupported(t *testing.T) {
	server := newStubServer(t, 1, false, nil)
	defer server.Close()

	pool, err := New(context.Background(), []string{server.URL}, "", 1, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, pool.SupportsBlockReceipts)
}

func TestLatestBlock(t *testing.T) {
	server := newStubServer(t, 1, true, nil)
	defer server.Close()

	pool, err := New(context.Background(), []string{server.URL}, "", 1, zap.NewNop())
	require.NoError(t, err)

	latest, err := pool.LatestBlock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(100), latest)
}
