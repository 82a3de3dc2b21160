package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerServesRegisteredCollectors(t *testing.T) {
	m := New()
	m.IndexedHeight.WithLabelValues("1").Set(12345)
	m.BlocksProcessed.WithLabelValues("1").Inc()
	m.RPCErrors.WithLabelValues("1", "block_by_number").Inc()

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "evmidx_indexed_height"))
	assert.True(t, strings.Contains(body, "evmidx_blocks_processed_total"))
	assert.True(t, strings.Contains(body, "evmidx_rpc_errors_total"))
}
