package dex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouterInfoHitAndMiss(t *testing.T) {
	r := NewRegistry()

	info, ok := r.RouterInfo(1, "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")
	assert.True(t, ok)
	assert.Equal(t, "Uniswap V2", info.DisplayName())

	_, ok = r.RouterInfo(1, "0x000000000000000000000000000000deadbeef")
	assert.False(t, ok)

	_, ok = r.RouterInfo(999, "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")
	assert.False(t, ok)
}

func TestDisplayNameWithoutVersion(t *testing.T) {
	info := Info{Name: "Pangolin", Version: ""}
	assert.Equal(t, "Pangolin", info.DisplayName())
}

func TestFactoryInfoLookup(t *testing.T) {
	r := NewRegistry()
	info, ok := r.FactoryInfo(1, "0x1F98431c8aD98523631AE4a59f267346ea31F984")
	assert.True(t, ok)
	assert.Equal(t, "V3", info.Version)
}
