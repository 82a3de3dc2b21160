package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissingHeightsExcludesIndexed(t *testing.T) {
	indexed := map[uint64]struct{}{5: {}, 6: {}}
	missing := missingHeights(4, 9, indexed)
	assert.Equal(t, []uint64{4, 7, 8}, missing)
}

func TestMissingHeightsEmptyWhenCaughtUp(t *testing.T) {
	assert.Nil(t, missingHeights(10, 10, nil))
	assert.Nil(t, missingHeights(10, 5, nil))
}

func TestChunksSplitsByBatchSize(t *testing.T) {
	heights := []uint64{1, 2, 3, 4, 5, 6, 7}
	got := chunks(heights, 3)
	assert.Equal(t, [][]uint64{{1, 2, 3}, {4, 5, 6}, {7}}, got)
}

func TestChunksSingleChunkWhenLarger(t *testing.T) {
	heights := []uint64{1, 2}
	assert.Equal(t, [][]uint64{{1, 2}}, chunks(heights, 200))
}

func TestChainLabelFormatsDecimal(t *testing.T) {
	assert.Equal(t, "1", chainLabel(1))
	assert.Equal(t, "56", chainLabel(56))
}
