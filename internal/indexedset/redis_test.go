package indexedset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShardKeyIncludesChainAndShard(t *testing.T) {
	assert.Equal(t, "evmidx:indexed:1:0", shardKey(1, 0))
	assert.Equal(t, "evmidx:indexed:56:2", shardKey(56, 2))
}

func TestShardOfBoundary(t *testing.T) {
	assert.Equal(t, uint64(0), shardOf(0))
	assert.Equal(t, uint64(0), shardOf(shardSize-1))
	assert.Equal(t, uint64(1), shardOf(shardSize))
	assert.Equal(t, uint64(1), shardOf(shardSize+1))
}
