package indexedset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClickHouseStoreMarkIsNoop(t *testing.T) {
	// blocks rows are already durable by the time Commit calls Mark: ClickHouseStore has nothing further to record.
	s := &ClickHouseStore{}
	assert.NoError(t, s.Mark(context.Background(), 1, []uint64{1, 2, 3}))
}

func TestStoresSatisfyInterface(t *testing.T) {
	var _ Store = (*ClickHouseStore)(nil)
	var _ Store = (*RedisStore)(nil)
}
