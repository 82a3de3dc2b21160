// Package driver is the backfill loop and tip-follower, the top-level
// caller that wires the RPC pool, assembler, store, and indexed-set
// together into one running process. Grounded on
// original_source/bin/indexer.rs's startup-then-loop shape and the
// goroutine-per-unit-of-work style already used in internal/assembler and
// internal/store.
package driver

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/evmindexer/indexer/internal/assembler"
	"github.com/evmindexer/indexer/internal/chain"
	"github.com/evmindexer/indexer/internal/genesis"
	"github.com/evmindexer/indexer/internal/indexedset"
	"github.com/evmindexer/indexer/internal/metrics"
	"github.com/evmindexer/indexer/internal/model"
	"github.com/evmindexer/indexer/internal/rpcpool"
	"github.com/evmindexer/indexer/internal/store"
)

// pollInterval is how long the backfill loop sleeps between chunks once it
// has caught up to the tip.
const pollInterval = 30 * time.Second

// Options configures one driver run.
type Options struct {
	StartBlock  uint64
	EndBlock    uint64 // 0 means follow the tip indefinitely
	BatchSize   int
	FetchTraces bool
	FetchUncles bool
}

// Driver owns the in-memory indexed-heights set for the duration of the run.
type Driver struct {
	chain    chain.Chain
	opts     Options
	pool     *rpcpool.Pool
	asm      *assembler.Assembler
	store    *store.Store
	indexed  indexedset.Store
	metrics  *metrics.Metrics
	logger   *zap.Logger
}


func New(c chain.Chain, opts Options, pool *rpcpool.Pool, asm *assembler.Assembler, st *store.Store, idx indexedset.Store, m *metrics.Metrics, logger *zap.Logger) *Driver {
	return &Driver{chain: c, opts: opts, pool: pool, asm: asm, store: st, indexed: idx, metrics: m, logger: logger}
}

// Run seeds genesis allocations when the indexed set is empty, then runs the
// backfill loop; when ctx carries a subscription-capable pool and opts.EndBlock
// is 0, the tip-follower runs concurrently. Run returns when the backfill
// loop exits (only possible when EndBlock is set) or ctx is cancelled.
//
// Every log line emitted for this run carries a run id so chunk, commit, and
// tip-follower lines interleaved from concurrent goroutines can be
// correlated back to the same process lifetime.
func (d *Driver) Run(ctx context.Context) error {
	runID := uuid.New().String()
	d.logger = d.logger.With(zap.String("run_id", runID))

	indexed, err := d.indexed.Load(ctx, d.chain.ID)
	if err != nil {
		return err
	}

	if len(indexed) == 0 {
		if err := d.seedGenesis(ctx); err != nil {
			return err
		}
	}

	var wg sync.WaitGroup
	if d.opts.EndBlock == 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.followTip(ctx)
		}()
	}

	err = d.backfill(ctx, indexed)
	wg.Wait()
	return err
}

func (d *Driver) seedGenesis(ctx context.Context) error {
	txs, err := genesis.Transactions(d.chain)
	if err != nil {
		return err
	}
	if len(txs) == 0 {
		return nil
	}
	d.logger.Info("seeding genesis allocations", zap.Uint64("chain", d.chain.ID), zap.Int("count", len(txs)))
	return d.store.Commit(ctx, model.Batch{Transactions: txs})
}

// backfill loads missing heights up to the tip (or EndBlock), processes them
// in batch-size chunks, and sleeps between passes once caught up.
func (d *Driver) backfill(ctx context.Context, indexed map[uint64]struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		latest := d.opts.EndBlock
		if latest == 0 {
			var err error
			latest, err = d.pool.LatestBlock(ctx)
			if err != nil {
				d.logger.Warn("backfill: latest_block failed, retrying after poll interval", zap.Error(err))
				if !sleepOrDone(ctx, pollInterval) {
					return ctx.Err()
				}
				continue
			}
		}

		missing := missingHeights(d.opts.StartBlock, latest, indexed)
		if len(missing) == 0 {
			if d.opts.EndBlock != 0 {
				return nil
			}
			if !sleepOrDone(ctx, pollInterval) {
				return ctx.Err()
			}
			continue
		}

		for _, chunk := range chunks(missing, d.opts.BatchSize) {
			committed, err := d.runChunk(ctx, chunk)
			if err != nil {
				return err
			}
			for _, h := range committed {
				indexed[h] = struct{}{}
			}
		}

		if d.opts.EndBlock != 0 {
			return nil
		}
		if !sleepOrDone(ctx, pollInterval) {
			return ctx.Err()
		}
	}
}

// runChunk spawns one assembler task per height in chunk, merges the
// successful results, commits them as one batch, and marks the committed
// heights in the indexed set.
func (d *Driver) runChunk(ctx context.Context, chunk []uint64) ([]uint64, error) {
	results := make([]*model.Batch, len(chunk))
	var wg sync.WaitGroup
	for i, height := range chunk {
		wg.Add(1)
		go func(i int, height uint64) {
			defer wg.Done()
			batch, err := d.asm.Assemble(ctx, assembler.Options{
				Chain:       d.chain,
				FetchTraces: d.opts.FetchTraces,
				FetchUncles: d.opts.FetchUncles,
			}, height)
			if err != nil {
				d.logger.Warn("runChunk: assemble failed, height stays unindexed", zap.Uint64("height", height), zap.Error(err))
				return
			}
			results[i] = batch
		}(i, height)
	}
	wg.Wait()

	merged := model.Batch{}
	for _, b := range results {
		if b != nil {
			merged.Merge(*b)
		}
	}
	if len(merged.Blocks) == 0 {
		return nil, nil
	}

	// Persistence failures are fatal: restart is safe since
	// indexed never advanced for this chunk and reprocessing is idempotent.
	if err := d.store.Commit(ctx, merged); err != nil {
		d.logger.Error("commit failed, terminating for supervisor restart", zap.Error(err))
		panic(err)
	}
	heights := merged.Heights()
	if err := d.indexed.Mark(ctx, d.chain.ID, heights); err != nil {
		d.logger.Error("mark failed, terminating for supervisor restart", zap.Error(err))
		panic(err)
	}
	if d.metrics != nil {
		d.metrics.BlocksProcessed.WithLabelValues(chainLabel(d.chain.ID)).Add(float64(len(heights)))
		for _, h := range heights {
			d.metrics.IndexedHeight.WithLabelValues(chainLabel(d.chain.ID)).Set(float64(h))
		}
	}
	return heights, nil
}

// followTip subscribes to new heads and spawns one detached assemble+commit
// task per head; these commits are independent of backfill commits since
// their batches never overlap in height.
func (d *Driver) followTip(ctx context.Context) {
	heads, err := d.pool.SubscribeHeads(ctx)
	if err != nil {
		d.logger.Info("tip follower disabled", zap.Error(err))
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case head, ok := <-heads:
			if !ok {
				return
			}
			height := uint64(head.Number)
			go func() {
				if _, err := d.runChunk(ctx, []uint64{height}); err != nil {
					d.logger.Warn("tip follower: commit failed", zap.Uint64("height", height), zap.Error(err))
				}
			}()
		}
	}
}

func missingHeights(start, latest uint64, indexed map[uint64]struct{}) []uint64 {
	if latest <= start {
		return nil
	}
	missing := make([]uint64, 0, latest-start)
	for h := start; h < latest; h++ {
		if _, ok := indexed[h]; !ok {
			missing = append(missing, h)
		}
	}
	return missing
}

func chunks(heights []uint64, size int) [][]uint64 {
	if size <= 0 {
		size = 1
	}
	var out [][]uint64
	for start := 0; start < len(heights); start += size {
		end := start + size
		if end > len(heights) {
			end = len(heights)
		}
		out = append(out, heights[start:end])
	}
	return out
}

func sleepOrDone(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func chainLabel(id uint64) string {
	return strconv.FormatUint(id, 10)
}
