// Package store is the persistence layer:
// per-table parallel insert fan-out, all-or-nothing commit ordering with
// blocks written last, and internal chunking for backends with a capped
// parameter count per statement. Grounded on original_source/src/db/mod.rs's
// store_data/store_items (tokio::spawn per table, join_all, panic on any
// failure), rebuilt on clickhouse-go/v2's native batch API.
package store

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/evmindexer/indexer/internal/model"
)

// paramCap bounds the number of bound parameters ClickHouse will accept in
// a single prepared batch; each per-table task chunks at
// min(batch_len, floor(paramCap/columns)) rows.
const paramCap = 60_000

// Store is safe for concurrent callers.
type Store struct {
	conn   driver.Conn
	logger *zap.Logger
}

// Config names the ClickHouse connection target.
type Config struct {
	Addr     string
	Database string
	Username string
	Password string
}

// ParseDSN parses the CLI/env database URL into a Config.
func ParseDSN(dsn string) (Config, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return Config{}, fmt.Errorf("store: parse dsn: %w", err)
	}
	cfg := Config{
		Addr:     u.Host,
		Database: strings.TrimPrefix(u.Path, "/"),
	}
	if u.User != nil {
		cfg.Username = u.User.Username()
		cfg.Password, _ = u.User.Password()
	}
	if cfg.Addr == "" {
		return Config{}, fmt.Errorf("store: dsn %q has no host", dsn)
	}
	return cfg, nil
}

func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Store, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return &Store{conn: conn, logger: logger}, nil
}

// table names one of the nine dependent tables committed alongside blocks.
type table struct {
	name string
	rows int
	run  func(ctx context.Context, conn driver.Conn) error
}

// Commit persists a batch: one task per non-empty dependent table, all
// awaited, the process-ending panic on any failure, then blocks last, then
// the caller is expected to advance the indexed set.
func (s *Store) Commit(ctx context.Context, batch model.Batch) error {
	tables := s.dependentTables(batch)

	var wg sync.WaitGroup
	errs := make([]error, len(tables))
	for i, tb := range tables {
		wg.Add(1)
		go func(i int, tb table) {
			defer wg.Done()
			errs[i] = tb.run(ctx, s.conn)
		}(i, tb)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			// Persistence failures are fatal: the caller panics
			// so an external supervisor restarts the process; reprocessing
			// is idempotent because the indexed set never advanced.
			return fmt.Errorf("store: commit: table %q: %w", tables[i].name, err)
		}
	}

	if len(batch.Blocks) > 0 {
		if err := insertChunked(ctx, s.conn, "blocks", len(batch.Blocks), blockColumns,
			func(b driver.Batch, i int) error { return appendBlock(b, batch.Blocks[i]) }); err != nil {
			return fmt.Errorf("store: commit: table \"blocks\": %w", err)
		}
	}

	s.logger.Info("batch committed",
		zap.Int("blocks", len(batch.Blocks)),
		zap.Int("transactions", len(batch.Transactions)),
		zap.Int("logs", len(batch.Logs)),
		zap.Int("traces", len(batch.Traces)),
		zap.Int("contracts", len(batch.Contracts)),
		zap.Int("withdrawals", len(batch.Withdrawals)),
		zap.Int("erc20_transfers", len(batch.ERC20Transfers)),
		zap.Int("erc721_transfers", len(batch.ERC721Transfers)),
		zap.Int("erc1155_transfers", len(batch.ERC1155Transfers)),
		zap.Int("dex_trades", len(batch.DexTrades)),
	)
	return nil
}

func (s *Store) dependentTables(batch model.Batch) []table {
	var tables []table

	if len(batch.Contracts) > 0 {
		tables = append(tables, table{name: "contracts", rows: len(batch.Contracts), run: func(ctx context.Context, conn driver.Conn) error {
			return insertChunked(ctx, conn, "contracts", len(batch.Contracts), contractColumns,
				func(b driver.Batch, i int) error { return appendContract(b, batch.Contracts[i]) })
		}})
	}
	if len(batch.Logs) > 0 {
		tables = append(tables, table{name: "logs", rows: len(batch.Logs), run: func(ctx context.Context, conn driver.Conn) error {
			return insertChunked(ctx, conn, "logs", len(batch.Logs), logColumns,
				func(b driver.Batch, i int) error { return appendLog(b, batch.Logs[i]) })
		}})
	}
	if len(batch.Traces) > 0 {
		tables = append(tables, table{name: "traces", rows: len(batch.Traces), run: func(ctx context.Context, conn driver.Conn) error {
			return insertChunked(ctx, conn, "traces", len(batch.Traces), traceColumns,
				func(b driver.Batch, i int) error { return appendTrace(b, batch.Traces[i]) })
		}})
	}
	if len(batch.Transactions) > 0 {
		tables = append(tables, table{name: "transactions", rows: len(batch.Transactions), run: func(ctx context.Context, conn driver.Conn) error {
			return insertChunked(ctx, conn, "transactions", len(batch.Transactions), transactionColumns,
				func(b driver.Batch, i int) error { return appendTransaction(b, batch.Transactions[i]) })
		}})
	}
	if len(batch.Withdrawals) > 0 {
		tables = append(tables, table{name: "withdrawals", rows: len(batch.Withdrawals), run: func(ctx context.Context, conn driver.Conn) error {
			return insertChunked(ctx, conn, "withdrawals", len(batch.Withdrawals), withdrawalColumns,
				func(b driver.Batch, i int) error { return appendWithdrawal(b, batch.Withdrawals[i]) })
		}})
	}
	if len(batch.ERC20Transfers) > 0 {
		tables = append(tables, table{name: "erc20_transfers", rows: len(batch.ERC20Transfers), run: func(ctx context.Context, conn driver.Conn) error {
			return insertChunked(ctx, conn, "erc20_transfers", len(batch.ERC20Transfers), erc20Columns,
				func(b driver.Batch, i int) error { return appendERC20(b, batch.ERC20Transfers[i]) })
		}})
	}
	if len(batch.ERC721Transfers) > 0 {
		tables = append(tables, table{name: "erc721_transfers", rows: len(batch.ERC721Transfers), run: func(ctx context.Context, conn driver.Conn) error {
			return insertChunked(ctx, conn, "erc721_transfers", len(batch.ERC721Transfers), erc721Columns,
				func(b driver.Batch, i int) error { return appendERC721(b, batch.ERC721Transfers[i]) })
		}})
	}
	if len(batch.ERC1155Transfers) > 0 {
		tables = append(tables, table{name: "erc1155_transfers", rows: len(batch.ERC1155Transfers), run: func(ctx context.Context, conn driver.Conn) error {
			return insertChunked(ctx, conn, "erc1155_transfers", len(batch.ERC1155Transfers), erc1155Columns,
				func(b driver.Batch, i int) error { return appendERC1155(b, batch.ERC1155Transfers[i]) })
		}})
	}
	if len(batch.DexTrades) > 0 {
		tables = append(tables, table{name: "dex_trades", rows: len(batch.DexTrades), run: func(ctx context.Context, conn driver.Conn) error {
			return insertChunked(ctx, conn, "dex_trades", len(batch.DexTrades), dexTradeColumns,
				func(b driver.Batch, i int) error { return appendDexTrade(b, batch.DexTrades[i]) })
		}})
	}

	return tables
}

// insertChunked splits rows into chunks bounded by paramCap/columns, each
// chunk prepared and appended sequentially within the task.
func insertChunked(ctx context.Context, conn driver.Conn, tableName string, rowCount, columns int, appendRow func(driver.Batch, int) error) error {
	size := chunkRowCount(columns)
	for start := 0; start < rowCount; start += size {
		end := start + size
		if end > rowCount {
			end = rowCount
		}
		batch, err := conn.PrepareBatch(ctx, fmt.Sprintf("INSERT INTO %s", tableName))
		if err != nil {
			return fmt.Errorf("prepare batch: %w", err)
		}
		for i := start; i < end; i++ {
			if err := appendRow(batch, i); err != nil {
				return fmt.Errorf("append row %d: %w", i, err)
			}
		}
		if err := batch.Send(); err != nil {
			return fmt.Errorf("send batch rows [%d,%d): %w", start, end, err)
		}
	}
	return nil
}

// chunkRowCount computes how many rows fit in one prepared batch for a
// table with the given column count, at least one row even if a single
// row's parameters would exceed paramCap.
func chunkRowCount(columns int) int {
	size := paramCap / columns
	if size < 1 {
		return 1
	}
	return size
}

// Conn exposes the underlying connection so internal/indexedset's
// ClickHouse-backed strategy can query the same blocks table this store
// writes to.
func (s *Store) Conn() driver.Conn {
	return s.conn
}

func (s *Store) Close() error {
	return s.conn.Close()
}
