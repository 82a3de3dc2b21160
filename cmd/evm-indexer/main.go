package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/evmindexer/indexer/internal/assembler"
	"github.com/evmindexer/indexer/internal/chain"
	"github.com/evmindexer/indexer/internal/config"
	"github.com/evmindexer/indexer/internal/dex"
	"github.com/evmindexer/indexer/internal/driver"
	"github.com/evmindexer/indexer/internal/indexedset"
	"github.com/evmindexer/indexer/internal/metrics"
	"github.com/evmindexer/indexer/internal/rpcpool"
	"github.com/evmindexer/indexer/internal/store"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var logger *zap.Logger
	if cfg.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	eth, err := chain.Get(cfg.ChainID)
	if err != nil {
		logger.Fatal("unknown chain", zap.Error(err))
	}

	// No graceful shutdown: the driver loops forever and termination is by
	// signal. A supervisor restarts the process on any panic.
	ctx := context.Background()

	pool, err := rpcpool.New(ctx, cfg.RPCs, cfg.WS, cfg.ChainID, logger)
	if err != nil {
		logger.Fatal("failed to initialize RPC pool", zap.Error(err))
	}

	dsn, err := store.ParseDSN(cfg.Database)
	if err != nil {
		logger.Fatal("failed to parse database dsn", zap.Error(err))
	}
	st, err := store.New(ctx, dsn, logger)
	if err != nil {
		logger.Fatal("failed to connect to ClickHouse", zap.Error(err))
	}
	defer st.Close()

	indexed := indexedset.Store(indexedset.NewClickHouseStore(st.Conn()))

	m := metrics.New()
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	go func() {
		logger.Info("metrics listening", zap.String("addr", cfg.MetricsAddr))
		if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
			logger.Warn("metrics server stopped", zap.Error(err))
		}
	}()

	asm := assembler.New(pool, dex.NewRegistry(), logger)

	d := driver.New(eth, driver.Options{
		StartBlock:  cfg.StartBlock,
		EndBlock:    cfg.EndBlock,
		BatchSize:   cfg.BatchSize,
		FetchTraces: cfg.FetchTraces,
		FetchUncles: cfg.FetchUncles,
	}, pool, asm, st, indexed, m, logger)

	if err := d.Run(ctx); err != nil {
		logger.Fatal("driver exited with error", zap.Error(err))
	}
}
