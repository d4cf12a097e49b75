package sheets

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"wallet/internal/domain/portfolio"
	"wallet/internal/shared/config"
	"wallet/internal/shared/telemetry"
)

// ValuesReader reads a worksheet by gid. Implemented by Reader.
type ValuesReader interface {
	Values(ctx context.Context, spreadsheetID string, gid int64) ([][]string, error)
}

// ValuesCache stores worksheet values between requests.
type ValuesCache interface {
	Get(ctx context.Context, key string) ([][]string, bool, error)
	Set(ctx context.Context, key string, values [][]string) error
}

// Source serves the wallet worksheets by name. It implements portfolio.Source.
type Source struct {
	reader        ValuesReader
	spreadsheetID string
	timeout       time.Duration
	gids          map[portfolio.Worksheet]int64
	cache         ValuesCache
	metrics       *telemetry.Metrics
}

// NewSource maps the configured gids to worksheets. cache and metrics may be nil.
func NewSource(reader ValuesReader, cfg config.SheetsConfig, cache ValuesCache, metrics *telemetry.Metrics) *Source {
	ids := cfg.Worksheets
	return &Source{
		reader:        reader,
		spreadsheetID: cfg.SpreadsheetID,
		timeout:       cfg.Timeout,
		gids: map[portfolio.Worksheet]int64{
			portfolio.WorksheetGeneral:       ids.General,
			portfolio.WorksheetTransactions:  ids.Transactions,
			portfolio.WorksheetPassiveIncome: ids.PassiveIncome,
			portfolio.WorksheetStocks:        ids.Stocks,
			portfolio.WorksheetRealEstate:    ids.RealEstate,
			portfolio.WorksheetSmallCaps:     ids.SmallCaps,
			portfolio.WorksheetResults:       ids.Results,
			portfolio.WorksheetDividends:     ids.Dividends,
		},
		cache:   cache,
		metrics: metrics,
	}
}

// GID returns the configured gid of ws.
func (s *Source) GID(ws portfolio.Worksheet) (int64, bool) {
	gid, ok := s.gids[ws]
	if !ok || gid == config.NotConfigured {
		return 0, false
	}
	return gid, true
}

// Values returns the cells of ws, from the cache when it holds them.
func (s *Source) Values(ctx context.Context, ws portfolio.Worksheet) ([][]string, error) {
	gid, ok := s.GID(ws)
	if !ok {
		return nil, fmt.Errorf("%s: %w", ws, portfolio.ErrWorksheetNotConfigured)
	}

	key := fmt.Sprintf("%s:%d", s.spreadsheetID, gid)
	if s.cache != nil {
		values, hit, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			s.metrics.ObserveCache(string(ws), telemetry.CacheError)
			log.Warn().Err(err).Str("worksheet", string(ws)).Msg("cache lookup failed")
		case hit:
			s.metrics.ObserveCache(string(ws), telemetry.CacheHit)
			return values, nil
		default:
			s.metrics.ObserveCache(string(ws), telemetry.CacheMiss)
		}
	}

	return s.fetch(ctx, ws, gid, key)
}

// Refresh reads ws from the sheet, bypassing the cache, and stores the fresh
// values in the cache.
func (s *Source) Refresh(ctx context.Context, ws portfolio.Worksheet) error {
	gid, ok := s.GID(ws)
	if !ok {
		return fmt.Errorf("%s: %w", ws, portfolio.ErrWorksheetNotConfigured)
	}
	_, err := s.fetch(ctx, ws, gid, fmt.Sprintf("%s:%d", s.spreadsheetID, gid))
	return err
}

func (s *Source) fetch(ctx context.Context, ws portfolio.Worksheet, gid int64, key string) ([][]string, error) {
	fetchCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	values, err := s.reader.Values(fetchCtx, s.spreadsheetID, gid)
	s.metrics.ObserveFetch(string(ws), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("worksheet", string(ws)).
		Int("rows", len(values)).
		Dur("elapsed", time.Since(start)).
		Msg("worksheet loaded")

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, values); err != nil {
			log.Warn().Err(err).Str("worksheet", string(ws)).Msg("cache store failed")
		}
	}
	return values, nil
}
