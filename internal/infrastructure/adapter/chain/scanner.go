package chain

import (
	"context"
	"errors"
	"math/big"

	"golang.org/x/time/rate"

	errs "github.com/alirazaSuccess/FAG-Project/internal/domain/error"
	chainport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/chain"
	coreport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/core"
)

// ScannerConfig carries the chunked scan parameters
type ScannerConfig struct {
	MaxChunkSpan uint64            // Widest block range requested per call
	MinChunkSpan uint64            // Floor the span never shrinks below
	ChunkPause   coreport.Duration // Pacing between chunk requests
	RetryPause   coreport.Duration // Pause before retrying a transient failure
}

// Default scan parameters
const (
	DefaultMaxChunkSpan = 3000
	DefaultMinChunkSpan = 500
	DefaultChunkPause   = 120 * coreport.Millisecond
	DefaultRetryPause   = 150 * coreport.Millisecond
)

// Scanner walks chain history backward from the head in chunks, looking for a
// qualifying transfer. Provider range rejections narrow the chunk and retry
// the same window; transient failures get one narrowed retry and are then
// skipped so a flaky provider never aborts the whole window.
type Scanner struct {
	fetcher      chainport.LogFetcher
	limiter      *rate.Limiter
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
	cfg          ScannerConfig
}

// NewScanner creates a scanner over the given fetcher
func NewScanner(
	fetcher chainport.LogFetcher,
	logger coreport.Logger,
	timeProvider coreport.TimeProvider,
	cfg ScannerConfig,
) *Scanner {
	if cfg.MaxChunkSpan == 0 {
		cfg.MaxChunkSpan = DefaultMaxChunkSpan
	}
	if cfg.MinChunkSpan == 0 {
		cfg.MinChunkSpan = DefaultMinChunkSpan
	}
	if cfg.MinChunkSpan > cfg.MaxChunkSpan {
		cfg.MinChunkSpan = cfg.MaxChunkSpan
	}
	if cfg.ChunkPause == 0 {
		cfg.ChunkPause = DefaultChunkPause
	}
	if cfg.RetryPause == 0 {
		cfg.RetryPause = DefaultRetryPause
	}

	return &Scanner{
		fetcher:      fetcher,
		limiter:      rate.NewLimiter(rate.Every(cfg.ChunkPause.Std()), 1),
		logger:       logger,
		timeProvider: timeProvider,
		cfg:          cfg,
	}
}

// FindTransfer returns the most recent transfer to recipient within the
// lookback window whose value is at least minAmount, or ErrPaymentNotFound
// when the window holds none.
func (s *Scanner) FindTransfer(ctx context.Context, recipient string, minAmount *big.Int, lookbackBlocks uint64) (*chainport.TransferMatch, error) {
	latest, err := s.fetcher.LatestBlock(ctx)
	if err != nil {
		return nil, err
	}

	// The oldest block scanned is latest - lookbackBlocks, inclusive
	var start uint64
	if lookbackBlocks < latest {
		start = latest - lookbackBlocks
	}

	span := s.cfg.MaxChunkSpan
	to := latest

	for to >= start {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		logs, from, err := s.fetchChunk(ctx, &span, start, to, recipient)
		if err != nil {
			if errors.Is(err, errSkipChunk) {
				to = underflowSafe(from, 1)
				if from == 0 {
					break
				}
				continue
			}
			return nil, err
		}

		// Most recent first within the chunk
		for i := len(logs) - 1; i >= 0; i-- {
			l := logs[i]
			if l.Value != nil && l.Value.Cmp(minAmount) >= 0 {
				return &chainport.TransferMatch{
					TxHash:      l.TxHash,
					From:        l.From,
					Value:       l.Value,
					BlockNumber: l.BlockNumber,
				}, nil
			}
		}

		if from == 0 {
			break
		}
		to = from - 1
	}

	return nil, errs.ErrPaymentNotFound
}

// errSkipChunk signals that a chunk was abandoned after its retry failed
var errSkipChunk = errors.New("skip chunk")

// fetchChunk requests one window ending at `to`, narrowing the span on range
// rejections and retrying a transient failure once. Returns the logs and the
// window's lower bound actually used.
func (s *Scanner) fetchChunk(ctx context.Context, span *uint64, start, to uint64, recipient string) ([]chainport.TransferLog, uint64, error) {
	retried := false

	for {
		from := chunkStart(to, *span, start)

		if err := s.limiter.Wait(ctx); err != nil {
			return nil, from, err
		}

		logs, err := s.fetcher.TransferLogs(ctx, from, to, recipient)
		if err == nil {
			return logs, from, nil
		}
		if ctx.Err() != nil {
			return nil, from, ctx.Err()
		}

		if errors.Is(err, chainport.ErrRangeTooLarge) && *span > s.cfg.MinChunkSpan {
			*span = halveSpan(*span, s.cfg.MinChunkSpan)
			s.logger.Debug("Provider rejected range, narrowing chunk", map[string]any{
				"to":   to,
				"span": *span,
			})
			continue
		}

		if !retried {
			retried = true
			*span = halveSpan(*span, s.cfg.MinChunkSpan)
			s.logger.Warn("Chunk fetch failed, retrying narrowed window", map[string]any{
				"to":    to,
				"span":  *span,
				"error": err.Error(),
			})
			s.timeProvider.Sleep(s.cfg.RetryPause)
			continue
		}

		s.logger.Warn("Chunk fetch failed twice, skipping window", map[string]any{
			"from":  from,
			"to":    to,
			"error": err.Error(),
		})
		return nil, from, errSkipChunk
	}
}

func chunkStart(to, span, floor uint64) uint64 {
	from := underflowSafe(to, span-1)
	if from < floor {
		from = floor
	}
	return from
}

func halveSpan(span, minSpan uint64) uint64 {
	span /= 2
	if span < minSpan {
		span = minSpan
	}
	return span
}

func underflowSafe(v, delta uint64) uint64 {
	if delta >= v {
		return 0
	}
	return v - delta
}
