package chain

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/alirazaSuccess/FAG-Project/internal/domain/error"
	chainport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/chain"
	coreport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/core"
	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/logger"
	"github.com/alirazaSuccess/FAG-Project/internal/testsupport"
)

const recipientWallet = "0x1234567890abcdef1234567890ABCDEF12345678"

type window struct {
	from, to uint64
}

// fakeFetcher scripts TransferLogs per call and records the requested windows
type fakeFetcher struct {
	latest    uint64
	latestErr error
	handler   func(call int, from, to uint64) ([]chainport.TransferLog, error)
	calls     []window
}

func (f *fakeFetcher) LatestBlock(ctx context.Context) (uint64, error) {
	if f.latestErr != nil {
		return 0, f.latestErr
	}
	return f.latest, nil
}

func (f *fakeFetcher) TransferLogs(ctx context.Context, from, to uint64, recipient string) ([]chainport.TransferLog, error) {
	call := len(f.calls)
	f.calls = append(f.calls, window{from: from, to: to})
	if f.handler == nil {
		return nil, nil
	}
	return f.handler(call, from, to)
}

func transferAt(block uint64, value int64) chainport.TransferLog {
	return chainport.TransferLog{
		TxHash:      "0xaaa",
		From:        "0xsender",
		Value:       big.NewInt(value),
		BlockNumber: block,
	}
}

func newTestScanner(t *testing.T, fetcher *fakeFetcher, cfg ScannerConfig) *Scanner {
	t.Helper()
	if cfg.ChunkPause == 0 {
		cfg.ChunkPause = coreport.Nanosecond
	}
	clock := testsupport.NewFixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	return NewScanner(fetcher, logger.NewNoopLogger(), clock, cfg)
}

func TestFindTransfer(t *testing.T) {
	t.Run("Finds the match in the newest chunk", func(t *testing.T) {
		fetcher := &fakeFetcher{
			latest: 1_000_000,
			handler: func(call int, from, to uint64) ([]chainport.TransferLog, error) {
				if from <= 999_500 && 999_500 <= to {
					return []chainport.TransferLog{transferAt(999_500, 100)}, nil
				}
				return nil, nil
			},
		}
		scanner := newTestScanner(t, fetcher, ScannerConfig{MaxChunkSpan: 3000, MinChunkSpan: 500})

		match, err := scanner.FindTransfer(context.Background(), recipientWallet, big.NewInt(100), 60_000)
		require.NoError(t, err)

		assert.Equal(t, uint64(999_500), match.BlockNumber)
		assert.Equal(t, "0xaaa", match.TxHash)

		// The first window ends at the head and spans the full chunk
		require.NotEmpty(t, fetcher.calls)
		assert.Equal(t, window{from: 997_001, to: 1_000_000}, fetcher.calls[0])
	})

	t.Run("Walks backward through adjacent windows", func(t *testing.T) {
		fetcher := &fakeFetcher{
			latest: 1_000_000,
			handler: func(call int, from, to uint64) ([]chainport.TransferLog, error) {
				if from <= 992_000 && 992_000 <= to {
					return []chainport.TransferLog{transferAt(992_000, 100)}, nil
				}
				return nil, nil
			},
		}
		scanner := newTestScanner(t, fetcher, ScannerConfig{MaxChunkSpan: 3000, MinChunkSpan: 500})

		match, err := scanner.FindTransfer(context.Background(), recipientWallet, big.NewInt(100), 60_000)
		require.NoError(t, err)
		assert.Equal(t, uint64(992_000), match.BlockNumber)

		require.Len(t, fetcher.calls, 3)
		assert.Equal(t, window{from: 997_001, to: 1_000_000}, fetcher.calls[0])
		assert.Equal(t, window{from: 994_001, to: 997_000}, fetcher.calls[1])
		assert.Equal(t, window{from: 991_001, to: 994_000}, fetcher.calls[2])
	})

	t.Run("Prefers the most recent qualifying transfer", func(t *testing.T) {
		fetcher := &fakeFetcher{
			latest: 1_000_000,
			handler: func(call int, from, to uint64) ([]chainport.TransferLog, error) {
				return []chainport.TransferLog{
					transferAt(999_000, 100),
					transferAt(999_900, 100),
					transferAt(999_990, 10), // too small, skipped
				}, nil
			},
		}
		scanner := newTestScanner(t, fetcher, ScannerConfig{MaxChunkSpan: 3000, MinChunkSpan: 500})

		match, err := scanner.FindTransfer(context.Background(), recipientWallet, big.NewInt(100), 60_000)
		require.NoError(t, err)
		assert.Equal(t, uint64(999_900), match.BlockNumber)
	})

	t.Run("Range rejections narrow the chunk and retry the window", func(t *testing.T) {
		fetcher := &fakeFetcher{
			latest: 1_000_000,
			handler: func(call int, from, to uint64) ([]chainport.TransferLog, error) {
				if to-from+1 > 500 {
					return nil, chainport.ErrRangeTooLarge
				}
				if from <= 999_800 && 999_800 <= to {
					return []chainport.TransferLog{transferAt(999_800, 100)}, nil
				}
				return nil, nil
			},
		}
		scanner := newTestScanner(t, fetcher, ScannerConfig{MaxChunkSpan: 3000, MinChunkSpan: 500})

		match, err := scanner.FindTransfer(context.Background(), recipientWallet, big.NewInt(100), 60_000)
		require.NoError(t, err)
		assert.Equal(t, uint64(999_800), match.BlockNumber)

		// 3000 -> 1500 -> 750 -> 500, all ending at the same head block
		spans := make([]uint64, 0, len(fetcher.calls))
		for _, c := range fetcher.calls {
			assert.Equal(t, uint64(1_000_000), c.to)
			spans = append(spans, c.to-c.from+1)
		}
		assert.Equal(t, []uint64{3000, 1500, 750, 500}, spans)
	})

	t.Run("A transient failure gets one narrowed retry", func(t *testing.T) {
		fetcher := &fakeFetcher{
			latest: 1_000_000,
			handler: func(call int, from, to uint64) ([]chainport.TransferLog, error) {
				if call == 0 {
					return nil, errors.New("connection reset")
				}
				return []chainport.TransferLog{transferAt(999_990, 100)}, nil
			},
		}
		scanner := newTestScanner(t, fetcher, ScannerConfig{MaxChunkSpan: 3000, MinChunkSpan: 500})

		match, err := scanner.FindTransfer(context.Background(), recipientWallet, big.NewInt(100), 60_000)
		require.NoError(t, err)
		assert.Equal(t, uint64(999_990), match.BlockNumber)

		require.Len(t, fetcher.calls, 2)
		assert.Equal(t, uint64(1500), fetcher.calls[1].to-fetcher.calls[1].from+1)
	})

	t.Run("A window failing twice is skipped, not fatal", func(t *testing.T) {
		fetcher := &fakeFetcher{
			latest: 1_000_000,
			handler: func(call int, from, to uint64) ([]chainport.TransferLog, error) {
				if call < 2 {
					return nil, errors.New("connection reset")
				}
				if from <= 990_000 && 990_000 <= to {
					return []chainport.TransferLog{transferAt(990_000, 100)}, nil
				}
				return nil, nil
			},
		}
		scanner := newTestScanner(t, fetcher, ScannerConfig{MaxChunkSpan: 3000, MinChunkSpan: 500})

		match, err := scanner.FindTransfer(context.Background(), recipientWallet, big.NewInt(100), 60_000)
		require.NoError(t, err)
		assert.Equal(t, uint64(990_000), match.BlockNumber)

		// The scan resumed below the abandoned window
		assert.Less(t, fetcher.calls[2].to, fetcher.calls[1].from)
	})

	t.Run("The oldest block of the window is still scanned", func(t *testing.T) {
		fetcher := &fakeFetcher{
			latest: 1_000_000,
			handler: func(call int, from, to uint64) ([]chainport.TransferLog, error) {
				if from <= 994_000 && 994_000 <= to {
					return []chainport.TransferLog{transferAt(994_000, 100)}, nil
				}
				return nil, nil
			},
		}
		scanner := newTestScanner(t, fetcher, ScannerConfig{MaxChunkSpan: 3000, MinChunkSpan: 500})

		match, err := scanner.FindTransfer(context.Background(), recipientWallet, big.NewInt(100), 6000)
		require.NoError(t, err)
		assert.Equal(t, uint64(994_000), match.BlockNumber)
	})

	t.Run("An exhausted window reports no payment", func(t *testing.T) {
		fetcher := &fakeFetcher{latest: 1_000_000}
		scanner := newTestScanner(t, fetcher, ScannerConfig{MaxChunkSpan: 3000, MinChunkSpan: 500})

		_, err := scanner.FindTransfer(context.Background(), recipientWallet, big.NewInt(100), 6000)
		require.ErrorIs(t, err, errs.ErrPaymentNotFound)

		// Two full chunks plus the inclusive oldest block at latest - 6000
		require.Len(t, fetcher.calls, 3)
		assert.Equal(t, window{from: 997_001, to: 1_000_000}, fetcher.calls[0])
		assert.Equal(t, window{from: 994_001, to: 997_000}, fetcher.calls[1])
		assert.Equal(t, window{from: 994_000, to: 994_000}, fetcher.calls[2])
	})

	t.Run("A short chain is scanned from genesis", func(t *testing.T) {
		fetcher := &fakeFetcher{latest: 1000}
		scanner := newTestScanner(t, fetcher, ScannerConfig{MaxChunkSpan: 3000, MinChunkSpan: 500})

		_, err := scanner.FindTransfer(context.Background(), recipientWallet, big.NewInt(100), 60_000)
		require.ErrorIs(t, err, errs.ErrPaymentNotFound)

		require.Len(t, fetcher.calls, 1)
		assert.Equal(t, window{from: 0, to: 1000}, fetcher.calls[0])
	})

	t.Run("Head fetch failure propagates", func(t *testing.T) {
		fetcher := &fakeFetcher{latestErr: errors.New("rpc down")}
		scanner := newTestScanner(t, fetcher, ScannerConfig{})

		_, err := scanner.FindTransfer(context.Background(), recipientWallet, big.NewInt(100), 60_000)
		assert.ErrorContains(t, err, "rpc down")
	})

	t.Run("Cancellation stops the scan", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		fetcher := &fakeFetcher{
			latest: 1_000_000,
			handler: func(call int, from, to uint64) ([]chainport.TransferLog, error) {
				cancel()
				return nil, nil
			},
		}
		scanner := newTestScanner(t, fetcher, ScannerConfig{MaxChunkSpan: 3000, MinChunkSpan: 500})

		_, err := scanner.FindTransfer(ctx, recipientWallet, big.NewInt(100), 60_000)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
