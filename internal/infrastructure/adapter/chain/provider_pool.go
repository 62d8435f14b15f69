package chain

import (
	"context"
	"errors"
	"fmt"
	"sync"

	chainport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/chain"
	coreport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/core"
)

// ProviderPool fronts an ordered list of RPC fetchers with explicit failover.
// Each call starts from the endpoint that last answered; when an endpoint
// errors the pool advances to the next and retries the same call. Range
// rejections and context cancellation are not failover reasons: the first is
// a semantic answer the scanner needs, the second is the caller giving up.
type ProviderPool struct {
	fetchers []chainport.LogFetcher
	logger   coreport.Logger

	mu      sync.Mutex
	current int
}

// NewProviderPool creates a pool over the given fetchers in priority order
func NewProviderPool(fetchers []chainport.LogFetcher, logger coreport.Logger) (*ProviderPool, error) {
	if len(fetchers) == 0 {
		return nil, errors.New("provider pool needs at least one fetcher")
	}
	return &ProviderPool{fetchers: fetchers, logger: logger}, nil
}

// LatestBlock returns the chain head from the first answering provider
func (p *ProviderPool) LatestBlock(ctx context.Context) (uint64, error) {
	var result uint64
	err := p.withFailover(ctx, func(f chainport.LogFetcher) error {
		var err error
		result, err = f.LatestBlock(ctx)
		return err
	})
	return result, err
}

// TransferLogs returns transfer logs from the first answering provider
func (p *ProviderPool) TransferLogs(ctx context.Context, from, to uint64, recipient string) ([]chainport.TransferLog, error) {
	var result []chainport.TransferLog
	err := p.withFailover(ctx, func(f chainport.LogFetcher) error {
		var err error
		result, err = f.TransferLogs(ctx, from, to, recipient)
		return err
	})
	return result, err
}

// withFailover runs the call against each provider starting from the current
// one, advancing on retryable errors until one answers or all failed
func (p *ProviderPool) withFailover(ctx context.Context, call func(chainport.LogFetcher) error) error {
	start := p.currentIndex()

	var lastErr error
	for i := 0; i < len(p.fetchers); i++ {
		idx := (start + i) % len(p.fetchers)
		err := call(p.fetchers[idx])
		if err == nil {
			p.setCurrent(idx)
			return nil
		}
		if errors.Is(err, chainport.ErrRangeTooLarge) || ctx.Err() != nil {
			p.setCurrent(idx)
			return err
		}

		p.logger.Warn("RPC provider failed, trying next", map[string]any{
			"provider_index": idx,
			"error":          err.Error(),
		})
		lastErr = err
	}
	return fmt.Errorf("all rpc providers failed: %w", lastErr)
}

func (p *ProviderPool) currentIndex() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *ProviderPool) setCurrent(idx int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = idx
}
