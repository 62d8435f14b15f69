package payout

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"

	errs "github.com/alirazaSuccess/FAG-Project/internal/domain/error"
	coreport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/core"
	payoutport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/payout"
)

// Config carries the payout provider settings
type Config struct {
	BaseURL    string            // API base, e.g. https://api.binance.com
	APIKey     string            // Exchange API key
	APISecret  string            // Key used to sign requests
	Asset      string            // Asset symbol to pay out, e.g. USDT
	Network    string            // Chain the payout travels on, e.g. BSC
	Timeout    coreport.Duration // Per-request timeout
	RecvWindow int64             // Signature validity window in ms
}

// withdrawResponse is the provider's reply to a successful withdraw request
type withdrawResponse struct {
	ID string `json:"id"`
}

// apiError is the provider's structured error body
type apiError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// BinanceClient sends withdrawal payouts through the exchange withdraw API.
// Requests are HMAC-SHA256 signed over the query string and guarded by a
// circuit breaker so a struggling provider fails fast instead of piling up
// blocked approvals.
type BinanceClient struct {
	httpClient   *http.Client
	breaker      *gobreaker.CircuitBreaker
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
	cfg          Config
}

// NewBinanceClient creates a payout client for the exchange withdraw API
func NewBinanceClient(cfg Config, logger coreport.Logger, timeProvider coreport.TimeProvider) *BinanceClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * coreport.Second
	}
	if cfg.RecvWindow == 0 {
		cfg.RecvWindow = 5000
	}

	cbSettings := gobreaker.Settings{
		Name:        "binance-payout",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Payout circuit breaker state changed", map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	}

	return &BinanceClient{
		httpClient:   &http.Client{Timeout: cfg.Timeout.Std()},
		breaker:      gobreaker.NewCircuitBreaker(cbSettings),
		logger:       logger,
		timeProvider: timeProvider,
		cfg:          cfg,
	}
}

// Withdraw submits one payout and returns the provider's payout ID
func (c *BinanceClient) Withdraw(ctx context.Context, req payoutport.Request) (string, error) {
	amount := decimal.New(req.AmountCents, -2).String()

	params := url.Values{}
	params.Set("coin", c.cfg.Asset)
	params.Set("network", c.cfg.Network)
	params.Set("address", req.Address)
	params.Set("amount", amount)
	params.Set("withdrawOrderId", req.RemarkID)
	params.Set("recvWindow", strconv.FormatInt(c.cfg.RecvWindow, 10))
	params.Set("timestamp", strconv.FormatInt(c.timeProvider.Now().UnixMilli(), 10))

	query := params.Encode()
	signed := query + "&signature=" + c.sign(query)

	result, err := c.breaker.Execute(func() (any, error) {
		return c.post(ctx, "/sapi/v1/capital/withdraw/apply", signed)
	})
	if err != nil {
		if payoutErr, ok := err.(*errs.PayoutError); ok {
			return "", payoutErr
		}
		// Breaker-open and transport errors are still payout failures from
		// the settlement's point of view
		return "", errs.NewPayoutError(0, err.Error())
	}

	payoutID, ok := result.(string)
	if !ok {
		return "", errs.NewPayoutError(0, "unexpected provider response type")
	}

	c.logger.Info("Payout submitted", map[string]any{
		"withdrawal_id": req.WithdrawalID,
		"payout_id":     payoutID,
		"amount":        amount,
	})
	return payoutID, nil
}

// post sends one signed request and decodes the provider's reply
func (c *BinanceClient) post(ctx context.Context, path, signedQuery string) (string, error) {
	endpoint := c.cfg.BaseURL + path + "?" + signedQuery
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("X-MBX-APIKEY", c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if jsonErr := json.Unmarshal(body, &apiErr); jsonErr == nil && apiErr.Msg != "" {
			return "", errs.NewPayoutError(apiErr.Code, apiErr.Msg)
		}
		return "", errs.NewPayoutError(0, fmt.Sprintf("provider status %d", resp.StatusCode))
	}

	var ok withdrawResponse
	if err := json.Unmarshal(body, &ok); err != nil {
		return "", errs.NewPayoutError(0, "undecodable provider response")
	}
	if ok.ID == "" {
		return "", errs.NewPayoutError(0, "provider returned no payout id")
	}
	return ok.ID, nil
}

// sign computes the HMAC-SHA256 signature over the query string
func (c *BinanceClient) sign(query string) string {
	mac := hmac.New(sha256.New, []byte(c.cfg.APISecret))
	mac.Write([]byte(query))
	return hex.EncodeToString(mac.Sum(nil))
}
