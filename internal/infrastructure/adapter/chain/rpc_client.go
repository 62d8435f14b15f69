package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	chainport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/chain"
	coreport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/core"
)

// TransferTopic is keccak256("Transfer(address,address,uint256)")
const TransferTopic = "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"

// Provider error codes that mean the requested block range is too wide
const (
	codeRangeLimitA = -32062
	codeRangeLimitB = -32005
)

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcLog struct {
	Topics      []string `json:"topics"`
	Data        string   `json:"data"`
	TxHash      string   `json:"transactionHash"`
	BlockNumber string   `json:"blockNumber"`
}

type logFilter struct {
	FromBlock string    `json:"fromBlock"`
	ToBlock   string    `json:"toBlock"`
	Address   string    `json:"address"`
	Topics    []*string `json:"topics"`
}

// RPCClient speaks the Ethereum JSON-RPC protocol to a single endpoint and
// decodes token Transfer logs for one contract.
type RPCClient struct {
	httpClient   *http.Client
	endpoint     string
	tokenAddress string
	logger       coreport.Logger
}

// NewRPCClient creates a fetcher bound to one RPC endpoint
func NewRPCClient(endpoint, tokenAddress string, timeout time.Duration, logger coreport.Logger) *RPCClient {
	return &RPCClient{
		httpClient:   &http.Client{Timeout: timeout},
		endpoint:     endpoint,
		tokenAddress: strings.ToLower(tokenAddress),
		logger:       logger,
	}
}

// Endpoint returns the endpoint URL this client talks to
func (c *RPCClient) Endpoint() string {
	return c.endpoint
}

// LatestBlock returns the current chain head number
func (c *RPCClient) LatestBlock(ctx context.Context) (uint64, error) {
	raw, err := c.call(ctx, "eth_blockNumber", []any{})
	if err != nil {
		return 0, err
	}
	var hexNum string
	if err := json.Unmarshal(raw, &hexNum); err != nil {
		return 0, fmt.Errorf("decode block number: %w", err)
	}
	return parseHexUint(hexNum)
}

// TransferLogs returns the token transfers to recipient within [from, to]
func (c *RPCClient) TransferLogs(ctx context.Context, from, to uint64, recipient string) ([]chainport.TransferLog, error) {
	topic0 := TransferTopic
	topic2 := padAddressTopic(recipient)
	filter := logFilter{
		FromBlock: hexUint(from),
		ToBlock:   hexUint(to),
		Address:   c.tokenAddress,
		Topics:    []*string{&topic0, nil, &topic2},
	}

	raw, err := c.call(ctx, "eth_getLogs", []any{filter})
	if err != nil {
		return nil, err
	}

	var logs []rpcLog
	if err := json.Unmarshal(raw, &logs); err != nil {
		return nil, fmt.Errorf("decode logs: %w", err)
	}

	out := make([]chainport.TransferLog, 0, len(logs))
	for _, l := range logs {
		decoded, err := decodeTransfer(l)
		if err != nil {
			c.logger.Warn("Skipping undecodable log", map[string]any{
				"tx_hash": l.TxHash,
				"error":   err.Error(),
			})
			continue
		}
		out = append(out, decoded)
	}
	return out, nil
}

// call performs one JSON-RPC request and classifies provider errors
func (c *RPCClient) call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("rpc %s: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rpc %s: unexpected status %d", method, resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, fmt.Errorf("rpc %s: decode response: %w", method, err)
	}
	if rpcResp.Error != nil {
		if isRangeTooLarge(rpcResp.Error) {
			return nil, fmt.Errorf("%w: %s", chainport.ErrRangeTooLarge, rpcResp.Error.Message)
		}
		return nil, fmt.Errorf("rpc %s: provider error %d: %s", method, rpcResp.Error.Code, rpcResp.Error.Message)
	}
	return rpcResp.Result, nil
}

// isRangeTooLarge recognizes the provider's range rejection by code or message
func isRangeTooLarge(e *rpcError) bool {
	if e.Code == codeRangeLimitA || e.Code == codeRangeLimitB {
		return true
	}
	msg := strings.ToLower(e.Message)
	return strings.Contains(msg, "block range") || strings.Contains(msg, "range is too")
}

// decodeTransfer extracts sender, recipient and value from a Transfer log
func decodeTransfer(l rpcLog) (chainport.TransferLog, error) {
	if len(l.Topics) < 3 {
		return chainport.TransferLog{}, fmt.Errorf("transfer log with %d topics", len(l.Topics))
	}
	value, ok := new(big.Int).SetString(strings.TrimPrefix(l.Data, "0x"), 16)
	if !ok {
		return chainport.TransferLog{}, fmt.Errorf("invalid value data %q", l.Data)
	}
	block, err := parseHexUint(l.BlockNumber)
	if err != nil {
		return chainport.TransferLog{}, err
	}
	return chainport.TransferLog{
		TxHash:      l.TxHash,
		From:        topicToAddress(l.Topics[1]),
		To:          topicToAddress(l.Topics[2]),
		Value:       value,
		BlockNumber: block,
	}, nil
}

// padAddressTopic left-pads an address to a 32-byte topic word. Input longer
// than a topic word is truncated to its low bytes instead of panicking.
func padAddressTopic(address string) string {
	addr := strings.ToLower(strings.TrimPrefix(address, "0x"))
	if len(addr) >= 64 {
		return "0x" + addr[len(addr)-64:]
	}
	return "0x" + strings.Repeat("0", 64-len(addr)) + addr
}

// topicToAddress recovers the address from a padded topic word
func topicToAddress(topic string) string {
	hex := strings.TrimPrefix(topic, "0x")
	if len(hex) < 40 {
		return "0x" + hex
	}
	return "0x" + hex[len(hex)-40:]
}

func hexUint(v uint64) string {
	return fmt.Sprintf("0x%x", v)
}

func parseHexUint(s string) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hex number %q: %w", s, err)
	}
	return v, nil
}
