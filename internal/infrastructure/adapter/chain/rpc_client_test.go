package chain

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chainport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/chain"
	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/logger"
)

const tokenContract = "0x55d398326f99059fF775485246999027B3197955"

// rpcServer answers JSON-RPC posts with the scripted response per method
func rpcServer(t *testing.T, responses map[string]string, requests *[]rpcRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var req rpcRequest
		require.NoError(t, json.Unmarshal(body, &req))
		if requests != nil {
			*requests = append(*requests, req)
		}

		resp, ok := responses[req.Method]
		require.True(t, ok, "unexpected method %s", req.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(resp))
	}))
}

func TestLatestBlock(t *testing.T) {
	t.Run("Decodes the head number", func(t *testing.T) {
		server := rpcServer(t, map[string]string{
			"eth_blockNumber": `{"jsonrpc":"2.0","id":1,"result":"0xf4240"}`,
		}, nil)
		defer server.Close()

		client := NewRPCClient(server.URL, tokenContract, 5*time.Second, logger.NewNoopLogger())
		latest, err := client.LatestBlock(context.Background())
		require.NoError(t, err)
		assert.Equal(t, uint64(1_000_000), latest)
	})

	t.Run("Malformed result", func(t *testing.T) {
		server := rpcServer(t, map[string]string{
			"eth_blockNumber": `{"jsonrpc":"2.0","id":1,"result":"not-hex"}`,
		}, nil)
		defer server.Close()

		client := NewRPCClient(server.URL, tokenContract, 5*time.Second, logger.NewNoopLogger())
		_, err := client.LatestBlock(context.Background())
		assert.Error(t, err)
	})

	t.Run("Unexpected HTTP status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := NewRPCClient(server.URL, tokenContract, 5*time.Second, logger.NewNoopLogger())
		_, err := client.LatestBlock(context.Background())
		assert.ErrorContains(t, err, "unexpected status 502")
	})
}

func TestTransferLogs(t *testing.T) {
	recipient := "0xAbCdEf1234567890abcdef1234567890aBcDeF12"
	paddedRecipient := "0x000000000000000000000000abcdef1234567890abcdef1234567890abcdef12"
	sender := "0x000000000000000000000000" + "1111111111111111111111111111111111111111"

	t.Run("Decodes and filters transfer logs", func(t *testing.T) {
		var requests []rpcRequest
		server := rpcServer(t, map[string]string{
			"eth_getLogs": `{"jsonrpc":"2.0","id":1,"result":[
				{"topics":["` + TransferTopic + `","` + sender + `","` + paddedRecipient + `"],
				 "data":"0x00000000000000000000000000000000000000000000000001a055690d9db800",
				 "transactionHash":"0xabc123",
				 "blockNumber":"0xf41fc"},
				{"topics":["` + TransferTopic + `"],
				 "data":"0x01",
				 "transactionHash":"0xbad",
				 "blockNumber":"0xf41fd"}
			]}`,
		}, &requests)
		defer server.Close()

		client := NewRPCClient(server.URL, tokenContract, 5*time.Second, logger.NewNoopLogger())
		logs, err := client.TransferLogs(context.Background(), 999_000, 1_000_000, recipient)
		require.NoError(t, err)

		// The malformed two-topic log is skipped
		require.Len(t, logs, 1)
		assert.Equal(t, "0xabc123", logs[0].TxHash)
		assert.Equal(t, "0x1111111111111111111111111111111111111111", logs[0].From)
		assert.Equal(t, "0xabcdef1234567890abcdef1234567890abcdef12", logs[0].To)
		assert.Equal(t, "117187500000000000", logs[0].Value.String())
		assert.Equal(t, uint64(999_932), logs[0].BlockNumber)

		// The filter pins the contract, the event signature, and the recipient
		require.Len(t, requests, 1)
		params, err := json.Marshal(requests[0].Params[0])
		require.NoError(t, err)
		var filter logFilter
		require.NoError(t, json.Unmarshal(params, &filter))
		assert.Equal(t, "0xf3e58", filter.FromBlock)
		assert.Equal(t, "0xf4240", filter.ToBlock)
		assert.Equal(t, "0x55d398326f99059ff775485246999027b3197955", filter.Address)
		require.Len(t, filter.Topics, 3)
		assert.Equal(t, TransferTopic, *filter.Topics[0])
		assert.Nil(t, filter.Topics[1])
		assert.Equal(t, paddedRecipient, *filter.Topics[2])
	})

	t.Run("Range limit code maps to the sentinel", func(t *testing.T) {
		server := rpcServer(t, map[string]string{
			"eth_getLogs": `{"jsonrpc":"2.0","id":1,"error":{"code":-32062,"message":"exceed maximum block range: 5000"}}`,
		}, nil)
		defer server.Close()

		client := NewRPCClient(server.URL, tokenContract, 5*time.Second, logger.NewNoopLogger())
		_, err := client.TransferLogs(context.Background(), 0, 1_000_000, recipient)
		assert.ErrorIs(t, err, chainport.ErrRangeTooLarge)
	})

	t.Run("Range limit message maps to the sentinel", func(t *testing.T) {
		server := rpcServer(t, map[string]string{
			"eth_getLogs": `{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"Block range is too large"}}`,
		}, nil)
		defer server.Close()

		client := NewRPCClient(server.URL, tokenContract, 5*time.Second, logger.NewNoopLogger())
		_, err := client.TransferLogs(context.Background(), 0, 1_000_000, recipient)
		assert.ErrorIs(t, err, chainport.ErrRangeTooLarge)
	})

	t.Run("Other provider errors pass through", func(t *testing.T) {
		server := rpcServer(t, map[string]string{
			"eth_getLogs": `{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"method not found"}}`,
		}, nil)
		defer server.Close()

		client := NewRPCClient(server.URL, tokenContract, 5*time.Second, logger.NewNoopLogger())
		_, err := client.TransferLogs(context.Background(), 0, 1_000_000, recipient)
		require.Error(t, err)
		assert.NotErrorIs(t, err, chainport.ErrRangeTooLarge)
		assert.ErrorContains(t, err, "method not found")
	})
}

func TestPadAddressTopic(t *testing.T) {
	padded := padAddressTopic("0xAbCdEf1234567890abcdef1234567890aBcDeF12")
	assert.Equal(t, "0x000000000000000000000000abcdef1234567890abcdef1234567890abcdef12", padded)
	assert.Equal(t, "0xabcdef1234567890abcdef1234567890abcdef12", topicToAddress(padded))

	// Oversized input keeps the low 32 bytes instead of panicking
	word := "000000000000000000000000abcdef1234567890abcdef1234567890abcdef12"
	assert.Equal(t, "0x"+word, padAddressTopic("0xffff"+word))
}
