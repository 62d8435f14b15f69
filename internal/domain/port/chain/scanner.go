package chain

import (
	"context"
	"errors"
	"math/big"
)

// ErrRangeTooLarge is returned by a LogFetcher when the provider rejects the
// requested block range as too wide. The caller should narrow the range and
// retry; any other fetcher error is treated as transient.
var ErrRangeTooLarge = errors.New("block range too large")

// TransferLog is one decoded token transfer observed on chain
type TransferLog struct {
	TxHash      string   // Transaction hash
	From        string   // Sender address
	To          string   // Recipient address
	Value       *big.Int // Raw token amount in base units
	BlockNumber uint64   // Block the transfer occurred in
}

// LogFetcher reads raw chain state from an RPC provider
type LogFetcher interface {
	// LatestBlock returns the current chain head number
	LatestBlock(ctx context.Context) (uint64, error)

	// TransferLogs returns the token transfers to the given recipient within
	// the inclusive block range [from, to].
	//
	// Possible errors:
	// - ErrRangeTooLarge: If the provider rejects the range width
	TransferLogs(ctx context.Context, from, to uint64, recipient string) ([]TransferLog, error)
}

// TransferMatch is the qualifying transfer a scan settled on
type TransferMatch struct {
	TxHash      string   // Transaction hash, used as the payment's unique ID
	From        string   // Sender address
	Value       *big.Int // Raw token amount in base units
	BlockNumber uint64   // Block the transfer occurred in
}

// DepositScanner searches recent chain history for a qualifying deposit
type DepositScanner interface {
	// FindTransfer walks backward from the chain head over at most
	// lookbackBlocks, returning the most recent transfer to recipient whose
	// value is at least minAmount (in token base units).
	//
	// Possible errors:
	// - ErrPaymentNotFound: If the window holds no qualifying transfer
	FindTransfer(ctx context.Context, recipient string, minAmount *big.Int, lookbackBlocks uint64) (*TransferMatch, error)
}
