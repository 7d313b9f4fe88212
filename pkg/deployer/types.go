package deployer

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Request is the deployment configuration handed to the deploy service.
// Reward entries carry no display labels; those stay inside this service.
type Request struct {
	Name        string          `json:"name"`
	Symbol      string          `json:"symbol"`
	Admin       common.Address  `json:"admin"`
	Metadata    Metadata        `json:"metadata"`
	Pool        PoolConfig      `json:"pool"`
	Fee         FeeConfig       `json:"fee"`
	Rewards     []RewardEntry   `json:"rewards"`
	Vault       *VaultConfig    `json:"vault,omitempty"`
	InitialBuy  decimal.Decimal `json:"initial_buy,omitempty"`
	ContextTags []string        `json:"context_tags,omitempty"`
}

// Metadata is the token display metadata forwarded on deploy.
type Metadata struct {
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// PoolConfig selects the liquidity pool parameters.
type PoolConfig struct {
	PairedAsset  common.Address `json:"paired_asset"`
	VanitySuffix bool           `json:"vanity_suffix,omitempty"`
}

// FeeConfig sets the pool trading fee.
type FeeConfig struct {
	TradingFeeBps int `json:"trading_fee_bps"`
}

// RewardEntry is one fee revenue recipient in deploy order.
type RewardEntry struct {
	Recipient common.Address `json:"recipient"`
	Admin     common.Address `json:"admin"`
	Bps       int            `json:"bps"`
	Scope     string         `json:"scope"`
}

// VaultConfig is the supply lockup forwarded on deploy, durations in seconds.
type VaultConfig struct {
	Percent        int   `json:"percent"`
	LockupSeconds  int64 `json:"lockup_seconds"`
	VestingSeconds int64 `json:"vesting_seconds"`
}

// Receipt is a submitted deployment: the transaction hash plus an
// awaitable confirmation that resolves to the issued token address.
type Receipt struct {
	TxHash string

	confirm func(ctx context.Context) (common.Address, error)
}

// Confirm blocks until the deployment confirms and returns the issued
// token address.
func (r *Receipt) Confirm(ctx context.Context) (common.Address, error) {
	return r.confirm(ctx)
}

// NewReceipt builds a receipt from a transaction hash and confirmation
// function. Exposed for tests and alternative deploy transports.
func NewReceipt(txHash string, confirm func(ctx context.Context) (common.Address, error)) *Receipt {
	return &Receipt{TxHash: txHash, confirm: confirm}
}

// RejectedError is an explicit refusal from the deploy service before
// any on-chain effect; safe for the caller to correct and retry.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("deployment rejected: %s", e.Reason)
}
