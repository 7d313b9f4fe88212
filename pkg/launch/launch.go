// Package launch defines the domain types shared across the launchpad:
// launch requests, issued token records, and the fee claim ledger.
package launch

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of an issued token record.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Request is an inbound token launch request from an agent.
type Request struct {
	Name        string     `json:"name" validate:"required,max=100"`
	Symbol      string     `json:"symbol" validate:"required,min=2,max=10,alphanum"`
	Requester   string     `json:"requester" validate:"required,eth_addr"`
	ExternalID  string     `json:"external_id,omitempty"`
	Description string     `json:"description,omitempty" validate:"omitempty,max=1000"`
	Image       string     `json:"image,omitempty"`
	Vault       *VaultSpec `json:"vault,omitempty"`
	FeeSplits   []FeeSplit `json:"fee_splits,omitempty" validate:"omitempty,max=5"`
	// TradingFeeBps overrides the pool trading fee. Zero means "use the
	// platform default"; non-zero values must fall in [10,500].
	TradingFeeBps int             `json:"trading_fee_bps,omitempty"`
	InitialBuy    decimal.Decimal `json:"initial_buy,omitempty"`
}

// VaultSpec describes an optional time-locked share of the token supply.
type VaultSpec struct {
	Percent     int `json:"percent"`
	LockupDays  int `json:"lockup_days"`
	VestingDays int `json:"vesting_days"`
}

// FeeSplit is one requester-declared fee revenue recipient.
// Share is a percentage of total trading fees, not basis points.
type FeeSplit struct {
	Address string  `json:"address"`
	Share   float64 `json:"share"`
	Role    string  `json:"role,omitempty"`
}

// Token is one issued token. Created exactly once per successful
// deployment and never deleted; the claimed totals are the only fields
// mutated after creation (plus administrative status flips).
type Token struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Symbol        string          `json:"symbol"`
	Address       string          `json:"address"`
	DeployTxHash  string          `json:"deploy_tx_hash"`
	Requester     string          `json:"requester"`
	RequesterBps  int             `json:"requester_bps"`
	PlatformBps   int             `json:"platform_bps"`
	VaultPercent  int             `json:"vault_percent"`
	TradingFeeBps int             `json:"trading_fee_bps"`
	ClaimedPaired decimal.Decimal `json:"claimed_paired"`
	ClaimedToken  decimal.Decimal `json:"claimed_token"`
	Status        Status          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// FeeClaim is one row of the append-only claim ledger. A single
// "claim everything for this token" pass may cover several claim
// transactions; TxHash records the representative (first) one.
type FeeClaim struct {
	ID           int64           `json:"id"`
	TokenAddress string          `json:"token_address"`
	TxHash       string          `json:"tx_hash"`
	PairedAmount decimal.Decimal `json:"paired_amount"`
	TokenAmount  decimal.Decimal `json:"token_amount"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Stats summarizes platform activity over an optional time window.
type Stats struct {
	TokenCount         int             `json:"token_count"`
	ActiveTokenCount   int             `json:"active_token_count"`
	TotalClaimedPaired decimal.Decimal `json:"total_claimed_paired"`
	TotalClaimedToken  decimal.Decimal `json:"total_claimed_token"`
}
