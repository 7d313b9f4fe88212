// Package fees claims accrued trading fee revenue for issued tokens and
// aggregates the pending amounts for reporting. Claims settle through
// the deploy service, which owns the signing wallet; every claim in this
// process is serialized through one slot so the wallet never races its
// own nonce.
package fees

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/agentmint/launchpad/pkg/launch"
	"github.com/agentmint/launchpad/pkg/tokenstore"
)

// FeeSource reads the currently claimable fee amount for one recipient
// on one fee-bearing asset.
type FeeSource interface {
	ClaimableAmount(ctx context.Context, asset, recipient common.Address) (decimal.Decimal, error)
}

// FeeClaimer executes a fee claim and returns the transaction id.
type FeeClaimer interface {
	Claim(ctx context.Context, asset, recipient common.Address) (string, error)
}

// Store is the slice of the token store the fee engine uses.
type Store interface {
	GetTokenByAddress(ctx context.Context, address string) (*launch.Token, error)
	ListTokens(ctx context.Context, opts ...tokenstore.QueryOption) ([]*launch.Token, error)
	InsertClaimAndIncrementTotals(ctx context.Context, claim *launch.FeeClaim) error
}

// ClaimError identifies one token whose claim pass failed.
type ClaimError struct {
	Address string `json:"address"`
	Error   string `json:"error"`
}

// Summary is the outcome of one claim pass over a set of tokens. Every
// token lands in exactly one bucket: a recorded claim, a skipped
// address with nothing claimed, or an error.
type Summary struct {
	Claimed       []*launch.FeeClaim `json:"claimed"`
	Skipped       []string           `json:"skipped"`
	Errors        []ClaimError       `json:"errors"`
	ClaimedPaired decimal.Decimal    `json:"claimed_paired"`
	ClaimedToken  decimal.Decimal    `json:"claimed_token"`
}
