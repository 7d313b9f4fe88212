// Package tokenstore persists issued token records and the append-only
// fee claim ledger. It is the single point of truth for both tables:
// every increment to a token's cumulative claimed totals goes through
// InsertClaimAndIncrementTotals so concurrent claims cannot lose updates.
package tokenstore

import (
	"context"
	"errors"
	"time"

	"github.com/agentmint/launchpad/pkg/launch"
)

// ErrTokenNotFound is returned when a token lookup finds no matching record.
var ErrTokenNotFound = errors.New("token not found")

// Store defines the interface for token record and claim ledger persistence.
type Store interface {
	InsertToken(ctx context.Context, tok *launch.Token) error
	GetTokenByAddress(ctx context.Context, address string) (*launch.Token, error)
	ListTokens(ctx context.Context, opts ...QueryOption) ([]*launch.Token, error)
	ListTokensByRequester(ctx context.Context, requester string) ([]*launch.Token, error)
	SetTokenStatus(ctx context.Context, address string, status launch.Status) error

	// LastLaunchAt returns the creation time of the requester's most
	// recent token, or nil if they have never launched. The deployment
	// ledger doubles as rate-limit state; there is no separate table.
	LastLaunchAt(ctx context.Context, requester string) (*time.Time, error)

	// SymbolInUse reports whether any prior launch used the symbol,
	// compared case-insensitively.
	SymbolInUse(ctx context.Context, symbol string) (bool, error)

	// InsertClaimAndIncrementTotals appends one claim ledger row and
	// increments the token's cumulative claimed totals in the same
	// transaction.
	InsertClaimAndIncrementTotals(ctx context.Context, claim *launch.FeeClaim) error

	ListClaims(ctx context.Context, tokenAddress string) ([]*launch.FeeClaim, error)
	AggregateStats(ctx context.Context, since *time.Time) (*launch.Stats, error)
}

// QueryOptions defines options for listing tokens.
type QueryOptions struct {
	Status *launch.Status
	SortBy string
	Limit  int
}

// QueryOption is a functional option for listing tokens.
type QueryOption func(*QueryOptions)

// WithStatus filters tokens by lifecycle status.
func WithStatus(status launch.Status) QueryOption {
	return func(opts *QueryOptions) {
		opts.Status = &status
	}
}

// WithSortBy sets the sort column. Unknown columns fall back to creation time.
func WithSortBy(column string) QueryOption {
	return func(opts *QueryOptions) {
		opts.SortBy = column
	}
}

// WithLimit caps the number of returned tokens.
func WithLimit(limit int) QueryOption {
	return func(opts *QueryOptions) {
		opts.Limit = limit
	}
}
