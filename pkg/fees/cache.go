package fees

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/agentmint/launchpad/internal/metrics"
	"github.com/agentmint/launchpad/pkg/launch"
	"github.com/agentmint/launchpad/pkg/tokenstore"
)

// TokenPending is the pending claimable revenue for one token, summed
// across claim recipients.
type TokenPending struct {
	Address string          `json:"address"`
	Symbol  string          `json:"symbol"`
	Paired  decimal.Decimal `json:"paired"`
	Token   decimal.Decimal `json:"token"`
}

// Snapshot is one point-in-time aggregate of pending claimable fees
// across all active tokens.
type Snapshot struct {
	GeneratedAt time.Time       `json:"generated_at"`
	TotalPaired decimal.Decimal `json:"total_paired"`
	TotalToken  decimal.Decimal `json:"total_token"`
	Tokens      []TokenPending  `json:"tokens"`
}

// AggregateCache serves fee aggregate snapshots with a TTL. A stale
// cache triggers a rebuild; concurrent readers hitting a stale cache
// share one rebuild instead of each fanning out to the fee source.
type AggregateCache struct {
	store    Store
	source   FeeSource
	platform common.Address
	paired   common.Address
	ttl      time.Duration
	batch    int
	// amounts above the ceiling are treated as fee source anomalies
	// and excluded from the aggregate
	ceiling decimal.Decimal
	logger  *zap.Logger
	now     func() time.Time

	mu       sync.RWMutex
	snapshot *Snapshot
	group    singleflight.Group
}

// NewAggregateCache creates an aggregate cache. ceiling is the per-leg
// plausibility bound in paired asset units; batch caps concurrent fee
// source lookups during a rebuild.
func NewAggregateCache(
	store Store,
	source FeeSource,
	platform common.Address,
	paired common.Address,
	ttl time.Duration,
	batch int,
	ceiling decimal.Decimal,
	logger *zap.Logger,
) *AggregateCache {
	return &AggregateCache{
		store:    store,
		source:   source,
		platform: platform,
		paired:   paired,
		ttl:      ttl,
		batch:    batch,
		ceiling:  ceiling,
		logger:   logger,
		now:      time.Now,
	}
}

// Get returns the current snapshot, rebuilding it when older than the TTL.
func (c *AggregateCache) Get(ctx context.Context) (*Snapshot, error) {
	c.mu.RLock()
	snap := c.snapshot
	c.mu.RUnlock()

	if snap != nil && c.now().Sub(snap.GeneratedAt) < c.ttl {
		return snap, nil
	}

	result, err, _ := c.group.Do("aggregate", func() (any, error) {
		// another caller may have finished the rebuild while this one
		// waited on the flight group
		c.mu.RLock()
		current := c.snapshot
		c.mu.RUnlock()
		if current != nil && c.now().Sub(current.GeneratedAt) < c.ttl {
			return current, nil
		}

		rebuilt, err := c.rebuild(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.snapshot = rebuilt
		c.mu.Unlock()
		return rebuilt, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Snapshot), nil
}

func (c *AggregateCache) rebuild(ctx context.Context) (*Snapshot, error) {
	metrics.AggregateRebuilds.Inc()

	tokens, err := c.store.ListTokens(ctx, tokenstore.WithStatus(launch.StatusActive))
	if err != nil {
		return nil, err
	}

	pending := make([]TokenPending, len(tokens))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.batch)

	for i, tok := range tokens {
		g.Go(func() error {
			paired, token := c.pendingForToken(gctx, tok)
			pending[i] = TokenPending{
				Address: tok.Address,
				Symbol:  tok.Symbol,
				Paired:  paired,
				Token:   token,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		GeneratedAt: c.now(),
		TotalPaired: decimal.Zero,
		TotalToken:  decimal.Zero,
		Tokens:      pending,
	}
	for _, p := range pending {
		snap.TotalPaired = snap.TotalPaired.Add(p.Paired)
		snap.TotalToken = snap.TotalToken.Add(p.Token)
	}
	return snap, nil
}

// pendingForToken sums the claimable legs for one token. Lookup
// failures and implausible amounts contribute zero so a single bad leg
// cannot poison or abort the whole aggregate.
func (c *AggregateCache) pendingForToken(ctx context.Context, tok *launch.Token) (paired, token decimal.Decimal) {
	paired, token = decimal.Zero, decimal.Zero

	recipients := []common.Address{c.platform}
	requester := common.HexToAddress(tok.Requester)
	if requester != c.platform {
		recipients = append(recipients, requester)
	}
	tokenAsset := common.HexToAddress(tok.Address)

	for _, recipient := range recipients {
		for _, asset := range []common.Address{tokenAsset, c.paired} {
			amount, err := c.source.ClaimableAmount(ctx, asset, recipient)
			if err != nil {
				metrics.FeeLookupFailures.Inc()
				c.logger.Warn("aggregate lookup failed, treating as zero",
					zap.String("token", tok.Address),
					zap.String("asset", asset.Hex()),
					zap.Error(err),
				)
				continue
			}
			if amount.IsNegative() {
				continue
			}
			if amount.GreaterThan(c.ceiling) {
				metrics.FeeLookupAnomalies.Inc()
				c.logger.Warn("implausible claimable amount excluded from aggregate",
					zap.String("token", tok.Address),
					zap.String("asset", asset.Hex()),
					zap.String("recipient", recipient.Hex()),
					zap.String("amount", amount.String()),
					zap.String("ceiling", c.ceiling.String()),
				)
				continue
			}

			if asset == c.paired {
				paired = paired.Add(amount)
			} else {
				token = token.Add(amount)
			}
		}
	}
	return paired, token
}

// Invalidate drops the cached snapshot. Called after a claim pass so
// the next read reflects the drained balances.
func (c *AggregateCache) Invalidate() {
	c.mu.Lock()
	c.snapshot = nil
	c.mu.Unlock()
}
