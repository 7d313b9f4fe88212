package fees

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/agentmint/launchpad/internal/metrics"
	"github.com/agentmint/launchpad/pkg/launch"
	"github.com/agentmint/launchpad/pkg/tokenstore"
)

// Engine claims fee revenue for issued tokens and records each claim
// pass in the ledger.
type Engine struct {
	store   Store
	source  FeeSource
	claimer FeeClaimer
	// platform fee recipient; fees for other reward recipients are
	// claimable by those recipients directly, not by this service.
	platform common.Address
	paired   common.Address
	logger   *zap.Logger

	// the deploy service signs every claim with one wallet
	claimMu sync.Mutex
}

// NewEngine creates a fee claim engine.
func NewEngine(
	store Store,
	source FeeSource,
	claimer FeeClaimer,
	platform common.Address,
	paired common.Address,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		store:    store,
		source:   source,
		claimer:  claimer,
		platform: platform,
		paired:   paired,
		logger:   logger,
	}
}

// ClaimOne claims everything currently owed for one token: the platform
// recipient and the requester, on the issued asset and the paired
// asset. A lookup failure on one leg is treated as zero claimable and
// never blocks the other legs. When no claim transaction resulted,
// whether nothing was claimable or every claim attempt failed, the pass
// is a no-op: no ledger row, no totals change, nil result.
func (e *Engine) ClaimOne(ctx context.Context, tokenAddress string) (*launch.FeeClaim, error) {
	tok, err := e.store.GetTokenByAddress(ctx, tokenAddress)
	if err != nil {
		return nil, err
	}

	recipients := []common.Address{e.platform}
	requester := common.HexToAddress(tok.Requester)
	if requester != e.platform {
		recipients = append(recipients, requester)
	}

	tokenAsset := common.HexToAddress(tok.Address)

	e.claimMu.Lock()
	defer e.claimMu.Unlock()

	var (
		pairedTotal = decimal.Zero
		tokenTotal  = decimal.Zero
		firstTxID   string
		legErrs     int
	)

	for _, recipient := range recipients {
		for _, asset := range []common.Address{tokenAsset, e.paired} {
			amount := e.claimable(ctx, asset, recipient)
			if amount.IsZero() {
				continue
			}

			txID, err := e.claimer.Claim(ctx, asset, recipient)
			if err != nil {
				legErrs++
				e.logger.Error("fee claim failed",
					zap.String("token", tok.Address),
					zap.String("asset", asset.Hex()),
					zap.String("recipient", recipient.Hex()),
					zap.Error(err),
				)
				continue
			}
			if firstTxID == "" {
				firstTxID = txID
			}

			if asset == e.paired {
				pairedTotal = pairedTotal.Add(amount)
				metrics.ClaimedAmount.WithLabelValues("paired").Add(amount.InexactFloat64())
			} else {
				tokenTotal = tokenTotal.Add(amount)
				metrics.ClaimedAmount.WithLabelValues("token").Add(amount.InexactFloat64())
			}
		}
	}

	if firstTxID == "" {
		if legErrs > 0 {
			e.logger.Warn("no fees claimed, every claim attempt failed",
				zap.String("token", tok.Address),
				zap.Int("failed_legs", legErrs),
			)
		}
		return nil, nil
	}

	claim := &launch.FeeClaim{
		TokenAddress: tok.Address,
		TxHash:       firstTxID,
		PairedAmount: pairedTotal,
		TokenAmount:  tokenTotal,
	}
	if err := e.store.InsertClaimAndIncrementTotals(ctx, claim); err != nil {
		return nil, err
	}

	e.logger.Info("fees claimed",
		zap.String("token", tok.Address),
		zap.String("tx_hash", firstTxID),
		zap.String("paired_amount", pairedTotal.String()),
		zap.String("token_amount", tokenTotal.String()),
	)
	return claim, nil
}

// claimable reads one leg's claimable amount, treating lookup failures
// and negative amounts as zero.
func (e *Engine) claimable(ctx context.Context, asset, recipient common.Address) decimal.Decimal {
	amount, err := e.source.ClaimableAmount(ctx, asset, recipient)
	if err != nil {
		metrics.FeeLookupFailures.Inc()
		e.logger.Warn("claimable lookup failed, treating as zero",
			zap.String("asset", asset.Hex()),
			zap.String("recipient", recipient.Hex()),
			zap.Error(err),
		)
		return decimal.Zero
	}
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// ClaimAll runs ClaimOne across every active token. Tokens are
// processed sequentially; a failure on one token never stops the pass.
func (e *Engine) ClaimAll(ctx context.Context) (*Summary, error) {
	tokens, err := e.store.ListTokens(ctx, tokenstore.WithStatus(launch.StatusActive))
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Claimed:       []*launch.FeeClaim{},
		Skipped:       []string{},
		Errors:        []ClaimError{},
		ClaimedPaired: decimal.Zero,
		ClaimedToken:  decimal.Zero,
	}

	for _, tok := range tokens {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}

		claim, err := e.ClaimOne(ctx, tok.Address)
		switch {
		case err != nil:
			summary.Errors = append(summary.Errors, ClaimError{
				Address: tok.Address,
				Error:   err.Error(),
			})
			metrics.ClaimsTotal.WithLabelValues("failed").Inc()
			e.logger.Error("claim pass failed for token",
				zap.String("token", tok.Address),
				zap.Error(err),
			)
		case claim == nil:
			summary.Skipped = append(summary.Skipped, tok.Address)
			metrics.ClaimsTotal.WithLabelValues("skipped").Inc()
		default:
			summary.Claimed = append(summary.Claimed, claim)
			metrics.ClaimsTotal.WithLabelValues("claimed").Inc()
			summary.ClaimedPaired = summary.ClaimedPaired.Add(claim.PairedAmount)
			summary.ClaimedToken = summary.ClaimedToken.Add(claim.TokenAmount)
		}
	}

	e.logger.Info("claim pass completed",
		zap.Int("claimed", len(summary.Claimed)),
		zap.Int("skipped", len(summary.Skipped)),
		zap.Int("errors", len(summary.Errors)),
	)
	return summary, nil
}
