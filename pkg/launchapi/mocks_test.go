package launchapi

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agentmint/launchpad/pkg/fees"
	"github.com/agentmint/launchpad/pkg/launch"
	"github.com/agentmint/launchpad/pkg/launcher"
	"github.com/agentmint/launchpad/pkg/ratelimit"
	"github.com/agentmint/launchpad/pkg/tokenstore"
)

type mockLauncher struct {
	launchFn    func(ctx context.Context, req *launch.Request) (*launcher.Result, error)
	validateFn  func(ctx context.Context, req *launch.Request) (*launch.ValidationResult, error)
	rateLimitFn func(ctx context.Context, requester string) (*ratelimit.Result, error)
}

func (m *mockLauncher) Launch(ctx context.Context, req *launch.Request) (*launcher.Result, error) {
	return m.launchFn(ctx, req)
}

func (m *mockLauncher) Validate(ctx context.Context, req *launch.Request) (*launch.ValidationResult, error) {
	return m.validateFn(ctx, req)
}

func (m *mockLauncher) CheckRateLimit(ctx context.Context, requester string) (*ratelimit.Result, error) {
	return m.rateLimitFn(ctx, requester)
}

type mockReader struct {
	getTokenFn        func(ctx context.Context, address string) (*launch.Token, error)
	listTokensFn      func(ctx context.Context, opts ...tokenstore.QueryOption) ([]*launch.Token, error)
	listByRequesterFn func(ctx context.Context, requester string) ([]*launch.Token, error)
	listClaimsFn      func(ctx context.Context, tokenAddress string) ([]*launch.FeeClaim, error)
	setStatusFn       func(ctx context.Context, address string, status launch.Status) error
	statsFn           func(ctx context.Context, since *time.Time) (*launch.Stats, error)
}

func (m *mockReader) GetTokenByAddress(ctx context.Context, address string) (*launch.Token, error) {
	return m.getTokenFn(ctx, address)
}

func (m *mockReader) ListTokens(ctx context.Context, opts ...tokenstore.QueryOption) ([]*launch.Token, error) {
	return m.listTokensFn(ctx, opts...)
}

func (m *mockReader) ListTokensByRequester(ctx context.Context, requester string) ([]*launch.Token, error) {
	return m.listByRequesterFn(ctx, requester)
}

func (m *mockReader) ListClaims(ctx context.Context, tokenAddress string) ([]*launch.FeeClaim, error) {
	return m.listClaimsFn(ctx, tokenAddress)
}

func (m *mockReader) SetTokenStatus(ctx context.Context, address string, status launch.Status) error {
	return m.setStatusFn(ctx, address, status)
}

func (m *mockReader) AggregateStats(ctx context.Context, since *time.Time) (*launch.Stats, error) {
	return m.statsFn(ctx, since)
}

type mockClaimer struct {
	claimOneFn func(ctx context.Context, tokenAddress string) (*launch.FeeClaim, error)
	claimAllFn func(ctx context.Context) (*fees.Summary, error)
}

func (m *mockClaimer) ClaimOne(ctx context.Context, tokenAddress string) (*launch.FeeClaim, error) {
	return m.claimOneFn(ctx, tokenAddress)
}

func (m *mockClaimer) ClaimAll(ctx context.Context) (*fees.Summary, error) {
	return m.claimAllFn(ctx)
}

type mockAggregator struct {
	getFn       func(ctx context.Context) (*fees.Snapshot, error)
	invalidated int
}

func (m *mockAggregator) Get(ctx context.Context) (*fees.Snapshot, error) {
	return m.getFn(ctx)
}

func (m *mockAggregator) Invalidate() {
	m.invalidated++
}

func sampleToken() *launch.Token {
	return &launch.Token{
		ID:            "8b8f4a8e-3a1f-4a65-9f4e-0c3b8f1d2e11",
		Name:          "Orbit Token",
		Symbol:        "ORB",
		Address:       "0x4444444444444444444444444444444444444444",
		DeployTxHash:  "0xabc",
		Requester:     "0x1111111111111111111111111111111111111111",
		RequesterBps:  8000,
		PlatformBps:   2000,
		TradingFeeBps: 100,
		ClaimedPaired: decimal.Zero,
		ClaimedToken:  decimal.Zero,
		Status:        launch.StatusActive,
	}
}
