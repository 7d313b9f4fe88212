package fees

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/agentmint/launchpad/pkg/launch"
	"github.com/agentmint/launchpad/pkg/tokenstore"
)

type mockStore struct {
	getTokenFn    func(ctx context.Context, address string) (*launch.Token, error)
	listTokensFn  func(ctx context.Context, opts ...tokenstore.QueryOption) ([]*launch.Token, error)
	insertClaimFn func(ctx context.Context, claim *launch.FeeClaim) error
}

func (m *mockStore) GetTokenByAddress(ctx context.Context, address string) (*launch.Token, error) {
	return m.getTokenFn(ctx, address)
}

func (m *mockStore) ListTokens(ctx context.Context, opts ...tokenstore.QueryOption) ([]*launch.Token, error) {
	return m.listTokensFn(ctx, opts...)
}

func (m *mockStore) InsertClaimAndIncrementTotals(ctx context.Context, claim *launch.FeeClaim) error {
	if m.insertClaimFn != nil {
		return m.insertClaimFn(ctx, claim)
	}
	return nil
}

type mockSource struct {
	claimableFn func(ctx context.Context, asset, recipient common.Address) (decimal.Decimal, error)
}

func (m *mockSource) ClaimableAmount(ctx context.Context, asset, recipient common.Address) (decimal.Decimal, error) {
	return m.claimableFn(ctx, asset, recipient)
}

type mockClaimer struct {
	claimFn func(ctx context.Context, asset, recipient common.Address) (string, error)
}

func (m *mockClaimer) Claim(ctx context.Context, asset, recipient common.Address) (string, error) {
	return m.claimFn(ctx, asset, recipient)
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
