package launcher

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/agentmint/launchpad/pkg/deployer"
	"github.com/agentmint/launchpad/pkg/identity"
	"github.com/agentmint/launchpad/pkg/launch"
	"github.com/agentmint/launchpad/pkg/ratelimit"
)

type mockStore struct {
	insertTokenFn func(ctx context.Context, tok *launch.Token) error
	symbolInUseFn func(ctx context.Context, symbol string) (bool, error)
}

func (m *mockStore) InsertToken(ctx context.Context, tok *launch.Token) error {
	if m.insertTokenFn != nil {
		return m.insertTokenFn(ctx, tok)
	}
	return nil
}

func (m *mockStore) SymbolInUse(ctx context.Context, symbol string) (bool, error) {
	if m.symbolInUseFn != nil {
		return m.symbolInUseFn(ctx, symbol)
	}
	return false, nil
}

type mockDeployer struct {
	deployFn func(ctx context.Context, req *deployer.Request) (*deployer.Receipt, error)
}

func (m *mockDeployer) Deploy(ctx context.Context, req *deployer.Request) (*deployer.Receipt, error) {
	return m.deployFn(ctx, req)
}

type mockLimiter struct {
	checkFn func(ctx context.Context, requester string) (*ratelimit.Result, error)
}

func (m *mockLimiter) Check(ctx context.Context, requester string) (*ratelimit.Result, error) {
	if m.checkFn != nil {
		return m.checkFn(ctx, requester)
	}
	return &ratelimit.Result{Allowed: true}, nil
}

type mockVerifier struct {
	verifyFn func(ctx context.Context, requester common.Address, externalID string) (*identity.Identity, error)
}

func (m *mockVerifier) Verify(ctx context.Context, requester common.Address, externalID string) (*identity.Identity, error) {
	if m.verifyFn != nil {
		return m.verifyFn(ctx, requester, externalID)
	}
	return &identity.Identity{Requester: requester}, nil
}

func confirmedReceipt(txHash string, tokenAddr common.Address) *deployer.Receipt {
	return deployer.NewReceipt(txHash, func(context.Context) (common.Address, error) {
		return tokenAddr, nil
	})
}

func fixedTime() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}
