package fees

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentmint/launchpad/pkg/launch"
	"github.com/agentmint/launchpad/pkg/tokenstore"
)

var (
	platformAddr  = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	pairedAddr    = common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	requesterAddr = common.HexToAddress("0xcccccccccccccccccccccccccccccccccccccccc")
	tokenAddr     = common.HexToAddress("0xdddddddddddddddddddddddddddddddddddddddd")
)

func testToken() *launch.Token {
	return &launch.Token{
		Address:   launch.NormalizeAddress(tokenAddr.Hex()),
		Symbol:    "ORB",
		Requester: launch.NormalizeAddress(requesterAddr.Hex()),
		Status:    launch.StatusActive,
	}
}

func singleTokenStore(inserted **launch.FeeClaim) *mockStore {
	return &mockStore{
		getTokenFn: func(_ context.Context, address string) (*launch.Token, error) {
			return testToken(), nil
		},
		insertClaimFn: func(_ context.Context, claim *launch.FeeClaim) error {
			if inserted != nil {
				*inserted = claim
			}
			return nil
		},
	}
}

func TestClaimOneNothingClaimable(t *testing.T) {
	var inserted *launch.FeeClaim
	source := &mockSource{
		claimableFn: func(context.Context, common.Address, common.Address) (decimal.Decimal, error) {
			return decimal.Zero, nil
		},
	}
	claimer := &mockClaimer{
		claimFn: func(context.Context, common.Address, common.Address) (string, error) {
			t.Fatal("claim must not run when nothing is claimable")
			return "", nil
		},
	}

	engine := NewEngine(singleTokenStore(&inserted), source, claimer, platformAddr, pairedAddr, testLogger())

	claim, err := engine.ClaimOne(context.Background(), tokenAddr.Hex())
	require.NoError(t, err)
	assert.Nil(t, claim)
	assert.Nil(t, inserted)
}

func TestClaimOneBothRecipientsBothAssets(t *testing.T) {
	amounts := map[string]decimal.Decimal{
		legKey(tokenAddr, platformAddr):   decimal.NewFromInt(250),
		legKey(pairedAddr, platformAddr):  decimal.RequireFromString("1.5"),
		legKey(tokenAddr, requesterAddr):  decimal.NewFromInt(50),
		legKey(pairedAddr, requesterAddr): decimal.RequireFromString("0.5"),
	}
	source := &mockSource{
		claimableFn: func(_ context.Context, asset, recipient common.Address) (decimal.Decimal, error) {
			return amounts[legKey(asset, recipient)], nil
		},
	}

	claimCount := 0
	claimer := &mockClaimer{
		claimFn: func(_ context.Context, asset, recipient common.Address) (string, error) {
			claimCount++
			return fmt.Sprintf("0xtx%d", claimCount), nil
		},
	}

	var inserted *launch.FeeClaim
	engine := NewEngine(singleTokenStore(&inserted), source, claimer, platformAddr, pairedAddr, testLogger())

	claim, err := engine.ClaimOne(context.Background(), tokenAddr.Hex())
	require.NoError(t, err)
	require.NotNil(t, claim)

	assert.Equal(t, 4, claimCount)
	assert.Equal(t, "0xtx1", claim.TxHash)
	assert.True(t, claim.PairedAmount.Equal(decimal.NewFromInt(2)), "paired total %s", claim.PairedAmount)
	assert.True(t, claim.TokenAmount.Equal(decimal.NewFromInt(300)), "token total %s", claim.TokenAmount)
	assert.Equal(t, inserted, claim)
}

func TestClaimOnePlatformIsRequester(t *testing.T) {
	store := &mockStore{
		getTokenFn: func(context.Context, string) (*launch.Token, error) {
			tok := testToken()
			tok.Requester = launch.NormalizeAddress(platformAddr.Hex())
			return tok, nil
		},
	}

	lookups := 0
	source := &mockSource{
		claimableFn: func(context.Context, common.Address, common.Address) (decimal.Decimal, error) {
			lookups++
			return decimal.Zero, nil
		},
	}

	engine := NewEngine(store, source, &mockClaimer{}, platformAddr, pairedAddr, testLogger())

	_, err := engine.ClaimOne(context.Background(), tokenAddr.Hex())
	require.NoError(t, err)
	// one recipient, two assets
	assert.Equal(t, 2, lookups)
}

func TestClaimOneLookupFailureTreatedAsZero(t *testing.T) {
	source := &mockSource{
		claimableFn: func(_ context.Context, asset, recipient common.Address) (decimal.Decimal, error) {
			if recipient == requesterAddr {
				return decimal.Zero, errors.New("rpc timeout")
			}
			if asset == pairedAddr {
				return decimal.NewFromInt(1), nil
			}
			return decimal.Zero, nil
		},
	}
	claimer := &mockClaimer{
		claimFn: func(context.Context, common.Address, common.Address) (string, error) {
			return "0xtx1", nil
		},
	}

	var inserted *launch.FeeClaim
	engine := NewEngine(singleTokenStore(&inserted), source, claimer, platformAddr, pairedAddr, testLogger())

	claim, err := engine.ClaimOne(context.Background(), tokenAddr.Hex())
	require.NoError(t, err)
	require.NotNil(t, claim)
	assert.True(t, claim.PairedAmount.Equal(decimal.NewFromInt(1)))
	assert.True(t, claim.TokenAmount.IsZero())
}

func TestClaimOneAllClaimsFailIsNoOp(t *testing.T) {
	source := &mockSource{
		claimableFn: func(context.Context, common.Address, common.Address) (decimal.Decimal, error) {
			return decimal.NewFromInt(1), nil
		},
	}
	claimer := &mockClaimer{
		claimFn: func(context.Context, common.Address, common.Address) (string, error) {
			return "", errors.New("signer unavailable")
		},
	}

	var inserted *launch.FeeClaim
	engine := NewEngine(singleTokenStore(&inserted), source, claimer, platformAddr, pairedAddr, testLogger())

	claim, err := engine.ClaimOne(context.Background(), tokenAddr.Hex())
	require.NoError(t, err)
	assert.Nil(t, claim)
	assert.Nil(t, inserted)
}

func TestClaimAllBuckets(t *testing.T) {
	tokens := []*launch.Token{
		{Address: "0x0000000000000000000000000000000000000001", Requester: launch.NormalizeAddress(requesterAddr.Hex())},
		{Address: "0x0000000000000000000000000000000000000002", Requester: launch.NormalizeAddress(requesterAddr.Hex())},
		{Address: "0x0000000000000000000000000000000000000003", Requester: launch.NormalizeAddress(requesterAddr.Hex())},
	}

	store := &mockStore{
		listTokensFn: func(context.Context, ...tokenstore.QueryOption) ([]*launch.Token, error) {
			return tokens, nil
		},
		getTokenFn: func(_ context.Context, address string) (*launch.Token, error) {
			if address == tokens[2].Address {
				return nil, errors.New("connection reset")
			}
			for _, tok := range tokens {
				if tok.Address == address {
					return tok, nil
				}
			}
			return nil, tokenstore.ErrTokenNotFound
		},
	}

	source := &mockSource{
		claimableFn: func(_ context.Context, asset, recipient common.Address) (decimal.Decimal, error) {
			// only the first token has anything pending
			if asset == common.HexToAddress(tokens[0].Address) {
				return decimal.NewFromInt(5), nil
			}
			return decimal.Zero, nil
		},
	}
	claimer := &mockClaimer{
		claimFn: func(context.Context, common.Address, common.Address) (string, error) {
			return "0xtx1", nil
		},
	}

	engine := NewEngine(store, source, claimer, platformAddr, pairedAddr, testLogger())

	summary, err := engine.ClaimAll(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.Claimed, 1)
	assert.Equal(t, tokens[0].Address, summary.Claimed[0].TokenAddress)
	assert.Equal(t, []string{tokens[1].Address}, summary.Skipped)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, tokens[2].Address, summary.Errors[0].Address)
	assert.Contains(t, summary.Errors[0].Error, "connection reset")
	assert.Equal(t, len(tokens), len(summary.Claimed)+len(summary.Skipped)+len(summary.Errors))
	assert.True(t, summary.ClaimedToken.Equal(decimal.NewFromInt(10)))
}

func TestClaimAllFailedClaimsLandInSkipped(t *testing.T) {
	tok := &launch.Token{
		Address:   launch.NormalizeAddress(tokenAddr.Hex()),
		Requester: launch.NormalizeAddress(requesterAddr.Hex()),
	}
	store := &mockStore{
		listTokensFn: func(context.Context, ...tokenstore.QueryOption) ([]*launch.Token, error) {
			return []*launch.Token{tok}, nil
		},
		getTokenFn: func(context.Context, string) (*launch.Token, error) {
			return tok, nil
		},
	}
	source := &mockSource{
		claimableFn: func(context.Context, common.Address, common.Address) (decimal.Decimal, error) {
			return decimal.NewFromInt(1), nil
		},
	}
	claimer := &mockClaimer{
		claimFn: func(context.Context, common.Address, common.Address) (string, error) {
			return "", errors.New("signer unavailable")
		},
	}

	engine := NewEngine(store, source, claimer, platformAddr, pairedAddr, testLogger())

	summary, err := engine.ClaimAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, summary.Claimed)
	assert.Empty(t, summary.Errors)
	assert.Equal(t, []string{tok.Address}, summary.Skipped)
}

func legKey(asset, recipient common.Address) string {
	return asset.Hex() + "/" + recipient.Hex()
}
