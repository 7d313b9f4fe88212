package fees

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentmint/launchpad/pkg/launch"
	"github.com/agentmint/launchpad/pkg/tokenstore"
)

func cacheFixture(source FeeSource, tokens []*launch.Token) *AggregateCache {
	store := &mockStore{
		listTokensFn: func(context.Context, ...tokenstore.QueryOption) ([]*launch.Token, error) {
			return tokens, nil
		},
	}
	return NewAggregateCache(
		store, source, platformAddr, pairedAddr,
		5*time.Minute, 2, decimal.NewFromInt(10), testLogger(),
	)
}

func TestAggregateSnapshot(t *testing.T) {
	tokens := []*launch.Token{
		{Address: "0x0000000000000000000000000000000000000001", Symbol: "AAA", Requester: launch.NormalizeAddress(requesterAddr.Hex())},
		{Address: "0x0000000000000000000000000000000000000002", Symbol: "BBB", Requester: launch.NormalizeAddress(requesterAddr.Hex())},
	}

	source := &mockSource{
		claimableFn: func(_ context.Context, asset, recipient common.Address) (decimal.Decimal, error) {
			if asset == pairedAddr {
				return decimal.RequireFromString("0.25"), nil
			}
			return decimal.NewFromInt(2), nil
		},
	}

	cache := cacheFixture(source, tokens)

	snap, err := cache.Get(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Tokens, 2)

	// two recipients per token, paired leg 0.25 each
	assert.True(t, snap.Tokens[0].Paired.Equal(decimal.RequireFromString("0.5")))
	assert.True(t, snap.Tokens[0].Token.Equal(decimal.NewFromInt(4)))
	assert.True(t, snap.TotalPaired.Equal(decimal.NewFromInt(1)))
	assert.True(t, snap.TotalToken.Equal(decimal.NewFromInt(8)))
	assert.Equal(t, "AAA", snap.Tokens[0].Symbol)
}

func TestAggregateServedFromCacheUntilTTL(t *testing.T) {
	tokens := []*launch.Token{
		{Address: "0x0000000000000000000000000000000000000001", Requester: launch.NormalizeAddress(requesterAddr.Hex())},
	}

	lookups := 0
	source := &mockSource{
		claimableFn: func(context.Context, common.Address, common.Address) (decimal.Decimal, error) {
			lookups++
			return decimal.NewFromInt(1), nil
		},
	}

	cache := cacheFixture(source, tokens)

	first, err := cache.Get(context.Background())
	require.NoError(t, err)
	afterFirst := lookups

	second, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, afterFirst, lookups, "second read must not hit the fee source")
	assert.Same(t, first, second)

	cache.Invalidate()
	_, err = cache.Get(context.Background())
	require.NoError(t, err)
	assert.Greater(t, lookups, afterFirst)
}

func TestAggregateExpiredSnapshotRebuilt(t *testing.T) {
	tokens := []*launch.Token{
		{Address: "0x0000000000000000000000000000000000000001", Requester: launch.NormalizeAddress(requesterAddr.Hex())},
	}
	source := &mockSource{
		claimableFn: func(context.Context, common.Address, common.Address) (decimal.Decimal, error) {
			return decimal.NewFromInt(1), nil
		},
	}

	cache := cacheFixture(source, tokens)

	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }

	first, err := cache.Get(context.Background())
	require.NoError(t, err)

	current = current.Add(6 * time.Minute)
	second, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, current, second.GeneratedAt)
}

func TestAggregateAnomalyExcludedNotFatal(t *testing.T) {
	tokens := []*launch.Token{
		{Address: "0x0000000000000000000000000000000000000001", Requester: launch.NormalizeAddress(requesterAddr.Hex())},
		{Address: "0x0000000000000000000000000000000000000002", Requester: launch.NormalizeAddress(requesterAddr.Hex())},
	}

	source := &mockSource{
		claimableFn: func(_ context.Context, asset, recipient common.Address) (decimal.Decimal, error) {
			if asset == common.HexToAddress(tokens[0].Address) {
				// far above the 10 unit ceiling
				return decimal.NewFromInt(1_000_000), nil
			}
			if asset == pairedAddr {
				return decimal.NewFromInt(1), nil
			}
			return decimal.Zero, nil
		},
	}

	cache := cacheFixture(source, tokens)

	snap, err := cache.Get(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Tokens, 2)

	// the anomalous token leg contributes zero, its paired legs survive
	assert.True(t, snap.Tokens[0].Token.IsZero())
	assert.True(t, snap.Tokens[0].Paired.Equal(decimal.NewFromInt(2)))
	assert.True(t, snap.TotalPaired.Equal(decimal.NewFromInt(4)))
}

func TestAggregateLookupErrorTreatedAsZero(t *testing.T) {
	tokens := []*launch.Token{
		{Address: "0x0000000000000000000000000000000000000001", Requester: launch.NormalizeAddress(requesterAddr.Hex())},
	}

	source := &mockSource{
		claimableFn: func(_ context.Context, asset, recipient common.Address) (decimal.Decimal, error) {
			if asset == pairedAddr {
				return decimal.Zero, errors.New("rpc timeout")
			}
			return decimal.NewFromInt(3), nil
		},
	}

	cache := cacheFixture(source, tokens)

	snap, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.TotalPaired.IsZero())
	assert.True(t, snap.TotalToken.Equal(decimal.NewFromInt(6)))
}
