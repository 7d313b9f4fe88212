package tokenstore

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentmint/launchpad/pkg/launch"
	"github.com/agentmint/launchpad/pkg/pgutil"
	mghelper "github.com/agentmint/launchpad/pkg/pgutil/migrations"
)

func setupStore(t *testing.T) Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping testcontainers test in short mode")
	}

	db, cleanup := pgutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	ctx := context.Background()
	require.NoError(t, mghelper.CreateSchema(ctx, db, &TokenDao{}, &FeeClaimDao{}))

	return NewStore(db)
}

func newToken(requester, address, symbol string) *launch.Token {
	return &launch.Token{
		ID:            uuid.NewString(),
		Name:          "Test Agent",
		Symbol:        symbol,
		Address:       address,
		DeployTxHash:  "0xabc0000000000000000000000000000000000000000000000000000000000001",
		Requester:     requester,
		RequesterBps:  8000,
		PlatformBps:   2000,
		TradingFeeBps: 100,
		Status:        launch.StatusActive,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
}

func TestPgStore_InsertAndGetToken(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	tok := newToken(
		"0x1111111111111111111111111111111111111111",
		"0xAAAA567890123456789012345678901234567890",
		"TST",
	)
	require.NoError(t, store.InsertToken(ctx, tok))

	// Lookup is case-insensitive via normalization.
	got, err := store.GetTokenByAddress(ctx, "0xaaaa567890123456789012345678901234567890")
	require.NoError(t, err)
	assert.Equal(t, tok.ID, got.ID)
	assert.Equal(t, "TST", got.Symbol)
	assert.Equal(t, launch.StatusActive, got.Status)
	assert.True(t, got.ClaimedPaired.IsZero())

	_, err = store.GetTokenByAddress(ctx, "0x9999999999999999999999999999999999999999")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestPgStore_SymbolInUse(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	tok := newToken(
		"0x1111111111111111111111111111111111111111",
		"0xAAAA567890123456789012345678901234567890",
		"ABC",
	)
	require.NoError(t, store.InsertToken(ctx, tok))

	inUse, err := store.SymbolInUse(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, inUse, "symbol check must be case-insensitive")

	inUse, err = store.SymbolInUse(ctx, "XYZ")
	require.NoError(t, err)
	assert.False(t, inUse)
}

func TestPgStore_LastLaunchAt(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	requester := "0x1111111111111111111111111111111111111111"

	last, err := store.LastLaunchAt(ctx, requester)
	require.NoError(t, err)
	assert.Nil(t, last, "no launches yet")

	older := newToken(requester, "0xAAAA567890123456789012345678901234567890", "OLD")
	older.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, store.InsertToken(ctx, older))

	newer := newToken(requester, "0xBBBB567890123456789012345678901234567890", "NEW")
	newer.CreatedAt = time.Now().UTC().Add(-1 * time.Hour)
	require.NoError(t, store.InsertToken(ctx, newer))

	last, err = store.LastLaunchAt(ctx, requester)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.WithinDuration(t, newer.CreatedAt, *last, 2*time.Second)
}

func TestPgStore_InsertClaimAndIncrementTotals(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	tok := newToken(
		"0x1111111111111111111111111111111111111111",
		"0xAAAA567890123456789012345678901234567890",
		"TST",
	)
	require.NoError(t, store.InsertToken(ctx, tok))

	claim := &launch.FeeClaim{
		TokenAddress: tok.Address,
		TxHash:       "0xdef0000000000000000000000000000000000000000000000000000000000001",
		PairedAmount: decimal.RequireFromString("1.5"),
		TokenAmount:  decimal.RequireFromString("250"),
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, store.InsertClaimAndIncrementTotals(ctx, claim))
	assert.NotZero(t, claim.ID)

	second := &launch.FeeClaim{
		TokenAddress: tok.Address,
		TxHash:       "0xdef0000000000000000000000000000000000000000000000000000000000002",
		PairedAmount: decimal.RequireFromString("0.5"),
		TokenAmount:  decimal.RequireFromString("50"),
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, store.InsertClaimAndIncrementTotals(ctx, second))

	got, err := store.GetTokenByAddress(ctx, tok.Address)
	require.NoError(t, err)
	assert.True(t, got.ClaimedPaired.Equal(decimal.RequireFromString("2")),
		"claimed paired = %s", got.ClaimedPaired)
	assert.True(t, got.ClaimedToken.Equal(decimal.RequireFromString("300")),
		"claimed token = %s", got.ClaimedToken)

	claims, err := store.ListClaims(ctx, tok.Address)
	require.NoError(t, err)
	assert.Len(t, claims, 2)
}

func TestPgStore_ClaimForUnknownTokenFails(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	claim := &launch.FeeClaim{
		TokenAddress: "0x9999999999999999999999999999999999999999",
		TxHash:       "0xdef0000000000000000000000000000000000000000000000000000000000001",
		PairedAmount: decimal.NewFromInt(1),
		TokenAmount:  decimal.Zero,
		CreatedAt:    time.Now().UTC(),
	}
	err := store.InsertClaimAndIncrementTotals(ctx, claim)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestPgStore_ListTokensWithFilters(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	active := newToken("0x1111111111111111111111111111111111111111", "0xAAAA567890123456789012345678901234567890", "AAA")
	require.NoError(t, store.InsertToken(ctx, active))

	retired := newToken("0x2222222222222222222222222222222222222222", "0xBBBB567890123456789012345678901234567890", "BBB")
	require.NoError(t, store.InsertToken(ctx, retired))
	require.NoError(t, store.SetTokenStatus(ctx, retired.Address, launch.StatusInactive))

	all, err := store.ListTokens(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	activeOnly, err := store.ListTokens(ctx, WithStatus(launch.StatusActive))
	require.NoError(t, err)
	require.Len(t, activeOnly, 1)
	assert.Equal(t, "AAA", activeOnly[0].Symbol)

	byRequester, err := store.ListTokensByRequester(ctx, "0x2222222222222222222222222222222222222222")
	require.NoError(t, err)
	require.Len(t, byRequester, 1)
	assert.Equal(t, "BBB", byRequester[0].Symbol)
	assert.Equal(t, launch.StatusInactive, byRequester[0].Status)
}

func TestPgStore_AggregateStats(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	tok := newToken("0x1111111111111111111111111111111111111111", "0xAAAA567890123456789012345678901234567890", "TST")
	require.NoError(t, store.InsertToken(ctx, tok))

	claim := &launch.FeeClaim{
		TokenAddress: tok.Address,
		TxHash:       "0xdef0000000000000000000000000000000000000000000000000000000000001",
		PairedAmount: decimal.RequireFromString("3.25"),
		TokenAmount:  decimal.RequireFromString("100"),
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, store.InsertClaimAndIncrementTotals(ctx, claim))

	stats, err := store.AggregateStats(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TokenCount)
	assert.Equal(t, 1, stats.ActiveTokenCount)
	assert.True(t, stats.TotalClaimedPaired.Equal(decimal.RequireFromString("3.25")))

	// A window starting in the future excludes everything.
	future := time.Now().UTC().Add(time.Hour)
	stats, err = store.AggregateStats(ctx, &future)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TokenCount)
	assert.True(t, stats.TotalClaimedPaired.IsZero())
}
