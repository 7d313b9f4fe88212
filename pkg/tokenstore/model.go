package tokenstore

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/agentmint/launchpad/pkg/launch"
)

// TokenDao is a data access object that maps directly to the 'tokens' table in PostgreSQL.
type TokenDao struct {
	bun.BaseModel    `bun:"table:tokens,alias:t"`
	ID               string          `bun:"id,pk,type:uuid"`
	Name             string          `bun:"name,notnull,type:varchar(100)"`
	Symbol           string          `bun:"symbol,notnull,type:varchar(10)"`
	TokenAddress     string          `bun:"token_address,unique,notnull,type:varchar(42)"`
	DeployTxHash     string          `bun:"deploy_tx_hash,notnull,type:varchar(66)"`
	RequesterAddress string          `bun:"requester_address,notnull,type:varchar(42)"`
	RequesterBps     int             `bun:"requester_bps,notnull"`
	PlatformBps      int             `bun:"platform_bps,notnull"`
	VaultPercent     int             `bun:"vault_percent,notnull,default:0"`
	TradingFeeBps    int             `bun:"trading_fee_bps,notnull"`
	ClaimedPaired    decimal.Decimal `bun:"claimed_paired,notnull,type:numeric(38,18),default:0"`
	ClaimedToken     decimal.Decimal `bun:"claimed_token,notnull,type:numeric(38,18),default:0"`
	Status           string          `bun:"status,notnull,type:varchar(16),default:'active'"`
	CreatedAt        time.Time       `bun:"created_at,nullzero,default:current_timestamp"`
	UpdatedAt        time.Time       `bun:"updated_at,nullzero,default:current_timestamp"`
}

// FeeClaimDao is a data access object that maps directly to the 'fee_claims' table in PostgreSQL.
// The table is an append-only ledger; rows are never updated or deleted.
type FeeClaimDao struct {
	bun.BaseModel `bun:"table:fee_claims,alias:fc"`
	ID            int64           `bun:"id,pk,autoincrement"`
	TokenAddress  string          `bun:"token_address,notnull,type:varchar(42)"`
	ClaimTxHash   string          `bun:"claim_tx_hash,notnull,type:varchar(66)"`
	PairedAmount  decimal.Decimal `bun:"paired_amount,notnull,type:numeric(38,18),default:0"`
	TokenAmount   decimal.Decimal `bun:"token_amount,notnull,type:numeric(38,18),default:0"`
	CreatedAt     time.Time       `bun:"created_at,nullzero,default:current_timestamp"`
}

// toTokenDao converts a launch.Token to TokenDao.
func toTokenDao(tok *launch.Token) *TokenDao {
	return &TokenDao{
		ID:               tok.ID,
		Name:             tok.Name,
		Symbol:           tok.Symbol,
		TokenAddress:     launch.NormalizeAddress(tok.Address),
		DeployTxHash:     tok.DeployTxHash,
		RequesterAddress: launch.NormalizeAddress(tok.Requester),
		RequesterBps:     tok.RequesterBps,
		PlatformBps:      tok.PlatformBps,
		VaultPercent:     tok.VaultPercent,
		TradingFeeBps:    tok.TradingFeeBps,
		ClaimedPaired:    tok.ClaimedPaired,
		ClaimedToken:     tok.ClaimedToken,
		Status:           string(tok.Status),
		CreatedAt:        tok.CreatedAt,
		UpdatedAt:        tok.UpdatedAt,
	}
}

// toToken converts a TokenDao to launch.Token.
func toToken(dao *TokenDao) *launch.Token {
	return &launch.Token{
		ID:            dao.ID,
		Name:          dao.Name,
		Symbol:        dao.Symbol,
		Address:       dao.TokenAddress,
		DeployTxHash:  dao.DeployTxHash,
		Requester:     dao.RequesterAddress,
		RequesterBps:  dao.RequesterBps,
		PlatformBps:   dao.PlatformBps,
		VaultPercent:  dao.VaultPercent,
		TradingFeeBps: dao.TradingFeeBps,
		ClaimedPaired: dao.ClaimedPaired,
		ClaimedToken:  dao.ClaimedToken,
		Status:        launch.Status(dao.Status),
		CreatedAt:     dao.CreatedAt,
		UpdatedAt:     dao.UpdatedAt,
	}
}

func toFeeClaimDao(claim *launch.FeeClaim) *FeeClaimDao {
	return &FeeClaimDao{
		TokenAddress: launch.NormalizeAddress(claim.TokenAddress),
		ClaimTxHash:  claim.TxHash,
		PairedAmount: claim.PairedAmount,
		TokenAmount:  claim.TokenAmount,
		CreatedAt:    claim.CreatedAt,
	}
}

func toFeeClaim(dao *FeeClaimDao) *launch.FeeClaim {
	return &launch.FeeClaim{
		ID:           dao.ID,
		TokenAddress: dao.TokenAddress,
		TxHash:       dao.ClaimTxHash,
		PairedAmount: dao.PairedAmount,
		TokenAmount:  dao.TokenAmount,
		CreatedAt:    dao.CreatedAt,
	}
}
