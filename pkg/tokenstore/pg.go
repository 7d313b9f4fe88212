package tokenstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/agentmint/launchpad/pkg/launch"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the token store
func NewStore(db *bun.DB) Store {
	return &pgStore{db: db}
}

// sortColumns whitelists sortable columns for ListTokens.
var sortColumns = map[string]bool{
	"created_at":     true,
	"symbol":         true,
	"name":           true,
	"claimed_paired": true,
}

func (s *pgStore) InsertToken(ctx context.Context, tok *launch.Token) error {
	dao := toTokenDao(tok)

	_, err := s.db.NewInsert().
		Model(dao).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert token: %w", err)
	}

	return nil
}

func (s *pgStore) GetTokenByAddress(ctx context.Context, address string) (*launch.Token, error) {
	dao := new(TokenDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("token_address = ?", launch.NormalizeAddress(address)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	return toToken(dao), nil
}

func (s *pgStore) ListTokens(ctx context.Context, opts ...QueryOption) ([]*launch.Token, error) {
	options := &QueryOptions{}
	for _, opt := range opts {
		opt(options)
	}

	var daos []TokenDao
	query := s.db.NewSelect().Model(&daos)

	if options.Status != nil {
		query = query.Where("status = ?", string(*options.Status))
	}

	sortBy := options.SortBy
	if !sortColumns[sortBy] {
		sortBy = "created_at"
	}
	query = query.OrderExpr("? DESC", bun.Ident(sortBy))

	if options.Limit > 0 {
		query = query.Limit(options.Limit)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}

	tokens := make([]*launch.Token, len(daos))
	for i := range daos {
		tokens[i] = toToken(&daos[i])
	}
	return tokens, nil
}

func (s *pgStore) ListTokensByRequester(ctx context.Context, requester string) ([]*launch.Token, error) {
	var daos []TokenDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("requester_address = ?", launch.NormalizeAddress(requester)).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens by requester: %w", err)
	}

	tokens := make([]*launch.Token, len(daos))
	for i := range daos {
		tokens[i] = toToken(&daos[i])
	}
	return tokens, nil
}

func (s *pgStore) SetTokenStatus(ctx context.Context, address string, status launch.Status) error {
	res, err := s.db.NewUpdate().
		Model((*TokenDao)(nil)).
		Set("status = ?", string(status)).
		Set("updated_at = now()").
		Where("token_address = ?", launch.NormalizeAddress(address)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set token status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrTokenNotFound
	}
	return nil
}

func (s *pgStore) LastLaunchAt(ctx context.Context, requester string) (*time.Time, error) {
	var last sql.NullTime
	err := s.db.NewSelect().
		Model((*TokenDao)(nil)).
		ColumnExpr("max(created_at)").
		Where("requester_address = ?", launch.NormalizeAddress(requester)).
		Scan(ctx, &last)
	if err != nil {
		return nil, fmt.Errorf("failed to get last launch time: %w", err)
	}
	if !last.Valid {
		return nil, nil
	}
	return &last.Time, nil
}

func (s *pgStore) SymbolInUse(ctx context.Context, symbol string) (bool, error) {
	exists, err := s.db.NewSelect().
		Model((*TokenDao)(nil)).
		Where("lower(symbol) = lower(?)", symbol).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check symbol: %w", err)
	}
	return exists, nil
}

func (s *pgStore) InsertClaimAndIncrementTotals(ctx context.Context, claim *launch.FeeClaim) error {
	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		dao := toFeeClaimDao(claim)
		if _, err := tx.NewInsert().Model(dao).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert fee claim: %w", err)
		}
		claim.ID = dao.ID

		res, err := tx.NewUpdate().
			Model((*TokenDao)(nil)).
			Set("claimed_paired = claimed_paired + ?", claim.PairedAmount).
			Set("claimed_token = claimed_token + ?", claim.TokenAmount).
			Set("updated_at = now()").
			Where("token_address = ?", launch.NormalizeAddress(claim.TokenAddress)).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to increment claimed totals: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if affected == 0 {
			return ErrTokenNotFound
		}
		return nil
	})
}

func (s *pgStore) ListClaims(ctx context.Context, tokenAddress string) ([]*launch.FeeClaim, error) {
	var daos []FeeClaimDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("token_address = ?", launch.NormalizeAddress(tokenAddress)).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fee claims: %w", err)
	}

	claims := make([]*launch.FeeClaim, len(daos))
	for i := range daos {
		claims[i] = toFeeClaim(&daos[i])
	}
	return claims, nil
}

func (s *pgStore) AggregateStats(ctx context.Context, since *time.Time) (*launch.Stats, error) {
	stats := &launch.Stats{}

	query := s.db.NewSelect().
		Model((*TokenDao)(nil)).
		ColumnExpr("count(*)").
		ColumnExpr("count(*) FILTER (WHERE status = ?)", string(launch.StatusActive)).
		ColumnExpr("coalesce(sum(claimed_paired), 0)").
		ColumnExpr("coalesce(sum(claimed_token), 0)")

	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}

	err := query.Scan(ctx,
		&stats.TokenCount,
		&stats.ActiveTokenCount,
		&stats.TotalClaimedPaired,
		&stats.TotalClaimedToken,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read aggregate stats: %w", err)
	}

	return stats, nil
}
