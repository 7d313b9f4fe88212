// Package launcher orchestrates token launches: validation, cooldown,
// identity, fee allocation, deployment, and the ledger record.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/agentmint/launchpad/internal/metrics"
	apperrors "github.com/agentmint/launchpad/pkg/app/errors"
	"github.com/agentmint/launchpad/pkg/config"
	"github.com/agentmint/launchpad/pkg/deployer"
	"github.com/agentmint/launchpad/pkg/identity"
	"github.com/agentmint/launchpad/pkg/launch"
	"github.com/agentmint/launchpad/pkg/ratelimit"
	"github.com/agentmint/launchpad/pkg/rewards"
)

const secondsPerDay = 24 * 60 * 60

// Store is the slice of the token store the launcher writes and reads.
type Store interface {
	InsertToken(ctx context.Context, tok *launch.Token) error
	SymbolInUse(ctx context.Context, symbol string) (bool, error)
}

// Deployer submits deployment configurations to the deploy service.
type Deployer interface {
	Deploy(ctx context.Context, req *deployer.Request) (*deployer.Receipt, error)
}

// Limiter checks the per-requester launch cooldown.
type Limiter interface {
	Check(ctx context.Context, requester string) (*ratelimit.Result, error)
}

// Result is a completed launch: the persisted token record plus the
// fee revenue allocation, labels included, as deployed.
type Result struct {
	Token   *launch.Token       `json:"token"`
	Rewards []rewards.Recipient `json:"rewards"`
}

// Service handles token launch requests.
type Service interface {
	// Launch runs the full launch flow and blocks until the deployment
	// confirms or fails.
	Launch(ctx context.Context, req *launch.Request) (*Result, error)
	// Validate runs the validation pass only, with no side effects.
	Validate(ctx context.Context, req *launch.Request) (*launch.ValidationResult, error)
	// CheckRateLimit reports the requester's cooldown state.
	CheckRateLimit(ctx context.Context, requester string) (*ratelimit.Result, error)
}

type service struct {
	store    Store
	deployer Deployer
	limiter  Limiter
	verifier identity.Verifier
	platform config.PlatformConfig
	paired   common.Address
	vanity   bool
	now      func() time.Time
}

// NewService creates the launch orchestrator.
func NewService(
	store Store,
	dep Deployer,
	limiter Limiter,
	verifier identity.Verifier,
	platformCfg config.PlatformConfig,
	deployerCfg config.DeployerConfig,
) Service {
	return &service{
		store:    store,
		deployer: dep,
		limiter:  limiter,
		verifier: verifier,
		platform: platformCfg,
		paired:   common.HexToAddress(deployerCfg.PairedAsset),
		vanity:   platformCfg.VanitySuffix,
		now:      time.Now,
	}
}

func (s *service) policy() launch.Policy {
	return launch.Policy{
		PlatformFeeBps:       s.platform.FeeBps,
		DefaultTradingFeeBps: s.platform.TradingFeeBps,
	}
}

func (s *service) Validate(ctx context.Context, req *launch.Request) (*launch.ValidationResult, error) {
	symbolInUse := false
	if req.Symbol != "" {
		var err error
		symbolInUse, err = s.store.SymbolInUse(ctx, req.Symbol)
		if err != nil {
			return nil, apperrors.GeneralError(fmt.Errorf("failed to check symbol usage: %w", err))
		}
	}
	res := launch.Validate(req, s.policy(), symbolInUse)
	return &res, nil
}

func (s *service) CheckRateLimit(ctx context.Context, requester string) (*ratelimit.Result, error) {
	if !common.IsHexAddress(requester) {
		return nil, apperrors.BadRequestError(nil, "requester must be a valid 0x-prefixed address")
	}
	res, err := s.limiter.Check(ctx, requester)
	if err != nil {
		return nil, apperrors.GeneralError(err)
	}
	return res, nil
}

func (s *service) Launch(ctx context.Context, req *launch.Request) (*Result, error) {
	start := s.now()

	res, err := s.launch(ctx, req)
	if err != nil {
		metrics.LaunchesTotal.WithLabelValues(launchOutcome(err)).Inc()
		return nil, err
	}

	metrics.LaunchesTotal.WithLabelValues("issued").Inc()
	metrics.LaunchDuration.Observe(s.now().Sub(start).Seconds())
	return res, nil
}

func (s *service) launch(ctx context.Context, req *launch.Request) (*Result, error) {
	validation, err := s.Validate(ctx, req)
	if err != nil {
		return nil, err
	}
	if !validation.Valid {
		return nil, apperrors.BadRequestError(
			fmt.Errorf("launch request invalid: %s", strings.Join(validation.Errors, "; ")),
			strings.Join(validation.Errors, "; "),
		)
	}

	requester := common.HexToAddress(req.Requester)

	limit, err := s.limiter.Check(ctx, req.Requester)
	if err != nil {
		return nil, apperrors.GeneralError(err)
	}
	if !limit.Allowed {
		return nil, apperrors.RateLimitedError(nil,
			fmt.Sprintf("launch cooldown active, next launch allowed at %s",
				limit.NextAllowedAt.UTC().Format(time.RFC3339)))
	}

	ident, err := s.verifier.Verify(ctx, requester, req.ExternalID)
	if err != nil {
		return nil, apperrors.DependencyError(err, "identity registry unavailable")
	}
	if ident == nil {
		return nil, apperrors.ForbiddenError(nil, "requester identity is not registered")
	}

	allocation, err := rewards.Build(requester, req.FeeSplits, rewards.Platform{
		FeeRecipient: common.HexToAddress(s.platform.FeeRecipient),
		Admin:        s.platformAdmin(),
		Bps:          s.platform.FeeBps,
	})
	if err != nil {
		return nil, apperrors.BadRequestError(err, err.Error())
	}

	deployReq := s.buildDeployRequest(req, requester, ident, validation.Normalized, allocation)

	receipt, err := s.deployer.Deploy(ctx, deployReq)
	if err != nil {
		var rejected *deployer.RejectedError
		if errors.As(err, &rejected) {
			return nil, apperrors.BadRequestError(err,
				fmt.Sprintf("deployment rejected: %s", rejected.Reason))
		}
		return nil, classifyDeployFault(err)
	}

	tokenAddr, err := receipt.Confirm(ctx)
	if err != nil {
		return nil, classifyDeployFault(err)
	}

	now := s.now().UTC()
	tok := &launch.Token{
		ID:            uuid.New().String(),
		Name:          req.Name,
		Symbol:        validation.Normalized.Symbol,
		Address:       launch.NormalizeAddress(tokenAddr.Hex()),
		DeployTxHash:  receipt.TxHash,
		Requester:     launch.NormalizeAddress(req.Requester),
		RequesterBps:  rewards.TotalBps - s.platform.FeeBps,
		PlatformBps:   s.platform.FeeBps,
		VaultPercent:  validation.Normalized.VaultPercent,
		TradingFeeBps: validation.Normalized.TradingFeeBps,
		Status:        launch.StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.store.InsertToken(ctx, tok); err != nil {
		// The token is live on chain at this point; surface the record
		// failure rather than pretend the launch did not happen.
		return nil, apperrors.GeneralError(
			fmt.Errorf("deployment %s confirmed but record insert failed: %w", receipt.TxHash, err))
	}

	return &Result{Token: tok, Rewards: allocation}, nil
}

func (s *service) platformAdmin() common.Address {
	if s.platform.AdminRecipient != "" {
		return common.HexToAddress(s.platform.AdminRecipient)
	}
	return common.HexToAddress(s.platform.FeeRecipient)
}

// deployTags carries launch attribution to the deploy service. The
// registry external id is included when the verifier knows it.
func deployTags(requester common.Address, ident *identity.Identity) []string {
	tags := []string{"launchpad", "requester:" + launch.NormalizeAddress(requester.Hex())}
	if ident.ExternalID != "" {
		tags = append(tags, "agent:"+ident.ExternalID)
	}
	return tags
}

func (s *service) buildDeployRequest(
	req *launch.Request,
	requester common.Address,
	ident *identity.Identity,
	normalized *launch.Normalized,
	allocation []rewards.Recipient,
) *deployer.Request {
	entries := make([]deployer.RewardEntry, 0, len(allocation))
	for _, r := range allocation {
		entries = append(entries, deployer.RewardEntry{
			Recipient: r.Address,
			Admin:     r.Admin,
			Bps:       r.Bps,
			Scope:     string(r.Scope),
		})
	}

	var vault *deployer.VaultConfig
	if req.Vault != nil && req.Vault.Percent > 0 {
		vault = &deployer.VaultConfig{
			Percent:        req.Vault.Percent,
			LockupSeconds:  int64(req.Vault.LockupDays) * secondsPerDay,
			VestingSeconds: int64(req.Vault.VestingDays) * secondsPerDay,
		}
	}

	return &deployer.Request{
		Name:   req.Name,
		Symbol: normalized.Symbol,
		Admin:  requester,
		Metadata: deployer.Metadata{
			Description: req.Description,
			Image:       req.Image,
		},
		Pool: deployer.PoolConfig{
			PairedAsset:  s.paired,
			VanitySuffix: s.vanity,
		},
		Fee:         deployer.FeeConfig{TradingFeeBps: normalized.TradingFeeBps},
		Rewards:     entries,
		Vault:       vault,
		InitialBuy:  req.InitialBuy,
		ContextTags: deployTags(requester, ident),
	}
}

// classifyDeployFault maps raw deploy service failures onto sanitized
// caller-facing messages. The raw error stays wrapped for logging only.
func classifyDeployFault(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "insufficient funds"):
		return apperrors.DependencyError(err, "deployment wallet cannot cover the transaction, try again later")
	case strings.Contains(msg, "nonce"):
		return apperrors.DependencyError(err, "deployment hit a transient conflict, retry shortly")
	default:
		return apperrors.DependencyError(err, "deploy service failed to complete the deployment")
	}
}

func launchOutcome(err error) string {
	switch {
	case apperrors.Is(err, apperrors.CategoryRateLimited):
		return "rate_limited"
	case apperrors.Is(err, apperrors.CategoryForbidden):
		return "forbidden"
	case apperrors.Is(err, apperrors.CategoryDataError):
		return "rejected"
	default:
		return "failed"
	}
}
