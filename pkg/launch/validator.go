package launch

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
)

// Policy carries the server-side launch policy the validator needs.
// Values here are fixed by configuration and never client-supplied.
type Policy struct {
	PlatformFeeBps       int
	DefaultTradingFeeBps int
}

// ValidationResult is the full outcome of validating a launch request.
// Validity requires zero errors; warnings never block.
type ValidationResult struct {
	Valid      bool        `json:"valid"`
	Errors     []string    `json:"errors"`
	Warnings   []string    `json:"warnings"`
	Normalized *Normalized `json:"normalized,omitempty"`
}

// Normalized echoes the server-resolved launch parameters.
type Normalized struct {
	Symbol         string `json:"symbol"`
	PlatformFeeBps int    `json:"platform_fee_bps"`
	VaultPercent   int    `json:"vault_percent"`
	TradingFeeBps  int    `json:"trading_fee_bps"`
}

const (
	maxNameLen        = 100
	maxDescriptionLen = 1000
	maxFeeSplits      = 5
	maxFeeSplitSum    = 80

	minTradingFeeBps     = 10
	maxTradingFeeBps     = 500
	highTradingFeeBps    = 200
	maxVaultPercent      = 90
	highVaultPercent     = 50
	minVaultLockupDays   = 7
	maxVaultVestingFloor = 0
)

// promoKeywords are case-insensitive substrings in a token name that
// signal promotional or scam language. Matches warn, never reject.
var promoKeywords = []string{"free", "airdrop", "guaranteed", "100x", "get rich"}

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a launch request against every rule and reports all
// problems at once; no rule short-circuits another. symbolInUse is the
// caller's answer to "has a prior launch used this symbol" (checked
// case-insensitively against the deployment ledger) and only ever
// produces a warning: symbols are not globally reserved.
func Validate(req *Request, policy Policy, symbolInUse bool) ValidationResult {
	res := ValidationResult{
		Errors:   []string{},
		Warnings: []string{},
	}

	if err := structValidator.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors, ok := err.(validator.ValidationErrors); ok {
			fieldErrs = errors
		}
		for _, fe := range fieldErrs {
			res.Errors = append(res.Errors, fieldErrorMessage(fe))
		}
	}

	if strings.Contains(req.Name, "<") {
		res.Errors = append(res.Errors, "name must not contain markup")
	}
	if strings.Contains(req.Description, "<") {
		res.Errors = append(res.Errors, "description must not contain markup")
	}

	lowerName := strings.ToLower(req.Name)
	for _, kw := range promoKeywords {
		if strings.Contains(lowerName, kw) {
			res.Warnings = append(res.Warnings, fmt.Sprintf("name contains promotional language: %q", kw))
			break
		}
	}

	if symbolInUse {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("symbol %s is already used by a previous launch", strings.ToUpper(req.Symbol)))
	}

	if req.Image == "" {
		res.Warnings = append(res.Warnings, "no image provided")
	} else if !strings.HasPrefix(req.Image, "https://") && !strings.HasPrefix(req.Image, "ipfs://") {
		res.Errors = append(res.Errors, "image must be an https or ipfs reference")
	}

	validateVault(req.Vault, &res)
	validateFeeSplits(req.FeeSplits, &res)

	if req.TradingFeeBps != 0 {
		if req.TradingFeeBps < minTradingFeeBps || req.TradingFeeBps > maxTradingFeeBps {
			res.Errors = append(res.Errors,
				fmt.Sprintf("trading fee must be between %d and %d basis points", minTradingFeeBps, maxTradingFeeBps))
		} else if req.TradingFeeBps > highTradingFeeBps {
			res.Warnings = append(res.Warnings, "trading fee above 200 basis points may deter traders")
		}
	}

	if req.InitialBuy.IsNegative() {
		res.Errors = append(res.Errors, "initial buy must not be negative")
	}

	res.Valid = len(res.Errors) == 0
	if res.Valid {
		vaultPercent := 0
		if req.Vault != nil {
			vaultPercent = req.Vault.Percent
		}
		tradingFee := req.TradingFeeBps
		if tradingFee == 0 {
			tradingFee = policy.DefaultTradingFeeBps
		}
		res.Normalized = &Normalized{
			Symbol:         strings.ToUpper(req.Symbol),
			PlatformFeeBps: policy.PlatformFeeBps,
			VaultPercent:   vaultPercent,
			TradingFeeBps:  tradingFee,
		}
	}

	return res
}

func validateVault(vault *VaultSpec, res *ValidationResult) {
	if vault == nil {
		res.Warnings = append(res.Warnings, "no supply vault configured")
		return
	}
	if vault.Percent < 0 || vault.Percent > maxVaultPercent {
		res.Errors = append(res.Errors,
			fmt.Sprintf("vault percentage must be between 0 and %d", maxVaultPercent))
	} else if vault.Percent > highVaultPercent {
		res.Warnings = append(res.Warnings, "vault locks more than half of the supply")
	}
	if vault.LockupDays < minVaultLockupDays {
		res.Errors = append(res.Errors,
			fmt.Sprintf("vault lockup must be at least %d days", minVaultLockupDays))
	}
	if vault.VestingDays < maxVaultVestingFloor {
		res.Errors = append(res.Errors, "vault vesting days must not be negative")
	}
}

func validateFeeSplits(splits []FeeSplit, res *ValidationResult) {
	if len(splits) == 0 {
		return
	}

	var sum float64
	seen := make(map[string]bool, len(splits))
	for _, split := range splits {
		sum += split.Share
		if !common.IsHexAddress(split.Address) {
			res.Errors = append(res.Errors, fmt.Sprintf("invalid fee split address: %s", split.Address))
			continue
		}
		key := strings.ToLower(split.Address)
		if seen[key] {
			res.Errors = append(res.Errors, fmt.Sprintf("duplicate fee split address: %s", split.Address))
		}
		seen[key] = true
	}

	if sum > maxFeeSplitSum {
		res.Errors = append(res.Errors,
			fmt.Sprintf("fee split shares must sum to %d or less", maxFeeSplitSum))
	}
}

// fieldErrorMessage translates structural tag failures into the
// user-facing vocabulary of this endpoint.
func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Name":
		if fe.Tag() == "required" {
			return "name is required"
		}
		return fmt.Sprintf("name must be %d characters or fewer", maxNameLen)
	case "Symbol":
		if fe.Tag() == "required" {
			return "symbol is required"
		}
		return "symbol must be 2-10 alphanumeric characters"
	case "Requester":
		if fe.Tag() == "required" {
			return "requester address is required"
		}
		return "requester must be a valid 0x-prefixed address"
	case "Description":
		return fmt.Sprintf("description must be %d characters or fewer", maxDescriptionLen)
	case "FeeSplits":
		return fmt.Sprintf("fee splits are limited to %d entries", maxFeeSplits)
	default:
		return fmt.Sprintf("invalid value for %s", fe.Field())
	}
}
