// Package rewards computes the fee revenue allocation for a launch.
// Shares are expressed in basis points and the full recipient set for
// one launch always sums to exactly 10000.
package rewards

import (
	"fmt"
	"math"

	"github.com/ethereum/go-ethereum/common"

	"github.com/agentmint/launchpad/pkg/launch"
)

// Scope restricts which fee-bearing asset a recipient collects from.
type Scope string

const (
	ScopeBothAssets Scope = "both"
	ScopePairedOnly Scope = "paired_only"
	ScopeTokenOnly  Scope = "token_only"
)

// TotalBps is the full allocation for one launch.
const TotalBps = 10000

const maxSplitShare = 80

// Recipient is one fee revenue recipient in deploy order. The label is
// for caller display only and is stripped before the deploy call.
type Recipient struct {
	Address common.Address `json:"address"`
	Admin   common.Address `json:"admin"`
	Bps     int            `json:"bps"`
	Scope   Scope          `json:"scope"`
	Label   string         `json:"label,omitempty"`
}

// Platform is the fixed platform side of every allocation.
type Platform struct {
	FeeRecipient common.Address
	Admin        common.Address
	Bps          int
}

// Build computes the ordered recipient list for a validated request.
//
// Without fee splits the requester takes everything above the platform
// share. With splits, each declared share is converted to basis points
// by rounding to the nearest integer and the remainder of the
// requester's ceiling becomes an implicit "client" entry; per-entry
// rounding drift is absorbed there, never by the platform share.
// Ordering is: explicit splits in input order, implicit requester
// residual if positive, platform last.
func Build(requester common.Address, splits []launch.FeeSplit, platform Platform) ([]Recipient, error) {
	if platform.Bps <= 0 || platform.Bps > TotalBps {
		return nil, fmt.Errorf("platform share must be in (0,%d] bps, got %d", TotalBps, platform.Bps)
	}

	requesterCeiling := TotalBps - platform.Bps

	platformEntry := Recipient{
		Address: platform.FeeRecipient,
		Admin:   platform.Admin,
		Bps:     platform.Bps,
		Scope:   ScopeBothAssets,
		Label:   "platform",
	}

	if len(splits) == 0 {
		return []Recipient{
			{
				Address: requester,
				Admin:   requester,
				Bps:     requesterCeiling,
				Scope:   ScopeBothAssets,
				Label:   "client",
			},
			platformEntry,
		}, nil
	}

	recipients := make([]Recipient, 0, len(splits)+2)
	usedBps := 0
	for i, split := range splits {
		if split.Share <= 0 || split.Share > maxSplitShare {
			return nil, fmt.Errorf("fee split %d: share must be in (0,%d], got %v", i, maxSplitShare, split.Share)
		}
		if !common.IsHexAddress(split.Address) {
			return nil, fmt.Errorf("fee split %d: invalid address %q", i, split.Address)
		}
		bps := int(math.Round(split.Share * 100))
		usedBps += bps

		addr := common.HexToAddress(split.Address)
		recipients = append(recipients, Recipient{
			Address: addr,
			Admin:   addr,
			Bps:     bps,
			Scope:   ScopeBothAssets,
			Label:   split.Role,
		})
	}

	if usedBps > requesterCeiling {
		return nil, fmt.Errorf("fee splits use %d bps, exceeding the %d bps available after the platform share", usedBps, requesterCeiling)
	}

	if residual := requesterCeiling - usedBps; residual > 0 {
		recipients = append(recipients, Recipient{
			Address: requester,
			Admin:   requester,
			Bps:     residual,
			Scope:   ScopeBothAssets,
			Label:   "client",
		})
	}

	recipients = append(recipients, platformEntry)
	return recipients, nil
}

// SumBps returns the total basis points across recipients.
func SumBps(recipients []Recipient) int {
	total := 0
	for _, r := range recipients {
		total += r.Bps
	}
	return total
}
