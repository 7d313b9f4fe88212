// Package identity resolves a launch requester to a verified identity.
// With no registry configured the service runs in open mode and admits
// every requester with a permissive unverified identity.
package identity

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// Identity is a resolved requester identity.
type Identity struct {
	Requester  common.Address `json:"requester"`
	ExternalID string         `json:"external_id,omitempty"`
	Verified   bool           `json:"verified"`
}

// Verifier resolves a requester address (plus an optional external
// registry id) to an identity. A nil identity with a nil error means
// the requester is unknown and must not launch.
type Verifier interface {
	Verify(ctx context.Context, requester common.Address, externalID string) (*Identity, error)
}

// OpenVerifier admits everyone. Used when no registry is configured.
type OpenVerifier struct{}

// Verify returns a permissive unverified identity for any requester.
func (OpenVerifier) Verify(_ context.Context, requester common.Address, externalID string) (*Identity, error) {
	return &Identity{
		Requester:  requester,
		ExternalID: externalID,
		Verified:   false,
	}, nil
}
