package launch

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// NormalizeAddress lowercases a hex address for storage and lookups.
// Addresses are compared case-insensitively everywhere; the checksum
// casing callers send is not preserved.
func NormalizeAddress(addr string) string {
	return strings.ToLower(common.HexToAddress(addr).Hex())
}
