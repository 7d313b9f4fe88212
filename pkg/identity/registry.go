package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/agentmint/launchpad/pkg/config"
	"github.com/agentmint/launchpad/pkg/launch"
)

// RegistryClient resolves identities against an external agent registry
// over HTTP JSON.
type RegistryClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewVerifier selects the verifier for the configured identity mode.
// An empty base URL means open mode.
func NewVerifier(cfg *config.IdentityConfig, logger *zap.Logger) Verifier {
	if cfg.BaseURL == "" {
		logger.Info("identity registry not configured, running in open mode")
		return OpenVerifier{}
	}
	return &RegistryClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		logger:     logger,
	}
}

type registryResponse struct {
	Found      bool   `json:"found"`
	Verified   bool   `json:"verified"`
	ExternalID string `json:"external_id,omitempty"`
}

// Verify looks the requester up in the registry. Unknown requesters
// resolve to a nil identity without an error.
func (c *RegistryClient) Verify(ctx context.Context, requester common.Address, externalID string) (*Identity, error) {
	query := url.Values{}
	query.Set("address", launch.NormalizeAddress(requester.Hex()))
	if externalID != "" {
		query.Set("external_id", externalID)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/agents?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build registry request: %w", err)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("registry call failed: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry returned status %d", httpResp.StatusCode)
	}

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read registry response: %w", err)
	}

	var resp registryResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode registry response: %w", err)
	}
	if !resp.Found {
		return nil, nil
	}

	c.logger.Debug("identity resolved",
		zap.String("requester", requester.Hex()),
		zap.Bool("verified", resp.Verified),
	)

	return &Identity{
		Requester:  requester,
		ExternalID: resp.ExternalID,
		Verified:   resp.Verified,
	}, nil
}
