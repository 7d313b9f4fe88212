package fees

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/agentmint/launchpad/pkg/config"
)

// Client reads claimable amounts and executes claims through the deploy
// service HTTP API. It implements both FeeSource and FeeClaimer.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a fee client against the deploy service.
func NewClient(cfg *config.DeployerConfig) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
	}
}

type claimableResponse struct {
	Amount decimal.Decimal `json:"amount"`
}

type claimRequest struct {
	Asset     string `json:"asset"`
	Recipient string `json:"recipient"`
}

type claimResponse struct {
	TxHash string `json:"tx_hash"`
}

// ClaimableAmount reads the pending fee amount for one recipient on one asset.
func (c *Client) ClaimableAmount(ctx context.Context, asset, recipient common.Address) (decimal.Decimal, error) {
	query := url.Values{}
	query.Set("asset", asset.Hex())
	query.Set("recipient", recipient.Hex())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/fees?"+query.Encode(), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build claimable request: %w", err)
	}

	var resp claimableResponse
	if err := c.do(httpReq, &resp); err != nil {
		return decimal.Zero, err
	}
	return resp.Amount, nil
}

// Claim executes a fee claim and returns the settlement transaction hash.
func (c *Client) Claim(ctx context.Context, asset, recipient common.Address) (string, error) {
	body, err := json.Marshal(claimRequest{
		Asset:     asset.Hex(),
		Recipient: recipient.Hex(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode claim request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/fees/claim", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build claim request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var resp claimResponse
	if err := c.do(httpReq, &resp); err != nil {
		return "", err
	}
	if resp.TxHash == "" {
		return "", fmt.Errorf("fee claim returned no transaction hash")
	}
	return resp.TxHash, nil
}

func (c *Client) do(req *http.Request, out any) error {
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fee service call failed: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read fee service response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("fee service returned status %d: %s", httpResp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode fee service response: %w", err)
	}
	return nil
}
