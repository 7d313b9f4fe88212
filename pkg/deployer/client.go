// Package deployer is the client for the external token deploy service.
// The service owns all on-chain mechanics (bytecode, pool creation,
// signing); this client supplies the deployment configuration and waits
// for confirmation.
package deployer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/agentmint/launchpad/pkg/config"
)

// Client submits deployments over HTTP JSON.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	confirmTimeout time.Duration
	logger         *zap.Logger
}

// NewClient creates a deploy service client.
func NewClient(cfg *config.DeployerConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:     &http.Client{Timeout: cfg.RequestTimeout},
		confirmTimeout: cfg.ConfirmTimeout,
		logger:         logger,
	}
}

type deployResponse struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
	TxHash   string `json:"tx_hash,omitempty"`
}

type deploymentStatus struct {
	Status       string `json:"status"`
	TokenAddress string `json:"token_address,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

// Deploy submits the deployment configuration. An explicit refusal comes
// back as *RejectedError; an accepted submission returns a receipt whose
// Confirm resolves to the issued token address.
func (c *Client) Deploy(ctx context.Context, req *Request) (*Receipt, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode deploy request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/deployments", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build deploy request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("deploy call failed: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read deploy response: %w", err)
	}

	var resp deployResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode deploy response (status %d): %w", httpResp.StatusCode, err)
	}

	if !resp.Accepted {
		return nil, &RejectedError{Reason: resp.Reason}
	}
	if resp.TxHash == "" {
		return nil, fmt.Errorf("deploy service accepted without a transaction hash")
	}

	c.logger.Info("deployment submitted",
		zap.String("symbol", req.Symbol),
		zap.String("tx_hash", resp.TxHash),
	)

	txHash := resp.TxHash
	return NewReceipt(txHash, func(ctx context.Context) (common.Address, error) {
		return c.awaitConfirmation(ctx, txHash)
	}), nil
}

// awaitConfirmation polls the deployment status until it confirms, is
// reported failed, or the confirmation window elapses.
func (c *Client) awaitConfirmation(ctx context.Context, txHash string) (common.Address, error) {
	op := func() (common.Address, error) {
		status, err := c.fetchStatus(ctx, txHash)
		if err != nil {
			return common.Address{}, err
		}
		switch status.Status {
		case "confirmed":
			if !common.IsHexAddress(status.TokenAddress) {
				return common.Address{}, backoff.Permanent(
					fmt.Errorf("deploy service confirmed with invalid token address %q", status.TokenAddress))
			}
			return common.HexToAddress(status.TokenAddress), nil
		case "failed":
			return common.Address{}, backoff.Permanent(
				fmt.Errorf("deployment failed: %s", status.Reason))
		default:
			return common.Address{}, fmt.Errorf("deployment %s still pending", txHash)
		}
	}

	return backoff.Retry(
		ctx,
		op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(c.confirmTimeout),
	)
}

func (c *Client) fetchStatus(ctx context.Context, txHash string) (*deploymentStatus, error) {
	url := fmt.Sprintf("%s/v1/deployments/%s", c.baseURL, txHash)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to build status request: %w", err))
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("status call failed: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read status response: %w", err)
	}

	var status deploymentStatus
	if err := json.Unmarshal(respBody, &status); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}
	return &status, nil
}
