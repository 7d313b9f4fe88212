// Package launchapi exposes the launchpad over HTTP: launch submission
// and dry-run validation, token and claim ledger reads, fee claims, and
// the aggregate fee report.
package launchapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/agentmint/launchpad/pkg/app/errors"
	apphttp "github.com/agentmint/launchpad/pkg/app/http"
	"github.com/agentmint/launchpad/pkg/fees"
	"github.com/agentmint/launchpad/pkg/launch"
	"github.com/agentmint/launchpad/pkg/launcher"
	"github.com/agentmint/launchpad/pkg/tokenstore"
)

const maxBodyBytes = 1 << 20

// TokenReader is the slice of the token store the API reads and
// administers.
type TokenReader interface {
	GetTokenByAddress(ctx context.Context, address string) (*launch.Token, error)
	ListTokens(ctx context.Context, opts ...tokenstore.QueryOption) ([]*launch.Token, error)
	ListTokensByRequester(ctx context.Context, requester string) ([]*launch.Token, error)
	ListClaims(ctx context.Context, tokenAddress string) ([]*launch.FeeClaim, error)
	SetTokenStatus(ctx context.Context, address string, status launch.Status) error
	AggregateStats(ctx context.Context, since *time.Time) (*launch.Stats, error)
}

// Claimer executes fee claims.
type Claimer interface {
	ClaimOne(ctx context.Context, tokenAddress string) (*launch.FeeClaim, error)
	ClaimAll(ctx context.Context) (*fees.Summary, error)
}

// Aggregator serves the pending fee aggregate.
type Aggregator interface {
	Get(ctx context.Context) (*fees.Snapshot, error)
	Invalidate()
}

// HTTP wraps the launchpad services to provide HTTP endpoints
type HTTP struct {
	launcher   launcher.Service
	store      TokenReader
	claimer    Claimer
	aggregator Aggregator
	logger     *zap.Logger
}

// RegisterRoutes registers the launchpad endpoints on the given chi router
func RegisterRoutes(
	r chi.Router,
	launcherSvc launcher.Service,
	store TokenReader,
	claimer Claimer,
	aggregator Aggregator,
	logger *zap.Logger,
) {
	h := &HTTP{
		launcher:   launcherSvc,
		store:      store,
		claimer:    claimer,
		aggregator: aggregator,
		logger:     logger,
	}

	r.Post("/launch", apphttp.HandleError(h.launch))
	r.Post("/launch/validate", apphttp.HandleError(h.validate))
	r.Get("/launch/rate-limit", apphttp.HandleError(h.rateLimit))

	r.Get("/tokens", apphttp.HandleError(h.listTokens))
	r.Get("/tokens/{address}", apphttp.HandleError(h.getToken))
	r.Put("/tokens/{address}/status", apphttp.HandleError(h.setTokenStatus))
	r.Get("/tokens/{address}/claims", apphttp.HandleError(h.listClaims))
	r.Post("/tokens/{address}/claims", apphttp.HandleError(h.claimToken))

	r.Get("/requesters/{address}/tokens", apphttp.HandleError(h.listRequesterTokens))

	r.Post("/claims", apphttp.HandleError(h.claimAll))
	r.Get("/fees/aggregate", apphttp.HandleError(h.aggregate))
	r.Get("/stats", apphttp.HandleError(h.stats))
}

func (h *HTTP) launch(w http.ResponseWriter, r *http.Request) error {
	req, err := decodeLaunchRequest(r)
	if err != nil {
		return err
	}

	res, err := h.launcher.Launch(r.Context(), req)
	if err != nil {
		return err
	}

	h.writeJSON(w, http.StatusCreated, res)
	return nil
}

func (h *HTTP) validate(w http.ResponseWriter, r *http.Request) error {
	req, err := decodeLaunchRequest(r)
	if err != nil {
		return err
	}

	res, err := h.launcher.Validate(r.Context(), req)
	if err != nil {
		return err
	}

	h.writeJSON(w, http.StatusOK, res)
	return nil
}

func (h *HTTP) rateLimit(w http.ResponseWriter, r *http.Request) error {
	requester := r.URL.Query().Get("requester")
	if requester == "" {
		return apperrors.BadRequestError(nil, "requester query parameter is required")
	}

	res, err := h.launcher.CheckRateLimit(r.Context(), requester)
	if err != nil {
		return err
	}

	h.writeJSON(w, http.StatusOK, res)
	return nil
}

func (h *HTTP) listTokens(w http.ResponseWriter, r *http.Request) error {
	var opts []tokenstore.QueryOption

	if status := r.URL.Query().Get("status"); status != "" {
		switch launch.Status(status) {
		case launch.StatusActive, launch.StatusInactive:
			opts = append(opts, tokenstore.WithStatus(launch.Status(status)))
		default:
			return apperrors.BadRequestError(nil, "status must be active or inactive")
		}
	}
	if sortBy := r.URL.Query().Get("sort"); sortBy != "" {
		opts = append(opts, tokenstore.WithSortBy(sortBy))
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			return apperrors.BadRequestError(err, "limit must be a positive integer")
		}
		opts = append(opts, tokenstore.WithLimit(limit))
	}

	tokens, err := h.store.ListTokens(r.Context(), opts...)
	if err != nil {
		return apperrors.GeneralError(err)
	}

	h.writeJSON(w, http.StatusOK, tokens)
	return nil
}

func (h *HTTP) getToken(w http.ResponseWriter, r *http.Request) error {
	address, err := addressParam(r)
	if err != nil {
		return err
	}

	tok, err := h.store.GetTokenByAddress(r.Context(), address)
	if err != nil {
		if errors.Is(err, tokenstore.ErrTokenNotFound) {
			return apperrors.ResourceNotFoundError(err, "token not found")
		}
		return apperrors.GeneralError(err)
	}

	h.writeJSON(w, http.StatusOK, tok)
	return nil
}

type statusRequest struct {
	Status launch.Status `json:"status"`
}

func (h *HTTP) setTokenStatus(w http.ResponseWriter, r *http.Request) error {
	address, err := addressParam(r)
	if err != nil {
		return err
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return apperrors.BadRequestError(err, "failed to read request")
	}
	var req statusRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return apperrors.BadRequestError(err, "invalid JSON")
	}
	if req.Status != launch.StatusActive && req.Status != launch.StatusInactive {
		return apperrors.BadRequestError(nil, "status must be active or inactive")
	}

	if err := h.store.SetTokenStatus(r.Context(), address, req.Status); err != nil {
		if errors.Is(err, tokenstore.ErrTokenNotFound) {
			return apperrors.ResourceNotFoundError(err, "token not found")
		}
		return apperrors.GeneralError(err)
	}

	h.logger.Info("token status updated",
		zap.String("token", address),
		zap.String("status", string(req.Status)),
	)

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *HTTP) listClaims(w http.ResponseWriter, r *http.Request) error {
	address, err := addressParam(r)
	if err != nil {
		return err
	}

	claims, err := h.store.ListClaims(r.Context(), address)
	if err != nil {
		return apperrors.GeneralError(err)
	}

	h.writeJSON(w, http.StatusOK, claims)
	return nil
}

func (h *HTTP) claimToken(w http.ResponseWriter, r *http.Request) error {
	address, err := addressParam(r)
	if err != nil {
		return err
	}

	claim, err := h.claimer.ClaimOne(r.Context(), address)
	if err != nil {
		if errors.Is(err, tokenstore.ErrTokenNotFound) {
			return apperrors.ResourceNotFoundError(err, "token not found")
		}
		return apperrors.GeneralError(err)
	}
	h.aggregator.Invalidate()

	if claim == nil {
		// nothing claimable; no ledger row was written
		h.writeJSON(w, http.StatusOK, map[string]any{"claim": nil})
		return nil
	}

	h.writeJSON(w, http.StatusCreated, map[string]any{"claim": claim})
	return nil
}

func (h *HTTP) claimAll(w http.ResponseWriter, r *http.Request) error {
	summary, err := h.claimer.ClaimAll(r.Context())
	if err != nil {
		return apperrors.GeneralError(err)
	}
	h.aggregator.Invalidate()

	h.writeJSON(w, http.StatusOK, summary)
	return nil
}

func (h *HTTP) aggregate(w http.ResponseWriter, r *http.Request) error {
	snap, err := h.aggregator.Get(r.Context())
	if err != nil {
		return apperrors.GeneralError(err)
	}

	h.writeJSON(w, http.StatusOK, snap)
	return nil
}

func (h *HTTP) stats(w http.ResponseWriter, r *http.Request) error {
	var since *time.Time
	if sinceStr := r.URL.Query().Get("since"); sinceStr != "" {
		parsed, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			return apperrors.BadRequestError(err, "since must be an RFC3339 timestamp")
		}
		since = &parsed
	}

	stats, err := h.store.AggregateStats(r.Context(), since)
	if err != nil {
		return apperrors.GeneralError(err)
	}

	h.writeJSON(w, http.StatusOK, stats)
	return nil
}

func (h *HTTP) listRequesterTokens(w http.ResponseWriter, r *http.Request) error {
	address, err := addressParam(r)
	if err != nil {
		return err
	}

	tokens, err := h.store.ListTokensByRequester(r.Context(), address)
	if err != nil {
		return apperrors.GeneralError(err)
	}

	h.writeJSON(w, http.StatusOK, tokens)
	return nil
}

func decodeLaunchRequest(r *http.Request) (*launch.Request, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.BadRequestError(err, "failed to read request")
	}

	var req launch.Request
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, apperrors.BadRequestError(err, "invalid JSON")
	}
	return &req, nil
}

func addressParam(r *http.Request) (string, error) {
	address := chi.URLParam(r, "address")
	if !common.IsHexAddress(address) {
		return "", apperrors.BadRequestError(nil, "address must be a valid 0x-prefixed address")
	}
	return address, nil
}

func (h *HTTP) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
