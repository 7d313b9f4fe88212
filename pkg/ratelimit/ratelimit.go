// Package ratelimit enforces the per-requester launch cooldown. It is a
// read-only view over the deployment ledger: a requester's most recent
// token record is itself the cooldown checkpoint, there is no separate
// rate-limit table.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/agentmint/launchpad/pkg/launch"
)

// LaunchHistory is the slice of the token store the limiter reads.
type LaunchHistory interface {
	LastLaunchAt(ctx context.Context, requester string) (*time.Time, error)
}

// Result is the outcome of a cooldown check. RemainingMs is in
// milliseconds.
type Result struct {
	Allowed       bool      `json:"allowed"`
	NextAllowedAt time.Time `json:"next_allowed_at,omitzero"`
	RemainingMs   int64     `json:"remaining_ms,omitempty"`
}

// Checker checks requester launch cooldowns against the ledger.
//
// The check is advisory read-then-act: no lock is held between this
// check and the eventual token insert, so two concurrent launches from
// the same requester inside one window can both be admitted.
type Checker struct {
	history LaunchHistory
	window  time.Duration
	now     func() time.Time
}

// NewChecker creates a cooldown checker with the given window.
func NewChecker(history LaunchHistory, window time.Duration) *Checker {
	return &Checker{
		history: history,
		window:  window,
		now:     time.Now,
	}
}

// Check reports whether the requester may launch now. A requester whose
// last launch is exactly one full window old is allowed with zero
// remaining time.
func (c *Checker) Check(ctx context.Context, requester string) (*Result, error) {
	last, err := c.history.LastLaunchAt(ctx, launch.NormalizeAddress(requester))
	if err != nil {
		return nil, fmt.Errorf("failed to read launch history: %w", err)
	}
	if last == nil {
		return &Result{Allowed: true}, nil
	}

	elapsed := c.now().Sub(*last)
	if elapsed >= c.window {
		return &Result{Allowed: true}, nil
	}

	return &Result{
		Allowed:       false,
		NextAllowedAt: last.Add(c.window),
		RemainingMs:   (c.window - elapsed).Milliseconds(),
	}, nil
}
