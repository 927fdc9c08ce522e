package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/theronnieguidry/teachers-assistant/internal/credits"
	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

// Generate is the single entry point for all three pipelines. It reserves
// credits up front (when the capability variant requires payment), dispatches
// to the pipeline selected by the request's mode flag, and guarantees the
// refund-then-mark-failed sequence runs exactly once on every failure path.
func Generate(ctx context.Context, deps *Deps, req *types.GenerationRequest, userID uuid.UUID, onProgress ProgressCallback) (*types.GenerationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generation request: %w", err)
	}

	tracker := &progressTracker{cb: onProgress}

	// The needs-credits decision happens once, up front, and is fixed for the
	// remainder of the run.
	reservation := credits.None()
	if deps.Client.RequiresPayment() {
		reason := fmt.Sprintf("reservation for %s generation", req.Mode)
		held, err := deps.Ledger.Reserve(ctx, userID, estimateFor(req.Mode), req.ProjectID, reason)
		if err != nil {
			// Insufficient credits or a ledger error: no side effects yet,
			// the project never leaves pending.
			return nil, err
		}
		reservation = held
	}

	// Scope guard: whatever exits this function without settling the
	// reservation — including a panic in a phase — releases it in full.
	defer func() {
		if reservation.Settled() {
			return
		}
		if rerr := reservation.Release(context.WithoutCancel(ctx), "generation aborted"); rerr != nil {
			fmt.Printf("Warning: failed to release reservation for project %s: %v\n", req.ProjectID, rerr)
		}
	}()

	result, err := dispatch(ctx, deps, req, reservation, tracker)
	if err != nil {
		// Refund precedes the failed-status write and the return, on every
		// exit path. Release is a no-op if the run already settled.
		cleanupCtx := context.WithoutCancel(ctx)
		if rerr := reservation.Release(cleanupCtx, UserMessage(err)); rerr != nil {
			fmt.Printf("Warning: failed to refund reservation for project %s: %v\n", req.ProjectID, rerr)
		}
		if serr := deps.Store.MarkFailed(cleanupCtx, req.ProjectID, UserMessage(err)); serr != nil {
			fmt.Printf("Warning: failed to mark project %s failed: %v\n", req.ProjectID, serr)
		}
		return nil, err
	}

	return result, nil
}

// dispatch selects the pipeline and converts a panic in any phase into an
// error, so the caller's refund-then-mark-failed sequence still runs and the
// project reaches a terminal status instead of sticking in generating.
func dispatch(ctx context.Context, deps *Deps, req *types.GenerationRequest, reservation *credits.Reservation, tracker *progressTracker) (result *types.GenerationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("generation panicked: %v", r)
		}
	}()

	switch req.Mode {
	case types.PipelineWorksheet:
		return runPremiumWorksheet(ctx, deps, req, reservation, tracker)
	case types.PipelineLessonPlan:
		return runPremiumLessonPlan(ctx, deps, req, reservation, tracker)
	case types.PipelineStandard:
		return runStandard(ctx, deps, req, reservation, tracker)
	default:
		return nil, fmt.Errorf("unknown pipeline mode %q", req.Mode)
	}
}

// settleAndCharge reconciles the reservation against the token-derived cost
// and returns the credits actually charged. A refund-write failure after the
// version is durable is logged, not fatal: the ledger audit trail is how
// support resolves it.
func settleAndCharge(ctx context.Context, reservation *credits.Reservation, cost int) int {
	charged, err := reservation.Settle(ctx, cost)
	if err != nil {
		fmt.Printf("Warning: failed to refund unused reservation: %v\n", err)
	}
	return charged
}

// chargeable caps the token-derived cost at the reservation so the user is
// never charged beyond the hold. Free-variant runs cost zero by construction.
func chargeable(reservation *credits.Reservation, cost int) int {
	if amount := reservation.Amount(); amount > 0 && cost > amount {
		return amount
	}
	return cost
}
