package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/rentora/rentora-api/internal/models"
)

// Lease lifecycle events
const (
	EventActivate = "activate"
	EventCancel   = "cancel"
	EventEnd      = "end"
)

// LeaseFSM wraps a lease agreement with its state machine.
//
// Transitions are monotonic: draft → active → ended, draft → cancelled.
// Ended and cancelled are terminal; nothing moves backward.
type LeaseFSM struct {
	lease *models.LeaseAgreement
	fsm   *fsm.FSM
}

// NewLeaseFSM creates a new lease state machine
func NewLeaseFSM(lease *models.LeaseAgreement) *LeaseFSM {
	l := &LeaseFSM{
		lease: lease,
	}

	l.fsm = fsm.NewFSM(
		lease.Status,
		fsm.Events{
			// draft → active (payment recorded or manual activation)
			{Name: EventActivate, Src: []string{models.LeaseStatusDraft}, Dst: models.LeaseStatusActive},

			// draft → cancelled (grace-period sweep or manual cancellation)
			{Name: EventCancel, Src: []string{models.LeaseStatusDraft}, Dst: models.LeaseStatusCancelled},

			// active → ended (expiry sweep, manual termination, or renewal supersession)
			{Name: EventEnd, Src: []string{models.LeaseStatusActive}, Dst: models.LeaseStatusEnded},
		},
		fsm.Callbacks{},
	)

	return l
}

// Activate transitions the lease to active
func (l *LeaseFSM) Activate(ctx context.Context) error {
	if !l.lease.MayActivate() {
		return fmt.Errorf("lease cannot be activated in current state: %s", l.lease.Status)
	}

	if err := l.fsm.Event(ctx, EventActivate); err != nil {
		return fmt.Errorf("failed to activate lease: %w", err)
	}

	l.lease.Status = l.fsm.Current()
	return nil
}

// Cancel transitions the lease to cancelled
func (l *LeaseFSM) Cancel(ctx context.Context) error {
	if !l.lease.MayCancel() {
		return fmt.Errorf("lease cannot be cancelled in current state: %s", l.lease.Status)
	}

	if err := l.fsm.Event(ctx, EventCancel); err != nil {
		return fmt.Errorf("failed to cancel lease: %w", err)
	}

	l.lease.Status = l.fsm.Current()
	return nil
}

// End transitions the lease to ended
func (l *LeaseFSM) End(ctx context.Context) error {
	if !l.lease.MayEnd() {
		return fmt.Errorf("lease cannot be ended in current state: %s", l.lease.Status)
	}

	if err := l.fsm.Event(ctx, EventEnd); err != nil {
		return fmt.Errorf("failed to end lease: %w", err)
	}

	l.lease.Status = l.fsm.Current()
	return nil
}

// Fire dispatches a lifecycle event by name
func (l *LeaseFSM) Fire(ctx context.Context, event string) error {
	switch event {
	case EventActivate:
		return l.Activate(ctx)
	case EventCancel:
		return l.Cancel(ctx)
	case EventEnd:
		return l.End(ctx)
	default:
		return fmt.Errorf("unknown lease event: %s", event)
	}
}

// Current returns the current state
func (l *LeaseFSM) Current() string {
	return l.fsm.Current()
}

// Can checks if a transition is possible
func (l *LeaseFSM) Can(event string) bool {
	return l.fsm.Can(event)
}
