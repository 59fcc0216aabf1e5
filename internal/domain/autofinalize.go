package domain

import "time"

const DefaultAutoFinalizeGracePeriod = 14 * 24 * time.Hour

// AutoFinalizePolicy computes and evaluates the auto-finalize deadline.
// Passing the deadline only forecloses new disputes; nothing is released automatically.
type AutoFinalizePolicy struct {
	GracePeriod time.Duration
}

func NewAutoFinalizePolicy(gracePeriod time.Duration) AutoFinalizePolicy {
	if gracePeriod <= 0 {
		gracePeriod = DefaultAutoFinalizeGracePeriod
	}
	return AutoFinalizePolicy{GracePeriod: gracePeriod}
}

func (p AutoFinalizePolicy) Deadline(createdAt time.Time) time.Time {
	return createdAt.Add(p.GracePeriod)
}

// DeadlinePassed is true strictly after the deadline. A zero deadline never passes.
func DeadlinePassed(deadline, now time.Time) bool {
	if deadline.IsZero() {
		return false
	}
	return now.After(deadline)
}

// DisputeWindowOpen reports whether a party could still open a dispute, ignoring who asks.
func DisputeWindowOpen(order *Order, now time.Time) bool {
	status := order.Escrow.Status
	if status != EscrowAwaitingPayment && status != EscrowInEscrow {
		return false
	}
	return !DeadlinePassed(order.Escrow.AutoFinalizeAt, now)
}
