package domain

import (
	"fmt"
	"time"
)

// EscrowCommand is one requested action plus its optional payload.
type EscrowCommand struct {
	Action            EscrowAction
	Resolution        EscrowStatus
	FulfillmentStatus OrderStatus
	Evidence          string
	Notes             string
}

// cancellable are the pre-release states.
var cancellable = map[EscrowStatus]bool{
	EscrowNone:            true,
	EscrowAwaitingPayment: true,
	EscrowInEscrow:        true,
	EscrowDisputed:        true,
}

func invalidTransition(order *Order, action EscrowAction) error {
	return fmt.Errorf("%w: %s from %s", ErrInvalidStateTransition, action, order.Escrow.Status)
}

// CheckTransition validates cmd against the current state without mutating the order.
func CheckTransition(order *Order, cmd EscrowCommand, now time.Time) error {
	status := order.Escrow.Status

	switch cmd.Action {
	case ActionMarkFunded, ActionReportPayment:
		if status != EscrowAwaitingPayment {
			return invalidTransition(order, cmd.Action)
		}
	case ActionConfirmRelease:
		if status != EscrowInEscrow {
			return invalidTransition(order, cmd.Action)
		}
	case ActionOpenDispute:
		if status != EscrowAwaitingPayment && status != EscrowInEscrow {
			return invalidTransition(order, cmd.Action)
		}
		if DeadlinePassed(order.Escrow.AutoFinalizeAt, now) {
			return fmt.Errorf("%w: %w", ErrInvalidStateTransition, ErrDisputeWindowClosed)
		}
	case ActionResolveDispute:
		if !ValidResolution(cmd.Resolution) {
			return fmt.Errorf("%w: %w", ErrInvalidStateTransition, ErrInvalidResolution)
		}
		if status != EscrowDisputed {
			return invalidTransition(order, cmd.Action)
		}
	case ActionCancel:
		if !cancellable[status] {
			return invalidTransition(order, cmd.Action)
		}
	case ActionSetFulfillment:
		if !cmd.FulfillmentStatus.Valid() {
			return fmt.Errorf("%w: %w: %q", ErrInvalidStateTransition, ErrInvalidFulfillmentStatus, cmd.FulfillmentStatus)
		}
	case ActionSetOperatorNotes:
		// notes are accepted in every escrow status
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)
	}
	return nil
}

// ApplyEscrowCommand checks cmd and, only if it is accepted, mutates the order in place.
// A rejected command leaves the order untouched.
func ApplyEscrowCommand(order *Order, cmd EscrowCommand, now time.Time) error {
	if err := CheckTransition(order, cmd, now); err != nil {
		return err
	}

	stamp := now
	switch cmd.Action {
	case ActionMarkFunded:
		order.Escrow.Status = EscrowInEscrow
		order.Escrow.FundedAt = &stamp
	case ActionReportPayment:
		order.Escrow.BuyerReportedPaymentAt = &stamp
	case ActionConfirmRelease:
		order.Escrow.Status = EscrowReleasedToSeller
	case ActionOpenDispute:
		order.Escrow.Status = EscrowDisputed
		order.Dispute.OpenedAt = &stamp
		if cmd.Evidence != "" {
			order.Dispute.EvidenceEncrypted = cmd.Evidence
		}
	case ActionResolveDispute:
		order.Escrow.Status = cmd.Resolution
		order.Dispute.Resolution = cmd.Resolution
		order.Dispute.ResolvedAt = &stamp
	case ActionCancel:
		order.Escrow.Status = EscrowCancelled
	case ActionSetFulfillment:
		order.Status = cmd.FulfillmentStatus
	case ActionSetOperatorNotes:
		order.OperatorNotes = cmd.Notes
	}
	order.touch(now)
	return nil
}

// AllowedActions lists what the actor could successfully invoke on the order right now.
func AllowedActions(guard *AuthorizationGuard, actor Actor, order *Order, now time.Time) []EscrowAction {
	allowed := make([]EscrowAction, 0, len(AllActions))
	for _, action := range AllActions {
		if guard.Authorize(actor, order, action) != nil {
			continue
		}
		if CheckTransition(order, placeholderCommand(action), now) != nil {
			continue
		}
		allowed = append(allowed, action)
	}
	return allowed
}

// placeholderCommand fills payload fields with a valid placeholder so only state guards are evaluated.
func placeholderCommand(action EscrowAction) EscrowCommand {
	cmd := EscrowCommand{Action: action}
	switch action {
	case ActionResolveDispute:
		cmd.Resolution = EscrowReleasedToSeller
	case ActionSetFulfillment:
		cmd.FulfillmentStatus = StatusPending
	}
	return cmd
}
