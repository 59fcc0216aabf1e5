package domain

import "fmt"

type EscrowAction string

const (
	ActionMarkFunded       EscrowAction = "mark_funded"
	ActionReportPayment    EscrowAction = "report_payment"
	ActionConfirmRelease   EscrowAction = "confirm_release"
	ActionOpenDispute      EscrowAction = "open_dispute"
	ActionResolveDispute   EscrowAction = "resolve_dispute"
	ActionCancel           EscrowAction = "cancel"
	ActionSetFulfillment   EscrowAction = "set_fulfillment_status"
	ActionSetOperatorNotes EscrowAction = "set_operator_notes"
)

// AllActions lists every action in a stable order, used by projections.
var AllActions = []EscrowAction{
	ActionMarkFunded,
	ActionReportPayment,
	ActionConfirmRelease,
	ActionOpenDispute,
	ActionResolveDispute,
	ActionCancel,
	ActionSetFulfillment,
	ActionSetOperatorNotes,
}

// AuthorizationGuard decides who may invoke which action on an order.
// Dispute resolution is a capability granted to a configurable role set,
// separate from generic operator access.
type AuthorizationGuard struct {
	disputeResolvers map[Role]struct{}
}

func NewAuthorizationGuard(disputeResolverRoles []Role) *AuthorizationGuard {
	resolvers := make(map[Role]struct{}, len(disputeResolverRoles))
	for _, r := range disputeResolverRoles {
		resolvers[r] = struct{}{}
	}
	return &AuthorizationGuard{disputeResolvers: resolvers}
}

func (g *AuthorizationGuard) CanResolveDisputes(actor Actor) bool {
	if !actor.IsOperator() {
		return false
	}
	_, ok := g.disputeResolvers[actor.Role]
	return ok
}

// CanView reports whether the order is visible to the actor at all.
// Non-parties must not learn that the order exists.
func (g *AuthorizationGuard) CanView(actor Actor, order *Order) bool {
	return actor.IsOperator() || order.IsParty(actor.ID)
}

// Authorize returns nil, ErrOrderNotFound or ErrForbidden. Unlisted pairs are denied.
func (g *AuthorizationGuard) Authorize(actor Actor, order *Order, action EscrowAction) error {
	if !g.CanView(actor, order) {
		return ErrOrderNotFound
	}

	allowed := false
	switch action {
	case ActionReportPayment, ActionConfirmRelease:
		allowed = order.BuyerID == actor.ID
	case ActionOpenDispute:
		allowed = order.IsParty(actor.ID)
	case ActionMarkFunded, ActionCancel, ActionSetFulfillment, ActionSetOperatorNotes:
		allowed = actor.IsOperator()
	case ActionResolveDispute:
		allowed = g.CanResolveDisputes(actor)
	}
	if !allowed {
		return fmt.Errorf("%w: %s by %s", ErrForbidden, action, actor.Role)
	}
	return nil
}
