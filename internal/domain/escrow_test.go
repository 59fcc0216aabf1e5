package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func orderIn(status EscrowStatus) *Order {
	return &Order{
		ID:              "id-1",
		Ref:             "REF0000001",
		BuyerID:         "b1",
		PrimarySellerID: "s1",
		Items:           []OrderItem{{ID: "i1", ProductID: "p1", SellerID: "s1", Title: "T", UnitPriceCents: 1000, Quantity: 1}},
		Status:          StatusPending,
		Escrow: EscrowInfo{
			Status:         status,
			AmountCents:    1000,
			AutoFinalizeAt: t0.Add(DefaultAutoFinalizeGracePeriod),
		},
		Version:   1,
		CreatedAt: t0,
		UpdatedAt: t0,
	}
}

func TestApplyEscrowCommand_TransitionTable(t *testing.T) {
	now := t0.Add(time.Hour)
	tests := []struct {
		name   string
		from   EscrowStatus
		cmd    EscrowCommand
		want   EscrowStatus
		wantOK bool
	}{
		{"fund awaiting", EscrowAwaitingPayment, EscrowCommand{Action: ActionMarkFunded}, EscrowInEscrow, true},
		{"fund in escrow", EscrowInEscrow, EscrowCommand{Action: ActionMarkFunded}, EscrowInEscrow, false},
		{"report awaiting", EscrowAwaitingPayment, EscrowCommand{Action: ActionReportPayment}, EscrowAwaitingPayment, true},
		{"report in escrow", EscrowInEscrow, EscrowCommand{Action: ActionReportPayment}, EscrowInEscrow, false},
		{"confirm in escrow", EscrowInEscrow, EscrowCommand{Action: ActionConfirmRelease}, EscrowReleasedToSeller, true},
		{"confirm awaiting", EscrowAwaitingPayment, EscrowCommand{Action: ActionConfirmRelease}, EscrowAwaitingPayment, false},
		{"confirm disputed", EscrowDisputed, EscrowCommand{Action: ActionConfirmRelease}, EscrowDisputed, false},
		{"dispute awaiting", EscrowAwaitingPayment, EscrowCommand{Action: ActionOpenDispute}, EscrowDisputed, true},
		{"dispute in escrow", EscrowInEscrow, EscrowCommand{Action: ActionOpenDispute}, EscrowDisputed, true},
		{"dispute disputed", EscrowDisputed, EscrowCommand{Action: ActionOpenDispute}, EscrowDisputed, false},
		{"dispute released", EscrowReleasedToSeller, EscrowCommand{Action: ActionOpenDispute}, EscrowReleasedToSeller, false},
		{"resolve to buyer", EscrowDisputed, EscrowCommand{Action: ActionResolveDispute, Resolution: EscrowReleasedToBuyer}, EscrowReleasedToBuyer, true},
		{"resolve to seller", EscrowDisputed, EscrowCommand{Action: ActionResolveDispute, Resolution: EscrowReleasedToSeller}, EscrowReleasedToSeller, true},
		{"resolve not disputed", EscrowInEscrow, EscrowCommand{Action: ActionResolveDispute, Resolution: EscrowReleasedToBuyer}, EscrowInEscrow, false},
		{"resolve bad value", EscrowDisputed, EscrowCommand{Action: ActionResolveDispute, Resolution: EscrowInEscrow}, EscrowDisputed, false},
		{"cancel none", EscrowNone, EscrowCommand{Action: ActionCancel}, EscrowCancelled, true},
		{"cancel awaiting", EscrowAwaitingPayment, EscrowCommand{Action: ActionCancel}, EscrowCancelled, true},
		{"cancel in escrow", EscrowInEscrow, EscrowCommand{Action: ActionCancel}, EscrowCancelled, true},
		{"cancel disputed", EscrowDisputed, EscrowCommand{Action: ActionCancel}, EscrowCancelled, true},
		{"cancel released", EscrowReleasedToBuyer, EscrowCommand{Action: ActionCancel}, EscrowReleasedToBuyer, false},
		{"cancel cancelled", EscrowCancelled, EscrowCommand{Action: ActionCancel}, EscrowCancelled, false},
		{"fulfillment any", EscrowReleasedToSeller, EscrowCommand{Action: ActionSetFulfillment, FulfillmentStatus: StatusCompleted}, EscrowReleasedToSeller, true},
		{"notes any", EscrowCancelled, EscrowCommand{Action: ActionSetOperatorNotes, Notes: "n"}, EscrowCancelled, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := orderIn(tt.from)
			before := order.Clone()

			err := ApplyEscrowCommand(order, tt.cmd, now)
			assert.Equal(t, tt.want, order.Escrow.Status)
			if tt.wantOK {
				require.NoError(t, err)
				assert.Equal(t, now, order.UpdatedAt)
				return
			}
			require.ErrorIs(t, err, ErrInvalidStateTransition)
			assert.Equal(t, before, order)
		})
	}
}

func TestApplyEscrowCommand_Stamps(t *testing.T) {
	now := t0.Add(2 * time.Hour)

	order := orderIn(EscrowAwaitingPayment)
	require.NoError(t, ApplyEscrowCommand(order, EscrowCommand{Action: ActionMarkFunded}, now))
	require.NotNil(t, order.Escrow.FundedAt)
	assert.Equal(t, now, *order.Escrow.FundedAt)

	order = orderIn(EscrowInEscrow)
	require.NoError(t, ApplyEscrowCommand(order, EscrowCommand{Action: ActionOpenDispute, Evidence: "blob"}, now))
	assert.Equal(t, now, *order.Dispute.OpenedAt)
	assert.Equal(t, "blob", order.Dispute.EvidenceEncrypted)

	later := now.Add(time.Hour)
	require.NoError(t, ApplyEscrowCommand(order, EscrowCommand{Action: ActionResolveDispute, Resolution: EscrowReleasedToBuyer}, later))
	assert.Equal(t, later, *order.Dispute.ResolvedAt)
	assert.Equal(t, EscrowReleasedToBuyer, order.Dispute.Resolution)
	assert.Equal(t, now, *order.Dispute.OpenedAt)
}

func TestApplyEscrowCommand_ReportPaymentRestamps(t *testing.T) {
	order := orderIn(EscrowAwaitingPayment)
	first := t0.Add(time.Minute)
	second := t0.Add(time.Hour)

	require.NoError(t, ApplyEscrowCommand(order, EscrowCommand{Action: ActionReportPayment}, first))
	require.NoError(t, ApplyEscrowCommand(order, EscrowCommand{Action: ActionReportPayment}, second))
	assert.Equal(t, second, *order.Escrow.BuyerReportedPaymentAt)
	assert.Equal(t, EscrowAwaitingPayment, order.Escrow.Status)
}

func TestApplyEscrowCommand_UpdatedAtNeverGoesBack(t *testing.T) {
	order := orderIn(EscrowAwaitingPayment)
	order.UpdatedAt = t0.Add(time.Hour)

	require.NoError(t, ApplyEscrowCommand(order, EscrowCommand{Action: ActionMarkFunded}, t0.Add(time.Minute)))
	assert.Equal(t, t0.Add(time.Hour), order.UpdatedAt)
}

func TestApplyEscrowCommand_DisputeWindow(t *testing.T) {
	deadline := t0.Add(DefaultAutoFinalizeGracePeriod)

	order := orderIn(EscrowInEscrow)
	require.NoError(t, ApplyEscrowCommand(order, EscrowCommand{Action: ActionOpenDispute}, deadline))

	order = orderIn(EscrowInEscrow)
	err := ApplyEscrowCommand(order, EscrowCommand{Action: ActionOpenDispute}, deadline.Add(time.Nanosecond))
	require.ErrorIs(t, err, ErrInvalidStateTransition)
	assert.ErrorIs(t, err, ErrDisputeWindowClosed)
	assert.Equal(t, EscrowInEscrow, order.Escrow.Status)
}

func TestApplyEscrowCommand_UnknownAction(t *testing.T) {
	order := orderIn(EscrowInEscrow)
	err := ApplyEscrowCommand(order, EscrowCommand{Action: "teleport"}, t0)
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestAllowedActions_AgreeWithApply(t *testing.T) {
	guard := NewAuthorizationGuard([]Role{RoleAdmin})
	actors := []Actor{
		{ID: "b1", Role: RoleBuyer},
		{ID: "s1", Role: RoleSeller},
		{ID: "x", Role: RoleBuyer},
		{ID: "sup", Role: RoleSupport},
		{ID: "adm", Role: RoleAdmin},
	}
	statuses := []EscrowStatus{
		EscrowNone, EscrowAwaitingPayment, EscrowInEscrow, EscrowDisputed,
		EscrowReleasedToSeller, EscrowReleasedToBuyer, EscrowCancelled,
	}
	times := []time.Time{t0.Add(time.Hour), t0.Add(DefaultAutoFinalizeGracePeriod + time.Hour)}

	for _, actor := range actors {
		for _, status := range statuses {
			for _, now := range times {
				order := orderIn(status)
				for _, action := range AllowedActions(guard, actor, order, now) {
					require.NoError(t, guard.Authorize(actor, order, action), "%s %s %s", actor.Role, status, action)
					cmd := placeholderCommand(action)
					require.NoError(t, ApplyEscrowCommand(order.Clone(), cmd, now), "%s %s %s", actor.Role, status, action)
				}
			}
		}
	}
}

func TestApplyEscrowCommand_EveryUnlistedEdgeRejected(t *testing.T) {
	now := t0.Add(time.Hour)
	statuses := []EscrowStatus{
		EscrowNone, EscrowAwaitingPayment, EscrowInEscrow, EscrowReleasedToSeller,
		EscrowReleasedToBuyer, EscrowDisputed, EscrowCancelled,
	}
	preRelease := []EscrowStatus{EscrowNone, EscrowAwaitingPayment, EscrowInEscrow, EscrowDisputed}
	accepted := map[EscrowAction][]EscrowStatus{
		ActionMarkFunded:       {EscrowAwaitingPayment},
		ActionReportPayment:    {EscrowAwaitingPayment},
		ActionConfirmRelease:   {EscrowInEscrow},
		ActionOpenDispute:      {EscrowAwaitingPayment, EscrowInEscrow},
		ActionResolveDispute:   {EscrowDisputed},
		ActionCancel:           preRelease,
		ActionSetFulfillment:   statuses,
		ActionSetOperatorNotes: statuses,
	}
	require.Len(t, accepted, len(AllActions))

	for _, action := range AllActions {
		for _, from := range statuses {
			t.Run(string(action)+"/"+string(from), func(t *testing.T) {
				order := orderIn(from)
				before := order.Clone()

				err := ApplyEscrowCommand(order, placeholderCommand(action), now)
				if containsStatus(accepted[action], from) {
					assert.NoError(t, err)
					return
				}
				assert.ErrorIs(t, err, ErrInvalidStateTransition)
				assert.Equal(t, before, order)
			})
		}
	}
}

func containsStatus(list []EscrowStatus, s EscrowStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
