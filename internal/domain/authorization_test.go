package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	guard := NewAuthorizationGuard([]Role{RoleAdmin})
	order := orderIn(EscrowInEscrow)

	buyer := Actor{ID: "b1", Role: RoleBuyer}
	seller := Actor{ID: "s1", Role: RoleSeller}
	stranger := Actor{ID: "zz", Role: RoleSeller}
	support := Actor{ID: "sup", Role: RoleSupport}
	admin := Actor{ID: "adm", Role: RoleAdmin}

	tests := []struct {
		actor  Actor
		action EscrowAction
		want   error
	}{
		{buyer, ActionReportPayment, nil},
		{buyer, ActionConfirmRelease, nil},
		{buyer, ActionOpenDispute, nil},
		{buyer, ActionMarkFunded, ErrForbidden},
		{buyer, ActionResolveDispute, ErrForbidden},
		{buyer, ActionCancel, ErrForbidden},
		{seller, ActionOpenDispute, nil},
		{seller, ActionConfirmRelease, ErrForbidden},
		{seller, ActionReportPayment, ErrForbidden},
		{seller, ActionSetFulfillment, ErrForbidden},
		{stranger, ActionOpenDispute, ErrOrderNotFound},
		{stranger, ActionConfirmRelease, ErrOrderNotFound},
		{support, ActionMarkFunded, nil},
		{support, ActionCancel, nil},
		{support, ActionSetFulfillment, nil},
		{support, ActionSetOperatorNotes, nil},
		{support, ActionResolveDispute, ErrForbidden},
		{support, ActionConfirmRelease, ErrForbidden},
		{support, ActionOpenDispute, ErrForbidden},
		{admin, ActionResolveDispute, nil},
		{admin, "teleport", ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(string(tt.actor.Role)+"/"+tt.actor.ID+"/"+string(tt.action), func(t *testing.T) {
			err := guard.Authorize(tt.actor, order, tt.action)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthorize_ResolverRolesAreConfigurable(t *testing.T) {
	order := orderIn(EscrowDisputed)
	support := Actor{ID: "sup", Role: RoleSupport}

	guard := NewAuthorizationGuard([]Role{RoleAdmin, RoleSupport})
	assert.NoError(t, guard.Authorize(support, order, ActionResolveDispute))

	// a non-operator role in the resolver set grants nothing
	guard = NewAuthorizationGuard([]Role{RoleBuyer})
	assert.ErrorIs(t, guard.Authorize(Actor{ID: "b1", Role: RoleBuyer}, order, ActionResolveDispute), ErrForbidden)
}

func TestCanView(t *testing.T) {
	guard := NewAuthorizationGuard(nil)
	order := orderIn(EscrowAwaitingPayment)

	assert.True(t, guard.CanView(Actor{ID: "b1", Role: RoleBuyer}, order))
	assert.True(t, guard.CanView(Actor{ID: "s1", Role: RoleSeller}, order))
	assert.True(t, guard.CanView(Actor{ID: "anyone", Role: RoleSupport}, order))
	assert.False(t, guard.CanView(Actor{ID: "", Role: RoleBuyer}, order))
	assert.False(t, guard.CanView(Actor{ID: "zz", Role: RoleBuyer}, order))
}
