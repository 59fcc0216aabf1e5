package domain

type Role string

const (
	RoleBuyer   Role = "buyer"
	RoleSeller  Role = "seller"
	RoleSupport Role = "support"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleSupport, RoleAdmin:
		return true
	}
	return false
}

// Actor is an already authenticated caller. Its lifecycle belongs to the auth service.
type Actor struct {
	ID   string
	Role Role
}

// IsOperator reports generic order-management access (support staff and admins).
func (a Actor) IsOperator() bool {
	return a.Role == RoleSupport || a.Role == RoleAdmin
}
