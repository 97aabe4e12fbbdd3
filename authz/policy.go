package authz

import "fmt"

// Actor is the authenticated principal performing an action.
type Actor struct {
	ID   string
	Role string
}

// Roles known to the policy.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Decision is the outcome of a policy check.
type Decision struct {
	Allowed bool
	Reason  string
}

// Policy answers whether an actor may perform an action on a resource.
type Policy interface {
	Can(actor Actor, action, resource string) Decision
}

// RolePolicy is a table-driven Policy: each role maps to the set of
// actions it may perform. Admin implicitly holds every action.
type RolePolicy struct {
	grants map[string]map[string]bool
}

// NewRolePolicy builds the default storefront policy.
func NewRolePolicy() *RolePolicy {
	customer := []string{
		"cart:read", "cart:write",
		"discount:apply",
		"shipping:quote",
		"order:create", "order:read", "order:cancel", "order:finish", "order:review",
		"refund:create",
	}
	admin := []string{
		"order:read_all", "order:advance",
		"discount:manage",
	}

	grants := map[string]map[string]bool{
		RoleCustomer: {},
		RoleAdmin:    {},
	}
	for _, action := range customer {
		grants[RoleCustomer][action] = true
		grants[RoleAdmin][action] = true
	}
	for _, action := range admin {
		grants[RoleAdmin][action] = true
	}
	return &RolePolicy{grants: grants}
}

// Can checks the actor's role against the grant table.
func (p *RolePolicy) Can(actor Actor, action, resource string) Decision {
	if actor.ID == "" {
		return Decision{Allowed: false, Reason: "unauthenticated"}
	}
	actions, ok := p.grants[actor.Role]
	if !ok {
		return Decision{Allowed: false, Reason: fmt.Sprintf("unknown role %q", actor.Role)}
	}
	if !actions[action] {
		return Decision{Allowed: false, Reason: fmt.Sprintf("role %q may not %s on %s", actor.Role, action, resource)}
	}
	return Decision{Allowed: true}
}
