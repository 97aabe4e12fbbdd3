package authz_test

import (
	"testing"

	"github.com/caesariomj/jogjaelectrik-sub000/authz"
	"github.com/stretchr/testify/assert"
)

func TestRolePolicy_CustomerGrants(t *testing.T) {
	policy := authz.NewRolePolicy()
	customer := authz.Actor{ID: "user-1", Role: authz.RoleCustomer}

	allowed := []string{"cart:write", "order:create", "order:cancel", "refund:create", "order:review"}
	for _, action := range allowed {
		decision := policy.Can(customer, action, "order")
		assert.True(t, decision.Allowed, "customer should be able to %s", action)
	}

	denied := []string{"order:read_all", "order:advance", "discount:manage"}
	for _, action := range denied {
		decision := policy.Can(customer, action, "order")
		assert.False(t, decision.Allowed, "customer should not be able to %s", action)
		assert.NotEmpty(t, decision.Reason)
	}
}

func TestRolePolicy_AdminHoldsEverything(t *testing.T) {
	policy := authz.NewRolePolicy()
	admin := authz.Actor{ID: "admin-1", Role: authz.RoleAdmin}

	for _, action := range []string{"cart:read", "order:create", "order:read_all", "order:advance", "discount:manage", "refund:create"} {
		decision := policy.Can(admin, action, "order")
		assert.True(t, decision.Allowed, "admin should be able to %s", action)
	}
}

func TestRolePolicy_UnauthenticatedDenied(t *testing.T) {
	policy := authz.NewRolePolicy()

	decision := policy.Can(authz.Actor{Role: authz.RoleCustomer}, "cart:read", "cart")
	assert.False(t, decision.Allowed)
	assert.Equal(t, "unauthenticated", decision.Reason)
}

func TestRolePolicy_UnknownRoleDenied(t *testing.T) {
	policy := authz.NewRolePolicy()

	decision := policy.Can(authz.Actor{ID: "user-1", Role: "warehouse"}, "cart:read", "cart")
	assert.False(t, decision.Allowed)
	assert.Contains(t, decision.Reason, "unknown role")
}
