package policy_test

import (
	"net/http"
	"testing"

	"storefront/internal/policy"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		res      policy.Resource
		action   policy.Action
		role     policy.Role
		expected policy.Decision
	}{
		{"anyone reads collections", policy.Collections, policy.Read, policy.Anonymous, policy.Allow},
		{"anonymous create collection", policy.Collections, policy.Create, policy.Anonymous, policy.DenyUnauthenticated},
		{"customer create collection", policy.Collections, policy.Create, policy.Customer, policy.DenyForbidden},
		{"admin create collection", policy.Collections, policy.Create, policy.Admin, policy.Allow},
		{"customer deletes product", policy.Products, policy.Delete, policy.Customer, policy.DenyForbidden},
		{"anonymous uploads image", policy.ProductImages, policy.Create, policy.Anonymous, policy.DenyUnauthenticated},
		{"anonymous posts review", policy.ProductReviews, policy.Create, policy.Anonymous, policy.Allow},
		{"customer edits review", policy.ProductReviews, policy.Update, policy.Customer, policy.DenyForbidden},
		{"anonymous lists orders", policy.Orders, policy.Read, policy.Anonymous, policy.DenyUnauthenticated},
		{"customer places order", policy.Orders, policy.Create, policy.Customer, policy.Allow},
		{"customer reads addresses", policy.Addresses, policy.Read, policy.Customer, policy.Allow},
		{"anonymous creates cart", policy.Carts, policy.Create, policy.Anonymous, policy.Allow},
		{"anonymous edits cart item", policy.CartItems, policy.Update, policy.Anonymous, policy.Allow},
		{"unknown resource is admin only", policy.Resource("reports"), policy.Read, policy.Customer, policy.DenyForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, policy.Evaluate(tt.res, tt.action, tt.role))
		})
	}
}

func TestActionFor(t *testing.T) {
	assert.Equal(t, policy.Read, policy.ActionFor(http.MethodGet))
	assert.Equal(t, policy.Read, policy.ActionFor(http.MethodHead))
	assert.Equal(t, policy.Read, policy.ActionFor(http.MethodOptions))
	assert.Equal(t, policy.Create, policy.ActionFor(http.MethodPost))
	assert.Equal(t, policy.Update, policy.ActionFor(http.MethodPut))
	assert.Equal(t, policy.Update, policy.ActionFor(http.MethodPatch))
	assert.Equal(t, policy.Delete, policy.ActionFor(http.MethodDelete))
}

func TestRoleOf(t *testing.T) {
	assert.Equal(t, policy.Anonymous, policy.RoleOf(nil))
	assert.Equal(t, policy.Customer, policy.RoleOf(&policy.Identity{UserID: "u1"}))
	assert.Equal(t, policy.Admin, policy.RoleOf(&policy.Identity{UserID: "u2", IsStaff: true}))
}
