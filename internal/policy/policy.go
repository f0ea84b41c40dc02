// Package policy holds the declarative permission table of the store API.
//
// Every endpoint names the Resource it serves; the HTTP method is mapped to an
// Action and the pair is looked up in Table to find the Rule that applies.
// Row-level ownership (a customer only sees their own orders) is not expressed
// here: services scope queries by the caller's Identity.
package policy

import "net/http"

// Resource names a group of endpoints.
type Resource string

const (
	Collections    Resource = "collections"
	Products       Resource = "products"
	ProductImages  Resource = "product_images"
	ProductReviews Resource = "product_reviews"
	Customers      Resource = "customers"
	Addresses      Resource = "addresses"
	Orders         Resource = "orders"
	OrderItems     Resource = "order_items"
	Carts          Resource = "carts"
	CartItems      Resource = "cart_items"
)

// Action is what a request does to a resource.
type Action string

const (
	Read   Action = "read"
	Create Action = "create"
	Update Action = "update"
	Delete Action = "delete"
)

// Rule is the minimum role an action requires.
type Rule int

const (
	AllowAny Rule = iota
	Authenticated
	AdminOnly
)

// Role classifies the caller.
type Role int

const (
	Anonymous Role = iota
	Customer
	Admin
)

// Decision is the outcome of evaluating a request against the table.
type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyForbidden
)

// Identity is the authenticated caller.
type Identity struct {
	UserID   string
	Username string
	IsStaff  bool
}

// RoleOf returns the role of id; a nil identity is anonymous.
func RoleOf(id *Identity) Role {
	switch {
	case id == nil:
		return Anonymous
	case id.IsStaff:
		return Admin
	default:
		return Customer
	}
}

func catalog() map[Action]Rule {
	return map[Action]Rule{Read: AllowAny, Create: AdminOnly, Update: AdminOnly, Delete: AdminOnly}
}

func uniform(r Rule) map[Action]Rule {
	return map[Action]Rule{Read: r, Create: r, Update: r, Delete: r}
}

// Table maps resource × action to the rule that guards it.
var Table = map[Resource]map[Action]Rule{
	Collections:    catalog(),
	Products:       catalog(),
	ProductImages:  catalog(),
	ProductReviews: {Read: AllowAny, Create: AllowAny, Update: AdminOnly, Delete: AdminOnly},
	Customers:      uniform(Authenticated),
	Addresses:      uniform(Authenticated),
	Orders:         uniform(Authenticated),
	OrderItems:     uniform(Authenticated),
	Carts:          uniform(AllowAny),
	CartItems:      uniform(AllowAny),
}

// ActionFor maps an HTTP method to an action.
func ActionFor(method string) Action {
	switch method {
	case http.MethodPost:
		return Create
	case http.MethodPut, http.MethodPatch:
		return Update
	case http.MethodDelete:
		return Delete
	default:
		return Read
	}
}

// Evaluate decides whether role may perform action on res. Unknown resources
// and actions are admin-only.
func Evaluate(res Resource, action Action, role Role) Decision {
	rule := AdminOnly
	if actions, ok := Table[res]; ok {
		if r, ok := actions[action]; ok {
			rule = r
		}
	}

	switch rule {
	case AllowAny:
		return Allow
	case Authenticated:
		if role == Anonymous {
			return DenyUnauthenticated
		}
		return Allow
	default:
		if role == Anonymous {
			return DenyUnauthenticated
		}
		if role != Admin {
			return DenyForbidden
		}
		return Allow
	}
}
