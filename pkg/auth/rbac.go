package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wallframe/wallframe-core/pkg/models"
)

// Permission represents a single grant: an action on a resource,
// optionally restricted to a scope. The wildcard "*" in any field
// matches everything in that dimension.
//
// Examples:
//
//	{Resource: "gallery", Action: "read"}              // read the gallery
//	{Resource: "wishlist", Action: "write", Scope: "own"} // edit your own wishlist
//	{Resource: "*", Action: "*"}                       // full access
type Permission struct {
	// Resource identifies what the permission applies to (e.g.,
	// "gallery", "wishlist", "uploads"). "*" matches any resource.
	Resource string

	// Action identifies the operation (e.g., "read", "write",
	// "moderate"). "*" matches any action.
	Action string

	// Scope optionally restricts the grant (e.g., "own" for records the
	// identity itself owns). Empty means the grant is global; "*" matches
	// any scope.
	Scope string
}

// String returns the colon-delimited form: "resource:action" when the
// scope is empty or "*", "resource:action:scope" otherwise.
func (p Permission) String() string {
	if p.Scope == "" || p.Scope == "*" {
		return p.Resource + ":" + p.Action
	}
	return p.Resource + ":" + p.Action + ":" + p.Scope
}

// Match reports whether this permission grants the requested resource,
// action, and scope. Wildcards on either side of the scope comparison
// match, and a permission with an empty scope applies to all scopes.
func (p Permission) Match(resource, action, scope string) bool {
	if p.Resource != "*" && p.Resource != resource {
		return false
	}
	if p.Action != "*" && p.Action != action {
		return false
	}
	if p.Scope == "" || p.Scope == "*" || scope == "" || scope == "*" {
		return true
	}
	return p.Scope == scope
}

// hasPermission reports whether any permission in the slice grants the
// resource/action pair, ignoring scope.
func hasPermission(perms []Permission, resource, action string) bool {
	for _, p := range perms {
		if p.Match(resource, action, "") {
			return true
		}
	}
	return false
}

// RolePermissionMap maps role names to the permissions the role grants.
// It is the data structure behind fine-grained checks layered on top of
// the coarse role gate in [Authorize].
type RolePermissionMap map[models.Role][]Permission

// DefaultRolePermissions returns the platform's role-to-permission
// mapping:
//
//   - admin: full access to every resource and action.
//   - user: browse the gallery and manage their own wishlist.
//
// Callers may extend the returned map for service-specific resources.
func DefaultRolePermissions() RolePermissionMap {
	return RolePermissionMap{
		models.RoleAdmin: {
			{Resource: "*", Action: "*"},
		},
		models.RoleUser: {
			{Resource: "gallery", Action: "read"},
			{Resource: "wishlist", Action: "read", Scope: "own"},
			{Resource: "wishlist", Action: "write", Scope: "own"},
		},
	}
}

// HasPermission reports whether the given role grants the resource and
// action, ignoring scope. Unknown roles grant nothing.
func (m RolePermissionMap) HasPermission(role models.Role, resource, action string) bool {
	return hasPermission(m[role], resource, action)
}

// HasScopedPermission reports whether the given role grants the
// resource, action, and scope combination using [Permission.Match].
func (m RolePermissionMap) HasScopedPermission(role models.Role, resource, action, scope string) bool {
	for _, p := range m[role] {
		if p.Match(resource, action, scope) {
			return true
		}
	}
	return false
}

// ParsePermissionString parses "resource:action" or
// "resource:action:scope" into a [Permission]. Either part may be the
// wildcard "*". Returns an error when the separator is missing, a part
// is empty, or a three-part form has an empty scope.
func ParsePermissionString(s string) (Permission, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 2 {
		return Permission{}, fmt.Errorf("auth: invalid permission string %q: missing colon separator", s)
	}

	resource, action := parts[0], parts[1]
	if resource == "" {
		return Permission{}, errors.New("auth: invalid permission string: empty resource")
	}
	if action == "" {
		return Permission{}, errors.New("auth: invalid permission string: empty action")
	}

	var scope string
	if len(parts) == 3 {
		scope = parts[2]
		if scope == "" {
			return Permission{}, errors.New("auth: invalid permission string: empty scope (use two-part format for global permissions)")
		}
	}

	return Permission{Resource: resource, Action: action, Scope: scope}, nil
}

// ParseScopePermissions splits a space-separated permission list (the
// OAuth2 scope convention) and parses each token with
// [ParsePermissionString]. Malformed tokens are skipped.
func ParseScopePermissions(scope string) []Permission {
	result := []Permission{}
	for _, token := range strings.Fields(scope) {
		p, err := ParsePermissionString(token)
		if err != nil {
			continue
		}
		result = append(result, p)
	}
	return result
}

// resourceActionKey groups permissions by Resource and Action, ignoring
// Scope, for the scope-agnostic index.
type resourceActionKey struct {
	Resource string
	Action   string
}

// PermissionSet is an immutable collection of permissions optimized for
// repeated checks. Non-wildcard permissions live in maps for O(1)
// lookup; wildcard permissions fall back to a linear scan. Safe for
// concurrent reads after construction.
type PermissionSet struct {
	exact     map[Permission]struct{}
	anyScope  map[resourceActionKey]struct{}
	wildcards []Permission
	all       []Permission
}

// NewPermissionSet builds a [PermissionSet] from the given permissions,
// deduplicating them. The input slice is not modified; nil is a valid,
// empty set.
func NewPermissionSet(perms []Permission) *PermissionSet {
	ps := &PermissionSet{
		exact:    make(map[Permission]struct{}, len(perms)),
		anyScope: make(map[resourceActionKey]struct{}, len(perms)),
	}

	seen := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		if _, exists := seen[p]; exists {
			continue
		}
		seen[p] = struct{}{}
		ps.all = append(ps.all, p)

		if p.Resource == "*" || p.Action == "*" || p.Scope == "*" {
			ps.wildcards = append(ps.wildcards, p)
		} else {
			ps.exact[p] = struct{}{}
			ps.anyScope[resourceActionKey{Resource: p.Resource, Action: p.Action}] = struct{}{}
		}
	}
	return ps
}

// Has performs an exact-match lookup, ignoring wildcard grants. Use
// [PermissionSet.Match] for authorization decisions.
func (ps *PermissionSet) Has(resource, action, scope string) bool {
	_, exists := ps.exact[Permission{Resource: resource, Action: action, Scope: scope}]
	return exists
}

// Match reports whether the set grants the resource, action, and scope
// combination, respecting wildcard permissions. Exact and scope-agnostic
// lookups run first; wildcard permissions are scanned only on a miss.
func (ps *PermissionSet) Match(resource, action, scope string) bool {
	if ps.Has(resource, action, scope) {
		return true
	}

	if scope == "" || scope == "*" {
		// An empty or wildcard check scope matches any permission scope.
		if _, exists := ps.anyScope[resourceActionKey{Resource: resource, Action: action}]; exists {
			return true
		}
	} else {
		// A global permission (empty scope) covers every specific scope.
		if _, exists := ps.exact[Permission{Resource: resource, Action: action}]; exists {
			return true
		}
	}

	for _, p := range ps.wildcards {
		if p.Match(resource, action, scope) {
			return true
		}
	}
	return false
}

// Permissions returns a defensive copy of the set's permissions in
// insertion order.
func (ps *PermissionSet) Permissions() []Permission {
	copied := make([]Permission, len(ps.all))
	copy(copied, ps.all)
	return copied
}

// Len returns the number of unique permissions in the set.
func (ps *PermissionSet) Len() int {
	return len(ps.all)
}
