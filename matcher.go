package rbac

import "github.com/mztlive/rbac/permission"

// matches reports whether set grants required, honoring exact entries
// always and wildcard entries only when wildcard is enabled. A wildcard
// segment matches any value in that position; "*" matches nothing by
// itself unless paired into "resource:*", "*:action", or "*:*".
func matches(set permission.Set, required permission.Permission, enableWildcard bool) bool {
	if set.Exact(required) {
		return true
	}
	if !enableWildcard {
		return false
	}
	for _, w := range set.Wildcards() {
		if segmentMatches(w.Resource, required.Resource) && segmentMatches(w.Action, required.Action) {
			return true
		}
	}
	return false
}

func segmentMatches(pattern, value string) bool {
	return pattern == permission.Wildcard || pattern == value
}

// coversResource reports whether set grants any action at all on the
// given resource — used for scope queries, which care only about
// resource-level access and not a specific action.
func coversResource(set permission.Set, resource string, enableWildcard bool) bool {
	for _, p := range set.All() {
		if p.Resource == resource {
			return true
		}
	}
	if !enableWildcard {
		return false
	}
	for _, w := range set.Wildcards() {
		if w.IsWildcardResource() {
			return true
		}
		if w.Resource == resource {
			return true
		}
	}
	return false
}

// authorizeSet reports whether set grants the required permission,
// handling both the exact and wildcard cases via matches. It exists as
// the engine's single entry point into the matcher so the engine itself
// never inspects Set internals directly.
func authorizeSet(set permission.Set, required permission.Permission, enableWildcard bool) bool {
	return matches(set, required, enableWildcard)
}
