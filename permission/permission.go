// Package permission defines the Permission value type and the Set type
// the role graph resolver produces and the matcher consumes.
package permission

import (
	"fmt"
	"strings"
)

// Permission is a single `resource:action` grant, e.g. "invoice:read" or
// "invoice:*". The wildcard segment, when present, always occupies a
// whole segment — "inv*:read" is not legal grammar, only "*:read",
// "invoice:*", or "*:*".
type Permission struct {
	Resource string
	Action   string
}

// Wildcard is the only legal wildcard segment value.
const Wildcard = "*"

// Parse splits "resource:action" into a Permission. The grammar requires
// exactly one colon and non-empty resource/action segments (a segment may
// be the literal "*"). Each segment is trimmed and case-folded before
// validation, so Parse(" Invoice:Read ") equals Parse("invoice:read").
func Parse(s string) (Permission, error) {
	resource, action, ok := strings.Cut(s, ":")
	if !ok {
		return Permission{}, &InvalidPermissionError{Value: s, Reason: "missing ':' separator"}
	}
	resource = normalize(resource)
	action = normalize(action)
	if resource == "" || action == "" {
		return Permission{}, &InvalidPermissionError{Value: s, Reason: "empty resource or action segment"}
	}
	if strings.Contains(resource, ":") || strings.Contains(action, ":") {
		return Permission{}, &InvalidPermissionError{Value: s, Reason: "more than one ':' separator"}
	}
	if err := validSegment(resource); err != nil {
		return Permission{}, &InvalidPermissionError{Value: s, Reason: fmt.Sprintf("resource segment: %v", err)}
	}
	if err := validSegment(action); err != nil {
		return Permission{}, &InvalidPermissionError{Value: s, Reason: fmt.Sprintf("action segment: %v", err)}
	}
	return Permission{Resource: resource, Action: action}, nil
}

// New validates and constructs a Permission from explicit segments.
func New(resource, action string) (Permission, error) {
	return Parse(resource + ":" + action)
}

func normalize(seg string) string {
	return strings.ToLower(strings.TrimSpace(seg))
}

func validSegment(seg string) error {
	if seg == Wildcard {
		return nil
	}
	for _, r := range seg {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return fmt.Errorf("invalid character %q", r)
		}
	}
	return nil
}

// String renders the permission back into "resource:action" form.
func (p Permission) String() string {
	return p.Resource + ":" + p.Action
}

// IsWildcardResource reports whether the resource segment is "*".
func (p Permission) IsWildcardResource() bool { return p.Resource == Wildcard }

// IsWildcardAction reports whether the action segment is "*".
func (p Permission) IsWildcardAction() bool { return p.Action == Wildcard }

// HasWildcard reports whether either segment is a wildcard.
func (p Permission) HasWildcard() bool {
	return p.IsWildcardResource() || p.IsWildcardAction()
}

// InvalidPermissionError is returned when a permission string fails to
// parse against the resource:action grammar.
type InvalidPermissionError struct {
	Value  string
	Reason string
}

func (e *InvalidPermissionError) Error() string {
	return fmt.Sprintf("permission: invalid %q: %s", e.Value, e.Reason)
}
