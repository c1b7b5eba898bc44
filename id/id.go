// Package id defines the validated identifier types shared by the
// authorization engine: tenants, principals, tenant roles, global roles,
// and resource names. Every entity in the engine is named by one of
// these five types instead of a bare string, so a tenant id can never be
// passed where a role id is expected.
//
// All five share the same grammar: non-empty after trimming, 1..128
// bytes, charset `[a-z0-9_-]`. Construction case-folds and trims, so two
// identifiers are equal iff their normalized text is equal.
package id

import (
	"fmt"
	"strings"
)

const maxLen = 128

// Kind names the identifier's entity type, used only for error messages.
type Kind string

const (
	KindTenant     Kind = "tenant"
	KindPrincipal  Kind = "principal"
	KindRole       Kind = "role"
	KindGlobalRole Kind = "global_role"
	KindResource   Kind = "resource"
)

func normalize(kind Kind, raw string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return "", &InvalidIDError{Kind: kind, Value: raw, Reason: "empty after trim"}
	}
	if len(v) > maxLen {
		return "", &InvalidIDError{Kind: kind, Value: raw, Reason: fmt.Sprintf("exceeds %d bytes", maxLen)}
	}
	for _, r := range v {
		if !validRune(r) {
			return "", &InvalidIDError{Kind: kind, Value: raw, Reason: fmt.Sprintf("invalid character %q", r)}
		}
	}
	return v, nil
}

func validRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-':
		return true
	default:
		return false
	}
}

// InvalidIDError is returned when an identifier fails validation.
type InvalidIDError struct {
	Kind   Kind
	Value  string
	Reason string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("id: invalid %s %q: %s", e.Kind, e.Value, e.Reason)
}

// TenantID identifies a tenant: a scope of isolation.
type TenantID struct{ v string }

// NewTenantID validates and normalizes s into a TenantID.
func NewTenantID(s string) (TenantID, error) {
	v, err := normalize(KindTenant, s)
	if err != nil {
		return TenantID{}, err
	}
	return TenantID{v: v}, nil
}

// MustTenantID is like NewTenantID but panics on error. Use for constants.
func MustTenantID(s string) TenantID {
	id, err := NewTenantID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the normalized text form.
func (t TenantID) String() string { return t.v }

// IsZero reports whether t is the zero value (never a valid TenantID).
func (t TenantID) IsZero() bool { return t.v == "" }

// PrincipalID identifies a principal: a user, service, or machine identity.
type PrincipalID struct{ v string }

// NewPrincipalID validates and normalizes s into a PrincipalID.
func NewPrincipalID(s string) (PrincipalID, error) {
	v, err := normalize(KindPrincipal, s)
	if err != nil {
		return PrincipalID{}, err
	}
	return PrincipalID{v: v}, nil
}

// MustPrincipalID is like NewPrincipalID but panics on error.
func MustPrincipalID(s string) PrincipalID {
	id, err := NewPrincipalID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (p PrincipalID) String() string { return p.v }
func (p PrincipalID) IsZero() bool   { return p.v == "" }

// RoleID identifies a tenant-scoped role.
type RoleID struct{ v string }

// NewRoleID validates and normalizes s into a RoleID.
func NewRoleID(s string) (RoleID, error) {
	v, err := normalize(KindRole, s)
	if err != nil {
		return RoleID{}, err
	}
	return RoleID{v: v}, nil
}

// MustRoleID is like NewRoleID but panics on error.
func MustRoleID(s string) RoleID {
	id, err := NewRoleID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (r RoleID) String() string { return r.v }
func (r RoleID) IsZero() bool   { return r.v == "" }

// GlobalRoleID identifies a tenant-independent role.
type GlobalRoleID struct{ v string }

// NewGlobalRoleID validates and normalizes s into a GlobalRoleID.
func NewGlobalRoleID(s string) (GlobalRoleID, error) {
	v, err := normalize(KindGlobalRole, s)
	if err != nil {
		return GlobalRoleID{}, err
	}
	return GlobalRoleID{v: v}, nil
}

// MustGlobalRoleID is like NewGlobalRoleID but panics on error.
func MustGlobalRoleID(s string) GlobalRoleID {
	id, err := NewGlobalRoleID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (g GlobalRoleID) String() string { return g.v }
func (g GlobalRoleID) IsZero() bool   { return g.v == "" }

// ResourceName identifies a class of resource (e.g. "invoice"), used for
// scope queries rather than exact-resource authorization checks.
type ResourceName struct{ v string }

// NewResourceName validates and normalizes s into a ResourceName.
func NewResourceName(s string) (ResourceName, error) {
	v, err := normalize(KindResource, s)
	if err != nil {
		return ResourceName{}, err
	}
	return ResourceName{v: v}, nil
}

// MustResourceName is like NewResourceName but panics on error.
func MustResourceName(s string) ResourceName {
	id, err := NewResourceName(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (r ResourceName) String() string { return r.v }
func (r ResourceName) IsZero() bool   { return r.v == "" }
