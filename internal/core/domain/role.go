package domain

import (
	"slices"
	"strings"
)

// RolePriority is a fixed total order over employment categories used for
// every role-based sort. Roles not in the order rank after all known roles
// and compare equal to each other, so callers must add a secondary key.
type RolePriority struct {
	order []string
	rank  map[string]int
}

// DefaultRolePriority ranks employees first, then part-timers, then temporary staff.
var DefaultRolePriority = NewRolePriority(RoleEmployee, RolePartTime, RoleTemporary)

// NewRolePriority builds an order from highest to lowest priority. Blank and
// repeated roles are ignored.
func NewRolePriority(order ...string) RolePriority {
	p := RolePriority{rank: make(map[string]int, len(order))}
	for _, r := range order {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if _, dup := p.rank[r]; dup {
			continue
		}
		p.rank[r] = len(p.order)
		p.order = append(p.order, r)
	}
	return p
}

// Rank returns the position of role in the order; unknown roles get len(order).
func (p RolePriority) Rank(role string) int {
	if r, ok := p.rank[role]; ok {
		return r
	}
	return len(p.order)
}

// Known reports whether role is part of the order.
func (p RolePriority) Known(role string) bool {
	_, ok := p.rank[role]
	return ok
}

// Roles returns the order, highest priority first.
func (p RolePriority) Roles() []string {
	return slices.Clone(p.order)
}

// Compare returns -1, 0 or +1 as a ranks before, equal to or after b.
func (p RolePriority) Compare(a, b string) int {
	ra, rb := p.Rank(a), p.Rank(b)
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	default:
		return 0
	}
}

// SortUsers orders users by role priority, then by ID.
func (p RolePriority) SortUsers(users []User) {
	slices.SortStableFunc(users, func(a, b User) int {
		if c := p.Compare(a.Role, b.Role); c != 0 {
			return c
		}
		return CompareIDs(a.ID, b.ID)
	})
}

// CompareIDs orders identifiers numerically when both are decimal strings
// (SQL serial keys) and lexically otherwise (Mongo object IDs).
func CompareIDs(a, b string) int {
	if isDigits(a) && isDigits(b) {
		a = strings.TrimLeft(a, "0")
		b = strings.TrimLeft(b, "0")
		if len(a) != len(b) {
			if len(a) < len(b) {
				return -1
			}
			return 1
		}
	}
	return strings.Compare(a, b)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
