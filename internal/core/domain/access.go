package domain

import "fmt"

// RoleSet is the set of roles a route accepts. An empty set accepts any
// authenticated account.
type RoleSet map[Role]struct{}

// Roles builds a RoleSet.
func Roles(roles ...Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

// Contains reports whether r is in the set.
func (s RoleSet) Contains(r Role) bool {
	_, ok := s[r]
	return ok
}

// Authorize decides whether acct may pass a gate requiring one of required.
// The denial names the caller's own role.
func Authorize(required RoleSet, acct *Account) error {
	if acct == nil {
		return Unauthenticated(MsgLoginRequired, ErrTokenMissing)
	}
	if len(required) == 0 || required.Contains(acct.Role) {
		return nil
	}
	return Forbidden(fmt.Sprintf("Role (%s) is not allowed to access this resource", acct.Role))
}
