package domain

import "github.com/google/uuid"

// Permission is a named capability. The set is closed: only the constants below exist.
type Permission string

const (
	PermBlockedTimeReadOwn   Permission = "blocked_time.read_own"
	PermBlockedTimeReadAll   Permission = "blocked_time.read_all"
	PermBlockedTimeCreateOwn Permission = "blocked_time.create_own"
	PermBlockedTimeEditOwn   Permission = "blocked_time.edit_own"
	PermBlockedTimeEditAll   Permission = "blocked_time.edit_all"
	PermBlockedTimeDeleteOwn Permission = "blocked_time.delete_own"
	PermBlockedTimeDeleteAll Permission = "blocked_time.delete_all"
)

var knownPermissions = map[Permission]struct{}{
	PermBlockedTimeReadOwn:   {},
	PermBlockedTimeReadAll:   {},
	PermBlockedTimeCreateOwn: {},
	PermBlockedTimeEditOwn:   {},
	PermBlockedTimeEditAll:   {},
	PermBlockedTimeDeleteOwn: {},
	PermBlockedTimeDeleteAll: {},
}

func ParsePermission(s string) (Permission, bool) {
	p := Permission(s)
	_, ok := knownPermissions[p]
	return p, ok
}

// AuthContext identifies the caller of a scheduling request.
type AuthContext struct {
	UserID      uuid.UUID
	UserType    UserType
	Permissions []Permission
	// ExplicitPermissions is set when the caller's credentials carried any
	// permission names at all, including ones outside this set.
	ExplicitPermissions bool
}

// HasPermissions reports whether the caller is governed by explicit
// permissions rather than by user type.
func (a AuthContext) HasPermissions() bool {
	return a.ExplicitPermissions || len(a.Permissions) > 0
}

func (a AuthContext) Has(p Permission) bool {
	for _, have := range a.Permissions {
		if have == p {
			return true
		}
	}
	return false
}

func (a AuthContext) IsManager() bool {
	return a.UserType == UserTypeManager
}
