// Package access decides who may read, edit, delete, create and list blocked times.
package access

import (
	"github.com/google/uuid"

	"salonbook/backend/internal/domain"
)

type Operation string

const (
	OpRead   Operation = "read"
	OpEdit   Operation = "edit"
	OpDelete Operation = "delete"
)

type grant struct {
	own domain.Permission
	all domain.Permission
}

var grants = map[Operation]grant{
	OpRead:   {own: domain.PermBlockedTimeReadOwn, all: domain.PermBlockedTimeReadAll},
	OpEdit:   {own: domain.PermBlockedTimeEditOwn, all: domain.PermBlockedTimeEditAll},
	OpDelete: {own: domain.PermBlockedTimeDeleteOwn, all: domain.PermBlockedTimeDeleteAll},
}

type decisionKey struct {
	hasPermissions bool
	isOwner        bool
}

// rule returns nil to allow.
type rule func(auth domain.AuthContext, g grant) error

var decisions = map[decisionKey]rule{
	{hasPermissions: false, isOwner: true}: func(domain.AuthContext, grant) error {
		return nil
	},
	{hasPermissions: false, isOwner: false}: func(auth domain.AuthContext, _ grant) error {
		if auth.IsManager() {
			return nil
		}
		return domain.Forbidden("not allowed to access this blocked time")
	},
	{hasPermissions: true, isOwner: true}: func(auth domain.AuthContext, g grant) error {
		if auth.Has(g.own) {
			return nil
		}
		return domain.Forbidden("missing permission " + string(g.own))
	},
	{hasPermissions: true, isOwner: false}: func(auth domain.AuthContext, g grant) error {
		if auth.Has(g.all) {
			return nil
		}
		return domain.Forbidden("missing permission " + string(g.all))
	},
}

// Authorize decides op on resource for auth.
func Authorize(auth domain.AuthContext, resource domain.BlockedTime, op Operation) error {
	if auth.UserID == uuid.Nil {
		return domain.Forbidden("authentication required")
	}
	g, ok := grants[op]
	if !ok {
		return domain.Forbidden("unknown operation " + string(op))
	}
	key := decisionKey{
		hasPermissions: auth.HasPermissions(),
		isOwner:        resource.ProfessionalID == auth.UserID,
	}
	return decisions[key](auth, g)
}

func AuthorizeCreate(auth domain.AuthContext) error {
	if auth.UserID == uuid.Nil {
		return domain.Forbidden("authentication required")
	}
	if auth.HasPermissions() {
		if auth.Has(domain.PermBlockedTimeCreateOwn) {
			return nil
		}
		return domain.Forbidden("missing permission " + string(domain.PermBlockedTimeCreateOwn))
	}
	switch auth.UserType {
	case domain.UserTypeProfessional, domain.UserTypeManager:
		return nil
	}
	return domain.Forbidden("only professionals can create blocked times")
}

// Scope narrows a listing. A nil ProfessionalID means every professional.
type Scope struct {
	ProfessionalID *uuid.UUID
}

func (s Scope) Unscoped() bool {
	return s.ProfessionalID == nil
}

func ListScope(auth domain.AuthContext) (Scope, error) {
	if auth.UserID == uuid.Nil {
		return Scope{}, domain.Forbidden("authentication required")
	}
	own := auth.UserID
	if !auth.HasPermissions() {
		if auth.IsManager() {
			return Scope{}, nil
		}
		return Scope{ProfessionalID: &own}, nil
	}
	switch {
	case auth.Has(domain.PermBlockedTimeReadAll):
		return Scope{}, nil
	case auth.Has(domain.PermBlockedTimeReadOwn):
		return Scope{ProfessionalID: &own}, nil
	}
	return Scope{}, domain.Forbidden("missing permission " + string(domain.PermBlockedTimeReadOwn))
}

// ParsePermissions keeps the known permission names and drops the rest.
func ParsePermissions(names []string) []domain.Permission {
	out := make([]domain.Permission, 0, len(names))
	for _, n := range names {
		if p, ok := domain.ParsePermission(n); ok {
			out = append(out, p)
		}
	}
	return out
}
