package domain

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type UserType string

const (
	UserTypeManager      UserType = "MANAGER"
	UserTypeProfessional UserType = "PROFESSIONAL"
	UserTypeCustomer     UserType = "CUSTOMER"
)

func (t UserType) Valid() bool {
	switch t {
	case UserTypeManager, UserTypeProfessional, UserTypeCustomer:
		return true
	}
	return false
}

type Professional struct {
	bun.BaseModel `bun:"table:professionals,alias:p"`

	ID       uuid.UUID `bun:"id,pk,type:uuid"`
	Name     string    `bun:"name,notnull"`
	UserType UserType  `bun:"user_type,notnull"`
}

// Shift is a professional's working window for one weekday.
type Shift struct {
	bun.BaseModel `bun:"table:shifts,alias:sh"`

	ID             uuid.UUID `bun:"id,pk,type:uuid"`
	ProfessionalID uuid.UUID `bun:"professional_id,notnull,type:uuid"`
	WeekDay        int16     `bun:"week_day,notnull"`
	ShiftStart     Clock     `bun:"shift_start,notnull"`
	ShiftEnd       Clock     `bun:"shift_end,notnull"`
	IsBusy         bool      `bun:"is_busy,notnull"`
}

func (s Shift) Works() bool {
	return !s.IsBusy && s.ShiftStart < s.ShiftEnd
}
