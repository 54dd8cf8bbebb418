package grpc

// Wire messages of the salonbook.v1 services. Times of day are "15:04" (or "24:00" as an end),
// dates are "2006-01-02" and instants are RFC 3339 unless noted.

type ComputeDaySlotsRequest struct {
	OfferID string `json:"offer_id" validate:"required,uuid"`
	Day     string `json:"day" validate:"required,datetime=2006-01-02"`
}

type Slot struct {
	// Unix milliseconds.
	StartTimestamp int64 `json:"start_timestamp"`
	EndTimestamp   int64 `json:"end_timestamp"`
	IsBusy         bool  `json:"is_busy"`
}

type ComputeDaySlotsResponse struct {
	Slots []Slot `json:"slots"`
}

type ListBlockedPeriodRequest struct {
	ProfessionalID string `json:"professional_id" validate:"required,uuid"`
	Start          string `json:"start" validate:"required"`
	End            string `json:"end" validate:"required"`
}

type ListBlockedPeriodResponse struct {
	BlockedTimes []BlockedTime `json:"blocked_times"`
}

type Appointment struct {
	ID              string `json:"id"`
	OfferID         string `json:"offer_id"`
	CustomerID      string `json:"customer_id"`
	ProfessionalID  string `json:"professional_id,omitempty"`
	AppointmentDate string `json:"appointment_date"`
	EndDate         string `json:"end_date,omitempty"`
	Status          string `json:"status"`
	CreatedAt       string `json:"created_at,omitempty"`
	UpdatedAt       string `json:"updated_at,omitempty"`
}

type CreateAppointmentRequest struct {
	OfferID         string `json:"offer_id" validate:"required,uuid"`
	AppointmentDate string `json:"appointment_date" validate:"required"`
	IdempotencyKey  string `json:"idempotency_key,omitempty" validate:"max=256"`
}

type UpdateAppointmentRequest struct {
	AppointmentID   string  `json:"appointment_id" validate:"required,uuid"`
	Status          *string `json:"status,omitempty" validate:"omitempty,oneof=PENDING CONFIRMED FINISHED CANCELLED"`
	AppointmentDate *string `json:"appointment_date,omitempty"`
}

type DeleteAppointmentRequest struct {
	AppointmentID string `json:"appointment_id" validate:"required,uuid"`
}

type AppointmentResponse struct {
	Appointment Appointment `json:"appointment"`
}

type BlockedTime struct {
	ID             string `json:"id"`
	ProfessionalID string `json:"professional_id"`
	Monday         bool   `json:"monday"`
	Tuesday        bool   `json:"tuesday"`
	Wednesday      bool   `json:"wednesday"`
	Thursday       bool   `json:"thursday"`
	Friday         bool   `json:"friday"`
	Saturday       bool   `json:"saturday"`
	Sunday         bool   `json:"sunday"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	StartDate      string `json:"start_date,omitempty"`
	EndDate        string `json:"end_date,omitempty"`
	IsActive       bool   `json:"is_active"`
	Reason         string `json:"reason,omitempty"`
}

type CreateBlockedTimeRequest struct {
	Weekdays  []int16 `json:"weekdays" validate:"required,min=1,dive,min=1,max=7"`
	StartTime string  `json:"start_time" validate:"required,clock"`
	EndTime   string  `json:"end_time" validate:"required,clock"`
	StartDate string  `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string  `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	IsActive  *bool   `json:"is_active,omitempty"`
	Reason    string  `json:"reason,omitempty" validate:"max=500"`
}

type UpdateBlockedTimeRequest struct {
	BlockedTimeID string   `json:"blocked_time_id" validate:"required,uuid"`
	Weekdays      *[]int16 `json:"weekdays,omitempty"`
	StartTime     *string  `json:"start_time,omitempty" validate:"omitempty,clock"`
	EndTime       *string  `json:"end_time,omitempty" validate:"omitempty,clock"`
	StartDate     *string  `json:"start_date,omitempty"`
	EndDate       *string  `json:"end_date,omitempty"`
	IsActive      *bool    `json:"is_active,omitempty"`
	Reason        *string  `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type BlockedTimeIDRequest struct {
	BlockedTimeID string `json:"blocked_time_id" validate:"required,uuid"`
}

type BlockedTimeResponse struct {
	BlockedTime BlockedTime `json:"blocked_time"`
}

type ListBlockedTimesRequest struct {
	ProfessionalID string `json:"professional_id,omitempty" validate:"omitempty,uuid"`
	IsActive       *bool  `json:"is_active,omitempty"`
	Page           int    `json:"page,omitempty" validate:"gte=0"`
	PageSize       int    `json:"page_size,omitempty" validate:"gte=0,lte=100"`
}

type ListBlockedTimesResponse struct {
	Items    []BlockedTime `json:"items"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

type Offer struct {
	ID             string `json:"id"`
	ProfessionalID string `json:"professional_id"`
	ServiceID      string `json:"service_id"`
	EstimatedTime  int    `json:"estimated_time"`
	PriceCents     int64  `json:"price_cents"`
	IsOffering     bool   `json:"is_offering"`
}

type CreateOfferRequest struct {
	ProfessionalID string `json:"professional_id,omitempty" validate:"omitempty,uuid"`
	ServiceID      string `json:"service_id" validate:"required,uuid"`
	EstimatedTime  int    `json:"estimated_time" validate:"gt=0"`
	PriceCents     int64  `json:"price_cents" validate:"gte=0"`
}

type OfferResponse struct {
	Offer Offer `json:"offer"`
}
