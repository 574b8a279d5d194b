package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pantoufles-app/internal/utils/validator"
)

type MissionStatus string

const (
	StatusPending    MissionStatus = "pending"
	StatusConfirmed  MissionStatus = "confirmed"
	StatusInProgress MissionStatus = "in-progress"
	StatusCompleted  MissionStatus = "completed"
	StatusCancelled  MissionStatus = "cancelled"
)

// MissionStatuses lists every valid status. Transitions are deliberately
// unrestricted: a completed or cancelled mission can be reopened.
var MissionStatuses = []MissionStatus{
	StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled,
}

func (s MissionStatus) Valid() bool {
	for _, known := range MissionStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type ServiceType string

const (
	ServiceCleaning   ServiceType = "cleaning"
	ServiceIroning    ServiceType = "ironing"
	ServiceShopping   ServiceType = "shopping"
	ServiceDietAdvice ServiceType = "diet-advice"
	ServiceMealHelp   ServiceType = "meal-help"
)

type PaymentMethod string

const (
	PaymentCard     PaymentMethod = "card"
	PaymentCheck    PaymentMethod = "check"
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCESU     PaymentMethod = "cesu"
)

// Mission is a scheduled service engagement linking a client, an optional
// intervenant, a service type and billing terms.
type Mission struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID      string             `bson:"client_id" json:"client_id" validate:"required"`
	IntervenantID *string            `bson:"intervenant_id,omitempty" json:"intervenant_id,omitempty"`
	Service       ServiceType        `bson:"service" json:"service" validate:"required,oneof=cleaning ironing shopping diet-advice meal-help"`
	Date          time.Time          `bson:"date" json:"date" validate:"required"`
	StartTime     string             `bson:"start_time,omitempty" json:"start_time,omitempty"`
	EndTime       string             `bson:"end_time,omitempty" json:"end_time,omitempty"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	PaymentMethod PaymentMethod      `bson:"payment_method,omitempty" json:"payment_method,omitempty" validate:"omitempty,oneof=card check cash transfer cesu"`
	Hours         int                `bson:"hours" json:"hours" validate:"min=0"`
	Minutes       int                `bson:"minutes" json:"minutes" validate:"min=0,max=59"`
	HourlyRate    *float64           `bson:"hourly_rate,omitempty" json:"hourly_rate,omitempty"`
	Amount        *float64           `bson:"amount,omitempty" json:"amount,omitempty"`
	Status        MissionStatus      `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

func (m Mission) Validate() error {
	validate := validator.GetValidator()
	if err := validate.Struct(m); err != nil {
		errs := validator.ParseErrors(err)
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(errs, " // "))
	}
	return nil
}

// MissionPatch carries the fields of a partial edit. Nil fields are left
// untouched by the merge; no recompute of the amount happens on this path.
// An empty IntervenantID removes the worker assignment.
type MissionPatch struct {
	ClientID      *string        `json:"client_id,omitempty"`
	IntervenantID *string        `json:"intervenant_id,omitempty"`
	Service       *ServiceType   `json:"service,omitempty"`
	Date          *time.Time     `json:"date,omitempty"`
	StartTime     *string        `json:"start_time,omitempty"`
	EndTime       *string        `json:"end_time,omitempty"`
	Description   *string        `json:"description,omitempty"`
	PaymentMethod *PaymentMethod `json:"payment_method,omitempty"`
	Hours         *int           `json:"hours,omitempty"`
	Minutes       *int           `json:"minutes,omitempty"`
	HourlyRate    *float64       `json:"hourly_rate,omitempty"`
	Amount        *float64       `json:"amount,omitempty"`
	Status        *MissionStatus `json:"status,omitempty"`
}

// ArchiveResult is the outcome of an archival run.
type ArchiveResult struct {
	Success       bool   `json:"success"`
	ArchivedCount int    `json:"archivedCount"`
	Message       string `json:"message"`
}

// ArchiveFilter narrows a query against the archived missions collection.
// Year+Month select a calendar month; DateFrom/DateTo take precedence when
// both are set.
type ArchiveFilter struct {
	Year          int
	Month         time.Month
	DateFrom      time.Time
	DateTo        time.Time
	ClientID      string
	IntervenantID string
	Service       ServiceType
	PaymentMethod PaymentMethod
}
