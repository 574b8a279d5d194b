package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pantoufles-app/internal/utils/validator"
)

type ClientStatus string

const (
	ClientPending    ClientStatus = "pending"
	ClientConfirmed  ClientStatus = "confirmed"
	ClientInProgress ClientStatus = "in-progress"
	ClientCompleted  ClientStatus = "completed"
)

func (s ClientStatus) Valid() bool {
	switch s {
	case ClientPending, ClientConfirmed, ClientInProgress, ClientCompleted:
		return true
	}
	return false
}

// Client signs up through the public landing form and is managed from the
// admin dashboard afterwards.
type Client struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name" validate:"required"`
	Email       string             `bson:"email" json:"email" validate:"required,email"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address     string             `bson:"address,omitempty" json:"address,omitempty"`
	Preferences string             `bson:"preferences,omitempty" json:"preferences,omitempty" validate:"max=200"`
	HomeArea    int                `bson:"home_area,omitempty" json:"home_area,omitempty"`
	RoomCount   int                `bson:"room_count,omitempty" json:"room_count,omitempty"`
	Services    []ServiceType      `bson:"services" json:"services"`
	Status      ClientStatus       `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

func (c Client) Validate() error {
	validate := validator.GetValidator()
	if err := validate.Struct(c); err != nil {
		errs := validator.ParseErrors(err)
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(errs, " // "))
	}
	return nil
}
