package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pantoufles-app/internal/utils/validator"
)

// Intervenant is a service worker, recruited through the public application
// form or entered by the admin.
type Intervenant struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name" validate:"required"`
	Email     string             `bson:"email" json:"email" validate:"required,email"`
	Phone     string             `bson:"phone" json:"phone" validate:"required"`
	Services  []ServiceType      `bson:"services" json:"services"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

func (i Intervenant) Validate() error {
	validate := validator.GetValidator()
	if err := validate.Struct(i); err != nil {
		errs := validator.ParseErrors(err)
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(errs, " // "))
	}
	return nil
}
