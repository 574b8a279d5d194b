package models

import "time"

// Settings is the singleton configuration document edited from the admin
// dashboard. It is persisted by upsert on a fixed key.
type Settings struct {
	ID             string    `bson:"_id" json:"-"`
	EmergencyPhone string    `bson:"emergency_phone" json:"emergency_phone"`
	ContactEmail   string    `bson:"contact_email" json:"contact_email"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

const SettingsKey = "pantoufles"
