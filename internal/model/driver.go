package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Driver stores fleet drivers and back-office admins.
// Role: "driver" | "admin"
type Driver struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FirstName    string    `gorm:"index;not null"`
	LastName     string
	Phone        string
	Address      string
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	AvatarURL    string
	// License is the badge number drivers are identified by in point imports.
	License string `gorm:"index"`
	// LegacyLicense carries the badge number for records migrated from the old
	// fleet system, which stored it under a different field name. Resolved into
	// License once at read time — new code must not write it.
	LegacyLicense string `gorm:"index"`
	// Points is mutated only through atomic paths: the redemption transaction
	// (decrement) and point grants / imports (increment).
	Points    int    `gorm:"not null;default:0"`
	Role      string `gorm:"type:varchar(20);not null;default:'driver'"`
	Active    bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AfterFind promotes the legacy badge field so the rest of the codebase only
// ever looks at License.
func (d *Driver) AfterFind(_ *gorm.DB) error {
	if d.License == "" && d.LegacyLicense != "" {
		d.License = d.LegacyLicense
	}
	return nil
}

// FullName joins first and last name, skipping empty parts.
func (d *Driver) FullName() string {
	if d.LastName == "" {
		return d.FirstName
	}
	return d.FirstName + " " + d.LastName
}
