package model

import (
	"time"

	"github.com/google/uuid"
)

// PointGrant records a manual point adjustment issued by an admin.
// The signed delta has already been applied to the driver balance via an
// atomic increment when this row exists.
type PointGrant struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DriverID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Points      int       `gorm:"not null"`
	Description string
	GrantedBy   uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
}

// UploadLog is the durable audit record of one bulk point import.
// Created with zero counts when the file is accepted, finalized exactly once
// when processing completes, never mutated afterwards.
type UploadLog struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Filename    string    `gorm:"not null"`
	Size        int64     `gorm:"not null"`
	BlobKey     string
	ByID        uuid.UUID `gorm:"type:uuid"`
	ByEmail     string
	Total       int `gorm:"not null;default:0"`
	OK          int `gorm:"not null;default:0"`
	Fail        int `gorm:"not null;default:0"`
	UploadedAt  time.Time
	ProcessedAt *time.Time
}
