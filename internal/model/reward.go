package model

import (
	"time"

	"github.com/google/uuid"
)

// Reward is a catalog entry drivers exchange points for.
type Reward struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"index;not null"`
	Description string
	PointCost   int `gorm:"not null"`
	ImageURL    string
	// Stock is the remaining supply; nil means unlimited. Never negative.
	Stock *int
	// PerUserLimit caps how many times one driver may redeem this reward;
	// nil means unlimited.
	PerUserLimit *int
	Active       bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Redemption records one committed exchange of points for a reward.
// Created inside the redemption transaction; immutable afterwards.
type Redemption struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DriverID    uuid.UUID `gorm:"type:uuid;index;not null"`
	RewardID    uuid.UUID `gorm:"type:uuid;index;not null"`
	PointsSpent int       `gorm:"not null"`
	CreatedAt   time.Time

	Reward *Reward `gorm:"foreignKey:RewardID"`
}
