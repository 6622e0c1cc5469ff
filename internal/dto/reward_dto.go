package dto

type CreateRewardRequest struct {
	Name        string `json:"name"        validate:"required,min=2"`
	Description string `json:"description"`
	PointCost   int    `json:"point_cost"  validate:"required,min=1"`
	ImageURL    string `json:"image_url"   validate:"omitempty,url"`
	// Stock nil = unlimited supply.
	Stock *int `json:"stock"          validate:"omitempty,min=0"`
	// PerUserLimit nil = no per-driver cap.
	PerUserLimit *int `json:"per_user_limit" validate:"omitempty,min=1"`
}

type UpdateRewardRequest struct {
	Name         string `json:"name"        validate:"omitempty,min=2"`
	Description  *string `json:"description"`
	PointCost    int    `json:"point_cost"  validate:"omitempty,min=1"`
	ImageURL     *string `json:"image_url"`
	Stock        *int   `json:"stock"          validate:"omitempty,min=0"`
	PerUserLimit *int   `json:"per_user_limit" validate:"omitempty,min=1"`
	Active       *bool  `json:"active"`
}

type RewardResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PointCost   int    `json:"point_cost"`
	ImageURL    string `json:"image_url"`
	Stock       *int   `json:"stock,omitempty"`
	PerUserLimit *int  `json:"per_user_limit,omitempty"`
	Active      bool   `json:"active"`
	// Redeemed reports how many times the requesting driver already claimed
	// this reward; only populated on the driver-facing catalog.
	Redeemed int `json:"redeemed,omitempty"`
}

type RedeemRequest struct {
	RewardID string `json:"reward_id" validate:"required,uuid"`
}

type RedemptionResponse struct {
	ID          string `json:"id"`
	RewardID    string `json:"reward_id"`
	RewardName  string `json:"reward_name"`
	PointsSpent int    `json:"points_spent"`
	// BalanceAfter is the driver balance observed right after the commit.
	BalanceAfter int    `json:"balance_after"`
	CreatedAt    string `json:"created_at"`
}
