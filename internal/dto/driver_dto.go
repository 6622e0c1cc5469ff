package dto

// DriverFilter is bound from query string of GET /v1/drivers.
type DriverFilter struct {
	// Q matches name, email, phone and license, case-insensitive.
	Q      string `form:"q"`
	Active string `form:"active"` // "false" = inactive, "all" = everything, default active only
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type DriverResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
	License   string `json:"license"`
	Points    int    `json:"points"`
	Role      string `json:"role"`
	Active    bool   `json:"active"`
}

type DriverListResponse struct {
	Data  []DriverResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// UpdateProfileRequest is the driver-facing profile update; points and role
// are deliberately absent.
type UpdateProfileRequest struct {
	FirstName string `json:"first_name" validate:"omitempty,min=2"`
	LastName  string `json:"last_name"  validate:"omitempty,min=2"`
	Phone     string `json:"phone"      validate:"omitempty,min=6"`
	Address   string `json:"address"`
}

// UpdateDriverRequest is the admin-facing edit. PointsDelta, when non-zero,
// is applied as an atomic increment — never an overwrite of the balance.
type UpdateDriverRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	License     string `json:"license"`
	AvatarURL   string `json:"avatar_url"`
	PointsDelta int    `json:"points_delta"`
}
