package dto

// ImportRowResponse mirrors one parsed row of an upload, valid or not.
// Error is empty for applicable rows.
type ImportRowResponse struct {
	License string `json:"license"`
	Points  int    `json:"points"`
	Error   string `json:"error,omitempty"`
}

// ImportPreviewResponse is returned by the dry-run endpoint; nothing has been
// written when the operator sees this.
type ImportPreviewResponse struct {
	Rows  []ImportRowResponse `json:"rows"`
	Total int                 `json:"total"`
}

// ImportSummary is the aggregate outcome of one processed upload.
type ImportSummary struct {
	Total     int      `json:"total"`
	OK        int      `json:"ok"`
	Fail      int      `json:"fail"`
	Unmatched []string `json:"unmatched"`
}

type UploadLogResponse struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ByEmail     string `json:"by_email"`
	Total       int    `json:"total"`
	OK          int    `json:"ok"`
	Fail        int    `json:"fail"`
	UploadedAt  string `json:"uploaded_at"`
	ProcessedAt string `json:"processed_at,omitempty"`
}

// GrantPointsRequest is the single manual grant an admin issues from the
// back office. Points may be negative to subtract.
type GrantPointsRequest struct {
	DriverID    string `json:"driver_id"   validate:"required,uuid"`
	Points      int    `json:"points"      validate:"required"`
	Description string `json:"description" validate:"required,min=3"`
}
