package model

// Terminal sync actions per processed deal.
const (
	SyncActionCreated = "created"
	SyncActionUpdated = "updated"
	SyncActionSkipped = "skipped"
	SyncActionError   = "error"
)

// SyncResult is returned for every processed deal id. The engine never
// raises past its own boundary - callers always receive a result value.
type SyncResult struct {
	Success   bool   `json:"success"`
	Action    string `json:"action"`
	DealID    string `json:"dealId"`
	ProjectID string `json:"projectId,omitempty"`
	ContactID string `json:"contactId,omitempty"`
	CompanyID string `json:"companyId,omitempty"`
	Message   string `json:"message"`
}
