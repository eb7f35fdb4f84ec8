package model

import "time"

// MaxAssociatedContacts caps contact resolution per deal to bound
// request fan-out on association lookups.
const MaxAssociatedContacts = 5

// Deal is the source of truth entity from the pipeline system.
type Deal struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Amount      float64   `json:"amount"`
	Stage       string    `json:"stage"`
	NativeStage string    `json:"native_stage"`
	CloseDate   time.Time `json:"close_date"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`

	// Association ids as carried on the deal. First contact id is primary.
	ContactIDs []string `json:"contact_ids"`
	CompanyID  string   `json:"company_id"`

	// Resolved associations. Either may be empty when resolution
	// failed or nothing is associated.
	Contacts []Contact `json:"contacts"`
	Company  *Company  `json:"company"`
}

// PrimaryContact returns the first resolved contact or nil.
func (d *Deal) PrimaryContact() *Contact {
	if len(d.Contacts) == 0 {
		return nil
	}
	return &d.Contacts[0]
}

// HasCloseDate returns true when the deal carries a close date.
func (d *Deal) HasCloseDate() bool {
	return !d.CloseDate.IsZero()
}
