package model

// Target records mirror pipeline entities in the directory store. The
// external id field carries the originating pipeline identifier and is
// the join key for idempotent upsert lookups. It is set exactly once,
// at creation.

type TargetCompanyRecord struct {
	RecordID        string `json:"record_id"`
	ExternalID      string `json:"external_id"`
	Name            string `json:"name"`
	Domain          string `json:"domain"`
	Industry        string `json:"industry"`
	EmployeeBracket string `json:"employee_bracket"`
	Country         string `json:"country"`
}

type TargetContactRecord struct {
	RecordID      string `json:"record_id"`
	ExternalID    string `json:"external_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	JobTitle      string `json:"job_title"`
	CompanyLinkID string `json:"company_link_id"`
}

type TargetProjectRecord struct {
	RecordID      string  `json:"record_id"`
	ExternalID    string  `json:"external_id"`
	Name          string  `json:"name"`
	Budget        float64 `json:"budget"`
	StartDate     string  `json:"start_date"`
	Description   string  `json:"description"`
	Status        string  `json:"status"`
	ContactLinkID string  `json:"contact_link_id"`
	CompanyLinkID string  `json:"company_link_id"`
}

// Create inputs for the target store. External id is supplied here and
// never again on the update path.

type CompanyCreateInput struct {
	ExternalID      string
	Name            string
	Domain          string
	Industry        string
	EmployeeBracket string
	Country         string
}

type ContactCreateInput struct {
	ExternalID string
	Name       string
	Email      string
	Phone      string
	JobTitle   string
}

type ProjectCreateInput struct {
	ExternalID    string
	Name          string
	Budget        float64
	StartDate     string
	Description   string
	Status        string
	ContactLinkID string
	CompanyLinkID string
}
