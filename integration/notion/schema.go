package notion

// Property kinds supported by the directory store mapping tables.
const (
	KindTitle    = "title"
	KindRichText = "rich_text"
	KindNumber   = "number"
	KindSelect   = "select"
	KindStatus   = "status"
	KindEmail    = "email"
	KindPhone    = "phone_number"
	KindURL      = "url"
	KindDate     = "date"
	KindRelation = "relation"
)

// FieldSpec maps a canonical field name onto a store-native property.
type FieldSpec struct {
	Native string
	Kind   string
}

// EntitySchema is the fixed mapping table for one entity. Canonical
// fields outside the table are never written, protecting manually
// curated store properties from being clobbered by the sync path.
type EntitySchema struct {
	// Store-native property holding the originating pipeline id.
	ExternalIDProperty string
	// Canonical field name -> native property.
	Fields map[string]FieldSpec
	// Link name -> native relation property.
	Relations map[string]string
}

// Schema holds the per-entity mapping tables. It is immutable after
// construction and passed into the client so tests can substitute
// fixtures.
type Schema struct {
	Company EntitySchema
	Contact EntitySchema
	Project EntitySchema
}

// Canonical field names used across the sync path.
const (
	FieldName            = "name"
	FieldDomain          = "domain"
	FieldIndustry        = "industry"
	FieldEmployeeBracket = "employee_bracket"
	FieldCountry         = "country"
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldJobTitle        = "job_title"
	FieldBudget          = "budget"
	FieldStartDate       = "start_date"
	FieldDescription     = "description"
	FieldStatus          = "status"

	LinkCompany = "company"
	LinkContact = "contact"
)

// DefaultSchema returns the stock directory database layout.
func DefaultSchema() Schema {
	return Schema{
		Company: EntitySchema{
			ExternalIDProperty: "HubSpot ID",
			Fields: map[string]FieldSpec{
				FieldName:            {Native: "Name", Kind: KindTitle},
				FieldDomain:          {Native: "Domain", Kind: KindURL},
				FieldIndustry:        {Native: "Industry", Kind: KindSelect},
				FieldEmployeeBracket: {Native: "Employees", Kind: KindSelect},
				FieldCountry:         {Native: "Country", Kind: KindSelect},
			},
		},
		Contact: EntitySchema{
			ExternalIDProperty: "HubSpot ID",
			Fields: map[string]FieldSpec{
				FieldName:     {Native: "Name", Kind: KindTitle},
				FieldEmail:    {Native: "Email", Kind: KindEmail},
				FieldPhone:    {Native: "Phone", Kind: KindPhone},
				FieldJobTitle: {Native: "Title", Kind: KindRichText},
			},
			Relations: map[string]string{
				LinkCompany: "Company",
			},
		},
		Project: EntitySchema{
			ExternalIDProperty: "HubSpot Deal ID",
			Fields: map[string]FieldSpec{
				FieldName:        {Native: "Name", Kind: KindTitle},
				FieldBudget:      {Native: "Budget", Kind: KindNumber},
				FieldStartDate:   {Native: "Start Date", Kind: KindDate},
				FieldDescription: {Native: "Description", Kind: KindRichText},
				FieldStatus:      {Native: "Status", Kind: KindStatus},
			},
			Relations: map[string]string{
				LinkCompany: "Company",
				LinkContact: "Primary Contact",
			},
		},
	}
}
