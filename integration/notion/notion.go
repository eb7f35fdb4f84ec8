package notion

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	C "dealsync/config"
	M "dealsync/model"

	"github.com/pkg/errors"
)

const (
	notionVersion  = "2022-06-28"
	requestTimeout = 2 * time.Minute

	databasesRoute = "/v1/databases/"
	pagesRoute     = "/v1/pages"
)

// HTTPClient allows substituting the transport in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the target record store against the directory system.
type Client struct {
	apiURL    string
	token     string
	schema    Schema
	companyDB string
	contactDB string
	projectDB string
	http      HTTPClient
}

// NewClient builds a store client. A nil httpClient falls back to a
// default client with a request timeout.
func NewClient(conf *C.NotionConf, schema Schema, httpClient HTTPClient) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}

	return &Client{
		apiURL:    strings.TrimRight(conf.APIURL, "/"),
		token:     conf.Token,
		schema:    schema,
		companyDB: conf.CompanyDatabaseID,
		contactDB: conf.ContactDatabaseID,
		projectDB: conf.ProjectDatabaseID,
		http:      httpClient,
	}
}

type apiError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *Client) do(method, route string, payload, out interface{}) error {
	var body *bytes.Buffer = bytes.NewBuffer(nil)
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "failed to marshal notion payload")
		}
		body = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequest(method, c.apiURL+route, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", notionVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "notion request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return M.ErrNotFound
	}

	if resp.StatusCode != http.StatusOK {
		var errBody apiError
		json.NewDecoder(resp.Body).Decode(&errBody)
		return errors.Errorf("notion request failed with status %d %s: %s",
			resp.StatusCode, errBody.Code, errBody.Message)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrap(err, "failed to decode notion response")
		}
	}

	return nil
}

type queryRequest struct {
	Filter   *queryFilter `json:"filter,omitempty"`
	PageSize int          `json:"page_size,omitempty"`
}

type queryFilter struct {
	Property string      `json:"property"`
	RichText *textFilter `json:"rich_text,omitempty"`
}

type textFilter struct {
	Equals string `json:"equals"`
}

type queryResponse struct {
	Results []page `json:"results"`
}

type createPageRequest struct {
	Parent     pageParent              `json:"parent"`
	Properties map[string]pageProperty `json:"properties"`
}

type pageParent struct {
	DatabaseID string `json:"database_id"`
}

type updatePageRequest struct {
	Properties map[string]pageProperty `json:"properties"`
}

// findByExternalID looks up the single record carrying the given
// external id. Absence returns nil, nil - never an error.
func (c *Client) findByExternalID(databaseID string, schema EntitySchema, externalID string) (*page, error) {
	request := &queryRequest{
		Filter: &queryFilter{
			Property: schema.ExternalIDProperty,
			RichText: &textFilter{Equals: externalID},
		},
		PageSize: 1,
	}

	var resp queryResponse
	err := c.do(http.MethodPost, databasesRoute+databaseID+"/query", request, &resp)
	if err != nil {
		return nil, err
	}

	if len(resp.Results) == 0 {
		return nil, nil
	}
	return &resp.Results[0], nil
}

func (c *Client) createPage(databaseID string, properties map[string]pageProperty) (*page, error) {
	request := &createPageRequest{
		Parent:     pageParent{DatabaseID: databaseID},
		Properties: properties,
	}

	var created page
	if err := c.do(http.MethodPost, pagesRoute, request, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) updatePage(pageID string, properties map[string]pageProperty) (*page, error) {
	if len(properties) == 0 {
		return nil, errors.New("empty update")
	}

	var updated page
	err := c.do(http.MethodPatch, pagesRoute+"/"+pageID, &updatePageRequest{Properties: properties}, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// setField adds a store-native property for a canonical field. Empty
// values are omitted and fields outside the mapping table are never
// written.
func setField(props map[string]pageProperty, schema EntitySchema, canonical, value string) {
	if value == "" {
		return
	}
	spec, exists := schema.Fields[canonical]
	if !exists {
		return
	}
	props[spec.Native] = buildProperty(spec.Kind, value)
}

// setOptionalField adds a property only when the partial-update field
// is present. Omission, not null, signals "do not touch".
func setOptionalField(props map[string]pageProperty, schema EntitySchema, canonical string, value *string) {
	if value == nil {
		return
	}
	spec, exists := schema.Fields[canonical]
	if !exists {
		return
	}
	props[spec.Native] = buildProperty(spec.Kind, *value)
}

func setRelation(props map[string]pageProperty, schema EntitySchema, link, recordID string) {
	if recordID == "" {
		return
	}
	native, exists := schema.Relations[link]
	if !exists {
		return
	}
	props[native] = buildRelationProperty(recordID)
}

// Company operations.

func (c *Client) parseCompanyPage(p *page) *M.TargetCompanyRecord {
	s := c.schema.Company
	return &M.TargetCompanyRecord{
		RecordID:        p.ID,
		ExternalID:      p.stringProperty(s.ExternalIDProperty),
		Name:            p.stringProperty(s.Fields[FieldName].Native),
		Domain:          p.stringProperty(s.Fields[FieldDomain].Native),
		Industry:        p.stringProperty(s.Fields[FieldIndustry].Native),
		EmployeeBracket: p.stringProperty(s.Fields[FieldEmployeeBracket].Native),
		Country:         p.stringProperty(s.Fields[FieldCountry].Native),
	}
}

func (c *Client) FindCompanyByExternalID(externalID string) (*M.TargetCompanyRecord, error) {
	p, err := c.findByExternalID(c.companyDB, c.schema.Company, externalID)
	if err != nil || p == nil {
		return nil, err
	}
	return c.parseCompanyPage(p), nil
}

func (c *Client) CreateCompany(input M.CompanyCreateInput) (*M.TargetCompanyRecord, error) {
	s := c.schema.Company
	props := map[string]pageProperty{
		s.ExternalIDProperty: buildProperty(KindRichText, input.ExternalID),
	}
	setField(props, s, FieldName, input.Name)
	setField(props, s, FieldDomain, input.Domain)
	setField(props, s, FieldIndustry, input.Industry)
	setField(props, s, FieldEmployeeBracket, input.EmployeeBracket)
	setField(props, s, FieldCountry, input.Country)

	p, err := c.createPage(c.companyDB, props)
	if err != nil {
		return nil, err
	}
	return c.parseCompanyPage(p), nil
}

func (c *Client) UpdateCompany(recordID string, update M.CompanyUpdate) (*M.TargetCompanyRecord, error) {
	s := c.schema.Company
	props := map[string]pageProperty{}
	setOptionalField(props, s, FieldName, update.Name)
	setOptionalField(props, s, FieldDomain, update.Domain)
	setOptionalField(props, s, FieldIndustry, update.Industry)
	setOptionalField(props, s, FieldEmployeeBracket, update.EmployeeBracket)
	setOptionalField(props, s, FieldCountry, update.Country)

	p, err := c.updatePage(recordID, props)
	if err != nil {
		return nil, err
	}
	return c.parseCompanyPage(p), nil
}

// Contact operations.

func (c *Client) parseContactPage(p *page) *M.TargetContactRecord {
	s := c.schema.Contact
	return &M.TargetContactRecord{
		RecordID:      p.ID,
		ExternalID:    p.stringProperty(s.ExternalIDProperty),
		Name:          p.stringProperty(s.Fields[FieldName].Native),
		Email:         p.stringProperty(s.Fields[FieldEmail].Native),
		Phone:         p.stringProperty(s.Fields[FieldPhone].Native),
		JobTitle:      p.stringProperty(s.Fields[FieldJobTitle].Native),
		CompanyLinkID: p.relationProperty(s.Relations[LinkCompany]),
	}
}

func (c *Client) FindContactByExternalID(externalID string) (*M.TargetContactRecord, error) {
	p, err := c.findByExternalID(c.contactDB, c.schema.Contact, externalID)
	if err != nil || p == nil {
		return nil, err
	}
	return c.parseContactPage(p), nil
}

func (c *Client) CreateContact(input M.ContactCreateInput) (*M.TargetContactRecord, error) {
	s := c.schema.Contact
	props := map[string]pageProperty{
		s.ExternalIDProperty: buildProperty(KindRichText, input.ExternalID),
	}
	setField(props, s, FieldName, input.Name)
	setField(props, s, FieldEmail, input.Email)
	setField(props, s, FieldPhone, input.Phone)
	setField(props, s, FieldJobTitle, input.JobTitle)

	p, err := c.createPage(c.contactDB, props)
	if err != nil {
		return nil, err
	}
	return c.parseContactPage(p), nil
}

func (c *Client) UpdateContact(recordID string, update M.ContactUpdate) (*M.TargetContactRecord, error) {
	s := c.schema.Contact
	props := map[string]pageProperty{}
	setOptionalField(props, s, FieldName, update.Name)
	setOptionalField(props, s, FieldEmail, update.Email)
	setOptionalField(props, s, FieldPhone, update.Phone)
	setOptionalField(props, s, FieldJobTitle, update.JobTitle)

	p, err := c.updatePage(recordID, props)
	if err != nil {
		return nil, err
	}
	return c.parseContactPage(p), nil
}

// Project operations.

func (c *Client) parseProjectPage(p *page) *M.TargetProjectRecord {
	s := c.schema.Project
	return &M.TargetProjectRecord{
		RecordID:      p.ID,
		ExternalID:    p.stringProperty(s.ExternalIDProperty),
		Name:          p.stringProperty(s.Fields[FieldName].Native),
		Budget:        p.numberProperty(s.Fields[FieldBudget].Native),
		StartDate:     p.stringProperty(s.Fields[FieldStartDate].Native),
		Description:   p.stringProperty(s.Fields[FieldDescription].Native),
		Status:        p.stringProperty(s.Fields[FieldStatus].Native),
		ContactLinkID: p.relationProperty(s.Relations[LinkContact]),
		CompanyLinkID: p.relationProperty(s.Relations[LinkCompany]),
	}
}

func (c *Client) FindProjectByExternalID(externalID string) (*M.TargetProjectRecord, error) {
	p, err := c.findByExternalID(c.projectDB, c.schema.Project, externalID)
	if err != nil || p == nil {
		return nil, err
	}
	return c.parseProjectPage(p), nil
}

func (c *Client) CreateProject(input M.ProjectCreateInput) (*M.TargetProjectRecord, error) {
	s := c.schema.Project
	props := map[string]pageProperty{
		s.ExternalIDProperty: buildProperty(KindRichText, input.ExternalID),
	}
	setField(props, s, FieldName, input.Name)
	setField(props, s, FieldStartDate, input.StartDate)
	setField(props, s, FieldDescription, input.Description)
	setField(props, s, FieldStatus, input.Status)
	if input.Budget != 0 {
		props[s.Fields[FieldBudget].Native] = buildNumberProperty(input.Budget)
	}
	setRelation(props, s, LinkContact, input.ContactLinkID)
	setRelation(props, s, LinkCompany, input.CompanyLinkID)

	p, err := c.createPage(c.projectDB, props)
	if err != nil {
		return nil, err
	}
	return c.parseProjectPage(p), nil
}

func (c *Client) UpdateProject(recordID string, update M.ProjectUpdate) (*M.TargetProjectRecord, error) {
	s := c.schema.Project
	props := map[string]pageProperty{}
	setOptionalField(props, s, FieldName, update.Name)
	setOptionalField(props, s, FieldStartDate, update.StartDate)
	setOptionalField(props, s, FieldDescription, update.Description)
	setOptionalField(props, s, FieldStatus, update.Status)
	if update.Budget != nil {
		props[s.Fields[FieldBudget].Native] = buildNumberProperty(*update.Budget)
	}

	p, err := c.updatePage(recordID, props)
	if err != nil {
		return nil, err
	}
	return c.parseProjectPage(p), nil
}

// Link operations. Relinking an already linked record is accepted by
// the store, so callers treat any conflict as already-linked.

func (c *Client) LinkContactToCompany(contactRecordID, companyRecordID string) error {
	props := map[string]pageProperty{}
	setRelation(props, c.schema.Contact, LinkCompany, companyRecordID)
	_, err := c.updatePage(contactRecordID, props)
	return err
}

func (c *Client) LinkProjectToContact(projectRecordID, contactRecordID string) error {
	props := map[string]pageProperty{}
	setRelation(props, c.schema.Project, LinkContact, contactRecordID)
	_, err := c.updatePage(projectRecordID, props)
	return err
}

func (c *Client) LinkProjectToCompany(projectRecordID, companyRecordID string) error {
	props := map[string]pageProperty{}
	setRelation(props, c.schema.Project, LinkCompany, companyRecordID)
	_, err := c.updatePage(projectRecordID, props)
	return err
}
