package hubspot

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	C "dealsync/config"
	M "dealsync/model"
	U "dealsync/util"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	dealRoute    = "/deals/v1/deal/"
	contactRoute = "/contacts/v1/contact/vid/"
	companyRoute = "/companies/v2/companies/"

	requestTimeout = 2 * time.Minute
)

// Deal property names on the pipeline system.
const (
	propertyDealName    = "dealname"
	propertyDealAmount  = "amount"
	propertyDealStage   = "dealstage"
	propertyCloseDate   = "closedate"
	propertyDescription = "description"
	propertyOwnerID     = "hubspot_owner_id"
)

// HTTPClient allows substituting the transport in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the source record gateway against the pipeline system.
type Client struct {
	apiURL string
	apiKey string
	conf   C.SyncConfig
	http   HTTPClient
}

// NewClient builds a gateway client. A nil httpClient falls back to a
// default client with a request timeout.
func NewClient(conf *C.HubspotConf, syncConf C.SyncConfig, httpClient HTTPClient) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}

	return &Client{
		apiURL: strings.TrimRight(conf.APIURL, "/"),
		apiKey: conf.APIKey,
		conf:   syncConf,
		http:   httpClient,
	}
}

type property struct {
	Value string `json:"value"`
}

type associations struct {
	AssociatedVids       []int64 `json:"associatedVids"`
	AssociatedCompanyIds []int64 `json:"associatedCompanyIds"`
}

type dealResponse struct {
	DealID       int64               `json:"dealId"`
	Properties   map[string]property `json:"properties"`
	Associations associations        `json:"associations"`
}

type contactResponse struct {
	Vid        int64               `json:"vid"`
	Properties map[string]property `json:"properties"`
}

type companyResponse struct {
	CompanyID  int64               `json:"companyId"`
	Properties map[string]property `json:"properties"`
}

type apiError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (c *Client) get(route string, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, c.apiURL+route, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "hubspot request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return M.ErrNotFound
	}

	if resp.StatusCode != http.StatusOK {
		var errBody apiError
		json.NewDecoder(resp.Body).Decode(&errBody)
		return errors.Errorf("hubspot request failed with status %d: %s",
			resp.StatusCode, errBody.Message)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode hubspot response")
	}

	return nil
}

func propertyValue(properties map[string]property, name string) string {
	return properties[name].Value
}

// FetchDeal fetches a deal without resolving associations. The native
// stage code is normalized into the canonical stage vocabulary, with
// unmapped codes passing through unchanged.
func (c *Client) FetchDeal(id string) (*M.Deal, error) {
	var resp dealResponse
	if err := c.get(dealRoute+id, &resp); err != nil {
		return nil, err
	}

	deal := &M.Deal{
		ID:          strconv.FormatInt(resp.DealID, 10),
		Name:        propertyValue(resp.Properties, propertyDealName),
		NativeStage: propertyValue(resp.Properties, propertyDealStage),
		Description: propertyValue(resp.Properties, propertyDescription),
		OwnerID:     propertyValue(resp.Properties, propertyOwnerID),
	}
	deal.Stage = c.conf.CanonicalStage(deal.NativeStage)

	if amount := propertyValue(resp.Properties, propertyDealAmount); amount != "" {
		value, err := strconv.ParseFloat(amount, 64)
		if err != nil {
			log.WithField("deal_id", deal.ID).WithError(err).
				Error("Failed to parse amount on hubspot deal.")
		} else {
			deal.Amount = value
		}
	}

	if closeDate := propertyValue(resp.Properties, propertyCloseDate); closeDate != "" {
		millis, err := strconv.ParseInt(closeDate, 10, 64)
		if err != nil {
			log.WithField("deal_id", deal.ID).WithError(err).
				Error("Failed to parse close date on hubspot deal.")
		} else {
			deal.CloseDate = U.TimestampMillisToTime(millis)
		}
	}

	// First associated contact is primary. Contacts are capped to
	// bound request fan-out on association resolution.
	for i := range resp.Associations.AssociatedVids {
		if len(deal.ContactIDs) == M.MaxAssociatedContacts {
			break
		}
		deal.ContactIDs = append(deal.ContactIDs,
			strconv.FormatInt(resp.Associations.AssociatedVids[i], 10))
	}

	if len(resp.Associations.AssociatedCompanyIds) > 0 {
		deal.CompanyID = strconv.FormatInt(resp.Associations.AssociatedCompanyIds[0], 10)
	}

	return deal, nil
}

// FetchContact fetches a single contact by vid.
func (c *Client) FetchContact(id string) (*M.Contact, error) {
	var resp contactResponse
	if err := c.get(contactRoute+id+"/profile", &resp); err != nil {
		return nil, err
	}

	return &M.Contact{
		ID:          strconv.FormatInt(resp.Vid, 10),
		FirstName:   propertyValue(resp.Properties, "firstname"),
		LastName:    propertyValue(resp.Properties, "lastname"),
		Email:       propertyValue(resp.Properties, "email"),
		Phone:       propertyValue(resp.Properties, "phone"),
		JobTitle:    propertyValue(resp.Properties, "jobtitle"),
		CompanyName: propertyValue(resp.Properties, "company"),
	}, nil
}

// FetchCompany fetches a single company.
func (c *Client) FetchCompany(id string) (*M.Company, error) {
	var resp companyResponse
	if err := c.get(companyRoute+id, &resp); err != nil {
		return nil, err
	}

	return &M.Company{
		ID:              strconv.FormatInt(resp.CompanyID, 10),
		Name:            propertyValue(resp.Properties, "name"),
		Domain:          propertyValue(resp.Properties, "domain"),
		Industry:        propertyValue(resp.Properties, "industry"),
		EmployeeBracket: propertyValue(resp.Properties, "numberofemployees"),
		Country:         propertyValue(resp.Properties, "country"),
	}, nil
}

// FetchDealWithAssociations fetches a deal and resolves its associated
// contacts and company. The two resolutions are independent and fault
// isolated: failure on either side degrades to an absent association
// and never fails the fetch.
func (c *Client) FetchDealWithAssociations(id string) (*M.Deal, error) {
	deal, err := c.FetchDeal(id)
	if err != nil {
		return nil, err
	}

	logCtx := log.WithField("deal_id", deal.ID)

	for i := range deal.ContactIDs {
		contact, err := c.FetchContact(deal.ContactIDs[i])
		if err != nil {
			logCtx.WithField("contact_id", deal.ContactIDs[i]).WithError(err).
				Error("Failed to resolve contact association on hubspot deal.")
			continue
		}
		deal.Contacts = append(deal.Contacts, *contact)
	}

	if deal.CompanyID != "" {
		company, err := c.FetchCompany(deal.CompanyID)
		if err != nil {
			logCtx.WithField("company_id", deal.CompanyID).WithError(err).
				Error("Failed to resolve company association on hubspot deal.")
		} else {
			deal.Company = company
		}
	}

	return deal, nil
}
