package syncer

import (
	"fmt"
	"strings"
	"time"

	C "dealsync/config"
	M "dealsync/model"
	U "dealsync/util"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// SourceGateway fetches pipeline records with resolved associations.
type SourceGateway interface {
	FetchDealWithAssociations(id string) (*M.Deal, error)
}

// TargetStore performs lookup, create, update and link operations
// against the directory store. Find methods return nil, nil when no
// record carries the external id - absence is never an error.
type TargetStore interface {
	FindCompanyByExternalID(externalID string) (*M.TargetCompanyRecord, error)
	CreateCompany(input M.CompanyCreateInput) (*M.TargetCompanyRecord, error)
	UpdateCompany(recordID string, update M.CompanyUpdate) (*M.TargetCompanyRecord, error)

	FindContactByExternalID(externalID string) (*M.TargetContactRecord, error)
	CreateContact(input M.ContactCreateInput) (*M.TargetContactRecord, error)
	UpdateContact(recordID string, update M.ContactUpdate) (*M.TargetContactRecord, error)

	FindProjectByExternalID(externalID string) (*M.TargetProjectRecord, error)
	CreateProject(input M.ProjectCreateInput) (*M.TargetProjectRecord, error)
	UpdateProject(recordID string, update M.ProjectUpdate) (*M.TargetProjectRecord, error)

	LinkContactToCompany(contactRecordID, companyRecordID string) error
	LinkProjectToContact(projectRecordID, contactRecordID string) error
	LinkProjectToCompany(projectRecordID, companyRecordID string) error
}

// Engine runs the three tier upsert protocol: company, then contact,
// then project, per deal. Tiers execute strictly in order because each
// depends on record ids produced by the previous one.
type Engine struct {
	source SourceGateway
	target TargetStore
	conf   C.SyncConfig
	gate   *idGate

	// nowFunc is overridable in tests for synthesized descriptions.
	nowFunc func() time.Time
}

func New(source SourceGateway, target TargetStore, conf C.SyncConfig) *Engine {
	return &Engine{
		source:  source,
		target:  target,
		conf:    conf,
		gate:    newIDGate(),
		nowFunc: time.Now,
	}
}

// tierResult is the explicit outcome of a fault isolated tier. A
// failed tier carries its error here instead of propagating it, and
// downstream tiers proceed without the link.
type tierResult struct {
	recordID string
	err      error
}

// SyncDeal runs the full protocol for one deal id and always returns
// a result value. Concurrent invocations for the same id are
// serialized so duplicate notifications cannot race between lookup
// and create.
func (e *Engine) SyncDeal(dealID string) M.SyncResult {
	release := e.gate.acquire(dealID)
	defer release()

	logCtx := log.WithField("deal_id", dealID)

	deal, err := e.source.FetchDealWithAssociations(dealID)
	if err != nil {
		if errors.Cause(err) == M.ErrNotFound {
			logCtx.Error("Deal not found upstream.")
			return errorResult(dealID, "deal not found upstream")
		}
		logCtx.WithError(err).Error("Failed to fetch deal from pipeline system.")
		return errorResult(dealID, err.Error())
	}

	companyTier := e.syncCompanyTier(deal, logCtx)
	contactTier := e.syncContactTier(deal, companyTier.recordID, logCtx)

	result := e.syncProjectTier(deal, companyTier.recordID, contactTier.recordID, logCtx)
	result.CompanyID = companyTier.recordID
	result.ContactID = contactTier.recordID
	return result
}

// syncCompanyTier upserts the deal's associated company. Company sync
// is best effort enrichment, not a precondition: any failure here is
// logged and the deal sync continues without a company link.
func (e *Engine) syncCompanyTier(deal *M.Deal, logCtx *log.Entry) tierResult {
	if deal.Company == nil {
		return tierResult{}
	}

	logCtx = logCtx.WithField("company_id", deal.Company.ID)

	existing, err := e.target.FindCompanyByExternalID(deal.Company.ID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to look up target company record.")
		return tierResult{err: err}
	}

	if existing == nil {
		created, err := e.target.CreateCompany(M.CompanyCreateInput{
			ExternalID:      deal.Company.ID,
			Name:            deal.Company.Name,
			Domain:          deal.Company.Domain,
			Industry:        deal.Company.Industry,
			EmployeeBracket: deal.Company.EmployeeBracket,
			Country:         deal.Company.Country,
		})
		if err != nil {
			logCtx.WithError(err).Error("Failed to create target company record.")
			return tierResult{err: err}
		}
		return tierResult{recordID: created.RecordID}
	}

	update := CompanyDiff(deal.Company, existing)
	if update.IsEmpty() {
		return tierResult{recordID: existing.RecordID}
	}

	if _, err := e.target.UpdateCompany(existing.RecordID, update); err != nil {
		logCtx.WithError(err).Error("Failed to update target company record.")
		return tierResult{err: err}
	}

	return tierResult{recordID: existing.RecordID}
}

// syncContactTier upserts the deal's primary contact and links it to
// the company record when one was produced by tier 1. Same fault
// isolation rule as the company tier.
func (e *Engine) syncContactTier(deal *M.Deal, companyRecordID string, logCtx *log.Entry) tierResult {
	contact := deal.PrimaryContact()
	if contact == nil {
		return tierResult{}
	}

	logCtx = logCtx.WithField("contact_id", contact.ID)

	existing, err := e.target.FindContactByExternalID(contact.ID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to look up target contact record.")
		return tierResult{err: err}
	}

	var recordID string
	if existing == nil {
		created, err := e.target.CreateContact(M.ContactCreateInput{
			ExternalID: contact.ID,
			Name:       contact.FullName(),
			Email:      contact.Email,
			Phone:      U.SanitizePhoneNumber(contact.Phone),
			JobTitle:   contact.JobTitle,
		})
		if err != nil {
			logCtx.WithError(err).Error("Failed to create target contact record.")
			return tierResult{err: err}
		}
		recordID = created.RecordID
	} else {
		update := ContactDiff(contact, existing)
		if !update.IsEmpty() {
			if _, err := e.target.UpdateContact(existing.RecordID, update); err != nil {
				logCtx.WithError(err).Error("Failed to update target contact record.")
				return tierResult{err: err}
			}
		}
		recordID = existing.RecordID
	}

	// Link failures are swallowed - a conflict means already linked.
	if companyRecordID != "" {
		if err := e.target.LinkContactToCompany(recordID, companyRecordID); err != nil {
			logCtx.WithError(err).Debug("Failed to link contact to company, treating as already linked.")
		}
	}

	return tierResult{recordID: recordID}
}

// syncProjectTier is the terminal tier. Its failures, unlike tiers 1
// and 2, fail the whole deal sync.
func (e *Engine) syncProjectTier(deal *M.Deal, companyRecordID, contactRecordID string, logCtx *log.Entry) M.SyncResult {
	existing, err := e.target.FindProjectByExternalID(deal.ID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to look up target project record.")
		return errorResult(deal.ID, err.Error())
	}

	if existing != nil {
		return e.updateProject(deal, existing, companyRecordID, contactRecordID, logCtx)
	}

	if !e.conf.IsCreationTrigger(deal.NativeStage) {
		logCtx.WithField("stage", deal.NativeStage).Info("Skipped project creation on stage.")
		return skippedResult(deal.ID, "stage does not trigger creation")
	}

	status, exists := e.conf.StatusForStage(deal.Stage)
	if !exists {
		status = e.conf.DefaultStatus
	}

	created, err := e.target.CreateProject(M.ProjectCreateInput{
		ExternalID:    deal.ID,
		Name:          deal.Name,
		Budget:        deal.Amount,
		StartDate:     U.DateStringFromTime(deal.CloseDate),
		Description:   e.buildDescription(deal),
		Status:        status,
		ContactLinkID: contactRecordID,
		CompanyLinkID: companyRecordID,
	})
	if err != nil {
		logCtx.WithError(err).Error("Failed to create target project record.")
		return errorResult(deal.ID, err.Error())
	}

	logCtx.WithField("project_id", created.RecordID).Info("Created target project record.")
	return M.SyncResult{
		Success:   true,
		Action:    M.SyncActionCreated,
		DealID:    deal.ID,
		ProjectID: created.RecordID,
		Message:   "project created",
	}
}

func (e *Engine) updateProject(deal *M.Deal, existing *M.TargetProjectRecord,
	companyRecordID, contactRecordID string, logCtx *log.Entry) M.SyncResult {

	logCtx = logCtx.WithField("project_id", existing.RecordID)

	if !e.conf.UpdatesEnabled {
		return M.SyncResult{
			Success:   true,
			Action:    M.SyncActionSkipped,
			DealID:    deal.ID,
			ProjectID: existing.RecordID,
			Message:   "updates disabled",
		}
	}

	// Relink associations. Failures are swallowed as already linked;
	// absent ids leave existing links untouched.
	if companyRecordID != "" && companyRecordID != existing.CompanyLinkID {
		if err := e.target.LinkProjectToCompany(existing.RecordID, companyRecordID); err != nil {
			logCtx.WithError(err).Debug("Failed to relink project to company, treating as already linked.")
		}
	}
	if contactRecordID != "" && contactRecordID != existing.ContactLinkID {
		if err := e.target.LinkProjectToContact(existing.RecordID, contactRecordID); err != nil {
			logCtx.WithError(err).Debug("Failed to relink project to contact, treating as already linked.")
		}
	}

	update := ProjectDiff(&e.conf, deal, existing)
	if update.IsEmpty() {
		return M.SyncResult{
			Success:   true,
			Action:    M.SyncActionSkipped,
			DealID:    deal.ID,
			ProjectID: existing.RecordID,
			Message:   "no syncable fields changed",
		}
	}

	updated, err := e.target.UpdateProject(existing.RecordID, update)
	if err != nil {
		logCtx.WithError(err).Error("Failed to update target project record.")
		return errorResult(deal.ID, err.Error())
	}

	logCtx.Info("Updated target project record.")
	return M.SyncResult{
		Success:   true,
		Action:    M.SyncActionUpdated,
		DealID:    deal.ID,
		ProjectID: updated.RecordID,
		Message:   "project updated",
	}
}

// buildDescription uses the source description, or synthesizes a
// summary from the resolved associations and the sync time.
func (e *Engine) buildDescription(deal *M.Deal) string {
	if deal.Description != "" {
		return deal.Description
	}

	parts := make([]string, 0, 3)
	if deal.Company != nil && deal.Company.Name != "" {
		parts = append(parts, "Company: "+deal.Company.Name)
	}
	if contact := deal.PrimaryContact(); contact != nil {
		summary := contact.FullName()
		if contact.Email != "" {
			summary = fmt.Sprintf("%s (%s)", summary, contact.Email)
		}
		parts = append(parts, "Contact: "+summary)
	}
	parts = append(parts, "Synced from pipeline at "+e.nowFunc().UTC().Format(time.RFC3339))

	return strings.Join(parts, ". ")
}

func errorResult(dealID, message string) M.SyncResult {
	return M.SyncResult{
		Success: false,
		Action:  M.SyncActionError,
		DealID:  dealID,
		Message: message,
	}
}

func skippedResult(dealID, message string) M.SyncResult {
	return M.SyncResult{
		Success: true,
		Action:  M.SyncActionSkipped,
		DealID:  dealID,
		Message: message,
	}
}
