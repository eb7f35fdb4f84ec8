package syncer

import (
	C "dealsync/config"
	M "dealsync/model"
	U "dealsync/util"
)

// Pure field level diff functions. Each returns a partial update
// holding only the syncable fields whose source value differs from the
// stored one. An empty source value never clears a stored field:
// omission, not null, is the "do not touch" signal on the update path.

func diffString(src, existing string, out **string) {
	if src != "" && src != existing {
		*out = M.StringPtr(src)
	}
}

// CompanyDiff compares a source company against its target record.
func CompanyDiff(src *M.Company, existing *M.TargetCompanyRecord) M.CompanyUpdate {
	var update M.CompanyUpdate
	diffString(src.Name, existing.Name, &update.Name)
	diffString(src.Domain, existing.Domain, &update.Domain)
	diffString(src.Industry, existing.Industry, &update.Industry)
	diffString(src.EmployeeBracket, existing.EmployeeBracket, &update.EmployeeBracket)
	diffString(src.Country, existing.Country, &update.Country)
	return update
}

// ContactDiff compares a source contact against its target record.
// The phone number is normalized before comparison so a formatting
// difference alone does not produce a write.
func ContactDiff(src *M.Contact, existing *M.TargetContactRecord) M.ContactUpdate {
	var update M.ContactUpdate
	diffString(src.FullName(), existing.Name, &update.Name)
	diffString(src.Email, existing.Email, &update.Email)
	diffString(U.SanitizePhoneNumber(src.Phone), existing.Phone, &update.Phone)
	diffString(src.JobTitle, existing.JobTitle, &update.JobTitle)
	return update
}

// ProjectDiff compares a deal against its target project record. The
// status is always recomputed from the stage table, even when no other
// field changed, because the stage can move independently of the
// syncable field list.
func ProjectDiff(conf *C.SyncConfig, deal *M.Deal, existing *M.TargetProjectRecord) M.ProjectUpdate {
	var update M.ProjectUpdate
	diffString(deal.Name, existing.Name, &update.Name)
	diffString(U.DateStringFromTime(deal.CloseDate), existing.StartDate, &update.StartDate)
	diffString(deal.Description, existing.Description, &update.Description)

	if deal.Amount != 0 && deal.Amount != existing.Budget {
		update.Budget = M.Float64Ptr(deal.Amount)
	}

	if status, exists := conf.StatusForStage(deal.Stage); exists && status != existing.Status {
		update.Status = M.StringPtr(status)
	}

	return update
}
