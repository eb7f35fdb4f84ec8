package model

// Partial update structs for the target store. A nil field means
// "do not touch" - the store only ever writes fields that are set.
// These are produced by the syncer's pure diff functions.

type CompanyUpdate struct {
	Name            *string
	Domain          *string
	Industry        *string
	EmployeeBracket *string
	Country         *string
}

func (u *CompanyUpdate) IsEmpty() bool {
	return u.Name == nil && u.Domain == nil && u.Industry == nil &&
		u.EmployeeBracket == nil && u.Country == nil
}

type ContactUpdate struct {
	Name     *string
	Email    *string
	Phone    *string
	JobTitle *string
}

func (u *ContactUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.Phone == nil && u.JobTitle == nil
}

type ProjectUpdate struct {
	Name        *string
	Budget      *float64
	StartDate   *string
	Description *string
	Status      *string
}

func (u *ProjectUpdate) IsEmpty() bool {
	return u.Name == nil && u.Budget == nil && u.StartDate == nil &&
		u.Description == nil && u.Status == nil
}

// StringPtr returns a pointer to the given string. Used while building
// partial updates.
func StringPtr(s string) *string {
	return &s
}

// Float64Ptr returns a pointer to the given float64.
func Float64Ptr(f float64) *float64 {
	return &f
}
