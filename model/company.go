package model

// Company from the pipeline system. All fields except id and name
// are optional on the source side.
type Company struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Domain          string `json:"domain"`
	Industry        string `json:"industry"`
	EmployeeBracket string `json:"employee_bracket"`
	Country         string `json:"country"`
}
