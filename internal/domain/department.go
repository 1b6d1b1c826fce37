package domain

import "strings"

// Department is an organisational unit that belongs to a faculty.
type Department struct {
	ID          uint
	Code        string
	Name        string
	FacultyName string
}

// DepartmentPatch carries the fields of a partial update; nil means unchanged.
type DepartmentPatch struct {
	Code        *string
	Name        *string
	FacultyName *string
}

// NewDepartment builds a validated department. id is zero for records not
// yet persisted.
func NewDepartment(id uint, code, name, facultyName string) (*Department, error) {
	d := &Department{ID: id, Code: code, Name: name, FacultyName: facultyName}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Department) validate() error {
	if isBlank(d.Code) {
		return &EmptyFieldError{Field: "code"}
	}
	if isBlank(d.Name) {
		return &EmptyFieldError{Field: "name"}
	}
	if isBlank(d.FacultyName) {
		return &EmptyFieldError{Field: "faculty_name"}
	}
	return nil
}

// Apply returns a copy of d with the patch applied and re-validated.
// d itself is never modified.
func (d *Department) Apply(p DepartmentPatch) (*Department, error) {
	next := *d
	if p.Code != nil {
		next.Code = *p.Code
	}
	if p.Name != nil {
		next.Name = *p.Name
	}
	if p.FacultyName != nil {
		next.FacultyName = *p.FacultyName
	}
	if err := next.validate(); err != nil {
		return nil, err
	}
	return &next, nil
}

func (d *Department) String() string {
	return d.Name + " (" + d.Code + ")"
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
