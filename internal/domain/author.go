package domain

import (
	"fmt"
	"time"
)

// Gender is the closed set of values accepted for an author.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// Valid reports whether g is one of the declared values.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Birth dates must fall inside this window, both ends inclusive.
var (
	MinBirthDate = time.Date(1950, time.January, 1, 0, 0, 0, 0, time.UTC)
	MaxBirthDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// Author is a researcher attached to a department.
type Author struct {
	ID           uint
	DNI          DNI
	Title        string
	FirstName    string
	LastName     string
	BirthDate    time.Time
	Gender       Gender
	Position     string
	DepartmentID uint
}

// AuthorParams holds the raw values an Author is built from.
type AuthorParams struct {
	ID           uint
	DNI          string
	Title        string
	FirstName    string
	LastName     string
	BirthDate    time.Time
	Gender       Gender
	Position     string
	DepartmentID uint
}

// AuthorPatch carries the fields of a partial update; nil means unchanged.
type AuthorPatch struct {
	DNI          *string
	Title        *string
	FirstName    *string
	LastName     *string
	BirthDate    *time.Time
	Gender       *Gender
	Position     *string
	DepartmentID *uint
}

// NewAuthor validates p and returns the author. The identity number is
// checked first, then the remaining fields in declaration order.
func NewAuthor(p AuthorParams) (*Author, error) {
	dni, err := NewDNI(p.DNI)
	if err != nil {
		return nil, err
	}
	a := &Author{
		ID:           p.ID,
		DNI:          dni,
		Title:        p.Title,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		BirthDate:    TruncateDate(p.BirthDate),
		Gender:       p.Gender,
		Position:     p.Position,
		DepartmentID: p.DepartmentID,
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Author) validate() error {
	if isBlank(a.FirstName) {
		return &EmptyFieldError{Field: "first_name"}
	}
	if isBlank(a.LastName) {
		return &EmptyFieldError{Field: "last_name"}
	}
	if a.BirthDate.IsZero() {
		return &EmptyFieldError{Field: "birth_date"}
	}
	if a.Gender == "" {
		return &EmptyFieldError{Field: "gender"}
	}
	if !a.Gender.Valid() {
		return &ValidationError{Field: "gender", Message: "must be 'M' or 'F'"}
	}
	if isBlank(a.Position) {
		return &EmptyFieldError{Field: "position"}
	}
	if a.DepartmentID == 0 {
		return &ValidationError{Field: "department_id", Message: "author must belong to a department"}
	}
	if !BirthDateInRange(a.BirthDate) {
		return &ValidationError{
			Field: "birth_date",
			Message: fmt.Sprintf("must be between %s and %s",
				MinBirthDate.Format(DateLayout), MaxBirthDate.Format(DateLayout)),
		}
	}
	return nil
}

// Apply returns a copy of a with the patch applied and re-validated.
// a itself is never modified.
func (a *Author) Apply(p AuthorPatch) (*Author, error) {
	next := *a
	if p.DNI != nil {
		dni, err := NewDNI(*p.DNI)
		if err != nil {
			return nil, err
		}
		next.DNI = dni
	}
	if p.Title != nil {
		next.Title = *p.Title
	}
	if p.FirstName != nil {
		next.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		next.LastName = *p.LastName
	}
	if p.BirthDate != nil {
		next.BirthDate = TruncateDate(*p.BirthDate)
	}
	if p.Gender != nil {
		next.Gender = *p.Gender
	}
	if p.Position != nil {
		next.Position = *p.Position
	}
	if p.DepartmentID != nil {
		next.DepartmentID = *p.DepartmentID
	}
	if err := next.validate(); err != nil {
		return nil, err
	}
	return &next, nil
}

// FullName is "first last", without the title.
func (a *Author) FullName() string {
	return a.FirstName + " " + a.LastName
}

func (a *Author) String() string {
	if a.Title == "" {
		return a.FullName()
	}
	return a.Title + " " + a.FullName()
}

// BirthDateInRange reports whether d lies within [MinBirthDate, MaxBirthDate].
func BirthDateInRange(d time.Time) bool {
	d = TruncateDate(d)
	return !d.Before(MinBirthDate) && !d.After(MaxBirthDate)
}

// TruncateDate drops the time of day, keeping the calendar date of t in its
// own location, and returns it as UTC midnight.
func TruncateDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "birth_date", Message: "must be a date in YYYY-MM-DD format"}
	}
	return t, nil
}
