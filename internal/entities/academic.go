package entities

import "time"

type Department struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"uniqueIndex;size:10;not null" json:"code"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	FacultyName string    `gorm:"size:100;not null" json:"faculty_name"`
	Authors     []Author  `gorm:"foreignKey:DepartmentID;constraint:OnDelete:RESTRICT" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Department) TableName() string {
	return "departments"
}

type Author struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	DNI            string          `gorm:"uniqueIndex;size:10;not null" json:"dni"`
	Title          string          `gorm:"size:50" json:"title,omitempty"`
	FirstName      string          `gorm:"index;size:100;not null" json:"first_name"`
	LastName       string          `gorm:"index;size:100;not null" json:"last_name"`
	BirthDate      time.Time       `gorm:"type:date;not null" json:"birth_date"`
	Gender         string          `gorm:"size:1;not null" json:"gender"`
	Position       string          `gorm:"size:100;not null" json:"position"`
	DepartmentID   uint            `gorm:"index;not null" json:"department_id"`
	ScopusAccounts []ScopusAccount `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"scopus_accounts,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (Author) TableName() string {
	return "authors"
}

type ScopusAccount struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Affiliation string    `gorm:"size:200;not null" json:"affiliation"`
	AuthorID    uint      `gorm:"index;not null" json:"author_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ScopusAccount) TableName() string {
	return "scopus_accounts"
}
