package domain

// ScopusAccount is an author's profile in the Scopus bibliographic database.
type ScopusAccount struct {
	ID          uint
	Username    string
	Affiliation string
	AuthorID    uint
}

// ScopusAccountPatch carries the fields of a partial update; nil means unchanged.
type ScopusAccountPatch struct {
	Username    *string
	Affiliation *string
	AuthorID    *uint
}

// NewScopusAccount builds a validated account.
func NewScopusAccount(id uint, username, affiliation string, authorID uint) (*ScopusAccount, error) {
	s := &ScopusAccount{ID: id, Username: username, Affiliation: affiliation, AuthorID: authorID}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ScopusAccount) validate() error {
	if isBlank(s.Username) {
		return &EmptyFieldError{Field: "username"}
	}
	if isBlank(s.Affiliation) {
		return &EmptyFieldError{Field: "affiliation"}
	}
	if s.AuthorID == 0 {
		return &ValidationError{Field: "author_id", Message: "invalid author id"}
	}
	return nil
}

// Apply returns a copy of s with the patch applied and re-validated.
func (s *ScopusAccount) Apply(p ScopusAccountPatch) (*ScopusAccount, error) {
	next := *s
	if p.Username != nil {
		next.Username = *p.Username
	}
	if p.Affiliation != nil {
		next.Affiliation = *p.Affiliation
	}
	if p.AuthorID != nil {
		next.AuthorID = *p.AuthorID
	}
	if err := next.validate(); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *ScopusAccount) String() string {
	return s.Username + " - " + s.Affiliation
}
