// Package domain holds the records the API manages and the rules they obey.
//
// Values are built through smart constructors (NewDepartment, NewAuthor,
// NewScopusAccount, NewDNI) that either return a fully valid value or a typed
// error; there is no way to obtain a half-valid record. Partial updates go
// through Apply, which validates a copy and leaves the receiver untouched.
//
// # Errors
//
// Every failure matches one of the sentinels with errors.Is:
//
//	ErrEmptyField  required string missing or blank
//	ErrValidation  value present but out of range or malformed
//	ErrNotFound    lookup by identifier yielded nothing
//	ErrConflict    uniqueness or referential rule violated
//
// Anything else is an internal failure.
package domain
