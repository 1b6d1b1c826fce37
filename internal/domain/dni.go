package domain

import "strings"

const (
	dniLength      = 10
	minProvinceDNI = 1
	maxProvinceDNI = 24
)

var dniCoefficients = [9]int{2, 1, 2, 1, 2, 1, 2, 1, 2}

// DNI is a validated national identity number.
type DNI struct {
	value string
}

// NewDNI validates value and wraps it. Blank input yields an EmptyFieldError
// before the checksum is attempted.
func NewDNI(value string) (DNI, error) {
	if strings.TrimSpace(value) == "" {
		return DNI{}, &EmptyFieldError{Field: "dni"}
	}
	if !ValidDNI(value) {
		return DNI{}, &ValidationError{Field: "dni", Message: "invalid identity number"}
	}
	return DNI{value: value}, nil
}

// String returns the number as supplied.
func (d DNI) String() string {
	return d.value
}

// IsZero reports whether d was never constructed.
func (d DNI) IsZero() bool {
	return d.value == ""
}

// ValidDNI reports whether s is a 10-digit identity number with a province
// code in [1, 24] and a matching check digit.
func ValidDNI(s string) bool {
	if len(s) != dniLength {
		return false
	}

	var digits [dniLength]int
	for i := 0; i < dniLength; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return false
		}
		digits[i] = int(c - '0')
	}

	province := digits[0]*10 + digits[1]
	if province < minProvinceDNI || province > maxProvinceDNI {
		return false
	}

	return dniCheckDigit(digits[:9]) == digits[9]
}

// dniCheckDigit computes the check digit over the nine payload digits.
func dniCheckDigit(payload []int) int {
	total := 0
	for i, d := range payload {
		p := d * dniCoefficients[i]
		if p >= 10 {
			p -= 9
		}
		total += p
	}
	return (10 - total%10) % 10
}
