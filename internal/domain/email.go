package domain

import "regexp"

// emailPattern is the address grammar both the form and the submission
// boundary accept: a dot-separated local part that neither starts nor ends
// with a dot, then host labels of letters, digits and hyphens that do not
// start with a hyphen, then a TLD of at least two letters.
var emailPattern = regexp.MustCompile(
	`^(?:[A-Za-z0-9_'+\-]+\.)*[A-Za-z0-9_'+\-]*[A-Za-z0-9_+\-]@(?:[A-Za-z0-9][A-Za-z0-9\-]*\.)+[A-Za-z]{2,}$`,
)

// ValidEmail reports whether s is an acceptable email address.
func ValidEmail(s string) bool { return emailPattern.MatchString(s) }
