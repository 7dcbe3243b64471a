// Package names decides whether two person names denote the same individual
// under incomplete information.
package names

import "strings"

// Match reports whether two full names plausibly denote the same person.
//
// The heuristic, in order: exact full-string match; otherwise both names must
// split into at least two whitespace tokens and the last tokens (surnames)
// must match exactly. First names compare exactly unless one side is
// abbreviated ("J." or a bare initial), in which case only the first
// characters are compared. Case-sensitive throughout.
//
// This accepts "J. Smith" vs "John Smith" and is a known source of false
// positives on common surnames; callers treat it as a low-confidence signal.
func Match(a, b string) bool {
	if a == b && a != "" {
		return true
	}

	aParts := strings.Fields(a)
	bParts := strings.Fields(b)
	if len(aParts) < 2 || len(bParts) < 2 {
		return false // single-token names cannot be compared
	}

	if aParts[len(aParts)-1] != bParts[len(bParts)-1] {
		return false
	}

	aFirst, bFirst := aParts[0], bParts[0]
	if isInitial(aFirst) || isInitial(bFirst) {
		return aFirst[0] == bFirst[0]
	}
	return aFirst == bFirst
}

// isInitial reports whether a first-name token is an abbreviation like "J"
// or "J.".
func isInitial(tok string) bool {
	return len(tok) == 1 || (len(tok) == 2 && tok[1] == '.')
}

// Split separates a full name into first and last parts on the first space.
// A single-token name yields an empty last name.
func Split(full string) (first, last string) {
	full = strings.TrimSpace(full)
	if full == "" {
		return "", ""
	}
	parts := strings.SplitN(full, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

// SplitComma handles "Family, Given" creator names; without a comma it falls
// back to splitting on spaces with the first token as the given name.
func SplitComma(full string) (first, last string) {
	if i := strings.Index(full, ","); i >= 0 {
		return strings.TrimSpace(full[i+1:]), strings.TrimSpace(full[:i])
	}
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
