package contacts

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Field detector patterns shared by the extraction engine and the
// duplicate matcher. Phone matching is deliberately loose: optional
// country code, 3-3-4 grouping with flexible separators. Callers must
// additionally check MinPhoneDigits via PhoneDigits.
var (
	emailPattern   = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern   = regexp.MustCompile(`(\+?\d{1,3}[\s.-]?)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}`)
	websitePattern = regexp.MustCompile(`^(https?://)?(www\.)?[a-zA-Z0-9][a-zA-Z0-9-]*(\.[a-zA-Z0-9-]+)*\.[a-zA-Z]{2,}(/\S*)?$`)
	digitPattern   = regexp.MustCompile(`\D`)

	businessMarkerPattern = regexp.MustCompile(`(?i)\b(llc|inc|corp|company|co|services|solutions|group)\b`)
)

// MinPhoneDigits is the minimum number of significant digits for a phone
// number to be trusted, both during extraction and during matching.
const MinPhoneDigits = 10

// MatchEmail returns the first email address found in s, or "".
func MatchEmail(s string) string {
	return emailPattern.FindString(s)
}

// MatchPhone returns the first phone-shaped substring of s with at least
// MinPhoneDigits significant digits, or "".
func MatchPhone(s string) string {
	m := phonePattern.FindString(s)
	if m == "" || len(PhoneDigits(m)) < MinPhoneDigits {
		return ""
	}
	return strings.TrimSpace(m)
}

// MatchWebsite reports whether the trimmed line looks like a bare domain
// or URL. Lines containing an @ are left to the email detector.
func MatchWebsite(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || strings.Contains(line, "@") {
		return false
	}
	return websitePattern.MatchString(line)
}

// PhoneDigits strips every non-digit character from s.
func PhoneDigits(s string) string {
	return digitPattern.ReplaceAllString(s, "")
}

// SamePhone reports whether two phone strings refer to the same number:
// equal digit strings of at least MinPhoneDigits digits. The length guard
// keeps short or garbled numbers from matching by accident.
func SamePhone(a, b string) bool {
	da, db := PhoneDigits(a), PhoneDigits(b)
	return len(da) >= MinPhoneDigits && da == db
}

// HasBusinessMarker reports whether the line contains a business-entity
// marker word (LLC, Inc, Corp, Company, Co., Services, Solutions, Group).
func HasBusinessMarker(line string) bool {
	return businessMarkerPattern.MatchString(line)
}

// LooksLikePersonName reports whether a line that matched no field
// detector reads as a person name: no digits and at most four words.
func LooksLikePersonName(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || strings.ContainsAny(line, "0123456789") {
		return false
	}
	return len(strings.Fields(line)) <= 4
}

// NormalizeDisplayName normalizes a display name to canonical form.
//   - "Eskelsen, Rick" → "Rick Eskelsen"
//   - "  James  Brown  " → "James Brown"
//   - "\"John Doe\"" → "John Doe"
func NormalizeDisplayName(name string) string {
	if name == "" {
		return ""
	}

	name = strings.Trim(name, `"'`)

	// Handle "Last, First" format
	if strings.Contains(name, ",") {
		parts := strings.SplitN(name, ",", 2)
		if len(parts) == 2 {
			first := strings.TrimSpace(parts[1])
			last := strings.TrimSpace(parts[0])
			if first != "" && last != "" {
				name = first + " " + last
			}
		}
	}

	name = strings.Join(strings.Fields(name), " ")

	return cases.Title(language.English).String(name)
}

// SameName reports whether two display names refer to the same person
// after canonicalization, so "Rodriguez, Mike" matches "mike rodriguez".
func SameName(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(NormalizeDisplayName(a), NormalizeDisplayName(b))
}

// CollapseWhitespace trims a line and collapses runs of whitespace to
// single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
