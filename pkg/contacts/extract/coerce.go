package extract

import (
	"strings"

	"github.com/otherjamesbrown/sitebook-cli/pkg/contacts"
)

// Keyword tables for inferring kind-specific fields from free text.
// Scanned against the organization name, notes, and address; first hit
// wins, so more specific keywords come first.
var (
	tradeKeywords = []struct {
		keyword string
		trade   string
	}{
		{"plumb", "Plumbing"},
		{"electric", "Electrical"},
		{"hvac", "HVAC"},
		{"roof", "Roofing"},
		{"fram", "Framing"},
		{"drywall", "Drywall"},
		{"concrete", "Concrete"},
		{"paint", "Painting"},
		{"floor", "Flooring"},
		{"landscap", "Landscaping"},
		{"mason", "Masonry"},
		{"excavat", "Excavation"},
	}

	categoryKeywords = []struct {
		keyword  string
		category string
	}{
		{"lumber", "Lumber"},
		{"concrete", "Concrete"},
		{"electric", "Electrical"},
		{"rental", "Equipment"},
		{"equipment", "Equipment"},
		{"hardware", "Hardware"},
		{"supply", "Materials"},
		{"supplies", "Materials"},
	}

	roleKeywords = []string{
		"manager", "foreman", "superintendent", "estimator",
		"engineer", "architect", "accountant", "admin",
	}
)

func inferTrade(text string) string {
	text = strings.ToLower(text)
	for _, tk := range tradeKeywords {
		if strings.Contains(text, tk.keyword) {
			return tk.trade
		}
	}
	return contacts.DefaultTrade
}

func inferCategory(text string) string {
	text = strings.ToLower(text)
	for _, ck := range categoryKeywords {
		if strings.Contains(text, ck.keyword) {
			return ck.category
		}
	}
	return contacts.DefaultCategory
}

func inferRole(text string) string {
	lower := strings.ToLower(text)
	for _, kw := range roleKeywords {
		if strings.Contains(lower, kw) {
			return contacts.CollapseWhitespace(text)
		}
	}
	return contacts.DefaultRole
}

// coerce shapes accumulated raw fields into the kind's record form.
// For vendors and subcontractors the organization becomes the primary
// display name; a record whose only identity is a contact person still
// surfaces that name as the display name rather than being dropped.
// Returns false when no identity field could be filled.
func coerce(f *rawFields, kind contacts.PersonKind) (contacts.CandidateRecord, bool) {
	rec := contacts.CandidateRecord{
		Kind:             kind,
		DisplayName:      contacts.CollapseWhitespace(f.displayName),
		OrganizationName: contacts.CollapseWhitespace(f.organizationName),
		Email:            strings.TrimSpace(f.email),
		Phone:            strings.TrimSpace(f.phone),
		Website:          strings.TrimSpace(f.website),
		Address:          contacts.CollapseWhitespace(f.address),
		Notes:            contacts.CollapseWhitespace(strings.Join(f.notes, " ")),
	}

	contactName := contacts.CollapseWhitespace(f.contactName)
	hintText := rec.OrganizationName + " " + rec.Address + " " + rec.Notes

	switch kind {
	case contacts.KindVendor:
		rec.Vendor = &contacts.VendorFields{
			ContactName: contactName,
			Category:    inferCategory(hintText),
		}
	case contacts.KindSubcontractor:
		rec.Subcontractor = &contacts.SubcontractorFields{
			ContactName: contactName,
			Trade:       inferTrade(hintText),
		}
	case contacts.KindTeam:
		rec.Team = &contacts.TeamFields{
			Role:       inferRole(rec.OrganizationName),
			Department: contacts.DefaultDepartment,
		}
	}

	if kind.OrganizationPrimary() && rec.DisplayName == "" {
		if rec.OrganizationName != "" {
			rec.DisplayName = rec.OrganizationName
		} else if contactName != "" {
			rec.DisplayName = contactName
		}
	}

	if !rec.HasIdentity() {
		return contacts.CandidateRecord{}, false
	}
	return rec, true
}
