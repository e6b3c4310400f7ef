package extract

import (
	"testing"

	"github.com/otherjamesbrown/sitebook-cli/pkg/contacts"
)

func TestInferTrade(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Rodriguez Plumbing LLC", "Plumbing"},
		{"Valley Electric Co", "Electrical"},
		{"ACME HVAC Services", "HVAC"},
		{"licensed for excavation work", "Excavation"},
		{"Chen Construction", contacts.DefaultTrade},
		{"", contacts.DefaultTrade},
	}

	for _, tt := range tests {
		if got := inferTrade(tt.text); got != tt.want {
			t.Errorf("inferTrade(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestInferCategory(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"ACME Lumber Supply", "Lumber"},
		{"Metro Equipment Rental", "Equipment"},
		{"BuildRight Hardware", "Hardware"},
		{"General Supplies Inc", "Materials"},
		{"Chen Consulting", contacts.DefaultCategory},
	}

	for _, tt := range tests {
		if got := inferCategory(tt.text); got != tt.want {
			t.Errorf("inferCategory(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestInferRole(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Project Manager", "Project Manager"},
		{"Site  Foreman", "Site Foreman"},
		{"Lead Estimator", "Lead Estimator"},
		{"BuildCo Inc", contacts.DefaultRole},
		{"", contacts.DefaultRole},
	}

	for _, tt := range tests {
		if got := inferRole(tt.text); got != tt.want {
			t.Errorf("inferRole(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestCoerceDropsRecordWithoutIdentity(t *testing.T) {
	f := &rawFields{email: "mike@example.com", phone: "555-123-4567"}
	if _, ok := coerce(f, contacts.KindClient); ok {
		t.Error("expected record without name or organization to be dropped")
	}
}

func TestCoerceContactNameBecomesDisplayName(t *testing.T) {
	f := &rawFields{contactName: "Mike Rodriguez"}
	rec, ok := coerce(f, contacts.KindSubcontractor)
	if !ok {
		t.Fatal("expected record to survive coercion")
	}
	if rec.DisplayName != "Mike Rodriguez" {
		t.Errorf("DisplayName = %q", rec.DisplayName)
	}
	if rec.Subcontractor == nil || rec.Subcontractor.ContactName != "Mike Rodriguez" {
		t.Errorf("subcontractor fields = %+v", rec.Subcontractor)
	}
}
