package store

import (
	"errors"
	"testing"

	"github.com/otherjamesbrown/sitebook-cli/pkg/contacts"
	sberrors "github.com/otherjamesbrown/sitebook-cli/pkg/errors"
)

func TestTableFor(t *testing.T) {
	tests := []struct {
		kind contacts.PersonKind
		want string
	}{
		{contacts.KindClient, "clients"},
		{contacts.KindVendor, "vendors"},
		{contacts.KindSubcontractor, "subcontractors"},
		{contacts.KindTeam, "team_members"},
	}

	for _, tt := range tests {
		table, err := tableFor(tt.kind)
		if err != nil {
			t.Errorf("tableFor(%s) returned error: %v", tt.kind, err)
		}
		if table != tt.want {
			t.Errorf("tableFor(%s) = %q, want %q", tt.kind, table, tt.want)
		}
	}

	_, err := tableFor("supplier")
	if !errors.Is(err, sberrors.ErrValidation) {
		t.Errorf("unknown kind: expected validation error, got %v", err)
	}
}

func TestKindColumns(t *testing.T) {
	if cols := kindColumns(contacts.KindClient); cols != nil {
		t.Errorf("clients have no extra columns, got %v", cols)
	}
	if cols := kindColumns(contacts.KindTeam); len(cols) != 2 || cols[0] != "role" || cols[1] != "department" {
		t.Errorf("team columns = %v", cols)
	}
}

func TestKindValuesMatchKindColumns(t *testing.T) {
	recs := []contacts.CandidateRecord{
		{Kind: contacts.KindClient},
		{Kind: contacts.KindVendor, Vendor: &contacts.VendorFields{ContactName: "Mike", Category: "Lumber"}},
		{Kind: contacts.KindSubcontractor, Subcontractor: &contacts.SubcontractorFields{Trade: "Plumbing"}},
		{Kind: contacts.KindTeam, Team: &contacts.TeamFields{Role: "Foreman", Department: "Field"}},
	}

	for i := range recs {
		cols := kindColumns(recs[i].Kind)
		vals := kindValues(&recs[i])
		if len(cols) != len(vals) {
			t.Errorf("%s: %d columns but %d values", recs[i].Kind, len(cols), len(vals))
		}
	}
}

func TestMergeFieldsFillsEmptySlots(t *testing.T) {
	target := &contacts.ExistingRecord{
		ID: "e1",
		CandidateRecord: contacts.CandidateRecord{
			Kind:        contacts.KindClient,
			DisplayName: "Mike Rodriguez",
			Email:       "mike@rp.com",
		},
	}
	rec := &contacts.CandidateRecord{
		Kind:             contacts.KindClient,
		DisplayName:      "M. Rodriguez",
		Email:            "other@rp.com",
		Phone:            "555-123-4567",
		OrganizationName: "Rodriguez Plumbing",
	}

	merged := MergeFields(target, rec)

	if merged.Email != "mike@rp.com" {
		t.Errorf("filled target field was overwritten: %q", merged.Email)
	}
	if merged.Phone != "555-123-4567" {
		t.Errorf("empty target field was not filled: %q", merged.Phone)
	}
	if merged.OrganizationName != "Rodriguez Plumbing" {
		t.Errorf("OrganizationName = %q", merged.OrganizationName)
	}
	if merged.DisplayName != "Mike Rodriguez" {
		t.Errorf("display name must stay the target's: %q", merged.DisplayName)
	}
}

func TestMergeFieldsKindSpecific(t *testing.T) {
	target := &contacts.ExistingRecord{
		ID: "e1",
		CandidateRecord: contacts.CandidateRecord{
			Kind:          contacts.KindSubcontractor,
			DisplayName:   "Valley Concrete",
			Subcontractor: &contacts.SubcontractorFields{Trade: "Concrete"},
		},
	}
	rec := &contacts.CandidateRecord{
		Kind:          contacts.KindSubcontractor,
		DisplayName:   "Valley Concrete Services",
		Subcontractor: &contacts.SubcontractorFields{ContactName: "Sarah Chen", Trade: "Masonry"},
	}

	merged := MergeFields(target, rec)

	if merged.Subcontractor.ContactName != "Sarah Chen" {
		t.Errorf("ContactName = %q", merged.Subcontractor.ContactName)
	}
	if merged.Subcontractor.Trade != "Concrete" {
		t.Errorf("filled trade was overwritten: %q", merged.Subcontractor.Trade)
	}
}

func TestMergeFieldsDoesNotMutateInputs(t *testing.T) {
	target := &contacts.ExistingRecord{
		ID: "e1",
		CandidateRecord: contacts.CandidateRecord{
			Kind:        contacts.KindVendor,
			DisplayName: "ACME Lumber",
			Vendor:      &contacts.VendorFields{Category: "Lumber"},
		},
	}
	rec := &contacts.CandidateRecord{
		Kind:   contacts.KindVendor,
		Phone:  "555-123-4567",
		Vendor: &contacts.VendorFields{ContactName: "Mike"},
	}

	merged := MergeFields(target, rec)

	if target.Phone != "" || target.Vendor.ContactName != "" {
		t.Errorf("target mutated: %+v", target)
	}
	if merged.Vendor == target.Vendor {
		t.Error("merged record shares the target's vendor struct")
	}
	if merged.Phone != "555-123-4567" || merged.Vendor.ContactName != "Mike" {
		t.Errorf("merged = %+v", merged)
	}
}

func TestNullIfEmpty(t *testing.T) {
	if nullIfEmpty("") != nil {
		t.Error("empty string should map to nil")
	}
	if p := nullIfEmpty("x"); p == nil || *p != "x" {
		t.Errorf("nullIfEmpty(\"x\") = %v", p)
	}
}
