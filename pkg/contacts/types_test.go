package contacts

import (
	"errors"
	"testing"

	sberrors "github.com/otherjamesbrown/sitebook-cli/pkg/errors"
)

func TestParsePersonKind(t *testing.T) {
	for _, valid := range []string{"client", "vendor", "subcontractor", "team"} {
		kind, err := ParsePersonKind(valid)
		if err != nil {
			t.Errorf("ParsePersonKind(%q) returned error: %v", valid, err)
		}
		if string(kind) != valid {
			t.Errorf("ParsePersonKind(%q) = %q", valid, kind)
		}
	}

	_, err := ParsePersonKind("supplier")
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if !errors.Is(err, sberrors.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestOrganizationPrimary(t *testing.T) {
	tests := []struct {
		kind PersonKind
		want bool
	}{
		{KindClient, false},
		{KindVendor, true},
		{KindSubcontractor, true},
		{KindTeam, false},
	}

	for _, tt := range tests {
		if got := tt.kind.OrganizationPrimary(); got != tt.want {
			t.Errorf("%s.OrganizationPrimary() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestHasIdentity(t *testing.T) {
	tests := []struct {
		name string
		rec  CandidateRecord
		want bool
	}{
		{"display name only", CandidateRecord{DisplayName: "Mike Rodriguez"}, true},
		{"organization only", CandidateRecord{OrganizationName: "Rodriguez Plumbing LLC"}, true},
		{"both", CandidateRecord{DisplayName: "Mike", OrganizationName: "Rodriguez Plumbing"}, true},
		{"email only", CandidateRecord{Email: "mike@example.com"}, false},
		{"empty", CandidateRecord{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.HasIdentity(); got != tt.want {
				t.Errorf("HasIdentity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContactName(t *testing.T) {
	vendor := CandidateRecord{Vendor: &VendorFields{ContactName: "Mike Rodriguez"}}
	if got := vendor.ContactName(); got != "Mike Rodriguez" {
		t.Errorf("vendor ContactName() = %q", got)
	}

	sub := CandidateRecord{Subcontractor: &SubcontractorFields{ContactName: "Sarah Chen"}}
	if got := sub.ContactName(); got != "Sarah Chen" {
		t.Errorf("subcontractor ContactName() = %q", got)
	}

	client := CandidateRecord{DisplayName: "Tom Wu"}
	if got := client.ContactName(); got != "" {
		t.Errorf("client ContactName() = %q, want empty", got)
	}
}

func TestResolutionValidate(t *testing.T) {
	tests := []struct {
		name    string
		res     Resolution
		wantErr bool
	}{
		{"skip", Resolution{Action: ActionSkip}, false},
		{"import", Resolution{Action: ActionImport}, false},
		{"merge with target", Resolution{Action: ActionMerge, MergeTargetID: "abc"}, false},
		{"merge without target", Resolution{Action: ActionMerge}, true},
		{"unknown action", Resolution{Action: "discard"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.res.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, sberrors.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}
