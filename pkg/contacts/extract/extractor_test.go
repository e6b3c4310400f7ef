package extract

import (
	"errors"
	"reflect"
	"testing"

	"github.com/otherjamesbrown/sitebook-cli/pkg/contacts"
	sberrors "github.com/otherjamesbrown/sitebook-cli/pkg/errors"
	"github.com/otherjamesbrown/sitebook-cli/pkg/logging"
)

func newTestEngine() *Engine {
	return New(WithLogger(logging.NewNopLogger()))
}

func TestParseSourceKind(t *testing.T) {
	for _, valid := range []string{"paste", "ocr", "email-body", "calendar-text", "json-array"} {
		if _, err := ParseSourceKind(valid); err != nil {
			t.Errorf("ParseSourceKind(%q) returned error: %v", valid, err)
		}
	}

	_, err := ParseSourceKind("carrier-pigeon")
	if err == nil {
		t.Fatal("expected error for unknown source kind")
	}
	if !errors.Is(err, sberrors.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestExtractRejectsInvalidInput(t *testing.T) {
	e := newTestEngine()

	_, err := e.Extract(RawInput{Text: "x", Source: "fax"}, contacts.KindClient)
	if !errors.Is(err, sberrors.ErrValidation) {
		t.Errorf("unknown source: expected validation error, got %v", err)
	}

	_, err = e.Extract(RawInput{Text: "x", Source: SourcePaste}, contacts.PersonKind("supplier"))
	if !errors.Is(err, sberrors.ErrValidation) {
		t.Errorf("unknown kind: expected validation error, got %v", err)
	}
}

func TestExtractEmptyInput(t *testing.T) {
	e := newTestEngine()

	records, err := e.Extract(RawInput{Text: "  \n\t ", Source: SourcePaste}, contacts.KindClient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestExtractSignatureBlock(t *testing.T) {
	e := newTestEngine()

	text := "Mike Rodriguez\nRodriguez Plumbing LLC\n555-123-4567\nmike@rodriguezplumbing.com"
	records, err := e.Extract(RawInput{Text: text, Source: SourceEmailBody}, contacts.KindClient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.DisplayName != "Mike Rodriguez" {
		t.Errorf("DisplayName = %q", rec.DisplayName)
	}
	if rec.OrganizationName != "Rodriguez Plumbing LLC" {
		t.Errorf("OrganizationName = %q", rec.OrganizationName)
	}
	if rec.Phone != "555-123-4567" {
		t.Errorf("Phone = %q", rec.Phone)
	}
	if rec.Email != "mike@rodriguezplumbing.com" {
		t.Errorf("Email = %q", rec.Email)
	}
	if rec.Kind != contacts.KindClient {
		t.Errorf("Kind = %q", rec.Kind)
	}
}

func TestExtractEmailBoundarySplitsRecords(t *testing.T) {
	e := newTestEngine()

	text := "Mike Rodriguez\nmike@example.com\nSarah Chen\nsarah@example.com"
	records, err := e.Extract(RawInput{Text: text, Source: SourcePaste}, contacts.KindClient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	if records[0].DisplayName != "Mike Rodriguez" || records[0].Email != "mike@example.com" {
		t.Errorf("first record = %+v", records[0])
	}
	if records[1].DisplayName != "Sarah Chen" || records[1].Email != "sarah@example.com" {
		t.Errorf("second record = %+v", records[1])
	}
}

func TestExtractVendorOrganizationPromotion(t *testing.T) {
	e := newTestEngine()

	text := "Mike Rodriguez\nACME Lumber Supply Co\n555-123-4567"
	records, err := e.Extract(RawInput{Text: text, Source: SourceOCR}, contacts.KindVendor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.DisplayName != "ACME Lumber Supply Co" {
		t.Errorf("DisplayName = %q, want organization name", rec.DisplayName)
	}
	if rec.OrganizationName != "ACME Lumber Supply Co" {
		t.Errorf("OrganizationName = %q", rec.OrganizationName)
	}
	if rec.Vendor == nil {
		t.Fatal("expected vendor fields")
	}
	if rec.Vendor.ContactName != "Mike Rodriguez" {
		t.Errorf("ContactName = %q", rec.Vendor.ContactName)
	}
	if rec.Vendor.Category != "Lumber" {
		t.Errorf("Category = %q", rec.Vendor.Category)
	}
}

func TestExtractSubcontractorTrade(t *testing.T) {
	e := newTestEngine()

	text := "Valley Concrete Services\nsarah@valleyconcrete.com"
	records, err := e.Extract(RawInput{Text: text, Source: SourcePaste}, contacts.KindSubcontractor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.DisplayName != "Valley Concrete Services" {
		t.Errorf("DisplayName = %q", rec.DisplayName)
	}
	if rec.Subcontractor == nil {
		t.Fatal("expected subcontractor fields")
	}
	if rec.Subcontractor.Trade != "Concrete" {
		t.Errorf("Trade = %q", rec.Subcontractor.Trade)
	}
}

func TestExtractTeamRoleFromTitleLine(t *testing.T) {
	e := newTestEngine()

	text := "Sarah Chen\nProject Manager\nsarah@buildco.com"
	records, err := e.Extract(RawInput{Text: text, Source: SourceEmailBody}, contacts.KindTeam)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.DisplayName != "Sarah Chen" {
		t.Errorf("DisplayName = %q", rec.DisplayName)
	}
	if rec.Team == nil {
		t.Fatal("expected team fields")
	}
	if rec.Team.Role != "Project Manager" {
		t.Errorf("Role = %q", rec.Team.Role)
	}
	if rec.Team.Department != contacts.DefaultDepartment {
		t.Errorf("Department = %q", rec.Team.Department)
	}
}

func TestExtractStructuredRows(t *testing.T) {
	e := newTestEngine()

	text := `[
		{"organizationName": "ACME Lumber Supply", "email": "sales@acmelumber.com", "category": "Lumber"},
		{"contactName": "Mike Rodriguez", "phone": "555-123-4567"},
		{"email": "nobody@example.com"},
		{"Email": "wrong-case@example.com"}
	]`
	records, err := e.Extract(RawInput{Text: text, Source: SourceJSONArray}, contacts.KindVendor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Rows without an identity field are dropped, and keys are matched
	// case-sensitively, so only the first two rows survive.
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.DisplayName != "ACME Lumber Supply" || first.Email != "sales@acmelumber.com" {
		t.Errorf("first record = %+v", first)
	}
	if first.Vendor == nil || first.Vendor.Category != "Lumber" {
		t.Errorf("first record vendor fields = %+v", first.Vendor)
	}

	second := records[1]
	if second.DisplayName != "Mike Rodriguez" || second.Phone != "555-123-4567" {
		t.Errorf("second record = %+v", second)
	}
	if second.Vendor == nil || second.Vendor.ContactName != "Mike Rodriguez" {
		t.Errorf("second record vendor fields = %+v", second.Vendor)
	}
}

func TestExtractFallbackSingleRecord(t *testing.T) {
	records := extractFallback("Mike Rodriguez\n555-123-4567", contacts.KindClient)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].DisplayName != "Mike Rodriguez" || records[0].Phone != "555-123-4567" {
		t.Errorf("record = %+v", records[0])
	}
}

func TestExtractJunkYieldsNothing(t *testing.T) {
	e := newTestEngine()

	records, err := e.Extract(RawInput{Text: "12345 67890", Source: SourceOCR}, contacts.KindClient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %+v", records)
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	e := newTestEngine()
	input := RawInput{
		Text:   "Mike Rodriguez\nRodriguez Plumbing LLC\n555-123-4567\nmike@rodriguezplumbing.com\nSarah Chen\nsarah@chenconstruction.com",
		Source: SourcePaste,
	}

	first, err := e.Extract(input, contacts.KindClient)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	second, err := e.Extract(input, contacts.KindClient)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("extraction not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestExtractEveryRecordHasIdentity(t *testing.T) {
	e := newTestEngine()
	inputs := []string{
		"Mike Rodriguez\nRodriguez Plumbing LLC\n555-123-4567",
		"sarah@chenconstruction.com\nSarah Chen",
		"www.buildco.net\n555-987-6543\nBuildCo Inc",
		"Tom Wu\ntom@wu.dev\nAnna Lee\nanna@lee.dev",
		`[{"displayName": "Pat Kim"}, {"notes": "no identity here"}]`,
	}
	kinds := []contacts.PersonKind{
		contacts.KindClient, contacts.KindVendor, contacts.KindSubcontractor, contacts.KindTeam,
	}

	for _, text := range inputs {
		for _, kind := range kinds {
			records, err := e.Extract(RawInput{Text: text, Source: SourcePaste}, kind)
			if err != nil {
				t.Fatalf("Extract(%q, %s): %v", text, kind, err)
			}
			for i, rec := range records {
				if !rec.HasIdentity() {
					t.Errorf("Extract(%q, %s): record %d has no identity: %+v", text, kind, i, rec)
				}
			}
		}
	}
}
