// Package contacts defines the shared record model for contact
// reconciliation: candidate records produced by extraction, existing
// records owned by the contact store, and the match proposals that
// connect the two.
package contacts

import (
	"fmt"

	sberrors "github.com/otherjamesbrown/sitebook-cli/pkg/errors"
)

// PersonKind identifies which contact shape a record is coerced into.
type PersonKind string

const (
	KindClient        PersonKind = "client"
	KindVendor        PersonKind = "vendor"
	KindSubcontractor PersonKind = "subcontractor"
	KindTeam          PersonKind = "team"
)

// Valid reports whether k is a known person kind.
func (k PersonKind) Valid() bool {
	switch k {
	case KindClient, KindVendor, KindSubcontractor, KindTeam:
		return true
	}
	return false
}

// OrganizationPrimary reports whether the organization name is the
// primary identity for this kind. For vendors and subcontractors the
// business is the record; any person name is a contact on it.
func (k PersonKind) OrganizationPrimary() bool {
	return k == KindVendor || k == KindSubcontractor
}

// ParsePersonKind converts a string into a PersonKind.
func ParsePersonKind(s string) (PersonKind, error) {
	k := PersonKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown person kind %q: %w", s, sberrors.ErrValidation)
	}
	return k, nil
}

// Fallback values applied during kind coercion when nothing in the
// source text allows a better guess.
const (
	DefaultCategory   = "General"
	DefaultTrade      = "General"
	DefaultRole       = "Member"
	DefaultDepartment = "General"
)

// VendorFields carries the vendor-only fields of a record.
type VendorFields struct {
	ContactName string `json:"contact_name,omitempty"`
	Category    string `json:"category,omitempty"`
}

// SubcontractorFields carries the subcontractor-only fields of a record.
type SubcontractorFields struct {
	ContactName string `json:"contact_name,omitempty"`
	Trade       string `json:"trade,omitempty"`
}

// TeamFields carries the team-member-only fields of a record.
type TeamFields struct {
	Role       string `json:"role,omitempty"`
	Department string `json:"department,omitempty"`
}

// CandidateRecord is one inferred contact entity. All fields are
// optional except that an emitted record always carries an identity
// (DisplayName or OrganizationName). Exactly one of the kind-specific
// pointers is set, matching Kind.
type CandidateRecord struct {
	Kind             PersonKind `json:"kind"`
	DisplayName      string     `json:"display_name,omitempty"`
	OrganizationName string     `json:"organization_name,omitempty"`
	Email            string     `json:"email,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	Website          string     `json:"website,omitempty"`
	Address          string     `json:"address,omitempty"`
	Notes            string     `json:"notes,omitempty"`

	Vendor        *VendorFields        `json:"vendor,omitempty"`
	Subcontractor *SubcontractorFields `json:"subcontractor,omitempty"`
	Team          *TeamFields          `json:"team,omitempty"`
}

// HasIdentity reports whether the record carries an identity field.
// Records without one are never emitted by extraction.
func (r *CandidateRecord) HasIdentity() bool {
	return r.DisplayName != "" || r.OrganizationName != ""
}

// ContactName returns the kind-specific contact person name, if any.
func (r *CandidateRecord) ContactName() string {
	switch {
	case r.Vendor != nil:
		return r.Vendor.ContactName
	case r.Subcontractor != nil:
		return r.Subcontractor.ContactName
	}
	return ""
}

// ExistingRecord is a stored contact, same shape as a candidate plus a
// stable ID used as a merge target. Passed to the matcher read-only.
type ExistingRecord struct {
	ID string `json:"id"`
	CandidateRecord
}

// MatchReason names the rule that connected a candidate to an existing
// record.
type MatchReason string

const (
	MatchReasonEmail   MatchReason = "email"
	MatchReasonPhone   MatchReason = "phone"
	MatchReasonName    MatchReason = "name"
	MatchReasonCompany MatchReason = "company"
)

// MatchProposal links a new record to the existing record it likely
// duplicates. NewIndex is the position of New in the candidate slice the
// matcher was given; each candidate produces at most one proposal.
type MatchProposal struct {
	NewIndex   int             `json:"new_index"`
	New        CandidateRecord `json:"new"`
	Existing   ExistingRecord  `json:"existing"`
	Reason     MatchReason     `json:"reason"`
	Confidence float64         `json:"confidence"`
}

// ResolutionAction is the user's decision on a disputed record.
type ResolutionAction string

const (
	// ActionSkip leaves the candidate unimported.
	ActionSkip ResolutionAction = "skip"
	// ActionImport imports the candidate as a new contact despite the match.
	ActionImport ResolutionAction = "import"
	// ActionMerge folds the candidate's data into an existing contact.
	ActionMerge ResolutionAction = "merge"
)

// Valid reports whether a is a known resolution action.
func (a ResolutionAction) Valid() bool {
	switch a {
	case ActionSkip, ActionImport, ActionMerge:
		return true
	}
	return false
}

// Resolution records the decision taken for one disputed candidate.
// MergeTargetID is required when Action is merge and ignored otherwise.
type Resolution struct {
	Action        ResolutionAction `json:"action"`
	MergeTargetID string           `json:"merge_target_id,omitempty"`
}

// Validate checks a resolution for internal consistency.
func (r Resolution) Validate() error {
	if !r.Action.Valid() {
		return fmt.Errorf("unknown resolution action %q: %w", r.Action, sberrors.ErrValidation)
	}
	if r.Action == ActionMerge && r.MergeTargetID == "" {
		return fmt.Errorf("merge resolution requires a target id: %w", sberrors.ErrValidation)
	}
	return nil
}

// Partition splits a candidate set by match outcome. Unique records are
// eligible for automatic import; disputed records each need exactly one
// resolution. The two sets are disjoint and cover the input.
type Partition struct {
	Unique   []CandidateRecord `json:"unique"`
	Disputed []MatchProposal   `json:"disputed"`
}
