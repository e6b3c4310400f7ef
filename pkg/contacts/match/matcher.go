// Package match finds likely duplicates between newly extracted
// candidate records and an organization's existing contacts. Matching is
// a pure function over its two input lists: rules run in a fixed
// priority order per pair, the scan over existing records stops at the
// first hit, and every candidate yields at most one proposal.
package match

import (
	"strings"

	"github.com/otherjamesbrown/sitebook-cli/pkg/contacts"
	"github.com/otherjamesbrown/sitebook-cli/pkg/logging"
)

// Confidence scores per match rule.
const (
	ConfidenceEmail       = 0.95
	ConfidencePhone       = 0.85
	ConfidenceNameCompany = 0.8
	ConfidenceNameOnly    = 0.6
	ConfidencePartial     = 0.5
)

// ConfidenceThreshold is the exclusive lower bound for surfacing a
// proposal. The 0.5 single-field partial match from the name+company
// rule is computed but always falls on the wrong side of it; that
// near-miss signal is kept as-is rather than being promoted or removed.
const ConfidenceThreshold = 0.5

// matchRule evaluates one pair of records. ok reports whether the rule
// fired at all; a fired rule ends the rule chain for the pair even when
// its confidence fails the threshold.
type matchRule struct {
	name     string
	evaluate func(n *contacts.CandidateRecord, ex *contacts.ExistingRecord) (float64, contacts.MatchReason, bool)
}

// matchRules in priority order. First fired rule wins for a pair.
var matchRules = []matchRule{
	{
		name: "email",
		evaluate: func(n *contacts.CandidateRecord, ex *contacts.ExistingRecord) (float64, contacts.MatchReason, bool) {
			if n.Email == "" || ex.Email == "" || !strings.EqualFold(n.Email, ex.Email) {
				return 0, "", false
			}
			return ConfidenceEmail, contacts.MatchReasonEmail, true
		},
	},
	{
		name: "phone",
		evaluate: func(n *contacts.CandidateRecord, ex *contacts.ExistingRecord) (float64, contacts.MatchReason, bool) {
			if n.Phone == "" || ex.Phone == "" || !contacts.SamePhone(n.Phone, ex.Phone) {
				return 0, "", false
			}
			return ConfidencePhone, contacts.MatchReasonPhone, true
		},
	},
	// Name+company applies when both records carry a name and the
	// candidate carries a company. An existing record with a missing or
	// different company is a company mismatch, so an agreeing name scores
	// the borderline partial instead of falling through to the name rule.
	{
		name: "name_company",
		evaluate: func(n *contacts.CandidateRecord, ex *contacts.ExistingRecord) (float64, contacts.MatchReason, bool) {
			if n.DisplayName == "" || ex.DisplayName == "" || n.OrganizationName == "" {
				return 0, "", false
			}
			nameEq := contacts.SameName(n.DisplayName, ex.DisplayName)
			companyEq := ex.OrganizationName != "" &&
				strings.EqualFold(n.OrganizationName, ex.OrganizationName)
			switch {
			case nameEq && companyEq:
				return ConfidenceNameCompany, contacts.MatchReasonName, true
			case nameEq:
				return ConfidencePartial, contacts.MatchReasonName, true
			case companyEq:
				return ConfidencePartial, contacts.MatchReasonCompany, true
			}
			return 0, "", false
		},
	},
	{
		name: "name_only",
		evaluate: func(n *contacts.CandidateRecord, ex *contacts.ExistingRecord) (float64, contacts.MatchReason, bool) {
			if !contacts.SameName(n.DisplayName, ex.DisplayName) {
				return 0, "", false
			}
			return ConfidenceNameOnly, contacts.MatchReasonName, true
		},
	},
}

// Matcher compares candidate records against existing contacts.
type Matcher struct {
	logger logging.Logger
}

// Option configures the matcher.
type Option func(*Matcher)

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(m *Matcher) {
		m.logger = logger
	}
}

// New creates a new duplicate matcher.
func New(opts ...Option) *Matcher {
	m := &Matcher{logger: logging.MustGlobal()}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With(logging.F("component", "duplicate_matcher"))
	return m
}

// evaluatePair runs the rule chain for one pair and returns the first
// fired rule's score and reason.
func evaluatePair(n *contacts.CandidateRecord, ex *contacts.ExistingRecord) (float64, contacts.MatchReason, bool) {
	for _, rule := range matchRules {
		if confidence, reason, ok := rule.evaluate(n, ex); ok {
			return confidence, reason, true
		}
	}
	return 0, "", false
}

// FindMatches scans existing records in their given order for each
// candidate and stops at the first record any rule connects it to.
// A proposal is surfaced only when its confidence clears the threshold,
// but the scan still stops at a sub-threshold hit: first-match-wins, not
// best-match-overall.
func (m *Matcher) FindMatches(newRecords []contacts.CandidateRecord, existingRecords []contacts.ExistingRecord) []contacts.MatchProposal {
	proposals := make([]contacts.MatchProposal, 0)

	for i := range newRecords {
		for j := range existingRecords {
			confidence, reason, ok := evaluatePair(&newRecords[i], &existingRecords[j])
			if !ok {
				continue
			}
			if confidence > ConfidenceThreshold {
				proposals = append(proposals, contacts.MatchProposal{
					NewIndex:   i,
					New:        newRecords[i],
					Existing:   existingRecords[j],
					Reason:     reason,
					Confidence: confidence,
				})
			} else {
				m.logger.Debug("sub-threshold match suppressed",
					logging.F("reason", string(reason)),
					logging.F("confidence", confidence))
			}
			break
		}
	}

	return proposals
}

// Partition splits the candidate set into records safe to auto-import
// and records that need a user decision. The two sets are disjoint and
// together cover the input.
func (m *Matcher) Partition(newRecords []contacts.CandidateRecord, proposals []contacts.MatchProposal) contacts.Partition {
	disputed := make(map[int]bool, len(proposals))
	for _, p := range proposals {
		disputed[p.NewIndex] = true
	}

	p := contacts.Partition{
		Unique:   make([]contacts.CandidateRecord, 0, len(newRecords)-len(proposals)),
		Disputed: proposals,
	}
	for i := range newRecords {
		if !disputed[i] {
			p.Unique = append(p.Unique, newRecords[i])
		}
	}
	return p
}
