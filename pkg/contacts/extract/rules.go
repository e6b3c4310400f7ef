package extract

import (
	"strings"

	"github.com/otherjamesbrown/sitebook-cli/pkg/contacts"
)

// rawFields accumulates field assignments for one in-progress record
// before kind coercion.
type rawFields struct {
	displayName      string
	organizationName string
	contactName      string
	email            string
	phone            string
	website          string
	address          string
	notes            []string
}

func (f *rawFields) empty() bool {
	return f.displayName == "" && f.organizationName == "" && f.contactName == "" &&
		f.email == "" && f.phone == "" && f.website == "" && f.address == "" &&
		len(f.notes) == 0
}

func (f *rawFields) addNote(line string) {
	f.notes = append(f.notes, line)
}

// parseContext carries all per-call heuristic state for one extraction
// pass. Nothing here survives the call, which is what makes extraction
// idempotent.
type parseContext struct {
	kind    contacts.PersonKind
	current *rawFields
	sealed  []contacts.CandidateRecord

	// justSawName is set when the immediately preceding line was
	// classified as a person name. The very next unmatched line is then
	// read as the organization or title that follows a name.
	justSawName bool
}

func newParseContext(kind contacts.PersonKind) *parseContext {
	return &parseContext{kind: kind, current: &rawFields{}}
}

// nameTaken reports whether the kind's person-name slot is already
// filled on the in-progress record.
func (pc *parseContext) nameTaken() bool {
	if pc.kind.OrganizationPrimary() {
		return pc.current.contactName != ""
	}
	return pc.current.displayName != ""
}

// seal coerces the in-progress record and emits it if it carries an
// identity, then starts a fresh one.
func (pc *parseContext) seal() {
	if !pc.current.empty() {
		if rec, ok := coerce(pc.current, pc.kind); ok {
			pc.sealed = append(pc.sealed, rec)
		}
	}
	pc.current = &rawFields{}
	pc.justSawName = false
}

// lineRule classifies one trimmed, non-empty line. Rules are evaluated
// in table order; the first rule whose apply returns true consumes the
// line. The table makes the precedence order auditable and each rule
// independently testable.
type lineRule struct {
	name  string
	apply func(pc *parseContext, line string) bool
}

var lineRules = []lineRule{
	// An email line is the primary record-boundary signal: pasted
	// multi-contact text typically separates contacts by email, so a
	// second email seals the current record and starts the next.
	{
		name: "email",
		apply: func(pc *parseContext, line string) bool {
			m := contacts.MatchEmail(line)
			if m == "" {
				return false
			}
			if pc.current.email != "" {
				pc.seal()
			}
			pc.current.email = m
			return true
		},
	},
	{
		name: "phone",
		apply: func(pc *parseContext, line string) bool {
			m := contacts.MatchPhone(line)
			if m == "" {
				return false
			}
			if pc.current.phone == "" {
				pc.current.phone = m
			}
			return true
		},
	},
	{
		name: "website",
		apply: func(pc *parseContext, line string) bool {
			if !contacts.MatchWebsite(line) {
				return false
			}
			if pc.current.website == "" {
				pc.current.website = strings.TrimSpace(line)
			}
			return true
		},
	},
	{
		name: "organization_marker",
		apply: func(pc *parseContext, line string) bool {
			if !contacts.HasBusinessMarker(line) {
				return false
			}
			if pc.current.organizationName == "" {
				pc.current.organizationName = line
			} else {
				pc.current.addNote(line)
			}
			return true
		},
	},
	// The line right after a name is taken as the organization or title
	// that follows it in a signature block. Must run ahead of the name
	// rule so a short title line like "Project Manager" lands in the
	// organization slot instead of being read as another name.
	{
		name: "name_followup",
		apply: func(pc *parseContext, line string) bool {
			if !pc.justSawName {
				return false
			}
			if pc.current.organizationName == "" {
				pc.current.organizationName = line
			} else {
				pc.current.addNote(line)
			}
			pc.justSawName = false
			return true
		},
	},
	// A short, digit-free line is read as a person name. For clients and
	// team members that is the record's display name; for vendors and
	// subcontractors the organization is the primary identity, so the
	// person becomes the contact name.
	{
		name: "person_name",
		apply: func(pc *parseContext, line string) bool {
			if !contacts.LooksLikePersonName(line) {
				return false
			}
			// A fresh name after a record that already has its name and an
			// email is the start of the next contact.
			if pc.nameTaken() && pc.current.email != "" {
				pc.seal()
			}
			if pc.kind.OrganizationPrimary() {
				if pc.current.contactName == "" {
					pc.current.contactName = line
				} else {
					pc.current.addNote(line)
				}
			} else {
				if pc.current.displayName == "" {
					pc.current.displayName = line
				} else {
					pc.current.addNote(line)
				}
			}
			pc.justSawName = true
			return true
		},
	},
	// Everything else rolls into the address line, then the notes
	// accumulator.
	{
		name: "address_or_notes",
		apply: func(pc *parseContext, line string) bool {
			if pc.current.address == "" {
				pc.current.address = line
			} else {
				pc.current.addNote(line)
			}
			return true
		},
	},
}

// classifyLine runs the rule table against one line and returns the name
// of the rule that consumed it.
func classifyLine(pc *parseContext, line string) string {
	for _, rule := range lineRules {
		if rule.apply(pc, line) {
			// The followup rule only fires for the line immediately after
			// a name, so every other consumer clears the flag.
			if rule.name != "person_name" {
				pc.justSawName = false
			}
			return rule.name
		}
	}
	return ""
}
