// Package extract turns unstructured text blobs into typed candidate
// contact records using line classification heuristics and field
// detectors. Extraction is a pure transformation: no state survives a
// call, and malformed text degrades to fewer records, never an error.
package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/otherjamesbrown/sitebook-cli/pkg/contacts"
	sberrors "github.com/otherjamesbrown/sitebook-cli/pkg/errors"
	"github.com/otherjamesbrown/sitebook-cli/pkg/logging"
)

// SourceKind tags where a raw input blob came from. It is informational
// for logging and metrics; all sources run the same pipeline.
type SourceKind string

const (
	SourcePaste        SourceKind = "paste"
	SourceOCR          SourceKind = "ocr"
	SourceEmailBody    SourceKind = "email-body"
	SourceCalendarText SourceKind = "calendar-text"
	SourceJSONArray    SourceKind = "json-array"
)

// Valid reports whether s is a known source kind.
func (s SourceKind) Valid() bool {
	switch s {
	case SourcePaste, SourceOCR, SourceEmailBody, SourceCalendarText, SourceJSONArray:
		return true
	}
	return false
}

// ParseSourceKind converts a string into a SourceKind.
func ParseSourceKind(s string) (SourceKind, error) {
	k := SourceKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown source kind %q: %w", s, sberrors.ErrValidation)
	}
	return k, nil
}

// RawInput is one opaque text blob plus its source tag. Produced by an
// upstream collaborator (paste capture, OCR result, email or calendar
// connector) and consumed once.
type RawInput struct {
	Text   string     `json:"text"`
	Source SourceKind `json:"source"`
}

// Engine extracts candidate records from raw inputs.
type Engine struct {
	logger logging.Logger
}

// Option configures the engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates a new extraction engine.
func New(opts ...Option) *Engine {
	e := &Engine{logger: logging.MustGlobal()}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(logging.F("component", "extraction_engine"))
	return e
}

// Extract turns a raw input into zero or more candidate records of the
// given kind. The only raised errors are structural: an unknown source
// tag or person kind. Everything else degrades to a best-effort partial
// result, possibly empty.
func (e *Engine) Extract(input RawInput, kind contacts.PersonKind) ([]contacts.CandidateRecord, error) {
	if !input.Source.Valid() {
		return nil, fmt.Errorf("extract: unknown source kind %q: %w", input.Source, sberrors.ErrValidation)
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("extract: unknown person kind %q: %w", kind, sberrors.ErrValidation)
	}

	if strings.TrimSpace(input.Text) == "" {
		return []contacts.CandidateRecord{}, nil
	}

	// Structured fast path: producers that already emit rows skip the
	// heuristics entirely.
	if records, ok := extractStructured(input.Text, kind); ok {
		e.logger.Debug("structured extraction",
			logging.F("source", string(input.Source)),
			logging.F("records", len(records)))
		return records, nil
	}

	records := extractLines(input.Text, kind)
	if len(records) == 0 {
		records = extractFallback(input.Text, kind)
	}

	e.logger.Debug("heuristic extraction",
		logging.F("source", string(input.Source)),
		logging.F("kind", string(kind)),
		logging.F("records", len(records)))

	return records, nil
}

// Expected keys of a structured row. Matched case-sensitively; unknown
// keys are ignored.
const (
	keyDisplayName      = "displayName"
	keyOrganizationName = "organizationName"
	keyEmail            = "email"
	keyPhone            = "phone"
	keyWebsite          = "website"
	keyAddress          = "address"
	keyNotes            = "notes"
	keyContactName      = "contactName"
	keyCategory         = "category"
	keyTrade            = "trade"
	keyRole             = "role"
	keyDepartment       = "department"
)

// extractStructured maps a JSON array input directly into records,
// bypassing the line heuristics. Returns false when the input is not a
// JSON array, sending it down the heuristic path instead.
func extractStructured(text string, kind contacts.PersonKind) ([]contacts.CandidateRecord, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "[") {
		return nil, false
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal([]byte(trimmed), &rows); err != nil {
		return nil, false
	}

	records := make([]contacts.CandidateRecord, 0, len(rows))
	for _, row := range rows {
		f := &rawFields{
			displayName:      stringKey(row, keyDisplayName),
			organizationName: stringKey(row, keyOrganizationName),
			contactName:      stringKey(row, keyContactName),
			email:            stringKey(row, keyEmail),
			phone:            stringKey(row, keyPhone),
			website:          stringKey(row, keyWebsite),
			address:          stringKey(row, keyAddress),
		}
		if notes := stringKey(row, keyNotes); notes != "" {
			f.addNote(notes)
		}
		rec, ok := coerce(f, kind)
		if !ok {
			continue
		}
		applyStructuredKindFields(&rec, row)
		records = append(records, rec)
	}
	return records, true
}

// applyStructuredKindFields overlays kind-specific values supplied
// directly by a structured row on top of the coercion defaults.
func applyStructuredKindFields(rec *contacts.CandidateRecord, row map[string]interface{}) {
	switch {
	case rec.Vendor != nil:
		if v := stringKey(row, keyCategory); v != "" {
			rec.Vendor.Category = v
		}
	case rec.Subcontractor != nil:
		if v := stringKey(row, keyTrade); v != "" {
			rec.Subcontractor.Trade = v
		}
	case rec.Team != nil:
		if v := stringKey(row, keyRole); v != "" {
			rec.Team.Role = v
		}
		if v := stringKey(row, keyDepartment); v != "" {
			rec.Team.Department = v
		}
	}
}

func stringKey(row map[string]interface{}, key string) string {
	if v, ok := row[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// extractLines runs the ordered rule table over non-empty trimmed lines,
// sealing records at email boundaries and at end of input.
func extractLines(text string, kind contacts.PersonKind) []contacts.CandidateRecord {
	pc := newParseContext(kind)
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		classifyLine(pc, line)
	}
	pc.seal()

	if pc.sealed == nil {
		return []contacts.CandidateRecord{}
	}
	return pc.sealed
}

// extractFallback re-scans the whole blob once when the line pass found
// nothing: field detectors run over the full text, and the first
// identity-bearing line becomes the record's name or organization. A
// short unstructured snippet with any identity text still yields exactly
// one candidate.
func extractFallback(text string, kind contacts.PersonKind) []contacts.CandidateRecord {
	f := &rawFields{
		email: contacts.MatchEmail(text),
		phone: contacts.MatchPhone(text),
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if f.website == "" && contacts.MatchWebsite(line) {
			f.website = line
			continue
		}
		if contacts.MatchEmail(line) != "" || contacts.MatchPhone(line) != "" {
			continue
		}
		if contacts.HasBusinessMarker(line) {
			if f.organizationName == "" {
				f.organizationName = line
			}
			continue
		}
		if contacts.LooksLikePersonName(line) {
			if kind.OrganizationPrimary() {
				if f.contactName == "" {
					f.contactName = line
				}
			} else if f.displayName == "" {
				f.displayName = line
			}
		}
	}

	rec, ok := coerce(f, kind)
	if !ok {
		return []contacts.CandidateRecord{}
	}
	return []contacts.CandidateRecord{rec}
}
