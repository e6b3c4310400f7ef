// Package store persists reconciled contacts in PostgreSQL. Each person
// kind lives in its own table with the kind's extra columns; the store
// maps rows to and from the shared candidate record shape.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/otherjamesbrown/sitebook-cli/pkg/contacts"
	sberrors "github.com/otherjamesbrown/sitebook-cli/pkg/errors"
	"github.com/otherjamesbrown/sitebook-cli/pkg/logging"
)

// ContactStore provides database operations for contact records.
type ContactStore struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewContactStore creates a new contact store.
func NewContactStore(pool *pgxpool.Pool, logger logging.Logger) *ContactStore {
	return &ContactStore{
		pool:   pool,
		logger: logger.With(logging.F("component", "contact_store")),
	}
}

// tableFor maps a person kind to its table. Kinds are validated before
// reaching the store, so an unknown kind here is a programming error.
func tableFor(kind contacts.PersonKind) (string, error) {
	switch kind {
	case contacts.KindClient:
		return "clients", nil
	case contacts.KindVendor:
		return "vendors", nil
	case contacts.KindSubcontractor:
		return "subcontractors", nil
	case contacts.KindTeam:
		return "team_members", nil
	}
	return "", fmt.Errorf("no table for kind %q: %w", kind, sberrors.ErrValidation)
}

// kindColumns returns the two kind-specific column names for a table.
// Clients have no extra columns.
func kindColumns(kind contacts.PersonKind) []string {
	switch kind {
	case contacts.KindVendor:
		return []string{"contact_name", "category"}
	case contacts.KindSubcontractor:
		return []string{"contact_name", "trade"}
	case contacts.KindTeam:
		return []string{"role", "department"}
	}
	return nil
}

// kindValues returns the record's values for kindColumns, in order.
func kindValues(rec *contacts.CandidateRecord) []interface{} {
	switch {
	case rec.Vendor != nil:
		return []interface{}{nullIfEmpty(rec.Vendor.ContactName), nullIfEmpty(rec.Vendor.Category)}
	case rec.Subcontractor != nil:
		return []interface{}{nullIfEmpty(rec.Subcontractor.ContactName), nullIfEmpty(rec.Subcontractor.Trade)}
	case rec.Team != nil:
		return []interface{}{nullIfEmpty(rec.Team.Role), nullIfEmpty(rec.Team.Department)}
	}
	return nil
}

// ListExisting retrieves all of an organization's contacts of one kind,
// oldest first. The returned order is what the matcher scans, so it is
// stable across calls.
func (s *ContactStore) ListExisting(ctx context.Context, orgID string, kind contacts.PersonKind) ([]contacts.ExistingRecord, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	cols := "id, display_name, organization_name, email, phone, website, address, notes"
	for _, c := range kindColumns(kind) {
		cols += ", " + c
	}
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE org_id = $1 ORDER BY created_at, id",
		cols, table,
	)

	rows, err := s.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	defer rows.Close()

	records := make([]contacts.ExistingRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows, kind)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s rows: %w", table, err)
	}

	return records, nil
}

// GetContact retrieves one contact by ID.
func (s *ContactStore) GetContact(ctx context.Context, orgID string, kind contacts.PersonKind, id string) (*contacts.ExistingRecord, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	cols := "id, display_name, organization_name, email, phone, website, address, notes"
	for _, c := range kindColumns(kind) {
		cols += ", " + c
	}
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE org_id = $1 AND id = $2",
		cols, table,
	)

	rows, err := s.pool.Query(ctx, query, orgID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to get contact: %w", err)
		}
		return nil, fmt.Errorf("contact %s: %w", id, sberrors.ErrNotFound)
	}
	rec, err := scanRecord(rows, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to scan contact: %w", err)
	}
	return &rec, nil
}

// CreateContact inserts a new contact and returns its generated ID.
func (s *ContactStore) CreateContact(ctx context.Context, orgID string, rec *contacts.CandidateRecord) (string, error) {
	if !rec.HasIdentity() {
		return "", fmt.Errorf("contact has no display or organization name: %w", sberrors.ErrValidation)
	}
	table, err := tableFor(rec.Kind)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	cols := []string{"id", "org_id", "display_name", "organization_name", "email", "phone", "website", "address", "notes"}
	args := []interface{}{
		id, orgID,
		rec.DisplayName,
		nullIfEmpty(rec.OrganizationName),
		nullIfEmpty(rec.Email),
		nullIfEmpty(rec.Phone),
		nullIfEmpty(rec.Website),
		nullIfEmpty(rec.Address),
		nullIfEmpty(rec.Notes),
	}
	cols = append(cols, kindColumns(rec.Kind)...)
	args = append(args, kindValues(rec)...)

	placeholders := ""
	for i := range args {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (%s, created_at, updated_at) VALUES (%s, NOW(), NOW())",
		table, joinColumns(cols), placeholders,
	)

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return "", fmt.Errorf("failed to create contact: %w", err)
	}

	s.logger.Debug("Contact created",
		logging.F("id", id),
		logging.F("kind", string(rec.Kind)),
		logging.F("display_name", rec.DisplayName))

	return id, nil
}

// MergeContact folds a candidate into an existing contact: candidate
// fields fill the target's empty slots, and fields the target already
// has are left untouched. Returns the merged record.
func (s *ContactStore) MergeContact(ctx context.Context, orgID string, targetID string, rec *contacts.CandidateRecord) (*contacts.ExistingRecord, error) {
	target, err := s.GetContact(ctx, orgID, rec.Kind, targetID)
	if err != nil {
		return nil, err
	}

	merged := MergeFields(target, rec)

	table, err := tableFor(rec.Kind)
	if err != nil {
		return nil, err
	}

	sets := []string{
		"organization_name = $3", "email = $4", "phone = $5",
		"website = $6", "address = $7", "notes = $8",
	}
	args := []interface{}{
		orgID, targetID,
		nullIfEmpty(merged.OrganizationName),
		nullIfEmpty(merged.Email),
		nullIfEmpty(merged.Phone),
		nullIfEmpty(merged.Website),
		nullIfEmpty(merged.Address),
		nullIfEmpty(merged.Notes),
	}
	vals := kindValues(&merged.CandidateRecord)
	for i, c := range kindColumns(rec.Kind) {
		sets = append(sets, fmt.Sprintf("%s = $%d", c, len(args)+1))
		args = append(args, vals[i])
	}

	query := fmt.Sprintf(
		"UPDATE %s SET %s, updated_at = NOW() WHERE org_id = $1 AND id = $2",
		table, joinColumns(sets),
	)

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to merge contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("contact %s: %w", targetID, sberrors.ErrNotFound)
	}

	s.logger.Debug("Contact merged",
		logging.F("id", targetID),
		logging.F("kind", string(rec.Kind)))

	return merged, nil
}

// DeleteContact removes a contact by ID.
func (s *ContactStore) DeleteContact(ctx context.Context, orgID string, kind contacts.PersonKind, id string) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE org_id = $1 AND id = $2", table),
		orgID, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("contact %s: %w", id, sberrors.ErrNotFound)
	}
	return nil
}

// MergeFields combines a target contact with a candidate without
// touching the database: empty target fields take the candidate's
// value, filled ones win. Pure so merge behavior is testable on its
// own.
func MergeFields(target *contacts.ExistingRecord, rec *contacts.CandidateRecord) *contacts.ExistingRecord {
	merged := *target

	fill := func(dst *string, src string) {
		if *dst == "" && src != "" {
			*dst = src
		}
	}

	fill(&merged.OrganizationName, rec.OrganizationName)
	fill(&merged.Email, rec.Email)
	fill(&merged.Phone, rec.Phone)
	fill(&merged.Website, rec.Website)
	fill(&merged.Address, rec.Address)
	fill(&merged.Notes, rec.Notes)

	switch {
	case merged.Vendor != nil && rec.Vendor != nil:
		v := *merged.Vendor
		fill(&v.ContactName, rec.Vendor.ContactName)
		fill(&v.Category, rec.Vendor.Category)
		merged.Vendor = &v
	case merged.Subcontractor != nil && rec.Subcontractor != nil:
		sub := *merged.Subcontractor
		fill(&sub.ContactName, rec.Subcontractor.ContactName)
		fill(&sub.Trade, rec.Subcontractor.Trade)
		merged.Subcontractor = &sub
	case merged.Team != nil && rec.Team != nil:
		t := *merged.Team
		fill(&t.Role, rec.Team.Role)
		fill(&t.Department, rec.Team.Department)
		merged.Team = &t
	}

	return &merged
}

// scanRecord reads one row into an existing record. Kind-specific
// columns come after the shared ones, in kindColumns order.
func scanRecord(rows pgx.Rows, kind contacts.PersonKind) (contacts.ExistingRecord, error) {
	var (
		rec          contacts.ExistingRecord
		orgName      *string
		email        *string
		phone        *string
		website      *string
		address      *string
		notes        *string
		kindA, kindB *string
	)

	rec.Kind = kind
	dest := []interface{}{
		&rec.ID, &rec.DisplayName, &orgName, &email, &phone, &website, &address, &notes,
	}
	if kindColumns(kind) != nil {
		dest = append(dest, &kindA, &kindB)
	}

	if err := rows.Scan(dest...); err != nil {
		return contacts.ExistingRecord{}, err
	}

	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	rec.OrganizationName = deref(orgName)
	rec.Email = deref(email)
	rec.Phone = deref(phone)
	rec.Website = deref(website)
	rec.Address = deref(address)
	rec.Notes = deref(notes)

	switch kind {
	case contacts.KindVendor:
		rec.Vendor = &contacts.VendorFields{ContactName: deref(kindA), Category: deref(kindB)}
	case contacts.KindSubcontractor:
		rec.Subcontractor = &contacts.SubcontractorFields{ContactName: deref(kindA), Trade: deref(kindB)}
	case contacts.KindTeam:
		rec.Team = &contacts.TeamFields{Role: deref(kindA), Department: deref(kindB)}
	}

	return rec, nil
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
