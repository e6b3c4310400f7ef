package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otherjamesbrown/sitebook-cli/config"
	"github.com/otherjamesbrown/sitebook-cli/pkg/contacts"
)

func TestResolveOutputFormat(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutputFormat = config.OutputFormatYAML

	assert.Equal(t, config.OutputFormatYAML, resolveOutputFormat(cfg, ""))
	assert.Equal(t, config.OutputFormatJSON, resolveOutputFormat(cfg, "json"))
}

func TestReadInputFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.txt")
	require.NoError(t, os.WriteFile(path, []byte("Mike Rodriguez\n"), 0600))

	text, err := readInput(path)
	require.NoError(t, err)
	assert.Equal(t, "Mike Rodriguez\n", text)

	_, err = readInput(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestDescribeRecord(t *testing.T) {
	var buf bytes.Buffer
	rec := contacts.CandidateRecord{
		Kind:             contacts.KindVendor,
		DisplayName:      "ACME Lumber Supply",
		OrganizationName: "ACME Lumber Supply",
		Email:            "sales@acmelumber.com",
		Vendor:           &contacts.VendorFields{ContactName: "Mike Rodriguez", Category: "Lumber"},
	}

	describeRecord(&buf, &rec)
	out := buf.String()

	assert.Contains(t, out, "ACME Lumber Supply")
	assert.Contains(t, out, "sales@acmelumber.com")
	assert.Contains(t, out, "Mike Rodriguez")
	assert.Contains(t, out, "Lumber")
	// The organization line is elided when it just repeats the display name.
	assert.NotContains(t, out, "organization:")
}

func TestDescribeProposal(t *testing.T) {
	var buf bytes.Buffer
	p := contacts.MatchProposal{
		NewIndex:   0,
		New:        contacts.CandidateRecord{DisplayName: "Mike Rodriguez", Email: "mike@rp.com"},
		Existing:   contacts.ExistingRecord{ID: "e1", CandidateRecord: contacts.CandidateRecord{DisplayName: "Mike R."}},
		Reason:     contacts.MatchReasonEmail,
		Confidence: 0.95,
	}

	describeProposal(&buf, 3, &p)
	out := buf.String()

	assert.Contains(t, out, "[3]")
	assert.Contains(t, out, "Mike Rodriguez")
	assert.Contains(t, out, "e1")
	assert.Contains(t, out, "0.95")
	assert.Contains(t, out, "email mike@rp.com")
}
