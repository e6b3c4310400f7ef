package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/sitebook-cli/config"
	"github.com/otherjamesbrown/sitebook-cli/pkg/contacts"
	"github.com/otherjamesbrown/sitebook-cli/pkg/contacts/extract"
	"github.com/otherjamesbrown/sitebook-cli/pkg/contacts/match"
	"github.com/otherjamesbrown/sitebook-cli/pkg/contacts/observability"
	"github.com/otherjamesbrown/sitebook-cli/pkg/db"
	"github.com/otherjamesbrown/sitebook-cli/pkg/logging"
)

// Dedupe command flags
var (
	dedupeKind     string
	dedupeSource   string
	dedupeOutput   string
	dedupeExisting string
	dedupeFromDB   bool
)

// DedupeCommandDeps holds the dependencies for the dedupe command.
type DedupeCommandDeps struct {
	LoadConfig func() (*config.CLIConfig, error)
	Engine     *extract.Engine
	Matcher    *match.Matcher
	Metrics    *observability.Metrics

	// ReadInput overrides input reading for testing.
	ReadInput func(path string) (string, error)
	// ListExisting overrides database access for testing.
	ListExisting func(ctx context.Context, cfg *config.CLIConfig, kind contacts.PersonKind) ([]contacts.ExistingRecord, error)
}

// DefaultDedupeDeps returns the default dependencies for production use.
func DefaultDedupeDeps() *DedupeCommandDeps {
	return &DedupeCommandDeps{
		LoadConfig:   config.LoadConfig,
		ReadInput:    readInput,
		ListExisting: listExistingFromDB,
	}
}

// listExistingFromDB loads the organization's contacts from PostgreSQL.
func listExistingFromDB(ctx context.Context, cfg *config.CLIConfig, kind contacts.PersonKind) ([]contacts.ExistingRecord, error) {
	logger := logging.MustGlobal()
	contactStore, pool, err := connectContactStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer db.Close(pool)

	return contactStore.ListExisting(ctx, cfg.OrgID, kind)
}

// NewDedupeCommand creates the dedupe command.
func NewDedupeCommand(deps *DedupeCommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultDedupeDeps()
	}

	cmd := &cobra.Command{
		Use:   "dedupe [file]",
		Short: "Extract records and flag likely duplicates",
		Long: `Extract candidate records from text and compare them against existing
contacts, without importing anything.

Each candidate is checked against existing contacts in order: exact email
match, normalized phone match, name plus company, then name alone. The
first match found for a candidate wins, and only matches with confidence
above 0.5 are surfaced. The result is a partition: records safe to
import as new, and records that need a decision.

Existing contacts come from the database (--from-db, the default when
connected) or from a JSON file given with --existing.`,
		Example: `  # Compare pasted vendors against the database
  pbpaste | sitebook dedupe --kind vendor --from-db

  # Compare against a JSON snapshot instead
  sitebook dedupe new.txt --kind client --existing contacts.json

  # Machine-readable partition
  sitebook dedupe new.txt --kind client --from-db --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runDedupe(cmd.Context(), deps, path)
		},
	}

	cmd.Flags().StringVarP(&dedupeKind, "kind", "k", "client", "Contact kind: client, vendor, subcontractor, team")
	cmd.Flags().StringVarP(&dedupeSource, "source", "s", "paste", "Input source: paste, ocr, email-body, calendar-text, json-array")
	cmd.Flags().StringVarP(&dedupeOutput, "output", "o", "", "Output format: text, json, yaml")
	cmd.Flags().StringVar(&dedupeExisting, "existing", "", "JSON file with existing records to compare against")
	cmd.Flags().BoolVar(&dedupeFromDB, "from-db", false, "Compare against contacts stored in the database")

	return cmd
}

func runDedupe(ctx context.Context, deps *DedupeCommandDeps, path string) error {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	format := resolveOutputFormat(cfg, dedupeOutput)

	kind, err := contacts.ParsePersonKind(dedupeKind)
	if err != nil {
		return err
	}
	source, err := extract.ParseSourceKind(dedupeSource)
	if err != nil {
		return err
	}

	text, err := deps.ReadInput(path)
	if err != nil {
		return err
	}

	existing, err := loadExisting(ctx, deps, cfg, kind)
	if err != nil {
		return err
	}

	engine := deps.Engine
	if engine == nil {
		engine = extract.New()
	}
	matcher := deps.Matcher
	if matcher == nil {
		matcher = match.New()
	}

	start := time.Now()
	records, err := engine.Extract(extract.RawInput{Text: text, Source: source}, kind)
	if err != nil {
		return err
	}

	proposals := matcher.FindMatches(records, existing)
	partition := matcher.Partition(records, proposals)

	if deps.Metrics != nil {
		deps.Metrics.RecordExtraction(string(kind), string(source), len(records), time.Since(start).Seconds())
		for _, p := range proposals {
			deps.Metrics.RecordProposal(string(kind), string(p.Reason), p.Confidence)
		}
		deps.Metrics.RecordPartition(string(kind), len(partition.Unique))
	}

	return outputDedupeResult(format, kind, partition)
}

// loadExisting resolves the comparison set: --existing file, or the
// database when --from-db is set. With neither, candidates are compared
// against nothing and all come back unique.
func loadExisting(ctx context.Context, deps *DedupeCommandDeps, cfg *config.CLIConfig, kind contacts.PersonKind) ([]contacts.ExistingRecord, error) {
	if dedupeExisting != "" {
		data, err := os.ReadFile(dedupeExisting)
		if err != nil {
			return nil, fmt.Errorf("reading existing records file: %w", err)
		}
		var existing []contacts.ExistingRecord
		if err := json.Unmarshal(data, &existing); err != nil {
			return nil, fmt.Errorf("parsing existing records file: %w", err)
		}
		return existing, nil
	}

	if dedupeFromDB {
		return deps.ListExisting(ctx, cfg, kind)
	}

	return nil, nil
}

func outputDedupeResult(format config.OutputFormat, kind contacts.PersonKind, p contacts.Partition) error {
	return outputAs(format, map[string]interface{}{
		"kind":     kind,
		"unique":   p.Unique,
		"disputed": p.Disputed,
	}, func() error {
		fmt.Printf("Unique records (%d):\n\n", len(p.Unique))
		for i := range p.Unique {
			describeRecord(os.Stdout, &p.Unique[i])
			fmt.Println()
		}

		fmt.Printf("Possible duplicates (%d):\n\n", len(p.Disputed))
		for i := range p.Disputed {
			describeProposal(os.Stdout, i, &p.Disputed[i])
			fmt.Println()
		}
		return nil
	})
}
