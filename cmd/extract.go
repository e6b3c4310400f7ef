package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/sitebook-cli/config"
	"github.com/otherjamesbrown/sitebook-cli/pkg/contacts"
	"github.com/otherjamesbrown/sitebook-cli/pkg/contacts/extract"
	"github.com/otherjamesbrown/sitebook-cli/pkg/contacts/observability"
)

// Extract command flags
var (
	extractKind   string
	extractSource string
	extractOutput string
)

// ExtractCommandDeps holds the dependencies for the extract command.
type ExtractCommandDeps struct {
	LoadConfig func() (*config.CLIConfig, error)
	Engine     *extract.Engine
	Metrics    *observability.Metrics

	// ReadInput overrides input reading for testing.
	ReadInput func(path string) (string, error)
}

// DefaultExtractDeps returns the default dependencies for production use.
func DefaultExtractDeps() *ExtractCommandDeps {
	return &ExtractCommandDeps{
		LoadConfig: config.LoadConfig,
		ReadInput:  readInput,
	}
}

// NewExtractCommand creates the extract command.
func NewExtractCommand(deps *ExtractCommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultExtractDeps()
	}

	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract contact records from free-form text",
		Long: `Extract candidate contact records from an unstructured text blob.

The input can be pasted text, OCR output from a photographed business
card, an email body, or calendar invite text. Lines are classified with
field detectors (email, phone, website, business-name markers, person
names) and grouped into records; a JSON array input bypasses the
heuristics and maps fields directly.

Reads from the named file, or stdin when no file is given.`,
		Example: `  # Extract vendors from a pasted supplier list
  pbpaste | sitebook extract --kind vendor

  # Extract subcontractors from an OCR'd business card
  sitebook extract card.txt --kind subcontractor --source ocr

  # Machine-readable output
  sitebook extract contacts.txt --kind client --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runExtract(deps, path)
		},
	}

	cmd.Flags().StringVarP(&extractKind, "kind", "k", "client", "Contact kind: client, vendor, subcontractor, team")
	cmd.Flags().StringVarP(&extractSource, "source", "s", "paste", "Input source: paste, ocr, email-body, calendar-text, json-array")
	cmd.Flags().StringVarP(&extractOutput, "output", "o", "", "Output format: text, json, yaml")

	return cmd
}

func runExtract(deps *ExtractCommandDeps, path string) error {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	format := resolveOutputFormat(cfg, extractOutput)

	kind, err := contacts.ParsePersonKind(extractKind)
	if err != nil {
		return err
	}
	source, err := extract.ParseSourceKind(extractSource)
	if err != nil {
		return err
	}

	text, err := deps.ReadInput(path)
	if err != nil {
		return err
	}

	engine := deps.Engine
	if engine == nil {
		engine = extract.New()
	}

	start := time.Now()
	records, err := engine.Extract(extract.RawInput{Text: text, Source: source}, kind)
	if err != nil {
		return err
	}

	if deps.Metrics != nil {
		deps.Metrics.RecordExtraction(string(kind), string(source), len(records), time.Since(start).Seconds())
	}

	return outputAs(format, map[string]interface{}{
		"kind":    kind,
		"count":   len(records),
		"records": records,
	}, func() error {
		fmt.Printf("Extracted %d %s record(s):\n\n", len(records), kind)
		for i := range records {
			describeRecord(os.Stdout, &records[i])
			fmt.Println()
		}
		return nil
	})
}
