package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/sitebook-cli/config"
	"github.com/otherjamesbrown/sitebook-cli/pkg/contacts"
	"github.com/otherjamesbrown/sitebook-cli/pkg/db"
	"github.com/otherjamesbrown/sitebook-cli/pkg/logging"
)

// Contacts command flags
var (
	contactsKind   string
	contactsOutput string
)

// ContactsCommandDeps holds the dependencies for contacts commands.
type ContactsCommandDeps struct {
	LoadConfig func() (*config.CLIConfig, error)

	// ListExisting overrides database reads for testing.
	ListExisting func(ctx context.Context, cfg *config.CLIConfig, kind contacts.PersonKind) ([]contacts.ExistingRecord, error)
	// DeleteContact overrides database deletes for testing.
	DeleteContact func(ctx context.Context, cfg *config.CLIConfig, kind contacts.PersonKind, id string) error
}

// DefaultContactsDeps returns the default dependencies for production use.
func DefaultContactsDeps() *ContactsCommandDeps {
	return &ContactsCommandDeps{
		LoadConfig:    config.LoadConfig,
		ListExisting:  listExistingFromDB,
		DeleteContact: deleteContactFromDB,
	}
}

func deleteContactFromDB(ctx context.Context, cfg *config.CLIConfig, kind contacts.PersonKind, id string) error {
	logger := logging.MustGlobal()
	contactStore, pool, err := connectContactStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close(pool)

	return contactStore.DeleteContact(ctx, cfg.OrgID, kind, id)
}

// NewContactsCommand creates the root contacts command with all
// subcommands.
func NewContactsCommand(deps *ContactsCommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultContactsDeps()
	}

	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Browse and manage stored contacts",
	}

	cmd.AddCommand(newContactsListCommand(deps))
	cmd.AddCommand(newContactsDeleteCommand(deps))

	return cmd
}

func newContactsListCommand(deps *ContactsCommandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored contacts of one kind",
		Example: `  # List all vendors
  sitebook contacts list --kind vendor

  # Machine-readable output
  sitebook contacts list --kind client --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContactsList(cmd.Context(), deps)
		},
	}

	cmd.Flags().StringVarP(&contactsKind, "kind", "k", "client", "Contact kind: client, vendor, subcontractor, team")
	cmd.Flags().StringVarP(&contactsOutput, "output", "o", "", "Output format: text, json, yaml")

	return cmd
}

func newContactsDeleteCommand(deps *ContactsCommandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored contact by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContactsDelete(cmd.Context(), deps, args[0])
		},
	}

	cmd.Flags().StringVarP(&contactsKind, "kind", "k", "client", "Contact kind: client, vendor, subcontractor, team")

	return cmd
}

func runContactsList(ctx context.Context, deps *ContactsCommandDeps) error {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	format := resolveOutputFormat(cfg, contactsOutput)

	kind, err := contacts.ParsePersonKind(contactsKind)
	if err != nil {
		return err
	}

	records, err := deps.ListExisting(ctx, cfg, kind)
	if err != nil {
		return err
	}

	return outputAs(format, map[string]interface{}{
		"kind":     kind,
		"count":    len(records),
		"contacts": records,
	}, func() error {
		fmt.Printf("%d %s contact(s):\n\n", len(records), kind)
		for i := range records {
			fmt.Printf("  id: %s\n", records[i].ID)
			describeRecord(os.Stdout, &records[i].CandidateRecord)
			fmt.Println()
		}
		return nil
	})
}

func runContactsDelete(ctx context.Context, deps *ContactsCommandDeps, id string) error {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	kind, err := contacts.ParsePersonKind(contactsKind)
	if err != nil {
		return err
	}

	if err := deps.DeleteContact(ctx, cfg, kind, id); err != nil {
		return err
	}

	fmt.Printf("Deleted %s contact %s.\n", kind, id)
	return nil
}
