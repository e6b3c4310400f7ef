package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/otherjamesbrown/sitebook-cli/config"
	"github.com/otherjamesbrown/sitebook-cli/credentials"
	"github.com/otherjamesbrown/sitebook-cli/pkg/db"
	"github.com/otherjamesbrown/sitebook-cli/pkg/logging"
	"github.com/otherjamesbrown/sitebook-cli/pkg/store"
)

// DBCommandDeps holds the dependencies for db commands.
type DBCommandDeps struct {
	LoadConfig func() (*config.CLIConfig, error)

	// EnsureSchema overrides schema bootstrap for testing.
	EnsureSchema func(ctx context.Context, cfg *config.CLIConfig) error
	// SetPassword and DeletePassword override keyring access for testing.
	SetPassword    func(password string) error
	DeletePassword func() error
	// ReadPassword overrides the terminal prompt for testing.
	ReadPassword func() (string, error)
}

// DefaultDBDeps returns the default dependencies for production use.
func DefaultDBDeps() *DBCommandDeps {
	return &DBCommandDeps{
		LoadConfig:     config.LoadConfig,
		EnsureSchema:   ensureSchemaOnDB,
		SetPassword:    credentials.SetDatabasePassword,
		DeletePassword: credentials.DeleteDatabasePassword,
		ReadPassword:   promptPassword,
	}
}

func ensureSchemaOnDB(ctx context.Context, cfg *config.CLIConfig) error {
	logger := logging.MustGlobal()
	_, pool, err := connectContactStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close(pool)

	return store.EnsureSchema(ctx, pool)
}

// promptPassword reads a password from the terminal without echo.
func promptPassword() (string, error) {
	fmt.Print("Database password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(password), nil
}

// NewDBCommand creates the root db command with all subcommands.
func NewDBCommand(deps *DBCommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultDBDeps()
	}

	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the contact database",
	}

	cmd.AddCommand(newDBInitCommand(deps))
	cmd.AddCommand(newDBPasswordCommand(deps))

	return cmd
}

func newDBInitCommand(deps *DBCommandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the contact tables if they do not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := deps.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			if err := deps.EnsureSchema(cmd.Context(), cfg); err != nil {
				return err
			}
			fmt.Println("Database schema is up to date.")
			return nil
		},
	}
}

func newDBPasswordCommand(deps *DBCommandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Manage the stored database password",
		Long: `Manage the database password stored in the system keyring.

The password is read from the keyring on every command that touches the
database. SITEBOOK_DB_PASSWORD overrides the keyring for CI and
scripts.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set",
		Short: "Prompt for and store the database password",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := deps.ReadPassword()
			if err != nil {
				return err
			}
			if err := deps.SetPassword(password); err != nil {
				return err
			}
			fmt.Println("Database password stored in keyring.")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the stored database password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.DeletePassword(); err != nil {
				return err
			}
			fmt.Println("Database password removed from keyring.")
			return nil
		},
	})

	return cmd
}
