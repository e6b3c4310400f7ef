// Package main provides the sitebook CLI entry point.
// sitebook is the command-line interface for the SiteBook construction
// business contact book.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/sitebook-cli/cmd"
	"github.com/otherjamesbrown/sitebook-cli/config"
	"github.com/otherjamesbrown/sitebook-cli/pkg/buildinfo"
	"github.com/otherjamesbrown/sitebook-cli/pkg/logging"
)

// Global flags and state.
var (
	orgID        string
	timeout      time.Duration
	outputFormat string
	debug        bool

	// cfg holds the loaded configuration.
	cfg *config.CLIConfig
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sitebook",
	Short: "SiteBook CLI - contact book for construction businesses",
	Long: `sitebook manages the people around a construction business: clients,
vendors, subcontractors, and team members.

Contacts rarely arrive as clean forms. sitebook extracts them from
whatever text is at hand (pasted supplier lists, photographed business
cards, email signatures, calendar invites), flags likely duplicates
against the existing contact book, and imports the result after a quick
review.

COMMON WORKFLOWS:
  Quick look:    pbpaste | sitebook extract --kind vendor
  Check overlap: sitebook dedupe new.txt --kind client --from-db
  Full import:   sitebook import start new.txt --kind subcontractor
                 sitebook import review <session-id>
                 sitebook import commit <session-id>
  Browse:        sitebook contacts list --kind vendor

DISCOVERY:
  sitebook <command> --help   Subcommands, flags, and examples`,
	PersistentPreRunE: func(c *cobra.Command, args []string) error {
		// Skip initialization for commands that don't need it.
		if c.Name() == "version" || c.Name() == "help" || c.Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}

		// Override with command-line flags.
		if orgID != "" {
			cfg.OrgID = orgID
		}
		if timeout != 0 {
			cfg.Timeout = timeout
		}
		if outputFormat != "" {
			cfg.OutputFormat = config.OutputFormat(outputFormat)
		}
		if debug {
			cfg.Debug = true
		}

		logCfg := logging.DefaultConfig()
		if cfg.Debug {
			logCfg.Level = logging.LevelDebug
		}
		logging.SetGlobal(logging.NewLogger(logCfg))

		return nil
	},
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(c *cobra.Command, args []string) error {
		info := buildinfo.Get("sitebook-cli")
		out := c.OutOrStdout()
		fmt.Fprintf(out, "sitebook version %s\n", info.Version)
		fmt.Fprintf(out, "  commit:     %s\n", info.Commit)
		fmt.Fprintf(out, "  built:      %s\n", info.BuildTime)
		return nil
	},
}

// configCmd manages CLI configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long:  `View and modify the sitebook CLI configuration settings.`,
}

// configShowCmd displays current configuration.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(c *cobra.Command, args []string) error {
		if cfg == nil {
			var err error
			cfg, err = config.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
		}

		configPath, _ := config.ConfigPath()

		fmt.Println("Current configuration:")
		fmt.Printf("  Config file:    %s\n", configPath)
		fmt.Printf("  Organization:   %s\n", cfg.OrgID)
		fmt.Printf("  Timeout:        %s\n", cfg.Timeout)
		fmt.Printf("  Output format:  %s\n", cfg.OutputFormat)
		fmt.Printf("  Session TTL:    %s\n", cfg.SessionTTL)
		fmt.Printf("  Debug:          %t\n", cfg.Debug)
		if cfg.Database != nil {
			fmt.Printf("  Database:       %s@%s:%d/%s\n",
				cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)
		}
		fmt.Printf("  Redis:          %s\n", cfg.Redis.Addr)

		return nil
	},
}

// configInitCmd initializes configuration.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	Long:  `Create a new configuration file with default values if one doesn't exist.`,
	RunE: func(c *cobra.Command, args []string) error {
		configPath, err := config.ConfigPath()
		if err != nil {
			return fmt.Errorf("getting config path: %w", err)
		}

		if _, err := os.Stat(configPath); err == nil {
			fmt.Printf("Configuration file already exists: %s\n", configPath)
			fmt.Println("Use 'sitebook config show' to view current settings.")
			return nil
		}

		defaultCfg := config.DefaultConfig()
		if err := config.SaveConfig(defaultCfg); err != nil {
			return fmt.Errorf("saving configuration: %w", err)
		}

		fmt.Printf("Created configuration file: %s\n", configPath)
		fmt.Println("\nDefault settings:")
		fmt.Printf("  Organization:  %s\n", defaultCfg.OrgID)
		fmt.Printf("  Timeout:       %s\n", defaultCfg.Timeout)
		fmt.Printf("  Output format: %s\n", defaultCfg.OutputFormat)

		return nil
	},
}

// configSetCmd sets a configuration value.
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

Available keys:
  org_id          - Organization whose contacts commands operate on
  timeout         - Command timeout (e.g., 30s, 1m)
  output_format   - Default output format (text, json, yaml)
  session_ttl     - How long unfinished import sessions are kept
  redis_addr      - Redis server address (host:port)
  debug           - Enable debug mode (true/false)

Examples:
  sitebook config set org_id acme-builders
  sitebook config set timeout 1m
  sitebook config set output_format json`,
	Args: cobra.ExactArgs(2),
	RunE: func(c *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		currentCfg, err := config.LoadConfig()
		if err != nil {
			currentCfg = config.DefaultConfig()
		}

		switch key {
		case "org_id":
			currentCfg.OrgID = value
		case "timeout":
			duration, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid timeout value: %w", err)
			}
			currentCfg.Timeout = duration
		case "output_format":
			format := config.OutputFormat(value)
			if !format.IsValid() {
				return fmt.Errorf("invalid output format: %s (must be text, json, or yaml)", value)
			}
			currentCfg.OutputFormat = format
		case "session_ttl":
			ttl, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid session_ttl value: %w", err)
			}
			currentCfg.SessionTTL = ttl
		case "redis_addr":
			currentCfg.Redis.Addr = value
		case "debug":
			switch value {
			case "true", "1":
				currentCfg.Debug = true
			case "false", "0":
				currentCfg.Debug = false
			default:
				return fmt.Errorf("invalid debug value: %s (must be true or false)", value)
			}
		default:
			return fmt.Errorf("unknown configuration key: %s", key)
		}

		if err := config.SaveConfig(currentCfg); err != nil {
			return fmt.Errorf("saving configuration: %w", err)
		}

		fmt.Printf("Set %s = %s\n", key, value)
		return nil
	},
}

// completionCmd generates shell completion scripts.
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for sitebook.

Bash:
  $ source <(sitebook completion bash)

Zsh:
  $ sitebook completion zsh > "${fpath[1]}/_sitebook"

Fish:
  $ sitebook completion fish | source

PowerShell:
  PS> sitebook completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(c *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
		}
		return nil
	},
}

func init() {
	// Global flags.
	rootCmd.PersistentFlags().StringVar(&orgID, "org", "", "Organization ID (overrides config)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Command timeout (overrides config)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output-format", "", "Default output format: text, json, yaml")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	// Command groups.
	rootCmd.AddGroup(
		&cobra.Group{ID: "contacts", Title: "Contact Commands:"},
		&cobra.Group{ID: "ops", Title: "Operations Commands:"},
		&cobra.Group{ID: "setup", Title: "Setup Commands:"},
	)

	// Contact reconciliation.
	extractCmd := cmd.NewExtractCommand(nil)
	extractCmd.GroupID = "contacts"
	rootCmd.AddCommand(extractCmd)

	dedupeCmd := cmd.NewDedupeCommand(nil)
	dedupeCmd.GroupID = "contacts"
	rootCmd.AddCommand(dedupeCmd)

	importCmd := cmd.NewImportCommand(nil)
	importCmd.GroupID = "contacts"
	rootCmd.AddCommand(importCmd)

	contactsCmd := cmd.NewContactsCommand(nil)
	contactsCmd.GroupID = "contacts"
	rootCmd.AddCommand(contactsCmd)

	// Operations.
	dbCmd := cmd.NewDBCommand(nil)
	dbCmd.GroupID = "ops"
	rootCmd.AddCommand(dbCmd)

	// Setup.
	configCmd.GroupID = "setup"
	rootCmd.AddCommand(configCmd)

	completionCmd.GroupID = "setup"
	rootCmd.AddCommand(completionCmd)

	versionCmd.GroupID = "setup"
	rootCmd.AddCommand(versionCmd)

	// Config subcommands.
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
}

func main() {
	// Set up signal handling for graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, shutting down...")
		cancel()
		os.Exit(0)
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
