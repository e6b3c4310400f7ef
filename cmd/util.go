// Package cmd provides CLI commands for the sitebook tool.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/otherjamesbrown/sitebook-cli/config"
	"github.com/otherjamesbrown/sitebook-cli/credentials"
	"github.com/otherjamesbrown/sitebook-cli/pkg/contacts"
	"github.com/otherjamesbrown/sitebook-cli/pkg/db"
	"github.com/otherjamesbrown/sitebook-cli/pkg/logging"
	"github.com/otherjamesbrown/sitebook-cli/pkg/session"
	"github.com/otherjamesbrown/sitebook-cli/pkg/store"
)

// resolveOutputFormat picks the per-command override if set, else the
// configured default.
func resolveOutputFormat(cfg *config.CLIConfig, override string) config.OutputFormat {
	if override != "" {
		return config.OutputFormat(override)
	}
	return cfg.OutputFormat
}

// readInput returns the text to extract from: the named file, or stdin
// when path is "-" or empty.
func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading input file: %w", err)
	}
	return string(data), nil
}

// connectContactStore opens the PostgreSQL pool and wraps it in a
// contact store. The database password comes from the keyring unless
// SITEBOOK_DB_PASSWORD is set; a missing password is allowed for
// passwordless local setups.
func connectContactStore(ctx context.Context, cfg *config.CLIConfig, logger logging.Logger) (*store.ContactStore, *pgxpool.Pool, error) {
	dbCfg := cfg.Database
	if dbCfg == nil {
		dbCfg = db.DefaultConfig()
	}

	if dbCfg.Password == "" {
		password, err := credentials.DatabasePassword()
		if err != nil && !errors.Is(err, credentials.ErrNoCredentials) {
			return nil, nil, err
		}
		dbCfg.Password = password
	}

	pool, err := db.Connect(ctx, dbCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}

	return store.NewContactStore(pool, logger), pool, nil
}

// newSessionStore opens the Redis client and wraps it in a session
// store.
func newSessionStore(cfg *config.CLIConfig, logger logging.Logger) *session.Store {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return session.NewStore(client, cfg.SessionTTL, logger)
}

// outputAs renders v as JSON or YAML, or calls textFn for the default
// human-readable format.
func outputAs(format config.OutputFormat, v interface{}, textFn func() error) error {
	switch format {
	case config.OutputFormatJSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.OutputFormatYAML:
		enc := yaml.NewEncoder(os.Stdout)
		return enc.Encode(v)
	default:
		return textFn()
	}
}

// describeRecord renders one candidate record as a short multi-line
// block for text output.
func describeRecord(w io.Writer, rec *contacts.CandidateRecord) {
	fmt.Fprintf(w, "  %s\n", rec.DisplayName)
	if rec.OrganizationName != "" && rec.OrganizationName != rec.DisplayName {
		fmt.Fprintf(w, "    organization: %s\n", rec.OrganizationName)
	}
	if name := rec.ContactName(); name != "" && name != rec.DisplayName {
		fmt.Fprintf(w, "    contact:      %s\n", name)
	}
	if rec.Email != "" {
		fmt.Fprintf(w, "    email:        %s\n", rec.Email)
	}
	if rec.Phone != "" {
		fmt.Fprintf(w, "    phone:        %s\n", rec.Phone)
	}
	if rec.Website != "" {
		fmt.Fprintf(w, "    website:      %s\n", rec.Website)
	}
	if rec.Address != "" {
		fmt.Fprintf(w, "    address:      %s\n", rec.Address)
	}
	switch {
	case rec.Vendor != nil:
		fmt.Fprintf(w, "    category:     %s\n", rec.Vendor.Category)
	case rec.Subcontractor != nil:
		fmt.Fprintf(w, "    trade:        %s\n", rec.Subcontractor.Trade)
	case rec.Team != nil:
		fmt.Fprintf(w, "    role:         %s\n", rec.Team.Role)
	}
	if rec.Notes != "" {
		fmt.Fprintf(w, "    notes:        %s\n", rec.Notes)
	}
}

// describeProposal renders one match proposal for text output.
func describeProposal(w io.Writer, index int, p *contacts.MatchProposal) {
	fmt.Fprintf(w, "  [%d] %s  ~  %s (id %s)\n",
		index, p.New.DisplayName, p.Existing.DisplayName, p.Existing.ID)
	fmt.Fprintf(w, "      reason: %s, confidence: %.2f\n", p.Reason, p.Confidence)
	details := make([]string, 0, 2)
	if p.New.Email != "" {
		details = append(details, "email "+p.New.Email)
	}
	if p.New.Phone != "" {
		details = append(details, "phone "+p.New.Phone)
	}
	if len(details) > 0 {
		fmt.Fprintf(w, "      new: %s\n", strings.Join(details, ", "))
	}
}
