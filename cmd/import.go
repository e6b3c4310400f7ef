package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/otherjamesbrown/sitebook-cli/config"
	"github.com/otherjamesbrown/sitebook-cli/pkg/contacts"
	"github.com/otherjamesbrown/sitebook-cli/pkg/contacts/extract"
	"github.com/otherjamesbrown/sitebook-cli/pkg/contacts/match"
	"github.com/otherjamesbrown/sitebook-cli/pkg/contacts/observability"
	"github.com/otherjamesbrown/sitebook-cli/pkg/db"
	"github.com/otherjamesbrown/sitebook-cli/pkg/logging"
	"github.com/otherjamesbrown/sitebook-cli/pkg/session"
)

// Import command flags
var (
	importKind   string
	importSource string
	importOutput string
	importTarget string
)

// SessionStore is the subset of the session store the import commands
// use.
type SessionStore interface {
	Save(ctx context.Context, s *session.Session) error
	Load(ctx context.Context, id string) (*session.Session, error)
	Delete(ctx context.Context, id string) error
}

// ContactWriter is the subset of the contact store the import commands
// use.
type ContactWriter interface {
	CreateContact(ctx context.Context, orgID string, rec *contacts.CandidateRecord) (string, error)
	MergeContact(ctx context.Context, orgID string, targetID string, rec *contacts.CandidateRecord) (*contacts.ExistingRecord, error)
}

// ImportCommandDeps holds the dependencies for import commands.
type ImportCommandDeps struct {
	LoadConfig func() (*config.CLIConfig, error)
	Engine     *extract.Engine
	Matcher    *match.Matcher
	Metrics    *observability.Metrics

	// ReadInput overrides input reading for testing.
	ReadInput func(path string) (string, error)
	// ListExisting overrides database reads for testing.
	ListExisting func(ctx context.Context, cfg *config.CLIConfig, kind contacts.PersonKind) ([]contacts.ExistingRecord, error)
	// Sessions overrides session storage for testing.
	Sessions func(cfg *config.CLIConfig, logger logging.Logger) SessionStore
	// OpenStore overrides contact persistence for testing. The returned
	// func closes the underlying connection.
	OpenStore func(ctx context.Context, cfg *config.CLIConfig, logger logging.Logger) (ContactWriter, func(), error)

	// IsTerminal gates interactive review.
	IsTerminal func() bool
	// Stdin is the review prompt's input.
	Stdin io.Reader
}

// DefaultImportDeps returns the default dependencies for production use.
func DefaultImportDeps() *ImportCommandDeps {
	return &ImportCommandDeps{
		LoadConfig:   config.LoadConfig,
		ReadInput:    readInput,
		ListExisting: listExistingFromDB,
		Sessions: func(cfg *config.CLIConfig, logger logging.Logger) SessionStore {
			return newSessionStore(cfg, logger)
		},
		OpenStore: func(ctx context.Context, cfg *config.CLIConfig, logger logging.Logger) (ContactWriter, func(), error) {
			contactStore, pool, err := connectContactStore(ctx, cfg, logger)
			if err != nil {
				return nil, nil, err
			}
			return contactStore, func() { db.Close(pool) }, nil
		},
		IsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
		Stdin: os.Stdin,
	}
}

// NewImportCommand creates the root import command with all subcommands.
func NewImportCommand(deps *ImportCommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultImportDeps()
	}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import extracted contacts with duplicate review",
		Long: `Import contacts from free-form text with a review step for likely
duplicates.

An import runs as a session: 'start' extracts records, compares them
against existing contacts, and parks the result; 'review' or 'resolve'
records a decision (skip, import, merge) for each disputed record; and
'commit' persists everything once all decisions are in. Sessions survive
between invocations so review can happen at any pace.`,
		Example: `  # Start an import from a pasted supplier list
  pbpaste | sitebook import start --kind vendor

  # Walk through the disputes interactively
  sitebook import review <session-id>

  # Or resolve one dispute at a time
  sitebook import resolve <session-id> 0 merge

  # Persist the result
  sitebook import commit <session-id>`,
	}

	cmd.AddCommand(newImportStartCommand(deps))
	cmd.AddCommand(newImportStatusCommand(deps))
	cmd.AddCommand(newImportResolveCommand(deps))
	cmd.AddCommand(newImportReviewCommand(deps))
	cmd.AddCommand(newImportCommitCommand(deps))

	return cmd
}

func newImportStartCommand(deps *ImportCommandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start [file]",
		Short: "Extract, match, and open a review session",
		Long: `Extract candidate records from the input, compare them against the
organization's existing contacts of the same kind, and open a session
holding the result. Nothing is written to the contact tables until
'commit'.

Reads from the named file, or stdin when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runImportStart(cmd.Context(), deps, path)
		},
	}

	cmd.Flags().StringVarP(&importKind, "kind", "k", "client", "Contact kind: client, vendor, subcontractor, team")
	cmd.Flags().StringVarP(&importSource, "source", "s", "paste", "Input source: paste, ocr, email-body, calendar-text, json-array")
	cmd.Flags().StringVarP(&importOutput, "output", "o", "", "Output format: text, json, yaml")

	return cmd
}

func newImportStatusCommand(deps *ImportCommandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <session-id>",
		Short: "Show a session's records and pending decisions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportStatus(cmd.Context(), deps, args[0])
		},
	}

	cmd.Flags().StringVarP(&importOutput, "output", "o", "", "Output format: text, json, yaml")

	return cmd
}

func newImportResolveCommand(deps *ImportCommandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <session-id> <index> <skip|import|merge>",
		Short: "Record a decision for one disputed record",
		Long: `Record the decision for one disputed record in a session.

Actions:
  skip    discard the candidate
  import  create it as a new contact despite the match
  merge   fold its fields into the matched contact (or --target)`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid disputed index %q", args[1])
			}
			return runImportResolve(cmd.Context(), deps, args[0], index, args[2])
		},
	}

	cmd.Flags().StringVar(&importTarget, "target", "", "Merge target contact ID (defaults to the matched contact)")

	return cmd
}

func newImportReviewCommand(deps *ImportCommandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "review <session-id>",
		Short: "Resolve pending disputes interactively",
		Long: `Walk through a session's unresolved disputes one at a time, prompting
for a decision on each. Requires a terminal; in scripts use
'import resolve' instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportReview(cmd.Context(), deps, args[0])
		},
	}
}

func newImportCommitCommand(deps *ImportCommandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commit <session-id>",
		Short: "Persist a fully resolved session",
		Long: `Write a session's outcome to the contact tables: unique records are
created, and each disputed record is skipped, created, or merged per its
resolution. Fails if any dispute is still unresolved. The session is
deleted on success.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportCommit(cmd.Context(), deps, args[0])
		},
	}

	cmd.Flags().StringVarP(&importOutput, "output", "o", "", "Output format: text, json, yaml")

	return cmd
}

// Command execution functions

func runImportStart(ctx context.Context, deps *ImportCommandDeps, path string) error {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	format := resolveOutputFormat(cfg, importOutput)
	logger := logging.MustGlobal()

	kind, err := contacts.ParsePersonKind(importKind)
	if err != nil {
		return err
	}
	source, err := extract.ParseSourceKind(importSource)
	if err != nil {
		return err
	}

	text, err := deps.ReadInput(path)
	if err != nil {
		return err
	}

	existing, err := deps.ListExisting(ctx, cfg, kind)
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

	sess := session.NewSession(cfg.OrgID, kind, partition)
	if err := deps.Sessions(cfg, logger).Save(ctx, sess); err != nil {
		return err
	}

	return outputAs(format, map[string]interface{}{
		"session_id": sess.ID,
		"kind":       kind,
		"unique":     len(sess.Unique),
		"disputed":   len(sess.Disputed),
	}, func() error {
		fmt.Printf("Session %s opened for %s import.\n", sess.ID, kind)
		fmt.Printf("  %d unique record(s) ready to import\n", len(sess.Unique))
		fmt.Printf("  %d possible duplicate(s) need review\n\n", len(sess.Disputed))
		if len(sess.Disputed) > 0 {
			fmt.Printf("Review with: sitebook import review %s\n", sess.ID)
		} else {
			fmt.Printf("Commit with: sitebook import commit %s\n", sess.ID)
		}
		return nil
	})
}

func runImportStatus(ctx context.Context, deps *ImportCommandDeps, sessionID string) error {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	format := resolveOutputFormat(cfg, importOutput)
	logger := logging.MustGlobal()

	sess, err := deps.Sessions(cfg, logger).Load(ctx, sessionID)
	if err != nil {
		return err
	}

	return outputAs(format, sess, func() error {
		fmt.Printf("Session %s (%s, org %s)\n", sess.ID, sess.Kind, sess.OrgID)
		fmt.Printf("Created: %s\n\n", sess.CreatedAt.Format(time.RFC3339))

		fmt.Printf("Unique records (%d):\n\n", len(sess.Unique))
		for i := range sess.Unique {
			describeRecord(os.Stdout, &sess.Unique[i])
			fmt.Println()
		}

		fmt.Printf("Disputed records (%d):\n\n", len(sess.Disputed))
		for i := range sess.Disputed {
			item := &sess.Disputed[i]
			describeProposal(os.Stdout, i, &item.Proposal)
			if item.Resolution != nil {
				fmt.Printf("      resolved: %s\n", item.Resolution.Action)
			} else {
				fmt.Printf("      resolved: pending\n")
			}
			fmt.Println()
		}
		return nil
	})
}

func runImportResolve(ctx context.Context, deps *ImportCommandDeps, sessionID string, index int, action string) error {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	logger := logging.MustGlobal()
	sessions := deps.Sessions(cfg, logger)

	sess, err := sessions.Load(ctx, sessionID)
	if err != nil {
		return err
	}

	res, err := buildResolution(sess, index, action, importTarget)
	if err != nil {
		return err
	}
	if err := sess.Resolve(index, res); err != nil {
		return err
	}
	if err := sessions.Save(ctx, sess); err != nil {
		return err
	}

	fmt.Printf("Recorded %s for dispute %d.\n", res.Action, index)
	if pending := sess.Unresolved(); len(pending) > 0 {
		fmt.Printf("%d dispute(s) still pending.\n", len(pending))
	} else {
		fmt.Printf("All disputes resolved. Commit with: sitebook import commit %s\n", sess.ID)
	}
	return nil
}

// buildResolution turns an action word into a validated resolution,
// defaulting merge targets to the matched contact.
func buildResolution(sess *session.Session, index int, action, target string) (contacts.Resolution, error) {
	res := contacts.Resolution{Action: contacts.ResolutionAction(action)}
	if res.Action == contacts.ActionMerge {
		res.MergeTargetID = target
		if res.MergeTargetID == "" && index >= 0 && index < len(sess.Disputed) {
			res.MergeTargetID = sess.Disputed[index].Proposal.Existing.ID
		}
	}
	if err := res.Validate(); err != nil {
		return contacts.Resolution{}, err
	}
	return res, nil
}

func runImportReview(ctx context.Context, deps *ImportCommandDeps, sessionID string) error {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	logger := logging.MustGlobal()
	sessions := deps.Sessions(cfg, logger)

	if !deps.IsTerminal() {
		return fmt.Errorf("review requires a terminal; use 'sitebook import resolve' in scripts")
	}

	sess, err := sessions.Load(ctx, sessionID)
	if err != nil {
		return err
	}

	pending := sess.Unresolved()
	if len(pending) == 0 {
		fmt.Printf("Nothing to review. Commit with: sitebook import commit %s\n", sess.ID)
		return nil
	}

	reader := bufio.NewScanner(deps.Stdin)
	for _, index := range pending {
		item := &sess.Disputed[index]
		fmt.Println()
		describeProposal(os.Stdout, index, &item.Proposal)
		fmt.Print("  [s]kip, [i]mport as new, [m]erge, [q]uit: ")

		if !reader.Scan() {
			break
		}
		answer := strings.ToLower(strings.TrimSpace(reader.Text()))

		var action string
		switch answer {
		case "s", "skip":
			action = string(contacts.ActionSkip)
		case "i", "import":
			action = string(contacts.ActionImport)
		case "m", "merge":
			action = string(contacts.ActionMerge)
		case "q", "quit":
			fmt.Println("Stopping review; progress saved.")
			return sessions.Save(ctx, sess)
		default:
			fmt.Printf("  Unrecognized answer %q, leaving dispute %d pending.\n", answer, index)
			continue
		}

		res, err := buildResolution(sess, index, action, "")
		if err != nil {
			return err
		}
		if err := sess.Resolve(index, res); err != nil {
			return err
		}
	}

	if err := sessions.Save(ctx, sess); err != nil {
		return err
	}

	if sess.Complete() {
		fmt.Printf("\nAll disputes resolved. Commit with: sitebook import commit %s\n", sess.ID)
	} else {
		fmt.Printf("\n%d dispute(s) still pending.\n", len(sess.Unresolved()))
	}
	return nil
}

// CommitResult summarizes what a commit wrote.
type CommitResult struct {
	SessionID string `json:"session_id"`
	Created   int    `json:"created"`
	Merged    int    `json:"merged"`
	Skipped   int    `json:"skipped"`
}

func runImportCommit(ctx context.Context, deps *ImportCommandDeps, sessionID string) error {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	format := resolveOutputFormat(cfg, importOutput)
	logger := logging.MustGlobal()
	sessions := deps.Sessions(cfg, logger)

	sess, err := sessions.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	if pending := sess.Unresolved(); len(pending) > 0 {
		return fmt.Errorf("session has %d unresolved dispute(s); resolve them before committing", len(pending))
	}

	writer, closeStore, err := deps.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	result := CommitResult{SessionID: sess.ID}

	for i := range sess.Unique {
		if _, err := writer.CreateContact(ctx, sess.OrgID, &sess.Unique[i]); err != nil {
			return fmt.Errorf("creating contact %q: %w", sess.Unique[i].DisplayName, err)
		}
		result.Created++
	}

	for i := range sess.Disputed {
		item := &sess.Disputed[i]
		res := item.Resolution
		switch res.Action {
		case contacts.ActionSkip:
			result.Skipped++
		case contacts.ActionImport:
			if _, err := writer.CreateContact(ctx, sess.OrgID, &item.Proposal.New); err != nil {
				return fmt.Errorf("creating contact %q: %w", item.Proposal.New.DisplayName, err)
			}
			result.Created++
		case contacts.ActionMerge:
			if _, err := writer.MergeContact(ctx, sess.OrgID, res.MergeTargetID, &item.Proposal.New); err != nil {
				return fmt.Errorf("merging into contact %s: %w", res.MergeTargetID, err)
			}
			result.Merged++
		}
		if deps.Metrics != nil {
			deps.Metrics.RecordResolution(string(sess.Kind), string(res.Action))
		}
	}

	if err := sessions.Delete(ctx, sess.ID); err != nil {
		logger.Warn("failed to delete committed session",
			logging.F("session_id", sess.ID), logging.Err(err))
	}

	return outputAs(format, result, func() error {
		fmt.Printf("Committed session %s:\n", result.SessionID)
		fmt.Printf("  created: %d\n", result.Created)
		fmt.Printf("  merged:  %d\n", result.Merged)
		fmt.Printf("  skipped: %d\n", result.Skipped)
		return nil
	})
}
