// Package session holds in-flight import sessions in Redis so that an
// import can be started, reviewed, and committed across separate CLI
// invocations. A session is the matcher's partition plus the user's
// resolutions so far.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/otherjamesbrown/sitebook-cli/pkg/contacts"
	sberrors "github.com/otherjamesbrown/sitebook-cli/pkg/errors"
	"github.com/otherjamesbrown/sitebook-cli/pkg/logging"
)

const keyPrefixSession = "sitebook:session:"

// DefaultTTL is how long an unresolved session survives in Redis.
const DefaultTTL = 24 * time.Hour

// DisputedItem pairs one match proposal with its resolution, nil until
// the user decides.
type DisputedItem struct {
	Proposal   contacts.MatchProposal `json:"proposal"`
	Resolution *contacts.Resolution   `json:"resolution,omitempty"`
}

// Session is one in-flight import.
type Session struct {
	ID        string                     `json:"id"`
	OrgID     string                     `json:"orgId"`
	Kind      contacts.PersonKind        `json:"kind"`
	CreatedAt time.Time                  `json:"createdAt"`
	Unique    []contacts.CandidateRecord `json:"unique"`
	Disputed  []DisputedItem             `json:"disputed"`
}

// NewSession builds a session from a partition with a fresh ID.
func NewSession(orgID string, kind contacts.PersonKind, p contacts.Partition) *Session {
	disputed := make([]DisputedItem, 0, len(p.Disputed))
	for _, proposal := range p.Disputed {
		disputed = append(disputed, DisputedItem{Proposal: proposal})
	}
	return &Session{
		ID:        uuid.NewString(),
		OrgID:     orgID,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
		Unique:    p.Unique,
		Disputed:  disputed,
	}
}

// Resolve records the user's decision for one disputed item.
func (s *Session) Resolve(index int, res contacts.Resolution) error {
	if index < 0 || index >= len(s.Disputed) {
		return fmt.Errorf("disputed index %d out of range [0,%d): %w",
			index, len(s.Disputed), sberrors.ErrValidation)
	}
	if err := res.Validate(); err != nil {
		return err
	}
	s.Disputed[index].Resolution = &res
	return nil
}

// Unresolved returns the indexes of disputed items still waiting on a
// decision.
func (s *Session) Unresolved() []int {
	var pending []int
	for i := range s.Disputed {
		if s.Disputed[i].Resolution == nil {
			pending = append(pending, i)
		}
	}
	return pending
}

// Complete reports whether every disputed item has a resolution.
func (s *Session) Complete() bool {
	return len(s.Unresolved()) == 0
}

// Store persists sessions in Redis.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	logger logging.Logger
}

// NewStore creates a session store. A non-positive ttl falls back to
// DefaultTTL.
func NewStore(client *redis.Client, ttl time.Duration, logger logging.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		client: client,
		ttl:    ttl,
		logger: logger.With(logging.F("component", "session_store")),
	}
}

// Save writes the session, resetting its TTL.
func (st *Store) Save(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := st.client.Set(ctx, keyPrefixSession+s.ID, data, st.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	st.logger.Debug("Session saved",
		logging.F("session_id", s.ID),
		logging.F("disputed", len(s.Disputed)))

	return nil
}

// Load retrieves a session by ID.
func (st *Store) Load(ctx context.Context, id string) (*Session, error) {
	data, err := st.client.Get(ctx, keyPrefixSession+id).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("session %s: %w", id, sberrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

// Delete removes a session after commit or abandonment.
func (st *Store) Delete(ctx context.Context, id string) error {
	if err := st.client.Del(ctx, keyPrefixSession+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
