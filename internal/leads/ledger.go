// Package leads keeps the append-only record of completed quiz sessions.
package leads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/generation"
)

// StorageKey is the snapshot key holding the whole ledger.
const StorageKey = "rosa_menta_leads"

// ErrStorageParse is logged when the stored ledger cannot be decoded. It is
// never returned: a corrupt ledger loads as empty.
var ErrStorageParse = errors.New("lead ledger snapshot is corrupt")

// Lead is one completed session.
type Lead struct {
	ID        string            `json:"id"`
	UserName  string            `json:"userName"`
	Timestamp time.Time         `json:"date"`
	Answers   []string          `json:"answers"`
	Result    generation.Result `json:"result"`
}

// KV is the snapshot storage the ledger persists to.
type KV interface {
	Save(ctx context.Context, key string, data []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// Ledger is an in-memory, newest-first list of leads mirrored to a single
// storage snapshot. It is read once on Open and rewritten on every Append.
type Ledger struct {
	mu     sync.Mutex
	kv     KV
	leads  []Lead
	logger zerolog.Logger

	now   func() time.Time
	newID func() string
}

// Open loads the ledger from kv.
func Open(ctx context.Context, kv KV, logger zerolog.Logger) (*Ledger, error) {
	l := &Ledger{
		kv:     kv,
		logger: logger.With().Str("component", "leads").Logger(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	if _, err := l.LoadAll(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

// LoadAll replaces the in-memory ledger with the stored snapshot and
// returns it newest first. Missing or unparseable data yields an empty
// ledger, not an error.
func (l *Ledger) LoadAll(ctx context.Context) ([]Lead, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.load(ctx); err != nil {
		return nil, err
	}
	out := make([]Lead, len(l.leads))
	copy(out, l.leads)
	return out, nil
}

func (l *Ledger) load(ctx context.Context) error {
	data, err := l.kv.Load(ctx, StorageKey)
	if err != nil {
		return fmt.Errorf("load leads: %w", err)
	}
	l.leads = nil
	if len(data) == 0 {
		return nil
	}

	var leads []Lead
	if err := json.Unmarshal(data, &leads); err != nil {
		l.logger.Warn().
			Err(fmt.Errorf("%w: %w", ErrStorageParse, err)).
			Int("bytes", len(data)).
			Msg("starting with an empty lead ledger")
		return nil
	}
	l.leads = leads
	return nil
}

// Append fills in the lead's ID and timestamp, prepends it and persists
// the whole ledger. On a storage error the in-memory ledger is unchanged.
func (l *Ledger) Append(ctx context.Context, lead Lead) (Lead, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lead.ID = l.newID()
	lead.Timestamp = l.now()
	lead.Answers = append([]string(nil), lead.Answers...)

	next := make([]Lead, 0, len(l.leads)+1)
	next = append(next, lead)
	next = append(next, l.leads...)

	data, err := json.Marshal(next)
	if err != nil {
		return Lead{}, fmt.Errorf("encode leads: %w", err)
	}
	if err := l.kv.Save(ctx, StorageKey, data); err != nil {
		return Lead{}, fmt.Errorf("save leads: %w", err)
	}

	l.leads = next
	l.logger.Info().Str("lead_id", lead.ID).Str("profile_name", lead.Result.ProfileName).Msg("lead recorded")
	return lead, nil
}

// All returns a copy of every lead, newest first.
func (l *Ledger) All() []Lead {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Lead, len(l.leads))
	copy(out, l.leads)
	return out
}

// Get returns the lead with the given ID. A unique ID prefix also matches.
func (l *Ledger) Get(id string) (Lead, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var match *Lead
	for i := range l.leads {
		if l.leads[i].ID == id {
			return l.leads[i], true
		}
		if len(id) >= 4 && len(l.leads[i].ID) > len(id) && l.leads[i].ID[:len(id)] == id {
			if match != nil {
				return Lead{}, false
			}
			match = &l.leads[i]
		}
	}
	if match == nil {
		return Lead{}, false
	}
	return *match, true
}

// Len returns the number of leads.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.leads)
}

// Clear deletes every lead.
func (l *Ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.kv.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("clear leads: %w", err)
	}
	l.leads = nil
	return nil
}
