package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	backend "github.com/redis/go-redis/v9"
)

// State is the per-user session record. The chain doubles as the breadcrumb
// stack and the holder of pending free-text input; last message id and last
// trigger track the delete-then-send message hygiene.
type State struct {
	Chain         []string `json:"chain"`
	LastMessageID int      `json:"last_message_id"`
	LastTrigger   string   `json:"last_trigger"`
}

// Store keeps session state in Redis, one JSON value per user. Writes are
// last-write-wins; two near-simultaneous updates from the same user can lose
// one of them, which is accepted for this domain.
type Store struct {
	client *backend.Client
	prefix string
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets the key prefix for session records.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a session store backed by a new Redis client.
func New(addr, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a session store from an existing Redis client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "crypted:session:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(userID int64) string {
	return s.prefix + strconv.FormatInt(userID, 10)
}

func (s *Store) load(ctx context.Context, userID int64) (State, error) {
	val, err := s.client.Get(ctx, s.key(userID)).Result()
	if err != nil {
		if err == backend.Nil {
			return State{}, nil
		}
		return State{}, fmt.Errorf("failed to load session: %w", err)
	}

	var state State
	if err := json.Unmarshal([]byte(val), &state); err != nil {
		return State{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return state, nil
}

func (s *Store) save(ctx context.Context, userID int64, state State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Chain returns the user's navigation chain, empty for a fresh session.
func (s *Store) Chain(ctx context.Context, userID int64) ([]string, error) {
	state, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return state.Chain, nil
}

// SetChain replaces the user's navigation chain.
func (s *Store) SetChain(ctx context.Context, userID int64, chain []string) error {
	state, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	state.Chain = chain
	return s.save(ctx, userID, state)
}

// LastMessageID returns the id of the previous outgoing message, zero if none.
func (s *Store) LastMessageID(ctx context.Context, userID int64) (int, error) {
	state, err := s.load(ctx, userID)
	if err != nil {
		return 0, err
	}
	return state.LastMessageID, nil
}

// SetLastMessageID records the id of the freshly sent message.
func (s *Store) SetLastMessageID(ctx context.Context, userID int64, messageID int) error {
	state, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	state.LastMessageID = messageID
	return s.save(ctx, userID, state)
}

// SetLastTrigger records the raw trigger of the current turn.
func (s *Store) SetLastTrigger(ctx context.Context, userID int64, trigger string) error {
	state, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	state.LastTrigger = trigger
	return s.save(ctx, userID, state)
}
