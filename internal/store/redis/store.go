package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/logger"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/store"
)

const maxSetAttempts = 5

// Store is a storage area kept in Redis. Every instance pointed at the same
// Redis sees every other instance's writes through the changes channel, which
// is what makes it the synchronized area.
type Store struct {
	store.Broadcaster

	client *redis.Client
	area   string
	logger logger.Logger

	mu     sync.Mutex
	pubsub *redis.PubSub
	done   chan struct{}
}

// NewStore creates a Redis-backed area. Call Start to receive changes.
func NewStore(client *redis.Client, area string, log logger.Logger) *Store {
	return &Store{
		client: client,
		area:   area,
		logger: log,
	}
}

// Name returns the area name
func (s *Store) Name() string { return s.area }

// Start subscribes to the changes channel and fans messages out to listeners
// until Close or ctx is done.
func (s *Store) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pubsub != nil {
		return nil
	}

	pubsub := s.client.Subscribe(ctx, ChangesChannel)
	// Wait for the subscription to be confirmed so no write is missed after Start returns
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return fmt.Errorf("failed to subscribe to %s: %w", ChangesChannel, err)
	}

	s.pubsub = pubsub
	s.done = make(chan struct{})
	go s.listen(ctx, pubsub.Channel(), s.done)

	s.logger.Info("listening for storage changes",
		logger.String("channel", ChangesChannel),
		logger.String("area", s.area))
	return nil
}

func (s *Store) listen(ctx context.Context, messages <-chan *redis.Message, done chan struct{}) {
	defer close(done)
	for {
		select {
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var change store.Change
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				s.logger.Warn("dropping malformed change message",
					logger.String("channel", msg.Channel),
					logger.Error(err))
				continue
			}
			s.Publish(change)
		case <-ctx.Done():
			return
		}
	}
}

// Get returns the stored value, or nil when the key does not exist
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, AreaKey(s.area, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, nil
}

// Set writes value and publishes the change in one MULTI/EXEC, so a value is
// never stored without its notification. The key is watched while the
// previous value is read; a concurrent writer makes the transaction retry.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	redisKey := AreaKey(s.area, key)

	txf := func(tx *redis.Tx) error {
		change := store.Change{
			Key:      key,
			NewValue: value,
			Area:     s.area,
		}
		old, err := tx.Get(ctx, redisKey).Bytes()
		switch {
		case err == nil:
			change.OldValue = old
		case !errors.Is(err, redis.Nil):
			return err
		}

		payload, err := json.Marshal(change)
		if err != nil {
			return fmt.Errorf("failed to marshal change: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, redisKey, value, 0)
			pipe.Publish(ctx, ChangesChannel, payload)
			return nil
		})
		return err
	}

	for attempt := 1; attempt <= maxSetAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, redisKey)
		if err == nil {
			return nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
		s.logger.Debug("concurrent write, retrying set",
			logger.String("key", key),
			logger.Int("attempt", attempt))
	}
	return fmt.Errorf("failed to set %s: %w", key, redis.TxFailedErr)
}

// Ping checks the Redis connection
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close stops the change listener. The client itself is owned by the caller.
func (s *Store) Close() error {
	s.mu.Lock()
	pubsub, done := s.pubsub, s.done
	s.pubsub, s.done = nil, nil
	s.mu.Unlock()

	if pubsub == nil {
		return nil
	}
	err := pubsub.Close()
	<-done
	return err
}
