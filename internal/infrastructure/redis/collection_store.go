// Package redis implementa el CollectionStore sobre Redis: una clave por colección
// y un canal pub/sub para el feed de cambios.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/warehouse-inventory/internal/domain/repository"
	"github.com/jhoicas/warehouse-inventory/pkg/logger"
)

var _ repository.CollectionStore = (*CollectionStore)(nil)

const (
	keyPrefix     = "inventory:"
	changeChannel = "inventory:changes"
)

// CollectionStore adaptador Redis.
type CollectionStore struct {
	client *redis.Client
	log    *logger.Logger
}

// NewCollectionStore construye el adaptador con un cliente ya configurado.
func NewCollectionStore(client *redis.Client, log *logger.Logger) *CollectionStore {
	return &CollectionStore{client: client, log: log}
}

// Load lee la colección; redis.Nil significa que no existe.
func (s *CollectionStore) Load(ctx context.Context, key string) (json.RawMessage, bool, error) {
	raw, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return json.RawMessage(raw), true, nil
}

// Save escribe la colección y publica el evento con el valor completo en un solo pipeline.
func (s *CollectionStore) Save(ctx context.Context, key string, value json.RawMessage, origin string) error {
	envelope, err := json.Marshal(repository.ChangeEvent{Key: key, Value: value, Origin: origin})
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, keyPrefix+key, []byte(value), 0)
		p.Publish(ctx, changeChannel, envelope)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save %s: %w", key, err)
	}
	return nil
}

// Subscribe se suscribe al canal de cambios hasta que ctx termine.
func (s *CollectionStore) Subscribe(ctx context.Context) (<-chan repository.ChangeEvent, error) {
	ps := s.client.Subscribe(ctx, changeChannel)
	// Receive confirma la suscripción antes de devolver el canal.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	out := make(chan repository.ChangeEvent, 16)
	go func() {
		defer close(out)
		defer ps.Close()
		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev repository.ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					s.log.Warn().Err(err).Msg("redis: evento de cambio ilegible")
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
