// Package memory implementa el CollectionStore en memoria del proceso.
// Sirve como driver por defecto y como doble de prueba: varias sesiones que comparten
// la misma instancia se comportan como pestañas que comparten almacenamiento.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jhoicas/warehouse-inventory/internal/domain/repository"
)

var _ repository.CollectionStore = (*CollectionStore)(nil)

// feedBuffer capacidad del canal de cada suscriptor.
const feedBuffer = 64

// subscriber cola de cambios pendientes de un suscriptor. Guarda solo el último valor por
// clave: cada evento reemplaza la colección completa, así que uno más nuevo sustituye al
// pendiente sin perder convergencia.
type subscriber struct {
	mu      sync.Mutex
	pending map[string]repository.ChangeEvent
	order   []string
	wake    chan struct{}
}

func newSubscriber() *subscriber {
	return &subscriber{
		pending: make(map[string]repository.ChangeEvent),
		wake:    make(chan struct{}, 1),
	}
}

// push nunca bloquea al escritor.
func (sub *subscriber) push(ev repository.ChangeEvent) {
	sub.mu.Lock()
	if _, queued := sub.pending[ev.Key]; !queued {
		sub.order = append(sub.order, ev.Key)
	}
	sub.pending[ev.Key] = ev
	sub.mu.Unlock()

	select {
	case sub.wake <- struct{}{}:
	default:
	}
}

func (sub *subscriber) drain() []repository.ChangeEvent {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	out := make([]repository.ChangeEvent, 0, len(sub.order))
	for _, key := range sub.order {
		out = append(out, sub.pending[key])
	}
	sub.order = sub.order[:0]
	clear(sub.pending)
	return out
}

// pump entrega los cambios pendientes en orden de llegada hasta que ctx termine.
func (sub *subscriber) pump(ctx context.Context, out chan<- repository.ChangeEvent) {
	defer close(out)
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.wake:
		}
		for _, ev := range sub.drain() {
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}

// CollectionStore colecciones en un map protegido por mutex, con fan-out de cambios.
type CollectionStore struct {
	mu     sync.RWMutex
	data   map[string]json.RawMessage
	subs   map[int]*subscriber
	nextID int
}

// NewCollectionStore construye un store vacío.
func NewCollectionStore() *CollectionStore {
	return &CollectionStore{
		data: make(map[string]json.RawMessage),
		subs: make(map[int]*subscriber),
	}
}

// Load devuelve una copia del valor guardado.
func (s *CollectionStore) Load(_ context.Context, key string) (json.RawMessage, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append(json.RawMessage(nil), v...), true, nil
}

// Save guarda el valor y lo difunde. Un suscriptor lento no bloquea al escritor: sus
// cambios pendientes se compactan por clave y recibe siempre el valor más reciente.
func (s *CollectionStore) Save(_ context.Context, key string, value json.RawMessage, origin string) error {
	v := append(json.RawMessage(nil), value...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = v
	ev := repository.ChangeEvent{Key: key, Value: v, Origin: origin}
	for _, sub := range s.subs {
		sub.push(ev)
	}
	return nil
}

// Subscribe registra un suscriptor hasta que ctx termine.
func (s *CollectionStore) Subscribe(ctx context.Context) (<-chan repository.ChangeEvent, error) {
	ch := make(chan repository.ChangeEvent, feedBuffer)
	sub := newSubscriber()

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = sub
	s.mu.Unlock()

	go func() {
		sub.pump(ctx, ch)
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}()
	return ch, nil
}
