package session

import (
	"fmt"
	"sync"
	"time"
)

// Store хранит сессии в памяти процесса.
// Сессии живут, пока посетитель активен; простаивающие удаляются через Sweep.
type Store[T Entry] struct {
	mu      sync.RWMutex
	items   map[string]T
	maxIdle time.Duration
}

// NewStore создает хранилище. maxIdle <= 0 отключает удаление по простою.
func NewStore[T Entry](maxIdle time.Duration) *Store[T] {
	return &Store[T]{
		items:   make(map[string]T),
		maxIdle: maxIdle,
	}
}

// Save сохраняет сессию, перезаписывая сессию с тем же ID
func (s *Store[T]) Save(item T) error {
	id := item.ID()
	if id == "" {
		return ErrEmptyID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = item
	return nil
}

// Get возвращает сессию по ID
func (s *Store[T]) Get(id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: id=%s", ErrSessionNotFound, id)
	}
	return item, nil
}

// Delete удаляет сессию и закрывает ее
func (s *Store[T]) Delete(id string) {
	s.mu.Lock()
	item, ok := s.items[id]
	delete(s.items, id)
	s.mu.Unlock()

	if ok {
		item.Close()
	}
}

// Len возвращает количество сессий
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Sweep удаляет сессии, простаивающие дольше maxIdle, и возвращает их количество
func (s *Store[T]) Sweep(now time.Time) int {
	if s.maxIdle <= 0 {
		return 0
	}

	s.mu.Lock()
	expired := make([]T, 0)
	for id, item := range s.items {
		if now.Sub(item.LastActivity()) > s.maxIdle {
			expired = append(expired, item)
			delete(s.items, id)
		}
	}
	s.mu.Unlock()

	// Close берет мьютекс сессии, поэтому вызывается вне блокировки хранилища
	for _, item := range expired {
		item.Close()
	}
	return len(expired)
}
