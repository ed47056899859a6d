package fsmutil

import (
	"strings"
	"sync"
)

// Store — состояние диалога по чатам. Послания одного чата сериализует
// per-chat замок в app.ChatLimiter; замок здесь защищает саму мапу от
// параллельных чатов.
type Store[T any] struct {
	mu sync.RWMutex
	m  map[int64]T
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{m: make(map[int64]T)}
}

func (s *Store[T]) Get(chatID int64) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[chatID]
	return v, ok
}

func (s *Store[T]) Set(chatID int64, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[chatID] = v
}

func (s *Store[T]) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, chatID)
}

// IsBackText — текстовая кнопка "Back" (регистр/пробелы игнорим).
func IsBackText(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "Back")
}

// IsMenuText — возврат в главное меню.
func IsMenuText(s string) bool {
	return strings.TrimSpace(strings.ToLower(s)) == "/menu"
}
