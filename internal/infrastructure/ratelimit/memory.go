// Package ratelimit limita tentativas de login e predições por chave.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/rafabene/dermacheck-backend/internal/domain/ports"
)

// MemoryLimiter é uma janela deslizante local ao processo
type MemoryLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   map[string][]time.Time
	now    func() time.Time
}

// NewMemoryLimiter cria um limitador de limit requisições por janela
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:  limit,
		window: window,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

var _ ports.RateLimiter = (*MemoryLimiter)(nil)

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	if l.limit <= 0 {
		return true, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	recent := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.limit {
		l.hits[key] = recent
		return false, nil
	}

	l.hits[key] = append(recent, now)
	l.sweep(cutoff)
	return true, nil
}

// sweep remove chaves sem acessos recentes para o mapa não crescer sem limite
func (l *MemoryLimiter) sweep(cutoff time.Time) {
	if len(l.hits) < 1024 {
		return
	}
	for key, times := range l.hits {
		if len(times) == 0 || !times[len(times)-1].After(cutoff) {
			delete(l.hits, key)
		}
	}
}
