package ports

import "context"

// RateLimiter decide se uma chave (IP, usuário) ainda tem cota na janela atual
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
