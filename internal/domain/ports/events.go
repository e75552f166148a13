package ports

import (
	"context"
	"time"
)

// Routing keys dos eventos de domínio
const (
	EventPredictionCreated = "prediction.created"
	EventUserRegistered    = "user.registered"
)

// EventPublisher publica eventos de domínio
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// PredictionCreated é o payload de prediction.created
type PredictionCreated struct {
	PredictionID   string    `json:"prediction_id,omitempty"`
	UserID         string    `json:"user_id"`
	PredictedClass string    `json:"predicted_class"`
	Confidence     float64   `json:"confidence"`
	Persisted      bool      `json:"persisted"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// UserRegistered é o payload de user.registered
type UserRegistered struct {
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	Role       string    `json:"role"`
	OccurredAt time.Time `json:"occurred_at"`
}
