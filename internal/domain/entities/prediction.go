package entities

import (
	"errors"
	"math"
	"time"
)

var (
	ErrInvalidPredictionData = errors.New("invalid prediction data")
)

// Classification é o resultado de uma inferência do classificador
type Classification struct {
	Label        string
	Confidence   float64
	Distribution Distribution
}

// PredictionHistory é o registro persistido de uma classificação feita por um usuário.
// AllProbabilities guarda a distribuição serializada; use ParseDistribution para lê-la.
type PredictionHistory struct {
	ID               string
	UserID           string
	PredictedClass   string
	Confidence       float64
	ImagePath        *string
	ImageBase64      *string
	AllProbabilities string
	CreatedAt        time.Time

	// User só é preenchido quando o dono é carregado junto (visões de admin)
	User *User
}

// NewPredictionHistory cria um registro de histórico a partir de uma classificação
func NewPredictionHistory(userID string, c *Classification, imageBase64, imagePath *string) (*PredictionHistory, error) {
	serialized, err := SerializeDistribution(c.Distribution)
	if err != nil {
		return nil, err
	}

	p := &PredictionHistory{
		UserID:           userID,
		PredictedClass:   c.Label,
		Confidence:       c.Confidence,
		ImagePath:        imagePath,
		ImageBase64:      imageBase64,
		AllProbabilities: serialized,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// IsOwnedBy verifica se o registro pertence ao usuário
func (p *PredictionHistory) IsOwnedBy(userID string) bool {
	return p.UserID == userID
}

// CanBeDeletedBy verifica se o usuário pode remover o registro (dono ou admin)
func (p *PredictionHistory) CanBeDeletedBy(u *User) bool {
	if u == nil {
		return false
	}
	return p.IsOwnedBy(u.ID) || u.IsAdmin()
}

// Validate valida regras de negócio do registro
func (p *PredictionHistory) Validate() error {
	if p.UserID == "" {
		return errors.New("user is required")
	}

	if p.PredictedClass == "" {
		return errors.New("predicted class is required")
	}

	if math.IsNaN(p.Confidence) || p.Confidence < 0 || p.Confidence > 1 {
		return errors.New("confidence must be between 0 and 1")
	}

	return nil
}
