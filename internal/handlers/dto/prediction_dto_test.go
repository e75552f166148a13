package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafabene/dermacheck-backend/internal/domain/entities"
)

func TestToPredictionView(t *testing.T) {
	preview := "abc123"
	p := &entities.PredictionHistory{
		ID:               "p1",
		PredictedClass:   "Melanoma",
		Confidence:       0.7,
		ImageBase64:      &preview,
		AllProbabilities: `{"Melanoma": 0.7, "Nevus": 0.3}`,
		CreatedAt:        time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
	}

	t.Run("preview sai uma única vez como data URI", func(t *testing.T) {
		raw, err := json.Marshal(ToPredictionView(p))
		require.NoError(t, err)

		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))

		assert.Equal(t, "data:image/jpeg;base64,abc123", body["image_preview"])
		assert.NotContains(t, body, "image_base64")
		assert.InDelta(t, 0.7, body["all_probabilities"].(map[string]any)["Melanoma"], 1e-9)
	})

	t.Run("sem preview salvo o campo é omitido", func(t *testing.T) {
		withoutPreview := *p
		withoutPreview.ImageBase64 = nil

		raw, err := json.Marshal(ToPredictionView(&withoutPreview))
		require.NoError(t, err)

		assert.NotContains(t, string(raw), "image_preview")
	})
}
