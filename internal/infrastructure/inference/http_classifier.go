package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/rafabene/dermacheck-backend/internal/domain/ports"
)

// HTTPClassifier chama um model server com o contrato REST do TensorFlow Serving:
// POST {"instances": [...]} → {"predictions": [[...]]}
type HTTPClassifier struct {
	client     *http.Client
	predictURL string
}

// NewHTTPClassifier cria o cliente com o timeout informado
func NewHTTPClassifier(predictURL string, timeout time.Duration) *HTTPClassifier {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClassifier{
		client:     &http.Client{Timeout: timeout},
		predictURL: predictURL,
	}
}

type predictRequest struct {
	Instances [][][][]float32 `json:"instances"`
}

type predictResponse struct {
	Predictions [][]float64 `json:"predictions"`
	Error       string      `json:"error,omitempty"`
}

func (c *HTTPClassifier) Predict(ctx context.Context, input ports.Tensor) ([]float64, error) {
	ctx, span := tracer.Start(ctx, "inference.model_server")
	defer span.End()

	instances, err := toInstances(input)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	body, err := json.Marshal(predictRequest{Instances: instances})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.predictURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "model server unreachable")
		return nil, fmt.Errorf("model server request failed: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read model server response: %w", err)
	}

	var out predictResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("failed to decode model server response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("model server returned %d: %s", resp.StatusCode, out.Error)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if len(out.Predictions) != 1 {
		return nil, fmt.Errorf("expected 1 prediction, got %d", len(out.Predictions))
	}

	return out.Predictions[0], nil
}

// toInstances converte o tensor NHWC com batch 1 em arrays aninhados
func toInstances(t ports.Tensor) ([][][][]float32, error) {
	if len(t.Shape) != 4 || t.Shape[0] != 1 {
		return nil, fmt.Errorf("unexpected tensor shape %v", t.Shape)
	}
	h, w, ch := t.Shape[1], t.Shape[2], t.Shape[3]
	if len(t.Data) != h*w*ch {
		return nil, fmt.Errorf("tensor data has %d values, shape %v needs %d", len(t.Data), t.Shape, h*w*ch)
	}

	img := make([][][]float32, h)
	for y := 0; y < h; y++ {
		row := make([][]float32, w)
		for x := 0; x < w; x++ {
			offset := (y*w + x) * ch
			row[x] = t.Data[offset : offset+ch : offset+ch]
		}
		img[y] = row
	}
	return [][][][]float32{img}, nil
}

// LoadClassifier confere o artefato do modelo e a disponibilidade do model server.
// Qualquer falha deve deixar a aplicação em modo degradado, nunca impedir a inicialização.
func LoadClassifier(ctx context.Context, modelPath, predictURL, statusURL string, timeout time.Duration) (*HTTPClassifier, error) {
	if predictURL == "" {
		return nil, errors.New("model server url is not configured")
	}

	if modelPath != "" {
		if _, err := os.Stat(modelPath); err != nil {
			return nil, fmt.Errorf("model file not found: %w", err)
		}
	}

	classifier := NewHTTPClassifier(predictURL, timeout)

	if statusURL != "" {
		probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, statusURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build status request: %w", err)
		}
		resp, err := classifier.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("model server is not reachable: %w", err)
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("model server status returned %d", resp.StatusCode)
		}
	}

	return classifier, nil
}
