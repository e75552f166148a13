// Package inference adapta o classificador opaco para o domínio:
// validação do upload, pré-processamento e interpretação das probabilidades.
package inference

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/rafabene/dermacheck-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/dermacheck-backend/internal/domain/errors"
	"github.com/rafabene/dermacheck-backend/internal/domain/ports"
	"github.com/rafabene/dermacheck-backend/internal/infrastructure/imaging"
)

var tracer = otel.Tracer("inference")

var allowedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"webp": {},
}

// Extension retorna a extensão em minúsculas, sem o ponto
func Extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// AllowedExtension indica se o nome do arquivo tem uma extensão de imagem aceita
func AllowedExtension(filename string) bool {
	_, ok := allowedExtensions[Extension(filename)]
	return ok
}

// Adapter combina o classificador e o índice de classes carregados na inicialização
type Adapter struct {
	classifier ports.Classifier
	labels     *LabelIndex
}

// NewAdapter aceita classifier ou labels nil: nesse caso a classificação fica indisponível
func NewAdapter(classifier ports.Classifier, labels *LabelIndex) *Adapter {
	return &Adapter{classifier: classifier, labels: labels}
}

// Available indica se modelo e índice de classes foram carregados
func (a *Adapter) Available() bool {
	return a.classifier != nil && a.labels != nil && a.labels.Len() > 0
}

// Labels retorna as classes conhecidas (vazio em modo degradado)
func (a *Adapter) Labels() []string {
	if a.labels == nil {
		return nil
	}
	return a.labels.Names()
}

// Classify valida, pré-processa e classifica o upload
func (a *Adapter) Classify(ctx context.Context, filename string, data []byte) (*entities.Classification, error) {
	c, _, err := a.ClassifyUpload(ctx, filename, data)
	return c, err
}

// ClassifyUpload é como Classify, mas também devolve a imagem decodificada (para o preview)
func (a *Adapter) ClassifyUpload(ctx context.Context, filename string, data []byte) (*entities.Classification, image.Image, error) {
	if !AllowedExtension(filename) {
		return nil, nil, domainerrors.ErrUnsupportedFormat
	}
	if !a.Available() {
		return nil, nil, domainerrors.ErrModelUnavailable
	}

	img, _, err := imaging.Decode(data)
	if err != nil {
		return nil, nil, err
	}

	c, err := a.ClassifyImage(ctx, img)
	if err != nil {
		return nil, nil, err
	}
	return c, img, nil
}

// ClassifyImage classifica uma imagem já decodificada
func (a *Adapter) ClassifyImage(ctx context.Context, img image.Image) (*entities.Classification, error) {
	if !a.Available() {
		return nil, domainerrors.ErrModelUnavailable
	}

	ctx, span := tracer.Start(ctx, "inference.classify")
	defer span.End()

	_, prep := tracer.Start(ctx, "inference.preprocess")
	tensor := imaging.ToTensor(img, imaging.InputSize)
	prep.End()

	scores, err := a.classifier.Predict(ctx, tensor)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrClassificationFailed, err)
	}

	c, err := a.interpret(scores)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("prediction.label", c.Label),
		attribute.Float64("prediction.confidence", c.Confidence),
	)
	return c, nil
}

// interpret aplica argmax e monta a distribuição ordenada
func (a *Adapter) interpret(scores []float64) (*entities.Classification, error) {
	if len(scores) != a.labels.Len() {
		return nil, fmt.Errorf("%w: model returned %d scores for %d labels",
			domainerrors.ErrClassificationFailed, len(scores), a.labels.Len())
	}

	best := 0
	probabilities := make(map[string]float64, len(scores))
	for i, score := range scores {
		name, _ := a.labels.Name(i)
		probabilities[name] = score
		if score > scores[best] {
			best = i
		}
	}

	label, _ := a.labels.Name(best)
	return &entities.Classification{
		Label:        label,
		Confidence:   scores[best],
		Distribution: entities.NewDistribution(probabilities),
	}, nil
}
