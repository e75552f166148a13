package ports

import "context"

// Tensor é um array denso de float32 em ordem row-major (NHWC)
type Tensor struct {
	Shape []int
	Data  []float32
}

// Classifier é o modelo pré-treinado opaco: recebe um lote com uma imagem
// e devolve um score por classe, na ordem do índice de classes.
type Classifier interface {
	Predict(ctx context.Context, input Tensor) ([]float64, error)
}
