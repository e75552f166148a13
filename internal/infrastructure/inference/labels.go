package inference

import (
	"encoding/json"
	"fmt"
	"os"
)

// LabelIndex mapeia as posições do vetor de saída do modelo para nomes de classe
type LabelIndex struct {
	names []string
	index map[string]int
}

// LoadLabelIndex lê o JSON {"Melanoma": 5, ...} gerado no treinamento
func LoadLabelIndex(path string) (*LabelIndex, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to read label index %s: %w", path, err)
	}
	return ParseLabelIndex(data)
}

// ParseLabelIndex valida que os índices formam a sequência 0..n-1
func ParseLabelIndex(data []byte) (*LabelIndex, error) {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse label index: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("label index is empty")
	}

	names := make([]string, len(raw))
	for name, i := range raw {
		if i < 0 || i >= len(raw) {
			return nil, fmt.Errorf("label %q has out of range index %d", name, i)
		}
		if names[i] != "" {
			return nil, fmt.Errorf("labels %q and %q share index %d", names[i], name, i)
		}
		names[i] = name
	}

	return &LabelIndex{names: names, index: raw}, nil
}

// Len retorna a quantidade de classes
func (l *LabelIndex) Len() int {
	return len(l.names)
}

// Name retorna o nome da classe na posição i
func (l *LabelIndex) Name(i int) (string, bool) {
	if i < 0 || i >= len(l.names) {
		return "", false
	}
	return l.names[i], true
}

// Index retorna a posição da classe
func (l *LabelIndex) Index(name string) (int, bool) {
	i, ok := l.index[name]
	return i, ok
}

// Names retorna os nomes na ordem do índice
func (l *LabelIndex) Names() []string {
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}
