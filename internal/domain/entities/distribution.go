package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// LabelScore é a probabilidade atribuída pelo classificador a uma classe
type LabelScore struct {
	Label       string
	Probability float64
}

// Distribution é a distribuição de probabilidades ordenada da maior para a menor.
// Empates são ordenados pelo nome da classe.
type Distribution []LabelScore

// NewDistribution cria uma Distribution ordenada a partir de um mapa classe -> probabilidade
func NewDistribution(scores map[string]float64) Distribution {
	d := make(Distribution, 0, len(scores))
	for label, p := range scores {
		d = append(d, LabelScore{Label: label, Probability: p})
	}
	d.sort()
	return d
}

func (d Distribution) sort() {
	sort.SliceStable(d, func(i, j int) bool {
		if d[i].Probability != d[j].Probability {
			return d[i].Probability > d[j].Probability
		}
		return d[i].Label < d[j].Label
	})
}

// Top retorna a classe de maior probabilidade
func (d Distribution) Top() (LabelScore, bool) {
	if len(d) == 0 {
		return LabelScore{}, false
	}
	return d[0], true
}

// Sum retorna a soma de todas as probabilidades
func (d Distribution) Sum() float64 {
	var total float64
	for _, s := range d {
		total += s.Probability
	}
	return total
}

// AsMap converte a distribuição em mapa classe -> probabilidade
func (d Distribution) AsMap() map[string]float64 {
	m := make(map[string]float64, len(d))
	for _, s := range d {
		m[s.Label] = s.Probability
	}
	return m
}

// MarshalJSON serializa como objeto JSON preservando a ordem decrescente
func (d Distribution) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(s.Label)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(s.Probability)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON lê um objeto JSON classe -> probabilidade e reordena
func (d *Distribution) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("distribution: expected JSON object")
	}

	result := Distribution{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := tok.(string)
		if !ok {
			return fmt.Errorf("distribution: expected string key")
		}
		var p float64
		if err := dec.Decode(&p); err != nil {
			return fmt.Errorf("distribution: invalid probability for %q: %w", label, err)
		}
		result = append(result, LabelScore{Label: label, Probability: p})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	result.sort()
	*d = result
	return nil
}

// SerializeDistribution converte a distribuição para o texto persistido
func SerializeDistribution(d Distribution) (string, error) {
	if d == nil {
		d = Distribution{}
	}
	b, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParseDistribution lê o texto persistido. Texto vazio ou inválido resulta em distribuição vazia.
func ParseDistribution(raw string) Distribution {
	if raw == "" {
		return Distribution{}
	}
	var d Distribution
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return Distribution{}
	}
	return d
}
