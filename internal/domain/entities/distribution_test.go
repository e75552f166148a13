package entities

import (
	"math"
	"testing"
)

func TestNewDistribution_OrdenaDecrescente(t *testing.T) {
	d := NewDistribution(map[string]float64{
		"Nevus":    0.2,
		"Melanoma": 0.7,
		"Tinea":    0.05,
		"Acne":     0.05,
	})

	expected := []string{"Melanoma", "Nevus", "Acne", "Tinea"}
	if len(d) != len(expected) {
		t.Fatalf("esperava %d entradas, obteve %d", len(expected), len(d))
	}
	for i, label := range expected {
		if d[i].Label != label {
			t.Errorf("posição %d: esperava '%s', obteve '%s'", i, label, d[i].Label)
		}
	}

	top, ok := d.Top()
	if !ok || top.Label != "Melanoma" || top.Probability != 0.7 {
		t.Errorf("top inesperado: %+v", top)
	}
	if math.Abs(d.Sum()-1.0) > 1e-9 {
		t.Errorf("esperava soma 1, obteve %f", d.Sum())
	}
}

func TestDistribution_MarshalJSON_PreservaOrdem(t *testing.T) {
	d := NewDistribution(map[string]float64{"Nevus": 0.3, "Melanoma": 0.7})

	raw, err := SerializeDistribution(d)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	expected := `{"Melanoma":0.7,"Nevus":0.3}`
	if raw != expected {
		t.Errorf("esperava '%s', obteve '%s'", expected, raw)
	}
}

func TestParseDistribution_RoundTrip(t *testing.T) {
	original := map[string]float64{
		"Actinic keratosis": 0.01,
		"Melanoma":          0.62,
		"Melanocytic nevus": 0.3,
		"Vascular lesion":   0.07,
	}

	raw, err := SerializeDistribution(NewDistribution(original))
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	parsed := ParseDistribution(raw).AsMap()
	if len(parsed) != len(original) {
		t.Fatalf("esperava %d entradas, obteve %d", len(original), len(parsed))
	}
	for label, p := range original {
		if parsed[label] != p {
			t.Errorf("classe '%s': esperava %v, obteve %v", label, p, parsed[label])
		}
	}
}

func TestParseDistribution_Degrada(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"texto vazio", ""},
		{"json inválido", "{not json"},
		{"array em vez de objeto", `[0.1, 0.9]`},
		{"valor não numérico", `{"Melanoma":"alto"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ParseDistribution(tt.raw)
			if d == nil || len(d) != 0 {
				t.Errorf("esperava distribuição vazia, obteve %v", d)
			}
		})
	}
}
