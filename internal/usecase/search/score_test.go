package search

import (
	"math"
	"testing"
)

func TestCosineSimilarityIdentical(t *testing.T) {
	v := []float64{0.3, -1.2, 4.5}
	if got := cosineSimilarity(v, v); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("cosine(v, v) = %v, want 1.0", got)
	}
}

func TestCosineSimilarityScaleInvariant(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{10, 20, 30}
	if got := cosineSimilarity(a, b); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("cosine of scaled vectors = %v, want 1.0", got)
	}
}

func TestCosineSimilarityOrthogonal(t *testing.T) {
	if got := cosineSimilarity([]float64{1, 0}, []float64{0, 1}); got != 0 {
		t.Errorf("cosine of orthogonal vectors = %v, want 0", got)
	}
}

func TestCosineSimilarityDegenerateInputs(t *testing.T) {
	cases := []struct {
		name string
		a, b []float64
	}{
		{"empty query", nil, []float64{1, 2}},
		{"empty candidate", []float64{1, 2}, nil},
		{"zero norm", []float64{0, 0}, []float64{1, 2}},
		{"length mismatch", []float64{1, 2, 3}, []float64{1, 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cosineSimilarity(tc.a, tc.b); got != 0 {
				t.Errorf("got %v, want 0.0", got)
			}
		})
	}
}
