package embeddings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0, 0}, []float32{1, 0, 0}, 0.0},
		{"parallel scaled", []float32{1, 2, 3}, []float32{2, 4, 6}, 0.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 1.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, 2.0},
		{"empty", nil, nil, 1.0},
		{"length mismatch", []float32{1, 0}, []float32{1}, 1.0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineDistance(tt.a, tt.b), 1e-9)
		})
	}
}
