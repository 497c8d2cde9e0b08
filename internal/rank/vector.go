package rank

import (
	"errors"
	"math"
)

// ErrDimensionMismatch indicates two vectors have different lengths.
// Between a query and the catalog it means the model and catalog disagree.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Cosine computes cosine similarity between two vectors of equal length.
//
// A zero-norm vector on either side scores 0. Non-finite results also score 0
// so that ranking stays total.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}
	var dot, na, nb float64
	for i := 0; i < len(a); i++ {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	den := math.Sqrt(na) * math.Sqrt(nb)
	if den == 0 {
		return 0, nil
	}
	s := dot / den
	switch {
	case math.IsNaN(s) || math.IsInf(s, 0):
		return 0, nil
	case s > 1:
		return 1, nil
	case s < -1:
		return -1, nil
	}
	return s, nil
}

// NormalizeL2 returns a new vector normalized to unit L2 norm.
func NormalizeL2(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	n := math.Sqrt(sum)
	if n == 0 {
		copy(out, v)
		return out
	}
	inv := 1.0 / n
	for i := range v {
		out[i] = float32(float64(v[i]) * inv)
	}
	return out
}
