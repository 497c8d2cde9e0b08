package embeddings

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// DefaultHashDim matches the output size of common small sentence encoders.
const DefaultHashDim = 384

const bigramWeight = 0.5

// HashProvider is a deterministic, offline feature-hashing embedder.
// Word unigrams and adjacent bigrams are hashed with FNV-1a into signed
// buckets and the result is L2-normalized. It captures lexical overlap,
// not meaning.
type HashProvider struct {
	dim int
}

// NewHash returns a HashProvider producing vectors of length dim.
func NewHash(dim int) *HashProvider {
	if dim <= 0 {
		dim = DefaultHashDim
	}
	return &HashProvider{dim: dim}
}

func (h *HashProvider) ModelID() string {
	return "hash:" + strconv.Itoa(h.dim)
}

func (h *HashProvider) Dim() int {
	return h.dim
}

func (h *HashProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("cannot embed empty text")
	}

	vec := make([]float64, h.dim)
	tokens := Tokenize(text)
	for i, tok := range tokens {
		h.add(vec, tok, 1)
		if i > 0 {
			h.add(vec, tokens[i-1]+" "+tok, bigramWeight)
		}
	}

	var sum float64
	for _, x := range vec {
		sum += x * x
	}
	out := make([]float32, h.dim)
	if sum == 0 {
		return out, nil
	}
	inv := 1 / math.Sqrt(sum)
	for i, x := range vec {
		out[i] = float32(x * inv)
	}
	return out, nil
}

func (h *HashProvider) add(vec []float64, feature string, weight float64) {
	f := fnv.New64a()
	_, _ = f.Write([]byte(feature))
	sum := f.Sum64()
	idx := int(sum % uint64(h.dim))
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[idx] += weight
}

// Tokenize NFC-normalizes and case-folds text, then splits it on anything
// that is not a letter or digit.
func Tokenize(text string) []string {
	folded := cases.Fold().String(norm.NFC.String(text))
	return strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
