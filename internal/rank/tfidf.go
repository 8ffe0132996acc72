package rank

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"provsum/internal/textutil"
)

// TermVector is a sparse TF-IDF vector. Indices are ascending positions in
// the vocabulary the vector was built against.
type TermVector struct {
	Indices []int
	Weights []float64
	Norm    float64
}

// IsZero reports whether the vector carries no weight.
func (v TermVector) IsZero() bool { return v.Norm == 0 }

// Vocabulary is the sorted term list of one Vectorize call.
type Vocabulary struct {
	Terms []string
	IDF   []float64
}

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}\p{N}]+)*`)

// Vectorizer builds TF-IDF vectors over a vocabulary taken only from the
// texts it is given. It holds configuration only and is safe for
// concurrent use.
type Vectorizer struct {
	stopwords map[string]struct{}
}

// NewVectorizer creates a vectorizer. With filterStopwords set, common
// English function words are excluded from the vocabulary.
func NewVectorizer(filterStopwords bool) *Vectorizer {
	v := &Vectorizer{}
	if filterStopwords {
		v.stopwords = textutil.Stopwords()
	}
	return v
}

// Vectorize returns one vector per text plus the vocabulary they index.
// Term weight is raw count times smoothed IDF ln((1+n)/(1+df)) + 1.
// Texts with no vocabulary tokens yield zero vectors.
func (z *Vectorizer) Vectorize(texts []string) ([]TermVector, Vocabulary) {
	tokenized := make([][]string, len(texts))
	df := make(map[string]int)
	for i, text := range texts {
		tokenized[i] = z.tokenize(text)
		seen := make(map[string]struct{}, len(tokenized[i]))
		for _, tok := range tokenized[i] {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	// Create stable ordering for vocabulary
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	index := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(texts))
	for i, term := range terms {
		index[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}

	vectors := make([]TermVector, len(texts))
	for i, tokens := range tokenized {
		tf := make(map[int]int, len(tokens))
		for _, tok := range tokens {
			tf[index[tok]]++
		}
		vec := TermVector{
			Indices: make([]int, 0, len(tf)),
			Weights: make([]float64, 0, len(tf)),
		}
		for idx := range tf {
			vec.Indices = append(vec.Indices, idx)
		}
		sort.Ints(vec.Indices)
		sq := 0.0
		for _, idx := range vec.Indices {
			w := float64(tf[idx]) * idf[idx]
			vec.Weights = append(vec.Weights, w)
			sq += w * w
		}
		vec.Norm = math.Sqrt(sq)
		vectors[i] = vec
	}
	return vectors, Vocabulary{Terms: terms, IDF: idf}
}

func (z *Vectorizer) tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	if len(raw) == 0 {
		return nil
	}
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := z.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

// dot computes the inner product of two sparse vectors by merging their
// sorted index lists.
func dot(a, b TermVector) float64 {
	sum := 0.0
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			sum += a.Weights[i] * b.Weights[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}
