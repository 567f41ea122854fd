package textmodel

import (
	"errors"
	"math"
	"sort"
)

// ErrEmptyVocabulary is returned when fitting documents yields no terms.
var ErrEmptyVocabulary = errors.New("empty vocabulary; perhaps the documents only contain stop words")

// VectorizerConfig controls tokenization and weighting.
type VectorizerConfig struct {
	Lowercase       bool `json:"lowercase"`
	RemoveStopWords bool `json:"remove_stop_words"`
	NgramMin        int  `json:"ngram_min"`
	NgramMax        int  `json:"ngram_max"`
	MinDF           int  `json:"min_df"`
	SublinearTF     bool `json:"sublinear_tf"`
}

// DefaultVectorizerConfig: stop words removed, unigrams and bigrams, sublinear tf, min_df 1.
func DefaultVectorizerConfig() VectorizerConfig {
	return VectorizerConfig{
		Lowercase:       true,
		RemoveStopWords: true,
		NgramMin:        1,
		NgramMax:        2,
		MinDF:           1,
		SublinearTF:     true,
	}
}

// SparseVector holds non-zero feature weights sorted by index.
type SparseVector struct {
	Indices []int
	Values  []float64
}

// TfidfVectorizer turns documents into L2-normalised TF-IDF vectors using
// smoothed idf: ln((1+n)/(1+df)) + 1.
type TfidfVectorizer struct {
	Config     VectorizerConfig
	vocabulary map[string]int
	terms      []string
	idf        []float64
}

func NewTfidfVectorizer(cfg VectorizerConfig) *TfidfVectorizer {
	return &TfidfVectorizer{Config: cfg}
}

// Fit learns the vocabulary and idf weights. Terms are indexed in sorted order.
func (v *TfidfVectorizer) Fit(docs []string) error {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range analyze(doc, v.Config) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	minDF := v.Config.MinDF
	if minDF < 1 {
		minDF = 1
	}
	terms := make([]string, 0, len(df))
	for term, count := range df {
		if count >= minDF {
			terms = append(terms, term)
		}
	}
	if len(terms) == 0 {
		return ErrEmptyVocabulary
	}
	sort.Strings(terms)

	n := float64(len(docs))
	v.terms = terms
	v.vocabulary = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	for i, term := range terms {
		v.vocabulary[term] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return nil
}

// Transform vectorizes docs. Unknown terms are ignored.
func (v *TfidfVectorizer) Transform(docs []string) []SparseVector {
	out := make([]SparseVector, len(docs))
	for i, doc := range docs {
		out[i] = v.transformOne(doc)
	}
	return out
}

func (v *TfidfVectorizer) transformOne(doc string) SparseVector {
	counts := make(map[int]float64)
	for _, term := range analyze(doc, v.Config) {
		if idx, ok := v.vocabulary[term]; ok {
			counts[idx]++
		}
	}

	vec := SparseVector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for idx := range counts {
		vec.Indices = append(vec.Indices, idx)
	}
	sort.Ints(vec.Indices)

	var norm float64
	for _, idx := range vec.Indices {
		tf := counts[idx]
		if v.Config.SublinearTF {
			tf = 1 + math.Log(tf)
		}
		w := tf * v.idf[idx]
		vec.Values = append(vec.Values, w)
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec.Values {
			vec.Values[i] /= norm
		}
	}
	return vec
}

// NumFeatures is the vocabulary size.
func (v *TfidfVectorizer) NumFeatures() int {
	return len(v.terms)
}

// Terms returns the vocabulary in index order.
func (v *TfidfVectorizer) Terms() []string {
	return v.terms
}
