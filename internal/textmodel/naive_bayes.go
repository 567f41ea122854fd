package textmodel

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// MultinomialNB is a multinomial Naive Bayes classifier with additive smoothing.
type MultinomialNB struct {
	Alpha          float64     `json:"alpha"`
	Classes        []string    `json:"classes"`
	ClassLogPrior  []float64   `json:"class_log_prior"`
	FeatureLogProb [][]float64 `json:"feature_log_prob"`
}

func NewMultinomialNB(alpha float64) *MultinomialNB {
	if alpha <= 0 {
		alpha = 1.0
	}
	return &MultinomialNB{Alpha: alpha}
}

// Fit estimates priors and per-class feature probabilities. Classes are sorted.
func (nb *MultinomialNB) Fit(X []SparseVector, y []string, nFeatures int) error {
	if len(X) != len(y) {
		return fmt.Errorf("sample count mismatch: %d vectors, %d labels", len(X), len(y))
	}
	if len(X) == 0 {
		return errors.New("cannot fit on zero samples")
	}
	if nFeatures <= 0 {
		return errors.New("cannot fit with zero features")
	}

	classIndex := make(map[string]int)
	for _, label := range y {
		classIndex[label] = 0
	}
	classes := make([]string, 0, len(classIndex))
	for c := range classIndex {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	for i, c := range classes {
		classIndex[c] = i
	}

	classCount := make([]float64, len(classes))
	featureCount := make([][]float64, len(classes))
	for i := range featureCount {
		featureCount[i] = make([]float64, nFeatures)
	}
	for i, vec := range X {
		ci := classIndex[y[i]]
		classCount[ci]++
		for j, idx := range vec.Indices {
			featureCount[ci][idx] += vec.Values[j]
		}
	}

	nb.Classes = classes
	nb.ClassLogPrior = make([]float64, len(classes))
	nb.FeatureLogProb = make([][]float64, len(classes))
	total := float64(len(X))
	for ci := range classes {
		nb.ClassLogPrior[ci] = math.Log(classCount[ci] / total)

		var sum float64
		for _, c := range featureCount[ci] {
			sum += c + nb.Alpha
		}
		logSum := math.Log(sum)
		row := make([]float64, nFeatures)
		for f, c := range featureCount[ci] {
			row[f] = math.Log(c+nb.Alpha) - logSum
		}
		nb.FeatureLogProb[ci] = row
	}
	return nil
}

// Predict returns the most likely class per vector; ties go to the first class in sort order.
func (nb *MultinomialNB) Predict(X []SparseVector) ([]string, error) {
	if len(nb.Classes) == 0 {
		return nil, errors.New("classifier is not fitted")
	}
	out := make([]string, len(X))
	for i, vec := range X {
		best, bestScore := 0, math.Inf(-1)
		for ci := range nb.Classes {
			score := nb.ClassLogPrior[ci]
			row := nb.FeatureLogProb[ci]
			for j, idx := range vec.Indices {
				if idx < len(row) {
					score += vec.Values[j] * row[idx]
				}
			}
			if score > bestScore {
				best, bestScore = ci, score
			}
		}
		out[i] = nb.Classes[best]
	}
	return out, nil
}
