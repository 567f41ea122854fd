package textmodel

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	trainTexts = []string{
		"My laptop screen is cracked and flickering",
		"Keyboard keys are broken on my desktop",
		"The monitor will not power on",
		"Application crashes when I click save",
		"Error 500 when submitting the form in the app",
		"The report export produces a stack trace",
		"I forgot my password and cannot log in",
		"Please reset my password, account locked",
		"Password expired, need a reset link",
	}
	trainLabels = []string{
		"hardware issue", "hardware issue", "hardware issue",
		"software bug", "software bug", "software bug",
		"password reset", "password reset", "password reset",
	}
)

func TestAnalyze(t *testing.T) {
	cfg := DefaultVectorizerConfig()

	t.Run("stop words removed before bigrams", func(t *testing.T) {
		got := analyze("The Printer is jammed", cfg)
		assert.Equal(t, []string{"printer", "jammed", "printer jammed"}, got)
	})

	t.Run("single character tokens dropped", func(t *testing.T) {
		got := analyze("a b cd", VectorizerConfig{Lowercase: true, NgramMin: 1, NgramMax: 1})
		assert.Equal(t, []string{"cd"}, got)
	})

	t.Run("empty document", func(t *testing.T) {
		assert.Empty(t, analyze("", cfg))
	})
}

func TestTfidfVectorizer(t *testing.T) {
	t.Run("vocabulary sorted and vectors normalised", func(t *testing.T) {
		v := NewTfidfVectorizer(DefaultVectorizerConfig())
		require.NoError(t, v.Fit([]string{"disk failure", "disk error"}))

		assert.Equal(t, []string{"disk", "disk error", "disk failure", "error", "failure"}, v.Terms())

		vecs := v.Transform([]string{"disk failure disk", "unknown words only"})
		var norm float64
		for _, w := range vecs[0].Values {
			norm += w * w
		}
		assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
		assert.Empty(t, vecs[1].Indices)
	})

	t.Run("only stop words", func(t *testing.T) {
		v := NewTfidfVectorizer(DefaultVectorizerConfig())
		assert.ErrorIs(t, v.Fit([]string{"the and of", "is it"}), ErrEmptyVocabulary)
	})

	t.Run("rarer terms weigh more", func(t *testing.T) {
		v := NewTfidfVectorizer(VectorizerConfig{Lowercase: true, NgramMin: 1, NgramMax: 1, MinDF: 1})
		require.NoError(t, v.Fit([]string{"vpn down", "vpn slow", "vpn printer"}))

		vec := v.Transform([]string{"vpn printer"})[0]
		weights := map[string]float64{}
		for i, idx := range vec.Indices {
			weights[v.Terms()[idx]] = vec.Values[i]
		}
		assert.Greater(t, weights["printer"], weights["vpn"])
	})
}

func TestMultinomialNB(t *testing.T) {
	t.Run("mismatched input", func(t *testing.T) {
		nb := NewMultinomialNB(1)
		assert.Error(t, nb.Fit([]SparseVector{{}}, nil, 3))
	})

	t.Run("unfitted predict", func(t *testing.T) {
		_, err := NewMultinomialNB(1).Predict([]SparseVector{{}})
		assert.Error(t, err)
	})

	t.Run("priors decide empty vectors", func(t *testing.T) {
		nb := NewMultinomialNB(0)
		X := []SparseVector{
			{Indices: []int{0}, Values: []float64{1}},
			{Indices: []int{0}, Values: []float64{1}},
			{Indices: []int{1}, Values: []float64{1}},
		}
		require.NoError(t, nb.Fit(X, []string{"b", "b", "a"}, 2))
		assert.Equal(t, 1.0, nb.Alpha)
		assert.Equal(t, []string{"a", "b"}, nb.Classes)

		got, err := nb.Predict([]SparseVector{{}, {Indices: []int{1}, Values: []float64{1}}})
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a"}, got)
	})
}

func TestPipelineFitPredict(t *testing.T) {
	p := NewPipeline()
	require.NoError(t, p.Fit(trainTexts, trainLabels))

	got, err := p.Predict([]string{
		"my screen is cracked",
		"the app crashes with an error",
		"cannot log in, forgot password",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"hardware issue", "software bug", "password reset"}, got)
	assert.Equal(t, []string{"hardware issue", "password reset", "software bug"}, p.Classes())
}

func TestPipelineUnfitted(t *testing.T) {
	_, err := NewPipeline().Predict([]string{"anything"})
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "model", "classifier.pkl")

	p := NewPipeline()
	require.NoError(t, p.Fit(trainTexts, trainLabels))
	require.NoError(t, Save(path, p))

	loaded, err := Load(path)
	require.NoError(t, err)

	probe := []string{"keyboard broken", "reset password please", "stack trace on export"}
	want, err := p.Predict(probe)
	require.NoError(t, err)
	got, err := loaded.Predict(probe)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	t.Run("overwrites existing artifact", func(t *testing.T) {
		other := NewPipeline()
		require.NoError(t, other.Fit([]string{"vpn down", "vpn slow"}, []string{"network", "network"}))
		require.NoError(t, Save(path, other))

		reloaded, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"network"}, reloaded.Classes())
	})
}

const mismatchedArtifact = `{"format_version":1,"vectorizer":{"terms":["printer"],"idf":[1]},` +
	`"classifier":{"alpha":1,"classes":["a","b"],"class_log_prior":[0],"feature_log_prob":[[0]]}}`

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "absent.pkl"))
		assert.ErrorIs(t, err, ErrArtifactNotFound)
	})

	t.Run("garbage file", func(t *testing.T) {
		path := filepath.Join(dir, "garbage.pkl")
		require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
		_, err := Load(path)
		assert.ErrorContains(t, err, "decode model")
	})

	t.Run("wrong version", func(t *testing.T) {
		path := filepath.Join(dir, "v9.pkl")
		require.NoError(t, os.WriteFile(path, []byte(`{"format_version":9}`), 0o644))
		_, err := Load(path)
		assert.ErrorContains(t, err, "unsupported model format version")
	})

	t.Run("class arrays disagree", func(t *testing.T) {
		path := filepath.Join(dir, "mismatch.pkl")
		require.NoError(t, os.WriteFile(path, []byte(mismatchedArtifact), 0o644))
		_, err := Load(path)
		assert.ErrorContains(t, err, "2 classes, 1 priors and 1 feature rows")
	})

	t.Run("no classes", func(t *testing.T) {
		path := filepath.Join(dir, "empty.pkl")
		doc := `{"format_version":1,"vectorizer":{"terms":["printer"],"idf":[1]},"classifier":{"alpha":1,"classes":[],"class_log_prior":[],"feature_log_prob":[]}}`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
		_, err := Load(path)
		assert.ErrorContains(t, err, "0 classes")
	})

	t.Run("unfitted save refused", func(t *testing.T) {
		assert.Error(t, Save(filepath.Join(dir, "x.pkl"), NewPipeline()))
	})
}
