package textmodel

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
)

const artifactFormatVersion = 1

// ErrArtifactNotFound is returned by Load when no artifact exists at the path.
var ErrArtifactNotFound = errors.New("model artifact not found")

type artifact struct {
	FormatVersion int              `json:"format_version"`
	CreatedAt     time.Time        `json:"created_at"`
	Vectorizer    vectorizerRecord `json:"vectorizer"`
	Classifier    *MultinomialNB   `json:"classifier"`
}

type vectorizerRecord struct {
	Config VectorizerConfig `json:"config"`
	Terms  []string         `json:"terms"`
	IDF    []float64        `json:"idf"`
}

// Save writes the fitted pipeline to path, creating parent directories and
// replacing any existing file.
func Save(path string, p *Pipeline) error {
	if p == nil || p.Vectorizer == nil || p.Classifier == nil || p.Vectorizer.NumFeatures() == 0 {
		return errors.New("refusing to save an unfitted pipeline")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create model directory: %w", err)
	}

	data, err := json.Marshal(artifact{
		FormatVersion: artifactFormatVersion,
		CreatedAt:     time.Now().UTC(),
		Vectorizer: vectorizerRecord{
			Config: p.Vectorizer.Config,
			Terms:  p.Vectorizer.terms,
			IDF:    p.Vectorizer.idf,
		},
		Classifier: p.Classifier,
	})
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".model-*")
	if err != nil {
		return fmt.Errorf("create temp model file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close model file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace model file: %w", err)
	}
	return nil
}

// Load reads a pipeline written by Save.
func Load(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, path)
		}
		return nil, fmt.Errorf("read model: %w", err)
	}

	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if a.FormatVersion != artifactFormatVersion {
		return nil, fmt.Errorf("unsupported model format version %d", a.FormatVersion)
	}
	if a.Classifier == nil || len(a.Vectorizer.Terms) == 0 || len(a.Vectorizer.Terms) != len(a.Vectorizer.IDF) {
		return nil, errors.New("model artifact is incomplete")
	}
	nb := a.Classifier
	if len(nb.Classes) == 0 || len(nb.ClassLogPrior) != len(nb.Classes) || len(nb.FeatureLogProb) != len(nb.Classes) {
		return nil, fmt.Errorf("model artifact has %d classes, %d priors and %d feature rows",
			len(nb.Classes), len(nb.ClassLogPrior), len(nb.FeatureLogProb))
	}
	for ci, row := range a.Classifier.FeatureLogProb {
		if len(row) != len(a.Vectorizer.Terms) {
			return nil, fmt.Errorf("class %d has %d features, vocabulary has %d", ci, len(row), len(a.Vectorizer.Terms))
		}
	}

	vec := &TfidfVectorizer{
		Config:     a.Vectorizer.Config,
		terms:      a.Vectorizer.Terms,
		idf:        a.Vectorizer.IDF,
		vocabulary: make(map[string]int, len(a.Vectorizer.Terms)),
	}
	for i, term := range vec.terms {
		vec.vocabulary[term] = i
	}
	return &Pipeline{Vectorizer: vec, Classifier: a.Classifier}, nil
}
