package textmodel

import (
	"errors"
	"fmt"
)

// Pipeline chains the TF-IDF vectorizer and the Naive Bayes classifier.
type Pipeline struct {
	Vectorizer *TfidfVectorizer
	Classifier *MultinomialNB
}

// NewPipeline returns an unfitted pipeline with the default configuration.
func NewPipeline() *Pipeline {
	return &Pipeline{
		Vectorizer: NewTfidfVectorizer(DefaultVectorizerConfig()),
		Classifier: NewMultinomialNB(1.0),
	}
}

func (p *Pipeline) Fit(texts, labels []string) error {
	if len(texts) != len(labels) {
		return fmt.Errorf("got %d texts and %d labels", len(texts), len(labels))
	}
	if err := p.Vectorizer.Fit(texts); err != nil {
		return fmt.Errorf("fit vectorizer: %w", err)
	}
	X := p.Vectorizer.Transform(texts)
	if err := p.Classifier.Fit(X, labels, p.Vectorizer.NumFeatures()); err != nil {
		return fmt.Errorf("fit classifier: %w", err)
	}
	return nil
}

func (p *Pipeline) Predict(texts []string) ([]string, error) {
	if p.Vectorizer == nil || p.Classifier == nil || p.Vectorizer.NumFeatures() == 0 {
		return nil, errors.New("pipeline is not fitted")
	}
	return p.Classifier.Predict(p.Vectorizer.Transform(texts))
}

// Classes returns the labels the classifier can emit.
func (p *Pipeline) Classes() []string {
	if p.Classifier == nil {
		return nil
	}
	return p.Classifier.Classes
}
