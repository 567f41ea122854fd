package training

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/godilite/ticket-classifier/internal/dataset"
	"github.com/godilite/ticket-classifier/internal/repository/models"
	"github.com/godilite/ticket-classifier/internal/textmodel"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RunRecorder stores a summary of each completed training run.
type RunRecorder interface {
	SaveRun(ctx context.Context, run models.TrainingRun) error
}

// Notifier announces a completed training run.
type Notifier interface {
	NotifyTrainingRun(ctx context.Context, run models.TrainingRun) error
}

// Options describe one training run.
type Options struct {
	DataPath  string
	ModelPath string
	Seed      int64
}

// Result is what a finished run produced.
type Result struct {
	Run        models.TrainingRun
	Split      Split
	Evaluation Evaluation
}

// Trainer fits, evaluates and persists the ticket pipeline.
type Trainer struct {
	runs     RunRecorder
	notifier Notifier
	logger   *zap.Logger
	out      io.Writer
}

// NewTrainer creates a Trainer. runs and notifier are optional.
func NewTrainer(runs RunRecorder, notifier Notifier, logger *zap.Logger, out io.Writer) *Trainer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if out == nil {
		out = os.Stdout
	}
	return &Trainer{
		runs:     runs,
		notifier: notifier,
		logger:   logger.Named("trainer"),
		out:      out,
	}
}

// Train reads the corpus, splits it, fits the pipeline, prints the evaluation and
// writes the artifact to opts.ModelPath.
func (t *Trainer) Train(ctx context.Context, opts Options) (*Result, error) {
	started := time.Now()

	examples, err := dataset.ReadLabeledFile(opts.DataPath)
	if err != nil {
		return nil, err
	}
	texts := make([]string, len(examples))
	labels := make([]string, len(examples))
	for i, ex := range examples {
		texts[i], labels[i] = ex.Text, ex.Category
	}
	t.logger.Info("loaded training data",
		zap.String("path", opts.DataPath),
		zap.Int("rows", len(examples)),
		zap.Int("classes", countClasses(labels)))

	split, err := ChooseSplit(labels, opts.Seed, t.logger)
	if err != nil {
		return nil, err
	}
	if split.Strategy == SplitFullSet {
		fmt.Fprintln(t.out, "[INFO] Small dataset detected - training on full set without hold-out test.")
	}

	pipeline := textmodel.NewPipeline()
	if err := pipeline.Fit(pick(texts, split.Train), pick(labels, split.Train)); err != nil {
		return nil, fmt.Errorf("fit pipeline: %w", err)
	}

	pred, err := pipeline.Predict(pick(texts, split.Test))
	if err != nil {
		return nil, fmt.Errorf("predict test set: %w", err)
	}
	eval, err := Evaluate(pick(labels, split.Test), pred)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(t.out, "Accuracy:", eval.Accuracy)
	fmt.Fprintf(t.out, "\nClassification Report:\n%s\n", eval.Report())

	if err := textmodel.Save(opts.ModelPath, pipeline); err != nil {
		return nil, fmt.Errorf("save model: %w", err)
	}
	fmt.Fprintf(t.out, "Model saved to %s\n", opts.ModelPath)

	run := models.TrainingRun{
		ID:            uuid.NewString(),
		DataPath:      opts.DataPath,
		ModelPath:     opts.ModelPath,
		TotalRows:     len(examples),
		ClassCount:    countClasses(labels),
		TrainRows:     len(split.Train),
		TestRows:      len(split.Test),
		TestSize:      split.TestSize,
		SplitStrategy: string(split.Strategy),
		Accuracy:      eval.Accuracy,
		CreatedAt:     time.Now().UTC(),
	}
	t.logger.Info("training run completed",
		zap.String("run_id", run.ID),
		zap.String("split", run.SplitStrategy),
		zap.Float64("accuracy", run.Accuracy),
		zap.Duration("duration", time.Since(started)))

	// the artifact is already written; history and notification are best effort
	if t.runs != nil {
		if err := t.runs.SaveRun(ctx, run); err != nil {
			t.logger.Warn("failed to record training run", zap.String("run_id", run.ID), zap.Error(err))
		}
	}
	if t.notifier != nil {
		if err := t.notifier.NotifyTrainingRun(ctx, run); err != nil {
			t.logger.Warn("failed to send training notification", zap.String("run_id", run.ID), zap.Error(err))
		}
	}

	return &Result{Run: run, Split: split, Evaluation: eval}, nil
}

func pick(values []string, idx []int) []string {
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = values[j]
	}
	return out
}
