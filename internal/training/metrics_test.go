package training

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	ev, err := Evaluate(
		[]string{"a", "a", "b", "b"},
		[]string{"a", "b", "b", "b"},
	)
	require.NoError(t, err)

	assert.InDelta(t, 0.75, ev.Accuracy, 1e-9)
	assert.Equal(t, 4, ev.Support)
	require.Len(t, ev.Classes, 2)

	a, b := ev.Classes[0], ev.Classes[1]
	assert.Equal(t, "a", a.Label)
	assert.InDelta(t, 1.0, a.Precision, 1e-9)
	assert.InDelta(t, 0.5, a.Recall, 1e-9)
	assert.InDelta(t, 2.0/3.0, a.F1, 1e-9)
	assert.Equal(t, 2, a.Support)

	assert.InDelta(t, 2.0/3.0, b.Precision, 1e-9)
	assert.InDelta(t, 1.0, b.Recall, 1e-9)
	assert.InDelta(t, 0.8, b.F1, 1e-9)

	assert.InDelta(t, (2.0/3.0+0.8)/2, ev.MacroAvg.F1, 1e-9)
	assert.InDelta(t, (2.0/3.0*2+0.8*2)/4, ev.WeightedAvg.F1, 1e-9)
}

func TestEvaluate_PredictedOnlyLabel(t *testing.T) {
	ev, err := Evaluate([]string{"a", "a"}, []string{"a", "ghost"})
	require.NoError(t, err)

	require.Len(t, ev.Classes, 2)
	ghost := ev.Classes[1]
	assert.Equal(t, "ghost", ghost.Label)
	assert.Zero(t, ghost.Precision)
	assert.Zero(t, ghost.Recall)
	assert.Zero(t, ghost.Support)
}

func TestEvaluate_LengthMismatch(t *testing.T) {
	_, err := Evaluate([]string{"a"}, nil)
	assert.Error(t, err)
}

func TestEvaluation_Report(t *testing.T) {
	ev, err := Evaluate([]string{"hardware issue", "password reset"}, []string{"hardware issue", "password reset"})
	require.NoError(t, err)

	report := ev.Report()
	assert.Contains(t, report, "precision")
	assert.Contains(t, report, "hardware issue")
	assert.Contains(t, report, "macro avg")
	assert.Contains(t, report, "weighted avg")
	assert.Regexp(t, `accuracy\s+1\.00\s+2`, report)
}
