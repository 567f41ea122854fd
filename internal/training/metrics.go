package training

import (
	"fmt"
	"sort"
	"strings"
)

// ClassMetrics are the per-label scores of an evaluation.
type ClassMetrics struct {
	Label     string  `json:"label"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Evaluation summarises predictions against the held-out labels.
type Evaluation struct {
	Accuracy    float64        `json:"accuracy"`
	Classes     []ClassMetrics `json:"classes"`
	MacroAvg    ClassMetrics   `json:"macro_avg"`
	WeightedAvg ClassMetrics   `json:"weighted_avg"`
	Support     int            `json:"support"`
}

// Evaluate computes accuracy and per-class precision, recall and F1. Labels seen in
// either truth or predictions are reported; undefined ratios count as zero.
func Evaluate(truth, pred []string) (Evaluation, error) {
	if len(truth) != len(pred) {
		return Evaluation{}, fmt.Errorf("evaluate: %d labels vs %d predictions", len(truth), len(pred))
	}

	labelSet := make(map[string]struct{})
	tp := make(map[string]int)
	predicted := make(map[string]int)
	actual := make(map[string]int)
	correct := 0
	for i := range truth {
		labelSet[truth[i]] = struct{}{}
		labelSet[pred[i]] = struct{}{}
		actual[truth[i]]++
		predicted[pred[i]]++
		if truth[i] == pred[i] {
			tp[truth[i]]++
			correct++
		}
	}
	labels := make([]string, 0, len(labelSet))
	for l := range labelSet {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	ev := Evaluation{Support: len(truth)}
	if len(truth) > 0 {
		ev.Accuracy = float64(correct) / float64(len(truth))
	}

	for _, l := range labels {
		m := ClassMetrics{
			Label:     l,
			Precision: ratio(tp[l], predicted[l]),
			Recall:    ratio(tp[l], actual[l]),
			Support:   actual[l],
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		ev.Classes = append(ev.Classes, m)

		ev.MacroAvg.Precision += m.Precision
		ev.MacroAvg.Recall += m.Recall
		ev.MacroAvg.F1 += m.F1
		w := float64(m.Support)
		ev.WeightedAvg.Precision += m.Precision * w
		ev.WeightedAvg.Recall += m.Recall * w
		ev.WeightedAvg.F1 += m.F1 * w
	}

	ev.MacroAvg.Label, ev.WeightedAvg.Label = "macro avg", "weighted avg"
	ev.MacroAvg.Support, ev.WeightedAvg.Support = ev.Support, ev.Support
	if k := float64(len(labels)); k > 0 {
		ev.MacroAvg.Precision /= k
		ev.MacroAvg.Recall /= k
		ev.MacroAvg.F1 /= k
	}
	if s := float64(ev.Support); s > 0 {
		ev.WeightedAvg.Precision /= s
		ev.WeightedAvg.Recall /= s
		ev.WeightedAvg.F1 /= s
	}
	return ev, nil
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// Report renders the evaluation as a fixed-width text table.
func (e Evaluation) Report() string {
	width := len("weighted avg")
	for _, c := range e.Classes {
		if len(c.Label) > width {
			width = len(c.Label)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%*s %9s %9s %9s %9s\n\n", width, "", "precision", "recall", "f1-score", "support")
	for _, c := range e.Classes {
		fmt.Fprintf(&b, "%*s %9.2f %9.2f %9.2f %9d\n", width, c.Label, c.Precision, c.Recall, c.F1, c.Support)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%*s %9s %9s %9.2f %9d\n", width, "accuracy", "", "", e.Accuracy, e.Support)
	for _, avg := range []ClassMetrics{e.MacroAvg, e.WeightedAvg} {
		fmt.Fprintf(&b, "%*s %9.2f %9.2f %9.2f %9d\n", width, avg.Label, avg.Precision, avg.Recall, avg.F1, avg.Support)
	}
	return b.String()
}
