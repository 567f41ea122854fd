package strategy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

const rankingSystemPrompt = `You are a zero-shot text classifier for IT support tickets.
Rank every candidate label by how well it describes the ticket.
Reply with JSON only, no prose, in the form {"labels": [...], "scores": [...]}:
labels ordered from most to least likely, copied verbatim from the candidate list,
and scores between 0 and 1 in the same order.`

func rankingUserPrompt(text string, labels []string) string {
	var b strings.Builder
	b.WriteString("Candidate labels:\n")
	for _, l := range labels {
		fmt.Fprintf(&b, "- %s\n", l)
	}
	b.WriteString("\nTicket:\n")
	b.WriteString(text)
	return b.String()
}

type rankingReply struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// parseRanking maps a model reply onto the candidate labels, best first. Only
// candidates are returned, each at most once. A reply that is not JSON is
// scanned for candidate labels in order of appearance.
func parseRanking(reply string, candidates []string) []string {
	byKey := make(map[string]string, len(candidates))
	for _, c := range candidates {
		byKey[normalizeLabel(c)] = c
	}

	var parsed rankingReply
	if obj, ok := jsonObject(reply); ok && json.Unmarshal([]byte(obj), &parsed) == nil && len(parsed.Labels) > 0 {
		labels := parsed.Labels
		if len(parsed.Scores) == len(labels) {
			idx := make([]int, len(labels))
			for i := range idx {
				idx[i] = i
			}
			sort.SliceStable(idx, func(a, b int) bool { return parsed.Scores[idx[a]] > parsed.Scores[idx[b]] })
			sorted := make([]string, len(labels))
			for i, j := range idx {
				sorted[i] = labels[j]
			}
			labels = sorted
		}
		return matchCandidates(labels, byKey)
	}

	return scanCandidates(reply, candidates)
}

func matchCandidates(labels []string, byKey map[string]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range labels {
		c, ok := byKey[normalizeLabel(l)]
		if !ok || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func scanCandidates(reply string, candidates []string) []string {
	lower := strings.ToLower(reply)
	type hit struct {
		label string
		pos   int
	}
	var hits []hit
	for _, c := range candidates {
		if pos := strings.Index(lower, strings.ToLower(c)); pos >= 0 {
			hits = append(hits, hit{label: c, pos: pos})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].pos < hits[b].pos })
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.label
	}
	return out
}

// jsonObject extracts the outermost {...} span, tolerating code fences and prose.
func jsonObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func normalizeLabel(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.Trim(s, " \t\n\"'`.-*"))), " ")
}
