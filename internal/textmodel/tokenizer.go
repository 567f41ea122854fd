package textmodel

import (
	"regexp"
	"strings"
)

// tokenPattern keeps runs of two or more word characters.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// analyze lowercases, tokenizes, drops stop words and expands to n-grams.
func analyze(doc string, cfg VectorizerConfig) []string {
	text := doc
	if cfg.Lowercase {
		text = strings.ToLower(text)
	}

	raw := tokenPattern.FindAllString(text, -1)
	tokens := raw[:0]
	for _, tok := range raw {
		if cfg.RemoveStopWords {
			if _, stop := englishStopWords[tok]; stop {
				continue
			}
		}
		tokens = append(tokens, tok)
	}

	minN, maxN := cfg.NgramMin, cfg.NgramMax
	if minN < 1 {
		minN = 1
	}
	if maxN < minN {
		maxN = minN
	}

	out := make([]string, 0, len(tokens)*(maxN-minN+1))
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}
