package main

import (
	"math"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// IntentUnknown is returned when no trigger of any intent matched.
const IntentUnknown = "unknown"

const (
	wordPoints      = 1.0
	phrasePoints    = 3.0
	repeatBonus     = 0.5
	priorityWeight  = 0.1
	confidenceScale = 5.0
)

var (
	symbolRun = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	spaceRun  = regexp.MustCompile(`\s+`)
)

// IntentClassifier scores free text against a set of intents.
type IntentClassifier interface {
	Classify(text string) Classification
}

// KeywordClassifier is a heuristic scorer over a catalog's trigger phrases.
// It is immutable after construction and safe for concurrent use.
type KeywordClassifier struct {
	intents []scoredIntent
}

type scoredIntent struct {
	name     string
	weight   float64
	triggers []trigger
}

type trigger struct {
	text   string
	points float64
}

// NewKeywordClassifier prepares the catalog's triggers for scoring.
// Intents keep catalog order, which decides ties.
func NewKeywordClassifier(catalog *Catalog) *KeywordClassifier {
	kc := &KeywordClassifier{
		intents: make([]scoredIntent, 0, len(catalog.Intents)),
	}

	for _, def := range catalog.Intents {
		intent := scoredIntent{
			name:     def.Name,
			weight:   float64(def.Priority)*priorityWeight + 1,
			triggers: make([]trigger, 0, len(def.Triggers)),
		}
		for _, raw := range def.Triggers {
			text := normalizeText(raw)
			if text == "" {
				continue
			}
			points := wordPoints
			if strings.Contains(text, " ") {
				points = phrasePoints
			}
			intent.triggers = append(intent.triggers, trigger{text: text, points: points})
		}
		kc.intents = append(kc.intents, intent)
	}

	return kc
}

// Classify returns the best scoring intent and its confidence in [0,1].
// Equal scores resolve to the intent listed first in the catalog.
func (kc *KeywordClassifier) Classify(text string) Classification {
	normalized := normalizeText(text)
	if normalized == "" {
		return Classification{Intent: IntentUnknown}
	}

	best := Classification{Intent: IntentUnknown}
	bestScore := 0.0

	for _, intent := range kc.intents {
		score := intent.score(normalized)
		if score > bestScore {
			bestScore = score
			best.Intent = intent.name
		}
	}

	if bestScore == 0 {
		return Classification{Intent: IntentUnknown}
	}

	best.Confidence = math.Min(bestScore/confidenceScale, 1.0)
	return best
}

// score adds points for every trigger found in text, plus a bonus for each
// match after the running score passed 1, then applies the priority weight.
func (si scoredIntent) score(text string) float64 {
	raw := 0.0
	for _, t := range si.triggers {
		if !strings.Contains(text, t.text) {
			continue
		}
		if raw > 1 {
			raw += repeatBonus
		}
		raw += t.points
	}
	return raw * si.weight
}

// normalizeText prepares text for substring matching:
//   - Unicode compatibility normalization
//   - Lowercase conversion and trimming
//   - Symbol runs replaced by a single space
//   - Whitespace normalization
func normalizeText(text string) string {
	text = norm.NFKC.String(text)
	text = strings.ToLower(strings.TrimSpace(text))
	text = symbolRun.ReplaceAllString(text, " ")
	text = spaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
