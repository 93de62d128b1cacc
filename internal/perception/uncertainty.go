package perception

import "strings"

// uncertaintyPhrases are the fixed patterns that flag text as needing
// clarification before the router may proceed. Matching is case-folded
// substring search, first match wins.
var uncertaintyPhrases = []string{
	"not sure",
	"i don't know",
	"i dont know",
	"could you clarify",
	"can you clarify",
	"what do you mean by",
	"please provide more details",
	"more information",
	"unclear",
	"ambiguous",
	"it depends",
	"hard to say",
}

// Detector flags inputs and model responses that indicate the system
// should not proceed without more information. Pure text matching, no
// I/O, deterministic.
type Detector struct {
	phrases []string
}

// NewDetector creates a detector with the default phrase set.
func NewDetector() *Detector {
	return &Detector{phrases: uncertaintyPhrases}
}

// NewDetectorWithPhrases creates a detector with a custom phrase set.
func NewDetectorWithPhrases(phrases []string) *Detector {
	return &Detector{phrases: phrases}
}

// IsUncertain reports whether text matches any uncertainty phrase.
func (d *Detector) IsUncertain(text string) bool {
	folded := strings.ToLower(text)
	for _, phrase := range d.phrases {
		if strings.Contains(folded, phrase) {
			return true
		}
	}
	return false
}
