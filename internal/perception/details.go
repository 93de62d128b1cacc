package perception

import "regexp"

// DetailKind names a class of extractable request detail.
type DetailKind string

const (
	DetailTime  DetailKind = "time"
	DetailDate  DetailKind = "date"
	DetailEmail DetailKind = "email"
	DetailPhone DetailKind = "phone"
)

// AllDetailKinds lists every recognized kind in extraction order.
var AllDetailKinds = []DetailKind{DetailTime, DetailDate, DetailEmail, DetailPhone}

// ExtractedDetail is the result of matching one detail kind against a
// request. Confidence is binary: a detail is either literally present
// in the text (1.0) or treated as entirely missing (0.0).
type ExtractedDetail struct {
	Kind       DetailKind
	Found      bool
	Value      string
	Confidence float64
}

var detailPatterns = map[DetailKind]*regexp.Regexp{
	// 3pm, 3:30 pm, 15:00
	DetailTime: regexp.MustCompile(`(?i)\b\d{1,2}(:\d{2})?\s*(am|pm)\b|\b([01]?\d|2[0-3]):[0-5]\d\b`),
	// 2025-10-26, 10/26/2025, "tomorrow", "next monday", month names
	DetailDate: regexp.MustCompile(`(?i)\b\d{4}-\d{2}-\d{2}\b|\b\d{1,2}/\d{1,2}(/\d{2,4})?\b|\b(today|tomorrow|tonight)\b|\bnext\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday|week|month)\b|\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}\b`),
	DetailEmail: regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`),
	// 555-123-4567, (555) 123-4567, +1 555 123 4567
	DetailPhone: regexp.MustCompile(`(?:\+?\d{1,2}[\s.\-])?\(?\d{3}\)?[\s.\-]?\d{3}[\s.\-]?\d{4}\b`),
}

// ParseDetailKind maps a config-file name to a detail kind.
func ParseDetailKind(name string) (DetailKind, bool) {
	for _, kind := range AllDetailKinds {
		if string(kind) == name {
			return kind, true
		}
	}
	return "", false
}

// ExtractDetails matches every recognized detail kind against text.
// The result always has one entry per kind, in AllDetailKinds order:
// Found=false/Confidence=0 on no match, else the first match with
// Confidence=1. Pure and deterministic.
func (d *Detector) ExtractDetails(text string) []ExtractedDetail {
	out := make([]ExtractedDetail, 0, len(AllDetailKinds))
	for _, kind := range AllDetailKinds {
		detail := ExtractedDetail{Kind: kind}
		if m := detailPatterns[kind].FindString(text); m != "" {
			detail.Found = true
			detail.Value = m
			detail.Confidence = 1.0
		}
		out = append(out, detail)
	}
	return out
}

// Detail returns the extraction result for a single kind.
func (d *Detector) Detail(text string, kind DetailKind) ExtractedDetail {
	detail := ExtractedDetail{Kind: kind}
	re, ok := detailPatterns[kind]
	if !ok {
		return detail
	}
	if m := re.FindString(text); m != "" {
		detail.Found = true
		detail.Value = m
		detail.Confidence = 1.0
	}
	return detail
}
