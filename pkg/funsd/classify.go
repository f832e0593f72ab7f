package funsd

import "strings"

// LabelClass is the fixed set of entity classes a label can fall into.
type LabelClass int

const (
	ClassOther LabelClass = iota
	ClassHeader
	ClassQuestion
	ClassAnswer
)

// String returns the lowercase name of the class.
func (c LabelClass) String() string {
	switch c {
	case ClassHeader:
		return "header"
	case ClassQuestion:
		return "question"
	case ClassAnswer:
		return "answer"
	default:
		return "other"
	}
}

// Classify buckets a label by case-insensitive substring containment,
// checked in fixed priority order: header, question, answer. A label
// containing more than one class substring (e.g. "header_question") gets
// the first match. Anything else is ClassOther.
func Classify(label string) LabelClass {
	lower := strings.ToLower(label)
	switch {
	case strings.Contains(lower, "header"):
		return ClassHeader
	case strings.Contains(lower, "question"):
		return ClassQuestion
	case strings.Contains(lower, "answer"):
		return ClassAnswer
	default:
		return ClassOther
	}
}
