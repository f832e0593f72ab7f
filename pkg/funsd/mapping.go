package funsd

import (
	"fmt"
	"strings"
)

// Entity is a labeled region with its text resolved.
type Entity struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// OtherEntity is a region whose label matched none of the known classes.
// The original label is retained (lowercased) for inspection.
type OtherEntity struct {
	ID    int    `json:"id"`
	Text  string `json:"text"`
	Label string `json:"label"`
}

// EntityGroups buckets a page's regions by entity class. Membership is
// mutually exclusive; each region lands in exactly one bucket.
type EntityGroups struct {
	Headers   []Entity      `json:"headers"`
	Questions []Entity      `json:"questions"`
	Answers   []Entity      `json:"answers"`
	Others    []OtherEntity `json:"others"`
}

// PairType identifies which role combination produced a key-value pair.
type PairType string

const (
	PairQuestionAnswer PairType = "question_answer"
	PairHeaderQuestion PairType = "header_question"
)

// KeyValuePair is one directed key-value relation derived from a page's
// linking data.
type KeyValuePair struct {
	Type    PairType `json:"type"`
	Key     string   `json:"key"`
	Value   string   `json:"value"`
	KeyID   int      `json:"key_id"`
	ValueID int      `json:"value_id"`
}

// textLookup builds an id-to-text map over the page's texts. If an id
// repeats, the first occurrence wins.
func textLookup(page *Page) map[int]string {
	lookup := make(map[int]string, len(page.Texts))
	for _, t := range page.Texts {
		if _, ok := lookup[t.ID]; !ok {
			lookup[t.ID] = t.Text
		}
	}
	return lookup
}

// labelForID returns the label of the first label record matching the id,
// or "" when no record exists. Ids referenced by relations but absent from
// the page resolve to the empty string rather than an error.
func labelForID(page *Page, id int) string {
	for _, l := range page.Labels {
		if l.ID == id {
			return l.Label
		}
	}
	return ""
}

// GroupEntities classifies every labeled region of a page into one of the
// four entity buckets. A region whose id has no text entry resolves to
// empty text.
func GroupEntities(page *Page) *EntityGroups {
	lookup := textLookup(page)
	groups := &EntityGroups{}

	for _, l := range page.Labels {
		text := lookup[l.ID]
		switch Classify(l.Label) {
		case ClassHeader:
			groups.Headers = append(groups.Headers, Entity{ID: l.ID, Text: text})
		case ClassQuestion:
			groups.Questions = append(groups.Questions, Entity{ID: l.ID, Text: text})
		case ClassAnswer:
			groups.Answers = append(groups.Answers, Entity{ID: l.ID, Text: text})
		default:
			groups.Others = append(groups.Others, OtherEntity{
				ID:    l.ID,
				Text:  text,
				Label: strings.ToLower(l.Label),
			})
		}
	}
	return groups
}

// MapKeyValuePairs scans a page's relations in order and derives key-value
// pairs. A (from, to) pair is considered only on its first occurrence;
// duplicates are silently dropped. A pair is emitted when the endpoint
// labels form a question→answer or header→question edge; any other edge is
// dropped without error.
func MapKeyValuePairs(page *Page) []KeyValuePair {
	lookup := textLookup(page)
	seen := make(map[Relation]bool, len(page.Relations))

	var pairs []KeyValuePair
	for _, rel := range page.Relations {
		if seen[rel] {
			continue
		}
		seen[rel] = true

		fromLabel := strings.ToLower(labelForID(page, rel.FromID))
		toLabel := strings.ToLower(labelForID(page, rel.ToID))

		var pairType PairType
		switch {
		case strings.Contains(fromLabel, "question") && strings.Contains(toLabel, "answer"):
			pairType = PairQuestionAnswer
		case strings.Contains(fromLabel, "header") && strings.Contains(toLabel, "question"):
			pairType = PairHeaderQuestion
		default:
			continue
		}

		pairs = append(pairs, KeyValuePair{
			Type:    pairType,
			Key:     lookup[rel.FromID],
			Value:   lookup[rel.ToID],
			KeyID:   rel.FromID,
			ValueID: rel.ToID,
		})
	}
	return pairs
}

// FlattenPairs builds the per-image key-value map from a list of pairs in
// emission order. A key that already exists in the map is renamed by
// appending _1, _2, ... (checked against the growing map) until a free name
// is found, so a later pair never overwrites an earlier value and every
// original literal key occurs at most once.
func FlattenPairs(pairs []KeyValuePair) KVMap {
	var kv KVMap
	for _, pair := range pairs {
		key := pair.Key
		for counter := 1; kv.Has(key); counter++ {
			key = fmt.Sprintf("%s_%d", pair.Key, counter)
		}
		kv = append(kv, KV{Key: key, Value: pair.Value})
	}
	return kv
}
