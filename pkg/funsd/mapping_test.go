package funsd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		label string
		want  LabelClass
	}{
		{"header", ClassHeader},
		{"HEADER", ClassHeader},
		{"question", ClassQuestion},
		{"Question_Field", ClassQuestion},
		{"answer", ClassAnswer},
		{"other", ClassOther},
		{"", ClassOther},
		{"footnote", ClassOther},
		// First-match-wins on labels containing multiple class substrings.
		{"header_question", ClassHeader},
		{"question_answer", ClassQuestion},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.label))
		})
	}
}

func TestGroupEntities(t *testing.T) {
	page := ExtractPage([]Annotation{
		{ID: 0, Text: "INVOICE", Label: "Header"},
		{ID: 1, Text: "Date:", Label: "question"},
		{ID: 2, Text: "2020", Label: "answer"},
		{ID: 3, Text: "stamp", Label: "Decoration"},
	})

	groups := GroupEntities(page)

	require.Len(t, groups.Headers, 1)
	assert.Equal(t, Entity{ID: 0, Text: "INVOICE"}, groups.Headers[0])
	assert.Len(t, groups.Questions, 1)
	assert.Len(t, groups.Answers, 1)
	require.Len(t, groups.Others, 1)
	// Others retain their (lowercased) original label.
	assert.Equal(t, OtherEntity{ID: 3, Text: "stamp", Label: "decoration"}, groups.Others[0])
}

func TestMapKeyValuePairs(t *testing.T) {
	page := ExtractPage([]Annotation{
		{ID: 1, Text: "Date:", Label: "question", Linking: Linking{{From: 1, To: 2}}},
		{ID: 2, Text: "2020", Label: "answer"},
	})

	pairs := MapKeyValuePairs(page)

	require.Len(t, pairs, 1)
	assert.Equal(t, KeyValuePair{
		Type: PairQuestionAnswer, Key: "Date:", Value: "2020", KeyID: 1, ValueID: 2,
	}, pairs[0])
}

func TestMapKeyValuePairsReversedRelationDropped(t *testing.T) {
	// answer -> question is not a recognized edge; nothing is emitted.
	page := ExtractPage([]Annotation{
		{ID: 1, Text: "Date:", Label: "question"},
		{ID: 2, Text: "2020", Label: "answer", Linking: Linking{{From: 2, To: 1}}},
	})

	assert.Empty(t, MapKeyValuePairs(page))
}

func TestMapKeyValuePairsHeaderQuestion(t *testing.T) {
	page := ExtractPage([]Annotation{
		{ID: 0, Text: "SHIPPING", Label: "header", Linking: Linking{{From: 0, To: 1}}},
		{ID: 1, Text: "Address:", Label: "question"},
	})

	pairs := MapKeyValuePairs(page)

	require.Len(t, pairs, 1)
	assert.Equal(t, PairHeaderQuestion, pairs[0].Type)
	assert.Equal(t, "SHIPPING", pairs[0].Key)
	assert.Equal(t, "Address:", pairs[0].Value)
}

func TestMapKeyValuePairsDeduplicatesRelations(t *testing.T) {
	page := &Page{
		Texts:  []TextEntry{{ID: 1, Text: "Q"}, {ID: 2, Text: "A"}},
		Labels: []LabelEntry{{ID: 1, Label: "question"}, {ID: 2, Label: "answer"}},
		Relations: []Relation{
			{FromID: 1, ToID: 2},
			{FromID: 1, ToID: 2}, // duplicate, silently dropped
		},
	}

	assert.Len(t, MapKeyValuePairs(page), 1)
}

func TestMapKeyValuePairsMissingIDsResolveEmpty(t *testing.T) {
	// Relation endpoints absent from the page resolve to empty strings,
	// not errors. With no label record the edge has no recognized roles
	// and is dropped.
	page := &Page{
		Relations: []Relation{{FromID: 7, ToID: 8}},
	}
	assert.Empty(t, MapKeyValuePairs(page))

	// A labeled endpoint with no text entry still emits a pair with
	// empty text.
	page = &Page{
		Labels:    []LabelEntry{{ID: 1, Label: "question"}, {ID: 2, Label: "answer"}},
		Relations: []Relation{{FromID: 1, ToID: 2}},
	}
	pairs := MapKeyValuePairs(page)
	require.Len(t, pairs, 1)
	assert.Equal(t, "", pairs[0].Key)
	assert.Equal(t, "", pairs[0].Value)
}

func TestTextLookupFirstWriteWins(t *testing.T) {
	page := &Page{
		Texts: []TextEntry{{ID: 1, Text: "first"}, {ID: 1, Text: "second"}},
	}
	assert.Equal(t, "first", textLookup(page)[1])
}

func TestFlattenPairs(t *testing.T) {
	pairs := []KeyValuePair{
		{Key: "Date", Value: "2020"},
		{Key: "Date", Value: "2021"},
		{Key: "Name", Value: "Smith"},
	}

	kv := FlattenPairs(pairs)

	require.Len(t, kv, 3)
	assert.Equal(t, KV{Key: "Date", Value: "2020"}, kv[0])
	assert.Equal(t, KV{Key: "Date_1", Value: "2021"}, kv[1])
	assert.Equal(t, KV{Key: "Name", Value: "Smith"}, kv[2])
}

func TestFlattenPairsSuffixChecksGrowingMap(t *testing.T) {
	// A literal "Date_1" key already present forces the next duplicate of
	// "Date" onto the following free suffix.
	pairs := []KeyValuePair{
		{Key: "Date", Value: "a"},
		{Key: "Date_1", Value: "b"},
		{Key: "Date", Value: "c"},
	}

	kv := FlattenPairs(pairs)

	require.Len(t, kv, 3)
	assert.Equal(t, KV{Key: "Date_2", Value: "c"}, kv[2])
}
