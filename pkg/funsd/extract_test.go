package funsd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPage(t *testing.T) {
	annotations := []Annotation{
		{ID: 0, Text: "Date:", Label: "question", Linking: Linking{{From: 0, To: 1}}},
		{ID: 1, Text: "2020-01-01", Label: "answer"},
		{ID: 2, Text: "INVOICE", Label: "header", Linking: Linking{{From: 2, To: 0}}},
	}

	page := ExtractPage(annotations)

	require.Len(t, page.Texts, 3)
	require.Len(t, page.Labels, 3)
	// Input order is preserved.
	assert.Equal(t, TextEntry{ID: 0, Text: "Date:"}, page.Texts[0])
	assert.Equal(t, TextEntry{ID: 2, Text: "INVOICE"}, page.Texts[2])
	assert.Equal(t, LabelEntry{ID: 1, Label: "answer"}, page.Labels[1])

	// Linking entries are flattened in order of appearance.
	require.Len(t, page.Relations, 2)
	assert.Equal(t, Relation{FromID: 0, ToID: 1}, page.Relations[0])
	assert.Equal(t, Relation{FromID: 2, ToID: 0}, page.Relations[1])
}

func TestLinkingSkipsMalformedEntries(t *testing.T) {
	// Entries that are not 2-element integer arrays are dropped, not errors.
	raw := `{"id": 0, "text": "x", "label": "question",
		"linking": [[0, 1], [1], [1, 2, 3], "junk", 7, [3, 4]]}`

	var a Annotation
	require.NoError(t, json.Unmarshal([]byte(raw), &a))

	assert.Equal(t, Linking{{From: 0, To: 1}, {From: 3, To: 4}}, a.Linking)
}

func TestLinkingRoundTrip(t *testing.T) {
	l := Linking{{From: 1, To: 2}, {From: 3, To: 4}}

	data, err := json.Marshal(l)
	require.NoError(t, err)
	assert.JSONEq(t, `[[1,2],[3,4]]`, string(data))
}

func TestParseAnnotationFile(t *testing.T) {
	content := `{
		"0000971160.png": [
			{"id": 0, "text": "Name:", "label": "question", "linking": [[0, 1]]},
			{"id": 1, "text": "Smith", "label": "answer", "linking": []}
		],
		"0000999999.png": []
	}`
	path := filepath.Join(t.TempDir(), "en.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	file, err := ParseAnnotationFile(path)
	require.NoError(t, err)
	require.Len(t, file, 2)
	assert.Equal(t, "Name:", file["0000971160.png"][0].Text)

	assert.Equal(t, []string{"0000971160.png", "0000999999.png"}, ImageNames(file))

	pages := Extract(file)
	require.Contains(t, pages, "0000971160.png")
	assert.Len(t, pages["0000971160.png"].Relations, 1)
	assert.Empty(t, pages["0000999999.png"].Texts)
}

func TestParseAnnotationFileErrors(t *testing.T) {
	_, err := ParseAnnotationFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	_, err = ParseAnnotationFile(path)
	assert.Error(t, err)
}
