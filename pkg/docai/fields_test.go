package docai

import (
	"testing"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donutprep/donutprep/pkg/funsd"
)

func layout(start, end int64) *documentaipb.Document_Page_Layout {
	return &documentaipb.Document_Page_Layout{
		TextAnchor: &documentaipb.Document_TextAnchor{
			TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{
				{StartIndex: start, EndIndex: end},
			},
		},
	}
}

func formField(name, value *documentaipb.Document_Page_Layout) *documentaipb.Document_Page_FormField {
	return &documentaipb.Document_Page_FormField{
		FieldName:  name,
		FieldValue: value,
	}
}

func TestAnnotations(t *testing.T) {
	//                         0         1         2
	//                         0123456789012345678901234567
	doc := &documentaipb.Document{
		Text: "Date: 2020-01-01 Total: 9.50",
		Pages: []*documentaipb.Document_Page{{
			FormFields: []*documentaipb.Document_Page_FormField{
				formField(layout(0, 5), layout(6, 16)),
				formField(layout(17, 23), layout(24, 28)),
			},
		}},
	}

	annotations := Annotations(doc)
	require.Len(t, annotations, 4)

	assert.Equal(t, funsd.Annotation{
		ID:      0,
		Text:    "Date",
		Label:   "question",
		Linking: funsd.Linking{{From: 0, To: 1}},
	}, annotations[0])
	assert.Equal(t, funsd.Annotation{ID: 1, Text: "2020-01-01", Label: "answer"}, annotations[1])

	assert.Equal(t, 2, annotations[2].ID)
	assert.Equal(t, "Total", annotations[2].Text)
	assert.Equal(t, funsd.Linking{{From: 2, To: 3}}, annotations[2].Linking)
	assert.Equal(t, "9.50", annotations[3].Text)
}

func TestAnnotationsDropsEmptyNames(t *testing.T) {
	doc := &documentaipb.Document{
		Text: "   value",
		Pages: []*documentaipb.Document_Page{{
			FormFields: []*documentaipb.Document_Page_FormField{
				formField(layout(0, 3), layout(3, 8)),
			},
		}},
	}

	assert.Empty(t, Annotations(doc))
}

func TestAnnotationsIDsSpanPages(t *testing.T) {
	doc := &documentaipb.Document{
		Text: "A: 1 B: 2",
		Pages: []*documentaipb.Document_Page{
			{FormFields: []*documentaipb.Document_Page_FormField{
				formField(layout(0, 2), layout(3, 4)),
			}},
			{FormFields: []*documentaipb.Document_Page_FormField{
				formField(layout(5, 7), layout(8, 9)),
			}},
		},
	}

	annotations := Annotations(doc)
	require.Len(t, annotations, 4)
	assert.Equal(t, []int{0, 1, 2, 3}, []int{
		annotations[0].ID, annotations[1].ID, annotations[2].ID, annotations[3].ID,
	})
	assert.Equal(t, "B", annotations[2].Text)
}

func TestTextFromLayoutClampsSegments(t *testing.T) {
	full := "short"
	assert.Equal(t, "short", textFromLayout(layout(0, 100), full))
	assert.Equal(t, "", textFromLayout(layout(10, 20), full))
	assert.Equal(t, "", textFromLayout(nil, full))
}

func TestTextFromLayoutRuneIndexing(t *testing.T) {
	// Offsets count runes, not bytes.
	full := "naïve: oui"
	assert.Equal(t, "naïve", textFromLayout(layout(0, 5), full))
	assert.Equal(t, "oui", textFromLayout(layout(7, 10), full))
}

func TestAnnotationFile(t *testing.T) {
	doc := &documentaipb.Document{
		Text: "K: v",
		Pages: []*documentaipb.Document_Page{{
			FormFields: []*documentaipb.Document_Page_FormField{
				formField(layout(0, 2), layout(3, 4)),
			},
		}},
	}

	file := AnnotationFile(doc, "scan_001.png")
	require.Contains(t, file, "scan_001.png")
	assert.Len(t, file["scan_001.png"], 2)
}
