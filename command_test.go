package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCommand_Variants(t *testing.T) {
	cases := []struct {
		name string
		body string
		want Command
	}{
		{
			"food",
			`{"type":"food","items":[{"description":"Banana","calories":105,"protein":1.3}]}`,
			foodCommand{Items: []itemInput{{Description: "Banana", Calories: 105, ProteinG: ptr(1.3)}}},
		},
		{
			"exercise",
			`{"type":"exercise","items":[{"description":"Run 5k","calories":350}]}`,
			exerciseCommand{Items: []itemInput{{Description: "Run 5k", Calories: 350}}},
		},
		{
			"weight",
			`{"type":"weight","weight":78.4}`,
			weightCommand{WeightKG: 78.4},
		},
		{
			"edit",
			`{"type":"edit","search":"banana","update":{"calories":120}}`,
			editCommand{Search: "banana", Update: entryUpdate{Calories: ptr(120)}},
		},
		{
			"multi_edit",
			`{"type":"multi_edit","edits":[{"search":"egg","update":{"protein":13}},{"search":"toast","update":{"description":"Rye toast"}}]}`,
			multiEditCommand{Edits: []editCommand{
				{Search: "egg", Update: entryUpdate{ProteinG: ptr(13.0)}},
				{Search: "toast", Update: entryUpdate{Description: ptr("Rye toast")}},
			}},
		},
		{
			"delete",
			`{"type":"delete","search":"coffee"}`,
			deleteCommand{Search: "coffee"},
		},
		{
			"chat",
			`{"type":"chat","message":"Nice work today"}`,
			infoCommand{Kind: "chat", Message: "Nice work today"},
		},
		{
			"meal_recommendation",
			`{"type":"meal_recommendation","message":"Try grilled chicken"}`,
			infoCommand{Kind: "meal_recommendation", Message: "Try grilled chicken"},
		},
		{
			"flagged error",
			`{"type":"food","is_error":true,"message":"I could not tell what you ate"}`,
			suppressedCommand{Kind: "food", Message: "I could not tell what you ate"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := decodeCommand([]byte(tc.body))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeCommand_Rejects(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"malformed", `{"type":`, "command"},
		{"missing type", `{"items":[]}`, "type"},
		{"unknown type", `{"type":"teleport"}`, "type"},
		{"food without items", `{"type":"food","items":[]}`, "items"},
		{"blank description", `{"type":"food","items":[{"description":"  ","calories":5}]}`, "items"},
		{"negative calories", `{"type":"exercise","items":[{"description":"Walk","calories":-5}]}`, "items"},
		{"weight missing", `{"type":"weight"}`, "weight"},
		{"weight zero", `{"type":"weight","weight":0}`, "weight"},
		{"weight too large", `{"type":"weight","weight":1000}`, "weight"},
		{"edit without search", `{"type":"edit","update":{"calories":1}}`, "search"},
		{"edit without update", `{"type":"edit","search":"egg"}`, "update"},
		{"multi_edit empty", `{"type":"multi_edit","edits":[]}`, "edits"},
		{"delete without search", `{"type":"delete"}`, "search"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decodeCommand([]byte(tc.body))
			require.ErrorIs(t, err, errValidation)
			var ve *validationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestMatchesSearch(t *testing.T) {
	e := LogEntry{Description: "Greek Yogurt with honey"}
	assert.True(t, matchesSearch(e, "yogurt"))
	assert.True(t, matchesSearch(e, " GREEK "))
	assert.False(t, matchesSearch(e, "granola"))
}

func ptr[T any](v T) *T { return &v }
