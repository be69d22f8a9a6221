package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupAgentTest creates a Gin engine with a mock OpenAI server and returns
// the router, the store, and a function to set the mock response.
func setupAgentTest(t *testing.T) (*gin.Engine, *memoryStore, func(int, any)) {
	t.Helper()
	var mockStatus int
	var mockBody any

	mockOpenAI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(mockStatus)
		json.NewEncoder(w).Encode(mockBody)
	}))
	t.Cleanup(mockOpenAI.Close)

	router, store := setupHandlerTest(t, mockOpenAI.URL)
	setMock := func(status int, body any) {
		mockStatus = status
		mockBody = body
	}
	return router, store, setMock
}

// openAIChatResponse wraps a content string in the OpenAI chat completions
// response shape (choices[0].message.content).
func openAIChatResponse(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
}

func TestParse_FoodApplied(t *testing.T) {
	router, store, setMock := setupAgentTest(t)
	setMock(http.StatusOK, openAIChatResponse(
		`{"type":"food","items":[{"description":"Scrambled eggs","calories":180,"protein":14}]}`))

	w := doRequest(router, "POST", "/api/agent/parse", `{"text":"2 eggs scrambled"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	res := decodeBody[mutationResult](t, w)
	assert.Equal(t, "food", res.Command)
	assert.True(t, res.Applied)
	require.Len(t, res.Inserted, 1)
	assert.Equal(t, sourceParsed, res.Inserted[0].Source)

	dl := requireReconciled(t, store, testToday)
	assert.Equal(t, 180, dl.CaloricIntake)
	assert.Equal(t, 14.0, dl.ProteinG)
}

func TestParse_EditOnGivenDate(t *testing.T) {
	router, store, setMock := setupAgentTest(t)
	doRequest(router, "POST", "/api/entries", `{"date":"2026-10-13","type":"food","description":"Burrito","calories":900}`)

	setMock(http.StatusOK, openAIChatResponse(`{"type":"edit","search":"burrito","update":{"calories":750}}`))
	w := doRequest(router, "POST", "/api/agent/parse", `{"text":"the burrito was more like 750","date":"2026-10-13"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, 750, requireReconciled(t, store, testToday.AddDays(-1)).CaloricIntake)
}

func TestParse_FlaggedErrorIsNotApplied(t *testing.T) {
	router, store, setMock := setupAgentTest(t)
	setMock(http.StatusOK, openAIChatResponse(`{"type":"chat","is_error":true,"message":"I did not understand"}`))

	w := doRequest(router, "POST", "/api/agent/parse", `{"text":"asdfghjkl"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decodeBody[mutationResult](t, w)
	assert.False(t, res.Applied)
	assert.Equal(t, "I did not understand", res.Message)

	dl, err := store.GetDailyLog(context.Background(), devUserID, testToday)
	require.NoError(t, err)
	assert.Nil(t, dl)
}

func TestParse_OpenAIError500(t *testing.T) {
	router, _, setMock := setupAgentTest(t)
	setMock(http.StatusInternalServerError, map[string]string{"error": "internal"})

	w := doRequest(router, "POST", "/api/agent/parse", `{"text":"a banana"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestParse_UnparseableModelOutput(t *testing.T) {
	router, _, setMock := setupAgentTest(t)
	setMock(http.StatusOK, openAIChatResponse(`I think that was about 300 calories`))

	w := doRequest(router, "POST", "/api/agent/parse", `{"text":"a muffin"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestParse_EmptyText(t *testing.T) {
	router, _, _ := setupAgentTest(t)
	w := doRequest(router, "POST", "/api/agent/parse", `{"text":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAgentClient_NoAPIKey(t *testing.T) {
	a := newAgentClient("http://127.0.0.1:0", "")
	_, err := a.parseCommand(context.Background(), "a banana")
	assert.ErrorContains(t, err, "OPENAI_API_KEY")
}

func TestAgentClient_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := newAgentClient(srv.URL, "test-key").parseCommand(context.Background(), "a banana")
	assert.ErrorContains(t, err, "no choices")
}
