package itinerary

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTrip() TripRequest {
	return TripRequest{
		Cities:    []string{"Kandy", "Galle"},
		Travelers: 2,
		Days:      7,
		Style:     "balanced",
	}
}

func newTestGenerator(t *testing.T, handler http.HandlerFunc) Generator {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewOpenAIGenerator(OpenAIConfig{
		APIKey:       "test-key",
		ResponsesURL: server.URL,
		HTTPClient:   server.Client(),
	})
}

func TestOpenAIGeneratorParsesOutputText(t *testing.T) {
	var gotAuth string
	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4.1-mini", req["model"])
		assert.Contains(t, req["input"], "Kandy")

		json.NewEncoder(w).Encode(map[string]any{"output_text": goodPlanJSON})
	})

	plan, err := gen.Generate(context.Background(), testTrip())
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "Kandy & Galle Highlights", plan.Title)
}

func TestOpenAIGeneratorFallsBackToOutputBlocks(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"output": []map[string]any{
				{"content": []map[string]any{{"type": "output_text", "text": goodPlanJSON}}},
			},
		})
	})

	plan, err := gen.Generate(context.Background(), testTrip())
	require.NoError(t, err)
	assert.NotEmpty(t, plan.Title)
}

func TestOpenAIGeneratorMapsRateLimitDistinctly(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := gen.Generate(context.Background(), testTrip())
	assert.ErrorIs(t, err, ErrProviderBusy)
}

func TestOpenAIGeneratorSurfacesUpstreamStatus(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := gen.Generate(context.Background(), testTrip())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrProviderBusy)
	assert.NotErrorIs(t, err, ErrBadPlan)
}

func TestOpenAIGeneratorRejectsMalformedModelOutput(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"output_text": "not json at all"})
	})

	_, err := gen.Generate(context.Background(), testTrip())
	assert.ErrorIs(t, err, ErrBadPlan)
}

func TestOpenAIGeneratorRequiresAPIKey(t *testing.T) {
	gen := NewOpenAIGenerator(OpenAIConfig{})

	_, err := gen.Generate(context.Background(), testTrip())
	assert.Error(t, err)
}
