package agents_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"interview-media-backend/internal/agents"
)

func TestHealth(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := agents.NewClient(ts.URL)
	assert.NoError(t, client.Health(context.Background()))
}

func TestHealth_Unhealthy(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	client := agents.NewClient(ts.URL)
	assert.Error(t, client.Health(context.Background()))
}

func TestAnalyzeExpression(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analyze", r.URL.Path)
		var in map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "/media/clip.mp4", in["video_path"])
		json.NewEncoder(w).Encode(map[string]any{
			"csv_path": "emotions.csv",
			"summary": map[string]any{
				"average_emotions":      map[string]float64{"happy": 0.7, "neutral": 0.2},
				"total_frames_analyzed": 120,
				"frames_with_faces":     110,
			},
		})
	}))
	defer ts.Close()

	client := agents.NewClient(ts.URL)
	result, err := client.AnalyzeExpression(context.Background(), "/media/clip.mp4")
	assert.NoError(t, err)
	assert.Equal(t, "emotions.csv", result.CSVPath)
	assert.Equal(t, 120, result.Summary.TotalFramesAnalyzed)
	assert.Equal(t, 110, result.Summary.FramesWithFaces)
	assert.InDelta(t, 0.7, result.Summary.AverageEmotions["happy"], 0.001)
}

func TestAnalyzeVoice_AgentError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no audio stream", http.StatusUnprocessableEntity)
	}))
	defer ts.Close()

	client := agents.NewClient(ts.URL)
	_, err := client.AnalyzeVoice(context.Background(), "/media/clip.wav")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestExtractResult_Text(t *testing.T) {
	result := &agents.ExtractResult{
		PagesData: []map[string]any{
			{"page": 1, "text": "first page"},
			{"page": 2},
			{"page": 3, "text": "third page"},
		},
	}
	assert.Equal(t, "first page\nthird page", result.Text())

	empty := &agents.ExtractResult{}
	assert.Equal(t, "", empty.Text())
}
