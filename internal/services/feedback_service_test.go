package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"interview-media-backend/internal/agents"
	"interview-media-backend/internal/apperr"
	"interview-media-backend/internal/models"
	"interview-media-backend/internal/services"
	"interview-media-backend/internal/store"
)

func uploadClip(t *testing.T, f *videoFixture) *models.Video {
	t.Helper()
	raw := f.writeRaw(t, "question_"+uuid.New().String()+".webm")
	video, err := f.videos.Upload(context.Background(), f.account, f.interview.ID, f.question.ID, raw, 0)
	assert.NoError(t, err)
	return video
}

func TestFeedbackAnalyze_UnboundCapability(t *testing.T) {
	f := newVideoFixture(t, &fakeTranscoder{duration: 5})
	video := uploadClip(t, f)

	feedback := services.NewFeedbackService(f.store, &agents.Registry{}, f.videos, false)
	_, err := feedback.Analyze(context.Background(), f.account, video.ID)
	assert.True(t, apperr.Is(err, apperr.AnalysisUnavailable))

	// A failed analysis persists nothing.
	_, err = f.store.GetFeedbackByVideo(video.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFeedbackAnalyze_StubMode(t *testing.T) {
	f := newVideoFixture(t, &fakeTranscoder{duration: 5})
	video := uploadClip(t, f)

	feedback := services.NewFeedbackService(f.store, &agents.Registry{}, f.videos, true)
	result, err := feedback.Analyze(context.Background(), f.account, video.ID)
	assert.NoError(t, err)
	assert.Equal(t, video.ID, result.VideoID)
	assert.Contains(t, result.GoodPoints, "[stub]")
	assert.Greater(t, result.OverallScore, 0)

	stored, err := f.store.GetFeedbackByVideo(video.ID)
	assert.NoError(t, err)
	assert.Equal(t, result.OverallScore, stored.OverallScore)
}

func analysisAgent(t *testing.T, framesWithFaces, totalFrames int, transcription string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analyze", r.URL.Path)
		var in map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		if _, ok := in["video_path"]; ok {
			json.NewEncoder(w).Encode(map[string]any{
				"csv_path": "expression.csv",
				"summary": map[string]any{
					"average_emotions":      map[string]float64{"happy": 0.6},
					"total_frames_analyzed": totalFrames,
					"frames_with_faces":     framesWithFaces,
				},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"csv_path": "voice.csv",
			"status":   "ok",
			"summary":  map[string]any{"transcription": transcription},
		})
	}))
}

func TestFeedbackAnalyze_RawReportWithoutBuilder(t *testing.T) {
	ts := analysisAgent(t, 90, 100, "저는 백엔드 개발자입니다")
	defer ts.Close()

	f := newVideoFixture(t, &fakeTranscoder{duration: 5})
	video := uploadClip(t, f)

	registry := &agents.Registry{
		Expression: agents.NewClient(ts.URL),
		Voice:      agents.NewClient(ts.URL),
	}
	feedback := services.NewFeedbackService(f.store, registry, f.videos, false)

	result, err := feedback.Analyze(context.Background(), f.account, video.ID)
	assert.NoError(t, err)
	// Eye contact comes from face-detection coverage; unfilled fields get
	// the documented defaults.
	assert.Equal(t, 90, result.EyeContactScore)
	assert.Equal(t, 0, result.ExpressionScore)
	assert.Equal(t, "저는 백엔드 개발자입니다", result.GoodPoints)
	assert.Equal(t, "분석 결과 없음", result.BadPoints)
	assert.Equal(t, "분석 결과 없음", result.Improvement)
}

func TestFeedbackAnalyze_ReanalysisKeepsOneRow(t *testing.T) {
	ts := analysisAgent(t, 50, 100, "")
	defer ts.Close()

	f := newVideoFixture(t, &fakeTranscoder{duration: 5})
	video := uploadClip(t, f)

	registry := &agents.Registry{
		Expression: agents.NewClient(ts.URL),
		Voice:      agents.NewClient(ts.URL),
	}
	feedback := services.NewFeedbackService(f.store, registry, f.videos, false)

	first, err := feedback.Analyze(context.Background(), f.account, video.ID)
	assert.NoError(t, err)
	second, err := feedback.Analyze(context.Background(), f.account, video.ID)
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestFeedbackAnalyze_AgentErrorWithoutStub(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gpu on fire", http.StatusInternalServerError)
	}))
	defer ts.Close()

	f := newVideoFixture(t, &fakeTranscoder{duration: 5})
	video := uploadClip(t, f)

	registry := &agents.Registry{
		Expression: agents.NewClient(ts.URL),
		Voice:      agents.NewClient(ts.URL),
	}
	feedback := services.NewFeedbackService(f.store, registry, f.videos, false)

	_, err := feedback.Analyze(context.Background(), f.account, video.ID)
	assert.True(t, apperr.Is(err, apperr.AnalysisFailed))

	_, err = f.store.GetFeedbackByVideo(video.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFeedbackAnalyze_StubDoesNotMaskAgentErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gpu on fire", http.StatusInternalServerError)
	}))
	defer ts.Close()

	f := newVideoFixture(t, &fakeTranscoder{duration: 5})
	video := uploadClip(t, f)

	registry := &agents.Registry{
		Expression: agents.NewClient(ts.URL),
		Voice:      agents.NewClient(ts.URL),
	}
	// The stub switch covers unbound capabilities only; an erroring agent
	// still fails the call.
	feedback := services.NewFeedbackService(f.store, registry, f.videos, true)

	_, err := feedback.Analyze(context.Background(), f.account, video.ID)
	assert.True(t, apperr.Is(err, apperr.AnalysisFailed))

	_, err = f.store.GetFeedbackByVideo(video.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetInterviewFeedback_AveragesScores(t *testing.T) {
	f := newVideoFixture(t, &fakeTranscoder{duration: 5})
	feedback := services.NewFeedbackService(f.store, &agents.Registry{}, f.videos, false)

	v1 := uploadClip(t, f)
	v2 := uploadClip(t, f)
	assert.NoError(t, f.store.UpsertFeedback(&models.Feedback{
		ID: uuid.New(), VideoID: v1.ID,
		ExpressionScore: 80, EyeContactScore: 70, VoiceScore: 60, ContentScore: 90, OverallScore: 75,
		GoodPoints: "clear structure", BadPoints: "monotone", Improvement: "vary pace",
	}))
	assert.NoError(t, f.store.UpsertFeedback(&models.Feedback{
		ID: uuid.New(), VideoID: v2.ID,
		ExpressionScore: 90, EyeContactScore: 80, VoiceScore: 71, ContentScore: 80, OverallScore: 80,
		GoodPoints: "good examples", BadPoints: "rushed", Improvement: "slow down",
	}))

	resp, err := feedback.GetInterviewFeedback(f.account, f.interview.ID)
	assert.NoError(t, err)
	assert.Len(t, resp.QuestionFeedbacks, 2)
	assert.NotNil(t, resp.OverallFeedback)
	assert.Equal(t, 85, resp.OverallFeedback.Scores.Expression)
	assert.Equal(t, 75, resp.OverallFeedback.Scores.EyeContact)
	// 65.5 rounds up.
	assert.Equal(t, 66, resp.OverallFeedback.Scores.Voice)
	assert.Equal(t, 85, resp.OverallFeedback.Scores.Content)
	assert.Equal(t, 78, resp.OverallFeedback.Scores.Overall)
}

func TestGetInterviewFeedback_Empty(t *testing.T) {
	f := newVideoFixture(t, &fakeTranscoder{duration: 5})
	feedback := services.NewFeedbackService(f.store, &agents.Registry{}, f.videos, false)

	resp, err := feedback.GetInterviewFeedback(f.account, f.interview.ID)
	assert.NoError(t, err)
	assert.Nil(t, resp.OverallFeedback)
	assert.Empty(t, resp.QuestionFeedbacks)
}

func TestGetDetail(t *testing.T) {
	f := newVideoFixture(t, &fakeTranscoder{duration: 5})
	feedback := services.NewFeedbackService(f.store, &agents.Registry{}, f.videos, false)

	video := uploadClip(t, f)
	assert.NoError(t, f.store.UpsertFeedback(&models.Feedback{
		ID: uuid.New(), VideoID: video.ID, OverallScore: 77,
	}))

	detail, err := feedback.GetDetail(f.account, video.ID)
	assert.NoError(t, err)
	assert.Equal(t, video.ID, detail.VideoID)
	assert.Equal(t, f.question.ID, detail.QuestionID)
	assert.Equal(t, "/api/video/stream/"+video.ID.String(), detail.VideoURL)
	assert.Equal(t, 77, detail.Scores.Overall)
}

func TestGetDetail_NoFeedbackYet(t *testing.T) {
	f := newVideoFixture(t, &fakeTranscoder{duration: 5})
	feedback := services.NewFeedbackService(f.store, &agents.Registry{}, f.videos, false)

	video := uploadClip(t, f)
	_, err := feedback.GetDetail(f.account, video.ID)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}
