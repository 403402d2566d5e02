package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/google/uuid"

	"interview-media-backend/internal/agents"
	"interview-media-backend/internal/apperr"
	"interview-media-backend/internal/models"
	"interview-media-backend/internal/store"
)

// notAvailable marks feedback text fields the analysis could not fill.
const notAvailable = "분석 결과 없음"

type FeedbackService struct {
	store     store.Store
	registry  *agents.Registry
	videos    *VideoService
	allowStub bool
}

func NewFeedbackService(st store.Store, registry *agents.Registry, videos *VideoService, allowStub bool) *FeedbackService {
	return &FeedbackService{store: st, registry: registry, videos: videos, allowStub: allowStub}
}

// Analyze runs the expression and voice capabilities against a video,
// optionally composes the result through the report builder, and persists
// the normalized feedback. Both capabilities must be bound or the call
// fails with AnalysisUnavailable and nothing is persisted. The stub switch
// only covers that unbound case; errors from bound agents always surface.
func (s *FeedbackService) Analyze(ctx context.Context, account, videoID uuid.UUID) (*models.Feedback, error) {
	video, err := s.videos.Get(account, videoID)
	if err != nil {
		return nil, err
	}

	report, err := s.runAnalysis(ctx, video)
	if err != nil {
		if !s.allowStub || !apperr.Is(err, apperr.AnalysisUnavailable) {
			return nil, err
		}
		log.Printf("Warning: analysis capabilities not bound, persisting stub feedback")
		report = stubReport()
	}

	feedback := normalizeReport(report, videoID)
	if err := s.store.UpsertFeedback(feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

func (s *FeedbackService) runAnalysis(ctx context.Context, video *models.Video) (*agents.Report, error) {
	if s.registry.Expression == nil || s.registry.Voice == nil {
		return nil, apperr.New(apperr.AnalysisUnavailable, "video analysis is not available yet")
	}

	videoPath := s.videos.AbsolutePath(video.VideoPath)
	audioPath := videoPath
	if video.AudioPath != nil {
		audioPath = s.videos.AbsolutePath(*video.AudioPath)
	}

	// Expression and voice run concurrently; both must succeed.
	type expressionOut struct {
		res *agents.ExpressionResult
		err error
	}
	type voiceOut struct {
		res *agents.VoiceResult
		err error
	}
	expressionCh := make(chan expressionOut, 1)
	voiceCh := make(chan voiceOut, 1)

	go func() {
		res, err := s.registry.Expression.AnalyzeExpression(ctx, videoPath)
		expressionCh <- expressionOut{res, err}
	}()
	go func() {
		res, err := s.registry.Voice.AnalyzeVoice(ctx, audioPath)
		voiceCh <- voiceOut{res, err}
	}()

	expression := <-expressionCh
	voice := <-voiceCh
	if expression.err != nil {
		return nil, apperr.Wrap(apperr.AnalysisFailed, "expression analysis failed", expression.err)
	}
	if voice.err != nil {
		return nil, apperr.Wrap(apperr.AnalysisFailed, "voice analysis failed", voice.err)
	}

	var questionText string
	if question, err := s.store.GetQuestion(video.QuestionID); err == nil {
		questionText = question.QuestionText
	}

	// The report builder is optional; without it the raw combined output
	// flows through normalization with neutral defaults.
	if s.registry.Report != nil {
		report, err := s.registry.Report.Build(ctx, questionText, expression.res, voice.res)
		if err == nil {
			return report, nil
		}
		log.Printf("Warning: report builder failed, using raw analysis: %v", err)
	}

	return rawReport(expression.res, voice.res), nil
}

// GetInterviewFeedback aggregates all feedback rows for an interview into
// per-question detail plus averaged overall scores.
func (s *FeedbackService) GetInterviewFeedback(account, interviewID uuid.UUID) (*models.InterviewFeedbackResponse, error) {
	iv, err := s.store.GetInterview(interviewID)
	if err != nil {
		return nil, interviewErr(err)
	}
	if iv.AccountID != account {
		return nil, apperr.New(apperr.Forbidden, "interview belongs to another account")
	}

	feedbacks, err := s.store.ListFeedbackByInterview(interviewID)
	if err != nil {
		return nil, err
	}

	resp := &models.InterviewFeedbackResponse{
		InterviewID:       interviewID,
		QuestionFeedbacks: []models.QuestionFeedback{},
	}
	if len(feedbacks) == 0 {
		return resp, nil
	}

	var sum models.ScoreSet
	for _, f := range feedbacks {
		sum.Expression += f.ExpressionScore
		sum.EyeContact += f.EyeContactScore
		sum.Voice += f.VoiceScore
		sum.Content += f.ContentScore
		sum.Overall += f.OverallScore

		resp.QuestionFeedbacks = append(resp.QuestionFeedbacks, models.QuestionFeedback{
			QuestionID:   f.QuestionID,
			QuestionText: f.QuestionText,
			VideoID:      f.VideoID,
			Scores:       scoresOf(&f),
			Feedback:     notesOf(&f),
		})
	}

	n := len(feedbacks)
	resp.OverallFeedback = &models.OverallFeedback{
		Scores: models.ScoreSet{
			Expression: roundDiv(sum.Expression, n),
			EyeContact: roundDiv(sum.EyeContact, n),
			Voice:      roundDiv(sum.Voice, n),
			Content:    roundDiv(sum.Content, n),
			Overall:    roundDiv(sum.Overall, n),
		},
	}
	return resp, nil
}

func (s *FeedbackService) GetDetail(account, videoID uuid.UUID) (*models.FeedbackDetailResponse, error) {
	video, err := s.videos.Get(account, videoID)
	if err != nil {
		return nil, err
	}
	feedback, err := s.store.GetFeedbackByVideo(videoID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "feedback not found")
		}
		return nil, err
	}
	return &models.FeedbackDetailResponse{
		VideoID:    video.ID,
		QuestionID: video.QuestionID,
		VideoURL:   fmt.Sprintf("/api/video/stream/%s", video.ID),
		Scores:     scoresOf(feedback),
		Feedback:   notesOf(feedback),
	}, nil
}

// normalizeReport fills the five-score feedback shape, substituting neutral
// defaults for anything the analysis left blank.
func normalizeReport(report *agents.Report, videoID uuid.UUID) *models.Feedback {
	return &models.Feedback{
		ID:              uuid.New(),
		VideoID:         videoID,
		ExpressionScore: report.ExpressionScore,
		EyeContactScore: report.EyeContactScore,
		VoiceScore:      report.VoiceScore,
		ContentScore:    report.ContentScore,
		OverallScore:    report.OverallScore,
		GoodPoints:      orNotAvailable(report.GoodPoints),
		BadPoints:       orNotAvailable(report.BadPoints),
		Improvement:     orNotAvailable(report.Improvement),
	}
}

// rawReport derives a minimal report from the raw agent output when no
// report builder is configured: eye contact from face-detection coverage,
// notes from the transcription.
func rawReport(expression *agents.ExpressionResult, voice *agents.VoiceResult) *agents.Report {
	report := &agents.Report{}
	if expression.Summary.TotalFramesAnalyzed > 0 {
		coverage := float64(expression.Summary.FramesWithFaces) / float64(expression.Summary.TotalFramesAnalyzed)
		report.EyeContactScore = int(math.Round(coverage * 100))
	}
	if voice.Summary.Transcription != "" {
		report.GoodPoints = voice.Summary.Transcription
	}
	return report
}

func stubReport() *agents.Report {
	return &agents.Report{
		ExpressionScore: 85,
		EyeContactScore: 75,
		VoiceScore:      80,
		ContentScore:    90,
		OverallScore:    82,
		GoodPoints:      "[stub] 전체적으로 안정적인 면접 태도를 보였습니다.",
		BadPoints:       "[stub] 일부 개선이 필요한 부분이 있습니다.",
		Improvement:     "[stub] 지속적인 연습을 권장합니다.",
	}
}

func scoresOf(f *models.Feedback) models.ScoreSet {
	return models.ScoreSet{
		Expression: f.ExpressionScore,
		EyeContact: f.EyeContactScore,
		Voice:      f.VoiceScore,
		Content:    f.ContentScore,
		Overall:    f.OverallScore,
	}
}

func notesOf(f *models.Feedback) models.FeedbackNotes {
	return models.FeedbackNotes{
		GoodPoints:  f.GoodPoints,
		BadPoints:   f.BadPoints,
		Improvement: f.Improvement,
	}
}

func orNotAvailable(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

func roundDiv(sum, n int) int {
	return int(math.Round(float64(sum) / float64(n)))
}
