package services_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"interview-media-backend/internal/apperr"
	"interview-media-backend/internal/ffmpeg"
	"interview-media-backend/internal/models"
	"interview-media-backend/internal/services"
	"interview-media-backend/internal/store"
)

// fakeTranscoder swaps the ffmpeg binary out of the upload path. On success
// it writes the mp4/wav outputs next to the input like the real one does.
type fakeTranscoder struct {
	err      error
	duration float64
	calls    int
}

func (f *fakeTranscoder) Transcode(_ context.Context, inputPath string) (*ffmpeg.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	res := &ffmpeg.Result{
		VideoPath: base + ".mp4",
		AudioPath: base + ".wav",
		Duration:  f.duration,
	}
	if err := os.WriteFile(res.VideoPath, []byte("mp4"), 0o644); err != nil {
		return nil, err
	}
	if err := os.WriteFile(res.AudioPath, []byte("wav"), 0o644); err != nil {
		return nil, err
	}
	return res, nil
}

type videoFixture struct {
	store      *store.Memory
	videos     *services.VideoService
	transcoder *fakeTranscoder
	uploadRoot string
	account    uuid.UUID
	interview  *models.Interview
	question   *models.Question
}

func newVideoFixture(t *testing.T, tc *fakeTranscoder) *videoFixture {
	t.Helper()
	st := store.NewMemory()
	uploadRoot := t.TempDir()
	assert.NoError(t, os.MkdirAll(filepath.Join(uploadRoot, "videos"), 0o755))

	interviews := services.NewInterviewService(st)
	account := uuid.New()
	iv, err := interviews.Create(account, &models.CreateInterviewRequest{
		Title:       "Backend developer mock",
		JobCategory: "backend",
		Questions:   []models.CreateQuestionRequest{{QuestionText: "tell me about yourself"}},
	})
	assert.NoError(t, err)

	return &videoFixture{
		store:      st,
		videos:     services.NewVideoService(st, tc, uploadRoot, time.Minute),
		transcoder: tc,
		uploadRoot: uploadRoot,
		account:    account,
		interview:  iv,
		question:   &iv.Questions[0],
	}
}

func (f *videoFixture) writeRaw(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(f.uploadRoot, "videos", name)
	assert.NoError(t, os.WriteFile(path, []byte("raw capture"), 0o644))
	return path
}

func TestVideoUpload_TranscodesWebm(t *testing.T) {
	f := newVideoFixture(t, &fakeTranscoder{duration: 12.6})
	raw := f.writeRaw(t, "question_1_abc.webm")

	video, err := f.videos.Upload(context.Background(), f.account, f.interview.ID, f.question.ID, raw, 99)
	assert.NoError(t, err)

	assert.Equal(t, "videos/question_1_abc.mp4", video.VideoPath)
	assert.NotNil(t, video.AudioPath)
	assert.Equal(t, "videos/question_1_abc.wav", *video.AudioPath)
	// Probed duration wins over the caller's value and is rounded.
	assert.Equal(t, 13, video.Duration)

	// The raw webm is removed after a successful conversion.
	_, statErr := os.Stat(raw)
	assert.True(t, os.IsNotExist(statErr))

	stored, err := f.store.GetVideo(video.ID)
	assert.NoError(t, err)
	assert.Equal(t, video.VideoPath, stored.VideoPath)
}

func TestVideoUpload_TranscodeFailureFallsBackToRaw(t *testing.T) {
	f := newVideoFixture(t, &fakeTranscoder{err: errors.New("encoder exploded")})
	raw := f.writeRaw(t, "question_1_abc.webm")

	video, err := f.videos.Upload(context.Background(), f.account, f.interview.ID, f.question.ID, raw, 42)
	assert.NoError(t, err)

	// The original upload is stored as-is with the caller's duration.
	assert.Equal(t, "videos/question_1_abc.webm", video.VideoPath)
	assert.Nil(t, video.AudioPath)
	assert.Equal(t, 42, video.Duration)

	_, statErr := os.Stat(raw)
	assert.NoError(t, statErr)
}

// blockingTranscoder hangs until its context is cancelled, standing in for
// a wedged encoder binary.
type blockingTranscoder struct{}

func (blockingTranscoder) Transcode(ctx context.Context, _ string) (*ffmpeg.Result, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestVideoUpload_TranscodeTimeout(t *testing.T) {
	f := newVideoFixture(t, &fakeTranscoder{})
	raw := f.writeRaw(t, "question_1_abc.webm")

	videos := services.NewVideoService(f.store, blockingTranscoder{}, f.uploadRoot, 50*time.Millisecond)

	start := time.Now()
	video, err := videos.Upload(context.Background(), f.account, f.interview.ID, f.question.ID, raw, 42)
	assert.NoError(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)

	// The timed-out transcode is absorbed like any other failure: the raw
	// upload is stored with the caller's duration.
	assert.Equal(t, "videos/question_1_abc.webm", video.VideoPath)
	assert.Equal(t, 42, video.Duration)
	assert.Nil(t, video.AudioPath)
}

func TestVideoUpload_NonWebmSkipsTranscode(t *testing.T) {
	f := newVideoFixture(t, &fakeTranscoder{duration: 10})
	raw := f.writeRaw(t, "question_1_abc.mp4")

	video, err := f.videos.Upload(context.Background(), f.account, f.interview.ID, f.question.ID, raw, 30)
	assert.NoError(t, err)
	assert.Equal(t, 0, f.transcoder.calls)
	assert.Equal(t, "videos/question_1_abc.mp4", video.VideoPath)
	assert.Equal(t, 30, video.Duration)
}

func TestVideoUpload_ReuploadAccumulates(t *testing.T) {
	f := newVideoFixture(t, &fakeTranscoder{duration: 5})
	first := f.writeRaw(t, "question_1_first.webm")
	second := f.writeRaw(t, "question_1_second.webm")

	v1, err := f.videos.Upload(context.Background(), f.account, f.interview.ID, f.question.ID, first, 0)
	assert.NoError(t, err)
	v2, err := f.videos.Upload(context.Background(), f.account, f.interview.ID, f.question.ID, second, 0)
	assert.NoError(t, err)
	assert.NotEqual(t, v1.ID, v2.ID)

	videos, err := f.store.ListVideosByInterview(f.interview.ID)
	assert.NoError(t, err)
	assert.Len(t, videos, 2)
}

func TestVideoUpload_QuestionFromOtherInterview(t *testing.T) {
	f := newVideoFixture(t, &fakeTranscoder{})
	raw := f.writeRaw(t, "question_1_abc.webm")

	other, err := services.NewInterviewService(f.store).Create(f.account, &models.CreateInterviewRequest{
		Title:       "Another round",
		JobCategory: "backend",
		Questions:   []models.CreateQuestionRequest{{QuestionText: "strengths?"}},
	})
	assert.NoError(t, err)

	_, err = f.videos.Upload(context.Background(), f.account, f.interview.ID, other.Questions[0].ID, raw, 0)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestVideoUpload_Forbidden(t *testing.T) {
	f := newVideoFixture(t, &fakeTranscoder{})
	raw := f.writeRaw(t, "question_1_abc.webm")

	_, err := f.videos.Upload(context.Background(), uuid.New(), f.interview.ID, f.question.ID, raw, 0)
	assert.True(t, apperr.Is(err, apperr.Forbidden))
}

func TestVideoGet_OwnershipThroughInterview(t *testing.T) {
	f := newVideoFixture(t, &fakeTranscoder{})
	raw := f.writeRaw(t, "question_1_abc.mp4")

	video, err := f.videos.Upload(context.Background(), f.account, f.interview.ID, f.question.ID, raw, 10)
	assert.NoError(t, err)

	got, err := f.videos.Get(f.account, video.ID)
	assert.NoError(t, err)
	assert.Equal(t, video.ID, got.ID)

	_, err = f.videos.Get(uuid.New(), video.ID)
	assert.True(t, apperr.Is(err, apperr.Forbidden))
}
