package services

import (
	"context"
	"errors"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"interview-media-backend/internal/apperr"
	"interview-media-backend/internal/ffmpeg"
	"interview-media-backend/internal/models"
	"interview-media-backend/internal/store"
)

type VideoService struct {
	store            store.Store
	transcoder       ffmpeg.Transcoder
	uploadRoot       string
	transcodeTimeout time.Duration
}

func NewVideoService(st store.Store, transcoder ffmpeg.Transcoder, uploadRoot string, transcodeTimeout time.Duration) *VideoService {
	return &VideoService{
		store:            st,
		transcoder:       transcoder,
		uploadRoot:       uploadRoot,
		transcodeTimeout: transcodeTimeout,
	}
}

// Upload is the ingestion orchestrator. It validates ownership, transcodes
// webm captures into mp4+wav, and persists the video row. A transcode
// failure is absorbed: the raw upload is stored as-is with the caller's
// duration, and the request still succeeds. This is the only place a
// TranscodeFailed error terminates.
func (s *VideoService) Upload(ctx context.Context, account, interviewID, questionID uuid.UUID, rawPath string, callerDuration int) (*models.Video, error) {
	iv, err := s.store.GetInterview(interviewID)
	if err != nil {
		return nil, interviewErr(err)
	}
	if iv.AccountID != account {
		return nil, apperr.New(apperr.Forbidden, "interview belongs to another account")
	}

	question, err := s.store.GetQuestion(questionID)
	if err != nil || question.InterviewID != interviewID {
		return nil, apperr.New(apperr.NotFound, "question not found")
	}

	storedPath := rawPath
	duration := callerDuration
	audioPath := ""

	if strings.EqualFold(filepath.Ext(rawPath), ".webm") {
		result, terr := s.transcode(ctx, rawPath)
		if terr != nil {
			log.Printf("Warning: transcode failed, storing original upload: %v", terr)
		} else {
			storedPath = result.VideoPath
			audioPath = result.AudioPath
			if result.Duration > 0 {
				duration = int(math.Round(result.Duration))
			}
			if err := os.Remove(rawPath); err != nil {
				log.Printf("Warning: failed to remove raw upload %s: %v", rawPath, err)
			}
		}
	}

	video := &models.Video{
		ID:          uuid.New(),
		InterviewID: interviewID,
		QuestionID:  questionID,
		VideoPath:   s.relative(storedPath),
		Duration:    duration,
	}
	if err := s.store.CreateVideo(video); err != nil {
		return nil, err
	}

	// The audio track is attached separately; the video row is complete
	// without it.
	if audioPath != "" {
		rel := s.relative(audioPath)
		if err := s.store.UpdateVideoAudioPath(video.ID, rel); err != nil {
			log.Printf("Warning: failed to attach audio path to video %s: %v", video.ID, err)
		} else {
			video.AudioPath = &rel
		}
	}

	return video, nil
}

// transcode runs the encoder under the configured deadline so a wedged
// binary cannot hold the upload request open.
func (s *VideoService) transcode(ctx context.Context, rawPath string) (*ffmpeg.Result, error) {
	if s.transcodeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.transcodeTimeout)
		defer cancel()
	}
	return s.transcoder.Transcode(ctx, rawPath)
}

// Get resolves a video and checks ownership through its parent interview.
func (s *VideoService) Get(account, videoID uuid.UUID) (*models.Video, error) {
	video, err := s.store.GetVideo(videoID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "video not found")
		}
		return nil, err
	}
	iv, err := s.store.GetInterview(video.InterviewID)
	if err != nil {
		return nil, interviewErr(err)
	}
	if iv.AccountID != account {
		return nil, apperr.New(apperr.Forbidden, "video belongs to another account")
	}
	return video, nil
}

// AbsolutePath resolves a stored relative media path against the upload root.
func (s *VideoService) AbsolutePath(relPath string) string {
	return filepath.Join(s.uploadRoot, filepath.FromSlash(relPath))
}

// relative converts an absolute media path into the root-relative slash form
// stored in the database. Paths outside the root are stored as-is.
func (s *VideoService) relative(absPath string) string {
	rel, err := filepath.Rel(s.uploadRoot, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(absPath)
	}
	return filepath.ToSlash(rel)
}
