package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"interview-media-backend/internal/apperr"
	"interview-media-backend/internal/middleware"
	"interview-media-backend/internal/services"
)

type VideoHandler struct {
	videos     *services.VideoService
	uploadRoot string
}

func NewVideoHandler(videos *services.VideoService, uploadRoot string) *VideoHandler {
	return &VideoHandler{videos: videos, uploadRoot: uploadRoot}
}

// Upload godoc
// @Summary     Upload an answer recording
// @Description Accepts a multipart recording, converts it for delivery and stores it
// @Tags        video
// @Accept      multipart/form-data
// @Produce     json
// @Param       video       formData file   true  "Recording file"
// @Param       interviewId formData string true  "Interview id"
// @Param       questionId  formData string true  "Question id"
// @Param       duration    formData int    false "Recording length in seconds"
// @Success     201 {object} models.Envelope
// @Failure     400 {object} models.Envelope
// @Router      /video/upload [post]
func (h *VideoHandler) Upload(c *gin.Context) {
	interviewID, err := uuid.Parse(c.PostForm("interviewId"))
	if err != nil {
		respondInvalid(c, "invalid interview id")
		return
	}
	questionID, err := uuid.Parse(c.PostForm("questionId"))
	if err != nil {
		respondInvalid(c, "invalid question id")
		return
	}
	duration, _ := strconv.Atoi(c.PostForm("duration"))

	file, err := c.FormFile("video")
	if err != nil {
		if isBodyTooLarge(err) {
			respondTooLarge(c)
			return
		}
		respondInvalid(c, "video file is required")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		ext = ".webm"
	}
	rawPath := filepath.Join(h.uploadRoot, "videos",
		fmt.Sprintf("question_%s_%s%s", questionID, uuid.New().String(), ext))
	if err := c.SaveUploadedFile(file, rawPath); err != nil {
		if isBodyTooLarge(err) {
			respondTooLarge(c)
			return
		}
		respondError(c, apperr.Wrap(apperr.Internal, "failed to store upload", err))
		return
	}

	video, err := h.videos.Upload(c.Request.Context(), middleware.AccountID(c), interviewID, questionID, rawPath, duration)
	if err != nil {
		os.Remove(rawPath)
		respondError(c, err)
		return
	}
	respondCreated(c, "video uploaded", video)
}

// Stream godoc
// @Summary     Stream a stored recording
// @Description Serves the converted recording with byte range support
// @Tags        video
// @Produce     video/mp4
// @Param       videoId path string true "Video id"
// @Success     200 {file} binary
// @Success     206 {file} binary
// @Failure     404 {object} models.Envelope
// @Router      /video/stream/{videoId} [get]
func (h *VideoHandler) Stream(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("videoId"))
	if err != nil {
		respondInvalid(c, "invalid video id")
		return
	}

	video, err := h.videos.Get(middleware.AccountID(c), videoID)
	if err != nil {
		respondError(c, err)
		return
	}

	path := h.videos.AbsolutePath(video.VideoPath)
	f, err := os.Open(path)
	if err != nil {
		respondError(c, apperr.New(apperr.NotFound, "video file not found"))
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		respondError(c, apperr.Wrap(apperr.Internal, "failed to stat video file", err))
		return
	}
	size := info.Size()

	c.Header("Accept-Ranges", "bytes")
	c.Header("Content-Type", contentTypeFor(video.VideoPath))

	start, end, ok := parseRange(c.GetHeader("Range"), size)
	if !ok {
		c.Header("Content-Length", strconv.FormatInt(size, 10))
		c.Status(http.StatusOK)
		io.Copy(c.Writer, f)
		return
	}
	if start >= size {
		c.Header("Content-Range", fmt.Sprintf("bytes */%d", size))
		c.Status(http.StatusRequestedRangeNotSatisfiable)
		return
	}

	length := end - start + 1
	c.Header("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, size))
	c.Header("Content-Length", strconv.FormatInt(length, 10))
	c.Status(http.StatusPartialContent)

	if _, err := f.Seek(start, io.SeekStart); err != nil {
		return
	}
	// Copy errors here are almost always the player closing the connection.
	io.CopyN(c.Writer, f, length)
}

// parseRange reads a single "bytes=start-end" range. The end offset is
// clamped to the file size; a missing end means the rest of the file. A
// header that does not parse is ignored and the full file is served.
func parseRange(header string, size int64) (start, end int64, ok bool) {
	if header == "" || !strings.HasPrefix(header, "bytes=") {
		return 0, 0, false
	}
	spec := strings.TrimPrefix(header, "bytes=")
	if i := strings.Index(spec, ","); i >= 0 {
		spec = spec[:i]
	}
	parts := strings.SplitN(spec, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}

	start, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil || start < 0 {
		return 0, 0, false
	}

	end = size - 1
	if tail := strings.TrimSpace(parts[1]); tail != "" {
		end, err = strconv.ParseInt(tail, 10, 64)
		if err != nil || end < start {
			return 0, 0, false
		}
		if end > size-1 {
			end = size - 1
		}
	}
	return start, end, true
}

// contentTypeFor labels converted clips video/mp4. Clips stored raw after a
// transcode failure keep the .webm extension and must be labeled video/webm,
// or players refuse the stream.
func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".webm":
		return "video/webm"
	default:
		return "video/mp4"
	}
}

func isBodyTooLarge(err error) bool {
	if err == nil {
		return false
	}
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}
