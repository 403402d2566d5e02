package ffmpeg_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"interview-media-backend/internal/apperr"
	"interview-media-backend/internal/ffmpeg"
)

func TestTranscode_MissingBinary(t *testing.T) {
	input := filepath.Join(t.TempDir(), "clip.webm")
	assert.NoError(t, os.WriteFile(input, []byte("not a real clip"), 0o644))

	tc := ffmpeg.NewCommand("/nonexistent/ffmpeg", "/nonexistent/ffprobe")
	_, err := tc.Transcode(context.Background(), input)

	assert.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.TranscodeFailed))
}
