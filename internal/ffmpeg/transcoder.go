// Package ffmpeg converts captured webm clips into a playback-safe mp4 and a
// mono 16 kHz wav track for voice analysis, shelling out to the configured
// ffmpeg/ffprobe binaries.
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"interview-media-backend/internal/apperr"
)

// Result holds the absolute output paths of one transcode. Duration is in
// seconds and stays 0 when ffprobe could not determine it; callers must not
// treat a missing duration as a failure.
type Result struct {
	VideoPath string
	AudioPath string
	Duration  float64
}

// Transcoder is the narrow seam between the ingestion orchestrator and the
// encoder binary, so tests can point it at a broken or fake binary.
type Transcoder interface {
	Transcode(ctx context.Context, inputPath string) (*Result, error)
}

// Command runs the real ffmpeg binary.
type Command struct {
	FFmpegBin  string
	FFprobeBin string
}

func NewCommand(ffmpegBin, ffprobeBin string) *Command {
	return &Command{FFmpegBin: ffmpegBin, FFprobeBin: ffprobeBin}
}

// Transcode produces <input>.mp4 (h264+aac, faststart for seeking) and
// <input>.wav (mono pcm_s16le at 16 kHz) next to the input file, then asks
// ffprobe for the duration. Any spawn error or non-zero exit from ffmpeg is
// a TranscodeFailed condition; probe errors are swallowed.
func (c *Command) Transcode(ctx context.Context, inputPath string) (*Result, error) {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	videoOut := base + ".mp4"
	audioOut := base + ".wav"

	videoArgs := []string{
		"-hide_banner", "-nostdin", "-y",
		"-loglevel", "error",
		"-i", inputPath,
		"-c:v", "libx264",
		"-c:a", "aac",
		"-movflags", "+faststart",
		videoOut,
	}
	if err := c.run(ctx, videoArgs); err != nil {
		return nil, apperr.Wrap(apperr.TranscodeFailed, "video transcode failed", err)
	}

	audioArgs := []string{
		"-hide_banner", "-nostdin", "-y",
		"-loglevel", "error",
		"-i", inputPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", "16000",
		audioOut,
	}
	if err := c.run(ctx, audioArgs); err != nil {
		return nil, apperr.Wrap(apperr.TranscodeFailed, "audio extraction failed", err)
	}

	res := &Result{VideoPath: videoOut, AudioPath: audioOut}

	// Best effort: a clip with no parsable duration is still playable.
	if duration, err := ProbeDuration(ctx, c.FFprobeBin, videoOut); err == nil {
		res.Duration = duration
	}

	return res, nil
}

func (c *Command) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, c.FFmpegBin, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%s %s: %w: %s", c.FFmpegBin, args[len(args)-1], err, msg)
		}
		return fmt.Errorf("%s %s: %w", c.FFmpegBin, args[len(args)-1], err)
	}
	return nil
}
