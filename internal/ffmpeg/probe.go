package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

// ProbeDuration runs a single ffprobe JSON call and returns the container
// duration in seconds.
func ProbeDuration(ctx context.Context, ffprobeBin, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, ffprobeBin,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	return ParseDuration(out)
}

// ParseDuration extracts format.duration from raw ffprobe JSON output.
// Exported for testing without a real ffprobe binary.
func ParseDuration(data []byte) (float64, error) {
	var raw struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	if raw.Format.Duration == "" {
		return 0, fmt.Errorf("ffprobe output has no duration")
	}
	duration, err := strconv.ParseFloat(raw.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", raw.Format.Duration, err)
	}
	return duration, nil
}
