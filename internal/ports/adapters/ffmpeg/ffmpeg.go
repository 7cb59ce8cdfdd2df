package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rgoncalves/smartcut/internal/types"
)

// Adapter shells out to ffprobe for source media metadata.
type Adapter struct {
	ffprobe string
}

func New(ffprobePath string) *Adapter {
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffprobe: ffprobePath}
}

type probeOutput struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		AvgFrameRate string `json:"avg_frame_rate"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe reports duration, frame rate, resolution, and audio presence for
// one media file.
func (a *Adapter) Probe(ctx context.Context, path string) (types.MediaInfo, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration:stream=codec_type,width,height,avg_frame_rate",
		"-of", "json",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return types.MediaInfo{}, fmt.Errorf("ffprobe: %w\n%s", err, string(b))
	}

	var out probeOutput
	if err := json.Unmarshal(b, &out); err != nil {
		return types.MediaInfo{}, fmt.Errorf("ffprobe: parse output: %w", err)
	}

	info := types.MediaInfo{Filename: filepath.Base(path)}
	if out.Format.Duration != "" {
		d, err := strconv.ParseFloat(strings.TrimSpace(out.Format.Duration), 64)
		if err != nil {
			return types.MediaInfo{}, fmt.Errorf("ffprobe: parse duration %q: %w", out.Format.Duration, err)
		}
		info.Duration = d
	}
	for _, s := range out.Streams {
		switch s.CodecType {
		case "video":
			if s.Width > 0 && s.Height > 0 {
				info.Resolution = fmt.Sprintf("%dx%d", s.Width, s.Height)
			}
			if fps, ok := parseFrameRate(s.AvgFrameRate); ok {
				info.FPS = fps
			}
		case "audio":
			info.HasAudio = true
		}
	}
	return info, nil
}

// parseFrameRate handles ffprobe's rational notation, e.g. "30000/1001".
func parseFrameRate(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0/0" {
		return 0, false
	}
	num, den, found := strings.Cut(s, "/")
	if !found {
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil && f > 0
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, false
	}
	return n / d, n/d > 0
}
