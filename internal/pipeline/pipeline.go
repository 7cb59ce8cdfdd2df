package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rgoncalves/smartcut/internal/domain/decisions"
	"github.com/rgoncalves/smartcut/internal/logging"
	"github.com/rgoncalves/smartcut/internal/ports"
	"github.com/rgoncalves/smartcut/internal/ports/adapters/ffmpeg"
	"github.com/rgoncalves/smartcut/internal/ports/adapters/openrouter"
	"github.com/rgoncalves/smartcut/internal/ports/adapters/whisperjson"
	"github.com/rgoncalves/smartcut/internal/usecase"
)

type Config struct {
	TranscriptPath string
	MediaPath      string
	OutDir         string

	VideoType          string
	CustomInstructions string
	Language           string

	ChunkBudget     int
	MaxConcurrent   int
	RateLimitPerMin int

	// FallbackFPS is used when the probed media carries no video stream
	// frame rate (audio-only sources).
	FallbackFPS float64

	FFprobePath string

	OpenRouterAPIKey       string
	OpenRouterModel        string
	OpenRouterBaseURL      string
	OpenRouterAllowedHosts []string
	AdvisoryTimeout        time.Duration

	Log zerolog.Logger
}

func (c Config) Validate() error {
	if c.TranscriptPath == "" {
		return errors.New("transcript path is empty")
	}
	if _, err := os.Stat(c.TranscriptPath); err != nil {
		return fmt.Errorf("stat transcript: %w", err)
	}
	if c.MediaPath == "" {
		return errors.New("media path is empty")
	}
	if _, err := os.Stat(c.MediaPath); err != nil {
		return fmt.Errorf("stat media: %w", err)
	}
	if c.MaxConcurrent < 0 {
		return errors.New("max concurrent must be >= 0")
	}
	if c.RateLimitPerMin < 0 {
		return errors.New("rate limit must be >= 0")
	}
	return openrouter.ValidateBaseURL(c.OpenRouterBaseURL, c.OpenRouterAllowedHosts)
}

// Run executes one editing job end to end and writes the interchange
// document, the cutting guide, and the editing result into a per-run
// output directory.
func Run(ctx context.Context, cfg Config) error {
	jobID := uuid.NewString()
	log := cfg.Log.With().Str("job_id", jobID).Logger()

	// adapters
	transcripts := whisperjson.New()
	prober := ffmpeg.New(cfg.FFprobePath)
	advisor := openrouter.New(
		cfg.OpenRouterAPIKey,
		cfg.OpenRouterModel,
		cfg.OpenRouterBaseURL,
		cfg.AdvisoryTimeout,
		logging.WithComponent(log, "advisor"),
	)

	segments, err := transcripts.Load(ctx, cfg.TranscriptPath)
	if err != nil {
		return err
	}
	log.Info().Int("segments", len(segments)).Str("transcript", cfg.TranscriptPath).Msg("transcript loaded")

	media, err := prober.Probe(ctx, cfg.MediaPath)
	if err != nil {
		return err
	}
	if media.FPS <= 0 {
		fps := cfg.FallbackFPS
		if fps <= 0 {
			fps = 30
		}
		media.FPS = fps
	}
	if media.Resolution == "" {
		media.Resolution = "1920x1080"
	}
	log.Info().
		Float64("duration", media.Duration).
		Float64("fps", media.FPS).
		Bool("has_audio", media.HasAudio).
		Msg("media probed")

	vt := decisions.ParseVideoType(cfg.VideoType)
	rules := decisions.DefaultRules(vt)
	ectx := decisions.Context{
		VideoType:          vt,
		OriginalDuration:   media.Duration,
		DetectedLanguage:   cfg.Language,
		CustomInstructions: cfg.CustomInstructions,
	}

	uc := usecase.New(usecase.Deps{
		Advisor: advisor,
		Log:     logging.WithComponent(log, "usecase"),
	})

	absMedia, err := filepath.Abs(cfg.MediaPath)
	if err != nil {
		return err
	}

	res, err := uc.Run(ctx, usecase.Input{
		Segments:        segments,
		Media:           media,
		MediaPath:       absMedia,
		Rules:           rules,
		Context:         ectx,
		ChunkBudget:     cfg.ChunkBudget,
		MaxConcurrent:   cfg.MaxConcurrent,
		RateLimitPerMin: cfg.RateLimitPerMin,
	})
	if err != nil {
		return err
	}

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "out"
	}
	runDir := buildRunOutDir(outDir, cfg.MediaPath, time.Now().UTC())
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return err
	}

	xmlPath := filepath.Join(runDir, "project.xml")
	if err := os.WriteFile(xmlPath, []byte(res.XML), 0o644); err != nil {
		return err
	}
	guidePath := filepath.Join(runDir, "cutting_guide.txt")
	if err := os.WriteFile(guidePath, []byte(res.Guide), 0o644); err != nil {
		return err
	}

	rb, err := json.MarshalIndent(res.Editing, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	resultPath := filepath.Join(runDir, "result.json")
	if err := os.WriteFile(resultPath, rb, 0o644); err != nil {
		return err
	}

	log.Info().
		Str("dir", runDir).
		Int("clips", len(res.Clips)).
		Strs("warnings", res.Editing.Warnings).
		Msg("run artifacts written")
	return nil
}

func buildRunOutDir(outRoot, mediaPath string, now time.Time) string {
	name := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
	name = normalizePathSegment(name)
	if name == "" {
		name = "input"
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%d", mediaPath, now.UTC().UnixNano())
	suffix := hash(runSeed)[:6]
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var _ ports.Advisor = (*openrouter.Adapter)(nil)
var _ ports.TranscriptSource = (*whisperjson.Adapter)(nil)
var _ ports.MediaProber = (*ffmpeg.Adapter)(nil)
