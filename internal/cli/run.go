package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rgoncalves/smartcut/internal/logging"
	"github.com/rgoncalves/smartcut/internal/pipeline"
)

func run(cmd *cobra.Command, transcript string) error {
	mediaPath, _ := cmd.Flags().GetString("media")
	outDir, _ := cmd.Flags().GetString("out")
	videoType, _ := cmd.Flags().GetString("type")
	instructions, _ := cmd.Flags().GetString("instructions")
	language, _ := cmd.Flags().GetString("language")
	logLevel, _ := cmd.Flags().GetString("log-level")
	logFormat, _ := cmd.Flags().GetString("log-format")
	chunkBudget, _ := cmd.Flags().GetInt("chunk-budget")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	rateLimit, _ := cmd.Flags().GetInt("rate-limit")
	fps, _ := cmd.Flags().GetFloat64("fps")

	apiKey := os.Getenv("OPENROUTER_API_KEY")
	if apiKey == "" {
		return errors.New("OPENROUTER_API_KEY is required (set it in .env)")
	}

	log := logging.Init(logging.Config{Level: logLevel, Format: logFormat})

	ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()

	cfg := pipeline.Config{
		TranscriptPath: transcript,
		MediaPath:      mediaPath,
		OutDir:         outDir,

		VideoType:          videoType,
		CustomInstructions: instructions,
		Language:           language,

		ChunkBudget:     chunkBudget,
		MaxConcurrent:   concurrency,
		RateLimitPerMin: rateLimit,
		FallbackFPS:     fps,

		FFprobePath: "ffprobe",

		OpenRouterAPIKey:  apiKey,
		OpenRouterModel:   getenvDefault("OPENROUTER_MODEL", "z-ai/glm-4.5-air:free"),
		OpenRouterBaseURL: getenvDefault("OPENROUTER_BASE_URL", "https://openrouter.ai"),
		AdvisoryTimeout:   90 * time.Second,

		Log: log,
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return pipeline.Run(ctx, cfg)
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
