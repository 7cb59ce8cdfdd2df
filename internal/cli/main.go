package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "smartcut <transcript.json>",
		Short:        "Turn a timed transcript into an AI-edited Premiere timeline",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	// Visible flags
	root.Flags().String("media", "", "Source media file the transcript was taken from (required)")
	root.Flags().String("out", "out", "Output directory")
	root.Flags().String("type", "general", "Video type: general, youtube_cuts, vsl, educational")
	root.Flags().String("instructions", "", "Custom editing instructions")
	root.Flags().String("language", "", "Transcript language hint")
	root.Flags().String("log-level", "info", "Log level: debug, info, warn, error")
	root.Flags().String("log-format", "console", "Log format: console, json")
	_ = root.MarkFlagRequired("media")

	// Hidden tuning flags (internal)
	root.Flags().Int("chunk-budget", 0, "Per-chunk advisory size budget in tokens")
	root.Flags().Int("concurrency", 2, "Max concurrent advisory calls")
	root.Flags().Int("rate-limit", 0, "Advisory requests per minute (0 = unlimited)")
	root.Flags().Float64("fps", 0, "Frame rate override for audio-only sources")
	_ = root.Flags().MarkHidden("chunk-budget")
	_ = root.Flags().MarkHidden("concurrency")
	_ = root.Flags().MarkHidden("rate-limit")
	_ = root.Flags().MarkHidden("fps")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
