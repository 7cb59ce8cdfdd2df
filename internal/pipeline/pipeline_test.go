package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNormalizePathSegment(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"My Talk (final).mp4", "my-talk-final-mp4"},
		{"  spaced  out  ", "spaced-out"},
		{"___", ""},
		{"Já_Vídeo", "já-vídeo"},
		{"simple", "simple"},
	}
	for _, tc := range cases {
		if got := normalizePathSegment(tc.in); got != tc.want {
			t.Errorf("normalizePathSegment(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildRunOutDir(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	dir := buildRunOutDir("out", "/videos/My Talk.mp4", now)

	if !strings.HasPrefix(dir, filepath.Join("out", "my-talk-20250314-092653Z-")) {
		t.Fatalf("unexpected run dir %q", dir)
	}
	suffix := dir[strings.LastIndex(dir, "-")+1:]
	if len(suffix) != 6 {
		t.Fatalf("hash suffix %q should be 6 chars", suffix)
	}

	// Same instant and path produce the same directory.
	if again := buildRunOutDir("out", "/videos/My Talk.mp4", now); again != dir {
		t.Fatalf("run dir not deterministic: %q vs %q", again, dir)
	}
	// A different source lands elsewhere even at the same instant.
	if other := buildRunOutDir("out", "/videos/Other.mp4", now); other == dir {
		t.Fatalf("distinct media mapped to the same run dir")
	}
}

func TestBuildRunOutDir_EmptyName(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	dir := buildRunOutDir("out", "/videos/---.mp4", now)
	if !strings.HasPrefix(dir, filepath.Join("out", "input-")) {
		t.Fatalf("empty normalized name should fall back to input: %q", dir)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	transcript := filepath.Join(tmp, "t.json")
	media := filepath.Join(tmp, "v.mp4")
	for _, p := range []string{transcript, media} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	valid := Config{
		TranscriptPath:    transcript,
		MediaPath:         media,
		OpenRouterBaseURL: "https://openrouter.ai",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"missing transcript", func(c *Config) { c.TranscriptPath = filepath.Join(tmp, "nope.json") }, "stat transcript"},
		{"empty transcript path", func(c *Config) { c.TranscriptPath = "" }, "transcript path"},
		{"missing media", func(c *Config) { c.MediaPath = filepath.Join(tmp, "nope.mp4") }, "stat media"},
		{"negative concurrency", func(c *Config) { c.MaxConcurrent = -1 }, "max concurrent"},
		{"negative rate limit", func(c *Config) { c.RateLimitPerMin = -2 }, "rate limit"},
		{"http base url", func(c *Config) { c.OpenRouterBaseURL = "http://openrouter.ai" }, "https is required"},
		{"foreign host", func(c *Config) { c.OpenRouterBaseURL = "https://evil.example.com" }, "OPENROUTER_ALLOWED_HOSTS"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("error = %v, want %q", err, tc.wantSub)
			}
		})
	}

	// A custom allowlist admits a proxy host.
	cfg := valid
	cfg.OpenRouterBaseURL = "https://llm-proxy.internal"
	cfg.OpenRouterAllowedHosts = []string{"llm-proxy.internal"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("allowlisted host rejected: %v", err)
	}
}
