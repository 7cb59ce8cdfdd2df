package ffmpeg

import (
	"math"
	"testing"
)

func TestParseFrameRate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"30/1", 30, true},
		{"30000/1001", 29.97002997002997, true},
		{"25", 25, true},
		{" 24/1 ", 24, true},
		{"0/0", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"30/0", 0, false},
		{"-25/1", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseFrameRate(tc.in)
		if ok != tc.ok {
			t.Errorf("parseFrameRate(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if ok && math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("parseFrameRate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewDefaultsBinary(t *testing.T) {
	t.Parallel()

	if a := New(""); a.ffprobe != "ffprobe" {
		t.Fatalf("default binary = %q", a.ffprobe)
	}
	if a := New("/opt/ffprobe"); a.ffprobe != "/opt/ffprobe" {
		t.Fatalf("custom binary = %q", a.ffprobe)
	}
}
