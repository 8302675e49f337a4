package options

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func newFlagSet() (*flag.FlagSet, *GalleryOptions) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs, Register(fs)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gallery.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	fs, o := newFlagSet()
	if err := o.Parse(fs, nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if *o.Width != 1280 || *o.Height != 720 || *o.FPS != 0 || !*o.Bloom {
		t.Errorf("unexpected defaults: %dx%d fps=%d bloom=%v", *o.Width, *o.Height, *o.FPS, *o.Bloom)
	}
	if i, ok := o.ResolutionIndex(); !ok || i != 1 {
		t.Errorf("ResolutionIndex = %d, %v", i, ok)
	}
}

func TestConfigAppliesUnderFlags(t *testing.T) {
	path := writeConfig(t, `
width: 1920
fps: 30
shader: plasma
bloom:
  enabled: false
  strength: 1.5
export_resolution: 4K
record:
  output: clip.mp4
`)
	fs, o := newFlagSet()
	if err := o.Parse(fs, []string{"-config", path, "-width", "800"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if *o.Width != 800 {
		t.Errorf("width = %d, explicit flag should win", *o.Width)
	}
	if *o.FPS != 30 || *o.Shader != "plasma" || *o.Bloom || *o.BloomStrength != 1.5 {
		t.Errorf("config not applied: fps=%d shader=%s bloom=%v strength=%v", *o.FPS, *o.Shader, *o.Bloom, *o.BloomStrength)
	}
	if *o.OutputFile != "clip.mp4" {
		t.Errorf("output = %s", *o.OutputFile)
	}
	if i, _ := o.ResolutionIndex(); i != 2 {
		t.Errorf("ResolutionIndex = %d", i)
	}
}

func TestConfigRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "colour: red\n")
	fs, o := newFlagSet()
	if err := o.Parse(fs, []string{"-config", path}); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero width", []string{"-width", "0"}},
		{"negative fps", []string{"-fps", "-1"}},
		{"unknown resolution", []string{"-export-resolution", "8K"}},
		{"negative bloom", []string{"-bloom-radius", "-0.1"}},
		{"record without duration", []string{"-record", "-duration", "0"}},
		{"headless without record", []string{"-headless"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, o := newFlagSet()
			if err := o.Parse(fs, tt.args); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
