package options

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/richinsley/goshadergallery/snapshot"
	"gopkg.in/yaml.v2"
)

type GalleryOptions struct {
	ConfigFile *string
	Help       *bool

	Width      *int
	Height     *int
	Fullscreen *bool
	Shader     *string
	AssetsDir  *string // Directory with a manifest.yaml overriding the built-in shaders
	FPS        *int    // Frame cap for the throttled loop, 0 renders every display refresh

	Bloom          *bool
	BloomStrength  *float64
	BloomRadius    *float64
	BloomThreshold *float64

	SnapshotDir      *string
	ExportResolution *string

	Record     *bool
	Headless   *bool // Record on an EGL pbuffer instead of a hidden window
	Duration   *float64
	OutputFile *string
	FFMPEGPath *string
}

// Register binds every option to a flag on fs.
func Register(fs *flag.FlagSet) *GalleryOptions {
	return &GalleryOptions{
		ConfigFile: fs.String("config", "", "YAML file with option defaults; explicit flags take precedence"),
		Help:       fs.Bool("help", false, "Show help message"),

		Width:      fs.Int("width", 1280, "Window width"),
		Height:     fs.Int("height", 720, "Window height"),
		Fullscreen: fs.Bool("fullscreen", false, "Start fullscreen on the primary monitor"),
		Shader:     fs.String("shader", "", "Shader to show first (defaults to the first in the gallery)"),
		AssetsDir:  fs.String("assets", "", "Directory containing manifest.yaml and shader sources"),
		FPS:        fs.Int("fps", 0, "Frame rate cap, 0 for uncapped"),

		Bloom:          fs.Bool("bloom", true, "Enable bloom"),
		BloomStrength:  fs.Float64("bloom-strength", 0.5, "Bloom strength"),
		BloomRadius:    fs.Float64("bloom-radius", 0.4, "Bloom radius"),
		BloomThreshold: fs.Float64("bloom-threshold", 0.8, "Bloom luminance threshold"),

		SnapshotDir:      fs.String("snapshot-dir", ".", "Directory snapshots are written to"),
		ExportResolution: fs.String("export-resolution", "1080p", "Initial snapshot resolution: Native, 1080p or 4K"),

		Record:     fs.Bool("record", false, "Record the selected shader to a video file and exit"),
		Headless:   fs.Bool("headless", false, "Record without a display using an EGL pbuffer (Linux only)"),
		Duration:   fs.Float64("duration", 10.0, "Duration to record in seconds"),
		OutputFile: fs.String("output", "output.mp4", "Output file name for recording"),
		FFMPEGPath: fs.String("ffmpeg", "", "Path to ffmpeg executable"),
	}
}

// Config mirrors the options as they appear in a config file.
type Config struct {
	Width      *int    `yaml:"width"`
	Height     *int    `yaml:"height"`
	Fullscreen *bool   `yaml:"fullscreen"`
	Shader     *string `yaml:"shader"`
	AssetsDir  *string `yaml:"assets"`
	FPS        *int    `yaml:"fps"`

	Bloom struct {
		Enabled   *bool    `yaml:"enabled"`
		Strength  *float64 `yaml:"strength"`
		Radius    *float64 `yaml:"radius"`
		Threshold *float64 `yaml:"threshold"`
	} `yaml:"bloom"`

	SnapshotDir      *string `yaml:"snapshot_dir"`
	ExportResolution *string `yaml:"export_resolution"`

	Record struct {
		Headless *bool    `yaml:"headless"`
		Duration *float64 `yaml:"duration"`
		Output   *string  `yaml:"output"`
		FFMPEG   *string  `yaml:"ffmpeg"`
	} `yaml:"record"`
}

// flagValues returns the config entries that are set, keyed by flag name.
func (c *Config) flagValues() map[string]string {
	out := make(map[string]string)
	setInt := func(name string, v *int) {
		if v != nil {
			out[name] = strconv.Itoa(*v)
		}
	}
	setFloat := func(name string, v *float64) {
		if v != nil {
			out[name] = strconv.FormatFloat(*v, 'g', -1, 64)
		}
	}
	setBool := func(name string, v *bool) {
		if v != nil {
			out[name] = strconv.FormatBool(*v)
		}
	}
	setString := func(name string, v *string) {
		if v != nil {
			out[name] = *v
		}
	}

	setInt("width", c.Width)
	setInt("height", c.Height)
	setBool("fullscreen", c.Fullscreen)
	setString("shader", c.Shader)
	setString("assets", c.AssetsDir)
	setInt("fps", c.FPS)
	setBool("bloom", c.Bloom.Enabled)
	setFloat("bloom-strength", c.Bloom.Strength)
	setFloat("bloom-radius", c.Bloom.Radius)
	setFloat("bloom-threshold", c.Bloom.Threshold)
	setString("snapshot-dir", c.SnapshotDir)
	setString("export-resolution", c.ExportResolution)
	setBool("headless", c.Record.Headless)
	setFloat("duration", c.Record.Duration)
	setString("output", c.Record.Output)
	setString("ffmpeg", c.Record.FFMPEG)
	return out
}

// LoadConfig reads a YAML config file. Unknown keys are an error.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var c Config
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &c, nil
}

// Parse parses args into fs, applies the config file named by -config to every
// flag not given explicitly, and validates the result.
func (o *GalleryOptions) Parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *o.ConfigFile != "" {
		c, err := LoadConfig(*o.ConfigFile)
		if err != nil {
			return err
		}
		explicit := make(map[string]bool)
		fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		for name, value := range c.flagValues() {
			if explicit[name] {
				continue
			}
			if err := fs.Set(name, value); err != nil {
				return fmt.Errorf("config %s: invalid %s: %w", *o.ConfigFile, name, err)
			}
		}
	}

	return o.Validate()
}

func (o *GalleryOptions) Validate() error {
	if *o.Width <= 0 || *o.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", *o.Width, *o.Height)
	}
	if *o.FPS < 0 {
		return fmt.Errorf("invalid fps %d", *o.FPS)
	}
	if *o.BloomStrength < 0 || *o.BloomRadius < 0 || *o.BloomThreshold < 0 {
		return fmt.Errorf("bloom settings must not be negative")
	}
	if _, ok := o.ResolutionIndex(); !ok {
		return fmt.Errorf("unknown export resolution %q", *o.ExportResolution)
	}
	if *o.Headless && !*o.Record {
		return fmt.Errorf("-headless only applies to -record")
	}
	if *o.Record && *o.Duration <= 0 {
		return fmt.Errorf("invalid recording duration %v", *o.Duration)
	}
	return nil
}

// ResolutionIndex returns the position of ExportResolution in snapshot.Resolutions.
func (o *GalleryOptions) ResolutionIndex() (int, bool) {
	for i, r := range snapshot.Resolutions {
		if r.Label == *o.ExportResolution {
			return i, true
		}
	}
	return 0, false
}
