package postfx

// Settings are the bloom parameters.
type Settings struct {
	Enabled   bool    `yaml:"enabled"`
	Strength  float64 `yaml:"strength"`
	Radius    float64 `yaml:"radius"`
	Threshold float64 `yaml:"threshold"`
}

// DefaultSettings matches the gallery's initial bloom look.
var DefaultSettings = Settings{
	Enabled:   true,
	Strength:  0.5,
	Radius:    0.4,
	Threshold: 0.8,
}

// Scene draws the base image.
type Scene interface {
	Draw()
}

// Passes is the GPU side of the stage.
type Passes interface {
	// Resize reallocates the render targets.
	Resize(width, height int)
	// BeginScene binds the target the scene draws into.
	BeginScene()
	// Finish runs bloom (if enabled) and composites into the output target.
	Finish(s Settings)
	Destroy()
}

// Stage wraps the base render with a bloom pass.
type Stage struct {
	scene    Scene
	passes   Passes
	settings Settings
	width    int
	height   int
	disposed bool
}

func New(scene Scene, passes Passes) *Stage {
	return &Stage{
		scene:    scene,
		passes:   passes,
		settings: DefaultSettings,
	}
}

func (s *Stage) SetEnabled(enabled bool)      { s.settings.Enabled = enabled }
func (s *Stage) SetStrength(strength float64) { s.settings.Strength = strength }
func (s *Stage) SetRadius(radius float64)     { s.settings.Radius = radius }
func (s *Stage) SetThreshold(t float64)       { s.settings.Threshold = t }

// Settings returns the current bloom parameters.
func (s *Stage) Settings() Settings { return s.settings }

// Apply replaces all bloom parameters at once.
func (s *Stage) Apply(settings Settings) { s.settings = settings }

// Resize must follow every change of the render surface or its resolution scale.
func (s *Stage) Resize(width, height int) {
	s.width, s.height = width, height
	s.passes.Resize(width, height)
}

func (s *Stage) Size() (int, int) { return s.width, s.height }

// Render draws one frame through the base pass and then the bloom pass.
func (s *Stage) Render() {
	s.passes.BeginScene()
	s.scene.Draw()
	s.passes.Finish(s.settings)
}

func (s *Stage) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.passes.Destroy()
}
