package app

import (
	"context"
	"errors"
	"image"
	"math"
	"sync"
	"testing"

	"github.com/richinsley/goshadergallery/gallery"
	"github.com/richinsley/goshadergallery/host"
	"github.com/richinsley/goshadergallery/postfx"
	"github.com/richinsley/goshadergallery/recorder"
	"github.com/richinsley/goshadergallery/registry"
	"github.com/richinsley/goshadergallery/snapshot"
)

type fakeWindow struct {
	now         float64
	winW, winH  int
	ratio       float64
	title       string
	fullscreens int
	swaps       int
	closeAfter  int
	onKey       func(gallery.Key)
	onPointer   func(x, y float64)
	onResize    func()
	pollWaits   []float64
}

func (w *fakeWindow) MakeCurrent()      {}
func (w *fakeWindow) Shutdown()         {}
func (w *fakeWindow) ShouldClose() bool { return w.closeAfter > 0 && w.swaps >= w.closeAfter }
func (w *fakeWindow) SwapBuffers()      { w.swaps++ }
func (w *fakeWindow) PollEvents(wait float64) {
	w.pollWaits = append(w.pollWaits, wait)
	w.now += 0.01
}
func (w *fakeWindow) GetFramebufferSize() (int, int) {
	return int(float64(w.winW) * w.ratio), int(float64(w.winH) * w.ratio)
}
func (w *fakeWindow) GetWindowSize() (int, int)              { return w.winW, w.winH }
func (w *fakeWindow) Time() float64                          { return w.now }
func (w *fakeWindow) IsGLES() bool                           { return false }
func (w *fakeWindow) PixelRatio() float64                    { return w.ratio }
func (w *fakeWindow) SetTitle(title string)                  { w.title = title }
func (w *fakeWindow) ToggleFullscreen()                      { w.fullscreens++ }
func (w *fakeWindow) SetKeyHandler(f func(gallery.Key))      { w.onKey = f }
func (w *fakeWindow) SetPointerHandler(f func(x, y float64)) { w.onPointer = f }
func (w *fakeWindow) SetResizeHandler(f func())              { w.onResize = f }

type fakeProgram struct {
	name     string
	uploads  []host.UniformSet
	released bool
}

func (p *fakeProgram) Upload(u *host.UniformSet) { p.uploads = append(p.uploads, *u) }
func (p *fakeProgram) Release()                  { p.released = true }

type fakeSurface struct {
	w, h     int
	ratio    float64
	bound    *fakeProgram
	programs map[string]*fakeProgram
	failing  map[string]bool

	resizes   [][2]int
	finishes  []postfx.Settings
	presented [][]string
	destroyed bool
	released  bool
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{ratio: 1, programs: map[string]*fakeProgram{}, failing: map[string]bool{}}
}

func (s *fakeSurface) Compile(name, vertex, fragment string) (host.Program, error) {
	if s.failing[name] {
		return nil, errors.New("syntax error")
	}
	p := &fakeProgram{name: name}
	s.programs[name] = p
	return p, nil
}
func (s *fakeSurface) Bind(p host.Program)            { s.bound = p.(*fakeProgram) }
func (s *fakeSurface) DrawQuad()                      {}
func (s *fakeSurface) ReleaseQuad()                   { s.released = true }
func (s *fakeSurface) Resize(w, h int)                { s.resizes = append(s.resizes, [2]int{w, h}) }
func (s *fakeSurface) BeginScene()                    {}
func (s *fakeSurface) Finish(st postfx.Settings)      { s.finishes = append(s.finishes, st) }
func (s *fakeSurface) Destroy()                       { s.destroyed = true }
func (s *fakeSurface) Size() (int, int)               { return s.w, s.h }
func (s *fakeSurface) PixelRatio() float64            { return s.ratio }
func (s *fakeSurface) SetPixelRatio(r float64)        { s.ratio = r }
func (s *fakeSurface) SetSize(w, h int)               { s.w, s.h = w, h }
func (s *fakeSurface) Present(l []string, _ float64) { s.presented = append(s.presented, l) }
func (s *fakeSurface) DrawingBufferSize() (int, int) {
	return int(math.Round(float64(s.w) * s.ratio)), int(math.Round(float64(s.h) * s.ratio))
}
func (s *fakeSurface) ReadPixels() (*image.RGBA, error) {
	w, h := s.DrawingBufferSize()
	return image.NewRGBA(image.Rect(0, 0, w, h)), nil
}
func (s *fakeSurface) ReadFrame(buf []byte) ([]byte, error) {
	w, h := s.DrawingBufferSize()
	return make([]byte, w*h*4), nil
}

type memSink struct {
	mu    sync.Mutex
	names []string
}

func (m *memSink) Save(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names = append(m.names, name)
	return nil
}

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.New(
		registry.Entry{Name: "plasma", Fragment: "void main() { fragColor = vec4(1.0); }"},
		registry.Entry{Name: "blackhole", Fragment: "void main() { fragColor = vec4(0.0); }", ResolutionScale: 0.5},
		registry.Entry{Name: "broken", Fragment: "void main() {"},
	)
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func newTestApp(t *testing.T, cfg Config) (*App, *fakeWindow, *fakeSurface) {
	t.Helper()
	w := &fakeWindow{winW: 800, winH: 600, ratio: 2, now: 5}
	s := newFakeSurface()
	s.failing["broken"] = true
	cfg.Registry = testRegistry(t)
	if cfg.Sink == nil {
		cfg.Sink = &memSink{}
	}
	return New(w, s, cfg), w, s
}

func TestStartupActivatesFirstShader(t *testing.T) {
	a, w, s := newTestApp(t, Config{Bloom: postfx.DefaultSettings})
	if name, ok := a.Host().CurrentName(); !ok || name != "plasma" {
		t.Fatalf("current = %q, %v", name, ok)
	}
	if w.title != "Shader Thoughts - plasma" {
		t.Errorf("title = %q", w.title)
	}
	if w.onKey == nil || w.onPointer == nil || w.onResize == nil {
		t.Error("window handlers not registered")
	}
	last := s.resizes[len(s.resizes)-1]
	if last != [2]int{1600, 1200} {
		t.Errorf("stage sized %v, want 1600x1200", last)
	}
	if res := a.Host().Uniforms().Resolution; res != (host.Vec2{X: 1600, Y: 1200}) {
		t.Errorf("resolution uniform = %v", res)
	}
}

func TestInitialShaderByName(t *testing.T) {
	a, _, _ := newTestApp(t, Config{InitialShader: "blackhole"})
	if a.Gallery().Current() != "blackhole" {
		t.Errorf("current = %s", a.Gallery().Current())
	}
	a, _, _ = newTestApp(t, Config{InitialShader: "missing"})
	if a.Gallery().Current() != "plasma" {
		t.Errorf("unknown initial shader: current = %s", a.Gallery().Current())
	}
}

func TestSelectionAppliesResolutionScale(t *testing.T) {
	a, w, s := newTestApp(t, Config{})
	w.onKey(gallery.KeyRight)

	if name, _ := a.Host().CurrentName(); name != "blackhole" {
		t.Fatalf("current = %s", name)
	}
	if s.ratio != 1 {
		t.Errorf("pixel ratio = %v, want 2 * 0.5", s.ratio)
	}
	if last := s.resizes[len(s.resizes)-1]; last != [2]int{800, 600} {
		t.Errorf("stage sized %v, want 800x600", last)
	}
	if w, h := s.Size(); w != 800 || h != 600 {
		t.Errorf("logical size changed to %dx%d", w, h)
	}
}

func TestFramePushesElapsedSinceActivation(t *testing.T) {
	a, w, s := newTestApp(t, Config{})
	w.now = 7.5
	a.Frame()

	p := s.programs["plasma"]
	if len(p.uploads) != 1 {
		t.Fatalf("uploads = %d", len(p.uploads))
	}
	if got := p.uploads[0].Time; got != 2.5 {
		t.Errorf("time = %v, want 2.5", got)
	}
	if w.swaps != 1 || len(s.presented) != 1 {
		t.Errorf("swaps=%d presents=%d", w.swaps, len(s.presented))
	}

	w.onKey(gallery.KeyRight)
	w.now = 8
	a.Frame()
	if got := s.programs["blackhole"].uploads[0].Time; got != 0.5 {
		t.Errorf("time after switch = %v, want 0.5", got)
	}
}

func TestCompileFailureKeepsPreviousShader(t *testing.T) {
	a, w, _ := newTestApp(t, Config{})
	w.onKey(gallery.KeyLeft) // wraps to "broken"
	if name, _ := a.Host().CurrentName(); name != "plasma" {
		t.Errorf("current = %s, want plasma", name)
	}
	if w.title != "Shader Thoughts - plasma" {
		t.Errorf("title = %q", w.title)
	}
	if !a.Gallery().Failed("broken") || a.Gallery().Failed("plasma") {
		t.Error("compile failure not flagged on the gallery")
	}
	found := false
	for _, l := range a.Gallery().Lines() {
		if l == "> broken (failed to compile)" {
			found = true
		}
	}
	if !found {
		t.Errorf("lines = %q", a.Gallery().Lines())
	}
}

func TestWindowResizeUpdatesResolution(t *testing.T) {
	tests := []struct {
		name       string
		shader     string
		winW, winH int
		ratio      float64
		bufW, bufH int
	}{
		{"full scale", "plasma", 1000, 500, 2, 2000, 1000},
		{"half scale", "blackhole", 1000, 500, 2, 1000, 500},
		{"ratio one", "plasma", 640, 360, 1, 640, 360},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, w, s := newTestApp(t, Config{InitialShader: tt.shader})
			w.winW, w.winH, w.ratio = tt.winW, tt.winH, tt.ratio
			w.onResize()
			a.Frame()

			if sw, sh := s.Size(); sw != tt.winW || sh != tt.winH {
				t.Errorf("surface size = %dx%d, want %dx%d", sw, sh, tt.winW, tt.winH)
			}
			want := [2]int{tt.bufW, tt.bufH}
			if last := s.resizes[len(s.resizes)-1]; last != want {
				t.Errorf("stage sized %v, want %v", last, want)
			}
			uploads := s.programs[tt.shader].uploads
			if len(uploads) == 0 {
				t.Fatal("no uploads")
			}
			got := uploads[len(uploads)-1].Resolution
			if got != (host.Vec2{X: float64(tt.bufW), Y: float64(tt.bufH)}) {
				t.Errorf("resolution uniform = %v, want %v", got, want)
			}
		})
	}
}

func TestPointerInDrawingBufferPixels(t *testing.T) {
	a, w, s := newTestApp(t, Config{})
	w.onPointer(100, 50)
	a.Frame()
	got := s.programs["plasma"].uploads[0].Pointer
	if got != (host.Vec2{X: 200, Y: 1100}) {
		t.Errorf("pointer = %v, want {200 1100}", got)
	}
}

func TestBloomKeys(t *testing.T) {
	a, w, s := newTestApp(t, Config{Bloom: postfx.DefaultSettings})
	w.onKey(gallery.KeyB)
	w.onKey(gallery.KeyUp)
	a.Frame()
	got := s.finishes[len(s.finishes)-1]
	if got.Enabled {
		t.Error("bloom still enabled")
	}
	if math.Abs(got.Strength-0.6) > 1e-9 {
		t.Errorf("strength = %v", got.Strength)
	}
	w.onKey(gallery.KeyF)
	if w.fullscreens != 1 {
		t.Error("fullscreen not toggled")
	}
}

func TestSnapshotKeyExportsAndRestores(t *testing.T) {
	sink := &memSink{}
	a, w, s := newTestApp(t, Config{Sink: sink, ResolutionIndex: 1})
	before := len(s.resizes)

	w.onKey(gallery.KeyS)
	a.Close()

	if len(sink.names) != 1 {
		t.Fatalf("saved %d files", len(sink.names))
	}
	resizes := s.resizes[before:]
	if len(resizes) < 2 || resizes[0] != [2]int{1920, 1080} || resizes[1] != [2]int{1600, 1200} {
		t.Errorf("resizes = %v", resizes)
	}
	if s.ratio != 2 {
		t.Errorf("pixel ratio not restored: %v", s.ratio)
	}
	if res := a.Host().Uniforms().Resolution; res != (host.Vec2{X: 1600, Y: 1200}) {
		t.Errorf("resolution uniform = %v", res)
	}
}

func TestRunThrottled(t *testing.T) {
	a, w, s := newTestApp(t, Config{FPS: 20})
	w.closeAfter = 3
	a.Run(context.Background())
	if w.swaps != 3 {
		t.Errorf("swaps = %d", w.swaps)
	}
	// Polling advances the clock by 10ms, so the loop idles between frames.
	skipped := 0
	for _, wait := range w.pollWaits {
		if wait > 0 {
			skipped++
		}
	}
	if skipped == 0 {
		t.Error("throttled loop never waited")
	}
	if len(s.presented) != 3 {
		t.Errorf("presented %d frames", len(s.presented))
	}
}

type countEncoder struct{ frames int }

func (e *countEncoder) Encode(frames <-chan *recorder.Frame) error {
	for range frames {
		e.frames++
	}
	return nil
}

func TestRecord(t *testing.T) {
	a, _, s := newTestApp(t, Config{})
	enc := &countEncoder{}
	if err := a.Record(context.Background(), 320, 240, enc, recorder.Settings{Duration: 1, FPS: 5}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if enc.frames != 5 {
		t.Errorf("encoded %d frames", enc.frames)
	}
	if last := s.resizes[len(s.resizes)-1]; last != [2]int{320, 240} {
		t.Errorf("stage sized %v", last)
	}
}

func TestCloseReleasesEverything(t *testing.T) {
	a, _, s := newTestApp(t, Config{})
	a.Close()
	a.Close()
	if !s.destroyed || !s.released || !s.programs["plasma"].released {
		t.Error("resources not released")
	}
}

var _ snapshot.Sink = (*memSink)(nil)
