// Package app wires the gallery together: window input, shader host, bloom
// stage, HUD, snapshot export and the render loop.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/richinsley/goshadergallery/gallery"
	"github.com/richinsley/goshadergallery/graphics"
	"github.com/richinsley/goshadergallery/host"
	"github.com/richinsley/goshadergallery/loop"
	"github.com/richinsley/goshadergallery/pointer"
	"github.com/richinsley/goshadergallery/postfx"
	"github.com/richinsley/goshadergallery/recorder"
	"github.com/richinsley/goshadergallery/registry"
	"github.com/richinsley/goshadergallery/snapshot"
)

// Window is the platform window the gallery runs in.
type Window interface {
	graphics.Context
	// PixelRatio is framebuffer pixels per screen coordinate.
	PixelRatio() float64
	SetTitle(title string)
	ToggleFullscreen()
	SetKeyHandler(f func(gallery.Key))
	SetPointerHandler(f func(x, y float64))
	SetResizeHandler(f func())
}

// Surface is the GPU side: shader programs, bloom passes, the sized output
// target and presentation.
type Surface interface {
	host.Backend
	postfx.Passes
	snapshot.Renderer
	Present(lines []string, hudScale float64)
	ReadFrame(buf []byte) ([]byte, error)
}

type Config struct {
	Registry *registry.Registry
	Bloom    postfx.Settings
	// InitialShader is shown first; empty selects the first gallery entry.
	InitialShader   string
	ResolutionIndex int
	Sink            snapshot.Sink
	// FPS caps the frame rate; 0 renders on every callback.
	FPS int
}

type App struct {
	window   Window
	surface  Surface
	host     *host.Host
	stage    *postfx.Stage
	gallery  *gallery.Gallery
	tracker  pointer.Tracker
	exporter *snapshot.Exporter
	fps      int

	activatedAt float64
	resolution  host.Vec2
	exports     []<-chan error
	closed      bool
}

// New builds the gallery on window and surface and activates the initial shader.
func New(window Window, surface Surface, cfg Config) *App {
	a := &App{
		window:  window,
		surface: surface,
		host:    host.New(cfg.Registry, surface),
		fps:     cfg.FPS,
	}
	a.stage = postfx.New(a.host, surface)
	a.stage.Apply(cfg.Bloom)

	a.gallery = gallery.New(gallery.Options{
		Names:           a.host.ListNames(),
		BloomEnabled:    cfg.Bloom.Enabled,
		BloomStrength:   cfg.Bloom.Strength,
		ResolutionIndex: cfg.ResolutionIndex,
		OnSelect:        a.activate,
		OnBloomToggle:   a.stage.SetEnabled,
		OnBloomStrength: a.stage.SetStrength,
		OnFullscreen:    window.ToggleFullscreen,
		OnSnapshot:      a.snapshot,
	})

	a.exporter = &snapshot.Exporter{
		Renderer: surface,
		Pipeline: a.stage,
		Sink:     cfg.Sink,
		Refresh:  a.setResolution,
	}

	window.SetKeyHandler(a.gallery.HandleKey)
	window.SetPointerHandler(a.movePointer)
	window.SetResizeHandler(a.Resize)

	a.Resize()
	if cfg.InitialShader == "" || !a.gallery.SelectName(cfg.InitialShader) {
		if cfg.InitialShader != "" {
			log.Printf("Unknown shader %q, showing the first one", cfg.InitialShader)
		}
		a.gallery.Select(0)
	}
	return a
}

func (a *App) Gallery() *gallery.Gallery { return a.gallery }
func (a *App) Host() *host.Host          { return a.host }
func (a *App) Stage() *postfx.Stage      { return a.stage }

func (a *App) activate(name string) {
	ok, err := a.host.Activate(name)
	if err != nil {
		log.Printf("Failed to activate shader %s: %v", name, err)
		a.gallery.MarkFailed(name)
		return
	}
	if !ok {
		log.Printf("Unknown shader: %s", name)
		return
	}
	a.activatedAt = a.window.Time()
	a.window.SetTitle(fmt.Sprintf("%s - %s", gallery.Title, name))
	// The new shader may render at a different resolution scale.
	a.Resize()
}

// Resize sizes the surface to the window at the device pixel ratio times the
// active shader's resolution scale, then resizes the bloom stage and the
// resolution uniform to the resulting drawing buffer.
func (a *App) Resize() {
	winW, winH := a.window.GetWindowSize()
	ratio := a.window.PixelRatio() * a.host.CurrentResolutionScale()

	a.surface.SetPixelRatio(ratio)
	a.surface.SetSize(winW, winH)
	bufW, bufH := a.surface.DrawingBufferSize()
	a.stage.Resize(bufW, bufH)
	a.setResolution(bufW, bufH)
}

func (a *App) setResolution(width, height int) {
	a.resolution = host.Vec2{X: float64(width), Y: float64(height)}
	u := a.host.Uniforms()
	a.host.PushFrame(u.Time, a.resolution, u.Pointer)
}

// movePointer takes the cursor in screen coordinates. The pointer is reported
// in drawing-buffer pixels so it lines up with the resolution uniform.
func (a *App) movePointer(x, y float64) {
	winW, winH := a.window.GetWindowSize()
	rect := pointer.Rect{Width: float64(winW), Height: float64(winH)}
	a.tracker.Move(x, y, rect, a.surface.PixelRatio())
}

func (a *App) pointerPosition() host.Vec2 {
	p := a.tracker.Position()
	return host.Vec2{X: p.X, Y: p.Y}
}

// Frame renders and presents one frame.
func (a *App) Frame() {
	a.host.PushFrame(a.window.Time()-a.activatedAt, a.resolution, a.pointerPosition())
	a.stage.Render()
	a.surface.Present(a.gallery.Lines(), a.window.PixelRatio())
	a.window.SwapBuffers()
	a.collectExports(false)
}

func (a *App) snapshot(res snapshot.Resolution) {
	name, ok := a.host.CurrentName()
	if !ok {
		return
	}
	a.exports = append(a.exports, a.exporter.Export(name, res))
}

// collectExports logs finished exports. With wait set it blocks until all
// pending exports are done.
func (a *App) collectExports(wait bool) {
	pending := a.exports[:0]
	for _, done := range a.exports {
		if wait {
			if err := <-done; err != nil {
				log.Printf("Snapshot failed: %v", err)
			}
			continue
		}
		select {
		case err := <-done:
			if err != nil {
				log.Printf("Snapshot failed: %v", err)
			}
		default:
			pending = append(pending, done)
		}
	}
	if wait {
		pending = pending[:0]
	}
	a.exports = pending
}

type windowClock struct {
	w Window
}

func (c windowClock) Now() float64 { return c.w.Time() }

// Run drives the render loop until the window closes or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	l := &loop.Loop{
		Clock: windowClock{a.window},
		Frame: a.Frame,
		Idle:  a.window.PollEvents,
		Done:  a.window.ShouldClose,
	}
	if a.fps > 0 {
		l.Interval = 1 / float64(a.fps)
	}
	l.Run(ctx)
}

// recordSource renders the active shader at explicit times.
type recordSource struct {
	a *App
}

func (s recordSource) RenderFrame(t float64) {
	s.a.host.PushFrame(t, s.a.resolution, s.a.pointerPosition())
	s.a.stage.Render()
}

func (s recordSource) ReadFrame(buf []byte) ([]byte, error) {
	return s.a.surface.ReadFrame(buf)
}

// Record renders the active shader at width x height, ignoring the window
// size and the shader's resolution scale, and streams it to enc.
func (a *App) Record(ctx context.Context, width, height int, enc recorder.Encoder, s recorder.Settings) error {
	if _, ok := a.host.CurrentName(); !ok {
		return fmt.Errorf("no shader is active")
	}
	a.surface.SetPixelRatio(1)
	a.surface.SetSize(width, height)
	a.stage.Resize(width, height)
	a.setResolution(width, height)
	return recorder.Record(ctx, recordSource{a}, enc, s)
}

// Close waits for pending exports and releases the stage and every program.
func (a *App) Close() {
	if a.closed {
		return
	}
	a.closed = true
	a.collectExports(true)
	a.stage.Dispose()
	a.host.Dispose()
}
