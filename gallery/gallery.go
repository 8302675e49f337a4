// Package gallery is the controller behind the gallery overlay: shader
// selection, bloom controls, export menu and keyboard shortcuts. It holds no
// rendering state of its own; every change is forwarded through callbacks.
package gallery

import (
	"fmt"
	"math"

	"github.com/richinsley/goshadergallery/snapshot"
)

// Key is a gallery keyboard shortcut.
type Key int

const (
	KeyUnknown Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyH
	KeyS
	KeyB
	KeyR
	KeyF
)

const (
	Title = "Shader Thoughts"
	// ShowHint is the only text shown while the overlay is hidden.
	ShowHint = "Press H to show UI"

	MinStrength  = 0.0
	MaxStrength  = 2.0
	StrengthStep = 0.1
)

type Options struct {
	Names []string
	// Initial bloom state shown by the controls.
	BloomEnabled  bool
	BloomStrength float64
	// ResolutionIndex selects the initial export resolution.
	ResolutionIndex int

	OnSelect        func(name string)
	OnBloomToggle   func(enabled bool)
	OnBloomStrength func(strength float64)
	OnFullscreen    func()
	OnSnapshot      func(res snapshot.Resolution)
}

type Gallery struct {
	opts          Options
	index         int
	visible       bool
	bloomEnabled  bool
	bloomStrength float64
	resIndex      int
	failed        map[string]bool
}

func New(opts Options) *Gallery {
	g := &Gallery{
		opts:          opts,
		visible:       true,
		bloomEnabled:  opts.BloomEnabled,
		bloomStrength: opts.BloomStrength,
		failed:        make(map[string]bool),
	}
	if opts.ResolutionIndex >= 0 && opts.ResolutionIndex < len(snapshot.Resolutions) {
		g.resIndex = opts.ResolutionIndex
	}
	return g
}

// Select activates the shader at index i. Out of range indexes are ignored.
func (g *Gallery) Select(i int) {
	if i < 0 || i >= len(g.opts.Names) {
		return
	}
	g.index = i
	if g.opts.OnSelect != nil {
		g.opts.OnSelect(g.opts.Names[i])
	}
}

// SelectName activates the shader called name, if it is in the gallery.
func (g *Gallery) SelectName(name string) bool {
	for i, n := range g.opts.Names {
		if n == name {
			g.Select(i)
			return true
		}
	}
	return false
}

// Navigate moves the selection by dir, wrapping at both ends.
func (g *Gallery) Navigate(dir int) {
	n := len(g.opts.Names)
	if n == 0 {
		return
	}
	g.Select(((g.index+dir)%n + n) % n)
}

func (g *Gallery) Index() int { return g.index }

// MarkFailed flags name as unable to compile. The overlay keeps listing it
// but shows that the previous shader is still on screen.
func (g *Gallery) MarkFailed(name string) { g.failed[name] = true }

func (g *Gallery) Failed(name string) bool { return g.failed[name] }

// Current returns the selected shader name.
func (g *Gallery) Current() string {
	if len(g.opts.Names) == 0 {
		return ""
	}
	return g.opts.Names[g.index]
}

// Counter returns "current / total", counting from one.
func (g *Gallery) Counter() string {
	return fmt.Sprintf("%d / %d", g.index+1, len(g.opts.Names))
}

func (g *Gallery) ToggleUI() { g.visible = !g.visible }

func (g *Gallery) Visible() bool { return g.visible }

// Hint returns the "press H" hint while the overlay is hidden.
func (g *Gallery) Hint() string {
	if g.visible {
		return ""
	}
	return ShowHint
}

func (g *Gallery) SetBloomEnabled(enabled bool) {
	g.bloomEnabled = enabled
	if g.opts.OnBloomToggle != nil {
		g.opts.OnBloomToggle(enabled)
	}
}

func (g *Gallery) BloomEnabled() bool { return g.bloomEnabled }

// SetBloomStrength moves the strength slider. The value is clamped to the
// slider range and snapped to its step.
func (g *Gallery) SetBloomStrength(v float64) {
	v = math.Max(MinStrength, math.Min(MaxStrength, v))
	v = math.Round(v/StrengthStep) * StrengthStep
	g.bloomStrength = v
	if g.opts.OnBloomStrength != nil {
		g.opts.OnBloomStrength(v)
	}
}

// StepBloomStrength moves the slider by dir steps.
func (g *Gallery) StepBloomStrength(dir int) {
	g.SetBloomStrength(g.bloomStrength + float64(dir)*StrengthStep)
}

func (g *Gallery) BloomStrength() float64 { return g.bloomStrength }

// SelectResolution picks the export resolution from snapshot.Resolutions.
func (g *Gallery) SelectResolution(i int) {
	if i < 0 || i >= len(snapshot.Resolutions) {
		return
	}
	g.resIndex = i
}

func (g *Gallery) CycleResolution() {
	g.resIndex = (g.resIndex + 1) % len(snapshot.Resolutions)
}

func (g *Gallery) Resolution() snapshot.Resolution {
	return snapshot.Resolutions[g.resIndex]
}

// TriggerSnapshot hides the overlay, requests an export at the selected
// resolution and shows the overlay again if it was visible.
func (g *Gallery) TriggerSnapshot() {
	if g.opts.OnSnapshot == nil {
		return
	}
	wasVisible := g.visible
	g.visible = false
	g.opts.OnSnapshot(g.Resolution())
	g.visible = wasVisible
}

func (g *Gallery) Fullscreen() {
	if g.opts.OnFullscreen != nil {
		g.opts.OnFullscreen()
	}
}

// HandleKey dispatches a keyboard shortcut.
func (g *Gallery) HandleKey(k Key) {
	switch k {
	case KeyLeft:
		g.Navigate(-1)
	case KeyRight:
		g.Navigate(1)
	case KeyH:
		g.ToggleUI()
	case KeyS:
		g.TriggerSnapshot()
	case KeyB:
		g.SetBloomEnabled(!g.bloomEnabled)
	case KeyUp:
		g.StepBloomStrength(1)
	case KeyDown:
		g.StepBloomStrength(-1)
	case KeyR:
		g.CycleResolution()
	case KeyF:
		g.Fullscreen()
	}
}

// Lines returns the overlay text.
func (g *Gallery) Lines() []string {
	if !g.visible {
		return []string{ShowHint}
	}

	lines := make([]string, 0, len(g.opts.Names)+6)
	lines = append(lines, Title, "")
	for i, name := range g.opts.Names {
		marker := "  "
		if i == g.index {
			marker = "> "
		}
		line := marker + name
		if g.failed[name] {
			line += " (failed to compile)"
		}
		lines = append(lines, line)
	}

	bloom := "off"
	if g.bloomEnabled {
		bloom = "on"
	}
	lines = append(lines,
		"",
		fmt.Sprintf("<- %s ->", g.Counter()),
		fmt.Sprintf("Bloom [B]: %s  strength [Up/Down]: %.1f", bloom, g.bloomStrength),
		fmt.Sprintf("Snapshot [S]: %s [R]  Fullscreen [F]", g.Resolution().Label),
		"Press H to hide UI",
	)
	return lines
}
