// Package host owns the fullscreen quad, the compiled gallery programs and the
// per-frame uniforms.
//
// The UniformSet has exactly one writer and one reader per frame: the render
// loop writes it with PushFrame and Draw uploads it to the bound program in
// the same synchronous step. Nothing else reads it except snapshot export,
// which runs on the same thread between frames.
package host

import (
	"log"

	"github.com/richinsley/goshadergallery/dialect"
	"github.com/richinsley/goshadergallery/registry"
	"github.com/richinsley/goshadergallery/shader"
)

// Vec2 is a 2-component float vector.
type Vec2 struct {
	X, Y float64
}

// UniformSet holds the values uploaded to the active program every frame.
type UniformSet struct {
	// Time is seconds since the active shader was activated.
	Time float64
	// Resolution is the render resolution in device pixels.
	Resolution Vec2
	// Pointer is in device pixels with a bottom-left origin.
	Pointer Vec2
}

// Program is a linked GPU program bound to the three shared uniform slots.
type Program interface {
	Upload(u *UniformSet)
	Release()
}

// Backend builds programs and draws the fullscreen quad.
type Backend interface {
	// Compile translates, compiles and links WebGL2 vertex and fragment sources.
	Compile(name, vertex, fragment string) (Program, error)
	// Bind makes p the quad's material.
	Bind(p Program)
	DrawQuad()
	ReleaseQuad()
}

type Host struct {
	registry *registry.Registry
	backend  Backend
	programs map[string]Program
	current  string
	active   bool
	uniforms UniformSet
	disposed bool
}

func New(reg *registry.Registry, backend Backend) *Host {
	return &Host{
		registry: reg,
		backend:  backend,
		programs: make(map[string]Program),
	}
}

// ListNames returns the gallery order.
func (h *Host) ListNames() []string {
	return h.registry.Names()
}

// Activate makes name the current shader, compiling it on first use.
// An unknown name returns false with no state change. A compile or link
// failure returns the error, also with no state change.
func (h *Host) Activate(name string) (bool, error) {
	entry, ok := h.registry.Get(name)
	if !ok {
		return false, nil
	}

	program, cached := h.programs[name]
	if !cached {
		vertex := shader.GalleryVertexShader("")
		if entry.Vertex != "" {
			vertex = shader.GalleryVertexShader(dialect.AdaptVertex(entry.Vertex))
		}
		fragment := shader.GalleryFragmentShader(dialect.Adapt(entry.Fragment))

		var err error
		program, err = h.backend.Compile(name, vertex, fragment)
		if err != nil {
			return false, err
		}
		h.programs[name] = program
		log.Printf("Compiled shader: %s", name)
	}

	h.backend.Bind(program)
	h.uniforms.Time = 0
	h.current = name
	h.active = true
	return true, nil
}

// CurrentName returns the active shader name, if any.
func (h *Host) CurrentName() (string, bool) {
	return h.current, h.active
}

// CurrentResolutionScale returns the active shader's scale, or 1 if none is active.
func (h *Host) CurrentResolutionScale() float64 {
	if !h.active {
		return 1
	}
	entry, _ := h.registry.Get(h.current)
	return entry.ResolutionScale
}

// PushFrame overwrites the uniform set. Values pass through unchanged.
func (h *Host) PushFrame(time float64, resolution, pointer Vec2) {
	h.uniforms.Time = time
	h.uniforms.Resolution = resolution
	h.uniforms.Pointer = pointer
}

// Uniforms returns a copy of the last pushed uniform set.
func (h *Host) Uniforms() UniformSet {
	return h.uniforms
}

// Draw uploads the uniform set to the active program and draws the quad.
// It does nothing before the first successful activation.
func (h *Host) Draw() {
	if !h.active {
		return
	}
	h.programs[h.current].Upload(&h.uniforms)
	h.backend.DrawQuad()
}

// Dispose releases every cached program and the quad. Safe to call twice.
func (h *Host) Dispose() {
	if h.disposed {
		return
	}
	h.disposed = true
	for name, p := range h.programs {
		p.Release()
		delete(h.programs, name)
	}
	h.backend.ReleaseQuad()
	h.active = false
	h.current = ""
}
